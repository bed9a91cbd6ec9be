package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The server matches fields case-sensitively, so the exact JSON names are part
// of the protocol contract.

func TestConnectParamsWireFormat(t *testing.T) {
	raw, err := json.Marshal(ConnectParams{
		UID:             "u1",
		Token:           "t1",
		DeviceID:        "d1",
		DeviceFlag:      DeviceFlagApp,
		ClientTimestamp: 1700000000000,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"uid": "u1",
		"token": "t1",
		"deviceId": "d1",
		"deviceFlag": 1,
		"clientTimestamp": 1700000000000
	}`, string(raw))
}

func TestSendParamsWireFormat(t *testing.T) {
	raw, err := json.Marshal(SendParams{
		ClientMsgNo: "no-1",
		ChannelID:   "friend-1",
		ChannelType: ChannelTypePerson,
		Payload:     Map{"content": String("hi")},
		Header:      DefaultMessageHeader(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"clientMsgNo": "no-1",
		"channelId": "friend-1",
		"channelType": 1,
		"payload": {"content": "hi"},
		"header": {"redDot": true}
	}`, string(raw))
}

func TestMessageDecodesFromServerDoc(t *testing.T) {
	doc := `{
		"header": {"redDot": true, "noPersist": false, "syncOnce": false},
		"messageId": "1234567890",
		"messageSeq": 42,
		"clientMsgNo": "no-9",
		"fromUid": "u2",
		"channelId": "u1",
		"channelType": 1,
		"timestamp": 1700000000,
		"payload": {"type": 1, "content": "hello"}
	}`
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(doc), &msg))
	assert.Equal(t, "1234567890", msg.MessageID)
	assert.Equal(t, int64(42), msg.MessageSeq)
	assert.Equal(t, "u2", msg.FromUID)
	assert.Equal(t, ChannelTypePerson, msg.ChannelType)
	assert.True(t, msg.Header.RedDot)

	content, ok := msg.Payload.Str("content")
	require.True(t, ok)
	assert.Equal(t, "hello", content)
}

func TestRecvAckWireFormat(t *testing.T) {
	raw, err := json.Marshal(RecvAckParams{MessageID: "m1", MessageSeq: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"messageId": "m1", "messageSeq": 7}`, string(raw))
}

func TestMessageHeaderOmitsFalseHints(t *testing.T) {
	raw, err := json.Marshal(DefaultMessageHeader())
	require.NoError(t, err)
	// noPersist and syncOnce only appear when set.
	assert.JSONEq(t, `{"redDot": true}`, string(raw))
}
