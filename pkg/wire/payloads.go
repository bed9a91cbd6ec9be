package wire

// ChannelType identifies the kind of destination a message is addressed to.
type ChannelType int

const (
	ChannelTypePerson ChannelType = 1
	ChannelTypeGroup  ChannelType = 2
)

// DeviceFlag identifies the kind of device a session belongs to.
type DeviceFlag int

const (
	DeviceFlagApp DeviceFlag = 1
	DeviceFlagWeb DeviceFlag = 2
	DeviceFlagPC  DeviceFlag = 3
)

// ConnectParams are the params of the connect request.
type ConnectParams struct {
	UID             string     `json:"uid"`
	Token           string     `json:"token"`
	DeviceID        string     `json:"deviceId,omitempty"`
	DeviceFlag      DeviceFlag `json:"deviceFlag"`
	ClientTimestamp int64      `json:"clientTimestamp"`
}

// ConnectResult is the result of a successful connect request. A non-zero
// ReasonCode means the server rejected the credentials even though it framed
// the reply as a result.
type ConnectResult struct {
	ServerKey     string `json:"serverKey,omitempty"`
	Salt          string `json:"salt,omitempty"`
	TimeDiff      int64  `json:"timeDiff"`
	ReasonCode    int    `json:"reasonCode"`
	ServerVersion int    `json:"serverVersion,omitempty"`
	NodeID        int64  `json:"nodeId,omitempty"`
}

// MessageHeader carries per-message delivery hints.
type MessageHeader struct {
	RedDot    bool `json:"redDot"`
	NoPersist bool `json:"noPersist,omitempty"`
	SyncOnce  bool `json:"syncOnce,omitempty"`
}

// DefaultMessageHeader returns the header applied to outbound messages when
// the caller does not supply one: the message should raise a badge.
func DefaultMessageHeader() MessageHeader {
	return MessageHeader{RedDot: true}
}

// SendParams are the params of the send request.
type SendParams struct {
	ClientMsgNo string        `json:"clientMsgNo"`
	ChannelID   string        `json:"channelId"`
	ChannelType ChannelType   `json:"channelType"`
	Payload     Map           `json:"payload"`
	Header      MessageHeader `json:"header"`
}

// SendResult is the result of a successful send request.
type SendResult struct {
	MessageID  string `json:"messageId"`
	MessageSeq int64  `json:"messageSeq"`
}

// Message is an application message delivered by a recv notification.
type Message struct {
	Header      MessageHeader `json:"header"`
	MessageID   string        `json:"messageId"`
	MessageSeq  int64         `json:"messageSeq"`
	ClientMsgNo string        `json:"clientMsgNo,omitempty"`
	FromUID     string        `json:"fromUid,omitempty"`
	ChannelID   string        `json:"channelId"`
	ChannelType ChannelType   `json:"channelType"`
	Timestamp   int64         `json:"timestamp,omitempty"`
	Payload     Map           `json:"payload"`
}

// RecvAckParams are the params of the recvack notification confirming
// receipt of one message.
type RecvAckParams struct {
	MessageID  string `json:"messageId"`
	MessageSeq int64  `json:"messageSeq"`
}

// DisconnectInfo carries the reason a session ended. For server-initiated
// disconnects both fields come from the disconnect notification.
type DisconnectInfo struct {
	ReasonCode int    `json:"reasonCode"`
	Reason     string `json:"reason,omitempty"`
}
