package wire

import (
	"encoding/json"
	"testing"
)

func TestValueRoundTripPreservesKinds(t *testing.T) {
	doc := []byte(`{
		"content": "hello",
		"type": 1,
		"seq": 9007199254740993,
		"ratio": 0.5,
		"urgent": true,
		"extra": null,
		"tags": ["a", "b"],
		"nested": {"depth": 2}
	}`)

	var m Map
	if err := json.Unmarshal(doc, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if s, ok := m.Str("content"); !ok || s != "hello" {
		t.Errorf("content: got (%q, %v)", s, ok)
	}
	if i, ok := m.Int64("type"); !ok || i != 1 {
		t.Errorf("type: got (%d, %v)", i, ok)
	}
	// Larger than float64 can represent exactly; must not be truncated.
	if i, ok := m.Int64("seq"); !ok || i != 9007199254740993 {
		t.Errorf("seq: got (%d, %v)", i, ok)
	}
	if f, ok := m.Float64("ratio"); !ok || f != 0.5 {
		t.Errorf("ratio: got (%v, %v)", f, ok)
	}
	if b, ok := m.Bool("urgent"); !ok || !b {
		t.Errorf("urgent: got (%v, %v)", b, ok)
	}
	if v, present := m["extra"]; !present || !v.IsNull() {
		t.Errorf("extra: expected null, got %+v", v)
	}
	tags, ok := m.Array("tags")
	if !ok || len(tags) != 2 {
		t.Fatalf("tags: got (%v, %v)", tags, ok)
	}
	if s, ok := tags[1].Str(); !ok || s != "b" {
		t.Errorf("tags[1]: got (%q, %v)", s, ok)
	}
	nested, ok := m.Object("nested")
	if !ok {
		t.Fatal("nested: expected object")
	}
	if d, ok := nested.Int64("depth"); !ok || d != 2 {
		t.Errorf("nested.depth: got (%d, %v)", d, ok)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Map
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if i, ok := again.Int64("seq"); !ok || i != 9007199254740993 {
		t.Errorf("seq after round trip: got (%d, %v)", i, ok)
	}
}

func TestValueAccessorsRejectWrongKind(t *testing.T) {
	v := String("not a number")
	if _, ok := v.Int64(); ok {
		t.Error("Int64 on a string reported ok")
	}
	if _, ok := v.Bool(); ok {
		t.Error("Bool on a string reported ok")
	}
	if _, ok := v.Object(); ok {
		t.Error("Object on a string reported ok")
	}

	m := Map{"n": Int(3)}
	if _, ok := m.Str("n"); ok {
		t.Error("Str on a number reported ok")
	}
	if _, ok := m.Str("missing"); ok {
		t.Error("Str on a missing key reported ok")
	}
}

func TestValueIntegralFloatParsesAsInt64(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte("7.0"), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	i, ok := v.Int64()
	if !ok || i != 7 {
		t.Errorf("got (%d, %v), want (7, true)", i, ok)
	}

	if err := json.Unmarshal([]byte("7.5"), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := v.Int64(); ok {
		t.Error("7.5 parsed as int64")
	}
}

func TestZeroValueMarshalsAsNull(t *testing.T) {
	var v Value
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("got %s, want null", out)
	}
}
