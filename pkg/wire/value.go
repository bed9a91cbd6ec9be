// Package wire defines the JSON-RPC 2.0 message envelope and the dynamic
// payload representation exchanged with a WuKongIM server.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies which JSON kind a Value holds.
type ValueKind uint8

const (
	NullValue ValueKind = iota
	BoolValue
	NumberValue
	StringValue
	ArrayValue
	ObjectValue
)

func (k ValueKind) String() string {
	switch k {
	case NullValue:
		return "null"
	case BoolValue:
		return "bool"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case ArrayValue:
		return "array"
	case ObjectValue:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a single JSON value restricted to the six JSON kinds. The zero
// Value is JSON null. Numbers keep their wire text so large integers such as
// message sequence numbers survive a round trip without float truncation.
type Value struct {
	kind ValueKind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  Map
}

// Map is a JSON object whose values are dynamic.
type Map map[string]Value

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a JSON boolean.
func Bool(b bool) Value { return Value{kind: BoolValue, b: b} }

// Int wraps an integer as a JSON number.
func Int(i int64) Value {
	return Value{kind: NumberValue, num: json.Number(strconv.FormatInt(i, 10))}
}

// Float wraps a float as a JSON number.
func Float(f float64) Value {
	return Value{kind: NumberValue, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// String wraps a JSON string.
func String(s string) Value { return Value{kind: StringValue, str: s} }

// Array wraps a JSON array.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: ArrayValue, arr: items}
}

// Object wraps a JSON object.
func Object(m Map) Value {
	if m == nil {
		m = Map{}
	}
	return Value{kind: ObjectValue, obj: m}
}

// Kind reports which JSON kind the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool { return v.kind == NullValue }

// Bool returns the boolean content. ok is false for any other kind.
func (v Value) Bool() (b, ok bool) {
	return v.b, v.kind == BoolValue
}

// Str returns the string content. ok is false for any other kind.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == StringValue
}

// Int64 returns the number content as an integer. ok is false when the value
// is not a number or does not parse as an int64.
func (v Value) Int64() (int64, bool) {
	if v.kind != NumberValue {
		return 0, false
	}
	i, err := v.num.Int64()
	if err != nil {
		// Servers occasionally send integral values as "7.0".
		f, ferr := v.num.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	}
	return i, true
}

// Float64 returns the number content as a float. ok is false for any other
// kind.
func (v Value) Float64() (float64, bool) {
	if v.kind != NumberValue {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Array returns the array content. ok is false for any other kind.
func (v Value) Array() ([]Value, bool) {
	return v.arr, v.kind == ArrayValue
}

// Object returns the object content. ok is false for any other kind.
func (v Value) Object() (Map, bool) {
	return v.obj, v.kind == ObjectValue
}

// MarshalJSON renders the value as its JSON kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case NullValue:
		return []byte("null"), nil
	case BoolValue:
		return []byte(strconv.FormatBool(v.b)), nil
	case NumberValue:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case StringValue:
		return json.Marshal(v.str)
	case ArrayValue:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case ObjectValue:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("wire: cannot marshal value of kind %d", v.kind)
	}
}

// UnmarshalJSON parses any JSON value into its tagged representation.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromAny(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: NumberValue, num: t}, nil
	case string:
		return String(t), nil
	case []interface{}:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			cv, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, cv)
		}
		return Array(items...), nil
	case map[string]interface{}:
		m := make(Map, len(t))
		for k, item := range t {
			cv, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			m[k] = cv
		}
		return Object(m), nil
	default:
		return Value{}, fmt.Errorf("wire: unsupported JSON value %T", raw)
	}
}

// Str returns the string stored under key. ok is false when the key is
// missing or holds a different kind.
func (m Map) Str(key string) (string, bool) {
	v, present := m[key]
	if !present {
		return "", false
	}
	return v.Str()
}

// Int64 returns the integer stored under key.
func (m Map) Int64(key string) (int64, bool) {
	v, present := m[key]
	if !present {
		return 0, false
	}
	return v.Int64()
}

// Float64 returns the float stored under key.
func (m Map) Float64(key string) (float64, bool) {
	v, present := m[key]
	if !present {
		return 0, false
	}
	return v.Float64()
}

// Bool returns the boolean stored under key.
func (m Map) Bool(key string) (b, ok bool) {
	v, present := m[key]
	if !present {
		return false, false
	}
	return v.Bool()
}

// Object returns the nested object stored under key.
func (m Map) Object(key string) (Map, bool) {
	v, present := m[key]
	if !present {
		return nil, false
	}
	return v.Object()
}

// Array returns the array stored under key.
func (m Map) Array(key string) ([]Value, bool) {
	v, present := m[key]
	if !present {
		return nil, false
	}
	return v.Array()
}
