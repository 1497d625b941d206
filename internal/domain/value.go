package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind is the type tag of a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

var kindNames = [...]string{"null", "bool", "number", "string", "list", "map"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Field is a single key/value entry of a map Value. Maps keep their fields in document order.
type Field struct {
	Key   string
	Value Value
}

// Value is a recursive tagged value holding an untyped structured document.
// The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	n      json.Number
	s      string
	list   []Value
	fields []Field
}

// NullValue returns a null Value.
func NullValue() Value { return Value{} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberValue returns a number Value.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, n: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// ListValue returns a list Value.
func ListValue(items ...Value) Value { return Value{kind: KindList, list: items} }

// MapValue returns a map Value with the given fields in order.
func MapValue(fields ...Field) Value {
	v := Value{kind: KindMap}
	for _, f := range fields {
		v.fields = setField(v.fields, f.Key, f.Value)
	}
	return v
}

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean and whether the value is a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Float returns the number as float64 and whether the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.n.Float64()
	return f, err == nil
}

// Text returns the string and whether the value is a string.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindString }

// List returns the list items, or nil when the value is not a list.
func (v Value) List() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Fields returns the map entries in document order, or nil when the value is not a map.
func (v Value) Fields() []Field {
	if v.kind != KindMap {
		return nil
	}
	return v.fields
}

// Get looks up a map entry by key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.Fields() {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// MarshalJSON encodes the value, keeping map keys in document order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON document into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.n.String())
	case KindString:
		if err := encodeString(buf, v.s); err != nil {
			return err
		}
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %d", v.kind)
	}
	return nil
}

// encodeString writes s as a JSON string without HTML escaping, so "&" stays readable.
func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// ParseValue parses a JSON document into a Value, preserving map key order.
// Parser errors are returned unchanged so callers can show them to the user.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}

	// Exactly one top-level document is allowed
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, err
		}
		return Value{}, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return Value{kind: KindNumber, n: t}, nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeMap(dec)
		case '[':
			return decodeList(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func decodeMap(dec *json.Decoder) (Value, error) {
	v := Value{kind: KindMap}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("invalid object key %v", keyTok)
		}
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.fields = setField(v.fields, key, item)
	}
	if err := closeToken(dec); err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeList(dec *json.Decoder) (Value, error) {
	v := Value{kind: KindList, list: []Value{}}
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.list = append(v.list, item)
	}
	if err := closeToken(dec); err != nil {
		return Value{}, err
	}
	return v, nil
}

// closeToken consumes the closing delimiter of a map or list.
func closeToken(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// setField replaces an existing key in place, or appends a new one.
func setField(fields []Field, key string, value Value) []Field {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			return fields
		}
	}
	return append(fields, Field{Key: key, Value: value})
}
