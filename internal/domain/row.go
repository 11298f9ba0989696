package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
)

// Value is a tagged scalar taken from one CSV cell.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

func Null() Value { return Value{Kind: KindNull} }

func String(s string) Value { return Value{Kind: KindString, Str: s} }

func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

// ParseValue classifies a raw cell: empty is null, a number only when it
// round-trips to the same text. Leading zeros, a leading '+', exponents,
// NaN, Inf and digits beyond float64 precision all stay strings.
func ParseValue(raw string) Value {
	if raw == "" {
		return Null()
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return String(raw)
	}
	if strconv.FormatFloat(n, 'f', -1, 64) != raw {
		return String(raw)
	}

	return Number(n)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber:
		return json.Marshal(v.Num)
	case KindString:
		return json.Marshal(v.Str)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(t)
	case string:
		*v = String(t)
	default:
		return fmt.Errorf("unsupported scalar %s", data)
	}

	return nil
}

type Field struct {
	Name  string
	Value Value
}

// Fields is an ordered column -> value mapping. It encodes as a JSON object
// keeping the column order.
type Fields []Field

func (f Fields) Get(name string) (Value, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return Value{}, false
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := field.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	fields := Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected column name, got %v", tok)
		}

		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}

		fields = append(fields, Field{Name: name, Value: v})
	}

	*f = fields
	return nil
}

// Row is one data row of the source stream.
type Row struct {
	Number int    // 1-based position in the stream
	Fields Fields // nil when Err is set
	Err    error  // row-level decode problem
}
