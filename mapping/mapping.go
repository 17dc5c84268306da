// Package mapping decodes and formats the key/value documents returned by a
// status endpoint.
//
// A status endpoint answers with a flat JSON object such as
//
//	{"status": "Active", "uptime": "99.9%", "requests": 42}
//
// [Parse] turns the object into a [Mapping] that keeps the fields in document
// order, and [Mapping.Entries] produces the display form: an upper-cased label
// with underscores replaced by spaces and a stringified value.
//
// Values are expected to be primitives. Nested objects and arrays are accepted
// and shown as compact JSON rather than rejected, so a single odd field never
// hides the rest of the document.
package mapping

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// Kind identifies the JSON type of a field value.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindNull   Kind = "null"
	KindObject Kind = "object"
	KindArray  Kind = "array"
)

// ErrNotObject is returned by [Parse] when the document is valid JSON but not
// an object.
var ErrNotObject = errors.New("status document must be a JSON object")

var parserPool fastjson.ParserPool

// Field is a single key/value pair of a [Mapping].
type Field struct {
	// Key is the JSON object key, unmodified.
	Key string `json:"key"`

	// Kind is the JSON type of the value.
	Kind Kind `json:"kind"`

	// Text is the value in display form.
	Text string `json:"text"`
}

// Entry is the rendered form of a [Field].
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Mapping is an ordered, immutable view of a status document.
//
// The zero value is an empty mapping.
type Mapping struct {
	fields []Field
}

// Parse decodes body as a JSON object.
//
// Fields keep the order in which they appear in the document. When a key is
// repeated, the field stays at its first position and takes the last value.
func Parse(body []byte) (Mapping, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return Mapping{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if v.Type() != fastjson.TypeObject {
		return Mapping{}, fmt.Errorf("%w, got %s", ErrNotObject, v.Type())
	}

	obj, err := v.Object()
	if err != nil {
		return Mapping{}, err
	}

	fields := make([]Field, 0, obj.Len())
	index := make(map[string]int, obj.Len())
	obj.Visit(func(key []byte, val *fastjson.Value) {
		f := Field{Key: string(key)}
		f.Kind, f.Text = describe(val)

		if i, seen := index[f.Key]; seen {
			fields[i] = f
			return
		}
		index[f.Key] = len(fields)
		fields = append(fields, f)
	})

	return Mapping{fields: fields}, nil
}

// describe returns the kind and display text of a parsed value.
func describe(v *fastjson.Value) (Kind, string) {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return KindString, string(b)
	case fastjson.TypeNumber:
		f, err := v.Float64()
		if err != nil {
			return KindNumber, v.String()
		}
		return KindNumber, FormatNumber(f)
	case fastjson.TypeTrue:
		return KindBool, "true"
	case fastjson.TypeFalse:
		return KindBool, "false"
	case fastjson.TypeNull:
		return KindNull, "null"
	case fastjson.TypeArray:
		return KindArray, v.String()
	default:
		return KindObject, v.String()
	}
}

// Len returns the number of fields.
func (m Mapping) Len() int {
	return len(m.fields)
}

// Get returns the field stored under key.
func (m Mapping) Get(key string) (Field, bool) {
	for _, f := range m.fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Fields returns a copy of the fields in document order.
func (m Mapping) Fields() []Field {
	if len(m.fields) == 0 {
		return nil
	}
	return append([]Field(nil), m.fields...)
}

// Entries returns the display entries in document order.
func (m Mapping) Entries() []Entry {
	entries := make([]Entry, len(m.fields))
	for i, f := range m.fields {
		entries[i] = Entry{
			Key:   f.Key,
			Label: FormatLabel(f.Key),
			Value: f.Text,
		}
	}
	return entries
}
