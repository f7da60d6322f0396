package model

import (
	"bytes"
	"encoding/json"
)

// Field is one label/value pair as written by the author
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields is an ordered label/value list. Each label appears once, at the
// position of its first occurrence.
type Fields []Field

// Get returns the value stored under key
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Keys returns the labels in source order
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

// Lookup returns the first field whose label satisfies match
func (f Fields) Lookup(match func(key string) bool) (Field, bool) {
	for _, field := range f {
		if match(field.Key) {
			return field, true
		}
	}
	return Field{}, false
}

// MarshalJSON renders the fields as a JSON object in source order
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Entry is one repeated structured block inside a section (a kingdom, an
// enumerated people)
type Entry struct {
	Label  string `json:"label"`
	Fields Fields `json:"fields"`
}

// Shape is the interpreted form of a section body
type Shape string

const (
	ShapeFields  Shape = "fields"  // Flat label/value map
	ShapeEntries Shape = "entries" // List of sub-records
	ShapeList    Shape = "list"    // List of scalar lines
)

// Value is the tagged union produced by the section interpreter. Only the
// member matching Shape is meaningful.
type Value struct {
	Shape   Shape
	Fields  Fields
	Entries []Entry
	Items   []string
}

// MarshalJSON renders only the active member
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Shape {
	case ShapeEntries:
		if v.Entries == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Entries)
	case ShapeList:
		if v.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Items)
	default:
		return v.Fields.MarshalJSON()
	}
}
