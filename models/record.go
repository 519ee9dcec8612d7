// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Field names of a field-group
const (
	FieldIDLetter = "id_letter"
	FieldVoteID   = "vote_id"
	FieldRegID    = "reg_id"
)

var (
	ErrNotObject    = errors.New("value is not a JSON object")
	ErrTrailingData = errors.New("unexpected data after JSON object")
)

// FieldGroup is the fixed triple recorded for one ballot category
type FieldGroup struct {
	IDLetter string `json:"id_letter"`
	VoteID   string `json:"vote_id"`
	RegID    string `json:"reg_id"`
}

// Get returns the value of the named field
func (g FieldGroup) Get(field string) (string, bool) {
	switch field {
	case FieldIDLetter:
		return g.IDLetter, true
	case FieldVoteID:
		return g.VoteID, true
	case FieldRegID:
		return g.RegID, true
	}
	return "", false
}

// Set updates the named field, reporting false for unknown field names
func (g *FieldGroup) Set(field, value string) bool {
	switch field {
	case FieldIDLetter:
		g.IDLetter = value
	case FieldVoteID:
		g.VoteID = value
	case FieldRegID:
		g.RegID = value
	default:
		return false
	}
	return true
}

// Category is one named entry of an ExtractedRecord
type Category struct {
	Name   string     `json:"name"`
	Fields FieldGroup `json:"fields"`
}

// ExtractedRecord maps category names to field-groups.
// Categories keep the order in which they were first seen.
// The zero value is an empty record.
type ExtractedRecord struct {
	categories []Category
}

// Len returns the number of categories
func (r ExtractedRecord) Len() int {
	return len(r.categories)
}

// Names returns the category names in order
func (r ExtractedRecord) Names() []string {
	names := make([]string, len(r.categories))
	for i, c := range r.categories {
		names[i] = c.Name
	}
	return names
}

// Categories returns a copy of the categories in order
func (r ExtractedRecord) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Get returns the field-group stored under name
func (r ExtractedRecord) Get(name string) (FieldGroup, bool) {
	if i := r.index(name); i >= 0 {
		return r.categories[i].Fields, true
	}
	return FieldGroup{}, false
}

// Set stores a field-group under name. An existing category keeps its position.
func (r *ExtractedRecord) Set(name string, fields FieldGroup) {
	if i := r.index(name); i >= 0 {
		r.categories[i].Fields = fields
		return
	}
	r.categories = append(r.categories, Category{Name: name, Fields: fields})
}

// Clone returns a deep copy
func (r ExtractedRecord) Clone() ExtractedRecord {
	return ExtractedRecord{categories: r.Categories()}
}

// Equal reports whether both records hold the same categories in the same order
func (r ExtractedRecord) Equal(other ExtractedRecord) bool {
	if len(r.categories) != len(other.categories) {
		return false
	}
	for i := range r.categories {
		if r.categories[i] != other.categories[i] {
			return false
		}
	}
	return true
}

func (r ExtractedRecord) index(name string) int {
	for i, c := range r.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the record as a JSON object in category order
func (r ExtractedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		fields, err := json.Marshal(c.Fields)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(fields)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON strictly decodes an object whose values are all field-groups
func (r *ExtractedRecord) UnmarshalJSON(data []byte) error {
	members, err := DecodeMembers(data)
	if err != nil {
		return err
	}

	var rec ExtractedRecord
	for _, m := range members {
		if !isObject(m.Value) {
			return fmt.Errorf("category %q: %w", m.Name, ErrNotObject)
		}
		var fields FieldGroup
		if err := json.Unmarshal(m.Value, &fields); err != nil {
			return fmt.Errorf("category %q: %w", m.Name, err)
		}
		rec.Set(m.Name, fields)
	}
	*r = rec
	return nil
}

// Member is one key/value pair of a JSON object, value left undecoded
type Member struct {
	Name  string
	Value json.RawMessage
}

// DecodeMembers decodes a single JSON object into its members in source order.
// A repeated key keeps its first position and takes the last value.
func DecodeMembers(data []byte) ([]Member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	members := []Member{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		if i, dup := seen[name]; dup {
			members[i].Value = value
			continue
		}
		seen[name] = len(members)
		members = append(members, Member{Name: name, Value: value})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}

	return members, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
