package registry

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Field identifies one component of a stored handler record. The numeric
// value is the index in the record header and the on-disk payload order.
type Field int

const (
	FieldID Field = iota
	FieldFlag
	FieldSuite
	FieldClass
	FieldTypes
	FieldSuffixes
	FieldActions
	FieldLocales
	FieldActionMap
	FieldAccesses
)

const fieldCount = 10

// fails to compile when fieldCount and the Field enum disagree
var _ = [1]struct{}{}[int(FieldAccesses)+1-fieldCount]

// HeaderSize is the size of the fixed record header: the record size followed
// by one offset per field.
const HeaderSize = 4 + 4*fieldCount

var fieldNames = [fieldCount]string{
	"id",
	"flag",
	"suite",
	"class",
	"types",
	"suffixes",
	"actions",
	"locales",
	"action_map",
	"accesses",
}

// FieldsByName maps the external name of every field to its id.
var FieldsByName = func() map[string]Field {
	m := make(map[string]Field, fieldCount)
	for i, name := range fieldNames {
		m[name] = Field(i)
	}
	return m
}()

func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

func (f Field) valid() bool {
	return f >= FieldID && f <= FieldAccesses
}

// IsArray reports whether the field holds a string array.
func (f Field) IsArray() bool {
	return f >= FieldTypes && f <= FieldAccesses
}

// ParseField resolves a field by name, ignoring case.
func ParseField(name string) (Field, error) {
	f, ok := FieldsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown field '%s'", ErrInvalidArgument, name)
	}
	return f, nil
}

// header is the decoded fixed part of a record. An offset of zero means the
// field is absent; present fields always start after the header.
type header struct {
	size    uint32
	offsets [fieldCount]uint32
}

func (h *header) offset(f Field) (int64, bool) {
	o := h.offsets[f]
	return int64(o), o != 0
}

func (h *header) marshal() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b, h.size)
	for i, o := range h.offsets {
		binary.LittleEndian.PutUint32(b[4+4*i:], o)
	}
	return b
}

func (h *header) unmarshal(b []byte) {
	h.size = binary.LittleEndian.Uint32(b)
	for i := range h.offsets {
		h.offsets[i] = binary.LittleEndian.Uint32(b[4+4*i:])
	}
}

func (h *header) validate() error {
	if h.size == 0 {
		return fmt.Errorf("%w: zero record size", ErrIO)
	}
	if h.size < HeaderSize {
		return fmt.Errorf("%w: record size %d smaller than header", ErrIO, h.size)
	}
	for i, o := range h.offsets {
		if o == 0 {
			continue
		}
		if o < HeaderSize || o >= h.size {
			return fmt.Errorf("%w: field %s offset %d out of record bounds", ErrIO, Field(i), o)
		}
	}
	return nil
}
