package registry

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// NativeFlag is the first flag value of native handlers. Lower flags belong
// to handlers hosted by an application suite, which need Suite and Class.
const NativeFlag int32 = 2

// Handler is a content handler record.
type Handler struct {
	ID        string   `json:"id"`
	Flag      int32    `json:"flag"`
	Suite     int32    `json:"suite,omitempty"`
	Class     string   `json:"class,omitempty"`
	Types     []string `json:"types,omitempty"`
	Suffixes  []string `json:"suffixes,omitempty"`
	Actions   []string `json:"actions,omitempty"`
	Locales   []string `json:"locales,omitempty"`
	ActionMap []string `json:"action_map,omitempty"`
	Accesses  []string `json:"accesses,omitempty"`
}

// Summary holds the identity fields returned by searches. Native handlers
// report no suite and no class.
type Summary struct {
	ID    string `json:"id"`
	Suite int32  `json:"suite"`
	Class string `json:"class"`
	Flag  int32  `json:"flag"`
}

var arrayFields = []Field{FieldTypes, FieldSuffixes, FieldActions, FieldLocales, FieldActionMap, FieldAccesses}

// Array returns the values of an array field.
func (h *Handler) Array(f Field) []string {
	switch f {
	case FieldTypes:
		return h.Types
	case FieldSuffixes:
		return h.Suffixes
	case FieldActions:
		return h.Actions
	case FieldLocales:
		return h.Locales
	case FieldActionMap:
		return h.ActionMap
	case FieldAccesses:
		return h.Accesses
	}
	return nil
}

func (h *Handler) setArray(f Field, values []string) {
	switch f {
	case FieldTypes:
		h.Types = values
	case FieldSuffixes:
		h.Suffixes = values
	case FieldActions:
		h.Actions = values
	case FieldLocales:
		h.Locales = values
	case FieldActionMap:
		h.ActionMap = values
	case FieldAccesses:
		h.Accesses = values
	}
}

// Summary returns the identity fields of h.
func (h *Handler) Summary() Summary {
	if h.Flag >= NativeFlag {
		return Summary{ID: h.ID, Flag: h.Flag}
	}
	return Summary{ID: h.ID, Suite: h.Suite, Class: h.Class, Flag: h.Flag}
}

// VisibleTo applies the access list of h: an empty caller or an empty list
// sees h, otherwise some entry must be a case-sensitive prefix of caller.
func (h *Handler) VisibleTo(caller string) bool {
	if caller == "" || len(h.Accesses) == 0 {
		return true
	}
	for _, prefix := range h.Accesses {
		if hasUnitPrefix(caller, prefix) {
			return true
		}
	}
	return false
}

// Validate checks h can be stored and read back.
func (h *Handler) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("%w: empty handler id", ErrInvalidArgument)
	}
	if !utf8.ValidString(h.ID) || !utf8.ValidString(h.Class) {
		return fmt.Errorf("%w: handler %q: id or class is not valid UTF-8", ErrInvalidArgument, h.ID)
	}
	if UnitLen(h.ID) > math.MaxUint16 || UnitLen(h.Class) > math.MaxUint16 {
		return fmt.Errorf("%w: handler '%s': id or class too long", ErrInvalidArgument, h.ID)
	}
	if h.Flag < 0 {
		return fmt.Errorf("%w: handler '%s': negative flag %d", ErrInvalidArgument, h.ID, h.Flag)
	}
	if h.Flag < NativeFlag {
		if h.Suite <= 0 {
			return fmt.Errorf("%w: handler '%s': suite must be positive", ErrInvalidArgument, h.ID)
		}
		if h.Class == "" {
			return fmt.Errorf("%w: handler '%s': class is required", ErrInvalidArgument, h.ID)
		}
	}
	for _, f := range arrayFields {
		values := h.Array(f)
		if len(values) > math.MaxUint16 {
			return fmt.Errorf("%w: handler '%s': too many %s", ErrInvalidArgument, h.ID, f)
		}
		for i, v := range values {
			if v == "" {
				return fmt.Errorf("%w: handler '%s': empty %s element at %d", ErrInvalidArgument, h.ID, f, i)
			}
			if !utf8.ValidString(v) {
				return fmt.Errorf("%w: handler '%s': %s element %d is not valid UTF-8", ErrInvalidArgument, h.ID, f, i)
			}
			if UnitLen(v) > math.MaxUint16 {
				return fmt.Errorf("%w: handler '%s': %s element %d too long", ErrInvalidArgument, h.ID, f, i)
			}
		}
	}
	if n := len(h.ActionMap); n > 0 && n != len(h.Actions)*len(h.Locales) {
		return fmt.Errorf("%w: handler '%s': action_map has %d names, expected %d actions x %d locales",
			ErrInvalidArgument, h.ID, n, len(h.Actions), len(h.Locales))
	}
	return nil
}

// Mode selects how GetHandler compares ids.
type Mode int

const (
	// Exact matches ids of the same length.
	Exact Mode = iota
	// Prefix matches stored ids that are a prefix of the query.
	Prefix
)

func (m Mode) String() string {
	if m == Prefix {
		return "prefix"
	}
	return "exact"
}

// ParseMode accepts "exact" (or empty) and "prefix".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "exact":
		return Exact, nil
	case "prefix":
		return Prefix, nil
	}
	return Exact, fmt.Errorf("%w: unknown search mode '%s'", ErrInvalidArgument, s)
}
