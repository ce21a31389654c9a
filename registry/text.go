package registry

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
)

// Strings are stored as UTF-16LE code units without BOM or terminator.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func encodeText(s string) ([]byte, error) {
	return utf16le.NewEncoder().Bytes([]byte(s))
}

func decodeText(b []byte) (string, error) {
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// UnitLen returns the length of s in UTF-16 code units, the unit every
// stored length is expressed in.
func UnitLen(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Fold returns the case folded form of s. Case-insensitive matches compare
// folded strings.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// equalText compares a and b, length bounded first.
func equalText(a, b string, caseSensitive bool) bool {
	if UnitLen(a) != UnitLen(b) {
		return false
	}
	if caseSensitive {
		return a == b
	}
	return Fold(a) == Fold(b)
}

// unitPrefix returns the first n UTF-16 units of s. It reports false when
// the cut falls inside a surrogate pair, since no valid stored id can end
// there.
func unitPrefix(s string, n int) (string, bool) {
	if UnitLen(s) <= n {
		return s, true
	}
	if n <= 0 {
		return "", true
	}
	units, err := encodeText(s)
	if err != nil {
		return "", false
	}
	if last := binary.LittleEndian.Uint16(units[2*n-2:]); last >= 0xD800 && last < 0xDC00 {
		return "", false
	}
	prefix, err := decodeText(units[:2*n])
	if err != nil {
		return "", false
	}
	return prefix, true
}

// hasUnitPrefix compares the UTF-16 units of s and prefix byte by byte.
func hasUnitPrefix(s, prefix string) bool {
	su, err := encodeText(s)
	if err != nil {
		return false
	}
	pu, err := encodeText(prefix)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(su, pu)
}
