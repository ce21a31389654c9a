package registry

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MissingInt is returned by integer field reads when the field is absent or
// cannot be read. Stored suites are always positive and flags never negative.
const MissingInt int32 = -1

// arrayHeaderSize covers the byte size and the element count of an array.
const arrayHeaderSize = 4 + 2

func writeFull(w io.Writer, b []byte) (int, error) {
	n, err := w.Write(b)
	if err != nil {
		return n, fmt.Errorf("%w: write: %w", ErrIO, err)
	}
	if n != len(b) {
		return n, fmt.Errorf("%w: short write %d of %d bytes", ErrIO, n, len(b))
	}
	return n, nil
}

// encodeString writes [u16 units][units]. An empty string writes nothing and
// reports 0 bytes so the field stays absent.
func encodeString(w io.Writer, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	units, err := encodeText(s)
	if err != nil {
		return 0, fmt.Errorf("%w: encode string: %w", ErrInvalidArgument, err)
	}
	if len(units)/2 > math.MaxUint16 {
		return 0, fmt.Errorf("%w: string of %d units is too long", ErrInvalidArgument, len(units)/2)
	}
	buf := make([]byte, 2+len(units))
	binary.LittleEndian.PutUint16(buf, uint16(len(units)/2))
	copy(buf[2:], units)
	return writeFull(w, buf)
}

// encodeArray writes [u32 element bytes][u16 count] followed by every element
// as a string payload. Empty elements are rejected before anything is written.
func encodeArray(w io.Writer, elements []string) (int, error) {
	if len(elements) == 0 {
		return 0, nil
	}
	if len(elements) > math.MaxUint16 {
		return 0, fmt.Errorf("%w: array of %d elements is too long", ErrInvalidArgument, len(elements))
	}

	body := make([]byte, arrayHeaderSize, 64)
	for i, e := range elements {
		if e == "" {
			return 0, fmt.Errorf("%w: empty array element at %d", ErrInvalidArgument, i)
		}
		units, err := encodeText(e)
		if err != nil {
			return 0, fmt.Errorf("%w: encode element %d: %w", ErrInvalidArgument, i, err)
		}
		if len(units)/2 > math.MaxUint16 {
			return 0, fmt.Errorf("%w: array element %d is too long", ErrInvalidArgument, i)
		}
		body = binary.LittleEndian.AppendUint16(body, uint16(len(units)/2))
		body = append(body, units...)
	}
	binary.LittleEndian.PutUint32(body, uint32(len(body)-arrayHeaderSize))
	binary.LittleEndian.PutUint16(body[4:], uint16(len(elements)))

	return writeFull(w, body)
}

func encodeInt(w io.Writer, v int32) (int, error) {
	return writeFull(w, binary.LittleEndian.AppendUint32(nil, uint32(v)))
}

// decodeArray walks a packed element blob.
func decodeArray(blob []byte, count int) ([]string, error) {
	elements := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if len(blob) < 2 {
			return nil, fmt.Errorf("%w: array element %d truncated", ErrIO, i)
		}
		n := 2 * int(binary.LittleEndian.Uint16(blob))
		blob = blob[2:]
		if n == 0 || len(blob) < n {
			return nil, fmt.Errorf("%w: array element %d has bad length", ErrIO, i)
		}
		e, err := decodeText(blob[:n])
		if err != nil {
			return nil, fmt.Errorf("%w: decode element %d: %w", ErrIO, i, err)
		}
		elements = append(elements, e)
		blob = blob[n:]
	}
	if len(blob) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after array elements", ErrIO, len(blob))
	}
	return elements, nil
}

// encodedSize returns the number of bytes writeRecord produces for h.
func encodedSize(h *Handler) int64 {
	size := int64(HeaderSize)
	str := func(s string) {
		if s != "" {
			size += 2 + 2*int64(UnitLen(s))
		}
	}
	str(h.ID)
	size += 4
	if h.Flag < NativeFlag {
		size += 4
	}
	str(h.Class)
	for _, f := range arrayFields {
		values := h.Array(f)
		if len(values) == 0 {
			continue
		}
		size += arrayHeaderSize
		for _, v := range values {
			size += 2 + 2*int64(UnitLen(v))
		}
	}
	return size
}

// writeRecord appends h to w: a placeholder header, every present field in
// field order, then the real header patched over the placeholder. placed
// reports whether the id payload reached w.
func writeRecord(w io.WriteSeeker, h *Handler) (placed bool, err error) {
	var hd header
	if _, err := writeFull(w, hd.marshal()); err != nil {
		return false, err
	}

	off := int64(HeaderSize)
	for f := FieldID; f <= FieldAccesses; f++ {
		n, err := encodeField(w, h, f)
		if err != nil {
			return placed, err
		}
		if f == FieldID {
			if n == 0 {
				return false, fmt.Errorf("%w: empty handler id", ErrInvalidArgument)
			}
			placed = true
		}
		if n == 0 {
			continue
		}
		hd.offsets[f] = uint32(off)
		off += int64(n)
	}
	if off > math.MaxUint32 {
		return placed, fmt.Errorf("%w: record of %d bytes", ErrOutOfMemory, off)
	}
	hd.size = uint32(off)

	if _, err := w.Seek(-off, io.SeekCurrent); err != nil {
		return placed, fmt.Errorf("%w: seek record header: %w", ErrIO, err)
	}
	if _, err := writeFull(w, hd.marshal()); err != nil {
		return placed, err
	}
	return placed, nil
}

func encodeField(w io.Writer, h *Handler, f Field) (int, error) {
	switch f {
	case FieldID:
		return encodeString(w, h.ID)
	case FieldFlag:
		return encodeInt(w, h.Flag)
	case FieldSuite:
		if h.Flag >= NativeFlag {
			return 0, nil
		}
		return encodeInt(w, h.Suite)
	case FieldClass:
		return encodeString(w, h.Class)
	default:
		return encodeArray(w, h.Array(f))
	}
}
