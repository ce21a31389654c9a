package registry

import (
	"bytes"
	"errors"
	"testing"

	. "github.com/fulldump/biff"
)

func TestEncodeString(t *testing.T) {

	buf := &bytes.Buffer{}
	n, err := encodeString(buf, "ab")

	AssertNil(err)
	AssertEqual(n, 6)
	AssertEqual(buf.Bytes(), []byte{2, 0, 'a', 0, 'b', 0})
}

func TestEncodeString_Empty(t *testing.T) {

	buf := &bytes.Buffer{}
	n, err := encodeString(buf, "")

	AssertNil(err)
	AssertEqual(n, 0)
	AssertEqual(buf.Len(), 0)
}

func TestEncodeString_SurrogatePair(t *testing.T) {

	buf := &bytes.Buffer{}
	n, err := encodeString(buf, "\U0001F600")

	AssertNil(err)
	AssertEqual(n, 6)
	AssertEqual(buf.Bytes()[:2], []byte{2, 0})
	AssertEqual(UnitLen("\U0001F600"), 2)
}

func TestEncodeArray(t *testing.T) {

	buf := &bytes.Buffer{}
	n, err := encodeArray(buf, []string{"ab", "c"})

	AssertNil(err)
	AssertEqual(n, 16)
	AssertEqual(buf.Bytes(), []byte{
		10, 0, 0, 0, // element bytes
		2, 0, // count
		2, 0, 'a', 0, 'b', 0,
		1, 0, 'c', 0,
	})

	elements, err := decodeArray(buf.Bytes()[arrayHeaderSize:], 2)
	AssertNil(err)
	AssertEqual(elements, []string{"ab", "c"})
}

func TestEncodeArray_EmptyElement(t *testing.T) {

	buf := &bytes.Buffer{}
	_, err := encodeArray(buf, []string{"", "text/html"})

	AssertTrue(errors.Is(err, ErrInvalidArgument))
	AssertEqual(buf.Len(), 0)
}

func TestDecodeArray_Corrupt(t *testing.T) {

	_, err := decodeArray([]byte{5, 0, 'a', 0}, 1)
	AssertTrue(errors.Is(err, ErrIO))

	_, err = decodeArray([]byte{1, 0, 'a', 0, 9, 9}, 1)
	AssertTrue(errors.Is(err, ErrIO))
}

func TestWriteRecord_Layout(t *testing.T) {

	// Setup
	f := &memWriteSeeker{}
	h := &Handler{ID: "a", Flag: NativeFlag, Types: []string{"t"}}

	// Run
	placed, err := writeRecord(f, h)

	// Check
	AssertNil(err)
	AssertTrue(placed)

	var hd header
	hd.unmarshal(f.buf)
	AssertEqual(int(hd.size), len(f.buf))
	AssertEqual(int64(hd.size), encodedSize(h))

	off, ok := hd.offset(FieldID)
	AssertTrue(ok)
	AssertEqual(off, int64(HeaderSize))

	off, ok = hd.offset(FieldFlag)
	AssertTrue(ok)
	AssertEqual(off, int64(HeaderSize+4))

	_, ok = hd.offset(FieldSuite)
	AssertEqual(ok, false)
	_, ok = hd.offset(FieldClass)
	AssertEqual(ok, false)

	off, ok = hd.offset(FieldTypes)
	AssertTrue(ok)
	AssertEqual(off, int64(HeaderSize+8))
	AssertNil(hd.validate())
}

func TestHeader_Validate(t *testing.T) {

	AssertEqual(HeaderSize, 44)

	hd := header{size: 0}
	AssertTrue(errors.Is(hd.validate(), ErrIO))

	hd = header{size: HeaderSize + 10}
	hd.offsets[FieldID] = 4
	AssertTrue(errors.Is(hd.validate(), ErrIO))

	hd.offsets[FieldID] = HeaderSize + 10
	AssertTrue(errors.Is(hd.validate(), ErrIO))

	hd.offsets[FieldID] = HeaderSize
	AssertNil(hd.validate())
}

func TestParseField(t *testing.T) {

	f, err := ParseField("Action_Map")
	AssertNil(err)
	AssertEqual(f, FieldActionMap)
	AssertTrue(f.IsArray())
	AssertEqual(FieldSuite.IsArray(), false)

	_, err = ParseField("nope")
	AssertTrue(errors.Is(err, ErrInvalidArgument))
}

// memWriteSeeker is an in memory io.WriteSeeker.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		m.pos = int(offset)
	case 1:
		m.pos += int(offset)
	case 2:
		m.pos = len(m.buf) + int(offset)
	}
	return int64(m.pos), nil
}
