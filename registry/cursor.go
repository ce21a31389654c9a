package registry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

type cursorState int

const (
	cursorClosed cursorState = iota
	cursorPositioned
	cursorEnd
	cursorError
)

// cursor walks the records of a store file in order. A fresh cursor is
// positioned before the first record.
type cursor struct {
	file  afero.File
	size  int64
	limit int64

	state  cursorState
	err    error
	start  int64
	header header
}

// openCursor opens path for scanning. A missing file opened read only is an
// empty store; opened read write it is created.
func openCursor(fs afero.Fs, path string, readWrite bool, limit int64) (*cursor, error) {
	flag := os.O_RDONLY
	if readWrite {
		flag = os.O_RDWR | os.O_CREATE
	}
	file, err := fs.OpenFile(path, flag, 0644)
	if err != nil {
		if !readWrite && errors.Is(err, os.ErrNotExist) {
			return &cursor{state: cursorEnd, limit: limit}, nil
		}
		return nil, fmt.Errorf("%w: open '%s': %w", ErrIO, path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: stat '%s': %w", ErrIO, path, err)
	}
	return &cursor{
		file:  file,
		size:  info.Size(),
		limit: limit,
		state: cursorPositioned,
	}, nil
}

// exists reports whether the cursor is backed by a file.
func (c *cursor) exists() bool {
	return c.file != nil
}

func (c *cursor) fail(err error) error {
	c.state = cursorError
	c.err = err
	return err
}

// Next moves to the following record. It returns io.EOF when no bytes remain
// after the current record and ErrIO for corrupt or unreadable headers.
func (c *cursor) Next() error {
	switch c.state {
	case cursorEnd:
		return io.EOF
	case cursorError:
		return c.err
	case cursorClosed:
		return fmt.Errorf("%w: cursor is closed", ErrIO)
	}

	next := c.start + int64(c.header.size)
	if next >= c.size {
		c.state = cursorEnd
		return io.EOF
	}

	buf := make([]byte, HeaderSize)
	if _, err := c.file.ReadAt(buf, next); err != nil {
		return c.fail(fmt.Errorf("%w: read header at %d: %w", ErrIO, next, err))
	}

	var h header
	h.unmarshal(buf)
	if err := h.validate(); err != nil {
		return c.fail(fmt.Errorf("record at %d: %w", next, err))
	}
	if next+int64(h.size) > c.size {
		return c.fail(fmt.Errorf("%w: record at %d overruns file", ErrIO, next))
	}

	c.start = next
	c.header = h
	return nil
}

// NextVisible moves to the following record visible to caller.
func (c *cursor) NextVisible(caller string) error {
	for {
		if err := c.Next(); err != nil {
			return err
		}
		visible, err := c.visibleTo(caller)
		if err != nil {
			return err
		}
		if visible {
			return nil
		}
	}
}

// visibleTo applies the access list of the current record: an empty caller
// or an absent list sees everything, otherwise some stored entry must be a
// case-sensitive prefix of the caller.
func (c *cursor) visibleTo(caller string) (bool, error) {
	if caller == "" {
		return true, nil
	}
	accesses, ok, err := c.Array(FieldAccesses)
	if err != nil {
		return false, err
	}
	if !ok || len(accesses) == 0 {
		return true, nil
	}
	for _, prefix := range accesses {
		if hasUnitPrefix(caller, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// seekField returns a reader bounded to the payload of field f, or false when
// the field is absent.
func (c *cursor) seekField(f Field) (*io.SectionReader, bool, error) {
	if c.state != cursorPositioned || c.header.size == 0 {
		return nil, false, fmt.Errorf("%w: no current record", ErrIO)
	}
	off, ok := c.header.offset(f)
	if !ok {
		return nil, false, nil
	}
	return io.NewSectionReader(c.file, c.start+off, int64(c.header.size)-off), true, nil
}

// String reads a string field.
func (c *cursor) String(f Field) (string, bool, error) {
	r, ok, err := c.seekField(f)
	if err != nil || !ok {
		return "", ok, err
	}
	var units uint16
	if err := binary.Read(r, binary.LittleEndian, &units); err != nil {
		return "", false, c.corrupt(f, err)
	}
	n := 2 * int64(units)
	if n > c.limit {
		return "", false, fmt.Errorf("%w: field %s of %d bytes", ErrOutOfMemory, f, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", false, c.corrupt(f, err)
	}
	s, err := decodeText(buf)
	if err != nil {
		return "", false, c.corrupt(f, err)
	}
	return s, true, nil
}

// Array reads a string array field in stored order.
func (c *cursor) Array(f Field) ([]string, bool, error) {
	r, ok, err := c.seekField(f)
	if err != nil || !ok {
		return nil, ok, err
	}
	head := make([]byte, arrayHeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, false, c.corrupt(f, err)
	}
	size := int64(binary.LittleEndian.Uint32(head))
	count := int(binary.LittleEndian.Uint16(head[4:]))
	if size > c.limit {
		return nil, false, fmt.Errorf("%w: field %s of %d bytes", ErrOutOfMemory, f, size)
	}
	blob := make([]byte, size)
	if _, err := io.ReadFull(r, blob); err != nil {
		return nil, false, c.corrupt(f, err)
	}
	elements, err := decodeArray(blob, count)
	if err != nil {
		return nil, false, fmt.Errorf("record at %d field %s: %w", c.start, f, err)
	}
	return elements, true, nil
}

// Int reads an integer field. Absent and unreadable fields both read as
// MissingInt.
func (c *cursor) Int(f Field) int32 {
	r, ok, err := c.seekField(f)
	if err != nil || !ok {
		return MissingInt
	}
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return MissingInt
	}
	return v
}

func (c *cursor) corrupt(f Field, err error) error {
	return fmt.Errorf("%w: record at %d field %s: %w", ErrIO, c.start, f, err)
}

// id reads the mandatory id of the current record.
func (c *cursor) id() (string, error) {
	id, ok, err := c.String(FieldID)
	if err != nil {
		return "", err
	}
	if !ok || id == "" {
		return "", fmt.Errorf("%w: record at %d has no id", ErrIO, c.start)
	}
	return id, nil
}

// summary decodes the identity fields of the current record.
func (c *cursor) summary() (*Summary, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	s := &Summary{ID: id, Flag: c.Int(FieldFlag)}
	if s.Flag < 0 {
		return nil, fmt.Errorf("%w: handler '%s' has no flag", ErrIO, id)
	}
	if s.Flag >= NativeFlag {
		return s, nil
	}
	s.Suite = c.Int(FieldSuite)
	if s.Suite <= 0 {
		return nil, fmt.Errorf("%w: handler '%s' has no suite", ErrIO, id)
	}
	class, ok, err := c.String(FieldClass)
	if err != nil {
		return nil, err
	}
	if !ok || class == "" {
		return nil, fmt.Errorf("%w: handler '%s' has no class", ErrIO, id)
	}
	s.Class = class
	return s, nil
}

// handler decodes every field of the current record.
func (c *cursor) handler() (*Handler, error) {
	s, err := c.summary()
	if err != nil {
		return nil, err
	}
	h := &Handler{ID: s.ID, Flag: s.Flag, Suite: s.Suite, Class: s.Class}
	if h.Flag >= NativeFlag {
		h.Class, _, err = c.String(FieldClass)
		if err != nil {
			return nil, err
		}
	}
	for _, f := range arrayFields {
		values, _, err := c.Array(f)
		if err != nil {
			return nil, err
		}
		h.setArray(f, values)
	}
	return h, nil
}

// raw returns the bytes of the current record, header included.
func (c *cursor) raw() ([]byte, error) {
	size := int64(c.header.size)
	if size > c.limit {
		return nil, fmt.Errorf("%w: record at %d of %d bytes", ErrOutOfMemory, c.start, size)
	}
	buf := make([]byte, size)
	if _, err := c.file.ReadAt(buf, c.start); err != nil {
		return nil, fmt.Errorf("%w: read record at %d: %w", ErrIO, c.start, err)
	}
	return buf, nil
}

// Close releases the file. The cursor cannot be used afterwards.
func (c *cursor) Close() error {
	c.state = cursorClosed
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
