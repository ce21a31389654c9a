package registry

import (
	"fmt"
	"io"
)

func searchable(f Field) bool {
	switch f {
	case FieldID, FieldTypes, FieldSuffixes, FieldActions:
		return true
	}
	return false
}

// Find appends every handler visible to caller whose key field matches
// value. Ids match case-sensitively, types and suffixes ignore case, actions
// respect it.
func (s *Store) Find(caller string, key Field, value string, sink HandlerSink) error {
	if !searchable(key) {
		return fmt.Errorf("%w: cannot search by %s", ErrInvalidArgument, key)
	}

	c, err := s.open()
	if err != nil {
		return err
	}
	defer c.Close()

	for {
		err := c.NextVisible(caller)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		matched, err := c.matches(key, value)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}

		summary, err := c.summary()
		if err != nil {
			return err
		}
		if err := sink.AppendHandler(*summary); err != nil {
			return err
		}
	}
}

func (c *cursor) matches(key Field, value string) (bool, error) {
	if key == FieldID {
		id, err := c.id()
		if err != nil {
			return false, err
		}
		return equalText(id, value, true), nil
	}

	values, _, err := c.Array(key)
	if err != nil {
		return false, err
	}
	caseSensitive := key == FieldActions
	for _, v := range values {
		if equalText(v, value, caseSensitive) {
			return true, nil
		}
	}
	return false, nil
}

// FindForSuite appends every handler owned by suite. Access lists are not
// applied.
func (s *Store) FindForSuite(suite int32, sink HandlerSink) error {
	c, err := s.open()
	if err != nil {
		return err
	}
	defer c.Close()

	for {
		err := c.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if v := c.Int(FieldSuite); v == MissingInt || v != suite {
			continue
		}

		summary, err := c.summary()
		if err != nil {
			return err
		}
		if err := sink.AppendHandler(*summary); err != nil {
			return err
		}
	}
}

// ListValues appends the distinct values of field over the handlers visible
// to caller. Only actions are compared case-sensitively.
func (s *Store) ListValues(caller string, field Field, sink StringSink) error {
	if !searchable(field) {
		return fmt.Errorf("%w: cannot list %s", ErrInvalidArgument, field)
	}

	c, err := s.open()
	if err != nil {
		return err
	}
	defer c.Close()

	caseSensitive := field == FieldActions
	for {
		err := c.NextVisible(caller)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if field == FieldID {
			id, err := c.id()
			if err != nil {
				return err
			}
			if err := sink.AppendUnique(id, false); err != nil {
				return err
			}
			continue
		}

		values, _, err := c.Array(field)
		if err != nil {
			return err
		}
		for _, v := range values {
			if err := sink.AppendUnique(v, caseSensitive); err != nil {
				return err
			}
		}
	}
}

// GetHandler returns the first handler visible to caller whose id matches.
// Exact mode needs ids of equal length; Prefix mode also accepts stored ids
// that are a prefix of id. Both ignore case.
func (s *Store) GetHandler(caller, id string, mode Mode) (*Summary, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty handler id", ErrInvalidArgument)
	}

	c, err := s.open()
	if err != nil {
		return nil, err
	}
	defer c.Close()

	n := UnitLen(id)
	for {
		err := c.NextVisible(caller)
		if err == io.EOF {
			return nil, fmt.Errorf("handler '%s': %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}

		stored, err := c.id()
		if err != nil {
			return nil, err
		}
		storedLen := UnitLen(stored)
		if storedLen != n && (mode != Prefix || storedLen > n) {
			continue
		}
		prefix, ok := unitPrefix(id, storedLen)
		if !ok || !equalText(stored, prefix, false) {
			continue
		}
		return c.summary()
	}
}

// GetHandlerField appends the values of an array field of handler id, in
// stored order. Access lists are not applied. An absent field appends
// nothing.
func (s *Store) GetHandlerField(id string, field Field, sink StringSink) error {
	if id == "" {
		return fmt.Errorf("%w: empty handler id", ErrInvalidArgument)
	}
	if !field.IsArray() {
		return fmt.Errorf("%w: %s is not an array field", ErrInvalidArgument, field)
	}

	c, err := s.open()
	if err != nil {
		return err
	}
	defer c.Close()

	for {
		err := c.Next()
		if err == io.EOF {
			return fmt.Errorf("handler '%s': %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		stored, err := c.id()
		if err != nil {
			return err
		}
		if !equalText(stored, id, false) {
			continue
		}

		values, _, err := c.Array(field)
		if err != nil {
			return err
		}
		for _, v := range values {
			if err := sink.Append(v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Walk calls visit with every handler visible to caller, fully decoded, until
// visit returns an error.
func (s *Store) Walk(caller string, visit func(h *Handler) error) error {
	c, err := s.open()
	if err != nil {
		return err
	}
	defer c.Close()

	for {
		err := c.NextVisible(caller)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		h, err := c.handler()
		if err != nil {
			return err
		}
		if err := visit(h); err != nil {
			return err
		}
	}
}
