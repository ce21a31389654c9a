package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Unregister removes every record whose id equals id, ignoring case. The
// remaining records are copied to a temporary file that then replaces the
// store.
func (s *Store) Unregister(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty handler id", ErrInvalidArgument)
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	src, err := s.open()
	if err != nil {
		return err
	}
	defer src.Close()

	if !src.exists() {
		return fmt.Errorf("unregister '%s': %w", id, ErrNotFound)
	}

	tmpPath := s.path + "." + uuid.NewString() + ".tmp"
	tmp, err := s.fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("%w: create '%s': %w", ErrIO, tmpPath, err)
	}
	done := false
	defer func() {
		if !done {
			tmp.Close()
			s.fs.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	removed := 0
	for {
		err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		stored, err := src.id()
		if err != nil {
			return err
		}
		if equalText(stored, id, false) {
			removed++
			continue
		}

		record, err := src.raw()
		if err != nil {
			return err
		}
		if _, err := writeFull(w, record); err != nil {
			return err
		}
	}

	if removed == 0 {
		return fmt.Errorf("unregister '%s': %w", id, ErrNotFound)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpPath)
		done = true
		return fmt.Errorf("%w: close: %w", ErrIO, err)
	}
	src.Close()

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		done = true
		return fmt.Errorf("%w: replace store: %w", ErrIO, err)
	}
	done = true

	s.log.WithField("id", id).WithField("removed", removed).Debug("unregistered handler")
	return nil
}
