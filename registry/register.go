package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Register appends h at the end of the store. The record header is written
// as a placeholder first and patched once every field is in place. A failure
// after the id was written rolls the file back and unregisters the id, so no
// partial record is ever reachable.
func (s *Store) Register(h *Handler) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if size := encodedSize(h); size > s.maxRecordSize {
		return fmt.Errorf("%w: handler '%s' needs %d bytes", ErrOutOfMemory, h.ID, size)
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}

	file, err := s.fs.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		unlock()
		return fmt.Errorf("%w: open '%s': %w", ErrIO, s.path, err)
	}

	start, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		file.Close()
		unlock()
		return fmt.Errorf("%w: seek end: %w", ErrIO, err)
	}

	placed, err := writeRecord(file, h)
	if err == nil {
		if serr := file.Sync(); serr != nil {
			err = fmt.Errorf("%w: sync: %w", ErrIO, serr)
		}
	}
	if err == nil {
		cerr := file.Close()
		unlock()
		if cerr != nil {
			return fmt.Errorf("%w: close: %w", ErrIO, cerr)
		}
		s.log.WithField("id", h.ID).WithField("offset", start).Debug("registered handler")
		return nil
	}

	if terr := file.Truncate(start); terr != nil {
		s.log.WithError(terr).WithField("id", h.ID).Warn("truncate partial record")
	}
	file.Close()
	unlock()

	if placed {
		s.log.WithError(err).WithField("id", h.ID).Warn("register failed, removing partial handler")
		if uerr := s.Unregister(h.ID); uerr != nil && !errors.Is(uerr, ErrNotFound) {
			s.log.WithError(uerr).WithField("id", h.ID).Error("remove partial handler")
		}
	}

	if !errors.Is(err, ErrIO) && !errors.Is(err, ErrOutOfMemory) {
		err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	return err
}
