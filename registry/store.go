package registry

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultMaxRecordSize bounds how much of a single record is buffered.
const DefaultMaxRecordSize = 16 << 20

// Store is a handle on one registry file. Every operation opens the file,
// scans it and closes it again, so a Store holds no file state between calls.
type Store struct {
	path          string
	fs            afero.Fs
	log           logrus.FieldLogger
	maxRecordSize int64
}

type Option func(s *Store)

// WithFs sets the filesystem the store file lives in. Defaults to the OS one.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithLogger sets the logger for store operations. Defaults to the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithMaxRecordSize bounds record and field buffers. Larger records fail
// with ErrOutOfMemory.
func WithMaxRecordSize(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRecordSize = n
		}
	}
}

// New returns a handle on the store file at path. The file is created on the first register.
func New(path string, options ...Option) *Store {
	s := &Store{
		path:          path,
		fs:            afero.NewOsFs(),
		log:           logrus.StandardLogger(),
		maxRecordSize: DefaultMaxRecordSize,
	}
	for _, o := range options {
		o(s)
	}
	s.log = s.log.WithField("store", path)
	return s
}

// Path returns the location of the store file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) open() (*cursor, error) {
	return openCursor(s.fs, s.path, false, s.maxRecordSize)
}

// Stat describes the store file.
type Stat struct {
	Path    string `json:"path"`
	Exists  bool   `json:"exists"`
	Size    int64  `json:"size"`
	Records int    `json:"records"`
}

func (s *Store) Stat() (*Stat, error) {
	c, err := s.open()
	if err != nil {
		return nil, err
	}
	defer c.Close()

	st := &Stat{Path: s.path, Exists: c.exists(), Size: c.size}
	for {
		err := c.Next()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return nil, err
		}
		st.Records++
	}
}

// HandlerByURL resolves a handler from a URL. Resolution by URL is not
// supported by this store.
func (s *Store) HandlerByURL(caller, url, action string) (*Summary, error) {
	return nil, fmt.Errorf("handler by url: %w", ErrNotImplemented)
}

// ExecuteHandler launches a handler. Launching is not supported by this store.
func (s *Store) ExecuteHandler(id, url, action string) error {
	return fmt.Errorf("execute handler: %w", ErrNotImplemented)
}
