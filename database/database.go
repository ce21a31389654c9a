package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fulldump/handlerdb/registry"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

// DefaultFilename is the store file name inside Dir.
const DefaultFilename = ".handlerdb"

type Config struct {
	Dir           string
	Filename      string
	MaxRecordSize int64
	Fs            afero.Fs
	Logger        logrus.FieldLogger
}

type Database struct {
	config *Config
	log    logrus.FieldLogger

	mu     sync.RWMutex
	status string
	store  *registry.Store

	exit     chan struct{}
	exitOnce sync.Once
}

func NewDatabase(config *Config) *Database {
	l := config.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Database{
		config: config,
		log:    l,
		status: StatusOpening,
		exit:   make(chan struct{}),
	}
}

// ResolvePath returns the store location: dir (the home directory when
// empty, the working directory when there is no home) joined with filename.
func ResolvePath(dir, filename string) string {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		dir = home
	}
	if filename == "" {
		filename = DefaultFilename
	}
	return filepath.Join(dir, filename)
}

func (db *Database) GetStatus() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mu.Lock()
	db.status = status
	db.mu.Unlock()
	db.log.WithField("status", status).Info("database status")
}

// Store returns the registry handle, nil until the database is loaded.
func (db *Database) Store() *registry.Store {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store
}

// Load resolves the store path, makes sure its directory exists and scans
// the store once so a corrupt file is reported at startup.
func (db *Database) Load() error {

	fs := db.config.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	filename := ResolvePath(db.config.Dir, db.config.Filename)
	l := db.log.WithField("path", filename)
	l.Info("loading registry")

	err := fs.MkdirAll(filepath.Dir(filename), 0755)
	if err != nil {
		db.setStatus(StatusClosing)
		return fmt.Errorf("%w: create directory: %w", registry.ErrIO, err)
	}

	store := registry.New(filename,
		registry.WithFs(fs),
		registry.WithLogger(db.log),
		registry.WithMaxRecordSize(db.config.MaxRecordSize),
	)

	t0 := time.Now()
	stat, err := store.Stat()
	if err != nil {
		l.WithError(err).Error("scan registry")
		db.setStatus(StatusClosing)
		return err
	}
	l.WithField("records", stat.Records).
		WithField("size", stat.Size).
		WithField("took", time.Since(t0)).
		Info("registry loaded")

	db.mu.Lock()
	db.store = store
	db.mu.Unlock()
	db.setStatus(StatusOperating)

	return nil
}

// Start loads the database and blocks until Stop is called.
func (db *Database) Start() error {

	go func() {
		if err := db.Load(); err != nil {
			db.log.WithError(err).Error("load database")
		}
	}()

	<-db.exit

	return nil
}

// Stop releases the store handle and unblocks Start.
func (db *Database) Stop() error {

	defer db.exitOnce.Do(func() { close(db.exit) })

	db.setStatus(StatusClosing)

	db.mu.Lock()
	db.store = nil
	db.mu.Unlock()

	return nil
}
