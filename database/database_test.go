package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/fulldump/biff"
	"github.com/spf13/afero"

	"github.com/fulldump/handlerdb/registry"
)

func TestResolvePath(t *testing.T) {

	AssertEqual(ResolvePath("/data", "handlers"), "/data/handlers")
	AssertEqual(ResolvePath("/data", ""), filepath.Join("/data", DefaultFilename))

	t.Setenv("HOME", "/home/someone")
	AssertEqual(ResolvePath("", ""), filepath.Join("/home/someone", DefaultFilename))
}

func TestDatabase_Lifecycle(t *testing.T) {

	// Setup
	fs := afero.NewMemMapFs()
	db := NewDatabase(&Config{
		Dir: "/var/lib/handlerdb",
		Fs:  fs,
	})
	AssertEqual(db.GetStatus(), StatusOpening)
	AssertNil(db.Store())

	// Run
	err := db.Load()

	// Check
	AssertNil(err)
	AssertEqual(db.GetStatus(), StatusOperating)
	AssertEqual(db.Store().Path(), filepath.Join("/var/lib/handlerdb", DefaultFilename))

	exists, _ := afero.DirExists(fs, "/var/lib/handlerdb")
	AssertTrue(exists)

	AssertNil(db.Stop())
	AssertEqual(db.GetStatus(), StatusClosing)
	AssertNil(db.Store())
}

func TestDatabase_Start(t *testing.T) {

	db := NewDatabase(&Config{Dir: t.TempDir()})

	done := make(chan error)
	go func() {
		done <- db.Start()
	}()

	for db.GetStatus() == StatusOpening {
		time.Sleep(time.Millisecond)
	}
	AssertEqual(db.GetStatus(), StatusOperating)

	db.Stop()
	AssertNil(<-done)
	AssertNil(db.Stop())
}

func TestDatabase_CorruptStore(t *testing.T) {

	// Setup
	fs := afero.NewMemMapFs()
	filename := ResolvePath("/data", "")
	AssertNil(afero.WriteFile(fs, filename, make([]byte, registry.HeaderSize), 0644))

	db := NewDatabase(&Config{Dir: "/data", Fs: fs})

	// Run
	err := db.Load()

	// Check
	AssertTrue(errors.Is(err, registry.ErrIO))
	AssertEqual(db.GetStatus(), StatusClosing)
}
