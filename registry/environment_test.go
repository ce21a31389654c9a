package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const storePath = "/handlers"

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Environment runs f against a store kept in memory.
func Environment(f func(s *Store, fs afero.Fs)) {
	fs := afero.NewMemMapFs()
	f(New(storePath, WithFs(fs), WithLogger(quietLogger())), fs)
}

// OsEnvironment runs f against a store in a temporary file of the working
// directory.
func OsEnvironment(f func(filename string)) {
	filename := fmt.Sprintf("temp-%v", time.Now().UnixNano())
	defer os.Remove(filename)
	defer os.Remove(filename + ".lock")
	f(filename)
}

func newJvmHandler(id string) *Handler {
	return &Handler{
		ID:        id,
		Flag:      0,
		Suite:     7,
		Class:     "com.example.Main",
		Types:     []string{"text/plain", "text/html"},
		Suffixes:  []string{".txt"},
		Actions:   []string{"open", "edit"},
		Locales:   []string{"en"},
		ActionMap: []string{"Open", "Edit"},
	}
}

func newNativeHandler(id string) *Handler {
	return &Handler{
		ID:      id,
		Flag:    NativeFlag,
		Class:   "/usr/bin/viewer",
		Types:   []string{"image/png"},
		Actions: []string{"view"},
	}
}

func mustRead(fs afero.Fs) []byte {
	b, err := afero.ReadFile(fs, storePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}
	return b
}

// faultyFs fails writes to the store file once budget bytes were written.
type faultyFs struct {
	afero.Fs
	budget int
}

func (f *faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil || !strings.HasSuffix(name, storePath) {
		return file, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

type faultyFile struct {
	afero.File
	fs *faultyFs
}

func (f *faultyFile) Write(b []byte) (int, error) {
	if len(b) > f.fs.budget {
		return 0, errors.New("no space left on device")
	}
	f.fs.budget -= len(b)
	return f.File.Write(b)
}
