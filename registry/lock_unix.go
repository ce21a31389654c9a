//go:build unix

package registry

import (
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

type fder interface {
	Fd() uintptr
}

func flock(f afero.File) error {
	return flockOp(f, unix.LOCK_EX)
}

func funlock(f afero.File) error {
	return flockOp(f, unix.LOCK_UN)
}

func flockOp(f afero.File, how int) error {
	fd, ok := f.(fder)
	if !ok {
		return nil // in memory filesystems only get the process lock
	}
	for {
		err := unix.Flock(int(fd.Fd()), how)
		if err != unix.EINTR {
			return err
		}
	}
}
