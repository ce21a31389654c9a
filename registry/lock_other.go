//go:build !unix

package registry

import "github.com/spf13/afero"

func flock(f afero.File) error {
	return nil
}

func funlock(f afero.File) error {
	return nil
}
