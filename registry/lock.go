package registry

import (
	"fmt"
	"os"
	"sync"
)

var pathLocks sync.Map

func pathMutex(path string) *sync.Mutex {
	m, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// lock takes the advisory lock of the store: a process local mutex plus an
// exclusive flock on the sidecar file "<path>.lock" when the filesystem has
// real file descriptors.
func (s *Store) lock() (unlock func(), err error) {
	mu := pathMutex(s.path)
	mu.Lock()

	f, err := s.fs.OpenFile(s.path+".lock", os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("%w: open lock: %w", ErrIO, err)
	}
	if err := flock(f); err != nil {
		f.Close()
		mu.Unlock()
		return nil, fmt.Errorf("%w: lock: %w", ErrIO, err)
	}

	return func() {
		if err := funlock(f); err != nil {
			s.log.WithError(err).Warn("release store lock")
		}
		f.Close()
		mu.Unlock()
	}, nil
}
