// Package result holds the accumulators callers hand to registry searches.
package result

import (
	"fmt"

	"github.com/fulldump/handlerdb/registry"
)

// Handlers collects summaries in the order they are found.
type Handlers struct {
	Items []registry.Summary
	Limit int
}

var _ registry.HandlerSink = (*Handlers)(nil)

func (h *Handlers) AppendHandler(s registry.Summary) error {
	if h.Limit > 0 && len(h.Items) >= h.Limit {
		return fmt.Errorf("%w: more than %d handlers", registry.ErrOutOfMemory, h.Limit)
	}
	h.Items = append(h.Items, s)
	return nil
}

func (h *Handlers) Len() int {
	return len(h.Items)
}
