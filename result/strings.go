package result

import (
	"fmt"

	"github.com/google/btree"

	"github.com/fulldump/handlerdb/registry"
)

// Strings collects values in insertion order. Every added value is indexed
// both as is and case folded so AppendUnique can honour either policy.
type Strings struct {
	Limit int

	values []string
	exact  *btree.BTreeG[string]
	folded *btree.BTreeG[string]
}

var _ registry.StringSink = (*Strings)(nil)

func NewStrings() *Strings {
	less := func(a, b string) bool { return a < b }
	return &Strings{
		values: []string{},
		exact:  btree.NewG(16, less),
		folded: btree.NewG(16, less),
	}
}

func (s *Strings) Append(value string) error {
	if s.Limit > 0 && len(s.values) >= s.Limit {
		return fmt.Errorf("%w: more than %d values", registry.ErrOutOfMemory, s.Limit)
	}
	s.values = append(s.values, value)
	s.exact.ReplaceOrInsert(value)
	s.folded.ReplaceOrInsert(registry.Fold(value))
	return nil
}

func (s *Strings) AppendUnique(value string, caseSensitive bool) error {
	if caseSensitive {
		if s.exact.Has(value) {
			return nil
		}
	} else if s.folded.Has(registry.Fold(value)) {
		return nil
	}
	return s.Append(value)
}

func (s *Strings) Values() []string {
	return s.values
}

func (s *Strings) Len() int {
	return len(s.values)
}
