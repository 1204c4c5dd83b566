package seeding

import (
	"fmt"
	"sync"

	"cellseed.ai/internal/sim/model"
)

// slot resolves a custom data name to its schema index on first use and keeps
// the answer for the lifetime of its owner.
type slot struct {
	name string

	once sync.Once
	idx  int
	err  error
}

func (s *slot) index(schema *model.Schema) (int, error) {
	s.once.Do(func() {
		if schema == nil {
			s.err = fmt.Errorf("custom data %q: no schema", s.name)
			return
		}
		i, ok := schema.Index(s.name)
		if !ok {
			s.err = fmt.Errorf("custom data %q not in schema", s.name)
			return
		}
		s.idx = i
	})
	return s.idx, s.err
}
