package codec

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/tlwire/tlc/internal/schema"
	"github.com/tlwire/tlc/tl"
)

// Set is the complete artifact set generated from one schema layer: every
// combinator's codec in schema order plus the global constructor registry.
type Set struct {
	Layer    int
	Codecs   []*Codec
	ByName   map[string]*Codec
	Registry *tl.Registry
	Table    *schema.TypeTable
}

// Get returns the codec for a qualified combinator name, or nil.
func (s *Set) Get(qualName string) *Codec {
	return s.ByName[qualName]
}

// BuildAll compiles every combinator into its codec and assembles the global
// registry. Generation aborts on the first structural failure (undeclared
// abstract type, duplicate constructor ID) rather than emitting a partially
// correct artifact set.
//
// Per-combinator compilation fans out over a bounded worker pool: the type
// table and codec shells are frozen before the workers start, each worker
// writes only its own error slot, and registry assembly runs single-writer
// after all workers join.
func BuildAll(s *schema.Schema, table *schema.TypeTable) (*Set, error) {
	set := &Set{
		Layer:  s.Layer,
		ByName: make(map[string]*Codec, len(s.Combinators)),
		Table:  table,
	}

	for _, comb := range s.Combinators {
		fields, err := Layout(comb.Args)
		if err != nil {
			return nil, fmt.Errorf("combinator %s: %w", comb.QualName, err)
		}
		c := &Codec{
			id:       comb.ID,
			name:     comb.QualName,
			leaf:     comb.Name,
			section:  comb.Section,
			qualType: comb.QualType,
			fields:   fields,
		}
		set.Codecs = append(set.Codecs, c)
		set.ByName[comb.QualName] = c
	}

	errs := make([]error, len(set.Codecs))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < runtime.GOMAXPROCS(0); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = set.Codecs[i].compile(s.Combinators[i], table, set.ByName)
			}
		}()
	}
	for i := range set.Codecs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("combinator %s: %w", set.Codecs[i].name, err)
		}
	}

	reg := tl.NewRegistry()
	for _, c := range set.Codecs {
		c := c
		if err := reg.Add(c.id, func() tl.Object { return c.New() }); err != nil {
			return nil, fmt.Errorf("combinator %s: %w", c.name, err)
		}
	}
	for _, c := range set.Codecs {
		c.reg = reg
	}
	set.Registry = reg

	return set, nil
}
