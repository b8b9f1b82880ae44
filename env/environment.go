// Package env implements the per-program-point mapping from registers to
// AbstractObjectDomain elements (spec.md §3.3): a persistent map so the
// fixpoint engine and the replay/memoization pass can retain and compare
// snapshots cheaply, grounded on the teacher's analysis/lattice map-based
// environment (analysis/lattice/map-base.go, map.go) which wraps the same
// benbjohnson/immutable persistent map for an identical reason.
package env

import (
	"github.com/benbjohnson/immutable"

	"github.com/dexshrink/reflectflow/domain"
	"github.com/dexshrink/reflectflow/internal/hashutil"
	"github.com/dexshrink/reflectflow/ir"
)

var registerHasher = hashutil.Int32Hasher[ir.RegisterID]{}

// Environment maps registers to domain.Element. A register absent from the
// underlying map implicitly holds domain.Top() (spec.md §3.3): an
// Environment never stores Top entries, keeping the map small and making
// Top() representable as the empty map.
type Environment struct {
	m *immutable.Map[ir.RegisterID, domain.Element]
}

// Top returns the environment mapping every register to Top, the fixpoint's
// starting point for unreachable/not-yet-visited blocks (spec.md §4.4).
func Top() Environment {
	return Environment{m: immutable.NewMap[ir.RegisterID, domain.Element](registerHasher)}
}

// Get returns the element bound to reg, or domain.Top() if reg has no
// explicit binding.
func (e Environment) Get(reg ir.RegisterID) domain.Element {
	if e.m == nil {
		return domain.Top()
	}
	v, ok := e.m.Get(reg)
	if !ok {
		return domain.Top()
	}
	return v
}

// Set returns a new Environment with reg bound to v, leaving e unmodified.
// Binding a register to Top removes its entry rather than storing it
// explicitly, preserving the "absent means Top" invariant.
func (e Environment) Set(reg ir.RegisterID, v domain.Element) Environment {
	base := e.m
	if base == nil {
		base = immutable.NewMap[ir.RegisterID, domain.Element](registerHasher)
	}
	if v.IsTop() {
		return Environment{m: base.Delete(reg)}
	}
	return Environment{m: base.Set(reg, v)}
}

// Join computes the pointwise join of e and o (spec.md §3.3 "Join is
// pointwise"): the result binds every register that either side binds
// explicitly, to the join of what each side reads for it (Top when absent).
func (e Environment) Join(o Environment) Environment {
	result := Top()
	if e.m != nil {
		it := e.m.Iterator()
		for !it.Done() {
			reg, v, _ := it.Next()
			result = result.Set(reg, v.Join(o.Get(reg)))
		}
	}
	if o.m != nil {
		it := o.m.Iterator()
		for !it.Done() {
			reg, v, _ := it.Next()
			if e.m != nil {
				if _, ok := e.m.Get(reg); ok {
					continue
				}
			}
			result = result.Set(reg, e.Get(reg).Join(v))
		}
	}
	return result
}

// Leq reports whether e ⊑ o pointwise: every register either side binds
// explicitly must read ⊑ in e what it reads in o. A register only o binds
// reads as Top in e, the greatest element, so it makes e ⊑ o false.
func (e Environment) Leq(o Environment) bool {
	if e.m != nil {
		it := e.m.Iterator()
		for !it.Done() {
			reg, v, _ := it.Next()
			if !v.Leq(o.Get(reg)) {
				return false
			}
		}
	}
	if o.m != nil {
		it := o.m.Iterator()
		for !it.Done() {
			reg, v, _ := it.Next()
			if !e.Get(reg).Leq(v) {
				return false
			}
		}
	}
	return true
}

// Eq reports environment equality.
func (e Environment) Eq(o Environment) bool {
	return e.Leq(o) && o.Leq(e)
}

// Registers returns the registers e binds explicitly, for iteration by
// callers that need to enumerate known (non-Top) bindings -- e.g. the
// reflection package's GetReflectionSites scan.
func (e Environment) Registers() []ir.RegisterID {
	if e.m == nil {
		return nil
	}
	regs := make([]ir.RegisterID, 0, e.m.Len())
	it := e.m.Iterator()
	for !it.Done() {
		reg, _, _ := it.Next()
		regs = append(regs, reg)
	}
	return regs
}
