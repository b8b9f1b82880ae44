// Package reflection implements the Analysis facade (spec.md §4.5): the
// library entry point that owns a method's CFG and transfer function,
// drives the fixpoint and replay pass, and answers per-instruction
// queries from a memoized cache. Grounded on the teacher's main.go
// pipeline stages (construct -> run -> report) and on
// analysis/absint.AbstractInterpreter's split between "run the fixpoint"
// and "answer queries against the memoized result."
package reflection

import (
	"log"

	"github.com/dexshrink/reflectflow/domain"
	"github.com/dexshrink/reflectflow/env"
	"github.com/dexshrink/reflectflow/fixpoint"
	"github.com/dexshrink/reflectflow/internal/hashutil"
	"github.com/dexshrink/reflectflow/internal/hmap"
	"github.com/dexshrink/reflectflow/ir"
	"github.com/dexshrink/reflectflow/transfer"
)

// Analysis is the per-method facade described by spec.md §3.4's lifecycle:
// owns the method, its transfer function, and a memoized per-instruction
// environment cache. Not safe for concurrent queries from multiple
// goroutines (spec.md §5); independent Analysis instances over different
// methods are fine to run concurrently provided the interning tables
// passed to New are read-safe for lookups, which ir.TypeTable/StringTable/
// RefTable are once a program has finished loading.
type Analysis struct {
	method  *ir.Method
	hasCode bool

	xfer  *transfer.Function
	cache *hmap.Map[*ir.Instruction, env.Environment]
	order []*ir.Instruction

	loopHeaders map[*ir.Block]bool
}

// New constructs an Analysis for method. types, strs, and refs must be the
// interning tables method's instructions were built against; reg selects
// the reflection-API registry the transfer function interns handles
// against (spec.md §3.6). If method has no code, New records that and
// every subsequent query answers with "no information" (spec.md §7
// "Absent code") -- there is no error return because this is a normal,
// expected state, not a failure.
func New(method *ir.Method, types *ir.TypeTable, strs *ir.StringTable, refs *ir.RefTable, reg ir.Registry) *Analysis {
	a := &Analysis{method: method}
	if !method.HasCode() {
		log.Printf("reflectflow: %s has no code, skipping analysis", method.DeclaringType)
		return a
	}
	a.hasCode = true
	a.xfer = transfer.New(types, strs, refs, reg)

	result := fixpoint.Run(method.CFG, env.Top(), a.xfer)
	a.loopHeaders = result.LoopHeaders
	log.Printf("reflectflow: fixpoint converged for %s (%d blocks, %d loop headers)",
		method.DeclaringType, len(method.CFG.Blocks), len(result.LoopHeaders))

	a.cache = hmap.NewMap[env.Environment](hashutil.PointerHasher[*ir.Instruction]{})
	for _, b := range method.CFG.Blocks {
		e := result.Entry[b]
		for _, insn := range b.Insns {
			a.cache.Set(insn, e)
			a.order = append(a.order, insn)
			e = a.xfer.Apply(insn, e)
		}
	}
	log.Printf("reflectflow: replay cached %d instructions for %s", a.cache.Len(), method.DeclaringType)
	return a
}

// HasCode reports whether method had a body to analyze.
func (a *Analysis) HasCode() bool { return a.hasCode }

// GetAbstractObject looks up the environment cached for insn and returns
// reg's constant binding there, if any (spec.md §4.5). The environment
// used is the one reaching insn -- i.e. before insn's own transfer is
// applied, matching the replay pass's snapshot-before-apply contract.
func (a *Analysis) GetAbstractObject(reg ir.RegisterID, insn *ir.Instruction) (domain.AbstractObject, bool) {
	if !a.hasCode {
		return domain.AbstractObject{}, false
	}
	e, ok := a.cache.GetOk(insn)
	if !ok {
		return domain.AbstractObject{}, false
	}
	return e.Get(reg).Constant()
}

// EnvironmentAt returns the full cached environment reaching insn. Not
// named by spec.md's query API, but carried from libredex's ReflectionAnalysis,
// which exposes the same register-environment snapshot directly; useful to
// callers (e.g. internal/viz) that want every live binding at a point
// rather than one register at a time.
func (a *Analysis) EnvironmentAt(insn *ir.Instruction) (env.Environment, bool) {
	if !a.hasCode {
		return env.Environment{}, false
	}
	return a.cache.GetOk(insn)
}

// GetReflectionSites returns, in program order, one Site per instruction
// whose reaching environment binds at least one register (including
// RESULT_REGISTER) to a reflection output (spec.md §3.1, §4.5).
func (a *Analysis) GetReflectionSites() []Site {
	if !a.hasCode {
		return nil
	}
	var sites []Site
	for _, insn := range a.order {
		e, ok := a.cache.GetOk(insn)
		if !ok {
			continue
		}
		if objs := reflectionOutputs(e); len(objs) > 0 {
			sites = append(sites, Site{Instruction: insn, Objects: objs})
		}
	}
	return sites
}

// HasFoundReflection reports whether any instruction's reaching
// environment binds a reflection output.
func (a *Analysis) HasFoundReflection() bool {
	if !a.hasCode {
		return false
	}
	for _, insn := range a.order {
		e, ok := a.cache.GetOk(insn)
		if ok && hasReflectionOutput(e) {
			return true
		}
	}
	return false
}

// LoopHeaders exposes the fixpoint's loop-header classification (a
// SPEC_FULL addition, not named by spec.md) for internal/viz.
func (a *Analysis) LoopHeaders() map[*ir.Block]bool { return a.loopHeaders }

func reflectionOutputs(e env.Environment) map[ir.RegisterID]domain.AbstractObject {
	objs := make(map[ir.RegisterID]domain.AbstractObject)
	for _, reg := range e.Registers() {
		if v, ok := e.Get(reg).Constant(); ok && v.IsReflectionOutput() {
			objs[reg] = v
		}
	}
	if v, ok := e.Get(ir.ResultRegister).Constant(); ok && v.IsReflectionOutput() {
		objs[ir.ResultRegister] = v
	}
	if len(objs) == 0 {
		return nil
	}
	return objs
}

func hasReflectionOutput(e env.Environment) bool {
	for _, reg := range e.Registers() {
		if v, ok := e.Get(reg).Constant(); ok && v.IsReflectionOutput() {
			return true
		}
	}
	v, ok := e.Get(ir.ResultRegister).Constant()
	return ok && v.IsReflectionOutput()
}
