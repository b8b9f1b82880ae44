// Package fixpoint implements the forward, block-granular, worklist-based
// monotone fixpoint iterator spec.md §4.4 mandates the contract for,
// grounded on the teacher's analysis/livevars.LiveVars monotone fixpoint
// (same enqueue-on-growth discipline, also over a join-semilattice) and
// built on the teacher's own generic worklist (internal/worklist, ported
// from utils/worklist).
package fixpoint

import (
	uf "github.com/spakin/disjoint"

	"github.com/dexshrink/reflectflow/env"
	"github.com/dexshrink/reflectflow/internal/worklist"
	"github.com/dexshrink/reflectflow/ir"
	"github.com/dexshrink/reflectflow/transfer"
)

// Result holds, for each block, the environment at its entry and its exit
// (after applying every instruction in program order), plus the loop
// headers and loop bodies discovered while computing the RPO traversal
// order. internal/viz uses LoopHeaders to fill loop header blocks on the
// rendered CFG.
type Result struct {
	Entry       map[*ir.Block]env.Environment
	Exit        map[*ir.Block]env.Environment
	LoopHeaders map[*ir.Block]bool
	LoopBodies  map[*ir.Block][]*ir.Block
}

// Run computes the fixpoint over cfg, seeding the entry block's entry
// state with seed (spec.md §4.4 "Entry state"). Blocks are processed in
// reverse postorder on each worklist round (an optimization absent from
// the distilled spec but present throughout the corpus's worklist
// dataflow implementations, see DESIGN.md) -- this changes only the
// number of rounds, never the fixpoint's result, so spec.md §8.1's
// termination bound still holds.
func Run(cfg *ir.CFG, seed env.Environment, xfer *transfer.Function) Result {
	order, loopHeaders, loopBodies := reversePostorder(cfg)
	rpoIndex := make(map[*ir.Block]int, len(order))
	for i, b := range order {
		rpoIndex[b] = i
	}

	entries := make(map[*ir.Block]env.Environment, len(cfg.Blocks))
	exits := make(map[*ir.Block]env.Environment, len(cfg.Blocks))
	visited := make(map[*ir.Block]bool, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		entries[b] = env.Top()
	}
	entries[cfg.Entry] = seed
	visited[cfg.Entry] = true

	blockTransfer := func(b *ir.Block) env.Environment {
		e := entries[b]
		for _, insn := range b.Insns {
			e = xfer.Apply(insn, e)
		}
		return e
	}

	// FIFO worklist ordered by an RPO-aware add: GetNext drains in
	// enqueue order, so to approximate RPO-per-round we seed and
	// re-seed in RPO order whenever the worklist transitions from
	// empty. This keeps worklist.Worklist's simple FIFO contract
	// (internal/worklist) while still cutting down on re-visits versus
	// an arbitrary enqueue order.
	w := worklist.Empty[*ir.Block]()
	for _, b := range order {
		w.Add(b)
	}

	for !w.IsEmpty() {
		pending := drainInRPOOrder(w, rpoIndex)
		for _, b := range pending {
			exit := blockTransfer(b)
			exits[b] = exit
			for _, succ := range b.Successors() {
				// A not-yet-visited successor's entries[succ] = env.Top()
				// is a placeholder, not an observed predecessor value --
				// Join would wrongly absorb exit into Top, since
				// domain.Element.Join treats Top as absorbing, not as
				// the identity (only Bottom is). Adopt exit directly the
				// first time succ is reached; Join only from the second
				// predecessor on.
				if !visited[succ] {
					visited[succ] = true
					entries[succ] = exit
					w.Add(succ)
					continue
				}
				joined := entries[succ].Join(exit)
				if !joined.Eq(entries[succ]) {
					entries[succ] = joined
					w.Add(succ)
				}
			}
		}
	}

	return Result{Entry: entries, Exit: exits, LoopHeaders: loopHeaders, LoopBodies: loopBodies}
}

// drainInRPOOrder dequeues every currently pending block from w and
// returns them sorted by reverse-postorder index, so a worklist round
// processes blocks in the order most likely to avoid re-visits.
func drainInRPOOrder(w *worklist.Worklist[*ir.Block], rpoIndex map[*ir.Block]int) []*ir.Block {
	var batch []*ir.Block
	for !w.IsEmpty() {
		batch = append(batch, w.GetNext())
	}
	for i := 1; i < len(batch); i++ {
		for j := i; j > 0 && rpoIndex[batch[j-1]] > rpoIndex[batch[j]]; j-- {
			batch[j-1], batch[j] = batch[j], batch[j-1]
		}
	}
	return batch
}

// reversePostorder numbers cfg's blocks via a depth-first postorder
// traversal from the entry, reversed. Before numbering, a separate DFS
// classifies an edge as a back edge when its target is still on the open
// DFS path; loop headers are exactly the targets of back edges. For each
// back edge, the blocks on the open path from the header to the edge's
// source are unioned into one component with github.com/spakin/disjoint
// (grounded on the teacher's use of it for union-find over points-to
// primitives in analysis/gotopo/pset.go); those components are the loop
// bodies. The RPO numbering itself does not depend on this classification.
func reversePostorder(cfg *ir.CFG) ([]*ir.Block, map[*ir.Block]bool, map[*ir.Block][]*ir.Block) {
	elements := make(map[*ir.Block]*uf.Element, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		elements[b] = uf.NewElement()
	}

	onStack := make(map[*ir.Block]bool, len(cfg.Blocks))
	stack := make([]*ir.Block, 0, len(cfg.Blocks))
	loopHeaders := make(map[*ir.Block]bool)

	var markBackEdges func(b *ir.Block, visited map[*ir.Block]bool)
	markBackEdges = func(b *ir.Block, visited map[*ir.Block]bool) {
		visited[b] = true
		onStack[b] = true
		stack = append(stack, b)
		for _, succ := range b.Successors() {
			if onStack[succ] {
				// Back edge: b -> succ, succ is a loop header.
				// Union every block currently on the open DFS
				// path from succ to b into one component: that
				// is exactly the natural loop body succ heads.
				for i := len(stack) - 1; stack[i] != succ; i-- {
					uf.Union(elements[stack[i]], elements[succ])
				}
				loopHeaders[succ] = true
				continue
			}
			if !visited[succ] {
				markBackEdges(succ, visited)
			}
		}
		onStack[b] = false
		stack = stack[:len(stack)-1]
	}
	markBackEdges(cfg.Entry, make(map[*ir.Block]bool, len(cfg.Blocks)))

	var postorder []*ir.Block
	seen := make(map[*ir.Block]bool, len(cfg.Blocks))
	var visit func(b *ir.Block)
	visit = func(b *ir.Block) {
		if seen[b] {
			return
		}
		seen[b] = true
		for _, succ := range b.Successors() {
			visit(succ)
		}
		postorder = append(postorder, b)
	}
	visit(cfg.Entry)

	// Any block unreachable from the entry (shouldn't occur for a
	// well-formed CFG, but cheap to handle) is appended last so Run
	// still has an entry for it.
	for _, b := range cfg.Blocks {
		if !seen[b] {
			postorder = append(postorder, b)
		}
	}

	rpo := make([]*ir.Block, len(postorder))
	for i, b := range postorder {
		rpo[len(postorder)-1-i] = b
	}
	return rpo, loopHeaders, loopBodies(cfg, elements, loopHeaders)
}

// loopBodies groups blocks by the union-find component their natural loop
// (if any) was merged into, keyed by that loop's header.
func loopBodies(cfg *ir.CFG, elements map[*ir.Block]*uf.Element, loopHeaders map[*ir.Block]bool) map[*ir.Block][]*ir.Block {
	byRoot := make(map[*uf.Element][]*ir.Block)
	for _, b := range cfg.Blocks {
		root := elements[b].Find()
		byRoot[root] = append(byRoot[root], b)
	}
	bodies := make(map[*ir.Block][]*ir.Block, len(loopHeaders))
	for header := range loopHeaders {
		bodies[header] = byRoot[elements[header].Find()]
	}
	return bodies
}
