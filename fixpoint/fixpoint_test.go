package fixpoint

import (
	"testing"

	"github.com/dexshrink/reflectflow/domain"
	"github.com/dexshrink/reflectflow/env"
	"github.com/dexshrink/reflectflow/ir"
	"github.com/dexshrink/reflectflow/ir/testutil"
	"github.com/dexshrink/reflectflow/transfer"
)

const v0 ir.RegisterID = 0

func setClass(b *testutil.Builder, blk *ir.Block, t *ir.Type, dest ir.RegisterID) {
	b.Emit(blk, &ir.Instruction{Opcode: ir.OpConstClass, Type: t, WritesResult: true})
	b.Emit(blk, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: dest})
}

// TestRunJoinsDisagreeingBranchesToTop builds a diamond CFG where two
// branches bind v0 to different Class constants; the merge block's entry
// environment must read v0 as Top, per spec.md §3.3's pointwise join.
func TestRunJoinsDisagreeingBranchesToTop(t *testing.T) {
	b := testutil.NewBuilder()
	fooType := b.Types.Intern("Lcom/foo/Foo;")
	barType := b.Types.Intern("Lcom/foo/Bar;")

	entry := b.Block()
	branchA := b.Block()
	branchB := b.Block()
	merge := b.Block()

	b.Edge(entry, branchA)
	b.Edge(entry, branchB)
	b.Edge(branchA, merge)
	b.Edge(branchB, merge)

	setClass(b, branchA, fooType, v0)
	setClass(b, branchB, barType, v0)

	cfg := b.CFG(entry)
	xfer := transfer.New(b.Types, b.Strings, b.Refs, ir.DefaultRegistry())

	result := Run(cfg, env.Top(), xfer)

	if got := result.Entry[merge].Get(v0); !got.IsTop() {
		t.Errorf("merge entry v0 = %v, want Top (branches disagree on the constant)", got)
	}
}

// TestRunPreservesAgreeingBranches mirrors the diamond above but with both
// branches binding v0 to the same constant: the merge must keep it precise.
func TestRunPreservesAgreeingBranches(t *testing.T) {
	b := testutil.NewBuilder()
	fooType := b.Types.Intern("Lcom/foo/Foo;")

	entry := b.Block()
	branchA := b.Block()
	branchB := b.Block()
	merge := b.Block()

	b.Edge(entry, branchA)
	b.Edge(entry, branchB)
	b.Edge(branchA, merge)
	b.Edge(branchB, merge)

	setClass(b, branchA, fooType, v0)
	setClass(b, branchB, fooType, v0)

	cfg := b.CFG(entry)
	xfer := transfer.New(b.Types, b.Strings, b.Refs, ir.DefaultRegistry())

	result := Run(cfg, env.Top(), xfer)

	got, ok := result.Entry[merge].Get(v0).Constant()
	if !ok {
		t.Fatalf("merge entry v0 = %v, want a Constant (branches agree)", result.Entry[merge].Get(v0))
	}
	if want := domain.Class(fooType, domain.Reflection); !got.Equal(want) {
		t.Errorf("merge entry v0 = %v, want %v", got, want)
	}
}

// TestRunAdoptsFirstPredecessorExitVerbatim guards the fix that makes a
// single straight-line chain actually propagate: a block with exactly one
// predecessor must see that predecessor's exit state exactly, not Top.
func TestRunAdoptsFirstPredecessorExitVerbatim(t *testing.T) {
	b := testutil.NewBuilder()
	fooType := b.Types.Intern("Lcom/foo/Foo;")

	entry := b.Block()
	next := b.Block()
	b.Edge(entry, next)
	setClass(b, entry, fooType, v0)

	cfg := b.CFG(entry)
	xfer := transfer.New(b.Types, b.Strings, b.Refs, ir.DefaultRegistry())

	result := Run(cfg, env.Top(), xfer)

	got, ok := result.Entry[next].Get(v0).Constant()
	if !ok {
		t.Fatalf("next entry v0 = %v, want the constant bound by its sole predecessor", result.Entry[next].Get(v0))
	}
	if want := domain.Class(fooType, domain.Reflection); !got.Equal(want) {
		t.Errorf("next entry v0 = %v, want %v", got, want)
	}
}

// TestRunDetectsLoopHeaderAndBody builds entry -> header -> body -> header
// (back edge) -> exit, and checks the header/body classification fed to
// internal/viz.
func TestRunDetectsLoopHeaderAndBody(t *testing.T) {
	b := testutil.NewBuilder()

	entry := b.Block()
	header := b.Block()
	body := b.Block()
	exit := b.Block()

	b.Edge(entry, header)
	b.Edge(header, body)
	b.Edge(header, exit)
	b.Edge(body, header)

	cfg := b.CFG(entry)
	xfer := transfer.New(b.Types, b.Strings, b.Refs, ir.DefaultRegistry())

	result := Run(cfg, env.Top(), xfer)

	if !result.LoopHeaders[header] {
		t.Error("header must be classified as a loop header (target of the body->header back edge)")
	}
	if result.LoopHeaders[body] || result.LoopHeaders[entry] || result.LoopHeaders[exit] {
		t.Error("only the back edge's target should be classified as a loop header")
	}

	members := make(map[*ir.Block]bool)
	for _, blk := range result.LoopBodies[header] {
		members[blk] = true
	}
	if !members[header] || !members[body] {
		t.Errorf("loop body for header must include header and body, got %v", result.LoopBodies[header])
	}
	if members[entry] || members[exit] {
		t.Error("loop body must not include blocks outside the natural loop")
	}
}

// TestRunConvergesOverALoop confirms the fixpoint stabilizes a value fed
// back around a loop: the loop carries v0 = CLASS_REFLECT{Foo} unconditionally on
// every iteration, so it must remain precise (not get joined down to Top
// by the fixpoint's own re-entry, since the value never actually changes).
func TestRunConvergesOverALoop(t *testing.T) {
	b := testutil.NewBuilder()
	fooType := b.Types.Intern("Lcom/foo/Foo;")

	entry := b.Block()
	header := b.Block()
	body := b.Block()
	exit := b.Block()

	b.Edge(entry, header)
	b.Edge(header, body)
	b.Edge(header, exit)
	b.Edge(body, header)

	setClass(b, entry, fooType, v0)

	cfg := b.CFG(entry)
	xfer := transfer.New(b.Types, b.Strings, b.Refs, ir.DefaultRegistry())

	result := Run(cfg, env.Top(), xfer)

	got, ok := result.Entry[exit].Get(v0).Constant()
	if !ok {
		t.Fatalf("exit entry v0 = %v, want a stable Constant", result.Entry[exit].Get(v0))
	}
	if want := domain.Class(fooType, domain.Reflection); !got.Equal(want) {
		t.Errorf("exit entry v0 = %v, want %v", got, want)
	}
}
