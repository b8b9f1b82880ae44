// Package testutil builds small ir.Method fixtures by hand, the way the
// teacher's own testutil package exists purely to construct fixtures for
// analysis/absint's tests. It is not a bytecode parser (see Non-goals) --
// just enough scaffolding to write the end-to-end scenarios from
// spec.md §8.4 without hand-wiring *ir.Block predecessor/successor slices
// in every test.
package testutil

import "github.com/dexshrink/reflectflow/ir"

// Builder accumulates blocks and instructions for a single method.
type Builder struct {
	Types   *ir.TypeTable
	Strings *ir.StringTable
	Refs    *ir.RefTable

	blocks []*ir.Block
}

// NewBuilder creates a Builder with fresh interning tables.
func NewBuilder() *Builder {
	return &Builder{
		Types:   ir.NewTypeTable(),
		Strings: ir.NewStringTable(),
		Refs:    ir.NewRefTable(),
	}
}

// Block allocates and returns a new, empty block.
func (b *Builder) Block() *ir.Block {
	blk := &ir.Block{Index: len(b.blocks)}
	b.blocks = append(b.blocks, blk)
	return blk
}

// Emit appends insn to blk and returns it, for chaining.
func (b *Builder) Emit(blk *ir.Block, insn *ir.Instruction) *ir.Instruction {
	blk.Insns = append(blk.Insns, insn)
	return insn
}

// LoadParamObject builds a parameter-seeding pseudo-instruction binding
// dest to paramType, per spec.md §4.3's "first param-or-this, else next
// declared argument type" rule -- callers resolve which type that is
// (e.g. via Method.ParamTypes / the declaring type for "this") since the
// transfer function itself has no signature to consult per-instruction.
func (b *Builder) LoadParamObject(dest ir.RegisterID, paramType *ir.Type) *ir.Instruction {
	return &ir.Instruction{Opcode: ir.OpLoadParamObject, Dest: dest, Type: paramType}
}

// LoadParamObjectAt builds a parameter-seeding pseudo-instruction for the
// position'th formal parameter of a method with the given declaring type,
// static flag, and declared parameter types, resolving the bound type via
// ir.ResolveParamType (spec.md §4.3's position rule, including the
// "position exceeds arity" structural assertion, spec.md §7).
func (b *Builder) LoadParamObjectAt(dest ir.RegisterID, declaringType *ir.Type, static bool, paramTypes []*ir.Type, position int) *ir.Instruction {
	return b.LoadParamObject(dest, ir.ResolveParamType(declaringType, static, paramTypes, position))
}

// Edge records a fallthrough/branch edge from -> to.
func (b *Builder) Edge(from, to *ir.Block) {
	ir.AddEdge(from, to)
}

// CFG finalizes the built blocks into a CFG rooted at entry.
func (b *Builder) CFG(entry *ir.Block) *ir.CFG {
	return &ir.CFG{Entry: entry, Blocks: b.blocks}
}

// Method builds an ir.Method over cfg with the given declaring type,
// static flag, and parameter types (external dotted names, converted to
// descriptors and interned).
func (b *Builder) Method(declaringExternal string, static bool, paramExternals []string, cfg *ir.CFG) *ir.Method {
	params := make([]*ir.Type, len(paramExternals))
	for i, p := range paramExternals {
		params[i] = b.Types.Intern(ir.ExternalToInternal(p))
	}
	return &ir.Method{
		DeclaringType: b.Types.Intern(ir.ExternalToInternal(declaringExternal)),
		Static:        static,
		ParamTypes:    params,
		CFG:           cfg,
	}
}
