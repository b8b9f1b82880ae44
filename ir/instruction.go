package ir

import "math"

// RegisterID identifies a virtual register. RESULT_REGISTER is the
// distinguished sentinel register instructions write their result to
// before a following MOVE_RESULT* pseudo-instruction copies it to an
// addressable register (spec.md §3.3, §9).
type RegisterID int32

// ResultRegister is the sentinel described in spec.md §9: an integer value
// outside the method's real register range.
const ResultRegister RegisterID = math.MaxInt32

// NoRegister marks an absent destination/source register.
const NoRegister RegisterID = -1

// Instruction is one instruction in a method's bytecode. Which of Type,
// Str, Field, Method is populated (if any) depends on Opcode; unused
// fields are nil/zero and MUST NOT be inspected for opcodes that don't use
// them (mirrors spec.md §3.1's "unused fields MUST NOT participate").
type Instruction struct {
	Opcode Opcode

	// Dest is the destination register, or NoRegister if the opcode
	// writes no addressable register (e.g. it writes only
	// ResultRegister, or writes none at all).
	Dest RegisterID
	// Wide indicates Dest occupies two consecutive registers (Dest,
	// Dest+1), both of which default semantics sets to Top (spec.md
	// §4.3 "Default semantics").
	Wide bool

	// WritesResult indicates this instruction's conventional result
	// lands in ResultRegister (calls, const-string, const-class, etc).
	WritesResult bool

	// Srcs holds source registers in opcode-defined order. For
	// invoke-*, Srcs[0] is the receiver (absent for invoke-static) and
	// the remainder are call arguments.
	Srcs []RegisterID

	// Operand, exactly one populated depending on Opcode:
	Type   *Type        // const-class, check-cast (target type), new-instance/new-array/filled-new-array, iget/sget/aget (declared field/return type folded in separately)
	Str    *StringConst // const-string
	Field  *FieldRef    // iget-object, sget-object
	Callee *MethodRef   // invoke-*
}

// Block is a basic block: a straight-line run of instructions with a
// single entry and explicit successor/predecessor edges. Modeled on the
// teacher's analysis/cfg.Node shape, trimmed to what a forward fixpoint
// needs -- no defer/panic/goroutine-spawn edges, since those are
// concurrency concepts outside this spec's scope.
type Block struct {
	Index int
	Insns []*Instruction

	succs []*Block
	preds []*Block
}

// Successors returns b's successor blocks, in the order they were added.
func (b *Block) Successors() []*Block { return b.succs }

// Predecessors returns b's predecessor blocks, in the order they were added.
func (b *Block) Predecessors() []*Block { return b.preds }

// AddEdge records a directed edge from -> to, updating both sides.
func AddEdge(from, to *Block) {
	from.succs = append(from.succs, to)
	to.preds = append(to.preds, from)
}

// CFG is a method's control-flow graph: a set of blocks reachable from a
// single entry block.
type CFG struct {
	Entry  *Block
	Blocks []*Block
}

// Method is a single method: its declaring-class context, static/instance
// and parameter types (used for entry-block seeding, spec.md §4.3), and
// its CFG. A Method with a nil CFG models "no code" (spec.md §7, "Absent
// code").
type Method struct {
	DeclaringType *Type
	Static        bool
	ParamTypes    []*Type
	CFG           *CFG
}

// HasCode reports whether m has a method body to analyze.
func (m *Method) HasCode() bool { return m.CFG != nil }
