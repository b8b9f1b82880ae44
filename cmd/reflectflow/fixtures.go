package main

import (
	"sort"
	"strings"

	"github.com/dexshrink/reflectflow/ir"
	"github.com/dexshrink/reflectflow/ir/testutil"
	"github.com/dexshrink/reflectflow/transfer"
)

// fixtureBuilder builds a small hand-written ir.Method together with the
// interning tables it was built against (transfer.New and reflection.New
// both need those tables to resolve API handles by the same identity the
// fixture's instructions use). There is no bytecode parser in this
// repository (Non-goals), so the CLI demonstrates the analysis against a
// few built-in fixtures mirroring spec.md §8.4's end-to-end scenarios
// instead of an arbitrary input file.
type fixtureBuilder func() (*ir.Method, *ir.TypeTable, *ir.StringTable, *ir.RefTable)

var fixtures = map[string]fixtureBuilder{
	"forname":  buildForNameFixture,
	"getclass": buildGetClassFixture,
	"ctor":     buildConstructorFixture,
}

func fixtureNames() string {
	names := make([]string, 0, len(fixtures))
	for n := range fixtures {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// buildForNameFixture mirrors spec.md §8.4 scenario 1: a forName chain
// ending in a getDeclaredMethod lookup by a known string constant.
func buildForNameFixture() (*ir.Method, *ir.TypeTable, *ir.StringTable, *ir.RefTable) {
	b := testutil.NewBuilder()
	reg := mustDefaultRegistry()

	classType := b.Types.Intern(reg.ClassType)
	methodType := b.Types.Intern(reg.MethodType)

	forName := b.Refs.InternMethod(classType, b.Strings.Intern(reg.ForName), classType)
	getDeclaredMethod := b.Refs.InternMethod(classType, b.Strings.Intern(reg.GetDeclaredMethod), methodType)

	const (
		v0 ir.RegisterID = iota // "com.foo.Bar"
		v1                      // Class(com.foo.Bar)
		v2                      // Method(com.foo.Bar, doIt)
		v3                      // "doIt"
	)

	entry := b.Block()
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpConstString, Str: b.Strings.Intern("com.foo.Bar"), WritesResult: true})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: v0})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpInvokeStatic, Srcs: []ir.RegisterID{v0}, Callee: forName, WritesResult: true})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: v1})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpConstString, Str: b.Strings.Intern("doIt"), WritesResult: true})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: v3})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpInvokeVirtual, Srcs: []ir.RegisterID{v1, v3}, Callee: getDeclaredMethod, WritesResult: true})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: v2})

	method := b.Method("com.foo.Helper", true, nil, b.CFG(entry))
	return method, b.Types, b.Strings, b.Refs
}

// buildGetClassFixture mirrors spec.md §8.4 scenario 2: getClass() called
// on the receiver (this), which parameter seeding binds to Object(Foo).
func buildGetClassFixture() (*ir.Method, *ir.TypeTable, *ir.StringTable, *ir.RefTable) {
	b := testutil.NewBuilder()
	reg := mustDefaultRegistry()

	objectType := b.Types.Intern(reg.ObjectType)
	classType := b.Types.Intern(reg.ClassType)
	fooType := b.Types.Intern(ir.ExternalToInternal("com.foo.Foo"))

	getClass := b.Refs.InternMethod(objectType, b.Strings.Intern(reg.GetClass), classType)

	const (
		v0 ir.RegisterID = iota // this
		v1                      // Class(Foo), reflective
	)

	entry := b.Block()
	b.Emit(entry, b.LoadParamObjectAt(v0, fooType, false, nil, 0)) // position 0, instance method -> this
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpInvokeVirtual, Srcs: []ir.RegisterID{v0}, Callee: getClass, WritesResult: true})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: v1})

	method := b.Method("com.foo.Foo", false, nil, b.CFG(entry))
	return method, b.Types, b.Strings, b.Refs
}

// buildConstructorFixture mirrors spec.md §8.4 scenario 4: a constructor
// lookup, whose name is the hard-coded constructor token regardless of
// which plural-constructor overload is called.
func buildConstructorFixture() (*ir.Method, *ir.TypeTable, *ir.StringTable, *ir.RefTable) {
	b := testutil.NewBuilder()
	reg := mustDefaultRegistry()

	classType := b.Types.Intern(reg.ClassType)
	methodType := b.Types.Intern(reg.MethodType)
	bazType := b.Types.Intern(ir.ExternalToInternal("com.foo.Baz"))

	getDeclaredCtors := b.Refs.InternMethod(classType, b.Strings.Intern(reg.GetDeclaredConstructors), methodType)

	const (
		v0 ir.RegisterID = iota // Class(Baz), reflective
		v1                      // Method(Baz, <init>)
	)

	entry := b.Block()
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpConstClass, Type: bazType, WritesResult: true})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: v0})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpInvokeVirtual, Srcs: []ir.RegisterID{v0}, Callee: getDeclaredCtors, WritesResult: true})
	b.Emit(entry, &ir.Instruction{Opcode: ir.OpMoveResultObject, Dest: v1})

	method := b.Method("com.foo.Helper", true, nil, b.CFG(entry))
	return method, b.Types, b.Strings, b.Refs
}

func mustDefaultRegistry() ir.Registry {
	reg, err := transfer.DefaultRegistry()
	if err != nil {
		// apitypes.yaml is compiled in via go:embed; a parse failure
		// here means the repository itself is broken, not a user
		// error, so this is the one CLI spot where we panic instead
		// of reporting an ordinary error.
		panic(err)
	}
	return reg
}
