// Package transfer implements the per-opcode semantics of the reflection
// dataflow analysis (spec.md §4.3): the mapping from one instruction and
// its entry environment to its exit environment, grounded on the
// teacher's analysis/absint transfer function, which is likewise a single
// large switch over instruction kind dispatching to small per-case
// helpers rather than a table of closures.
package transfer

import (
	"github.com/dexshrink/reflectflow/domain"
	"github.com/dexshrink/reflectflow/env"
	"github.com/dexshrink/reflectflow/ir"
)

// Handles are the reflection-API method refs interned at construction
// time (spec.md §4.3 "Interning of API handles"). Invoke instructions are
// matched against these by pointer identity, never by name comparison.
type Handles struct {
	GetClass *ir.MethodRef

	GetMethod         *ir.MethodRef
	GetDeclaredMethod *ir.MethodRef

	GetConstructor          *ir.MethodRef
	GetDeclaredConstructor  *ir.MethodRef
	GetConstructors         *ir.MethodRef
	GetDeclaredConstructors *ir.MethodRef

	GetField         *ir.MethodRef
	GetDeclaredField *ir.MethodRef

	MethodGetName *ir.MethodRef
	FieldGetName  *ir.MethodRef

	ForName *ir.MethodRef
}

// Function is a transfer function instance bound to one program's
// interning tables and reflection-API registry. An Analysis constructs
// exactly one per method, matching spec.md §3.4's lifecycle.
type Function struct {
	types *ir.TypeTable
	well  ir.WellKnownTypes
	reg   ir.Registry

	handles Handles
	ctor    *ir.StringConst
}

// New interns the reflection-API handles named by reg against types/strs/refs
// and returns a ready-to-use Function. types, strs, and refs must be the
// same interning tables used to build the method(s) this Function will
// analyze, or identity comparisons against invoke-instruction callees will
// never match.
func New(types *ir.TypeTable, strs *ir.StringTable, refs *ir.RefTable, reg ir.Registry) *Function {
	well := ir.InternWellKnown(types, reg)
	h := Handles{
		GetClass: refs.InternMethod(well.Object, strs.Intern(reg.GetClass), well.Class),

		GetMethod:         refs.InternMethod(well.Class, strs.Intern(reg.GetMethod), well.Method),
		GetDeclaredMethod: refs.InternMethod(well.Class, strs.Intern(reg.GetDeclaredMethod), well.Method),

		GetConstructor:          refs.InternMethod(well.Class, strs.Intern(reg.GetConstructor), well.Method),
		GetDeclaredConstructor:  refs.InternMethod(well.Class, strs.Intern(reg.GetDeclaredConstructor), well.Method),
		GetConstructors:         refs.InternMethod(well.Class, strs.Intern(reg.GetConstructors), well.Method),
		GetDeclaredConstructors: refs.InternMethod(well.Class, strs.Intern(reg.GetDeclaredConstructors), well.Method),

		GetField:         refs.InternMethod(well.Class, strs.Intern(reg.GetField), well.Field),
		GetDeclaredField: refs.InternMethod(well.Class, strs.Intern(reg.GetDeclaredField), well.Field),

		MethodGetName: refs.InternMethod(well.Method, strs.Intern(reg.MethodGetName), well.String),
		FieldGetName:  refs.InternMethod(well.Field, strs.Intern(reg.FieldGetName), well.String),

		ForName: refs.InternMethod(well.Class, strs.Intern(reg.ForName), well.Class),
	}
	return &Function{
		types:   types,
		well:    well,
		reg:     reg,
		handles: h,
		ctor:    strs.Intern(reg.ConstructorName),
	}
}

// Handles exposes the interned API handles, mainly so tests and the
// replay pass's fixtures can build invoke instructions whose Callee
// matches by identity.
func (f *Function) Handles() Handles { return f.handles }

// Apply computes insn's exit environment given its entry environment e.
// Instructions not named by spec.md §4.3 fall through to default
// semantics.
func (f *Function) Apply(insn *ir.Instruction, e env.Environment) env.Environment {
	switch insn.Opcode {
	case ir.OpLoadParamObject:
		// The pseudo-instruction already carries its resolved
		// parameter type (this, or the next declared argument type);
		// IR construction is responsible for "which type" per
		// spec.md's seeding rule, since that depends on the method's
		// static flag and argument-type list, not on anything the
		// transfer function can see per-instruction. Applying this
		// case is idempotent, so running it as part of ordinary
		// block transfer during the fixpoint's first round has the
		// same effect as a dedicated one-time seeding pass.
		return e.Set(insn.Dest, bindReferenceType(insn.Type, f.well))

	case ir.OpLoadParam:
		return defaultSemantics(insn, e)

	case ir.OpMoveObject:
		return e.Set(insn.Dest, e.Get(insn.Srcs[0]))

	case ir.OpMoveResultObject, ir.OpMoveResultPseudoObject:
		return e.Set(insn.Dest, e.Get(ir.ResultRegister))

	case ir.OpConstString:
		return e.Set(ir.ResultRegister, domain.Of(domain.String(insn.Str)))

	case ir.OpConstClass:
		return e.Set(ir.ResultRegister, domain.Of(domain.Class(insn.Type, domain.Reflection)))

	case ir.OpCheckCast:
		return e.Set(ir.ResultRegister, e.Get(insn.Srcs[0]))

	case ir.OpAgetObject:
		return f.applyAgetObject(insn, e)

	case ir.OpIgetObject, ir.OpSgetObject:
		return e.Set(insn.Dest, bindReferenceType(insn.Field.FieldType, f.well))

	case ir.OpNewInstance, ir.OpNewArray, ir.OpFilledNewArray:
		return e.Set(ir.ResultRegister, domain.Of(domain.Object(insn.Type)))

	case ir.OpInvokeVirtual:
		return f.applyInvokeVirtual(insn, e)

	case ir.OpInvokeStatic:
		return f.applyInvokeStatic(insn, e)

	case ir.OpInvokeInterface, ir.OpInvokeSuper, ir.OpInvokeDirect:
		return f.genericReturnBinding(insn, e)

	default:
		return defaultSemantics(insn, e)
	}
}

// defaultSemantics implements spec.md §4.3's "Default semantics": clobber
// the destination (and its paired register if wide) and/or RESULT_REGISTER
// to Top.
func defaultSemantics(insn *ir.Instruction, e env.Environment) env.Environment {
	if insn.Dest != ir.NoRegister {
		e = e.Set(insn.Dest, domain.Top())
		if insn.Wide {
			e = e.Set(insn.Dest+1, domain.Top())
		}
	}
	if insn.WritesResult {
		e = e.Set(ir.ResultRegister, domain.Top())
	}
	return e
}

// bindReferenceType applies the "same rule as parameter seeding" binding
// shared by parameter seeding, field loads, array-element loads, and the
// generic return-object binding: an unresolved reference to the
// reflective Class metatype becomes an unknown, non-reflective Class
// constant; any other reference type becomes an Object constant of that
// type.
func bindReferenceType(t *ir.Type, well ir.WellKnownTypes) domain.Element {
	if t == well.Class {
		return domain.Of(domain.Class(ir.Unknown, domain.NonReflection))
	}
	return domain.Of(domain.Object(t))
}

func (f *Function) applyAgetObject(insn *ir.Instruction, e env.Environment) env.Environment {
	arr, ok := e.Get(insn.Srcs[0]).Constant()
	if ok {
		var t *ir.Type
		switch arr.Tag {
		case domain.TagObject, domain.TagClass:
			t = arr.Type
		}
		if t != nil && t.IsArray() {
			return e.Set(insn.Dest, bindReferenceType(t.ArrayComponent(), f.well))
		}
	}
	return defaultSemantics(insn, e)
}

// argString returns the String constant bound to insn's idx'th source
// register, if any.
func argString(insn *ir.Instruction, e env.Environment, idx int) (*ir.StringConst, bool) {
	if idx >= len(insn.Srcs) {
		return nil, false
	}
	v, ok := e.Get(insn.Srcs[idx]).Constant()
	if !ok || v.Tag != domain.TagString {
		return nil, false
	}
	return v.Str, true
}

func (f *Function) applyInvokeVirtual(insn *ir.Instruction, e env.Environment) env.Environment {
	if len(insn.Srcs) == 0 {
		return f.genericReturnBinding(insn, e)
	}
	recv, ok := e.Get(insn.Srcs[0]).Constant()
	if !ok {
		return f.genericReturnBinding(insn, e)
	}

	callee := insn.Callee
	switch recv.Tag {
	case domain.TagObject:
		if callee == f.handles.GetClass {
			return e.Set(ir.ResultRegister, domain.Of(domain.Class(recv.Type, domain.Reflection)))
		}
	case domain.TagString:
		if callee == f.handles.GetClass {
			return e.Set(ir.ResultRegister, domain.Of(domain.Class(f.well.String, domain.Reflection)))
		}
	case domain.TagClass:
		switch callee {
		case f.handles.GetMethod, f.handles.GetDeclaredMethod:
			if name, ok := argString(insn, e, 1); ok {
				return e.Set(ir.ResultRegister, domain.Of(domain.Method(recv.Type, name)))
			}
		case f.handles.GetConstructor, f.handles.GetDeclaredConstructor,
			f.handles.GetConstructors, f.handles.GetDeclaredConstructors:
			return e.Set(ir.ResultRegister, domain.Of(domain.Method(recv.Type, f.ctor)))
		case f.handles.GetField, f.handles.GetDeclaredField:
			if name, ok := argString(insn, e, 1); ok {
				return e.Set(ir.ResultRegister, domain.Of(domain.Field(recv.Type, name)))
			}
		}
	case domain.TagField:
		if callee == f.handles.FieldGetName {
			return e.Set(ir.ResultRegister, domain.Of(domain.String(recv.Str)))
		}
	case domain.TagMethod:
		if callee == f.handles.MethodGetName {
			return e.Set(ir.ResultRegister, domain.Of(domain.String(recv.Str)))
		}
	}
	return f.genericReturnBinding(insn, e)
}

func (f *Function) applyInvokeStatic(insn *ir.Instruction, e env.Environment) env.Environment {
	if insn.Callee == f.handles.ForName && len(insn.Srcs) > 0 {
		if extName, ok := argString(insn, e, 0); ok {
			t := f.types.Intern(ir.ExternalToInternal(extName.Value))
			return e.Set(ir.ResultRegister, domain.Of(domain.Class(t, domain.Reflection)))
		}
	}
	return f.genericReturnBinding(insn, e)
}

// genericReturnBinding implements spec.md §4.3's fallback for invoke
// instructions with no matching reflective rule: an object/array return
// type gets bound by the shared reference-type rule; a void or primitive
// return type is left to default semantics, which is exactly "do nothing
// beyond the ordinary Top clobber."
func (f *Function) genericReturnBinding(insn *ir.Instruction, e env.Environment) env.Environment {
	if insn.Callee != nil && insn.Callee.ReturnType != nil {
		rt := insn.Callee.ReturnType
		if rt.IsObject() || rt.IsArray() {
			return e.Set(ir.ResultRegister, bindReferenceType(rt, f.well))
		}
	}
	return defaultSemantics(insn, e)
}
