// Package ir is the concrete, minimal realization of the "IR services"
// spec.md §6 treats as an external collaborator: interned types, strings,
// field/method refs, instructions, and a control-flow graph. It is
// deliberately small — no bytecode file format, no parser (see Non-goals,
// SPEC_FULL.md §"Non-goals") — just enough structure for transfer,
// fixpoint, and reflection to be fully implemented and tested.
package ir

import "strings"

// Kind classifies a Type for the purposes of the transfer function's
// "is_void", "is_object", "is_array" recognizers (spec.md §6).
type Kind uint8

const (
	KindVoid Kind = iota
	KindPrimitive
	KindObject
	KindArray
)

// Type is an interned reference to a type descriptor in internal form
// (e.g. "Ljava/lang/String;", "I", "[Ljava/lang/Object;"). Two Types with
// the same descriptor are always the same pointer — see TypeTable.
type Type struct {
	Descriptor string
	Kind       Kind
	// Component is non-nil iff Kind == KindArray; it is the interned
	// element type (spec.md §4.3 "Aget-object").
	Component *Type
}

func (t *Type) String() string { return t.Descriptor }

// IsVoid, IsObject, IsArray implement the type-system recognizers spec.md
// §6 lists as external services.
func (t *Type) IsVoid() bool   { return t.Kind == KindVoid }
func (t *Type) IsObject() bool { return t.Kind == KindObject }
func (t *Type) IsArray() bool  { return t.Kind == KindArray }

// ArrayComponent returns the element type of an array type. Panics if t is
// not an array type — callers must check IsArray first.
func (t *Type) ArrayComponent() *Type {
	if !t.IsArray() {
		panic("ir: ArrayComponent of non-array type " + t.Descriptor)
	}
	return t.Component
}

// TypeTable interns Types by descriptor, guaranteeing the identity
// comparisons the transfer function relies on (spec.md §9,
// "Interned-ref identity comparison").
type TypeTable struct {
	byDescriptor map[string]*Type
}

// NewTypeTable creates an empty, ready-to-use TypeTable.
func NewTypeTable() *TypeTable {
	return &TypeTable{byDescriptor: make(map[string]*Type)}
}

// Intern returns the canonical *Type for the given internal-form
// descriptor, creating it on first use.
func (tt *TypeTable) Intern(descriptor string) *Type {
	if t, ok := tt.byDescriptor[descriptor]; ok {
		return t
	}

	t := &Type{Descriptor: descriptor, Kind: classify(descriptor)}
	if t.Kind == KindArray {
		t.Component = tt.Intern(descriptor[1:])
	}
	tt.byDescriptor[descriptor] = t
	return t
}

func classify(descriptor string) Kind {
	switch {
	case descriptor == "V":
		return KindVoid
	case strings.HasPrefix(descriptor, "["):
		return KindArray
	case strings.HasPrefix(descriptor, "L") && strings.HasSuffix(descriptor, ";"):
		return KindObject
	default:
		// Z, B, S, C, I, J, F, D -- the primitive descriptor letters.
		return KindPrimitive
	}
}

// Unknown is the sentinel type bound to a Class value whose target type
// could not be determined (spec.md §4.3 parameter-seeding rule: "type=
// unknown" for a Class-typed parameter/field/return value not produced by
// a reflective call). It is distinct from any interned descriptor type and
// compares unequal to every *Type a TypeTable interns.
var Unknown = &Type{Descriptor: "?", Kind: KindObject}

// Well-known interned types, resolved once per TypeTable and compared by
// identity by the transfer function's reflection-API recognizers
// (spec.md §3.6, §4.3).
type WellKnownTypes struct {
	Object *Type
	Class  *Type
	String *Type
	Method *Type
	Field  *Type
}

// InternWellKnown resolves the well-known reflection-API types against tt.
func InternWellKnown(tt *TypeTable, reg Registry) WellKnownTypes {
	return WellKnownTypes{
		Object: tt.Intern(reg.ObjectType),
		Class:  tt.Intern(reg.ClassType),
		String: tt.Intern(reg.StringType),
		Method: tt.Intern(reg.MethodType),
		Field:  tt.Intern(reg.FieldType),
	}
}
