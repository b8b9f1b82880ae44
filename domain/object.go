// Package domain implements the abstract value domain of the reflection
// dataflow analysis: AbstractObject (spec.md §3.1) and the
// AbstractObjectDomain constant-propagation lattice over it (spec.md §3.2).
package domain

import (
	"strconv"

	"github.com/dexshrink/reflectflow/ir"
)

// Tag identifies which of AbstractObject's five variants a value holds
// (spec.md §3.1).
type Tag uint8

const (
	// TagObject: a reference of declared type T, no further info.
	TagObject Tag = iota
	// TagString: a known interned string literal.
	TagString
	// TagClass: a reference to a Class metaobject for T.
	TagClass
	// TagField: a reflective field handle T.name.
	TagField
	// TagMethod: a reflective method handle T.name(...).
	TagMethod
)

func (t Tag) String() string {
	switch t {
	case TagObject:
		return "Object"
	case TagString:
		return "String"
	case TagClass:
		return "Class"
	case TagField:
		return "Field"
	case TagMethod:
		return "Method"
	default:
		return "<invalid-tag>"
	}
}

// ClassSource distinguishes a Class AbstractObject produced by a
// reflective lookup (const-class, Class.forName, Object.getClass) from
// one loaded from a field of declared type Class with unknown target
// (spec.md §3.1, Glossary "Reflective Class"). It is always determinate
// for a Class value -- never "not applicable" (spec.md §3.1 invariant).
type ClassSource uint8

const (
	NonReflection ClassSource = iota
	Reflection
)

func (s ClassSource) String() string {
	if s == Reflection {
		return "Reflection"
	}
	return "NonReflection"
}

// AbstractObject is a tagged value summarizing what a register may
// reflectively represent at a program point (spec.md §3.1). Fields not
// used by Tag MUST NOT be read, and are ignored by Equal.
type AbstractObject struct {
	Tag Tag

	// Type: declaring/referenced type. Used by Object, Class, Field,
	// Method.
	Type *ir.Type
	// Str: string literal (TagString) or member name (Field, Method).
	Str *ir.StringConst
	// Source: only meaningful for TagClass; always determinate there
	// (spec.md §3.1 invariant).
	Source ClassSource
}

// Object constructs an Object(T) value.
func Object(t *ir.Type) AbstractObject {
	return AbstractObject{Tag: TagObject, Type: t}
}

// String constructs a String(lit) value.
func String(s *ir.StringConst) AbstractObject {
	return AbstractObject{Tag: TagString, Str: s}
}

// Class constructs a Class(T, source) value. source must be determinate.
func Class(t *ir.Type, source ClassSource) AbstractObject {
	return AbstractObject{Tag: TagClass, Type: t, Source: source}
}

// Field constructs a Field(T, name) value.
func Field(t *ir.Type, name *ir.StringConst) AbstractObject {
	return AbstractObject{Tag: TagField, Type: t, Str: name}
}

// Method constructs a Method(T, name) value. For constructor lookups,
// name is the literal constructor name token (spec.md §4.3).
func Method(t *ir.Type, name *ir.StringConst) AbstractObject {
	return AbstractObject{Tag: TagMethod, Type: t, Str: name}
}

// Equal is structural equality over the variant's listed attributes
// (spec.md §3.1 "Equality"). Source participates in Class equality.
func (a AbstractObject) Equal(b AbstractObject) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagObject:
		return a.Type == b.Type
	case TagString:
		return a.Str == b.Str
	case TagClass:
		return a.Type == b.Type && a.Source == b.Source
	case TagField, TagMethod:
		return a.Type == b.Type && a.Str == b.Str
	default:
		return false
	}
}

// IsReflectionOutput implements spec.md §3.1's "Reflection output"
// predicate: true iff the variant is Field, Method, or a reflectively
// sourced Class.
func (a AbstractObject) IsReflectionOutput() bool {
	switch a.Tag {
	case TagField, TagMethod:
		return true
	case TagClass:
		return a.Source == Reflection
	default:
		return false
	}
}

// String renders a's exact spec.md §8.3 display form:
//
//	OBJECT{<T>}
//	"<literal>"
//	CLASS{<T>} / CLASS_REFLECT{<T>}
//	FIELD{<T>:<name>}
//	METHOD{<T>:<name>}
func (a AbstractObject) String() string {
	switch a.Tag {
	case TagObject:
		return "OBJECT{" + a.Type.String() + "}"
	case TagString:
		return strconv.Quote(a.Str.Value)
	case TagClass:
		if a.Source == Reflection {
			return "CLASS_REFLECT{" + a.Type.String() + "}"
		}
		return "CLASS{" + a.Type.String() + "}"
	case TagField:
		return "FIELD{" + a.Type.String() + ":" + a.Str.Value + "}"
	case TagMethod:
		return "METHOD{" + a.Type.String() + ":" + a.Str.Value + "}"
	default:
		return "<invalid-abstract-object>"
	}
}
