package ir

import "fmt"

// FieldRef is an interned reference to a declared field: declaring type,
// name, and field type. Two FieldRefs naming the same field are always the
// same pointer.
type FieldRef struct {
	DeclaringType *Type
	Name          *StringConst
	FieldType     *Type
}

func (f *FieldRef) String() string {
	return fmt.Sprintf("%s.%s:%s", f.DeclaringType, f.Name, f.FieldType)
}

// MethodRef is an interned reference to a declared method: declaring type,
// name, and return type (parameter types are not modeled — spec.md's
// Non-goals explicitly exclude matching reflective lookups against
// parameter-type lists).
type MethodRef struct {
	DeclaringType *Type
	Name          *StringConst
	ReturnType    *Type
}

func (m *MethodRef) String() string {
	return fmt.Sprintf("%s.%s()%s", m.DeclaringType, m.Name, m.ReturnType)
}

// RefTable interns FieldRefs and MethodRefs.
type RefTable struct {
	fields  map[fieldKey]*FieldRef
	methods map[methodKey]*MethodRef
}

type fieldKey struct {
	declaring *Type
	name      *StringConst
}

type methodKey struct {
	declaring *Type
	name      *StringConst
}

// NewRefTable creates an empty, ready-to-use RefTable.
func NewRefTable() *RefTable {
	return &RefTable{
		fields:  make(map[fieldKey]*FieldRef),
		methods: make(map[methodKey]*MethodRef),
	}
}

// InternField returns the canonical *FieldRef for (declaring, name).
func (rt *RefTable) InternField(declaring *Type, name *StringConst, fieldType *Type) *FieldRef {
	k := fieldKey{declaring, name}
	if f, ok := rt.fields[k]; ok {
		return f
	}
	f := &FieldRef{DeclaringType: declaring, Name: name, FieldType: fieldType}
	rt.fields[k] = f
	return f
}

// InternMethod returns the canonical *MethodRef for (declaring, name).
func (rt *RefTable) InternMethod(declaring *Type, name *StringConst, returnType *Type) *MethodRef {
	k := methodKey{declaring, name}
	if m, ok := rt.methods[k]; ok {
		return m
	}
	m := &MethodRef{DeclaringType: declaring, Name: name, ReturnType: returnType}
	rt.methods[k] = m
	return m
}
