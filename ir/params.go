package ir

import "github.com/dexshrink/reflectflow/internal/invariant"

// ResolveParamType implements spec.md §4.3's "Parameter seeding" position
// rule: for an instance method, position 0 is `this` (declaringType);
// every other position indexes paramTypes, offset by one for instance
// methods (position 0 there is already `this`). Position is the parameter
// pseudo-instruction's ordinal in the entry block's contiguous run of
// load-parameter instructions, not a register number.
//
// Panics via internal/invariant if position has no corresponding formal
// parameter -- a load-parameter-object pseudo-instruction positioned past
// the end of the method's declared signature is structurally malformed
// input (spec.md §7, "Structural precondition violations"), not a
// recoverable runtime error.
func ResolveParamType(declaringType *Type, static bool, paramTypes []*Type, position int) *Type {
	invariant.Assertf(position >= 0, "ir: negative parameter position %d", position)
	if !static {
		if position == 0 {
			return declaringType
		}
		position--
	}
	invariant.Assertf(position < len(paramTypes),
		"ir: parameter position %d out of range (static=%v, %d declared param(s))",
		position, static, len(paramTypes))
	return paramTypes[position]
}

// ParamType resolves the seeding type for the position'th parameter
// pseudo-instruction of m's signature (spec.md §4.3), using m's own
// static flag, declaring type, and declared parameter types.
func (m *Method) ParamType(position int) *Type {
	return ResolveParamType(m.DeclaringType, m.Static, m.ParamTypes, position)
}
