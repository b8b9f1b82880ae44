package ir

// Opcode enumerates the instruction kinds the transfer function
// distinguishes (spec.md §4.3). Everything not named here falls into
// OpOther and receives default semantics.
type Opcode uint8

const (
	OpOther Opcode = iota

	// Entry-block parameter pseudo-instructions (spec.md §4.3 "Parameter
	// seeding"). There is no separate seeding pass: the transfer function
	// applies them whenever the entry block is transferred, and the
	// load-param-object binding is idempotent, so re-applying it does not
	// change a seeded constant.
	OpLoadParamObject
	OpLoadParam

	OpMoveObject
	OpMoveResultObject
	OpMoveResultPseudoObject

	OpConstString
	OpConstClass

	OpCheckCast

	OpAgetObject

	OpIgetObject
	OpSgetObject

	OpNewInstance
	OpNewArray
	OpFilledNewArray

	OpInvokeVirtual
	OpInvokeStatic
	OpInvokeInterface
	OpInvokeSuper
	OpInvokeDirect
)

func (op Opcode) String() string {
	switch op {
	case OpLoadParamObject:
		return "load-param-object"
	case OpLoadParam:
		return "load-param"
	case OpMoveObject:
		return "move-object"
	case OpMoveResultObject:
		return "move-result-object"
	case OpMoveResultPseudoObject:
		return "move-result-pseudo-object"
	case OpConstString:
		return "const-string"
	case OpConstClass:
		return "const-class"
	case OpCheckCast:
		return "check-cast"
	case OpAgetObject:
		return "aget-object"
	case OpIgetObject:
		return "iget-object"
	case OpSgetObject:
		return "sget-object"
	case OpNewInstance:
		return "new-instance"
	case OpNewArray:
		return "new-array"
	case OpFilledNewArray:
		return "filled-new-array"
	case OpInvokeVirtual:
		return "invoke-virtual"
	case OpInvokeStatic:
		return "invoke-static"
	case OpInvokeInterface:
		return "invoke-interface"
	case OpInvokeSuper:
		return "invoke-super"
	case OpInvokeDirect:
		return "invoke-direct"
	default:
		return "other"
	}
}

// IsInvoke reports whether op is one of the five invoke-* opcodes.
func (op Opcode) IsInvoke() bool {
	switch op {
	case OpInvokeVirtual, OpInvokeStatic, OpInvokeInterface, OpInvokeSuper, OpInvokeDirect:
		return true
	}
	return false
}
