package ir

import (
	"testing"

	"github.com/dexshrink/reflectflow/internal/invariant"
)

func TestResolveParamTypeInstanceMethodPositionZeroIsThis(t *testing.T) {
	tt := NewTypeTable()
	declaring := tt.Intern("Lcom/foo/Foo;")
	arg0 := tt.Intern("Ljava/lang/String;")

	got := ResolveParamType(declaring, false, []*Type{arg0}, 0)
	if got != declaring {
		t.Errorf("position 0 of an instance method = %v, want declaring type %v", got, declaring)
	}
}

func TestResolveParamTypeInstanceMethodLaterPositionsOffsetByOne(t *testing.T) {
	tt := NewTypeTable()
	declaring := tt.Intern("Lcom/foo/Foo;")
	arg0 := tt.Intern("Ljava/lang/String;")
	arg1 := tt.Intern("I")

	got := ResolveParamType(declaring, false, []*Type{arg0, arg1}, 1)
	if got != arg0 {
		t.Errorf("position 1 of an instance method = %v, want first declared arg %v", got, arg0)
	}
	got = ResolveParamType(declaring, false, []*Type{arg0, arg1}, 2)
	if got != arg1 {
		t.Errorf("position 2 of an instance method = %v, want second declared arg %v", got, arg1)
	}
}

func TestResolveParamTypeStaticMethodNoThisOffset(t *testing.T) {
	tt := NewTypeTable()
	declaring := tt.Intern("Lcom/foo/Helper;")
	arg0 := tt.Intern("Ljava/lang/String;")

	got := ResolveParamType(declaring, true, []*Type{arg0}, 0)
	if got != arg0 {
		t.Errorf("position 0 of a static method = %v, want first declared arg %v", got, arg0)
	}
}

func TestResolveParamTypePositionExceedingArityPanics(t *testing.T) {
	tt := NewTypeTable()
	declaring := tt.Intern("Lcom/foo/Foo;")
	arg0 := tt.Intern("Ljava/lang/String;")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an out-of-range parameter position")
		}
		if _, ok := r.(invariant.Violation); !ok {
			t.Errorf("panic value = %#v (%T), want invariant.Violation", r, r)
		}
	}()
	ResolveParamType(declaring, true, []*Type{arg0}, 1)
}

func TestResolveParamTypeNegativePositionPanics(t *testing.T) {
	tt := NewTypeTable()
	declaring := tt.Intern("Lcom/foo/Foo;")

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a negative parameter position")
		}
	}()
	ResolveParamType(declaring, true, nil, -1)
}

func TestMethodParamTypeDelegatesToResolveParamType(t *testing.T) {
	tt := NewTypeTable()
	declaring := tt.Intern("Lcom/foo/Foo;")
	arg0 := tt.Intern("Ljava/lang/String;")
	m := &Method{DeclaringType: declaring, Static: false, ParamTypes: []*Type{arg0}}

	if got := m.ParamType(0); got != declaring {
		t.Errorf("m.ParamType(0) = %v, want this (%v)", got, declaring)
	}
	if got := m.ParamType(1); got != arg0 {
		t.Errorf("m.ParamType(1) = %v, want %v", got, arg0)
	}
}
