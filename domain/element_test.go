package domain

import (
	"testing"

	"github.com/dexshrink/reflectflow/ir"
)

func sampleObjects() []AbstractObject {
	tt := ir.NewTypeTable()
	st := ir.NewStringTable()
	fooType := tt.Intern("Lcom/foo/Foo;")
	barType := tt.Intern("Lcom/foo/Bar;")
	return []AbstractObject{
		Object(fooType),
		String(st.Intern("hello")),
		Class(fooType, Reflection),
		Class(barType, NonReflection),
		Field(fooType, st.Intern("count")),
		Method(fooType, st.Intern("doIt")),
	}
}

func TestJoinIdempotent(t *testing.T) {
	for _, v := range sampleObjects() {
		e := Of(v)
		if got := e.Join(e); !got.Eq(e) {
			t.Errorf("Join(%v, %v) = %v, want %v", e, e, got, e)
		}
	}
}

func TestJoinCommutative(t *testing.T) {
	elems := append([]Element{Bottom(), Top()}, elementsOf(sampleObjects())...)
	for _, a := range elems {
		for _, b := range elems {
			if got, want := a.Join(b), b.Join(a); !got.Eq(want) {
				t.Errorf("Join(%v, %v) = %v, want %v (= Join(%v, %v))", a, b, got, want, b, a)
			}
		}
	}
}

func TestJoinAssociative(t *testing.T) {
	elems := append([]Element{Bottom(), Top()}, elementsOf(sampleObjects())...)
	for _, a := range elems {
		for _, b := range elems {
			for _, c := range elems {
				lhs := a.Join(b).Join(c)
				rhs := a.Join(b.Join(c))
				if !lhs.Eq(rhs) {
					t.Errorf("(%v join %v) join %v = %v, want %v", a, b, c, lhs, rhs)
				}
			}
		}
	}
}

func TestBottomIsJoinIdentity(t *testing.T) {
	for _, e := range append([]Element{Bottom(), Top()}, elementsOf(sampleObjects())...) {
		if got := Bottom().Join(e); !got.Eq(e) {
			t.Errorf("Bottom().Join(%v) = %v, want %v", e, got, e)
		}
	}
}

func TestTopAbsorbs(t *testing.T) {
	for _, e := range append([]Element{Bottom(), Top()}, elementsOf(sampleObjects())...) {
		if got := Top().Join(e); !got.IsTop() {
			t.Errorf("Top().Join(%v) = %v, want Top", e, got)
		}
	}
}

func TestLeqLattice(t *testing.T) {
	obj := sampleObjects()[0]
	other := sampleObjects()[1]
	bot, top, c1, c2 := Bottom(), Top(), Of(obj), Of(other)

	if !bot.Leq(top) || !bot.Leq(c1) || !c1.Leq(top) {
		t.Fatal("bottom/top ordering violated")
	}
	if !c1.Leq(c1) {
		t.Fatal("Leq must be reflexive")
	}
	if c1.Leq(c2) || c2.Leq(c1) {
		t.Fatal("distinct constants must be incomparable")
	}
}

func TestConstantAccessor(t *testing.T) {
	obj := sampleObjects()[0]
	if _, ok := Bottom().Constant(); ok {
		t.Error("Bottom().Constant() should return ok=false")
	}
	if _, ok := Top().Constant(); ok {
		t.Error("Top().Constant() should return ok=false")
	}
	v, ok := Of(obj).Constant()
	if !ok || !v.Equal(obj) {
		t.Errorf("Of(%v).Constant() = (%v, %v), want (%v, true)", obj, v, ok, obj)
	}
}

func TestWidenIsJoin(t *testing.T) {
	a, b := Of(sampleObjects()[0]), Of(sampleObjects()[1])
	if !a.Widen(b).Eq(a.Join(b)) {
		t.Error("Widen must coincide with Join (finite-height domain)")
	}
}

func elementsOf(objs []AbstractObject) []Element {
	elems := make([]Element, len(objs))
	for i, o := range objs {
		elems[i] = Of(o)
	}
	return elems
}
