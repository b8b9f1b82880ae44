package env

import (
	"testing"

	"github.com/dexshrink/reflectflow/domain"
	"github.com/dexshrink/reflectflow/ir"
)

func TestTopReadsEveryRegisterAsTop(t *testing.T) {
	e := Top()
	for _, reg := range []ir.RegisterID{0, 1, 5, ir.ResultRegister} {
		if !e.Get(reg).IsTop() {
			t.Errorf("Top().Get(%d) = %v, want Top", reg, e.Get(reg))
		}
	}
}

func TestSetThenGet(t *testing.T) {
	tt := ir.NewTypeTable()
	v := domain.Of(domain.Object(tt.Intern("Lcom/foo/Foo;")))
	e := Top().Set(1, v)
	if got := e.Get(1); !got.Eq(v) {
		t.Errorf("Get(1) = %v, want %v", got, v)
	}
	if !e.Get(2).IsTop() {
		t.Error("unset register must still read as Top")
	}
}

func TestSetTopRemovesBinding(t *testing.T) {
	tt := ir.NewTypeTable()
	v := domain.Of(domain.Object(tt.Intern("Lcom/foo/Foo;")))
	e := Top().Set(1, v).Set(1, domain.Top())
	if len(e.Registers()) != 0 {
		t.Errorf("Registers() = %v, want empty after re-binding to Top", e.Registers())
	}
}

func TestSetIsImmutable(t *testing.T) {
	tt := ir.NewTypeTable()
	v := domain.Of(domain.Object(tt.Intern("Lcom/foo/Foo;")))
	base := Top()
	derived := base.Set(1, v)
	if !base.Get(1).IsTop() {
		t.Error("Set must not mutate the receiver")
	}
	if !derived.Get(1).Eq(v) {
		t.Error("derived environment must observe the new binding")
	}
}

func TestJoinIsPointwise(t *testing.T) {
	tt := ir.NewTypeTable()
	foo := domain.Of(domain.Object(tt.Intern("Lcom/foo/Foo;")))
	bar := domain.Of(domain.Object(tt.Intern("Lcom/foo/Bar;")))

	a := Top().Set(1, foo).Set(2, foo)
	b := Top().Set(1, foo).Set(2, bar)

	joined := a.Join(b)
	if got := joined.Get(1); !got.Eq(foo) {
		t.Errorf("Get(1) = %v, want %v (agreeing registers stay constant)", got, foo)
	}
	if got := joined.Get(2); !got.IsTop() {
		t.Errorf("Get(2) = %v, want Top (disagreeing registers join to Top)", got)
	}
	if got := joined.Get(3); !got.IsTop() {
		t.Errorf("Get(3) = %v, want Top (unbound in both)", got)
	}
}

func TestJoinWithRegisterOnlyBoundOnOneSide(t *testing.T) {
	tt := ir.NewTypeTable()
	foo := domain.Of(domain.Object(tt.Intern("Lcom/foo/Foo;")))

	a := Top().Set(1, foo)
	b := Top()

	joined := a.Join(b)
	if got := joined.Get(1); !got.IsTop() {
		t.Errorf("Get(1) = %v, want Top (missing on one side reads as Top, joins down to Top)", got)
	}
}

func TestLeqAndEq(t *testing.T) {
	tt := ir.NewTypeTable()
	foo := domain.Of(domain.Object(tt.Intern("Lcom/foo/Foo;")))

	top := Top()
	bound := Top().Set(1, foo)

	if !bound.Leq(top) {
		t.Error("any environment must be <= the all-Top environment")
	}
	if top.Leq(bound) {
		t.Error("the all-Top environment must not be <= a strictly more precise environment")
	}
	if !bound.Eq(bound) {
		t.Error("Eq must be reflexive")
	}
}
