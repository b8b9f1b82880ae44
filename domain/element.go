package domain

// state distinguishes the three levels of the AbstractObjectDomain
// lattice (spec.md §3.2): Bottom < Constant(v) < Top.
type state uint8

const (
	stateBottom state = iota
	stateConstant
	stateTop
)

// Element is a member of the AbstractObjectDomain lattice: ⊥, a single
// AbstractObject constant, or ⊤. The zero value is ⊥.
type Element struct {
	state state
	value AbstractObject
}

// Bottom returns the lattice's least element.
func Bottom() Element { return Element{state: stateBottom} }

// Top returns the lattice's greatest element. Registers with no binding
// in an Environment implicitly hold Top (spec.md §3.3).
func Top() Element { return Element{state: stateTop} }

// Of lifts a concrete AbstractObject into the lattice as a Constant.
func Of(v AbstractObject) Element { return Element{state: stateConstant, value: v} }

// IsBottom reports whether e is ⊥.
func (e Element) IsBottom() bool { return e.state == stateBottom }

// IsTop reports whether e is ⊤.
func (e Element) IsTop() bool { return e.state == stateTop }

// Constant returns e's AbstractObject and true iff e is neither ⊤ nor ⊥
// (spec.md §4.1 "constant() returns the value iff neither top nor
// bottom").
func (e Element) Constant() (AbstractObject, bool) {
	if e.state != stateConstant {
		return AbstractObject{}, false
	}
	return e.value, true
}

// Join computes e ⊔ o: equal constants stay, unequal constants or a mix
// with Top yields Top, Bottom joins as identity (spec.md §3.2).
func (e Element) Join(o Element) Element {
	switch {
	case e.IsBottom():
		return o
	case o.IsBottom():
		return e
	case e.IsTop() || o.IsTop():
		return Top()
	case e.value.Equal(o.value):
		return e
	default:
		return Top()
	}
}

// Widen is Join: the domain has finite height (spec.md §3.2, §4.1), so no
// separate widening operator is needed.
func (e Element) Widen(o Element) Element { return e.Join(o) }

// Meet computes e ⊓ o, the dual of Join.
func (e Element) Meet(o Element) Element {
	switch {
	case e.IsTop():
		return o
	case o.IsTop():
		return e
	case e.IsBottom() || o.IsBottom():
		return Bottom()
	case e.value.Equal(o.value):
		return e
	default:
		return Bottom()
	}
}

// Leq reports e ⊑ o.
func (e Element) Leq(o Element) bool {
	switch {
	case e.IsBottom():
		return true
	case o.IsTop():
		return true
	case e.IsTop():
		return false
	case o.IsBottom():
		return false
	default:
		return e.value.Equal(o.value)
	}
}

// Eq reports lattice-element equality.
func (e Element) Eq(o Element) bool {
	return e.Leq(o) && o.Leq(e)
}

// String renders ⊥, ⊤, or the wrapped AbstractObject's display form.
func (e Element) String() string {
	switch e.state {
	case stateBottom:
		return "⊥"
	case stateTop:
		return "⊤"
	default:
		return e.value.String()
	}
}
