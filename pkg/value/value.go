package value

import (
	"fmt"
	"math/big"
	"strings"
)

type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindBigInt
	KindBigDecimal
	KindString
	KindRef
	KindList
)

// Value is the closed variant type for feature values.
// The implementor set is fixed to the types declared in this
// package; a nil Value represents an absent/unset value.
type Value interface {
	Kind() Kind
	value()
}

type Bool bool

type Int8 int8
type Int16 int16
type Int32 int32
type Int int64

type Float32 float32
type Float float64

// BigInt wraps an arbitrary-precision integer. The wrapped
// value must not be mutated after construction.
type BigInt struct {
	I *big.Int
}

// BigDecimal wraps an arbitrary-precision decimal. The wrapped
// value must not be mutated after construction.
type BigDecimal struct {
	D *big.Float
}

type String string

// Ref holds the identifier of a referenced object. It is a raw
// identifier, never a resolved object pointer.
type Ref ObjectId

// List is an ordered sequence of values, used for multi-valued
// features (typically a sequence of Refs).
type List []Value

func (Bool) Kind() Kind       { return KindBool }
func (Int8) Kind() Kind       { return KindInt }
func (Int16) Kind() Kind      { return KindInt }
func (Int32) Kind() Kind      { return KindInt }
func (Int) Kind() Kind        { return KindInt }
func (Float32) Kind() Kind    { return KindFloat }
func (Float) Kind() Kind      { return KindFloat }
func (BigInt) Kind() Kind     { return KindBigInt }
func (BigDecimal) Kind() Kind { return KindBigDecimal }
func (String) Kind() Kind     { return KindString }
func (Ref) Kind() Kind        { return KindRef }
func (List) Kind() Kind       { return KindList }

func (Bool) value()       {}
func (Int8) value()       {}
func (Int16) value()      {}
func (Int32) value()      {}
func (Int) value()        {}
func (Float32) value()    {}
func (Float) value()      {}
func (BigInt) value()     {}
func (BigDecimal) value() {}
func (String) value()     {}
func (Ref) value()        {}
func (List) value()       {}

func NewBigInt(i int64) BigInt {
	return BigInt{big.NewInt(i)}
}

func NewBigDecimal(f float64) BigDecimal {
	return BigDecimal{big.NewFloat(f)}
}

func NewRef(id ObjectId) Ref {
	return Ref(id)
}

func NewRefList(ids ...ObjectId) List {
	l := make(List, len(ids))
	for i, id := range ids {
		l[i] = Ref(id)
	}
	return l
}

func IsNil(v Value) bool {
	return v == nil
}

// Ids extracts the identifiers held by a value: the single id of
// a Ref, or all Ref entries of a List in order. Non-reference
// values and non-Ref list entries yield nothing.
func Ids(v Value) []ObjectId {
	switch e := v.(type) {
	case Ref:
		return []ObjectId{ObjectId(e)}
	case List:
		var ids []ObjectId
		for _, s := range e {
			if r, ok := s.(Ref); ok {
				ids = append(ids, ObjectId(r))
			}
		}
		return ids
	}
	return nil
}

// AsString renders a value for diagnostics and CLI output.
func AsString(v Value) string {
	switch e := v.(type) {
	case nil:
		return "<nil>"
	case Bool:
		return fmt.Sprintf("%t", bool(e))
	case Int8:
		return fmt.Sprintf("%d", int8(e))
	case Int16:
		return fmt.Sprintf("%d", int16(e))
	case Int32:
		return fmt.Sprintf("%d", int32(e))
	case Int:
		return fmt.Sprintf("%d", int64(e))
	case Float32:
		return fmt.Sprintf("%g", float32(e))
	case Float:
		return fmt.Sprintf("%g", float64(e))
	case BigInt:
		return e.I.String()
	case BigDecimal:
		return e.D.Text('g', -1)
	case String:
		return string(e)
	case Ref:
		return ObjectId(e).String()
	case List:
		var elems []string
		for _, s := range e {
			elems = append(elems, AsString(s))
		}
		return "[" + strings.Join(elems, ",") + "]"
	}
	return fmt.Sprintf("%v", v)
}
