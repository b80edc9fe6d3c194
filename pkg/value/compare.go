package value

import (
	"math/big"
)

// numeric promotion ladder: int widths -> Int -> BigInt -> Float -> BigDecimal.
// Mixed numeric comparisons promote the narrower operand to the wider
// representation before comparing.

func intOf(v Value) (int64, bool) {
	switch e := v.(type) {
	case Int8:
		return int64(e), true
	case Int16:
		return int64(e), true
	case Int32:
		return int64(e), true
	case Int:
		return int64(e), true
	}
	return 0, false
}

func bigOf(v Value) (*big.Float, bool) {
	if i, ok := intOf(v); ok {
		return new(big.Float).SetInt64(i), true
	}
	switch e := v.(type) {
	case Float32:
		return big.NewFloat(float64(e)), true
	case Float:
		return big.NewFloat(float64(e)), true
	case BigInt:
		return new(big.Float).SetInt(e.I), true
	case BigDecimal:
		return e.D, true
	}
	return nil, false
}

func isNumeric(v Value) bool {
	switch v.Kind() {
	case KindInt, KindFloat, KindBigInt, KindBigDecimal:
		return true
	}
	return false
}

// Compare orders two values for storage. Numeric values compare by
// promoted magnitude regardless of their concrete variant; otherwise
// values of different kinds order by kind, values of the same kind
// pairwise.
func Compare(a, b Value) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if isNumeric(a) && isNumeric(b) {
		if x, ok := intOf(a); ok {
			if y, ok := intOf(b); ok {
				switch {
				case x < y:
					return -1
				case x > y:
					return 1
				}
				return 0
			}
		}
		x, _ := bigOf(a)
		y, _ := bigOf(b)
		return x.Cmp(y)
	}

	if a.Kind() != b.Kind() {
		return int(a.Kind()) - int(b.Kind())
	}

	switch x := a.(type) {
	case Bool:
		y := b.(Bool)
		switch {
		case x == y:
			return 0
		case !bool(x):
			return -1
		default:
			return 1
		}
	case String:
		y := b.(String)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case Ref:
		return CompareIds(ObjectId(x), ObjectId(b.(Ref)))
	case List:
		y := b.(List)
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := Compare(x[i], y[i]); c != 0 {
				return c
			}
		}
		return len(x) - len(y)
	}
	return 0
}

// Equal is comparison equality: mixed numeric variants holding the
// same magnitude are equal.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}
