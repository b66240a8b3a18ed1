package ops

import "golang.org/x/exp/constraints"

type NumericTypes interface {
	constraints.Integer | constraints.Float
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
