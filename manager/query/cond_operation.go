package query

import (
	"fmt"
	"strings"
)

type CondOperand byte

const (
	EQ CondOperand = iota
	GT
	LT
	RANGE
)

func (c CondOperand) String() string {
	switch c {
	case EQ:
		return "EQ"
	case GT:
		return "GT"
	case LT:
		return "LT"
	case RANGE:
		return "RANGE"
	default:
		panic(fmt.Sprintf("unknown operand %d", byte(c)))
	}
}

// ParseOperand accepts the lower or upper case operand name.
func ParseOperand(name string) (CondOperand, error) {
	switch strings.ToUpper(name) {
	case "EQ":
		return EQ, nil
	case "GT":
		return GT, nil
	case "LT":
		return LT, nil
	case "RANGE":
		return RANGE, nil
	}
	return 0, fmt.Errorf("unknown operand `%s`", name)
}
