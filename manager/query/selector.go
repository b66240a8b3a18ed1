package query

import "fmt"

// SelectorType picks what the executor computes over matching positions.
type SelectorType byte

const (
	SelectCount SelectorType = iota
	SelectCollect
	SelectBitmap
	SelectSum
	// index only: resolve positions, skip the scan
	SelectIndex
	SelectDummy
)

var selectorNames = map[string]SelectorType{
	"count":   SelectCount,
	"collect": SelectCollect,
	"bitmap":  SelectBitmap,
	"sum":     SelectSum,
	"index":   SelectIndex,
	"dummy":   SelectDummy,
}

func (s SelectorType) String() string {
	for name, it := range selectorNames {
		if it == s {
			return name
		}
	}
	return fmt.Sprintf("selector(%d)", byte(s))
}

type Selector struct {
	Type SelectorType
	// summed dimension for SelectSum
	Dim int

	Alias string
}

func ParseSelector(name string, dim int) (Selector, error) {

	st, ok := selectorNames[name]
	if !ok {
		return Selector{}, fmt.Errorf("unknown visitor `%s`", name)
	}

	return Selector{Type: st, Dim: dim, Alias: name}, nil
}
