package ops

type Bounds[T NumericTypes] struct {
	Min T
	Max T
}

// GetMaxMin panics on an empty slice.
func GetMaxMin[T NumericTypes](arr []T) Bounds[T] {

	if len(arr) == 0 {
		panic("min/max of an empty column")
	}

	resultBounds := Bounds[T]{
		Min: arr[0],
		Max: arr[0],
	}

	for _, v := range arr[1:] {
		if v < resultBounds.Min {
			resultBounds.Min = v
		}
		if v > resultBounds.Max {
			resultBounds.Max = v
		}
	}
	return resultBounds
}
