package index

import "slices"

// Walk visits root and every index nested below it, parents first.
func Walk(root Indexer, fn func(Indexer)) {

	if root == nil {
		return
	}

	fn(root)

	switch it := root.(type) {
	case *CompositeIndex:
		if it.primary != nil {
			Walk(it.primary, fn)
		}
		if it.family != nil {
			for _, child := range it.family.indexers() {
				Walk(child, fn)
			}
		}
	case *CombinedCorrelationIndex:
		Walk(it.mapped, fn)
		Walk(it.outliers, fn)
	case *MeasureBetaIndex:
		Walk(it.secondary, fn)
	}
}

// OutlierColumns lists the columns covered by outlier aware indexes. Those
// columns must not hold schema.OutlierBucket.
func OutlierColumns(root Indexer) []int {

	var cols []int

	Walk(root, func(it Indexer) {
		switch idx := it.(type) {
		case *OutlierIndex:
			cols = append(cols, idx.column)
		case *CombinedCorrelationIndex:
			cols = append(cols, idx.MappedColumn())
		}
	})

	slices.Sort(cols)
	return slices.Compact(cols)
}
