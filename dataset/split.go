package dataset

import (
	"math/rand"
)

// DefaultTrainFraction is used when ShuffleSplit gets a fraction outside [0, 1].
const DefaultTrainFraction = 0.8

// ShuffleSplit shuffles 0..n-1 with a seeded source and cuts the result at
// trainFrac·n. When n >= 2 both sides hold at least one index; a single index
// goes to the training side.
func ShuffleSplit(n int, trainFrac float64, seed int64) (train, val []int) {
	if n <= 0 {
		return []int{}, []int{}
	}
	if trainFrac < 0 || trainFrac > 1 {
		trainFrac = DefaultTrainFraction
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)

	trainCount := int(float64(n) * trainFrac)
	if trainCount < 1 {
		trainCount = 1
	}
	if n >= 2 && trainCount > n-1 {
		trainCount = n - 1
	}
	return indices[:trainCount:trainCount], indices[trainCount:]
}

// Select returns the records at the given indices, in index order.
func Select(records []Record, indices []int) []Record {
	out := make([]Record, len(indices))
	for i, idx := range indices {
		out[i] = records[idx]
	}
	return out
}
