package histgbm

import (
	"sort"
)

// MissingBin is the reserved bin id for missing values and unknown categories.
const MissingBin uint8 = 255

// maxContinuousBin is the largest bin BinContinuous returns, keeping MissingBin free.
const maxContinuousBin = 254

// BinEdges holds the ascending thresholds of one feature.
// Bin i covers values in (edges[i-1], edges[i]].
type BinEdges []float64

// BinnedMatrix mirrors a feature matrix with every value replaced by its bin id.
type BinnedMatrix [][]uint8

// ComputeBinEdges derives equal-frequency edges from values.
//
// The values are sorted (on a copy) and sorted[i*len/numBins] is taken for
// i = 1..numBins-1. Repeated values produce repeated edges; they are kept.
// Empty input or numBins == 0 yields no edges.
func ComputeBinEdges(values []float64, numBins int) BinEdges {
	if len(values) == 0 || numBins <= 0 {
		return BinEdges{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	edges := make(BinEdges, 0, numBins-1)
	for i := 1; i < numBins; i++ {
		idx := i * len(sorted) / numBins
		if idx >= len(sorted) {
			continue
		}
		edges = append(edges, sorted[idx])
	}
	return edges
}

// BinContinuous returns the index of the first edge >= value.
// Values above every edge get min(len(edges), 254). edges must be sorted.
func BinContinuous(value float64, edges BinEdges) uint8 {
	for i, edge := range edges {
		if value <= edge {
			return uint8(i)
		}
	}
	if len(edges) > maxContinuousBin {
		return maxContinuousBin
	}
	return uint8(len(edges))
}

// BinMatrix computes per-column edges from features and bins every value.
// Columns are taken from the first row.
func BinMatrix(features [][]float64, numBins int) (BinnedMatrix, []BinEdges) {
	if len(features) == 0 {
		return BinnedMatrix{}, nil
	}
	numFeatures := len(features[0])
	edges := make([]BinEdges, numFeatures)
	column := make([]float64, len(features))
	for j := 0; j < numFeatures; j++ {
		for i, row := range features {
			column[i] = row[j]
		}
		edges[j] = ComputeBinEdges(column, numBins)
	}
	return ApplyBinEdges(features, edges), edges
}

// ApplyBinEdges bins features with precomputed edges, one BinEdges per column.
func ApplyBinEdges(features [][]float64, edges []BinEdges) BinnedMatrix {
	binned := make(BinnedMatrix, len(features))
	for i, row := range features {
		out := make([]uint8, len(edges))
		for j := range edges {
			out[j] = BinContinuous(row[j], edges[j])
		}
		binned[i] = out
	}
	return binned
}
