package histgbm

// Histogram holds per-bin gradient sums for one feature at one tree node.
type Histogram []float64

// Sum returns the total gradient in the histogram, summed in bin order.
func (h Histogram) Sum() float64 {
	var total float64
	for _, g := range h {
		total += g
	}
	return total
}

// BuildHistogram adds each row's gradient into the bin of featureIndex.
// Rows whose bin is >= numBins (MissingBin included when numBins <= 255) are skipped.
func BuildHistogram(binned BinnedMatrix, gradients []float64, featureIndex, numBins int) Histogram {
	hist := make(Histogram, numBins)
	for i, row := range binned {
		bin := int(row[featureIndex])
		if bin >= numBins {
			continue
		}
		hist[bin] += gradients[i]
	}
	return hist
}

// buildHistogramRows is BuildHistogram restricted to the given rows.
// Rows are visited in slice order, so equal inputs always produce equal sums.
func buildHistogramRows(binned BinnedMatrix, gradients []float64, rows []int, featureIndex, numBins int) Histogram {
	hist := make(Histogram, numBins)
	for _, r := range rows {
		bin := int(binned[r][featureIndex])
		if bin >= numBins {
			continue
		}
		hist[bin] += gradients[r]
	}
	return hist
}
