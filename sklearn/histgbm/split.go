package histgbm

import "math"

// SplitResult describes the best boundary found in a histogram.
// Bins 0..SplitBin go left.
type SplitResult struct {
	SplitBin int
	Gain     float64
	LeftSum  float64
	RightSum float64
}

// splitGain is the first-order regularized gain of splitting total into left and right.
func splitGain(left, right, total, lambda float64) float64 {
	return left*left/(math.Abs(left)+lambda) +
		right*right/(math.Abs(right)+lambda) -
		total*total/(math.Abs(total)+lambda)
}

// FindBestSplit scans the boundaries between adjacent bins and returns the one
// with the largest gain. A later boundary replaces the incumbent only if its
// gain is strictly greater, so ties go to the lowest bin. It reports false when
// the histogram has fewer than two bins or no boundary has a comparable gain.
func FindBestSplit(hist Histogram, lambda float64) (SplitResult, bool) {
	if len(hist) < 2 {
		return SplitResult{}, false
	}

	total := hist.Sum()
	bestGain := -math.MaxFloat64
	var best SplitResult
	found := false

	var left float64
	for i := 0; i < len(hist)-1; i++ {
		left += hist[i]
		right := total - left

		gain := splitGain(left, right, total, lambda)
		if gain > bestGain {
			bestGain = gain
			best = SplitResult{SplitBin: i, Gain: gain, LeftSum: left, RightSum: right}
			found = true
		}
	}
	return best, found
}
