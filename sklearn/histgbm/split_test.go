package histgbm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHistogram(t *testing.T) {
	binned := BinnedMatrix{{0, 3}, {1, 3}, {1, MissingBin}, {3, 0}}
	gradients := []float64{1.5, -2, 4, 0.5}

	assert.Equal(t, Histogram{1.5, 2, 0, 0.5}, BuildHistogram(binned, gradients, 0, 4))
	// the MissingBin row is skipped
	assert.Equal(t, Histogram{0.5, 0, 0, -0.5}, BuildHistogram(binned, gradients, 1, 4))
	// bin 3 is out of range for two bins
	assert.Equal(t, Histogram{1.5, 2}, BuildHistogram(binned, gradients, 0, 2))
}

func TestBuildHistogramSumsValidRows(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const numBins = 8
	binned := make(BinnedMatrix, 400)
	gradients := make([]float64, 400)
	var want float64
	for i := range binned {
		bin := uint8(rng.Intn(numBins + 2)) // some rows land outside the range
		if rng.Intn(10) == 0 {
			bin = MissingBin
		}
		binned[i] = []uint8{bin}
		gradients[i] = float64(rng.Intn(200)-100) / 4 // exact in binary
		if int(bin) < numBins {
			want += gradients[i]
		}
	}

	hist := BuildHistogram(binned, gradients, 0, numBins)
	require.Len(t, hist, numBins)
	assert.Equal(t, want, hist.Sum())
}

func TestBuildHistogramRowsMatchesSubset(t *testing.T) {
	binned := BinnedMatrix{{0}, {1}, {2}, {1}, {0}}
	gradients := []float64{1, 2, 3, 4, 5}
	rows := []int{1, 3, 4}

	subset := BinnedMatrix{binned[1], binned[3], binned[4]}
	subGrads := []float64{2, 4, 5}
	assert.Equal(t,
		BuildHistogram(subset, subGrads, 0, 3),
		buildHistogramRows(binned, gradients, rows, 0, 3))
}

func TestFindBestSplit(t *testing.T) {
	t.Run("too few bins", func(t *testing.T) {
		_, ok := FindBestSplit(Histogram{5}, 1)
		assert.False(t, ok)
		_, ok = FindBestSplit(Histogram{}, 1)
		assert.False(t, ok)
	})

	t.Run("opposite signs", func(t *testing.T) {
		split, ok := FindBestSplit(Histogram{1, -1}, 1)
		require.True(t, ok)
		assert.Equal(t, 0, split.SplitBin)
		assert.InDelta(t, 1.0, split.Gain, 1e-12)
		assert.Equal(t, 1.0, split.LeftSum)
		assert.Equal(t, -1.0, split.RightSum)
	})

	t.Run("best boundary in the middle", func(t *testing.T) {
		split, ok := FindBestSplit(Histogram{-2, 1, 1, 0}, 1)
		require.True(t, ok)
		assert.Equal(t, 0, split.SplitBin)
		assert.InDelta(t, 8.0/3.0, split.Gain, 1e-12)
	})

	t.Run("ties keep the lowest boundary", func(t *testing.T) {
		split, ok := FindBestSplit(Histogram{0, 0, 0, 0}, 1)
		require.True(t, ok)
		assert.Equal(t, 0, split.SplitBin)
		assert.Equal(t, 0.0, split.Gain)
	})

	t.Run("undefined gains give no split", func(t *testing.T) {
		// lambda 0 with zero sums divides 0 by 0
		_, ok := FindBestSplit(Histogram{0, 0}, 0)
		assert.False(t, ok)
	})
}

func TestFindBestSplitIsMaximal(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 300; trial++ {
		hist := make(Histogram, 2+rng.Intn(30))
		for i := range hist {
			hist[i] = rng.NormFloat64() * 10
		}
		lambda := rng.Float64() * 3

		split, ok := FindBestSplit(hist, lambda)
		require.True(t, ok)

		total := hist.Sum()
		var left float64
		for i := 0; i < len(hist)-1; i++ {
			left += hist[i]
			gain := splitGain(left, total-left, total, lambda)
			assert.GreaterOrEqual(t, split.Gain, gain, "boundary %d beats chosen %d", i, split.SplitBin)
			if i < split.SplitBin {
				assert.Less(t, gain, split.Gain, "earlier boundary %d ties chosen %d", i, split.SplitBin)
			}
		}
	}
}
