package histgbm

import (
	"math"
	"math/bits"
	"sync"

	"github.com/YuminosukeSato/histgbm/core/parallel"
)

// leafEpsilon keeps the leaf value defined for an empty row set.
const leafEpsilon = 1e-6

// BuildTree grows one regression tree over binned rows and their gradients.
//
// A node becomes a leaf with value sum(gradients)/(rows+1e-6) when it is at
// maxDepth, holds at most one row, or no feature offers a split. Otherwise the
// best split over all features (lowest feature wins ties) partitions the rows
// with bin <= SplitBin going left, and both sides are grown even when empty.
func BuildTree(binned BinnedMatrix, gradients []float64, maxDepth, numBins int, lambda float64) *Tree {
	return newTreeBuilder(binned, gradients, maxDepth, numBins, lambda, 1).build()
}

// treeBuilder holds the inputs shared by every node of one tree.
type treeBuilder struct {
	binned      BinnedMatrix
	gradients   []float64
	maxDepth    int
	numBins     int
	lambda      float64
	numFeatures int

	// workers > 1 enables per-feature histogram goroutines and parallel
	// subtrees down to parallelDepth.
	workers       int
	parallelDepth int
}

func newTreeBuilder(binned BinnedMatrix, gradients []float64, maxDepth, numBins int, lambda float64, workers int) *treeBuilder {
	b := &treeBuilder{
		binned:    binned,
		gradients: gradients,
		maxDepth:  maxDepth,
		numBins:   numBins,
		lambda:    lambda,
		workers:   workers,
	}
	if len(binned) > 0 {
		b.numFeatures = len(binned[0])
	}
	if workers > 1 {
		// enough levels to keep every worker busy with one subtree
		b.parallelDepth = bits.Len(uint(workers - 1))
	}
	return b
}

func (b *treeBuilder) build() *Tree {
	rows := make([]int, len(b.binned))
	for i := range rows {
		rows[i] = i
	}
	return &Tree{Nodes: b.grow(rows, 0)}
}

// grow returns the subtree for rows in pre-order with its root at index 0.
func (b *treeBuilder) grow(rows []int, depth int) []Node {
	if depth >= b.maxDepth || len(rows) <= 1 {
		return []Node{b.leaf(rows)}
	}

	feature, split, ok := b.bestSplit(rows)
	if !ok {
		return []Node{b.leaf(rows)}
	}

	left := make([]int, 0, len(rows))
	right := make([]int, 0, len(rows))
	for _, r := range rows {
		if int(b.binned[r][feature]) <= split.SplitBin {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	var leftNodes, rightNodes []Node
	if b.workers > 1 && depth < b.parallelDepth {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			leftNodes = b.grow(left, depth+1)
		}()
		rightNodes = b.grow(right, depth+1)
		wg.Wait()
	} else {
		leftNodes = b.grow(left, depth+1)
		rightNodes = b.grow(right, depth+1)
	}

	nodes := make([]Node, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, Node{
		Kind:         InternalNode,
		FeatureIndex: feature,
		ThresholdBin: split.SplitBin,
		Left:         1,
		Right:        1 + len(leftNodes),
		Gain:         split.Gain,
		Samples:      len(rows),
	})
	nodes = appendShifted(nodes, leftNodes, 1)
	nodes = appendShifted(nodes, rightNodes, 1+len(leftNodes))
	return nodes
}

// appendShifted appends a subtree whose child links are relative to its own root.
func appendShifted(dst, subtree []Node, offset int) []Node {
	for _, n := range subtree {
		if n.Kind == InternalNode {
			n.Left += offset
			n.Right += offset
		}
		dst = append(dst, n)
	}
	return dst
}

func (b *treeBuilder) leaf(rows []int) Node {
	var sum float64
	for _, r := range rows {
		sum += b.gradients[r]
	}
	return Node{
		Kind:    LeafNode,
		Value:   sum / (float64(len(rows)) + leafEpsilon),
		Samples: len(rows),
	}
}

// bestSplit evaluates every feature and keeps the strictly best gain.
func (b *treeBuilder) bestSplit(rows []int) (int, SplitResult, bool) {
	splits := make([]SplitResult, b.numFeatures)
	found := make([]bool, b.numFeatures)

	evaluate := func(start, end int) {
		for f := start; f < end; f++ {
			hist := buildHistogramRows(b.binned, b.gradients, rows, f, b.numBins)
			splits[f], found[f] = FindBestSplit(hist, b.lambda)
		}
	}
	if b.workers > 1 {
		parallel.ParallelizeN(b.numFeatures, b.workers, evaluate)
	} else {
		evaluate(0, b.numFeatures)
	}

	bestFeature := -1
	bestGain := -math.MaxFloat64
	for f := 0; f < b.numFeatures; f++ {
		if found[f] && splits[f].Gain > bestGain {
			bestGain = splits[f].Gain
			bestFeature = f
		}
	}
	if bestFeature < 0 {
		return 0, SplitResult{}, false
	}
	return bestFeature, splits[bestFeature], true
}
