package histgbm

// NodeKind distinguishes leaves from internal nodes.
type NodeKind uint8

const (
	// LeafNode holds a prediction value.
	LeafNode NodeKind = iota
	// InternalNode routes rows by comparing one bin against a threshold.
	InternalNode
)

func (k NodeKind) String() string {
	switch k {
	case LeafNode:
		return "leaf"
	case InternalNode:
		return "internal"
	default:
		return "unknown"
	}
}

// Node is one entry of a Tree arena. Left and Right index into Tree.Nodes.
type Node struct {
	Kind NodeKind `json:"kind"`

	// Leaf
	Value float64 `json:"value,omitempty"`

	// Internal: bin <= ThresholdBin goes to Left.
	FeatureIndex int     `json:"feature_index,omitempty"`
	ThresholdBin int     `json:"threshold_bin,omitempty"`
	Left         int     `json:"left,omitempty"`
	Right        int     `json:"right,omitempty"`
	Gain         float64 `json:"gain,omitempty"`

	// Samples is the number of training rows that reached the node.
	Samples int `json:"samples"`
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Kind == LeafNode
}

// Tree is a regression tree stored in pre-order; Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks from the root to a leaf and returns its value.
// MissingBin is compared like any other bin. An empty tree predicts 0.
func (t *Tree) Predict(row []uint8) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	idx := 0
	for {
		node := &t.Nodes[idx]
		if node.Kind == LeafNode {
			return node.Value
		}
		if int(row[node.FeatureIndex]) <= node.ThresholdBin {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	type frame struct{ idx, depth int }
	maxDepth := 0
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.Nodes[f.idx]
		if node.Kind == LeafNode {
			if f.depth > maxDepth {
				maxDepth = f.depth
			}
			continue
		}
		stack = append(stack, frame{node.Left, f.depth + 1}, frame{node.Right, f.depth + 1})
	}
	return maxDepth
}

// NumLeaves returns the number of leaf nodes.
func (t *Tree) NumLeaves() int {
	n := 0
	for i := range t.Nodes {
		if t.Nodes[i].Kind == LeafNode {
			n++
		}
	}
	return n
}
