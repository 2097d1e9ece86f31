package histgbm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

var renderFormats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// RenderTree draws tree in the given format ("dot", "svg", "png" or "jpg")
// and writes the result to w. featureNames may be nil.
func RenderTree(tree *Tree, featureNames []string, format string, w io.Writer) (err error) {
	defer histerrors.Recover(&err, "RenderTree")

	gvFormat, ok := renderFormats[strings.ToLower(format)]
	if !ok {
		return histerrors.NewValidationError("format", "must be one of dot, svg, png, jpg", format)
	}
	if len(tree.Nodes) == 0 {
		return histerrors.NewValueError("RenderTree", "tree has no nodes")
	}

	g := graphviz.New()
	defer g.Close()
	graph, err := g.Graph()
	if err != nil {
		return histerrors.Wrap(err, "create graph")
	}
	defer graph.Close()

	if err := drawNode(graph, tree, featureNames, 0, nil); err != nil {
		return err
	}
	if err := g.Render(graph, gvFormat, w); err != nil {
		return histerrors.Wrapf(err, "render %s", format)
	}
	return nil
}

// RenderTreeFile renders tree to path, picking the format from its extension.
func RenderTreeFile(tree *Tree, featureNames []string, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	f, err := os.Create(path)
	if err != nil {
		return histerrors.Wrapf(err, "create %s", path)
	}
	if err := RenderTree(tree, featureNames, format, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func drawNode(graph *cgraph.Graph, tree *Tree, featureNames []string, idx int, parent *cgraph.Node) error {
	current, err := graph.CreateNode(fmt.Sprintf("n%d", idx))
	if err != nil {
		return histerrors.Wrapf(err, "create node %d", idx)
	}
	if parent != nil {
		if _, err := graph.CreateEdge("", parent, current); err != nil {
			return histerrors.Wrapf(err, "create edge to node %d", idx)
		}
	}

	node := &tree.Nodes[idx]
	if node.Kind == LeafNode {
		current.Set("label", fmt.Sprintf("leaf\nvalue=%.4f\nsamples=%d", node.Value, node.Samples))
		current.Set("shape", "box")
		return nil
	}

	current.Set("label", fmt.Sprintf("%s <= bin %d\ngain=%.4f\nsamples=%d",
		featureLabel(featureNames, node.FeatureIndex), node.ThresholdBin, node.Gain, node.Samples))
	if err := drawNode(graph, tree, featureNames, node.Left, current); err != nil {
		return err
	}
	return drawNode(graph, tree, featureNames, node.Right, current)
}

func featureLabel(names []string, idx int) string {
	if idx < len(names) && names[idx] != "" {
		return names[idx]
	}
	return fmt.Sprintf("f%d", idx)
}
