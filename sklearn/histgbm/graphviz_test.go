package histgbm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

func TestRenderTreeDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTree(stump(), []string{"county_len"}, "dot", &buf))

	out := buf.String()
	assert.Contains(t, out, "county_len")
	assert.Contains(t, out, "n0")
	assert.Contains(t, out, "n2")
}

func TestRenderTreeErrors(t *testing.T) {
	err := RenderTree(stump(), nil, "bmp", &bytes.Buffer{})
	var valErr *histerrors.ValidationError
	require.True(t, histerrors.As(err, &valErr))

	err = RenderTree(&Tree{}, nil, "svg", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRenderTreeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree_00.svg")
	require.NoError(t, RenderTreeFile(stump(), nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestFeatureLabel(t *testing.T) {
	assert.Equal(t, "years", featureLabel([]string{"a", "years"}, 1))
	assert.Equal(t, "f3", featureLabel([]string{"a"}, 3))
	assert.Equal(t, "f0", featureLabel([]string{""}, 0))
}
