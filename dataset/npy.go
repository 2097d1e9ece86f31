package dataset

import (
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

// ToDense copies rows into a dense matrix. All rows must have equal length.
func ToDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, histerrors.Wrap(histerrors.ErrEmptyData, "ToDense")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		if len(row) != cols {
			return nil, histerrors.NewDimensionError("ToDense", cols, len(row), 1)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// FromDense is the inverse of ToDense.
func FromDense(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

// WriteNpy stores m as a NumPy .npy file.
func WriteNpy(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return histerrors.Wrapf(err, "create %s", path)
	}
	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return histerrors.Wrapf(err, "write npy %s", path)
	}
	return f.Close()
}

// ReadNpy loads a 2-D NumPy .npy file.
func ReadNpy(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, histerrors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, histerrors.Wrapf(err, "read npy header %s", path)
	}
	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, histerrors.Wrapf(err, "read npy %s", path)
	}
	return m, nil
}
