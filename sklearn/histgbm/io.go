package histgbm

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/histgbm/core/model"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

// Save writes the ensemble to path in gob format.
func (e *Ensemble) Save(path string) error {
	return model.SaveModel(e, path)
}

// LoadEnsemble reads an ensemble written by Save.
func LoadEnsemble(path string) (*Ensemble, error) {
	var e Ensemble
	if err := model.LoadModel(&e, path); err != nil {
		return nil, histerrors.Wrapf(err, "load ensemble %s", path)
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// EncodeGob writes the ensemble to w in gob format.
func (e *Ensemble) EncodeGob(w io.Writer) error {
	return model.SaveModelToWriter(e, w)
}

// DecodeGob reads a gob encoded ensemble from r.
func DecodeGob(r io.Reader) (*Ensemble, error) {
	var e Ensemble
	if err := model.LoadModelFromReader(&e, r); err != nil {
		return nil, err
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// ExportJSON writes a human readable JSON dump of the ensemble to w.
func (e *Ensemble) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return histerrors.NewModelError("ExportJSON", "encode", err)
	}
	return nil
}

// SaveJSON writes the JSON dump to path.
func (e *Ensemble) SaveJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return histerrors.NewModelError("SaveJSON", "create file", err)
	}
	if err := e.ExportJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJSON reads an ensemble written by ExportJSON.
func LoadJSON(r io.Reader) (*Ensemble, error) {
	var e Ensemble
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, histerrors.NewModelError("LoadJSON", "decode", err)
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// validate checks the links of every tree so a corrupted model cannot send
// Predict out of range.
func (e *Ensemble) validate() error {
	for t := range e.Trees {
		nodes := e.Trees[t].Nodes
		for i, n := range nodes {
			if n.Kind != InternalNode {
				continue
			}
			if n.Left <= i || n.Left >= len(nodes) || n.Right <= i || n.Right >= len(nodes) {
				return histerrors.NewModelError("LoadEnsemble", "invalid node link", histerrors.Newf("tree %d node %d", t, i))
			}
			if n.FeatureIndex < 0 || (e.NumFeatures > 0 && n.FeatureIndex >= e.NumFeatures) {
				return histerrors.NewModelError("LoadEnsemble", "invalid feature index", histerrors.Newf("tree %d node %d", t, i))
			}
		}
	}
	return nil
}
