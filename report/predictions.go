// Package report writes prediction tables, evaluation summaries and
// learning-curve plots.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/histgbm/dataset"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/pkg/log"
)

// MissingID is written in place of an empty record identifier.
const MissingID = "NA"

// Header is the first row of every prediction table.
func Header() []string {
	header := []string{"Master_Index"}
	for _, t := range dataset.AllTargets() {
		header = append(header, t.Name())
	}
	return header
}

// WritePredictions writes one CSV row per record. predictions holds one
// slice per trained target, aligned with records; a target without a
// slice, or a slice too short for a row, leaves that cell empty.
func WritePredictions(w io.Writer, records []dataset.Record, predictions map[dataset.Target][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return histerrors.Wrap(err, "write header")
	}

	row := make([]string, 1+dataset.NumTargets)
	for i, rec := range records {
		row[0] = rec.ID
		if row[0] == "" {
			row[0] = MissingID
		}
		for j, t := range dataset.AllTargets() {
			row[j+1] = ""
			if preds, ok := predictions[t]; ok && i < len(preds) {
				row[j+1] = strconv.FormatFloat(preds[i], 'f', 4, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return histerrors.Wrapf(err, "write row %d", i)
		}
	}
	cw.Flush()
	return histerrors.Wrap(cw.Error(), "flush predictions")
}

// WritePredictionsFile writes the prediction table to path.
func WritePredictionsFile(path string, records []dataset.Record, predictions map[dataset.Target][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return histerrors.Wrapf(err, "create %s", path)
	}
	if err := WritePredictions(f, records, predictions); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return histerrors.Wrapf(err, "close %s", path)
	}

	log.GetLoggerWithName("histgbm.report").Info("Predictions written",
		log.PathKey, path,
		log.PredsKey, len(records),
	)
	return nil
}
