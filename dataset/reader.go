package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/pkg/log"
)

// Input column names, compared after trimming and lower-casing the header.
const (
	colID          = "master_index"
	colCounty      = "county"
	colHealthLevel = "health level"
	colYears       = "years of experience"
	colPrompt      = "prompt"
	colCompetency  = "nursing competency"
	colPanel       = "clinical panel"
)

// ReadCSV reads every record from the CSV file at path.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, histerrors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, histerrors.Wrapf(err, "read %s", path)
	}
	log.GetLoggerWithName("histgbm.dataset").Info("Records loaded",
		log.PathKey, path,
		log.SamplesKey, len(records),
	)
	return records, nil
}

// ReadRecords parses CSV with a header row. Columns are matched by name,
// ignoring case and surrounding spaces; unknown columns are ignored and
// absent ones read as empty. Categorical fields are lower-cased.
func ReadRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, histerrors.Wrap(histerrors.ErrEmptyData, "missing header row")
	}
	if err != nil {
		return nil, histerrors.Wrap(err, "read header")
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index[colPrompt]; !ok {
		log.GetLoggerWithName("histgbm.dataset").Warn("Input has no prompt column", "header", strings.Join(header, ","))
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, histerrors.Wrapf(err, "read line %d", line)
		}

		field := func(name string) string {
			if i, ok := index[name]; ok && i < len(row) {
				return row[i]
			}
			return ""
		}

		rec := Record{
			ID:                strings.TrimSpace(field(colID)),
			County:            strings.ToLower(field(colCounty)),
			HealthLevel:       strings.ToLower(field(colHealthLevel)),
			YearsOfExperience: field(colYears),
			Prompt:            field(colPrompt),
			NursingCompetency: strings.ToLower(field(colCompetency)),
			ClinicalPanel:     strings.ToLower(field(colPanel)),
		}
		for _, t := range AllTargets() {
			rec.Labels[t] = field(strings.ToLower(t.Name()))
		}
		records = append(records, rec)
	}
	return records, nil
}
