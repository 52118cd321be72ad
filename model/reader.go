package model

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ReadRecords parses choice records from CSV. The expected layout is a
// header row "task,chosen,<coefficient names...>" followed by one row per
// alternative. Returns the records and the coefficient names from the
// header; structural validation (one chosen per task, etc.) happens in
// NewChoiceDataset.
func ReadRecords(r io.Reader) ([]Record, []string, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not read CSV header")
	}
	if len(header) < 3 || header[0] != "task" || header[1] != "chosen" {
		return nil, nil, errors.Errorf("CSV header must be task,chosen,<names...>, got %v", header)
	}
	names := append([]string(nil), header[2:]...)

	var recs []Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "could not read CSV line %d", line+1)
		}
		line++

		if len(row) != len(header) {
			return nil, nil, errors.Errorf("line %d has %d fields, want %d", line, len(row), len(header))
		}

		chosen, err := strconv.Atoi(row[1])
		if err != nil || (chosen != 0 && chosen != 1) {
			return nil, nil, errors.Errorf("line %d chosen flag %q is not 0 or 1", line, row[1])
		}

		feats := make([]float64, len(row)-2)
		for i, f := range row[2:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "line %d field %s is not numeric", line, names[i])
			}
			feats[i] = v
		}

		recs = append(recs, Record{
			Task:     row[0],
			Features: feats,
			Chosen:   chosen == 1,
		})
	}

	return recs, names, nil
}

// WriteRecords emits records in the same CSV layout ReadRecords accepts.
func WriteRecords(w io.Writer, recs []Record, names []string) error {
	cw := csv.NewWriter(w)

	header := append([]string{"task", "chosen"}, names...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "could not write CSV header")
	}

	row := make([]string, len(header))
	for _, r := range recs {
		if len(r.Features) != len(names) {
			return errors.Errorf("record for task %s has %d features, header has %d", r.Task, len(r.Features), len(names))
		}

		row[0] = r.Task
		row[1] = "0"
		if r.Chosen {
			row[1] = "1"
		}
		for i, f := range r.Features {
			row[i+2] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "could not write record for task %s", r.Task)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "could not flush CSV")
}
