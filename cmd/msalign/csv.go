package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errShortInput = errors.New("msalign: input needs an axis row and at least one signal row")

// parseFloatList parses a comma separated list such as "10,20.5". An empty
// string yields nil.
func parseFloatList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// readBatch reads the axis from the first record and one signal from each
// following record. Rows may differ in length; orientation is resolved later.
func readBatch(r io.Reader) (axis []float64, batch [][]float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, errShortInput
	}

	rows := make([][]float64, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d, column %d: invalid number %q", i+1, j+1, field)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows[0], rows[1:], nil
}

// writeBatch writes the axis followed by one record per signal.
func writeBatch(w io.Writer, axis []float64, batch [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(formatRow(axis)); err != nil {
		return err
	}
	for _, row := range batch {
		if err := cw.Write(formatRow(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeCorrections writes one index,shift,scale record per signal.
func writeCorrections(w io.Writer, shifts, scales []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "shift", "scale"}); err != nil {
		return err
	}
	for i := range shifts {
		rec := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(shifts[i], 'g', -1, 64),
			strconv.FormatFloat(scales[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRow(row []float64) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}
