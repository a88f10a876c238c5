package series

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVFormat handles CSV files.
type CSVFormat struct{}

func (f *CSVFormat) Name() string         { return "csv" }
func (f *CSVFormat) Extensions() []string { return []string{".csv"} }
func (f *CSVFormat) Decode(data []byte) ([]Sample, error) {
	return decodeDelimited(data, ',')
}
func (f *CSVFormat) Encode(w io.Writer, samples []Sample) error {
	return encodeDelimited(w, samples, ',')
}

// TSVFormat handles TSV files.
type TSVFormat struct{}

func (f *TSVFormat) Name() string         { return "tsv" }
func (f *TSVFormat) Extensions() []string { return []string{".tsv"} }
func (f *TSVFormat) Decode(data []byte) ([]Sample, error) {
	return decodeDelimited(data, '\t')
}
func (f *TSVFormat) Encode(w io.Writer, samples []Sample) error {
	return encodeDelimited(w, samples, '\t')
}

// decodeDelimited reads a table with a header row. Columns are located by
// name, so extra columns and reordering are tolerated.
func decodeDelimited(data []byte, delimiter rune) ([]Sample, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	timeIdx, viewsIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnTime:
			timeIdx = i
		case ColumnViews:
			viewsIdx = i
		}
	}
	if timeIdx < 0 || viewsIdx < 0 {
		return nil, fmt.Errorf("header %v lacks %q and %q columns", header, ColumnTime, ColumnViews)
	}

	var samples []Sample
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if timeIdx >= len(row) || viewsIdx >= len(row) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(timeIdx, viewsIdx)+1, len(row))
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(row[timeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, ColumnTime, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[viewsIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, ColumnViews, err)
		}
		samples = append(samples, Sample{Time: t, Views: v})
	}

	return samples, nil
}

func encodeDelimited(w io.Writer, samples []Sample, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	if err := writer.Write([]string{ColumnTime, ColumnViews}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, 2)
	for i, s := range samples {
		row[0] = formatFloat(s.Time)
		row[1] = formatFloat(s.Views)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
