package series

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const (
	DefaultBufferSize = 64 * 1024
	MaxLineSize       = 1024 * 1024
)

// JSONLFormat handles JSON Lines files, one {"time":..,"views":..} object per line.
type JSONLFormat struct{}

func (f *JSONLFormat) Name() string         { return "jsonl" }
func (f *JSONLFormat) Extensions() []string { return []string{".jsonl", ".ndjson"} }

type jsonlRecord struct {
	Time  *float64 `json:"time"`
	Views *float64 `json:"views"`
}

// Decode skips blank lines and lines that are not a complete record.
func (f *JSONLFormat) Decode(data []byte) ([]Sample, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, DefaultBufferSize), MaxLineSize)

	var samples []Sample
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Time == nil || rec.Views == nil {
			continue
		}
		samples = append(samples, Sample{Time: *rec.Time, Views: *rec.Views})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	return samples, nil
}

func (f *JSONLFormat) Encode(w io.Writer, samples []Sample) error {
	enc := json.NewEncoder(w)
	for i, s := range samples {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}
