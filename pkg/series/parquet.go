package series

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

const parquetReadBatch = 1000

// ParquetFormat handles Parquet files with DOUBLE time and views columns.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extensions() []string { return []string{".parquet"} }

func (f *ParquetFormat) Encode(w io.Writer, samples []Sample) error {
	writer := parquet.NewGenericWriter[Sample](w,
		parquet.Compression(&parquet.Snappy),
	)
	if _, err := writer.Write(samples); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// Decode reads rows by column name so files written by other tools with a
// different column order or integer columns still load.
func (f *ParquetFormat) Decode(data []byte) ([]Sample, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	timeCol, ok := pf.Schema().Lookup(ColumnTime)
	if !ok {
		return nil, fmt.Errorf("parquet schema lacks %q column", ColumnTime)
	}
	viewsCol, ok := pf.Schema().Lookup(ColumnViews)
	if !ok {
		return nil, fmt.Errorf("parquet schema lacks %q column", ColumnViews)
	}

	samples := make([]Sample, 0, pf.NumRows())
	rowBuf := make([]parquet.Row, parquetReadBatch)

	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(rowBuf)
			for i := 0; i < n; i++ {
				var s Sample
				for _, v := range rowBuf[i] {
					switch v.Column() {
					case timeCol.ColumnIndex:
						s.Time = parquetValueToFloat(v)
					case viewsCol.ColumnIndex:
						s.Views = parquetValueToFloat(v)
					}
				}
				samples = append(samples, s)
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					rows.Close()
					return nil, fmt.Errorf("failed to read rows: %w", err)
				}
				break
			}
			if n == 0 {
				break
			}
		}
		rows.Close()
	}

	return samples, nil
}

func parquetValueToFloat(v parquet.Value) float64 {
	switch v.Kind() {
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	default:
		return 0
	}
}
