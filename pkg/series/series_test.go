package series

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleSeries() *Series {
	return New(
		Sample{Time: 1700000000.123456, Views: 5},
		Sample{Time: 1700000010.5, Views: 8},
		Sample{Time: 1700000020, Views: 8},
		Sample{Time: 1700000030.000001, Views: 1234567},
	)
}

func TestRoundTripAllFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"csv", "views.csv"},
		{"tsv", "views.tsv"},
		{"jsonl", "views.jsonl"},
		{"parquet", "views.parquet"},
		{"unknown extension falls back to csv", "views.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			want := sampleSeries()

			if err := Save(path, want); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got.Len() != want.Len() {
				t.Fatalf("Len = %d; want %d", got.Len(), want.Len())
			}
			for i := range want.Samples {
				if got.Samples[i] != want.Samples[i] {
					t.Errorf("sample %d = %+v; want %+v", i, got.Samples[i], want.Samples[i])
				}
			}
		})
	}
}

func TestCSVLayout(t *testing.T) {
	var buf bytes.Buffer
	f, _ := Get("csv")
	if err := f.Encode(&buf, []Sample{{Time: 1000, Views: 5}, {Time: 1010.25, Views: 8}}); err != nil {
		t.Fatal(err)
	}

	want := "time,views\n1000,5\n1010.25,8\n"
	if buf.String() != want {
		t.Errorf("csv output = %q; want %q", buf.String(), want)
	}
}

func TestDecodeDelimitedByColumnName(t *testing.T) {
	data := []byte("views,extra,time\n5,a,1000\n8,b,1010.0\n")
	samples, err := decodeDelimited(data, ',')
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples; want 2", len(samples))
	}
	if samples[1] != (Sample{Time: 1010, Views: 8}) {
		t.Errorf("samples[1] = %+v", samples[1])
	}
}

func TestLoadFallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		create  bool
	}{
		{"missing file", "missing.csv", "", false},
		{"empty file", "empty.csv", "", true},
		{"wrong header", "header.csv", "a,b\n1,2\n", true},
		{"non-numeric value", "value.csv", "time,views\n1000,lots\n", true},
		{"short row", "short.csv", "time,views\n1000\n", true},
		{"garbage parquet", "bad.parquet", "not parquet at all", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.create {
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			if _, err := Read(path); err == nil {
				t.Errorf("Read(%s) succeeded; want error", tt.name)
			}
			if s := Load(path); s == nil || s.Len() != 0 {
				t.Errorf("Load(%s) = %v; want empty series", tt.name, s)
			}
		})
	}
}

func TestHeaderOnlyIsEmptySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views.csv")
	if err := os.WriteFile(path, []byte("time,views\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d; want 0", s.Len())
	}
}

func TestJSONLSkipsPartialLines(t *testing.T) {
	f, _ := Get("jsonl")
	samples, err := f.Decode([]byte("{\"time\":1,\"views\":2}\n\n{\"time\":3}\n{\"time\":4,\"vi"))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0] != (Sample{Time: 1, Views: 2}) {
		t.Errorf("samples = %+v; want one {1 2}", samples)
	}
}

func TestStoreAppendPersistsEveryCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "views.csv")

	st := Open(path)
	if st.Len() != 0 {
		t.Fatalf("new store Len = %d; want 0", st.Len())
	}

	for i := 0; i < 3; i++ {
		if err := st.Append(Sample{Time: float64(1000 + 10*i), Views: float64(i)}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}

		onDisk, err := Read(path)
		if err != nil {
			t.Fatalf("Read after append %d: %v", i, err)
		}
		if onDisk.Len() != i+1 {
			t.Errorf("after append %d file holds %d samples; want %d", i, onDisk.Len(), i+1)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}

	reopened := Open(path)
	if reopened.Len() != 3 {
		t.Errorf("reopened Len = %d; want 3", reopened.Len())
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "views.csv"))
	if err := st.Append(Sample{Time: 1, Views: 1}); err != nil {
		t.Fatal(err)
	}

	snap := st.Snapshot()
	snap.Samples[0].Views = 99
	if st.Snapshot().Samples[0].Views != 1 {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestSaveFailsForMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "views.csv")
	if err := Save(path, sampleSeries()); err == nil {
		t.Error("Save into a missing directory succeeded; want error")
	}
}

func TestSpanAndTimeConversion(t *testing.T) {
	s := New(Sample{Time: 1000}, Sample{Time: 1000 + 86400 + 3661.5})
	if got, want := s.Span(), 24*time.Hour+time.Hour+time.Minute+1500*time.Millisecond; got != want {
		t.Errorf("Span = %v; want %v", got, want)
	}

	now := time.Unix(1700000000, 250000000)
	if got := TimeOf(UnixSeconds(now)); !got.Equal(now) {
		t.Errorf("TimeOf(UnixSeconds(%v)) = %v", now, got)
	}
}
