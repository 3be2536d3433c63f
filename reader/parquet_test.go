package reader

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/extract/internal/logging"
)

type gridRow struct {
	Lon    float64  `parquet:"Lon"`
	Lat    float32  `parquet:"Lat"`
	Year   int32    `parquet:"Year"`
	Total  *float64 `parquet:"Total,optional"`
	Valid  bool     `parquet:"Valid"`
	Region string   `parquet:"Region"`
	Tags   []string `parquet:"Tags,list"`
}

// writeParquet writes rows to a new Parquet file in a temporary directory.
func writeParquet[T any](t *testing.T, name string, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	writer := parquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}
	return path
}

func ptr(v float64) *float64 { return &v }

func labelIndex(t *testing.T, table *Table, label string) int {
	t.Helper()
	for i, l := range table.Labels {
		if l == label {
			return i
		}
	}
	t.Fatalf("label %s not in %v", label, table.Labels)
	return -1
}

func TestReadParquet(t *testing.T) {
	path := writeParquet(t, "grid.parquet", []gridRow{
		{Lon: 10.5, Lat: 55, Year: 2000, Total: ptr(3.2), Valid: true, Region: "7"},
		{Lon: 11, Lat: 56.5, Year: 2001, Total: nil, Valid: false, Region: "12.5"},
		{Lon: 12, Lat: 57, Year: 2002, Total: ptr(1), Valid: true, Region: "north"},
	})

	var logs bytes.Buffer
	logger, err := logging.NewJSON(&logs, "warn")
	if err != nil {
		t.Fatal(err)
	}

	table, err := Open(path, Options{Logger: logger})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if len(table.Labels) != 6 {
		t.Fatalf("labels = %v, want 6 scalar columns", table.Labels)
	}
	if len(table.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(table.Records))
	}

	first, second := table.Records[0], table.Records[1]
	if first.Ordinal != 1 || second.Ordinal != 2 {
		t.Errorf("ordinals = %d, %d", first.Ordinal, second.Ordinal)
	}

	tests := []struct {
		label string
		rec   Record
		check func(float64) bool
	}{
		{"Lon", first, func(v float64) bool { return v == 10.5 }},
		{"Lat", second, func(v float64) bool { return v == 56.5 }},
		{"Year", first, func(v float64) bool { return v == 2000 }},
		{"Total", first, func(v float64) bool { return v == 3.2 }},
		{"Total", second, math.IsNaN},
		{"Valid", first, func(v float64) bool { return v == 1 }},
		{"Valid", second, func(v float64) bool { return v == 0 }},
		{"Region", second, func(v float64) bool { return v == 12.5 }},
	}
	for _, tt := range tests {
		i := labelIndex(t, table, tt.label)
		if v := tt.rec.Values[i]; !tt.check(v) {
			t.Errorf("record %d %s = %v", tt.rec.Ordinal, tt.label, v)
		}
	}

	if got := first.Fields[labelIndex(t, table, "Year")]; got != "2000" {
		t.Errorf("Year field = %q, want 2000", got)
	}
	if got := second.Fields[labelIndex(t, table, "Total")]; got != "NaN" {
		t.Errorf("null Total field = %q, want NaN", got)
	}

	out := logs.String()
	if !strings.Contains(out, "nested or repeated column") || !strings.Contains(out, "non-numeric value") {
		t.Errorf("missing warnings: %s", out)
	}
}

func TestParquetReader_Columns(t *testing.T) {
	path := writeParquet(t, "grid.parquet", []gridRow{{Lon: 1}})

	r, err := NewParquetReader(path)
	if err != nil {
		t.Fatalf("NewParquetReader() error = %v", err)
	}
	defer func() { _ = r.Close() }()

	cols := r.Columns()
	for _, c := range cols {
		if c == "Tags" {
			t.Errorf("list column included in %v", cols)
		}
	}
	if r.NumRows() != 1 {
		t.Errorf("NumRows() = %d, want 1", r.NumRows())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestNewParquetReader_Errors(t *testing.T) {
	if _, err := NewParquetReader(filepath.Join(t.TempDir(), "missing.parquet")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bogus.parquet")
	if err := os.WriteFile(path, []byte("not parquet"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewParquetReader(path); err == nil {
		t.Error("expected error for invalid parquet file")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2000, "2000"},
		{-3.25, "-3.25"},
		{1e20, "1e+20"},
		{0.00001, "1e-05"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
