package reader

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/extract/internal/logging"
)

// ParquetReader reads numeric tables from Parquet files.
type ParquetReader struct {
	path   string
	file   *os.File
	pqFile *parquet.File
}

// NewParquetReader opens the Parquet file at path.
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &ParquetReader{
		path:   path,
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadParquet loads the Parquet file at path as a table.
func ReadParquet(path string, opts Options) (*Table, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.ReadTable(opts)
}

// Columns returns the top-level leaf columns usable as table labels.
// Groups and repeated fields have no single numeric value and are left out.
func (r *ParquetReader) Columns() []string {
	var names []string
	for _, field := range r.pqFile.Schema().Fields() {
		if usableField(field) {
			names = append(names, field.Name())
		}
	}
	return names
}

func usableField(field parquet.Field) bool {
	return len(field.Fields()) == 0 && field.Type() != nil && !field.Repeated()
}

// NumRows returns the row count recorded in the file metadata.
func (r *ParquetReader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// ReadTable reads every row into memory. Booleans become 1 or 0, nulls
// become NaN and strings holding a numeral are parsed; a row with any other
// value is skipped with a warning.
func (r *ParquetReader) ReadTable(opts Options) (*Table, error) {
	logger := logging.OrDiscard(opts.Logger)
	progress := opts.progressInterval()

	for _, field := range r.pqFile.Schema().Fields() {
		if !usableField(field) {
			logger.Warn().Str("file", r.path).Str("column", field.Name()).Msg("nested or repeated column, ignoring")
		}
	}

	labels := r.Columns()
	if len(labels) == 0 {
		return nil, fmt.Errorf("%s: %w", r.path, ErrNoData)
	}
	table := &Table{Source: r.path, Labels: labels}

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for n := 1; ; n++ {
		row := make(map[string]interface{})
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		values := make([]float64, len(labels))
		fields := make([]string, len(labels))
		ok := true
		for i, label := range labels {
			v, converted := toFloat64(row[label])
			if !converted {
				logger.Warn().Str("file", r.path).Int("row", n).Str("column", label).Msg("non-numeric value, skipping")
				ok = false
				break
			}
			values[i] = v
			fields[i] = formatValue(v)
		}
		if !ok {
			continue
		}

		table.Records = append(table.Records, Record{
			Ordinal: len(table.Records) + 1,
			Raw:     strings.Join(fields, " "),
			Fields:  fields,
			Values:  values,
		})
		if progress > 0 && len(table.Records)%progress == 0 {
			logger.Info().Str("file", r.path).Int("records", len(table.Records)).Msg("reading")
		}
	}

	logger.Debug().Str("file", r.path).Int("records", len(table.Records)).Msg("table loaded")
	return table, nil
}

// Schema returns the Parquet schema of the file.
func (r *ParquetReader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close releases the underlying file. It is safe to call more than once.
func (r *ParquetReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// toFloat64 converts a decoded Parquet value to a number.
func toFloat64(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return math.NaN(), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		return ParseNumber(strings.TrimSpace(v))
	case []byte:
		return ParseNumber(strings.TrimSpace(string(v)))
	}
	return 0, false
}

// formatValue renders a converted value the way it would be written in a
// text table.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if abs := math.Abs(v); v != 0 && (abs < 1e-4 || abs >= 1e15) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
