package output

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/vegasq/extract/reader"
)

// RecordKey is the JSON key holding the record number.
const RecordKey = "_record"

// JSONFormatter outputs records as JSON Lines, one object per record with
// the record number under RecordKey followed by the columns in file order.
// A label repeated in the header, or equal to RecordKey, is keyed label#N
// after its column number.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes records as JSON Lines. NaN and infinities have no JSON
// form and are written as null.
func (j *JSONFormatter) Format(t *reader.Table, records []reader.Record) error {
	keys, err := jsonKeys(t.Labels)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(j.writer)
	for _, rec := range records {
		if err := encoder.Encode(jsonRow{keys: keys, rec: rec}); err != nil {
			return err
		}
	}
	return nil
}

// jsonKeys quotes the object key of every column once per table.
func jsonKeys(labels []string) ([][]byte, error) {
	seen := map[string]bool{RecordKey: true}
	keys := make([][]byte, len(labels))
	for i, label := range labels {
		if seen[label] {
			label = fmt.Sprintf("%s#%d", label, i+1)
		}
		seen[label] = true

		quoted, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		keys[i] = quoted
	}
	return keys, nil
}

// jsonRow keeps the column order a map would lose.
type jsonRow struct {
	keys [][]byte
	rec  reader.Record
}

func (r jsonRow) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 16+len(r.keys)*24)
	buf = append(buf, `{"`+RecordKey+`":`...)
	buf = strconv.AppendInt(buf, int64(r.rec.Ordinal), 10)
	for i, key := range r.keys {
		buf = append(buf, ',')
		buf = append(buf, key...)
		buf = append(buf, ':')
		v := r.rec.Values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, '}'), nil
}
