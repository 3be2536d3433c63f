package reader

import (
	"strings"

	"github.com/oarkflow/log"

	"github.com/vegasq/extract/query"
)

// DefaultProgressInterval is the number of records between progress
// messages while a table is loaded.
const DefaultProgressInterval = 50000

// Record is one accepted row of a table.
type Record struct {
	Ordinal int       // 1-based count of accepted records
	Line    int       // 1-based line number in the source; 0 for Parquet rows
	Raw     string    // the source line without its terminator
	Fields  []string  // items as written, one per label
	Values  []float64 // numeric value of each item
}

// Table is a fully loaded numeric table.
type Table struct {
	Source     string
	Labels     []string
	Header     string // header line as written; empty when Headerless
	Headerless bool
	Records    []Record
}

// Options controls how tables are loaded.
type Options struct {
	Logger *log.Logger

	// ProgressInterval is the number of records between progress messages.
	// Zero selects DefaultProgressInterval, a negative value disables them.
	ProgressInterval int
}

func (o Options) progressInterval() int {
	if o.ProgressInterval == 0 {
		return DefaultProgressInterval
	}
	return o.ProgressInterval
}

// Environment returns the column environment expressions are resolved
// against.
func (t *Table) Environment() query.Environment {
	return query.Environment{Labels: t.Labels, Source: t.Source}
}

// Rows returns the records as evaluator rows. The value slices are shared
// with the table.
func (t *Table) Rows() []query.Row {
	rows := make([]query.Row, len(t.Records))
	for i, rec := range t.Records {
		rows[i] = query.Row{Values: rec.Values, Ordinal: rec.Ordinal}
	}
	return rows
}

// Select returns the records at the given indices, in order.
func (t *Table) Select(indices []int) []Record {
	out := make([]Record, 0, len(indices))
	for _, i := range indices {
		out = append(out, t.Records[i])
	}
	return out
}

// HeaderLine returns the header as it should be echoed. Tables without a
// written header get their labels joined by single spaces.
func (t *Table) HeaderLine() string {
	if t.Header != "" {
		return t.Header
	}
	return strings.Join(t.Labels, " ")
}
