package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/extract/reader"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names accepted by New.
const (
	FormatText  = "text"
	FormatTab   = "tab"
	FormatRaw   = "raw"
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
	FormatTable = "table"
)

// Formats lists the supported format names.
var Formats = []string{FormatText, FormatTab, FormatRaw, FormatCSV, FormatJSONL, FormatTable}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes the header of t followed by records, which must be
	// records of t.
	Format(t *reader.Table, records []reader.Record) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// New returns the formatter registered under name.
func New(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatTab:
		return NewTabFormatter(w), nil
	case FormatRaw:
		return NewRawFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	case FormatJSONL, "json":
		return NewJSONFormatter(w), nil
	case FormatTable:
		return NewTableFormatter(w), nil
	}
	return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
}
