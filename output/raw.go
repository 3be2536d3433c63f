package output

import (
	"bufio"
	"io"

	"github.com/vegasq/extract/reader"
)

// RawFormatter echoes the header and the matching lines exactly as they
// were read. Headerless tables get no header line.
type RawFormatter struct {
	writer io.Writer
}

// NewRawFormatter creates a new raw formatter
func NewRawFormatter(w io.Writer) *RawFormatter {
	return &RawFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *RawFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes the header line and the raw records.
func (f *RawFormatter) Format(t *reader.Table, records []reader.Record) error {
	bw := bufio.NewWriter(f.writer)
	if !t.Headerless {
		bw.WriteString(t.HeaderLine())
		bw.WriteByte('\n')
	}
	for _, rec := range records {
		bw.WriteString(rec.Raw)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
