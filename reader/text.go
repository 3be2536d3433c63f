package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vegasq/extract/internal/logging"
)

// maxLineLength bounds a single input line.
const maxLineLength = 16 * 1024 * 1024

// ErrNoData is returned for input without a single non-blank line.
var ErrNoData = errors.New("no data")

// ReadText loads a whitespace-separated numeric table from r.
//
// The first non-blank line is the header. When every item on it is numeric
// the table is headerless: labels become Column1..ColumnN and the line is
// kept as the first record. Blank lines, short lines and lines holding
// non-numeric items are skipped with a warning; items past the header width
// are ignored.
func ReadText(r io.Reader, source string, opts Options) (*Table, error) {
	logger := logging.OrDiscard(opts.Logger)
	progress := opts.progressInterval()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	table := &Table{Source: source}
	lineNo := 0
	ncol := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		fields := strings.Fields(line)

		if table.Labels == nil {
			if len(fields) == 0 {
				continue
			}
			ncol = len(fields)
			setHeader(table, line, fields)
			if !table.Headerless {
				continue
			}
			logger.Debug().Str("file", source).Int("columns", ncol).Msg("no header found, using Column1..N")
		}

		if len(fields) == 0 {
			logger.Warn().Str("file", source).Int("line", lineNo).Msg("blank line, skipping")
			continue
		}
		if len(fields) < ncol {
			logger.Warn().Str("file", source).Int("line", lineNo).
				Int("items", len(fields)).Int("want", ncol).Msg("fewer items than the header, skipping")
			continue
		}
		fields = fields[:ncol]
		values, ok := parseValues(fields)
		if !ok {
			logger.Warn().Str("file", source).Int("line", lineNo).Msg("non-numeric item, skipping")
			continue
		}

		table.Records = append(table.Records, Record{
			Ordinal: len(table.Records) + 1,
			Line:    lineNo,
			Raw:     line,
			Fields:  fields,
			Values:  values,
		})
		if progress > 0 && len(table.Records)%progress == 0 {
			logger.Info().Str("file", source).Int("records", len(table.Records)).Msg("reading")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if table.Labels == nil {
		return nil, fmt.Errorf("%s: %w", source, ErrNoData)
	}

	logger.Debug().Str("file", source).Int("records", len(table.Records)).Msg("table loaded")
	return table, nil
}

// setHeader takes the labels of t from the first non-blank line. A line of
// numerals makes t headerless, labelled Column1..ColumnN.
func setHeader(t *Table, line string, fields []string) {
	if _, ok := parseValues(fields); !ok {
		t.Labels = fields
		t.Header = line
		return
	}
	t.Headerless = true
	t.Labels = make([]string, len(fields))
	for i := range t.Labels {
		t.Labels[i] = "Column" + strconv.Itoa(i+1)
	}
}

// ReadTextHeader reads r up to its first non-blank line and returns a table
// carrying the header only.
func ReadTextHeader(r io.Reader, source string) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if fields := strings.Fields(line); len(fields) > 0 {
			table := &Table{Source: source}
			setHeader(table, line, fields)
			return table, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return nil, fmt.Errorf("%s: %w", source, ErrNoData)
}

// parseValues converts every item to a number.
func parseValues(fields []string) ([]float64, bool) {
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, ok := ParseNumber(f)
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// ParseNumber parses a plain decimal numeral with an optional sign, fraction
// and exponent. Spellings such as "NaN", "Inf" or hexadecimal floats are not
// numerals here.
func ParseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	digits := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits = true
		case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E':
		default:
			return 0, false
		}
	}
	if !digits {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}
