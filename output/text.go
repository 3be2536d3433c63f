package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vegasq/extract/reader"
)

// TextFormatter writes records as right-aligned numeric columns. Column
// widths and decimal places are derived from every record of the table, so
// the output of one table lines up whichever records pass the filter.
type TextFormatter struct {
	writer io.Writer
	sep    string
}

// NewTextFormatter creates a formatter separating columns with a space.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w, sep: " "}
}

// NewTabFormatter creates a formatter separating columns with a tab.
func NewTabFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w, sep: "\t"}
}

// SetOutput sets the output writer
func (f *TextFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes the aligned header and records.
func (f *TextFormatter) Format(t *reader.Table, records []reader.Record) error {
	layouts := ColumnLayouts(t)
	bw := bufio.NewWriter(f.writer)

	for i, l := range layouts {
		if i > 0 {
			bw.WriteString(f.sep)
		}
		bw.WriteString(runewidth.FillLeft(l.Label, l.Width))
	}
	bw.WriteByte('\n')

	for _, rec := range records {
		for i, l := range layouts {
			if i > 0 {
				bw.WriteString(f.sep)
			}
			bw.WriteString(l.format(rec.Values[i]))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Layout is the print format of one column.
type Layout struct {
	Label   string
	Width   int
	Places  int  // digits after the decimal point
	General bool // some item is not a plain decimal; print the shortest form
}

func (l Layout) format(v float64) string {
	var s string
	if l.General {
		s = strconv.FormatFloat(v, 'g', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', l.Places, 64)
	}
	if pad := l.Width - len(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// ColumnLayouts scans every record of t and returns one layout per label.
// A column is as wide as its widest integer part, plus its decimal places
// and a sign position when any item is negative, and never narrower than
// its label.
func ColumnLayouts(t *reader.Table) []Layout {
	layouts := make([]Layout, len(t.Labels))
	digits := make([]int, len(t.Labels))
	signed := make([]bool, len(t.Labels))

	for _, rec := range t.Records {
		for i := range layouts {
			if i >= len(rec.Fields) {
				break
			}
			item := rec.Fields[i]
			d, p, neg, plain := scanItem(item)
			if !plain {
				layouts[i].General = true
				continue
			}
			digits[i] = max(digits[i], d)
			layouts[i].Places = max(layouts[i].Places, p)
			signed[i] = signed[i] || neg
		}
	}

	for i, label := range t.Labels {
		l := &layouts[i]
		l.Label = label
		if l.General {
			// every item of the column is printed in the short form
			for _, rec := range t.Records {
				if i < len(rec.Values) {
					l.Width = max(l.Width, len(strconv.FormatFloat(rec.Values[i], 'g', -1, 64)))
				}
			}
		} else {
			l.Width = max(digits[i], 1)
			if l.Places > 0 {
				l.Width += l.Places + 1
			}
			if signed[i] {
				l.Width++
			}
		}
		l.Width = max(l.Width, runewidth.StringWidth(label))
	}
	return layouts
}

// scanItem measures a numeral. plain is false for anything other than an
// optionally signed decimal such as "-12.50".
func scanItem(s string) (digits, places int, negative, plain bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			places++
		}
	}
	plain = i == len(s) && digits+places > 0
	return digits, places, negative, plain
}
