package output

import (
	"bytes"
	"testing"
)

func TestScanItem(t *testing.T) {
	tests := []struct {
		in       string
		digits   int
		places   int
		negative bool
		plain    bool
	}{
		{"12", 2, 0, false, true},
		{"-3.25", 1, 2, true, true},
		{"+0.5", 1, 1, false, true},
		{".5", 0, 1, false, true},
		{"7.", 1, 0, false, true},
		{"1e3", 1, 0, false, false},
		{"NaN", 0, 0, false, false},
		{"-", 0, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, p, neg, plain := scanItem(tt.in)
			if d != tt.digits || p != tt.places || neg != tt.negative || plain != tt.plain {
				t.Errorf("scanItem(%q) = %d, %d, %v, %v; want %d, %d, %v, %v",
					tt.in, d, p, neg, plain, tt.digits, tt.places, tt.negative, tt.plain)
			}
		})
	}
}

func TestColumnLayouts(t *testing.T) {
	table := loadTable(t, "x Longitude e\n1 .5 1e3\n-22 1.25 2\n")
	layouts := ColumnLayouts(table)

	tests := []struct {
		width   int
		places  int
		general bool
	}{
		{3, 0, false}, // "-22"
		{9, 2, false}, // label wider than "1.25"
		{4, 0, true},  // "1000"
	}
	for i, tt := range tests {
		l := layouts[i]
		if l.Width != tt.width || l.Places != tt.places || l.General != tt.general {
			t.Errorf("column %s = %+v, want width %d places %d general %v", l.Label, l, tt.width, tt.places, tt.general)
		}
	}
}

func TestTextFormatter_GeneralColumn(t *testing.T) {
	table := loadTable(t, "x\n1e3\n2\n")
	var buf bytes.Buffer
	if err := NewTextFormatter(&buf).Format(table, table.Records); err != nil {
		t.Fatal(err)
	}
	if want := "   x\n1000\n   2\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTextFormatter_WideLabels(t *testing.T) {
	table := loadTable(t, "温度 b\n1 2\n")
	var buf bytes.Buffer
	if err := NewTextFormatter(&buf).Format(table, table.Records); err != nil {
		t.Fatal(err)
	}
	if want := "温度 b\n   1 2\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
