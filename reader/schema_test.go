package reader

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractSchemaInfo(t *testing.T) {
	path := writeParquet(t, "grid.parquet", []gridRow{{Lon: 1, Region: "r"}})

	infos, err := ExtractSchemaInfo(path)
	if err != nil {
		t.Fatalf("ExtractSchemaInfo() error = %v", err)
	}
	if len(infos) != 6 {
		t.Fatalf("got %d columns, want 6: %+v", len(infos), infos)
	}

	byName := make(map[string]ColumnInfo)
	for i, info := range infos {
		if info.Ordinal != i+1 {
			t.Errorf("%s: ordinal %d, want %d", info.Name, info.Ordinal, i+1)
		}
		byName[info.Name] = info
	}

	tests := []struct {
		name     string
		typ      string
		optional bool
	}{
		{"Lon", "FLOAT64", false},
		{"Lat", "FLOAT32", false},
		{"Year", "INT32", false},
		{"Total", "FLOAT64", true},
		{"Valid", "BOOLEAN", false},
		{"Region", "STRING", false},
	}
	for _, tt := range tests {
		info, ok := byName[tt.name]
		if !ok {
			t.Errorf("column %s missing", tt.name)
			continue
		}
		if info.Type != tt.typ || info.Optional != tt.optional {
			t.Errorf("%s = %s optional=%v, want %s optional=%v", tt.name, info.Type, info.Optional, tt.typ, tt.optional)
		}
	}
}

func TestDescribe_Text(t *testing.T) {
	path := writeText(t, t.TempDir(), "cpool.out", cpoolOut)

	infos, err := Describe(path, Options{})
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	var refs []string
	for _, info := range infos {
		if info.Type != "NUMBER" {
			t.Errorf("%s type = %s", info.Name, info.Type)
		}
		refs = append(refs, info.Ref()+"="+info.Name)
	}
	if got := strings.Join(refs, " "); got != "#1=Lon #2=Lat #3=Year #4=Total" {
		t.Errorf("columns = %s", got)
	}
}

func TestDescribe_Parquet(t *testing.T) {
	path := writeParquet(t, "grid.parquet", []gridRow{{Lon: 1}})
	infos, err := Describe(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 6 {
		t.Errorf("got %d columns, want 6", len(infos))
	}
}

func TestDescribe_Missing(t *testing.T) {
	if _, err := Describe(filepath.Join(t.TempDir(), "nope.out"), Options{}); err == nil {
		t.Error("expected error for a missing file")
	}
}
