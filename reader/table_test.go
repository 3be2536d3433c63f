package reader

import (
	"context"
	"strings"
	"testing"

	"github.com/vegasq/extract/query"
)

func TestTable_FilterRoundTrip(t *testing.T) {
	table, err := ReadText(strings.NewReader(cpoolOut), "cpool.out", Options{})
	if err != nil {
		t.Fatal(err)
	}

	env := table.Environment()
	if env.Source != "cpool.out" || len(env.Labels) != 4 {
		t.Fatalf("environment = %+v", env)
	}

	prog, err := query.Compile("Year==2000 && #0>1", env)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	kept, err := query.ApplyFilter(context.Background(), prog, table.Rows(), query.FilterOptions{})
	if err != nil {
		t.Fatalf("ApplyFilter() error = %v", err)
	}

	recs := table.Select(kept)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Line != 5 || recs[1].Line != 8 {
		t.Errorf("lines = %d, %d; want 5, 8", recs[0].Line, recs[1].Line)
	}
}

func TestTable_HeaderLine(t *testing.T) {
	table := &Table{Labels: []string{"a", "b"}}
	if got := table.HeaderLine(); got != "a b" {
		t.Errorf("HeaderLine() = %q", got)
	}
	table.Header = "  a   b"
	if got := table.HeaderLine(); got != "  a   b" {
		t.Errorf("HeaderLine() = %q", got)
	}
}
