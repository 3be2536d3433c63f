package query

import (
	"errors"
	"math"
	"testing"
)

// lpjRow is the third record of a cpool.out style file.
var lpjRow = Row{Values: []float64{10.5, 55.0, 2000, 3.2}, Ordinal: 3}

func evalString(t *testing.T, input string, row Row) float64 {
	t.Helper()
	prog, err := Compile(input, lpjHeader)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", input, err)
	}
	v, err := prog.Eval(row)
	if err != nil {
		t.Fatalf("Eval(%q) error = %v", input, err)
	}
	return v
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		// precedence
		{"precedence", "2+3*4", 14},
		{"parentheses", "(2+3)*4", 20},
		{"unary minus before power", "-2^2", 4},
		{"power left associative", "2^3^2", 64},
		{"division", "10/4", 2.5},
		{"subtraction left associative", "10-4-3", 3},
		{"modulo", "7.5%2", 1.5},
		{"negative modulo", "-7%3", -1},
		{"modulo at additive level", "2+7%3", 0},
		{"unary plus", "+3", 3},
		{"double negation", "- -3", 3},
		{"exponent literal", "1.5e2", 150},

		// relational and boolean
		{"and", "5>3 && 2<1", 0},
		{"or", "5>3 || 2<1", 1},
		{"not zero", "!0", 1},
		{"not nonzero", "!5", 0},
		{"equal", "1==1", 1},
		{"single equals", "1=2", 0},
		{"not equal", "1!=2", 1},
		{"greater equal", "2>=2", 1},
		{"less equal", "2<=1", 0},
		{"truthy operands", "2 && -1", 1},

		// columns
		{"label", "Total>3", 1},
		{"ordinal", "#4>3", 1},
		{"record number", "#0", 3},
		{"column arithmetic", "Year-2000+Lon*2", 21},
		{"ordinal sum", "#1+#2", 65.5},
		{"latitude band", "Lat>=55.5 && Lat<=72", 0},

		// functions
		{"sqrt", "sqrt(16)", 4},
		{"round half up", "round(2.5)", 3},
		{"round negative half", "round(-2.5)", -2},
		{"abs", "abs(-4)", 4},
		{"fabs", "fabs(-4)", 4},
		{"int", "int(2.7)", 2},
		{"floor negative", "floor(-2.5)", -3},
		{"pow function", "pow(2,10)", 1024},
		{"pow operator", "2^10", 1024},
		{"square", "3^2", 9},
		{"log10", "log10(1000)", 3},
		{"exp", "exp(0)", 1},
		{"ln", "ln(1)", 0},
		{"log of exp", "log(exp(2))", 2},
		{"sin", "sin(0)", 0},
		{"cos", "cos(0)", 1},
		{"tan", "tan(0)", 0},
		{"asin", "asin(1)", math.Pi / 2},
		{"acos", "acos(1)", 0},
		{"atan", "atan(1)", math.Pi / 4},
		{"nested", "sqrt(pow(3,2)+pow(4,2))", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalString(t, tt.input, lpjRow)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("%s = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEvaluate_PowerSpecialCases(t *testing.T) {
	if got, want := evalString(t, "1.1^3", lpjRow), 1.1*1.1*1.1; got != want {
		t.Errorf("1.1^3 = %v, want %v", got, want)
	}
	if got, want := evalString(t, "Lon^2", lpjRow), 10.5*10.5; got != want {
		t.Errorf("Lon^2 = %v, want %v", got, want)
	}
	if got, want := evalString(t, "2^0.5", lpjRow), math.Sqrt2; math.Abs(got-want) > 1e-15 {
		t.Errorf("2^0.5 = %v, want %v", got, want)
	}
}

func TestEvaluate_FloatingPointAnomalies(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(float64) bool
	}{
		{"division by zero", "1/0", func(v float64) bool { return math.IsInf(v, 1) }},
		{"negative division by zero", "-1/0", func(v float64) bool { return math.IsInf(v, -1) }},
		{"sqrt of negative", "sqrt(-1)", math.IsNaN},
		{"asin out of domain", "asin(2)", math.IsNaN},
		{"log of zero", "ln(0)", func(v float64) bool { return math.IsInf(v, -1) }},
		{"modulo by zero", "5%0", math.IsNaN},
		{"NaN comparison is false", "sqrt(-1)>0", func(v float64) bool { return v == 0 }},
		{"NaN is truthy", "!sqrt(-1)", func(v float64) bool { return v == 0 }},
		{"NaN differs from itself", "0/0 != 0/0", func(v float64) bool { return v == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalString(t, tt.input, lpjRow); !tt.check(got) {
				t.Errorf("%s = %v", tt.input, got)
			}
		})
	}
}

func TestEvaluate_RecordNumberPerRow(t *testing.T) {
	prog, err := Compile("#0%2==1", lpjHeader)
	if err != nil {
		t.Fatal(err)
	}

	m := prog.NewMachine()
	for ordinal := 1; ordinal <= 5; ordinal++ {
		ok, err := m.Match(Row{Values: lpjRow.Values, Ordinal: ordinal})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		if want := ordinal%2 == 1; ok != want {
			t.Errorf("record %d: got %v, want %v", ordinal, ok, want)
		}
	}
}

func TestEvaluate_ShortRow(t *testing.T) {
	prog, err := Compile("#4>1", lpjHeader)
	if err != nil {
		t.Fatal(err)
	}

	_, err = prog.Eval(Row{Values: []float64{1, 2}, Ordinal: 7})
	if !errors.Is(err, ErrShortRow) {
		t.Fatalf("expected ErrShortRow, got %v", err)
	}
	var ee *EvalError
	if !errors.As(err, &ee) || ee.Ordinal != 7 {
		t.Errorf("expected *EvalError for record 7, got %v", err)
	}
}

func TestEvaluate_RecordNumberNeedsNoColumns(t *testing.T) {
	prog, err := Compile("#0>1", Environment{})
	if err != nil {
		t.Fatal(err)
	}
	ok, err := prog.Match(Row{Ordinal: 2})
	if err != nil || !ok {
		t.Errorf("Match() = %v, %v; want true, nil", ok, err)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	const input = "Total>3 && (Lat-50)*2 < sqrt(Year) || #0==3"

	a, err := Compile(input, lpjHeader)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(input, lpjHeader)
	if err != nil {
		t.Fatal(err)
	}

	if a.String() != b.String() {
		t.Errorf("programs differ: %q vs %q", a, b)
	}
	va, err := a.Eval(lpjRow)
	if err != nil {
		t.Fatal(err)
	}
	vb, err := b.Eval(lpjRow)
	if err != nil {
		t.Fatal(err)
	}
	if va != vb {
		t.Errorf("results differ: %v vs %v", va, vb)
	}
}

func TestMachine_Reuse(t *testing.T) {
	prog, err := Compile("Total*2", lpjHeader)
	if err != nil {
		t.Fatal(err)
	}
	m := prog.NewMachine()

	for i := 0; i < 3; i++ {
		row := Row{Values: []float64{0, 0, 0, float64(i)}, Ordinal: i + 1}
		v, err := m.Eval(row)
		if err != nil {
			t.Fatal(err)
		}
		if v != float64(2*i) {
			t.Errorf("row %d: got %v, want %v", i, v, 2*i)
		}
	}
}

func TestTruth(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{0, false},
		{1, true},
		{-0.5, true},
		{math.NaN(), true},
		{math.Inf(-1), true},
	}
	for _, tt := range tests {
		if got := Truth(tt.v); got != tt.want {
			t.Errorf("Truth(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
