package query

import (
	"fmt"
	"math"
	"strings"
)

// Builtin identifies one of the fixed set of functions callable from an
// expression.
type Builtin int

const (
	FuncLog10 Builtin = iota
	FuncLn
	FuncExp
	FuncSin
	FuncCos
	FuncTan
	FuncAsin
	FuncAcos
	FuncAtan
	FuncAbs
	FuncFloor
	FuncRound
	FuncSqrt
	FuncPow
)

var builtinNames = [...]string{
	FuncLog10: "log10",
	FuncLn:    "ln",
	FuncExp:   "exp",
	FuncSin:   "sin",
	FuncCos:   "cos",
	FuncTan:   "tan",
	FuncAsin:  "asin",
	FuncAcos:  "acos",
	FuncAtan:  "atan",
	FuncAbs:   "abs",
	FuncFloor: "floor",
	FuncRound: "round",
	FuncSqrt:  "sqrt",
	FuncPow:   "pow",
}

// builtins maps lower-case function names, aliases included, to builtins.
var builtins = map[string]Builtin{
	"log10": FuncLog10,
	"ln":    FuncLn,
	"log":   FuncLn,
	"exp":   FuncExp,
	"sin":   FuncSin,
	"cos":   FuncCos,
	"tan":   FuncTan,
	"asin":  FuncAsin,
	"acos":  FuncAcos,
	"atan":  FuncAtan,
	"abs":   FuncAbs,
	"fabs":  FuncAbs,
	"int":   FuncFloor,
	"floor": FuncFloor,
	"round": FuncRound,
	"sqrt":  FuncSqrt,
	"pow":   FuncPow,
}

// LookupBuiltin finds a builtin by name, ignoring case.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtins[strings.ToLower(name)]
	return b, ok
}

func (b Builtin) String() string {
	if b >= 0 && int(b) < len(builtinNames) {
		return builtinNames[b]
	}
	return fmt.Sprintf("Builtin(%d)", int(b))
}

// Arity returns the number of arguments b takes.
func (b Builtin) Arity() int {
	if b == FuncPow {
		return 2
	}
	return 1
}

// apply1 evaluates a single-argument builtin.
func (b Builtin) apply1(x float64) (float64, bool) {
	switch b {
	case FuncLog10:
		return math.Log10(x), true
	case FuncLn:
		return math.Log(x), true
	case FuncExp:
		return math.Exp(x), true
	case FuncSin:
		return math.Sin(x), true
	case FuncCos:
		return math.Cos(x), true
	case FuncTan:
		return math.Tan(x), true
	case FuncAsin:
		return math.Asin(x), true
	case FuncAcos:
		return math.Acos(x), true
	case FuncAtan:
		return math.Atan(x), true
	case FuncAbs:
		return math.Abs(x), true
	case FuncFloor:
		return math.Floor(x), true
	case FuncRound:
		// round half up, not math.Round's half away from zero
		return math.Floor(x + 0.5), true
	case FuncSqrt:
		return math.Sqrt(x), true
	}
	return 0, false
}

// power computes x^y, multiplying out squares and cubes.
func power(x, y float64) float64 {
	switch y {
	case 2:
		return x * x
	case 3:
		return x * x * x
	}
	return math.Pow(x, y)
}
