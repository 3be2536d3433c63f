package query

import (
	"fmt"
	"math"
)

// Truth interprets an evaluation result as a filter decision: any nonzero
// value, NaN included, passes.
func Truth(v float64) bool {
	return v != 0
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Machine evaluates one program. It owns its stack, so a Machine must not be
// shared between goroutines; the Program may be.
type Machine struct {
	prog  *Program
	stack []float64
}

// NewMachine returns an evaluator for p with a preallocated stack.
func (p *Program) NewMachine() *Machine {
	return &Machine{
		prog:  p,
		stack: make([]float64, 0, p.maxStack),
	}
}

// Eval evaluates the program against row with a fresh stack.
func (p *Program) Eval(row Row) (float64, error) {
	return p.NewMachine().Eval(row)
}

// Match reports whether row passes the program as a filter.
func (p *Program) Match(row Row) (bool, error) {
	v, err := p.Eval(row)
	if err != nil {
		return false, err
	}
	return Truth(v), nil
}

// Match reports whether row passes the machine's program as a filter.
func (m *Machine) Match(row Row) (bool, error) {
	v, err := m.Eval(row)
	if err != nil {
		return false, err
	}
	return Truth(v), nil
}

// Eval runs the instruction list left to right over row.
func (m *Machine) Eval(row Row) (float64, error) {
	if m.prog.width > len(row.Values) {
		return 0, &EvalError{
			Ordinal: row.Ordinal,
			Err:     ErrShortRow,
			Msg:     fmt.Sprintf("have %d, need %d", len(row.Values), m.prog.width),
		}
	}

	s := m.stack[:0]
	underflow := func(tok Token) (float64, error) {
		return 0, &EvalError{Ordinal: row.Ordinal, Err: ErrStackUnderflow, Msg: tok.String()}
	}

	for _, tok := range m.prog.instrs {
		n := len(s)

		switch tok.Kind {
		case TokenNumber:
			s = append(s, tok.Value)

		case TokenIdentifier:
			if tok.Column == RecordNumber {
				s = append(s, float64(row.Ordinal))
			} else {
				s = append(s, row.Values[tok.Column])
			}

		case TokenUnaryMinus:
			if n < 1 {
				return underflow(tok)
			}
			s[n-1] = -s[n-1]

		case TokenUnaryPlus:
			if n < 1 {
				return underflow(tok)
			}

		case TokenNot:
			if n < 1 {
				return underflow(tok)
			}
			s[n-1] = boolValue(!Truth(s[n-1]))

		case TokenFunction:
			if n < tok.Argc || tok.Argc < 1 {
				return underflow(tok)
			}
			if tok.Func == FuncPow {
				s[n-2] = power(s[n-2], s[n-1])
				s = s[:n-1]
				break
			}
			v, ok := tok.Func.apply1(s[n-1])
			if !ok {
				return 0, &EvalError{Ordinal: row.Ordinal, Err: ErrUnknownFunction, Msg: tok.Func.String()}
			}
			s[n-1] = v

		default:
			if n < 2 {
				return underflow(tok)
			}
			v, ok := binary(tok.Kind, s[n-2], s[n-1])
			if !ok {
				return 0, &EvalError{Ordinal: row.Ordinal, Err: ErrUnexpectedToken, Msg: tok.Kind.String()}
			}
			s[n-2] = v
			s = s[:n-1]
		}
	}

	m.stack = s[:0]

	if len(s) != 1 {
		return 0, &EvalError{
			Ordinal: row.Ordinal,
			Err:     ErrStackImbalance,
			Msg:     fmt.Sprintf("%d values left", len(s)),
		}
	}
	return s[0], nil
}

// binary applies a binary operator. Both operands are always evaluated;
// && and || only combine their truth values.
func binary(kind TokenKind, a, b float64) (float64, bool) {
	switch kind {
	case TokenAdd:
		return a + b, true
	case TokenSub:
		return a - b, true
	case TokenMul:
		return a * b, true
	case TokenDiv:
		return a / b, true
	case TokenMod:
		return math.Mod(a, b), true
	case TokenPow:
		return power(a, b), true
	case TokenGreater:
		return boolValue(a > b), true
	case TokenLess:
		return boolValue(a < b), true
	case TokenGreaterEqual:
		return boolValue(a >= b), true
	case TokenLessEqual:
		return boolValue(a <= b), true
	case TokenEqual:
		return boolValue(a == b), true
	case TokenNotEqual:
		return boolValue(a != b), true
	case TokenAnd:
		return boolValue(Truth(a) && Truth(b)), true
	case TokenOr:
		return boolValue(Truth(a) || Truth(b)), true
	}
	return 0, false
}
