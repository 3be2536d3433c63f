package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Program is a resolved postfix instruction list, ready to be evaluated
// against rows. A Program is immutable and safe for concurrent use.
type Program struct {
	Source   string
	Warnings []Warning

	instrs   []Token
	maxStack int
	width    int // number of row values the program reads
}

// Instructions returns a copy of the resolved postfix instruction list.
func (p *Program) Instructions() []Token {
	out := make([]Token, len(p.instrs))
	copy(out, p.instrs)
	return out
}

// MaxStack returns the evaluation stack depth the program needs.
func (p *Program) MaxStack() int {
	return p.maxStack
}

// String renders the instruction list in postfix order.
func (p *Program) String() string {
	return postfixString(p.instrs)
}

// Compile parses expr and resolves it against env.
func Compile(expr string, env Environment) (*Program, error) {
	e, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	return e.Resolve(env)
}

// Resolve binds the identifiers, numerals and function names of a postfix
// token list against env, using the default limits.
func Resolve(postfix []Token, env Environment) (*Program, error) {
	return resolve(postfix, env, DefaultLimits(), "")
}

// Resolve binds the expression against the header described by env.
func (e *Expression) Resolve(env Environment) (*Program, error) {
	return resolve(e.Postfix, env, e.limits, e.Source)
}

func resolve(postfix []Token, env Environment, limits Limits, source string) (*Program, error) {
	limits = limits.withDefaults()

	prog := &Program{
		Source: source,
		instrs: make([]Token, len(postfix)),
	}
	copy(prog.instrs, postfix)

	depth := 0
	for i := range prog.instrs {
		tok := &prog.instrs[i]

		need, produce := 0, 1
		switch {
		case tok.Kind == TokenNumber:
			v, err := parseNumeral(tok.Lexeme)
			if err != nil {
				return nil, &ResolveError{Source: env.Source, Name: tok.Lexeme, Err: ErrBadNumber}
			}
			tok.Value = v

		case tok.Kind == TokenIdentifier:
			col, warn, err := lookupColumn(tok.Lexeme, env)
			if err != nil {
				return nil, err
			}
			if warn != nil {
				prog.Warnings = append(prog.Warnings, *warn)
			}
			tok.Column = col
			if col+1 > prog.width {
				prog.width = col + 1
			}

		case tok.Kind == TokenFunction:
			b, ok := LookupBuiltin(tok.Lexeme)
			if !ok {
				return nil, &ResolveError{Source: env.Source, Name: tok.Lexeme, Err: ErrUnknownFunction}
			}
			if tok.Argc != b.Arity() {
				return nil, &ResolveError{
					Source: env.Source,
					Name:   tok.Lexeme,
					Err:    ErrArity,
					Msg:    fmt.Sprintf("takes %d, got %d", b.Arity(), tok.Argc),
				}
			}
			tok.Func = b
			need = tok.Argc

		case tok.Kind.IsUnary():
			need = 1

		case binaryPrecedence(tok.Kind) > 0:
			need = 2

		default:
			return nil, &ResolveError{Source: env.Source, Name: tok.Kind.String(), Err: ErrUnexpectedToken}
		}

		if depth < need {
			return nil, &ResolveError{Source: env.Source, Name: tok.String(), Err: ErrStackUnderflow}
		}
		depth += produce - need
		if depth > prog.maxStack {
			prog.maxStack = depth
		}
	}

	if depth != 1 {
		return nil, &ResolveError{
			Source: env.Source,
			Name:   postfixString(postfix),
			Err:    ErrStackImbalance,
			Msg:    fmt.Sprintf("%d values left", depth),
		}
	}
	if prog.maxStack > limits.MaxStack {
		return nil, &ResolveError{
			Source: env.Source,
			Name:   source,
			Err:    ErrStackLimit,
			Msg:    fmt.Sprintf("%d (max %d)", prog.maxStack, limits.MaxStack),
		}
	}

	return prog, nil
}

// lookupColumn binds an identifier to a column index. "#N" refers to the
// N-th column (1-based) and "#0" to the record number; anything else is a
// header label, matched exactly first and then ignoring case.
// parseNumeral parses a numeric literal. Literals beyond the float64 range
// become ±Inf or zero, as in C.
func parseNumeral(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}

func lookupColumn(name string, env Environment) (int, *Warning, error) {
	if strings.HasPrefix(name, "#") {
		digits := name[1:]
		if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			return 0, nil, &ResolveError{Source: env.Source, Name: name, Err: ErrBadColumnRef}
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n > len(env.Labels) {
			return 0, nil, &ResolveError{
				Source: env.Source,
				Name:   name,
				Err:    ErrColumnOutOfRange,
				Msg:    fmt.Sprintf("only %d items", len(env.Labels)),
			}
		}
		if n == 0 {
			return RecordNumber, nil, nil
		}
		return n - 1, nil, nil
	}

	for i, label := range env.Labels {
		if label == name {
			return i, nil, nil
		}
	}
	for i, label := range env.Labels {
		if strings.EqualFold(label, name) {
			return i, &Warning{Name: name, Chosen: label, Column: i}, nil
		}
	}

	return 0, nil, &ResolveError{Source: env.Source, Name: name, Err: ErrUnknownColumn}
}
