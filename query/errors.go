package query

import (
	"errors"
	"fmt"
	"strings"
)

// Syntax errors reported by Tokenize and Parse.
var (
	ErrMalformedNumber  = errors.New("malformed number")
	ErrUnexpectedChar   = errors.New("unexpected character")
	ErrUnbalancedParens = errors.New("unbalanced parenthesis")
	ErrEmptyExpression  = errors.New("empty expression")
	ErrMissingOperand   = errors.New("missing operand")
	ErrUnexpectedToken  = errors.New("unexpected token")
)

// Resolution errors reported by Resolve.
var (
	ErrUnknownColumn    = errors.New("item not found")
	ErrColumnOutOfRange = errors.New("column number out of range")
	ErrBadColumnRef     = errors.New("not a valid column number")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrArity            = errors.New("wrong number of arguments")
	ErrBadNumber        = errors.New("cannot interpret as a number")
)

// Evaluation errors. The stack errors indicate a malformed program and
// cannot happen for programs built by Resolve.
var (
	ErrStackUnderflow = errors.New("evaluation stack underflow")
	ErrStackImbalance = errors.New("evaluation left a malformed stack")
	ErrShortRow       = errors.New("row has fewer values than referenced column")
)

// SyntaxError is a lexing or parsing failure at a byte offset of Expr.
type SyntaxError struct {
	Expr string
	Pos  int
	Err  error
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("syntax error at position %d: %v: %s", e.Pos, e.Err, e.Msg)
	}
	return fmt.Sprintf("syntax error at position %d: %v", e.Pos, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Caret renders the expression with a caret under the offending character.
func (e *SyntaxError) Caret() string {
	pos := e.Pos
	if pos > len(e.Expr) {
		pos = len(e.Expr)
	}
	if pos < 0 {
		pos = 0
	}
	return " " + e.Expr + "\n " + strings.Repeat(" ", pos) + "^ at this point"
}

// ResolveError is a failure to bind an identifier, number or function name
// against the header of Source.
type ResolveError struct {
	Source string
	Name   string
	Err    error
	Msg    string
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s", e.Err, e.Name)
	if e.Source != "" {
		fmt.Fprintf(&b, " in %s", e.Source)
	}
	if e.Msg != "" {
		b.WriteString(" (")
		b.WriteString(e.Msg)
		b.WriteString(")")
	}
	return b.String()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// EvalError is a failure while executing a program against a row.
type EvalError struct {
	Ordinal int
	Err     error
	Msg     string
}

func (e *EvalError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("record %d: %v: %s", e.Ordinal, e.Err, e.Msg)
	}
	return fmt.Sprintf("record %d: %v", e.Ordinal, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
