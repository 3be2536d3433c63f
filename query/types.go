package query

import "fmt"

// TokenKind represents the type of a token
type TokenKind int

const (
	// Operands
	TokenNumber TokenKind = iota
	TokenIdentifier
	TokenFunction

	// Grouping
	TokenOpenParen
	TokenCloseParen
	TokenComma

	// Unary operators
	TokenUnaryMinus
	TokenUnaryPlus
	TokenNot

	// Binary operators
	TokenAdd
	TokenSub
	TokenMul
	TokenDiv
	TokenMod
	TokenPow
	TokenGreater
	TokenLess
	TokenGreaterEqual
	TokenLessEqual
	TokenEqual
	TokenNotEqual
	TokenAnd
	TokenOr

	// Special
	TokenEOF
)

var kindNames = [...]string{
	TokenNumber:       "number",
	TokenIdentifier:   "identifier",
	TokenFunction:     "function",
	TokenOpenParen:    "(",
	TokenCloseParen:   ")",
	TokenComma:        ",",
	TokenUnaryMinus:   "neg",
	TokenUnaryPlus:    "pos",
	TokenNot:          "!",
	TokenAdd:          "+",
	TokenSub:          "-",
	TokenMul:          "*",
	TokenDiv:          "/",
	TokenMod:          "%",
	TokenPow:          "^",
	TokenGreater:      ">",
	TokenLess:         "<",
	TokenGreaterEqual: ">=",
	TokenLessEqual:    "<=",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenAnd:          "&&",
	TokenOr:           "||",
	TokenEOF:          "end of expression",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsUnary reports whether k is a prefix operator.
func (k TokenKind) IsUnary() bool {
	return k == TokenUnaryMinus || k == TokenUnaryPlus || k == TokenNot
}

// RecordNumber is the column binding of #0, the 1-based ordinal of the row.
const RecordNumber = -1

// Token is a lexical token. Resolution fills in Value, Column or Func;
// the Kind assigned by the lexer never changes.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    int // byte offset in the expression

	Value  float64 // TokenNumber
	Column int     // TokenIdentifier: column index or RecordNumber
	Func   Builtin // TokenFunction
	Argc   int     // TokenFunction: number of arguments seen by the parser
}

func (t Token) String() string {
	switch t.Kind {
	case TokenNumber, TokenIdentifier:
		return t.Lexeme
	case TokenFunction:
		return t.Lexeme + "()"
	default:
		return t.Kind.String()
	}
}

// Row is one record presented to the evaluator.
type Row struct {
	Values  []float64
	Ordinal int // 1-based position of the record in its stream
}

// Environment maps column labels to indices during resolution.
type Environment struct {
	Labels []string
	Source string // file name used in error messages
}

// Warning records an identifier that only matched a label case-insensitively.
type Warning struct {
	Name   string
	Chosen string
	Column int
}

func (w Warning) String() string {
	return fmt.Sprintf("item %s not found, choosing %s instead", w.Name, w.Chosen)
}
