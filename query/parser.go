package query

import (
	"errors"
	"fmt"
	"strings"
)

const unaryPrecedence = 7

// binaryPrecedence returns the binding power of a binary operator, or 0 if
// k is not one.
func binaryPrecedence(k TokenKind) int {
	switch k {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenGreater, TokenLess, TokenGreaterEqual, TokenLessEqual, TokenEqual, TokenNotEqual:
		return 3
	case TokenAdd, TokenSub, TokenMod:
		return 4
	case TokenMul, TokenDiv:
		return 5
	case TokenPow:
		return 6
	}
	return 0
}

// Parser converts an infix token sequence into postfix order.
type Parser struct {
	tokens []Token
	pos    int
	expr   string
	out    []Token
	depth  *depthCounter
}

// NewParser creates a new parser. Syntax errors quote the expression
// rebuilt from the token lexemes at their positions.
func NewParser(tokens []Token) *Parser {
	return newParser(tokens, sourceText(tokens), DefaultLimits())
}

// sourceText lays the lexemes of tokens out at their byte offsets.
func sourceText(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Kind == TokenEOF || tok.Lexeme == "" {
			continue
		}
		if pad := tok.Pos - b.Len(); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		} else if b.Len() > 0 && pad < 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Lexeme)
		if tok.Kind == TokenFunction {
			b.WriteByte('(')
		}
	}
	return b.String()
}

func newParser(tokens []Token, expr string, limits Limits) *Parser {
	return &Parser{
		tokens: tokens,
		expr:   expr,
		out:    make([]Token, 0, len(tokens)),
		depth:  newDepthCounter(limits.MaxDepth),
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		pos := 0
		if n := len(p.tokens); n > 0 {
			pos = p.tokens[n-1].Pos
		}
		return Token{Kind: TokenEOF, Pos: pos}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) emit(tok Token) {
	p.out = append(p.out, tok)
}

func (p *Parser) errorAt(tok Token, err error, msg string) error {
	return &SyntaxError{Expr: p.expr, Pos: tok.Pos, Err: err, Msg: msg}
}

// Parse parses the token sequence and returns it in postfix order.
// Parentheses and commas do not appear in the output.
func Parse(tokens []Token) ([]Token, error) {
	return NewParser(tokens).Parse()
}

// Parse runs the parser over its whole token sequence.
func (p *Parser) Parse() ([]Token, error) {
	if p.current().Kind == TokenEOF {
		return nil, p.errorAt(p.current(), ErrEmptyExpression, "")
	}

	if err := p.parseExpr(0); err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Kind != TokenEOF {
		return nil, p.errorAt(tok, ErrUnexpectedToken, fmt.Sprintf("%q after complete expression", tok.Lexeme))
	}

	return p.out, nil
}

// parseExpr parses operands joined by binary operators binding tighter than
// floor. An operator at or below floor is left for the caller.
func (p *Parser) parseExpr(floor int) error {
	if err := p.parseOperand(); err != nil {
		return err
	}

	for {
		op := p.current()
		prec := binaryPrecedence(op.Kind)
		if prec == 0 || prec <= floor {
			return nil
		}
		p.advance()

		if err := p.parseExpr(prec); err != nil {
			return err
		}
		p.emit(op)
	}
}

// parseOperand parses a literal, identifier, parenthesized group, function
// call or a prefix operator applied to one of those.
func (p *Parser) parseOperand() error {
	tok := p.current()
	if err := p.depth.Enter(); err != nil {
		return p.errorAt(tok, err, "")
	}
	defer p.depth.Exit()

	switch tok.Kind {
	case TokenNumber, TokenIdentifier:
		p.advance()
		p.emit(tok)
		return nil

	case TokenOpenParen:
		p.advance()
		if err := p.parseExpr(0); err != nil {
			return err
		}
		return p.expectClose()

	case TokenFunction:
		p.advance()
		argc, err := p.parseArguments(tok)
		if err != nil {
			return err
		}
		tok.Argc = argc
		p.emit(tok)
		return nil

	case TokenUnaryMinus, TokenUnaryPlus, TokenNot:
		p.advance()
		if err := p.parseOperand(); err != nil {
			return err
		}
		p.emit(tok)
		return nil

	case TokenEOF:
		return p.errorAt(tok, ErrMissingOperand, "unexpected end of expression")
	}

	return p.errorAt(tok, ErrMissingOperand, fmt.Sprintf("expected operand, got %q", tok.Lexeme))
}

// parseArguments parses the comma separated arguments of a call up to and
// including the closing parenthesis.
func (p *Parser) parseArguments(fn Token) (int, error) {
	if p.current().Kind == TokenCloseParen {
		return 0, p.errorAt(p.current(), ErrMissingOperand, fmt.Sprintf("%s() needs an argument", fn.Lexeme))
	}

	argc := 0
	for {
		if err := p.parseExpr(0); err != nil {
			return 0, err
		}
		argc++

		switch tok := p.current(); tok.Kind {
		case TokenComma:
			p.advance()
		case TokenCloseParen:
			p.advance()
			return argc, nil
		case TokenEOF:
			return 0, p.errorAt(tok, ErrUnbalancedParens, fmt.Sprintf("missing ')' for %s(", fn.Lexeme))
		default:
			return 0, p.errorAt(tok, ErrUnexpectedToken, "expected ',' or ')'")
		}
	}
}

func (p *Parser) expectClose() error {
	switch tok := p.current(); tok.Kind {
	case TokenCloseParen:
		p.advance()
		return nil
	case TokenEOF:
		return p.errorAt(tok, ErrUnbalancedParens, "missing ')'")
	case TokenComma:
		return p.errorAt(tok, ErrUnexpectedToken, "',' outside a function call")
	default:
		return p.errorAt(tok, ErrUnexpectedToken, "expected ')'")
	}
}

// Expression is a parsed, header-independent filter expression. It can be
// resolved against any number of headers.
type Expression struct {
	Source  string
	Postfix []Token
	limits  Limits
}

// ParseExpression tokenizes and parses expr with the default limits.
func ParseExpression(expr string) (*Expression, error) {
	return ParseExpressionWithLimits(expr, DefaultLimits())
}

// ParseExpressionWithLimits tokenizes and parses expr. Zero fields of limits
// take their default values.
func ParseExpressionWithLimits(expr string, limits Limits) (*Expression, error) {
	limits = limits.withDefaults()

	tokens, err := tokenize(expr, limits)
	if err != nil {
		return nil, err
	}

	postfix, err := newParser(tokens, expr, limits).Parse()
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) && se.Expr == "" {
			se.Expr = expr
		}
		return nil, err
	}

	return &Expression{Source: expr, Postfix: postfix, limits: limits}, nil
}

// String renders the postfix form, one token per field.
func (e *Expression) String() string {
	return postfixString(e.Postfix)
}

func postfixString(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}
