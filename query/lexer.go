package query

import "fmt"

// Lexer tokenizes filter expressions.
//
// Whether '-', '+' and '!' are unary or binary depends on what came before,
// so the lexer tracks whether it is waiting for an operand or an operator.
type Lexer struct {
	input          string
	pos            int // offset of ch
	ch             byte
	expectOperator bool
	depth          int
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, pos: -1}
	l.readChar()
	return l
}

// readChar advances to the next byte
func (l *Lexer) readChar() {
	if l.pos < len(l.input) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) errorAt(pos int, err error, msg string) error {
	return &SyntaxError{Expr: l.input, Pos: pos, Err: err, Msg: msg}
}

// NextToken returns the next token. At the end of the input it returns a
// TokenEOF, or an error if parentheses are left open.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.atEnd() {
		if l.depth != 0 {
			return Token{}, l.errorAt(len(l.input), ErrUnbalancedParens, fmt.Sprintf("%d left open", l.depth))
		}
		return Token{Kind: TokenEOF, Pos: len(l.input)}, nil
	}

	var (
		tok Token
		err error
	)
	if l.expectOperator {
		tok, err = l.readOperator()
	} else {
		tok, err = l.readOperand()
	}
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case TokenNumber, TokenIdentifier, TokenCloseParen:
		l.expectOperator = true
	default:
		l.expectOperator = false
	}
	return tok, nil
}

// readOperand reads a token where a number, identifier, function call,
// parenthesis or prefix operator is expected.
func (l *Lexer) readOperand() (Token, error) {
	start := l.pos
	single := func(kind TokenKind) (Token, error) {
		l.readChar()
		return Token{Kind: kind, Lexeme: l.input[start:l.pos], Pos: start}, nil
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber()
	case l.ch == '-':
		return single(TokenUnaryMinus)
	case l.ch == '+':
		return single(TokenUnaryPlus)
	case l.ch == '!':
		return single(TokenNot)
	case l.ch == '(':
		l.depth++
		return single(TokenOpenParen)
	case l.ch == ')' || isOperatorChar(l.ch):
		return Token{}, l.errorAt(start, ErrUnexpectedChar, fmt.Sprintf("expected operand, got %q", l.ch))
	}
	return l.readIdentifier()
}

// readOperator reads a binary operator, comma or closing parenthesis.
func (l *Lexer) readOperator() (Token, error) {
	start := l.pos
	c := l.ch
	l.readChar()

	var kind TokenKind
	switch c {
	case '+':
		kind = TokenAdd
	case '-':
		kind = TokenSub
	case '*':
		kind = TokenMul
	case '/':
		kind = TokenDiv
	case '%':
		kind = TokenMod
	case '^':
		kind = TokenPow
	case ',':
		kind = TokenComma
	case ')':
		l.depth--
		if l.depth < 0 {
			return Token{}, l.errorAt(start, ErrUnbalancedParens, "no matching '('")
		}
		kind = TokenCloseParen
	case '<':
		kind = TokenLess
		if l.ch == '=' {
			l.readChar()
			kind = TokenLessEqual
		}
	case '>':
		kind = TokenGreater
		if l.ch == '=' {
			l.readChar()
			kind = TokenGreaterEqual
		}
	case '=':
		kind = TokenEqual
		if l.ch == '=' {
			l.readChar()
		}
	case '!':
		if l.ch != '=' {
			return Token{}, l.errorAt(start, ErrUnexpectedChar, "expected \"!=\"")
		}
		l.readChar()
		kind = TokenNotEqual
	case '&':
		if l.ch != '&' {
			return Token{}, l.errorAt(start, ErrUnexpectedChar, "expected \"&&\"")
		}
		l.readChar()
		kind = TokenAnd
	case '|':
		if l.ch != '|' {
			return Token{}, l.errorAt(start, ErrUnexpectedChar, "expected \"||\"")
		}
		l.readChar()
		kind = TokenOr
	default:
		return Token{}, l.errorAt(start, ErrUnexpectedChar, fmt.Sprintf("expected operator, got %q", c))
	}

	return Token{Kind: kind, Lexeme: l.input[start:l.pos], Pos: start}, nil
}

// readNumber reads a decimal numeral with optional fraction and exponent.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	l.readDigits()

	if l.ch == '.' {
		l.readChar()
		if !isDigit(l.ch) {
			return Token{}, l.errorAt(l.pos, ErrMalformedNumber, "digit expected after decimal point")
		}
		l.readDigits()
	}

	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return Token{}, l.errorAt(l.pos, ErrMalformedNumber, "digit expected in exponent")
		}
		l.readDigits()
	}

	if l.ch == '.' {
		return Token{}, l.errorAt(l.pos, ErrMalformedNumber, "unexpected decimal point")
	}

	return Token{Kind: TokenNumber, Lexeme: l.input[start:l.pos], Pos: start}, nil
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) {
		l.readChar()
	}
}

// readIdentifier reads a column reference, or a function name when the
// identifier runs directly into '('.
func (l *Lexer) readIdentifier() (Token, error) {
	start := l.pos
	for !l.atEnd() && !isSpace(l.ch) && !isOperatorChar(l.ch) && l.ch != '(' && l.ch != ')' {
		l.readChar()
	}
	name := l.input[start:l.pos]

	if l.ch == '(' {
		l.readChar()
		l.depth++
		return Token{Kind: TokenFunction, Lexeme: name, Pos: start}, nil
	}
	return Token{Kind: TokenIdentifier, Lexeme: name, Pos: start}, nil
}

// Tokenize returns all tokens from the input, ending with a TokenEOF.
func Tokenize(input string) ([]Token, error) {
	return tokenize(input, DefaultLimits())
}

func tokenize(input string, limits Limits) ([]Token, error) {
	if err := ValidateExpression(input); err != nil {
		return nil, err
	}

	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
		if len(tokens) > limits.MaxTokens {
			return nil, lexer.errorAt(tok.Pos, ErrTooManyTokens, fmt.Sprintf("max %d", limits.MaxTokens))
		}
	}

	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isOperatorChar reports whether c ends an identifier.
func isOperatorChar(c byte) bool {
	switch c {
	case '*', '/', '-', '+', '&', '|', '^', '=', '<', '>', '!', '%', ',':
		return true
	}
	return false
}
