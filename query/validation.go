package query

import (
	"errors"
	"fmt"
)

// Validation constants to prevent resource exhaustion on pathological input
const (
	// MaxExpressionLength is the maximum allowed expression length (64KB)
	MaxExpressionLength = 64 * 1024

	// MaxTokens is the default maximum number of tokens in an expression
	MaxTokens = 1000

	// MaxExpressionDepth is the default maximum nesting depth for expressions
	MaxExpressionDepth = 100

	// MaxStack is the default maximum evaluation stack depth
	MaxStack = 1000
)

var (
	// ErrExpressionTooLong is returned when an expression exceeds MaxExpressionLength
	ErrExpressionTooLong = errors.New("expression too long")

	// ErrTooManyTokens is returned when an expression has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in expression")

	// ErrExpressionTooDeep is returned when expression nesting exceeds the limit
	ErrExpressionTooDeep = errors.New("expression nesting too deep")

	// ErrStackLimit is returned when a program needs more stack than allowed
	ErrStackLimit = errors.New("expression needs too much stack")
)

// Limits bounds the resources a single expression may use.
type Limits struct {
	MaxTokens int
	MaxDepth  int
	MaxStack  int
}

// DefaultLimits returns the limits used by Compile and ParseExpression.
func DefaultLimits() Limits {
	return Limits{
		MaxTokens: MaxTokens,
		MaxDepth:  MaxExpressionDepth,
		MaxStack:  MaxStack,
	}
}

// withDefaults replaces unset fields with the default limits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxTokens <= 0 {
		l.MaxTokens = d.MaxTokens
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxStack <= 0 {
		l.MaxStack = d.MaxStack
	}
	return l
}

// ValidateExpression performs length validation on expression input
func ValidateExpression(expr string) error {
	if len(expr) > MaxExpressionLength {
		return &SyntaxError{
			Expr: expr,
			Pos:  MaxExpressionLength,
			Err:  ErrExpressionTooLong,
			Msg:  fmt.Sprintf("%d bytes (max %d)", len(expr), MaxExpressionLength),
		}
	}
	return nil
}

// depthCounter tracks expression nesting depth
type depthCounter struct {
	depth    int
	maxDepth int
}

func newDepthCounter(maxDepth int) *depthCounter {
	return &depthCounter{maxDepth: maxDepth}
}

// Enter increments depth and returns an error if the limit is exceeded
func (c *depthCounter) Enter() error {
	c.depth++
	if c.depth > c.maxDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrExpressionTooDeep, c.depth, c.maxDepth)
	}
	return nil
}

// Exit decrements depth
func (c *depthCounter) Exit() {
	c.depth--
}
