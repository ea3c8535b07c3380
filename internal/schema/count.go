package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// CountMode selects how the unit size is applied to the referenced field.
type CountMode int

const (
	Mul CountMode = iota
	Div
)

// CountExpression is a byte or element count derived from a field parsed
// earlier in the same struct.
//
// The referenced field must already be bound where the expression is used;
// this is not checked.
type CountExpression struct {
	name     string
	unitSize int
	mode     CountMode
	exprGen  func(name string) string
}

// CountOption configures a CountExpression.
type CountOption func(*CountExpression)

// WithUnitSize sets the unit the referenced value is scaled by.
func WithUnitSize(n int) CountOption {
	return func(c *CountExpression) { c.unitSize = n }
}

// WithMode selects multiplication or division by the unit size.
func WithMode(m CountMode) CountOption {
	return func(c *CountExpression) { c.mode = m }
}

// WithGenerator replaces unit arithmetic with a custom expression built from
// the referenced name.
func WithGenerator(fn func(name string) string) CountOption {
	return func(c *CountExpression) { c.exprGen = fn }
}

// NewCountExpression returns an expression over the named field.
func NewCountExpression(name string, opts ...CountOption) (*CountExpression, error) {
	c := &CountExpression{name: name, unitSize: 1, mode: Mul}
	for _, opt := range opts {
		opt(c)
	}
	if c.unitSize <= 0 {
		return nil, fmt.Errorf("%w: unit size %d for %q", ErrInvalidCount, c.unitSize, name)
	}
	return c, nil
}

// Count is NewCountExpression for static schema definitions. It panics on error.
func Count(name string, opts ...CountOption) *CountExpression {
	c, err := NewCountExpression(name, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the referenced field name.
func (c *CountExpression) Name() string { return c.name }

// Expression renders the count as target source text.
func (c *CountExpression) Expression() string {
	if c.exprGen != nil {
		return c.exprGen(c.name)
	}
	if c.unitSize == 1 {
		return c.name
	}
	unit := strconv.Itoa(c.unitSize)
	if c.mode == Div {
		return "(" + c.name + " as usize / " + unit + " as usize)"
	}
	return c.name + " * " + unit
}

// usize renders the expression cast to usize.
func (c *CountExpression) usize() string {
	return asUsize(c.Expression())
}

func asUsize(expr string) string {
	if strings.HasSuffix(expr, " as usize)") || strings.HasSuffix(expr, "usize") {
		return expr
	}
	if strings.ContainsAny(expr, " +-*/") {
		return "(" + expr + ") as usize"
	}
	return expr + " as usize"
}
