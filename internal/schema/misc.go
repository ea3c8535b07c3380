package schema

import (
	"fmt"
	"strings"
)

// Option is present only when a condition over earlier fields holds.
type Option struct {
	name  string
	inner Field
	cond  string
}

// NewOption returns a field parsed with inner when cond is true.
func NewOption(name string, inner Field, cond string) *Option {
	return &Option{name: name, inner: inner, cond: cond}
}

// Inner returns the conditionally parsed field.
func (o *Option) Inner() Field { return o.inner }

// Condition returns the presence test.
func (o *Option) Condition() string { return o.cond }

func (o *Option) Name() string                          { return o.name }
func (o *Option) IsRef() bool                           { return o.inner.IsRef() }
func (o *Option) IsUserDefined() bool                   { return o.inner.IsUserDefined() }
func (o *Option) ParserImplementation() *Implementation { return o.inner.ParserImplementation() }
func (o *Option) GenerateFunction() *Implementation     { return o.inner.GenerateFunction() }
func (o *Option) field()                                {}

func (o *Option) TypeName(lifetime bool) string {
	return "Option<" + o.inner.TypeName(lifetime) + ">"
}

func (o *Option) ParserInvocation() string {
	return "cond(" + o.cond + ", " + o.inner.ParserInvocation() + ")"
}

func (o *Option) GenerateParseStatement() string {
	return bindStatement(o.name, apply(o.ParserInvocation()))
}

// Peek reads a value without consuming input.
type Peek struct {
	name  string
	inner Field
}

// NewPeek returns a lookahead over inner.
func NewPeek(name string, inner Field) *Peek { return &Peek{name: name, inner: inner} }

func (p *Peek) Name() string                          { return p.name }
func (p *Peek) IsRef() bool                           { return p.inner.IsRef() }
func (p *Peek) IsUserDefined() bool                   { return p.inner.IsUserDefined() }
func (p *Peek) ParserImplementation() *Implementation { return p.inner.ParserImplementation() }
func (p *Peek) GenerateFunction() *Implementation     { return p.inner.GenerateFunction() }
func (p *Peek) field()                                {}

func (p *Peek) TypeName(lifetime bool) string { return p.inner.TypeName(lifetime) }

func (p *Peek) ParserInvocation() string { return "peek(" + p.inner.ParserInvocation() + ")" }

func (p *Peek) GenerateParseStatement() string {
	return bindStatement(p.name, apply(p.ParserInvocation()))
}

// Skip discards a number of bytes.
type Skip struct {
	n     int
	count *CountExpression
}

// SkipBytes discards n bytes.
func SkipBytes(n int) *Skip { return &Skip{n: n} }

// SkipCounted discards a computed number of bytes.
func SkipCounted(count *CountExpression) *Skip { return &Skip{count: count} }

func (s *Skip) Name() string                          { return "" }
func (s *Skip) IsRef() bool                           { return true }
func (s *Skip) IsUserDefined() bool                   { return false }
func (s *Skip) ParserImplementation() *Implementation { return nil }
func (s *Skip) GenerateFunction() *Implementation     { return nil }
func (s *Skip) field()                                {}

func (s *Skip) TypeName(lifetime bool) string { return sliceType(lifetime) }

func (s *Skip) ParserInvocation() string {
	if s.count != nil {
		return "take(" + s.count.Expression() + ")"
	}
	return fmt.Sprintf("take(%dusize)", s.n)
}

func (s *Skip) GenerateParseStatement() string {
	return bindStatement("", apply(s.ParserInvocation()))
}

// Assert fails the parse unless a condition over earlier fields holds.
type Assert struct {
	cond string
}

// NewAssert returns a guard on cond.
func NewAssert(cond string) *Assert { return &Assert{cond: cond} }

func (a *Assert) Name() string                          { return "" }
func (a *Assert) IsRef() bool                           { return false }
func (a *Assert) IsUserDefined() bool                   { return false }
func (a *Assert) TypeName(bool) string                  { return "()" }
func (a *Assert) ParserInvocation() string              { return "success(())" }
func (a *Assert) ParserImplementation() *Implementation { return nil }
func (a *Assert) GenerateFunction() *Implementation     { return nil }
func (a *Assert) field()                                {}

func (a *Assert) GenerateParseStatement() string {
	return "if !(" + a.cond + ") {\n    return " + VerifyError + ";\n}"
}

// Code is an escape hatch for hand-written parsing.
type Code struct {
	Binding     string
	Type        string
	Ref         bool
	Invocation  string
	Statement   string
	UserDefined bool
	// Function is the name of the function Implementation defines.
	Function       string
	Implementation string
}

// Computed binds a value derived from earlier bindings without consuming
// input.
func Computed(name, typ, expr string) *Code {
	return &Code{
		Binding:    name,
		Type:       typ,
		Invocation: "success(" + expr + ")",
		Statement:  "let " + bindingName(name) + ": " + typ + " = " + expr + ";",
	}
}

func (c *Code) Name() string        { return c.Binding }
func (c *Code) IsRef() bool         { return c.Ref }
func (c *Code) IsUserDefined() bool { return c.UserDefined }
func (c *Code) field()              {}

func (c *Code) TypeName(lifetime bool) string {
	if lifetime || !c.Ref {
		return c.Type
	}
	return strings.ReplaceAll(strings.ReplaceAll(c.Type, "<"+Lifetime+">", ""), Lifetime+" ", "")
}

func (c *Code) ParserInvocation() string { return c.Invocation }

func (c *Code) ParserImplementation() *Implementation {
	if !c.UserDefined || c.Implementation == "" {
		return nil
	}
	return &Implementation{Name: c.Function, Code: c.Implementation}
}

func (c *Code) GenerateFunction() *Implementation { return nil }

func (c *Code) GenerateParseStatement() string {
	if c.Statement != "" {
		return c.Statement
	}
	return bindStatement(c.Binding, apply(c.Invocation))
}

// Discarded parses inner but does not store it.
type Discarded struct {
	inner Field
}

// Discard wraps f so that it is bound under an underscore name.
func Discard(f Field) *Discarded { return &Discarded{inner: f} }

// Inner returns the wrapped field.
func (d *Discarded) Inner() Field { return d.inner }

func (d *Discarded) IsRef() bool                           { return d.inner.IsRef() }
func (d *Discarded) IsUserDefined() bool                   { return d.inner.IsUserDefined() }
func (d *Discarded) ParserInvocation() string              { return d.inner.ParserInvocation() }
func (d *Discarded) ParserImplementation() *Implementation { return d.inner.ParserImplementation() }
func (d *Discarded) GenerateFunction() *Implementation     { return d.inner.GenerateFunction() }
func (d *Discarded) field()                                {}

func (d *Discarded) Name() string {
	if IsStored(d.inner.Name()) {
		return "_" + d.inner.Name()
	}
	return d.inner.Name()
}

func (d *Discarded) TypeName(lifetime bool) string { return d.inner.TypeName(lifetime) }

func (d *Discarded) GenerateParseStatement() string {
	switch d.inner.(type) {
	case *BitGroup, *Assert, *Skip, *Code:
		return d.inner.GenerateParseStatement()
	}
	if d.inner.Name() == "" {
		return d.inner.GenerateParseStatement()
	}
	return bindStatement(d.Name(), call(d.inner))
}
