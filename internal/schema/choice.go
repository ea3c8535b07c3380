package schema

import (
	"fmt"
	"math/bits"
	"strings"
)

type choiceKind int

const (
	literalChoice choiceKind = iota
	exprChoice
	wildcardChoice
)

// Choice is the dispatch value selecting a variant.
type Choice struct {
	kind  choiceKind
	value uint64
	expr  string
}

// Lit is a numeric dispatch literal.
func Lit(v uint64) Choice { return Choice{kind: literalChoice, value: v} }

// Expr is a verbatim pattern (match enums) or boolean test (if enums).
func Expr(s string) Choice { return Choice{kind: exprChoice, expr: s} }

// Wildcard matches anything no other variant matched.
var Wildcard = Choice{kind: wildcardChoice}

func (c Choice) IsWildcard() bool { return c.kind == wildcardChoice }
func (c Choice) IsLiteral() bool  { return c.kind == literalChoice }

// Value returns the numeric literal.
func (c Choice) Value() uint64 { return c.value }

// String renders the choice as a match pattern.
func (c Choice) String() string {
	switch c.kind {
	case wildcardChoice:
		return "_"
	case exprChoice:
		return c.expr
	default:
		return FormatHex(c.value)
	}
}

// FormatHex renders v in hexadecimal, zero padded to whole bytes:
// 1 is 0x01 and 257 is 0x0101.
func FormatHex(v uint64) string {
	n := (bits.Len64(v) + 7) / 8
	if n == 0 {
		n = 1
	}
	return fmt.Sprintf("0x%0*x", n*2, v)
}

// ChoiceStrategy supplies the dispatch value of an enum and how it is passed
// into the generated parser.
type ChoiceStrategy interface {
	// AsMatchTarget is the match scrutinee.
	AsMatchTarget() string
	// Condition is the boolean test of an if-arm for c.
	Condition(c Choice) string
	// Parameters are the values the enum parser receives for dispatch.
	Parameters() []Param
	AsEnumParserFunctionParameterSignature() string
	AsEnumParserInvocationArgument() string
	// IsInline reports whether the strategy reads its value without
	// consuming input.
	IsInline() bool
	// NoParameter reports whether the value is computed inside the enum
	// parser instead of being passed in.
	NoParameter() bool
	// Prelude is emitted at the top of the enum parser body.
	Prelude() string

	choiceStrategy()
}

type paramSet []Param

func (p paramSet) Parameters() []Param { return p }
func (p paramSet) NoParameter() bool   { return len(p) == 0 }

func (p paramSet) AsEnumParserFunctionParameterSignature() string {
	return strings.TrimPrefix(Signatures(p), ", ")
}

func (p paramSet) AsEnumParserInvocationArgument() string {
	return strings.TrimPrefix(Arguments(p), ", ")
}

func equalsCondition(target string, c Choice) string {
	if c.kind == exprChoice {
		return "matches!(" + target + ", " + c.expr + ")"
	}
	return target + " == " + c.String()
}

// BasicEnumChoice dispatches on one scalar field parsed by the caller.
type BasicEnumChoice struct {
	paramSet
	f Field
}

// NewBasicEnumChoice dispatches on f.
func NewBasicEnumChoice(f Field) *BasicEnumChoice {
	return &BasicEnumChoice{paramSet: Params(f), f: f}
}

func (c *BasicEnumChoice) AsMatchTarget() string      { return c.f.Name() }
func (c *BasicEnumChoice) Condition(ch Choice) string { return equalsCondition(c.f.Name(), ch) }
func (c *BasicEnumChoice) IsInline() bool             { return false }
func (c *BasicEnumChoice) Prelude() string            { return "" }
func (c *BasicEnumChoice) choiceStrategy()            {}

// EnumMultiChoice dispatches on a guard over several fields parsed by the
// caller. Variant choices are boolean expressions.
type EnumMultiChoice struct {
	paramSet
	fields []Field
}

// NewEnumMultiChoice dispatches on fields.
func NewEnumMultiChoice(fields ...Field) *EnumMultiChoice {
	return &EnumMultiChoice{paramSet: Params(fields...), fields: fields}
}

func (c *EnumMultiChoice) IsInline() bool  { return false }
func (c *EnumMultiChoice) Prelude() string { return "" }
func (c *EnumMultiChoice) choiceStrategy() {}

// AsMatchTarget is the tuple of all fields.
func (c *EnumMultiChoice) AsMatchTarget() string {
	if len(c.fields) == 1 {
		return c.fields[0].Name()
	}
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func (c *EnumMultiChoice) Condition(ch Choice) string {
	if ch.kind == exprChoice {
		return ch.expr
	}
	return equalsCondition(c.AsMatchTarget(), ch)
}

// StructChoice dispatches on a field of a struct parsed by the caller. The
// struct is passed by reference.
type StructChoice struct {
	paramSet
	param string
	field string
}

// NewStructChoice dispatches on s.field, received as parameter param. The
// field must exist on s.
func NewStructChoice(param string, s *Struct, field string) (*StructChoice, error) {
	if _, ok := s.Field(field); !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrMissingMatchField, field, s.Name())
	}
	return &StructChoice{paramSet: Params(Embed(param, s)), param: param, field: field}, nil
}

func (c *StructChoice) AsMatchTarget() string      { return c.param + "." + c.field }
func (c *StructChoice) Condition(ch Choice) string { return equalsCondition(c.AsMatchTarget(), ch) }
func (c *StructChoice) IsInline() bool             { return false }
func (c *StructChoice) Prelude() string            { return "" }
func (c *StructChoice) choiceStrategy()            {}

// InlineChoice peeks the dispatch value at the head of the enum's own input.
type InlineChoice struct {
	paramSet
	f Field
}

// NewInlineChoice peeks f.
func NewInlineChoice(f Field) *InlineChoice { return &InlineChoice{f: f} }

func (c *InlineChoice) AsMatchTarget() string      { return c.f.Name() }
func (c *InlineChoice) Condition(ch Choice) string { return equalsCondition(c.f.Name(), ch) }
func (c *InlineChoice) IsInline() bool             { return true }
func (c *InlineChoice) choiceStrategy()            {}

func (c *InlineChoice) Prelude() string {
	return "let (_, " + c.f.Name() + ") = peek(" + c.f.ParserInvocation() + ")(input)?;"
}

var bitOperators = map[string]bool{"&": true, "|": true, "^": true, ">>": true, "<<": true}

// ArgsBitOperatorChoice dispatches on `field OP mask`.
type ArgsBitOperatorChoice struct {
	paramSet
	f    Field
	op   string
	mask uint64
}

// NewArgsBitOperatorChoice dispatches on f combined with mask by op, one of
// & | ^ >> <<.
func NewArgsBitOperatorChoice(f Field, op string, mask uint64) (*ArgsBitOperatorChoice, error) {
	if !bitOperators[op] {
		return nil, fmt.Errorf("%w: operator %q", ErrInvalidChoice, op)
	}
	return &ArgsBitOperatorChoice{paramSet: Params(f), f: f, op: op, mask: mask}, nil
}

func (c *ArgsBitOperatorChoice) IsInline() bool  { return false }
func (c *ArgsBitOperatorChoice) Prelude() string { return "" }
func (c *ArgsBitOperatorChoice) choiceStrategy() {}

func (c *ArgsBitOperatorChoice) operand() string {
	if c.op == ">>" || c.op == "<<" {
		return fmt.Sprintf("%d", c.mask)
	}
	return FormatHex(c.mask)
}

func (c *ArgsBitOperatorChoice) AsMatchTarget() string {
	return c.f.Name() + " " + c.op + " " + c.operand()
}

func (c *ArgsBitOperatorChoice) Condition(ch Choice) string {
	return equalsCondition("("+c.AsMatchTarget()+")", ch)
}

// InputLengthChoice dispatches on the length of the remaining input.
type InputLengthChoice struct {
	paramSet
}

// NewInputLengthChoice dispatches on input.len().
func NewInputLengthChoice() *InputLengthChoice { return &InputLengthChoice{} }

func (c *InputLengthChoice) AsMatchTarget() string      { return "input.len()" }
func (c *InputLengthChoice) Condition(ch Choice) string { return equalsCondition("input.len()", ch) }
func (c *InputLengthChoice) IsInline() bool             { return true }
func (c *InputLengthChoice) Prelude() string            { return "" }
func (c *InputLengthChoice) choiceStrategy()            {}
