package schema

import (
	"fmt"
	"strings"
)

// Lifetime is the lifetime parameter carried by reference-holding types.
const Lifetime = "'a"

// VerifyError is the expression returned when a dispatch value or guard
// does not match.
const VerifyError = "Err(nom::Err::Error(nom::error::Error::new(input, nom::error::ErrorKind::Verify)))"

// Field is one member of a struct or anonymous variant.
//
// The set of implementations is closed; generators switch over them.
type Field interface {
	// Name is the binding name. Empty or underscore-prefixed names are parsed
	// but not stored.
	Name() string
	// IsRef reports whether the value borrows from the input, directly or
	// through a nested type.
	IsRef() bool
	// IsUserDefined reports whether the field needs its own emitted parser.
	IsUserDefined() bool
	// TypeName is the target type of the stored value.
	TypeName(withLifetime bool) string
	// ParserInvocation is a parser expression applicable to the input.
	ParserInvocation() string
	// ParserImplementation is the definition backing a user-defined field,
	// nil when there is none.
	ParserImplementation() *Implementation
	// GenerateParseStatement is the binding statement in a parser body.
	GenerateParseStatement() string
	// GenerateFunction is an auxiliary function the field needs, nil when
	// there is none.
	GenerateFunction() *Implementation

	field()
}

// Implementation is emitted code backing a field. Exactly one of Node and
// Code is set. Name is the deduplication key.
type Implementation struct {
	Name string
	Node Node
	Code string
}

// NodeImplementation wraps a composite node.
func NodeImplementation(n Node) *Implementation {
	return &Implementation{Name: n.Name(), Node: n}
}

// IsStored reports whether a field name appears in the type definition and
// the constructor.
func IsStored(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}

// bindingName is the pattern a field is bound to in a parse statement.
func bindingName(name string) string {
	if name == "" {
		return "_"
	}
	return name
}

// bindStatement renders the common `let (input, x) = call?;` statement.
func bindStatement(name, call string) string {
	return fmt.Sprintf("let (input, %s) = %s?;", bindingName(name), call)
}

// apply calls a parser expression on the input.
func apply(invocation string) string {
	if strings.HasPrefix(invocation, "|") {
		return "(" + invocation + ")(input)"
	}
	return invocation + "(input)"
}

// withLifetime appends the lifetime parameter to a type name when asked.
func withLifetime(typeName string, ref, want bool) string {
	if ref && want {
		return typeName + "<" + Lifetime + ">"
	}
	return typeName
}

// Param is a value threaded into a generated parser as an argument.
type Param struct {
	Field Field
}

// Name is the parameter name.
func (p Param) Name() string { return p.Field.Name() }

// ByReference reports whether the value is passed by reference. Composite
// values are; scalars are copied.
func (p Param) ByReference() bool {
	switch p.Field.(type) {
	case *StructField, *EnumField:
		return true
	}
	return false
}

// NeedsLifetime reports whether the parameter forces an explicit lifetime on
// the receiving function.
func (p Param) NeedsLifetime() bool {
	return p.ByReference() || p.Field.IsRef()
}

// Signature is the parameter declaration.
func (p Param) Signature() string {
	t := p.Field.TypeName(true)
	if p.ByReference() {
		t = "&" + t
	}
	return p.Name() + ": " + t
}

// Argument is the expression passing a bound value of the same name.
func (p Param) Argument() string {
	if p.ByReference() {
		return "&" + p.Name()
	}
	return p.Name()
}

// Params wraps fields as parameters.
func Params(fields ...Field) []Param {
	out := make([]Param, 0, len(fields))
	for _, f := range fields {
		out = append(out, Param{Field: f})
	}
	return out
}

// Signatures joins parameter declarations, each prefixed by ", ".
func Signatures(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(", ")
		b.WriteString(p.Signature())
	}
	return b.String()
}

// Arguments joins call arguments, each prefixed by ", ".
func Arguments(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(", ")
		b.WriteString(p.Argument())
	}
	return b.String()
}

// Forwards joins parameter names for passing already-received parameters on.
func Forwards(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(", ")
		b.WriteString(p.Name())
	}
	return b.String()
}

// AnyNeedsLifetime reports whether any parameter needs a lifetime.
func AnyNeedsLifetime(params []Param) bool {
	for _, p := range params {
		if p.NeedsLifetime() {
			return true
		}
	}
	return false
}

// callWith renders a call to a generated parser with the given arguments.
func callWith(fn, args string) string {
	return fn + "(input" + args + ")"
}

// invocationWith renders a parser expression for a generated parser. With
// no extra arguments the function itself is the parser.
func invocationWith(fn, args string) string {
	if args == "" {
		return fn
	}
	return "|input| " + callWith(fn, args)
}
