package schema

import "firestige.xyz/nomgen/internal/naming"

// Node is a composite definition that gets its own type and parser: a
// Struct, StructEnum or IfStructEnum.
type Node interface {
	Name() string
	// IsRef reports whether the generated type carries a lifetime.
	IsRef() bool
	// Params are the values the generated parser takes besides the input.
	Params() []Param

	node()
}

// StructField embeds a struct parsed by its own generated function.
type StructField struct {
	name string
	s    *Struct
}

// Embed returns a field holding s. Extra inputs of s are passed from
// bindings of the same name in the enclosing parser.
func Embed(name string, s *Struct) *StructField { return &StructField{name: name, s: s} }

// Struct returns the embedded struct.
func (f *StructField) Struct() *Struct { return f.s }

func (f *StructField) Name() string                      { return f.name }
func (f *StructField) IsRef() bool                       { return f.s.IsRef() }
func (f *StructField) IsUserDefined() bool               { return true }
func (f *StructField) GenerateFunction() *Implementation { return nil }
func (f *StructField) field()                            {}

func (f *StructField) TypeName(lifetime bool) string {
	return withLifetime(f.s.Name(), f.s.IsRef(), lifetime)
}

func (f *StructField) ParserInvocation() string {
	return invocationWith(naming.ParserName(f.s.Name()), Arguments(f.s.Params()))
}

func (f *StructField) ParserImplementation() *Implementation { return NodeImplementation(f.s) }

func (f *StructField) GenerateParseStatement() string {
	return bindStatement(f.name, callWith(naming.ParserName(f.s.Name()), Arguments(f.s.Params())))
}

// EnumField embeds a StructEnum or IfStructEnum. The enum's dispatch value
// and extra inputs are passed from bindings of the same name.
type EnumField struct {
	name string
	e    Node
}

// EmbedEnum returns a field holding e, which must be a *StructEnum or
// *IfStructEnum.
func EmbedEnum(name string, e Node) *EnumField { return &EnumField{name: name, e: e} }

// Enum returns the embedded enum.
func (f *EnumField) Enum() Node { return f.e }

func (f *EnumField) Name() string                      { return f.name }
func (f *EnumField) IsRef() bool                       { return f.e.IsRef() }
func (f *EnumField) IsUserDefined() bool               { return true }
func (f *EnumField) GenerateFunction() *Implementation { return nil }
func (f *EnumField) field()                            {}

func (f *EnumField) TypeName(lifetime bool) string {
	return withLifetime(f.e.Name(), f.e.IsRef(), lifetime)
}

func (f *EnumField) ParserInvocation() string {
	return invocationWith(naming.ParserName(f.e.Name()), Arguments(f.e.Params()))
}

func (f *EnumField) ParserImplementation() *Implementation { return NodeImplementation(f.e) }

func (f *EnumField) GenerateParseStatement() string {
	return bindStatement(f.name, callWith(naming.ParserName(f.e.Name()), Arguments(f.e.Params())))
}

// call renders a direct call of a field's parser on the input.
func call(f Field) string {
	switch f := f.(type) {
	case *StructField:
		return callWith(naming.ParserName(f.s.Name()), Arguments(f.s.Params()))
	case *EnumField:
		return callWith(naming.ParserName(f.e.Name()), Arguments(f.e.Params()))
	}
	return apply(f.ParserInvocation())
}
