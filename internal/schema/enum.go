package schema

import "fmt"

// Enum is the behaviour shared by StructEnum and IfStructEnum.
type Enum interface {
	Node
	Choice() ChoiceStrategy
	Variants() []Variant
	UniqueVariants() []Variant
	Default() (Variant, bool)
	Arms() []Variant
	ExtraInputs() []Field
	NeedsLifetime() bool
}

type enumBase struct {
	name        string
	choice      ChoiceStrategy
	variants    []Variant
	extraInputs []Field
}

// EnumOption configures a StructEnum or IfStructEnum.
type EnumOption func(*enumBase)

// WithEnumExtraInputs declares values the caller passes to the enum parser
// and every variant parser.
func WithEnumExtraInputs(fields ...Field) EnumOption {
	return func(e *enumBase) { e.extraInputs = append(e.extraInputs, fields...) }
}

func newEnumBase(name string, choice ChoiceStrategy, variants []Variant, opts []EnumOption) enumBase {
	e := enumBase{name: name, choice: choice, variants: append([]Variant(nil), variants...)}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e *enumBase) Name() string           { return e.name }
func (e *enumBase) Choice() ChoiceStrategy { return e.choice }
func (e *enumBase) Variants() []Variant    { return e.variants }
func (e *enumBase) ExtraInputs() []Field   { return e.extraInputs }

// Params are the dispatch parameters followed by the extra inputs.
func (e *enumBase) Params() []Param {
	return append(append([]Param(nil), e.choice.Parameters()...), Params(e.extraInputs...)...)
}

// IsRef reports whether any variant payload borrows from the input.
func (e *enumBase) IsRef() bool {
	for _, v := range e.variants {
		if v.IsRef() {
			return true
		}
	}
	return false
}

// NeedsLifetime reports whether the generated parsers need an explicit
// lifetime parameter.
func (e *enumBase) NeedsLifetime() bool {
	return e.IsRef() || AnyNeedsLifetime(e.Params())
}

// UniqueVariants returns the variants deduplicated by name, in first
// occurrence order.
func (e *enumBase) UniqueVariants() []Variant {
	seen := make(map[string]bool, len(e.variants))
	out := make([]Variant, 0, len(e.variants))
	for _, v := range e.variants {
		if seen[v.Name()] {
			continue
		}
		seen[v.Name()] = true
		out = append(out, v)
	}
	return out
}

// Default returns the first wildcard variant.
func (e *enumBase) Default() (Variant, bool) {
	for _, v := range e.variants {
		if v.Choice().IsWildcard() {
			return v, true
		}
	}
	return nil, false
}

// Arms returns the non-wildcard variants in declaration order.
func (e *enumBase) Arms() []Variant {
	out := make([]Variant, 0, len(e.variants))
	for _, v := range e.variants {
		if !v.Choice().IsWildcard() {
			out = append(out, v)
		}
	}
	return out
}

func (e *enumBase) node() {}

// StructEnum is a sum type dispatched by a match on the choice value.
type StructEnum struct {
	enumBase
}

// NewStructEnum returns a match-dispatched enum. When several variants use
// the wildcard, the first one is the default and the others are unreachable.
func NewStructEnum(name string, choice ChoiceStrategy, variants []Variant, opts ...EnumOption) *StructEnum {
	return &StructEnum{newEnumBase(name, choice, variants, opts)}
}

// IfStructEnum is a sum type dispatched by an if/else-if chain of guards.
type IfStructEnum struct {
	enumBase
}

// NewIfStructEnum returns a guard-dispatched enum. It needs at least one
// variant and at most one wildcard.
func NewIfStructEnum(name string, choice ChoiceStrategy, variants []Variant, opts ...EnumOption) (*IfStructEnum, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: %s has no variants", ErrMalformedIfEnum, name)
	}
	wildcards := 0
	for _, v := range variants {
		if v.Choice().IsWildcard() {
			wildcards++
		}
	}
	if wildcards > 1 {
		return nil, fmt.Errorf("%w: %s has %d wildcard variants", ErrMalformedIfEnum, name, wildcards)
	}
	return &IfStructEnum{newEnumBase(name, choice, variants, opts)}, nil
}

// MustIfStructEnum is NewIfStructEnum for static schema definitions. It
// panics on error.
func MustIfStructEnum(name string, choice ChoiceStrategy, variants []Variant, opts ...EnumOption) *IfStructEnum {
	e, err := NewIfStructEnum(name, choice, variants, opts...)
	if err != nil {
		panic(err)
	}
	return e
}
