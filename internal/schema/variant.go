package schema

// Variant is one arm of a StructEnum or IfStructEnum.
type Variant interface {
	Choice() Choice
	// Name is the variant name, unique within its enum.
	Name() string
	IsRef() bool

	variant()
}

type variantBase struct {
	choice Choice
	name   string
}

func (v variantBase) Choice() Choice { return v.choice }
func (v variantBase) Name() string   { return v.name }
func (v variantBase) variant()       {}

// AnonymousStructVariant carries an inline struct-shaped payload.
type AnonymousStructVariant struct {
	variantBase
	fields []Field
}

// NewAnonymousStructVariant returns a variant whose payload is parsed like a
// struct body.
func NewAnonymousStructVariant(choice Choice, name string, fields ...Field) (*AnonymousStructVariant, error) {
	if err := checkUnique(name, fields); err != nil {
		return nil, err
	}
	return &AnonymousStructVariant{variantBase: variantBase{choice, name}, fields: fields}, nil
}

// Anonymous is NewAnonymousStructVariant for static schema definitions. It
// panics on error.
func Anonymous(choice Choice, name string, fields ...Field) *AnonymousStructVariant {
	v, err := NewAnonymousStructVariant(choice, name, fields...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *AnonymousStructVariant) Fields() []Field { return v.fields }
func (v *AnonymousStructVariant) IsRef() bool     { return anyStoredRef(v.fields) }

// NamedStructVariant wraps an existing struct in a one-field tuple variant.
type NamedStructVariant struct {
	variantBase
	s *Struct
}

// NewNamedStructVariant wraps s.
func NewNamedStructVariant(choice Choice, name string, s *Struct) *NamedStructVariant {
	return &NamedStructVariant{variantBase: variantBase{choice, name}, s: s}
}

func (v *NamedStructVariant) Struct() *Struct { return v.s }
func (v *NamedStructVariant) IsRef() bool     { return v.s.IsRef() }

// NamedEnumVariant wraps an existing enum in a one-field tuple variant.
type NamedEnumVariant struct {
	variantBase
	e Node
}

// NewNamedEnumVariant wraps e, a *StructEnum or *IfStructEnum.
func NewNamedEnumVariant(choice Choice, name string, e Node) *NamedEnumVariant {
	return &NamedEnumVariant{variantBase: variantBase{choice, name}, e: e}
}

func (v *NamedEnumVariant) Enum() Node  { return v.e }
func (v *NamedEnumVariant) IsRef() bool { return v.e.IsRef() }

// EmptyVariant has no payload and always succeeds.
type EmptyVariant struct {
	variantBase
}

// NewEmptyVariant returns a marker variant.
func NewEmptyVariant(choice Choice, name string) *EmptyVariant {
	return &EmptyVariant{variantBase{choice, name}}
}

func (v *EmptyVariant) IsRef() bool { return false }

// EofVariant has no payload and requires the remaining input to be empty.
type EofVariant struct {
	variantBase
}

// NewEofVariant returns an end-of-input variant.
func NewEofVariant(choice Choice, name string) *EofVariant {
	return &EofVariant{variantBase{choice, name}}
}

func (v *EofVariant) IsRef() bool { return false }
