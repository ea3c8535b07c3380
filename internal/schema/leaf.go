package schema

import (
	"fmt"
	"strings"
)

type numericType struct {
	rust  string
	width int
}

var numericTypes = map[string]numericType{
	"u8":      {"u8", 1},
	"i8":      {"i8", 1},
	"be_u16":  {"u16", 2},
	"le_u16":  {"u16", 2},
	"be_u24":  {"u32", 3},
	"le_u24":  {"u32", 3},
	"be_u32":  {"u32", 4},
	"le_u32":  {"u32", 4},
	"be_u64":  {"u64", 8},
	"le_u64":  {"u64", 8},
	"be_u128": {"u128", 16},
	"le_u128": {"u128", 16},
	"be_i16":  {"i16", 2},
	"le_i16":  {"i16", 2},
	"be_i24":  {"i32", 3},
	"le_i24":  {"i32", 3},
	"be_i32":  {"i32", 4},
	"le_i32":  {"i32", 4},
	"be_i64":  {"i64", 8},
	"le_i64":  {"i64", 8},
	"be_i128": {"i128", 16},
	"le_i128": {"i128", 16},
	"be_f32":  {"f32", 4},
	"le_f32":  {"f32", 4},
	"be_f64":  {"f64", 8},
	"le_f64":  {"f64", 8},
}

// Numeric is a fixed-width integer or float.
type Numeric struct {
	name   string
	parser string
	typ    numericType
}

// NewNumeric returns a numeric field parsed by the named nom number parser,
// e.g. "u8" or "be_u16".
func NewNumeric(name, parser string) (*Numeric, error) {
	t, ok := numericTypes[parser]
	if !ok {
		return nil, fmt.Errorf("%w: numeric %q for field %q", ErrUnknownType, parser, name)
	}
	return &Numeric{name: name, parser: parser, typ: t}, nil
}

func mustNumeric(name, parser string) *Numeric {
	n, err := NewNumeric(name, parser)
	if err != nil {
		panic(err)
	}
	return n
}

func U8(name string) *Numeric    { return mustNumeric(name, "u8") }
func I8(name string) *Numeric    { return mustNumeric(name, "i8") }
func BeU16(name string) *Numeric { return mustNumeric(name, "be_u16") }
func LeU16(name string) *Numeric { return mustNumeric(name, "le_u16") }
func BeU24(name string) *Numeric { return mustNumeric(name, "be_u24") }
func LeU24(name string) *Numeric { return mustNumeric(name, "le_u24") }
func BeU32(name string) *Numeric { return mustNumeric(name, "be_u32") }
func LeU32(name string) *Numeric { return mustNumeric(name, "le_u32") }
func BeU64(name string) *Numeric { return mustNumeric(name, "be_u64") }
func LeU64(name string) *Numeric { return mustNumeric(name, "le_u64") }
func BeI16(name string) *Numeric { return mustNumeric(name, "be_i16") }
func BeI32(name string) *Numeric { return mustNumeric(name, "be_i32") }
func BeF32(name string) *Numeric { return mustNumeric(name, "be_f32") }
func LeF32(name string) *Numeric { return mustNumeric(name, "le_f32") }

// IsNumericType reports whether parser names a known number parser.
func IsNumericType(parser string) bool {
	_, ok := numericTypes[parser]
	return ok
}

// Width is the encoded size in bytes.
func (n *Numeric) Width() int { return n.typ.width }

// Parser is the nom number parser name.
func (n *Numeric) Parser() string { return n.parser }

func (n *Numeric) Name() string                          { return n.name }
func (n *Numeric) IsRef() bool                           { return false }
func (n *Numeric) IsUserDefined() bool                   { return false }
func (n *Numeric) TypeName(bool) string                  { return n.typ.rust }
func (n *Numeric) ParserInvocation() string              { return n.parser }
func (n *Numeric) ParserImplementation() *Implementation { return nil }
func (n *Numeric) GenerateFunction() *Implementation     { return nil }
func (n *Numeric) field()                                {}

func (n *Numeric) GenerateParseStatement() string {
	return bindStatement(n.name, apply(n.ParserInvocation()))
}

// Const is a numeric value that must equal a fixed constant.
type Const struct {
	num   *Numeric
	value Choice
}

// NewConst returns a numeric field verified against value.
func NewConst(name, parser string, value uint64) (*Const, error) {
	n, err := NewNumeric(name, parser)
	if err != nil {
		return nil, err
	}
	return &Const{num: n, value: Lit(value)}, nil
}

// Value is the expected constant.
func (c *Const) Value() Choice { return c.value }

// Width is the encoded size in bytes.
func (c *Const) Width() int { return c.num.Width() }

func (c *Const) Name() string                          { return c.num.name }
func (c *Const) IsRef() bool                           { return false }
func (c *Const) IsUserDefined() bool                   { return false }
func (c *Const) TypeName(bool) string                  { return c.num.typ.rust }
func (c *Const) ParserImplementation() *Implementation { return nil }
func (c *Const) GenerateFunction() *Implementation     { return nil }
func (c *Const) field()                                {}

func (c *Const) ParserInvocation() string {
	return fmt.Sprintf("verify(%s, |v| *v == %s)", c.num.parser, c.value)
}

func (c *Const) GenerateParseStatement() string {
	return bindStatement(c.num.name, apply(c.ParserInvocation()))
}

// Tag matches a literal byte sequence.
type Tag struct {
	name  string
	bytes []byte
}

// NewTag returns a field that must match the given bytes.
func NewTag(name string, b ...byte) *Tag {
	return &Tag{name: name, bytes: append([]byte(nil), b...)}
}

// Width is the tag length.
func (t *Tag) Width() int { return len(t.bytes) }

func (t *Tag) Name() string                          { return t.name }
func (t *Tag) IsRef() bool                           { return true }
func (t *Tag) IsUserDefined() bool                   { return false }
func (t *Tag) ParserImplementation() *Implementation { return nil }
func (t *Tag) GenerateFunction() *Implementation     { return nil }
func (t *Tag) field()                                {}

func (t *Tag) TypeName(lifetime bool) string { return sliceType(lifetime) }

func (t *Tag) ParserInvocation() string {
	var b strings.Builder
	b.WriteString(`nom::bytes::complete::tag(&b"`)
	for _, c := range t.bytes {
		fmt.Fprintf(&b, `\x%02x`, c)
	}
	b.WriteString(`"[..])`)
	return b.String()
}

func (t *Tag) GenerateParseStatement() string {
	return bindStatement(t.name, apply(t.ParserInvocation()))
}

func sliceType(lifetime bool) string {
	if lifetime {
		return "&" + Lifetime + " [u8]"
	}
	return "&[u8]"
}

// Bytes is a borrowed slice of the input.
type Bytes struct {
	name  string
	fixed int
	count *CountExpression
}

// FixedBytes is a slice of n bytes.
func FixedBytes(name string, n int) *Bytes { return &Bytes{name: name, fixed: n} }

// CountedBytes is a slice whose length is computed from an earlier field.
func CountedBytes(name string, count *CountExpression) *Bytes {
	return &Bytes{name: name, count: count}
}

// RestBytes is the remainder of the input.
func RestBytes(name string) *Bytes { return &Bytes{name: name, fixed: -1} }

// FixedWidth returns the slice length when it is known statically.
func (b *Bytes) FixedWidth() (int, bool) {
	if b.count == nil && b.fixed >= 0 {
		return b.fixed, true
	}
	return 0, false
}

// Count returns the length expression, nil for fixed and rest slices.
func (b *Bytes) Count() *CountExpression { return b.count }

func (b *Bytes) Name() string                          { return b.name }
func (b *Bytes) IsRef() bool                           { return true }
func (b *Bytes) IsUserDefined() bool                   { return false }
func (b *Bytes) ParserImplementation() *Implementation { return nil }
func (b *Bytes) GenerateFunction() *Implementation     { return nil }
func (b *Bytes) field()                                {}

func (b *Bytes) TypeName(lifetime bool) string { return sliceType(lifetime) }

func (b *Bytes) ParserInvocation() string {
	switch {
	case b.count != nil:
		return "take(" + b.count.Expression() + ")"
	case b.fixed < 0:
		return "nom::combinator::rest"
	default:
		return fmt.Sprintf("take(%dusize)", b.fixed)
	}
}

func (b *Bytes) GenerateParseStatement() string {
	return bindStatement(b.name, apply(b.ParserInvocation()))
}

// AddressKind selects the address representation.
type AddressKind int

const (
	IPv4 AddressKind = iota
	IPv6
	MAC
)

// Address is a network address decoded into a value type.
type Address struct {
	name string
	kind AddressKind
}

// NewAddress returns an address field.
func NewAddress(name string, kind AddressKind) *Address {
	return &Address{name: name, kind: kind}
}

// Width is the encoded size in bytes.
func (a *Address) Width() int {
	switch a.kind {
	case IPv6:
		return 16
	case MAC:
		return 6
	default:
		return 4
	}
}

func (a *Address) Name() string                          { return a.name }
func (a *Address) IsRef() bool                           { return false }
func (a *Address) IsUserDefined() bool                   { return false }
func (a *Address) ParserImplementation() *Implementation { return nil }
func (a *Address) GenerateFunction() *Implementation     { return nil }
func (a *Address) field()                                {}

func (a *Address) TypeName(bool) string {
	switch a.kind {
	case IPv6:
		return "Ipv6Addr"
	case MAC:
		return "[u8; 6]"
	default:
		return "Ipv4Addr"
	}
}

func (a *Address) ParserInvocation() string {
	switch a.kind {
	case IPv6:
		return "map(be_u128, Ipv6Addr::from)"
	case MAC:
		return "map_res(take(6usize), <[u8; 6]>::try_from)"
	default:
		return "map(be_u32, Ipv4Addr::from)"
	}
}

func (a *Address) GenerateParseStatement() string {
	return bindStatement(a.name, apply(a.ParserInvocation()))
}
