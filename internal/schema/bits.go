package schema

import (
	"fmt"
	"strings"
)

var bitTypes = map[string]int{"u8": 8, "u16": 16, "u32": 32, "u64": 64}

// Bit is one sub-byte value inside a BitGroup.
type Bit struct {
	Name  string
	Width int
	Type  string
}

// BitGroup is a run of co-located bit fields consumed by one bits parser.
// It has no name of its own; every member is bound under its own name.
type BitGroup struct {
	members []Bit
}

// NewBitGroup returns a group of members in declaration order. The widths
// must add up to whole bytes.
func NewBitGroup(members ...Bit) (*BitGroup, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: empty group", ErrInvalidBitGroup)
	}
	total := 0
	for _, m := range members {
		size, ok := bitTypes[m.Type]
		if !ok {
			return nil, fmt.Errorf("%w: bit type %q for field %q", ErrUnknownType, m.Type, m.Name)
		}
		if m.Width <= 0 || m.Width > size {
			return nil, fmt.Errorf("%w: %q is %d bits wide, %s holds %d", ErrInvalidBitGroup, m.Name, m.Width, m.Type, size)
		}
		total += m.Width
	}
	if total%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a whole number of bytes", ErrInvalidBitGroup, total)
	}
	return &BitGroup{members: append([]Bit(nil), members...)}, nil
}

// Bits is NewBitGroup for static schema definitions. It panics on error.
func Bits(members ...Bit) *BitGroup {
	g, err := NewBitGroup(members...)
	if err != nil {
		panic(err)
	}
	return g
}

// Members returns the bit fields in declaration order.
func (g *BitGroup) Members() []Bit { return g.members }

// Width is the number of whole bytes consumed.
func (g *BitGroup) Width() int {
	total := 0
	for _, m := range g.members {
		total += m.Width
	}
	return total / 8
}

func (g *BitGroup) Name() string                          { return "" }
func (g *BitGroup) IsRef() bool                           { return false }
func (g *BitGroup) IsUserDefined() bool                   { return false }
func (g *BitGroup) ParserImplementation() *Implementation { return nil }
func (g *BitGroup) GenerateFunction() *Implementation     { return nil }
func (g *BitGroup) field()                                {}

// TypeName renders the tuple of member types.
func (g *BitGroup) TypeName(bool) string {
	types := make([]string, len(g.members))
	for i, m := range g.members {
		types[i] = m.Type
	}
	if len(types) == 1 {
		return types[0]
	}
	return "(" + strings.Join(types, ", ") + ")"
}

func (g *BitGroup) ParserInvocation() string {
	takes := make([]string, len(g.members))
	for i, m := range g.members {
		takes[i] = fmt.Sprintf("take_bits::<_, %s, _, _>(%dusize)", m.Type, m.Width)
	}
	inner := takes[0]
	if len(takes) > 1 {
		inner = "tuple((" + strings.Join(takes, ", ") + "))"
	}
	return "bits::<_, _, nom::error::Error<(&[u8], usize)>, _, _>(" + inner + ")"
}

func (g *BitGroup) GenerateParseStatement() string {
	names := make([]string, len(g.members))
	for i, m := range g.members {
		names[i] = bindingName(m.Name)
	}
	pattern := names[0]
	if len(names) > 1 {
		pattern = "(" + strings.Join(names, ", ") + ")"
	}
	return bindStatement(pattern, apply(g.ParserInvocation()))
}
