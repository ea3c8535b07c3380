package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Struct is an ordered aggregate of fields.
type Struct struct {
	name        string
	fields      []Field
	extraInputs []Field
}

// StructOption configures a Struct.
type StructOption func(*Struct)

// WithExtraInputs declares values the caller passes in instead of parsing
// them, e.g. a length read by an enclosing parser.
func WithExtraInputs(fields ...Field) StructOption {
	return func(s *Struct) { s.extraInputs = append(s.extraInputs, fields...) }
}

// NewStruct returns a struct of fields in declaration order. Stored field
// names must be unique.
func NewStruct(name string, fields []Field, opts ...StructOption) (*Struct, error) {
	s := &Struct{name: name, fields: append([]Field(nil), fields...)}
	for _, opt := range opts {
		opt(s)
	}
	if err := checkUnique(name, s.fields, s.extraInputs); err != nil {
		return nil, err
	}
	return s, nil
}

// MustStruct is NewStruct for static schema definitions. It panics on error.
func MustStruct(name string, fields []Field, opts ...StructOption) *Struct {
	s, err := NewStruct(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// checkUnique rejects two bindings with the same stored name.
func checkUnique(owner string, groups ...[]Field) error {
	seen := make(map[string]bool)
	for _, fields := range groups {
		for _, f := range fields {
			for _, m := range Members(f) {
				if !IsStored(m.Name) {
					continue
				}
				if seen[m.Name] {
					return fmt.Errorf("%w: %q in %s", ErrDuplicateField, m.Name, owner)
				}
				seen[m.Name] = true
			}
		}
	}
	return nil
}

func (s *Struct) Name() string         { return s.name }
func (s *Struct) Fields() []Field      { return s.fields }
func (s *Struct) ExtraInputs() []Field { return s.extraInputs }
func (s *Struct) Params() []Param      { return Params(s.extraInputs...) }
func (s *Struct) node()                {}

// IsRef reports whether any stored field borrows from the input. Unstored
// fields never reach the type, so they do not count. Extra inputs affect the
// parser signature only, see NeedsLifetime: the type lifetime and the parser
// lifetime differ on purpose.
func (s *Struct) IsRef() bool {
	return anyStoredRef(s.fields)
}

// NeedsLifetime reports whether the generated parser needs an explicit
// lifetime parameter.
func (s *Struct) NeedsLifetime() bool {
	return s.IsRef() || AnyNeedsLifetime(s.Params())
}

// Field returns the field bound under name.
func (s *Struct) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		for _, m := range Members(f) {
			if m.Name == name {
				return f, true
			}
		}
	}
	return nil, false
}

func anyStoredRef(fields []Field) bool {
	for _, f := range fields {
		if IsStored(f.Name()) && f.IsRef() {
			return true
		}
	}
	return false
}

// Member is one stored binding contributed by a field.
type Member struct {
	Name string
	Type string
}

// Members returns the bindings a field contributes, with lifetime-qualified
// types. Most fields contribute one; a BitGroup contributes one per bit.
func Members(f Field) []Member {
	if g, ok := f.(*BitGroup); ok {
		out := make([]Member, len(g.members))
		for i, m := range g.members {
			out[i] = Member{Name: m.Name, Type: m.Type}
		}
		return out
	}
	return []Member{{Name: f.Name(), Type: f.TypeName(true)}}
}

// StoredMembers returns the members that appear in a type definition, in
// declaration order.
func StoredMembers(fields []Field) []Member {
	var out []Member
	for _, f := range fields {
		for _, m := range Members(f) {
			if IsStored(m.Name) {
				out = append(out, m)
			}
		}
	}
	return out
}

// Constructor renders `prefix { a, b }` over the stored members.
func Constructor(prefix string, fields []Field) string {
	members := StoredMembers(fields)
	if len(members) == 0 {
		return prefix + " {}"
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return prefix + " { " + strings.Join(names, ", ") + " }"
}

// SizeExpression renders the encoded size of a parsed value whose stored
// fields are reachable under prefix, e.g. "self.".
func (s *Struct) SizeExpression(prefix string) (string, error) {
	fixed, dyn, err := s.sizeTerms(prefix)
	if err != nil {
		return "", err
	}
	if len(dyn) == 0 {
		return strconv.Itoa(fixed), nil
	}
	if fixed == 0 {
		return strings.Join(dyn, " + "), nil
	}
	return strconv.Itoa(fixed) + " + " + strings.Join(dyn, " + "), nil
}

func (s *Struct) sizeTerms(prefix string) (int, []string, error) {
	total := 0
	var dyn []string
	for _, f := range s.fields {
		fixed, terms, err := sizeTerms(f, prefix)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: %w", s.name, err)
		}
		total += fixed
		dyn = append(dyn, terms...)
	}
	return total, dyn, nil
}
