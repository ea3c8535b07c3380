// Package rulearg derives the reduced argument schema a rule engine matches
// on: the scalar fields of a protocol header, parsed by the same bytes-exact
// parser.
package rulearg

import (
	"fmt"
	"regexp"

	"firestige.xyz/nomgen/internal/schema"
)

// Suffix is appended to the name of a reduced struct.
const Suffix = "RuleArgs"

// Supported reports whether a rule can match on f directly.
func Supported(f schema.Field) bool {
	switch f := f.(type) {
	case *schema.Numeric, *schema.Const, *schema.Address, *schema.BitGroup:
		return true
	case *schema.Option:
		return Supported(f.Inner())
	}
	return false
}

// Reduce returns a struct that parses the same input as s but stores only
// supported fields. Every other field is still parsed and discarded, so the
// reduced parser consumes exactly the bytes s does. Fields that a later
// field reads stay bound and stored: parser arguments, counts, conditions,
// guards and computed expressions.
func Reduce(s *schema.Struct) (*schema.Struct, error) {
	needed := make(map[string]bool)
	declared := make(map[string]bool)
	for _, f := range s.Fields() {
		for _, p := range arguments(f) {
			needed[p.Name()] = true
		}
		for _, name := range references(f) {
			if declared[name] {
				needed[name] = true
			}
		}
		declared[f.Name()] = true
	}

	fields := make([]schema.Field, 0, len(s.Fields()))
	for _, f := range s.Fields() {
		if Supported(f) || !schema.IsStored(f.Name()) || needed[f.Name()] {
			fields = append(fields, f)
			continue
		}
		fields = append(fields, schema.Discard(f))
	}

	r, err := schema.NewStruct(s.Name()+Suffix, fields, schema.WithExtraInputs(s.ExtraInputs()...))
	if err != nil {
		return nil, fmt.Errorf("reduce %s: %w", s.Name(), err)
	}
	return r, nil
}

// ReduceAll reduces every struct among nodes. Enums have no reduced form
// and are skipped.
func ReduceAll(nodes []schema.Node) ([]schema.Node, error) {
	var out []schema.Node
	for _, n := range nodes {
		s, ok := n.(*schema.Struct)
		if !ok {
			continue
		}
		r, err := Reduce(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

var identifier = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*`)

// references returns the identifiers the parse statement of f reads as
// values. Callees, paths and member names are skipped.
func references(f schema.Field) []string {
	stmt := f.GenerateParseStatement()
	var names []string
	for _, loc := range identifier.FindAllStringIndex(stmt, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && (stmt[start-1] == '.' || stmt[start-1] == ':') {
			continue
		}
		if end < len(stmt) && (stmt[end] == '(' || stmt[end] == ':' || stmt[end] == '!') {
			continue
		}
		names = append(names, stmt[start:end])
	}
	return names
}

// arguments returns the parameters the parser of f receives from the
// enclosing parser.
func arguments(f schema.Field) []schema.Param {
	switch f := f.(type) {
	case *schema.StructField:
		return f.Struct().Params()
	case *schema.EnumField:
		return f.Enum().Params()
	case *schema.Vector:
		return arguments(f.Element())
	case *schema.Option:
		return arguments(f.Inner())
	case *schema.Discarded:
		return arguments(f.Inner())
	}
	return nil
}
