package loader

import (
	"fmt"
	"strconv"
	"strings"

	"firestige.xyz/nomgen/internal/schema"
)

type resolver struct {
	doc      *Document
	structs  map[string]*StructSpec
	enums    map[string]*EnumSpec
	built    map[string]schema.Node
	visiting map[string]bool
	// path is the chain of nodes being built, for cycle reports.
	path []string
}

func newResolver(doc *Document) *resolver {
	r := &resolver{
		doc:      doc,
		structs:  make(map[string]*StructSpec, len(doc.Structs)),
		enums:    make(map[string]*EnumSpec, len(doc.Enums)),
		built:    make(map[string]schema.Node),
		visiting: make(map[string]bool),
	}
	for i := range doc.Structs {
		r.structs[doc.Structs[i].Name] = &doc.Structs[i]
	}
	for i := range doc.Enums {
		r.enums[doc.Enums[i].Name] = &doc.Enums[i]
	}
	return r
}

// checkNames rejects empty and repeated node names.
func (r *resolver) checkNames() error {
	seen := make(map[string]bool)
	check := func(name string) error {
		if name == "" {
			return fmt.Errorf("%w: node without a name", ErrInvalidDocument)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q declared twice", ErrInvalidDocument, name)
		}
		seen[name] = true
		return nil
	}
	for _, s := range r.doc.Structs {
		if err := check(s.Name); err != nil {
			return err
		}
	}
	for _, e := range r.doc.Enums {
		if err := check(e.Name); err != nil {
			return err
		}
	}
	return nil
}

// node builds the named struct or enum, memoised.
func (r *resolver) node(name string) (schema.Node, error) {
	if n, ok := r.built[name]; ok {
		return n, nil
	}
	if r.visiting[name] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrSchemaCycle, strings.Join(r.path, " -> "), name)
	}
	r.visiting[name] = true
	r.path = append(r.path, name)
	defer func() {
		delete(r.visiting, name)
		r.path = r.path[:len(r.path)-1]
	}()

	var (
		n   schema.Node
		err error
	)
	if s, ok := r.structs[name]; ok {
		n, err = r.buildStruct(s)
	} else if e, ok := r.enums[name]; ok {
		n, err = r.buildEnum(e)
	} else {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReference, name)
	}
	if err != nil {
		return nil, err
	}
	r.built[name] = n
	return n, nil
}

func (r *resolver) structRef(name string) (*schema.Struct, error) {
	if _, ok := r.structs[name]; !ok {
		return nil, fmt.Errorf("%w: struct %q", ErrUnknownReference, name)
	}
	n, err := r.node(name)
	if err != nil {
		return nil, err
	}
	return n.(*schema.Struct), nil
}

func (r *resolver) enumRef(name string) (schema.Node, error) {
	if _, ok := r.enums[name]; !ok {
		return nil, fmt.Errorf("%w: enum %q", ErrUnknownReference, name)
	}
	return r.node(name)
}

func (r *resolver) buildStruct(spec *StructSpec) (*schema.Struct, error) {
	fields, err := r.fields(spec.Fields)
	if err != nil {
		return nil, fmt.Errorf("struct %s: %w", spec.Name, err)
	}
	inputs, err := r.fields(spec.Inputs)
	if err != nil {
		return nil, fmt.Errorf("struct %s inputs: %w", spec.Name, err)
	}
	return schema.NewStruct(spec.Name, fields, schema.WithExtraInputs(inputs...))
}

func (r *resolver) buildEnum(spec *EnumSpec) (schema.Node, error) {
	choice, err := r.choice(spec.Choice)
	if err != nil {
		return nil, fmt.Errorf("enum %s: %w", spec.Name, err)
	}
	inputs, err := r.fields(spec.Inputs)
	if err != nil {
		return nil, fmt.Errorf("enum %s inputs: %w", spec.Name, err)
	}
	variants := make([]schema.Variant, 0, len(spec.Variants))
	for _, vs := range spec.Variants {
		v, err := r.variant(vs)
		if err != nil {
			return nil, fmt.Errorf("enum %s variant %s: %w", spec.Name, vs.Name, err)
		}
		variants = append(variants, v)
	}

	opt := schema.WithEnumExtraInputs(inputs...)
	switch spec.Kind {
	case "", "match":
		return schema.NewStructEnum(spec.Name, choice, variants, opt), nil
	case "if":
		return schema.NewIfStructEnum(spec.Name, choice, variants, opt)
	}
	return nil, fmt.Errorf("%w: enum %s kind %q", ErrInvalidDocument, spec.Name, spec.Kind)
}

func (r *resolver) choice(spec ChoiceSpec) (schema.ChoiceStrategy, error) {
	fields, err := r.fields(spec.Fields)
	if err != nil {
		return nil, err
	}
	first := func() (schema.Field, error) {
		if len(fields) != 1 {
			return nil, fmt.Errorf("%w: %s choice needs exactly one field", schema.ErrInvalidChoice, spec.Strategy)
		}
		return fields[0], nil
	}

	switch spec.Strategy {
	case "basic":
		f, err := first()
		if err != nil {
			return nil, err
		}
		return schema.NewBasicEnumChoice(f), nil
	case "multi":
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: multi choice needs fields", schema.ErrInvalidChoice)
		}
		return schema.NewEnumMultiChoice(fields...), nil
	case "struct":
		s, err := r.structRef(spec.Struct)
		if err != nil {
			return nil, err
		}
		return schema.NewStructChoice(spec.Param, s, spec.Field)
	case "inline":
		f, err := first()
		if err != nil {
			return nil, err
		}
		return schema.NewInlineChoice(f), nil
	case "bit_operator":
		f, err := first()
		if err != nil {
			return nil, err
		}
		return schema.NewArgsBitOperatorChoice(f, spec.Operator, spec.Mask)
	case "input_length":
		return schema.NewInputLengthChoice(), nil
	}
	return nil, fmt.Errorf("%w: strategy %q", schema.ErrInvalidChoice, spec.Strategy)
}

func (r *resolver) variant(spec VariantSpec) (schema.Variant, error) {
	choice, err := parseChoice(spec.Choice)
	if err != nil {
		return nil, err
	}
	switch {
	case spec.Struct != "":
		s, err := r.structRef(spec.Struct)
		if err != nil {
			return nil, err
		}
		return schema.NewNamedStructVariant(choice, spec.Name, s), nil
	case spec.Enum != "":
		e, err := r.enumRef(spec.Enum)
		if err != nil {
			return nil, err
		}
		return schema.NewNamedEnumVariant(choice, spec.Name, e), nil
	case spec.Empty:
		return schema.NewEmptyVariant(choice, spec.Name), nil
	case spec.Eof:
		return schema.NewEofVariant(choice, spec.Name), nil
	}
	fields, err := r.fields(spec.Fields)
	if err != nil {
		return nil, err
	}
	return schema.NewAnonymousStructVariant(choice, spec.Name, fields...)
}

// parseChoice maps a decoded choice value to a dispatch value. Integers and
// integer strings are literals, "_" and a missing value are the wildcard,
// any other string is a verbatim expression.
func parseChoice(v any) (schema.Choice, error) {
	switch v := v.(type) {
	case nil:
		return schema.Wildcard, nil
	case int:
		return literal(int64(v))
	case int64:
		return literal(v)
	case uint64:
		return schema.Lit(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "_" {
			return schema.Wildcard, nil
		}
		if n, err := strconv.ParseUint(s, 0, 64); err == nil {
			return schema.Lit(n), nil
		}
		return schema.Expr(s), nil
	}
	return schema.Choice{}, fmt.Errorf("%w: choice %v of type %T", ErrInvalidDocument, v, v)
}

func literal(n int64) (schema.Choice, error) {
	if n < 0 {
		return schema.Choice{}, fmt.Errorf("%w: negative choice %d", ErrInvalidDocument, n)
	}
	return schema.Lit(uint64(n)), nil
}

func (r *resolver) fields(specs []FieldSpec) ([]schema.Field, error) {
	out := make([]schema.Field, 0, len(specs))
	for _, fs := range specs {
		f, err := r.field(fs)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *resolver) field(spec FieldSpec) (schema.Field, error) {
	f, err := r.bareField(spec)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", spec.Name, err)
	}
	if spec.Discard {
		return schema.Discard(f), nil
	}
	return f, nil
}

func (r *resolver) bareField(spec FieldSpec) (schema.Field, error) {
	if schema.IsNumericType(spec.Type) {
		if spec.Const != nil {
			return schema.NewConst(spec.Name, spec.Type, *spec.Const)
		}
		return schema.NewNumeric(spec.Name, spec.Type)
	}

	switch spec.Type {
	case "bytes":
		switch {
		case spec.Count != nil:
			c, err := count(spec.Count)
			if err != nil {
				return nil, err
			}
			return schema.CountedBytes(spec.Name, c), nil
		case spec.Rest:
			return schema.RestBytes(spec.Name), nil
		case spec.Len > 0:
			return schema.FixedBytes(spec.Name, spec.Len), nil
		}
		return nil, fmt.Errorf("%w: bytes need len, count or rest", ErrInvalidDocument)
	case "tag":
		if len(spec.Bytes) == 0 {
			return nil, fmt.Errorf("%w: tag needs bytes", ErrInvalidDocument)
		}
		return schema.NewTag(spec.Name, spec.Bytes...), nil
	case "ipv4":
		return schema.NewAddress(spec.Name, schema.IPv4), nil
	case "ipv6":
		return schema.NewAddress(spec.Name, schema.IPv6), nil
	case "mac":
		return schema.NewAddress(spec.Name, schema.MAC), nil
	case "struct":
		s, err := r.structRef(spec.Ref)
		if err != nil {
			return nil, err
		}
		return schema.Embed(spec.Name, s), nil
	case "enum":
		e, err := r.enumRef(spec.Ref)
		if err != nil {
			return nil, err
		}
		return schema.EmbedEnum(spec.Name, e), nil
	case "bits":
		members := make([]schema.Bit, len(spec.Bits))
		for i, b := range spec.Bits {
			members[i] = schema.Bit{Name: b.Name, Width: b.Width, Type: b.Type}
		}
		return schema.NewBitGroup(members...)
	case "vector":
		return r.vector(spec)
	case "option":
		elem, err := r.elem(spec)
		if err != nil {
			return nil, err
		}
		return schema.NewOption(spec.Name, elem, spec.Cond), nil
	case "peek":
		elem, err := r.elem(spec)
		if err != nil {
			return nil, err
		}
		return schema.NewPeek(spec.Name, elem), nil
	case "skip":
		if spec.Count != nil {
			c, err := count(spec.Count)
			if err != nil {
				return nil, err
			}
			return schema.SkipCounted(c), nil
		}
		return schema.SkipBytes(spec.Len), nil
	case "assert":
		return schema.NewAssert(spec.Cond), nil
	}
	return nil, fmt.Errorf("%w: %q", schema.ErrUnknownType, spec.Type)
}

func (r *resolver) elem(spec FieldSpec) (schema.Field, error) {
	if spec.Elem == nil {
		return nil, fmt.Errorf("%w: %s needs elem", ErrInvalidDocument, spec.Type)
	}
	return r.field(*spec.Elem)
}

func (r *resolver) vector(spec FieldSpec) (schema.Field, error) {
	elem, err := r.elem(spec)
	if err != nil {
		return nil, err
	}
	switch spec.Loop {
	case "", "unlimited":
		return schema.UnlimitedVector(spec.Name, elem), nil
	case "count", "budget":
		if spec.Count == nil {
			return nil, fmt.Errorf("%w: %s loop needs count", ErrInvalidDocument, spec.Loop)
		}
		c, err := count(spec.Count)
		if err != nil {
			return nil, err
		}
		if spec.Loop == "budget" {
			return schema.NewBudgetVector(spec.Name, elem, c)
		}
		return schema.CountedVector(spec.Name, elem, c), nil
	}
	return nil, fmt.Errorf("%w: loop %q", ErrInvalidDocument, spec.Loop)
}

func count(spec *CountSpec) (*schema.CountExpression, error) {
	var opts []schema.CountOption
	if spec.Unit != nil {
		opts = append(opts, schema.WithUnitSize(*spec.Unit))
	}
	switch spec.Mode {
	case "", "mul":
	case "div":
		opts = append(opts, schema.WithMode(schema.Div))
	default:
		return nil, fmt.Errorf("%w: count mode %q", schema.ErrInvalidCount, spec.Mode)
	}
	if spec.Expr != "" {
		expr := spec.Expr
		opts = append(opts, schema.WithGenerator(func(string) string { return expr }))
	}
	return schema.NewCountExpression(spec.Field, opts...)
}
