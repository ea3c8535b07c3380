package schema

import (
	"fmt"
	"strconv"
	"strings"

	"firestige.xyz/nomgen/internal/naming"
)

// LoopStrategy selects how a Vector decides to stop.
type LoopStrategy int

const (
	// Unlimited repeats until the input is exhausted.
	Unlimited LoopStrategy = iota
	// ByCount repeats a computed number of times.
	ByCount
	// ByBudget repeats until a byte budget is used up, subtracting each
	// element's size.
	ByBudget
)

func (s LoopStrategy) String() string {
	switch s {
	case ByCount:
		return "count"
	case ByBudget:
		return "budget"
	default:
		return "unlimited"
	}
}

// Vector is a repeated element.
type Vector struct {
	name     string
	elem     Field
	strategy LoopStrategy
	count    *CountExpression
}

// UnlimitedVector repeats elem until the input is exhausted.
func UnlimitedVector(name string, elem Field) *Vector {
	return &Vector{name: name, elem: elem, strategy: Unlimited}
}

// CountedVector repeats elem exactly count times.
func CountedVector(name string, elem Field, count *CountExpression) *Vector {
	return &Vector{name: name, elem: elem, strategy: ByCount, count: count}
}

// NewBudgetVector repeats elem until budget bytes are consumed. The element
// must have a deterministic size and take no arguments.
func NewBudgetVector(name string, elem Field, budget *CountExpression) (*Vector, error) {
	if _, err := elementSize(elem); err != nil {
		return nil, fmt.Errorf("budget loop %q: %w", name, err)
	}
	if s, ok := elem.(*StructField); ok && len(s.s.Params()) > 0 {
		return nil, fmt.Errorf("%w: budget loop %q element %s takes arguments", ErrUnsizedElement, name, s.s.Name())
	}
	return &Vector{name: name, elem: elem, strategy: ByBudget, count: budget}, nil
}

// BudgetVector is NewBudgetVector for static schema definitions. It panics
// on error.
func BudgetVector(name string, elem Field, budget *CountExpression) *Vector {
	v, err := NewBudgetVector(name, elem, budget)
	if err != nil {
		panic(err)
	}
	return v
}

// Element returns the repeated field.
func (v *Vector) Element() Field { return v.elem }

// Strategy returns the termination strategy.
func (v *Vector) Strategy() LoopStrategy { return v.strategy }

// Count returns the count or budget expression, nil for unlimited vectors.
func (v *Vector) Count() *CountExpression { return v.count }

func (v *Vector) Name() string        { return v.name }
func (v *Vector) IsRef() bool         { return v.elem.IsRef() }
func (v *Vector) IsUserDefined() bool { return v.elem.IsUserDefined() }
func (v *Vector) field()              {}

func (v *Vector) TypeName(lifetime bool) string {
	return "Vec<" + v.elem.TypeName(lifetime) + ">"
}

func (v *Vector) ParserImplementation() *Implementation { return v.elem.ParserImplementation() }

func (v *Vector) ParserInvocation() string {
	switch v.strategy {
	case ByCount:
		return "nom::multi::count(" + v.elem.ParserInvocation() + ", " + v.count.usize() + ")"
	case ByBudget:
		return "|input| " + v.budgetHelperName() + "(input, " + v.count.usize() + ")"
	default:
		return "many0(complete(" + v.elem.ParserInvocation() + "))"
	}
}

func (v *Vector) GenerateParseStatement() string {
	if v.strategy == ByBudget {
		return bindStatement(v.name, v.budgetHelperName()+"(input, "+v.count.usize()+")")
	}
	return bindStatement(v.name, apply(v.ParserInvocation()))
}

// GenerateFunction returns the budget loop helper, shared by every budget
// loop over the same element type. Other loops need the helper of their
// element, if any.
func (v *Vector) GenerateFunction() *Implementation {
	if v.strategy != ByBudget {
		return v.elem.GenerateFunction()
	}
	name := v.budgetHelperName()
	return &Implementation{Name: name, Code: v.budgetHelper(name)}
}

func (v *Vector) budgetHelperName() string {
	switch e := v.elem.(type) {
	case *StructField:
		return naming.ParserName(e.s.Name()) + "_by_budget"
	case *Numeric:
		return "parse_" + e.parser + "_by_budget"
	}
	return "parse_" + naming.SnakeCase(v.name) + "_by_budget"
}

func (v *Vector) budgetHelper(name string) string {
	var b strings.Builder
	elemType := v.elem.TypeName(true)
	ref := v.elem.IsRef()

	size := "item.size()"
	if s, ok := v.elem.(*StructField); ok {
		writeSizeImpl(&b, s.s)
		b.WriteString("\n")
	} else {
		n, _ := elementSize(v.elem)
		size = strconv.Itoa(n)
	}

	if ref {
		fmt.Fprintf(&b, "fn %s<%s>(input: &%s [u8], budget: usize) -> IResult<&%s [u8], Vec<%s>> {\n",
			name, Lifetime, Lifetime, Lifetime, elemType)
	} else {
		fmt.Fprintf(&b, "fn %s(input: &[u8], budget: usize) -> IResult<&[u8], Vec<%s>> {\n", name, elemType)
	}
	b.WriteString("    let mut input = input;\n")
	b.WriteString("    let mut budget = budget;\n")
	b.WriteString("    let mut items = Vec::new();\n")
	b.WriteString("    while budget > 0 {\n")
	fmt.Fprintf(&b, "        let (rest, item) = %s?;\n", call(v.elem))
	fmt.Fprintf(&b, "        let size = %s;\n", size)
	b.WriteString("        if size == 0 || size > budget {\n")
	fmt.Fprintf(&b, "            return %s;\n", VerifyError)
	b.WriteString("        }\n")
	b.WriteString("        budget -= size;\n")
	b.WriteString("        items.push(item);\n")
	b.WriteString("        input = rest;\n")
	b.WriteString("    }\n")
	b.WriteString("    Ok((input, items))\n")
	b.WriteString("}\n")
	return b.String()
}

// writeSizeImpl emits the size accessor of a budget loop element.
func writeSizeImpl(b *strings.Builder, s *Struct) {
	expr, _ := s.SizeExpression("self.")
	if s.IsRef() {
		fmt.Fprintf(b, "impl<%s> %s<%s> {\n", Lifetime, s.Name(), Lifetime)
	} else {
		fmt.Fprintf(b, "impl %s {\n", s.Name())
	}
	b.WriteString("    pub fn size(&self) -> usize {\n")
	b.WriteString("        " + expr + "\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

// elementSize returns the fixed size of a budget loop element. Struct
// elements get a size accessor, so only their fixed part is returned.
func elementSize(f Field) (int, error) {
	if s, ok := f.(*StructField); ok {
		fixed, _, err := s.s.sizeTerms("self.")
		return fixed, err
	}
	return constantSize(f)
}

// constantSize returns the size of f when it does not depend on parsed
// values.
func constantSize(f Field) (int, error) {
	var (
		fixed int
		dyn   []string
		err   error
	)
	if s, ok := f.(*StructField); ok {
		fixed, dyn, err = s.s.sizeTerms("")
	} else {
		fixed, dyn, err = sizeTerms(f, "")
	}
	if err != nil {
		return 0, err
	}
	if len(dyn) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnsizedElement, f.TypeName(false))
	}
	return fixed, nil
}

// sizeTerms splits the encoded size of f into a constant and runtime terms
// that read stored values under prefix.
func sizeTerms(f Field, prefix string) (int, []string, error) {
	stored := IsStored(f.Name())
	path := prefix + f.Name()
	unsized := fmt.Errorf("%w: field %q", ErrUnsizedElement, f.Name())

	switch f := f.(type) {
	case *Numeric:
		return f.Width(), nil, nil
	case *Const:
		return f.Width(), nil, nil
	case *Tag:
		return f.Width(), nil, nil
	case *Address:
		return f.Width(), nil, nil
	case *BitGroup:
		return f.Width(), nil, nil
	case *Peek, *Assert:
		return 0, nil, nil
	case *Bytes:
		if n, ok := f.FixedWidth(); ok {
			return n, nil, nil
		}
		if !stored {
			return 0, nil, unsized
		}
		return 0, []string{path + ".len()"}, nil
	case *Skip:
		if f.count == nil {
			return f.n, nil, nil
		}
		return 0, nil, unsized
	case *StructField:
		fixed, dyn, err := f.s.sizeTerms(path + ".")
		if err != nil {
			return 0, nil, err
		}
		if len(dyn) > 0 && !stored {
			return 0, nil, unsized
		}
		return fixed, dyn, nil
	case *Vector:
		n, err := constantSize(f.elem)
		if err != nil || !stored {
			return 0, nil, unsized
		}
		return 0, []string{path + ".len() * " + strconv.Itoa(n)}, nil
	case *Option:
		n, err := constantSize(f.inner)
		if err != nil || !stored {
			return 0, nil, unsized
		}
		return 0, []string{path + ".as_ref().map_or(0, |_| " + strconv.Itoa(n) + ")"}, nil
	case *Discarded:
		fixed, dyn, err := sizeTerms(f.inner, prefix)
		if err != nil || len(dyn) > 0 {
			return 0, nil, unsized
		}
		return fixed, nil, nil
	}
	return 0, nil, unsized
}
