package gen

import (
	"fmt"
	"strings"

	"firestige.xyz/nomgen/internal/naming"
	"firestige.xyz/nomgen/internal/schema"
)

// VariantFunctionName is the name of the parser of variant v of e.
func VariantFunctionName(e schema.Enum, v schema.Variant) string {
	return naming.ParserName(e.Name()) + "_" + naming.SnakeCase(v.Name())
}

// VariantFunction returns the parser of variant v of e.
func VariantFunction(e schema.Enum, v schema.Variant) (string, bool) {
	ctor := e.Name() + "::" + v.Name()
	var b strings.Builder
	b.WriteString(signature("", VariantFunctionName(e, v), e.NeedsLifetime(), e.Params(), typeName(e)))
	switch v := v.(type) {
	case *schema.AnonymousStructVariant:
		writeBody(&b, v.Fields())
		writeStatement(&b, 1, "Ok((input, "+schema.Constructor(ctor, v.Fields())+"))")
	case *schema.NamedStructVariant:
		s := v.Struct()
		writeStatement(&b, 1, fmt.Sprintf("let (input, inner) = %s(input%s)?;",
			naming.ParserName(s.Name()), schema.Arguments(s.Params())))
		writeStatement(&b, 1, "Ok((input, "+ctor+"(inner)))")
	case *schema.NamedEnumVariant:
		inner := v.Enum()
		writeStatement(&b, 1, fmt.Sprintf("let (input, inner) = %s(input%s)?;",
			naming.ParserName(inner.Name()), schema.Arguments(inner.Params())))
		writeStatement(&b, 1, "Ok((input, "+ctor+"(inner)))")
	case *schema.EofVariant:
		writeStatement(&b, 1, "let (input, _) = eof(input)?;")
		writeStatement(&b, 1, "Ok((input, "+ctor+" {}))")
	case *schema.EmptyVariant:
		writeStatement(&b, 1, "Ok((input, "+ctor+" {}))")
	default:
		return "", false
	}
	b.WriteString("}\n")
	return b.String(), true
}

// armExpression is the expression producing variant v inside the enum
// parser.
func armExpression(e schema.Enum, v schema.Variant) string {
	return VariantFunctionName(e, v) + "(input" + schema.Forwards(e.Params()) + ")"
}

// fallback is the expression for input no variant matched.
func fallback(e schema.Enum) string {
	if v, ok := e.Default(); ok {
		return armExpression(e, v)
	}
	return schema.VerifyError
}

func enumSignature(e schema.Enum) string {
	return signature("pub", naming.ParserName(e.Name()), e.NeedsLifetime(), e.Params(), typeName(e))
}

func matchParser(e *schema.StructEnum) string {
	var b strings.Builder
	b.WriteString(enumSignature(e))
	choice := e.Choice()
	if p := choice.Prelude(); p != "" {
		writeStatement(&b, 1, p)
	}
	writeStatement(&b, 1, "match "+choice.AsMatchTarget()+" {")
	for _, v := range e.Arms() {
		writeStatement(&b, 2, v.Choice().String()+" => "+armExpression(e, v)+",")
	}
	writeStatement(&b, 2, "_ => "+fallback(e)+",")
	writeStatement(&b, 1, "}")
	b.WriteString("}\n")
	return b.String()
}

func ifParser(e *schema.IfStructEnum) string {
	var b strings.Builder
	b.WriteString(enumSignature(e))
	choice := e.Choice()
	if p := choice.Prelude(); p != "" {
		writeStatement(&b, 1, p)
	}
	arms := e.Arms()
	if len(arms) == 0 {
		writeStatement(&b, 1, fallback(e))
		b.WriteString("}\n")
		return b.String()
	}
	for i, v := range arms {
		keyword := "if "
		if i > 0 {
			keyword = "} else if "
		}
		writeStatement(&b, 1, keyword+choice.Condition(v.Choice())+" {")
		writeStatement(&b, 2, armExpression(e, v))
	}
	writeStatement(&b, 1, "} else {")
	writeStatement(&b, 2, fallback(e))
	writeStatement(&b, 1, "}")
	b.WriteString("}\n")
	return b.String()
}
