package gen

import (
	"fmt"
	"strings"

	"firestige.xyz/nomgen/internal/naming"
	"firestige.xyz/nomgen/internal/schema"
)

const indent = "    "

// ParserFunctionDefinition returns the parser function of n.
func ParserFunctionDefinition(n schema.Node) string {
	switch n := n.(type) {
	case *schema.Struct:
		return structParser(n)
	case *schema.StructEnum:
		return matchParser(n)
	case *schema.IfStructEnum:
		return ifParser(n)
	}
	panic(fmt.Sprintf("gen: unsupported node %T", n))
}

// signature renders a parser function header up to and including the
// opening brace. The function gets an explicit lifetime when its result
// or any parameter borrows.
func signature(vis, fn string, lifetime bool, params []schema.Param, ret string) string {
	if vis != "" {
		vis += " "
	}
	if lifetime {
		return fmt.Sprintf("%sfn %s<%s>(input: &%s [u8]%s) -> IResult<&%s [u8], %s> {\n",
			vis, fn, schema.Lifetime, schema.Lifetime, schema.Signatures(params), schema.Lifetime, ret)
	}
	return fmt.Sprintf("%sfn %s(input: &[u8]%s) -> IResult<&[u8], %s> {\n",
		vis, fn, schema.Signatures(params), ret)
}

// writeStatement writes a possibly multi-line statement at the given depth.
func writeStatement(b *strings.Builder, depth int, stmt string) {
	prefix := strings.Repeat(indent, depth)
	for _, line := range strings.Split(stmt, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(prefix + line + "\n")
	}
}

// writeBody writes the parse statements of fields in declaration order.
func writeBody(b *strings.Builder, fields []schema.Field) {
	for _, f := range fields {
		writeStatement(b, 1, f.GenerateParseStatement())
	}
}

func structParser(s *schema.Struct) string {
	var b strings.Builder
	b.WriteString(signature("pub", naming.ParserName(s.Name()), s.NeedsLifetime(), s.Params(), typeName(s)))
	writeBody(&b, s.Fields())
	writeStatement(&b, 1, "Ok((input, "+schema.Constructor(s.Name(), s.Fields())+"))")
	b.WriteString("}\n")
	return b.String()
}
