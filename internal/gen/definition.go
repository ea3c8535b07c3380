package gen

import (
	"fmt"
	"strings"

	"firestige.xyz/nomgen/internal/schema"
)

const derive = "#[derive(Debug, PartialEq, Clone)]\n"

// Definition returns the type definition of n.
func Definition(n schema.Node) string {
	switch n := n.(type) {
	case *schema.Struct:
		return structDefinition(n)
	case schema.Enum:
		return enumDefinition(n)
	}
	panic(fmt.Sprintf("gen: unsupported node %T", n))
}

// typeName is the name of a node's type with its lifetime when it has one.
func typeName(n schema.Node) string {
	if n.IsRef() {
		return n.Name() + "<" + schema.Lifetime + ">"
	}
	return n.Name()
}

func structDefinition(s *schema.Struct) string {
	var b strings.Builder
	b.WriteString(derive)
	members := schema.StoredMembers(s.Fields())
	if len(members) == 0 {
		fmt.Fprintf(&b, "pub struct %s {}\n", typeName(s))
		return b.String()
	}
	fmt.Fprintf(&b, "pub struct %s {\n", typeName(s))
	for _, m := range members {
		fmt.Fprintf(&b, "    pub %s: %s,\n", m.Name, m.Type)
	}
	b.WriteString("}\n")
	return b.String()
}

func enumDefinition(e schema.Enum) string {
	var b strings.Builder
	b.WriteString(derive)
	variants := e.UniqueVariants()
	if len(variants) == 0 {
		fmt.Fprintf(&b, "pub enum %s {}\n", typeName(e))
		return b.String()
	}
	fmt.Fprintf(&b, "pub enum %s {\n", typeName(e))
	for _, v := range variants {
		switch v := v.(type) {
		case *schema.AnonymousStructVariant:
			members := schema.StoredMembers(v.Fields())
			if len(members) == 0 {
				fmt.Fprintf(&b, "    %s {},\n", v.Name())
				continue
			}
			fmt.Fprintf(&b, "    %s {\n", v.Name())
			for _, m := range members {
				fmt.Fprintf(&b, "        %s: %s,\n", m.Name, m.Type)
			}
			b.WriteString("    },\n")
		case *schema.NamedStructVariant:
			fmt.Fprintf(&b, "    %s(%s),\n", v.Name(), typeName(v.Struct()))
		case *schema.NamedEnumVariant:
			fmt.Fprintf(&b, "    %s(%s),\n", v.Name(), typeName(v.Enum()))
		default:
			fmt.Fprintf(&b, "    %s {},\n", v.Name())
		}
	}
	b.WriteString("}\n")
	return b.String()
}
