// Package gen compiles schema nodes into Rust parser source built on nom.
package gen

import (
	"fmt"
	"strings"

	"firestige.xyz/nomgen/internal/naming"
	"firestige.xyz/nomgen/internal/schema"
)

// chunk is one emitted definition, keyed by the parser function it declares.
type chunk struct {
	name  string
	owner string
	text  string
}

type Generator struct {
	index  map[string]int
	chunks []chunk
}

// New returns a Generator with nothing emitted.
func New() *Generator {
	return &Generator{index: make(map[string]int)}
}

// Generate returns the source of node followed by every nested node, variant
// function and helper function not emitted by earlier calls. On error
// nothing from this call is kept.
func Generate(node schema.Node) (string, error) {
	return New().Generate(node)
}

// Generate returns the source for node and the definitions it reaches that
// this generator has not emitted yet.
func (g *Generator) Generate(node schema.Node) (string, error) {
	start := len(g.chunks)
	if err := g.emitNode(node); err != nil {
		for _, c := range g.chunks[start:] {
			delete(g.index, c.name)
		}
		g.chunks = g.chunks[:start]
		return "", fmt.Errorf("generate %s: %w", node.Name(), err)
	}
	texts := make([]string, 0, len(g.chunks)-start)
	for _, c := range g.chunks[start:] {
		texts = append(texts, c.text)
	}
	return strings.Join(texts, "\n"), nil
}

// Emitted returns the number of definitions emitted so far.
func (g *Generator) Emitted() int { return len(g.chunks) }

// add records text as the definition of function name made for owner and
// reports whether it was new. A name already defined by another owner, or
// with different text, is rejected.
func (g *Generator) add(name, owner, text string) (bool, error) {
	if i, ok := g.index[name]; ok {
		prev := g.chunks[i]
		if prev.owner != owner || prev.text != text {
			return false, fmt.Errorf("%w: %s from %s and %s", schema.ErrDuplicateFunction, name, prev.owner, owner)
		}
		return false, nil
	}
	g.index[name] = len(g.chunks)
	g.chunks = append(g.chunks, chunk{name: name, owner: owner, text: text})
	return true, nil
}

func (g *Generator) emitNode(n schema.Node) error {
	added, err := g.add(naming.ParserName(n.Name()), "type "+n.Name(), Definition(n)+"\n"+ParserFunctionDefinition(n))
	if err != nil || !added {
		return err
	}

	switch n := n.(type) {
	case *schema.Struct:
		if err := g.emitFields(n.Fields()); err != nil {
			return err
		}
		return g.emitFields(n.ExtraInputs())
	case schema.Enum:
		return g.emitEnum(n)
	}
	return nil
}

func (g *Generator) emitEnum(e schema.Enum) error {
	for _, p := range e.Choice().Parameters() {
		if err := g.emitFields([]schema.Field{p.Field}); err != nil {
			return err
		}
	}
	for _, v := range e.UniqueVariants() {
		if fn, ok := VariantFunction(e, v); ok {
			if _, err := g.add(VariantFunctionName(e, v), "variant "+e.Name()+"::"+v.Name(), fn); err != nil {
				return err
			}
		}
		var err error
		switch v := v.(type) {
		case *schema.AnonymousStructVariant:
			err = g.emitFields(v.Fields())
		case *schema.NamedStructVariant:
			err = g.emitNode(v.Struct())
		case *schema.NamedEnumVariant:
			err = g.emitNode(v.Enum())
		}
		if err != nil {
			return err
		}
	}
	return g.emitFields(e.ExtraInputs())
}
func (g *Generator) emitFields(fields []schema.Field) error {
	for _, f := range fields {
		if f.IsUserDefined() {
			impl := f.ParserImplementation()
			if impl == nil {
				return fmt.Errorf("%w: field %q", schema.ErrMissingParserImplementation, f.Name())
			}
			if err := g.emitImplementation(impl); err != nil {
				return err
			}
		}
		if fn := f.GenerateFunction(); fn != nil {
			if err := g.emitImplementation(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) emitImplementation(impl *schema.Implementation) error {
	if impl.Node != nil {
		return g.emitNode(impl.Node)
	}
	_, err := g.add(impl.Name, "helper "+impl.Name, impl.Code)
	return err
}
