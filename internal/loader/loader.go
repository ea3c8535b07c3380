// Package loader reads schema documents written in YAML or TOML and resolves
// them into schema nodes.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"firestige.xyz/nomgen/internal/naming"
	"firestige.xyz/nomgen/internal/schema"
)

var (
	ErrUnsupportedFormat = errors.New("nomgen: unsupported schema format")
	ErrUnknownReference  = errors.New("nomgen: unknown schema reference")
	ErrSchemaCycle       = errors.New("nomgen: schema reference cycle")
	ErrInvalidDocument   = errors.New("nomgen: invalid schema document")
)

// Format is the encoding of a schema document.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf detects the document format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Schema is a resolved document.
type Schema struct {
	// Module names the generated Rust module.
	Module string
	// Nodes are every declared struct followed by every declared enum, in
	// document order.
	Nodes []schema.Node
}

// LoadFile reads and resolves the document at path. The module name
// defaults to the snake-cased file name.
func LoadFile(path string) (*Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Module == "" {
		s.Module = naming.SnakeCase(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	return s, nil
}

// Parse decodes and resolves a document.
func Parse(data []byte, format Format) (*Schema, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return Resolve(doc)
}

// Decode decodes a document without resolving references. Unknown keys are
// rejected.
func Decode(data []byte, format Format) (*Document, error) {
	raw := make(map[string]any)
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	case TOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Resolve builds the nodes of doc. A node referenced from several places is
// built once and shared.
func Resolve(doc *Document) (*Schema, error) {
	r := newResolver(doc)
	if err := r.checkNames(); err != nil {
		return nil, err
	}

	out := &Schema{Module: doc.Module}
	for _, s := range doc.Structs {
		n, err := r.node(s.Name)
		if err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range doc.Enums {
		n, err := r.node(e.Name)
		if err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, n)
	}
	return out, nil
}
