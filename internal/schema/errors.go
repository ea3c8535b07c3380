// Package schema defines the packet layout model compiled by the generator.
package schema

import "errors"

// Schema authoring errors. All of them are raised while a node is built or
// generated and abort that node.
var (
	ErrUnknownType                 = errors.New("nomgen: unknown type")
	ErrInvalidCount                = errors.New("nomgen: invalid count expression")
	ErrMissingMatchField           = errors.New("nomgen: match field not found")
	ErrMissingParserImplementation = errors.New("nomgen: missing parser implementation")
	ErrMalformedIfEnum             = errors.New("nomgen: malformed if enum")

	ErrInvalidChoice   = errors.New("nomgen: invalid choice")
	ErrDuplicateField  = errors.New("nomgen: duplicate field name")
	ErrInvalidBitGroup = errors.New("nomgen: invalid bit group")
	ErrUnsizedElement  = errors.New("nomgen: element has no deterministic size")

	ErrDuplicateFunction = errors.New("nomgen: duplicate parser function")
)
