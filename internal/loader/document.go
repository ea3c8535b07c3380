package loader

// Document is the decoded form of a schema file. Structs and enums refer to
// each other by name.
type Document struct {
	Module  string       `mapstructure:"module"`
	Structs []StructSpec `mapstructure:"structs"`
	Enums   []EnumSpec   `mapstructure:"enums"`
}

// StructSpec declares a struct.
type StructSpec struct {
	Name   string      `mapstructure:"name"`
	Fields []FieldSpec `mapstructure:"fields"`
	Inputs []FieldSpec `mapstructure:"inputs"` // Values passed in by the caller
}

// EnumSpec declares a StructEnum (kind "match") or IfStructEnum (kind "if").
type EnumSpec struct {
	Name     string        `mapstructure:"name"`
	Kind     string        `mapstructure:"kind"` // match / if; default match
	Choice   ChoiceSpec    `mapstructure:"choice"`
	Inputs   []FieldSpec   `mapstructure:"inputs"`
	Variants []VariantSpec `mapstructure:"variants"`
}

// ChoiceSpec selects the dispatch strategy of an enum.
type ChoiceSpec struct {
	Strategy string      `mapstructure:"strategy"` // basic / multi / struct / inline / bit_operator / input_length
	Fields   []FieldSpec `mapstructure:"fields"`
	Param    string      `mapstructure:"param"`  // struct: parameter name
	Struct   string      `mapstructure:"struct"` // struct: referenced struct
	Field    string      `mapstructure:"field"`  // struct: dispatch member
	Operator string      `mapstructure:"operator"`
	Mask     uint64      `mapstructure:"mask"`
}

// VariantSpec declares one enum variant. At most one of Fields, Struct,
// Enum, Empty and Eof applies; an empty field list is an anonymous variant
// with no payload.
type VariantSpec struct {
	Name   string      `mapstructure:"name"`
	Choice any         `mapstructure:"choice"` // integer literal, "_" or a verbatim expression
	Fields []FieldSpec `mapstructure:"fields"`
	Struct string      `mapstructure:"struct"`
	Enum   string      `mapstructure:"enum"`
	Empty  bool        `mapstructure:"empty"`
	Eof    bool        `mapstructure:"eof"`
}

// FieldSpec declares a field. Type is a numeric parser name (u8, be_u16,
// ...) or one of bytes, tag, ipv4, ipv6, mac, struct, enum, bits, vector,
// option, peek, skip, assert.
type FieldSpec struct {
	Name    string     `mapstructure:"name"`
	Type    string     `mapstructure:"type"`
	Const   *uint64    `mapstructure:"const"`
	Len     int        `mapstructure:"len"`
	Count   *CountSpec `mapstructure:"count"`
	Rest    bool       `mapstructure:"rest"`
	Bytes   []byte     `mapstructure:"bytes"`
	Ref     string     `mapstructure:"ref"`
	Bits    []BitSpec  `mapstructure:"bits"`
	Elem    *FieldSpec `mapstructure:"elem"`
	Loop    string     `mapstructure:"loop"` // unlimited / count / budget
	Cond    string     `mapstructure:"cond"`
	Discard bool       `mapstructure:"discard"`
}

// CountSpec declares a length or repetition count derived from a field.
type CountSpec struct {
	Field string `mapstructure:"field"`
	Unit  *int   `mapstructure:"unit"`
	Mode  string `mapstructure:"mode"` // mul / div
	Expr  string `mapstructure:"expr"` // verbatim expression, overrides the rest
}

// BitSpec declares one member of a bit group.
type BitSpec struct {
	Name  string `mapstructure:"name"`
	Width int    `mapstructure:"width"`
	Type  string `mapstructure:"type"`
}
