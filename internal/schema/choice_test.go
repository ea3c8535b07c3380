package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHex(t *testing.T) {
	tests := []struct {
		value    uint64
		expected string
	}{
		{0, "0x00"},
		{1, "0x01"},
		{0x80, "0x80"},
		{0xff, "0xff"},
		{257, "0x0101"},
		{0x10000, "0x010000"},
		{0xdeadbeef, "0xdeadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatHex(tt.value))
		})
	}
}

func TestChoiceString(t *testing.T) {
	assert.Equal(t, "_", Wildcard.String())
	assert.Equal(t, "0x03", Lit(3).String())
	assert.Equal(t, "0x01..=0x04", Expr("0x01..=0x04").String())
	assert.True(t, Wildcard.IsWildcard())
	assert.True(t, Lit(3).IsLiteral())
	assert.False(t, Expr("x").IsLiteral())
}

func TestChoiceStrategies(t *testing.T) {
	header := MustStruct("Header", []Field{U8("function_code"), BeU16("length")})
	structChoice, err := NewStructChoice("header", header, "function_code")
	require.NoError(t, err)
	bitChoice, err := NewArgsBitOperatorChoice(U8("function_code"), "&", 0x80)
	require.NoError(t, err)
	shiftChoice, err := NewArgsBitOperatorChoice(U8("control"), ">>", 4)
	require.NoError(t, err)

	tests := []struct {
		name      string
		strategy  ChoiceStrategy
		target    string
		condition string
		signature string
		argument  string
		inline    bool
	}{
		{
			"basic", NewBasicEnumChoice(U8("kind")),
			"kind", "kind == 0x02", "kind: u8", "kind", false,
		},
		{
			"multi", NewEnumMultiChoice(U8("a"), U8("b")),
			"(a, b)", "(a, b) == 0x02", "a: u8, b: u8", "a, b", false,
		},
		{
			"struct", structChoice,
			"header.function_code", "header.function_code == 0x02", "header: &Header", "&header", false,
		},
		{
			"inline", NewInlineChoice(U8("tag")),
			"tag", "tag == 0x02", "", "", true,
		},
		{
			"bit operator", bitChoice,
			"function_code & 0x80", "(function_code & 0x80) == 0x02", "function_code: u8", "function_code", false,
		},
		{
			"shift", shiftChoice,
			"control >> 4", "(control >> 4) == 0x02", "control: u8", "control", false,
		},
		{
			"input length", NewInputLengthChoice(),
			"input.len()", "input.len() == 0x02", "", "", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.target, tt.strategy.AsMatchTarget())
			assert.Equal(t, tt.condition, tt.strategy.Condition(Lit(2)))
			assert.Equal(t, tt.signature, tt.strategy.AsEnumParserFunctionParameterSignature())
			assert.Equal(t, tt.argument, tt.strategy.AsEnumParserInvocationArgument())
			assert.Equal(t, tt.inline, tt.strategy.IsInline())
			assert.Equal(t, tt.signature == "", tt.strategy.NoParameter())
		})
	}
}

func TestChoiceExpressionConditions(t *testing.T) {
	basic := NewBasicEnumChoice(U8("kind"))
	assert.Equal(t, "matches!(kind, 0x01..=0x04)", basic.Condition(Expr("0x01..=0x04")))

	multi := NewEnumMultiChoice(U8("a"), U8("b"))
	assert.Equal(t, "a & 0x01 == 0x00", multi.Condition(Expr("a & 0x01 == 0x00")))

	single := NewEnumMultiChoice(U8("a"))
	assert.Equal(t, "a", single.AsMatchTarget())
}

func TestInlineChoicePrelude(t *testing.T) {
	c := NewInlineChoice(U8("tag"))
	assert.Equal(t, "let (_, tag) = peek(u8)(input)?;", c.Prelude())
	assert.Empty(t, c.Parameters())
}

func TestChoiceErrors(t *testing.T) {
	header := MustStruct("Header", []Field{U8("function_code")})
	_, err := NewStructChoice("header", header, "missing")
	assert.ErrorIs(t, err, ErrMissingMatchField)

	_, err = NewArgsBitOperatorChoice(U8("f"), "%", 1)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}
