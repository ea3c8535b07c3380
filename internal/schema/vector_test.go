package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sevenByteItem() *Struct {
	return MustStruct("Item", []Field{
		U8("reference_type"),
		BeU16("file_number"),
		BeU16("record_number"),
		BeU16("record_length"),
	})
}

func TestVectorStatements(t *testing.T) {
	tests := []struct {
		name     string
		vector   *Vector
		expected string
	}{
		{
			"unlimited",
			UnlimitedVector("values", BeU16("")),
			"let (input, values) = many0(complete(be_u16))(input)?;",
		},
		{
			"by count",
			CountedVector("values", BeU16(""), Count("quantity")),
			"let (input, values) = nom::multi::count(be_u16, quantity as usize)(input)?;",
		},
		{
			"by count with unit",
			CountedVector("values", BeU16(""), Count("byte_count", WithUnitSize(2), WithMode(Div))),
			"let (input, values) = nom::multi::count(be_u16, (byte_count as usize / 2 as usize))(input)?;",
		},
		{
			"by budget",
			BudgetVector("items", Embed("", sevenByteItem()), Count("byte_count")),
			"let (input, items) = parse_item_by_budget(input, byte_count as usize)?;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.vector.GenerateParseStatement())
		})
	}
}

func TestBudgetLoopHelper(t *testing.T) {
	v := BudgetVector("items", Embed("", sevenByteItem()), Count("byte_count"))
	assert.Equal(t, ByBudget, v.Strategy())
	assert.True(t, v.IsUserDefined())

	fn := v.GenerateFunction()
	require.NotNil(t, fn)
	assert.Equal(t, "parse_item_by_budget", fn.Name)

	expected := `impl Item {
    pub fn size(&self) -> usize {
        7
    }
}

fn parse_item_by_budget(input: &[u8], budget: usize) -> IResult<&[u8], Vec<Item>> {
    let mut input = input;
    let mut budget = budget;
    let mut items = Vec::new();
    while budget > 0 {
        let (rest, item) = parse_item(input)?;
        let size = item.size();
        if size == 0 || size > budget {
            return ` + VerifyError + `;
        }
        budget -= size;
        items.push(item);
        input = rest;
    }
    Ok((input, items))
}
`
	assert.Equal(t, expected, fn.Code)
	assert.Equal(t, 1, strings.Count(fn.Code, "budget -= size;"))
}

func TestVectorElementHelper(t *testing.T) {
	inner := BudgetVector("", Embed("", sevenByteItem()), Count("byte_count"))
	tests := []struct {
		name   string
		vector *Vector
	}{
		{"unlimited", UnlimitedVector("groups", NewOption("", inner, "byte_count > 0"))},
		{"by count", CountedVector("groups", NewOption("", inner, "byte_count > 0"), Count("quantity"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := tt.vector.GenerateFunction()
			require.NotNil(t, fn)
			assert.Equal(t, "parse_item_by_budget", fn.Name)
			assert.Equal(t, inner.GenerateFunction().Code, fn.Code)
		})
	}

	assert.Nil(t, CountedVector("values", BeU16(""), Count("quantity")).GenerateFunction())
}

func TestBudgetLoopNumericElement(t *testing.T) {
	v := BudgetVector("registers", BeU16(""), Count("byte_count"))
	fn := v.GenerateFunction()
	require.NotNil(t, fn)
	assert.Equal(t, "parse_be_u16_by_budget", fn.Name)
	assert.Contains(t, fn.Code, "let (rest, item) = be_u16(input)?;")
	assert.Contains(t, fn.Code, "let size = 2;")
	assert.NotContains(t, fn.Code, "impl ")
}

func TestBudgetLoopReferenceElement(t *testing.T) {
	record := MustStruct("Record", []Field{
		U8("len"),
		CountedBytes("data", Count("len")),
	})
	expr, err := record.SizeExpression("self.")
	require.NoError(t, err)
	assert.Equal(t, "1 + self.data.len()", expr)

	v := BudgetVector("records", Embed("", record), Count("total"))
	fn := v.GenerateFunction()
	require.NotNil(t, fn)
	assert.Contains(t, fn.Code, "impl<'a> Record<'a> {")
	assert.Contains(t, fn.Code, "fn parse_record_by_budget<'a>(input: &'a [u8], budget: usize) -> IResult<&'a [u8], Vec<Record<'a>>> {")
}

func TestBudgetLoopUnsized(t *testing.T) {
	hidden := MustStruct("Hidden", []Field{
		U8("len"),
		CountedBytes("_data", Count("len")),
	})
	_, err := NewBudgetVector("items", Embed("", hidden), Count("total"))
	assert.ErrorIs(t, err, ErrUnsizedElement)

	e := NewStructEnum("Body", NewInputLengthChoice(), nil)
	_, err = NewBudgetVector("items", EmbedEnum("", e), Count("total"))
	assert.ErrorIs(t, err, ErrUnsizedElement)

	withArgs := MustStruct("WithArgs", []Field{U8("a")}, WithExtraInputs(U8("n")))
	_, err = NewBudgetVector("items", Embed("", withArgs), Count("total"))
	assert.ErrorIs(t, err, ErrUnsizedElement)
}

func TestNestedSizeExpression(t *testing.T) {
	inner := MustStruct("Inner", []Field{U8("n"), CountedBytes("payload", Count("n"))})
	outer := MustStruct("Outer", []Field{
		BeU16("id"),
		Embed("inner", inner),
		CountedVector("words", BeU16(""), Count("id")),
		Bits(Bit{Name: "a", Width: 4, Type: "u8"}, Bit{Name: "b", Width: 12, Type: "u16"}),
	})
	expr, err := outer.SizeExpression("self.")
	require.NoError(t, err)
	assert.Equal(t, "5 + self.inner.payload.len() + self.words.len() * 2", expr)
}
