package protocols

import (
	"firestige.xyz/nomgen/internal/schema"
)

func init() {
	mustRegister(Protocol{
		Name:        "iec104",
		Description: "IEC 60870-5-104 APDUs",
		Build:       iec104Nodes,
	})
}

const iec104StartByte = 0x68

func iec104Nodes() ([]schema.Node, error) {
	asdu, err := schema.NewStruct("Asdu", []schema.Field{
		schema.U8("type_id"),
		schema.Bits(
			schema.Bit{Name: "sequence", Width: 1, Type: "u8"},
			schema.Bit{Name: "count", Width: 7, Type: "u8"},
		),
		schema.Bits(
			schema.Bit{Name: "test", Width: 1, Type: "u8"},
			schema.Bit{Name: "negative", Width: 1, Type: "u8"},
			schema.Bit{Name: "cause", Width: 6, Type: "u8"},
		),
		schema.U8("originator"),
		schema.LeU16("common_address"),
		schema.RestBytes("objects"),
	})
	if err != nil {
		return nil, err
	}

	// The frame format lives in the low bits of the first control octet:
	// xxxxxxx0 information, xxxxxx01 supervisory, xxxxxx11 unnumbered.
	choice := schema.NewEnumMultiChoice(
		schema.U8("control1"),
		schema.U8("control2"),
		schema.U8("control3"),
		schema.U8("control4"),
	)
	apci, err := schema.NewIfStructEnum("Apci", choice, []schema.Variant{
		schema.Anonymous(schema.Expr("control1 & 0x01 == 0x00"), "Information",
			schema.Computed("send_sequence", "u16", "((control2 as u16) << 7) | ((control1 as u16) >> 1)"),
			schema.Computed("receive_sequence", "u16", "((control4 as u16) << 7) | ((control3 as u16) >> 1)"),
			schema.Embed("asdu", asdu),
		),
		schema.Anonymous(schema.Expr("control1 & 0x03 == 0x01"), "Supervisory",
			schema.Computed("receive_sequence", "u16", "((control4 as u16) << 7) | ((control3 as u16) >> 1)"),
		),
		schema.Anonymous(schema.Wildcard, "Unnumbered",
			schema.Computed("function", "u8", "control1 & 0xfc"),
		),
	})
	if err != nil {
		return nil, err
	}

	start, err := schema.NewConst("_start", "u8", iec104StartByte)
	if err != nil {
		return nil, err
	}
	apdu, err := schema.NewStruct("Apdu", []schema.Field{
		start,
		schema.U8("length"),
		schema.NewAssert("length >= 4"),
		schema.U8("control1"),
		schema.U8("control2"),
		schema.U8("control3"),
		schema.U8("control4"),
		schema.EmbedEnum("apci", apci),
	})
	if err != nil {
		return nil, err
	}
	return []schema.Node{apdu}, nil
}
