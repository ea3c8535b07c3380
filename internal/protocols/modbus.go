package protocols

import (
	"firestige.xyz/nomgen/internal/schema"
)

func init() {
	mustRegister(Protocol{
		Name:        "modbus",
		Description: "Modbus TCP requests and responses",
		Build:       modbusNodes,
	})
}

// Modbus function codes.
const (
	fcReadCoils              = 0x01
	fcReadDiscreteInputs     = 0x02
	fcReadHoldingRegisters   = 0x03
	fcReadInputRegisters     = 0x04
	fcWriteSingleCoil        = 0x05
	fcWriteSingleRegister    = 0x06
	fcReadExceptionStatus    = 0x07
	fcWriteMultipleCoils     = 0x0f
	fcWriteMultipleRegisters = 0x10
	fcReadFileRecord         = 0x14
	fcEncapsulatedInterface  = 0x2b

	exceptionFlag = 0x80
)

func mbapHeader() (*schema.Struct, error) {
	protocolID, err := schema.NewConst("_protocol_id", "be_u16", 0)
	if err != nil {
		return nil, err
	}
	return schema.NewStruct("MbapHeader", []schema.Field{
		schema.BeU16("transaction_id"),
		protocolID,
		schema.BeU16("length"),
		schema.U8("unit_id"),
	})
}

// registerWords counts 16-bit registers from a byte count.
func registerWords(name string) *schema.CountExpression {
	return schema.Count(name, schema.WithUnitSize(2), schema.WithMode(schema.Div))
}

func modbusRequestPdu() (*schema.StructEnum, error) {
	read, err := schema.NewStruct("ReadRequest", []schema.Field{
		schema.BeU16("address"),
		schema.BeU16("quantity"),
	})
	if err != nil {
		return nil, err
	}

	referenceType, err := schema.NewConst("reference_type", "u8", 0x06)
	if err != nil {
		return nil, err
	}
	subRequest, err := schema.NewStruct("FileSubRequest", []schema.Field{
		referenceType,
		schema.BeU16("file_number"),
		schema.BeU16("record_number"),
		schema.BeU16("record_length"),
	})
	if err != nil {
		return nil, err
	}
	subRequests, err := schema.NewBudgetVector("sub_requests", schema.Embed("", subRequest), schema.Count("byte_count"))
	if err != nil {
		return nil, err
	}

	choice := schema.NewBasicEnumChoice(schema.U8("function_code"))
	return schema.NewStructEnum("RequestPdu", choice, []schema.Variant{
		schema.NewNamedStructVariant(schema.Lit(fcReadCoils), "ReadCoils", read),
		schema.NewNamedStructVariant(schema.Lit(fcReadDiscreteInputs), "ReadDiscreteInputs", read),
		schema.NewNamedStructVariant(schema.Lit(fcReadHoldingRegisters), "ReadHoldingRegisters", read),
		schema.NewNamedStructVariant(schema.Lit(fcReadInputRegisters), "ReadInputRegisters", read),
		schema.Anonymous(schema.Lit(fcWriteSingleCoil), "WriteSingleCoil",
			schema.BeU16("address"),
			schema.BeU16("value"),
		),
		schema.Anonymous(schema.Lit(fcWriteSingleRegister), "WriteSingleRegister",
			schema.BeU16("address"),
			schema.BeU16("value"),
		),
		schema.NewEofVariant(schema.Lit(fcReadExceptionStatus), "ReadExceptionStatus"),
		schema.Anonymous(schema.Lit(fcWriteMultipleCoils), "WriteMultipleCoils",
			schema.BeU16("address"),
			schema.BeU16("quantity"),
			schema.U8("byte_count"),
			schema.CountedBytes("values", schema.Count("byte_count")),
		),
		schema.Anonymous(schema.Lit(fcWriteMultipleRegisters), "WriteMultipleRegisters",
			schema.BeU16("address"),
			schema.BeU16("quantity"),
			schema.U8("byte_count"),
			schema.CountedVector("values", schema.BeU16(""), registerWords("byte_count")),
		),
		schema.Anonymous(schema.Lit(fcReadFileRecord), "ReadFileRecord",
			schema.U8("byte_count"),
			subRequests,
		),
		schema.Anonymous(schema.Lit(fcEncapsulatedInterface), "EncapsulatedInterface",
			schema.U8("mei_type"),
			schema.RestBytes("data"),
		),
		schema.Anonymous(schema.Wildcard, "Unknown", schema.RestBytes("data")),
	}), nil
}

func modbusResponsePdu() (*schema.StructEnum, error) {
	functionCode := schema.U8("function_code")

	// Read responses share one variant per payload shape.
	body := schema.NewStructEnum("ResponseBody", schema.NewBasicEnumChoice(functionCode), []schema.Variant{
		schema.Anonymous(schema.Lit(fcReadCoils), "ReadBits",
			schema.U8("byte_count"),
			schema.CountedBytes("values", schema.Count("byte_count")),
		),
		schema.Anonymous(schema.Lit(fcReadDiscreteInputs), "ReadBits",
			schema.U8("byte_count"),
			schema.CountedBytes("values", schema.Count("byte_count")),
		),
		schema.Anonymous(schema.Lit(fcReadHoldingRegisters), "ReadRegisters",
			schema.U8("byte_count"),
			schema.CountedVector("values", schema.BeU16(""), registerWords("byte_count")),
		),
		schema.Anonymous(schema.Lit(fcReadInputRegisters), "ReadRegisters",
			schema.U8("byte_count"),
			schema.CountedVector("values", schema.BeU16(""), registerWords("byte_count")),
		),
		schema.Anonymous(schema.Lit(fcWriteSingleCoil), "WriteSingle", schema.BeU16("address"), schema.BeU16("value")),
		schema.Anonymous(schema.Lit(fcWriteSingleRegister), "WriteSingle", schema.BeU16("address"), schema.BeU16("value")),
		schema.Anonymous(schema.Lit(fcWriteMultipleCoils), "WriteMultiple", schema.BeU16("address"), schema.BeU16("quantity")),
		schema.Anonymous(schema.Lit(fcWriteMultipleRegisters), "WriteMultiple", schema.BeU16("address"), schema.BeU16("quantity")),
		schema.Anonymous(schema.Wildcard, "Unknown", schema.RestBytes("data")),
	})

	choice, err := schema.NewArgsBitOperatorChoice(functionCode, "&", exceptionFlag)
	if err != nil {
		return nil, err
	}
	return schema.NewStructEnum("ResponsePdu", choice, []schema.Variant{
		schema.Anonymous(schema.Lit(exceptionFlag), "Exception", schema.U8("exception_code")),
		schema.NewNamedEnumVariant(schema.Wildcard, "Normal", body),
	}), nil
}

func modbusNodes() ([]schema.Node, error) {
	header, err := mbapHeader()
	if err != nil {
		return nil, err
	}
	request, err := modbusRequestPdu()
	if err != nil {
		return nil, err
	}
	response, err := modbusResponsePdu()
	if err != nil {
		return nil, err
	}

	requestFrame, err := schema.NewStruct("ModbusRequest", []schema.Field{
		schema.Embed("header", header),
		schema.U8("function_code"),
		schema.EmbedEnum("pdu", request),
	})
	if err != nil {
		return nil, err
	}
	responseFrame, err := schema.NewStruct("ModbusResponse", []schema.Field{
		schema.Embed("header", header),
		schema.U8("function_code"),
		schema.EmbedEnum("pdu", response),
	})
	if err != nil {
		return nil, err
	}
	return []schema.Node{requestFrame, responseFrame}, nil
}
