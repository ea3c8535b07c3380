package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Pair", "pair"},
		{"ModbusTCPRequest", "modbus_tcp_request"},
		{"Iec104Apci", "iec104_apci"},
		{"IPv4Header", "i_pv4_header"},
		{"Ipv4Header", "ipv4_header"},
		{"MBAPHeader", "mbap_header"},
		{"already_snake", "already_snake"},
		{"ReadFileRecordSubRequest", "read_file_record_sub_request"},
		{"S7Comm", "s7_comm"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SnakeCase(tt.input))
		})
	}
}

func TestParserName(t *testing.T) {
	assert.Equal(t, "parse_modbus_request", ParserName("ModbusRequest"))
}
