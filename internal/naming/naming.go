// Package naming converts schema type names into generated identifiers.
package naming

import (
	"strings"
	"unicode"
)

// SnakeCase converts a CamelCase type name to snake_case.
//
//	ModbusTCPRequest -> modbus_tcp_request
//	Iec104Apci       -> iec104_apci
//	already_snake    -> already_snake
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && needsBreak(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if r == '-' || r == ' ' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// needsBreak reports whether an underscore goes before the upper-case rune at i.
func needsBreak(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '_' {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// end of an acronym: "TCPRequest" breaks before "R"
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// ParserName is the name of the generated parse function for a type.
func ParserName(typeName string) string {
	return "parse_" + SnakeCase(typeName)
}
