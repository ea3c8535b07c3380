package protocols

import (
	"github.com/google/gopacket/layers"

	"firestige.xyz/nomgen/internal/schema"
)

func init() {
	mustRegister(Protocol{
		Name:        "ipv4",
		Description: "IPv4 packets dispatching to TCP, UDP and ICMP",
		Build:       ipv4Nodes,
	})
	mustRegister(Protocol{
		Name:        "tcp",
		Description: "TCP segments",
		Build:       single(tcpSegment),
	})
	mustRegister(Protocol{
		Name:        "udp",
		Description: "UDP datagrams",
		Build:       single(udpDatagram),
	})
}

func single(build func() (*schema.Struct, error)) Builder {
	return func() ([]schema.Node, error) {
		s, err := build()
		if err != nil {
			return nil, err
		}
		return []schema.Node{s}, nil
	}
}

func ipProtocol(p layers.IPProtocol) schema.Choice { return schema.Lit(uint64(p)) }

// headerWords sizes options from a header length counted in 32-bit words
// with a fixed part of five words.
func headerWords(name string) *schema.CountExpression {
	return schema.Count(name, schema.WithGenerator(func(n string) string {
		return "(" + n + " as usize - 5) * 4"
	}))
}

func tcpSegment() (*schema.Struct, error) {
	return schema.NewStruct("TcpSegment", []schema.Field{
		schema.BeU16("source_port"),
		schema.BeU16("destination_port"),
		schema.BeU32("sequence"),
		schema.BeU32("acknowledgement"),
		schema.Bits(
			schema.Bit{Name: "data_offset", Width: 4, Type: "u8"},
			schema.Bit{Name: "_reserved", Width: 3, Type: "u8"},
			schema.Bit{Name: "flags", Width: 9, Type: "u16"},
		),
		schema.BeU16("window"),
		schema.BeU16("checksum"),
		schema.BeU16("urgent_pointer"),
		schema.NewAssert("data_offset >= 5"),
		schema.CountedBytes("options", headerWords("data_offset")),
		schema.RestBytes("payload"),
	})
}

func udpDatagram() (*schema.Struct, error) {
	return schema.NewStruct("UdpDatagram", []schema.Field{
		schema.BeU16("source_port"),
		schema.BeU16("destination_port"),
		schema.BeU16("length"),
		schema.BeU16("checksum"),
		schema.NewAssert("length >= 8"),
		schema.CountedBytes("payload", schema.Count("length", schema.WithGenerator(func(n string) string {
			return n + " as usize - 8"
		}))),
	})
}

func ipv4Nodes() ([]schema.Node, error) {
	tcp, err := tcpSegment()
	if err != nil {
		return nil, err
	}
	udp, err := udpDatagram()
	if err != nil {
		return nil, err
	}

	payload := schema.NewStructEnum("Ipv4Payload", schema.NewBasicEnumChoice(schema.U8("protocol")), []schema.Variant{
		schema.Anonymous(ipProtocol(layers.IPProtocolICMPv4), "Icmp",
			schema.U8("icmp_type"),
			schema.U8("code"),
			schema.BeU16("checksum"),
			schema.RestBytes("data"),
		),
		schema.NewNamedStructVariant(ipProtocol(layers.IPProtocolTCP), "Tcp", tcp),
		schema.NewNamedStructVariant(ipProtocol(layers.IPProtocolUDP), "Udp", udp),
		schema.Anonymous(schema.Wildcard, "Unknown", schema.RestBytes("data")),
	})

	header, err := schema.NewStruct("Ipv4Packet", []schema.Field{
		schema.Bits(
			schema.Bit{Name: "version", Width: 4, Type: "u8"},
			schema.Bit{Name: "ihl", Width: 4, Type: "u8"},
		),
		schema.NewAssert("version == 4 && ihl >= 5"),
		schema.Bits(
			schema.Bit{Name: "dscp", Width: 6, Type: "u8"},
			schema.Bit{Name: "ecn", Width: 2, Type: "u8"},
		),
		schema.BeU16("total_length"),
		schema.BeU16("identification"),
		schema.Bits(
			schema.Bit{Name: "flags", Width: 3, Type: "u8"},
			schema.Bit{Name: "fragment_offset", Width: 13, Type: "u16"},
		),
		schema.U8("ttl"),
		schema.U8("protocol"),
		schema.BeU16("checksum"),
		schema.NewAddress("source", schema.IPv4),
		schema.NewAddress("destination", schema.IPv4),
		schema.CountedBytes("options", headerWords("ihl")),
		schema.EmbedEnum("payload", payload),
	})
	if err != nil {
		return nil, err
	}
	return []schema.Node{header}, nil
}
