package protocols

import (
	"github.com/google/gopacket/layers"

	"firestige.xyz/nomgen/internal/schema"
)

func init() {
	mustRegister(Protocol{
		Name:        "ethernet",
		Description: "Ethernet II frames with ARP and 802.1Q payloads",
		Build:       ethernetNodes,
	})
}

func etherType(t layers.EthernetType) schema.Choice { return schema.Lit(uint64(t)) }

func ethernetNodes() ([]schema.Node, error) {
	arp, err := schema.NewStruct("ArpPacket", []schema.Field{
		schema.BeU16("hardware_type"),
		schema.BeU16("protocol_type"),
		schema.U8("hardware_size"),
		schema.U8("protocol_size"),
		schema.NewAssert("hardware_size == 6 && protocol_size == 4"),
		schema.BeU16("operation"),
		schema.NewAddress("sender_mac", schema.MAC),
		schema.NewAddress("sender_ip", schema.IPv4),
		schema.NewAddress("target_mac", schema.MAC),
		schema.NewAddress("target_ip", schema.IPv4),
	})
	if err != nil {
		return nil, err
	}

	vlan, err := schema.NewStruct("VlanTag", []schema.Field{
		schema.Bits(
			schema.Bit{Name: "priority", Width: 3, Type: "u8"},
			schema.Bit{Name: "drop_eligible", Width: 1, Type: "u8"},
			schema.Bit{Name: "vlan_id", Width: 12, Type: "u16"},
		),
		schema.BeU16("inner_type"),
		schema.RestBytes("payload"),
	})
	if err != nil {
		return nil, err
	}

	payload := schema.NewStructEnum("EthernetPayload", schema.NewBasicEnumChoice(schema.BeU16("ether_type")), []schema.Variant{
		schema.Anonymous(etherType(layers.EthernetTypeIPv4), "Ipv4", schema.RestBytes("data")),
		schema.NewNamedStructVariant(etherType(layers.EthernetTypeARP), "Arp", arp),
		schema.Anonymous(etherType(layers.EthernetTypeIPv6), "Ipv6", schema.RestBytes("data")),
		schema.NewNamedStructVariant(etherType(layers.EthernetTypeDot1Q), "Vlan", vlan),
		schema.Anonymous(schema.Wildcard, "Unknown", schema.RestBytes("data")),
	})

	frame, err := schema.NewStruct("EthernetFrame", []schema.Field{
		schema.NewAddress("destination", schema.MAC),
		schema.NewAddress("source", schema.MAC),
		schema.BeU16("ether_type"),
		schema.EmbedEnum("payload", payload),
	})
	if err != nil {
		return nil, err
	}
	return []schema.Node{frame}, nil
}
