package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/nomgen/internal/schema"
)

func emptyBuilder() ([]schema.Node, error) { return nil, nil }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Protocol{Name: "Dnp3", Build: emptyBuilder}))

	p, err := r.Get("dnp3")
	require.NoError(t, err)
	assert.Equal(t, "dnp3", p.Name)

	p, err = r.Get("DNP3")
	require.NoError(t, err)
	assert.Equal(t, "dnp3", p.Name)

	err = r.Register(Protocol{Name: "dnp3", Build: emptyBuilder})
	assert.ErrorIs(t, err, ErrDuplicateProtocol)

	_, err = r.Get("bacnet")
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}

func TestRegistryRejectsIncomplete(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(Protocol{Build: emptyBuilder}))
	assert.Error(t, r.Register(Protocol{Name: "x"}))
	assert.Empty(t, r.Names())
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"udp", "arp", "modbus"} {
		require.NoError(t, r.Register(Protocol{Name: name, Build: emptyBuilder}))
	}
	assert.Equal(t, []string{"arp", "modbus", "udp"}, r.Names())

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "arp", list[0].Name)
	assert.Equal(t, "udp", list[2].Name)
}

func TestBuiltinNames(t *testing.T) {
	assert.Equal(t, []string{"ethernet", "iec104", "ipv4", "modbus", "tcp", "udp"}, Names())
	assert.Same(t, builtins, Default())
}
