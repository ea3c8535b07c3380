package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/nomgen/internal/protocols"
	"firestige.xyz/nomgen/internal/schema"
)

func TestRunList(t *testing.T) {
	r := protocols.NewRegistry()
	build := func() ([]schema.Node, error) { return nil, nil }
	require.NoError(t, r.Register(protocols.Protocol{Name: "zeta", Description: "last one", Build: build}))
	require.NoError(t, r.Register(protocols.Protocol{Name: "alpha", Description: "first one", Build: build}))

	var buf bytes.Buffer
	require.NoError(t, runList(r, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "PROTOCOL"))
	assert.Contains(t, lines[1], "alpha")
	assert.Contains(t, lines[1], "first one")
	assert.Contains(t, lines[2], "zeta")
}

func TestRunList_Builtins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runList(protocols.Default(), &buf))

	for _, name := range protocols.Names() {
		assert.Contains(t, buf.String(), name)
	}
}
