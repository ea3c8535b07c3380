package writer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/nomgen/internal/config"
	"firestige.xyz/nomgen/internal/gen"
	"firestige.xyz/nomgen/internal/protocols"
	"firestige.xyz/nomgen/internal/schema"
)

func pairTarget(module string) Target {
	return Target{
		Module: module,
		Nodes:  []schema.Node{schema.MustStruct("Pair", []schema.Field{schema.U8("a"), schema.BeU16("b")})},
	}
}

func TestRender(t *testing.T) {
	w := New(Options{})
	src, n, err := w.Render(pairTarget("pair"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, gen.Prelude+"\n"))
	assert.Contains(t, src, "pub fn parse_pair(input: &[u8]) -> IResult<&[u8], Pair> {")
	assert.Equal(t, 1, n)
}

func TestRenderRuleArgs(t *testing.T) {
	w := New(Options{RuleArgs: true})
	target := Target{
		Module: "framed",
		Nodes: []schema.Node{schema.MustStruct("Framed", []schema.Field{
			schema.U8("len"),
			schema.CountedBytes("data", schema.Count("len")),
		})},
	}

	src, n, err := w.Render(target)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, src, "pub struct FramedRuleArgs {\n    pub len: u8,\n}\n")
	assert.Contains(t, src, "    let (input, _data) = take(len)(input)?;\n")
}

func TestRunWritesModules(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := New(Options{OutputDir: dir, Workers: 2})

	targets := []Target{pairTarget("zeta"), pairTarget("alpha"), pairTarget("mid")}
	results, err := w.Run(context.Background(), targets)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "zeta", results[0].Module)
	assert.Equal(t, filepath.Join(dir, "zeta.rs"), results[0].Path)

	for _, m := range []string{"zeta", "alpha", "mid"} {
		data, err := os.ReadFile(filepath.Join(dir, m+".rs"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "pub struct Pair {")
	}

	index, err := os.ReadFile(filepath.Join(dir, ModFile))
	require.NoError(t, err)
	want := modHeader + "pub mod alpha;\npub mod mid;\npub mod zeta;\n"
	if diff := cmp.Diff(want, string(index)); diff != "" {
		t.Errorf("mod.rs mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDeterministic(t *testing.T) {
	read := func() string {
		dir := t.TempDir()
		w := New(Options{OutputDir: dir})
		targets, err := w.Targets([]string{"modbus"}, nil)
		require.NoError(t, err)
		_, err = w.Run(context.Background(), targets)
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, "modbus.rs"))
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, read(), read())
}

func TestRunRejectsModules(t *testing.T) {
	tests := []struct {
		name    string
		targets []Target
		err     error
	}{
		{"duplicate", []Target{pairTarget("a"), pairTarget("a")}, ErrDuplicateModule},
		{"uppercase", []Target{pairTarget("Modbus")}, ErrInvalidModule},
		{"empty", []Target{pairTarget("")}, ErrInvalidModule},
		{"index name", []Target{pairTarget("mod")}, ErrInvalidModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			_, err := New(Options{OutputDir: dir}).Run(context.Background(), tt.targets)
			assert.ErrorIs(t, err, tt.err)
			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRunGenerationError(t *testing.T) {
	broken := &schema.Code{Binding: "x", Type: "u8", Invocation: "parse_x", UserDefined: true}
	target := Target{Module: "broken", Nodes: []schema.Node{schema.MustStruct("Broken", []schema.Field{broken})}}

	_, err := New(Options{OutputDir: t.TempDir()}).Run(context.Background(), []Target{target})
	assert.ErrorIs(t, err, schema.ErrMissingParserImplementation)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{OutputDir: t.TempDir()}).Run(ctx, []Target{pairTarget("pair")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTargets(t *testing.T) {
	r := protocols.NewRegistry()
	require.NoError(t, r.Register(protocols.Protocol{
		Name:  "pair",
		Build: func() ([]schema.Node, error) { return pairTarget("pair").Nodes, nil },
	}))

	dir := t.TempDir()
	path := filepath.Join(dir, "extra.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[structs]]
name = "Extra"
fields = [{ name = "x", type = "u8" }]
`), 0o644))

	w := New(Options{OutputDir: dir}).WithRegistry(r)

	all, err := w.Targets(nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "pair", all[0].Module)

	mixed, err := w.Targets([]string{"pair"}, []string{path})
	require.NoError(t, err)
	require.Len(t, mixed, 2)
	assert.Equal(t, "extra", mixed[1].Module)
	assert.Equal(t, "Extra", mixed[1].Nodes[0].Name())

	_, err = w.Targets([]string{"bacnet"}, nil)
	assert.ErrorIs(t, err, protocols.ErrUnknownProtocol)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.GlobalConfig{OutputDir: "out", Workers: 3, RuleArgs: config.RuleArgConfig{Enabled: true}}
	w := FromConfig(cfg)
	assert.Equal(t, Options{OutputDir: "out", Workers: 3, RuleArgs: true}, w.opts)
}
