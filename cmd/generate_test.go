package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"firestige.xyz/nomgen/internal/writer"
)

// MockWriter implements moduleWriter
type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) Targets(names, schemas []string) ([]writer.Target, error) {
	args := m.Called(names, schemas)
	targets, _ := args.Get(0).([]writer.Target)
	return targets, args.Error(1)
}

func (m *MockWriter) Run(ctx context.Context, targets []writer.Target) ([]writer.Result, error) {
	args := m.Called(ctx, targets)
	results, _ := args.Get(0).([]writer.Result)
	return results, args.Error(1)
}

func TestRunGenerate_Success(t *testing.T) {
	targets := []writer.Target{{Module: "modbus"}, {Module: "udp"}}
	mw := new(MockWriter)
	mw.On("Targets", []string{"modbus", "udp"}, []string(nil)).Return(targets, nil)
	mw.On("Run", mock.Anything, targets).Return([]writer.Result{
		{Module: "modbus", Path: "out/modbus.rs", Definitions: 31},
		{Module: "udp", Path: "out/udp.rs", Definitions: 2},
	}, nil)

	var buf bytes.Buffer
	err := runGenerate(context.Background(), mw, []string{"modbus", "udp"}, nil, "out", &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ out/modbus.rs (31 definitions)")
	assert.Contains(t, buf.String(), "✓ out/udp.rs (2 definitions)")
	assert.Contains(t, buf.String(), "✓ "+filepath.Join("out", "mod.rs"))
	assert.Contains(t, buf.String(), "Generated 2 module(s) in out")
	mw.AssertExpectations(t)
}

func TestRunGenerate_TargetsFailure(t *testing.T) {
	mw := new(MockWriter)
	mw.On("Targets", []string{"dnp3"}, []string(nil)).Return(nil, errors.New("unknown protocol"))

	var buf bytes.Buffer
	err := runGenerate(context.Background(), mw, []string{"dnp3"}, nil, "out", &buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve targets")
	assert.Contains(t, err.Error(), "unknown protocol")
	assert.Empty(t, buf.String())
	mw.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestRunGenerate_RunFailure(t *testing.T) {
	mw := new(MockWriter)
	mw.On("Targets", mock.Anything, mock.Anything).Return([]writer.Target{{Module: "x"}}, nil)
	mw.On("Run", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	var buf bytes.Buffer
	err := runGenerate(context.Background(), mw, nil, nil, "out", &buf)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "generation failed")
	assert.Empty(t, buf.String())
	mw.AssertExpectations(t)
}

func TestGenerateCmd_Execute(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "gen")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"generate", "udp", "modbus", "-o", out, "-w", "1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "Generated 2 module(s)")
	for _, name := range []string{"udp.rs", "modbus.rs", "mod.rs"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	index, err := os.ReadFile(filepath.Join(out, "mod.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "pub mod modbus;")
	assert.Contains(t, string(index), "pub mod udp;")
}
