package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointYAML = `
module: point
structs:
  - name: Point
    fields:
      - {name: x, type: be_u16}
      - {name: y, type: be_u16}
  - name: Segment
    fields:
      - {name: from, type: struct, ref: Point}
      - {name: to, type: struct, ref: Point}
`

func writeSchema(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunValidate_Valid(t *testing.T) {
	path := writeSchema(t, "point.yaml", pointYAML)

	var out, errOut bytes.Buffer
	err := runValidate(path, &out, &errOut)

	require.NoError(t, err)
	assert.Contains(t, out.String(), `VALID: module "point", 2 node(s)`)
	assert.Empty(t, errOut.String())
}

func TestRunValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{
			name:    "unknown reference",
			file:    "bad.yaml",
			content: "structs:\n  - name: A\n    fields:\n      - {name: b, type: struct, ref: Missing}\n",
			wantMsg: "Missing",
		},
		{
			name:    "unsupported format",
			file:    "schema.json",
			content: "{}",
			wantMsg: "INVALID:",
		},
		{
			name:    "malformed toml",
			file:    "bad.toml",
			content: "[[structs]\nname = ",
			wantMsg: "INVALID:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSchema(t, tt.file, tt.content)

			var out, errOut bytes.Buffer
			err := runValidate(path, &out, &errOut)

			assert.ErrorIs(t, err, errInvalidSchema)
			assert.Empty(t, out.String())
			assert.Contains(t, errOut.String(), "INVALID:")
			assert.Contains(t, errOut.String(), tt.wantMsg)
		})
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	err := runValidate(filepath.Join(t.TempDir(), "absent.yaml"), &out, &errOut)

	assert.ErrorIs(t, err, errInvalidSchema)
	assert.Contains(t, errOut.String(), "INVALID:")
}
