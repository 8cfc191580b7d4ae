package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/ende/internal/config"
	"github.com/stolasapp/ende/internal/convert"
	"github.com/stolasapp/ende/internal/detect"
)

// testConfig writes a config file whose database lives in a temp dir.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.LogLevel = config.LogLevelError
	cfg.DBFilepath = filepath.Join(dir, "flows.sqlite")
	path := filepath.Join(dir, "ende.yaml")
	require.NoError(t, config.Write(path, cfg))
	return path
}

func execute(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := RootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestList(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	out, err := execute(t, cfg, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "encode/base64")
	assert.Contains(t, out, "decode/json-parse")

	out, err = execute(t, cfg, "", "list", "decode")
	require.NoError(t, err)
	assert.NotContains(t, out, "encode/")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(convert.List(convert.Decode)))

	_, err = execute(t, cfg, "", "list", "transcode")
	require.ErrorIs(t, err, convert.ErrUnknownGroup)
}

func TestForge(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	inputFile := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(inputFile, []byte("a b"), 0o600))

	tests := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr error
	}{
		{
			name:  "stdin",
			stdin: "a b",
			args:  []string{"forge", "uri", "base64"},
			want:  "YSUyMGI=\n",
		},
		{
			name:  "stdin keeps trailing newline",
			stdin: "a b\n",
			args:  []string{"forge", "uri"},
			want:  "a%20b%0A\n",
		},
		{
			name:  "trim drops trailing newline",
			stdin: "a b\n",
			args:  []string{"forge", "--trim", "uri"},
			want:  "a%20b\n",
		},
		{
			name:  "trim drops trailing CRLF once",
			stdin: "a b\r\n\r\n",
			args:  []string{"forge", "-t", "uri"},
			want:  "a%20b%0D%0A\n",
		},
		{
			name: "input flag",
			args: []string{"forge", "--input", "a b", "base64", "uri"},
			want: "YSBi\n",
		},
		{
			name: "empty input flag",
			args: []string{"forge", "--input", "", "json"},
			want: "\"\"\n",
		},
		{
			name: "file",
			args: []string{"forge", "--file", inputFile, "hex"},
			want: "612062\n",
		},
		{
			name:    "failure prints sentinel",
			stdin:   "not base64!",
			args:    []string{"forge", "base64-decode"},
			want:    convert.Sentinel + "\n",
			wantErr: convert.ErrInvalidConversion,
		},
		{
			name:    "unknown step",
			args:    []string{"forge", "--input", "x", "rot13"},
			wantErr: convert.ErrNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, cfg, test.stdin, test.args...)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, test.want, out)
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	out, err := execute(t, cfg, `{"a": [1, 2]}`, "detect")
	require.NoError(t, err)
	assert.Equal(t, string(detect.JSON)+"\n", out)

	out, err = execute(t, cfg, "", "detect", "--input", "<!DOCTYPE html><html></html>")
	require.NoError(t, err)
	assert.Equal(t, string(detect.HTML)+"\n", out)

	out, err = execute(t, cfg, "", "labels")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(detect.Labels()))
}

func TestFlow(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	_, err := execute(t, cfg, "", "flow", "save", "b64uri", "base64", "encode/uri")
	require.NoError(t, err)

	out, err := execute(t, cfg, "", "flow", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "b64uri")
	assert.Contains(t, out, "encode/base64 encode/uri")

	out, err = execute(t, cfg, "", "flow", "show", "b64uri")
	require.NoError(t, err)
	assert.Contains(t, out, "1. encode/base64")
	assert.Contains(t, out, "2. encode/uri")

	out, err = execute(t, cfg, "a b", "flow", "run", "b64uri")
	require.NoError(t, err)
	assert.Equal(t, "YSBi\n", out)

	// declined
	_, err = execute(t, cfg, "n\n", "flow", "delete", "b64uri")
	require.NoError(t, err)
	_, err = execute(t, cfg, "", "flow", "show", "b64uri")
	require.NoError(t, err)

	_, err = execute(t, cfg, "y\n", "flow", "delete", "b64uri")
	require.NoError(t, err)
	_, err = execute(t, cfg, "", "flow", "show", "b64uri")
	require.Error(t, err)

	_, err = execute(t, cfg, "", "flow", "save", "bad", "rot13")
	require.Error(t, err)
	_, err = execute(t, cfg, "", "flow", "save", "other", "hex")
	require.NoError(t, err)
	_, err = execute(t, cfg, "", "flow", "delete", "--yes", "other")
	require.NoError(t, err)
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "ende.yaml")

	out, err := execute(t, path, "", "config", "init")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = execute(t, path, "", "config", "init")
	require.ErrorContains(t, err, "already exists")
	_, err = execute(t, path, "", "config", "init", "--force")
	require.NoError(t, err)
}

func TestMissingConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	out, err := execute(t, filepath.Join(t.TempDir(), "missing.yaml"), "", "labels")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
