package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/cli"
	"github.com/rshade/zerodesign/internal/config"
)

// setupCLITest isolates the config home and resets global state. It
// returns the config home.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ZERODESIGN_HOME", home)
	t.Setenv("ZERODESIGN_LOG_LEVEL", "error")
	t.Setenv("ZERODESIGN_PROJECT_DIR", "")
	t.Setenv("ZERODESIGN_OUTPUT_FORMAT", "")
	t.Setenv("ZERODESIGN_TRACE_ID", "")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

// executeCLI runs the root command with args and returns stdout. Errors
// printed by cobra land in the separate stderr buffer.
func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCLIWithInput(t, strings.NewReader(""), args...)
}

func executeCLIWithInput(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(in)
	cmd.SetArgs(args)
	err := cmd.Execute()
	config.ResetGlobalConfigForTest()
	return stdout.String(), err
}

// decodeJSON unmarshals command output into v.
func decodeJSON(t *testing.T, out string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), "output was: %s", out)
}

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const teeYAML = `name: Basic Tee
category: Tops
weight_grams: 200
fibers:
  - type: Pamuk
    percentage: 100
processes:
  dyeing:
    natural_dye: false
`
