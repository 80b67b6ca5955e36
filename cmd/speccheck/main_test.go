package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savedResponse = "Here is the spec:\n" +
	`{"prompt":"lighthouse at dusk","params":{"engine":"flux","resolution":"768x768","cfg_scale":6.5,"steps":28,"sampler":"dpm++","seed":42}}` +
	"\nEnjoy!"

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("DEFAULT_ENGINE", "stable")
	t.Setenv("ALLOWED_ENGINES", "stable,sdxl,flux")
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCheck_Valid(t *testing.T) {
	code, out, _ := runCLI(t, savedResponse, "check", "-", "--engine", "sdxl")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "SPEC VALID")
	assert.Contains(t, out, `"engine": "sdxl"`)
	assert.Contains(t, out, `"seed": 42`)
}

func TestCheck_DefaultEngine(t *testing.T) {
	code, out, _ := runCLI(t, savedResponse, "check", "-")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, `"engine": "stable"`)
}

func TestCheck_SchemaViolation(t *testing.T) {
	code, out, _ := runCLI(t, `{"prompt": 7}`, "check", "-")

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, out, "schema_violation")
	assert.Contains(t, out, "prompt: expected string")
	assert.Contains(t, out, "params")
}

func TestCheck_NoJSON(t *testing.T) {
	code, out, _ := runCLI(t, "sorry, no can do", "check", "-")

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, out, "no_json_found")
	assert.Contains(t, out, "sorry, no can do")
}

func TestCheck_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.txt")
	require.NoError(t, os.WriteFile(path, []byte(savedResponse), 0o600))

	code, out, _ := runCLI(t, "", "check", path)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, path)
}

func TestExtract(t *testing.T) {
	code, out, _ := runCLI(t, `noise {"a":{"b":"}"}} trailing`, "extract", "-")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, `{"a":{"b":"}"}}`+"\n", out)

	code, _, errOut := runCLI(t, `{"a":`, "extract", "-")
	assert.Equal(t, exitFailed, code)
	assert.NotEmpty(t, errOut)
}

func TestUsage(t *testing.T) {
	code, _, errOut := runCLI(t, "", "check")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "Usage:")

	code, _, _ = runCLI(t, "x", "bogus", "-")
	assert.Equal(t, exitUsage, code)
}

func TestMissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", "check", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, errOut, "Error reading")
}

func TestCheck_LongRawIsCutOnRuneBoundary(t *testing.T) {
	raw := strings.Repeat("a", maxRawShown-1) + "ééé no object here"

	code, out, _ := runCLI(t, raw, "check", "-")

	assert.Equal(t, exitFailed, code)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("a", maxRawShown-1)+"...")
}
