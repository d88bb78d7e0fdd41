package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runDsconv runs the CLI from source with the given stdin and args.
func runDsconv(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.String(), errOut.String(), err
}

func TestEndToEnd_JSONFileToTOMLFile(t *testing.T) {
	tempDir := t.TempDir()

	jsonFile := filepath.Join(tempDir, "sample.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"a": 1, "b": [2, 3]}`), 0644))
	tomlFile := filepath.Join(tempDir, "sample.toml")

	_, stderr, err := runDsconv(t, "", jsonFile, "-o", tomlFile)
	require.NoError(t, err, "dsconv failed: %s", stderr)

	out, err := os.ReadFile(tomlFile)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "a = 1")
	assert.Contains(t, text, "b = [2, 3]")
	assert.Less(t, strings.Index(text, "a = 1"), strings.Index(text, "b = [2, 3]"))
}

func TestEndToEnd_StdinWithExplicitFormats(t *testing.T) {
	stdout, stderr, err := runDsconv(t, "name: dsconv\ncount: 3\n",
		"-f", "yaml", "-t", "json", "--color", "never")
	require.NoError(t, err, "dsconv failed: %s", stderr)
	assert.JSONEq(t, `{"name": "dsconv", "count": 3}`, stdout)
}

func TestEndToEnd_PrettyJSON(t *testing.T) {
	stdout, stderr, err := runDsconv(t, `{"a":{"b":1}}`,
		"-f", "json", "-t", "json", "-p", "--color", "never")
	require.NoError(t, err, "dsconv failed: %s", stderr)
	assert.Contains(t, stdout, "\n  ")
	assert.JSONEq(t, `{"a": {"b": 1}}`, stdout)
}

func TestEndToEnd_ExplicitFlagBeatsExtension(t *testing.T) {
	tempDir := t.TempDir()

	// YAML content behind a .json extension.
	input := filepath.Join(tempDir, "mislabeled.json")
	require.NoError(t, os.WriteFile(input, []byte("name: dsconv\n"), 0644))

	stdout, stderr, err := runDsconv(t, "", input, "-f", "yaml", "-t", "json", "--color", "never")
	require.NoError(t, err, "dsconv failed: %s", stderr)
	assert.JSONEq(t, `{"name": "dsconv"}`, stdout)
}

func TestEndToEnd_ListFormats(t *testing.T) {
	stdout, stderr, err := runDsconv(t, "", "--list-input-formats")
	require.NoError(t, err, "dsconv failed: %s", stderr)
	for _, name := range []string{"CBOR", "Hjson", "JSON", "JSON5", "JSONC", "MessagePack", "TOML", "YAML"} {
		assert.Contains(t, stdout, name)
	}

	stdout, stderr, err = runDsconv(t, "", "--list-output-formats")
	require.NoError(t, err, "dsconv failed: %s", stderr)
	assert.NotContains(t, stdout, "Hjson")
	assert.Contains(t, stdout, "MessagePack")
}

func TestEndToEnd_InvalidInputFails(t *testing.T) {
	_, stderr, err := runDsconv(t, `{"a": `, "-f", "json", "-t", "yaml")
	require.Error(t, err, "invalid JSON must exit non-zero")
	assert.Contains(t, stderr, "Decode error")
}

func TestEndToEnd_SequenceRootToTOMLFails(t *testing.T) {
	_, stderr, err := runDsconv(t, "- 1\n- 2\n", "-f", "yaml", "-t", "toml")
	require.Error(t, err, "a sequence root cannot become TOML")
	assert.Contains(t, stderr, "Encode error")
}

func TestEndToEnd_StdinWithoutFormatFails(t *testing.T) {
	_, stderr, err := runDsconv(t, `{"a": 1}`, "-t", "json")
	require.Error(t, err)
	assert.Contains(t, stderr, "cannot determine input format")
}

func TestEndToEnd_BinaryRoundTrip(t *testing.T) {
	tempDir := t.TempDir()

	jsonFile := filepath.Join(tempDir, "sample.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"n": 1, "s": "x"}`), 0644))
	cborFile := filepath.Join(tempDir, "sample.cbor")

	_, stderr, err := runDsconv(t, "", jsonFile, "-t", "cbor", "-o", cborFile)
	require.NoError(t, err, "json to cbor failed: %s", stderr)

	stdout, stderr, err := runDsconv(t, "", cborFile, "-t", "json", "--color", "never")
	require.NoError(t, err, "cbor to json failed: %s", stderr)
	assert.JSONEq(t, `{"n": 1, "s": "x"}`, stdout)
}

func TestEndToEnd_GenerateCompletion(t *testing.T) {
	stdout, stderr, err := runDsconv(t, "", "--generate-completion", "bash")
	require.NoError(t, err, "dsconv failed: %s", stderr)
	assert.Contains(t, stdout, "complete")
}
