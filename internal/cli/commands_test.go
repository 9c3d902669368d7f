package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/renda/pkg/errors"
)

// execute runs the command tree with the given args and captures stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRenderFromFiles(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "greeting.tmpl", "hello {{.app.name}} on port {{.app.port}}\n")
	ini := writeFile(t, dir, "defaults.ini", "[app]\nname = renda\nport = 80\n")
	jsonFile := writeFile(t, dir, "overrides.json", `{"app": {"port": "8080"}}`)

	out, err := execute(t, "", tmpl, ini, jsonFile)
	require.NoError(t, err)
	assert.Equal(t, "hello renda on port 8080\n", out)
}

func TestRenderFromEnvironmentByDefault(t *testing.T) {
	t.Setenv("RENDA_TEST_GREETING", "howdy")
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "env.tmpl", "{{.RENDA_TEST_GREETING}}")

	out, err := execute(t, "", tmpl)
	require.NoError(t, err)
	assert.Equal(t, "howdy", out)
}

func TestRenderStdinData(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "db.tmpl", "host={{.db.host}}")

	out, err := execute(t, `{"host": "localhost"}`, tmpl, "-:json:db")
	require.NoError(t, err)
	assert.Equal(t, "host=localhost", out)
}

func TestRenderStdinTemplate(t *testing.T) {
	dir := t.TempDir()
	ini := writeFile(t, dir, "app.ini", "[app]\nname = renda\n")

	out, err := execute(t, "via stdin: {{.app.name}}", "-", ini)
	require.NoError(t, err)
	assert.Equal(t, "via stdin: renda", out)
}

func TestRenderStdinTemplateFailureAborts(t *testing.T) {
	dir := t.TempDir()
	ini := writeFile(t, dir, "app.ini", "[app]\nname = renda\n")

	t.Run("undefined_variable_in_strict_mode", func(t *testing.T) {
		out, err := execute(t, "{{.definitely.missing}}", "-", ini)
		require.Error(t, err, "a failed stdin-template render must not exit cleanly")
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateRender))
		assert.Empty(t, out)
	})

	t.Run("parse_error", func(t *testing.T) {
		_, err := execute(t, "{{.unclosed", "-", ini)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateParse))
	})
}

func TestStdinTemplateAndStdinDataConflict(t *testing.T) {
	_, err := execute(t, "irrelevant", "-", "-:json")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestOutputFlagWritesFile(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "app.tmpl", "name={{.app.name}}")
	ini := writeFile(t, dir, "app.ini", "[app]\nname = renda\n")
	dest := filepath.Join(dir, "rendered.conf")

	out, err := execute(t, "", tmpl, ini, "-o", dest)
	require.NoError(t, err)
	assert.Empty(t, out, "nothing should go to stdout with -o")

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "name=renda", string(content))
}

func TestDecodeErrorAborts(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "app.tmpl", "{{.x}}")
	bad := writeFile(t, dir, "broken.json", "{not json")

	_, err := execute(t, "", tmpl, bad)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFormatDecode))
}

func TestMissingDataFile(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "app.tmpl", "static")
	missing := filepath.Join(dir, "nope.json")

	_, err := execute(t, "", tmpl, missing)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotFound))

	out, err := execute(t, "", tmpl, missing, "-I")
	require.NoError(t, err)
	assert.Equal(t, "static", out)
}

func TestStrictModeRejectsUndefined(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "app.tmpl", "{{.app.missing}}")
	ini := writeFile(t, dir, "app.ini", "[app]\nname = renda\n")

	_, err := execute(t, "", tmpl, ini)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateRender))

	out, err := execute(t, "", tmpl, ini, "-U", "debug")
	require.NoError(t, err)
	assert.Equal(t, "<no value>", out)
}

func TestUnknownUndefinedMode(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "app.tmpl", "x")

	_, err := execute(t, "", tmpl, "-U", "lenient")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestUnknownFallbackFormat(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "app.tmpl", "x")

	_, err := execute(t, "", tmpl, "-f", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestContextCommandJSON(t *testing.T) {
	dir := t.TempDir()
	ini := writeFile(t, dir, "app.ini", "[app]\nname = renda\n")

	out, err := execute(t, "", "context", ini)
	require.NoError(t, err)

	var ctx map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &ctx))
	app, ok := ctx["app"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "renda", app["name"])
}

func TestContextCommandYAML(t *testing.T) {
	dir := t.TempDir()
	jsonFile := writeFile(t, dir, "app.json", `{"name": "renda"}`)

	out, err := execute(t, "", "context", "--format", "yaml", jsonFile)
	require.NoError(t, err)
	assert.Contains(t, out, "name: renda")
}

func TestContextCommandUnknownFormat(t *testing.T) {
	_, err := execute(t, "", "context", "--format", "toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestTemplateArgumentRequired(t *testing.T) {
	_, err := execute(t, "")
	assert.Error(t, err)
}
