package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/renda/pkg/errors"
)

func TestResolveCanonicalNames(t *testing.T) {
	for _, name := range []string{"ini", "json", "yaml", "env", "ENV"} {
		f, err := Default.Resolve(name)
		require.NoError(t, err, "Resolve(%s)", name)
		assert.Equal(t, name, f.Name)
	}
}

func TestResolveAliases(t *testing.T) {
	f, err := Default.Resolve("yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name, "yml should resolve to canonical yaml")
}

func TestResolveIsCaseSensitive(t *testing.T) {
	// Forced format tags are never case-folded: YML and Env name nothing,
	// while env and ENV are two different formats.
	for _, name := range []string{"YML", "Env", "INI", "Json"} {
		_, err := Default.Resolve(name)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFormatUnknown),
			"Resolve(%s) should fail with ErrFormatUnknown, got %v", name, err)
	}

	envf, err := Default.Resolve("env")
	require.NoError(t, err)
	ambient, err := Default.Resolve("ENV")
	require.NoError(t, err)
	assert.False(t, envf.Ambient)
	assert.True(t, ambient.Ambient)
}

func TestByExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"json", "json"},
		{".json", "json"},
		{"JSON", "json"}, // extension matching is case-insensitive
		{"yaml", "yaml"},
		{"YML", "yaml"},
		{"ini", "ini"},
		{"env", "env"},
	}

	for _, tt := range tests {
		f, ok := Default.ByExtension(tt.ext)
		require.True(t, ok, "ByExtension(%s)", tt.ext)
		assert.Equal(t, tt.want, f.Name, "ByExtension(%s)", tt.ext)
	}

	_, ok := Default.ByExtension("txt")
	assert.False(t, ok, "txt should not match any format")
}

func TestNamesListsOnlyAvailable(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Format{Name: "json", Decode: decodeJSON})
	reg.MustRegister(&Format{Name: "yaml", Aliases: []string{"yml"}}) // nil Decode: unavailable

	assert.Equal(t, []string{"json"}, reg.Names())

	f, err := reg.Resolve("yaml")
	require.NoError(t, err, "unavailable formats still resolve")
	assert.False(t, f.Available())
}

func TestRegisterDuplicateAlias(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Format{Name: "yaml", Aliases: []string{"yml"}})

	err := reg.Register(&Format{Name: "yamlish", Aliases: []string{"yml"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists),
		"duplicate alias should fail, got %v", err)
}

func TestAlias(t *testing.T) {
	assert.True(t, Default.Alias("json"))
	assert.True(t, Default.Alias("yml"))
	assert.True(t, Default.Alias("ENV"))
	assert.False(t, Default.Alias("toml"))
	assert.False(t, Default.Alias("YAML"))
}
