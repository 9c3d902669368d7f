//go:build !noyaml

package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/renda/pkg/errors"
)

func TestDecodeYAML(t *testing.T) {
	t.Run("mapping_document", func(t *testing.T) {
		got, err := decodeYAML([]byte("nginx:\n  hostname: localhost\n  workers: 4\n"))
		require.NoError(t, err)

		nginx, ok := got["nginx"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "localhost", nginx["hostname"])
	})

	t.Run("malformed_input", func(t *testing.T) {
		_, err := decodeYAML([]byte("key: [unclosed"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrFormatDecode))
	})
}
