//go:build !noyaml

package formats

import (
	kyaml "github.com/knadh/koanf/parsers/yaml"

	"github.com/arthur-debert/renda/pkg/errors"
)

func init() {
	Default.MustRegister(&Format{
		Name:       "yaml",
		Aliases:    []string{"yml"},
		Extensions: []string{"yaml", "yml"},
		Decode:     decodeYAML,
	})
}

// decodeYAML parses a YAML document with the safe loader; no custom tag
// execution takes place.
func decodeYAML(data []byte) (map[string]interface{}, error) {
	out, err := kyaml.Parser().Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFormatDecode, "invalid YAML document")
	}
	return out, nil
}
