package formats

import (
	kjson "github.com/knadh/koanf/parsers/json"

	"github.com/arthur-debert/renda/pkg/errors"
)

func init() {
	Default.MustRegister(&Format{
		Name:       "json",
		Extensions: []string{"json"},
		Decode:     decodeJSON,
	})
}

// decodeJSON parses a JSON document. The top level must be an object so
// the result can serve as a context; arrays and scalars are rejected by
// the decode itself.
func decodeJSON(data []byte) (map[string]interface{}, error) {
	out, err := kjson.Parser().Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFormatDecode, "invalid JSON document")
	}
	return out, nil
}
