package formats

import (
	"os"
	"strings"
)

func init() {
	Default.MustRegister(&Format{
		Name:       "env",
		Extensions: []string{"env"},
		Decode:     decodeEnvLines,
	})
	// The uppercase ENV format is a distinct, case-sensitive entry: it
	// ignores its input entirely and snapshots the process environment.
	Default.MustRegister(&Format{
		Name:    "ENV",
		Ambient: true,
		Decode:  decodeAmbientEnv,
	})
}

// decodeEnvLines parses line-oriented KEY=VALUE input into a flat string
// map. Lines without '=' are ignored; splitting happens on the first '='
// only, so values may themselves contain '='. Keys and values are trimmed
// of surrounding whitespace.
func decodeEnvLines(data []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

// decodeAmbientEnv snapshots the current process environment.
func decodeAmbientEnv(_ []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for _, kv := range os.Environ() {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		out[key] = value
	}
	return out, nil
}
