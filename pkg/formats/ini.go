package formats

import (
	"bufio"
	"bytes"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/arthur-debert/renda/pkg/errors"
)

func init() {
	Default.MustRegister(&Format{
		Name:       "ini",
		Extensions: []string{"ini"},
		Decode:     decodeINI,
	})
}

// decodeINI parses Windows-style key=value sections into a two-level map:
// section name -> key -> string value. Keys from the DEFAULT section are
// folded into every named section.
func decodeINI(data []byte) (map[string]interface{}, error) {
	if err := checkSectionHeader(data); err != nil {
		return nil, err
	}

	f, err := ini.Load(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFormatDecode, "invalid INI input")
	}

	defaults := f.Section(ini.DefaultSection).KeysHash()

	out := make(map[string]interface{})
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		values := make(map[string]interface{}, len(defaults)+len(sec.Keys()))
		for k, v := range defaults {
			values[k] = v
		}
		for k, v := range sec.KeysHash() {
			values[k] = v
		}
		out[sec.Name()] = values
	}
	return out, nil
}

// checkSectionHeader rejects input whose first significant line is not a
// section header. The ini library would happily file such keys under
// DEFAULT, losing the error the format contract requires.
func checkSectionHeader(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "[") {
			return errors.Newf(errors.ErrFormatDecode,
				"INI input contains no section header before line %d: %s", lineno, line)
		}
		return nil
	}
	return nil
}
