// Package config loads renda's optional settings file.
//
// Settings only provide defaults for CLI flags; a flag given on the
// command line always wins. The file is looked up in the working
// directory as .renda.toml or renda.toml, first match wins.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/renda/pkg/errors"
	"github.com/arthur-debert/renda/pkg/logging"
)

// Settings are the file-configurable defaults.
type Settings struct {
	// FallbackFormat is used for data specs with no format tag and no
	// recognized extension
	FallbackFormat string `koanf:"fallback_format"`

	// Undefined selects the undefined-variable rendering mode
	Undefined string `koanf:"undefined"`

	// IgnoreMissing skips missing data files instead of failing
	IgnoreMissing bool `koanf:"ignore_missing"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		FallbackFormat: "ini",
		Undefined:      "strict",
		IgnoreMissing:  false,
	}
}

// Load returns the settings, layering an optional settings file over the
// built-in defaults.
func Load() (*Settings, error) {
	log := logging.GetLogger("config")
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"fallback_format": defaults.FallbackFormat,
		"undefined":       defaults.Undefined,
		"ignore_missing":  defaults.IgnoreMissing,
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	for _, name := range []string{".renda.toml", "renda.toml"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := k.Load(file.Provider(name), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load settings from %s", name)
		}
		log.Debug().Str("path", name).Msg("Loaded settings file")
		break
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal settings")
	}
	return &s, nil
}
