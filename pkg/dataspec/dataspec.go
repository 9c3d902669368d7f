// Package dataspec parses the positional data-source mini-language.
//
// A token has the shape <source>[:<format>[:<destination>]]. Any part may
// be empty. The source may itself contain the separator: a Windows drive
// prefix ("C:\data.json") and paths with literal colons are both
// disambiguated here, so callers only ever see a fully resolved triple.
package dataspec

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/renda/pkg/errors"
	"github.com/arthur-debert/renda/pkg/formats"
	"github.com/arthur-debert/renda/pkg/logging"
)

// Separator splits the components of a data spec token.
const Separator = ':'

// Wildcard is the explicit "infer the format" placeholder, equivalent to
// leaving the format part empty.
const Wildcard = "?"

// StdinMarker denotes standard input as a source, as does the empty string.
const StdinMarker = "-"

// maxComponents bounds the right-to-left split: source, format, destination.
const maxComponents = 3

// SourceKind classifies where a data spec's bytes come from.
type SourceKind int

const (
	// KindPath reads a named file
	KindPath SourceKind = iota
	// KindStdin reads the process's standard input
	KindStdin
	// KindNone carries no stream; only ambient formats use it
	KindNone
)

// DataSpec is one parsed positional argument. Format is always a
// canonical, registered identifier by the time a DataSpec exists;
// unresolved formats are a parse error, not a runtime one.
type DataSpec struct {
	Source      string // file path, meaningful only when Kind == KindPath
	Kind        SourceKind
	Format      string
	Destination string // context key to nest under; empty means top level
}

func (d DataSpec) String() string {
	src := d.Source
	switch d.Kind {
	case KindStdin:
		src = "<stdin>"
	case KindNone:
		src = "<none>"
	}
	return fmt.Sprintf("%s:%s:%s", src, d.Format, d.Destination)
}

// Parser turns tokens into DataSpecs against a format registry.
type Parser struct {
	formats      *formats.Registry
	windowsPaths bool
	log          zerolog.Logger
}

// NewParser creates a parser with platform-default path handling.
func NewParser(reg *formats.Registry) *Parser {
	return NewPlatformParser(reg, runtime.GOOS == "windows")
}

// NewPlatformParser creates a parser with explicit Windows path handling,
// so the drive-letter rules are testable on any platform.
func NewPlatformParser(reg *formats.Registry, windowsPaths bool) *Parser {
	return &Parser{
		formats:      reg,
		windowsPaths: windowsPaths,
		log:          logging.GetLogger("dataspec"),
	}
}

// Parse parses one data spec token against the default format registry.
func Parse(token, fallbackFormat string) (DataSpec, error) {
	return NewParser(formats.Default).Parse(token, fallbackFormat)
}

// Parse parses a token into a DataSpec, resolving the format by explicit
// tag, file extension, or the fallback, in that order.
func (p *Parser) Parse(token, fallbackFormat string) (DataSpec, error) {
	parts := p.split(token)

	src := parts[0]
	var fmtPart, dstPart string
	if len(parts) > 1 {
		fmtPart = parts[1]
	}
	if len(parts) > 2 {
		dstPart = parts[2]
	}

	// Trailing-colon rule: a middle component that is not a known format
	// tag means the separators belong to the source path itself.
	if fmtPart != "" && fmtPart != Wildcard && !p.formats.Alias(fmtPart) {
		src, fmtPart, dstPart = token, "", ""
	}

	f, err := p.resolveFormat(token, src, fmtPart, fallbackFormat)
	if err != nil {
		return DataSpec{}, err
	}

	spec := DataSpec{Format: f.Name, Destination: dstPart}
	switch {
	case f.Ambient:
		if src != "" && src != StdinMarker {
			p.log.Warn().
				Str("source", src).
				Str("format", f.Name).
				Msg("Ignoring source for ambient format")
		}
		spec.Kind = KindNone
	case src == "" || src == StdinMarker:
		spec.Kind = KindStdin
	default:
		spec.Kind = KindPath
		spec.Source = src
	}
	return spec, nil
}

// resolveFormat applies the resolution order: explicit tag (exact case),
// source file extension (case-insensitive), then the fallback format.
func (p *Parser) resolveFormat(token, src, fmtPart, fallback string) (*formats.Format, error) {
	if fmtPart != "" && fmtPart != Wildcard {
		f, err := p.formats.Resolve(fmtPart)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrDataSpecInvalid,
				"data spec '%s' names an unknown format", token)
		}
		return f, nil
	}

	if src != "" && src != StdinMarker {
		if ext := filepath.Ext(src); ext != "" {
			if f, ok := p.formats.ByExtension(ext); ok {
				return f, nil
			}
		}
	}

	f, err := p.formats.Resolve(fallback)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDataSpecInvalid,
			"data spec '%s' has no format and the fallback does not resolve", token)
	}
	return f, nil
}

// split scans the token right to left for component boundaries. At most
// two separators are significant; colons inside a protected Windows drive
// prefix are never boundaries.
func (p *Parser) split(token string) []string {
	protected := 0
	if p.windowsPaths && hasDrivePrefix(token) {
		protected = 2 // the "X:" belongs to the source
	}

	cuts := make([]int, 0, maxComponents-1)
	for i := len(token) - 1; i >= protected && len(cuts) < maxComponents-1; i-- {
		if token[i] == Separator {
			cuts = append(cuts, i)
		}
	}

	switch len(cuts) {
	case 0:
		return []string{token}
	case 1:
		return []string{token[:cuts[0]], token[cuts[0]+1:]}
	default:
		// cuts were collected right to left: cuts[1] < cuts[0]
		return []string{token[:cuts[1]], token[cuts[1]+1 : cuts[0]], token[cuts[0]+1:]}
	}
}

// hasDrivePrefix reports whether the token starts with a Windows drive
// letter: a single ASCII letter, the separator, then a non-separator
// path character.
func hasDrivePrefix(s string) bool {
	if len(s) < 3 {
		return false
	}
	alpha := (s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z')
	return alpha && s[1] == Separator && s[2] != Separator
}
