// Package render is the thin adapter between the assembled context and
// the template engine. The engine is Go's text/template with the sprig
// function map plus the extra functions registered in funcs.go; its error
// taxonomy passes through wrapped but otherwise unmodified.
package render

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"

	"github.com/arthur-debert/renda/pkg/errors"
	"github.com/arthur-debert/renda/pkg/filesystem"
)

// Mode controls how undefined variables behave during rendering.
type Mode string

const (
	// ModeStrict makes references to missing context keys an error
	ModeStrict Mode = "strict"
	// ModeNormal substitutes the zero value for missing keys
	ModeNormal Mode = "normal"
	// ModeDebug leaves missing keys visible as "<no value>" in the output
	ModeDebug Mode = "debug"
)

// Modes lists the accepted undefined-variable modes for CLI help.
var Modes = []string{string(ModeStrict), string(ModeNormal), string(ModeDebug)}

// option maps a Mode onto text/template's missingkey option.
func (m Mode) option() (string, error) {
	switch m {
	case ModeStrict:
		return "missingkey=error", nil
	case ModeNormal:
		return "missingkey=zero", nil
	case ModeDebug:
		return "missingkey=default", nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown undefined-variable mode '%s'", m)
	}
}

// Renderer renders templates against a context.
type Renderer struct {
	mode  Mode
	funcs template.FuncMap
	fs    filesystem.FS
}

// New creates a Renderer for the given undefined-variable mode. The
// function map is sprig's text map with the registered extra functions
// layered on top (extras win on name clashes).
func New(mode Mode, fsys filesystem.FS) (*Renderer, error) {
	if _, err := mode.option(); err != nil {
		return nil, err
	}

	funcs := sprig.TxtFuncMap()
	for _, name := range Funcs.List() {
		fn, err := Funcs.Get(name)
		if err != nil {
			return nil, err
		}
		funcs[name] = fn
	}

	return &Renderer{mode: mode, funcs: funcs, fs: fsys}, nil
}

// Render parses template source and executes it against the context.
func (r *Renderer) Render(name string, src []byte, data map[string]interface{}) ([]byte, error) {
	opt, err := r.mode.option()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(r.funcs).Option(opt).Parse(string(src))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateParse, "cannot parse template '%s'", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRender, "cannot render template '%s'", name)
	}
	return buf.Bytes(), nil
}

// RenderFile loads a template file and renders it against the context.
func (r *Renderer) RenderFile(path string, data map[string]interface{}) ([]byte, error) {
	src, err := r.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrSourceNotFound,
				"template '%s' does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrSourceRead, "cannot read template '%s'", path)
	}
	return r.Render(filepath.Base(path), src, data)
}
