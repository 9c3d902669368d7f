package context

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/renda/pkg/dataspec"
	"github.com/arthur-debert/renda/pkg/errors"
	"github.com/arthur-debert/renda/pkg/formats"
	"github.com/arthur-debert/renda/pkg/logging"
	"github.com/arthur-debert/renda/pkg/source"
)

// Builder decodes and merges a sequence of data specs into one context.
type Builder struct {
	formats       *formats.Registry
	sources       *source.Reader
	ignoreMissing bool
	log           zerolog.Logger
}

// NewBuilder creates a Builder over a format registry and a source reader.
func NewBuilder(reg *formats.Registry, sources *source.Reader, ignoreMissing bool) *Builder {
	return &Builder{
		formats:       reg,
		sources:       sources,
		ignoreMissing: ignoreMissing,
		log:           logging.GetLogger("context"),
	}
}

// Build resolves, decodes and merges the specs left to right. The first
// failure aborts: no partial context is ever returned alongside an error.
func (b *Builder) Build(specs []dataspec.DataSpec) (Context, error) {
	ctx := make(Context)

	for _, spec := range specs {
		f, err := b.formats.Resolve(spec.Format)
		if err != nil {
			return nil, err
		}
		if !f.Available() {
			return nil, errors.Newf(errors.ErrFormatUnavailable,
				"format '%s' is not available in this build", f.Name).
				WithDetail("spec", spec.String())
		}

		resolved, err := b.sources.Resolve(spec, b.ignoreMissing)
		if err != nil {
			return nil, err
		}
		if resolved.Empty {
			continue
		}

		tree, err := f.Decode(resolved.Data)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFormatDecode,
				"failed to decode %s data from %s", f.Name, sourceLabel(spec))
		}

		if spec.Destination != "" {
			tree = map[string]interface{}{spec.Destination: tree}
		}

		Merge(ctx, tree)
		b.log.Debug().
			Stringer("spec", spec).
			Int("keys", len(tree)).
			Msg("Merged data source into context")
	}

	return ctx, nil
}

func sourceLabel(spec dataspec.DataSpec) string {
	switch spec.Kind {
	case dataspec.KindStdin:
		return "standard input"
	case dataspec.KindNone:
		return "the environment"
	default:
		return "'" + spec.Source + "'"
	}
}
