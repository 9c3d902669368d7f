// Package source resolves a parsed data spec into the bytes it denotes:
// the contents of a named file, a drain of standard input, or no bytes at
// all for ambient formats and suppressed missing files.
package source

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/renda/pkg/dataspec"
	"github.com/arthur-debert/renda/pkg/errors"
	"github.com/arthur-debert/renda/pkg/filesystem"
	"github.com/arthur-debert/renda/pkg/logging"
)

// Resolved is the outcome of resolving one data spec's source.
type Resolved struct {
	// Data holds the source bytes when a stream was read
	Data []byte

	// Ambient is set for specs whose format reads process state; no
	// stream decoding should happen for them
	Ambient bool

	// Empty is set when a missing file was suppressed via ignore-missing;
	// the data spec contributes an empty context and decoding is skipped
	Empty bool
}

// Reader resolves data spec sources against a filesystem and a single
// stdin stream.
//
// Stdin is a single exhaustible stream: the first spec that asks for it
// drains it, a second one in the same invocation reads empty. That is the
// documented "stream already exhausted" behavior, not an error.
type Reader struct {
	fs    filesystem.FS
	stdin io.Reader
	log   zerolog.Logger
}

// New creates a Reader. A nil stdin falls back to os.Stdin.
func New(fsys filesystem.FS, stdin io.Reader) *Reader {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &Reader{
		fs:    fsys,
		stdin: stdin,
		log:   logging.GetLogger("source"),
	}
}

// Resolve turns a data spec into its source bytes.
//
// A missing file resolves to an empty context when ignoreMissing is set
// and to ErrSourceNotFound otherwise. Every other I/O failure propagates
// regardless of ignoreMissing.
func (r *Reader) Resolve(spec dataspec.DataSpec, ignoreMissing bool) (*Resolved, error) {
	switch spec.Kind {
	case dataspec.KindNone:
		return &Resolved{Ambient: true}, nil

	case dataspec.KindStdin:
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrSourceRead, "failed to read standard input")
		}
		return &Resolved{Data: data}, nil

	default:
		data, err := r.fs.ReadFile(spec.Source)
		if err == nil {
			return &Resolved{Data: data}, nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			if ignoreMissing {
				r.log.Warn().Str("path", spec.Source).Msg("Skipping missing input data file")
				return &Resolved{Empty: true}, nil
			}
			return nil, errors.Wrapf(err, errors.ErrSourceNotFound,
				"input data file '%s' does not exist", spec.Source).
				WithDetail("path", spec.Source)
		}
		return nil, errors.Wrapf(err, errors.ErrSourceRead,
			"cannot read input data file '%s'", spec.Source).
			WithDetail("path", spec.Source)
	}
}
