package formats

import (
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/renda/pkg/errors"
	"github.com/arthur-debert/renda/pkg/registry"
)

// DecodeFunc turns the raw bytes of one data source into a tree of
// string-keyed values. Decoders report malformed input with ErrFormatDecode.
type DecodeFunc func(data []byte) (map[string]interface{}, error)

// Format describes one registered context data format.
type Format struct {
	// Name is the canonical identifier, e.g. "yaml"
	Name string

	// Aliases are alternate spellings resolving to Name. Alias matching
	// is case-sensitive: "yml" names yaml, "YML" names nothing.
	Aliases []string

	// Extensions are the file extensions (without the dot) the format is
	// inferred from. Extension matching is case-insensitive.
	Extensions []string

	// Ambient marks formats that read process state rather than a byte
	// stream; their Decode ignores its input.
	Ambient bool

	// Decode parses source bytes. A nil Decode means the format is known
	// but its decoder is not present in this build.
	Decode DecodeFunc
}

// Available reports whether the format's decoder is present in this build.
func (f *Format) Available() bool {
	return f.Decode != nil
}

// Registry maps format names, aliases and file extensions to Format entries.
// It is populated once via init() registration and read-only afterwards.
type Registry struct {
	formats registry.Registry[*Format]

	mu      sync.RWMutex
	aliases map[string]string // name or alias -> canonical name
	exts    map[string]string // lowercase extension -> canonical name
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: registry.New[*Format](),
		aliases: make(map[string]string),
		exts:    make(map[string]string),
	}
}

// Default is the process-wide format registry. Builtin formats register
// themselves here from their init() functions.
var Default = NewRegistry()

// Register adds a format, its aliases and its extensions to the registry.
func (r *Registry) Register(f *Format) error {
	if f.Name == "" {
		return errors.New(errors.ErrInvalidInput, "format name cannot be empty")
	}
	if err := r.formats.Register(f.Name, f); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range append([]string{f.Name}, f.Aliases...) {
		if existing, ok := r.aliases[name]; ok {
			return errors.Newf(errors.ErrAlreadyExists,
				"alias '%s' already names format '%s'", name, existing)
		}
		r.aliases[name] = f.Name
	}
	for _, ext := range f.Extensions {
		r.exts[strings.ToLower(ext)] = f.Name
	}
	return nil
}

// MustRegister registers a format and panics on failure. Builtin format
// files use this from init().
func (r *Registry) MustRegister(f *Format) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Resolve looks up a format by canonical name or alias. The match is
// case-sensitive exact: forced format tags are never case-folded.
func (r *Registry) Resolve(nameOrAlias string) (*Format, error) {
	r.mu.RLock()
	canonical, ok := r.aliases[nameOrAlias]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Newf(errors.ErrFormatUnknown,
			"no format registered for '%s'", nameOrAlias)
	}
	return r.formats.Get(canonical)
}

// Alias reports whether nameOrAlias names a registered format (exact case).
func (r *Registry) Alias(nameOrAlias string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.aliases[nameOrAlias]
	return ok
}

// ByExtension looks up a format by file extension, case-insensitively.
// A leading dot is accepted and ignored.
func (r *Registry) ByExtension(ext string) (*Format, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	r.mu.RLock()
	canonical, ok := r.exts[ext]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	f, err := r.formats.Get(canonical)
	if err != nil {
		return nil, false
	}
	return f, true
}

// Names returns the canonical names of all currently available formats in
// sorted order. Unavailable formats are never offered here, so CLI choice
// lists and registry resolution stay consistent.
func (r *Registry) Names() []string {
	var names []string
	for _, name := range r.formats.List() {
		f, err := r.formats.Get(name)
		if err == nil && f.Available() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
