//go:build noyaml

package formats

func init() {
	// The format stays in the table so data specs naming it fail with a
	// clear "unavailable" error instead of "unknown format". A nil Decode
	// marks it unavailable.
	Default.MustRegister(&Format{
		Name:       "yaml",
		Aliases:    []string{"yml"},
		Extensions: []string{"yaml", "yml"},
	})
}
