package filesystem

import (
	"io/fs"
	"os"
)

// FS is the read-only filesystem surface needed to resolve data sources
// and template files.
type FS interface {
	// Stat returns file info for the named path
	Stat(name string) (fs.FileInfo, error)

	// ReadFile reads the named file and returns its contents
	ReadFile(name string) ([]byte, error)
}

// osFS implements FS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS filesystem implementation
func NewOS() FS {
	return &osFS{}
}

func (o *osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (o *osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
