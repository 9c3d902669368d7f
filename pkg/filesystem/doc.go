// Package filesystem provides the filesystem abstraction used by the
// source reader. It ships an OS-backed implementation for production and
// an afero-backed one so that tests can run against in-memory trees.
package filesystem
