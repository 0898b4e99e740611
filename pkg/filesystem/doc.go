// Package filesystem provides implementations of the types.FS
// interface: an OS-backed one for real operation and an afero-backed
// one for tests that do not need real symlink semantics.
package filesystem
