package types

import "io/fs"

// FS abstracts filesystem operations for testing
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error

	// Lstat must not follow symlinks. Path classification and the
	// occupancy checks rely on seeing the link itself, so an
	// implementation that aliases Stat is not usable here.
	Lstat(name string) (fs.FileInfo, error)
}

// ConfirmationDialog presents a relink plan to the user and collects a decision
type ConfirmationDialog interface {
	// ConfirmPlan shows the proposed move and link rewrites.
	// It returns true only on an explicit affirmative answer.
	ConfirmPlan(plan *RelinkPlan) (bool, error)
}
