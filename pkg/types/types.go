package types

import (
	"io/fs"
	"os"
)

// EntryKind discriminates what kind of filesystem entry a path names
type EntryKind string

const (
	KindRegularFile EntryKind = "file"
	KindSymlink     EntryKind = "symlink"
	KindDirectory   EntryKind = "directory"
	KindMissing     EntryKind = "missing"
)

// PathEntry is a path together with its kind, resolved at a single
// point in time. Kind is never cached across mutation steps; callers
// re-classify after every move because the filesystem has changed.
type PathEntry struct {
	Path string
	Kind EntryKind

	// LinkTarget holds the literal (possibly relative) target text
	// when Kind is KindSymlink, empty otherwise.
	LinkTarget string
}

// ClassifyPath resolves the kind of the entry at path using Lstat so
// that symlinks are reported as symlinks, not as their targets.
func ClassifyPath(filesystem FS, path string) (PathEntry, error) {
	entry := PathEntry{Path: path}

	info, err := filesystem.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			entry.Kind = KindMissing
			return entry, nil
		}
		return entry, err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		entry.Kind = KindSymlink
		target, err := filesystem.Readlink(path)
		if err != nil {
			return entry, err
		}
		entry.LinkTarget = target
	case info.IsDir():
		entry.Kind = KindDirectory
	default:
		entry.Kind = KindRegularFile
	}

	return entry, nil
}

// SwapRequest describes a swap of two filesystem entries
type SwapRequest struct {
	Target      PathEntry
	Destination PathEntry

	// LookupDir, when non-empty, is the root searched for symlinks
	// that depend on the swapped entries.
	LookupDir string
}

// SwapResult reports where the two entries ended up
type SwapResult struct {
	// NewTargetPath is where the entry formerly at the target path now lives
	NewTargetPath string
	// NewDestinationPath is where the entry formerly at the destination path now lives
	NewDestinationPath string
	// RelinkedDependents lists symlinks rewritten for the swapped entries
	RelinkedDependents []string
}

// SymlinkRecord is an existing symlink and the literal target text it
// currently stores. Produced by the search phase, consumed by relinking.
type SymlinkRecord struct {
	LinkPath   string
	TargetPath string

	// InnerSuffix is the path below the moved entry that this link
	// resolves into, set only when the moved entry is a directory and
	// the link points inside it.
	InnerSuffix string
}

// LinkRewrite is one planned symlink change
type LinkRewrite struct {
	LinkPath  string
	OldTarget string
	NewTarget string
}

// RelinkPlan is the full set of changes computed before any mutation,
// so it can be shown for confirmation and then applied link by link.
type RelinkPlan struct {
	Source      string
	Destination string
	Rewrites    []LinkRewrite
}

// HasRewrites reports whether any symlink needs updating
func (p *RelinkPlan) HasRewrites() bool {
	return len(p.Rewrites) > 0
}
