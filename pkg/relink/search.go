package relink

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/types"
)

// Search walks the search root, bounded by MaxDepth, and returns
// every symlink whose target matches source under the configured
// match mode. The filesystem is not mutated.
func (r *Retargeter) Search(source string) ([]types.SymlinkRecord, error) {
	source, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve source path")
	}

	root, err := filepath.Abs(r.opts.SearchRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve search root")
	}
	if _, err := r.fs.Stat(root); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSearchFailed, "search root not accessible: %s", root).
			WithDetail("root", root)
	}

	matcher, err := r.newMatcher(source)
	if err != nil {
		return nil, err
	}

	var records []types.SymlinkRecord
	if err := r.walk(root, root, r.opts.MaxDepth, func(linkPath string) error {
		target, err := r.fs.Readlink(linkPath)
		if err != nil {
			// The link may have vanished mid-walk; skip it
			return nil
		}
		record, ok := matcher.match(linkPath, target)
		if ok {
			records = append(records, record)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("source", source).
		Str("root", root).
		Int("matches", len(records)).
		Msg("Symlink search finished")

	return records, nil
}

// walk recursively visits entries up to depth levels below dir,
// invoking fn for every symlink found.
func (r *Retargeter) walk(root, dir string, depth int, fn func(linkPath string) error) error {
	if depth < 1 {
		return nil
	}

	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		// Unreadable directories are skipped, not fatal; the search
		// scope is best-effort by nature.
		r.logger.Debug().Err(err).Str("dir", dir).Msg("Skipping unreadable directory")
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if r.ignored(root, path, entry.Name()) {
			continue
		}

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			if err := fn(path); err != nil {
				return err
			}
		case entry.IsDir():
			if err := r.walk(root, path, depth-1, fn); err != nil {
				return err
			}
		}
	}

	return nil
}

// ignored reports whether an entry matches one of the ignore globs,
// tested against both the bare name and the root-relative path.
func (r *Retargeter) ignored(root, path, name string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = name
	}
	for _, pattern := range r.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// matcher decides whether a symlink's target refers to the source
type matcher struct {
	r           *Retargeter
	source      string
	sourceName  string
	sourceInfo  fs.FileInfo
	sourceIsDir bool
}

func (r *Retargeter) newMatcher(source string) (*matcher, error) {
	info, err := r.fs.Stat(source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing, "cannot stat %s", source)
	}
	return &matcher{
		r:           r,
		source:      source,
		sourceName:  filepath.Base(source),
		sourceInfo:  info,
		sourceIsDir: info.IsDir(),
	}, nil
}

// match classifies one symlink. The name-containment test mirrors the
// cheap `find -lname '*name*'` prefilter; strict mode then verifies
// that the resolved target really is the source entry.
func (m *matcher) match(linkPath, targetText string) (types.SymlinkRecord, bool) {
	record := types.SymlinkRecord{LinkPath: linkPath, TargetPath: targetText}

	if !strings.Contains(targetText, m.sourceName) {
		return record, false
	}
	if m.r.opts.Mode == MatchSubstring {
		return record, true
	}

	resolved := resolveLinkTarget(linkPath, targetText)

	info, err := m.r.fs.Lstat(resolved)
	if err != nil {
		return record, false
	}

	// A chain link (symlink to a symlink) is not a dependent of the
	// file itself unless the source is a symlink too.
	if info.Mode()&fs.ModeSymlink != 0 {
		return record, false
	}

	if os.SameFile(info, m.sourceInfo) {
		return record, true
	}

	if m.sourceIsDir {
		// The link may point inside the moved directory
		if suffix, ok := innerSuffix(m.source, resolved); ok {
			record.InnerSuffix = suffix
			return record, true
		}
	}

	return record, false
}

// resolveLinkTarget turns a link's literal target text into an
// absolute path, relative targets being anchored at the link's parent.
func resolveLinkTarget(linkPath, targetText string) string {
	if filepath.IsAbs(targetText) {
		return filepath.Clean(targetText)
	}
	return filepath.Join(filepath.Dir(linkPath), targetText)
}

// innerSuffix returns the path of candidate below dir, if any
func innerSuffix(dir, candidate string) (string, bool) {
	rel, err := filepath.Rel(dir, candidate)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}
