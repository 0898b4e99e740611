// Package swap exchanges the locations of two filesystem entries.
// The filesystem offers no native two-way exchange, so the swap is a
// three-entry rotation through a holding directory: filenames are
// preserved and only parent directories trade places. When the
// destination is a symlink resolving to the target, the link is
// re-created afterwards so it keeps pointing at the file.
package swap

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/logging"
	"github.com/mrizaln/relinka/pkg/move"
	"github.com/mrizaln/relinka/pkg/relink"
	"github.com/mrizaln/relinka/pkg/types"
)

// Options configures a swap
type Options struct {
	// LookupDir is the root searched for symlinks depending on the
	// swapped entries. Only used when RelinkDependents is set.
	LookupDir string

	// RelinkDependents retargets symlinks under LookupDir that point
	// at either swapped entry.
	RelinkDependents bool
}

// Engine swaps two filesystem entries
type Engine struct {
	fs     types.FS
	mover  *move.Mover
	logger zerolog.Logger
}

// New creates an Engine backed by the given filesystem
func New(filesystem types.FS) *Engine {
	return &Engine{
		fs:     filesystem,
		mover:  move.New(filesystem),
		logger: logging.GetLogger("swap"),
	}
}

// Swap exchanges the entries at targetPath and destPath.
// Supported pairs: two regular files, or a regular file (target) and
// a symlink (destination) that resolves to it. Anything else is
// rejected before any mutation.
func (e *Engine) Swap(targetPath, destPath string, opts Options) (*types.SwapResult, error) {
	targetPath, err := filepath.Abs(targetPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve target path")
	}
	destPath, err = filepath.Abs(destPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve destination path")
	}
	if targetPath == destPath {
		return nil, errors.New(errors.ErrInvalidInput, "target and destination are the same path")
	}

	target, err := types.ClassifyPath(e.fs, targetPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to classify %s", targetPath)
	}
	dest, err := types.ClassifyPath(e.fs, destPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to classify %s", destPath)
	}

	if target.Kind == types.KindDirectory || dest.Kind == types.KindDirectory {
		return nil, errors.New(errors.ErrUnsupportedEntryKind, "directories are not supported").
			WithDetail("target", targetPath).
			WithDetail("destination", destPath)
	}

	switch {
	case target.Kind == types.KindRegularFile && dest.Kind == types.KindSymlink:
		return e.swapLinkOverTarget(target, dest, opts)
	case target.Kind == types.KindRegularFile && dest.Kind == types.KindRegularFile:
		return e.swapFiles(target, dest, opts)
	default:
		return nil, errors.Newf(errors.ErrUnsupportedEntryKind, "cannot swap %s with %s", target.Kind, dest.Kind).
			WithDetail("target", targetPath).
			WithDetail("destination", destPath)
	}
}

// swapFiles performs the three-entry rotation: target parks in a
// holding directory, destination renames into target's old parent,
// the held target releases into destination's old parent. Filenames
// never change; holding target first keeps same-named files from
// colliding.
func (e *Engine) swapFiles(target, dest types.PathEntry, opts Options) (*types.SwapResult, error) {
	targetDir := filepath.Dir(target.Path)
	destDir := filepath.Dir(dest.Path)

	// The rotation fills targetDir/destName and destDir/targetName.
	// With distinct filenames those slots must be free, or an
	// unrelated bystander would be clobbered; with equal filenames
	// the slots are the swapped entries themselves.
	if filepath.Base(target.Path) != filepath.Base(dest.Path) {
		slots := []string{
			filepath.Join(targetDir, filepath.Base(dest.Path)),
			filepath.Join(destDir, filepath.Base(target.Path)),
		}
		for _, slot := range slots {
			if _, err := e.fs.Lstat(slot); err == nil {
				return nil, errors.Newf(errors.ErrDestinationCollision, "cannot swap, %s already exists", slot).
					WithDetail("occupied", slot).
					WithDetail("target", target.Path).
					WithDetail("destination", dest.Path)
			}
		}
	}

	plans, err := e.planDependents(target, dest, opts)
	if err != nil {
		return nil, err
	}

	held, err := e.mover.Hold(target.Path)
	if err != nil {
		return nil, err
	}

	movedDest := filepath.Join(targetDir, filepath.Base(dest.Path))
	if err := e.fs.Rename(dest.Path, movedDest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIncompleteMove, "failed to move %s to %s (target held at %s)", dest.Path, movedDest, held.Path).
			WithDetail("holding", held.Path)
	}

	movedTarget, err := held.Release(destDir)
	if err != nil {
		return nil, err
	}

	result := &types.SwapResult{
		NewTargetPath:      movedTarget,
		NewDestinationPath: movedDest,
	}

	if err := e.relinkDependents(plans, result); err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("target", target.Path).
		Str("destination", dest.Path).
		Msg("Swapped entries")

	return result, nil
}

// swapLinkOverTarget swaps a regular file with a symlink that
// resolves to it. The rotation moves both entries, leaving the link
// entry stale, so the link is re-created at its new position pointing
// at the file's new position.
func (e *Engine) swapLinkOverTarget(target, dest types.PathEntry, opts Options) (*types.SwapResult, error) {
	if err := e.verifyLinkResolvesToTarget(target, dest); err != nil {
		return nil, err
	}

	result, err := e.swapFiles(target, dest, opts)
	if err != nil {
		return nil, err
	}

	// The moved link still stores its old target text; rebuild it
	newLinkPath := result.NewDestinationPath
	newFilePath := result.NewTargetPath

	linkTarget := newFilePath
	if !filepath.IsAbs(dest.LinkTarget) {
		linkTarget = relativeLinkTarget(newLinkPath, newFilePath)
	}

	if err := e.fs.Remove(newLinkPath); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to remove stale link %s", newLinkPath).
			WithDetail("link", newLinkPath)
	}
	if err := e.fs.Symlink(linkTarget, newLinkPath); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create link %s -> %s", newLinkPath, linkTarget).
			WithDetail("link", newLinkPath).
			WithDetail("target", linkTarget)
	}

	e.logger.Info().
		Str("link", newLinkPath).
		Str("target", linkTarget).
		Msg("Re-established symlink after swap")

	return result, nil
}

// verifyLinkResolvesToTarget refuses to swap through a symlink that
// points at some unrelated entry. Identity is checked by inode, not
// by name.
func (e *Engine) verifyLinkResolvesToTarget(target, dest types.PathEntry) error {
	targetInfo, err := e.fs.Stat(target.Path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to stat %s", target.Path)
	}
	resolvedInfo, err := e.fs.Stat(dest.Path)
	if err != nil {
		return errors.Newf(errors.ErrTargetMismatch, "link %s does not resolve: %s", dest.Path, dest.LinkTarget).
			WithDetail("link", dest.Path).
			WithDetail("link_target", dest.LinkTarget)
	}
	if !os.SameFile(targetInfo, resolvedInfo) {
		return errors.Newf(errors.ErrTargetMismatch, "link %s resolves to %s, not to %s", dest.Path, dest.LinkTarget, target.Path).
			WithDetail("link", dest.Path).
			WithDetail("link_target", dest.LinkTarget).
			WithDetail("target", target.Path)
	}
	return nil
}

// planDependents computes link rewrites for both swapped entries
// before anything moves; identity checks are impossible afterwards.
func (e *Engine) planDependents(target, dest types.PathEntry, opts Options) ([]*types.RelinkPlan, error) {
	if !opts.RelinkDependents || opts.LookupDir == "" {
		return nil, nil
	}

	retargeter := relink.New(e.fs, relink.Options{
		SearchRoot: opts.LookupDir,
		AssumeYes:  true,
	})

	var plans []*types.RelinkPlan
	for _, entry := range []types.PathEntry{target, dest} {
		// Symlink entries are re-pointed by the swap itself
		if entry.Kind != types.KindRegularFile {
			continue
		}
		newPath := swappedPath(entry, target, dest)
		plan, err := retargeter.PlanForMove(entry.Path, newPath)
		if err != nil {
			return nil, err
		}

		// The destination link itself is re-pointed by the swap, and
		// its pre-move path will not exist afterwards
		kept := plan.Rewrites[:0]
		for _, rewrite := range plan.Rewrites {
			if rewrite.LinkPath == target.Path || rewrite.LinkPath == dest.Path {
				continue
			}
			kept = append(kept, rewrite)
		}
		plan.Rewrites = kept

		plans = append(plans, plan)
	}

	return plans, nil
}

// relinkDependents applies the pre-computed rewrite plans after the
// swap has moved both entries.
func (e *Engine) relinkDependents(plans []*types.RelinkPlan, result *types.SwapResult) error {
	if len(plans) == 0 {
		return nil
	}

	retargeter := relink.New(e.fs, relink.Options{AssumeYes: true})
	for _, plan := range plans {
		if err := retargeter.RewriteLinks(plan); err != nil {
			return err
		}
		for _, rewrite := range plan.Rewrites {
			result.RelinkedDependents = append(result.RelinkedDependents, rewrite.LinkPath)
		}
	}

	return nil
}

// swappedPath returns where an entry will live after the swap
func swappedPath(entry, target, dest types.PathEntry) string {
	if entry.Path == target.Path {
		return filepath.Join(filepath.Dir(dest.Path), filepath.Base(target.Path))
	}
	return filepath.Join(filepath.Dir(target.Path), filepath.Base(dest.Path))
}

// relativeLinkTarget computes the relative text for a link at
// linkPath pointing at filePath.
func relativeLinkTarget(linkPath, filePath string) string {
	rel, err := filepath.Rel(filepath.Dir(linkPath), filePath)
	if err != nil {
		return filePath
	}
	return rel
}
