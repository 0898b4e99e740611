// Package relink implements move-with-dependents-updated: renaming a
// file or directory while discovering every symlink under a bounded
// search scope that references it, and rewriting each link so it
// still resolves after the move.
package relink

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/logging"
	"github.com/mrizaln/relinka/pkg/types"
)

// MatchMode selects how symlink targets are matched against the
// moved entry.
type MatchMode string

const (
	// MatchStrict requires the final path component to match and the
	// resolved link to be the same entry (or live inside it, for
	// directories).
	MatchStrict MatchMode = "strict"

	// MatchSubstring accepts any link whose literal target text
	// contains the entry's name. Permissive and fragile; opt-in.
	MatchSubstring MatchMode = "substring"
)

// Options configures a Retargeter
type Options struct {
	// SearchRoot is the directory scanned for dependent symlinks
	SearchRoot string
	// MaxDepth bounds the scan to this many levels below SearchRoot
	MaxDepth int
	// Mode selects strict or substring matching
	Mode MatchMode
	// Ignore lists glob patterns for directories the scan skips
	Ignore []string
	// Dialog collects the user's confirmation; required unless
	// AssumeYes is set
	Dialog types.ConfirmationDialog
	// AssumeYes skips the confirmation prompt
	AssumeYes bool
}

// Retargeter moves an entry and keeps its dependent symlinks valid
type Retargeter struct {
	fs     types.FS
	opts   Options
	logger zerolog.Logger
}

// New creates a Retargeter backed by the given filesystem
func New(filesystem types.FS, opts Options) *Retargeter {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = 10
	}
	if opts.Mode == "" {
		opts.Mode = MatchStrict
	}
	return &Retargeter{
		fs:     filesystem,
		opts:   opts,
		logger: logging.GetLogger("relink"),
	}
}

// MoveRelink renames source to dest, discovering and rewriting every
// dependent symlink. When rewrites are needed the plan is presented
// for confirmation first; declining aborts with zero mutation. The
// returned plan records what was (or would have been) done.
func (r *Retargeter) MoveRelink(source, dest string) (*types.RelinkPlan, error) {
	source, dest, err := r.resolveMovePaths(source, dest)
	if err != nil {
		return nil, err
	}

	entry, err := types.ClassifyPath(r.fs, source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to classify %s", source)
	}

	// A symlink's own identity needs no dependent discovery; it just
	// gets re-pointed relative to its new location.
	if entry.Kind == types.KindSymlink {
		if err := r.moveSymlinkEntry(entry, dest); err != nil {
			return nil, err
		}
		return &types.RelinkPlan{Source: source, Destination: dest}, nil
	}

	plan, err := r.PlanForMove(source, dest)
	if err != nil {
		return nil, err
	}

	if !plan.HasRewrites() {
		r.logger.Info().Str("source", source).Str("dest", dest).Msg("No dependent symlinks, renaming directly")
		if err := r.fs.Rename(source, dest); err != nil {
			return nil, wrapRenameError(err, source, dest)
		}
		return plan, nil
	}

	if !r.opts.AssumeYes {
		if r.opts.Dialog == nil {
			return nil, errors.New(errors.ErrInternal, "no confirmation dialog configured")
		}
		confirmed, err := r.opts.Dialog.ConfirmPlan(plan)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to read confirmation")
		}
		if !confirmed {
			return nil, errors.New(errors.ErrUserAborted, "aborted, nothing was changed").
				WithDetail("source", source)
		}
	}

	if err := r.fs.Rename(source, dest); err != nil {
		return nil, wrapRenameError(err, source, dest)
	}

	if err := r.RewriteLinks(plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// resolveMovePaths makes both paths absolute, verifies source exists
// and dest does not, and applies the move-into-directory convenience:
// an existing directory as dest means dest/<source filename>.
func (r *Retargeter) resolveMovePaths(source, dest string) (string, string, error) {
	source, err := filepath.Abs(source)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrInternal, "failed to resolve source path")
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrInternal, "failed to resolve destination path")
	}

	if _, err := r.fs.Lstat(source); err != nil {
		if os.IsNotExist(err) {
			return "", "", errors.Newf(errors.ErrSourceMissing, "source does not exist: %s", source).
				WithDetail("source", source)
		}
		return "", "", errors.Wrapf(err, errors.ErrInternal, "failed to stat %s", source)
	}

	if info, err := r.fs.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, filepath.Base(source))
	}

	if _, err := r.fs.Lstat(dest); err == nil {
		return "", "", errors.Newf(errors.ErrDestinationCollision, "destination already exists: %s", dest).
			WithDetail("destination", dest)
	}

	return source, dest, nil
}

func wrapRenameError(err error, source, dest string) *errors.RelinkaError {
	code := errors.ErrInternal
	if os.IsPermission(err) {
		code = errors.ErrPermission
	}
	return errors.Wrapf(err, code, "failed to rename %s to %s", source, dest).
		WithDetail("source", source).
		WithDetail("destination", dest)
}
