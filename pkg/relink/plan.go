package relink

import (
	"path/filepath"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/paths"
	"github.com/mrizaln/relinka/pkg/types"
)

// PlanForMove searches for dependents of source and computes the full
// set of link rewrites for a move to dest, without mutating anything.
// The swap engine uses this directly to retarget dependents of
// swapped entries; MoveRelink layers confirmation and the rename on
// top.
func (r *Retargeter) PlanForMove(source, dest string) (*types.RelinkPlan, error) {
	source, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve source path")
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve destination path")
	}

	records, err := r.Search(source)
	if err != nil {
		return nil, err
	}

	plan := &types.RelinkPlan{Source: source, Destination: dest}
	for _, record := range records {
		plan.Rewrites = append(plan.Rewrites, types.LinkRewrite{
			LinkPath:  record.LinkPath,
			OldTarget: record.TargetPath,
			NewTarget: newTargetText(record, dest),
		})
	}

	return plan, nil
}

// newTargetText computes the literal text a rewritten link stores.
// Links that stored an absolute target keep an absolute one; relative
// targets stay relative, recomputed from the link's directory. A link
// resolving inside a moved directory keeps its inner suffix.
func newTargetText(record types.SymlinkRecord, dest string) string {
	if filepath.IsAbs(record.TargetPath) {
		return filepath.Join(dest, record.InnerSuffix)
	}

	target := paths.RelativeTarget(record.LinkPath, dest)
	if record.InnerSuffix != "" {
		target = filepath.Join(target, record.InnerSuffix)
	}
	return target
}

// RewriteLinks deletes and recreates every symlink in the plan with
// its new target text. The first primitive failure aborts; links
// already rewritten stay rewritten, per the no-rollback policy.
func (r *Retargeter) RewriteLinks(plan *types.RelinkPlan) error {
	for _, rewrite := range plan.Rewrites {
		if err := r.fs.Remove(rewrite.LinkPath); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to remove stale link %s", rewrite.LinkPath).
				WithDetail("link", rewrite.LinkPath)
		}
		if err := r.fs.Symlink(rewrite.NewTarget, rewrite.LinkPath); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to recreate link %s -> %s", rewrite.LinkPath, rewrite.NewTarget).
				WithDetail("link", rewrite.LinkPath).
				WithDetail("target", rewrite.NewTarget)
		}
		r.logger.Info().
			Str("link", rewrite.LinkPath).
			Str("old", rewrite.OldTarget).
			Str("new", rewrite.NewTarget).
			Msg("Rewrote symlink")
	}
	return nil
}

// moveSymlinkEntry relocates a symlink itself, re-pointing it so a
// relative target still resolves from the new location.
func (r *Retargeter) moveSymlinkEntry(entry types.PathEntry, dest string) error {
	resolved := resolveLinkTarget(entry.Path, entry.LinkTarget)

	newTarget := resolved
	if !filepath.IsAbs(entry.LinkTarget) {
		newTarget = paths.RelativeTarget(dest, resolved)
	}

	if err := r.fs.Symlink(newTarget, dest); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create link %s -> %s", dest, newTarget).
			WithDetail("link", dest).
			WithDetail("target", newTarget)
	}
	if err := r.fs.Remove(entry.Path); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to remove old link %s", entry.Path).
			WithDetail("link", entry.Path)
	}

	r.logger.Info().
		Str("old", entry.Path).
		Str("new", dest).
		Str("target", newTarget).
		Msg("Moved symlink")

	return nil
}
