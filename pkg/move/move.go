// Package move implements relocation of a single filesystem entry
// through a temporary holding directory. The filesystem only offers
// single-entry atomic rename, so a two-step move is the primitive the
// swap engine builds on. If the process dies between the two renames
// the entry survives in the holding directory, whose path is logged
// and reported, never silently discarded.
package move

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/logging"
	"github.com/mrizaln/relinka/pkg/types"
)

// holdingPrefix names holding directories so interrupted moves are
// recognizable when inspecting the filesystem afterwards.
const holdingPrefix = ".relinka-hold"

// Mover relocates filesystem entries via holding directories
type Mover struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Mover backed by the given filesystem
func New(filesystem types.FS) *Mover {
	return &Mover{
		fs:     filesystem,
		logger: logging.GetLogger("move"),
	}
}

// Holding is an entry parked in a holding directory between the two
// renames of a move. Release completes the move; until then the entry
// lives at Path.
type Holding struct {
	mover *Mover

	// Dir is the holding directory itself
	Dir string
	// Path is where the held entry currently resides
	Path string
}

// Hold parks the entry at source in a freshly created holding
// directory next to source's parent. The holding directory path is
// logged so an interrupted move can be recovered manually.
func (m *Mover) Hold(source string) (*Holding, error) {
	source, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve source path")
	}

	if _, err := m.fs.Lstat(source); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSourceMissing, "source does not exist: %s", source).
				WithDetail("source", source)
		}
		return nil, wrapFsError(err, "failed to stat source", source)
	}

	holdDir := filepath.Join(filepath.Dir(source), fmt.Sprintf("%s-%d-%d", holdingPrefix, os.Getpid(), time.Now().UnixNano()))
	if err := m.fs.MkdirAll(holdDir, 0700); err != nil {
		return nil, wrapFsError(err, "failed to create holding directory", holdDir)
	}

	heldPath := filepath.Join(holdDir, filepath.Base(source))
	m.logger.Info().
		Str("source", source).
		Str("holding", heldPath).
		Msg("Parking entry in holding directory")

	if err := m.fs.Rename(source, heldPath); err != nil {
		// Nothing has moved yet, so the empty holding dir can go
		_ = m.fs.Remove(holdDir)
		return nil, wrapFsError(err, "failed to move entry into holding directory", source)
	}

	return &Holding{mover: m, Dir: holdDir, Path: heldPath}, nil
}

// Release moves the held entry out to destDir, keeping its filename,
// and removes the holding directory once verified empty. On failure
// the entry stays in the holding directory and the returned error
// carries its path.
func (h *Holding) Release(destDir string) (string, error) {
	destDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to resolve destination path")
	}

	dest := filepath.Join(destDir, filepath.Base(h.Path))
	if _, err := h.mover.fs.Lstat(dest); err == nil {
		return "", errors.Newf(errors.ErrIncompleteMove, "destination already occupied: %s (entry held at %s)", dest, h.Path).
			WithDetail("destination", dest).
			WithDetail("holding", h.Path)
	}

	if err := h.mover.fs.Rename(h.Path, dest); err != nil {
		return "", errors.Wrapf(err, errors.ErrIncompleteMove, "failed to complete move to %s (entry held at %s)", dest, h.Path).
			WithDetail("destination", dest).
			WithDetail("holding", h.Path)
	}

	h.mover.removeHoldingDir(h.Dir)

	h.mover.logger.Debug().
		Str("destination", dest).
		Msg("Released entry from holding directory")

	return dest, nil
}

// Move relocates the entry at source into destDir, keeping its
// filename. Fails without mutation if source is missing or the
// destination path is occupied.
func (m *Mover) Move(source, destDir string) (string, error) {
	source, err := filepath.Abs(source)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to resolve source path")
	}
	destDir, err = filepath.Abs(destDir)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to resolve destination path")
	}

	dest := filepath.Join(destDir, filepath.Base(source))
	if _, err := m.fs.Lstat(dest); err == nil {
		return "", errors.Newf(errors.ErrDestinationCollision, "destination already exists: %s", dest).
			WithDetail("destination", dest)
	}

	held, err := m.Hold(source)
	if err != nil {
		return "", err
	}

	return held.Release(destDir)
}

// removeHoldingDir removes a holding directory only when empty; a
// non-empty one means something unexpected is parked there and must
// not be destroyed.
func (m *Mover) removeHoldingDir(dir string) {
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		m.logger.Warn().Err(err).Str("holding", dir).Msg("Could not inspect holding directory, leaving it in place")
		return
	}
	if len(entries) > 0 {
		m.logger.Warn().Str("holding", dir).Int("entries", len(entries)).Msg("Holding directory not empty, leaving it in place")
		return
	}
	if err := m.fs.Remove(dir); err != nil {
		m.logger.Warn().Err(err).Str("holding", dir).Msg("Failed to remove holding directory")
	}
}

// wrapFsError classifies a filesystem primitive failure
func wrapFsError(err error, message, path string) *errors.RelinkaError {
	code := errors.ErrInternal
	if os.IsPermission(err) {
		code = errors.ErrPermission
	}
	return errors.Wrapf(err, code, "%s: %s", message, path).WithDetail("path", path)
}
