// pkg/move/move_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (t.TempDir)
// PURPOSE: Test holding-directory moves and their failure reporting

package move_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/filesystem"
	"github.com/mrizaln/relinka/pkg/move"
	"github.com/mrizaln/relinka/pkg/testutil"
)

func TestMove_RelocatesEntry(t *testing.T) {
	root := t.TempDir()
	source := testutil.CreateFile(t, root, "a/file.txt", "content")
	destDir := testutil.CreateDir(t, root, "b")

	mover := move.New(filesystem.NewOS())
	dest, err := mover.Move(source, destDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "file.txt"), dest)
	assert.Equal(t, "content", testutil.ReadFile(t, dest))

	_, statErr := os.Lstat(source)
	assert.True(t, os.IsNotExist(statErr), "source should be gone")
}

func TestMove_CleansUpHoldingDirectory(t *testing.T) {
	root := t.TempDir()
	source := testutil.CreateFile(t, root, "a/file.txt", "content")
	destDir := testutil.CreateDir(t, root, "b")

	mover := move.New(filesystem.NewOS())
	_, err := mover.Move(source, destDir)
	require.NoError(t, err)

	// No holding directory may survive a successful move
	entries, err := os.ReadDir(filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.Empty(t, entries, "holding directory should be removed")
}

func TestMove_SourceMissing(t *testing.T) {
	root := t.TempDir()
	destDir := testutil.CreateDir(t, root, "b")

	mover := move.New(filesystem.NewOS())
	_, err := mover.Move(filepath.Join(root, "nope.txt"), destDir)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceMissing))
}

func TestMove_DestinationCollision(t *testing.T) {
	root := t.TempDir()
	source := testutil.CreateFile(t, root, "a/file.txt", "new")
	destDir := testutil.CreateDir(t, root, "b")
	occupied := testutil.CreateFile(t, destDir, "file.txt", "old")

	mover := move.New(filesystem.NewOS())
	_, err := mover.Move(source, destDir)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationCollision))

	// Nothing moved
	assert.Equal(t, "new", testutil.ReadFile(t, source))
	assert.Equal(t, "old", testutil.ReadFile(t, occupied))
}

func TestHold_ParksEntryUntilRelease(t *testing.T) {
	root := t.TempDir()
	source := testutil.CreateFile(t, root, "a/file.txt", "content")
	destDir := testutil.CreateDir(t, root, "b")

	mover := move.New(filesystem.NewOS())
	held, err := mover.Hold(source)
	require.NoError(t, err)

	// The entry is recoverable from the holding location
	assert.Equal(t, "content", testutil.ReadFile(t, held.Path))
	_, statErr := os.Lstat(source)
	assert.True(t, os.IsNotExist(statErr))

	dest, err := held.Release(destDir)
	require.NoError(t, err)
	assert.Equal(t, "content", testutil.ReadFile(t, dest))

	_, statErr = os.Lstat(held.Dir)
	assert.True(t, os.IsNotExist(statErr), "holding directory should be removed after release")
}

func TestRelease_OccupiedDestinationLeavesEntryHeld(t *testing.T) {
	root := t.TempDir()
	source := testutil.CreateFile(t, root, "a/file.txt", "held")
	destDir := testutil.CreateDir(t, root, "b")
	testutil.CreateFile(t, destDir, "file.txt", "occupied")

	mover := move.New(filesystem.NewOS())
	held, err := mover.Hold(source)
	require.NoError(t, err)

	_, err = held.Release(destDir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteMove))

	// The error names the holding location and the entry survives there
	details := errors.GetErrorDetails(err)
	assert.Equal(t, held.Path, details["holding"])
	assert.Equal(t, "held", testutil.ReadFile(t, held.Path))
}
