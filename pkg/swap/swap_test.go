// pkg/swap/swap_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (t.TempDir)
// PURPOSE: Test file-file and link-over-target swaps and their rejections

package swap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/filesystem"
	"github.com/mrizaln/relinka/pkg/swap"
	"github.com/mrizaln/relinka/pkg/testutil"
)

func newEngine() *swap.Engine {
	return swap.New(filesystem.NewOS())
}

func TestSwap_FileFile_ExchangesParents(t *testing.T) {
	root := t.TempDir()
	fileA := testutil.CreateFile(t, root, "dirA/a.txt", "content-a")
	fileB := testutil.CreateFile(t, root, "dirB/b.txt", "content-b")

	result, err := newEngine().Swap(fileA, fileB, swap.Options{})
	require.NoError(t, err)

	// Filenames preserved, parent directories exchanged
	assert.Equal(t, filepath.Join(root, "dirB/a.txt"), result.NewTargetPath)
	assert.Equal(t, filepath.Join(root, "dirA/b.txt"), result.NewDestinationPath)
	assert.Equal(t, "content-a", testutil.ReadFile(t, result.NewTargetPath))
	assert.Equal(t, "content-b", testutil.ReadFile(t, result.NewDestinationPath))

	// Old paths are gone
	_, err = os.Lstat(fileA)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(fileB)
	assert.True(t, os.IsNotExist(err))
}

func TestSwap_Involution(t *testing.T) {
	root := t.TempDir()
	fileA := testutil.CreateFile(t, root, "dirA/a.txt", "content-a")
	fileB := testutil.CreateFile(t, root, "dirB/b.txt", "content-b")

	engine := newEngine()
	first, err := engine.Swap(fileA, fileB, swap.Options{})
	require.NoError(t, err)

	_, err = engine.Swap(first.NewTargetPath, first.NewDestinationPath, swap.Options{})
	require.NoError(t, err)

	// Swapping twice restores the original path -> content mapping
	assert.Equal(t, "content-a", testutil.ReadFile(t, fileA))
	assert.Equal(t, "content-b", testutil.ReadFile(t, fileB))
}

func TestSwap_SameName_DifferentDirectories(t *testing.T) {
	root := t.TempDir()
	fileA := testutil.CreateFile(t, root, "dirA/same.txt", "content-a")
	fileB := testutil.CreateFile(t, root, "dirB/same.txt", "content-b")

	result, err := newEngine().Swap(fileA, fileB, swap.Options{})
	require.NoError(t, err)

	assert.Equal(t, "content-a", testutil.ReadFile(t, result.NewTargetPath))
	assert.Equal(t, "content-b", testutil.ReadFile(t, result.NewDestinationPath))
	assert.Equal(t, "content-a", testutil.ReadFile(t, filepath.Join(root, "dirB/same.txt")))
	assert.Equal(t, "content-b", testutil.ReadFile(t, filepath.Join(root, "dirA/same.txt")))
}

func TestSwap_LinkOverTarget_ReestablishesLink(t *testing.T) {
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "real/file.txt", "content")
	link := filepath.Join(root, "links/file.link")
	testutil.CreateSymlink(t, file, link)

	result, err := newEngine().Swap(file, link, swap.Options{})
	require.NoError(t, err)

	// The file now lives where the link was, the link where the file was
	assert.Equal(t, filepath.Join(root, "links/file.txt"), result.NewTargetPath)
	assert.Equal(t, filepath.Join(root, "real/file.link"), result.NewDestinationPath)
	assert.Equal(t, "content", testutil.ReadFile(t, result.NewTargetPath))

	// The link resolves to the moved file, no dangling link remains
	assert.True(t, testutil.IsSymlink(t, result.NewDestinationPath))
	testutil.ResolvesTo(t, result.NewDestinationPath, "content")
}

func TestSwap_LinkOverTarget_RelativeLinkStaysRelative(t *testing.T) {
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "real/file.txt", "content")
	link := filepath.Join(root, "links/file.link")
	testutil.CreateSymlink(t, "../real/file.txt", link)

	result, err := newEngine().Swap(file, link, swap.Options{})
	require.NoError(t, err)

	newTarget := testutil.ReadLink(t, result.NewDestinationPath)
	assert.False(t, filepath.IsAbs(newTarget), "relative link should stay relative")
	testutil.ResolvesTo(t, result.NewDestinationPath, "content")
}

func TestSwap_RejectsDirectories(t *testing.T) {
	root := t.TempDir()
	dir := testutil.CreateDir(t, root, "dir")
	file := testutil.CreateFile(t, root, "file.txt", "content")

	_, err := newEngine().Swap(dir, file, swap.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedEntryKind))

	// Rejection leaves both entries untouched
	assert.Equal(t, "content", testutil.ReadFile(t, file))
	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestSwap_RejectsMissingEntry(t *testing.T) {
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "file.txt", "content")

	_, err := newEngine().Swap(file, filepath.Join(root, "missing.txt"), swap.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedEntryKind))
}

func TestSwap_RejectsUnrelatedLink(t *testing.T) {
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "file.txt", "content")
	other := testutil.CreateFile(t, root, "other.txt", "other")
	link := filepath.Join(root, "file.link")
	testutil.CreateSymlink(t, other, link)

	_, err := newEngine().Swap(file, link, swap.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetMismatch))

	// Refusal leaves everything in place
	assert.Equal(t, "content", testutil.ReadFile(t, file))
	assert.Equal(t, other, testutil.ReadLink(t, link))
}

func TestSwap_RejectsDanglingLink(t *testing.T) {
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "file.txt", "content")
	link := filepath.Join(root, "dangling.link")
	testutil.CreateSymlink(t, filepath.Join(root, "gone.txt"), link)

	_, err := newEngine().Swap(file, link, swap.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetMismatch))
}

func TestSwap_RejectsBystanderAtDestinationName(t *testing.T) {
	root := t.TempDir()
	target := testutil.CreateFile(t, root, "dirA/t.txt", "target")
	dest := testutil.CreateFile(t, root, "dirB/x.txt", "dest")
	bystander := testutil.CreateFile(t, root, "dirA/x.txt", "precious")

	_, err := newEngine().Swap(target, dest, swap.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationCollision))

	// Nothing moved, and the unrelated file keeps its content
	assert.Equal(t, "target", testutil.ReadFile(t, target))
	assert.Equal(t, "dest", testutil.ReadFile(t, dest))
	assert.Equal(t, "precious", testutil.ReadFile(t, bystander))
}

func TestSwap_RejectsBystanderAtTargetName(t *testing.T) {
	root := t.TempDir()
	target := testutil.CreateFile(t, root, "dirA/t.txt", "target")
	dest := testutil.CreateFile(t, root, "dirB/x.txt", "dest")
	bystander := testutil.CreateFile(t, root, "dirB/t.txt", "precious")

	_, err := newEngine().Swap(target, dest, swap.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationCollision))

	assert.Equal(t, "target", testutil.ReadFile(t, target))
	assert.Equal(t, "dest", testutil.ReadFile(t, dest))
	assert.Equal(t, "precious", testutil.ReadFile(t, bystander))
}

func TestSwap_RejectsSamePath(t *testing.T) {
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "file.txt", "content")

	_, err := newEngine().Swap(file, file, swap.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSwap_RelinkDependents(t *testing.T) {
	root := t.TempDir()
	fileA := testutil.CreateFile(t, root, "dirA/a.txt", "content-a")
	fileB := testutil.CreateFile(t, root, "dirB/b.txt", "content-b")
	depLink := filepath.Join(root, "deps/a.link")
	testutil.CreateSymlink(t, fileA, depLink)

	result, err := newEngine().Swap(fileA, fileB, swap.Options{
		LookupDir:        root,
		RelinkDependents: true,
	})
	require.NoError(t, err)

	// The dependent link follows the swapped entry to its new home
	assert.Contains(t, result.RelinkedDependents, depLink)
	testutil.ResolvesTo(t, depLink, "content-a")
	assert.Equal(t, result.NewTargetPath, testutil.ReadLink(t, depLink))
}
