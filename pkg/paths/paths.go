// Package paths provides path helpers shared by the swap and relink
// cores: home-directory resolution, tilde expansion, and the
// common-parent arithmetic used to compute relative symlink targets.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrizaln/relinka/pkg/errors"
)

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME
// environment variable. If both fail, it returns an error rather than
// using dangerous defaults.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	homeDir = os.Getenv("HOME")
	if homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrInternal, "unable to determine home directory: neither os.UserHomeDir() nor HOME environment variable are available")
}

// ExpandHome expands the ~ character to the user's home directory.
// Returns an error if home directory cannot be determined.
func ExpandHome(path string) (string, error) {
	if path == "~" {
		return GetHomeDirectory()
	}

	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return "", fmt.Errorf("cannot expand ~: %w", err)
		}
		return homeDir + path[1:], nil
	}

	return path, nil
}

// CommonParent returns the deepest directory shared by two absolute
// paths, along with the number of components each path has below it.
func CommonParent(left, right string) (string, int, int) {
	leftParts := splitPath(left)
	rightParts := splitPath(right)

	common := 0
	for common < len(leftParts) && common < len(rightParts) && leftParts[common] == rightParts[common] {
		common++
	}

	parent := string(filepath.Separator)
	if common > 0 {
		parent = filepath.Join(append([]string{parent}, leftParts[:common]...)...)
	}

	return parent, len(leftParts) - common, len(rightParts) - common
}

// RelativeTarget computes the literal target text a symlink at
// linkPath should store to resolve to destPath, expressed relative to
// the link's own directory. Both arguments must be absolute.
// A link living in destPath's directory gets the bare filename.
func RelativeTarget(linkPath, destPath string) string {
	if filepath.Dir(linkPath) == filepath.Dir(destPath) {
		return filepath.Base(destPath)
	}

	parent, linkUp, _ := CommonParent(linkPath, destPath)
	rel, err := filepath.Rel(parent, destPath)
	if err != nil {
		// Both paths are absolute and share parent, so Rel cannot
		// fail; fall back to the destination as-is.
		return destPath
	}

	// linkUp counts the link's own filename, which needs no "..".
	return filepath.Join(strings.Repeat("../", linkUp-1), rel)
}

// splitPath breaks an absolute path into its components, dropping the
// leading separator and any trailing one.
func splitPath(path string) []string {
	cleaned := filepath.Clean(path)
	trimmed := strings.TrimPrefix(cleaned, string(filepath.Separator))
	if trimmed == "" || trimmed == "." {
		return nil
	}
	return strings.Split(trimmed, string(filepath.Separator))
}
