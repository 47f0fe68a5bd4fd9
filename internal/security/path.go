package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path validates file paths to prevent path traversal attacks (CWE-22).
type Path struct {
	allowedDirs []string
	workDir     string
}

// NewPath creates a path validator.
// allowedDirs lists directories that may be accessed in addition to the
// working directory (empty list means only the working directory is allowed).
func NewPath(allowedDirs []string) (*Path, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("unable to get working directory: %w", err)
	}

	// Convert all allowed directories to absolute paths
	absAllowedDirs := make([]string, 0, len(allowedDirs))
	for _, dir := range allowedDirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve directory %s: %w", dir, err)
		}
		absAllowedDirs = append(absAllowedDirs, absDir)
	}

	return &Path{
		allowedDirs: absAllowedDirs,
		workDir:     workDir,
	}, nil
}

// Validate validates and sanitizes a file path.
// Returns a safe absolute path or an error.
func (v *Path) Validate(path string) (string, error) {
	// 1. Clean the path (remove ../ etc.)
	cleanPath := filepath.Clean(path)

	// 2. Convert to absolute path
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	// 3. Check if within allowed directories
	if !v.isAllowed(absPath) {
		return "", fmt.Errorf("access denied: path '%s' is not within allowed directories", absPath)
	}

	// 4. Resolve symbolic links (prevent bypassing restrictions through symlinks)
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// If the file doesn't exist, EvalSymlinks fails. That is acceptable
		// for paths that will be probed for existence later.
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("unable to resolve symbolic link: %w", err)
		}
		return absPath, nil
	}

	// 5. Check again that the resolved symlink target is within allowed directories
	if realPath != absPath {
		if !v.isAllowed(realPath) {
			return "", fmt.Errorf("access denied: symbolic link points to disallowed location '%s'", realPath)
		}
		absPath = realPath
	}

	return absPath, nil
}

// isAllowed reports whether absPath is the working directory, an allowed
// directory, or contained in either.
func (v *Path) isAllowed(absPath string) bool {
	absPathWithSep := filepath.Clean(absPath) + string(filepath.Separator)

	workDirNorm := filepath.Clean(v.workDir) + string(filepath.Separator)
	if strings.HasPrefix(absPathWithSep, workDirNorm) || absPath == v.workDir {
		return true
	}

	for _, dir := range v.allowedDirs {
		dirNorm := filepath.Clean(dir) + string(filepath.Separator)
		if strings.HasPrefix(absPathWithSep, dirNorm) || absPath == dir {
			return true
		}
	}

	return false
}
