package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	gitignore "github.com/monochromegane/go-gitignore"
)

// errNotText marks content that could not be interpreted as UTF-8 text.
var errNotText = errors.New("content is not valid UTF-8 text")

// scanRoot walks root and merges the characters of every eligible file into
// result. A non-existent root yields an empty traversal, not an error.
//
// Per-file failures fall into a closed set — undecodable content, permission
// denied, file gone between discovery and read — and are recorded on the
// result while the scan continues. Any other read failure aborts the whole
// scan so that unanticipated environment problems surface.
func scanRoot(root string, result *ScanResult) error {
	var ignoreMatcher gitignore.IgnoreMatcher
	if useGitignore {
		// Only a root-level .gitignore is consulted.
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not parse .gitignore file %s: %v\n", gitIgnorePath, err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing root or an unreadable directory is the same as an
			// empty traversal of it.
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			return err
		}

		if d.IsDir() {
			// Pruning excluded directories here is observably identical to
			// filtering their files one by one.
			if skipDirNames[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		if ignoreMatcher != nil {
			relPath, _ := filepath.Rel(root, path)
			if ignoreMatcher.Match(relPath, false) {
				return nil
			}
		}

		if shouldSkipPath(path) {
			return nil
		}

		return tallyFile(path, result)
	})
	if err != nil {
		return fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return nil
}

// tallyFile reads one file and merges its characters into the result.
// Recognized failures are recorded on the result; anything else is returned.
func tallyFile(path string, result *ScanResult) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
			result.Errors = append(result.Errors, FileError{Path: path, Err: err})
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if !utf8.Valid(content) {
		result.Errors = append(result.Errors, FileError{Path: path, Err: errNotText})
		return nil
	}

	result.Tally.MergeText(string(content))
	result.Processed = append(result.Processed, path)
	return nil
}
