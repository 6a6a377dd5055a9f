package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestScanRootCountsCharacters(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "main.go"), "aabbcc")

	result := NewScanResult()
	require.NoError(t, scanRoot(dir, result))

	assert.Equal(t, 1, result.FileCount())
	assert.Empty(t, result.Errors)
	assert.Equal(t, CharTally{'a': 2, 'b': 2, 'c': 2}, result.Tally)
	assert.Equal(t, 6, result.Tally.Total())
}

func TestScanRootAppliesFilter(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.txt"), "aab")
	writeTestFile(t, filepath.Join(dir, "node_modules", "skip.js"), "xyz")

	result := NewScanResult()
	require.NoError(t, scanRoot(dir, result))

	assert.Equal(t, 0, result.FileCount())
	assert.Empty(t, result.Tally)
	assert.Empty(t, result.Errors)
}

func TestScanRootRecordsDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0xff, 0xfe, 0x01}, 0644))
	writeTestFile(t, filepath.Join(dir, "ok.go"), "xy")

	result := NewScanResult()
	require.NoError(t, scanRoot(dir, result))

	assert.Equal(t, 1, result.FileCount())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, filepath.Join(dir, "blob.bin"), result.Errors[0].Path)
	assert.ErrorIs(t, result.Errors[0].Err, errNotText)
	assert.Equal(t, CharTally{'x': 1, 'y': 1}, result.Tally)
}

func TestScanRootRecordsPermissionErrors(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.go")
	writeTestFile(t, path, "abc")
	require.NoError(t, os.Chmod(path, 0000))

	result := NewScanResult()
	require.NoError(t, scanRoot(dir, result))

	assert.Equal(t, 0, result.FileCount())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, path, result.Errors[0].Path)
	assert.ErrorIs(t, result.Errors[0].Err, fs.ErrPermission)
}

func TestScanRootMissingRoot(t *testing.T) {
	result := NewScanResult()
	require.NoError(t, scanRoot(filepath.Join(t.TempDir(), "does-not-exist"), result))

	assert.Equal(t, 0, result.FileCount())
	assert.Empty(t, result.Tally)
	assert.Empty(t, result.Errors)
}

func TestScanRootTallyMatchesContentLength(t *testing.T) {
	dir := t.TempDir()
	contents := map[string]string{
		"one.go":       "héllo\n",
		"two.rs":       "fn main() {}",
		"sub/three.md": "# title",
	}
	total := 0
	for name, content := range contents {
		writeTestFile(t, filepath.Join(dir, name), content)
		total += utf8.RuneCountInString(content)
	}

	result := NewScanResult()
	require.NoError(t, scanRoot(dir, result))

	assert.Equal(t, len(contents), result.FileCount())
	assert.Equal(t, total, result.Tally.Total())
}

func TestScanRootFileCountInvariant(t *testing.T) {
	// Every file that passes the filter gate is either merged or recorded
	// as an error, never both.
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "good.go"), "ok")
	writeTestFile(t, filepath.Join(dir, "also.rs"), "ok")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.bin"), []byte{0x80, 0x81}, 0644))
	writeTestFile(t, filepath.Join(dir, "skipped.txt"), "invisible")

	result := NewScanResult()
	require.NoError(t, scanRoot(dir, result))

	passedGate := 3 // good.go, also.rs, bad.bin
	assert.Equal(t, passedGate, result.FileCount()+len(result.Errors))
	for _, fe := range result.Errors {
		assert.NotContains(t, result.Processed, fe.Path)
	}
}

func TestScanRootRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, ".gitignore"), "ignored.go\n")
	writeTestFile(t, filepath.Join(dir, "ignored.go"), "aaaa")
	writeTestFile(t, filepath.Join(dir, "kept.go"), "bb")

	useGitignore = true
	defer func() { useGitignore = false }()

	result := NewScanResult()
	require.NoError(t, scanRoot(dir, result))

	// The .gitignore file itself has no extension, so it gets scanned too.
	assert.Equal(t, []string{
		filepath.Join(dir, ".gitignore"),
		filepath.Join(dir, "kept.go"),
	}, result.Processed)
}

func TestCharTallyMergeIsCommutative(t *testing.T) {
	a := CharTally{'a': 1, 'b': 2}
	b := CharTally{'b': 3, 'c': 4}

	left := CharTally{}
	left.Merge(a)
	left.Merge(b)

	right := CharTally{}
	right.Merge(b)
	right.Merge(a)

	assert.Equal(t, left, right)
	assert.Equal(t, CharTally{'a': 1, 'b': 5, 'c': 4}, left)
}

func TestScanOrderIndependence(t *testing.T) {
	// Scanning the same files as two roots in either order produces the
	// same tally.
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeTestFile(t, filepath.Join(dirA, "a.go"), "abc")
	writeTestFile(t, filepath.Join(dirB, "b.go"), "cde")

	forward := NewScanResult()
	require.NoError(t, scanRoot(dirA, forward))
	require.NoError(t, scanRoot(dirB, forward))

	backward := NewScanResult()
	require.NoError(t, scanRoot(dirB, backward))
	require.NoError(t, scanRoot(dirA, backward))

	assert.Equal(t, forward.Tally, backward.Tally)
	assert.Equal(t, forward.FileCount(), backward.FileCount())
}
