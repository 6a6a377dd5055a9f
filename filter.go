package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// skipExtensions marks files as binary, media, archive, or generated output.
// Lower-case, leading dot included. Fixed at startup; loadSkipConfig may
// extend it before any scan starts, never shrink it.
var skipExtensions = map[string]bool{
	".pyc": true, ".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".json": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".ico": true, ".svg": true, ".pdf": true, ".zip": true, ".tar": true,
	".gz": true, ".7z": true, ".webp": true, ".mp3": true, ".mp4": true,
	".avi": true, ".mov": true, ".yaml": true, ".jar": true, ".ttf": true,
	".woff": true, ".woff2": true, ".cursorrules": true, ".ipynb": true,
	".pkl": true, ".h5": true, ".model": true, ".txt": true, ".class": true,
	".tree": true,
}

// skipDirNames are directory names that never contain interesting text:
// dependency trees, build output, VCS metadata, tool caches.
var skipDirNames = map[string]bool{
	"node_modules": true, "venv": true, "env": true, ".git": true,
	".svelte-kit": true, ".mvn": true, "__pycache__": true, "build": true,
	"dist": true, ".idea": true, ".husky": true, ".turbo": true,
}

// shouldSkipPath reports whether a candidate file should be excluded before
// any read is attempted. It is a pure function of the path and the two
// exclusion sets; the path does not have to exist.
func shouldSkipPath(path string) bool {
	if ext := pathExt(path); ext != "" && skipExtensions[ext] {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skipDirNames[part] {
			return true
		}
	}
	return false
}

// pathExt returns the lower-cased extension of the path's base name,
// including the leading dot. Dotfiles such as .gitignore have no extension.
func pathExt(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(base[i:])
}

// SkipConfig optionally extends the built-in exclusion sets for a run.
type SkipConfig struct {
	Extensions []string `yaml:"extensions"`
	Dirs       []string `yaml:"dirs"`
}

// initSkips loads skips.yml from the standard config locations, if present.
func initSkips() {
	configPaths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", "charfreq"))
	}
	configPaths = append(configPaths, ".")

	var skipFilePath string
	for _, p := range configPaths {
		testPath := filepath.Join(p, "skips.yml")
		if _, err := os.Stat(testPath); err == nil {
			skipFilePath = testPath
			break
		}
	}
	if skipFilePath == "" {
		return
	}

	yamlFile, err := os.ReadFile(skipFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read skip config %s: %v\n", skipFilePath, err)
		return
	}

	var cfg SkipConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not parse skip config %s: %v\n", skipFilePath, err)
		return
	}

	fmt.Fprintf(os.Stderr, "Extending exclusion sets from %s\n", skipFilePath)
	applySkipConfig(cfg)
}

// applySkipConfig folds extra exclusions into the built-in sets. Extensions
// are normalized to lower case with a leading dot.
func applySkipConfig(cfg SkipConfig) {
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		skipExtensions[ext] = true
	}
	for _, dir := range cfg.Dirs {
		skipDirNames[dir] = true
	}
}
