// Package fswriter writes a compiler's generated output to disk without
// disturbing files whose contents didn't change, so an incremental build
// only re-triggers downstream compilation (HLSL/C++ compilers, build
// systems watching mtimes) for files that actually changed. The
// compare-then-write idiom is grounded on the teacher's golden-file test
// helper, compareGolden in snapshot/snapshot_test.go.
package fswriter

import (
	"bytes"
	"os"
	"path/filepath"
)

// WriteIfDifferent writes contents to path, creating parent directories as
// needed. If a file already exists at path with byte-identical contents,
// it reports changed = false and leaves the file (and its mtime) alone.
func WriteIfDifferent(path string, contents []byte) (changed bool, err error) {
	existing, readErr := os.ReadFile(path)
	if readErr == nil && bytes.Equal(existing, contents) {
		return false, nil
	}
	if readErr != nil && !os.IsNotExist(readErr) {
		return false, readErr
	}

	if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
		return false, mkErr
	}
	if wErr := os.WriteFile(path, contents, 0o644); wErr != nil {
		return false, wErr
	}
	return true, nil
}

// File is one path/contents pair to write, matching the output shape of
// hlslgen.File and hostgen.File.
type File struct {
	Path     string
	Contents string
}

// Result summarizes one Tree write: which paths were actually written to
// disk, versus skipped because their contents already matched.
type Result struct {
	Written []string
	Skipped []string
}

// Tree writes every file in files, reporting which paths changed. It does
// not remove files that exist on disk but aren't in files: stale-output
// cleanup is the caller's responsibility, since only the caller knows
// which output directory is safe to prune.
func Tree(files []File) (Result, error) {
	var result Result
	for _, f := range files {
		changed, err := WriteIfDifferent(f.Path, []byte(f.Contents))
		if err != nil {
			return result, err
		}
		if changed {
			result.Written = append(result.Written, f.Path)
		} else {
			result.Skipped = append(result.Skipped, f.Path)
		}
	}
	return result, nil
}
