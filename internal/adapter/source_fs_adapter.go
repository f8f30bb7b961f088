// Package adapter contains the infrastructure adapters of livetrace: the
// Starlark front end, the report builder, configuration and file access.
package adapter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	m "github.com/mouse-blink/livetrace/internal/model"
)

const (
	// StarExt is the extension of Starlark files picked up from directories.
	StarExt = ".star"
	// StdinPath reads a source from standard input.
	StdinPath = "-"
	// stdinName identifies a source read from standard input.
	stdinName = "<stdin>"
)

// SourceFSAdapter abstracts the file system operations used to collect the
// sources to trace, so the workflow can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get resolves paths into sources. A path is a file, a directory (its
	// *.star files), a directory with a /... suffix (recursively), or "-"
	// for standard input. Results keep argument order without duplicates.
	Get(paths []m.Path) ([]m.Source, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter reads sources from the local file system.
type LocalSourceFSAdapter struct {
	stdin io.Reader
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter reading "-"
// from os.Stdin.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{stdin: os.Stdin}
}

// NewSourceFSAdapterWithStdin constructs a LocalSourceFSAdapter reading "-"
// from r.
func NewSourceFSAdapterWithStdin(r io.Reader) *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{stdin: r}
}

// Get collects sources for the provided paths.
func (a *LocalSourceFSAdapter) Get(paths []m.Path) ([]m.Source, error) {
	seen := make(map[m.Path]struct{})
	sources := []m.Source{}

	add := func(key m.Path, source m.Source) {
		if _, exists := seen[key]; exists {
			return
		}

		seen[key] = struct{}{}
		sources = append(sources, source)
	}

	for _, path := range paths {
		if string(path) == StdinPath {
			// stdin can only be read once
			if _, exists := seen[StdinPath]; exists {
				continue
			}

			text, err := io.ReadAll(a.stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read standard input: %w", err)
			}

			add(StdinPath, m.Source{Name: stdinName, Text: text})

			continue
		}

		rootPath, recursive, err := normalizeRootPath(string(path))
		if err != nil {
			return nil, err
		}

		info, err := a.FileInfo(m.Path(rootPath))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			source, err := a.readSource(rootPath)
			if err != nil {
				return nil, err
			}

			add(source.Origin, source)

			continue
		}

		err = a.Walk(m.Path(rootPath), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || filepath.Ext(path) != StarExt {
				return nil
			}

			source, err := a.readSource(path)
			if err != nil {
				return err
			}

			add(source.Origin, source)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return sources, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

func (a *LocalSourceFSAdapter) readSource(path string) (m.Source, error) {
	text, err := a.ReadFile(m.Path(path))
	if err != nil {
		return m.Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return m.Source{Origin: m.Path(path), Text: text}, nil
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if len(rootStr) >= 4 && rootStr[len(rootStr)-4:] == "/..." {
		return rootStr[:len(rootStr)-4], true
	}

	return rootStr, false
}
