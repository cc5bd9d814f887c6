// Package load finds and parses the Go packages automockgen reads interfaces from.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Dir resolves an import path to a source directory. "." is the working
// directory. A bare name matching a local subdirectory with Go files (a local
// "time" package shadowing the standard library, say) resolves to that
// subdirectory.
func Dir(importPath string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if importPath == "." {
		return wd, nil
	}

	if local, ok := localSubdir(wd, importPath); ok {
		return local, nil
	}

	pkg, err := build.Import(importPath, wd, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}

// ImportPath returns the import path of the package in dir, asking the go
// command. Results are cached per directory.
func ImportPath(dir string) (string, error) {
	importPathCacheMu.RLock()
	cached, ok := importPathCache[dir]
	importPathCacheMu.RUnlock()

	if ok {
		return cached, nil
	}

	//nolint:noctx // context not needed for simple command
	cmd := exec.Command("go", "list", "-f", "{{.ImportPath}}", ".")
	cmd.Dir = dir

	var out bytes.Buffer

	cmd.Stdout = &out

	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("failed to get import path for directory %s: %w", dir, err)
	}

	importPath := strings.TrimSpace(out.String())

	importPathCacheMu.Lock()
	importPathCache[dir] = importPath
	importPathCacheMu.Unlock()

	return importPath, nil
}

// Package parses the Go files of the package at importPath. Test files are
// only read for ".", where the generating test package lives. Files that do
// not parse are skipped.
func Package(importPath string) ([]*dst.File, *token.FileSet, error) {
	dir, err := Dir(importPath)
	if err != nil {
		return nil, nil, err
	}

	return ParseDir(dir, importPath == ".")
}

// ParseDir parses the Go files in dir.
func ParseDir(dir string, includeTests bool) ([]*dst.File, *token.FileSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	files := make([]*dst.File, 0, len(entries))
	sawGoFile := false

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		sawGoFile = true

		file, err := dec.ParseFile(filepath.Join(dir, name), nil, 0)
		if err != nil {
			continue
		}

		files = append(files, file)
	}

	if !sawGoFile {
		return nil, nil, fmt.Errorf("%w: no .go files in %s", errNoPackagesFound, dir)
	}

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: failed to parse any .go files in %s", errNoPackagesFound, dir)
	}

	return files, fset, nil
}

// unexported variables.
var (
	errNoPackagesFound = errors.New("no packages found")
	//nolint:gochecknoglobals // Cache of 'go list' results
	importPathCache = make(map[string]string)
	//nolint:gochecknoglobals // Mutex for importPathCache
	importPathCacheMu sync.RWMutex
)

// localSubdir reports whether a bare package name refers to a subdirectory of
// wd holding Go files.
func localSubdir(wd, importPath string) (string, bool) {
	if strings.Contains(importPath, "/") {
		return "", false
	}

	dir := filepath.Join(wd, importPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") {
			return dir, true
		}
	}

	return "", false
}
