// automockgen generates the adapters automock needs to mock interfaces.
// Install it with `go install github.com/toejough/automock/automockgen@latest`
// and add `//go:generate automockgen <Interface>` next to the test that needs
// the mock. The adapter is named <Interface>Mock unless `--name` says
// otherwise, is written to generated_<name>.go (generated_<name>_test.go in a
// test package), and registers itself with automock from init. `--config`
// reads the interfaces to generate from a YAML file, and `--check` reports
// stale files without writing.
package main

import (
	"fmt"
	"go/token"
	"os"

	"github.com/dave/dst"
	"github.com/toejough/automock/automockgen/run"
	load "github.com/toejough/automock/automockgen/run/2_load"
)

func main() {
	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements output.FileSystem using the os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements detect.PackageLoader by parsing source directly.
type realPackageLoader struct{}

// ImportPath returns the import path of the package importPath resolves to.
func (pl *realPackageLoader) ImportPath(importPath string) (string, error) {
	dir, err := load.Dir(importPath)
	if err != nil {
		return "", err
	}

	return load.ImportPath(dir)
}

// Load parses the package at importPath.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, *token.FileSet, error) {
	files, fset, err := load.Package(importPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, fset, nil
}
