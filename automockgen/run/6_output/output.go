// Package output writes generated adapters, or checks that the files on disk
// are up to date.
package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
)

// ErrStale is returned by Check when a generated file is missing or differs.
var ErrStale = errors.New("generated file is out of date")

// FileSystem reads and writes generated files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Check compares code with the file WriteGeneratedCode would write, printing a
// unified diff to out when they differ.
func Check(code, typeName, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer) error {
	filename := Filename(typeName, pkgName, getEnv("GOFILE"))
	expected := reordered(code, filename, out)

	current, err := fileSys.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading %s: %w", filename, err)
		}

		current = nil
	}

	if string(current) == expected {
		_, _ = fmt.Fprintf(out, "%s is up to date.\n", filename)

		return nil
	}

	_, _ = fmt.Fprint(out, textdiff.Unified(filename+" (current)", filename+" (generated)", string(current), expected))

	return fmt.Errorf("%w: %s", ErrStale, filename)
}

// Filename names the generated file: generated_<typeName>.go, with a _test
// suffix when generating for a test package or from a test file.
func Filename(typeName, pkgName, goFile string) string {
	isTestFile := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go")
	if isTestFile {
		return "generated_" + typeName + "_test.go"
	}

	return "generated_" + typeName + ".go"
}

// WriteGeneratedCode writes code to its generated file, reordering declarations first.
func WriteGeneratedCode(
	code, typeName, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer,
) error {
	const generatedFilePermissions = 0o600

	filename := Filename(typeName, pkgName, getEnv("GOFILE"))

	err := fileSys.WriteFile(filename, []byte(reordered(code, filename, out)), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}

// reordered sorts declarations per project conventions. A failure is
// reported to out and the code is used as is.
func reordered(code, filename string, out io.Writer) string {
	result, err := reorder.Source(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		return code
	}

	return result
}
