//go:build targ

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/sh"
)

// Build builds the local automockgen binary.
func Build() error {
	fmt.Println("Building automockgen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/automockgen", "./automockgen")
}

// Check tidies, regenerates, tests, reorders and lints, stopping at the first failure.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(Tidy, Test, ReorderDecls, Lint)
}

// Generate runs go generate with the locally built automockgen.
func Generate() error {
	fmt.Println("Generating...")

	return generate()
}

// GenerateCheck fails if any generated adapter is out of date.
func GenerateCheck() error {
	fmt.Println("Checking generated adapters...")

	return generate("AUTOMOCKGEN_CHECK=1")
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run", "-c", "dev/golangci.toml")
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(Test); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./dev/...", "-run=TestMutation")
}

// ReorderDecls rewrites hand-written Go files into conventional declaration order.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	changed, err := reorderSources(func(file, _, reordered string) error {
		if err := os.WriteFile(file, []byte(reordered), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}

		fmt.Printf("  Reordered: %s\n", file)

		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Reordered %d file(s).\n", changed)

	return nil
}

// ReorderDeclsCheck prints a diff for every file out of order, and fails if there are any.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	changed, err := reorderSources(func(file, content, reordered string) error {
		fmt.Printf("\n%s\n", textdiff.Unified(file+" (current)", file+" (reordered)", content, reordered))

		return nil
	})
	if err != nil {
		return err
	}

	if changed > 0 {
		return fmt.Errorf("%d file(s) need reordering, run 'targ reorder-decls'", changed)
	}

	fmt.Println("All files are correctly ordered.")

	return nil
}

// Test regenerates adapters, then runs the unit tests with coverage.
func Test() error {
	fmt.Println("Running unit tests...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run(
		"go",
		"test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=./,./internal/...,./match/...,./automockgen/run/...",
		"./...",
	)
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// generate runs go generate with bin/ first on PATH, so directives that
// invoke automockgen use the freshly built binary.
func generate(extraEnv ...string) error {
	if err := targ.Deps(Build); err != nil {
		return err
	}

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+binDir+string(filepath.ListSeparator)+os.Getenv("PATH"))
	cmd.Env = append(cmd.Env, extraEnv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// reorderSources calls onChange for each hand-written Go file whose
// reordered form differs, and returns how many did. Files go-reorder cannot
// parse are warned about and skipped.
func reorderSources(onChange func(file, content, reordered string) error) (int, error) {
	changed := 0

	err := filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("unable to walk %s: %w", path, err)
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(name) != ".go" || strings.HasPrefix(name, "generated_") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		reordered, err := reorder.Source(string(data))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", path, err)

			return nil
		}

		if reordered == string(data) {
			return nil
		}

		changed++

		return onChange(path, string(data), reordered)
	})
	if err != nil {
		return changed, fmt.Errorf("failed to reorder Go files: %w", err)
	}

	return changed, nil
}
