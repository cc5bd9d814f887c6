// Package run implements the automockgen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
	config "github.com/toejough/automock/automockgen/run/1_config"
	detect "github.com/toejough/automock/automockgen/run/3_detect"
	generate "github.com/toejough/automock/automockgen/run/5_generate"
	output "github.com/toejough/automock/automockgen/run/6_output"
)

// Run executes automockgen. args are the command-line arguments including the
// program name. getEnv reads GOPACKAGE and GOFILE; a non-empty
// AUTOMOCKGEN_CHECK turns on --check for every directive. fileSys reads the
// config and reads or writes generated files, and loader parses packages.
// Progress and diffs go to out.
//
// Every requested interface is generated even when an earlier one fails; the
// errors are joined.
func Run(
	args []string,
	getEnv func(string) string,
	fileSys output.FileSystem,
	loader detect.PackageLoader,
	out io.Writer,
) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	entries, err := requestedEntries(parsed, fileSys)
	if err != nil {
		return err
	}

	pkgName := getEnv("GOPACKAGE")
	if pkgName == "" {
		return errNoPackage
	}

	local, _, err := loader.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load the generating package: %w", err)
	}

	check := parsed.Check || getEnv("AUTOMOCKGEN_CHECK") != ""

	var errs []error

	for _, entry := range entries {
		err := generateOne(entry, check, pkgName, local, getEnv, fileSys, loader, out)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// unexported variables.
var (
	errNameWithMany = errors.New("--name can only be used with a single interface")
	errNoInterfaces = errors.New("no interfaces given: pass interface names or --config")
	errNoPackage    = errors.New("GOPACKAGE is not set: run automockgen from a //go:generate directive")
)

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interfaces []string `arg:"positional" help:"interfaces to generate adapters for (e.g. Clock or store.Repo)"`
	Name       string   `arg:"--name"     help:"name for the generated adapter (defaults to <Interface>Mock)"`
	Config     string   `arg:"--config"   help:"YAML file listing interfaces to generate"`
	Check      bool     `arg:"--check"    help:"report stale generated files instead of writing them"`
}

func (cliArgs) Description() string {
	return "automockgen generates the adapters automock needs to mock interfaces."
}

func generateOne(
	entry config.Entry,
	check bool,
	pkgName string,
	local []*dst.File,
	getEnv func(string) string,
	fileSys output.FileSystem,
	loader detect.PackageLoader,
	out io.Writer,
) error {
	iface, err := detect.Find(loader, local, detect.Request{Target: entry.Interface, Package: pkgName})
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Interface, err)
	}

	typeName := entry.Name
	if typeName == "" {
		typeName = generate.DefaultTypeName(iface.Name)
	}

	code, err := generate.Adapter(iface, generate.Options{Package: pkgName, TypeName: typeName})
	if err != nil {
		return err
	}

	if check {
		return output.Check(code, typeName, pkgName, getEnv, fileSys, out)
	}

	return output.WriteGeneratedCode(code, typeName, pkgName, getEnv, fileSys, out)
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "automockgen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// requestedEntries merges positional interfaces with the config file's entries.
func requestedEntries(parsed cliArgs, fileSys output.FileSystem) ([]config.Entry, error) {
	if parsed.Name != "" && len(parsed.Interfaces) != 1 {
		return nil, errNameWithMany
	}

	entries := make([]config.Entry, 0, len(parsed.Interfaces))
	for _, iface := range parsed.Interfaces {
		entries = append(entries, config.Entry{Interface: iface, Name: parsed.Name})
	}

	if parsed.Config != "" {
		data, err := fileSys.ReadFile(parsed.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		file, err := config.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", parsed.Config, err)
		}

		entries = append(entries, file.Mocks...)
	}

	if len(entries) == 0 {
		return nil, errNoInterfaces
	}

	return entries, nil
}
