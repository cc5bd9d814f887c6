// Package config reads automockgen's YAML config, which lists several
// interfaces to generate adapters for in one go:generate run.
//
//	mocks:
//	  - interface: store.Repo
//	  - interface: Clock
//	    name: fakeClock
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Entry is one adapter to generate.
type Entry struct {
	Interface string `yaml:"interface"`
	Name      string `yaml:"name"`
}

// File is the parsed config.
type File struct {
	Mocks []Entry `yaml:"mocks"`
}

// Parse decodes and validates a config. Unknown keys are rejected.
func Parse(data []byte) (File, error) {
	var parsed File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&parsed)
	if err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("failed to parse config: %w", err)
	}

	err = parsed.Validate()
	if err != nil {
		return File{}, err
	}

	return parsed, nil
}

// Validate checks that the config lists at least one mock and that every
// entry names an interface. Generated names must be unique.
func (f File) Validate() error {
	if len(f.Mocks) == 0 {
		return fmt.Errorf("%w: no mocks listed", errInvalidConfig)
	}

	names := make(map[string]int, len(f.Mocks))

	for i, entry := range f.Mocks {
		if entry.Interface == "" {
			return fmt.Errorf("%w: mocks[%d] has no interface", errInvalidConfig, i)
		}

		if entry.Name == "" {
			continue
		}

		if previous, ok := names[entry.Name]; ok {
			return fmt.Errorf("%w: mocks[%d] and mocks[%d] are both named %q", errInvalidConfig, previous, i, entry.Name)
		}

		names[entry.Name] = i
	}

	return nil
}

// unexported variables.
var (
	errInvalidConfig = errors.New("invalid config")
)
