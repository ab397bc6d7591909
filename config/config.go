// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package config reads the project configuration file, normally
// webwire.yaml next to the root schema.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filenames searched by Find, in order.
var Filenames = []string{"webwire.yaml", "webwire.yml", "webwire.json"}

type Config struct {
	// BuiltinTypes maps a schema type name to an opaque target type. A
	// reference to the name compiles to a builtin instead of a lookup.
	BuiltinTypes map[string]string `yaml:"builtinTypes" json:"builtinTypes"`

	// IncludeRoot is the directory that include paths may not escape.
	// Empty means the directory of the root schema file.
	IncludeRoot string `yaml:"includeRoot" json:"includeRoot"`

	Plugins Plugins `yaml:"plugins" json:"plugins"`
}

type Plugins struct {
	// Path lists directories searched for codegen plugins.
	Path []string `yaml:"path" json:"path"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		BuiltinTypes: map[string]string{},
	}
}

// LoadFile overlays the configuration in path onto c. The format follows
// the file extension; other extensions are tried as YAML, then JSON.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config %s as YAML or JSON", path)
			}
		}
	}

	if err := loaded.validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	c.merge(&loaded)
	return nil
}

func (c *Config) validate() error {
	for name, target := range c.BuiltinTypes {
		if name == "" || strings.Contains(name, "::") {
			return fmt.Errorf("builtin type name %q must be a plain identifier", name)
		}
		if target == "" {
			return fmt.Errorf("builtin type %q has an empty target", name)
		}
	}
	return nil
}

func (c *Config) merge(loaded *Config) {
	if c.BuiltinTypes == nil {
		c.BuiltinTypes = map[string]string{}
	}
	maps.Copy(c.BuiltinTypes, loaded.BuiltinTypes)
	if loaded.IncludeRoot != "" {
		c.IncludeRoot = loaded.IncludeRoot
	}
	if len(loaded.Plugins.Path) > 0 {
		c.Plugins.Path = loaded.Plugins.Path
	}
}

// SetBuiltinTypes overlays command-line overrides.
func (c *Config) SetBuiltinTypes(overrides map[string]string) {
	c.merge(&Config{BuiltinTypes: overrides})
}

// Find returns the path of the first config file in dir, or "" if there
// is none.
func Find(dir string) (string, error) {
	for _, name := range Filenames {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}
