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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.webwire-lang.org/webwire/config"
	"go.webwire-lang.org/webwire/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := config.New()
	testutil.ExpectEq(t, "", cfg.IncludeRoot)
	testutil.ExpectEq(t, 0, len(cfg.BuiltinTypes))
	testutil.ExpectEq(t, 0, len(cfg.Plugins.Path))
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "webwire.yaml", `
builtinTypes:
  Decimal: rust_decimal::Decimal
  Url: url::Url
includeRoot: schema
plugins:
  path:
    - plugins
    - /opt/webwire/plugins
`)
	cfg := config.New()
	testutil.AssertNoError(t, cfg.LoadFile(path))

	testutil.ExpectEq(t, "rust_decimal::Decimal", cfg.BuiltinTypes["Decimal"])
	testutil.ExpectEq(t, "url::Url", cfg.BuiltinTypes["Url"])
	testutil.ExpectEq(t, "schema", cfg.IncludeRoot)
	testutil.ExpectSliceEq(t, []string{"plugins", "/opt/webwire/plugins"}, cfg.Plugins.Path)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "webwire.json", `{
  "builtinTypes": {"Decimal": "decimal.Decimal"}
}`)
	cfg := config.New()
	testutil.AssertNoError(t, cfg.LoadFile(path))

	testutil.ExpectEq(t, "decimal.Decimal", cfg.BuiltinTypes["Decimal"])
	testutil.ExpectEq(t, "", cfg.IncludeRoot)
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "webwire.conf", `includeRoot: api`)
	cfg := config.New()
	testutil.AssertNoError(t, cfg.LoadFile(path))
	testutil.ExpectEq(t, "api", cfg.IncludeRoot)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"missing", "missing.yaml", "", `^reading config file: `},
		{"bad_yaml", "bad.yaml", "builtinTypes: [", `^parsing YAML config `},
		{"bad_json", "bad.json", "{", `^parsing JSON config `},
		{"qualified_builtin", "q.yaml", `builtinTypes: {"a::B": x}`, `must be a plain identifier`},
		{"empty_target", "e.yaml", `builtinTypes: {B: ""}`, `has an empty target`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				path = writeFile(t, dir, tt.file, tt.content)
			}
			err := config.New().LoadFile(path)
			testutil.AssertError(t, err)
			testutil.ExpectMatch(t, tt.want, err.Error())
		})
	}
}

func TestBuiltinOverridesLayer(t *testing.T) {
	path := writeFile(t, t.TempDir(), "webwire.yaml", `
builtinTypes:
  Decimal: rust_decimal::Decimal
  Url: url::Url
`)
	cfg := config.New()
	testutil.AssertNoError(t, cfg.LoadFile(path))
	cfg.SetBuiltinTypes(map[string]string{"Decimal": "bigdecimal::BigDecimal"})

	testutil.ExpectEq(t, "bigdecimal::BigDecimal", cfg.BuiltinTypes["Decimal"])
	testutil.ExpectEq(t, "url::Url", cfg.BuiltinTypes["Url"])
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	path, err := config.Find(dir)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "", path)

	writeFile(t, dir, "webwire.json", `{}`)
	writeFile(t, dir, "webwire.yml", ``)
	path, err = config.Find(dir)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, filepath.Join(dir, "webwire.yml"), path)
}
