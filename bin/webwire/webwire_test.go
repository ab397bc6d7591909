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

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.webwire-lang.org/webwire/internal/testutil"
	"go.webwire-lang.org/webwire/syntax"
)

type testEnv struct {
	dir    string
	config string
}

// newTestEnv creates a project directory holding a config file and the
// given schema files.
func newTestEnv(t *testing.T, files map[string]string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:    dir,
		config: filepath.Join(dir, "webwire.yaml"),
	}
	env.write(t, "webwire.yaml", "includeRoot: .\n")
	for name, content := range files {
		env.write(t, name, content)
	}
	return env
}

func (env *testEnv) write(t *testing.T, name, content string) {
	t.Helper()
	path := env.path(name)
	testutil.AssertNoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (env *testEnv) path(name string) string {
	return filepath.Join(env.dir, filepath.FromSlash(name))
}

type runResult struct {
	rc     int
	stdout string
	stderr string
}

func (env *testEnv) run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr strings.Builder
	argv := append([]string{"--config", env.config}, args...)
	rc := run(context.Background(), argv, &stdio{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
	})
	return runResult{rc, stdout.String(), stderr.String()}
}

func TestCompileText(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"main.ww":     `include "lib/user.ww"; struct Team { members: [User] }`,
		"lib/user.ww": `struct User { name: String }`,
	})
	got := env.run(t, "", "compile", env.path("main.ww"))
	testutil.ExpectEq(t, "", got.stderr)
	testutil.ExpectEq(t, 0, got.rc)
	testutil.ExpectNoDiff(t, `struct Team {
	members: [User]
}
struct User {
	name: String
}
`, got.stdout)
}

func TestCompileJSONToFile(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"main.ww": `struct User { name: String }`,
	})
	out := env.path("out/schema.json")
	testutil.AssertNoError(t, os.MkdirAll(filepath.Dir(out), 0o755))

	got := env.run(t, "", "compile", "-o", out, env.path("main.ww"))
	testutil.ExpectEq(t, "", got.stderr)
	testutil.ExpectEq(t, 0, got.rc)

	written, err := os.ReadFile(out)
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `"fqtn": "User"`, string(written))
}

func TestCompileStdin(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"user.ww": `struct User { name: String }`,
	})
	got := env.run(t, `include "user.ww"; struct Team { lead: User }`, "compile", "-")
	testutil.ExpectEq(t, "", got.stderr)
	testutil.ExpectEq(t, 0, got.rc)
	testutil.ExpectMatch(t, `lead: User`, got.stdout)
}

func TestCompileDiagnostics(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"main.ww": `struct A { x: Missing }`,
	})
	got := env.run(t, "", "compile", env.path("main.ww"))
	testutil.ExpectEq(t, 1, got.rc)
	testutil.ExpectEq(t, "", got.stdout)
	testutil.ExpectEq(t, "main.ww:1:15: E3001: No such type 'Missing'\n", got.stderr)
}

func TestCompileIncludeNotFound(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"main.ww": `include "gone.ww";`,
	})
	got := env.run(t, "", "compile", env.path("main.ww"))
	testutil.ExpectEq(t, 1, got.rc)
	testutil.ExpectMatch(t, `^main\.ww:1:1: E3008: Included file "gone\.ww" not found`, got.stderr)
}

func TestCompileOutsideIncludeRoot(t *testing.T) {
	env := newTestEnv(t, nil)
	other := filepath.Join(t.TempDir(), "x.ww")
	testutil.AssertNoError(t, os.WriteFile(other, []byte(`struct X {}`), 0o644))

	got := env.run(t, "", "compile", other)
	testutil.ExpectEq(t, 1, got.rc)
	testutil.ExpectMatch(t, `is outside the include root`, got.stderr)
}

func TestCompileWithoutConfig(t *testing.T) {
	wd, err := os.Getwd()
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	schemaDir := t.TempDir()
	files := map[string]string{
		"api.ww":    `include "common.ww"; struct Api { c: Common }`,
		"common.ww": `struct Common { id: UUID }`,
	}
	for name, content := range files {
		path := filepath.Join(schemaDir, name)
		testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	var stdout, stderr strings.Builder
	rc := run(context.Background(), []string{"compile", filepath.Join(schemaDir, "api.ww")}, &stdio{
		stdin:  strings.NewReader(""),
		stdout: &stdout,
		stderr: &stderr,
	})
	testutil.ExpectEq(t, "", stderr.String())
	testutil.ExpectEq(t, 0, rc)
	testutil.ExpectMatch(t, `c: Common`, stdout.String())
}

func TestBuiltinFlag(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"main.ww": `struct Price { amount: Decimal }`,
	})
	got := env.run(t, "", "compile", env.path("main.ww"))
	testutil.ExpectEq(t, 1, got.rc)
	testutil.ExpectMatch(t, `E3001: No such type 'Decimal'`, got.stderr)

	got = env.run(t, "", "--builtin", "Decimal=rust_decimal::Decimal", "compile", "-f", "json", env.path("main.ww"))
	testutil.ExpectEq(t, "", got.stderr)
	testutil.ExpectEq(t, 0, got.rc)
	testutil.ExpectMatch(t, `"target": "rust_decimal::Decimal"`, got.stdout)
}

func TestConfigBuiltinTypes(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"main.ww": `struct Price { amount: Decimal }`,
	})
	env.write(t, "webwire.yaml", "builtinTypes:\n  Decimal: decimal.Decimal\n")

	got := env.run(t, "", "compile", "-f", "json", env.path("main.ww"))
	testutil.ExpectEq(t, 0, got.rc)
	testutil.ExpectMatch(t, `"target": "decimal.Decimal"`, got.stdout)
}

func TestCheck(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"api/good.ww":  `struct Good {}`,
		"api/bad.ww":   `struct Bad { x: Nope }`,
		"api/dup.ww":   `struct Dup {} enum Dup { A }`,
		"drafts/x.ww":  `this is not a schema`,
		".gitignore":   "drafts/\n",
		"api/README":   "not a schema file",
		"api/types.ww": `struct T<U> {}`,
	})
	got := env.run(t, "", "check", env.dir)
	testutil.ExpectEq(t, 1, got.rc)
	testutil.ExpectEq(t, "", got.stdout)
	testutil.ExpectNoDiff(t, strings.Join([]string{
		"api/bad.ww:1:17: E3001: No such type 'Nope'",
		"api/dup.ww:1:20: E3000: Duplicate identifier 'Dup' (previously declared at api/dup.ww:1:8)",
		"api/types.ww:1:10: W4001: Generic parameter 'U' of 'T' is unused",
		"",
	}, "\n"), got.stderr)
}

func TestCheckClean(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"main.ww": `struct A {}`,
	})
	got := env.run(t, "", "check", env.path("main.ww"))
	testutil.ExpectEq(t, "", got.stderr)
	testutil.ExpectEq(t, 0, got.rc)
}

func TestCheckNoFiles(t *testing.T) {
	env := newTestEnv(t, nil)
	got := env.run(t, "", "check", env.dir)
	testutil.ExpectEq(t, 1, got.rc)
	testutil.ExpectEq(t, "No schema files found\n", got.stderr)
}

func TestUsageErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"compile"}, `^usage: webwire compile`},
		{[]string{"compile", "-f", "xml", "a.ww"}, `Unsupported output format "xml"`},
		{[]string{"codegen", "a.ww"}, `No output directory specified`},
		{[]string{"codegen", "-o", "out", "a.ww"}, `No target language specified`},
		{[]string{"--log-level", "loud", "check"}, `invalid log level "loud"`},
		{[]string{"--log-format", "xml", "check"}, `invalid log format "xml"`},
		{[]string{}, `Usage:`},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got := env.run(t, "", tt.args...)
			testutil.ExpectEq(t, 1, got.rc)
			testutil.ExpectMatch(t, tt.want, got.stderr)
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		outPath string
		want    string
	}{
		{"", "", "text"},
		{"", "schema.JSON", "json"},
		{"", "schema.txt", "text"},
		{"webwiretext", "schema.json", "text"},
		{"json", "", "json"},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.format, tt.outPath)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, tt.want, got)
	}
	_, err := outputFormat("binary", "")
	testutil.AssertError(t, err)
}

func TestRootRelative(t *testing.T) {
	root := t.TempDir()
	rel, err := rootRelative(root, filepath.Join(root, "a", "b.ww"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "a/b.ww", rel)

	_, err = rootRelative(filepath.Join(root, "a"), filepath.Join(root, "b.ww"))
	testutil.AssertError(t, err)

	// A sibling whose name starts with ".." is still inside the root.
	rel, err = rootRelative(root, filepath.Join(root, "..x.ww"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "..x.ww", rel)
}

func TestFormatDiagnostic(t *testing.T) {
	testutil.ExpectEq(t, "a.ww:3:7: E1", formatDiagnostic(syntax.Position{
		Filename: "a.ww",
		Line:     3,
		Column:   7,
	}, "E1"))
	testutil.ExpectEq(t, "a.ww: E1", formatDiagnostic(syntax.Position{Filename: "a.ww"}, "E1"))
	testutil.ExpectEq(t, "E1", formatDiagnostic(syntax.Position{}, "E1"))
}

func TestNewLogger(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")

	var buf strings.Builder
	logger, err := newLogger(&buf, "", "json")
	testutil.AssertNoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Str("file", "a.ww").Msg("shown")
	testutil.ExpectFalse(t, strings.Contains(buf.String(), "hidden"))
	testutil.ExpectMatch(t, `"level":"warn".*"file":"a.ww".*"message":"shown"`, buf.String())

	t.Setenv(EnvLogLevel, "DEBUG")
	buf.Reset()
	logger, err = newLogger(&buf, "", "json")
	testutil.AssertNoError(t, err)
	logger.Debug().Msg("visible")
	testutil.ExpectMatch(t, `"message":"visible"`, buf.String())

	buf.Reset()
	logger, err = newLogger(&buf, "error", "console")
	testutil.AssertNoError(t, err)
	logger.Warn().Msg("quiet")
	testutil.ExpectEq(t, "", buf.String())
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()

	for range 5 {
		d.trigger()
		time.Sleep(2 * time.Millisecond)
	}
	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatal("no tick after a burst of triggers")
	}
	select {
	case <-d.C():
		t.Fatal("burst produced more than one tick")
	case <-time.After(60 * time.Millisecond):
	}

	d.trigger()
	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatal("no tick after a later trigger")
	}
}
