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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"go.webwire-lang.org/webwire/compiler"
	"go.webwire-lang.org/webwire/config"
	"go.webwire-lang.org/webwire/loader"
	"go.webwire-lang.org/webwire/schema"
	"go.webwire-lang.org/webwire/syntax"
)

// stdinName is the filename reported for a schema read from stdin.
const stdinName = "<stdin>"

type globalOptions struct {
	*stdio
	configPath string
	builtins   map[string]string
	logLevel   string
	logFormat  string
}

func (g *globalOptions) flags(flags *pflag.FlagSet) {
	flags.StringVar(&g.configPath, "config", "", "Config file (default: webwire.yaml in the working directory, if present)")
	flags.StringToStringVar(&g.builtins, "builtin", nil, "Compile references to NAME as the builtin type TARGET (NAME=TARGET, repeatable)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level (default: $"+EnvLogLevel+" or 'warn')")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format, 'console' or 'json' (default: $"+EnvLogFormat+" or 'console')")
}

// session is the per-invocation state shared by all commands: the merged
// configuration and the logger.
type session struct {
	*stdio
	cfg    *config.Config
	logger zerolog.Logger
}

func (g *globalOptions) session() (*session, error) {
	logger, err := newLogger(g.stderr, g.logLevel, g.logFormat)
	if err != nil {
		return nil, err
	}

	cfg := config.New()
	cfgPath := g.configPath
	if cfgPath == "" {
		if cfgPath, err = config.Find("."); err != nil {
			return nil, fmt.Errorf("searching for config file: %w", err)
		}
	}
	if cfgPath != "" {
		if err := cfg.LoadFile(cfgPath); err != nil {
			return nil, err
		}
		if cfg.IncludeRoot != "" && !filepath.IsAbs(cfg.IncludeRoot) {
			cfg.IncludeRoot = filepath.Join(filepath.Dir(cfgPath), cfg.IncludeRoot)
		}
		logger.Debug().
			Str("path", cfgPath).
			Str("include_root", cfg.IncludeRoot).
			Int("builtin_types", len(cfg.BuiltinTypes)).
			Msg("loaded config")
	}
	cfg.SetBuiltinTypes(g.builtins)

	return &session{
		stdio:  g.stdio,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// includeRoot returns the directory that file's includes resolve against,
// and file's slash-separated path within it. Without a configured root,
// file's own directory is used; stdin falls back to the working directory.
func (s *session) includeRoot(file string) (root, rel string, err error) {
	root = s.cfg.IncludeRoot
	if file == "-" {
		if root == "" {
			root = "."
		}
		return root, stdinName, nil
	}
	if root == "" {
		return filepath.Dir(file), filepath.Base(file), nil
	}
	rel, err = rootRelative(root, file)
	if err != nil {
		return "", "", err
	}
	return root, rel, nil
}

// load parses file and everything it includes. A file of "-" is read from
// stdin, with includes resolved against the include root.
func (s *session) load(ctx context.Context, file string) ([]*syntax.Document, error) {
	root, rel, err := s.includeRoot(file)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("file", file).Str("include_root", root).Msg("loading schema")
	fsys := os.DirFS(root)
	opts := loader.NewLoadOptions(loader.WithLogger(s.logger))
	if file == "-" {
		src, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return opts.LoadSource(ctx, fsys, rel, src)
	}
	return opts.Load(ctx, fsys, rel)
}

// compile loads and compiles file. Diagnostics go to stderr; the result is
// nil if there were any errors.
func (s *session) compile(ctx context.Context, file string) *schema.Document {
	docs, err := s.load(ctx, file)
	if err != nil {
		s.reportError(err)
		return nil
	}
	return s.compileDocs(docs)
}

func (s *session) compileDocs(docs []*syntax.Document) *schema.Document {
	result := compiler.Compile(docs, compiler.WithBuiltinTypes(s.cfg.BuiltinTypes))
	for _, warn := range result.Warnings {
		fmt.Fprintln(s.stderr, formatDiagnostic(warn.Pos(), warn.String()))
	}
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			s.reportError(err)
		}
		return nil
	}
	s.logger.Debug().
		Str("file", docs[0].Filename()).
		Int("warnings", len(result.Warnings)).
		Msg("compiled schema")
	return result.Document()
}

func (s *session) reportError(err error) {
	var positioned interface{ Pos() syntax.Position }
	if errors.As(err, &positioned) {
		fmt.Fprintln(s.stderr, formatDiagnostic(positioned.Pos(), err.Error()))
		return
	}
	fmt.Fprintln(s.stderr, err)
}

func formatDiagnostic(pos syntax.Position, text string) string {
	if pos.IsValid() {
		return pos.String() + ": " + text
	}
	if pos.Filename != "" {
		return pos.Filename + ": " + text
	}
	return text
}

// rootRelative returns file as a slash-separated path relative to root.
func rootRelative(root, file string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absFile)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("schema file %s is outside the include root %s", file, root)
	}
	return filepath.ToSlash(rel), nil
}
