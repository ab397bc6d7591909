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

// Package loader reads a root schema file and every file it transitively
// includes.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/rs/zerolog"

	"go.webwire-lang.org/webwire/syntax"
)

type LoadOption interface {
	apply(*LoadOptions)
}

type loadOption func(*LoadOptions)

func (f loadOption) apply(opts *LoadOptions) { f(opts) }

type LoadOptions struct {
	logger zerolog.Logger
}

func WithLogger(logger zerolog.Logger) LoadOption {
	return loadOption(func(opts *LoadOptions) {
		opts.logger = logger
	})
}

func NewLoadOptions(opts ...LoadOption) *LoadOptions {
	loadOptions := &LoadOptions{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt.apply(loadOptions)
	}
	return loadOptions
}

// Load parses the file at root and every file it includes. The root
// document is first; included documents follow in the order their
// include statements are discovered. Each file is parsed once, so
// include cycles and diamonds are harmless.
func Load(ctx context.Context, fsys fs.FS, root string, opts ...LoadOption) ([]*syntax.Document, error) {
	return NewLoadOptions(opts...).Load(ctx, fsys, root)
}

// LoadSource is like Load, but the root document's content is given
// directly. Includes are resolved relative to the directory of name.
func LoadSource(
	ctx context.Context,
	fsys fs.FS,
	name string,
	src []byte,
	opts ...LoadOption,
) ([]*syntax.Document, error) {
	return NewLoadOptions(opts...).LoadSource(ctx, fsys, name, src)
}

func (opts *LoadOptions) Load(ctx context.Context, fsys fs.FS, root string) ([]*syntax.Document, error) {
	root = path.Clean(root)
	src, err := readFile(fsys, root, syntax.Position{})
	if err != nil {
		return nil, err
	}
	return opts.LoadSource(ctx, fsys, root, src)
}

func (opts *LoadOptions) LoadSource(
	ctx context.Context,
	fsys fs.FS,
	name string,
	src []byte,
) ([]*syntax.Document, error) {
	l := &loader{
		opts:    opts,
		fsys:    fsys,
		visited: make(map[string]struct{}),
	}
	name = path.Clean(name)
	l.visited[name] = struct{}{}
	if err := l.add(name, src); err != nil {
		return nil, err
	}

	for len(l.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := l.queue[0]
		l.queue = l.queue[1:]

		src, err := readFile(fsys, next.path, next.pos)
		if err != nil {
			return nil, err
		}
		if err := l.add(next.path, src); err != nil {
			return nil, err
		}
	}

	opts.logger.Info().
		Str("root", name).
		Int("documents", len(l.docs)).
		Msg("loaded schema")
	return l.docs, nil
}

type pendingFile struct {
	path string
	pos  syntax.Position
}

type loader struct {
	opts    *LoadOptions
	fsys    fs.FS
	visited map[string]struct{}
	queue   []pendingFile
	docs    []*syntax.Document
}

func (l *loader) add(filePath string, src []byte) error {
	l.opts.logger.Debug().Str("path", filePath).Msg("parsing schema file")
	doc, err := syntax.Parse(src, syntax.WithFilename(filePath))
	if err != nil {
		return err
	}
	l.docs = append(l.docs, doc)

	dir := path.Dir(filePath)
	for _, include := range doc.Includes() {
		target := path.Join(dir, include.Path())
		if !fs.ValidPath(target) {
			return errIncludeNotFound(include.Path(), include.Pos())
		}
		if _, seen := l.visited[target]; seen {
			l.opts.logger.Debug().
				Str("path", target).
				Str("included_from", filePath).
				Msg("include already loaded")
			continue
		}
		l.visited[target] = struct{}{}
		l.queue = append(l.queue, pendingFile{
			path: target,
			pos:  include.Pos(),
		})
	}
	return nil
}

func readFile(fsys fs.FS, filePath string, includePos syntax.Position) ([]byte, error) {
	src, err := fs.ReadFile(fsys, filePath)
	if err == nil {
		return src, nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return nil, errIncludeNotFound(filePath, includePos)
	}
	return nil, fmt.Errorf("reading %s: %w", filePath, err)
}
