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

// Package compiler turns parsed schema documents into a resolved
// *schema.Document.
//
// Compilation runs in two passes. The first pass merges every document
// into one namespace tree, converts declarations to their semantic form
// and builds a table of user-defined types keyed by FQTN. The second pass
// binds every type reference against that table. Compilation stops at the
// first error.
package compiler

import (
	"go.webwire-lang.org/webwire/schema"
	"go.webwire-lang.org/webwire/syntax"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	builtinTypes map[string]string
}

// WithBuiltinTypes maps unqualified type names directly to target-language
// types. A mapped name becomes a *schema.Builtin and is never looked up.
func WithBuiltinTypes(builtinTypes map[string]string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		if opts.builtinTypes == nil {
			opts.builtinTypes = make(map[string]string, len(builtinTypes))
		}
		for name, target := range builtinTypes {
			opts.builtinTypes[name] = target
		}
	})
}

type CompileResult struct {
	document *schema.Document

	Errors   []*Error
	Warnings []*Warning
}

// Document returns the resolved document, or nil if compilation failed.
func (r *CompileResult) Document() *schema.Document {
	return r.document
}

// Err returns the first compile error, if any.
func (r *CompileResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Compile merges docs, root document first, into a single resolved
// document.
func Compile(docs []*syntax.Document, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(docs)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(docs []*syntax.Document) CompileResult {
	c := &compiler{
		opts:  opts,
		doc:   schema.NewDocument(),
		types: newTypeMap(),
		seen:  make(map[*schema.Namespace]map[string]seenDecl),
	}
	err := c.declareDocuments(docs)
	if err == nil {
		err = c.resolveNamespace(c.doc.Root())
	}
	if err != nil {
		return CompileResult{
			Errors:   []*Error{err.(*Error)},
			Warnings: c.warnings,
		}
	}
	return CompileResult{
		document: c.doc,
		Warnings: c.warnings,
	}
}

type declKind uint8

const (
	declKind_NAMESPACE declKind = iota
	declKind_TYPE
	declKind_SERVICE
)

type seenDecl struct {
	kind declKind
	pos  syntax.Position
}

type compiler struct {
	opts     *CompileOptions
	doc      *schema.Document
	types    *typeMap
	seen     map[*schema.Namespace]map[string]seenDecl
	warnings []*Warning
}

func (c *compiler) warn(warning *Warning) {
	c.warnings = append(c.warnings, warning)
}

func (c *compiler) declareDocuments(docs []*syntax.Document) error {
	for _, doc := range docs {
		if err := c.declareNamespace(c.doc.Root(), doc.Namespace()); err != nil {
			return err
		}
	}
	return nil
}

// claim records a name in the scope of ns. A namespace may be claimed
// repeatedly by namespace declarations, which merge.
func (c *compiler) claim(
	ns *schema.Namespace,
	name *syntax.Ident,
	kind declKind,
) (merge bool, err error) {
	seen, ok := c.seen[ns]
	if !ok {
		seen = make(map[string]seenDecl)
		c.seen[ns] = seen
	}
	if prev, ok := seen[name.Get()]; ok {
		if prev.kind == declKind_NAMESPACE && kind == declKind_NAMESPACE {
			return true, nil
		}
		return false, errDuplicateIdentifier(name.Get(), name.Pos(), prev.pos)
	}
	seen[name.Get()] = seenDecl{
		kind: kind,
		pos:  name.Pos(),
	}
	return false, nil
}

func (c *compiler) declareNamespace(ns *schema.Namespace, node *syntax.Namespace) error {
	for _, decl := range node.Decls() {
		var err error
		switch decl := decl.(type) {
		case *syntax.Namespace:
			err = c.declareChildNamespace(ns, decl)
		case *syntax.Enum:
			err = c.declareType(ns, decl.Name(), func() (schema.UserDefinedType, error) {
				return c.convertEnum(ns.Path(), decl)
			})
		case *syntax.Struct:
			err = c.declareType(ns, decl.Name(), func() (schema.UserDefinedType, error) {
				return c.convertStruct(ns.Path(), decl)
			})
		case *syntax.Fieldset:
			err = c.declareType(ns, decl.Name(), func() (schema.UserDefinedType, error) {
				return c.convertFieldset(ns.Path(), decl)
			})
		case *syntax.Service:
			err = c.declareService(ns, decl)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) declareChildNamespace(parent *schema.Namespace, node *syntax.Namespace) error {
	merge, err := c.claim(parent, node.Name(), declKind_NAMESPACE)
	if err != nil {
		return err
	}
	name := node.Name().Get()
	child := parent.Namespace(name)
	if !merge {
		child = schema.NewNamespace(append(parent.Path(), name), node.Pos())
		parent.AddNamespace(child)
	}
	return c.declareNamespace(child, node)
}

func (c *compiler) declareType(
	ns *schema.Namespace,
	name *syntax.Ident,
	convert func() (schema.UserDefinedType, error),
) error {
	if _, err := c.claim(ns, name, declKind_TYPE); err != nil {
		return err
	}
	if c.isBuiltinName(name.Get()) {
		c.warn(warnDeclShadowsBuiltin(name.Get(), name.Pos()))
	}
	udt, err := convert()
	if err != nil {
		return err
	}
	ns.AddType(udt)
	c.types.insert(udt)
	return nil
}

func (c *compiler) declareService(ns *schema.Namespace, node *syntax.Service) error {
	if _, err := c.claim(ns, node.Name(), declKind_SERVICE); err != nil {
		return err
	}
	svc, err := c.convertService(ns.Path(), node)
	if err != nil {
		return err
	}
	ns.AddService(svc)
	return nil
}

func (c *compiler) isBuiltinName(name string) bool {
	if _, ok := schema.PrimitiveByName(name); ok {
		return true
	}
	if name == "Option" || name == "Result" {
		return true
	}
	_, ok := c.opts.builtinTypes[name]
	return ok
}
