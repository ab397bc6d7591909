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

// Package schema is the resolved semantic model of a set of webwire
// schema files. A *Document is produced by the compiler package and is
// read-only for code generators.
package schema

import (
	"iter"
	"strings"

	"go.webwire-lang.org/webwire/syntax"
)

// FQTN is a fully-qualified type name: the path of enclosing namespaces
// plus a local name.
type FQTN struct {
	NS   []string
	Name string
}

func NewFQTN(ns []string, name string) FQTN {
	return FQTN{
		NS:   append([]string(nil), ns...),
		Name: name,
	}
}

func (n FQTN) String() string {
	if len(n.NS) == 0 {
		return n.Name
	}
	return strings.Join(n.NS, "::") + "::" + n.Name
}

func (n FQTN) Equal(other FQTN) bool {
	if n.Name != other.Name || len(n.NS) != len(other.NS) {
		return false
	}
	for ii := range n.NS {
		if n.NS[ii] != other.NS[ii] {
			return false
		}
	}
	return true
}

type Document struct {
	root *Namespace
}

func NewDocument() *Document {
	return &Document{
		root: NewNamespace(nil, syntax.Position{}),
	}
}

// Root returns the unnamed top-level namespace.
func (d *Document) Root() *Namespace {
	return d.root
}

// Walk yields every namespace of the document in pre-order, starting with
// the root. Child namespaces are visited in declaration order.
func (d *Document) Walk() iter.Seq[*Namespace] {
	return func(yield func(*Namespace) bool) {
		walkNamespace(d.root, yield)
	}
}

func walkNamespace(ns *Namespace, yield func(*Namespace) bool) bool {
	if !yield(ns) {
		return false
	}
	for _, child := range ns.namespaces.items {
		if !walkNamespace(child, yield) {
			return false
		}
	}
	return true
}

// Namespace holds the declarations of one namespace scope. A namespace
// declared more than once (in one file or across included files) is a
// single Namespace.
type Namespace struct {
	path []string
	pos  syntax.Position

	types      orderedMap[UserDefinedType]
	services   orderedMap[*Service]
	namespaces orderedMap[*Namespace]
}

func NewNamespace(path []string, pos syntax.Position) *Namespace {
	return &Namespace{
		path: append([]string(nil), path...),
		pos:  pos,
	}
}

func (ns *Namespace) Path() []string {
	return ns.path
}

// Name returns the last path component, or "" for the root namespace.
func (ns *Namespace) Name() string {
	if len(ns.path) == 0 {
		return ""
	}
	return ns.path[len(ns.path)-1]
}

// Pos returns the position of the first declaration of the namespace.
func (ns *Namespace) Pos() syntax.Position {
	return ns.pos
}

func (ns *Namespace) Types() []UserDefinedType {
	return ns.types.items
}

func (ns *Namespace) Services() []*Service {
	return ns.services.items
}

func (ns *Namespace) Namespaces() []*Namespace {
	return ns.namespaces.items
}

func (ns *Namespace) Type(name string) UserDefinedType {
	t, _ := ns.types.get(name)
	return t
}

func (ns *Namespace) Service(name string) *Service {
	svc, _ := ns.services.get(name)
	return svc
}

func (ns *Namespace) Namespace(name string) *Namespace {
	child, _ := ns.namespaces.get(name)
	return child
}

// AddType appends a declaration. It reports false if the name is taken.
func (ns *Namespace) AddType(t UserDefinedType) bool {
	return ns.types.add(t.TypeName().Name, t)
}

func (ns *Namespace) AddService(svc *Service) bool {
	return ns.services.add(svc.FQTN.Name, svc)
}

func (ns *Namespace) AddNamespace(child *Namespace) bool {
	return ns.namespaces.add(child.Name(), child)
}

type orderedMap[V any] struct {
	index map[string]int
	items []V
}

func (m *orderedMap[V]) get(name string) (V, bool) {
	if idx, ok := m.index[name]; ok {
		return m.items[idx], true
	}
	var zero V
	return zero, false
}

func (m *orderedMap[V]) add(name string, value V) bool {
	if _, ok := m.index[name]; ok {
		return false
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[name] = len(m.items)
	m.items = append(m.items, value)
	return true
}
