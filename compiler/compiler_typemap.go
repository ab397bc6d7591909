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

package compiler

import (
	"go.webwire-lang.org/webwire/schema"
)

// typeMap is the pass 1 symbol table. It is discarded once every
// reference is bound.
type typeMap struct {
	types map[string]schema.UserDefinedType
}

func newTypeMap() *typeMap {
	return &typeMap{
		types: make(map[string]schema.UserDefinedType),
	}
}

func (m *typeMap) insert(udt schema.UserDefinedType) {
	m.types[udt.TypeName().String()] = udt
}

func (m *typeMap) get(fqtn schema.FQTN) (schema.UserDefinedType, bool) {
	udt, ok := m.types[fqtn.String()]
	return udt, ok
}

// lookup finds the declaration a reference names. An absolute reference
// names exactly one FQTN. A relative reference is tried in the scope it
// appears in, then in each enclosing scope out to the root.
func (m *typeMap) lookup(ref *schema.TypeRef) (schema.UserDefinedType, bool) {
	if ref.Absolute {
		return m.get(ref.FQTN)
	}
	scope := ref.Scope()
	for ii := len(scope); ii >= 0; ii-- {
		ns := make([]string, 0, ii+len(ref.FQTN.NS))
		ns = append(ns, scope[:ii]...)
		ns = append(ns, ref.FQTN.NS...)
		if udt, ok := m.get(schema.FQTN{NS: ns, Name: ref.FQTN.Name}); ok {
			return udt, true
		}
	}
	return nil, false
}
