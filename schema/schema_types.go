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

package schema

import (
	"fmt"
	"strings"

	"go.webwire-lang.org/webwire/syntax"
)

// Type is the semantic form of a type expression.
type Type interface {
	String() string
	isType()
}

var (
	_ Type = None
	_ Type = (*Option)(nil)
	_ Type = (*Result)(nil)
	_ Type = (*Array)(nil)
	_ Type = (*Map)(nil)
	_ Type = (*TypeRef)(nil)
	_ Type = (*GenericParam)(nil)
	_ Type = (*Builtin)(nil)
)

type Primitive uint8

const (
	None Primitive = iota
	Boolean
	Integer
	Float
	String
	UUID
	Date
	Time
	DateTime
)

var primitiveNames = [...]string{
	None:     "None",
	Boolean:  "Boolean",
	Integer:  "Integer",
	Float:    "Float",
	String:   "String",
	UUID:     "UUID",
	Date:     "Date",
	Time:     "Time",
	DateTime: "DateTime",
}

// PrimitiveByName returns the primitive with the given IDL name.
func PrimitiveByName(name string) (Primitive, bool) {
	for ii, primName := range primitiveNames {
		if primName == name {
			return Primitive(ii), true
		}
	}
	return None, false
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", uint8(p))
}

func (Primitive) isType() {}

type Option struct {
	Item Type
}

func (t *Option) String() string {
	return "Option<" + t.Item.String() + ">"
}

func (*Option) isType() {}

type Result struct {
	Ok  Type
	Err Type
}

func (t *Result) String() string {
	return "Result<" + t.Ok.String() + ", " + t.Err.String() + ">"
}

func (*Result) isType() {}

// Array is a list type. Length is the unbounded range unless the field
// declaring it carries a `length` option.
type Array struct {
	Length Range
	Item   Type
}

func (t *Array) String() string {
	return "[" + t.Item.String() + "]"
}

func (*Array) isType() {}

type Map struct {
	Length Range
	Key    Type
	Value  Type
}

func (t *Map) String() string {
	return "{" + t.Key.String() + ": " + t.Value.String() + "}"
}

func (*Map) isType() {}

// GenericParam is a reference to a generic parameter of the enclosing
// declaration.
type GenericParam struct {
	Name     string
	Position syntax.Position
}

func (t *GenericParam) String() string {
	return t.Name
}

func (*GenericParam) isType() {}

// Builtin is a name that the caller mapped directly to a target-language
// type. It is never looked up.
type Builtin struct {
	Name   string
	Target string
}

func (t *Builtin) String() string {
	return t.Name
}

func (*Builtin) isType() {}

// TypeRef is a named reference to a user-defined type. The target is
// bound exactly once during resolution.
type TypeRef struct {
	FQTN     FQTN
	Absolute bool
	Generics []Type
	Position syntax.Position

	scope  []string
	target UserDefinedType
}

// NewTypeRef returns an unresolved reference appearing in the namespace
// given by scope.
func NewTypeRef(
	fqtn FQTN,
	absolute bool,
	generics []Type,
	scope []string,
	pos syntax.Position,
) *TypeRef {
	return &TypeRef{
		FQTN:     fqtn,
		Absolute: absolute,
		Generics: generics,
		Position: pos,
		scope:    append([]string(nil), scope...),
	}
}

// Scope is the path of the namespace the reference appears in.
func (t *TypeRef) Scope() []string {
	return t.scope
}

func (t *TypeRef) Target() UserDefinedType {
	return t.target
}

func (t *TypeRef) Resolved() bool {
	return t.target != nil
}

// Bind sets the resolved target. Binding a reference twice panics.
func (t *TypeRef) Bind(target UserDefinedType) {
	if t.target != nil {
		panic(fmt.Sprintf("schema: TypeRef %s bound twice", t.FQTN))
	}
	t.target = target
}

// String renders the reference by its target's FQTN once resolved, or as
// written otherwise.
func (t *TypeRef) String() string {
	var buf strings.Builder
	if t.target != nil {
		buf.WriteString(t.target.TypeName().String())
	} else {
		if t.Absolute {
			buf.WriteString("::")
		}
		buf.WriteString(t.FQTN.String())
	}
	if len(t.Generics) > 0 {
		buf.WriteString("<")
		for ii, generic := range t.Generics {
			if ii > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(generic.String())
		}
		buf.WriteString(">")
	}
	return buf.String()
}

func (*TypeRef) isType() {}

// IsScalar reports whether values of the type carry no nested structure.
// Builtins count as scalar; references to user-defined types do not.
func IsScalar(t Type) bool {
	switch t := t.(type) {
	case Primitive:
		return true
	case *Option:
		return IsScalar(t.Item)
	case *Builtin:
		return true
	}
	return false
}
