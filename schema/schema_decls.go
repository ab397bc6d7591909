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
	"go.webwire-lang.org/webwire/syntax"
)

// UserDefinedType is a declaration that a TypeRef may resolve to: an
// *Enum, *Struct or *Fieldset.
type UserDefinedType interface {
	TypeName() FQTN
	GenericParams() []string
	Pos() syntax.Position
	isUserDefinedType()
}

var (
	_ UserDefinedType = (*Enum)(nil)
	_ UserDefinedType = (*Struct)(nil)
	_ UserDefinedType = (*Fieldset)(nil)
)

type Enum struct {
	FQTN       FQTN
	Generics   []string
	ExtendsRef *TypeRef
	Variants   []*EnumVariant
	Position   syntax.Position

	// AllVariants is the enum's own variants followed by those of every
	// enum it extends. It is nil until resolution.
	AllVariants []*EnumVariant
}

func (e *Enum) TypeName() FQTN { return e.FQTN }
func (e *Enum) GenericParams() []string { return e.Generics }
func (e *Enum) Pos() syntax.Position { return e.Position }
func (*Enum) isUserDefinedType() {}

// Extends returns the parent enum, or nil if the enum does not extend
// another or is not yet resolved.
func (e *Enum) Extends() *Enum {
	if e.ExtendsRef == nil {
		return nil
	}
	parent, _ := e.ExtendsRef.Target().(*Enum)
	return parent
}

type EnumVariant struct {
	Name     string
	Payload  Type
	Position syntax.Position
}

type Struct struct {
	FQTN     FQTN
	Generics []string
	Fields   []*Field
	Position syntax.Position
}

func (s *Struct) TypeName() FQTN { return s.FQTN }
func (s *Struct) GenericParams() []string { return s.Generics }
func (s *Struct) Pos() syntax.Position { return s.Position }
func (*Struct) isUserDefinedType() {}

func (s *Struct) Field(name string) *Field {
	for _, field := range s.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

type Field struct {
	Name     string
	Type     Type
	Optional bool
	Options  []*FieldOption
	Position syntax.Position
}

func (f *Field) Option(name string) *FieldOption {
	for _, opt := range f.Options {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

type FieldOption struct {
	Name     string
	Value    Value
	Position syntax.Position
}

type Fieldset struct {
	FQTN      FQTN
	Generics  []string
	StructRef *TypeRef
	Fields    []*FieldsetField
	Position  syntax.Position
}

func (fs *Fieldset) TypeName() FQTN { return fs.FQTN }
func (fs *Fieldset) GenericParams() []string { return fs.Generics }
func (fs *Fieldset) Pos() syntax.Position { return fs.Position }
func (*Fieldset) isUserDefinedType() {}

// Struct returns the projected struct once resolved.
func (fs *Fieldset) Struct() *Struct {
	s, _ := fs.StructRef.Target().(*Struct)
	return s
}

// FieldsetField selects one field of the projected struct. Optional
// overrides the struct field's optionality; Field is nil until resolution.
type FieldsetField struct {
	Name     string
	Optional bool
	Field    *Field
	Position syntax.Position
}

type Service struct {
	FQTN     FQTN
	Methods  []*Method
	Position syntax.Position
}

// Method is a service endpoint. A nil Input or Output means no payload.
type Method struct {
	Name     string
	Input    Type
	Output   Type
	Position syntax.Position
}
