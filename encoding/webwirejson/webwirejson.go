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

// Package webwirejson renders a resolved schema document as JSON. The
// JSON form is the document that code generator plugins receive.
package webwirejson

import (
	"encoding/json"
	"io"

	"go.webwire-lang.org/webwire/schema"
)

type Document struct {
	Root *Namespace `json:"root"`
}

type Namespace struct {
	Path       []string     `json:"path"`
	Types      []*Decl      `json:"types"`
	Services   []*Service   `json:"services"`
	Namespaces []*Namespace `json:"namespaces"`
}

// Decl is an enum, struct or fieldset declaration. Kind selects which of
// the optional members are present.
type Decl struct {
	Kind     string   `json:"kind"`
	FQTN     string   `json:"fqtn"`
	Generics []string `json:"generics"`
	Position string   `json:"position,omitempty"`

	Fields []*Field `json:"fields,omitempty"`

	Variants    []*Variant `json:"variants,omitempty"`
	AllVariants []string   `json:"all_variants,omitempty"`
	Extends     *Type      `json:"extends,omitempty"`

	Struct        *Type            `json:"struct,omitempty"`
	FieldsetItems []*FieldsetField `json:"fieldset_fields,omitempty"`
}

type Field struct {
	Name     string    `json:"name"`
	Type     *Type     `json:"type"`
	Optional bool      `json:"optional"`
	Options  []*Option `json:"options,omitempty"`
}

type Option struct {
	Name  string `json:"name"`
	Value *Value `json:"value"`
}

type Variant struct {
	Name    string `json:"name"`
	Payload *Type  `json:"payload,omitempty"`
}

type FieldsetField struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
	Field    *Field `json:"field"`
}

type Service struct {
	FQTN    string    `json:"fqtn"`
	Methods []*Method `json:"methods"`
}

type Method struct {
	Name   string `json:"name"`
	Input  *Type  `json:"input"`
	Output *Type  `json:"output"`
}

type Type struct {
	Kind string `json:"kind"`

	// primitive, generic, builtin
	Name   string `json:"name,omitempty"`
	Target string `json:"target,omitempty"`

	// ref
	FQTN     string  `json:"fqtn,omitempty"`
	Generics []*Type `json:"generics,omitempty"`

	// option, array
	Item *Type `json:"item,omitempty"`

	// result
	Ok  *Type `json:"ok,omitempty"`
	Err *Type `json:"err,omitempty"`

	// map
	Key   *Type `json:"key,omitempty"`
	Value *Type `json:"value,omitempty"`

	// array, map
	Length *Range `json:"length,omitempty"`
}

type Range struct {
	Min *int64 `json:"min"`
	Max *int64 `json:"max"`
}

type Value struct {
	Kind   string   `json:"kind"`
	Bool   *bool    `json:"bool,omitempty"`
	Int    *int64   `json:"int,omitempty"`
	Float  *float64 `json:"float,omitempty"`
	String *string  `json:"string,omitempty"`
	Range  *Range   `json:"range,omitempty"`
}

func Marshal(doc *schema.Document) ([]byte, error) {
	return json.MarshalIndent(FromSchema(doc), "", "  ")
}

func EncodeTo(doc *schema.Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(FromSchema(doc))
}

// FromSchema converts a resolved document to its JSON form.
func FromSchema(doc *schema.Document) *Document {
	return &Document{
		Root: fromNamespace(doc.Root()),
	}
}

func fromNamespace(ns *schema.Namespace) *Namespace {
	out := &Namespace{
		Path:       nonNil(ns.Path()),
		Types:      []*Decl{},
		Services:   []*Service{},
		Namespaces: []*Namespace{},
	}
	for _, udt := range ns.Types() {
		out.Types = append(out.Types, fromDecl(udt))
	}
	for _, svc := range ns.Services() {
		out.Services = append(out.Services, fromService(svc))
	}
	for _, child := range ns.Namespaces() {
		out.Namespaces = append(out.Namespaces, fromNamespace(child))
	}
	return out
}

func fromDecl(udt schema.UserDefinedType) *Decl {
	decl := &Decl{
		FQTN:     udt.TypeName().String(),
		Generics: nonNil(udt.GenericParams()),
	}
	if pos := udt.Pos(); pos.IsValid() {
		decl.Position = pos.String()
	}
	switch udt := udt.(type) {
	case *schema.Enum:
		decl.Kind = "enum"
		for _, variant := range udt.Variants {
			decl.Variants = append(decl.Variants, &Variant{
				Name:    variant.Name,
				Payload: fromType(variant.Payload),
			})
		}
		if udt.ExtendsRef != nil {
			decl.Extends = fromType(udt.ExtendsRef)
			for _, variant := range udt.AllVariants {
				decl.AllVariants = append(decl.AllVariants, variant.Name)
			}
		}
	case *schema.Struct:
		decl.Kind = "struct"
		for _, field := range udt.Fields {
			decl.Fields = append(decl.Fields, fromField(field))
		}
	case *schema.Fieldset:
		decl.Kind = "fieldset"
		decl.Struct = fromType(udt.StructRef)
		for _, field := range udt.Fields {
			item := &FieldsetField{
				Name:     field.Name,
				Optional: field.Optional,
			}
			if field.Field != nil {
				item.Field = fromField(field.Field)
			}
			decl.FieldsetItems = append(decl.FieldsetItems, item)
		}
	}
	return decl
}

func fromField(field *schema.Field) *Field {
	out := &Field{
		Name:     field.Name,
		Type:     fromType(field.Type),
		Optional: field.Optional,
	}
	for _, opt := range field.Options {
		out.Options = append(out.Options, &Option{
			Name:  opt.Name,
			Value: fromValue(opt.Value),
		})
	}
	return out
}

func fromService(svc *schema.Service) *Service {
	out := &Service{
		FQTN:    svc.FQTN.String(),
		Methods: []*Method{},
	}
	for _, method := range svc.Methods {
		out.Methods = append(out.Methods, &Method{
			Name:   method.Name,
			Input:  fromType(method.Input),
			Output: fromType(method.Output),
		})
	}
	return out
}

// fromType returns nil for a nil type, which stands for "no payload".
func fromType(t schema.Type) *Type {
	switch t := t.(type) {
	case nil:
		return nil
	case schema.Primitive:
		return &Type{Kind: "primitive", Name: t.String()}
	case *schema.Option:
		return &Type{Kind: "option", Item: fromType(t.Item)}
	case *schema.Result:
		return &Type{Kind: "result", Ok: fromType(t.Ok), Err: fromType(t.Err)}
	case *schema.Array:
		return &Type{Kind: "array", Item: fromType(t.Item), Length: fromRange(t.Length)}
	case *schema.Map:
		return &Type{
			Kind:   "map",
			Key:    fromType(t.Key),
			Value:  fromType(t.Value),
			Length: fromRange(t.Length),
		}
	case *schema.TypeRef:
		out := &Type{Kind: "ref", FQTN: t.FQTN.String()}
		if target := t.Target(); target != nil {
			out.FQTN = target.TypeName().String()
		}
		for _, generic := range t.Generics {
			out.Generics = append(out.Generics, fromType(generic))
		}
		return out
	case *schema.GenericParam:
		return &Type{Kind: "generic", Name: t.Name}
	case *schema.Builtin:
		return &Type{Kind: "builtin", Name: t.Name, Target: t.Target}
	}
	panic("unreachable")
}

func fromRange(r schema.Range) *Range {
	return &Range{Min: r.Min, Max: r.Max}
}

func fromValue(value schema.Value) *Value {
	switch value := value.(type) {
	case schema.BoolValue:
		v := bool(value)
		return &Value{Kind: "bool", Bool: &v}
	case schema.IntValue:
		v := int64(value)
		return &Value{Kind: "int", Int: &v}
	case schema.FloatValue:
		v := float64(value)
		return &Value{Kind: "float", Float: &v}
	case schema.StringValue:
		v := string(value)
		return &Value{Kind: "string", String: &v}
	case schema.IdentValue:
		v := string(value)
		return &Value{Kind: "ident", String: &v}
	case schema.Range:
		return &Value{Kind: "range", Range: fromRange(value)}
	}
	panic("unreachable")
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
