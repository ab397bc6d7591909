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
	"github.com/google/uuid"

	"go.webwire-lang.org/webwire/schema"
	"go.webwire-lang.org/webwire/syntax"
)

// declScope is the conversion context of one declaration: the namespace
// it lives in and the generic parameters it binds.
type declScope struct {
	path     []string
	name     string
	generics []string
	used     map[string]bool
}

func (s *declScope) generic(name string) bool {
	for _, generic := range s.generics {
		if generic == name {
			s.used[name] = true
			return true
		}
	}
	return false
}

func (c *compiler) newDeclScope(
	path []string,
	name *syntax.Ident,
	generics []*syntax.Ident,
) (*declScope, error) {
	scope := &declScope{
		path: path,
		name: name.Get(),
		used: make(map[string]bool),
	}
	seen := make(map[string]syntax.Position, len(generics))
	for _, generic := range generics {
		if prevPos, dup := seen[generic.Get()]; dup {
			return nil, errDuplicateIdentifier(generic.Get(), generic.Pos(), prevPos)
		}
		seen[generic.Get()] = generic.Pos()
		scope.generics = append(scope.generics, generic.Get())
	}
	return scope, nil
}

func (c *compiler) checkGenericsUsed(scope *declScope, generics []*syntax.Ident) {
	for _, generic := range generics {
		if !scope.used[generic.Get()] {
			c.warn(warnUnusedGenericParam(scope.name, generic.Get(), generic.Pos()))
		}
	}
}

// memberNames detects duplicate member names within one declaration.
type memberNames map[string]syntax.Position

func (m memberNames) claim(name *syntax.Ident) error {
	if prevPos, dup := m[name.Get()]; dup {
		return errDuplicateIdentifier(name.Get(), name.Pos(), prevPos)
	}
	m[name.Get()] = name.Pos()
	return nil
}

func (c *compiler) convertEnum(path []string, node *syntax.Enum) (*schema.Enum, error) {
	scope, err := c.newDeclScope(path, node.Name(), node.Generics())
	if err != nil {
		return nil, err
	}
	enum := &schema.Enum{
		FQTN:     schema.NewFQTN(path, node.Name().Get()),
		Generics: scope.generics,
		Position: node.Pos(),
	}

	names := make(memberNames)
	for _, variantNode := range node.Variants() {
		if err := names.claim(variantNode.Name()); err != nil {
			return nil, err
		}
		variant := &schema.EnumVariant{
			Name:     variantNode.Name().Get(),
			Position: variantNode.Pos(),
		}
		if payload := variantNode.Payload(); payload != nil {
			if variant.Payload, err = c.convertType(scope, payload); err != nil {
				return nil, err
			}
		}
		enum.Variants = append(enum.Variants, variant)
	}

	if extendsNode := node.Extends(); extendsNode != nil {
		extends, err := c.convertType(scope, extendsNode)
		if err != nil {
			return nil, err
		}
		ref, ok := extends.(*schema.TypeRef)
		if !ok {
			return nil, errEnumExtendsNonEnum(enum.FQTN, extendsNode.String(), extendsNode.Pos())
		}
		enum.ExtendsRef = ref
	}

	c.checkGenericsUsed(scope, node.Generics())
	return enum, nil
}

func (c *compiler) convertStruct(path []string, node *syntax.Struct) (*schema.Struct, error) {
	scope, err := c.newDeclScope(path, node.Name(), node.Generics())
	if err != nil {
		return nil, err
	}
	st := &schema.Struct{
		FQTN:     schema.NewFQTN(path, node.Name().Get()),
		Generics: scope.generics,
		Position: node.Pos(),
	}

	names := make(memberNames)
	for _, fieldNode := range node.Fields() {
		if err := names.claim(fieldNode.Name()); err != nil {
			return nil, err
		}
		field, err := c.convertField(scope, fieldNode)
		if err != nil {
			return nil, err
		}
		st.Fields = append(st.Fields, field)
	}

	c.checkGenericsUsed(scope, node.Generics())
	return st, nil
}

func (c *compiler) convertField(scope *declScope, node *syntax.StructField) (*schema.Field, error) {
	fieldType, err := c.convertType(scope, node.Type())
	if err != nil {
		return nil, err
	}
	field := &schema.Field{
		Name:     node.Name().Get(),
		Type:     fieldType,
		Optional: node.Optional(),
		Position: node.Pos(),
	}
	for _, optNode := range node.Options() {
		opt := &schema.FieldOption{
			Name:     optNode.Name().Get(),
			Value:    convertValue(optNode.Value()),
			Position: optNode.Pos(),
		}
		if err := checkFieldOption(field, opt); err != nil {
			return nil, err
		}
		field.Options = append(field.Options, opt)
	}
	return field, nil
}

// checkFieldOption validates the options with a known meaning. Options
// with other names are kept as written.
func checkFieldOption(field *schema.Field, opt *schema.FieldOption) error {
	switch opt.Name {
	case "length":
		length, ok := opt.Value.(schema.Range)
		if !ok {
			return errInvalidFieldOption(field.Name, opt.Name, "expected a range", opt.Position)
		}
		if length.Min != nil && length.Max != nil && *length.Min > *length.Max {
			return errInvalidFieldOption(field.Name, opt.Name, "minimum exceeds maximum", opt.Position)
		}
		switch t := field.Type.(type) {
		case *schema.Array:
			t.Length = length
		case *schema.Map:
			t.Length = length
		}
	case "format":
		if _, ok := opt.Value.(schema.StringValue); !ok {
			return errInvalidFieldOption(field.Name, opt.Name, "expected a string", opt.Position)
		}
	case "default":
		if field.Type != schema.UUID {
			return nil
		}
		value, ok := opt.Value.(schema.StringValue)
		if !ok {
			return errInvalidFieldOption(field.Name, opt.Name, "expected a UUID string", opt.Position)
		}
		if _, err := uuid.Parse(string(value)); err != nil {
			return errInvalidFieldOption(field.Name, opt.Name, err.Error(), opt.Position)
		}
	}
	return nil
}

func (c *compiler) convertFieldset(path []string, node *syntax.Fieldset) (*schema.Fieldset, error) {
	scope, err := c.newDeclScope(path, node.Name(), node.Generics())
	if err != nil {
		return nil, err
	}
	fs := &schema.Fieldset{
		FQTN:     schema.NewFQTN(path, node.Name().Get()),
		Generics: scope.generics,
		Position: node.Pos(),
	}

	structType, err := c.convertType(scope, node.Struct())
	if err != nil {
		return nil, err
	}
	ref, ok := structType.(*schema.TypeRef)
	if !ok {
		return nil, errFieldsetExtendsNonStruct(fs.FQTN, node.Struct().String(), node.Struct().Pos())
	}
	fs.StructRef = ref

	names := make(memberNames)
	for _, fieldNode := range node.Fields() {
		if err := names.claim(fieldNode.Name()); err != nil {
			return nil, err
		}
		fs.Fields = append(fs.Fields, &schema.FieldsetField{
			Name:     fieldNode.Name().Get(),
			Optional: fieldNode.Optional(),
			Position: fieldNode.Pos(),
		})
	}

	c.checkGenericsUsed(scope, node.Generics())
	return fs, nil
}

func (c *compiler) convertService(path []string, node *syntax.Service) (*schema.Service, error) {
	scope, err := c.newDeclScope(path, node.Name(), nil)
	if err != nil {
		return nil, err
	}
	svc := &schema.Service{
		FQTN:     schema.NewFQTN(path, node.Name().Get()),
		Position: node.Pos(),
	}

	names := make(memberNames)
	for _, methodNode := range node.Methods() {
		if err := names.claim(methodNode.Name()); err != nil {
			return nil, err
		}
		method := &schema.Method{
			Name:     methodNode.Name().Get(),
			Position: methodNode.Pos(),
		}
		if input := methodNode.Input(); input != nil {
			if method.Input, err = c.convertType(scope, input); err != nil {
				return nil, err
			}
		}
		if output := methodNode.Output(); output != nil {
			if method.Output, err = c.convertType(scope, output); err != nil {
				return nil, err
			}
		}
		svc.Methods = append(svc.Methods, method)
	}
	return svc, nil
}

func (c *compiler) convertType(scope *declScope, node syntax.Type) (schema.Type, error) {
	switch node := node.(type) {
	case *syntax.ArrayType:
		item, err := c.convertType(scope, node.Item())
		if err != nil {
			return nil, err
		}
		return &schema.Array{Item: item}, nil
	case *syntax.MapType:
		key, err := c.convertType(scope, node.Key())
		if err != nil {
			return nil, err
		}
		value, err := c.convertType(scope, node.Value())
		if err != nil {
			return nil, err
		}
		return &schema.Map{Key: key, Value: value}, nil
	case *syntax.TypeRef:
		return c.convertTypeRef(scope, node)
	}
	panic("unreachable")
}

// convertTypeRef intercepts unqualified builtin names, override names and
// generic parameters, in that order. Any other name becomes an unbound
// *schema.TypeRef.
func (c *compiler) convertTypeRef(scope *declScope, node *syntax.TypeRef) (schema.Type, error) {
	var generics []schema.Type
	for _, genericNode := range node.Generics() {
		generic, err := c.convertType(scope, genericNode)
		if err != nil {
			return nil, err
		}
		generics = append(generics, generic)
	}

	name := node.Name().Get()
	if !node.Absolute() && len(node.Namespace()) == 0 {
		expectGenerics := func(want int) error {
			if len(generics) != want {
				return errGenericsMismatch(name, want, len(generics), node.Pos())
			}
			return nil
		}

		if prim, ok := schema.PrimitiveByName(name); ok {
			return prim, expectGenerics(0)
		}
		switch name {
		case "Option":
			if err := expectGenerics(1); err != nil {
				return nil, err
			}
			return &schema.Option{Item: generics[0]}, nil
		case "Result":
			if err := expectGenerics(2); err != nil {
				return nil, err
			}
			return &schema.Result{Ok: generics[0], Err: generics[1]}, nil
		}
		if target, ok := c.opts.builtinTypes[name]; ok {
			return &schema.Builtin{Name: name, Target: target}, expectGenerics(0)
		}
		if scope.generic(name) {
			return &schema.GenericParam{Name: name, Position: node.Pos()}, expectGenerics(0)
		}
	}

	var ns []string
	for _, part := range node.Namespace() {
		ns = append(ns, part.Get())
	}
	return schema.NewTypeRef(
		schema.FQTN{NS: ns, Name: name},
		node.Absolute(),
		generics,
		scope.path,
		node.Pos(),
	), nil
}

func convertValue(node syntax.Value) schema.Value {
	switch node := node.(type) {
	case *syntax.BoolLit:
		return schema.BoolValue(node.Get())
	case *syntax.IntLit:
		return schema.IntValue(node.Get())
	case *syntax.FloatLit:
		return schema.FloatValue(node.Get())
	case *syntax.TextLit:
		return schema.StringValue(node.Get())
	case *syntax.Ident:
		return schema.IdentValue(node.Get())
	case *syntax.RangeLit:
		var r schema.Range
		if min := node.Min(); min != nil {
			value := min.Get()
			r.Min = &value
		}
		if max := node.Max(); max != nil {
			value := max.Get()
			r.Max = &value
		}
		return r
	}
	panic("unreachable")
}
