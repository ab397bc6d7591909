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

// resolveNamespace binds every reference reachable from ns: its types,
// then its services, then its child namespaces.
func (c *compiler) resolveNamespace(ns *schema.Namespace) error {
	for _, udt := range ns.Types() {
		var err error
		switch udt := udt.(type) {
		case *schema.Enum:
			err = c.resolveEnum(udt)
		case *schema.Struct:
			err = c.resolveStruct(udt)
		case *schema.Fieldset:
			err = c.resolveFieldset(udt)
		}
		if err != nil {
			return err
		}
	}
	for _, svc := range ns.Services() {
		if err := c.resolveService(svc); err != nil {
			return err
		}
	}
	for _, child := range ns.Namespaces() {
		if err := c.resolveNamespace(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) resolveType(t schema.Type) error {
	switch t := t.(type) {
	case *schema.Option:
		return c.resolveType(t.Item)
	case *schema.Result:
		if err := c.resolveType(t.Ok); err != nil {
			return err
		}
		return c.resolveType(t.Err)
	case *schema.Array:
		return c.resolveType(t.Item)
	case *schema.Map:
		if err := c.resolveType(t.Key); err != nil {
			return err
		}
		return c.resolveType(t.Value)
	case *schema.TypeRef:
		return c.resolveRef(t)
	}
	return nil
}

func (c *compiler) resolveRef(ref *schema.TypeRef) error {
	if ref.Resolved() {
		return nil
	}
	target, ok := c.types.lookup(ref)
	if !ok {
		return errNoSuchType(ref.String(), ref.Position)
	}
	if want := len(target.GenericParams()); want != len(ref.Generics) {
		return errGenericsMismatch(target.TypeName().String(), want, len(ref.Generics), ref.Position)
	}
	for _, generic := range ref.Generics {
		if err := c.resolveType(generic); err != nil {
			return err
		}
	}
	ref.Bind(target)
	return nil
}

func (c *compiler) resolveEnum(enum *schema.Enum) error {
	for _, variant := range enum.Variants {
		if variant.Payload == nil {
			continue
		}
		if err := c.resolveType(variant.Payload); err != nil {
			return err
		}
	}
	return c.flattenEnum(enum, make(map[*schema.Enum]struct{}))
}

// flattenEnum computes AllVariants: the enum's own variants, then those of
// the enum it extends, transitively. Parents are flattened on demand, so
// declaration order does not matter.
func (c *compiler) flattenEnum(enum *schema.Enum, visiting map[*schema.Enum]struct{}) error {
	if enum.AllVariants != nil {
		return nil
	}
	allVariants := make([]*schema.EnumVariant, 0, len(enum.Variants))
	allVariants = append(allVariants, enum.Variants...)
	if enum.ExtendsRef == nil {
		enum.AllVariants = allVariants
		return nil
	}

	visiting[enum] = struct{}{}
	ref := enum.ExtendsRef
	if err := c.resolveRef(ref); err != nil {
		return err
	}
	parent, ok := ref.Target().(*schema.Enum)
	if !ok {
		return errEnumExtendsNonEnum(enum.FQTN, ref.Target().TypeName().String(), ref.Position)
	}
	if _, cycle := visiting[parent]; cycle {
		return errEnumExtendsCycle(enum.FQTN, parent.FQTN, ref.Position)
	}
	if err := c.flattenEnum(parent, visiting); err != nil {
		return err
	}
	enum.AllVariants = append(allVariants, parent.AllVariants...)
	return nil
}

func (c *compiler) resolveStruct(st *schema.Struct) error {
	for _, field := range st.Fields {
		if err := c.resolveType(field.Type); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) resolveFieldset(fs *schema.Fieldset) error {
	if err := c.resolveRef(fs.StructRef); err != nil {
		return err
	}
	st, ok := fs.StructRef.Target().(*schema.Struct)
	if !ok {
		return errFieldsetExtendsNonStruct(fs.FQTN, fs.StructRef.Target().TypeName().String(), fs.StructRef.Position)
	}
	for _, field := range fs.Fields {
		structField := st.Field(field.Name)
		if structField == nil {
			return errNoSuchField(fs.FQTN, st.FQTN, field.Name, field.Position)
		}
		field.Field = structField
	}
	return nil
}

func (c *compiler) resolveService(svc *schema.Service) error {
	for _, method := range svc.Methods {
		if method.Input != nil {
			if err := c.resolveType(method.Input); err != nil {
				return err
			}
		}
		if method.Output != nil {
			if err := c.resolveType(method.Output); err != nil {
				return err
			}
		}
	}
	return nil
}
