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

package schema_test

import (
	"testing"

	"go.webwire-lang.org/webwire/internal/testutil"
	"go.webwire-lang.org/webwire/schema"
	"go.webwire-lang.org/webwire/syntax"
)

func TestFQTN(t *testing.T) {
	t.Parallel()
	testutil.ExpectEq(t, "Foo", schema.NewFQTN(nil, "Foo").String())
	testutil.ExpectEq(t, "a::b::Foo", schema.NewFQTN([]string{"a", "b"}, "Foo").String())

	a := schema.NewFQTN([]string{"a"}, "Foo")
	testutil.ExpectTrue(t, a.Equal(schema.NewFQTN([]string{"a"}, "Foo")))
	testutil.ExpectFalse(t, a.Equal(schema.NewFQTN([]string{"b"}, "Foo")))
	testutil.ExpectFalse(t, a.Equal(schema.NewFQTN(nil, "Foo")))
}

func TestNamespaceOrder(t *testing.T) {
	t.Parallel()
	doc := schema.NewDocument()
	root := doc.Root()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		ok := root.AddType(&schema.Struct{FQTN: schema.NewFQTN(nil, name)})
		testutil.ExpectTrue(t, ok)
	}
	testutil.ExpectFalse(t, root.AddType(&schema.Enum{FQTN: schema.NewFQTN(nil, "Alpha")}))

	var names []string
	for _, udt := range root.Types() {
		names = append(names, udt.TypeName().Name)
	}
	testutil.ExpectSliceEq(t, []string{"Zeta", "Alpha", "Mid"}, names)

	_, isStruct := root.Type("Alpha").(*schema.Struct)
	testutil.ExpectTrue(t, isStruct)
	testutil.ExpectTrue(t, root.Type("Missing") == nil)
}

func TestDocumentWalk(t *testing.T) {
	t.Parallel()
	doc := schema.NewDocument()
	a := schema.NewNamespace([]string{"a"}, syntax.Position{})
	ab := schema.NewNamespace([]string{"a", "b"}, syntax.Position{})
	c := schema.NewNamespace([]string{"c"}, syntax.Position{})
	doc.Root().AddNamespace(a)
	a.AddNamespace(ab)
	doc.Root().AddNamespace(c)

	var paths []string
	for ns := range doc.Walk() {
		paths = append(paths, schema.NewFQTN(ns.Path(), "_").String())
	}
	testutil.ExpectSliceEq(t, []string{"_", "a::_", "a::b::_", "c::_"}, paths)
	testutil.ExpectEq(t, "b", ab.Name())
	testutil.ExpectEq(t, "", doc.Root().Name())
}

func TestTypeString(t *testing.T) {
	t.Parallel()
	person := &schema.Struct{FQTN: schema.NewFQTN([]string{"people"}, "Person")}
	ref := schema.NewTypeRef(schema.NewFQTN(nil, "Person"), false, nil, []string{"people"}, syntax.Position{})
	testutil.ExpectEq(t, "Person", ref.String())
	ref.Bind(person)
	testutil.ExpectEq(t, "people::Person", ref.String())

	min, max := int64(1), int64(10)
	tests := []struct {
		want string
		ty   schema.Type
	}{
		{"String", schema.String},
		{"DateTime", schema.DateTime},
		{"Option<UUID>", &schema.Option{Item: schema.UUID}},
		{"Result<Integer, String>", &schema.Result{Ok: schema.Integer, Err: schema.String}},
		{"[people::Person]", &schema.Array{Item: ref}},
		{"{String: [Float]}", &schema.Map{Key: schema.String, Value: &schema.Array{Item: schema.Float}}},
		{"T", &schema.GenericParam{Name: "T"}},
		{"Decimal", &schema.Builtin{Name: "Decimal", Target: "rust_decimal::Decimal"}},
		{"::x::Y<T>", schema.NewTypeRef(
			schema.NewFQTN([]string{"x"}, "Y"), true,
			[]schema.Type{&schema.GenericParam{Name: "T"}}, nil, syntax.Position{})},
	}
	for _, test := range tests {
		testutil.ExpectEq(t, test.want, test.ty.String())
	}

	testutil.ExpectEq(t, "1..10", schema.NewRange(&min, &max).String())
	testutil.ExpectEq(t, "..10", schema.NewRange(nil, &max).String())
	testutil.ExpectEq(t, "..", schema.Range{}.String())
	testutil.ExpectTrue(t, schema.Range{}.IsUnbounded())
}

func TestTypeRefBindTwice(t *testing.T) {
	t.Parallel()
	ref := schema.NewTypeRef(schema.NewFQTN(nil, "A"), false, nil, nil, syntax.Position{})
	target := &schema.Struct{FQTN: schema.NewFQTN(nil, "A")}
	ref.Bind(target)
	testutil.ExpectTrue(t, ref.Resolved())

	defer func() {
		testutil.ExpectTrue(t, recover() != nil)
	}()
	ref.Bind(target)
}

func TestIsScalar(t *testing.T) {
	t.Parallel()
	ref := schema.NewTypeRef(schema.NewFQTN(nil, "A"), false, nil, nil, syntax.Position{})
	testutil.ExpectTrue(t, schema.IsScalar(schema.None))
	testutil.ExpectTrue(t, schema.IsScalar(schema.UUID))
	testutil.ExpectTrue(t, schema.IsScalar(&schema.Option{Item: schema.Date}))
	testutil.ExpectTrue(t, schema.IsScalar(&schema.Builtin{Name: "Decimal"}))
	testutil.ExpectFalse(t, schema.IsScalar(&schema.Option{Item: ref}))
	testutil.ExpectFalse(t, schema.IsScalar(&schema.Result{Ok: schema.None, Err: schema.None}))
	testutil.ExpectFalse(t, schema.IsScalar(&schema.Array{Item: schema.String}))
	testutil.ExpectFalse(t, schema.IsScalar(ref))
}

func TestPrimitiveByName(t *testing.T) {
	t.Parallel()
	prim, ok := schema.PrimitiveByName("UUID")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, schema.UUID, prim)

	_, ok = schema.PrimitiveByName("Option")
	testutil.ExpectFalse(t, ok)
}

func TestEnumExtends(t *testing.T) {
	t.Parallel()
	parent := &schema.Enum{FQTN: schema.NewFQTN(nil, "A")}
	child := &schema.Enum{
		FQTN:       schema.NewFQTN(nil, "B"),
		ExtendsRef: schema.NewTypeRef(schema.NewFQTN(nil, "A"), false, nil, nil, syntax.Position{}),
	}
	testutil.ExpectTrue(t, child.Extends() == nil)
	child.ExtendsRef.Bind(parent)
	testutil.ExpectTrue(t, child.Extends() == parent)
	testutil.ExpectTrue(t, parent.Extends() == nil)
}
