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

package compiler_test

import (
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"testing"

	"go.webwire-lang.org/webwire/compiler"
	"go.webwire-lang.org/webwire/encoding/webwiretext"
	"go.webwire-lang.org/webwire/internal/testutil"
	"go.webwire-lang.org/webwire/schema"
	"go.webwire-lang.org/webwire/syntax"
)

var (
	testdata        fs.FS
	compileErrors   map[string]*testutil.Diagnostic
	compileWarnings map[string]*testutil.Diagnostic
)

var testBuiltinTypes = map[string]string{
	"Decimal": "rust_decimal::Decimal",
}

func init() {
	var err error
	testdata = os.DirFS("testdata")
	compileErrors, err = testutil.LoadDiagnostics(testdata, "diagnostics/compile_errors.json")
	if err != nil {
		panic(err)
	}
	compileWarnings, err = testutil.LoadDiagnostics(testdata, "diagnostics/compile_warnings.json")
	if err != nil {
		panic(err)
	}
}

// loadCase parses every schema file of a test case. The file named after
// the case comes first, the rest follow in name order.
func loadCase(t *testing.T, testName string) []*syntax.Document {
	t.Helper()
	entries, err := fs.ReadDir(testdata, testName)
	testutil.AssertNoError(t, err)

	mainFile := testName + ".ww"
	filenames := []string{mainFile}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".ww") && name != mainFile {
			filenames = append(filenames, name)
		}
	}
	slices.Sort(filenames[1:])

	var docs []*syntax.Document
	for _, filename := range filenames {
		src, err := fs.ReadFile(testdata, path.Join(testName, filename))
		testutil.AssertNoError(t, err)
		doc, err := syntax.Parse(src, syntax.WithFilename(filename))
		testutil.AssertNoError(t, err)
		docs = append(docs, doc)
	}
	return docs
}

func caseTest(t *testing.T, testName string) {
	t.Parallel()

	docs := loadCase(t, testName)
	result := compiler.Compile(docs, compiler.WithBuiltinTypes(testBuiltinTypes))

	expectErrs, err := testutil.LoadExpectations(compileErrors, testdata, path.Join(testName, "expect_err.json"))
	testutil.AssertNoError(t, err)
	expectWarns, err := testutil.LoadExpectations(compileWarnings, testdata, path.Join(testName, "expect_warn.json"))
	testutil.AssertNoError(t, err)

	if len(expectErrs) > 0 {
		testutil.ExpectEq(t, len(expectErrs), len(result.Errors))
		for _, pair := range zip(expectErrs, result.Errors) {
			want, got := pair.a, pair.b
			testutil.ExpectEq(t, want.Code, got.Code())
			if want.Pattern != nil {
				testutil.ExpectMatch(t, want.Pattern, got.Message())
			}
			testutil.ExpectEq(t, expectedPos(want), got.Pos())
		}
		testutil.ExpectTrue(t, result.Document() == nil)
	} else {
		testutil.AssertNoError(t, result.Err())
		expectText, err := fs.ReadFile(testdata, path.Join(testName, "expect_ok.txt"))
		testutil.AssertNoError(t, err)
		testutil.ExpectNoDiff(t, string(expectText), webwiretext.Encode(result.Document()))
	}

	testutil.ExpectEq(t, len(expectWarns), len(result.Warnings))
	for _, pair := range zip(expectWarns, result.Warnings) {
		want, got := pair.a, pair.b
		testutil.ExpectEq(t, want.Code, got.Code())
		testutil.ExpectEq(t, expectedPos(want), got.Pos())
	}
}

func expectedPos(want *testutil.Expectation) syntax.Position {
	return syntax.Position{
		Filename: want.File,
		Line:     want.Line,
		Column:   want.Column,
	}
}

type pair[A, B any] struct {
	a A
	b B
}

func zip[A, B any](as []A, bs []B) []pair[A, B] {
	n := min(len(as), len(bs))
	out := make([]pair[A, B], 0, n)
	for ii := 0; ii < n; ii++ {
		out = append(out, pair[A, B]{as[ii], bs[ii]})
	}
	return out
}

func TestCompiler(t *testing.T) {
	t.Parallel()

	testDirs, err := fs.ReadDir(testdata, ".")
	testutil.AssertNoError(t, err)

	for _, testDir := range testDirs {
		if !testDir.IsDir() || testDir.Name() == "diagnostics" {
			continue
		}
		testName := testDir.Name()
		t.Run(testName, func(t *testing.T) {
			caseTest(t, testName)
		})
	}
}

func compileSrc(t *testing.T, src string, opts ...compiler.CompileOption) *schema.Document {
	t.Helper()
	doc, err := syntax.Parse([]byte(src))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]*syntax.Document{doc}, opts...)
	testutil.AssertNoError(t, result.Err())
	return result.Document()
}

func TestLengthOption(t *testing.T) {
	t.Parallel()
	doc := compileSrc(t, `
struct Foo {
    tags: [String] (length = 1..10),
    attrs: {String: Integer} (length = ..5),
    name: String (length = 3..),
}
`)
	foo := doc.Root().Type("Foo").(*schema.Struct)

	tags := foo.Field("tags").Type.(*schema.Array)
	testutil.ExpectEq(t, int64(1), *tags.Length.Min)
	testutil.ExpectEq(t, int64(10), *tags.Length.Max)

	attrs := foo.Field("attrs").Type.(*schema.Map)
	testutil.ExpectTrue(t, attrs.Length.Min == nil)
	testutil.ExpectEq(t, int64(5), *attrs.Length.Max)

	name := foo.Field("name")
	length := name.Option("length").Value.(schema.Range)
	testutil.ExpectEq(t, int64(3), *length.Min)
	testutil.ExpectTrue(t, length.Max == nil)
}

func TestReferencesShareTargets(t *testing.T) {
	t.Parallel()
	doc := compileSrc(t, `
struct Node {
    children: [Node],
    parent?: Node,
}
fieldset NodeRef for Node { parent }
`)
	node := doc.Root().Type("Node").(*schema.Struct)
	children := node.Field("children").Type.(*schema.Array).Item.(*schema.TypeRef)
	parent := node.Field("parent").Type.(*schema.TypeRef)
	testutil.ExpectTrue(t, children.Target() == schema.UserDefinedType(node))
	testutil.ExpectTrue(t, parent.Target() == schema.UserDefinedType(node))

	nodeRef := doc.Root().Type("NodeRef").(*schema.Fieldset)
	testutil.ExpectTrue(t, nodeRef.Struct() == node)
	testutil.ExpectTrue(t, nodeRef.Fields[0].Field == node.Field("parent"))
}

func TestEnumAllVariants(t *testing.T) {
	t.Parallel()
	doc := compileSrc(t, `
enum A { X }
enum B extends A { Y }
enum Empty {}
`)
	b := doc.Root().Type("B").(*schema.Enum)
	var names []string
	for _, variant := range b.AllVariants {
		names = append(names, variant.Name)
	}
	testutil.ExpectSliceEq(t, []string{"Y", "X"}, names)
	testutil.ExpectTrue(t, b.Extends() == doc.Root().Type("A"))

	empty := doc.Root().Type("Empty").(*schema.Enum)
	testutil.ExpectTrue(t, empty.AllVariants != nil)
	testutil.ExpectEq(t, 0, len(empty.AllVariants))
}

func TestEnumExtendsCycleMessage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
		pos  syntax.Position
	}{
		{
			"self",
			"enum A extends A { X }",
			"E3006: Enum 'A' is part of an extends cycle through 'A'",
			syntax.Position{Line: 1, Column: 16},
		},
		{
			"indirect",
			"enum A extends B { X }\nenum B extends C { Y }\nenum C extends B { Z }",
			"E3006: Enum 'C' is part of an extends cycle through 'B'",
			syntax.Position{Line: 3, Column: 16},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := syntax.Parse([]byte(tt.src))
			testutil.AssertNoError(t, err)
			result := compiler.Compile([]*syntax.Document{src})
			testutil.AssertError(t, result.Err())
			testutil.ExpectEq(t, tt.want, result.Errors[0].Error())
			pos := result.Errors[0].Pos()
			testutil.ExpectEq(t, tt.pos.Line, pos.Line)
			testutil.ExpectEq(t, tt.pos.Column, pos.Column)
		})
	}
}

func TestSameNameInSiblingNamespaces(t *testing.T) {
	t.Parallel()
	doc := compileSrc(t, `
namespace a { struct Foo {} }
namespace b { struct Foo { other: a::Foo } }
`)
	a := doc.Root().Namespace("a")
	b := doc.Root().Namespace("b")
	bFoo := b.Type("Foo").(*schema.Struct)
	ref := bFoo.Field("other").Type.(*schema.TypeRef)
	testutil.ExpectTrue(t, ref.Target() == a.Type("Foo"))
	testutil.ExpectEq(t, "b::Foo", bFoo.FQTN.String())
}

func TestBuiltinOverrides(t *testing.T) {
	t.Parallel()
	doc := compileSrc(t, `struct Foo { amount: Decimal }`,
		compiler.WithBuiltinTypes(map[string]string{"Decimal": "rust_decimal::Decimal"}))
	foo := doc.Root().Type("Foo").(*schema.Struct)
	builtin := foo.Field("amount").Type.(*schema.Builtin)
	testutil.ExpectEq(t, "Decimal", builtin.Name)
	testutil.ExpectEq(t, "rust_decimal::Decimal", builtin.Target)

	src, err := syntax.Parse([]byte(`struct Foo { amount: Decimal<Integer> }`))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]*syntax.Document{src},
		compiler.WithBuiltinTypes(map[string]string{"Decimal": "rust_decimal::Decimal"}))
	testutil.ExpectCode(t, 3002, result.Err())
}

func TestDuplicatePrevPos(t *testing.T) {
	t.Parallel()
	src, err := syntax.Parse([]byte("struct Foo {}\n\nenum Foo { A }"), syntax.WithFilename("dup.ww"))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]*syntax.Document{src})
	testutil.AssertError(t, result.Err())

	compileErr := result.Errors[0]
	testutil.ExpectEq(t, syntax.Position{Filename: "dup.ww", Line: 3, Column: 6}, compileErr.Pos())
	testutil.ExpectEq(t, syntax.Position{Filename: "dup.ww", Line: 1, Column: 8}, compileErr.PrevPos())
	testutil.ExpectEq(t, "E3000: Duplicate identifier 'Foo' (previously declared at dup.ww:1:8)", compileErr.Error())
}

func TestServiceMethodsResolve(t *testing.T) {
	t.Parallel()
	doc := compileSrc(t, `
namespace pets {
    struct Pet { name: String }
    service Pets { get: UUID -> Option<Pet>, drop: Pet }
}
`)
	svc := doc.Root().Namespace("pets").Service("Pets")
	testutil.ExpectEq(t, "pets::Pets", svc.FQTN.String())

	get := svc.Methods[0]
	testutil.ExpectEq(t, schema.Type(schema.UUID), get.Input)
	ref := get.Output.(*schema.Option).Item.(*schema.TypeRef)
	testutil.ExpectTrue(t, ref.Resolved())

	drop := svc.Methods[1]
	testutil.ExpectTrue(t, drop.Output == nil)
	testutil.ExpectEq(t, "pets::Pet", drop.Input.String())
}
