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

package webwirejson_test

import (
	"encoding/json"
	"strings"
	"testing"

	"go.webwire-lang.org/webwire/compiler"
	"go.webwire-lang.org/webwire/encoding/webwirejson"
	"go.webwire-lang.org/webwire/internal/testutil"
	"go.webwire-lang.org/webwire/schema"
	"go.webwire-lang.org/webwire/syntax"
)

func compile(t *testing.T, src string) *schema.Document {
	t.Helper()
	doc, err := syntax.Parse([]byte(src), syntax.WithFilename("test.ww"))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]*syntax.Document{doc})
	testutil.AssertNoError(t, result.Err())
	return result.Document()
}

func TestMarshalStruct(t *testing.T) {
	doc := compile(t, `
namespace shop {
	struct Item {
		id: UUID,
		tags: [String] (length=0..8),
		price?: Option<Float>,
	}
}`)
	got, err := webwirejson.Marshal(doc)
	testutil.AssertNoError(t, err)

	testutil.ExpectNoDiff(t, `{
  "root": {
    "path": [],
    "types": [],
    "services": [],
    "namespaces": [
      {
        "path": [
          "shop"
        ],
        "types": [
          {
            "kind": "struct",
            "fqtn": "shop::Item",
            "generics": [],
            "position": "test.ww:3:2",
            "fields": [
              {
                "name": "id",
                "type": {
                  "kind": "primitive",
                  "name": "UUID"
                },
                "optional": false
              },
              {
                "name": "tags",
                "type": {
                  "kind": "array",
                  "item": {
                    "kind": "primitive",
                    "name": "String"
                  },
                  "length": {
                    "min": 0,
                    "max": 8
                  }
                },
                "optional": false,
                "options": [
                  {
                    "name": "length",
                    "value": {
                      "kind": "range",
                      "range": {
                        "min": 0,
                        "max": 8
                      }
                    }
                  }
                ]
              },
              {
                "name": "price",
                "type": {
                  "kind": "option",
                  "item": {
                    "kind": "primitive",
                    "name": "Float"
                  }
                },
                "optional": true
              }
            ]
          }
        ],
        "services": [],
        "namespaces": []
      }
    ]
  }
}`, string(got))
}

func TestRefsUseResolvedNames(t *testing.T) {
	doc := compile(t, `
namespace a {
	struct Target {}
	namespace b {
		struct User { t: Target }
	}
}`)
	out := webwirejson.FromSchema(doc)
	user := out.Root.Namespaces[0].Namespaces[0].Types[0]
	testutil.ExpectEq(t, "a::b::User", user.FQTN)
	ref := user.Fields[0].Type
	testutil.ExpectEq(t, "ref", ref.Kind)
	testutil.ExpectEq(t, "a::Target", ref.FQTN)
}

func TestEnumAndService(t *testing.T) {
	doc := compile(t, `
enum Base { A }
enum Err extends Base { B(String) }
service Api {
	get: String -> Result<Integer, Err>,
	ping,
}`)
	out := webwirejson.FromSchema(doc)

	errEnum := out.Root.Types[1]
	testutil.ExpectEq(t, "enum", errEnum.Kind)
	testutil.ExpectEq(t, "Base", errEnum.Extends.FQTN)
	testutil.ExpectSliceEq(t, []string{"B", "A"}, errEnum.AllVariants)
	testutil.ExpectEq(t, "String", errEnum.Variants[0].Payload.Name)

	api := out.Root.Services[0]
	testutil.ExpectEq(t, "Api", api.FQTN)
	testutil.ExpectEq(t, "result", api.Methods[0].Output.Kind)
	testutil.ExpectEq(t, "Err", api.Methods[0].Output.Err.FQTN)
	testutil.ExpectTrue(t, api.Methods[1].Input == nil)
	testutil.ExpectTrue(t, api.Methods[1].Output == nil)
}

func TestEncodeToRoundTripsAsJSON(t *testing.T) {
	doc := compile(t, `struct Pair<K, V> { key: K, value: {K: V} }
fieldset Key for Pair<String, Integer> { key? }`)
	var buf strings.Builder
	testutil.AssertNoError(t, webwirejson.EncodeTo(doc, &buf))

	var decoded webwirejson.Document
	testutil.AssertNoError(t, json.Unmarshal([]byte(buf.String()), &decoded))
	pair := decoded.Root.Types[0]
	testutil.ExpectSliceEq(t, []string{"K", "V"}, pair.Generics)
	testutil.ExpectEq(t, "generic", pair.Fields[0].Type.Kind)
	testutil.ExpectEq(t, "map", pair.Fields[1].Type.Kind)

	key := decoded.Root.Types[1]
	testutil.ExpectEq(t, "fieldset", key.Kind)
	testutil.ExpectEq(t, "Pair", key.Struct.FQTN)
	testutil.ExpectEq(t, 2, len(key.Struct.Generics))
	testutil.ExpectTrue(t, key.FieldsetItems[0].Optional)
	testutil.ExpectEq(t, "key", key.FieldsetItems[0].Field.Name)
}
