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

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.webwire-lang.org/webwire/syntax"
)

// DumpJSON renders an AST as indented JSON for golden comparisons. When
// withPositions is false, two sources that differ only in whitespace dump
// to identical output.
func DumpJSON(node syntax.Node, withPositions bool) []byte {
	var buf bytes.Buffer
	dumpJSON(&buf, node, 0, withPositions)
	return buf.Bytes()
}

func quoteJSON(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}

func nodeKind(node syntax.Node) string {
	ty := fmt.Sprintf("%T", node)
	var nameBuf strings.Builder
	for ii, c := range strings.TrimPrefix(ty, "*syntax.") {
		if c >= 'A' && c <= 'Z' {
			if ii > 0 {
				nameBuf.WriteRune('-')
			}
			nameBuf.WriteRune(c + ('a' - 'A'))
		} else {
			nameBuf.WriteRune(c)
		}
	}
	return nameBuf.String()
}

func dumpJSON(buf *bytes.Buffer, node syntax.Node, indent int, withPositions bool) {
	var attrs []string
	if withPositions {
		attrs = append(attrs, `"pos": `+quoteJSON(node.Pos().String()))
	}

	switch node := node.(type) {
	case *syntax.Ident:
		attrs = append(attrs, `"value": `+quoteJSON(node.Get()))
	case *syntax.BoolLit:
		attrs = append(attrs, `"value": `+strconv.FormatBool(node.Get()))
	case *syntax.IntLit:
		attrs = append(attrs, `"value": `+strconv.FormatInt(node.Get(), 10))
	case *syntax.FloatLit:
		attrs = append(attrs, `"value": `+strconv.FormatFloat(node.Get(), 'g', -1, 64))
	case *syntax.TextLit:
		attrs = append(attrs, `"value": `+quoteJSON(node.Get()))
	case *syntax.RangeLit:
		attrs = append(attrs, `"min": `+fmtBound(node.Min()))
		attrs = append(attrs, `"max": `+fmtBound(node.Max()))
	case *syntax.StructField:
		attrs = append(attrs, `"optional": `+strconv.FormatBool(node.Optional()))
	case *syntax.FieldsetField:
		attrs = append(attrs, `"optional": `+strconv.FormatBool(node.Optional()))
	case *syntax.TypeRef:
		attrs = append(attrs, `"absolute": `+strconv.FormatBool(node.Absolute()))
	case *syntax.Method:
		attrs = append(attrs, `"input": `+strconv.FormatBool(node.Input() != nil))
		attrs = append(attrs, `"output": `+strconv.FormatBool(node.Output() != nil))
	}

	pad := strings.Repeat("    ", indent+1)
	buf.WriteString(strings.Repeat("    ", indent))
	buf.WriteString("{")
	buf.WriteString(quoteJSON(nodeKind(node)))
	buf.WriteString(": {")
	for ii, attr := range attrs {
		if ii > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
		buf.WriteString(pad)
		buf.WriteString(attr)
	}

	firstChild := true
	for child := range node.ChildNodes() {
		if firstChild {
			if len(attrs) > 0 {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
			buf.WriteString(pad)
			buf.WriteString("\"child-nodes\": [\n")
		} else {
			buf.WriteString(",\n")
		}
		firstChild = false
		dumpJSON(buf, child, indent+2, withPositions)
	}
	if !firstChild {
		buf.WriteString("\n")
		buf.WriteString(pad)
		buf.WriteString("]")
	}
	buf.WriteString("}}")
}

func fmtBound(lit *syntax.IntLit) string {
	if lit == nil {
		return "null"
	}
	return strconv.FormatInt(lit.Get(), 10)
}
