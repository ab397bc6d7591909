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

// Package webwiretext renders a resolved schema document as indented,
// deterministic text.
package webwiretext

import (
	"fmt"
	"io"
	"strings"

	"go.webwire-lang.org/webwire/schema"
)

func Encode(doc *schema.Document) string {
	var buf strings.Builder
	EncodeTo(doc, &buf)
	return buf.String()
}

func EncodeTo(doc *schema.Document, w io.Writer) error {
	e := encoder{w: w}
	e.visitNamespaceBody(doc.Root())
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if indent := strings.Repeat("\t", e.indent); indent != "" {
		if _, err := io.WriteString(e.w, indent); err != nil {
			e.err = err
			return
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
		return
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.err = err
		return
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) block(header string, body func()) {
	e.line(header + " {")
	e.indent += 1
	body()
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitNamespaceBody(ns *schema.Namespace) {
	for _, udt := range ns.Types() {
		switch udt := udt.(type) {
		case *schema.Enum:
			e.visitEnum(udt)
		case *schema.Struct:
			e.visitStruct(udt)
		case *schema.Fieldset:
			e.visitFieldset(udt)
		}
	}
	for _, svc := range ns.Services() {
		e.visitService(svc)
	}
	for _, child := range ns.Namespaces() {
		e.block("namespace "+child.Name(), func() {
			e.visitNamespaceBody(child)
		})
	}
}

func (e *encoder) visitEnum(enum *schema.Enum) {
	header := "enum " + declName(enum)
	if enum.ExtendsRef != nil {
		header += " extends " + enum.ExtendsRef.String()
	}
	e.block(header, func() {
		for _, variant := range enum.Variants {
			if variant.Payload != nil {
				e.linef("%s(%s)", variant.Name, variant.Payload)
			} else {
				e.line(variant.Name)
			}
		}
		if enum.ExtendsRef != nil {
			names := make([]string, 0, len(enum.AllVariants))
			for _, variant := range enum.AllVariants {
				names = append(names, variant.Name)
			}
			e.linef("all_variants = %s", strings.Join(names, ", "))
		}
	})
}

func (e *encoder) visitStruct(st *schema.Struct) {
	e.block("struct "+declName(st), func() {
		for _, field := range st.Fields {
			e.line(fmtField(field))
		}
	})
}

func (e *encoder) visitFieldset(fs *schema.Fieldset) {
	e.block("fieldset "+declName(fs)+" for "+fs.StructRef.String(), func() {
		for _, field := range fs.Fields {
			optional := ""
			if field.Optional {
				optional = "?"
			}
			if field.Field != nil {
				e.linef("%s%s: %s", field.Name, optional, field.Field.Type)
			} else {
				e.line(field.Name + optional)
			}
		}
	})
}

func (e *encoder) visitService(svc *schema.Service) {
	e.block("service "+svc.FQTN.String(), func() {
		for _, method := range svc.Methods {
			e.linef("%s: %s -> %s", method.Name, fmtPayload(method.Input), fmtPayload(method.Output))
		}
	})
}

func declName(udt schema.UserDefinedType) string {
	name := udt.TypeName().String()
	if generics := udt.GenericParams(); len(generics) > 0 {
		name += "<" + strings.Join(generics, ", ") + ">"
	}
	return name
}

func fmtField(field *schema.Field) string {
	var buf strings.Builder
	buf.WriteString(field.Name)
	if field.Optional {
		buf.WriteByte('?')
	}
	buf.WriteString(": ")
	buf.WriteString(field.Type.String())
	if len(field.Options) > 0 {
		buf.WriteString(" (")
		for ii, opt := range field.Options {
			if ii > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(opt.Name)
			buf.WriteString(" = ")
			buf.WriteString(fmtValue(opt.Value))
		}
		buf.WriteString(")")
	}
	return buf.String()
}

func fmtPayload(t schema.Type) string {
	if t == nil {
		return "None"
	}
	return t.String()
}

func fmtValue(value schema.Value) string {
	if text, ok := value.(schema.StringValue); ok {
		return quote(string(text))
	}
	return value.String()
}

func quote(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range text {
		if c == '\\' || c == '"' {
			buf.WriteByte('\\')
			buf.WriteRune(c)
			continue
		}
		if c == '\n' {
			buf.WriteString("\\n")
			continue
		}
		if c < 0x20 || c == 0x7F {
			fmt.Fprintf(&buf, "\\x%02X", c)
			continue
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')
	return buf.String()
}
