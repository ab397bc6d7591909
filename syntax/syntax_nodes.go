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

package syntax

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Position is a 1-based line and column within a source file. Columns count
// Unicode code points.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

type Node interface {
	Pos() Position

	ChildNodes() iter.Seq[Node]

	privChildren() []Node
}

func Walk(node Node, walkFn func(Node) bool) {
	if node == nil || !walkFn(node) {
		return
	}
	for _, child := range node.privChildren() {
		Walk(child, walkFn)
	}
	walkFn(nil)
}

func iterChildren(childNodes []Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range childNodes {
			if !yield(child) {
				return
			}
		}
	}
}

type leafNode struct{}

func (*leafNode) ChildNodes() iter.Seq[Node] {
	return func(_yield func(Node) bool) {}
}

func (*leafNode) privChildren() []Node {
	return nil
}

// Decl is a declaration that may appear in a namespace body.
type Decl interface {
	Node
	Name() *Ident
	isDecl()
}

// Type is a type expression: a named reference, an array, or a map.
type Type interface {
	Node
	isType()
}

// Value is a literal or identifier used as a field option value.
type Value interface {
	Node
	isValue()
}

type Ident struct {
	leafNode
	raw string
	pos Position
}

var (
	_ Node  = (*Ident)(nil)
	_ Value = (*Ident)(nil)
)

func (n *Ident) Pos() Position {
	return n.pos
}

func (n *Ident) Get() string {
	return n.raw
}

func (*Ident) isValue() {}

type BoolLit struct {
	leafNode
	value bool
	pos   Position
}

var _ Value = (*BoolLit)(nil)

func (n *BoolLit) Pos() Position {
	return n.pos
}

func (n *BoolLit) Get() bool {
	return n.value
}

func (*BoolLit) isValue() {}

type IntLit struct {
	leafNode
	raw   string
	value int64
	pos   Position
}

var _ Value = (*IntLit)(nil)

func newIntLit(token Token) (*IntLit, error) {
	digits := token.Raw
	sign := ""
	if digits[0] == '-' || digits[0] == '+' {
		sign = digits[:1]
		digits = digits[1:]
	}
	base := 10
	if token.Kind == T_HEX_INT_LIT {
		base = 16
		digits = digits[2:]
	}
	value, err := strconv.ParseInt(sign+digits, base, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return nil, errIntLitOutOfRange(token.Pos, token.Raw)
		}
		return nil, errIntLitInvalid(token.Pos, []byte(token.Raw))
	}
	return &IntLit{
		raw:   token.Raw,
		value: value,
		pos:   token.Pos,
	}, nil
}

func (n *IntLit) Pos() Position {
	return n.pos
}

func (n *IntLit) Raw() string {
	return n.raw
}

func (n *IntLit) Get() int64 {
	return n.value
}

func (*IntLit) isValue() {}

type FloatLit struct {
	leafNode
	raw   string
	value float64
	pos   Position
}

var _ Value = (*FloatLit)(nil)

func newFloatLit(token Token) (*FloatLit, error) {
	value, err := strconv.ParseFloat(token.Raw, 64)
	if err != nil {
		return nil, errFloatLitInvalid(token.Pos, []byte(token.Raw))
	}
	return &FloatLit{
		raw:   token.Raw,
		value: value,
		pos:   token.Pos,
	}, nil
}

func (n *FloatLit) Pos() Position {
	return n.pos
}

func (n *FloatLit) Raw() string {
	return n.raw
}

func (n *FloatLit) Get() float64 {
	return n.value
}

func (*FloatLit) isValue() {}

type TextLit struct {
	leafNode
	raw   string
	value string
	pos   Position
}

var _ Value = (*TextLit)(nil)

func newTextLit(token Token) (*TextLit, error) {
	value := token.Raw[1 : len(token.Raw)-1]
	if !strings.ContainsRune(value, '\\') {
		return &TextLit{
			raw:   token.Raw,
			value: value,
			pos:   token.Pos,
		}, nil
	}

	var buf strings.Builder
	escaped := false
	for ii, c := range value {
		if !escaped {
			if c == '\\' {
				escaped = true
			} else {
				buf.WriteRune(c)
			}
			continue
		}
		escaped = false

		switch c {
		case '\\', '"':
			buf.WriteRune(c)
		case 'n':
			buf.WriteByte('\n')
		default:
			pos := token.Pos
			pos.Column += len([]rune(value[:ii]))
			return nil, errTextLitInvalidEscape(pos, `\`+string(c))
		}
	}
	return &TextLit{
		raw:   token.Raw,
		value: buf.String(),
		pos:   token.Pos,
	}, nil
}

func (n *TextLit) Pos() Position {
	return n.pos
}

func (n *TextLit) Raw() string {
	return n.raw
}

func (n *TextLit) Get() string {
	return n.value
}

func (*TextLit) isValue() {}

// RangeLit is an integer range `min..max` where either bound may be
// omitted.
type RangeLit struct {
	pos        Position
	childNodes []Node

	min *IntLit
	max *IntLit
}

var _ Value = (*RangeLit)(nil)

func (n *RangeLit) Pos() Position {
	return n.pos
}

func (n *RangeLit) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *RangeLit) privChildren() []Node {
	return n.childNodes
}

func (n *RangeLit) Min() *IntLit {
	return n.min
}

func (n *RangeLit) Max() *IntLit {
	return n.max
}

func (*RangeLit) isValue() {}

type Document struct {
	pos        Position
	childNodes []Node

	includes  []*Include
	namespace *Namespace
}

var _ Node = (*Document)(nil)

func (n *Document) Pos() Position {
	return n.pos
}

func (n *Document) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Document) privChildren() []Node {
	return n.childNodes
}

func (n *Document) Filename() string {
	return n.pos.Filename
}

func (n *Document) Includes() []*Include {
	return n.includes
}

// Namespace returns the file's top-level declarations as an unnamed
// namespace.
func (n *Document) Namespace() *Namespace {
	return n.namespace
}

type Include struct {
	pos        Position
	childNodes []Node

	path *TextLit
}

var _ Node = (*Include)(nil)

func (n *Include) Pos() Position {
	return n.pos
}

func (n *Include) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Include) privChildren() []Node {
	return n.childNodes
}

func (n *Include) Path() string {
	return n.path.Get()
}

type Namespace struct {
	pos        Position
	childNodes []Node

	name  *Ident
	decls []Decl
}

var _ Decl = (*Namespace)(nil)

func (n *Namespace) Pos() Position {
	return n.pos
}

func (n *Namespace) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Namespace) privChildren() []Node {
	return n.childNodes
}

// Name is nil for the top-level namespace of a document.
func (n *Namespace) Name() *Ident {
	return n.name
}

func (n *Namespace) Decls() []Decl {
	return n.decls
}

func (*Namespace) isDecl() {}

type Enum struct {
	pos        Position
	childNodes []Node

	name     *Ident
	generics []*Ident
	extends  *TypeRef
	variants []*EnumVariant
}

var _ Decl = (*Enum)(nil)

func (n *Enum) Pos() Position {
	return n.pos
}

func (n *Enum) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Enum) privChildren() []Node {
	return n.childNodes
}

func (n *Enum) Name() *Ident {
	return n.name
}

func (n *Enum) Generics() []*Ident {
	return n.generics
}

func (n *Enum) Extends() *TypeRef {
	return n.extends
}

func (n *Enum) Variants() []*EnumVariant {
	return n.variants
}

func (*Enum) isDecl() {}

type EnumVariant struct {
	pos        Position
	childNodes []Node

	name    *Ident
	payload Type
}

var _ Node = (*EnumVariant)(nil)

func (n *EnumVariant) Pos() Position {
	return n.pos
}

func (n *EnumVariant) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *EnumVariant) privChildren() []Node {
	return n.childNodes
}

func (n *EnumVariant) Name() *Ident {
	return n.name
}

// Payload is nil for a variant without a value type.
func (n *EnumVariant) Payload() Type {
	return n.payload
}

type Struct struct {
	pos        Position
	childNodes []Node

	name     *Ident
	generics []*Ident
	fields   []*StructField
}

var _ Decl = (*Struct)(nil)

func (n *Struct) Pos() Position {
	return n.pos
}

func (n *Struct) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Struct) privChildren() []Node {
	return n.childNodes
}

func (n *Struct) Name() *Ident {
	return n.name
}

func (n *Struct) Generics() []*Ident {
	return n.generics
}

func (n *Struct) Fields() []*StructField {
	return n.fields
}

func (*Struct) isDecl() {}

type StructField struct {
	pos        Position
	childNodes []Node

	name      *Ident
	optional  bool
	fieldType Type
	options   []*FieldOption
}

var _ Node = (*StructField)(nil)

func (n *StructField) Pos() Position {
	return n.pos
}

func (n *StructField) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *StructField) privChildren() []Node {
	return n.childNodes
}

func (n *StructField) Name() *Ident {
	return n.name
}

func (n *StructField) Optional() bool {
	return n.optional
}

func (n *StructField) Type() Type {
	return n.fieldType
}

func (n *StructField) Options() []*FieldOption {
	return n.options
}

type FieldOption struct {
	pos        Position
	childNodes []Node

	name  *Ident
	value Value
}

var _ Node = (*FieldOption)(nil)

func (n *FieldOption) Pos() Position {
	return n.pos
}

func (n *FieldOption) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *FieldOption) privChildren() []Node {
	return n.childNodes
}

func (n *FieldOption) Name() *Ident {
	return n.name
}

func (n *FieldOption) Value() Value {
	return n.value
}

type Fieldset struct {
	pos        Position
	childNodes []Node

	name      *Ident
	generics  []*Ident
	structRef *TypeRef
	fields    []*FieldsetField
}

var _ Decl = (*Fieldset)(nil)

func (n *Fieldset) Pos() Position {
	return n.pos
}

func (n *Fieldset) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Fieldset) privChildren() []Node {
	return n.childNodes
}

func (n *Fieldset) Name() *Ident {
	return n.name
}

func (n *Fieldset) Generics() []*Ident {
	return n.generics
}

func (n *Fieldset) Struct() *TypeRef {
	return n.structRef
}

func (n *Fieldset) Fields() []*FieldsetField {
	return n.fields
}

func (*Fieldset) isDecl() {}

type FieldsetField struct {
	pos        Position
	childNodes []Node

	name     *Ident
	optional bool
}

var _ Node = (*FieldsetField)(nil)

func (n *FieldsetField) Pos() Position {
	return n.pos
}

func (n *FieldsetField) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *FieldsetField) privChildren() []Node {
	return n.childNodes
}

func (n *FieldsetField) Name() *Ident {
	return n.name
}

func (n *FieldsetField) Optional() bool {
	return n.optional
}

type Service struct {
	pos        Position
	childNodes []Node

	name    *Ident
	methods []*Method
}

var _ Decl = (*Service)(nil)

func (n *Service) Pos() Position {
	return n.pos
}

func (n *Service) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Service) privChildren() []Node {
	return n.childNodes
}

func (n *Service) Name() *Ident {
	return n.name
}

func (n *Service) Methods() []*Method {
	return n.methods
}

func (*Service) isDecl() {}

type Method struct {
	pos        Position
	childNodes []Node

	name   *Ident
	input  Type
	output Type
}

var _ Node = (*Method)(nil)

func (n *Method) Pos() Position {
	return n.pos
}

func (n *Method) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *Method) privChildren() []Node {
	return n.childNodes
}

func (n *Method) Name() *Ident {
	return n.name
}

// Input is nil when the method takes no payload.
func (n *Method) Input() Type {
	return n.input
}

// Output is nil when the method returns no payload.
func (n *Method) Output() Type {
	return n.output
}

type TypeRef struct {
	pos        Position
	childNodes []Node

	absolute  bool
	namespace []*Ident
	name      *Ident
	generics  []Type
}

var _ Type = (*TypeRef)(nil)

func (n *TypeRef) Pos() Position {
	return n.pos
}

func (n *TypeRef) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *TypeRef) privChildren() []Node {
	return n.childNodes
}

// Absolute reports whether the reference was written with a leading `::`.
func (n *TypeRef) Absolute() bool {
	return n.absolute
}

func (n *TypeRef) Namespace() []*Ident {
	return n.namespace
}

func (n *TypeRef) Name() *Ident {
	return n.name
}

func (n *TypeRef) Generics() []Type {
	return n.generics
}

func (n *TypeRef) String() string {
	var buf strings.Builder
	if n.absolute {
		buf.WriteString("::")
	}
	for _, part := range n.namespace {
		buf.WriteString(part.Get())
		buf.WriteString("::")
	}
	buf.WriteString(n.name.Get())
	return buf.String()
}

func (*TypeRef) isType() {}

type ArrayType struct {
	pos        Position
	childNodes []Node

	item Type
}

var _ Type = (*ArrayType)(nil)

func (n *ArrayType) Pos() Position {
	return n.pos
}

func (n *ArrayType) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *ArrayType) privChildren() []Node {
	return n.childNodes
}

func (n *ArrayType) Item() Type {
	return n.item
}

func (*ArrayType) isType() {}

type MapType struct {
	pos        Position
	childNodes []Node

	key   Type
	value Type
}

var _ Type = (*MapType)(nil)

func (n *MapType) Pos() Position {
	return n.pos
}

func (n *MapType) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *MapType) privChildren() []Node {
	return n.childNodes
}

func (n *MapType) Key() Type {
	return n.key
}

func (n *MapType) Value() Type {
	return n.value
}

func (*MapType) isType() {}
