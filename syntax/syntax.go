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

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOption func(*ParseOptions)

func (f parseOption) apply(opts *ParseOptions) { f(opts) }

// WithFilename sets the filename recorded in every Position of the parse
// result, including positions of parse errors.
func WithFilename(filename string) ParseOption {
	return parseOption(func(opts *ParseOptions) {
		opts.filename = filename
	})
}

func Parse(src []byte, opts ...ParseOption) (*Document, error) {
	return NewParseOptions(opts...).ParseDocument(src)
}

type ParseOptions struct {
	filename string
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOptions := &ParseOptions{}
	for _, opt := range opts {
		opt.apply(parseOptions)
	}
	return parseOptions
}

func (opts *ParseOptions) ParseDocument(src []byte) (*Document, error) {
	ctx, err := newParseCtx[Document](opts, src)
	if err != nil {
		return nil, err
	}
	return parseDocument(ctx)
}

func (opts *ParseOptions) ParseNamespace(src []byte) (*Namespace, error) {
	return parseOnly(opts, src, parseNamespace)
}

func (opts *ParseOptions) ParseEnum(src []byte) (*Enum, error) {
	return parseOnly(opts, src, parseEnum)
}

func (opts *ParseOptions) ParseStruct(src []byte) (*Struct, error) {
	return parseOnly(opts, src, parseStruct)
}

func (opts *ParseOptions) ParseFieldset(src []byte) (*Fieldset, error) {
	return parseOnly(opts, src, parseFieldset)
}

func (opts *ParseOptions) ParseService(src []byte) (*Service, error) {
	return parseOnly(opts, src, parseService)
}

func (opts *ParseOptions) ParseType(src []byte) (Type, error) {
	ctx, err := newParseCtx[Document](opts, src)
	if err != nil {
		return nil, err
	}
	node := parseType(ctx)
	if err := ctx.eof(); err != nil {
		return nil, err
	}
	return node, nil
}

func (opts *ParseOptions) ParseValue(src []byte) (Value, error) {
	ctx, err := newParseCtx[Document](opts, src)
	if err != nil {
		return nil, err
	}
	node := parseValue(ctx)
	if err := ctx.eof(); err != nil {
		return nil, err
	}
	return node, nil
}

func (opts *ParseOptions) ParseIdent(src []byte) (*Ident, error) {
	ctx, err := newParseCtx[Document](opts, src)
	if err != nil {
		return nil, err
	}
	node := ctx.ident()
	if err := ctx.eof(); err != nil {
		return nil, err
	}
	return node, nil
}

func parseOnly[T any, PtrT interface {
	*T
	Node
}](
	opts *ParseOptions,
	src []byte,
	parseFn func(*parseCtx[T]) (PtrT, error),
) (PtrT, error) {
	ctx, err := newParseCtx[T](opts, src)
	if err != nil {
		return nil, err
	}
	node, err := parseFn(ctx)
	if err != nil {
		return nil, err
	}
	if node == nil {
		if err := ctx.ensureToken(); err != nil {
			return nil, err
		}
		return nil, errExpectedDeclaration(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
	}
	if err := ctx.eof(); err != nil {
		return nil, err
	}
	return node, nil
}

type parseCtx[T any] struct {
	opts       *ParseOptions
	tokens     *Tokens
	childNodes []Node
	haveToken  bool
	token      Token
	err        error
	consumed   uint32
	pos        Position
}

func newParseCtx[T any](opts *ParseOptions, src []byte) (*parseCtx[T], error) {
	tokens, err := newTokens(src, opts.filename)
	if err != nil {
		return nil, err
	}
	return &parseCtx[T]{
		opts:   opts,
		tokens: tokens,
		pos:    tokens.pos,
	}, nil
}

// ensureToken loads the next significant token. Whitespace and comments are
// skipped.
func (ctx *parseCtx[T]) ensureToken() error {
	if ctx.err != nil {
		return ctx.err
	}
	if ctx.haveToken {
		return nil
	}
	for {
		if err := ctx.tokens.Next(&ctx.token); err != nil {
			ctx.err = err
			return ctx.err
		}
		if ctx.token.Kind != T_SPACE && ctx.token.Kind != T_COMMENT {
			break
		}
	}
	ctx.haveToken = true
	return nil
}

func (ctx *parseCtx[T]) peekToken() (Token, error) {
	var token Token
	if err := ctx.ensureToken(); err != nil {
		return token, err
	}
	if err := ctx.tokens.Peek(&token); err != nil {
		ctx.err = err
		return token, err
	}
	return token, nil
}

func (ctx *parseCtx[T]) consumeToken(child Node) {
	if ctx.consumed == 0 {
		ctx.pos = ctx.token.Pos
	}
	ctx.consumed += 1
	ctx.haveToken = false
	if child != nil {
		ctx.childNodes = append(ctx.childNodes, child)
	}
}

func (ctx *parseCtx[T]) loop(yield func(struct{}) bool) {
	if ctx.err != nil {
		return
	}
	for {
		consumed := ctx.consumed
		if !yield(struct{}{}) {
			return
		}
		if ctx.err != nil {
			return
		}
		if consumed == ctx.consumed {
			return
		}
	}
}

func (ctx *parseCtx[T]) sigil(kind TokenKind) {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.token.Kind != kind {
		ctx.err = errExpectedSigil(kind, ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
		return
	}
	ctx.consumeToken(nil)
}

func (ctx *parseCtx[T]) trySigil(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != kind {
		return false
	}
	ctx.consumeToken(nil)
	return true
}

func (ctx *parseCtx[T]) isKeyword(keyword string) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	return ctx.token.Kind == T_IDENT && ctx.token.Raw == keyword
}

func (ctx *parseCtx[T]) tryKeyword(keyword string) bool {
	if !ctx.isKeyword(keyword) {
		return false
	}
	ctx.consumeToken(nil)
	return true
}

func (ctx *parseCtx[T]) keyword(keyword string) {
	if ctx.tryKeyword(keyword) || ctx.err != nil {
		return
	}
	ctx.err = errExpectedKeyword(keyword, ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
}

func (ctx *parseCtx[T]) ident() *Ident {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	if ctx.token.Kind != T_IDENT {
		ctx.err = errExpectedIdent(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
		return nil
	}
	ident := &Ident{
		raw: ctx.token.Raw,
		pos: ctx.token.Pos,
	}
	ctx.consumeToken(ident)
	return ident
}

func (ctx *parseCtx[T]) int() *IntLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	switch ctx.token.Kind {
	case T_INT_LIT, T_HEX_INT_LIT:
	default:
		ctx.err = errExpectedIntLit(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
		return nil
	}
	intNode, err := newIntLit(ctx.token)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(intNode)
	return intNode
}

func (ctx *parseCtx[T]) float() *FloatLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	floatNode, err := newFloatLit(ctx.token)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(floatNode)
	return floatNode
}

func (ctx *parseCtx[T]) text() *TextLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	if ctx.token.Kind != T_TEXT_LIT {
		ctx.err = errExpectedTextLit(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
		return nil
	}
	textNode, err := newTextLit(ctx.token)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(textNode)
	return textNode
}

func (ctx *parseCtx[T]) eof() error {
	if err := ctx.ensureToken(); err != nil {
		return err
	}
	if ctx.token.Kind != T_EOF {
		return errTrailingGarbage(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
	}
	return nil
}

func (ctx *parseCtx[T]) finish(
	build func(pos Position, childNodes []Node) *T,
) (*T, error) {
	if ctx.err != nil {
		return nil, ctx.err
	}
	return build(ctx.pos, ctx.childNodes), nil
}

func parseChild[P any, C any, PtrC interface {
	*C
	Node
}](
	ctx *parseCtx[P],
	parseChildFn func(*parseCtx[C]) (PtrC, error),
) (*C, bool) {
	if ctx.err != nil {
		return nil, false
	}
	childCtx := &parseCtx[C]{
		opts:      ctx.opts,
		tokens:    ctx.tokens,
		haveToken: ctx.haveToken,
		token:     ctx.token,
	}
	child, err := parseChildFn(childCtx)
	if err != nil {
		ctx.err = err
		return nil, false
	}

	ctx.haveToken = childCtx.haveToken
	ctx.token = childCtx.token

	if childCtx.consumed == 0 {
		return nil, false
	}
	if ctx.consumed == 0 {
		ctx.pos = childCtx.pos
	}
	ctx.consumed += childCtx.consumed
	ctx.childNodes = append(ctx.childNodes, PtrC(child))
	return child, true
}

func parseDocument(ctx *parseCtx[Document]) (*Document, error) {
	var includes []*Include
	var decls []Decl
	for _ = range ctx.loop {
		if err := ctx.ensureToken(); err != nil {
			return nil, err
		}
		if ctx.token.Kind == T_EOF {
			break
		}
		if include, ok := parseChild(ctx, parseInclude); ok {
			includes = append(includes, include)
			continue
		}
		decl, ok := parseDecl(ctx)
		if ctx.err != nil {
			return nil, ctx.err
		}
		if !ok {
			return nil, errTrailingGarbage(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
		}
		decls = append(decls, decl)
	}

	start := Position{
		Filename: ctx.opts.filename,
		Line:     1,
		Column:   1,
	}
	return ctx.finish(func(_ Position, childNodes []Node) *Document {
		var nsChildNodes []Node
		for _, decl := range decls {
			nsChildNodes = append(nsChildNodes, decl)
		}
		namespace := &Namespace{
			pos:        start,
			childNodes: nsChildNodes,
			decls:      decls,
		}
		var docChildNodes []Node
		for _, include := range includes {
			docChildNodes = append(docChildNodes, include)
		}
		docChildNodes = append(docChildNodes, namespace)
		return &Document{
			pos:        start,
			childNodes: docChildNodes,
			includes:   includes,
			namespace:  namespace,
		}
	})
}

func parseInclude(ctx *parseCtx[Include]) (*Include, error) {
	if !ctx.tryKeyword("include") {
		return nil, nil
	}
	path := ctx.text()
	ctx.sigil(T_SEMICOLON)

	return ctx.finish(func(pos Position, childNodes []Node) *Include {
		return &Include{
			pos:        pos,
			childNodes: childNodes,
			path:       path,
		}
	})
}

// parseDecl parses one namespace member. It returns false without consuming
// input if the next token does not start a declaration.
func parseDecl[T any](ctx *parseCtx[T]) (Decl, bool) {
	if decl, ok := parseChild(ctx, parseNamespace); ok {
		return decl, true
	}
	if decl, ok := parseChild(ctx, parseEnum); ok {
		return decl, true
	}
	if decl, ok := parseChild(ctx, parseStruct); ok {
		return decl, true
	}
	if decl, ok := parseChild(ctx, parseFieldset); ok {
		return decl, true
	}
	if decl, ok := parseChild(ctx, parseService); ok {
		return decl, true
	}
	return nil, false
}

func parseNamespace(ctx *parseCtx[Namespace]) (*Namespace, error) {
	if !ctx.tryKeyword("namespace") {
		return nil, nil
	}
	name := ctx.ident()

	var decls []Decl
	ctx.sigil(T_OPEN_CURL)
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		decl, ok := parseDecl(ctx)
		if ctx.err != nil {
			return nil, ctx.err
		}
		if !ok {
			if ctx.isKeyword("include") {
				return nil, errIncludeNotAtTopLevel(ctx.token.Pos)
			}
			return nil, errExpectedDeclaration(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
		}
		decls = append(decls, decl)
	}

	return ctx.finish(func(pos Position, childNodes []Node) *Namespace {
		return &Namespace{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			decls:      decls,
		}
	})
}

// parseGenerics parses an optional generic parameter list `<T, U>`.
func parseGenerics[T any](ctx *parseCtx[T]) []*Ident {
	if !ctx.trySigil(T_OPEN_ANGLE) {
		return nil
	}
	generics := []*Ident{}
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_ANGLE) {
			break
		}
		generics = append(generics, ctx.ident())
		if !ctx.trySigil(T_COMMA) {
			ctx.sigil(T_CLOSE_ANGLE)
			break
		}
	}
	return generics
}

func parseEnum(ctx *parseCtx[Enum]) (*Enum, error) {
	if !ctx.tryKeyword("enum") {
		return nil, nil
	}
	name := ctx.ident()
	generics := parseGenerics(ctx)

	var extends *TypeRef
	if ctx.tryKeyword("extends") {
		extends, _ = parseChild(ctx, parseTypeRef)
	}

	var variants []*EnumVariant
	ctx.sigil(T_OPEN_CURL)
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		variant, _ := parseChild(ctx, parseEnumVariant)
		variants = append(variants, variant)
		if !ctx.trySigil(T_COMMA) {
			ctx.sigil(T_CLOSE_CURL)
			break
		}
	}

	return ctx.finish(func(pos Position, childNodes []Node) *Enum {
		return &Enum{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			generics:   generics,
			extends:    extends,
			variants:   variants,
		}
	})
}

func parseEnumVariant(ctx *parseCtx[EnumVariant]) (*EnumVariant, error) {
	name := ctx.ident()
	var payload Type
	if ctx.trySigil(T_OPEN_PAREN) {
		payload = parseType(ctx)
		ctx.sigil(T_CLOSE_PAREN)
	}

	return ctx.finish(func(pos Position, childNodes []Node) *EnumVariant {
		return &EnumVariant{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			payload:    payload,
		}
	})
}

func parseStruct(ctx *parseCtx[Struct]) (*Struct, error) {
	if !ctx.tryKeyword("struct") {
		return nil, nil
	}
	name := ctx.ident()
	generics := parseGenerics(ctx)

	var fields []*StructField
	ctx.sigil(T_OPEN_CURL)
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		field, _ := parseChild(ctx, parseStructField)
		fields = append(fields, field)
		if !ctx.trySigil(T_COMMA) {
			ctx.sigil(T_CLOSE_CURL)
			break
		}
	}

	return ctx.finish(func(pos Position, childNodes []Node) *Struct {
		return &Struct{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			generics:   generics,
			fields:     fields,
		}
	})
}

func parseStructField(ctx *parseCtx[StructField]) (*StructField, error) {
	name := ctx.ident()
	optional := ctx.trySigil(T_QUESTION)
	ctx.sigil(T_COLON)
	fieldType := parseType(ctx)

	var options []*FieldOption
	if ctx.trySigil(T_OPEN_PAREN) {
		for _ = range ctx.loop {
			if ctx.trySigil(T_CLOSE_PAREN) {
				break
			}
			option, _ := parseChild(ctx, parseFieldOption)
			options = append(options, option)
			if !ctx.trySigil(T_COMMA) {
				ctx.sigil(T_CLOSE_PAREN)
				break
			}
		}
	}

	return ctx.finish(func(pos Position, childNodes []Node) *StructField {
		return &StructField{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			optional:   optional,
			fieldType:  fieldType,
			options:    options,
		}
	})
}

func parseFieldOption(ctx *parseCtx[FieldOption]) (*FieldOption, error) {
	name := ctx.ident()
	ctx.sigil(T_EQ)
	value := parseValue(ctx)

	return ctx.finish(func(pos Position, childNodes []Node) *FieldOption {
		return &FieldOption{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			value:      value,
		}
	})
}

func parseFieldset(ctx *parseCtx[Fieldset]) (*Fieldset, error) {
	if !ctx.tryKeyword("fieldset") {
		return nil, nil
	}
	name := ctx.ident()
	generics := parseGenerics(ctx)
	ctx.keyword("for")
	structRef, _ := parseChild(ctx, parseTypeRef)

	var fields []*FieldsetField
	ctx.sigil(T_OPEN_CURL)
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		field, _ := parseChild(ctx, parseFieldsetField)
		fields = append(fields, field)
		if !ctx.trySigil(T_COMMA) {
			ctx.sigil(T_CLOSE_CURL)
			break
		}
	}

	return ctx.finish(func(pos Position, childNodes []Node) *Fieldset {
		return &Fieldset{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			generics:   generics,
			structRef:  structRef,
			fields:     fields,
		}
	})
}

func parseFieldsetField(ctx *parseCtx[FieldsetField]) (*FieldsetField, error) {
	name := ctx.ident()
	optional := ctx.trySigil(T_QUESTION)

	return ctx.finish(func(pos Position, childNodes []Node) *FieldsetField {
		return &FieldsetField{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			optional:   optional,
		}
	})
}

func parseService(ctx *parseCtx[Service]) (*Service, error) {
	if !ctx.tryKeyword("service") {
		return nil, nil
	}
	name := ctx.ident()

	var methods []*Method
	ctx.sigil(T_OPEN_CURL)
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		method, _ := parseChild(ctx, parseMethod)
		methods = append(methods, method)
		if !ctx.trySigil(T_COMMA) {
			ctx.sigil(T_CLOSE_CURL)
			break
		}
	}

	return ctx.finish(func(pos Position, childNodes []Node) *Service {
		return &Service{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			methods:    methods,
		}
	})
}

func parseMethod(ctx *parseCtx[Method]) (*Method, error) {
	name := ctx.ident()
	var input, output Type
	if ctx.trySigil(T_COLON) {
		input = parseOptType(ctx)
	}
	if ctx.trySigil(T_ARROW) {
		output = parseOptType(ctx)
	}

	return ctx.finish(func(pos Position, childNodes []Node) *Method {
		return &Method{
			pos:        pos,
			childNodes: childNodes,
			name:       name,
			input:      input,
			output:     output,
		}
	})
}

// parseOptType parses a method payload type, where `None` means no payload.
func parseOptType[T any](ctx *parseCtx[T]) Type {
	if ctx.tryKeyword("None") {
		return nil
	}
	return parseType(ctx)
}

func parseType[T any](ctx *parseCtx[T]) Type {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	switch ctx.token.Kind {
	case T_OPEN_SQUARE:
		if child, ok := parseChild(ctx, parseArrayType); ok {
			return child
		}
	case T_OPEN_CURL:
		if child, ok := parseChild(ctx, parseMapType); ok {
			return child
		}
	case T_DOUBLE_COLON, T_IDENT:
		if child, ok := parseChild(ctx, parseTypeRef); ok {
			return child
		}
	default:
		ctx.err = errExpectedType(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
	}
	return nil
}

func parseTypeRef(ctx *parseCtx[TypeRef]) (*TypeRef, error) {
	absolute := ctx.trySigil(T_DOUBLE_COLON)
	var namespace []*Ident
	name := ctx.ident()
	for _ = range ctx.loop {
		if !ctx.trySigil(T_DOUBLE_COLON) {
			break
		}
		namespace = append(namespace, name)
		name = ctx.ident()
	}

	var generics []Type
	if ctx.trySigil(T_OPEN_ANGLE) {
		for _ = range ctx.loop {
			if ctx.trySigil(T_CLOSE_ANGLE) {
				break
			}
			generics = append(generics, parseType(ctx))
			if !ctx.trySigil(T_COMMA) {
				ctx.sigil(T_CLOSE_ANGLE)
				break
			}
		}
	}

	return ctx.finish(func(pos Position, childNodes []Node) *TypeRef {
		return &TypeRef{
			pos:        pos,
			childNodes: childNodes,
			absolute:   absolute,
			namespace:  namespace,
			name:       name,
			generics:   generics,
		}
	})
}

func parseArrayType(ctx *parseCtx[ArrayType]) (*ArrayType, error) {
	ctx.sigil(T_OPEN_SQUARE)
	item := parseType(ctx)
	ctx.sigil(T_CLOSE_SQUARE)

	return ctx.finish(func(pos Position, childNodes []Node) *ArrayType {
		return &ArrayType{
			pos:        pos,
			childNodes: childNodes,
			item:       item,
		}
	})
}

func parseMapType(ctx *parseCtx[MapType]) (*MapType, error) {
	ctx.sigil(T_OPEN_CURL)
	key := parseType(ctx)
	ctx.sigil(T_COLON)
	value := parseType(ctx)
	ctx.sigil(T_CLOSE_CURL)

	return ctx.finish(func(pos Position, childNodes []Node) *MapType {
		return &MapType{
			pos:        pos,
			childNodes: childNodes,
			key:        key,
			value:      value,
		}
	})
}

// parseValue parses a field option value. When the input is ambiguous the
// forms are tried in order: boolean, range, float, integer, string,
// identifier.
func parseValue[T any](ctx *parseCtx[T]) Value {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	switch ctx.token.Kind {
	case T_IDENT:
		switch ctx.token.Raw {
		case "true", "false":
			node := &BoolLit{
				value: ctx.token.Raw == "true",
				pos:   ctx.token.Pos,
			}
			ctx.consumeToken(node)
			return node
		}
		return ctx.ident()
	case T_RANGE:
		if child, ok := parseChild(ctx, parseRangeLit); ok {
			return child
		}
	case T_INT_LIT, T_HEX_INT_LIT:
		next, err := ctx.peekToken()
		if err != nil {
			return nil
		}
		if next.Kind == T_RANGE {
			if child, ok := parseChild(ctx, parseRangeLit); ok {
				return child
			}
			return nil
		}
		if child := ctx.int(); child != nil {
			return child
		}
	case T_FLOAT_LIT:
		if child := ctx.float(); child != nil {
			return child
		}
	case T_TEXT_LIT:
		if child := ctx.text(); child != nil {
			return child
		}
	default:
		ctx.err = errExpectedValue(ctx.token.Kind, ctx.token.Raw, ctx.token.Pos)
	}
	return nil
}

func parseRangeLit(ctx *parseCtx[RangeLit]) (*RangeLit, error) {
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	var min, max *IntLit
	if ctx.token.Kind != T_RANGE {
		min = ctx.int()
	}
	ctx.sigil(T_RANGE)
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	if ctx.token.Kind == T_INT_LIT || ctx.token.Kind == T_HEX_INT_LIT {
		max = ctx.int()
	}

	return ctx.finish(func(pos Position, childNodes []Node) *RangeLit {
		return &RangeLit{
			pos:        pos,
			childNodes: childNodes,
			min:        min,
			max:        max,
		}
	})
}
