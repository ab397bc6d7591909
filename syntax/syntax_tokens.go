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
	"unicode/utf8"
)

type Token struct {
	Kind TokenKind
	Pos  Position
	Raw  string
}

func (t *Token) Len() int {
	return len(t.Raw)
}

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE
	T_COMMENT

	T_COLON
	T_DOUBLE_COLON
	T_COMMA
	T_SEMICOLON
	T_QUESTION
	T_EQ
	T_ARROW
	T_RANGE

	T_OPEN_CURL
	T_CLOSE_CURL
	T_OPEN_PAREN
	T_CLOSE_PAREN
	T_OPEN_SQUARE
	T_CLOSE_SQUARE
	T_OPEN_ANGLE
	T_CLOSE_ANGLE

	T_INT_LIT
	T_HEX_INT_LIT
	T_FLOAT_LIT
	T_TEXT_LIT

	T_IDENT
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_SPACE:
		return "SPACE"
	case T_COMMENT:
		return "COMMENT"
	case T_COLON:
		return "COLON"
	case T_DOUBLE_COLON:
		return "DOUBLE_COLON"
	case T_COMMA:
		return "COMMA"
	case T_SEMICOLON:
		return "SEMICOLON"
	case T_QUESTION:
		return "QUESTION"
	case T_EQ:
		return "EQ"
	case T_ARROW:
		return "ARROW"
	case T_RANGE:
		return "RANGE"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_OPEN_PAREN:
		return "OPEN_PAREN"
	case T_CLOSE_PAREN:
		return "CLOSE_PAREN"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_OPEN_ANGLE:
		return "OPEN_ANGLE"
	case T_CLOSE_ANGLE:
		return "CLOSE_ANGLE"
	case T_INT_LIT:
		return "INT_LIT"
	case T_HEX_INT_LIT:
		return "HEX_INT_LIT"
	case T_FLOAT_LIT:
		return "FLOAT_LIT"
	case T_TEXT_LIT:
		return "TEXT_LIT"
	case T_IDENT:
		return "IDENT"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// Tokens splits source text into tokens, tracking the line and column of
// each token as it advances.
type Tokens struct {
	src []byte
	pos Position
}

func NewTokens(src []byte) (*Tokens, error) {
	return newTokens(src, "")
}

func newTokens(src []byte, filename string) (*Tokens, error) {
	start := Position{
		Filename: filename,
		Line:     1,
		Column:   1,
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(start, src)
	}
	return &Tokens{
		src: src,
		pos: start,
	}, nil
}

// Peek returns the next token that is not whitespace or a comment, without
// advancing.
func (t *Tokens) Peek(token *Token) error {
	lookahead := *t
	for {
		if err := lookahead.Next(token); err != nil {
			return err
		}
		if token.Kind != T_SPACE && token.Kind != T_COMMENT {
			return nil
		}
	}
}

func (t *Tokens) Next(token *Token) error {
	if len(t.src) == 0 {
		*token = Token{
			Kind: T_EOF,
			Pos:  t.pos,
		}
		return nil
	}

	c := t.src[0]
	var next byte
	if len(t.src) > 1 {
		next = t.src[1]
	}

	switch c {
	case ' ', '\t', '\r', '\n':
		return t.nextSpace(token)
	case '#':
		return t.nextComment(token)
	case '"':
		return t.nextTextLit(token)
	case ':':
		if next == ':' {
			return t.emit(token, T_DOUBLE_COLON, 2)
		}
		return t.emit(token, T_COLON, 1)
	case ',':
		return t.emit(token, T_COMMA, 1)
	case ';':
		return t.emit(token, T_SEMICOLON, 1)
	case '?':
		return t.emit(token, T_QUESTION, 1)
	case '=':
		return t.emit(token, T_EQ, 1)
	case '{':
		return t.emit(token, T_OPEN_CURL, 1)
	case '}':
		return t.emit(token, T_CLOSE_CURL, 1)
	case '(':
		return t.emit(token, T_OPEN_PAREN, 1)
	case ')':
		return t.emit(token, T_CLOSE_PAREN, 1)
	case '[':
		return t.emit(token, T_OPEN_SQUARE, 1)
	case ']':
		return t.emit(token, T_CLOSE_SQUARE, 1)
	case '<':
		return t.emit(token, T_OPEN_ANGLE, 1)
	case '>':
		return t.emit(token, T_CLOSE_ANGLE, 1)
	case '.':
		if next == '.' {
			return t.emit(token, T_RANGE, 2)
		}
		return errUnexpectedCharacter(t.pos, '.')
	case '-':
		if next == '>' {
			return t.emit(token, T_ARROW, 2)
		}
		if isDigit(next) {
			return t.nextNumLit(token)
		}
		return errUnexpectedCharacter(t.pos, '-')
	case '+':
		if isDigit(next) {
			return t.nextNumLit(token)
		}
		return errUnexpectedCharacter(t.pos, '+')
	case '_':
		return errIdentInvalid(t.pos, t.src[:identLen(t.src)])
	}

	if isDigit(c) {
		return t.nextNumLit(token)
	}
	if isAlpha(c) {
		return t.emit(token, T_IDENT, identLen(t.src))
	}

	r, _ := utf8.DecodeRune(t.src)
	if r < 0x20 || r == 0x7F {
		return errForbiddenControlCharacter(t.pos, c)
	}
	return errUnexpectedCharacter(t.pos, r)
}

func (t *Tokens) emit(token *Token, kind TokenKind, tokenLen int) error {
	*token = Token{
		Kind: kind,
		Pos:  t.pos,
		Raw:  string(t.src[:tokenLen]),
	}
	t.pos = t.posAt(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

// posAt returns the position of the byte at offset n from the cursor.
func (t *Tokens) posAt(n int) Position {
	pos := t.pos
	for _, c := range t.src[:n] {
		if c == '\n' {
			pos.Line += 1
			pos.Column = 1
		} else if c&0xC0 != 0x80 {
			pos.Column += 1
		}
	}
	return pos
}

func (t *Tokens) nextSpace(token *Token) error {
	tokenLen := len(t.src)
	for ii, c := range t.src {
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			tokenLen = ii
			break
		}
	}
	return t.emit(token, T_SPACE, tokenLen)
}

func (t *Tokens) nextComment(token *Token) error {
	tokenLen := len(t.src)
	for ii, c := range t.src {
		if c == '\n' || c == '\r' {
			tokenLen = ii
			break
		}
	}
	return t.emit(token, T_COMMENT, tokenLen)
}

func (t *Tokens) nextNumLit(token *Token) error {
	numSrc := t.src
	tokenLen := 0
	if numSrc[0] == '-' || numSrc[0] == '+' {
		tokenLen += 1
		numSrc = numSrc[1:]
	}

	kind := T_INT_LIT
	if len(numSrc) > 1 && numSrc[0] == '0' && (numSrc[1] == 'x' || numSrc[1] == 'X') {
		kind = T_HEX_INT_LIT
		tokenLen += 2
		numSrc = numSrc[2:]
	}

	digits := 0
	for _, c := range numSrc {
		if isDigit(c) || (kind == T_HEX_INT_LIT && isHexDigit(c)) {
			digits += 1
			continue
		}
		break
	}
	tokenLen += digits
	numSrc = numSrc[digits:]

	// A fractional part needs digits on both sides; "1..2" is a range.
	if kind == T_INT_LIT && len(numSrc) > 1 && numSrc[0] == '.' && isDigit(numSrc[1]) {
		kind = T_FLOAT_LIT
		fracLen := 1
		for _, c := range numSrc[1:] {
			if !isDigit(c) {
				break
			}
			fracLen += 1
		}
		tokenLen += fracLen
		numSrc = numSrc[fracLen:]
	}

	if digits == 0 {
		return errIntLitInvalid(t.pos, t.src[:tokenLen])
	}
	if len(numSrc) > 0 && (isAlpha(numSrc[0]) || isDigit(numSrc[0]) || numSrc[0] == '_') {
		badLen := tokenLen + identLen(numSrc)
		if kind == T_FLOAT_LIT {
			return errFloatLitInvalid(t.pos, t.src[:badLen])
		}
		return errIntLitInvalid(t.pos, t.src[:badLen])
	}
	return t.emit(token, kind, tokenLen)
}

func (t *Tokens) nextTextLit(token *Token) error {
	escaped := false
	for ii, c := range t.src {
		if ii == 0 {
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		if c == '"' {
			return t.emit(token, T_TEXT_LIT, ii+1)
		}
		if c == '\n' || c == '\r' {
			return errTextLitContainsNewline(t.posAt(ii))
		}
		if (c < 0x20 && c != '\t') || c == 0x7F {
			return errForbiddenControlCharacter(t.posAt(ii), c)
		}
		escaped = c == '\\'
	}
	return errTextLitUnterminated(t.pos)
}

func identLen(src []byte) int {
	for ii, c := range src {
		if !isAlpha(c) && !isDigit(c) && c != '_' {
			return ii
		}
	}
	return len(src)
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}
