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

type Error struct {
	code    uint32
	message string
	pos     Position
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Pos() Position {
	return err.pos
}

func errInvalidUtf8(start Position, src []byte) error {
	pos := start
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if r == '\n' {
			pos.Line += 1
			pos.Column = 1
		} else {
			pos.Column += 1
		}
		src = src[size:]
	}
	return &Error{
		code:    1000,
		message: "Source file contains invalid UTF-8",
		pos:     pos,
	}
}

func errUnexpectedCharacter(pos Position, r rune) error {
	return &Error{
		code:    1001,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		pos:     pos,
	}
}

func errForbiddenControlCharacter(pos Position, c byte) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		pos:     pos,
	}
}

func errIntLitInvalid(pos Position, token []byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Invalid integer literal %q", token),
		pos:     pos,
	}
}

func errIntLitOutOfRange(pos Position, token string) error {
	return &Error{
		code:    1004,
		message: fmt.Sprintf("Integer literal %s is out of range for a 64-bit signed integer", token),
		pos:     pos,
	}
}

func errFloatLitInvalid(pos Position, token []byte) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid float literal %q", token),
		pos:     pos,
	}
}

func errTextLitUnterminated(pos Position) error {
	return &Error{
		code:    1006,
		message: "Unterminated string literal",
		pos:     pos,
	}
}

func errTextLitContainsNewline(pos Position) error {
	return &Error{
		code:    1007,
		message: "String literal contains unescaped newline",
		pos:     pos,
	}
}

func errTextLitInvalidEscape(pos Position, escape string) error {
	return &Error{
		code:    1008,
		message: fmt.Sprintf("Invalid escape sequence %q in string literal", escape),
		pos:     pos,
	}
}

func errIdentInvalid(pos Position, token []byte) error {
	return &Error{
		code:    1009,
		message: fmt.Sprintf("Invalid identifier %q", token),
		pos:     pos,
	}
}

func errExpectedSigil(
	wantKind TokenKind,
	gotKind TokenKind,
	gotToken string,
	pos Position,
) error {
	var code uint32
	var want string
	switch wantKind {
	case T_COLON:
		code = 2000
		want = ":"
	case T_DOUBLE_COLON:
		code = 2001
		want = "::"
	case T_COMMA:
		code = 2002
		want = ","
	case T_SEMICOLON:
		code = 2003
		want = ";"
	case T_QUESTION:
		code = 2004
		want = "?"
	case T_EQ:
		code = 2005
		want = "="
	case T_ARROW:
		code = 2006
		want = "->"
	case T_RANGE:
		code = 2007
		want = ".."
	case T_OPEN_CURL:
		code = 2008
		want = "{"
	case T_CLOSE_CURL:
		code = 2009
		want = "}"
	case T_OPEN_PAREN:
		code = 2010
		want = "("
	case T_CLOSE_PAREN:
		code = 2011
		want = ")"
	case T_OPEN_SQUARE:
		code = 2012
		want = "["
	case T_CLOSE_SQUARE:
		code = 2013
		want = "]"
	case T_OPEN_ANGLE:
		code = 2014
		want = "<"
	case T_CLOSE_ANGLE:
		code = 2015
		want = ">"
	default:
		panic("unreachable")
	}
	return &Error{
		code:    code,
		message: fmt.Sprintf("Expected sigil '%s', got (%s %q)", want, gotKind, gotToken),
		pos:     pos,
	}
}

func errExpectedIdent(gotKind TokenKind, gotToken string, pos Position) error {
	return &Error{
		code:    2020,
		message: fmt.Sprintf("Expected identifier, got (%s %q)", gotKind, gotToken),
		pos:     pos,
	}
}

func errExpectedKeyword(
	keyword string,
	gotKind TokenKind,
	gotToken string,
	pos Position,
) error {
	return &Error{
		code: 2021,
		message: fmt.Sprintf(
			"Expected keyword '%s', got (%s %q)",
			keyword, gotKind, gotToken,
		),
		pos: pos,
	}
}

func errExpectedType(gotKind TokenKind, gotToken string, pos Position) error {
	return &Error{
		code:    2022,
		message: fmt.Sprintf("Expected type, got (%s %q)", gotKind, gotToken),
		pos:     pos,
	}
}

func errExpectedValue(gotKind TokenKind, gotToken string, pos Position) error {
	return &Error{
		code:    2023,
		message: fmt.Sprintf("Expected value, got (%s %q)", gotKind, gotToken),
		pos:     pos,
	}
}

func errExpectedDeclaration(gotKind TokenKind, gotToken string, pos Position) error {
	return &Error{
		code: 2024,
		message: fmt.Sprintf(
			"Expected declaration, got (%s %q)",
			gotKind, gotToken,
		),
		pos: pos,
	}
}

func errIncludeNotAtTopLevel(pos Position) error {
	return &Error{
		code:    2025,
		message: "Include is only allowed at the top level of a file",
		pos:     pos,
	}
}

func errTrailingGarbage(gotKind TokenKind, gotToken string, pos Position) error {
	return &Error{
		code:    2026,
		message: fmt.Sprintf("Trailing garbage (%s %q)", gotKind, gotToken),
		pos:     pos,
	}
}

func errExpectedTextLit(gotKind TokenKind, gotToken string, pos Position) error {
	return &Error{
		code:    2027,
		message: fmt.Sprintf("Expected string literal, got (%s %q)", gotKind, gotToken),
		pos:     pos,
	}
}

func errExpectedIntLit(gotKind TokenKind, gotToken string, pos Position) error {
	return &Error{
		code:    2028,
		message: fmt.Sprintf("Expected integer literal, got (%s %q)", gotKind, gotToken),
		pos:     pos,
	}
}
