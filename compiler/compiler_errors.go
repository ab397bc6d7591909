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
	"fmt"

	"go.webwire-lang.org/webwire/schema"
	"go.webwire-lang.org/webwire/syntax"
)

type Error struct {
	code    uint32
	message string
	pos     syntax.Position
	prevPos syntax.Position
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

func (err *Error) Pos() syntax.Position {
	return err.pos
}

// PrevPos is the position of the earlier declaration that an error
// conflicts with. It is only valid for duplicate identifiers.
func (err *Error) PrevPos() syntax.Position {
	return err.prevPos
}

func errDuplicateIdentifier(name string, pos, prevPos syntax.Position) error {
	return &Error{
		code: 3000,
		message: fmt.Sprintf(
			"Duplicate identifier '%s' (previously declared at %s)",
			name, prevPos,
		),
		pos:     pos,
		prevPos: prevPos,
	}
}

func errNoSuchType(name string, pos syntax.Position) error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("No such type '%s'", name),
		pos:     pos,
	}
}

func errGenericsMismatch(name string, want, got int, pos syntax.Position) error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"Type '%s' expects %d generic argument(s), got %d",
			name, want, got,
		),
		pos: pos,
	}
}

func errFieldsetExtendsNonStruct(
	fieldset schema.FQTN,
	target string,
	pos syntax.Position,
) error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Fieldset '%s' projects '%s', which is not a struct",
			fieldset, target,
		),
		pos: pos,
	}
}

func errNoSuchField(
	fieldset schema.FQTN,
	structName schema.FQTN,
	field string,
	pos syntax.Position,
) error {
	return &Error{
		code: 3004,
		message: fmt.Sprintf(
			"Fieldset '%s' names field '%s', which struct '%s' does not have",
			fieldset, field, structName,
		),
		pos: pos,
	}
}

func errEnumExtendsNonEnum(
	enum schema.FQTN,
	extends string,
	pos syntax.Position,
) error {
	return &Error{
		code: 3005,
		message: fmt.Sprintf(
			"Enum '%s' extends '%s', which is not an enum",
			enum, extends,
		),
		pos: pos,
	}
}

func errEnumExtendsCycle(enum, parent schema.FQTN, pos syntax.Position) error {
	return &Error{
		code: 3006,
		message: fmt.Sprintf(
			"Enum '%s' is part of an extends cycle through '%s'",
			enum, parent,
		),
		pos: pos,
	}
}

func errInvalidFieldOption(field, option, reason string, pos syntax.Position) error {
	return &Error{
		code: 3007,
		message: fmt.Sprintf(
			"Invalid option '%s' on field '%s': %s",
			option, field, reason,
		),
		pos: pos,
	}
}
