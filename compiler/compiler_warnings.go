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

	"go.webwire-lang.org/webwire/syntax"
)

type Warning struct {
	code    uint32
	message string
	pos     syntax.Position
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Pos() syntax.Position {
	return w.pos
}

func warnDeclShadowsBuiltin(name string, pos syntax.Position) *Warning {
	return &Warning{
		code: 4000,
		message: fmt.Sprintf(
			"Declaration '%s' shadows builtin; unqualified references resolve to the builtin",
			name,
		),
		pos: pos,
	}
}

func warnUnusedGenericParam(decl, param string, pos syntax.Position) *Warning {
	return &Warning{
		code:    4001,
		message: fmt.Sprintf("Generic parameter '%s' of '%s' is unused", param, decl),
		pos:     pos,
	}
}
