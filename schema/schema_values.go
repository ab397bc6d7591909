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

package schema

import (
	"strconv"
)

// Value is the value of a field option.
type Value interface {
	String() string
	isValue()
}

var (
	_ Value = BoolValue(false)
	_ Value = IntValue(0)
	_ Value = FloatValue(0)
	_ Value = Range{}
	_ Value = StringValue("")
	_ Value = IdentValue("")
)

type BoolValue bool

func (v BoolValue) String() string {
	return strconv.FormatBool(bool(v))
}

func (BoolValue) isValue() {}

type IntValue int64

func (v IntValue) String() string {
	return strconv.FormatInt(int64(v), 10)
}

func (IntValue) isValue() {}

type FloatValue float64

func (v FloatValue) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

func (FloatValue) isValue() {}

type StringValue string

func (v StringValue) String() string {
	return strconv.Quote(string(v))
}

func (StringValue) isValue() {}

type IdentValue string

func (v IdentValue) String() string {
	return string(v)
}

func (IdentValue) isValue() {}

// Range is an integer range where either bound may be absent. The zero
// Range is unbounded.
type Range struct {
	Min *int64
	Max *int64
}

func NewRange(min, max *int64) Range {
	return Range{Min: min, Max: max}
}

func (r Range) IsUnbounded() bool {
	return r.Min == nil && r.Max == nil
}

func (r Range) String() string {
	var out string
	if r.Min != nil {
		out = strconv.FormatInt(*r.Min, 10)
	}
	out += ".."
	if r.Max != nil {
		out += strconv.FormatInt(*r.Max, 10)
	}
	return out
}

func (Range) isValue() {}
