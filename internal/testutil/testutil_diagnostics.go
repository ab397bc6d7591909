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
	"errors"
	"fmt"
	"io/fs"
	"regexp"
)

// Diagnostic is one entry of a diagnostics table, keyed by a stable
// snake_case name so test expectations don't hardcode numeric codes.
type Diagnostic struct {
	Key     string
	Code    uint32
	Message string
	Pattern *regexp.Regexp
}

// LoadDiagnostics reads a JSON object mapping diagnostic names to their
// code and message. Keys starting with '_' reserve a code without
// defining a diagnostic.
func LoadDiagnostics(testdata fs.FS, path string) (map[string]*Diagnostic, error) {
	type raw struct {
		Code    uint32 `json:"code"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, path)
	if err != nil {
		return nil, err
	}

	var rawDiags map[string]raw
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&rawDiags); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make(map[string]*Diagnostic, len(rawDiags))
	codes := make(map[uint32]struct{}, len(rawDiags))
	for key, raw := range rawDiags {
		if key[0] == '_' {
			if raw.Code != 0 {
				if _, conflict := codes[raw.Code]; conflict {
					return nil, fmt.Errorf("%s: duplicate code %d", path, raw.Code)
				}
				codes[raw.Code] = struct{}{}
			}
			continue
		}

		if raw.Code == 0 {
			return nil, fmt.Errorf("%s: %q has no code", path, key)
		}
		if _, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("%s: duplicate code %d", path, raw.Code)
		}
		codes[raw.Code] = struct{}{}

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile(raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &Diagnostic{
			Key:     key,
			Code:    raw.Code,
			Message: raw.Message,
			Pattern: pattern,
		}
	}
	return out, nil
}

// Expectation is one expected diagnostic of a test case.
type Expectation struct {
	*Diagnostic
	File   string
	Line   int
	Column int
}

// LoadExpectations reads a test case's expect_err.json or
// expect_warn.json file. A missing file yields no expectations.
func LoadExpectations(
	diags map[string]*Diagnostic,
	testdata fs.FS,
	path string,
) ([]*Expectation, error) {
	type rawPos struct {
		File   string `json:"file"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
	}
	type raw struct {
		Key string `json:"key"`
		Pos rawPos `json:"pos"`
	}

	jsonData, err := fs.ReadFile(testdata, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var raws []raw
	if err := json.Unmarshal(jsonData, &raws); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := make([]*Expectation, 0, len(raws))
	for _, r := range raws {
		diag, ok := diags[r.Key]
		if !ok {
			return nil, fmt.Errorf("%s: unknown diagnostic %q", path, r.Key)
		}
		out = append(out, &Expectation{
			Diagnostic: diag,
			File:       r.Pos.File,
			Line:       r.Pos.Line,
			Column:     r.Pos.Column,
		})
	}
	return out, nil
}
