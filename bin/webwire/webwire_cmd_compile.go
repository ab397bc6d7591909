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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"go.webwire-lang.org/webwire/encoding/webwirejson"
	"go.webwire-lang.org/webwire/encoding/webwiretext"
	"go.webwire-lang.org/webwire/schema"
)

type cmdCompile struct {
	global  *globalOptions
	outPath string
	format  string
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile [-f text|json] [-o OUT] FILE",
		summary: "Compile a schema and write the resolved document",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "Output file (default: stdout)")
	flags.StringVarP(&cmd.format, "format", "f", "", "Output format, 'text' or 'json' (default: from the output extension, else 'text')")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	stderr := cmd.global.stderr
	if len(argv) != 1 {
		fmt.Fprintln(stderr, "usage: webwire compile [-f text|json] [-o OUT] FILE")
		return 1
	}

	format, err := outputFormat(cmd.format, cmd.outPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	s, err := cmd.global.session()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	doc := s.compile(ctx, argv[0])
	if doc == nil {
		return 1
	}

	output, err := encodeDocument(doc, format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if cmd.outPath == "" {
		if _, err := s.stdout.Write(output); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(cmd.outPath, openFlags, 0o666)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	_, writeErr := fp.Write(output)
	closeErr := fp.Close()
	if writeErr != nil {
		fmt.Fprintln(stderr, writeErr)
		return 1
	}
	if closeErr != nil {
		fmt.Fprintln(stderr, closeErr)
		return 1
	}
	s.logger.Info().Str("path", cmd.outPath).Str("format", format).Msg("wrote compiled schema")
	return 0
}

// outputFormat picks the output format, guessing from the output path
// when no format was given.
func outputFormat(format, outPath string) (string, error) {
	switch format {
	case "text", "webwiretext":
		return "text", nil
	case "json":
		return "json", nil
	case "":
		if strings.EqualFold(filepath.Ext(outPath), ".json") {
			return "json", nil
		}
		return "text", nil
	}
	return "", fmt.Errorf("Unsupported output format %q (choose 'text' or 'json')", format)
}

func encodeDocument(doc *schema.Document, format string) ([]byte, error) {
	if format == "json" {
		buf, err := webwirejson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return append(buf, '\n'), nil
	}
	return []byte(webwiretext.Encode(doc)), nil
}
