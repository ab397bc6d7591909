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
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel  = "WEBWIRE_LOG_LEVEL"
	EnvLogFormat = "WEBWIRE_LOG_FORMAT"
)

// newLogger builds the command logger. Empty arguments fall back to the
// environment, then to warn-level console output.
func newLogger(w io.Writer, levelStr, format string) (zerolog.Logger, error) {
	if levelStr == "" {
		levelStr = os.Getenv(EnvLogLevel)
	}
	if levelStr == "" {
		levelStr = "warn"
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", levelStr)
	}

	if format == "" {
		format = os.Getenv(EnvLogFormat)
	}
	switch format {
	case "", "console":
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
	case "json":
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
	}
	return zerolog.Nop(), fmt.Errorf("invalid log format %q (choose 'console' or 'json')", format)
}
