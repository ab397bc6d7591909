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
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rc := run(ctx, os.Args[1:], &stdio{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	})
	stop()
	os.Exit(rc)
}

type stdio struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, std *stdio) int {
	global := &globalOptions{stdio: std}

	rc := 0
	webwireCmd := &cobra.Command{
		Use:           "webwire [options] COMMAND",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	webwireCmd.SetArgs(args)
	webwireCmd.SetOut(std.stdout)
	webwireCmd.SetErr(std.stderr)
	webwireCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(std.stderr, webwireCmd.UsageString())
		rc = 1
		return nil
	}
	global.flags(webwireCmd.PersistentFlags())

	commands := []command{
		&cmdCheck{global: global},
		&cmdCompile{global: global},
		&cmdCodegen{global: global},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(_ *cobra.Command, args []string) error {
				rc = cmd.run(ctx, args)
				return nil
			},
		}
		webwireCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	if err := webwireCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(std.stderr, err)
		return 1
	}
	return rc
}
