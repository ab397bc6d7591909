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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"go.webwire-lang.org/webwire/encoding/webwirejson"
)

const EnvCodegenPluginPath = "WEBWIRE_CODEGEN_PLUGIN_PATH"

type cmdCodegen struct {
	global     *globalOptions
	outDir     string
	language   string
	pluginPath string
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen --language=LANG -o OUTDIR FILE",
		summary: "Generate code for a schema with a WebAssembly plugin",
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", "", "Output directory")
	flags.StringVarP(&cmd.language, "language", "l", "", "Target language; selects the plugin webwire-codegen-LANG.wasm")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "Plugin search path (default: $"+EnvCodegenPluginPath+", then the config file)")
}

type codegenRequest struct {
	Language string                `json:"language"`
	Document *webwirejson.Document `json:"document"`
}

type codegenResponse struct {
	Error string        `json:"error"`
	Files []*outputFile `json:"files"`
}

type outputFile struct {
	Path    []string `json:"path"`
	Content string   `json:"content"`
}

func (cmd *cmdCodegen) run(ctx context.Context, argv []string) int {
	stderr := cmd.global.stderr
	if len(argv) != 1 {
		fmt.Fprintln(stderr, "usage: webwire codegen --language=LANG -o OUTDIR FILE")
		return 1
	}
	if cmd.outDir == "" {
		fmt.Fprintln(stderr, "No output directory specified (set --output=)")
		return 1
	}
	if cmd.language == "" {
		fmt.Fprintln(stderr, "No target language specified (set --language=)")
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

	requestBuf, err := json.Marshal(&codegenRequest{
		Language: cmd.language,
		Document: webwirejson.FromSchema(doc),
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	pluginPath, err := cmd.locatePlugin(s.cfg.Plugins.Path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	s.logger.Debug().
		Str("plugin", pluginPath).
		Int("request_bytes", len(requestBuf)).
		Msg("running codegen plugin")

	rc, responseBuf, err := runPlugin(ctx, pluginBin, requestBuf, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Plugin %s: %v\n", pluginPath, err)
		return 1
	}

	var response codegenResponse
	if err := json.Unmarshal(responseBuf, &response); err != nil {
		fmt.Fprintf(stderr, "Plugin %s returned an invalid response: %v\n", pluginPath, err)
		return 1
	}
	if rc != 0 {
		fmt.Fprintln(stderr, sanitizeMessage(response.Error))
		return 1
	}

	if len(response.Files) == 0 {
		fmt.Fprintln(stderr, "Plugin did not generate any output files")
		return 1
	}
	if err := os.MkdirAll(cmd.outDir, 0o755); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, file := range response.Files {
		outPath, err := cmd.outPath(file)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := os.WriteFile(outPath, []byte(file.Content), 0o644); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		s.logger.Debug().Str("path", outPath).Msg("wrote generated file")
	}
	s.logger.Info().
		Str("language", cmd.language).
		Int("files", len(response.Files)).
		Msg("code generation finished")
	return 0
}

// locatePlugin searches the plugin path for the language's plugin. The
// --plugin-path flag wins over the environment, which wins over the
// config file.
func (cmd *cmdCodegen) locatePlugin(configPath []string) (string, error) {
	var dirs []string
	if cmd.pluginPath != "" {
		dirs = filepath.SplitList(cmd.pluginPath)
	} else if env := os.Getenv(EnvCodegenPluginPath); env != "" {
		dirs = filepath.SplitList(env)
	} else {
		dirs = configPath
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $%s", EnvCodegenPluginPath)
	}

	basename := fmt.Sprintf("webwire-codegen-%s.wasm", cmd.language)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Webwire codegen plugin %s not found in plugin path", basename)
}

func (cmd *cmdCodegen) outPath(file *outputFile) (string, error) {
	parts := file.Path
	if len(parts) == 0 {
		return "", fmt.Errorf("Invalid output path %#v: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %#v: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %#v: absolute path component %q", parts, part)
		}
		if strings.Contains(part, "/") {
			return "", fmt.Errorf("Invalid output path %#v: component %q contains '/'", parts, part)
		}
	}
	return filepath.Join(append([]string{cmd.outDir}, parts...)...), nil
}

// sanitizeMessage makes a plugin error message safe to print: control
// characters become U+FFFD and trailing newlines are dropped.
func sanitizeMessage(msg string) string {
	msg = strings.TrimRight(msg, "\r\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7F {
			return '\uFFFD'
		}
		return r
	}, msg)
}
