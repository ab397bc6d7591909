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
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"go.webwire-lang.org/webwire/internal/discover"
)

// recheckDelay is how long the watcher waits for changes to settle before
// checking again. Editors often write a file in several steps.
const recheckDelay = 100 * time.Millisecond

// debouncer coalesces a burst of triggers into one tick on C, delivered
// once no trigger has arrived for delay.
type debouncer struct {
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	timer := time.NewTimer(delay)
	timer.Stop()
	return &debouncer{delay: delay, timer: timer}
}

func (d *debouncer) trigger() { d.timer.Reset(d.delay) }

func (d *debouncer) C() <-chan time.Time { return d.timer.C }

func (d *debouncer) stop() { d.timer.Stop() }

type cmdCheck struct {
	global *globalOptions
	watch  bool
}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check [--watch] [PATH...]",
		summary: "Report errors and warnings in schema files",
	}
}

func (cmd *cmdCheck) flags(flags *pflag.FlagSet) {
	flags.BoolVarP(&cmd.watch, "watch", "w", false, "Check again whenever a schema file changes")
}

func (cmd *cmdCheck) run(ctx context.Context, argv []string) int {
	s, err := cmd.global.session()
	if err != nil {
		fmt.Fprintln(cmd.global.stderr, err)
		return 1
	}
	if len(argv) == 0 {
		argv = []string{"."}
	}

	rc, dirs := cmd.checkAll(ctx, s, argv)
	if !cmd.watch {
		return rc
	}
	if err := cmd.watchLoop(ctx, s, argv, dirs); err != nil {
		fmt.Fprintln(s.stderr, err)
		return 1
	}
	return 0
}

// checkAll checks every schema file named by paths. Directories are
// searched for schema files. It also returns the directories that hold
// the checked files and their includes.
func (cmd *cmdCheck) checkAll(ctx context.Context, s *session, paths []string) (int, map[string]struct{}) {
	dirs := make(map[string]struct{})
	files, err := expandPaths(paths)
	if err != nil {
		fmt.Fprintln(s.stderr, err)
		return 1, dirs
	}
	if len(files) == 0 {
		fmt.Fprintln(s.stderr, "No schema files found")
		return 1, dirs
	}

	rc := 0
	for _, file := range files {
		dirs[filepath.Dir(file)] = struct{}{}
		docs, err := s.load(ctx, file)
		if err != nil {
			s.reportError(err)
			rc = 1
			continue
		}
		root, _, _ := s.includeRoot(file)
		for _, doc := range docs {
			dirs[filepath.Join(root, filepath.Dir(filepath.FromSlash(doc.Filename())))] = struct{}{}
		}
		if s.compileDocs(docs) == nil {
			rc = 1
		}
	}
	s.logger.Info().
		Int("files", len(files)).
		Bool("ok", rc == 0).
		Msg("check finished")
	return rc, dirs
}

func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := discover.Files(path)
		if err != nil {
			return nil, err
		}
		for _, rel := range found {
			files = append(files, filepath.Join(path, filepath.FromSlash(rel)))
		}
	}
	return files, nil
}

func (cmd *cmdCheck) watchLoop(
	ctx context.Context,
	s *session,
	paths []string,
	dirs map[string]struct{},
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	watchDirs := func(dirs map[string]struct{}) {
		for dir := range dirs {
			if _, ok := watched[dir]; ok {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				s.logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch directory")
				continue
			}
			watched[dir] = struct{}{}
		}
	}
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			dirs[path] = struct{}{}
		}
	}
	watchDirs(dirs)
	s.logger.Info().Int("dirs", len(watched)).Msg("watching for changes")

	recheck := newDebouncer(recheckDelay)
	defer recheck.stop()
	var changed string
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != discover.Extension {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("schema file changed")
			changed = event.Name
			recheck.trigger()
		case <-recheck.C():
			fmt.Fprintf(s.stderr, "--- %s changed, checking again\n", changed)
			_, dirs := cmd.checkAll(ctx, s, paths)
			watchDirs(dirs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}
