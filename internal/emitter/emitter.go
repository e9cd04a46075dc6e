// Copyright 2026 The ldlogger Authors. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package emitter appends Actions to the compilation database.
//
// The database is a JSON array. Appending seeks over the closing bracket,
// writes the new entries and writes the bracket back, so the file stays a
// well-formed array between invocations. The protocol is only safe because
// every appender holds the flock lock for the whole seek/write sequence;
// it is not crash-safe, a killed appender can leave a trailing fragment.
package emitter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"ldlogger/internal/config"
	"ldlogger/internal/debuglog"
	"ldlogger/internal/escape"
	"ldlogger/internal/flock"
	"ldlogger/internal/pathutil"
	"ldlogger/internal/tool"
)

var (
	// ErrTooFewArguments means the caller passed no argument vector at all.
	ErrTooFewArguments = errors.New("emitter: too few arguments")
	// ErrNoLogFile means CC_LOGGER_FILE is unset; logging is disabled.
	ErrNoLogFile = errors.New("emitter: no log file configured")
)

// WriteActions appends one entry per (action, source) pair to f, keeping
// the file a single JSON array. The caller owns f and the lock protecting
// it.
func WriteActions(f *os.File, wd string, actions []*tool.Action) error {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	entryCount := 0
	if size == 0 {
		if _, err := f.WriteString("[\n"); err != nil {
			return err
		}
	} else {
		// Step back over the closing bracket. A file longer than five bytes
		// is taken to hold an entry already (the bare "[\n]" scaffold is
		// three), so the first new entry needs a separator.
		if _, err := f.Seek(size-1, io.SeekStart); err != nil {
			return err
		}
		if size > 5 {
			entryCount = 1
		}
	}

	for _, action := range actions {
		command := escape.Command(action.Arguments)
		for _, src := range action.Sources {
			entryCount++
			if entryCount > 1 {
				if _, err := f.WriteString("\t,\n"); err != nil {
					return err
				}
			}
			entry := fmt.Sprintf(
				"\t{\n\t\t\"directory\": \"%s\",\n\t\t\"command\": \"%s\",\n\t\t\"file\": \"%s\"\n\t}\n",
				wd, command, src)
			if _, err := f.WriteString(entry); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteString("]"); err != nil {
		return err
	}
	return f.Sync()
}

// LogExec records one intercepted invocation: prog is the program the
// caller asked to run, argv is its argument vector (argv[0] included). The
// database path comes from the snapshot; when it is unset nothing is
// logged. The caller delegates to the real call regardless of the returned
// error.
func LogExec(prog string, argv []string, cfg *config.Snapshot) error {
	debuglog.Infof("Processing command: %s %s", prog, debuglog.Argv(argv))

	if len(argv) == 0 {
		debuglog.Infof("Too few arguments: %s", prog)
		return ErrTooFewArguments
	}
	if cfg.File == "" {
		debuglog.Errorf("CC_LOGGER_FILE is not set!")
		return ErrNoLogFile
	}

	lk, err := flock.Acquire(cfg.File)
	if err != nil {
		debuglog.Errorf("Failed to acquire lock!")
		return err
	}
	defer lk.Release()

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		debuglog.Errorf("Failed to open log file: %s", cfg.File)
		return err
	}
	defer f.Close()

	wd, err := pathutil.AbsPath(".", true)
	if err != nil {
		debuglog.Warnf("Failed to convert current directory to absolute path!")
		return err
	}

	actions := tool.CollectActions(prog, argv, cfg)
	return WriteActions(f, wd, actions)
}
