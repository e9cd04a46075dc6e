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

// ldlogger records a compiler invocation in the compilation database named
// by CC_LOGGER_FILE and then replaces itself with the real program.
//
// It runs in two shapes:
//
//	ldlogger PROG ARG...
//
// logs PROG with the given arguments and executes it, and
//
//	gcc ARG...           (a compiler-named symlink to ldlogger)
//
// logs the invocation and executes the next match on PATH, skipping the
// logger itself. A build is intercepted by prepending a directory of such
// symlinks to PATH.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"ldlogger/internal/hook"
)

func main() {
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	// In the symlink shape the argument vector belongs to the compiler;
	// it must not go through the flag package.
	invokedAs := filepath.Base(os.Args[0])
	if invokedAs != "ldlogger" {
		runAsSymlink(invokedAs, self)
		return
	}

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		glog.Exitf("usage: ldlogger PROG [ARG]...")
	}

	argv := args
	if err := hook.Execvp(args[0], argv); err != nil {
		glog.Exitf("ldlogger: exec %s: %v", args[0], err)
	}
}

// runAsSymlink handles the compiler-symlink shape: the real program is the
// first match on PATH that does not resolve back to the logger binary.
func runAsSymlink(name, self string) {
	real, err := lookPathSkippingSelf(name, self)
	if err != nil {
		glog.Exitf("ldlogger: no %s found in PATH besides the logger itself", name)
	}

	argv := append([]string{name}, os.Args[1:]...)
	if err := hook.Execv(real, argv); err != nil {
		glog.Exitf("ldlogger: exec %s: %v", real, err)
	}
}

// lookPathSkippingSelf resolves name through PATH, skipping candidates that
// are the logger binary itself (directly or through a symlink).
func lookPathSkippingSelf(name, self string) (string, error) {
	selfResolved, err := filepath.EvalSymlinks(self)
	if err != nil {
		selfResolved = self
	}
	for _, dir := range strings.Split(os.Getenv("PATH"), ":") {
		if dir == "" {
			dir = "."
		}
		full := filepath.Join(dir, name)
		fi, err := os.Stat(full)
		if err != nil || !fi.Mode().IsRegular() || fi.Mode()&0111 == 0 {
			continue
		}
		if r, err := filepath.EvalSymlinks(full); err == nil && r == selfResolved {
			continue
		}
		return full, nil
	}
	return "", os.ErrNotExist
}
