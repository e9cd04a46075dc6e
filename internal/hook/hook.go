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

// Package hook provides the spawn entry points of the logger. Each entry
// point mirrors the shape of the libc function it stands in for: it logs
// the invocation through the classifier and emitter, then delegates to the
// real operation. Any internal failure short of the delegation itself is
// swallowed; the logger must never break the build.
package hook

import (
	"errors"
	"os"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"ldlogger/internal/config"
	"ldlogger/internal/emitter"
)

// ErrNotFound is returned when a PATH search finds no executable.
var ErrNotFound = errors.New("hook: executable not found in PATH")

// tryLog records the invocation. Every error is deliberately dropped: an
// unlockable database or an unparsable command line must not affect the
// intercepted call.
func tryLog(prog string, argv []string) {
	cfg, err := config.Capture()
	if err != nil {
		return
	}
	_ = emitter.LogExec(prog, argv, cfg)
}

// unsetPreloadForLdd drops the preload variable when the program being
// spawned is ldd, matched as the exact name or a "/ldd" path suffix. An
// intercepted ldd would report the logger itself in its output and recurse
// through its helper children.
// TODO: revisit whether the guard should cover other loader tools.
func unsetPreloadForLdd(file string) {
	if file == "ldd" || strings.HasSuffix(file, "/ldd") {
		os.Unsetenv("LD_PRELOAD")
	}
}

// lookPath resolves file against the colon-separated pathList the way
// execvp does: the first regular executable file wins. file names
// containing a slash are returned as-is.
func lookPath(file, pathList string) (string, error) {
	if strings.ContainsRune(file, '/') {
		return file, nil
	}
	for _, dir := range strings.Split(pathList, ":") {
		if dir == "" {
			dir = "."
		}
		full := dir + "/" + file
		if fi, err := os.Stat(full); err == nil && fi.Mode().IsRegular() && fi.Mode()&0111 != 0 {
			return full, nil
		}
	}
	return "", ErrNotFound
}

// Execv logs the invocation and replaces the current process image with
// path. It only returns on delegation failure.
func Execv(path string, argv []string) error {
	tryLog(path, argv)
	unsetPreloadForLdd(path)
	return unix.Exec(path, argv, os.Environ())
}

// Execve is Execv with an explicit environment.
func Execve(path string, argv, envp []string) error {
	tryLog(path, argv)
	unsetPreloadForLdd(path)
	return unix.Exec(path, argv, envp)
}

// Execvp logs the invocation, resolves file through PATH and replaces the
// current process image.
func Execvp(file string, argv []string) error {
	tryLog(file, argv)
	unsetPreloadForLdd(file)
	path, err := lookPath(file, os.Getenv("PATH"))
	if err != nil {
		return err
	}
	return unix.Exec(path, argv, os.Environ())
}

// Execvpe is Execvp passing the given environment to the new image. The
// PATH search itself uses the caller's environment, as in libc.
func Execvpe(file string, argv, envp []string) error {
	tryLog(file, argv)
	unsetPreloadForLdd(file)
	path, err := lookPath(file, os.Getenv("PATH"))
	if err != nil {
		return err
	}
	return unix.Exec(path, argv, envp)
}

// PosixSpawn logs the invocation and starts path as a child process,
// returning its pid. attr plays the role of the posix_spawn file-actions
// and attributes pair; nil inherits the parent's stdio.
func PosixSpawn(path string, attr *syscall.ProcAttr, argv, envp []string) (int, error) {
	tryLog(path, argv)
	unsetPreloadForLdd(path)
	return forkExec(path, attr, argv, envp)
}

// PosixSpawnp is PosixSpawn with PATH resolution of file.
func PosixSpawnp(file string, attr *syscall.ProcAttr, argv, envp []string) (int, error) {
	tryLog(file, argv)
	unsetPreloadForLdd(file)
	path, err := lookPath(file, os.Getenv("PATH"))
	if err != nil {
		return 0, err
	}
	return forkExec(path, attr, argv, envp)
}

func forkExec(path string, attr *syscall.ProcAttr, argv, envp []string) (int, error) {
	if attr == nil {
		attr = &syscall.ProcAttr{Files: []uintptr{0, 1, 2}}
	}
	if attr.Env == nil {
		attr.Env = envp
	}
	return syscall.ForkExec(path, argv, attr)
}
