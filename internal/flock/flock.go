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

// Package flock serialises concurrent appenders of one output file across
// processes. The lock is an advisory exclusive lock on a sibling ".lock"
// file, so every build process hooking the same database contends on the
// same inode regardless of its working directory.
package flock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"ldlogger/internal/pathutil"
)

// ErrCouldNotLock is returned for every acquisition failure, whether the
// lock path could not be resolved or the lock file could not be opened or
// locked.
var ErrCouldNotLock = errors.New("flock: could not lock")

// Lock is a held advisory lock. Release it exactly once.
type Lock struct {
	f *os.File
}

// Acquire takes a blocking exclusive lock keyed to path. The lock file is
// "canon(path).lock".
func Acquire(path string) (*Lock, error) {
	abs, err := pathutil.AbsPath(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotLock, err)
	}
	f, err := os.OpenFile(abs+".lock", os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotLock, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrCouldNotLock, err)
	}
	return &Lock{f: f}, nil
}

// Release drops the lock and closes the lock file.
func (l *Lock) Release() {
	if l == nil || l.f == nil {
		return
	}
	unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	l.f.Close()
	l.f = nil
}
