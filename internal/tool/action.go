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

package tool

import (
	"ldlogger/internal/pathutil"
	"ldlogger/internal/strlist"
)

// noObjOutput is the output sentinel for invocations that produce no
// explicit output file.
const noObjOutput = "./_noobj"

// Action is one parsed compiler invocation.
type Action struct {
	// Output is the absolute output path, kept only so the GCC parser can
	// drop it from Sources when a flag like -MT smuggled it in there.
	Output string

	// Arguments is the argument vector as it should be re-invoked;
	// Arguments[0] is the program path.
	Arguments []string

	// Sources holds source paths, duplicate-free, in first-insertion order.
	// The javac parser stores absolute paths; the GCC parser stores them as
	// written unless CC_LOGGER_ABS_PATH is set.
	Sources []string
}

// NewAction returns an Action with the no-output sentinel installed.
func NewAction() *Action {
	return &Action{Output: absOrRaw(noObjOutput)}
}

// AddSource records a source path, suppressing byte-equal duplicates.
func (a *Action) AddSource(path string) {
	a.Sources = strlist.AddUnique(a.Sources, path)
}

// absOrRaw canonicalises path, falling back to the given form when the path
// cannot be resolved.
func absOrRaw(path string) string {
	abs, err := pathutil.AbsPath(path, false)
	if err != nil {
		return path
	}
	return abs
}
