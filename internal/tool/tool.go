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

// Package tool classifies intercepted programs and parses compiler command
// lines into Actions.
package tool

import (
	"strings"

	"ldlogger/internal/config"
	"ldlogger/internal/debuglog"
	"ldlogger/internal/pathutil"
)

// CollectActions decides which parser handles prog and returns its Actions.
// An unrecognised program yields nil.
func CollectActions(prog string, argv []string, cfg *config.Snapshot) []*Action {
	switch {
	case matchProgramList(cfg.GccLike, prog):
		// The GCC parser may spawn the compiler itself; keep those children
		// out of the interception loop.
		guard := config.SuppressPreload()
		defer guard.Restore()
		return collectGccActions(prog, argv, cfg)
	case matchProgramList(cfg.JavacLike, prog):
		return collectJavacActions(prog, argv)
	default:
		debuglog.Infof("%q does not match any program name! Current environment "+
			"variables are: CC_LOGGER_GCC_LIKE (%s), CC_LOGGER_JAVAC_LIKE (%s)",
			prog, cfg.GccLike, cfg.JavacLike)
		return nil
	}
}

// matchProgramList matches prog against a colon-separated matcher list. A
// matcher containing a slash must be a suffix of the full program path; any
// other matcher must be an infix of the program's base name.
func matchProgramList(list, prog string) bool {
	if list == "" {
		return false
	}
	base := pathutil.Base(prog)
	for _, m := range strings.Split(list, ":") {
		if m == "" {
			continue
		}
		if strings.ContainsRune(m, '/') {
			if strings.HasSuffix(prog, m) {
				return true
			}
		} else if strings.Contains(base, m) {
			return true
		}
	}
	return false
}
