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

// Package config captures the logger's environment once per intercepted
// call. The hooks run inside arbitrary build processes whose own code may
// mutate the environment at any time, so every decision during one
// interception works from the same immutable snapshot.
package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Snapshot is the typed view of the environment variables the logger
// consumes. DefDirs and AbsPath are presence-keyed: any value, including the
// empty string, turns them on.
type Snapshot struct {
	// File is the compilation database to append into. Empty disables
	// logging entirely.
	File string `envconfig:"CC_LOGGER_FILE"`

	// GccLike and JavacLike are colon-separated program matchers. A matcher
	// containing a slash matches as a suffix of the full program path,
	// otherwise as an infix of the program's base name.
	GccLike   string `envconfig:"CC_LOGGER_GCC_LIKE"`
	JavacLike string `envconfig:"CC_LOGGER_JAVAC_LIKE"`

	// KeepLinkValue retains object and library inputs as sources when it is
	// the literal "true".
	KeepLinkValue string `envconfig:"CC_LOGGER_KEEP_LINK"`

	// DebugFile names the optional debug log.
	DebugFile string `envconfig:"CC_LOGGER_DEBUG_FILE"`

	// Include search paths consumed per the GCC manual.
	CPath            string `envconfig:"CPATH"`
	CIncludePath     string `envconfig:"C_INCLUDE_PATH"`
	CPlusIncludePath string `envconfig:"CPLUS_INCLUDE_PATH"`

	// DefDirs injects the compiler's implicit include directories.
	DefDirs bool `ignored:"true"`

	// AbsPath rewrites source files and include-flag arguments to absolute
	// paths in the recorded command.
	AbsPath bool `ignored:"true"`

	// CPathSet, CIncludePathSet and CPlusIncludePathSet record whether the
	// corresponding variable was present at all; a present-but-empty value
	// still injects "." per the GCC manual.
	CPathSet            bool `ignored:"true"`
	CIncludePathSet     bool `ignored:"true"`
	CPlusIncludePathSet bool `ignored:"true"`
}

// Capture reads the environment into a Snapshot.
func Capture() (*Snapshot, error) {
	var s Snapshot
	if err := envconfig.Process("", &s); err != nil {
		return nil, err
	}
	_, s.DefDirs = os.LookupEnv("CC_LOGGER_DEF_DIRS")
	_, s.AbsPath = os.LookupEnv("CC_LOGGER_ABS_PATH")
	_, s.CPathSet = os.LookupEnv("CPATH")
	_, s.CIncludePathSet = os.LookupEnv("C_INCLUDE_PATH")
	_, s.CPlusIncludePathSet = os.LookupEnv("CPLUS_INCLUDE_PATH")
	return &s, nil
}

// KeepLink reports whether link-only inputs are to be kept as sources.
func (s *Snapshot) KeepLink() bool {
	return s.KeepLinkValue == "true"
}
