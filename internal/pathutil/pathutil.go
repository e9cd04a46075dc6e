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

// Package pathutil resolves build paths to canonical absolute form and
// provides the small file-name helpers the argument parsers need.
package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	errEmptyPath  = errors.New("pathutil: empty path")
	errNotExist   = errors.New("pathutil: path does not exist")
	errUnresolved = errors.New("pathutil: cannot resolve path")
)

// AbsPath resolves path to an absolute, canonical form. Symlinks and dot
// segments in the existing prefix of the path are resolved; trailing
// components that do not exist yet are re-appended verbatim. A compiler
// output file typically does not exist at parse time, so the usual
// canonicalisation primitive alone is not enough here.
//
// With mustExist set, a path that is absent on disk is an error.
func AbsPath(path string, mustExist bool) (string, error) {
	if path == "" {
		return "", errEmptyPath
	}
	if mustExist {
		if _, err := os.Stat(path); err != nil {
			return "", errNotExist
		}
	}
	if !strings.HasPrefix(path, "/") {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		path = wd + "/" + path
	}
	return resolve(path)
}

// resolve canonicalises an absolute path. If the full path cannot be
// resolved, the last segment is cut off, the parent is resolved recursively
// and the segment re-appended.
func resolve(path string) (string, error) {
	if r, err := filepath.EvalSymlinks(path); err == nil {
		return r, nil
	}
	slash := strings.LastIndexByte(path, '/')
	if slash <= 0 {
		// The remainder would be "/" only.
		return "", errUnresolved
	}
	child := path[slash+1:]
	if child == "." || child == ".." {
		// Re-appending these would not be canonical.
		return "", errUnresolved
	}
	parent, err := resolve(path[:slash])
	if err != nil {
		return "", err
	}
	return parent + "/" + child, nil
}

// Ext returns the file extension of path without the dot, lower-cased when
// toLower is set. It returns "" when path has no file name or no extension.
func Ext(path string, toLower bool) string {
	name := Base(path)
	if name == "" {
		return ""
	}
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return ""
	}
	ext := name[dot+1:]
	if toLower {
		ext = strings.ToLower(ext)
	}
	return ext
}

// Base returns the file name part of path, or "" when path ends in a
// separator.
func Base(path string) string {
	name := path
	if slash := strings.LastIndexByte(path, '/'); slash >= 0 {
		name = path[slash+1:]
	}
	return name
}

// BaseNoExt returns the file name part of path with its extension cut off.
func BaseNoExt(path string) string {
	name := Base(path)
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		return name[:dot]
	}
	return name
}

// StripExt returns path without its extension. A path without an extension
// is returned unchanged.
func StripExt(path string) string {
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 && dot > strings.LastIndexByte(path, '/') {
		return path[:dot]
	}
	return path
}
