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
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"ldlogger/internal/config"
	"ldlogger/internal/debuglog"
	"ldlogger/internal/pathutil"
	"ldlogger/internal/strlist"
)

type language int

const (
	langC language = iota
	langCPP
)

// srcExts are the extensions accepted as source files. Binaries are
// included because they are sources of linker actions.
var srcExts = []string{"c", "cc", "cp", "cpp", "cxx", "c++", "o", "so", "a"}

// objExts are the extensions of link-only inputs.
var objExts = []string{"o", "so", "a"}

// Compiler name infixes per language. A C++ name wins when a tool name
// matches both lists, as clang++ also contains clang.
var (
	cCompilers   = []string{"gcc", "cc", "clang"}
	cppCompilers = []string{"g++", "c++", "clang++"}
)

// absFlags are the flags whose path argument, attached or separated, is
// rewritten to absolute form.
var absFlags = []string{
	"-I", "-idirafter", "-imultilib", "-iquote", "-isysroot", "-isystem",
	"-iwithprefix", "-iwithprefixbefore", "-sysroot", "--sysroot",
}

// includeProbeTimeout bounds the implicit-include query; a wedged compiler
// must not stall the build.
const includeProbeTimeout = 5 * time.Second

func isSourceExt(ext string) bool {
	for _, e := range srcExts {
		if e == ext {
			return true
		}
	}
	return false
}

func isObjectFile(path string) bool {
	ext := pathutil.Ext(path, true)
	for _, e := range objExts {
		if e == ext {
			return true
		}
	}
	return false
}

// findFullPath searches the PATH components for executable. Symlinks are
// deliberately not resolved: a "g++" symlink to ccache must be recorded as
// g++, because ccache dispatches on the name it was invoked under.
func findFullPath(executable string) (string, bool) {
	for _, dir := range strings.Split(os.Getenv("PATH"), ":") {
		if dir == "" {
			continue
		}
		full := dir + "/" + executable
		if fi, err := os.Stat(full); err == nil && fi.Mode().IsRegular() && fi.Mode()&0111 != 0 {
			return full, true
		}
	}
	return "", false
}

// isGccLibPath reports whether path points into the compiler's builtin
// header directories, e.g. /usr/lib/gcc/x86_64-linux-gnu/4.8/include.
func isGccLibPath(path string) bool {
	i := strings.Index(path, "/lib/gcc")
	if i < 0 {
		return false
	}
	return strings.Contains(path[i:], "include")
}

// defaultIncludes asks the compiler itself for its implicit include search
// list and returns it as "-Idir" arguments. The compiler's builtin header
// directories are skipped; only the standard library paths are wanted.
func defaultIncludes(prog string) []string {
	ctx, cancel := context.WithTimeout(context.Background(), includeProbeTimeout)
	defer cancel()

	// The C++ include directories are queried even for a C compile; they
	// are a superset of what the analysis needs.
	cmd := exec.CommandContext(ctx, prog, "-xc++", "-E", "-v", "-")
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		return nil
	}

	var args []string
	started := false
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !started {
			if strings.Contains(line, "#include <...> search starts here") {
				started = true
			}
			continue
		}
		if strings.Contains(line, "End of search list") {
			break
		}
		path := strings.TrimSpace(line)
		if i := strings.IndexAny(path, " \t"); i >= 0 {
			path = path[:i]
		}
		if path == "" {
			continue
		}
		abs, err := pathutil.AbsPath(path, false)
		if err != nil {
			continue
		}
		if isGccLibPath(abs) {
			continue
		}
		args = append(args, "-I"+abs)
	}
	return args
}

// pathsFromEnvVar splits a colon-separated include-path variable and pairs
// each component with flag. An empty component means the current working
// directory, per the GCC manual.
func pathsFromEnvVar(value, flag string) []string {
	var out []string
	for _, p := range strings.Split(value, ":") {
		out = append(out, flag)
		if p == "" {
			out = append(out, ".")
		} else {
			out = append(out, p)
		}
	}
	return out
}

// transformSomePathsAbsolute rewrites the path argument of the absFlags
// entries, attached or separated, to absolute form. The "=" prefix meaning
// sysroot-relative is kept in place; the remainder is still resolved
// against the working directory (see the open question on -I= handling).
func transformSomePathsAbsolute(args []string) {
	pathComing := false
	for i, arg := range args {
		if pathComing {
			args[i] = absOrRaw(arg)
			pathComing = false
			continue
		}
		// The longest matching flag wins, so -iwithprefixbefore is not taken
		// for -iwithprefix with an attached "before".
		var flag string
		for _, f := range absFlags {
			if strings.HasPrefix(arg, f) && len(f) > len(flag) {
				flag = f
			}
		}
		if flag == "" {
			continue
		}
		path := arg[len(flag):]
		if path == "" {
			pathComing = true
			continue
		}
		eq := ""
		if path[0] == '=' {
			eq = "="
			path = path[1:]
		}
		args[i] = flag + eq + absOrRaw(path)
	}
}

// responseFile returns the first argument naming a response file, if any.
func responseFile(args []string) (string, bool) {
	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			return arg, true
		}
	}
	return "", false
}

// collectGccActions parses one GCC-family invocation into at most one
// Action. Parsing never fails: an invocation without recognisable sources
// is discarded, unless a response file can be promoted in its place.
func collectGccActions(prog string, argv []string, cfg *config.Snapshot) []*Action {
	action := NewAction()
	lang := langCPP

	// Insertion points for implicit -I and -isystem injection, kept just
	// past the last seen -I / -isystem.
	lastIncPos := 1
	lastSysIncPos := 1

	// Record the program the way it should be re-invoked: resolved through
	// PATH when relative, the bare name when the lookup fails.
	if !strings.HasPrefix(prog, "/") {
		if full, ok := findFullPath(prog); ok {
			action.Arguments = append(action.Arguments, full)
		} else {
			action.Arguments = append(action.Arguments, prog)
		}
	} else {
		action.Arguments = append(action.Arguments, prog)
	}

	toolName := pathutil.Base(prog)
	for _, c := range cCompilers {
		if strings.Contains(toolName, c) {
			lang = langC
		}
	}
	for _, c := range cppCompilers {
		if strings.Contains(toolName, c) {
			lang = langCPP
		}
	}

	for i := 1; i < len(argv); i++ {
		arg := argv[i]

		display := arg
		if !strings.HasPrefix(arg, "-") {
			if ext := pathutil.Ext(arg, true); isSourceExt(ext) {
				// The recorded command must refer to the same path the
				// "file" value does.
				if cfg.AbsPath {
					display = absOrRaw(arg)
				}
				action.AddSource(display)
			}
		}
		if display != "" {
			action.Arguments = append(action.Arguments, display)
		}

		if strings.HasPrefix(arg, "-") {
			next := func() string {
				if i+1 < len(argv) {
					return argv[i+1]
				}
				return ""
			}
			switch {
			case strings.HasPrefix(arg, "-I"):
				lastIncPos = len(action.Arguments)
				if arg == "-I" {
					lastIncPos++
				}
			case strings.HasPrefix(arg, "-isystem"):
				lastSysIncPos = len(action.Arguments)
				if arg == "-isystem" {
					lastSysIncPos++
				}
			case strings.HasPrefix(arg, "-x"):
				// Only the C/C++ values matter; anything else leaves the
				// classification alone.
				l := arg[2:]
				if l == "" {
					l = next()
				}
				switch l {
				case "c", "c-header":
					lang = langC
				case "c++", "c++-header":
					lang = langCPP
				}
			case strings.HasPrefix(arg, "-o"):
				// The output is collected only so it can be removed from the
				// source set later (-MT and friends).
				out := arg[2:]
				if out == "" {
					out = next()
				}
				action.Output = absOrRaw(out)
			}
		}
	}

	if cfg.DefDirs {
		if inc := defaultIncludes(prog); len(inc) > 0 {
			action.Arguments = strlist.InsertAt(action.Arguments, lastIncPos, inc)
			if lastSysIncPos > lastIncPos {
				lastSysIncPos += len(inc)
			}
			lastIncPos += len(inc)
		}
	}

	if cfg.CPathSet {
		if inc := pathsFromEnvVar(cfg.CPath, "-I"); len(inc) > 0 {
			action.Arguments = strlist.InsertAt(action.Arguments, lastIncPos, inc)
			if lastSysIncPos > lastIncPos {
				lastSysIncPos += len(inc)
			}
			lastIncPos += len(inc)
		}
	}

	if lang == langCPP && cfg.CPlusIncludePathSet {
		if inc := pathsFromEnvVar(cfg.CPlusIncludePath, "-isystem"); len(inc) > 0 {
			action.Arguments = strlist.InsertAt(action.Arguments, lastSysIncPos, inc)
		}
	} else if lang == langC && cfg.CIncludePathSet {
		if inc := pathsFromEnvVar(cfg.CIncludePath, "-isystem"); len(inc) > 0 {
			action.Arguments = strlist.InsertAt(action.Arguments, lastSysIncPos, inc)
		}
	}

	if cfg.AbsPath {
		transformSomePathsAbsolute(action.Arguments)
	}

	// -MT and friends can smuggle the output into the source set.
	if i := strlist.Find(action.Sources, action.Output); i >= 0 {
		action.Sources = strlist.Erase(action.Sources, i)
	}

	if !cfg.KeepLink() {
		for {
			i := strlist.FindFunc(action.Sources, isObjectFile)
			if i < 0 {
				break
			}
			action.Sources = strlist.Erase(action.Sources, i)
		}
	}

	if len(action.Sources) != 0 {
		return []*Action{action}
	}
	if rf, ok := responseFile(action.Arguments); ok {
		debuglog.Infof("Processing response file: %s", rf)
		action.Sources = append(action.Sources, rf)
		return []*Action{action}
	}
	debuglog.Warnf("No source file was found.")
	return nil
}
