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
	"errors"
	"os"
	"path/filepath"
	"strings"

	"ldlogger/internal/pathutil"
	"ldlogger/internal/strlist"
)

// javacState drives the javac argument scanner.
type javacState int

const (
	// stateNormal is the default.
	stateNormal javacState = iota
	// stateClassDir follows a -d parameter.
	stateClassDir
	// stateClassPath follows a -cp or -classpath parameter.
	stateClassPath
)

// javacParser accumulates one pass over a javac argument vector.
type javacParser struct {
	hasSourcePath bool
	state         javacState
	// commonArgs is the argument vector without source files; each emitted
	// Action appends its own source as the final argument.
	commonArgs []string
	sources    []string
	classDir   string
}

// readArgumentsFromFile expands a response file (ant writes these) into
// individual arguments, one per line, trimmed of leading whitespace and
// surrounding double quotes.
func readArgumentsFromFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var args []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimLeft(sc.Text(), " \t\v\f\r\"")
		if i := strings.IndexByte(line, '"'); i >= 0 {
			line = line[:i]
		}
		if line != "" {
			args = append(args, line)
		}
	}
	return args
}

var errUndefinedVar = errors.New("undefined variable")

// expandWord performs the shell-style expansions allowed in a classpath
// component: variable references and globbing. Command substitution is not
// performed and an undefined variable is an error, matching wordexp with
// WRDE_NOCMD|WRDE_UNDEF.
func expandWord(word string) ([]string, error) {
	var undef error
	expanded := os.Expand(word, func(name string) string {
		v, ok := os.LookupEnv(name)
		if !ok {
			undef = errUndefinedVar
		}
		return v
	})
	if undef != nil {
		return nil, undef
	}
	matches, err := filepath.Glob(expanded)
	if err != nil || len(matches) == 0 {
		// No match leaves the pattern in place, like a shell without
		// nullglob.
		return []string{expanded}, nil
	}
	return matches, nil
}

// expandClassPath splits a classpath on ':', glob-expands each component,
// absolutises every existing result and rejoins. On any expansion error the
// classpath is passed through untouched.
func expandClassPath(cp string) string {
	var out []string
	for _, part := range strings.Split(cp, ":") {
		words, err := expandWord(part)
		if err != nil {
			return cp
		}
		for _, w := range words {
			abs, err := pathutil.AbsPath(w, true)
			if err != nil {
				// Malformed or missing entry, ignore.
				continue
			}
			out = append(out, abs)
		}
	}
	return strings.Join(out, ":")
}

// processArg feeds one argument through the state machine.
func (p *javacParser) processArg(arg string) {
	argToAdd := arg

	switch {
	case p.state == stateClassDir:
		p.classDir = absOrRaw(arg)
		argToAdd = p.classDir
		p.state = stateNormal
	case p.state == stateClassPath:
		argToAdd = expandClassPath(arg)
		p.state = stateNormal
	case arg == "-sourcepath":
		p.hasSourcePath = true
	case arg == "-d":
		p.state = stateClassDir
	case arg == "-cp" || arg == "-classpath":
		p.state = stateClassPath
	case pathutil.Ext(arg, true) == "java":
		if abs, err := pathutil.AbsPath(arg, false); err == nil {
			p.sources = strlist.AddUnique(p.sources, abs)
			argToAdd = ""
		}
	}

	if argToAdd != "" {
		p.commonArgs = append(p.commonArgs, argToAdd)
	}
}

// collectJavacActions parses a Java compiler invocation into one Action per
// source file.
func collectJavacActions(prog string, argv []string) []*Action {
	p := &javacParser{commonArgs: []string{prog}}

	for i := 1; i < len(argv); i++ {
		if strings.HasPrefix(argv[i], "@") {
			for _, farg := range readArgumentsFromFile(argv[i][1:]) {
				p.processArg(farg)
			}
		} else {
			p.processArg(argv[i])
		}
	}

	if !p.hasSourcePath {
		if wd, err := pathutil.AbsPath(".", false); err == nil {
			p.commonArgs = append(p.commonArgs, "-sourcepath", wd)
		}
	}

	var actions []*Action
	for _, src := range p.sources {
		action := NewAction()
		action.Arguments = append(append(action.Arguments, p.commonArgs...), src)
		action.AddSource(src)

		var out string
		if p.classDir != "" {
			out = p.classDir + "/" + pathutil.BaseNoExt(src) + ".class"
		} else {
			out = pathutil.StripExt(src) + ".class"
		}
		action.Output = absOrRaw(out)
		actions = append(actions, action)
	}
	return actions
}
