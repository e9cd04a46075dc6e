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

// Package debuglog is the logger's own trace sink. It is disabled unless
// CC_LOGGER_DEBUG_FILE names a file; the sink never writes to the build's
// stdout or stderr. Writes are serialised with the same advisory lock the
// database emitter uses, since every intercepted process of a parallel
// build appends to the same debug file.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"ldlogger/internal/flock"
)

const fileVar = "CC_LOGGER_DEBUG_FILE"

// formatter renders "[LEVEL timestamp][src_file:line] - message".
type formatter struct{}

func (formatter) Format(e *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(e.Level.String())
	src, _ := e.Data["src"].(string)
	return []byte(fmt.Sprintf("[%s %s][%s] - %s\n",
		level, e.Time.Format("2006-01-02 15:04:05"), src, e.Message)), nil
}

var (
	mu     sync.Mutex
	logger = func() *logrus.Logger {
		l := logrus.New()
		l.SetFormatter(formatter{})
		l.SetLevel(logrus.InfoLevel)
		l.SetOutput(io.Discard)
		return l
	}()
)

// Infof logs at info level.
func Infof(format string, args ...interface{}) { emit(logrus.InfoLevel, format, args...) }

// Warnf logs at warning level.
func Warnf(format string, args ...interface{}) { emit(logrus.WarnLevel, format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) { emit(logrus.ErrorLevel, format, args...) }

// Argv renders an argument vector for logging, each argument followed by a
// single space.
func Argv(argv []string) string {
	var b strings.Builder
	for _, a := range argv {
		b.WriteString(a)
		b.WriteByte(' ')
	}
	return b.String()
}

func emit(level logrus.Level, format string, args ...interface{}) {
	path := os.Getenv(fileVar)
	if path == "" {
		return
	}

	var src string
	if _, file, line, ok := runtime.Caller(2); ok {
		src = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	lk, err := flock.Acquire(path)
	if err != nil {
		return
	}
	defer lk.Release()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(f)
	logger.WithField("src", src).Logf(level, format, args...)
	logger.SetOutput(io.Discard)
}
