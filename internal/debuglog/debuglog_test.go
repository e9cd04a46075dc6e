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

package debuglog

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledSinkWritesNothing(t *testing.T) {
	t.Setenv("CC_LOGGER_DEBUG_FILE", "")
	dir := t.TempDir()

	Infof("should go nowhere: %d", 1)

	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, ents)
}

func TestSinkFormat(t *testing.T) {
	path := t.TempDir() + "/debug.log"
	t.Setenv("CC_LOGGER_DEBUG_FILE", path)

	Infof("Processing command: %s", Argv([]string{"gcc", "-c", "a.c"}))
	Warnf("no %s found", "source")
	Errorf("lock failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)

	// [LEVEL timestamp][src_file:line] - message
	format := regexp.MustCompile(`^\[(INFO|WARNING|ERROR) \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\]\[debuglog_test\.go:\d+\] - .+$`)
	for _, line := range lines {
		assert.Regexp(t, format, line)
	}

	assert.Contains(t, lines[0], "[INFO")
	assert.Contains(t, lines[0], "Processing command: gcc -c a.c ")
	assert.Contains(t, lines[1], "[WARNING")
	assert.Contains(t, lines[1], "no source found")
	assert.Contains(t, lines[2], "[ERROR")

	// The sink shares the database lock convention.
	_, err = os.Stat(path + ".lock")
	assert.NoError(t, err)
}

func TestArgv(t *testing.T) {
	if got := Argv(nil); got != "" {
		t.Errorf("Argv(nil)=%q", got)
	}
	if got := Argv([]string{"a", "b"}); got != "a b " {
		t.Errorf("Argv=%q, want %q", got, "a b ")
	}
}
