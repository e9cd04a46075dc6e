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

package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

// canonTemp returns a fully resolved temp dir; on some systems the temp
// root itself is behind a symlink.
func canonTemp(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestAbsPathExisting(t *testing.T) {
	dir := canonTemp(t)
	file := dir + "/exists.c"
	if err := os.WriteFile(file, []byte("int main;"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, mustExist := range []bool{false, true} {
		got, err := AbsPath(file, mustExist)
		if err != nil {
			t.Fatalf("AbsPath(%q, %v)=%v", file, mustExist, err)
		}
		if got != file {
			t.Errorf("AbsPath(%q, %v)=%q, want %q", file, mustExist, got, file)
		}
	}
}

func TestAbsPathMissingTail(t *testing.T) {
	dir := canonTemp(t)

	// Trailing components that do not exist are re-appended to the resolved
	// prefix.
	got, err := AbsPath(dir+"/sub/out.o", false)
	if err != nil {
		t.Fatal(err)
	}
	want := dir + "/sub/out.o"
	if got != want {
		t.Errorf("AbsPath=%q, want %q", got, want)
	}
}

func TestAbsPathRelative(t *testing.T) {
	dir := canonTemp(t)
	chdirT(t, dir)

	got, err := AbsPath("foo.c", false)
	if err != nil {
		t.Fatal(err)
	}
	if want := dir + "/foo.c"; got != want {
		t.Errorf("AbsPath(foo.c)=%q, want %q", got, want)
	}

	got, err = AbsPath(".", false)
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("AbsPath(.)=%q, want %q", got, dir)
	}
}

func TestAbsPathSymlinkPrefix(t *testing.T) {
	dir := canonTemp(t)
	real := dir + "/real"
	if err := os.Mkdir(real, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(real, dir+"/link"); err != nil {
		t.Fatal(err)
	}

	got, err := AbsPath(dir+"/link/missing.o", false)
	if err != nil {
		t.Fatal(err)
	}
	if want := real + "/missing.o"; got != want {
		t.Errorf("AbsPath=%q, want %q", got, want)
	}
}

func TestAbsPathErrors(t *testing.T) {
	dir := canonTemp(t)

	for _, tc := range []struct {
		path      string
		mustExist bool
	}{
		{"", false},
		{dir + "/missing.c", true},
		{dir + "/a/.", false},
		{dir + "/a/..", false},
	} {
		if got, err := AbsPath(tc.path, tc.mustExist); err == nil {
			t.Errorf("AbsPath(%q, %v)=%q, want error", tc.path, tc.mustExist, got)
		}
	}
}

func TestExt(t *testing.T) {
	for _, tc := range []struct {
		path    string
		toLower bool
		want    string
	}{
		{"foo.c", true, "c"},
		{"foo.CPP", true, "cpp"},
		{"foo.CPP", false, "CPP"},
		{"/a/b.x/foo.cc", true, "cc"},
		{"foo", true, ""},
		{"/a/b/", true, ""},
		{"a.tar.gz", true, "gz"},
	} {
		if got := Ext(tc.path, tc.toLower); got != tc.want {
			t.Errorf("Ext(%q, %v)=%q, want %q", tc.path, tc.toLower, got, tc.want)
		}
	}
}

func TestBase(t *testing.T) {
	for _, tc := range []struct {
		path, want string
	}{
		{"/a/b/c.java", "c.java"},
		{"c.java", "c.java"},
		{"/a/b/", ""},
	} {
		if got := Base(tc.path); got != tc.want {
			t.Errorf("Base(%q)=%q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestBaseNoExt(t *testing.T) {
	for _, tc := range []struct {
		path, want string
	}{
		{"/a/b/C.java", "C"},
		{"C.java", "C"},
		{"/a/b/noext", "noext"},
	} {
		if got := BaseNoExt(tc.path); got != tc.want {
			t.Errorf("BaseNoExt(%q)=%q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestStripExt(t *testing.T) {
	for _, tc := range []struct {
		path, want string
	}{
		{"/a/b/C.java", "/a/b/C"},
		{"/a.b/c", "/a.b/c"},
		{"noext", "noext"},
	} {
		if got := StripExt(tc.path); got != tc.want {
			t.Errorf("StripExt(%q)=%q, want %q", tc.path, got, tc.want)
		}
	}
}
