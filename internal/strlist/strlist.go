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

// Package strlist holds the ordered string-sequence operations shared by the
// argument parsers: deduplicating append, positional insertion and
// predicate search. Insertion order is always preserved.
package strlist

// AddUnique appends s to list unless an equal element is already present.
func AddUnique(list []string, s string) []string {
	if Find(list, s) >= 0 {
		return list
	}
	return append(list, s)
}

// InsertAt inserts src into list before position pos. Callers tracking
// several insertion cursors must advance the remaining ones by len(src).
func InsertAt(list []string, pos int, src []string) []string {
	if pos < 0 || pos > len(list) {
		pos = len(list)
	}
	out := make([]string, 0, len(list)+len(src))
	out = append(out, list[:pos]...)
	out = append(out, src...)
	out = append(out, list[pos:]...)
	return out
}

// Erase removes the element at index i. Out-of-range indexes are ignored.
func Erase(list []string, i int) []string {
	if i < 0 || i >= len(list) {
		return list
	}
	return append(list[:i], list[i+1:]...)
}

// Find returns the index of the first element equal to s, or -1.
func Find(list []string, s string) int {
	for i, e := range list {
		if e == s {
			return i
		}
	}
	return -1
}

// FindFunc returns the index of the first element for which pred holds,
// or -1.
func FindFunc(list []string, pred func(string) bool) int {
	for i, e := range list {
		if pred(e) {
			return i
		}
	}
	return -1
}
