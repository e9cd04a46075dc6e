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

package config

import "os"

const (
	preloadVar  = "LD_PRELOAD"
	disabledVar = "XD_PRELOAD"
)

// PreloadGuard keeps the preload variable disabled for the guard's
// lifetime, which ends at the first Restore; later calls do nothing.
type PreloadGuard struct {
	value  string
	active bool
}

// SuppressPreload renames LD_PRELOAD to XD_PRELOAD so that children the
// logger itself spawns (the implicit-include probe) are not intercepted
// again. The value is preserved so sibling interception resumes after
// Restore.
func SuppressPreload() *PreloadGuard {
	v, ok := os.LookupEnv(preloadVar)
	if !ok {
		return &PreloadGuard{}
	}
	os.Unsetenv(preloadVar)
	os.Setenv(disabledVar, v)
	return &PreloadGuard{value: v, active: true}
}

// Restore re-enables the preload variable with its original value.
func (g *PreloadGuard) Restore() {
	if !g.active {
		return
	}
	g.active = false
	os.Unsetenv(disabledVar)
	os.Setenv(preloadVar, g.value)
}
