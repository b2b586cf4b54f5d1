// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package directive reads move scripts and extracts the flat source/target
// list the batch orchestrator consumes.
//
// A directive line looks like
//
//	mv -f "C:\from\file.txt" "D:\to\file.txt"
//
// Leading and trailing blanks are allowed, -f is optional and every other
// line is ignored.
package directive

import (
	"regexp"
)

var mvLine = regexp.MustCompile(`(?m)^[ \t]*mv(?:[ \t]+-f)?[ \t]+"(.+)"[ \t]+"(.+)"[ \t\r]*$`)

// Extract returns the source and target of every directive line in text,
// alternating and in order of appearance.
func Extract(text string) []string {
	matches := mvLine.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches)*2)
	for _, m := range matches {
		out = append(out, m[1], m[2])
	}
	return out
}
