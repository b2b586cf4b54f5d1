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

package batch

import (
	"gitlab.com/tozd/go/errors"
)

// ErrMalformedDirectiveList is returned when the flat directive list cannot
// be split into source/target pairs.
var ErrMalformedDirectiveList = errors.New("malformed directive list")

// 📦 Directive is one source/target pair, both raw paths.
type Directive struct {
	Source string
	Target string
}

// 🔗 Pair splits a flat alternating source/target list into directives. An
// odd number of entries is an error; the dangling entry is never dropped.
func Pair(entries []string) ([]Directive, error) {
	if len(entries)%2 != 0 {
		return nil, errors.Errorf("%w: %d entries, last entry %q has no target", ErrMalformedDirectiveList, len(entries), entries[len(entries)-1])
	}

	directives := make([]Directive, 0, len(entries)/2)
	for i := 0; i < len(entries); i += 2 {
		directives = append(directives, Directive{Source: entries[i], Target: entries[i+1]})
	}
	return directives, nil
}

// Flatten is the inverse of Pair.
func Flatten(directives []Directive) []string {
	out := make([]string, 0, len(directives)*2)
	for _, d := range directives {
		out = append(out, d.Source, d.Target)
	}
	return out
}
