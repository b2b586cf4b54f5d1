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

package pathnorm

import (
	"runtime"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Style describes the path grammar of a platform.
type Style struct {
	Name         string
	Separator    byte   // canonical separator
	AltSeparator byte   // also accepted on input, 0 if none
	Marker       string // extended-length prefix, empty if the platform has none
	Volumes      bool   // paths are rooted at drive-letter volumes ("C:")
}

var (
	// Windows paths: "C:\dir\file", "\\?\C:\dir\file".
	Windows = Style{
		Name:         "windows",
		Separator:    '\\',
		AltSeparator: '/',
		Marker:       `\\?\`,
		Volumes:      true,
	}

	// POSIX paths: "/dir/file".
	POSIX = Style{
		Name:      "posix",
		Separator: '/',
	}
)

// Native returns the style of the running platform.
func Native() Style {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return POSIX
}

// StyleByName resolves a configured style name. An empty name means native.
func StyleByName(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "native":
		return Native(), nil
	case Windows.Name:
		return Windows, nil
	case POSIX.Name:
		return POSIX, nil
	default:
		return Style{}, errors.Errorf("unknown path style %q", name)
	}
}

func (s Style) isSeparator(c byte) bool {
	return c == s.Separator || (s.AltSeparator != 0 && c == s.AltSeparator)
}

// volume returns the drive designator ("C:") that prefixes p, or "".
func (s Style) volume(p string) string {
	if !s.Volumes || len(p) < 2 || p[1] != ':' {
		return ""
	}
	c := p[0]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return p[:2]
	}
	return ""
}
