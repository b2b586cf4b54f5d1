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

// Package pathnorm turns raw path strings into the canonical form the move
// engine works with: absolute, one separator style, and an explicit
// extended-length marker that can be stripped and restored.
package pathnorm

import (
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Normalizer canonicalizes paths for a single Style.
type Normalizer struct {
	style Style
	getwd func() (string, error)
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithWorkingDir sets the function used to resolve relative paths.
func WithWorkingDir(fn func() (string, error)) Option {
	return func(n *Normalizer) {
		n.getwd = fn
	}
}

// New creates a Normalizer for style. Relative paths resolve against
// os.Getwd unless WithWorkingDir is given.
func New(style Style, opts ...Option) *Normalizer {
	n := &Normalizer{
		style: style,
		getwd: os.Getwd,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Style returns the path grammar this Normalizer applies.
func (n *Normalizer) Style() Style {
	return n.style
}

// StripMarker removes the extended-length marker from the start of p.
func (n *Normalizer) StripMarker(p string) (string, bool) {
	if n.style.Marker == "" || !strings.HasPrefix(p, n.style.Marker) {
		return p, false
	}
	return p[len(n.style.Marker):], true
}

// WithMarker prefixes p with the extended-length marker unless it already
// carries one.
func (n *Normalizer) WithMarker(p string) string {
	if n.style.Marker == "" || strings.HasPrefix(p, n.style.Marker) {
		return p
	}
	return n.style.Marker + p
}

func (n *Normalizer) restore(p string, hadMarker bool) string {
	if hadMarker {
		return n.style.Marker + p
	}
	return p
}

// collapse replaces every run of separators with one canonical separator.
func (n *Normalizer) collapse(p string) string {
	sep := n.style.Separator
	var b strings.Builder
	b.Grow(len(p))
	last := byte(0)
	for i := 0; i < len(p); i++ {
		c := p[i]
		if n.style.isSeparator(c) {
			if last == sep {
				continue
			}
			c = sep
		}
		b.WriteByte(c)
		last = c
	}
	return b.String()
}

// Sanitize collapses separator runs into a single canonical separator and
// drops a trailing separator unless the whole path is the separator. The
// marker is kept out of the collapsing and restored afterwards.
func (n *Normalizer) Sanitize(p string) string {
	body, hadMarker := n.StripMarker(p)
	s := n.collapse(body)
	if len(s) > 1 && s[len(s)-1] == n.style.Separator {
		s = s[:len(s)-1]
	}
	return n.restore(s, hadMarker)
}

// ToAbsolute resolves p against the working directory. Dot segments are
// folded lexically and ".." never climbs above the root. A marker on a
// relative path is allowed; it is stripped for the resolution and put back
// on the result.
func (n *Normalizer) ToAbsolute(p string) (string, error) {
	body, hadMarker := n.StripMarker(p)
	body = n.Sanitize(body)
	if body == "" {
		return "", errors.New("empty path")
	}

	root, rest, ok := n.rooted(body)
	if !ok {
		wdRoot, wdRest, err := n.workingDir()
		if err != nil {
			return "", err
		}
		root = wdRoot
		if body[0] == n.style.Separator {
			// rooted on the working directory's volume
			rest = body[1:]
		} else {
			rest = wdRest + string(n.style.Separator) + body
		}
	}

	return n.restore(n.join(root, n.fold(rest)), hadMarker), nil
}

// rooted splits an absolute sanitized path into its root and the remainder.
func (n *Normalizer) rooted(p string) (string, string, bool) {
	sep := n.style.Separator
	if n.style.Volumes {
		vol := n.style.volume(p)
		if vol == "" {
			return "", "", false
		}
		return vol, strings.TrimLeft(p[len(vol):], string(sep)), true
	}
	if p == "" || p[0] != sep {
		return "", "", false
	}
	return string(sep), p[1:], true
}

func (n *Normalizer) workingDir() (string, string, error) {
	wd, err := n.getwd()
	if err != nil {
		return "", "", errors.Errorf("getting working directory: %w", err)
	}
	wd, _ = n.StripMarker(wd)
	wd = n.Sanitize(wd)
	root, rest, ok := n.rooted(wd)
	if !ok {
		return "", "", errors.Errorf("working directory %q is not absolute", wd)
	}
	return root, rest, nil
}

func (n *Normalizer) fold(rest string) []string {
	var segs []string
	for _, seg := range strings.Split(rest, string(n.style.Separator)) {
		switch seg {
		case "", ".":
		case "..":
			if len(segs) > 0 {
				segs = segs[:len(segs)-1]
			}
		default:
			segs = append(segs, seg)
		}
	}
	return segs
}

func (n *Normalizer) join(root string, segs []string) string {
	if len(segs) == 0 {
		return root
	}
	sep := string(n.style.Separator)
	if strings.HasSuffix(root, sep) {
		return root + strings.Join(segs, sep)
	}
	return root + sep + strings.Join(segs, sep)
}

// IsRoot reports whether p is exactly a filesystem root: "X:" on Windows,
// "/" on POSIX. The marker is ignored and separator runs are collapsed, but a
// separator after a drive designator disqualifies it.
func (n *Normalizer) IsRoot(p string) bool {
	body, _ := n.StripMarker(p)
	body = n.collapse(body)
	if n.style.Volumes {
		return len(body) == 2 && n.style.volume(body) != ""
	}
	return body == string(n.style.Separator)
}

// Parent returns the absolute parent of p. It returns false when p cannot
// be resolved or is already a root.
func (n *Normalizer) Parent(p string) (string, bool) {
	abs, err := n.ToAbsolute(p)
	if err != nil || n.IsRoot(abs) {
		return "", false
	}
	body, hadMarker := n.StripMarker(abs)
	i := strings.LastIndexByte(body, n.style.Separator)
	if i < 0 {
		return "", false
	}
	parent := body[:i]
	if parent == "" {
		parent = string(n.style.Separator)
	}
	return n.restore(parent, hadMarker), true
}

// OSPath returns the form of a canonical path handed to filesystem calls.
// A bare volume root gets its separator back so it names the volume and not
// the drive's working directory.
func (n *Normalizer) OSPath(p string) string {
	if n.style.Volumes && n.IsRoot(p) {
		return p + string(n.style.Separator)
	}
	return p
}
