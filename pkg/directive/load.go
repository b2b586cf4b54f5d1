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

package directive

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrUnreadable marks a directive source that could not be found or read.
var ErrUnreadable = errors.New("directive source unreadable")

// maxParallelReads bounds concurrent script reads.
const maxParallelReads = 8

// Load reads every script matched by patterns and returns their directives
// concatenated. A pattern is either a literal path or a doublestar glob;
// glob matches are taken in lexical order and a file matched twice is read
// once. The result is ordered by pattern, then by file, then by line.
func Load(ctx context.Context, fs afero.Fs, patterns []string, label string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, errors.Errorf("%w: no script given", ErrUnreadable)
	}
	if _, err := Codec(label); err != nil {
		return nil, err
	}

	files, err := resolve(fs, patterns)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Strs("files", files).Msg("loading directive scripts")

	results := make([][]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)

	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries, err := readScript(fs, name, label)
			if err != nil {
				return err
			}
			zerolog.Ctx(ctx).Trace().Str("file", name).Int("entries", len(entries)).Msg("extracted directives")
			results[i] = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func readScript(fs afero.Fs, name, label string) ([]string, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, errors.Errorf("%w: opening %s: %w", ErrUnreadable, name, err)
	}
	defer f.Close()

	text, err := Decode(f, label)
	if err != nil {
		return nil, errors.Errorf("%w: reading %s: %w", ErrUnreadable, name, err)
	}
	return Extract(text), nil
}

// resolve expands patterns into an ordered, duplicate free file list.
func resolve(fs afero.Fs, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, pattern := range patterns {
		matches, err := expand(fs, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	return files, nil
}

func expand(fs afero.Fs, pattern string) ([]string, error) {
	if !isGlob(pattern) {
		info, err := fs.Stat(pattern)
		if err != nil {
			return nil, errors.Errorf("%w: %s: %w", ErrUnreadable, pattern, err)
		}
		if info.IsDir() {
			return nil, errors.Errorf("%w: %s is a directory", ErrUnreadable, pattern)
		}
		return []string{pattern}, nil
	}

	base, rel := doublestar.SplitPattern(pattern)
	searchFs := fs
	if base != "." {
		searchFs = afero.NewBasePathFs(fs, base)
	}

	matches, err := doublestar.Glob(afero.NewIOFS(searchFs), rel, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("%w: no script matches %q", ErrUnreadable, pattern)
	}

	sort.Strings(matches)
	if base != "." {
		for i, m := range matches {
			matches[i] = path.Join(base, m)
		}
	}
	return matches, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
