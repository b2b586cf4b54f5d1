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

// Package errlog records move failures in a log file, falling back to an
// in-memory buffer when no file can be written.
package errlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxAttempts bounds the number of suffixed names tried by Open.
const DefaultMaxAttempts = 1000

// Entry is one failed move.
type Entry struct {
	Source string
	Target string
	Cause  error
}

func (e Entry) String() string {
	return fmt.Sprintf("Failed to move \"%s\" to \"%s\": %v", e.Source, e.Target, e.Cause)
}

// Option configures a Sink.
type Option func(*Sink)

// WithConsole sets where buffered entries are written when no log file
// could be kept.
func WithConsole(w io.Writer) Option {
	return func(s *Sink) {
		s.console = w
	}
}

// WithMaxAttempts sets how many suffixed names Open tries after the plain
// identity is taken.
func WithMaxAttempts(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// Sink accepts failure entries for a single batch.
type Sink struct {
	fs          afero.Fs
	console     io.Writer
	maxAttempts int

	mu       sync.Mutex
	file     afero.File
	location string
	buffered []Entry
	count    int
}

// New creates a Sink writing to fs. Without WithConsole buffered entries go
// to stderr.
func New(fs afero.Fs, opts ...Option) *Sink {
	s := &Sink{
		fs:          fs,
		console:     os.Stderr,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// candidate returns the name tried on the given attempt: the identity
// itself first, then name0.ext, name1.ext and so on.
func candidate(identity string, attempt int) string {
	if attempt < 0 {
		return identity
	}
	ext := filepath.Ext(identity)
	return identity[:len(identity)-len(ext)] + strconv.Itoa(attempt) + ext
}

// Open creates the log file. When identity is taken a numbered variant is
// used instead. The existence check and the creation are a single
// O_EXCL open. It reports whether entries will be written durably.
func (s *Sink) Open(ctx context.Context, identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		return true
	}

	for attempt := -1; attempt < s.maxAttempts; attempt++ {
		name := candidate(identity, attempt)
		f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			s.file = f
			s.location = name
			zerolog.Ctx(ctx).Debug().Str("log", name).Msg("opened error log")
			return true
		}
		if errors.Is(err, os.ErrExist) {
			continue
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("log", name).Msg("error log unavailable, buffering failures in memory")
		return false
	}

	zerolog.Ctx(ctx).Warn().Str("log", identity).Int("attempts", s.maxAttempts+1).Msg("no free error log name, buffering failures in memory")
	return false
}

// Record stores e. A durable sink writes and syncs immediately so a crash
// still leaves the entries recorded so far; an entry whose write fails is
// buffered instead.
func (s *Sink) Record(ctx context.Context, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.file != nil {
		err := s.write(e)
		if err == nil {
			return
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("log", s.location).Msg("writing error log failed, buffering entry")
	}
	s.buffered = append(s.buffered, e)
}

func (s *Sink) write(e Entry) error {
	if _, err := io.WriteString(s.file, e.String()+"\n"); err != nil {
		return errors.Errorf("writing entry: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return errors.Errorf("syncing log: %w", err)
	}
	return nil
}

// Finalize closes the log. Without failures the log file is removed. With
// failures any buffered entries are written to the console.
func (s *Sink) Finalize(ctx context.Context, hadFailures bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, errors.Errorf("closing error log %s: %w", s.location, err))
		}
		s.file = nil
		if !hadFailures {
			if err := s.fs.Remove(s.location); err != nil {
				errs = append(errs, errors.Errorf("removing error log %s: %w", s.location, err))
			} else {
				zerolog.Ctx(ctx).Debug().Str("log", s.location).Msg("removed error log after clean run")
				s.location = ""
			}
		}
	}

	if hadFailures && len(s.buffered) > 0 {
		for _, e := range s.buffered {
			if _, err := fmt.Fprintln(s.console, e.String()); err != nil {
				errs = append(errs, errors.Errorf("writing buffered entries: %w", err))
				break
			}
		}
	}

	return errors.Join(errs...)
}

// Durable reports whether a log file is currently open.
func (s *Sink) Durable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// Location is the name of the log file, or "" if none was kept.
func (s *Sink) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Buffered returns the entries held in memory, in recording order.
func (s *Sink) Buffered() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.buffered))
	copy(out, s.buffered)
	return out
}

// Count is the number of entries recorded so far.
func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
