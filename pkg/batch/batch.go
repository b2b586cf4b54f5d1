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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/mover/pkg/errlog"
	"github.com/walteh/mover/pkg/pathnorm"
	"gitlab.com/tozd/go/errors"
)

// 🚚 Executor moves a single file.
type Executor interface {
	Move(ctx context.Context, source, target string) error
}

// 📝 Sink receives per-directive failures.
type Sink interface {
	Record(ctx context.Context, e errlog.Entry)
	Finalize(ctx context.Context, hadFailures bool) error
	Location() string
	Buffered() []errlog.Entry
}

// 👀 Observer is told about batch progress. Every method is called from the
// goroutine running the batch.
type Observer interface {
	Started(total int)
	Moved(index int, d Directive, err error)
	// Done follows the last move and precedes sink finalization, which may
	// write buffered failures to the console.
	Done()
	Finished(r *Report)
}

type noopObserver struct{}

func (noopObserver) Started(int)                 {}
func (noopObserver) Moved(int, Directive, error) {}
func (noopObserver) Done()                       {}
func (noopObserver) Finished(*Report)            {}

// State is where a batch is in its lifecycle.
type State int

const (
	NotStarted State = iota
	Running
	AllSucceeded
	CompletedWithFailures
	AbortedMalformedInput
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case AllSucceeded:
		return "all succeeded"
	case CompletedWithFailures:
		return "completed with failures"
	case AbortedMalformedInput:
		return "aborted: malformed input"
	}
	return "unknown"
}

// 📊 Report summarizes a batch.
type Report struct {
	Total    int
	Failures int
	State    State
	// LogLocation names the log file holding the failures, if one was kept.
	LogLocation string
	// Buffered is set when failures could only be kept in memory and were
	// written to the console instead.
	Buffered bool
}

// ExitCode maps the report to a process exit status: 0 when everything
// moved, 2 when some moves failed, 1 when the batch never ran.
func (r *Report) ExitCode() int {
	switch r.State {
	case AllSucceeded:
		return 0
	case CompletedWithFailures:
		return 2
	}
	return 1
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithExtendedPaths controls whether paths are qualified with the
// extended-length marker before moving. It is on by default and has no
// effect for styles without a marker.
func WithExtendedPaths(enabled bool) Option {
	return func(o *Orchestrator) {
		o.extended = enabled
	}
}

// WithObserver registers a progress observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// 🎬 Orchestrator runs directives one at a time, in order.
type Orchestrator struct {
	exec     Executor
	norm     *pathnorm.Normalizer
	sink     Sink
	extended bool
	observer Observer
}

// 🏗️ New creates an Orchestrator.
func New(exec Executor, norm *pathnorm.Normalizer, sink Sink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		exec:     exec,
		norm:     norm,
		sink:     sink,
		extended: true,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// qualify sanitizes p and, when enabled, marks it as an extended-length path.
func (o *Orchestrator) qualify(p string) string {
	p = o.norm.Sanitize(p)
	if o.extended {
		p = o.norm.WithMarker(p)
	}
	return p
}

// 🏃 Run pairs entries and moves every directive. Per-directive failures are
// recorded in the sink and never stop the batch. The only batch-level error
// is a malformed entry list, in which case nothing is moved.
func (o *Orchestrator) Run(ctx context.Context, entries []string) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	report := &Report{State: NotStarted}

	directives, err := Pair(entries)
	if err != nil {
		report.State = AbortedMalformedInput
		if ferr := o.sink.Finalize(ctx, false); ferr != nil {
			logger.Warn().Err(ferr).Msg("finalizing error log")
		}
		o.observer.Finished(report)
		return report, errors.Errorf("pairing directives: %w", err)
	}

	report.State = Running
	report.Total = len(directives)
	o.observer.Started(report.Total)

	for i, d := range directives {
		source, target := o.qualify(d.Source), o.qualify(d.Target)

		if err := o.exec.Move(ctx, source, target); err != nil {
			report.Failures++
			logger.Debug().Err(err).Int("index", i).Str("source", source).Str("target", target).Msg("move failed")
			o.sink.Record(ctx, errlog.Entry{Source: source, Target: target, Cause: err})
			o.observer.Moved(i, d, err)
			continue
		}
		o.observer.Moved(i, d, nil)
	}
	o.observer.Done()

	hadFailures := report.Failures > 0
	if err := o.sink.Finalize(ctx, hadFailures); err != nil {
		logger.Warn().Err(err).Msg("finalizing error log")
	}

	if hadFailures {
		report.State = CompletedWithFailures
		report.LogLocation = o.sink.Location()
		report.Buffered = len(o.sink.Buffered()) > 0
	} else {
		report.State = AllSucceeded
	}

	logger.Debug().
		Int("total", report.Total).
		Int("failures", report.Failures).
		Str("state", report.State.String()).
		Msg("batch finished")

	o.observer.Finished(report)
	return report, nil
}
