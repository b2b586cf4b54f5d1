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

package log

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/walteh/mover/pkg/batch"
)

// 📊 Progress reports a running batch on the console. It implements
// batch.Observer.
type Progress struct {
	ctx     context.Context
	l       *Logger
	showBar bool
	verbose bool
	total   int
	bar     *pterm.ProgressbarPrinter
}

var _ batch.Observer = (*Progress)(nil)

// 🏗️ Progress creates a batch observer. With showBar a progress bar tracks
// the batch; with verbose every successful move is listed as well as every
// failure.
func (l *Logger) Progress(ctx context.Context, showBar, verbose bool) *Progress {
	return &Progress{
		ctx:     ctx,
		l:       l,
		showBar: showBar,
		verbose: verbose,
	}
}

// Started is called once the directive list is paired.
func (p *Progress) Started(total int) {
	p.total = total
	if total == 0 {
		p.l.Warning("no directives loaded, check the configured scripts")
		return
	}
	p.l.Infof("attempting to move %d files", total)

	if !p.showBar {
		return
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("moving").
		WithWriter(p.l.Console()).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		p.l.zlog.Debug().Err(err).Msg("progress bar unavailable")
		return
	}
	p.bar = bar
}

// Moved is called after every directive.
func (p *Progress) Moved(index int, d batch.Directive, err error) {
	if err != nil || p.verbose {
		p.l.LogMove(p.ctx, MoveOperation{
			Index:  index,
			Total:  p.total,
			Source: d.Source,
			Target: d.Target,
			Err:    err,
		})
	}
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Done stops the progress bar so later console output is not redrawn over.
func (p *Progress) Done() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
		p.l.LogNewline()
	}
}

// Finished prints the batch summary.
func (p *Progress) Finished(r *batch.Report) {
	p.Done()

	switch r.State {
	case batch.AllSucceeded:
		if r.Total > 0 {
			p.l.Successf("all %d files successfully moved", r.Total)
		}
	case batch.CompletedWithFailures:
		switch {
		case r.LogLocation == "":
			p.l.Warningf("%d of %d moves failed: no log file could be written, details above", r.Failures, r.Total)
		case r.Buffered:
			p.l.Warningf("%d of %d moves failed: see %s and the entries above", r.Failures, r.Total, r.LogLocation)
		default:
			p.l.Warningf("%d of %d moves failed: see %s for details", r.Failures, r.Total, r.LogLocation)
		}
	case batch.AbortedMalformedInput:
		p.l.Error("directive list is malformed, nothing was moved")
	}
}
