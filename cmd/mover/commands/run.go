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

package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/mover/cmd/mover/opts"
	"github.com/walteh/mover/pkg/batch"
	"github.com/walteh/mover/pkg/directive"
	"github.com/walteh/mover/pkg/errlog"
	"github.com/walteh/mover/pkg/fsops"
	"github.com/walteh/mover/pkg/log"
	"github.com/walteh/mover/pkg/pathnorm"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Move every file listed in the directive scripts",
		Long: `Run reads the configured scripts, extracts their mv directives and moves
each file in order. It will:
1. Create missing target directories
2. Record every failed move in the error log and carry on
3. Remove the error log again when nothing failed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), opts)
		},
	}

	return cmd
}

// Run executes the configured batch. The returned error carries the exit
// code through ExitError.
func Run(ctx context.Context, o *opts.RootOpts) error {
	cfg := o.Config
	l := log.FromContext(ctx)

	if cfg.Pause {
		defer waitForEnter(o.Stdin, l.Console())
	}

	l.Header("moving files")

	entries, err := directive.Load(ctx, o.Fs, cfg.Scripts, cfg.Encoding)
	if err != nil {
		return &ExitError{Code: ExitAbort, Err: errors.Errorf("loading directives: %w", err)}
	}

	style, err := cfg.Style()
	if err != nil {
		return &ExitError{Code: ExitAbort, Err: err}
	}
	mode, err := cfg.Mode()
	if err != nil {
		return &ExitError{Code: ExitAbort, Err: err}
	}

	norm := pathnorm.New(style)
	mover, err := fsops.New(fsops.Options{
		Fs:         o.Fs,
		Normalizer: norm,
		DirMode:    mode,
		Overwrite:  cfg.Overwrite,
	})
	if err != nil {
		return &ExitError{Code: ExitAbort, Err: errors.Errorf("creating mover: %w", err)}
	}

	sink := errlog.New(o.Fs,
		errlog.WithConsole(l.Console()),
		errlog.WithMaxAttempts(cfg.LogAttempts),
	)
	if !sink.Open(ctx, cfg.LogFile) {
		l.Warningf("cannot write %s, failures will be printed here", cfg.LogFile)
	}

	orch := batch.New(mover, norm, sink,
		batch.WithExtendedPaths(cfg.ExtendedPaths),
		batch.WithObserver(l.Progress(ctx, cfg.Progress, o.Verbose)),
	)

	report, err := orch.Run(ctx, entries)
	if err != nil {
		return &ExitError{Code: report.ExitCode(), Err: err}
	}

	if code := report.ExitCode(); code != ExitOK {
		return &ExitError{Code: code, Err: errors.Errorf("%d of %d moves failed", report.Failures, report.Total)}
	}
	return nil
}

func waitForEnter(in io.Reader, out io.Writer) {
	if in == nil {
		return
	}
	fmt.Fprint(out, "Press Enter to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
