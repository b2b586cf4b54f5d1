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

package main

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/mover/cmd/mover/commands"
	"github.com/walteh/mover/cmd/mover/opts"
	"github.com/walteh/mover/pkg/config"
	"github.com/walteh/mover/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the values of the persistent flags
type rootFlags struct {
	configFile string
	debug      bool
	verbose    bool
	scripts    []string
	logFile    string
	style      string
	encoding   string
	overwrite  bool
	noProgress bool
	pause      bool
}

// newRootCmd builds the command tree around o. Config and the context logger are filled
// in before any command runs.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "mover",
		Short: "Move files as listed in generated mv scripts",
		Long: `mover reads scripts made of lines like

    mv -f "C:\old\place\file.txt" "D:\new\place\file.txt"

and moves every listed file, creating target folders on the way. Failed moves
are written to Mover_error.log and never stop the batch.

Exit codes: 0 all moved, 2 some moves failed, 1 nothing could be done.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.debug, cmd.ErrOrStderr())
			return newRootOpts(cmd, flags, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Run(cmd.Context(), o)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewListCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "config file path (default: first of "+strings.Join(config.DefaultFiles, ", ")+" in the working directory)")
	pf.BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "list successful moves as well as failures")
	pf.StringArrayVarP(&f.scripts, "script", "s", nil, "directive script path or glob (repeatable)")
	pf.StringVar(&f.logFile, "log", "", "error log file name")
	pf.StringVar(&f.style, "style", "", "path style: windows, posix or native")
	pf.StringVar(&f.encoding, "encoding", "", "script encoding label, e.g. utf-8, utf-16le, windows-1252")
	pf.BoolVar(&f.overwrite, "overwrite", false, "replace existing targets")
	pf.BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar")
	pf.BoolVar(&f.pause, "pause", false, "wait for Enter before exiting")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool, w io.Writer) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// newRootOpts loads the config, applies flag overrides and creates the
// console logger.
func newRootOpts(cmd *cobra.Command, f *rootFlags, o *opts.RootOpts) error {
	ctx := cmd.Context()
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Stdin == nil {
		o.Stdin = cmd.InOrStdin()
	}

	cfg, err := loadConfig(ctx, o.Fs, f.configFile)
	if err != nil {
		return &commands.ExitError{Code: commands.ExitAbort, Err: err}
	}

	changed := cmd.Flags().Changed
	if changed("script") {
		cfg.Scripts = f.scripts
	}
	if changed("log") {
		cfg.LogFile = f.logFile
	}
	if changed("style") {
		cfg.PathStyle = f.style
	}
	if changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if changed("overwrite") {
		cfg.Overwrite = f.overwrite
	}
	if changed("no-progress") {
		cfg.Progress = !f.noProgress
	}
	if changed("pause") {
		cfg.Pause = f.pause
	}

	if err := cfg.Validate(); err != nil {
		return &commands.ExitError{Code: commands.ExitAbort, Err: errors.Errorf("validating flags: %w", err)}
	}

	level := zerolog.WarnLevel
	if f.debug {
		level = zerolog.DebugLevel
	}

	o.Config = cfg
	o.Verbose = f.verbose
	cmd.SetContext(log.NewContext(ctx, log.New(cmd.OutOrStdout(), level)))
	return nil
}

// loadConfig reads path, or the first default config file present, or falls
// back to the built-in defaults.
func loadConfig(ctx context.Context, fs afero.Fs, path string) (*config.Config, error) {
	if path == "" {
		found, ok := config.Find(fs, ".")
		if !ok {
			zerolog.Ctx(ctx).Debug().Msg("no config file found, using defaults")
			return config.Default(), nil
		}
		path = found
	}

	cfg, err := config.Load(ctx, fs, path)
	if err != nil {
		return nil, errors.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}
