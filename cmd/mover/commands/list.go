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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/walteh/mover/cmd/mover/opts"
	"github.com/walteh/mover/pkg/batch"
	"github.com/walteh/mover/pkg/directive"
	"github.com/walteh/mover/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates a new list command
func NewListCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the directives the scripts contain",
		Long: `List extracts the mv directives from the configured scripts and prints
them as a table. Nothing on the filesystem is checked or changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.Config

			entries, err := directive.Load(ctx, opts.Fs, cfg.Scripts, cfg.Encoding)
			if err != nil {
				return &ExitError{Code: ExitAbort, Err: errors.Errorf("loading directives: %w", err)}
			}

			directives, err := batch.Pair(entries)
			if err != nil {
				return &ExitError{Code: ExitAbort, Err: err}
			}

			if len(directives) == 0 {
				log.FromContext(ctx).Warning("no directives loaded, check the configured scripts")
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Source", "Target"})
			table.SetAutoWrapText(false)
			for i, d := range directives {
				table.Append([]string{strconv.Itoa(i + 1), d.Source, d.Target})
			}
			table.Render()

			return nil
		},
	}

	return cmd
}
