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
	"os"

	"github.com/fatih/color"
	"github.com/walteh/mover/cmd/mover/commands"
	"github.com/walteh/mover/cmd/mover/opts"
)

func main() {
	os.Exit(execute(context.Background(), &opts.RootOpts{}, os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, o *opts.RootOpts, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(o)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	code := commands.ExitCode(err)
	// partial failures were already summarized by the batch observer
	if err != nil && code != commands.ExitPartial {
		color.New(color.FgRed).Fprintf(rootCmd.ErrOrStderr(), "❌ %v\n", err)
	}
	return code
}
