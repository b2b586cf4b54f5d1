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

// Package fsops relocates single files on an afero filesystem, creating the
// target directory chain on demand.
package fsops

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/mover/pkg/pathnorm"
	"gitlab.com/tozd/go/errors"
)

// Options configures a Mover.
type Options struct {
	// Fs is the filesystem moves are performed on
	Fs afero.Fs
	// Normalizer canonicalizes source and target paths
	Normalizer *pathnorm.Normalizer
	// DirMode is used for directories created on demand
	DirMode os.FileMode
	// Overwrite lets a move replace an existing target
	Overwrite bool
}

// Mover moves one file at a time.
type Mover struct {
	fs        afero.Fs
	norm      *pathnorm.Normalizer
	ensurer   *Ensurer
	overwrite bool
}

// New creates a Mover.
func New(opts Options) (*Mover, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if opts.Normalizer == nil {
		return nil, errors.Errorf("path normalizer is required")
	}
	return &Mover{
		fs:        opts.Fs,
		norm:      opts.Normalizer,
		ensurer:   NewEnsurer(opts.Fs, opts.Normalizer, opts.DirMode),
		overwrite: opts.Overwrite,
	}, nil
}

// Move relocates source to target. The target's directory is created if
// missing. On success source no longer exists and target does.
func (m *Mover) Move(ctx context.Context, source, target string) error {
	srcAbs, err := m.norm.ToAbsolute(source)
	if err != nil {
		return &Error{Kind: ErrPathResolution, Side: "source", Path: source, Err: err}
	}
	tgtAbs, err := m.norm.ToAbsolute(target)
	if err != nil {
		return &Error{Kind: ErrPathResolution, Side: "target", Path: target, Err: err}
	}

	if _, err := m.fs.Stat(m.norm.OSPath(srcAbs)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Error{Kind: ErrSourceNotFound, Side: "source", Path: srcAbs}
		}
		return &Error{Kind: ErrMoveExecution, Side: "source", Path: srcAbs, Err: err}
	}

	dir, ok := m.norm.Parent(tgtAbs)
	if !ok {
		return &Error{Kind: ErrPathResolution, Side: "target", Path: target, Err: errNoParent}
	}
	if err := m.ensurer.Ensure(ctx, dir); err != nil {
		return err
	}

	if !m.overwrite {
		_, err := m.fs.Stat(m.norm.OSPath(tgtAbs))
		switch {
		case err == nil:
			return &Error{Kind: ErrMoveExecution, Side: "target", Path: tgtAbs, Err: errTargetExists}
		case !errors.Is(err, os.ErrNotExist):
			return &Error{Kind: ErrMoveExecution, Side: "target", Path: tgtAbs, Err: err}
		}
	}

	if err := m.fs.Rename(m.norm.OSPath(srcAbs), m.norm.OSPath(tgtAbs)); err != nil {
		return &Error{Kind: ErrMoveExecution, Path: srcAbs, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("source", srcAbs).Str("target", tgtAbs).Msg("moved file")
	return nil
}
