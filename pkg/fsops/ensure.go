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

package fsops

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/mover/pkg/pathnorm"
)

// DefaultDirMode is the permission used for directories created on demand.
const DefaultDirMode os.FileMode = 0o755

// Ensurer creates a directory together with any missing ancestors.
type Ensurer struct {
	fs   afero.Fs
	norm *pathnorm.Normalizer
	mode os.FileMode
}

// NewEnsurer creates an Ensurer. A zero mode means DefaultDirMode.
func NewEnsurer(fs afero.Fs, norm *pathnorm.Normalizer, mode os.FileMode) *Ensurer {
	if mode == 0 {
		mode = DefaultDirMode
	}
	return &Ensurer{
		fs:   fs,
		norm: norm,
		mode: mode,
	}
}

// Ensure makes sure dir exists as a directory. Ancestors are created first,
// from the root down. Roots are never created.
func (e *Ensurer) Ensure(ctx context.Context, dir string) error {
	abs, err := e.norm.ToAbsolute(dir)
	if err != nil {
		return &Error{Kind: ErrPathResolution, Path: dir, Err: err}
	}

	if info, err := e.fs.Stat(e.norm.OSPath(abs)); err == nil {
		if info.IsDir() {
			return nil
		}
		return &Error{Kind: ErrNameCollision, Path: dir}
	}

	if e.norm.IsRoot(abs) {
		return &Error{Kind: ErrCannotCreateRoot, Path: abs}
	}

	parent, ok := e.norm.Parent(abs)
	if !ok {
		return &Error{Kind: ErrPathResolution, Path: abs, Err: errNoParent}
	}
	if err := e.Ensure(ctx, parent); err != nil {
		return err
	}

	// the ancestor walk may have produced abs already
	if e.isDir(abs) {
		return nil
	}

	zerolog.Ctx(ctx).Trace().Str("dir", abs).Msg("creating directory")
	if err := e.fs.Mkdir(e.norm.OSPath(abs), e.mode); err != nil {
		if e.isDir(abs) {
			return nil
		}
		return &Error{Kind: ErrDirectoryCreation, Path: dir, Err: err}
	}

	return nil
}

func (e *Ensurer) isDir(abs string) bool {
	info, err := e.fs.Stat(e.norm.OSPath(abs))
	return err == nil && info.IsDir()
}
