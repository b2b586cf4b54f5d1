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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Failure kinds. Every *Error unwraps to exactly one of them.
var (
	ErrPathResolution    = errors.New("path resolution failed")
	ErrNameCollision     = errors.New("name collision")
	ErrCannotCreateRoot  = errors.New("cannot create filesystem root")
	ErrDirectoryCreation = errors.New("directory creation failed")
	ErrSourceNotFound    = errors.New("source not found")
	ErrMoveExecution     = errors.New("move failed")
)

var (
	errTargetExists = errors.New("target already exists")
	errNoParent     = errors.New("path has no parent directory")
)

// Error is a single directory or move failure.
type Error struct {
	Kind error  // one of the Err* kinds above
	Side string // "source" or "target" when a move names the failing side
	Path string
	Err  error // platform cause, if any
}

func (e *Error) Error() string {
	side := ""
	if e.Side != "" {
		side = e.Side + " "
	}
	switch e.Kind {
	case ErrPathResolution:
		return fmt.Sprintf("failed to get absolute path for %s\"%s\": %v", side, e.Path, e.Err)
	case ErrNameCollision:
		return fmt.Sprintf("cannot create folder \"%s\": file of the same name exists, but is not a folder", e.Path)
	case ErrCannotCreateRoot:
		return fmt.Sprintf("cannot create a new drive \"%s\"", e.Path)
	case ErrDirectoryCreation:
		return fmt.Sprintf("failed to create folder \"%s\": %v", e.Path, e.Err)
	case ErrSourceNotFound:
		return fmt.Sprintf("file \"%s\" does not exist", e.Path)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the failure kind carried by err, or nil.
func KindOf(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return nil
}
