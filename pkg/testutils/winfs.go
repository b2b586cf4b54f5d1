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

// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const winMarker = `\\?\`

// WinFs is an in-memory filesystem with Windows path semantics: drive
// volumes, backslash separators, case-insensitive names and the `\\?\`
// marker. Only Stat, Mkdir, Rename and Remove are implemented; the embedded
// afero.Fs is nil.
type WinFs struct {
	afero.Fs

	mu      sync.Mutex
	entries map[string]bool // key -> is directory

	// Mkdirs records every Mkdir call in order.
	Mkdirs []string
	// Renames records every successful Rename as {old, new}.
	Renames [][2]string
}

// NewWinFs creates a WinFs with the given volumes ("C:").
func NewWinFs(volumes ...string) *WinFs {
	w := &WinFs{entries: map[string]bool{}}
	for _, v := range volumes {
		w.entries[winKey(v)] = true
	}
	return w
}

func winKey(name string) string {
	name = strings.TrimPrefix(name, winMarker)
	name = strings.TrimRight(name, `\`)
	return strings.ToLower(name)
}

func winParent(key string) string {
	i := strings.LastIndexByte(key, '\\')
	if i < 0 {
		return ""
	}
	return key[:i]
}

// AddDir registers a directory and its ancestors.
func (w *WinFs) AddDir(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for k := winKey(name); k != ""; k = winParent(k) {
		w.entries[k] = true
	}
}

// AddFile registers a file and creates its ancestors.
func (w *WinFs) AddFile(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := winKey(name)
	w.entries[k] = false
	for p := winParent(k); p != ""; p = winParent(p) {
		w.entries[p] = true
	}
}

// Exists reports whether name exists.
func (w *WinFs) Exists(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entries[winKey(name)]
	return ok
}

// IsDir reports whether name exists and is a directory.
func (w *WinFs) IsDir(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries[winKey(name)]
}

func (w *WinFs) Name() string { return "WinFs" }

func (w *WinFs) Stat(name string) (os.FileInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	isDir, ok := w.entries[winKey(name)]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}
	return winInfo{name: name, dir: isDir}, nil
}

func (w *WinFs) Mkdir(name string, perm os.FileMode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Mkdirs = append(w.Mkdirs, name)

	k := winKey(name)
	if _, ok := w.entries[k]; ok {
		return &os.PathError{Op: "mkdir", Path: name, Err: os.ErrExist}
	}
	p := winParent(k)
	if p == "" {
		return &os.PathError{Op: "mkdir", Path: name, Err: os.ErrPermission}
	}
	if !w.entries[p] {
		return &os.PathError{Op: "mkdir", Path: name, Err: os.ErrNotExist}
	}
	w.entries[k] = true
	return nil
}

func (w *WinFs) Rename(oldname, newname string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ko, kn := winKey(oldname), winKey(newname)
	isDir, ok := w.entries[ko]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrNotExist}
	}
	if !w.entries[winParent(kn)] {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrNotExist}
	}
	if _, taken := w.entries[kn]; taken {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrExist}
	}
	delete(w.entries, ko)
	w.entries[kn] = isDir
	w.Renames = append(w.Renames, [2]string{oldname, newname})
	return nil
}

func (w *WinFs) Remove(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := winKey(name)
	if _, ok := w.entries[k]; !ok {
		return &os.PathError{Op: "remove", Path: name, Err: os.ErrNotExist}
	}
	delete(w.entries, k)
	return nil
}

type winInfo struct {
	name string
	dir  bool
}

func (i winInfo) Name() string       { return i.name }
func (i winInfo) Size() int64        { return 0 }
func (i winInfo) ModTime() time.Time { return time.Time{} }
func (i winInfo) IsDir() bool        { return i.dir }
func (i winInfo) Sys() any           { return nil }

func (i winInfo) Mode() os.FileMode {
	if i.dir {
		return os.ModeDir | 0o755
	}
	return 0o644
}
