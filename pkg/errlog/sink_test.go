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

package errlog

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext() context.Context {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())
}

var errDisk = errors.New("disk full")

// brokenFs hands out files whose writes always fail.
type brokenFs struct {
	afero.Fs
}

func (b brokenFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := b.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return brokenFile{f}, nil
}

type brokenFile struct {
	afero.File
}

func (brokenFile) Write([]byte) (int, error) { return 0, errDisk }
func (brokenFile) WriteString(string) (int, error) { return 0, errDisk }

func TestCandidate(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		attempt  int
		want     string
	}{
		{name: "plain", identity: "Mover_error.log", attempt: -1, want: "Mover_error.log"},
		{name: "first_suffix", identity: "Mover_error.log", attempt: 0, want: "Mover_error0.log"},
		{name: "later_suffix", identity: "Mover_error.log", attempt: 12, want: "Mover_error12.log"},
		{name: "no_extension", identity: "errors", attempt: 3, want: "errors3"},
		{name: "with_directory", identity: "logs/run.log", attempt: 1, want: "logs/run1.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, candidate(tt.identity, tt.attempt), "candidate name should match")
		})
	}
}

func TestOpenAvoidsCollisions(t *testing.T) {
	ctx := testContext()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "Mover_error.log", []byte("old"), 0o644), "seeding log should succeed")
	require.NoError(t, afero.WriteFile(fs, "Mover_error0.log", []byte("old"), 0o644), "seeding log should succeed")

	s := New(fs)
	require.True(t, s.Open(ctx, "Mover_error.log"), "Open should find a free name")
	assert.True(t, s.Durable(), "sink should be durable")
	assert.Equal(t, "Mover_error1.log", s.Location(), "first free suffix should be used")

	content, err := afero.ReadFile(fs, "Mover_error.log")
	require.NoError(t, err, "reading existing log should succeed")
	assert.Equal(t, "old", string(content), "existing log should be untouched")
}

func TestOpenExhaustsAttempts(t *testing.T) {
	ctx := testContext()
	fs := afero.NewMemMapFs()
	for _, name := range []string{"e.log", "e0.log", "e1.log"} {
		require.NoError(t, afero.WriteFile(fs, name, nil, 0o644), "seeding log should succeed")
	}

	s := New(fs, WithMaxAttempts(2))
	assert.False(t, s.Open(ctx, "e.log"), "Open should give up")
	assert.False(t, s.Durable(), "sink should not be durable")
	assert.Empty(t, s.Location(), "no location should be kept")
}

func TestRecordDurable(t *testing.T) {
	ctx := testContext()
	fs := afero.NewMemMapFs()
	s := New(fs)
	require.True(t, s.Open(ctx, "Mover_error.log"), "Open should succeed")

	s.Record(ctx, Entry{Source: `C:\a.txt`, Target: `C:\b.txt`, Cause: errors.New("access denied")})
	s.Record(ctx, Entry{Source: `C:\c.txt`, Target: `C:\d.txt`, Cause: errors.New("not found")})

	// entries are on disk before Finalize
	content, err := afero.ReadFile(fs, "Mover_error.log")
	require.NoError(t, err, "reading log should succeed")
	assert.Equal(t,
		"Failed to move \"C:\\a.txt\" to \"C:\\b.txt\": access denied\n"+
			"Failed to move \"C:\\c.txt\" to \"C:\\d.txt\": not found\n",
		string(content), "log content should match")
	assert.Equal(t, 2, s.Count(), "both entries should be counted")
	assert.Empty(t, s.Buffered(), "nothing should be buffered")

	var console bytes.Buffer
	s.console = &console
	require.NoError(t, s.Finalize(ctx, true), "Finalize should succeed")
	assert.Empty(t, console.String(), "durable entries should not be echoed")
	assert.False(t, s.Durable(), "sink should be closed")
	assert.Equal(t, "Mover_error.log", s.Location(), "location should be kept after failures")

	exists, err := afero.Exists(fs, "Mover_error.log")
	require.NoError(t, err, "checking log should succeed")
	assert.True(t, exists, "log should remain after failures")
}

func TestFinalizeCleanRunRemovesLog(t *testing.T) {
	ctx := testContext()
	fs := afero.NewMemMapFs()
	s := New(fs)
	require.True(t, s.Open(ctx, "Mover_error.log"), "Open should succeed")

	require.NoError(t, s.Finalize(ctx, false), "Finalize should succeed")

	exists, err := afero.Exists(fs, "Mover_error.log")
	require.NoError(t, err, "checking log should succeed")
	assert.False(t, exists, "log should be removed after a clean run")
	assert.Empty(t, s.Location(), "location should be cleared")
}

func TestBufferFallback(t *testing.T) {
	ctx := testContext()
	var console bytes.Buffer
	s := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), WithConsole(&console))

	assert.False(t, s.Open(ctx, "Mover_error.log"), "Open should fail on a read-only filesystem")

	first := Entry{Source: "/a", Target: "/b", Cause: errors.New("boom")}
	second := Entry{Source: "/c", Target: "/d", Cause: errors.New("bang")}
	s.Record(ctx, first)
	s.Record(ctx, second)
	assert.Equal(t, []Entry{first, second}, s.Buffered(), "entries should be buffered in order")

	require.NoError(t, s.Finalize(ctx, true), "Finalize should succeed")
	assert.Equal(t,
		"Failed to move \"/a\" to \"/b\": boom\nFailed to move \"/c\" to \"/d\": bang\n",
		console.String(), "buffered entries should be printed")
}

func TestFinalizeCleanRunPrintsNothing(t *testing.T) {
	ctx := testContext()
	var console bytes.Buffer
	s := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), WithConsole(&console))
	assert.False(t, s.Open(ctx, "Mover_error.log"), "Open should fail on a read-only filesystem")

	require.NoError(t, s.Finalize(ctx, false), "Finalize should succeed")
	assert.Empty(t, console.String(), "nothing should be printed")
}

func TestWriteFailureBuffersEntry(t *testing.T) {
	ctx := testContext()
	var console bytes.Buffer
	s := New(brokenFs{afero.NewMemMapFs()}, WithConsole(&console))
	require.True(t, s.Open(ctx, "Mover_error.log"), "Open should succeed")

	e := Entry{Source: "/a", Target: "/b", Cause: errors.New("boom")}
	s.Record(ctx, e)
	assert.Equal(t, []Entry{e}, s.Buffered(), "failed write should be buffered")
	assert.Equal(t, 1, s.Count(), "entry should be counted once")

	require.NoError(t, s.Finalize(ctx, true), "Finalize should succeed")
	assert.Contains(t, console.String(), `Failed to move "/a" to "/b": boom`, "buffered entry should reach the console")
}
