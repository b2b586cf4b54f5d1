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

package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPair(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    []Directive
		wantErr bool
	}{
		{
			name:    "empty",
			entries: nil,
			want:    []Directive{},
		},
		{
			name:    "two_pairs",
			entries: []string{"a", "b", "c", "d"},
			want:    []Directive{{Source: "a", Target: "b"}, {Source: "c", Target: "d"}},
		},
		{
			name:    "dangling_entry",
			entries: []string{"a", "b", "c"},
			wantErr: true,
		},
		{
			name:    "single_entry",
			entries: []string{"a"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pair(tt.entries)
			if tt.wantErr {
				require.Error(t, err, "Pair should fail")
				assert.ErrorIs(t, err, ErrMalformedDirectiveList, "error should be a malformed list")
				return
			}
			require.NoError(t, err, "Pair should succeed")
			assert.Equal(t, tt.want, got, "directives should match")
			assert.Equal(t, len(tt.entries), len(Flatten(got)), "Flatten should restore every entry")
		})
	}
}
