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

package config

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/mover/pkg/pathnorm"
)

func testContext() context.Context {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate(), "defaults should be valid")
	assert.Equal(t, []string{"sm_move.sh"}, cfg.Scripts, "default script should match")
	assert.Equal(t, "Mover_error.log", cfg.LogFile, "default log should match")
	assert.Equal(t, 1000, cfg.LogAttempts, "default attempts should match")
	assert.True(t, cfg.ExtendedPaths, "extended paths should default on")
	assert.True(t, cfg.Progress, "progress should default on")
	assert.False(t, cfg.Overwrite, "overwrite should default off")

	mode, err := cfg.Mode()
	require.NoError(t, err, "default mode should parse")
	assert.Equal(t, os.FileMode(0o755), mode, "default mode should match")
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_full",
			filename: "mover.yaml",
			config: `
scripts:
  - moves/*.sh
  - extra.sh
encoding: utf-16le
log_file: logs/failures.log
log_attempts: 5
path_style: Windows
extended_paths: false
overwrite: true
dir_mode: "0700"
progress: false
pause: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"moves/*.sh", "extra.sh"}, cfg.Scripts, "scripts should match")
				assert.Equal(t, "utf-16le", cfg.Encoding, "encoding should match")
				assert.Equal(t, "logs/failures.log", cfg.LogFile, "log file should match")
				assert.Equal(t, 5, cfg.LogAttempts, "attempts should match")
				assert.Equal(t, "windows", cfg.PathStyle, "style should be normalized")
				assert.False(t, cfg.ExtendedPaths, "extended paths should be off")
				assert.True(t, cfg.Overwrite, "overwrite should be on")
				assert.False(t, cfg.Progress, "progress should be off")
				assert.True(t, cfg.Pause, "pause should be on")

				style, err := cfg.Style()
				require.NoError(t, err, "style should resolve")
				assert.Equal(t, pathnorm.Windows, style, "style should be windows")

				mode, err := cfg.Mode()
				require.NoError(t, err, "mode should parse")
				assert.Equal(t, os.FileMode(0o700), mode, "mode should match")
			},
		},
		{
			name:     "yaml_partial_keeps_defaults",
			filename: "mover.yml",
			config:   "overwrite: true\n",
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Overwrite, "overwrite should be on")
				assert.Equal(t, []string{"sm_move.sh"}, cfg.Scripts, "scripts should keep the default")
				assert.True(t, cfg.ExtendedPaths, "extended paths should keep the default")
			},
		},
		{
			name:     "yaml_empty_document",
			filename: "mover.yaml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg, "empty file should equal the defaults")
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "mover.yaml",
			config:      "dry_run: true\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:     "json_config",
			filename: "mover.json",
			config:   `{"scripts": ["a.sh"], "path_style": "posix", "log_attempts": 3}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"a.sh"}, cfg.Scripts, "scripts should match")
				assert.Equal(t, "posix", cfg.PathStyle, "style should match")
				assert.Equal(t, 3, cfg.LogAttempts, "attempts should match")
				assert.Equal(t, "Mover_error.log", cfg.LogFile, "log file should keep the default")
			},
		},
		{
			name:        "json_unknown_field",
			filename:    "mover.json",
			config:      `{"destination": "x"}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:     "hcl_config",
			filename: "mover.hcl",
			config: `
scripts  = ["a.sh", "b/**/*.sh"]
overwrite = true
dir_mode  = "0750"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"a.sh", "b/**/*.sh"}, cfg.Scripts, "scripts should match")
				assert.True(t, cfg.Overwrite, "overwrite should be on")
				assert.Equal(t, "0750", cfg.DirMode, "dir mode should match")
				assert.Equal(t, "Mover_error.log", cfg.LogFile, "log file should keep the default")
			},
		},
		{
			name:        "hcl_unknown_attribute",
			filename:    "mover.hcl",
			config:      `destination = "x"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "mover.toml",
			config:      "",
			wantErr:     true,
			errContains: "no parser found",
		},
		{
			name:        "bad_style",
			filename:    "mover.yaml",
			config:      "path_style: vms\n",
			wantErr:     true,
			errContains: "path_style",
		},
		{
			name:        "bad_mode",
			filename:    "mover.yaml",
			config:      "dir_mode: \"0899\"\n",
			wantErr:     true,
			errContains: "dir_mode",
		},
		{
			name:        "mode_out_of_range",
			filename:    "mover.yaml",
			config:      "dir_mode: \"7777\"\n",
			wantErr:     true,
			errContains: "is not a permission",
		},
		{
			name:        "bad_encoding",
			filename:    "mover.yaml",
			config:      "encoding: klingon\n",
			wantErr:     true,
			errContains: "encoding",
		},
		{
			name:        "no_scripts",
			filename:    "mover.yaml",
			config:      "scripts: []\n",
			wantErr:     true,
			errContains: "scripts must name",
		},
		{
			name:        "empty_script",
			filename:    "mover.yaml",
			config:      "scripts: [\" \"]\n",
			wantErr:     true,
			errContains: "scripts[0] is empty",
		},
		{
			name:        "zero_attempts",
			filename:    "mover.yaml",
			config:      "log_attempts: 0\n",
			wantErr:     true,
			errContains: "log_attempts must be positive",
		},
		{
			name:        "empty_log_file",
			filename:    "mover.yaml",
			config:      "log_file: \"\"\n",
			wantErr:     true,
			errContains: "log_file is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.filename, []byte(tt.config), 0o644), "writing config should succeed")

			cfg, err := Load(testContext(), fs, tt.filename)
			if tt.wantErr {
				require.Error(t, err, "Load should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "Load should succeed")
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(testContext(), afero.NewMemMapFs(), "missing.yaml")
	require.Error(t, err, "Load should fail")
	assert.ErrorIs(t, err, os.ErrNotExist, "error should wrap the missing file")
}

func TestHCLEnvironment(t *testing.T) {
	p := &HCLParser{Environ: func() []string {
		return []string{"MOVES=/srv/moves", "=C:=C:\\ignored", "BROKEN"}
	}}

	cfg := Default()
	err := p.Parse(testContext(), "mover.hcl", []byte(`scripts = ["${env.MOVES}/**/*.sh"]`), cfg)
	require.NoError(t, err, "Parse should succeed")
	assert.Equal(t, []string{"/srv/moves/**/*.sh"}, cfg.Scripts, "env variable should be interpolated")

	empty := &HCLParser{Environ: func() []string { return nil }}
	err = empty.Parse(testContext(), "mover.hcl", []byte(`overwrite = true`), Default())
	require.NoError(t, err, "Parse without environment should succeed")
}

func TestFind(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, ok := Find(fs, "/work")
	assert.False(t, ok, "nothing should be found in an empty directory")

	require.NoError(t, afero.WriteFile(fs, "/work/mover.json", []byte("{}"), 0o644), "writing config should succeed")
	require.NoError(t, afero.WriteFile(fs, "/work/mover.yaml", []byte(""), 0o644), "writing config should succeed")
	require.NoError(t, fs.MkdirAll("/work/mover.hcl", 0o755), "creating directory should succeed")

	path, ok := Find(fs, "/work")
	require.True(t, ok, "a config file should be found")
	assert.Equal(t, "/work/mover.yaml", path, "yaml should win over json and directories are skipped")
}
