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
	"os"
	"strconv"
	"strings"

	"github.com/walteh/mover/pkg/directive"
	"github.com/walteh/mover/pkg/errlog"
	"github.com/walteh/mover/pkg/pathnorm"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultScript is the directive file read when nothing else is configured.
	DefaultScript = "sm_move.sh"
	// DefaultLogFile is the base name of the failure log.
	DefaultLogFile = "Mover_error.log"
	// DefaultDirMode is the octal permission for created directories.
	DefaultDirMode = "0755"
)

// 📚 Config holds every setting of a mover run.
type Config struct {
	Scripts       []string `json:"scripts" yaml:"scripts" hcl:"scripts,optional"`
	Encoding      string   `json:"encoding" yaml:"encoding" hcl:"encoding,optional"`
	LogFile       string   `json:"log_file" yaml:"log_file" hcl:"log_file,optional"`
	LogAttempts   int      `json:"log_attempts" yaml:"log_attempts" hcl:"log_attempts,optional"`
	PathStyle     string   `json:"path_style" yaml:"path_style" hcl:"path_style,optional"` // "windows", "posix" or "" for the host style
	ExtendedPaths bool     `json:"extended_paths" yaml:"extended_paths" hcl:"extended_paths,optional"`
	Overwrite     bool     `json:"overwrite" yaml:"overwrite" hcl:"overwrite,optional"`
	DirMode       string   `json:"dir_mode" yaml:"dir_mode" hcl:"dir_mode,optional"`
	Progress      bool     `json:"progress" yaml:"progress" hcl:"progress,optional"`
	Pause         bool     `json:"pause" yaml:"pause" hcl:"pause,optional"`
}

// 🏗️ Default returns the settings the tool runs with when no file is given.
func Default() *Config {
	return &Config{
		Scripts:       []string{DefaultScript},
		Encoding:      directive.DefaultEncoding,
		LogFile:       DefaultLogFile,
		LogAttempts:   errlog.DefaultMaxAttempts,
		ExtendedPaths: true,
		DirMode:       DefaultDirMode,
		Progress:      true,
	}
}

// 🔍 Validate checks every field and normalizes the ones with aliases.
func (cfg *Config) Validate() error {
	if len(cfg.Scripts) == 0 {
		return errors.New("scripts must name at least one file or pattern")
	}
	for i, s := range cfg.Scripts {
		if strings.TrimSpace(s) == "" {
			return errors.Errorf("scripts[%d] is empty", i)
		}
	}
	if strings.TrimSpace(cfg.LogFile) == "" {
		return errors.New("log_file is required")
	}
	if cfg.LogAttempts < 1 {
		return errors.Errorf("log_attempts must be positive, got %d", cfg.LogAttempts)
	}
	if _, err := directive.Codec(cfg.Encoding); err != nil {
		return errors.Errorf("encoding: %w", err)
	}
	if _, err := cfg.Style(); err != nil {
		return errors.Errorf("path_style: %w", err)
	}
	if _, err := cfg.Mode(); err != nil {
		return errors.Errorf("dir_mode: %w", err)
	}

	cfg.PathStyle = strings.ToLower(strings.TrimSpace(cfg.PathStyle))
	return nil
}

// Style resolves PathStyle, falling back to the host's style.
func (cfg *Config) Style() (pathnorm.Style, error) {
	return pathnorm.StyleByName(cfg.PathStyle)
}

// Mode parses DirMode as an octal permission.
func (cfg *Config) Mode() (os.FileMode, error) {
	if cfg.DirMode == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(cfg.DirMode, 8, 32)
	if err != nil {
		return 0, errors.Errorf("parsing %q as octal: %w", cfg.DirMode, err)
	}
	if v > 0o777 {
		return 0, errors.Errorf("%q is not a permission", cfg.DirMode)
	}
	return os.FileMode(v), nil
}
