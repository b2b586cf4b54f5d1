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

package directive

import (
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is assumed when no encoding label is configured.
const DefaultEncoding = "utf-8"

// Codec resolves an encoding label such as "utf-8", "utf-16le" or
// "windows-1252". A byte order mark in the input always overrides it.
func Codec(label string) (encoding.Encoding, error) {
	if strings.TrimSpace(label) == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// Decode reads all of r and converts it to UTF-8.
func Decode(r io.Reader, label string) (string, error) {
	enc, err := Codec(label)
	if err != nil {
		return "", err
	}

	dec := unicode.BOMOverride(enc.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", errors.Errorf("decoding %s input: %w", label, err)
	}
	return string(b), nil
}
