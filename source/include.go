// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by an IncludeProvider when the named file cannot
// be located.
var ErrNotFound = errors.New("include file not found")

// IncludeProvider resolves a #include filename to a readable byte stream.
// It is the external collaborator the preprocessor delegates include
// resolution to; the core never touches the filesystem directly.
type IncludeProvider interface {
	// Open returns a stream for filename. If preferSearchPaths is true, the
	// provider's search-path list is consulted before filename as given;
	// otherwise filename as given is tried first. The including file's
	// directory is not passed to the provider.
	Open(filename string, preferSearchPaths bool) (io.ReadCloser, error)
	// SearchPaths returns the provider's mutable list of search directories.
	SearchPaths() *[]string
}

// FileIncludeProvider is the default IncludeProvider, reading from the local
// filesystem relative to its search paths.
type FileIncludeProvider struct {
	paths []string
}

// NewFileIncludeProvider returns a FileIncludeProvider with no search paths.
func NewFileIncludeProvider() *FileIncludeProvider {
	return &FileIncludeProvider{}
}

// SearchPaths implements IncludeProvider.
func (p *FileIncludeProvider) SearchPaths() *[]string { return &p.paths }

// Open implements IncludeProvider.
func (p *FileIncludeProvider) Open(filename string, preferSearchPaths bool) (io.ReadCloser, error) {
	candidates := make([]string, 0, len(p.paths)+1)
	if preferSearchPaths {
		for _, dir := range p.paths {
			candidates = append(candidates, filepath.Join(dir, filename))
		}
		candidates = append(candidates, filename)
	} else {
		candidates = append(candidates, filename)
		for _, dir := range p.paths {
			candidates = append(candidates, filepath.Join(dir, filename))
		}
	}
	for _, c := range candidates {
		if f, err := os.Open(c); err == nil {
			return f, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%s", filename)
}

// ReadAll drains r and closes it, wrapping any I/O error.
func ReadAll(r io.ReadCloser) (string, error) {
	defer r.Close()
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading include stream")
	}
	return string(data), nil
}
