// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package lime

import (
	"io/fs"
	"os"
	"path/filepath"

	"shanhu.io/misc/errcode"
)

const (
	fileSetLiteral = iota
	fileSetSelect
)

// FileSet selects files for a build unit. It is either a literal
// single file or a pattern-based selection rooted at a directory; the
// two kinds resolve differently and the difference matters: exclude
// lists never apply to literal files.
type FileSet struct {
	kind     int
	file     string
	patterns []string
}

// LiteralFile returns a file set that always resolves to exactly p.
func LiteralFile(p string) *FileSet {
	return &FileSet{kind: fileSetLiteral, file: p}
}

// SelectFiles returns a file set that selects files under a root
// directory with include patterns.
func SelectFiles(patterns ...string) *FileSet {
	ps := make([]string, len(patterns))
	copy(ps, patterns)
	return &FileSet{kind: fileSetSelect, patterns: ps}
}

// ResolveFiles resolves a file set into an ordered list of relative
// paths. baseDir anchors a relative root; excludes reject files that
// would otherwise be selected, and an exclude match wins over any
// include match. A literal file set returns its single path verbatim,
// with no filesystem access and no exclude filtering.
//
// For a pattern-based set the root must exist. A missing root is an
// invariant violation on the caller's side and comes back as an
// internal error; it is not a recoverable condition.
func ResolveFiles(
	set *FileSet, baseDir, root string, excludes []*Glob,
) ([]string, error) {
	switch set.kind {
	case fileSetLiteral:
		// Literal files are exempt from excludes by contract.
		return []string{set.file}, nil
	case fileSetSelect:
		return resolveSelect(set.patterns, baseDir, root, excludes)
	}
	return nil, errcode.Internalf("unknown file set kind %d", set.kind)
}

func resolveSelect(
	patterns []string, baseDir, root string, excludes []*Glob,
) ([]string, error) {
	includes, err := CompileGlobs(patterns)
	if err != nil {
		return nil, err
	}

	r := resolveRoot(baseDir, root)
	info, err := os.Stat(r)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errcode.Internalf(
				"file set root %q does not exist", root,
			)
		}
		return nil, errcode.Annotatef(err, "stat root %q", root)
	}

	selected := func(rel string) bool {
		if matchAnyGlob(excludes, rel) {
			return false
		}
		return includes.Matches(rel)
	}

	if !info.IsDir() {
		// The root denotes a single file.
		if selected(filepath.Base(r)) {
			return []string{filepath.Base(r)}, nil
		}
		return nil, nil
	}

	var files []string
	walk := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() { // Directories themselves are never yielded.
			return nil
		}
		rel, err := slashRel(r, p)
		if err != nil {
			return err
		}
		if selected(rel) {
			files = append(files, rel)
		}
		return nil
	}
	if err := filepath.WalkDir(r, walk); err != nil {
		return nil, errcode.Annotatef(err, "walk root %q", root)
	}
	return files, nil
}
