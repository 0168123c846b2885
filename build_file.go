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
	"path/filepath"
)

// BuildFileRef identifies one build description. It is immutable once
// constructed.
type BuildFileRef struct {
	// Name is the human-readable display name.
	Name string

	// Path locates the file's content on disk.
	Path string

	// RealPath points at the original build file for diagnostics,
	// even after the content has been rewritten to a temporary
	// location.
	RealPath string
}

// NewBuildFileRef returns a reference to the build file at path. An
// empty name defaults to the file's base name.
func NewBuildFileRef(path, name string) *BuildFileRef {
	if name == "" {
		name = filepath.Base(path)
	}
	return &BuildFileRef{Name: name, Path: path, RealPath: path}
}

// derive returns the reference for a rewritten copy of the build file
// at path. The display name marks the copy as modified; the diagnostic
// real path still points at the original.
func (r *BuildFileRef) derive(path string) *BuildFileRef {
	return &BuildFileRef{
		Name:     r.Name + " (modified)",
		Path:     path,
		RealPath: r.RealPath,
	}
}

// ParsedBuildFile is the output of build-script extraction: the
// rewritten script source and the resolved plugin locations, in
// declaration order. It is owned by the load step that produced it and
// consumed once.
type ParsedBuildFile struct {
	Source  string
	Plugins []string
}
