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

// resolveRoot computes the directory that pattern resolution starts
// from. An absolute root is used as is; a relative root joins baseDir
// when one is given, and otherwise stays relative to the working
// directory. The result is cleaned, with an empty path standing in for
// the current directory.
func resolveRoot(baseDir, root string) string {
	r := root
	if r == "" {
		r = "."
	}
	if !filepath.IsAbs(r) && baseDir != "" {
		r = filepath.Join(baseDir, r)
	}
	return filepath.Clean(r)
}

// slashRel returns p relative to root in slash form.
func slashRel(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
