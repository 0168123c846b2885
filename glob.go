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

	"github.com/bmatcuk/doublestar/v4"
	"shanhu.io/misc/errcode"
)

// Glob is an immutable compiled set of glob patterns. A path matches
// the set when it matches any pattern in it; an empty set matches
// nothing. Patterns use slash separators and support `*`, `**`, `?`
// and bracket/brace classes. There is no negation operator; negation
// is expressed with a separate exclude list at resolution time.
type Glob struct {
	patterns []string
}

// CompileGlobs compiles a set of glob patterns. It returns an invalid
// argument error when any pattern is malformed.
func CompileGlobs(patterns []string) (*Glob, error) {
	ps := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errcode.InvalidArgf("bad pattern %q", p)
		}
		ps = append(ps, p)
	}
	return &Glob{patterns: ps}, nil
}

// Matches reports whether p matches any pattern in the set. p may use
// the native separator; it is converted to slash form first.
func (g *Glob) Matches(p string) bool {
	p = filepath.ToSlash(p)
	for _, pat := range g.patterns {
		// Patterns are validated at compile time; Match cannot fail.
		if ok, _ := doublestar.Match(pat, p); ok {
			return true
		}
	}
	return false
}

func matchAnyGlob(globs []*Glob, p string) bool {
	for _, g := range globs {
		if g.Matches(p) {
			return true
		}
	}
	return false
}
