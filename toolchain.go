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

// ProjectDecl is a build-unit declaration produced by executing a
// compiled build description. Beyond collection into an ordered list,
// its content is opaque to this package.
type ProjectDecl struct {
	Name  string
	Dir   string
	Props map[string]string `json:",omitempty"`
}

// Toolchain compiles build-script sources into a runnable artifact.
// The compilation itself is an opaque operation; this package only
// drives it.
type Toolchain interface {
	// Compile compiles the sources against the classpath and writes
	// the artifact to output.
	Compile(sources, classpath []string, output string) error
}

// ArtifactRunner executes a compiled artifact and collects the build
// units it declares.
type ArtifactRunner interface {
	RunArtifact(ctx *Context, artifact string, classpath []string) (
		[]*ProjectDecl, error,
	)
}

// PluginApplier applies the discovered plugins to the collected build
// units. It runs only when every build file loaded successfully.
type PluginApplier interface {
	ApplyPlugins(ctx *Context, projects []*ProjectDecl) error
}
