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
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"

	"go.starlark.net/starlark"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/tarutil"
)

const (
	bundleManifest = "manifest.json"
	bundleProgram  = "program.bin"
)

// bundleInfo is the manifest of a compiled artifact bundle.
type bundleInfo struct {
	Name      string
	Classpath []string `json:",omitempty"`
	Version   string
}

// isStarBuiltin reports whether a name is predeclared for build
// scripts. The compile and run sides must agree on this set.
func isStarBuiltin(name string) bool {
	switch name {
	case "project", "files", "info", "warn", "OS", "ARCH":
		return true
	}
	return false
}

// StarToolchain compiles a rewritten build script into an artifact
// bundle: a gzip tar holding the serialized starlark program and a
// JSON manifest.
type StarToolchain struct{}

// Compile compiles the single source script and writes the bundle to
// output.
func (t *StarToolchain) Compile(
	sources, classpath []string, output string,
) error {
	if len(sources) != 1 {
		return errcode.InvalidArgf(
			"want exactly one source, got %d", len(sources),
		)
	}
	src := sources[0]

	bs, err := os.ReadFile(src)
	if err != nil {
		return errcode.Annotatef(err, "read source %s", src)
	}

	_, prog, err := starlark.SourceProgram(src, bs, isStarBuiltin)
	if err != nil {
		return errcode.Annotatef(err, "compile %s", src)
	}

	progBuf := new(bytes.Buffer)
	if err := prog.Write(progBuf); err != nil {
		return errcode.Annotate(err, "serialize program")
	}

	info := &bundleInfo{
		Name:      filepath.Base(src),
		Classpath: classpath,
		Version:   Version,
	}
	infoBytes, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return errcode.Annotate(err, "marshal manifest")
	}

	ts := tarutil.NewStream()
	ts.AddString(bundleManifest, tarutil.ModeMeta(0600), string(infoBytes))
	ts.AddString(bundleProgram, tarutil.ModeMeta(0600), progBuf.String())

	f, err := os.Create(output)
	if err != nil {
		return errcode.Annotatef(err, "create %s", output)
	}
	gz := gzip.NewWriter(f)
	if _, err := ts.WriteTo(gz); err != nil {
		f.Close()
		return errcode.Annotate(err, "write bundle")
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return errcode.Annotate(err, "close bundle")
	}
	return f.Close()
}
