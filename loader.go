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
	"os"
	"path/filepath"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Loader drives build descriptions through extraction, incremental
// compilation and execution, one file at a time in the given order,
// and aggregates the build units they declare.
type Loader struct {
	extract  Extractor
	compiler *Compiler
	runner   ArtifactRunner
	plugins  PluginApplier
}

// NewLoader wires a loader from its collaborators. plugins may be nil
// when no plugin-application phase follows.
func NewLoader(
	extract Extractor, compiler *Compiler,
	runner ArtifactRunner, plugins PluginApplier,
) *Loader {
	return &Loader{
		extract:  extract,
		compiler: compiler,
		runner:   runner,
		plugins:  plugins,
	}
}

// Load processes the build files in order and returns the aggregated
// project declarations with the overall result. A failed build file
// does not stop the remaining ones: their declarations still join the
// aggregate, but the overall result reports the first failure. The
// plugin-application phase runs only when every file succeeded. When
// the result is a failure the returned list is best effort.
func (l *Loader) Load(ctx *Context, refs []*BuildFileRef) (
	[]*ProjectDecl, TaskResult,
) {
	var projects []*ProjectDecl
	var result TaskResult

	record := func(err error) {
		if result.OK() { // First failure wins.
			result = taskFailed(err)
		}
	}

	for _, ref := range refs {
		decls, err := l.loadOne(ctx, ref)
		if err != nil {
			record(err)
			continue
		}
		projects = append(projects, decls...)
	}

	if result.OK() && l.plugins != nil {
		if err := l.plugins.ApplyPlugins(ctx, projects); err != nil {
			record(errcode.Annotate(err, "apply plugins"))
		}
	}
	return projects, result
}

func (l *Loader) loadOne(ctx *Context, ref *BuildFileRef) (
	[]*ProjectDecl, error,
) {
	parsed, errs := l.extract.Extract(ref)
	if errs != nil {
		return nil, extractErr(ref, errs)
	}

	tmp, err := materializeSource(parsed.Source)
	if err != nil {
		return nil, errcode.Annotatef(err, "materialize %s", ref.Name)
	}
	defer os.Remove(tmp)

	derived := ref.derive(tmp)
	dir := filepath.Join(ctx.CacheDir, cacheDirName(ref))

	res := l.compiler.EnsureCompiled(ctx, derived, dir, parsed.Plugins)
	if !res.OK() {
		return nil, res.Err
	}

	artifact := filepath.Join(dir, artifactName)
	decls, err := l.runner.RunArtifact(ctx, artifact, parsed.Plugins)
	if err != nil {
		return nil, errcode.Annotatef(err, "run %s", ref.Name)
	}
	return decls, nil
}

// materializeSource writes rewritten script source to a fresh
// temporary file. The file is ephemeral; it lives only for the load
// step of one build file.
func materializeSource(src string) (string, error) {
	f, err := os.CreateTemp("", "lime-*"+scriptExt)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func extractErr(ref *BuildFileRef, errs []*lexing.Error) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return errcode.InvalidArgf(
		"extract %s: %s", ref.Name, strings.Join(msgs, "; "),
	)
}
