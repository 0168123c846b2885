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
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

const scriptExt = ".lime"

// Extractor separates plugin discovery from the rest of a build
// description.
type Extractor interface {
	Extract(ref *BuildFileRef) (*ParsedBuildFile, []*lexing.Error)
}

// ScriptExtractor extracts plugin and repository declarations from a
// starlark build description. Plugin and repository locations must be
// known before the full script can be compiled, because they shape the
// classpath the rest of the script compiles against, so extraction
// runs in two stages: first only the directive statements are sliced
// out, compiled and executed to resolve concrete plugin locations,
// then the full source is rewritten into its final form with the
// directives dropped and the active profile pinned.
type ScriptExtractor struct {
	profile string
}

// NewScriptExtractor returns an extractor for the given build profile.
func NewScriptExtractor(profile string) *ScriptExtractor {
	return &ScriptExtractor{profile: profile}
}

type directives struct {
	repos   []string
	plugins []string
}

// Extract parses the build file and returns its rewritten source and
// resolved plugin locations. The original file is never modified.
func (x *ScriptExtractor) Extract(ref *BuildFileRef) (
	*ParsedBuildFile, []*lexing.Error,
) {
	errList := lexing.NewErrorList()

	src, err := os.ReadFile(ref.Path)
	if err != nil {
		errList.Errorf(nil, "read %s: %s", ref.Name, err)
		return nil, errList.Errs()
	}

	f, err := syntax.Parse(ref.RealPath, src, 0)
	if err != nil {
		errList.Errorf(nil, "parse %s: %s", ref.Name, err)
		return nil, errList.Errs()
	}

	inDirective := directiveLines(f)
	lines := strings.Split(string(src), "\n")

	var reduced []string
	for i, line := range lines {
		if inDirective[int32(i+1)] {
			reduced = append(reduced, line)
		}
	}

	d := new(directives)
	if err := runDirectives(
		ref.Name, strings.Join(reduced, "\n"), d,
	); err != nil {
		errList.Errorf(nil, "%s", err)
		return nil, errList.Errs()
	}

	plugins, err := resolvePlugins(d)
	if err != nil {
		errList.Errorf(nil, "%s: %s", ref.Name, err)
		return nil, errList.Errs()
	}

	// Final form: directives dropped, active profile pinned.
	out := []string{fmt.Sprintf("PROFILE = %q", x.profile)}
	for i, line := range lines {
		if !inDirective[int32(i+1)] {
			out = append(out, line)
		}
	}

	return &ParsedBuildFile{
		Source:  strings.Join(out, "\n"),
		Plugins: plugins,
	}, nil
}

// directiveLines maps the source lines covered by top-level plugin()
// and repo() statements. Directives nested under conditionals are not
// recognized; the reduced subset must not depend on evaluation.
func directiveLines(f *syntax.File) map[int32]bool {
	lines := make(map[int32]bool)
	for _, st := range f.Stmts {
		es, ok := st.(*syntax.ExprStmt)
		if !ok {
			continue
		}
		call, ok := es.X.(*syntax.CallExpr)
		if !ok {
			continue
		}
		id, ok := call.Fn.(*syntax.Ident)
		if !ok {
			continue
		}
		if id.Name != "plugin" && id.Name != "repo" {
			continue
		}
		start, end := st.Span()
		for ln := start.Line; ln <= end.Line; ln++ {
			lines[ln] = true
		}
	}
	return lines
}

// runDirectives executes the reduced directive-only source, collecting
// repository bases and plugin names in declaration order.
func runDirectives(name, reduced string, d *directives) error {
	collect := func(list *[]string) func(
		*starlark.Thread, *starlark.Builtin,
		starlark.Tuple, []starlark.Tuple,
	) (starlark.Value, error) {
		return func(
			thread *starlark.Thread, fn *starlark.Builtin,
			args starlark.Tuple, kwargs []starlark.Tuple,
		) (starlark.Value, error) {
			var v string
			err := starlark.UnpackArgs(
				fn.Name(), args, kwargs, "name", &v,
			)
			if err != nil {
				return nil, err
			}
			if v == "" {
				return nil, fmt.Errorf(
					"%s: name is empty", fn.Name(),
				)
			}
			*list = append(*list, v)
			return starlark.None, nil
		}
	}

	builtins := starlark.StringDict{
		"plugin": starlark.NewBuiltin("plugin", collect(&d.plugins)),
		"repo":   starlark.NewBuiltin("repo", collect(&d.repos)),
	}

	thread := &starlark.Thread{
		Name: "extract " + name,
		Print: func(thread *starlark.Thread, msg string) {
			log.Printf("%s: %s", name, msg)
		},
	}
	if _, err := starlark.ExecFile(
		thread, name, reduced, builtins,
	); err != nil {
		if evalErr, ok := err.(*starlark.EvalError); ok {
			return fmt.Errorf(
				"run directives in %s:\n%s",
				name, evalErr.Backtrace(),
			)
		}
		return errcode.Annotatef(err, "run directives in %s", name)
	}
	return nil
}

// resolvePlugins maps plugin names to concrete locations. Names that
// already look like URLs or absolute paths pass through; the rest
// resolve against the first declared repository.
func resolvePlugins(d *directives) ([]string, error) {
	var urls []string
	for _, p := range d.plugins {
		if strings.Contains(p, "://") || filepath.IsAbs(p) {
			urls = append(urls, p)
			continue
		}
		if len(d.repos) == 0 {
			return nil, errcode.InvalidArgf(
				"plugin %q declared without a repository", p,
			)
		}
		base := strings.TrimSuffix(d.repos[0], "/")
		urls = append(urls, base+"/"+p+".tar.gz")
	}
	return urls, nil
}
