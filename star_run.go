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
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"go.starlark.net/starlark"
	"shanhu.io/misc/errcode"
)

// StarRunner executes compiled artifact bundles. Each run rehydrates
// the serialized program and executes it once; project() declarations
// are collected in declaration order.
type StarRunner struct{}

type runState struct {
	ctx      *Context
	projects []*ProjectDecl
}

func runStateOf(thread *starlark.Thread) *runState {
	return thread.Local("runState").(*runState)
}

// RunArtifact executes the artifact bundle and returns the build units
// it declares.
func (r *StarRunner) RunArtifact(
	ctx *Context, artifact string, classpath []string,
) ([]*ProjectDecl, error) {
	info, progBytes, err := readBundle(artifact)
	if err != nil {
		return nil, errcode.Annotatef(err, "read bundle %s", artifact)
	}

	prog, err := starlark.CompiledProgram(bytes.NewReader(progBytes))
	if err != nil {
		return nil, errcode.Annotatef(err, "load program %s", info.Name)
	}

	state := &runState{ctx: ctx}
	thread := &starlark.Thread{
		Name: info.Name,
		Print: func(thread *starlark.Thread, msg string) {
			log.Printf("%s: %s", thread.Name, msg)
		},
	}
	thread.SetLocal("runState", state)

	predeclared := starlark.StringDict{
		"OS":      starlark.String(runtime.GOOS),
		"ARCH":    starlark.String(runtime.GOARCH),
		"project": starlark.NewBuiltin("project", starProject),
		"files":   starlark.NewBuiltin("files", starFiles),
		"info":    starlark.NewBuiltin("info", starInfo),
		"warn":    starlark.NewBuiltin("warn", starWarn),
	}

	if _, err := prog.Init(thread, predeclared); err != nil {
		if evalErr, ok := err.(*starlark.EvalError); ok {
			return nil, fmt.Errorf(
				"run %s:\n%s", info.Name, evalErr.Backtrace(),
			)
		}
		return nil, errcode.Annotatef(err, "run %s", info.Name)
	}
	return state.projects, nil
}

func readBundle(p string) (*bundleInfo, []byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, nil, errcode.Annotate(err, "open gzip")
	}
	defer gz.Close()

	var info *bundleInfo
	var prog []byte

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errcode.Annotate(err, "read tar")
		}
		switch hdr.Name {
		case bundleManifest:
			bs, err := io.ReadAll(tr)
			if err != nil {
				return nil, nil, err
			}
			info = new(bundleInfo)
			if err := json.Unmarshal(bs, info); err != nil {
				return nil, nil, errcode.Annotate(
					err, "parse manifest",
				)
			}
		case bundleProgram:
			bs, err := io.ReadAll(tr)
			if err != nil {
				return nil, nil, err
			}
			prog = bs
		}
	}

	if info == nil || prog == nil {
		return nil, nil, errcode.InvalidArgf(
			"%s is not an artifact bundle", p,
		)
	}
	return info, prog, nil
}

// starProject declares a build unit. The single positional argument is
// the unit's name; dir= sets its directory and all other keyword
// arguments are carried as opaque properties.
func starProject(
	thread *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf(
			"%s: want exactly one positional name argument",
			fn.Name(),
		)
	}
	name, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf(
			"%s: name must be a string, got %s",
			fn.Name(), args[0].Type(),
		)
	}
	if name == "" {
		return nil, fmt.Errorf("%s: name is empty", fn.Name())
	}

	decl := &ProjectDecl{Name: name, Dir: "."}
	for _, kv := range kwargs {
		k := string(kv[0].(starlark.String))
		v, ok := starlark.AsString(kv[1])
		if !ok {
			v = kv[1].String()
		}
		if k == "dir" {
			decl.Dir = v
			continue
		}
		if decl.Props == nil {
			decl.Props = make(map[string]string)
		}
		decl.Props[k] = v
	}

	state := runStateOf(thread)
	state.projects = append(state.projects, decl)
	return starlark.None, nil
}

// starFiles resolves a pattern-based file set for a build unit:
// files(root, *patterns, exclude=[]). Roots are relative to the
// working directory of the invocation.
func starFiles(
	thread *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf(
			"%s: want a root directory argument", fn.Name(),
		)
	}
	root, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf(
			"%s: root must be a string, got %s",
			fn.Name(), args[0].Type(),
		)
	}

	patterns := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		p, ok := starlark.AsString(arg)
		if !ok {
			return nil, fmt.Errorf(
				"%s: patterns must be strings, got %s",
				fn.Name(), arg.Type(),
			)
		}
		patterns = append(patterns, p)
	}

	var excludes []*Glob
	for _, kv := range kwargs {
		k := string(kv[0].(starlark.String))
		if k != "exclude" {
			return nil, fmt.Errorf(
				"%s: unexpected keyword %s", fn.Name(), k,
			)
		}
		list, ok := kv[1].(*starlark.List)
		if !ok {
			return nil, fmt.Errorf(
				"%s: exclude must be a list, got %s",
				fn.Name(), kv[1].Type(),
			)
		}
		ps := make([]string, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			p, ok := starlark.AsString(list.Index(i))
			if !ok {
				return nil, fmt.Errorf(
					"%s: exclude patterns must be strings",
					fn.Name(),
				)
			}
			ps = append(ps, p)
		}
		g, err := CompileGlobs(ps)
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, g)
	}

	got, err := ResolveFiles(
		SelectFiles(patterns...), "", root, excludes,
	)
	if err != nil {
		return nil, err
	}

	values := make([]starlark.Value, 0, len(got))
	for _, f := range got {
		values = append(values, starlark.String(f))
	}
	return starlark.NewList(values), nil
}

func starInfo(
	thread *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var msg string
	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "msg", &msg)
	if err != nil {
		return nil, err
	}
	log.Printf("%s: %s", thread.Name, msg)
	return starlark.None, nil
}

func starWarn(
	thread *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var msg string
	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "msg", &msg)
	if err != nil {
		return nil, err
	}
	log.Printf("%s: warning: %s", thread.Name, msg)
	return starlark.None, nil
}
