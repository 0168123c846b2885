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
	"shanhu.io/misc/jsonutil"
	"shanhu.io/misc/osutil"
)

// Cache directory layout. One directory per build file identity.
const (
	artifactName    = "script.bundle"
	stampName       = "version"
	sourceStampName = "source.json"
)

// Compiler decides whether a previously compiled artifact for a build
// description is still valid, and compiles when it is not.
type Compiler struct {
	tool    Toolchain
	version string
}

// NewCompiler returns a compiler that invokes tool and stamps caches
// with the running tool's version.
func NewCompiler(tool Toolchain) *Compiler {
	return &Compiler{tool: tool, version: Version}
}

// EnsureCompiled makes sure dir holds a valid compiled artifact for
// the build file. A cache directory stamped by a different tool
// version is wiped entirely first; an up-to-date artifact returns
// success with no toolchain invocation and no side effects. The
// compile classpath is the tool's own runtime artifact followed by
// extraClasspath.
//
// The check-then-act sequence is not transactional; see
// Context.CacheDir for the concurrency hazard.
func (c *Compiler) EnsureCompiled(
	ctx *Context, ref *BuildFileRef, dir string,
	extraClasspath []string,
) TaskResult {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return taskFailed(errcode.Annotate(err, "make cache dir"))
	}
	if err := c.checkVersion(dir); err != nil {
		return taskFailed(errcode.Annotate(err, "check cache version"))
	}

	upToDate, err := c.upToDate(dir, ref)
	if err != nil {
		return taskFailed(errcode.Annotate(err, "check staleness"))
	}
	if upToDate {
		return TaskResult{}
	}

	return c.compile(ctx, ref, dir, extraClasspath)
}

// checkVersion wipes the cache directory when its version stamp does
// not match the running tool's version, then restamps it. A wipe only
// forces a clean slate; staleness is still evaluated afterwards.
func (c *Compiler) checkVersion(dir string) error {
	stamp := filepath.Join(dir, stampName)
	bs, err := os.ReadFile(stamp)
	if err == nil && strings.TrimSpace(string(bs)) == c.version {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		p := filepath.Join(dir, ent.Name())
		if err := os.RemoveAll(p); err != nil {
			return errcode.Annotatef(err, "wipe %s", ent.Name())
		}
	}
	return os.WriteFile(stamp, []byte(c.version+"\n"), 0600)
}

func (c *Compiler) upToDate(dir string, ref *BuildFileRef) (
	bool, error,
) {
	artifact := filepath.Join(dir, artifactName)
	isFile, err := osutil.IsRegular(artifact)
	if err != nil {
		return false, err
	}
	if !isFile {
		return false, nil
	}

	recorded := new(fileStat)
	record := filepath.Join(dir, sourceStampName)
	if err := jsonutil.ReadFile(record, recorded); err != nil {
		// An unreadable freshness record reads as stale.
		return false, nil
	}
	return sameFileStat(ref.Path, recorded)
}

func (c *Compiler) compile(
	ctx *Context, ref *BuildFileRef, dir string,
	extraClasspath []string,
) TaskResult {
	artifact := filepath.Join(dir, artifactName)

	// A stale artifact is deleted before replacement; at most one
	// artifact exists per build file at any time.
	if err := os.RemoveAll(artifact); err != nil {
		return taskFailed(errcode.Annotate(err, "remove stale artifact"))
	}
	record := filepath.Join(dir, sourceStampName)
	if err := os.RemoveAll(record); err != nil {
		return taskFailed(errcode.Annotate(err, "remove stale record"))
	}

	var classpath []string
	if ctx.Runtime != "" {
		classpath = append(classpath, ctx.Runtime)
	}
	classpath = append(classpath, extraClasspath...)

	if err := c.tool.Compile(
		[]string{ref.Path}, classpath, artifact,
	); err != nil {
		return taskFailed(errcode.Annotatef(err, "compile %s", ref.Name))
	}

	stat, err := newFileStat(ref.Path)
	if err != nil {
		return taskFailed(errcode.Annotate(err, "stat source"))
	}
	if err := jsonutil.WriteFile(record, stat); err != nil {
		return taskFailed(errcode.Annotate(err, "record source"))
	}
	return TaskResult{}
}
