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
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeTool struct {
	compiles  int
	fail      bool
	classpath []string
}

func (t *fakeTool) Compile(
	sources, classpath []string, output string,
) error {
	t.compiles++
	t.classpath = classpath
	if t.fail {
		return fmt.Errorf("toolchain says no")
	}
	return os.WriteFile(output, []byte("artifact"), 0600)
}

func testBuildFile(t *testing.T, content string) *BuildFileRef {
	t.Helper()
	p := filepath.Join(t.TempDir(), "BUILD"+scriptExt)
	if err := os.WriteFile(p, []byte(content), 0600); err != nil {
		t.Fatalf("write build file: %s", err)
	}
	return NewBuildFileRef(p, "")
}

func TestEnsureCompiledIdempotent(t *testing.T) {
	ref := testBuildFile(t, `project("app")`)
	cache := t.TempDir()
	tool := &fakeTool{}
	c := NewCompiler(tool)
	ctx := &Context{}

	if res := c.EnsureCompiled(ctx, ref, cache, nil); !res.OK() {
		t.Fatalf("first compile: %s", res.Err)
	}
	if tool.compiles != 1 {
		t.Fatalf("got %d compiles, want 1", tool.compiles)
	}

	// Unchanged source takes the up-to-date path; the toolchain is
	// not invoked again.
	if res := c.EnsureCompiled(ctx, ref, cache, nil); !res.OK() {
		t.Fatalf("second compile: %s", res.Err)
	}
	if tool.compiles != 1 {
		t.Errorf("got %d compiles after rerun, want 1", tool.compiles)
	}
}

func TestEnsureCompiledRecompilesOnChange(t *testing.T) {
	ref := testBuildFile(t, `project("app")`)
	cache := t.TempDir()
	tool := &fakeTool{}
	c := NewCompiler(tool)
	ctx := &Context{}

	if res := c.EnsureCompiled(ctx, ref, cache, nil); !res.OK() {
		t.Fatalf("first compile: %s", res.Err)
	}
	if err := os.WriteFile(
		ref.Path, []byte(`project("other")`), 0600,
	); err != nil {
		t.Fatalf("rewrite source: %s", err)
	}
	if res := c.EnsureCompiled(ctx, ref, cache, nil); !res.OK() {
		t.Fatalf("second compile: %s", res.Err)
	}
	if tool.compiles != 2 {
		t.Errorf("got %d compiles, want 2", tool.compiles)
	}
}

func TestEnsureCompiledVersionWipe(t *testing.T) {
	ref := testBuildFile(t, `project("app")`)
	cache := t.TempDir()
	tool := &fakeTool{}
	c := NewCompiler(tool)
	ctx := &Context{}

	if res := c.EnsureCompiled(ctx, ref, cache, nil); !res.OK() {
		t.Fatalf("prime cache: %s", res.Err)
	}

	// Age the stamp and drop a sentinel into the cache directory.
	stamp := filepath.Join(cache, stampName)
	if err := os.WriteFile(stamp, []byte("0.0.0\n"), 0600); err != nil {
		t.Fatalf("age stamp: %s", err)
	}
	sentinel := filepath.Join(cache, "leftover")
	if err := os.WriteFile(sentinel, []byte("x"), 0600); err != nil {
		t.Fatalf("write sentinel: %s", err)
	}

	// The wipe clears prior contents even though the source is
	// unchanged, and the compile runs again on the clean slate.
	if res := c.EnsureCompiled(ctx, ref, cache, nil); !res.OK() {
		t.Fatalf("recompile: %s", res.Err)
	}
	if _, err := os.Stat(sentinel); !os.IsNotExist(err) {
		t.Errorf("sentinel survived the version wipe")
	}
	if tool.compiles != 2 {
		t.Errorf("got %d compiles, want 2", tool.compiles)
	}
	bs, err := os.ReadFile(stamp)
	if err != nil {
		t.Fatalf("read stamp: %s", err)
	}
	if got := string(bs); got != Version+"\n" {
		t.Errorf("stamp is %q, want %q", got, Version+"\n")
	}
}

func TestEnsureCompiledFailure(t *testing.T) {
	ref := testBuildFile(t, `project("app")`)
	cache := t.TempDir()
	tool := &fakeTool{fail: true}
	c := NewCompiler(tool)

	res := c.EnsureCompiled(&Context{}, ref, cache, nil)
	if res.OK() {
		t.Fatalf("compile succeeded, want failure")
	}
	if res.Err == nil {
		t.Fatalf("failed result carries no error")
	}
	artifact := filepath.Join(cache, artifactName)
	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Errorf("failed compile left an artifact")
	}
}

func TestEnsureCompiledClasspath(t *testing.T) {
	ref := testBuildFile(t, `project("app")`)
	cache := t.TempDir()
	tool := &fakeTool{}
	c := NewCompiler(tool)
	ctx := &Context{Runtime: "runtime.bundle"}

	res := c.EnsureCompiled(
		ctx, ref, cache, []string{"p1.tar.gz", "p2.tar.gz"},
	)
	if !res.OK() {
		t.Fatalf("compile: %s", res.Err)
	}
	want := []string{"runtime.bundle", "p1.tar.gz", "p2.tar.gz"}
	if !reflect.DeepEqual(tool.classpath, want) {
		t.Errorf("classpath is %q, want %q", tool.classpath, want)
	}
}
