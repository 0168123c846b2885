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
	"reflect"
	"testing"
)

func mustGlob(t *testing.T, patterns ...string) *Glob {
	t.Helper()
	g, err := CompileGlobs(patterns)
	if err != nil {
		t.Fatalf("compile %q: %s", patterns, err)
	}
	return g
}

func writeTree(t *testing.T, dir string, files []string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			t.Fatalf("make dir for %s: %s", f, err)
		}
		if err := os.WriteFile(p, []byte(f), 0600); err != nil {
			t.Fatalf("write %s: %s", f, err)
		}
	}
}

func TestResolveFilesLiteral(t *testing.T) {
	// A literal file resolves to its single path, untouched by any
	// exclude list and without filesystem access.
	excludes := []*Glob{mustGlob(t, "**")}
	got, err := ResolveFiles(
		LiteralFile("src/Generated_Foo.java"), "", "", excludes,
	)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	want := []string{"src/Generated_Foo.java"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolve literal, got %q, want %q", got, want)
	}
}

func TestResolveFilesSelect(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{
		"src/A.txt",
		"src/B.log",
		"src/sub/C.txt",
	})

	got, err := ResolveFiles(
		SelectFiles("**/*.txt"), dir, "src",
		[]*Glob{mustGlob(t, "sub/**")},
	)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	want := []string{"A.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolve, got %q, want %q", got, want)
	}
}

func TestResolveFilesExcludeWins(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{
		"src/Foo.java",
		"src/Generated_Foo.java",
	})

	// A file matching both an include and an exclude is excluded.
	got, err := ResolveFiles(
		SelectFiles("**/*.java"), "", dir,
		[]*Glob{mustGlob(t, "**/Generated*.java")},
	)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	want := []string{"src/Foo.java"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolve, got %q, want %q", got, want)
	}
}

func TestResolveFilesTraversal(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{
		"src/A.txt",
		"src/B.log",
		"src/sub/C.txt",
	})

	got, err := ResolveFiles(SelectFiles("**/*.txt"), dir, "src", nil)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	want := []string{"A.txt", "sub/C.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolve, got %q, want %q", got, want)
	}
}

func TestResolveFilesEmptyPatterns(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{"a.txt"})

	got, err := ResolveFiles(SelectFiles(), "", dir, nil)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	if len(got) != 0 {
		t.Errorf("resolve with no includes, got %q, want none", got)
	}
}

func TestResolveFilesSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{"a.txt"})
	root := filepath.Join(dir, "a.txt")

	got, err := ResolveFiles(SelectFiles("*.txt"), "", root, nil)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	want := []string{"a.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolve file root, got %q, want %q", got, want)
	}

	// Exclude still wins for a single-file root.
	got, err = ResolveFiles(
		SelectFiles("*.txt"), "", root,
		[]*Glob{mustGlob(t, "*.txt")},
	)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	if len(got) != 0 {
		t.Errorf("resolve excluded file root, got %q, want none", got)
	}

	// A non-matching include selects nothing.
	got, err = ResolveFiles(SelectFiles("*.log"), "", root, nil)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	if len(got) != 0 {
		t.Errorf("resolve unmatched file root, got %q, want none", got)
	}
}

func TestResolveFilesMissingRoot(t *testing.T) {
	dir := t.TempDir()
	if _, err := ResolveFiles(
		SelectFiles("**"), dir, "no-such-dir", nil,
	); err == nil {
		t.Errorf("resolve missing root, want error")
	}
}

func TestResolveFilesBadPattern(t *testing.T) {
	dir := t.TempDir()
	if _, err := ResolveFiles(
		SelectFiles("[bad"), "", dir, nil,
	); err == nil {
		t.Errorf("resolve bad pattern, want error")
	}
}
