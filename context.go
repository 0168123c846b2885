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

// Context carries the shared state of one load invocation. It is
// constructed once per invocation and threaded explicitly through every
// call; nothing in this package keeps global state.
type Context struct {
	// Profile is the active build profile. Script conditionals see it
	// as the PROFILE constant after rewriting.
	Profile string

	// CacheDir is the root of the build cache. Each build file gets its
	// own directory under it, keyed by the file's identity.
	//
	// The per-file cache directory is not synchronized. Two concurrent
	// invocations targeting the same build file can interleave a
	// version wipe with another's compile in progress; callers that
	// allow concurrent invocations must serialize access externally.
	CacheDir string

	// Runtime is the path to the tool's own runtime artifact. It is the
	// first classpath entry of every compile.
	Runtime string

	// Workers is an opaque worker pool for downstream phases. This
	// package only passes it through.
	Workers interface{}
}
