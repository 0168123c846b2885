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

// TaskResult is the outcome of a build-file task. Failures travel as
// values through return paths; nothing at the load boundary panics for
// a failed compile or run.
type TaskResult struct {
	Err error
}

// OK reports whether the task succeeded.
func (r TaskResult) OK() bool { return r.Err == nil }

func taskFailed(err error) TaskResult { return TaskResult{Err: err} }
