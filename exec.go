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
	"io"
	"os"
	"os/exec"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
)

type execJob struct {
	dir  string
	bin  string
	args []string
	out  io.Writer
}

func (j *execJob) command() *exec.Cmd {
	cmd := exec.Command(j.bin, j.args...)
	cmd.Dir = j.dir
	if j.out == nil {
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stdout = j.out
	}
	cmd.Stderr = os.Stderr
	osutil.CmdCopyEnv(cmd, "HOME")
	osutil.CmdCopyEnv(cmd, "PATH")
	return cmd
}

// ExecToolchain adapts an external compiler binary to the Toolchain
// interface. It invokes
//
//	bin -o <output> [-cp <cp0:cp1:...>] <sources...>
//
// in the working directory and carries the process output into the
// returned error on failure.
type ExecToolchain struct {
	Bin string
}

// Compile runs the external compiler.
func (t *ExecToolchain) Compile(
	sources, classpath []string, output string,
) error {
	args := []string{"-o", output}
	if len(classpath) > 0 {
		joined := strings.Join(
			classpath, string(os.PathListSeparator),
		)
		args = append(args, "-cp", joined)
	}
	args = append(args, sources...)

	out := new(bytes.Buffer)
	j := &execJob{
		bin:  t.Bin,
		args: args,
		out:  out,
	}
	cmd := j.command()
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return errcode.Annotatef(
			err, "%s: %s", t.Bin,
			strings.TrimSpace(out.String()),
		)
	}
	return nil
}
