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

package limebin

import (
	"fmt"
	"strings"

	"shanhu.io/lime"
	"shanhu.io/misc/errcode"
)

func cmdFiles(args []string) error {
	flags := cmdFlags.New()
	root := "."
	exclude := ""
	flags.StringVar(&root, "root", ".", "root directory of the selection")
	flags.StringVar(
		&exclude, "exclude", "", "comma-separated exclude patterns",
	)
	args = flags.ParseArgs(args)

	if len(args) == 0 {
		return errcode.InvalidArgf("no include patterns given")
	}

	var excludes []*lime.Glob
	if exclude != "" {
		g, err := lime.CompileGlobs(strings.Split(exclude, ","))
		if err != nil {
			return err
		}
		excludes = append(excludes, g)
	}

	got, err := lime.ResolveFiles(
		lime.SelectFiles(args...), "", root, excludes,
	)
	if err != nil {
		return err
	}
	for _, f := range got {
		fmt.Println(f)
	}
	return nil
}
