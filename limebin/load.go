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
	"log"

	"shanhu.io/lime"
	"shanhu.io/misc/errcode"
)

func cmdLoad(args []string) error {
	flags := cmdFlags.New()
	ctx := new(lime.Context)
	declareLoadFlags(flags, ctx)
	args = flags.ParseArgs(args)

	if len(args) == 0 {
		return errcode.InvalidArgf("no build files given")
	}

	var refs []*lime.BuildFileRef
	for _, arg := range args {
		refs = append(refs, lime.NewBuildFileRef(arg, ""))
	}

	loader := lime.NewLoader(
		lime.NewScriptExtractor(ctx.Profile),
		lime.NewCompiler(&lime.StarToolchain{}),
		&lime.StarRunner{},
		nil,
	)

	projects, result := loader.Load(ctx, refs)
	for _, p := range projects {
		fmt.Printf("%s %s\n", p.Name, p.Dir)
	}
	if !result.OK() {
		log.Printf("load failed: %s", result.Err)
		return result.Err
	}
	return nil
}
