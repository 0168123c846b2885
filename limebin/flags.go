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
	"shanhu.io/lime"
	"shanhu.io/misc/flagutil"
)

var cmdFlags = flagutil.NewFactory("lime")

func declareLoadFlags(flags *flagutil.FlagSet, c *lime.Context) {
	flags.StringVar(&c.Profile, "profile", "", "active build profile")
	flags.StringVar(&c.CacheDir, "cache", ".lime", "build cache directory")
	flags.StringVar(
		&c.Runtime, "runtime", "",
		"path of the tool's own runtime artifact",
	)
}
