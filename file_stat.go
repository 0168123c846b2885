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

	"shanhu.io/misc/errcode"
)

// fileStat is the freshness record of a build-file source. It keys on
// size and content digest rather than modification time; rewritten
// sources land in fresh temporary files whose timestamps are always
// new, so a time-based check would never report up to date.
type fileStat struct {
	Name   string
	Size   int64
	Digest string
}

func newFileStat(p string) (*fileStat, error) {
	bs, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errcode.NotFoundf("%s not found", p)
		}
		return nil, err
	}

	return &fileStat{
		Name:   filepath.Base(p),
		Size:   int64(len(bs)),
		Digest: sourceDigest(bs),
	}, nil
}

func sameFileStat(p string, stat *fileStat) (bool, error) {
	cur, err := newFileStat(p)
	if err != nil {
		if errcode.IsNotFound(err) {
			return false, nil
		}
		return false, errcode.Annotate(err, "check current")
	}

	same := cur.Size == stat.Size
	same = same && cur.Digest == stat.Digest

	return same, nil
}
