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
	"crypto/sha256"
	"encoding/hex"
)

// sourceDigest fingerprints build-file source content.
func sourceDigest(bs []byte) string {
	sum := sha256.Sum256(bs)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// cacheDirName maps a build file's identity to its cache directory
// name. Keyed on the diagnostic real path, so a rewritten copy in a
// temporary location shares the cache of its original.
func cacheDirName(ref *BuildFileRef) string {
	sum := sha256.Sum256([]byte(ref.RealPath))
	return hex.EncodeToString(sum[:])
}
