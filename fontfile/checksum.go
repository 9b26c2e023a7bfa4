// seehuhn.de/go/fontmerge - a tool for merging OpenType font files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fontfile

import "encoding/binary"

// checksum computes the sfnt table checksum: the sum of the table data
// interpreted as big-endian uint32 values, zero-padded to a multiple of
// four bytes.
func checksum(data []byte) uint32 {
	var sum uint32
	n := len(data)
	for i := 0; i+4 <= n; i += 4 {
		sum += binary.BigEndian.Uint32(data[i : i+4])
	}
	if k := n % 4; k != 0 {
		var tail [4]byte
		copy(tail[:], data[n-k:])
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}
