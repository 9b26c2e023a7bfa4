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

// Field offsets within the "head" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/head
const (
	headChecksumOffset   = 8
	headUnitsPerEmOffset = 18
	headMacStyleOffset   = 44
	headLocFormatOffset  = 50
	headLength           = 54
)

// UnitsPerEm returns the design grid resolution from the "head" table,
// or 0 if the table is missing or malformed.
func (f *Font) UnitsPerEm() uint16 {
	head := f.tables["head"]
	if len(head) < headLength {
		return 0
	}
	return binary.BigEndian.Uint16(head[headUnitsPerEmOffset:])
}

// SetUnitsPerEm rewrites the unitsPerEm field of the "head" table.
// The outlines are not rescaled; this matches the behavior of the
// UnifyUnitsPerEm merge strategy.
func (f *Font) SetUnitsPerEm(upm uint16) error {
	head := f.tables["head"]
	if len(head) < headLength {
		return &ErrNoTable{Name: "head"}
	}
	binary.BigEndian.PutUint16(head[headUnitsPerEmOffset:], upm)
	return nil
}

// MacStyle returns the style flags from the "head" table.
func (f *Font) MacStyle() uint16 {
	head := f.tables["head"]
	if len(head) < headLength {
		return 0
	}
	return binary.BigEndian.Uint16(head[headMacStyleOffset:])
}

// SetMacStyle rewrites the style flags in the "head" table.
func (f *Font) SetMacStyle(style uint16) error {
	head := f.tables["head"]
	if len(head) < headLength {
		return &ErrNoTable{Name: "head"}
	}
	binary.BigEndian.PutUint16(head[headMacStyleOffset:], style)
	return nil
}

// IndexToLocFormat returns the loca table format (0 = short, 1 = long).
func (f *Font) IndexToLocFormat() int {
	head := f.tables["head"]
	if len(head) < headLength {
		return 0
	}
	return int(int16(binary.BigEndian.Uint16(head[headLocFormatOffset:])))
}

func (f *Font) setIndexToLocFormat(format int16) error {
	head := f.tables["head"]
	if len(head) < headLength {
		return &ErrNoTable{Name: "head"}
	}
	binary.BigEndian.PutUint16(head[headLocFormatOffset:], uint16(format))
	return nil
}

// clearHeadChecksum zeroes the checkSumAdjustment field before the file
// checksum is computed.
func clearHeadChecksum(head []byte) {
	if len(head) < headChecksumOffset+4 {
		return
	}
	binary.BigEndian.PutUint32(head[headChecksumOffset:], 0)
}

// patchHeadChecksum stores the final checkSumAdjustment value.
func patchHeadChecksum(head []byte, totalSum uint32) {
	if len(head) < headChecksumOffset+4 {
		return
	}
	binary.BigEndian.PutUint32(head[headChecksumOffset:], 0xB1B0AFBA-totalSum)
}
