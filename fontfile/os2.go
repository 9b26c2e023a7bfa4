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

// Field offsets within the "OS/2" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/os2
const (
	os2WeightClassOffset   = 4
	os2WidthClassOffset    = 6
	os2UnicodeRangeOffset  = 42 // four consecutive uint32 fields
	os2CodePageRangeOffset = 78 // two consecutive uint32 fields, version 1 and up
	os2V0Length            = 78
	os2V1Length            = 86
)

// OS2Version returns the version number of the "OS/2" table, or -1 if
// the table is missing or too short.
func (f *Font) OS2Version() int {
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return -1
	}
	return int(binary.BigEndian.Uint16(os2))
}

// UnicodeRanges returns the four ulUnicodeRange words of the "OS/2"
// table.  Missing or short tables yield all zeros.
func (f *Font) UnicodeRanges() [4]uint32 {
	var res [4]uint32
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return res
	}
	for i := range res {
		res[i] = binary.BigEndian.Uint32(os2[os2UnicodeRangeOffset+4*i:])
	}
	return res
}

// OrUnicodeRanges sets the given bits in the ulUnicodeRange words.
// Existing bits are never cleared.
func (f *Font) OrUnicodeRanges(ranges [4]uint32) error {
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return &ErrNoTable{Name: "OS/2"}
	}
	for i, bits := range ranges {
		pos := os2UnicodeRangeOffset + 4*i
		old := binary.BigEndian.Uint32(os2[pos:])
		binary.BigEndian.PutUint32(os2[pos:], old|bits)
	}
	return nil
}

// CodePageRanges returns the two ulCodePageRange words of the "OS/2"
// table.  Version 0 tables do not have these fields and yield zeros.
func (f *Font) CodePageRanges() [2]uint32 {
	var res [2]uint32
	os2 := f.tables["OS/2"]
	if len(os2) < os2V1Length {
		return res
	}
	for i := range res {
		res[i] = binary.BigEndian.Uint32(os2[os2CodePageRangeOffset+4*i:])
	}
	return res
}

// OrCodePageRanges sets the given bits in the ulCodePageRange words.
// Version 0 tables are left unchanged.
func (f *Font) OrCodePageRanges(ranges [2]uint32) error {
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return &ErrNoTable{Name: "OS/2"}
	}
	if len(os2) < os2V1Length {
		return nil
	}
	for i, bits := range ranges {
		pos := os2CodePageRangeOffset + 4*i
		old := binary.BigEndian.Uint32(os2[pos:])
		binary.BigEndian.PutUint32(os2[pos:], old|bits)
	}
	return nil
}

// WeightClass returns the usWeightClass field of the "OS/2" table.
func (f *Font) WeightClass() uint16 {
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return 0
	}
	return binary.BigEndian.Uint16(os2[os2WeightClassOffset:])
}

// SetWeightClass rewrites the usWeightClass field.
func (f *Font) SetWeightClass(weight uint16) error {
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return &ErrNoTable{Name: "OS/2"}
	}
	binary.BigEndian.PutUint16(os2[os2WeightClassOffset:], weight)
	return nil
}

// WidthClass returns the usWidthClass field of the "OS/2" table.
func (f *Font) WidthClass() uint16 {
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return 0
	}
	return binary.BigEndian.Uint16(os2[os2WidthClassOffset:])
}

// SetWidthClass rewrites the usWidthClass field.
func (f *Font) SetWidthClass(width uint16) error {
	os2 := f.tables["OS/2"]
	if len(os2) < os2V0Length {
		return &ErrNoTable{Name: "OS/2"}
	}
	binary.BigEndian.PutUint16(os2[os2WidthClassOffset:], width)
	return nil
}
