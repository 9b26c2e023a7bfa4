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

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

// Load reads a font file from the given path.  TrueType and OpenType
// containers are accepted directly, WOFF and WOFF2 containers are
// unpacked on the fly.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, &InvalidFontError{Reason: "cannot load " + path, Err: err}
	}
	return f, nil
}

// Read reads a font from r.  The container format is detected from the
// first four bytes.
func Read(r io.Reader) (*Font, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 12 {
		return nil, &InvalidFontError{Reason: "file too short"}
	}

	signature := binary.BigEndian.Uint32(data[:4])
	switch signature {
	case ScalerTypeTrueType, ScalerTypeCFF, ScalerTypeApple:
		return readSfnt(data)
	case woffSignature:
		return readWOFF(data)
	case woff2Signature:
		return readWOFF2(data)
	default:
		return nil, &InvalidFontError{
			Reason: "unsupported font container signature",
		}
	}
}

// readSfnt decodes a raw sfnt table directory.
func readSfnt(data []byte) (*Font, error) {
	scalerType := binary.BigEndian.Uint32(data[:4])
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if numTables > 280 {
		// the largest value observed in the wild is below 30
		return nil, &InvalidFontError{Reason: "too many tables"}
	}
	if 12+16*numTables > len(data) {
		return nil, &InvalidFontError{Reason: "truncated table directory"}
	}

	f := New(scalerType)
	for i := 0; i < numTables; i++ {
		rec := data[12+16*i:]
		tag := string(rec[:4])
		offset := binary.BigEndian.Uint32(rec[8:12])
		length := binary.BigEndian.Uint32(rec[12:16])

		end := uint64(offset) + uint64(length)
		if offset < 12 || end > uint64(len(data)) {
			return nil, &InvalidFontError{
				Reason: "table " + tag + " extends beyond end of file",
			}
		}
		f.SetTable(tag, data[offset:end])
	}
	if len(f.tables) == 0 {
		return nil, &InvalidFontError{Reason: "no tables found"}
	}
	return f, nil
}
