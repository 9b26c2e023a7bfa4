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
	"compress/zlib"
	"encoding/binary"
	"io"
)

// https://www.w3.org/TR/WOFF/
const woffSignature = 0x774F4646 // "wOFF"

const (
	woffHeaderLength = 44
	woffEntryLength  = 20
)

// readWOFF unpacks a WOFF 1.0 container.
func readWOFF(data []byte) (*Font, error) {
	if len(data) < woffHeaderLength {
		return nil, &InvalidFontError{Reason: "truncated WOFF header"}
	}
	flavor := binary.BigEndian.Uint32(data[4:8])
	numTables := int(binary.BigEndian.Uint16(data[12:14]))
	if numTables > 280 {
		return nil, &InvalidFontError{Reason: "too many tables"}
	}
	if woffHeaderLength+woffEntryLength*numTables > len(data) {
		return nil, &InvalidFontError{Reason: "truncated WOFF table directory"}
	}

	f := New(flavor)
	for i := 0; i < numTables; i++ {
		entry := data[woffHeaderLength+woffEntryLength*i:]
		tag := string(entry[:4])
		offset := binary.BigEndian.Uint32(entry[4:8])
		compLength := binary.BigEndian.Uint32(entry[8:12])
		origLength := binary.BigEndian.Uint32(entry[12:16])

		end := uint64(offset) + uint64(compLength)
		if end > uint64(len(data)) {
			return nil, &InvalidFontError{
				Reason: "table " + tag + " extends beyond end of file",
			}
		}
		body := data[offset:end]

		if compLength < origLength {
			zr, err := zlib.NewReader(bytes.NewReader(body))
			if err != nil {
				return nil, &InvalidFontError{
					Reason: "table " + tag + " is not valid zlib data",
					Err:    err,
				}
			}
			body = make([]byte, origLength)
			_, err = io.ReadFull(zr, body)
			if err == nil {
				err = zr.Close()
			}
			if err != nil {
				return nil, &InvalidFontError{
					Reason: "cannot decompress table " + tag,
					Err:    err,
				}
			}
		} else if compLength != origLength {
			return nil, &InvalidFontError{
				Reason: "inconsistent lengths for table " + tag,
			}
		}
		f.SetTable(tag, body)
	}
	if len(f.tables) == 0 {
		return nil, &InvalidFontError{Reason: "no tables found"}
	}
	return f, nil
}
