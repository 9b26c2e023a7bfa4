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
	"encoding/binary"
	"fmt"
	"sort"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Name IDs used by the metadata finalizer.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#name-ids
const (
	NameIDFamily            = 1
	NameIDSubfamily         = 2
	NameIDUniqueID          = 3
	NameIDFullName          = 4
	NameIDPostScriptName    = 6
	NameIDTypographicFamily = 16
	NameIDTypographicSubfam = 17
)

// A NameRecord is a single entry of the "name" table.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16

	// Value is the decoded string, or "" if the record uses an
	// encoding we cannot decode.  Undecodable records keep their raw
	// bytes and survive a decode/encode round trip unchanged.
	Value string

	raw []byte
}

// NameTable is the decoded form of the "name" table.
type NameTable struct {
	Records []NameRecord
}

// DecodeNames decodes the "name" table.  Returns nil (and no error) if
// the font has no "name" table.
func (f *Font) DecodeNames() (*NameTable, error) {
	data := f.tables["name"]
	if data == nil {
		return nil, nil
	}
	if len(data) < 6 {
		return nil, errMalformedNames
	}
	numRec := int(binary.BigEndian.Uint16(data[2:4]))
	storageOffset := int(binary.BigEndian.Uint16(data[4:6]))
	if 6+12*numRec > len(data) || storageOffset > len(data) {
		return nil, errMalformedNames
	}

	nt := &NameTable{}
	for i := 0; i < numRec; i++ {
		rec := data[6+12*i:]
		r := NameRecord{
			PlatformID: binary.BigEndian.Uint16(rec[:2]),
			EncodingID: binary.BigEndian.Uint16(rec[2:4]),
			LanguageID: binary.BigEndian.Uint16(rec[4:6]),
			NameID:     binary.BigEndian.Uint16(rec[6:8]),
		}
		length := int(binary.BigEndian.Uint16(rec[8:10]))
		offset := int(binary.BigEndian.Uint16(rec[10:12]))
		if storageOffset+offset+length > len(data) {
			return nil, errMalformedNames
		}
		raw := data[storageOffset+offset : storageOffset+offset+length]

		if dec := nameDecoder(r.PlatformID, r.EncodingID); dec != nil {
			val, err := dec.Bytes(raw)
			if err == nil {
				r.Value = string(val)
			} else {
				r.raw = raw
			}
		} else {
			r.raw = raw
		}
		nt.Records = append(nt.Records, r)
	}
	return nt, nil
}

// SetNames encodes nt and replaces the "name" table.
func (f *Font) SetNames(nt *NameTable) error {
	data, err := nt.encode()
	if err != nil {
		return err
	}
	f.SetTable("name", data)
	return nil
}

// Get returns the value of the first decoded record matching the given
// IDs, or "" if there is none.
func (nt *NameTable) Get(nameID, platformID, encodingID, languageID uint16) string {
	for _, r := range nt.Records {
		if r.NameID == nameID &&
			r.PlatformID == platformID &&
			r.EncodingID == encodingID &&
			r.LanguageID == languageID {
			return r.Value
		}
	}
	return ""
}

// Remove drops all records with the given name ID.
func (nt *NameTable) Remove(nameID uint16) {
	res := nt.Records[:0]
	for _, r := range nt.Records {
		if r.NameID != nameID {
			res = append(res, r)
		}
	}
	nt.Records = res
}

func (nt *NameTable) encode() ([]byte, error) {
	records := make([]NameRecord, len(nt.Records))
	copy(records, nt.Records)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.PlatformID != b.PlatformID {
			return a.PlatformID < b.PlatformID
		}
		if a.EncodingID != b.EncodingID {
			return a.EncodingID < b.EncodingID
		}
		if a.LanguageID != b.LanguageID {
			return a.LanguageID < b.LanguageID
		}
		return a.NameID < b.NameID
	})

	b := newNameBuilder()
	type placed struct {
		rec            NameRecord
		offset, length uint16
	}
	placedRecs := make([]placed, 0, len(records))
	for _, r := range records {
		var stringData []byte
		if r.raw != nil {
			stringData = r.raw
		} else {
			enc := nameEncoder(r.PlatformID, r.EncodingID)
			if enc == nil {
				// cannot represent this record, drop it
				continue
			}
			var err error
			stringData, err = enc.Bytes([]byte(r.Value))
			if err != nil {
				return nil, fmt.Errorf("name: cannot encode %q: %w", r.Value, err)
			}
		}
		offset, length := b.Add(stringData)
		placedRecs = append(placedRecs, placed{r, offset, length})
	}

	numRec := len(placedRecs)
	startOfStrings := 6 + numRec*12
	res := make([]byte, startOfStrings+len(b.data))
	binary.BigEndian.PutUint16(res[2:4], uint16(numRec))
	binary.BigEndian.PutUint16(res[4:6], uint16(startOfStrings))
	for i, p := range placedRecs {
		rec := res[6+12*i:]
		binary.BigEndian.PutUint16(rec[:2], p.rec.PlatformID)
		binary.BigEndian.PutUint16(rec[2:4], p.rec.EncodingID)
		binary.BigEndian.PutUint16(rec[4:6], p.rec.LanguageID)
		binary.BigEndian.PutUint16(rec[6:8], p.rec.NameID)
		binary.BigEndian.PutUint16(rec[8:10], p.length)
		binary.BigEndian.PutUint16(rec[10:12], p.offset)
	}
	copy(res[startOfStrings:], b.data)
	return res, nil
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func nameDecoder(platformID, encodingID uint16) *encoding.Decoder {
	switch {
	case platformID == 0 || platformID == 3:
		return utf16BE.NewDecoder()
	case platformID == 1 && encodingID == 0:
		return charmap.Macintosh.NewDecoder()
	default:
		return nil
	}
}

func nameEncoder(platformID, encodingID uint16) *encoding.Encoder {
	switch {
	case platformID == 0 || platformID == 3:
		return utf16BE.NewEncoder()
	case platformID == 1 && encodingID == 0:
		return encoding.ReplaceUnsupported(charmap.Macintosh.NewEncoder())
	default:
		return nil
	}
}

type nameBuilder struct {
	data []byte
	idx  map[string]uint16
}

func newNameBuilder() *nameBuilder {
	return &nameBuilder{
		idx: make(map[string]uint16),
	}
}

func (nb *nameBuilder) Add(b []byte) (offs, length uint16) {
	key := string(b)
	if idx, ok := nb.idx[key]; ok {
		return idx, uint16(len(b))
	}
	idx := uint16(len(nb.data))
	nb.idx[key] = idx
	nb.data = append(nb.data, b...)
	return idx, uint16(len(b))
}

var errMalformedNames = fmt.Errorf("malformed name table")
