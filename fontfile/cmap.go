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
	"fmt"
	"math/bits"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// BestCMap returns the character-to-glyph mapping from the best Unicode
// subtable of the "cmap" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
func (f *Font) BestCMap() (map[rune]GlyphID, error) {
	data := f.tables["cmap"]
	if data == nil {
		return nil, &ErrNoTable{Name: "cmap"}
	}
	subtables, err := decodeCmapHeader(data)
	if err != nil {
		return nil, err
	}

	candidates := []cmapKey{
		{3, 10}, // full unicode
		{0, 4},
		{3, 1}, // BMP
		{0, 3},
		{0, 2},
		{0, 1},
		{0, 0},
	}
	for _, key := range candidates {
		sub, ok := subtables[key]
		if !ok {
			continue
		}
		m, err := decodeCmapSubtable(sub)
		if err == nil {
			return m, nil
		}
	}
	return nil, &InvalidFontError{Reason: "no usable unicode cmap subtable"}
}

// HasBMPSubtable reports whether the "cmap" table contains a Unicode
// BMP subtable (platform 3, encoding 1, or platform 0).
func (f *Font) HasBMPSubtable() bool {
	data := f.tables["cmap"]
	if data == nil {
		return false
	}
	subtables, err := decodeCmapHeader(data)
	if err != nil {
		return false
	}
	for key := range subtables {
		if key.platformID == 3 && key.encodingID == 1 || key.platformID == 0 {
			return true
		}
	}
	return false
}

// SetCMap replaces the "cmap" table with one that contains exactly the
// given mapping, encoded as a format 4 BMP subtable plus a format 12
// subtable when code points outside the BMP are present.
func (f *Font) SetCMap(m map[rune]GlyphID) error {
	data, err := makeCmapTable(m)
	if err != nil {
		return err
	}
	f.SetTable("cmap", data)
	return nil
}

type cmapKey struct {
	platformID uint16
	encodingID uint16
}

func decodeCmapHeader(data []byte) (map[cmapKey][]byte, error) {
	if len(data) < 4 {
		return nil, errMalformedCmap
	}
	version := binary.BigEndian.Uint16(data[:2])
	if version != 0 {
		return nil, fmt.Errorf("cmap: unknown version %d", version)
	}
	numTables := int(binary.BigEndian.Uint16(data[2:4]))
	if len(data) < 4+8*numTables {
		return nil, errMalformedCmap
	}

	res := make(map[cmapKey][]byte)
	for i := 0; i < numTables; i++ {
		rec := data[4+8*i:]
		key := cmapKey{
			platformID: binary.BigEndian.Uint16(rec[:2]),
			encodingID: binary.BigEndian.Uint16(rec[2:4]),
		}
		o := binary.BigEndian.Uint32(rec[4:8])
		if uint64(o)+4 > uint64(len(data)) {
			return nil, errMalformedCmap
		}
		res[key] = data[o:]
	}
	return res, nil
}

func decodeCmapSubtable(data []byte) (map[rune]GlyphID, error) {
	if len(data) < 4 {
		return nil, errMalformedCmap
	}
	format := binary.BigEndian.Uint16(data[:2])
	switch format {
	case 0:
		return decodeCmapFormat0(data)
	case 4:
		return decodeCmapFormat4(data)
	case 6:
		return decodeCmapFormat6(data)
	case 12:
		return decodeCmapFormat12(data)
	default:
		return nil, fmt.Errorf("cmap: unsupported subtable format %d", format)
	}
}

func decodeCmapFormat0(data []byte) (map[rune]GlyphID, error) {
	if len(data) < 6+256 {
		return nil, errMalformedCmap
	}
	m := make(map[rune]GlyphID)
	for code := 0; code < 256; code++ {
		gid := GlyphID(data[6+code])
		if gid != 0 {
			m[rune(code)] = gid
		}
	}
	return m, nil
}

func decodeCmapFormat4(data []byte) (map[rune]GlyphID, error) {
	if len(data)%2 != 0 || len(data) < 16 {
		return nil, errMalformedCmap
	}
	segCountX2 := int(binary.BigEndian.Uint16(data[6:8]))
	if segCountX2%2 != 0 || 4*segCountX2+16 > len(data) {
		return nil, errMalformedCmap
	}
	segCount := segCountX2 / 2

	words := make([]uint16, 0, (len(data)-14)/2)
	for i := 14; i+2 <= len(data); i += 2 {
		words = append(words, binary.BigEndian.Uint16(data[i:]))
	}
	endCode := words[:segCount]
	// reservedPad omitted
	startCode := words[segCount+1 : 2*segCount+1]
	idDelta := words[2*segCount+1 : 3*segCount+1]
	idRangeOffset := words[3*segCount+1 : 4*segCount+1]
	glyphIDArray := words[4*segCount+1:]

	m := make(map[rune]GlyphID)
	prevEnd := uint32(0)
	for k := 0; k < segCount; k++ {
		start := uint32(startCode[k])
		end := uint32(endCode[k]) + 1
		if start < prevEnd || end <= start {
			return nil, errMalformedCmap
		}
		prevEnd = end

		if idRangeOffset[k] == 0 {
			delta := idDelta[k]
			for idx := start; idx < end; idx++ {
				gid := GlyphID(uint16(idx) + delta)
				if gid != 0 && idx != 0xFFFF {
					m[rune(idx)] = gid
				}
			}
		} else {
			d := int(idRangeOffset[k])/2 - (segCount - k)
			if d < 0 || d+int(end-start) > len(glyphIDArray) {
				if start == 0xFFFF {
					// some fonts have invalid data for the last segment
					continue
				}
				return nil, errMalformedCmap
			}
			for idx := start; idx < end; idx++ {
				gid := GlyphID(glyphIDArray[d+int(idx-start)])
				if gid != 0 && idx != 0xFFFF {
					m[rune(idx)] = gid
				}
			}
		}
	}
	return m, nil
}

func decodeCmapFormat6(data []byte) (map[rune]GlyphID, error) {
	if len(data) < 10 {
		return nil, errMalformedCmap
	}
	firstCode := int(binary.BigEndian.Uint16(data[6:8]))
	entryCount := int(binary.BigEndian.Uint16(data[8:10]))
	if len(data) < 10+2*entryCount {
		return nil, errMalformedCmap
	}
	m := make(map[rune]GlyphID)
	for i := 0; i < entryCount; i++ {
		gid := GlyphID(binary.BigEndian.Uint16(data[10+2*i:]))
		if gid != 0 {
			m[rune(firstCode+i)] = gid
		}
	}
	return m, nil
}

func decodeCmapFormat12(data []byte) (map[rune]GlyphID, error) {
	if len(data) < 16 {
		return nil, errMalformedCmap
	}
	numGroups := int(binary.BigEndian.Uint32(data[12:16]))
	if len(data) < 16+12*numGroups {
		return nil, errMalformedCmap
	}
	m := make(map[rune]GlyphID)
	for i := 0; i < numGroups; i++ {
		group := data[16+12*i:]
		startChar := binary.BigEndian.Uint32(group[:4])
		endChar := binary.BigEndian.Uint32(group[4:8])
		startGID := binary.BigEndian.Uint32(group[8:12])
		if endChar < startChar || endChar > 0x10FFFF {
			return nil, errMalformedCmap
		}
		for c := startChar; c <= endChar; c++ {
			gid := GlyphID(startGID + c - startChar)
			if gid != 0 {
				m[rune(c)] = gid
			}
		}
	}
	return m, nil
}

// makeCmapTable builds a complete "cmap" table for the given mapping.
func makeCmapTable(m map[rune]GlyphID) ([]byte, error) {
	bmp := make(map[rune]GlyphID)
	hasSupplementary := false
	for r, gid := range m {
		if r < 0 || r > 0x10FFFF {
			return nil, fmt.Errorf("cmap: invalid code point %#x", r)
		}
		if r < 0xFFFF {
			bmp[r] = gid
		} else {
			hasSupplementary = true
		}
	}

	format4 := encodeCmapFormat4(bmp)

	type subtableRec struct {
		key  cmapKey
		data []byte
	}
	var subtables []subtableRec
	subtables = append(subtables,
		subtableRec{cmapKey{0, 3}, format4},
		subtableRec{cmapKey{3, 1}, format4},
	)
	if hasSupplementary {
		format12 := encodeCmapFormat12(m)
		subtables = append(subtables,
			subtableRec{cmapKey{0, 4}, format12},
			subtableRec{cmapKey{3, 10}, format12},
		)
	}
	slices.SortFunc(subtables, func(a, b subtableRec) int {
		if a.key.platformID != b.key.platformID {
			return int(a.key.platformID) - int(b.key.platformID)
		}
		return int(a.key.encodingID) - int(b.key.encodingID)
	})

	numTables := len(subtables)
	endOfHeader := 4 + 8*numTables

	// identical subtables are stored once and shared by offset
	offsets := make([]uint32, numTables)
	seen := make(map[*byte]uint32)
	body := &bytes.Buffer{}
	for i, sub := range subtables {
		o, ok := seen[&sub.data[0]]
		if !ok {
			o = uint32(endOfHeader + body.Len())
			seen[&sub.data[0]] = o
			body.Write(sub.data)
		}
		offsets[i] = o
	}

	res := make([]byte, endOfHeader+body.Len())
	binary.BigEndian.PutUint16(res[2:4], uint16(numTables))
	for i, sub := range subtables {
		rec := res[4+8*i:]
		binary.BigEndian.PutUint16(rec[:2], sub.key.platformID)
		binary.BigEndian.PutUint16(rec[2:4], sub.key.encodingID)
		binary.BigEndian.PutUint32(rec[4:8], offsets[i])
	}
	copy(res[endOfHeader:], body.Bytes())
	return res, nil
}

// encodeCmapFormat4 builds a format 4 subtable.  Runs of consecutive
// code points with consecutive glyph IDs become delta segments, other
// runs store their glyph IDs explicitly.
func encodeCmapFormat4(m map[rune]GlyphID) []byte {
	codes := maps.Keys(m)
	slices.Sort(codes)

	type segment struct {
		first, last uint16
		delta       uint16
		useValues   bool
	}
	var segments []segment
	for i := 0; i < len(codes); {
		j := i + 1
		constantDelta := true
		delta := uint16(m[codes[i]]) - uint16(codes[i])
		for j < len(codes) && codes[j] == codes[j-1]+1 {
			if uint16(m[codes[j]])-uint16(codes[j]) != delta {
				constantDelta = false
			}
			j++
		}
		segments = append(segments, segment{
			first:     uint16(codes[i]),
			last:      uint16(codes[j-1]),
			delta:     delta,
			useValues: !constantDelta,
		})
		i = j
	}
	// the required final segment
	segments = append(segments, segment{first: 0xFFFF, last: 0xFFFF, delta: 1})

	var startCode, endCode, idDelta, idRangeOffset, glyphIDArray []uint16
	for i, s := range segments {
		startCode = append(startCode, s.first)
		endCode = append(endCode, s.last)
		if !s.useValues {
			idDelta = append(idDelta, s.delta)
			idRangeOffset = append(idRangeOffset, 0)
		} else {
			idDelta = append(idDelta, 0)
			offs := 2 * (len(segments) - i + len(glyphIDArray))
			idRangeOffset = append(idRangeOffset, uint16(offs))
			for c := uint32(s.first); c <= uint32(s.last); c++ {
				glyphIDArray = append(glyphIDArray, uint16(m[rune(c)]))
			}
		}
	}

	segCount := len(segments)
	sel := bits.Len(uint(segCount))
	length := 2 * (8 + 4*segCount + len(glyphIDArray))

	buf := &bytes.Buffer{}
	words := []uint16{
		4, // format
		uint16(length),
		0, // language
		uint16(2 * segCount),
		1 << sel, // searchRange
		uint16(sel - 1),
		uint16(2*segCount - 1<<sel), // rangeShift
	}
	binary.Write(buf, binary.BigEndian, words)
	for _, x := range [][]uint16{endCode, {0}, startCode, idDelta, idRangeOffset, glyphIDArray} {
		binary.Write(buf, binary.BigEndian, x)
	}
	return buf.Bytes()
}

// encodeCmapFormat12 builds a format 12 subtable covering the full
// mapping, including code points beyond the BMP.
func encodeCmapFormat12(m map[rune]GlyphID) []byte {
	codes := maps.Keys(m)
	slices.Sort(codes)

	type group struct {
		startChar, endChar, startGID uint32
	}
	var groups []group
	for _, c := range codes {
		gid := uint32(m[c])
		n := len(groups)
		if n > 0 &&
			groups[n-1].endChar+1 == uint32(c) &&
			groups[n-1].startGID+(groups[n-1].endChar-groups[n-1].startChar)+1 == gid {
			groups[n-1].endChar++
			continue
		}
		groups = append(groups, group{uint32(c), uint32(c), gid})
	}

	length := 16 + 12*len(groups)
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(12)) // format
	binary.Write(buf, binary.BigEndian, uint16(0))  // reserved
	binary.Write(buf, binary.BigEndian, uint32(length))
	binary.Write(buf, binary.BigEndian, uint32(0)) // language
	binary.Write(buf, binary.BigEndian, uint32(len(groups)))
	for _, g := range groups {
		binary.Write(buf, binary.BigEndian, g.startChar)
		binary.Write(buf, binary.BigEndian, g.endChar)
		binary.Write(buf, binary.BigEndian, g.startGID)
	}
	return buf.Bytes()
}

var errMalformedCmap = fmt.Errorf("malformed cmap table")
