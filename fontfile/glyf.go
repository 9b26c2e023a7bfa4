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
	"errors"

	"golang.org/x/exp/slices"
)

// Composite glyph component flags.
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf
const (
	flagArg1And2AreWords = 0x0001
	flagWeHaveAScale     = 0x0008
	flagMoreComponents   = 0x0020
	flagXAndYScale       = 0x0040
	flagTwoByTwo         = 0x0080
)

var errMalformedGlyf = errors.New("malformed glyf table")

// GlyphStore holds the outlines of a TrueType font, one byte slice per
// glyph.  An empty slice describes a blank glyph.
type GlyphStore struct {
	Glyphs [][]byte
}

// GlyphData decodes the "loca" and "glyf" tables into per-glyph byte
// slices.  The slices alias the original table data.
func (f *Font) GlyphData() (*GlyphStore, error) {
	glyf := f.tables["glyf"]
	loca := f.tables["loca"]
	if glyf == nil || loca == nil {
		return nil, &ErrNoTable{Name: "glyf"}
	}

	numGlyphs := f.NumGlyphs()
	offsets, err := decodeLoca(loca, numGlyphs, f.IndexToLocFormat())
	if err != nil {
		return nil, err
	}

	store := &GlyphStore{
		Glyphs: make([][]byte, numGlyphs),
	}
	for i := 0; i < numGlyphs; i++ {
		start, end := offsets[i], offsets[i+1]
		if start > end || int(end) > len(glyf) {
			return nil, errMalformedGlyf
		}
		store.Glyphs[i] = glyf[start:end]
	}
	return store, nil
}

// SetGlyphData encodes the store into new "glyf" and "loca" tables.
// The long loca format is always used, and the glyph count in "maxp"
// is updated.
func (f *Font) SetGlyphData(store *GlyphStore) error {
	numGlyphs := len(store.Glyphs)
	if numGlyphs > 0xFFFF {
		return errors.New("too many glyphs")
	}

	var glyfLen int
	for _, g := range store.Glyphs {
		glyfLen += len(g)
	}
	glyf := make([]byte, 0, glyfLen)
	loca := make([]byte, 4*(numGlyphs+1))
	for i, g := range store.Glyphs {
		binary.BigEndian.PutUint32(loca[4*i:], uint32(len(glyf)))
		glyf = append(glyf, g...)
	}
	binary.BigEndian.PutUint32(loca[4*numGlyphs:], uint32(len(glyf)))

	f.SetTable("glyf", glyf)
	f.SetTable("loca", loca)
	if err := f.setIndexToLocFormat(1); err != nil {
		return err
	}
	return f.setNumGlyphs(numGlyphs)
}

// IsComposite reports whether the glyph with the given ID is a
// composite glyph.
func (s *GlyphStore) IsComposite(gid GlyphID) bool {
	if int(gid) >= len(s.Glyphs) {
		return false
	}
	g := s.Glyphs[gid]
	return len(g) >= 2 && int16(binary.BigEndian.Uint16(g)) < 0
}

// Components returns the glyph IDs referenced by a composite glyph, or
// nil for simple glyphs.
func (s *GlyphStore) Components(gid GlyphID) []GlyphID {
	var res []GlyphID
	s.walkComponents(gid, func(pos int, component GlyphID) {
		res = append(res, component)
	})
	return res
}

// RemapComponents rewrites the component glyph IDs of a composite
// glyph using the given mapping.  The glyph data is copied before it
// is modified.
func (s *GlyphStore) RemapComponents(gid GlyphID, mapping func(GlyphID) GlyphID) {
	if !s.IsComposite(gid) {
		return
	}
	s.Glyphs[gid] = slices.Clone(s.Glyphs[gid])
	s.walkComponents(gid, func(pos int, component GlyphID) {
		binary.BigEndian.PutUint16(s.Glyphs[gid][pos:], uint16(mapping(component)))
	})
}

// walkComponents visits the glyphIndex field of every component of a
// composite glyph.  Malformed glyphs are abandoned silently; the
// remaining data cannot be interpreted in that case.
func (s *GlyphStore) walkComponents(gid GlyphID, visit func(pos int, component GlyphID)) {
	if !s.IsComposite(gid) {
		return
	}
	g := s.Glyphs[gid]
	pos := 10
	for {
		if pos+4 > len(g) {
			return
		}
		flags := binary.BigEndian.Uint16(g[pos:])
		component := GlyphID(binary.BigEndian.Uint16(g[pos+2:]))
		visit(pos+2, component)

		skip := pos + 4
		if flags&flagArg1And2AreWords != 0 {
			skip += 4
		} else {
			skip += 2
		}
		switch {
		case flags&flagWeHaveAScale != 0:
			skip += 2
		case flags&flagXAndYScale != 0:
			skip += 4
		case flags&flagTwoByTwo != 0:
			skip += 8
		}
		if flags&flagMoreComponents == 0 {
			return
		}
		pos = skip
	}
}

// decodeLoca converts a "loca" table into glyph offsets within the
// "glyf" table.
func decodeLoca(loca []byte, numGlyphs, format int) ([]uint32, error) {
	offsets := make([]uint32, numGlyphs+1)
	switch format {
	case 0: // short format, offsets divided by two
		if len(loca) < 2*(numGlyphs+1) {
			return nil, errMalformedGlyf
		}
		for i := range offsets {
			offsets[i] = 2 * uint32(binary.BigEndian.Uint16(loca[2*i:]))
		}
	case 1: // long format
		if len(loca) < 4*(numGlyphs+1) {
			return nil, errMalformedGlyf
		}
		for i := range offsets {
			offsets[i] = binary.BigEndian.Uint32(loca[4*i:])
		}
	default:
		return nil, errMalformedGlyf
	}
	return offsets, nil
}
