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

package merge

import (
	"errors"
	"fmt"

	"seehuhn.de/go/fontmerge/fontfile"
)

var errUnitsPerEmMismatch = errors.New("fonts have different units per em")

// combine merges the glyphs and character maps of two fonts into a
// new font.  The base font's glyph IDs are preserved; the secondary
// font's glyphs are appended after them, with composite references
// shifted accordingly.  Where both fonts map the same code point, the
// base font wins.
//
// The layout tables (GSUB, GPOS, GDEF) of the base font are carried
// over as they are; the secondary font's layout tables are dropped
// here and partially restored by RestoreLigatures afterwards.
func combine(base, secondary *fontfile.Font) (*fontfile.Font, error) {
	if !base.IsGlyf() || !secondary.IsGlyf() {
		return nil, errors.New("only TrueType outlines can be merged")
	}
	if base.UnitsPerEm() != secondary.UnitsPerEm() {
		return nil, fmt.Errorf("%w: %d vs %d",
			errUnitsPerEmMismatch, base.UnitsPerEm(), secondary.UnitsPerEm())
	}

	baseStore, err := base.GlyphData()
	if err != nil {
		return nil, err
	}
	secStore, err := secondary.GlyphData()
	if err != nil {
		return nil, err
	}
	offset := len(baseStore.Glyphs)
	if offset+len(secStore.Glyphs) > 0xFFFF {
		return nil, errors.New("too many glyphs in combined font")
	}

	res := base.Clone()

	merged := &fontfile.GlyphStore{
		Glyphs: make([][]byte, 0, offset+len(secStore.Glyphs)),
	}
	merged.Glyphs = append(merged.Glyphs, baseStore.Glyphs...)
	merged.Glyphs = append(merged.Glyphs, secStore.Glyphs...)
	for gid := offset; gid < len(merged.Glyphs); gid++ {
		merged.RemapComponents(fontfile.GlyphID(gid), func(old fontfile.GlyphID) fontfile.GlyphID {
			return old + fontfile.GlyphID(offset)
		})
	}
	if err := res.SetGlyphData(merged); err != nil {
		return nil, err
	}

	baseMetrics, err := base.HMetrics()
	if err != nil {
		return nil, err
	}
	secMetrics, err := secondary.HMetrics()
	if err != nil {
		return nil, err
	}
	if err := res.SetHMetrics(append(baseMetrics, secMetrics...)); err != nil {
		return nil, err
	}

	baseCMap, err := base.BestCMap()
	if err != nil {
		return nil, err
	}
	secCMap, err := secondary.BestCMap()
	if err != nil {
		return nil, err
	}
	for r, gid := range secCMap {
		if _, ok := baseCMap[r]; !ok {
			baseCMap[r] = gid + fontfile.GlyphID(offset)
		}
	}
	if err := res.SetCMap(baseCMap); err != nil {
		return nil, err
	}

	// Glyph names from the two post tables cannot be reconciled
	// without renaming; a version 3.0 table sidesteps the conflict.
	res.ForcePostFormat3()

	return res, nil
}
