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

// Package subset reduces a font to the glyphs needed for a character
// selection, without renumbering glyphs and without touching the
// layout tables.
package subset

import (
	"fmt"

	"seehuhn.de/go/fontmerge/fontfile"
)

// Error indicates that subsetting a font failed.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "subset: " + e.Reason + ": " + e.Err.Error()
	}
	return "subset: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Apply returns a copy of f reduced to the glyphs reachable from the
// given characters.  Glyph IDs are preserved, so references in the
// GSUB and GPOS tables stay valid; the tables themselves are kept
// intact, as are glyph names, kerning and hinting data.  Outlines of
// unreachable glyphs are blanked rather than removed.
//
// If chars is empty, or none of the characters is mapped by the font,
// Apply returns nil without an error; an empty selection means the
// font contributes nothing, which is an expected caller state.
func Apply(f *fontfile.Font, chars []rune) (*fontfile.Font, error) {
	cmap, err := f.BestCMap()
	if err != nil {
		return nil, &Error{Reason: "cannot read character map", Err: err}
	}

	selected := make(map[rune]fontfile.GlyphID)
	for _, r := range chars {
		if gid, ok := cmap[r]; ok {
			selected[r] = gid
		}
	}
	if len(selected) == 0 {
		return nil, nil
	}

	res := f.Clone()

	// The space glyph and friends stay in even when not selected.
	// By convention these sit right after .notdef.
	keep := make(map[fontfile.GlyphID]bool)
	for gid := fontfile.GlyphID(0); gid < 4 && int(gid) < res.NumGlyphs(); gid++ {
		keep[gid] = true
	}
	for _, gid := range selected {
		keep[gid] = true
	}

	if res.IsGlyf() {
		if err := blankUnreachable(res, keep); err != nil {
			return nil, &Error{Reason: "cannot rewrite glyph data", Err: err}
		}
	}
	// CFF outlines are left alone; the charstring index cannot be
	// modified without renumbering glyphs.  Dropping the unselected
	// characters from the cmap is still worthwhile.

	if err := res.SetCMap(selected); err != nil {
		return nil, &Error{Reason: "cannot rebuild character map", Err: err}
	}
	return res, nil
}

// blankUnreachable clears the outlines of all glyphs not in keep.
// Composite glyphs pull in their components first, so that retained
// accented letters and similar constructions stay renderable.
func blankUnreachable(f *fontfile.Font, keep map[fontfile.GlyphID]bool) error {
	store, err := f.GlyphData()
	if err != nil {
		return err
	}

	todo := make([]fontfile.GlyphID, 0, len(keep))
	for gid := range keep {
		todo = append(todo, gid)
	}
	for len(todo) > 0 {
		gid := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		for _, component := range store.Components(gid) {
			if int(component) >= len(store.Glyphs) {
				return fmt.Errorf("composite glyph %d references glyph %d of %d",
					gid, component, len(store.Glyphs))
			}
			if !keep[component] {
				keep[component] = true
				todo = append(todo, component)
			}
		}
	}

	for gid := range store.Glyphs {
		if !keep[fontfile.GlyphID(gid)] {
			store.Glyphs[gid] = nil
		}
	}
	return f.SetGlyphData(store)
}
