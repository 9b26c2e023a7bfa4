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

// Package charset defines named Unicode character ranges that users
// can select for font merging.  The catalog mixes Unicode blocks with
// popular icon-font conventions such as the Nerd Fonts private use
// area assignments.
package charset

import (
	"sort"

	"seehuhn.de/go/fontmerge/fontfile"
)

// A Set is a named, inclusive range of Unicode code points.
type Set struct {
	Name   string
	Lo, Hi rune
}

// Contains reports whether r falls into the set.
func (s Set) Contains(r rune) bool {
	return r >= s.Lo && r <= s.Hi
}

// Coverage counts how many code points of the set are mapped to a
// glyph by the given character map.
func (s Set) Coverage(cmap map[rune]fontfile.GlyphID) int {
	count := 0
	for r := s.Lo; r <= s.Hi; r++ {
		if _, ok := cmap[r]; ok {
			count++
		}
	}
	return count
}

// Catalog lists all selectable character sets, in display order.
// Several of the private use area sets overlap on purpose; the icon
// font ecosystem assigns the same code points to different uses.
var Catalog = []Set{
	{"Uppercase Latin", 0x0041, 0x005A},
	{"Lowercase Latin", 0x0061, 0x007A},
	{"Digits", 0x0030, 0x0039},
	{"Hangul Syllables", 0xAC00, 0xD7AF},
	{"Hangul Jamo", 0x1100, 0x11FF},
	{"Hangul Compatibility Jamo", 0x3130, 0x318F},
	{"Hangul Halfwidth Jamo", 0xFFA0, 0xFFDC},
	{"Basic Latin", 0x0020, 0x007F},
	{"Latin Extended-A", 0x0100, 0x017F},
	{"Latin Extended-B", 0x0180, 0x024F},
	{"General Punctuation", 0x2000, 0x206F},
	{"Superscripts and Subscripts", 0x2070, 0x209F},
	{"Currency Symbols", 0x20A0, 0x20CF},
	{"CJK Symbols and Punctuation", 0x3000, 0x303F},
	{"Hiragana", 0x3040, 0x309F},
	{"Katakana", 0x30A0, 0x30FF},
	{"CJK Unified Ideographs", 0x4E00, 0x9FFF},
	{"CJK Extension A", 0x3400, 0x4DBF},
	{"Standard Ligatures", 0xFB00, 0xFB4F},
	{"Programming Ligatures I", 0xE000, 0xE0FF},
	{"Programming Ligatures II", 0xE100, 0xE1FF},
	{"Extended Ligatures", 0xF000, 0xF0FF},
	{"Mathematical Operators", 0x2200, 0x22FF},
	{"Arrows", 0x2190, 0x21FF},
	{"Box Drawing", 0x2500, 0x257F},
	{"Block Elements", 0x2580, 0x259F},
	{"Geometric Shapes", 0x25A0, 0x25FF},
	{"Nerd Fonts Icons", 0xE000, 0xF8FF},
	{"Powerline", 0xE0A0, 0xE0A2},
	{"Powerline Extra", 0xE0B0, 0xE0B3},
	{"Font Awesome", 0xF000, 0xF2E0},
	{"Weather Icons", 0xF300, 0xF32F},
	{"Seti-UI", 0xE5FA, 0xE62B},
	{"Devicons", 0xE700, 0xE7C5},
	{"Octicons", 0xF400, 0xF4A9},
	{"Material Design", 0xF500, 0xFD46},
	{"Codicons", 0xEA60, 0xEBEB},
	{"Pomicons", 0xE000, 0xE00D},
}

// ByName returns the catalog entry with the given name.
func ByName(name string) (Set, bool) {
	for _, s := range Catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Set{}, false
}

// A Coverage pairs a catalog entry with the number of its code
// points a particular font can display.
type Coverage struct {
	Set
	Count int
}

// RangesFor returns the catalog in display order, with per-range
// coverage counts for the given font.  Ranges the font does not cover
// at all are included with a count of zero, so callers can show them
// disabled.
func RangesFor(f *fontfile.Font) ([]Coverage, error) {
	cmap, err := f.BestCMap()
	if err != nil {
		return nil, err
	}
	res := make([]Coverage, len(Catalog))
	for i, s := range Catalog {
		res[i] = Coverage{Set: s, Count: s.Coverage(cmap)}
	}
	return res, nil
}

// Runes returns the sorted union of the code points of all given sets
// that are mapped by cmap.  Overlapping sets contribute each code
// point only once.
func Runes(cmap map[rune]fontfile.GlyphID, sets []Set) []rune {
	seen := make(map[rune]bool)
	var res []rune
	for _, s := range sets {
		for r := s.Lo; r <= s.Hi; r++ {
			if _, ok := cmap[r]; ok && !seen[r] {
				seen[r] = true
				res = append(res, r)
			}
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
