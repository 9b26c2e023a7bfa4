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

// Package ligature estimates how rich a font's ligature and
// contextual substitution support is.
//
// The score is a heuristic.  It is only used to decide which of two
// fonts should act as the typographic base when the caller has not
// chosen one, so an imprecise score affects which font's ligatures
// are preferred, never the validity of the merged font.
package ligature

import (
	"strings"

	"seehuhn.de/go/fontmerge/fontfile"
)

// featureWeights gives the contribution of each GSUB feature tag.
var featureWeights = map[string]int{
	"liga": 100,
	"dlig": 50,
	"clig": 50,
	"rlig": 30,
	"calt": 20,
	"kern": 10,
	"curs": 10,
	"ss01": 5, "ss02": 5, "ss03": 5, "ss04": 5, "ss05": 5,
	"ss06": 5, "ss07": 5, "ss08": 5, "ss09": 5, "ss10": 5,
}

// namePatterns are substrings of glyph names that suggest ligature
// glyphs, e.g. "f_i" or "equal_greater.liga".
var namePatterns = []string{
	"liga", "_", "arrow", "equal", "greater", "less",
	"ampersand", "at", "dollar", "percent",
}

// Score rates the ligature support of a font.  Fonts without a GSUB
// table score zero.  The kern and curs weights are also awarded for
// tags found in GPOS, where most fonts carry their kerning.
func Score(f *fontfile.Font) int {
	gsub, err := f.DecodeLayoutTable("GSUB")
	if err != nil || gsub == nil {
		return 0
	}

	score := 0
	seen := make(map[string]bool)
	for _, tag := range gsub.FeatureTags() {
		score += featureWeights[tag]
		seen[tag] = true
	}
	if gpos, err := f.DecodeLayoutTable("GPOS"); err == nil && gpos != nil {
		for _, tag := range gpos.FeatureTags() {
			if (tag == "kern" || tag == "curs") && !seen[tag] {
				score += featureWeights[tag]
				seen[tag] = true
			}
		}
	}
	score += glyphNameBonus(f)
	return score
}

// glyphNameBonus counts glyphs whose names look like ligatures and
// converts the count into a small additive bonus.
func glyphNameBonus(f *fontfile.Font) int {
	names, err := f.GlyphNames()
	if err != nil {
		return 0
	}

	matches := 0
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, pattern := range namePatterns {
			if strings.Contains(lower, pattern) {
				matches++
				break
			}
		}
	}

	switch {
	case matches > 50:
		return 25
	case matches > 20:
		return 15
	case matches > 10:
		return 10
	default:
		return 0
	}
}

// Order decides which of two fonts becomes the typographic base.  It
// returns true if the fonts should be swapped, i.e. if the second
// font scores strictly higher than the first.
func Order(first, second *fontfile.Font) (swapped bool) {
	return Score(second) > Score(first)
}
