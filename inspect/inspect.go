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

// Package inspect provides read-only information about font files,
// for use by callers that want to show feedback before starting a
// merge.  None of these functions are needed for merging itself.
package inspect

import (
	"fmt"
	"os"

	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/fontmerge/fontfile"
)

// ValidateFonts checks that both paths exist and contain loadable
// fonts.  On failure the returned message names the offending file.
func ValidateFonts(pathA, pathB string) (bool, string) {
	for _, path := range []string{pathA, pathB} {
		if _, err := os.Stat(path); err != nil {
			return false, "cannot find font file " + path
		}
		if _, err := sfnt.ReadFile(path); err != nil {
			return false, "cannot load font file " + path + ": " + err.Error()
		}
	}
	return true, ""
}

// DisplayName returns the family name of the font at the given path,
// or "" if the font cannot be loaded or has no family name.
func DisplayName(path string) string {
	info, err := sfnt.ReadFile(path)
	if err != nil {
		return ""
	}
	return info.FamilyName
}

// UnitsPerEm returns the design grid resolution of the font at the
// given path, or 0 on error.
func UnitsPerEm(path string) uint16 {
	info, err := sfnt.ReadFile(path)
	if err != nil {
		return 0
	}
	return uint16(info.UnitsPerEm)
}

// CharacterCount returns the number of code points mapped by the
// font's best cmap subtable, or 0 on error.
func CharacterCount(path string) int {
	f, err := fontfile.Load(path)
	if err != nil {
		return 0
	}
	cmap, err := f.BestCMap()
	if err != nil {
		return 0
	}
	return len(cmap)
}

// standardUnitsPerEm lists values common enough that merge tools
// handle them without surprises.
var standardUnitsPerEm = map[uint16]bool{
	256: true, 512: true, 1000: true, 1024: true, 2048: true,
}

// CompatibilityWarnings returns advisory messages about properties of
// the two fonts that tend to cause trouble when merging.  An empty
// result means no obvious problems; it is not a guarantee that the
// merge will succeed.
func CompatibilityWarnings(pathA, pathB string) []string {
	var warnings []string

	fa, errA := fontfile.Load(pathA)
	fb, errB := fontfile.Load(pathB)
	if errA != nil || errB != nil {
		// load failures are reported by ValidateFonts
		return nil
	}

	upmA, upmB := fa.UnitsPerEm(), fb.UnitsPerEm()
	if upmA > 0 && upmB > 0 && upmA != upmB {
		hi, lo := upmA, upmB
		if lo > hi {
			hi, lo = lo, hi
		}
		ratio := float64(hi) / float64(lo)
		if ratio >= 1.5 {
			warnings = append(warnings, fmt.Sprintf(
				"units per em differ widely (%d vs %d, %.1fx): glyph sizes "+
					"will look uneven, use the UnifyUnitsPerEm strategy",
				upmA, upmB, ratio))
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"units per em differ (%d vs %d): the Exact strategy will fail",
				upmA, upmB))
		}
	}
	for i, f := range []*fontfile.Font{fa, fb} {
		label := [2]string{"first", "second"}[i]
		if upm := f.UnitsPerEm(); upm > 0 && !standardUnitsPerEm[upm] {
			warnings = append(warnings, fmt.Sprintf(
				"%s font has a non-standard units per em value (%d)", label, upm))
		}
		if !f.HasTable("OS/2") {
			warnings = append(warnings,
				label+" font has no OS/2 table, metrics may be off")
		}
		if !f.HasTable("cmap") {
			warnings = append(warnings,
				label+" font has no character mapping table")
		}
	}

	if fa.IsCFF() != fb.IsCFF() {
		warnings = append(warnings,
			"one font uses CFF outlines and the other TrueType outlines, "+
				"they cannot be merged directly")
	}

	if overlap := characterOverlap(fa, fb); overlap > 100 {
		warnings = append(warnings, fmt.Sprintf(
			"the fonts share %d code points; the base font will win all of them",
			overlap))
	} else if overlap > 10 {
		warnings = append(warnings, fmt.Sprintf(
			"the fonts share %d code points", overlap))
	}

	return warnings
}

func characterOverlap(fa, fb *fontfile.Font) int {
	cmapA, err := fa.BestCMap()
	if err != nil {
		return 0
	}
	cmapB, err := fb.BestCMap()
	if err != nil {
		return 0
	}
	count := 0
	for r := range cmapA {
		if _, ok := cmapB[r]; ok {
			count++
		}
	}
	return count
}
