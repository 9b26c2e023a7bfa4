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

// Package merge combines two subset fonts into one, repairs the
// layout features the combination step loses, and finalizes the
// result's metadata.
package merge

import (
	"log/slog"

	"seehuhn.de/go/fontmerge/fontfile"
	"seehuhn.de/go/fontmerge/ligature"
	"seehuhn.de/go/fontmerge/subset"
)

// A Selection maps charset range names to the characters the user
// picked from each range.  Only the characters matter for merging;
// the range names are kept for caller-side reporting.
type Selection map[string][]rune

// Runes returns all selected characters, deduplicated.
func (s Selection) Runes() []rune {
	seen := make(map[rune]bool)
	var res []rune
	for _, chars := range s {
		for _, r := range chars {
			if !seen[r] {
				seen[r] = true
				res = append(res, r)
			}
		}
	}
	return res
}

// Fonts runs the full merge pipeline: load, subset, merge, ligature
// restoration, metadata finalization, save.  The output is written to
// outPath in the container format given by opts.Output.
//
// The first font is the typographic base unless opts.Base says
// otherwise; with BaseAuto the font with the higher ligature score
// wins, the first font on a tie.
func Fonts(firstPath string, firstSel Selection, secondPath string, secondSel Selection, outPath string, opts *Options, log *slog.Logger) error {
	if opts == nil {
		opts = &Options{}
	}
	if log == nil {
		log = slog.Default()
	}

	firstRunes := firstSel.Runes()
	secondRunes := secondSel.Runes()
	if len(firstRunes) == 0 && len(secondRunes) == 0 {
		return &EmptySelectionError{}
	}

	first, err := fontfile.Load(firstPath)
	if err != nil {
		return err
	}
	second, err := fontfile.Load(secondPath)
	if err != nil {
		return err
	}

	base, baseRunes := first, firstRunes
	secondary, secondaryRunes := second, secondRunes
	swapped := false
	switch opts.Base {
	case BaseSecond:
		swapped = true
	case BaseAuto:
		swapped = ligature.Order(first, second)
	}
	if swapped {
		base, secondary = second, first
		baseRunes, secondaryRunes = secondRunes, firstRunes
		log.Info("using second font as typographic base")
	}

	baseSub, err := subset.Apply(base, baseRunes)
	if err != nil {
		return err
	}
	secondarySub, err := subset.Apply(secondary, secondaryRunes)
	if err != nil {
		return err
	}

	var merged *fontfile.Font
	switch {
	case baseSub == nil && secondarySub == nil:
		return &EmptySelectionError{}
	case secondarySub == nil:
		log.Info("second selection contributes nothing, keeping base subset")
		merged = baseSub
	case baseSub == nil:
		log.Info("base selection contributes nothing, keeping secondary subset")
		merged = secondarySub
	default:
		merged, err = Merge(baseSub, secondarySub, opts.Strategy, log)
		if err != nil {
			return err
		}
		RestoreLigatures(merged, baseSub, secondarySub, log)
	}

	if opts.FontName != "" {
		ApplyName(merged, opts.FontName, log)
	}
	PatchMetadataForExtendedScript(merged, log)

	switch opts.Output {
	case CompressedWeb:
		err = merged.SaveWOFF2(outPath)
	default:
		err = merged.Save(outPath)
	}
	if err != nil {
		return &IOError{Path: outPath, Err: err}
	}
	return nil
}
