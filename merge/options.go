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

// A Strategy selects how aggressively structural differences between
// the two fonts are papered over.
type Strategy int

const (
	// Exact merges the fonts as they are and fails on any structural
	// mismatch, such as differing units per em.
	Exact Strategy = iota

	// UnifyUnitsPerEm sets both fonts to the larger of the two units
	// per em values before merging.  Outlines are not rescaled.
	UnifyUnitsPerEm

	// Lenient tries Exact, then UnifyUnitsPerEm, and finally retries
	// with the digital signature table removed.  The GSUB and GPOS
	// tables are never dropped.
	Lenient
)

func (s Strategy) String() string {
	switch s {
	case Exact:
		return "Exact"
	case UnifyUnitsPerEm:
		return "UnifyUnitsPerEm"
	case Lenient:
		return "Lenient"
	default:
		return "unknown"
	}
}

// An OutputKind selects the container format of the merged font.
type OutputKind int

const (
	// TrueType writes a plain sfnt file (".ttf").
	TrueType OutputKind = iota

	// CompressedWeb writes a WOFF2 file (".woff2").
	CompressedWeb
)

// A BaseChoice says which font acts as the typographic base.  The
// base font wins duplicate code points and is the preferred source
// for ligature restoration.
type BaseChoice int

const (
	// BaseAuto lets the ligature scorer decide.
	BaseAuto BaseChoice = iota
	BaseFirst
	BaseSecond
)

// Options configures a single merge operation.  The zero value merges
// with the Exact strategy, automatic base selection, TrueType output
// and the base font's original name.
type Options struct {
	Strategy Strategy
	Output   OutputKind
	Base     BaseChoice

	// FontName, if non-empty, replaces the family and full names of
	// the merged font.
	FontName string
}
