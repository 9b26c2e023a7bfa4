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

// Package fontfile gives table-level access to sfnt font files.
//
// A Font is an owned copy of the table directory of one font file:
// a mapping from table tags to table contents.  Tables the engine does
// not understand pass through byte for byte, which is what keeps
// hinting, kerning and layout data intact across subsetting and
// merging.  Targeted codecs exist only for the tables that need to be
// rewritten (cmap, name, OS/2, head, loca/glyf, hmtx, GSUB/GPOS).
package fontfile

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GlyphID identifies a glyph within one font.
type GlyphID uint16

// Scaler types for the sfnt container header.
const (
	ScalerTypeTrueType = 0x00010000
	ScalerTypeCFF      = 0x4F54544F // "OTTO"
	ScalerTypeApple    = 0x74727565 // "true"
)

// Font holds the decoded table directory of one font file.
//
// A Font is never shared between concurrent operations; Clone gives an
// independent copy whose tables do not alias the original.
type Font struct {
	// ScalerType is the container signature (TrueType, CFF or Apple).
	ScalerType uint32

	tables map[string][]byte
}

// New creates an empty font with the given scaler type.
func New(scalerType uint32) *Font {
	return &Font{
		ScalerType: scalerType,
		tables:     make(map[string][]byte),
	}
}

// Clone returns a deep copy of the font.  The copy owns its table data;
// mutating it never affects f.
func (f *Font) Clone() *Font {
	res := New(f.ScalerType)
	for tag, data := range f.tables {
		res.tables[tag] = slices.Clone(data)
	}
	return res
}

// HasTable reports whether a table with the given tag is present.
func (f *Font) HasTable(tag string) bool {
	_, ok := f.tables[tag]
	return ok
}

// Table returns the contents of the given table, or nil if the table is
// not present.  The returned slice is owned by the font; callers must
// not modify it unless they also own the font.
func (f *Font) Table(tag string) []byte {
	return f.tables[tag]
}

// SetTable replaces the contents of the given table.  The font takes
// ownership of a copy of data, so later changes to data do not leak in.
func (f *Font) SetTable(tag string, data []byte) {
	f.tables[tag] = slices.Clone(data)
}

// RemoveTable deletes the given table if present.
func (f *Font) RemoveTable(tag string) {
	delete(f.tables, tag)
}

// Tags returns the table tags present in the font, sorted.
func (f *Font) Tags() []string {
	tags := maps.Keys(f.tables)
	slices.Sort(tags)
	return tags
}

// IsCFF reports whether the font uses CFF glyph outlines.
func (f *Font) IsCFF() bool {
	return f.HasTable("CFF ")
}

// IsGlyf reports whether the font uses TrueType glyph outlines.
func (f *Font) IsGlyf() bool {
	return f.HasTable("glyf") && f.HasTable("loca")
}

// NumGlyphs returns the glyph count from the "maxp" table, or 0 if the
// table is missing or too short.
func (f *Font) NumGlyphs() int {
	maxp := f.tables["maxp"]
	if len(maxp) < 6 {
		return 0
	}
	return int(maxp[4])<<8 | int(maxp[5])
}

func (f *Font) setNumGlyphs(n int) error {
	maxp := f.tables["maxp"]
	if len(maxp) < 6 {
		return &InvalidFontError{Reason: "missing or malformed maxp table"}
	}
	if n > 0xFFFF {
		return fmt.Errorf("fontfile: %d glyphs exceed the sfnt limit", n)
	}
	maxp[4] = byte(n >> 8)
	maxp[5] = byte(n)
	return nil
}

// InvalidFontError indicates that a file could not be parsed as a
// supported font container.
type InvalidFontError struct {
	Reason string
	Err    error
}

func (e *InvalidFontError) Error() string {
	if e.Err != nil {
		return "fontfile: " + e.Reason + ": " + e.Err.Error()
	}
	return "fontfile: " + e.Reason
}

func (e *InvalidFontError) Unwrap() error {
	return e.Err
}

// ErrNoTable indicates that a required sfnt table is missing.
type ErrNoTable struct {
	Name string
}

func (e *ErrNoTable) Error() string {
	return fmt.Sprintf("sfnt table %q missing", e.Name)
}
