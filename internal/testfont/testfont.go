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

// Package testfont provides fonts for use in unit tests, based on the
// Go font family.
package testfont

import (
	"bytes"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/fontmerge/fontfile"
)

// Regular returns a fresh copy of the Go Regular font.
func Regular(t *testing.T) *fontfile.Font {
	t.Helper()
	f, err := fontfile.Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// Bold returns a fresh copy of the Go Bold font.
func Bold(t *testing.T) *fontfile.Font {
	t.Helper()
	f, err := fontfile.Read(bytes.NewReader(gobold.TTF))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// WithUnitsPerEm returns the font with its units per em rewritten.
func WithUnitsPerEm(t *testing.T, f *fontfile.Font, upm uint16) *fontfile.Font {
	t.Helper()
	if err := f.SetUnitsPerEm(upm); err != nil {
		t.Fatal(err)
	}
	return f
}

// WithGSUB installs a synthetic GSUB table whose feature list carries
// the given tags, all wired to a default script.  The lookups are
// empty; tests only care about the feature list structure.
func WithGSUB(t *testing.T, f *fontfile.Font, tags ...string) *fontfile.Font {
	t.Helper()

	indices := make([]uint16, len(tags))
	features := make([]fontfile.FeatureRecord, len(tags))
	for i, tag := range tags {
		indices[i] = uint16(i)
		features[i] = fontfile.FeatureRecord{Tag: tag}
	}
	gsub := &fontfile.LayoutTable{
		MajorVersion: 1,
		Scripts: []fontfile.ScriptRecord{
			{
				Tag: "DFLT",
				Script: fontfile.Script{
					DefaultLangSys: &fontfile.LangSys{
						RequiredFeatureIndex: 0xFFFF,
						FeatureIndices:       indices,
					},
				},
			},
		},
		Features: features,
	}
	if err := f.SetLayoutTable("GSUB", gsub); err != nil {
		t.Fatal(err)
	}
	return f
}
