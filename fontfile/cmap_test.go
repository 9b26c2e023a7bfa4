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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
)

func TestBestCMapGoRegular(t *testing.T) {
	f := loadGoRegular(t)
	cmap, err := f.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if len(cmap) < 100 {
		t.Fatalf("suspiciously small cmap: %d entries", len(cmap))
	}
	for r := rune('A'); r <= 'Z'; r++ {
		if cmap[r] == 0 {
			t.Errorf("no glyph for %q", r)
		}
	}
	if cmap['A'] == cmap['B'] {
		t.Error("A and B map to the same glyph")
	}
}

func TestSetCMapRoundTrip(t *testing.T) {
	cases := []map[rune]GlyphID{
		{'A': 1},
		{'A': 1, 'B': 2, 'C': 3, ' ': 4},
		{0x20: 9, 0xAC00: 10, 0xD7A3: 11, 0xFFFD: 12},
		// sparse mapping forces glyph-ID-array segments
		{'a': 17, 'c': 3, 'e': 99, 'g': 4, 'i': 55},
	}
	for i, want := range cases {
		f := loadGoRegular(t)
		if err := f.SetCMap(want); err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		got, err := f.BestCMap()
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("case %d: cmap changed (-want +got):\n%s", i, d)
		}
	}
}

func TestSetCMapSupplementaryPlanes(t *testing.T) {
	want := map[rune]GlyphID{
		'A':     1,
		0x1F600: 2, // outside the BMP, needs a format 12 subtable
		0x1F601: 3,
	}
	f := loadGoRegular(t)
	if err := f.SetCMap(want); err != nil {
		t.Fatal(err)
	}
	got, err := f.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("cmap changed (-want +got):\n%s", d)
	}
	if !f.HasBMPSubtable() {
		t.Error("BMP subtable is missing")
	}
}

func FuzzDecodeCmapSubtable(f *testing.F) {
	reg := loadGoRegularForFuzz(f)
	f.Add(reg.Table("cmap"))
	f.Fuzz(func(t *testing.T, data []byte) {
		subtables, err := decodeCmapHeader(data)
		if err != nil {
			return
		}
		for _, sub := range subtables {
			decodeCmapSubtable(sub)
		}
	})
}

func loadGoRegularForFuzz(f *testing.F) *Font {
	f.Helper()
	font, err := Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		f.Fatal(err)
	}
	return font
}
