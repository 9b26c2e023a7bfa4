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

package ligature

import (
	"testing"

	"seehuhn.de/go/fontmerge/fontfile"
	"seehuhn.de/go/fontmerge/internal/testfont"
)

func TestScoreWithoutGSUB(t *testing.T) {
	f := testfont.Regular(t)
	f.RemoveTable("GSUB")
	if got := Score(f); got != 0 {
		t.Errorf("score without GSUB = %d, want 0", got)
	}
}

func TestFeatureWeights(t *testing.T) {
	cases := []struct {
		tags []string
		want int
	}{
		{[]string{"liga"}, 100},
		{[]string{"liga", "dlig"}, 150},
		{[]string{"clig", "rlig"}, 80},
		{[]string{"calt", "kern", "curs"}, 40},
		{[]string{"ss01", "ss02", "ss10"}, 15},
		{[]string{"smcp", "onum"}, 0}, // unweighted features
		{[]string{"liga", "liga"}, 200},
	}
	for _, c := range cases {
		f := testfont.WithGSUB(t, testfont.Regular(t), c.tags...)
		f.RemoveTable("post") // suppress the glyph-name bonus
		f.RemoveTable("GPOS")
		if got := Score(f); got != c.want {
			t.Errorf("Score(%v) = %d, want %d", c.tags, got, c.want)
		}
	}
}

func TestScoreCountsGPOSKerning(t *testing.T) {
	gpos := &fontfile.LayoutTable{
		MajorVersion: 1,
		Features: []fontfile.FeatureRecord{
			{Tag: "kern"},
			{Tag: "curs"},
			{Tag: "mark"}, // no weight
		},
	}

	f := testfont.WithGSUB(t, testfont.Regular(t), "liga")
	f.RemoveTable("post")
	if err := f.SetLayoutTable("GPOS", gpos); err != nil {
		t.Fatal(err)
	}
	if got := Score(f); got != 100+10+10 {
		t.Errorf("Score = %d, want 120", got)
	}

	// a tag present in both tables is only counted once
	f = testfont.WithGSUB(t, testfont.Regular(t), "liga", "kern")
	f.RemoveTable("post")
	if err := f.SetLayoutTable("GPOS", gpos); err != nil {
		t.Fatal(err)
	}
	if got := Score(f); got != 100+10+10 {
		t.Errorf("Score with kern in both tables = %d, want 120", got)
	}

	// without GSUB the font scores zero regardless of GPOS
	f = testfont.Regular(t)
	f.RemoveTable("GSUB")
	if err := f.SetLayoutTable("GPOS", gpos); err != nil {
		t.Fatal(err)
	}
	if got := Score(f); got != 0 {
		t.Errorf("Score without GSUB = %d, want 0", got)
	}
}

func TestGlyphNameBonus(t *testing.T) {
	f := testfont.WithGSUB(t, testfont.Regular(t), "liga")
	f.RemoveTable("GPOS")
	base := 100

	got := Score(f)
	bonus := got - base
	switch bonus {
	case 0, 10, 15, 25:
		// goregular contains underscore/at/dollar glyphs, so any of
		// the defined tiers can legitimately apply
	default:
		t.Errorf("glyph name bonus = %d, not a defined tier", bonus)
	}
}

func TestOrder(t *testing.T) {
	strong := testfont.WithGSUB(t, testfont.Regular(t), "liga", "dlig")
	weak := testfont.Regular(t)
	weak.RemoveTable("GSUB")
	weak.RemoveTable("post")

	if Order(strong, weak) {
		t.Error("base font with higher score was swapped away")
	}
	if !Order(weak, strong) {
		t.Error("stronger second font did not become base")
	}

	// ties keep the first font as base
	a := testfont.Regular(t)
	b := testfont.Regular(t)
	if Order(a, b) {
		t.Error("tie must not swap")
	}
}

func TestScoreIsReadOnly(t *testing.T) {
	f := testfont.WithGSUB(t, testfont.Regular(t), "liga")
	before := append([]byte(nil), f.Table("GSUB")...)
	Score(f)
	after := f.Table("GSUB")
	if string(before) != string(after) {
		t.Error("scoring modified the GSUB table")
	}
}
