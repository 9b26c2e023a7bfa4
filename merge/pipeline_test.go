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

import (
	"errors"
	"path/filepath"
	"testing"

	"seehuhn.de/go/fontmerge/fontfile"
	"seehuhn.de/go/fontmerge/internal/testfont"
)

func writeTestFonts(t *testing.T) (firstPath, secondPath string) {
	t.Helper()
	dir := t.TempDir()
	firstPath = filepath.Join(dir, "first.ttf")
	secondPath = filepath.Join(dir, "second.ttf")
	if err := testfont.Regular(t).Save(firstPath); err != nil {
		t.Fatal(err)
	}
	if err := testfont.Bold(t).Save(secondPath); err != nil {
		t.Fatal(err)
	}
	return firstPath, secondPath
}

func TestPipelineTrueType(t *testing.T) {
	firstPath, secondPath := writeTestFonts(t)
	outPath := filepath.Join(t.TempDir(), "out.ttf")

	firstSel := Selection{"Uppercase Latin": runes('A', 'Z')}
	secondSel := Selection{"Digits": runes('0', '9')}
	opts := &Options{FontName: "Pipeline Test"}
	err := Fonts(firstPath, firstSel, secondPath, secondSel, outPath, opts, discardLog())
	if err != nil {
		t.Fatal(err)
	}

	merged, err := fontfile.Load(outPath)
	if err != nil {
		t.Fatal(err)
	}
	cmap, err := merged.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if len(cmap) != 26+10 {
		t.Errorf("merged cmap has %d entries, want 36", len(cmap))
	}
	if got := FamilyName(merged); got != "Pipeline Test" {
		t.Errorf("family name = %q, want %q", got, "Pipeline Test")
	}
	if merged.UnicodeRanges()[0]&1 == 0 {
		t.Error("Basic Latin coverage bit not set")
	}
}

func TestPipelineWOFF2(t *testing.T) {
	firstPath, secondPath := writeTestFonts(t)
	outPath := filepath.Join(t.TempDir(), "out.woff2")

	firstSel := Selection{"Uppercase Latin": runes('A', 'Z')}
	secondSel := Selection{"Digits": runes('0', '9')}
	opts := &Options{Output: CompressedWeb}
	err := Fonts(firstPath, firstSel, secondPath, secondSel, outPath, opts, discardLog())
	if err != nil {
		t.Fatal(err)
	}

	merged, err := fontfile.Load(outPath)
	if err != nil {
		t.Fatal(err)
	}
	cmap, err := merged.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if len(cmap) != 26+10 {
		t.Errorf("merged cmap has %d entries, want 36", len(cmap))
	}
}

func TestPipelineEmptySelection(t *testing.T) {
	firstPath, secondPath := writeTestFonts(t)
	outPath := filepath.Join(t.TempDir(), "out.ttf")

	err := Fonts(firstPath, nil, secondPath, nil, outPath, nil, discardLog())
	var emptyErr *EmptySelectionError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error is %v, want *EmptySelectionError", err)
	}
}

func TestPipelineSingleContributor(t *testing.T) {
	firstPath, secondPath := writeTestFonts(t)
	outPath := filepath.Join(t.TempDir(), "out.ttf")

	// the second selection names characters the font cannot map
	firstSel := Selection{"Uppercase Latin": runes('A', 'Z')}
	secondSel := Selection{"Hangul Syllables": runes(0xAC00, 0xAC0F)}
	err := Fonts(firstPath, firstSel, secondPath, secondSel, outPath, nil, discardLog())
	if err != nil {
		t.Fatal(err)
	}

	merged, err := fontfile.Load(outPath)
	if err != nil {
		t.Fatal(err)
	}
	cmap, err := merged.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if len(cmap) != 26 {
		t.Errorf("merged cmap has %d entries, want 26", len(cmap))
	}
}

func TestPipelineBaseSecond(t *testing.T) {
	firstPath, secondPath := writeTestFonts(t)
	outPath := filepath.Join(t.TempDir(), "out.ttf")

	firstSel := Selection{"Uppercase Latin": runes('A', 'Z')}
	secondSel := Selection{"Digits": runes('0', '9')}
	opts := &Options{Base: BaseSecond}
	err := Fonts(firstPath, firstSel, secondPath, secondSel, outPath, opts, discardLog())
	if err != nil {
		t.Fatal(err)
	}

	merged, err := fontfile.Load(outPath)
	if err != nil {
		t.Fatal(err)
	}

	// with the second font as base, digit glyph IDs match its subset
	second, err := fontfile.Load(secondPath)
	if err != nil {
		t.Fatal(err)
	}
	secondCMap, err := second.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	cmap, err := merged.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if cmap['0'] != secondCMap['0'] {
		t.Errorf("glyph ID for 0 is %d, want base font's %d",
			cmap['0'], secondCMap['0'])
	}
}

func TestSelectionRunes(t *testing.T) {
	sel := Selection{
		"a": {'x', 'y'},
		"b": {'y', 'z'},
	}
	got := sel.Runes()
	if len(got) != 3 {
		t.Errorf("Runes returned %d characters, want 3", len(got))
	}
}
