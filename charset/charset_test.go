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

package charset

import (
	"testing"

	"seehuhn.de/go/fontmerge/internal/testfont"
)

func TestCatalogIsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Catalog {
		if s.Name == "" {
			t.Error("catalog entry without a name")
		}
		if seen[s.Name] {
			t.Errorf("duplicate catalog entry %q", s.Name)
		}
		seen[s.Name] = true
		if s.Lo > s.Hi {
			t.Errorf("%q: empty range %04X-%04X", s.Name, s.Lo, s.Hi)
		}
	}
}

func TestByName(t *testing.T) {
	s, ok := ByName("Hangul Syllables")
	if !ok {
		t.Fatal("Hangul Syllables not found")
	}
	if s.Lo != 0xAC00 || s.Hi != 0xD7AF {
		t.Errorf("unexpected range %04X-%04X", s.Lo, s.Hi)
	}
	if _, ok := ByName("No Such Range"); ok {
		t.Error("found a range that should not exist")
	}
}

func TestCoverageGoRegular(t *testing.T) {
	f := testfont.Regular(t)
	cmap, err := f.BestCMap()
	if err != nil {
		t.Fatal(err)
	}

	upper, _ := ByName("Uppercase Latin")
	if got := upper.Coverage(cmap); got != 26 {
		t.Errorf("uppercase coverage = %d, want 26", got)
	}
	hangul, _ := ByName("Hangul Syllables")
	if got := hangul.Coverage(cmap); got != 0 {
		t.Errorf("Hangul coverage = %d, want 0", got)
	}
}

func TestRangesFor(t *testing.T) {
	f := testfont.Regular(t)
	coverages, err := RangesFor(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(coverages) != len(Catalog) {
		t.Fatalf("got %d entries, want %d", len(coverages), len(Catalog))
	}
	for i, c := range coverages {
		if c.Name != Catalog[i].Name {
			t.Errorf("entry %d: got %q, want %q", i, c.Name, Catalog[i].Name)
		}
	}
}

func TestRunesDeduplicates(t *testing.T) {
	f := testfont.Regular(t)
	cmap, err := f.BestCMap()
	if err != nil {
		t.Fatal(err)
	}

	upper, _ := ByName("Uppercase Latin")
	basic, _ := ByName("Basic Latin")

	// Basic Latin contains all of Uppercase Latin
	combined := Runes(cmap, []Set{upper, basic})
	alone := Runes(cmap, []Set{basic})
	if len(combined) != len(alone) {
		t.Errorf("overlapping sets double-counted: %d vs %d",
			len(combined), len(alone))
	}

	for i := 1; i < len(combined); i++ {
		if combined[i-1] >= combined[i] {
			t.Fatal("result is not sorted and unique")
		}
	}
}
