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
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/fontmerge/fontfile"
	"seehuhn.de/go/fontmerge/internal/testfont"
)

func TestApplyName(t *testing.T) {
	f := testfont.Regular(t)
	ApplyName(f, "My Font", discardLog())

	nt, err := f.DecodeNames()
	if err != nil {
		t.Fatal(err)
	}

	type platform struct {
		platformID, encodingID, languageID uint16
	}
	platforms := []platform{{3, 1, 0x0409}, {1, 0, 0}}
	for _, p := range platforms {
		for _, nameID := range []uint16{
			fontfile.NameIDFamily,
			fontfile.NameIDFullName,
			fontfile.NameIDTypographicFamily,
		} {
			got := nt.Get(nameID, p.platformID, p.encodingID, p.languageID)
			if got != "My Font" {
				t.Errorf("name ID %d on platform %d: got %q, want %q",
					nameID, p.platformID, got, "My Font")
			}
		}
		if got := nt.Get(fontfile.NameIDPostScriptName,
			p.platformID, p.encodingID, p.languageID); got != "MyFont" {
			t.Errorf("PostScript name on platform %d: got %q", p.platformID, got)
		}
		if got := nt.Get(fontfile.NameIDTypographicSubfam,
			p.platformID, p.encodingID, p.languageID); got != "Regular" {
			t.Errorf("typographic subfamily on platform %d: got %q",
				p.platformID, got)
		}
		if got := nt.Get(fontfile.NameIDUniqueID,
			p.platformID, p.encodingID, p.languageID); !strings.HasPrefix(got, "My Font: ") {
			t.Errorf("unique ID on platform %d: got %q", p.platformID, got)
		}
	}

	// no stale records for the rewritten IDs
	for _, rec := range nt.Records {
		switch rec.NameID {
		case fontfile.NameIDFamily, fontfile.NameIDFullName,
			fontfile.NameIDTypographicFamily:
			if rec.Value != "My Font" {
				t.Errorf("stale record for name ID %d: %q", rec.NameID, rec.Value)
			}
		}
	}

	// FamilyName sees the new name
	if got := FamilyName(f); got != "My Font" {
		t.Errorf("FamilyName = %q, want %q", got, "My Font")
	}
}

func TestApplyNameKeepsUnrelatedRecords(t *testing.T) {
	f := testfont.Regular(t)
	before, err := f.DecodeNames()
	if err != nil {
		t.Fatal(err)
	}
	var unrelated int
	for _, rec := range before.Records {
		switch rec.NameID {
		case fontfile.NameIDFamily, fontfile.NameIDUniqueID,
			fontfile.NameIDFullName, fontfile.NameIDPostScriptName,
			fontfile.NameIDTypographicFamily, fontfile.NameIDTypographicSubfam:
		default:
			unrelated++
		}
	}
	if unrelated == 0 {
		t.Skip("test font has no unrelated name records")
	}

	ApplyName(f, "My Font", discardLog())
	after, err := f.DecodeNames()
	if err != nil {
		t.Fatal(err)
	}
	var got int
	for _, rec := range after.Records {
		switch rec.NameID {
		case fontfile.NameIDFamily, fontfile.NameIDUniqueID,
			fontfile.NameIDFullName, fontfile.NameIDPostScriptName,
			fontfile.NameIDTypographicFamily, fontfile.NameIDTypographicSubfam:
		default:
			got++
		}
	}
	if got != unrelated {
		t.Errorf("unrelated record count changed from %d to %d", unrelated, got)
	}
}

func TestPatchMetadataPreservesBits(t *testing.T) {
	f := testfont.Regular(t)

	// declare a bit the patch itself would never set
	var extra [4]uint32
	extra[1] |= 1 << (57 - 32) // Surrogates
	if err := f.OrUnicodeRanges(extra); err != nil {
		t.Fatal(err)
	}
	before := f.UnicodeRanges()

	PatchMetadataForExtendedScript(f, discardLog())

	after := f.UnicodeRanges()
	for i := range before {
		if after[i]&before[i] != before[i] {
			t.Errorf("ulUnicodeRange%d lost bits: %08X -> %08X",
				i+1, before[i], after[i])
		}
	}

	// Basic Latin coverage must now be declared
	if after[0]&1 == 0 {
		t.Error("Basic Latin bit not set")
	}
	// Latin text implies the 1252 code page
	if f.CodePageRanges()[0]&1 == 0 {
		t.Error("Latin 1 code page bit not set")
	}

	if f.MacStyle() != 0 {
		t.Errorf("macStyle = %04X, want 0", f.MacStyle())
	}
	if f.WeightClass() == 0 {
		t.Error("weight class left unset")
	}
	if f.WidthClass() == 0 {
		t.Error("width class left unset")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Font", "My Font"},
		{"Fira/Code: Bold?", "Fira_Code_ Bold_"},
		{"  spaced   out  ", "spaced out"},
		{"", "merged_font"},
		{`a<b>c"d`, "a_b_c_d"},
	}
	for _, c := range cases {
		if got := SanitizeFileName(c.in); got != c.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := strings.Repeat("x", 200)
	if got := SanitizeFileName(long); len(got) != 100 {
		t.Errorf("long name truncated to %d characters, want 100", len(got))
	}
}

func TestDefaultFileName(t *testing.T) {
	if got := DefaultFileName("/no/such/font.ttf", "Custom Name", CompressedWeb); got != "Custom Name.woff2" {
		t.Errorf("custom name: got %q", got)
	}
	if got := DefaultFileName("/no/such/font.ttf", "", TrueType); got != "merged_font.ttf" {
		t.Errorf("missing font: got %q", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "base.ttf")
	f := testfont.Regular(t)
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}
	got := DefaultFileName(path, "", TrueType)
	if got == "merged_font.ttf" || !strings.HasSuffix(got, ".ttf") {
		t.Errorf("family name not used: got %q", got)
	}
}
