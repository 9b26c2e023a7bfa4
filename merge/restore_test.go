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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/fontmerge/fontfile"
	"seehuhn.de/go/fontmerge/internal/testfont"
)

func featureTags(t *testing.T, f *fontfile.Font, tag string) []string {
	t.Helper()
	table, err := f.DecodeLayoutTable(tag)
	if err != nil {
		t.Fatal(err)
	}
	if table == nil {
		return nil
	}
	return table.FeatureTags()
}

func TestRestoreCopiesMissingGSUB(t *testing.T) {
	merged := testfont.Regular(t)
	merged.RemoveTable("GSUB")
	base := testfont.WithGSUB(t, testfont.Regular(t), "liga", "calt")

	RestoreLigatures(merged, base, testfont.Bold(t), discardLog())

	if !bytes.Equal(merged.Table("GSUB"), base.Table("GSUB")) {
		t.Error("GSUB was not copied verbatim from the ligature source")
	}
}

func TestRestoreAppendsMissingFeatures(t *testing.T) {
	merged := testfont.WithGSUB(t, testfont.Regular(t), "kern", "liga")
	base := testfont.WithGSUB(t, testfont.Regular(t), "liga", "dlig", "calt", "smcp")

	RestoreLigatures(merged, base, testfont.Bold(t), discardLog())

	got := featureTags(t, merged, "GSUB")
	// dlig and calt are ligature features missing from the merged
	// font; smcp is not ligature-related, liga was already present
	want := []string{"kern", "liga", "dlig", "calt"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("feature tags after restore (-want +got):\n%s", d)
	}
}

func TestRestoreWithoutLigatureData(t *testing.T) {
	merged := testfont.WithGSUB(t, testfont.Regular(t), "kern")
	base := testfont.Regular(t)
	base.RemoveTable("GSUB")
	base.RemoveTable("post")
	secondary := testfont.Bold(t)
	secondary.RemoveTable("GSUB")
	secondary.RemoveTable("post")

	before := append([]byte(nil), merged.Table("GSUB")...)
	RestoreLigatures(merged, base, secondary, discardLog())

	if !bytes.Equal(before, merged.Table("GSUB")) {
		t.Error("GSUB changed although no source had ligature data")
	}
}

func TestRestorePrefersBaseOnTie(t *testing.T) {
	merged := testfont.Regular(t)
	merged.RemoveTable("GSUB")
	base := testfont.WithGSUB(t, testfont.Regular(t), "liga")
	secondary := testfont.WithGSUB(t, testfont.Bold(t), "liga")
	base.RemoveTable("post")
	secondary.RemoveTable("post")
	base.RemoveTable("GPOS")
	secondary.RemoveTable("GPOS")

	RestoreLigatures(merged, base, secondary, discardLog())

	if !bytes.Equal(merged.Table("GSUB"), base.Table("GSUB")) {
		t.Error("tie was not resolved in favor of the base font")
	}
}

func TestRestoreGPOS(t *testing.T) {
	merged := testfont.Regular(t)
	merged.RemoveTable("GPOS")
	base := testfont.WithGSUB(t, testfont.Regular(t), "liga")
	gpos := &fontfile.LayoutTable{
		MajorVersion: 1,
		Features: []fontfile.FeatureRecord{
			{Tag: "kern"},
			{Tag: "curs"},
		},
	}
	if err := base.SetLayoutTable("GPOS", gpos); err != nil {
		t.Fatal(err)
	}

	RestoreLigatures(merged, base, testfont.Bold(t), discardLog())
	if !bytes.Equal(merged.Table("GPOS"), base.Table("GPOS")) {
		t.Error("missing GPOS was not copied from the ligature source")
	}
}

func TestRestoreReplacesPoorerGPOS(t *testing.T) {
	merged := testfont.Regular(t)
	base := testfont.WithGSUB(t, testfont.Regular(t), "liga")

	poor := &fontfile.LayoutTable{
		MajorVersion: 1,
		Features:     []fontfile.FeatureRecord{{Tag: "kern"}},
	}
	rich := &fontfile.LayoutTable{
		MajorVersion: 1,
		Features: []fontfile.FeatureRecord{
			{Tag: "kern"}, {Tag: "curs"}, {Tag: "mark"},
		},
	}
	if err := merged.SetLayoutTable("GPOS", poor); err != nil {
		t.Fatal(err)
	}
	if err := base.SetLayoutTable("GPOS", rich); err != nil {
		t.Fatal(err)
	}

	RestoreLigatures(merged, base, testfont.Bold(t), discardLog())
	got := featureTags(t, merged, "GPOS")
	want := []string{"kern", "curs", "mark"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("GPOS features after restore (-want +got):\n%s", d)
	}
}

func TestDedupRunsUnconditionally(t *testing.T) {
	// duplicate tags introduced by the merge step itself must be
	// removed even when there is nothing to restore
	merged := testfont.WithGSUB(t, testfont.Regular(t),
		"liga", "kern", "liga", "calt", "kern")
	base := testfont.Regular(t)
	base.RemoveTable("GSUB")
	base.RemoveTable("post")
	secondary := testfont.Bold(t)
	secondary.RemoveTable("GSUB")
	secondary.RemoveTable("post")

	RestoreLigatures(merged, base, secondary, discardLog())

	got := featureTags(t, merged, "GSUB")
	want := []string{"liga", "kern", "calt"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("feature tags after dedup (-want +got):\n%s", d)
	}

	// the script list must reference the compacted indices
	table, err := merged.DecodeLayoutTable("GSUB")
	if err != nil {
		t.Fatal(err)
	}
	ls := table.Scripts[0].Script.DefaultLangSys
	for _, idx := range ls.FeatureIndices {
		if int(idx) >= len(table.Features) {
			t.Errorf("feature index %d out of range", idx)
		}
	}
}

func TestNoDuplicateTagsAfterMergePipeline(t *testing.T) {
	base := testfont.WithGSUB(t, testfont.Regular(t), "liga", "kern")
	secondary := testfont.WithGSUB(t, testfont.Bold(t), "liga", "dlig")

	baseSub := subsetOf(t, base, runes('A', 'Z'))
	secondarySub := subsetOf(t, secondary, runes('0', '9'))
	merged, err := Merge(baseSub, secondarySub, Exact, discardLog())
	if err != nil {
		t.Fatal(err)
	}
	RestoreLigatures(merged, baseSub, secondarySub, discardLog())

	tags := featureTags(t, merged, "GSUB")
	seen := make(map[string]bool)
	for _, tag := range tags {
		if seen[tag] {
			t.Errorf("duplicate feature tag %q", tag)
		}
		seen[tag] = true
	}
}
