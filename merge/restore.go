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
	"log/slog"

	"seehuhn.de/go/fontmerge/fontfile"
	"seehuhn.de/go/fontmerge/ligature"
)

// ligatureFeatures are the GSUB features carried over from the
// ligature source font when the merged font lacks them.
var ligatureFeatures = []string{"liga", "dlig", "clig", "rlig", "hlig", "calt"}

// RestoreLigatures re-injects ligature-related layout data that the
// merge step dropped.  The source font is whichever of the two inputs
// has the higher ligature score, preferring the base font on a tie.
//
// This is a best-effort enhancement: every internal failure is logged
// and swallowed, since a font merged without perfect ligature
// restoration is still valid and loadable.  The feature list
// deduplication at the end always runs, because the merge step itself
// can introduce duplicate tags.
func RestoreLigatures(merged, base, secondary *fontfile.Font, log *slog.Logger) {
	source := base
	if ligature.Score(base) == 0 {
		if ligature.Score(secondary) == 0 {
			log.Info("no ligature data found in either font")
			source = nil
		} else {
			source = secondary
		}
	}

	if source != nil {
		restoreGSUB(merged, source, log)
		restoreGPOS(merged, source, log)
	}
	dedupFeatures(merged, "GSUB", log)
}

func restoreGSUB(merged, source *fontfile.Font, log *slog.Logger) {
	sourceData := source.Table("GSUB")
	if sourceData == nil {
		return
	}
	if !merged.HasTable("GSUB") {
		merged.SetTable("GSUB", sourceData)
		log.Info("copied GSUB table from ligature source")
		return
	}

	mergedTable, err := merged.DecodeLayoutTable("GSUB")
	if err != nil {
		log.Warn("cannot decode merged GSUB table", "error", err)
		return
	}
	sourceTable, err := source.DecodeLayoutTable("GSUB")
	if err != nil {
		log.Warn("cannot decode source GSUB table", "error", err)
		return
	}

	added := 0
	for _, tag := range ligatureFeatures {
		if mergedTable.HasFeature(tag) {
			continue
		}
		for _, rec := range sourceTable.Features {
			if rec.Tag == tag {
				mergedTable.Features = append(mergedTable.Features, rec)
				added++
			}
		}
	}
	if added == 0 {
		return
	}
	if err := merged.SetLayoutTable("GSUB", mergedTable); err != nil {
		log.Warn("cannot rewrite GSUB table", "error", err)
		return
	}
	log.Info("restored GSUB features", "count", added)
}

func restoreGPOS(merged, source *fontfile.Font, log *slog.Logger) {
	sourceData := source.Table("GPOS")
	if sourceData == nil {
		return
	}
	if !merged.HasTable("GPOS") {
		merged.SetTable("GPOS", sourceData)
		log.Info("copied GPOS table from ligature source")
		return
	}

	// When both fonts have positioning data, field-level merging is
	// not worth the risk.  The table with more feature records wins
	// wholesale.
	mergedTable, err := merged.DecodeLayoutTable("GPOS")
	if err != nil {
		log.Warn("cannot decode merged GPOS table", "error", err)
		return
	}
	sourceTable, err := source.DecodeLayoutTable("GPOS")
	if err != nil {
		log.Warn("cannot decode source GPOS table", "error", err)
		return
	}
	if len(sourceTable.Features) > len(mergedTable.Features) {
		merged.SetTable("GPOS", sourceData)
		log.Info("replaced GPOS table with richer source table",
			"features", len(sourceTable.Features))
	}
}

// dedupFeatures removes duplicate feature tags from a layout table,
// keeping the first occurrence of each tag.  Feature indices in the
// script list are rewritten to match the compacted list.
func dedupFeatures(f *fontfile.Font, tag string, log *slog.Logger) {
	t, err := f.DecodeLayoutTable(tag)
	if err != nil {
		log.Warn("cannot decode layout table for deduplication",
			"table", tag, "error", err)
		return
	}
	if t == nil {
		return
	}

	firstByTag := make(map[string]uint16)
	mapping := make(map[uint16]uint16)
	var kept []fontfile.FeatureRecord
	for i, rec := range t.Features {
		if newIdx, ok := firstByTag[rec.Tag]; ok {
			mapping[uint16(i)] = newIdx
			continue
		}
		newIdx := uint16(len(kept))
		firstByTag[rec.Tag] = newIdx
		mapping[uint16(i)] = newIdx
		kept = append(kept, rec)
	}
	if len(kept) == len(t.Features) {
		return
	}

	t.Features = kept
	t.RemapFeatureIndices(mapping)
	if err := f.SetLayoutTable(tag, t); err != nil {
		log.Warn("cannot rewrite deduplicated layout table",
			"table", tag, "error", err)
		return
	}
	log.Info("removed duplicate feature records",
		"table", tag, "removed", len(mapping)-len(kept))
}
