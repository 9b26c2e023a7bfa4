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
	"encoding/binary"
	"errors"
)

const (
	hheaNumHMetricsOffset = 34
	hheaLength            = 36
)

var errMalformedHmtx = errors.New("malformed hmtx table")

// An HMetric gives the horizontal layout parameters of one glyph.
type HMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// HMetrics decodes the "hmtx" table into one metric per glyph.  Short
// entries at the end of the table inherit the last advance width, as
// described in the OpenType specification.
func (f *Font) HMetrics() ([]HMetric, error) {
	hmtx := f.tables["hmtx"]
	hhea := f.tables["hhea"]
	if hmtx == nil || len(hhea) < hheaLength {
		return nil, &ErrNoTable{Name: "hmtx"}
	}

	numGlyphs := f.NumGlyphs()
	numHMetrics := int(binary.BigEndian.Uint16(hhea[hheaNumHMetricsOffset:]))
	if numHMetrics > numGlyphs || numHMetrics < 1 {
		return nil, errMalformedHmtx
	}
	if 4*numHMetrics+2*(numGlyphs-numHMetrics) > len(hmtx) {
		return nil, errMalformedHmtx
	}

	metrics := make([]HMetric, numGlyphs)
	for i := 0; i < numHMetrics; i++ {
		metrics[i].AdvanceWidth = binary.BigEndian.Uint16(hmtx[4*i:])
		metrics[i].LeftSideBearing = int16(binary.BigEndian.Uint16(hmtx[4*i+2:]))
	}
	lastAdvance := metrics[numHMetrics-1].AdvanceWidth
	for i := numHMetrics; i < numGlyphs; i++ {
		pos := 4*numHMetrics + 2*(i-numHMetrics)
		metrics[i].AdvanceWidth = lastAdvance
		metrics[i].LeftSideBearing = int16(binary.BigEndian.Uint16(hmtx[pos:]))
	}
	return metrics, nil
}

// SetHMetrics encodes metrics into a new "hmtx" table using one long
// entry per glyph, and updates the metric count in "hhea".
func (f *Font) SetHMetrics(metrics []HMetric) error {
	hhea := f.tables["hhea"]
	if len(hhea) < hheaLength {
		return &ErrNoTable{Name: "hhea"}
	}

	hmtx := make([]byte, 4*len(metrics))
	for i, m := range metrics {
		binary.BigEndian.PutUint16(hmtx[4*i:], m.AdvanceWidth)
		binary.BigEndian.PutUint16(hmtx[4*i+2:], uint16(m.LeftSideBearing))
	}
	f.SetTable("hmtx", hmtx)
	binary.BigEndian.PutUint16(hhea[hheaNumHMetricsOffset:], uint16(len(metrics)))
	return nil
}
