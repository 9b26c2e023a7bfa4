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
	"regexp"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/fontmerge/fontfile"
)

// The two platform/encoding/language combinations we write name
// records for: Windows Unicode (US English) and Macintosh Roman.
var namePlatforms = []struct {
	platformID, encodingID, languageID uint16
}{
	{3, 1, 0x0409},
	{1, 0, 0},
}

// ApplyName rewrites the naming table so that the font presents
// itself under the given name.  Family, full, typographic and unique
// names are replaced for both the Windows and Macintosh platforms;
// the PostScript name is derived by removing spaces and hyphens.
// Fonts without a naming table are left alone.
func ApplyName(f *fontfile.Font, name string, log *slog.Logger) {
	nt, err := f.DecodeNames()
	if err != nil {
		log.Warn("cannot decode naming table", "error", err)
		return
	}
	if nt == nil {
		return
	}

	psName := strings.NewReplacer(" ", "", "-", "").Replace(name)
	uniqueID := name + ": " + strconv.Itoa(time.Now().Year())
	values := map[uint16]string{
		fontfile.NameIDFamily:            name,
		fontfile.NameIDUniqueID:          uniqueID,
		fontfile.NameIDFullName:          name,
		fontfile.NameIDPostScriptName:    psName,
		fontfile.NameIDTypographicFamily: name,
		fontfile.NameIDTypographicSubfam: "Regular",
	}
	for nameID, value := range values {
		nt.Remove(nameID)
		for _, p := range namePlatforms {
			nt.Records = append(nt.Records, fontfile.NameRecord{
				PlatformID: p.platformID,
				EncodingID: p.encodingID,
				LanguageID: p.languageID,
				NameID:     nameID,
				Value:      value,
			})
		}
	}

	if err := f.SetNames(nt); err != nil {
		log.Warn("cannot rewrite naming table", "error", err)
	}
}

// FamilyName returns the font's family name, trying the Windows
// Unicode record first and the Macintosh record second, for the
// family and full name IDs in turn.  Returns "" if none is present.
func FamilyName(f *fontfile.Font) string {
	nt, err := f.DecodeNames()
	if err != nil || nt == nil {
		return ""
	}
	for _, nameID := range []uint16{fontfile.NameIDFamily, fontfile.NameIDFullName} {
		for _, p := range namePlatforms {
			if v := nt.Get(nameID, p.platformID, p.encodingID, p.languageID); v != "" {
				return v
			}
		}
	}
	return ""
}

// unicodeRangeBits maps OS/2 ulUnicodeRange bit numbers to the code
// point ranges they declare.  Only the ranges selectable through the
// charset catalog are listed; bits for unrelated scripts are never
// touched.
// https://docs.microsoft.com/en-us/typography/opentype/spec/os2#ur
var unicodeRangeBits = []struct {
	bit    uint
	lo, hi rune
}{
	{0, 0x0020, 0x007E},  // Basic Latin
	{2, 0x0100, 0x017F},  // Latin Extended-A
	{3, 0x0180, 0x024F},  // Latin Extended-B
	{28, 0x1100, 0x11FF}, // Hangul Jamo
	{31, 0x2000, 0x206F}, // General Punctuation
	{32, 0x2070, 0x209F}, // Superscripts And Subscripts
	{33, 0x20A0, 0x20CF}, // Currency Symbols
	{37, 0x2190, 0x21FF}, // Arrows
	{38, 0x2200, 0x22FF}, // Mathematical Operators
	{43, 0x2500, 0x257F}, // Box Drawing
	{44, 0x2580, 0x259F}, // Block Elements
	{45, 0x25A0, 0x25FF}, // Geometric Shapes
	{48, 0x3000, 0x303F}, // CJK Symbols And Punctuation
	{49, 0x3040, 0x309F}, // Hiragana
	{50, 0x30A0, 0x30FF}, // Katakana
	{52, 0x3130, 0x318F}, // Hangul Compatibility Jamo
	{56, 0xAC00, 0xD7AF}, // Hangul Syllables
	{59, 0x3400, 0x4DBF}, // CJK Unified Ideographs Extension A
	{59, 0x4E00, 0x9FFF}, // CJK Unified Ideographs
	{60, 0xE000, 0xF8FF}, // Private Use Area
	{62, 0xFB00, 0xFB4F}, // Alphabetic Presentation Forms
	{68, 0xFF00, 0xFFEF}, // Halfwidth And Fullwidth Forms
}

// codePageBits maps OS/2 ulCodePageRange1 bit numbers to a witness
// code point range: if the font covers any of it, the code page is
// declared.
var codePageBits = []struct {
	bit    uint
	lo, hi rune
}{
	{0, 0x0041, 0x007A},  // 1252 Latin 1
	{17, 0x3040, 0x30FF}, // 932 JIS/Japan
	{18, 0x4E00, 0x9FFF}, // 936 Chinese Simplified
	{19, 0xAC00, 0xD7AF}, // 949 Korean Wansung
	{21, 0xAC00, 0xD7AF}, // 1361 Korean Johab
}

// PatchMetadataForExtendedScript updates the OS/2 coverage bits to
// declare the scripts actually covered by the merged character map.
// Bits are only ever added, never cleared, so coverage declared by
// the base font survives.  The weight and width classes are given
// sane defaults if unset, and the style flags are reset to regular.
func PatchMetadataForExtendedScript(f *fontfile.Font, log *slog.Logger) {
	cmap, err := f.BestCMap()
	if err != nil {
		log.Warn("cannot read character map for metadata patch", "error", err)
		return
	}

	covers := func(lo, hi rune) bool {
		for r := lo; r <= hi; r++ {
			if _, ok := cmap[r]; ok {
				return true
			}
		}
		return false
	}

	var unicodeRanges [4]uint32
	for _, entry := range unicodeRangeBits {
		if covers(entry.lo, entry.hi) {
			unicodeRanges[entry.bit/32] |= 1 << (entry.bit % 32)
		}
	}
	if err := f.OrUnicodeRanges(unicodeRanges); err != nil {
		log.Warn("cannot patch Unicode coverage bits", "error", err)
		return
	}

	var codePages [2]uint32
	for _, entry := range codePageBits {
		if covers(entry.lo, entry.hi) {
			codePages[entry.bit/32] |= 1 << (entry.bit % 32)
		}
	}
	if err := f.OrCodePageRanges(codePages); err != nil {
		log.Warn("cannot patch code page bits", "error", err)
	}

	if f.WeightClass() == 0 {
		f.SetWeightClass(400)
	}
	if f.WidthClass() == 0 {
		f.SetWidthClass(5)
	}
	if err := f.SetMacStyle(0); err != nil {
		log.Warn("cannot reset style flags", "error", err)
	}
}

var illegalFileNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
var repeatedSpace = regexp.MustCompile(`\s+`)

// SanitizeFileName turns a font name into a safe file name stem.
func SanitizeFileName(name string) string {
	safe := illegalFileNameChars.ReplaceAllString(name, "_")
	safe = repeatedSpace.ReplaceAllString(strings.TrimSpace(safe), " ")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	if safe == "" {
		return "merged_font"
	}
	return safe
}

// DefaultFileName suggests an output file name for the merged font.
// A non-empty custom name takes precedence; otherwise the family name
// of the font at basePath is used, with "merged_font" as the final
// fallback.
func DefaultFileName(basePath, customName string, kind OutputKind) string {
	name := customName
	if name == "" {
		if f, err := fontfile.Load(basePath); err == nil {
			name = FamilyName(f)
		}
	}
	ext := ".ttf"
	if kind == CompressedWeb {
		ext = ".woff2"
	}
	return SanitizeFileName(name) + ext
}
