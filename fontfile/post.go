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
	"fmt"
)

const postHeaderLength = 32

var errMalformedPost = errors.New("malformed post table")

// GlyphNames returns the glyph names from a version 2.0 "post" table,
// one entry per glyph.  If the font has no "post" table, or the table
// does not contain glyph names, nil is returned without error.
func (f *Font) GlyphNames() ([]string, error) {
	post := f.tables["post"]
	if len(post) < postHeaderLength {
		return nil, nil
	}
	version := binary.BigEndian.Uint32(post)
	if version != 0x00020000 {
		return nil, nil
	}
	if len(post) < postHeaderLength+2 {
		return nil, errMalformedPost
	}

	numGlyphs := int(binary.BigEndian.Uint16(post[postHeaderLength:]))
	indexBase := postHeaderLength + 2
	if indexBase+2*numGlyphs > len(post) {
		return nil, errMalformedPost
	}

	// Pascal strings for the non-standard names follow the index.
	var customNames []string
	pos := indexBase + 2*numGlyphs
	for pos < len(post) {
		length := int(post[pos])
		pos++
		if pos+length > len(post) {
			return nil, errMalformedPost
		}
		customNames = append(customNames, string(post[pos:pos+length]))
		pos += length
	}

	names := make([]string, numGlyphs)
	for i := range names {
		idx := int(binary.BigEndian.Uint16(post[indexBase+2*i:]))
		switch {
		case idx < len(macGlyphNames):
			names[i] = macGlyphNames[idx]
		case idx-258 < len(customNames):
			names[i] = customNames[idx-258]
		default:
			names[i] = fmt.Sprintf("glyph%05d", i)
		}
	}
	return names, nil
}

// ForcePostFormat3 replaces the "post" table with a version 3.0 table,
// keeping the layout fields from the old header.  Glyph names are
// discarded; version 3.0 tables do not store any.
func (f *Font) ForcePostFormat3() {
	old := f.tables["post"]
	post := make([]byte, postHeaderLength)
	if len(old) >= postHeaderLength {
		copy(post, old[:postHeaderLength])
	}
	binary.BigEndian.PutUint32(post, 0x00030000)
	f.SetTable("post", post)
}

// macGlyphNames is the list of standard Macintosh glyph names referred
// to by index in version 2.0 "post" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/post
var macGlyphNames = []string{
	".notdef", ".null", "nonmarkingreturn", "space", "exclam",
	"quotedbl", "numbersign", "dollar", "percent", "ampersand",
	"quotesingle", "parenleft", "parenright", "asterisk", "plus",
	"comma", "hyphen", "period", "slash", "zero",
	"one", "two", "three", "four", "five",
	"six", "seven", "eight", "nine", "colon",
	"semicolon", "less", "equal", "greater", "question",
	"at", "A", "B", "C", "D",
	"E", "F", "G", "H", "I",
	"J", "K", "L", "M", "N",
	"O", "P", "Q", "R", "S",
	"T", "U", "V", "W", "X",
	"Y", "Z", "bracketleft", "backslash", "bracketright",
	"asciicircum", "underscore", "grave", "a", "b",
	"c", "d", "e", "f", "g",
	"h", "i", "j", "k", "l",
	"m", "n", "o", "p", "q",
	"r", "s", "t", "u", "v",
	"w", "x", "y", "z", "braceleft",
	"bar", "braceright", "asciitilde", "Adieresis", "Aring",
	"Ccedilla", "Eacute", "Ntilde", "Odieresis", "Udieresis",
	"aacute", "agrave", "acircumflex", "adieresis", "atilde",
	"aring", "ccedilla", "eacute", "egrave", "ecircumflex",
	"edieresis", "iacute", "igrave", "icircumflex", "idieresis",
	"ntilde", "oacute", "ograve", "ocircumflex", "odieresis",
	"otilde", "uacute", "ugrave", "ucircumflex", "udieresis",
	"dagger", "degree", "cent", "sterling", "section",
	"bullet", "paragraph", "germandbls", "registered", "copyright",
	"trademark", "acute", "dieresis", "notequal", "AE",
	"Oslash", "infinity", "plusminus", "lessequal", "greaterequal",
	"yen", "mu", "partialdiff", "summation", "product",
	"pi", "integral", "ordfeminine", "ordmasculine", "Omega",
	"ae", "oslash", "questiondown", "exclamdown", "logicalnot",
	"radical", "florin", "approxequal", "Delta", "guillemotleft",
	"guillemotright", "ellipsis", "nonbreakingspace", "Agrave", "Atilde",
	"Otilde", "OE", "oe", "endash", "emdash",
	"quotedblleft", "quotedblright", "quoteleft", "quoteright", "divide",
	"lozenge", "ydieresis", "Ydieresis", "fraction", "currency",
	"guilsinglleft", "guilsinglright", "fi", "fl", "daggerdbl",
	"periodcentered", "quotesinglbase", "quotedblbase", "perthousand",
	"Acircumflex", "Ecircumflex", "Aacute", "Edieresis", "Egrave",
	"Iacute", "Icircumflex", "Idieresis", "Igrave", "Oacute",
	"Ocircumflex", "apple", "Ograve", "Uacute", "Ucircumflex",
	"Ugrave", "dotlessi", "circumflex", "tilde", "macron",
	"breve", "dotaccent", "ring", "cedilla", "hungarumlaut",
	"ogonek", "caron", "Lslash", "lslash", "Scaron",
	"scaron", "Zcaron", "zcaron", "brokenbar", "Eth",
	"eth", "Yacute", "yacute", "Thorn", "thorn",
	"minus", "multiply", "onesuperior", "twosuperior", "threesuperior",
	"onehalf", "onequarter", "threequarters", "franc", "Gbreve",
	"gbreve", "Idotaccent", "Scedilla", "scedilla", "Cacute",
	"cacute", "Ccaron", "ccaron", "dcroat",
}
