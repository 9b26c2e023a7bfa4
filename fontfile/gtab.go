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

var errMalformedGtab = errors.New("malformed GSUB/GPOS table")

// A LayoutTable is the decoded form of a "GSUB" or "GPOS" table.  The
// script and feature lists are fully decoded; the lookup list and the
// optional feature variations data are kept as opaque blobs, since
// their internal offsets are relative to their own start and survive
// relocation unchanged.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2
type LayoutTable struct {
	MajorVersion uint16
	MinorVersion uint16
	Scripts      []ScriptRecord
	Features     []FeatureRecord
	Lookups      []byte

	featureVariations []byte
}

// A ScriptRecord associates a script tag with its language systems.
type ScriptRecord struct {
	Tag    string
	Script Script
}

// A Script holds the language systems of one script.
type Script struct {
	DefaultLangSys *LangSys
	LangSys        []LangSysRecord
}

// A LangSysRecord associates a language tag with a language system.
type LangSysRecord struct {
	Tag     string
	LangSys LangSys
}

// A LangSys lists the features used by one language system, as indices
// into the feature list.
type LangSys struct {
	RequiredFeatureIndex uint16 // 0xFFFF if there is none
	FeatureIndices       []uint16
}

// A FeatureRecord associates a feature tag with its lookups, as
// indices into the lookup list.
type FeatureRecord struct {
	Tag           string
	LookupIndices []uint16
}

// DecodeLayoutTable decodes the "GSUB" or "GPOS" table with the given
// tag.  Returns nil (and no error) if the font has no such table.
func (f *Font) DecodeLayoutTable(tag string) (*LayoutTable, error) {
	data := f.tables[tag]
	if data == nil {
		return nil, nil
	}
	if len(data) < 10 {
		return nil, errMalformedGtab
	}

	t := &LayoutTable{
		MajorVersion: binary.BigEndian.Uint16(data[0:2]),
		MinorVersion: binary.BigEndian.Uint16(data[2:4]),
	}
	scriptListOffset := int(binary.BigEndian.Uint16(data[4:6]))
	featureListOffset := int(binary.BigEndian.Uint16(data[6:8]))
	lookupListOffset := int(binary.BigEndian.Uint16(data[8:10]))

	var err error
	if scriptListOffset > 0 {
		t.Scripts, err = decodeScriptList(data, scriptListOffset)
		if err != nil {
			return nil, err
		}
	}
	if featureListOffset > 0 {
		t.Features, err = decodeFeatureList(data, featureListOffset)
		if err != nil {
			return nil, err
		}
	}
	if lookupListOffset > 0 {
		if lookupListOffset > len(data) {
			return nil, errMalformedGtab
		}
		// The lookup list extends to the end of the table, or to the
		// start of the next block, whichever is relevant.  Offsets in
		// real fonts put the lookup list last, so taking the tail is
		// safe; the internal offsets never reach outside of it.
		t.Lookups = data[lookupListOffset:]
	}
	if t.MajorVersion == 1 && t.MinorVersion >= 1 && len(data) >= 14 {
		fvOffset := int(binary.BigEndian.Uint32(data[10:14]))
		if fvOffset > 0 {
			if fvOffset > len(data) {
				return nil, errMalformedGtab
			}
			t.featureVariations = data[fvOffset:]
			if fvOffset > lookupListOffset {
				t.Lookups = data[lookupListOffset:fvOffset]
			}
		}
	}
	return t, nil
}

// SetLayoutTable encodes t and replaces the table with the given tag.
func (f *Font) SetLayoutTable(tag string, t *LayoutTable) error {
	data, err := t.encode()
	if err != nil {
		return err
	}
	f.SetTable(tag, data)
	return nil
}

// FeatureTags returns the tags of all feature records, in table order.
// Duplicate tags are included once per record.
func (t *LayoutTable) FeatureTags() []string {
	res := make([]string, len(t.Features))
	for i, rec := range t.Features {
		res[i] = rec.Tag
	}
	return res
}

// HasFeature reports whether any feature record carries the given tag.
func (t *LayoutTable) HasFeature(tag string) bool {
	for _, rec := range t.Features {
		if rec.Tag == tag {
			return true
		}
	}
	return false
}

// RemapFeatureIndices rewrites all feature indices in the script list
// using the given mapping.  Indices missing from the mapping are
// dropped from the language systems that use them.
func (t *LayoutTable) RemapFeatureIndices(mapping map[uint16]uint16) {
	remapLangSys := func(ls *LangSys) {
		if ls.RequiredFeatureIndex != 0xFFFF {
			if idx, ok := mapping[ls.RequiredFeatureIndex]; ok {
				ls.RequiredFeatureIndex = idx
			} else {
				ls.RequiredFeatureIndex = 0xFFFF
			}
		}
		res := ls.FeatureIndices[:0]
		for _, idx := range ls.FeatureIndices {
			if newIdx, ok := mapping[idx]; ok {
				res = append(res, newIdx)
			}
		}
		ls.FeatureIndices = res
	}
	for i := range t.Scripts {
		script := &t.Scripts[i].Script
		if script.DefaultLangSys != nil {
			remapLangSys(script.DefaultLangSys)
		}
		for j := range script.LangSys {
			remapLangSys(&script.LangSys[j].LangSys)
		}
	}
}

func decodeScriptList(data []byte, base int) ([]ScriptRecord, error) {
	if base+2 > len(data) {
		return nil, errMalformedGtab
	}
	count := int(binary.BigEndian.Uint16(data[base:]))
	if base+2+6*count > len(data) {
		return nil, errMalformedGtab
	}

	var res []ScriptRecord
	for i := 0; i < count; i++ {
		rec := data[base+2+6*i:]
		tag := string(rec[:4])
		offset := base + int(binary.BigEndian.Uint16(rec[4:6]))
		script, err := decodeScript(data, offset)
		if err != nil {
			return nil, err
		}
		res = append(res, ScriptRecord{Tag: tag, Script: script})
	}
	return res, nil
}

func decodeScript(data []byte, base int) (Script, error) {
	var script Script
	if base+4 > len(data) {
		return script, errMalformedGtab
	}
	defaultOffset := int(binary.BigEndian.Uint16(data[base:]))
	count := int(binary.BigEndian.Uint16(data[base+2:]))
	if base+4+6*count > len(data) {
		return script, errMalformedGtab
	}

	if defaultOffset > 0 {
		ls, err := decodeLangSys(data, base+defaultOffset)
		if err != nil {
			return script, err
		}
		script.DefaultLangSys = &ls
	}
	for i := 0; i < count; i++ {
		rec := data[base+4+6*i:]
		tag := string(rec[:4])
		offset := base + int(binary.BigEndian.Uint16(rec[4:6]))
		ls, err := decodeLangSys(data, offset)
		if err != nil {
			return script, err
		}
		script.LangSys = append(script.LangSys, LangSysRecord{Tag: tag, LangSys: ls})
	}
	return script, nil
}

func decodeLangSys(data []byte, base int) (LangSys, error) {
	var ls LangSys
	if base+6 > len(data) {
		return ls, errMalformedGtab
	}
	ls.RequiredFeatureIndex = binary.BigEndian.Uint16(data[base+2:])
	count := int(binary.BigEndian.Uint16(data[base+4:]))
	if base+6+2*count > len(data) {
		return ls, errMalformedGtab
	}
	for i := 0; i < count; i++ {
		ls.FeatureIndices = append(ls.FeatureIndices,
			binary.BigEndian.Uint16(data[base+6+2*i:]))
	}
	return ls, nil
}

func decodeFeatureList(data []byte, base int) ([]FeatureRecord, error) {
	if base+2 > len(data) {
		return nil, errMalformedGtab
	}
	count := int(binary.BigEndian.Uint16(data[base:]))
	if base+2+6*count > len(data) {
		return nil, errMalformedGtab
	}

	var res []FeatureRecord
	for i := 0; i < count; i++ {
		rec := data[base+2+6*i:]
		tag := string(rec[:4])
		offset := base + int(binary.BigEndian.Uint16(rec[4:6]))
		if offset+4 > len(data) {
			return nil, errMalformedGtab
		}
		lookupCount := int(binary.BigEndian.Uint16(data[offset+2:]))
		if offset+4+2*lookupCount > len(data) {
			return nil, errMalformedGtab
		}
		var indices []uint16
		for j := 0; j < lookupCount; j++ {
			indices = append(indices,
				binary.BigEndian.Uint16(data[offset+4+2*j:]))
		}
		res = append(res, FeatureRecord{Tag: tag, LookupIndices: indices})
	}
	return res, nil
}

// encode serializes the layout table.  Feature parameter blocks are
// not preserved; the features moved between fonts do not carry any.
func (t *LayoutTable) encode() ([]byte, error) {
	scriptList := encodeScriptList(t.Scripts)
	featureList := encodeFeatureList(t.Features)

	headerLen := 10
	if t.MajorVersion == 1 && t.MinorVersion >= 1 {
		headerLen = 14
	}
	scriptListOffset := headerLen
	featureListOffset := scriptListOffset + len(scriptList)
	lookupListOffset := featureListOffset + len(featureList)
	fvOffset := lookupListOffset + len(t.Lookups)

	// Only the header offsets are 16-bit; the lookup list itself can
	// be arbitrarily large, since its internal offsets are relative to
	// the list start.
	if lookupListOffset > 0xFFFF {
		return nil, errors.New("GSUB/GPOS script or feature list too large")
	}

	res := make([]byte, 0, fvOffset+len(t.featureVariations))
	var header [14]byte
	binary.BigEndian.PutUint16(header[0:2], t.MajorVersion)
	binary.BigEndian.PutUint16(header[2:4], t.MinorVersion)
	binary.BigEndian.PutUint16(header[4:6], uint16(scriptListOffset))
	binary.BigEndian.PutUint16(header[6:8], uint16(featureListOffset))
	if len(t.Lookups) > 0 {
		binary.BigEndian.PutUint16(header[8:10], uint16(lookupListOffset))
	}
	if headerLen == 14 && len(t.featureVariations) > 0 {
		binary.BigEndian.PutUint32(header[10:14], uint32(fvOffset))
	}
	res = append(res, header[:headerLen]...)
	res = append(res, scriptList...)
	res = append(res, featureList...)
	res = append(res, t.Lookups...)
	res = append(res, t.featureVariations...)
	return res, nil
}

func encodeScriptList(scripts []ScriptRecord) []byte {
	listLen := 2 + 6*len(scripts)
	res := make([]byte, listLen)
	binary.BigEndian.PutUint16(res, uint16(len(scripts)))
	for i, rec := range scripts {
		pos := 2 + 6*i
		copy(res[pos:], rec.Tag)
		binary.BigEndian.PutUint16(res[pos+4:], uint16(len(res)))
		res = append(res, encodeScript(rec.Script)...)
	}
	return res
}

func encodeScript(script Script) []byte {
	headerLen := 4 + 6*len(script.LangSys)
	res := make([]byte, headerLen)
	binary.BigEndian.PutUint16(res[2:], uint16(len(script.LangSys)))
	if script.DefaultLangSys != nil {
		binary.BigEndian.PutUint16(res, uint16(len(res)))
		res = append(res, encodeLangSys(*script.DefaultLangSys)...)
	}
	for i, rec := range script.LangSys {
		pos := 4 + 6*i
		copy(res[pos:], rec.Tag)
		binary.BigEndian.PutUint16(res[pos+4:], uint16(len(res)))
		res = append(res, encodeLangSys(rec.LangSys)...)
	}
	return res
}

func encodeLangSys(ls LangSys) []byte {
	res := make([]byte, 6+2*len(ls.FeatureIndices))
	binary.BigEndian.PutUint16(res[2:], ls.RequiredFeatureIndex)
	binary.BigEndian.PutUint16(res[4:], uint16(len(ls.FeatureIndices)))
	for i, idx := range ls.FeatureIndices {
		binary.BigEndian.PutUint16(res[6+2*i:], idx)
	}
	return res
}

func encodeFeatureList(features []FeatureRecord) []byte {
	listLen := 2 + 6*len(features)
	res := make([]byte, listLen)
	binary.BigEndian.PutUint16(res, uint16(len(features)))
	for i, rec := range features {
		pos := 2 + 6*i
		copy(res[pos:], rec.Tag)
		binary.BigEndian.PutUint16(res[pos+4:], uint16(len(res)))

		feature := make([]byte, 4+2*len(rec.LookupIndices))
		binary.BigEndian.PutUint16(feature[2:], uint16(len(rec.LookupIndices)))
		for j, idx := range rec.LookupIndices {
			binary.BigEndian.PutUint16(feature[4+2*j:], idx)
		}
		res = append(res, feature...)
	}
	return res
}
