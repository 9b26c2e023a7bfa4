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
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/andybalholm/brotli"
)

// https://www.w3.org/TR/WOFF2/
const woff2Signature = 0x774F4632 // "wOF2"

const woff2HeaderLength = 48

// woff2KnownTags is the table of known table tags from the WOFF2
// specification.  The index of a tag in this list is used as a
// shorthand in the WOFF2 table directory.
var woff2KnownTags = [63]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

var woff2TagIndex = func() map[string]byte {
	m := make(map[string]byte, len(woff2KnownTags))
	for i, tag := range woff2KnownTags {
		m[tag] = byte(i)
	}
	return m
}()

// readWOFF2 unpacks a WOFF 2.0 container.  Only the null glyf/loca
// transform is accepted; fonts using the transformed glyf encoding are
// rejected.
func readWOFF2(data []byte) (*Font, error) {
	if len(data) < woff2HeaderLength {
		return nil, &InvalidFontError{Reason: "truncated WOFF2 header"}
	}
	flavor := binary.BigEndian.Uint32(data[4:8])
	numTables := int(binary.BigEndian.Uint16(data[12:14]))
	if numTables > 280 {
		return nil, &InvalidFontError{Reason: "too many tables"}
	}
	totalCompressedSize := binary.BigEndian.Uint32(data[20:24])

	type dirEntry struct {
		tag    string
		length uint32
	}
	pos := woff2HeaderLength
	entries := make([]dirEntry, numTables)
	for i := range entries {
		if pos >= len(data) {
			return nil, &InvalidFontError{Reason: "truncated WOFF2 table directory"}
		}
		flags := data[pos]
		pos++

		var tag string
		if idx := flags & 0x3F; idx == 0x3F {
			if pos+4 > len(data) {
				return nil, &InvalidFontError{Reason: "truncated WOFF2 table directory"}
			}
			tag = string(data[pos : pos+4])
			pos += 4
		} else {
			tag = woff2KnownTags[idx]
		}

		origLength, n, err := readUIntBase128(data[pos:])
		if err != nil {
			return nil, err
		}
		pos += n

		// For glyf and loca, transform version 0 is the transformed
		// encoding and version 3 is the identity.  All other tables
		// use version 0 for the identity.
		transform := flags >> 6
		isGlyfLoca := tag == "glyf" || tag == "loca"
		if isGlyfLoca && transform == 0 {
			return nil, &InvalidFontError{
				Reason: "WOFF2 transformed glyf encoding is not supported",
			}
		}
		if (isGlyfLoca && transform != 3) || (!isGlyfLoca && transform != 0) {
			return nil, &InvalidFontError{
				Reason: "unknown WOFF2 transform for table " + tag,
			}
		}

		entries[i] = dirEntry{tag: tag, length: origLength}
	}

	if uint64(pos)+uint64(totalCompressedSize) > uint64(len(data)) {
		return nil, &InvalidFontError{Reason: "truncated WOFF2 data stream"}
	}
	br := brotli.NewReader(bytes.NewReader(data[pos : pos+int(totalCompressedSize)]))
	stream, err := io.ReadAll(br)
	if err != nil {
		return nil, &InvalidFontError{
			Reason: "cannot decompress WOFF2 data stream",
			Err:    err,
		}
	}

	f := New(flavor)
	offset := 0
	for _, e := range entries {
		end := offset + int(e.length)
		if end > len(stream) {
			return nil, &InvalidFontError{
				Reason: "table " + e.tag + " extends beyond end of data stream",
			}
		}
		f.SetTable(e.tag, stream[offset:end])
		offset = end
	}
	if len(f.tables) == 0 {
		return nil, &InvalidFontError{Reason: "no tables found"}
	}
	return f, nil
}

// WriteWOFF2 writes the font as a WOFF 2.0 file.  The glyf and loca
// tables are stored with the null transform, so the unpacked font is
// byte-identical to the original tables.
func (f *Font) WriteWOFF2(w io.Writer) (int64, error) {
	tableNames := make([]string, 0, len(f.tables))
	for name := range f.tables {
		tableNames = append(tableNames, name)
	}
	sort.Slice(tableNames, func(i, j int) bool {
		iPrio := ttTableOrder[tableNames[i]]
		jPrio := ttTableOrder[tableNames[j]]
		if iPrio != jPrio {
			return iPrio > jPrio
		}
		return tableNames[i] < tableNames[j]
	})

	// The checksum adjustment must be valid for the reconstructed
	// sfnt file, so it is patched the same way as in Write.
	if headData, ok := f.tables["head"]; ok {
		clearHeadChecksum(headData)
		var totalSum uint32
		offset := uint32(12 + 16*len(tableNames))
		for _, name := range tableNames {
			body := f.tables[name]
			totalSum += checksum(body)
			offset += 4 * ((uint32(len(body)) + 3) / 4)
		}
		totalSum += f.directoryChecksum(tableNames)
		patchHeadChecksum(headData, totalSum)
	}

	var dir []byte
	var stream []byte
	totalSfntSize := uint32(12 + 16*len(tableNames))
	for _, name := range tableNames {
		body := f.tables[name]

		var flags byte
		if idx, ok := woff2TagIndex[name]; ok {
			flags = idx
		} else {
			flags = 0x3F
		}
		if name == "glyf" || name == "loca" {
			flags |= 3 << 6 // null transform
		}
		dir = append(dir, flags)
		if flags&0x3F == 0x3F {
			dir = append(dir, name[:4]...)
		}
		dir = appendUIntBase128(dir, uint32(len(body)))

		stream = append(stream, body...)
		totalSfntSize += 4 * ((uint32(len(body)) + 3) / 4)
	}

	compressed := &bytes.Buffer{}
	bw := brotli.NewWriterLevel(compressed, brotli.BestCompression)
	if _, err := bw.Write(stream); err != nil {
		return 0, err
	}
	if err := bw.Close(); err != nil {
		return 0, err
	}

	uncompressedLength := woff2HeaderLength + len(dir) + compressed.Len()
	totalLength := (uncompressedLength + 3) / 4 * 4

	header := make([]byte, woff2HeaderLength)
	binary.BigEndian.PutUint32(header[0:4], woff2Signature)
	binary.BigEndian.PutUint32(header[4:8], f.ScalerType)
	binary.BigEndian.PutUint32(header[8:12], uint32(totalLength))
	binary.BigEndian.PutUint16(header[12:14], uint16(len(tableNames)))
	binary.BigEndian.PutUint32(header[16:20], totalSfntSize)
	binary.BigEndian.PutUint32(header[20:24], uint32(compressed.Len()))

	var totalSize int64
	for _, chunk := range [][]byte{header, dir, compressed.Bytes()} {
		n, err := w.Write(chunk)
		totalSize += int64(n)
		if err != nil {
			return totalSize, err
		}
	}
	if pad := totalLength - uncompressedLength; pad > 0 {
		n, err := w.Write(make([]byte, pad))
		totalSize += int64(n)
		if err != nil {
			return totalSize, err
		}
	}
	return totalSize, nil
}

// SaveWOFF2 writes the font to a WOFF2 file at the given path.
func (f *Font) SaveWOFF2(path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = f.WriteWOFF2(fd)
	if closeErr := fd.Close(); err == nil {
		err = closeErr
	}
	return err
}

// directoryChecksum computes the checksum of the sfnt file header the
// given tables would produce, without serializing the table bodies.
func (f *Font) directoryChecksum(tableNames []string) uint32 {
	numTables := len(tableNames)
	entrySelector := 0
	for 1<<(entrySelector+1) <= numTables {
		entrySelector++
	}
	offsets := &offsetsTable{
		ScalerType:    f.ScalerType,
		NumTables:     uint16(numTables),
		SearchRange:   1 << (entrySelector + 4),
		EntrySelector: uint16(entrySelector),
		RangeShift:    uint16(16 * (numTables - 1<<entrySelector)),
	}
	offset := uint32(12 + 16*numTables)
	records := make([]directoryRecord, numTables)
	for i, name := range tableNames {
		body := f.tables[name]
		copy(records[i].Tag[:], name)
		records[i].CheckSum = checksum(body)
		records[i].Offset = offset
		records[i].Length = uint32(len(body))
		offset += 4 * ((uint32(len(body)) + 3) / 4)
	}
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Tag[:], records[j].Tag[:]) < 0
	})
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, offsets)
	binary.Write(buf, binary.BigEndian, records)
	return checksum(buf.Bytes())
}

// readUIntBase128 decodes a variable-length unsigned integer as used in
// the WOFF2 table directory.
func readUIntBase128(data []byte) (uint32, int, error) {
	var value uint32
	for i := 0; i < 5 && i < len(data); i++ {
		b := data[i]
		if i == 0 && b == 0x80 {
			break // leading zeros are forbidden
		}
		if value&0xFE000000 != 0 {
			break // would overflow
		}
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, &InvalidFontError{Reason: "invalid UIntBase128 value"}
}

func appendUIntBase128(dst []byte, value uint32) []byte {
	var tmp [5]byte
	n := len(tmp)
	tmp[n-1] = byte(value & 0x7F)
	value >>= 7
	for value != 0 {
		n--
		tmp[n-1] = byte(value&0x7F | 0x80)
		value >>= 7
	}
	return append(dst, tmp[n-1:]...)
}
