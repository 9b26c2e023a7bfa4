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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDecodeNamesGoRegular(t *testing.T) {
	f := loadGoRegular(t)
	nt, err := f.DecodeNames()
	if err != nil {
		t.Fatal(err)
	}
	if nt == nil || len(nt.Records) == 0 {
		t.Fatal("no name records")
	}

	family := nt.Get(NameIDFamily, 3, 1, 0x0409)
	if family == "" {
		t.Error("no Windows family name")
	}
}

func TestNamesRoundTrip(t *testing.T) {
	f := loadGoRegular(t)
	nt, err := f.DecodeNames()
	if err != nil {
		t.Fatal(err)
	}

	if err := f.SetNames(nt); err != nil {
		t.Fatal(err)
	}
	got, err := f.DecodeNames()
	if err != nil {
		t.Fatal(err)
	}

	opts := cmp.Options{
		cmp.AllowUnexported(NameRecord{}),
		cmpopts.SortSlices(func(a, b NameRecord) bool {
			if a.PlatformID != b.PlatformID {
				return a.PlatformID < b.PlatformID
			}
			if a.EncodingID != b.EncodingID {
				return a.EncodingID < b.EncodingID
			}
			if a.LanguageID != b.LanguageID {
				return a.LanguageID < b.LanguageID
			}
			return a.NameID < b.NameID
		}),
	}
	if d := cmp.Diff(nt.Records, got.Records, opts); d != "" {
		t.Errorf("records changed in round trip (-want +got):\n%s", d)
	}
}

func TestNameRemove(t *testing.T) {
	nt := &NameTable{
		Records: []NameRecord{
			{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: 1, Value: "Foo"},
			{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: 2, Value: "Regular"},
			{PlatformID: 1, EncodingID: 0, LanguageID: 0, NameID: 1, Value: "Foo"},
		},
	}
	nt.Remove(1)
	if len(nt.Records) != 1 || nt.Records[0].NameID != 2 {
		t.Errorf("unexpected records after Remove: %v", nt.Records)
	}
}

func TestNameEncodingMacRoman(t *testing.T) {
	f := loadGoRegular(t)
	nt := &NameTable{
		Records: []NameRecord{
			{PlatformID: 1, EncodingID: 0, NameID: 1, Value: "Café Sans"},
			{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: 1, Value: "Café Sans"},
		},
	}
	if err := f.SetNames(nt); err != nil {
		t.Fatal(err)
	}
	got, err := f.DecodeNames()
	if err != nil {
		t.Fatal(err)
	}
	if v := got.Get(1, 1, 0, 0); v != "Café Sans" {
		t.Errorf("MacRoman record = %q", v)
	}
	if v := got.Get(1, 3, 1, 0x0409); v != "Café Sans" {
		t.Errorf("Windows record = %q", v)
	}
}
