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
	"os"

	"seehuhn.de/go/fontmerge/fontfile"
)

// Merge combines two already-subset fonts according to the given
// strategy.  Neither input font is modified: every attempt works on
// fresh copies reloaded from temporary files, so that mutations made
// by one attempt (such as a units per em rewrite) cannot leak into
// the next.  The temporary files are removed on all paths.
func Merge(base, secondary *fontfile.Font, strategy Strategy, log *slog.Logger) (*fontfile.Font, error) {
	arena, err := newArena(base, secondary)
	if err != nil {
		return nil, &Error{Strategy: strategy, Err: err}
	}
	defer arena.cleanup()

	var res *fontfile.Font
	switch strategy {
	case Exact:
		res, err = arena.attemptExact()
	case UnifyUnitsPerEm:
		res, err = arena.attemptUnify()
	case Lenient:
		res, err = arena.attemptExact()
		if err != nil {
			log.Info("exact merge failed, unifying units per em", "error", err)
			res, err = arena.attemptUnify()
		}
		if err != nil {
			log.Info("unified merge failed, stripping signature", "error", err)
			res, err = arena.attemptStripSignature()
		}
	default:
		res, err = arena.attemptExact()
	}
	if err != nil {
		return nil, &Error{Strategy: strategy, Err: err}
	}
	return res, nil
}

// An arena holds the on-disk copies of the two input fonts for the
// duration of one merge operation.
type arena struct {
	basePath      string
	secondaryPath string
}

func newArena(base, secondary *fontfile.Font) (*arena, error) {
	a := &arena{}
	var err error
	a.basePath, err = saveTemp(base)
	if err != nil {
		a.cleanup()
		return nil, err
	}
	a.secondaryPath, err = saveTemp(secondary)
	if err != nil {
		a.cleanup()
		return nil, err
	}
	return a, nil
}

func (a *arena) cleanup() {
	if a.basePath != "" {
		os.Remove(a.basePath)
	}
	if a.secondaryPath != "" {
		os.Remove(a.secondaryPath)
	}
}

// reload gives an attempt its own private pair of handles.
func (a *arena) reload() (base, secondary *fontfile.Font, err error) {
	base, err = fontfile.Load(a.basePath)
	if err != nil {
		return nil, nil, err
	}
	secondary, err = fontfile.Load(a.secondaryPath)
	if err != nil {
		return nil, nil, err
	}
	return base, secondary, nil
}

func (a *arena) attemptExact() (*fontfile.Font, error) {
	base, secondary, err := a.reload()
	if err != nil {
		return nil, err
	}
	return combine(base, secondary)
}

func (a *arena) attemptUnify() (*fontfile.Font, error) {
	base, secondary, err := a.reload()
	if err != nil {
		return nil, err
	}
	upm := base.UnitsPerEm()
	if other := secondary.UnitsPerEm(); other > upm {
		upm = other
	}
	if err := base.SetUnitsPerEm(upm); err != nil {
		return nil, err
	}
	if err := secondary.SetUnitsPerEm(upm); err != nil {
		return nil, err
	}
	return combine(base, secondary)
}

func (a *arena) attemptStripSignature() (*fontfile.Font, error) {
	base, secondary, err := a.reload()
	if err != nil {
		return nil, err
	}
	// Only the signature is expendable.  GSUB and GPOS must survive,
	// the ligature restoration step depends on them.
	base.RemoveTable("DSIG")
	secondary.RemoveTable("DSIG")
	return combine(base, secondary)
}

func saveTemp(f *fontfile.Font) (string, error) {
	fd, err := os.CreateTemp("", "fontmerge-*.ttf")
	if err != nil {
		return "", err
	}
	path := fd.Name()
	_, err = f.Write(fd)
	if closeErr := fd.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
