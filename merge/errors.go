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
	"errors"
	"strings"
)

// An Error is returned when all merge attempts permitted by the
// chosen strategy have failed.  It wraps the innermost cause and
// records which strategy was active, so that callers can suggest a
// way forward.
type Error struct {
	Strategy Strategy
	Err      error
}

func (e *Error) Error() string {
	return "merge failed (strategy " + e.Strategy.String() + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Remediation returns advice the caller can show to the user, chosen
// by the strategy that was active when the merge failed.
func (e *Error) Remediation() string {
	return Remediation(e.Strategy, e.Err)
}

// Remediation suggests a way forward after a failed merge, based on
// the active strategy and the cause of the failure.
func Remediation(strategy Strategy, err error) string {
	msg := ""
	if err != nil {
		msg = strings.ToLower(err.Error())
	}

	if errors.Is(err, errUnitsPerEmMismatch) {
		switch strategy {
		case Exact:
			return "The fonts use different units per em. " +
				"Retry with the UnifyUnitsPerEm strategy."
		case UnifyUnitsPerEm:
			return "Unifying the units per em was not enough. " +
				"Retry with the Lenient strategy."
		}
	}
	if strings.Contains(msg, "permission") || strings.Contains(msg, "access") {
		return "The output file could not be written. " +
			"Save to a different location, or check that the file is not in use."
	}
	if strings.Contains(msg, "format") || strings.Contains(msg, "invalid") {
		return "A font file appears to be damaged or in an unsupported format. " +
			"Try different font files."
	}

	switch strategy {
	case Exact:
		return "The fonts are not structurally identical. " +
			"Retry with the UnifyUnitsPerEm or Lenient strategy."
	case UnifyUnitsPerEm:
		return "Unifying the units per em was not enough. " +
			"Retry with the Lenient strategy."
	default:
		return "All merge strategies failed. " +
			"Try different fonts, or reduce the selected character sets."
	}
}

// An EmptySelectionError is returned when both character selections
// reduce to zero usable code points, so that neither font can
// contribute anything to the merge.
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "both character selections are empty"
}

// An IOError wraps a filesystem failure while writing the output.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return "cannot write " + e.Path + ": " + e.Err.Error() +
		" (check permissions and free space)"
}

func (e *IOError) Unwrap() error {
	return e.Err
}
