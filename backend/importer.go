// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"regexp"
	"strings"
)

// ImportedPlayer is one best-effort parsed roster row. Empty fields were
// not found in the row.
type ImportedPlayer struct {
	No   string
	Name string
	Ht   string
	Cls  string
	Pos  string
}

// update converts a parsed row into a player edit that only touches the
// fields the row actually populated.
func (ip ImportedPlayer) update() PlayerUpdate {
	u := PlayerUpdate{}
	if ip.No != "" {
		u.No = &ip.No
	}
	if ip.Name != "" {
		u.Name = &ip.Name
	}
	if ip.Ht != "" {
		u.Ht = &ip.Ht
	}
	if ip.Cls != "" {
		u.Cls = &ip.Cls
	}
	if ip.Pos != "" {
		u.Pos = &ip.Pos
	}
	return u
}

var (
	fieldSplitRe = regexp.MustCompile(`\t|,|\s{2,}`)
	numberRe     = regexp.MustCompile(`^#?\d{1,3}$`)
	heightRe     = regexp.MustCompile(`^\d['’]\s?\d{1,2}"?$|^\d-\d{1,2}$`)
	classRe      = regexp.MustCompile(`(?i)^(fr|so|jr|sr|freshman|sophomore|junior|senior|\d{4}|\d{1,2}th)\.?$`)
	positionRe   = regexp.MustCompile(`(?i)^(pg|sg|sf|pf|c|g|f|g/f|f/c)$`)
)

// ParseRosterText parses free-form pasted roster text into ordered
// partial player rows. Header-like rows are skipped; malformed rows are
// parsed best-effort, never rejected.
func ParseRosterText(text string) []ImportedPlayer {
	var rows []ImportedPlayer
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			continue
		}
		if looksLikeHeader(line) {
			continue
		}
		rows = append(rows, parseRosterRow(line))
	}
	return rows
}

// looksLikeHeader reports whether a line is a column header rather than
// a player row.
func looksLikeHeader(line string) bool {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "name") {
		return false
	}
	for _, marker := range []string{"#", "no", "num", "ht", "height", "pos", "class", "grade"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// parseRosterRow maps row fields onto player attributes heuristically:
// a short number-like token is the jersey number, feet-inches tokens are
// height, grade tokens are class, position abbreviations are position,
// and the longest remaining token is the name.
func parseRosterRow(line string) ImportedPlayer {
	var row ImportedPlayer
	var leftovers []string
	for _, field := range fieldSplitRe.Split(line, -1) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		switch {
		case row.No == "" && numberRe.MatchString(field):
			row.No = strings.TrimPrefix(field, "#")
		case row.Ht == "" && heightRe.MatchString(field):
			row.Ht = field
		case row.Cls == "" && classRe.MatchString(field):
			row.Cls = field
		case row.Pos == "" && positionRe.MatchString(field):
			row.Pos = strings.ToUpper(field)
		default:
			leftovers = append(leftovers, field)
		}
	}
	for _, l := range leftovers {
		if len(l) > len(row.Name) {
			row.Name = l
		}
	}
	return row
}
