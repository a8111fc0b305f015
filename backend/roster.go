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

import "github.com/google/uuid"

// BlankRoster returns a template of DefaultRosterSize placeholder
// players with stable fresh ids.
func BlankRoster() []Player {
	roster := make([]Player, DefaultRosterSize)
	for i := range roster {
		roster[i] = Player{ID: uuid.NewString()}
	}
	return roster
}

// findPlayer returns a pointer into the roster slice, or nil.
func findPlayer(roster []Player, playerID string) *Player {
	for i := range roster {
		if roster[i].ID == playerID {
			return &roster[i]
		}
	}
	return nil
}

// applyImportRows merges best-effort parsed roster rows into a template.
// Rows fill existing slots in order, keeping their ids so per-game lines
// and history stay attached to the same players; extra rows append new
// players with fresh ids.
func applyImportRows(roster []Player, rows []ImportedPlayer) []Player {
	for i, row := range rows {
		if i < len(roster) {
			roster[i].apply(row.update())
			continue
		}
		p := Player{ID: uuid.NewString()}
		p.apply(row.update())
		roster = append(roster, p)
	}
	return roster
}
