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
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Player represents a roster entry. All fields are free-form text.
type Player struct {
	ID   string `json:"id"`
	No   string `json:"no"`
	Name string `json:"name"`
	Ht   string `json:"ht"`
	Cls  string `json:"cls"`
	Pos  string `json:"pos"`
}

// PlayerUpdate carries optional field edits for a player. Nil means
// leave the field alone.
type PlayerUpdate struct {
	No   *string `json:"no,omitempty"`
	Name *string `json:"name,omitempty"`
	Ht   *string `json:"ht,omitempty"`
	Cls  *string `json:"cls,omitempty"`
	Pos  *string `json:"pos,omitempty"`
}

func (p *Player) apply(u PlayerUpdate) {
	if u.No != nil {
		p.No = *u.No
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Ht != nil {
		p.Ht = *u.Ht
	}
	if u.Cls != nil {
		p.Cls = *u.Cls
	}
	if u.Pos != nil {
		p.Pos = *u.Pos
	}
}

// ClonePlayers deep-copies a roster, assigning a fresh id to every player.
// Used to freeze the opponent template into a game so later template
// edits never alter historical games.
func ClonePlayers(roster []Player) []Player {
	out := make([]Player, len(roster))
	for i, p := range roster {
		p.ID = uuid.NewString()
		out[i] = p
	}
	return out
}

// GameMeta is the editable descriptive metadata of a game.
type GameMeta struct {
	DateISO  string `json:"dateISO"`
	Opponent string `json:"opponent"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// Game represents one game's complete live-play and historical state.
//
// Home players are referenced by id into the persistent roster template
// (the home side is "the team", not a frozen snapshot). The opponent
// roster is owned by the game.
type Game struct {
	ID            string `json:"id"`
	SchemaVersion int    `json:"schemaVersion"`
	Team          string `json:"team"`
	DateISO       string `json:"dateISO,omitempty"`
	Opponent      string `json:"opponent,omitempty"`
	Location      string `json:"location,omitempty"`
	Notes         string `json:"notes,omitempty"`

	HomeRosterIds []string `json:"homeRosterIds"`
	OppRoster     []Player `json:"oppRoster"`

	LinesHome map[string]StatLine `json:"linesHome"`
	LinesOpp  map[string]StatLine `json:"linesOpp"`

	Period    string `json:"period,omitempty"`
	ScoreHome int    `json:"scoreHome"`
	ScoreOpp  int    `json:"scoreOpp"`

	// Newest-first, bounded.
	History []HistoryEvent `json:"history"`
	Undo    []UndoAction   `json:"undo"`
}

// NewGame snapshots the current rosters into a fresh game record.
// Home ids are shared with the template; the opponent roster is cloned
// with fresh ids.
func NewGame(team string, meta GameMeta, homeRoster, oppTemplate []Player) *Game {
	g := &Game{
		ID:            uuid.NewString(),
		SchemaVersion: CurrentSchemaVersion,
		Team:          team,
		DateISO:       meta.DateISO,
		Opponent:      meta.Opponent,
		Location:      meta.Location,
		Notes:         meta.Notes,
		HomeRosterIds: make([]string, 0, len(homeRoster)),
		OppRoster:     ClonePlayers(oppTemplate),
		LinesHome:     make(map[string]StatLine),
		LinesOpp:      make(map[string]StatLine),
		Period:        PeriodSequence[0],
		History:       make([]HistoryEvent, 0),
		Undo:          make([]UndoAction, 0),
	}
	if g.DateISO == "" {
		g.DateISO = time.Now().Format("2006-01-02")
	}
	for _, p := range homeRoster {
		g.HomeRosterIds = append(g.HomeRosterIds, p.ID)
		g.LinesHome[p.ID] = ZeroLine()
	}
	for _, p := range g.OppRoster {
		g.LinesOpp[p.ID] = ZeroLine()
	}
	return g
}

// SetPeriod sets an arbitrary caller-supplied period label. No validation
// against PeriodSequence; custom labels are allowed.
func (g *Game) SetPeriod(label string) {
	g.Period = label
}

// AdvancePeriod moves to the next entry of PeriodSequence, clamped at the
// last entry. A current label not found in the sequence is treated as
// index -1, so the game advances to the first entry.
func (g *Game) AdvancePeriod() {
	idx := -1
	for i, p := range PeriodSequence {
		if p == g.Period {
			idx = i
			break
		}
	}
	if idx+1 < len(PeriodSequence) {
		g.Period = PeriodSequence[idx+1]
	}
}

// UpdateOpponentPlayer edits one player of the game-owned opponent
// roster. The opponent template and other games are unaffected.
func (g *Game) UpdateOpponentPlayer(playerID string, u PlayerUpdate) bool {
	for i := range g.OppRoster {
		if g.OppRoster[i].ID == playerID {
			g.OppRoster[i].apply(u)
			return true
		}
	}
	return false
}

// score returns a pointer to the side's running score.
func (g *Game) score(side string) *int {
	if side == SideOpp {
		return &g.ScoreOpp
	}
	return &g.ScoreHome
}

// lines returns the side's id -> line mapping.
func (g *Game) lines(side string) map[string]StatLine {
	if side == SideOpp {
		return g.LinesOpp
	}
	return g.LinesHome
}

// oppRosterIds returns the ids of the game-owned opponent roster.
func (g *Game) oppRosterIds() []string {
	ids := make([]string, len(g.OppRoster))
	for i, p := range g.OppRoster {
		ids[i] = p.ID
	}
	return ids
}

// normalize migrates a game loaded from an older or partial snapshot to
// the current schema. Idempotent: a normalized game passes through
// unchanged.
func (g *Game) normalize() {
	if g.HomeRosterIds == nil {
		g.HomeRosterIds = make([]string, 0)
	}
	if g.OppRoster == nil {
		g.OppRoster = make([]Player, 0)
	}
	if g.LinesHome == nil {
		g.LinesHome = make(map[string]StatLine)
	}
	if g.LinesOpp == nil {
		g.LinesOpp = make(map[string]StatLine)
	}
	// Every current roster-side id gets an explicit line.
	for _, id := range g.HomeRosterIds {
		if _, ok := g.LinesHome[id]; !ok {
			g.LinesHome[id] = ZeroLine()
		}
	}
	for _, p := range g.OppRoster {
		if _, ok := g.LinesOpp[p.ID]; !ok {
			g.LinesOpp[p.ID] = ZeroLine()
		}
	}
	if g.Period == "" {
		g.Period = PeriodSequence[0]
	}
	// Scores absent from a legacy snapshot are reconciled from the
	// point sums of the side's lines.
	if g.ScoreHome < 0 {
		g.ScoreHome = SumLines(g.LinesHome, g.HomeRosterIds).Pts
	}
	if g.ScoreOpp < 0 {
		g.ScoreOpp = SumLines(g.LinesOpp, g.oppRosterIds()).Pts
	}
	if g.History == nil {
		g.History = make([]HistoryEvent, 0)
	}
	if g.Undo == nil {
		g.Undo = make([]UndoAction, 0)
	}
	if len(g.History) > HistoryLimit {
		g.History = g.History[:HistoryLimit]
	}
	if len(g.Undo) > UndoLimit {
		g.Undo = g.Undo[:UndoLimit]
	}
	if g.SchemaVersion < CurrentSchemaVersion {
		g.SchemaVersion = CurrentSchemaVersion
	}
}

// UnmarshalJSON decodes a game, distinguishing absent or non-numeric
// scores from a stored 0 so normalize can recompute them. Scores are
// clamped >= 0 in live play, so -1 is a safe "recompute" sentinel.
func (g *Game) UnmarshalJSON(data []byte) error {
	type gameAlias Game
	aux := struct {
		*gameAlias
		ScoreHome json.RawMessage `json:"scoreHome"`
		ScoreOpp  json.RawMessage `json:"scoreOpp"`
		Undo      json.RawMessage `json:"undo"`
		History   json.RawMessage `json:"history"`
	}{gameAlias: (*gameAlias)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.ScoreHome = decodeScore(aux.ScoreHome)
	g.ScoreOpp = decodeScore(aux.ScoreOpp)
	// Malformed history/undo degrade to empty rather than failing the
	// whole snapshot.
	if aux.History != nil {
		var h []HistoryEvent
		if err := json.Unmarshal(aux.History, &h); err == nil {
			g.History = h
		}
	}
	if aux.Undo != nil {
		var u []UndoAction
		if err := json.Unmarshal(aux.Undo, &u); err == nil {
			g.Undo = u
		}
	}
	return nil
}

// decodeScore returns the stored score, or -1 when the field is absent
// or not a number.
func decodeScore(raw json.RawMessage) int {
	if raw == nil {
		return -1
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return -1
	}
	return clampNonNegative(int(n))
}
