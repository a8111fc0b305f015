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
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrUnknownSide   = errors.New("unknown side")
)

// HistoryEvent is the immutable record of one applied stat delta.
// Timestamp orders entries internally and is never rendered.
type HistoryEvent struct {
	ID        string    `json:"id"`
	Timestamp int64     `json:"ts"`
	Period    string    `json:"period"`
	Side      string    `json:"side"`
	PlayerID  string    `json:"playerId"`
	Label     string    `json:"label"`
	Delta     StatDelta `json:"delta"`
	ScoreHome int       `json:"scoreHome"`
	ScoreOpp  int       `json:"scoreOpp"`
}

// UndoAction holds what is needed to reverse one HistoryEvent: the
// original (un-negated) delta and a back-reference to the event.
// EventID is empty on actions persisted before event ids existed.
type UndoAction struct {
	Side     string    `json:"side"`
	PlayerID string    `json:"playerId"`
	Label    string    `json:"label"`
	Delta    StatDelta `json:"delta"`
	EventID  string    `json:"eventId,omitempty"`
}

// ApplyEvent applies one stat delta to a player's line and, for a pts
// component, to the side's score; records a history event and an undo
// action. The five steps are one atomic update of the game record.
//
// The player id is a caller precondition: an id not on the side's roster
// simply accrues a line that SumLines ignores.
func (g *Game) ApplyEvent(side, playerID string, delta StatDelta, label string) (*HistoryEvent, error) {
	if side != SideHome && side != SideOpp {
		return nil, ErrUnknownSide
	}
	lines := g.lines(side)
	lines[playerID] = ApplyDelta(lines[playerID], delta)

	if pts := delta[StatPts]; pts != 0 {
		score := g.score(side)
		*score = clampNonNegative(*score + pts)
	}

	ev := HistoryEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixNano(),
		Period:    g.Period,
		Side:      side,
		PlayerID:  playerID,
		Label:     label,
		Delta:     delta,
		ScoreHome: g.ScoreHome,
		ScoreOpp:  g.ScoreOpp,
	}
	g.History = append([]HistoryEvent{ev}, g.History...)
	if len(g.History) > HistoryLimit {
		g.History = g.History[:HistoryLimit]
	}

	g.Undo = append([]UndoAction{{
		Side:     side,
		PlayerID: playerID,
		Label:    label,
		Delta:    delta,
		EventID:  ev.ID,
	}}, g.Undo...)
	if len(g.Undo) > UndoLimit {
		g.Undo = g.Undo[:UndoLimit]
	}

	return &ev, nil
}

// UndoLast pops the newest undo action and re-applies its negation.
// One-shot: the popped action is discarded, there is no redo.
//
// Clamping applies during the reversal too, so undo is not a perfect
// algebraic inverse when the forward apply was itself clamped. That
// information loss is accepted behavior.
func (g *Game) UndoLast() (*UndoAction, error) {
	if len(g.Undo) == 0 {
		return nil, ErrNothingToUndo
	}
	action := g.Undo[0]
	g.Undo = g.Undo[1:]

	neg := action.Delta.Negated()
	lines := g.lines(action.Side)
	lines[action.PlayerID] = ApplyDelta(lines[action.PlayerID], neg)

	if pts := neg[StatPts]; pts != 0 {
		score := g.score(action.Side)
		*score = clampNonNegative(*score + pts)
	}

	if action.EventID != "" {
		g.removeHistoryEvent(action.EventID)
	}
	return &action, nil
}

// removeHistoryEvent removes the event by id, preferring the head of the
// list and falling back to a scan.
func (g *Game) removeHistoryEvent(eventID string) {
	if len(g.History) > 0 && g.History[0].ID == eventID {
		g.History = g.History[1:]
		return
	}
	for i := range g.History {
		if g.History[i].ID == eventID {
			g.History = append(g.History[:i], g.History[i+1:]...)
			return
		}
	}
}

// ClearPlayerLine resets exactly one player's line to zero.
//
// Known asymmetry, preserved on purpose: the scoreboard, history, and
// undo stack keep whatever this player contributed. Score correction
// stays manual via the negative stat buttons.
func (g *Game) ClearPlayerLine(side, playerID string) error {
	if side != SideHome && side != SideOpp {
		return ErrUnknownSide
	}
	g.lines(side)[playerID] = ZeroLine()
	return nil
}

// ClearGame resets all live-play state: every line zeroed, score 0-0,
// history and undo emptied, period back to the first entry. Rosters,
// date, opponent, location, and notes are preserved.
func (g *Game) ClearGame() {
	for id := range g.LinesHome {
		g.LinesHome[id] = ZeroLine()
	}
	for id := range g.LinesOpp {
		g.LinesOpp[id] = ZeroLine()
	}
	g.ScoreHome = 0
	g.ScoreOpp = 0
	g.History = make([]HistoryEvent, 0)
	g.Undo = make([]UndoAction, 0)
	g.Period = PeriodSequence[0]
}
