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
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/c2FmZQ/storage"
)

// storeFile is the single fixed storage key the whole Store persists
// under.
const storeFile = "store.json"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrUnknownTeam    = errors.New("unknown team key")
	ErrPlayerNotFound = errors.New("player not found")
)

// Store is the process-wide persisted state: the per-team roster and
// opponent-roster templates, and every game ever recorded, newest first.
type Store struct {
	SchemaVersion int                 `json:"schemaVersion"`
	Roster        map[string][]Player `json:"roster"`
	OppRoster     map[string][]Player `json:"oppRoster"`
	Games         []*Game             `json:"games"`
}

// DefaultStore builds the state a fresh install starts from.
func DefaultStore() *Store {
	st := &Store{
		SchemaVersion: CurrentSchemaVersion,
		Roster:        make(map[string][]Player),
		OppRoster:     make(map[string][]Player),
		Games:         make([]*Game, 0),
	}
	for _, team := range TeamKeys {
		st.Roster[team] = BlankRoster()
		st.OppRoster[team] = BlankRoster()
	}
	return st
}

// normalize applies forward migration to a loaded snapshot. Idempotent.
func (st *Store) normalize() {
	if st.Roster == nil {
		st.Roster = make(map[string][]Player)
	}
	if st.OppRoster == nil {
		st.OppRoster = make(map[string][]Player)
	}
	for _, team := range TeamKeys {
		if st.Roster[team] == nil {
			st.Roster[team] = BlankRoster()
		}
		if st.OppRoster[team] == nil {
			st.OppRoster[team] = BlankRoster()
		}
	}
	if st.Games == nil {
		st.Games = make([]*Game, 0)
	}
	for _, g := range st.Games {
		g.normalize()
	}
	if st.SchemaVersion < CurrentSchemaVersion {
		st.SchemaVersion = CurrentSchemaVersion
	}
}

// App owns the Store and its persistence. Every logical operation has
// one designated mutation entry point here; each entry point saves the
// full snapshot before returning. There is no other writer.
type App struct {
	mu      sync.Mutex
	storage *storage.Storage
	store   *Store
	Debug   bool

	// onGameUpdate receives a detached copy of a game after each
	// mutation of it. Used for the live spectator feed.
	onGameUpdate func(*Game)
}

// NewApp loads the persisted snapshot (or a default store if it is
// absent or unparseable) and returns the application state container.
func NewApp(s *storage.Storage) *App {
	a := &App{storage: s}
	var st Store
	if err := s.ReadDataFile(storeFile, &st); err != nil {
		log.Printf("Warning: could not read store snapshot, starting fresh: %v", err)
		a.store = DefaultStore()
		return a
	}
	st.normalize()
	a.store = &st
	return a
}

// OnGameUpdate registers the game-update hook. Must be set before the
// App is shared.
func (a *App) OnGameUpdate(fn func(*Game)) {
	a.onGameUpdate = fn
}

// save writes the full snapshot. Callers hold a.mu.
func (a *App) save() error {
	if err := a.storage.SaveDataFile(storeFile, a.store); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	return nil
}

func (a *App) findGame(gameID string) *Game {
	for _, g := range a.store.Games {
		if g.ID == gameID {
			return g
		}
	}
	return nil
}

// cloneGame detaches a game from the store for callers and broadcasts.
func cloneGame(g *Game) *Game {
	data, err := json.Marshal(g)
	if err != nil {
		log.Printf("Warning: could not clone game %s: %v", g.ID, err)
		return nil
	}
	var out Game
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	out.normalize()
	return &out
}

// mutateGame runs fn against one game under the store lock, persists,
// and notifies the live feed. No mutation is persisted if fn fails.
func (a *App) mutateGame(gameID string, fn func(*Game) error) (*Game, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g := a.findGame(gameID)
	if g == nil {
		return nil, ErrGameNotFound
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	if err := a.save(); err != nil {
		return nil, err
	}
	out := cloneGame(g)
	if a.onGameUpdate != nil && out != nil {
		a.onGameUpdate(out)
	}
	return out, nil
}

// CreateGame snapshots the team's current templates into a new game and
// prepends it to the game list.
func (a *App) CreateGame(team string, meta GameMeta) (*Game, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	home, ok := a.store.Roster[team]
	if !ok {
		return nil, ErrUnknownTeam
	}
	g := NewGame(team, meta, home, a.store.OppRoster[team])
	a.store.Games = append([]*Game{g}, a.store.Games...)
	if err := a.save(); err != nil {
		a.store.Games = a.store.Games[1:]
		return nil, err
	}
	return cloneGame(g), nil
}

// ApplyEvent records one stat delta against a player of the game.
func (a *App) ApplyEvent(gameID, side, playerID string, delta StatDelta, label string) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		_, err := g.ApplyEvent(side, playerID, delta, label)
		return err
	})
}

// UndoLast reverses the newest recorded event of the game.
func (a *App) UndoLast(gameID string) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		_, err := g.UndoLast()
		return err
	})
}

// ClearPlayer zeroes one player's line.
func (a *App) ClearPlayer(gameID, side, playerID string) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		return g.ClearPlayerLine(side, playerID)
	})
}

// ClearGame resets the game's live-play state.
func (a *App) ClearGame(gameID string) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		g.ClearGame()
		return nil
	})
}

// SetPeriod sets a free-form period label on the game.
func (a *App) SetPeriod(gameID, label string) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		g.SetPeriod(label)
		return nil
	})
}

// AdvancePeriod moves the game to the next period in the sequence.
func (a *App) AdvancePeriod(gameID string) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		g.AdvancePeriod()
		return nil
	})
}

// UpdateGameMeta edits the descriptive metadata of a game.
func (a *App) UpdateGameMeta(gameID string, meta GameMeta) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		g.DateISO = meta.DateISO
		g.Opponent = meta.Opponent
		g.Location = meta.Location
		g.Notes = meta.Notes
		return nil
	})
}

// UpdateGameOpponentPlayer edits one player of the game-owned opponent
// roster while per-game edit mode is active.
func (a *App) UpdateGameOpponentPlayer(gameID, playerID string, u PlayerUpdate) (*Game, error) {
	return a.mutateGame(gameID, func(g *Game) error {
		if !g.UpdateOpponentPlayer(playerID, u) {
			return ErrPlayerNotFound
		}
		return nil
	})
}

// UpdateRosterPlayer edits a player of the persistent roster template.
// Home-side edits show up live in games because home players share ids
// with the template.
func (a *App) UpdateRosterPlayer(team, playerID string, u PlayerUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	roster, ok := a.store.Roster[team]
	if !ok {
		return ErrUnknownTeam
	}
	p := findPlayer(roster, playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.apply(u)
	return a.save()
}

// UpdateOppTemplatePlayer edits a player of the opponent-roster
// template. Already-created games are unaffected (they own clones).
func (a *App) UpdateOppTemplatePlayer(team, playerID string, u PlayerUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	roster, ok := a.store.OppRoster[team]
	if !ok {
		return ErrUnknownTeam
	}
	p := findPlayer(roster, playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.apply(u)
	return a.save()
}

// ImportRoster merges pasted roster text into a template. opponent
// selects the opponent template instead of the home one.
func (a *App) ImportRoster(team string, opponent bool, text string) ([]Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	templates := a.store.Roster
	if opponent {
		templates = a.store.OppRoster
	}
	roster, ok := templates[team]
	if !ok {
		return nil, ErrUnknownTeam
	}
	rows := ParseRosterText(text)
	templates[team] = applyImportRows(roster, rows)
	if err := a.save(); err != nil {
		return nil, err
	}
	return append([]Player(nil), templates[team]...), nil
}

// Game returns a detached copy of one game.
func (a *App) Game(gameID string) (*Game, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g := a.findGame(gameID)
	if g == nil {
		return nil, ErrGameNotFound
	}
	return cloneGame(g), nil
}

// GameSummary is the list-view projection of a game.
type GameSummary struct {
	ID        string `json:"id"`
	Team      string `json:"team"`
	DateISO   string `json:"dateISO"`
	Opponent  string `json:"opponent"`
	ScoreHome int    `json:"scoreHome"`
	ScoreOpp  int    `json:"scoreOpp"`
	Period    string `json:"period"`
}

// ListGames returns newest-first game summaries.
func (a *App) ListGames() []GameSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]GameSummary, 0, len(a.store.Games))
	for _, g := range a.store.Games {
		out = append(out, GameSummary{
			ID:        g.ID,
			Team:      g.Team,
			DateISO:   g.DateISO,
			Opponent:  g.Opponent,
			ScoreHome: g.ScoreHome,
			ScoreOpp:  g.ScoreOpp,
			Period:    g.Period,
		})
	}
	return out
}

// Roster returns a copy of a team's roster or opponent template.
func (a *App) Roster(team string, opponent bool) ([]Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	templates := a.store.Roster
	if opponent {
		templates = a.store.OppRoster
	}
	roster, ok := templates[team]
	if !ok {
		return nil, ErrUnknownTeam
	}
	return append([]Player(nil), roster...), nil
}

// Season reduces the team's games into season totals and averages.
func (a *App) Season(team string) (TeamSeason, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.store.Roster[team]; !ok {
		return TeamSeason{}, ErrUnknownTeam
	}
	return SeasonStats(a.store.Games, team), nil
}

// StoreJSON serializes the whole store, e.g. for the initial page load.
func (a *App) StoreJSON() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return json.Marshal(a.store)
}
