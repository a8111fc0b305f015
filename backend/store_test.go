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
	"testing"

	"github.com/c2FmZQ/storage"
	"github.com/pmezard/go-difflib/difflib"
)

func testStorage(t *testing.T) *storage.Storage {
	t.Helper()
	return storage.New(t.TempDir(), nil)
}

func TestNewAppDefaults(t *testing.T) {
	app := NewApp(testStorage(t))

	for _, team := range TeamKeys {
		roster, err := app.Roster(team, false)
		if err != nil {
			t.Fatalf("Roster(%s) failed: %v", team, err)
		}
		if len(roster) != DefaultRosterSize {
			t.Errorf("Expected %d placeholder players for %s, got %d", DefaultRosterSize, team, len(roster))
		}
		opp, err := app.Roster(team, true)
		if err != nil {
			t.Fatalf("Roster(%s, opp) failed: %v", team, err)
		}
		if len(opp) != DefaultRosterSize {
			t.Errorf("Expected %d opponent placeholders for %s, got %d", DefaultRosterSize, team, len(opp))
		}
	}
	if games := app.ListGames(); len(games) != 0 {
		t.Errorf("Expected empty game list, got %d", len(games))
	}
}

func TestAppPersistsEveryMutation(t *testing.T) {
	s := testStorage(t)
	app := NewApp(s)

	g, err := app.CreateGame(TeamVarsity, GameMeta{Opponent: "East"})
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	pid := g.HomeRosterIds[0]
	if _, err := app.ApplyEvent(g.ID, SideHome, pid, StatDelta{StatPts: 2, StatFGM: 1, StatFGA: 1}, "+2"); err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}

	// A second App over the same storage sees the mutation: the write
	// happened synchronously, not on shutdown.
	app2 := NewApp(s)
	g2, err := app2.Game(g.ID)
	if err != nil {
		t.Fatalf("Game not persisted: %v", err)
	}
	if g2.ScoreHome != 2 || g2.Opponent != "East" {
		t.Errorf("Persisted game lost state: score=%d opponent=%s", g2.ScoreHome, g2.Opponent)
	}
	if len(g2.History) != 1 {
		t.Errorf("History not persisted: %d", len(g2.History))
	}
}

func TestCreateGamePrependsAndSnapshots(t *testing.T) {
	app := NewApp(testStorage(t))

	g1, err := app.CreateGame(TeamVarsity, GameMeta{Opponent: "First"})
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	g2, err := app.CreateGame(TeamVarsity, GameMeta{Opponent: "Second"})
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	games := app.ListGames()
	if len(games) != 2 || games[0].ID != g2.ID || games[1].ID != g1.ID {
		t.Errorf("Games must list newest first: %+v", games)
	}

	t.Run("OpponentTemplateIsolation", func(t *testing.T) {
		opp, _ := app.Roster(TeamVarsity, true)
		name := "Renamed"
		if err := app.UpdateOppTemplatePlayer(TeamVarsity, opp[0].ID, PlayerUpdate{Name: &name}); err != nil {
			t.Fatalf("UpdateOppTemplatePlayer failed: %v", err)
		}
		reloaded, _ := app.Game(g1.ID)
		if reloaded.OppRoster[0].Name == "Renamed" {
			t.Errorf("Template edit altered an existing game's opponent roster")
		}
	})

	t.Run("HomeTemplateShared", func(t *testing.T) {
		roster, _ := app.Roster(TeamVarsity, false)
		if g1.HomeRosterIds[0] != roster[0].ID {
			t.Errorf("Home game ids must be the template ids")
		}
	})
}

func TestAppErrors(t *testing.T) {
	app := NewApp(testStorage(t))

	if _, err := app.Game("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
	if _, err := app.CreateGame("unknown-team", GameMeta{}); !errors.Is(err, ErrUnknownTeam) {
		t.Errorf("Expected ErrUnknownTeam, got %v", err)
	}
	if _, err := app.UndoLast("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}

	g, _ := app.CreateGame(TeamVarsity, GameMeta{})
	if _, err := app.UndoLast(g.ID); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Expected ErrNothingToUndo, got %v", err)
	}
	// A failed precondition must not persist anything new.
	g2, _ := app.Game(g.ID)
	if len(g2.Undo) != 0 || len(g2.History) != 0 {
		t.Errorf("Failed undo mutated the game")
	}
}

// legacySnapshot is a v1 store: no oppRoster field, partial lines, a
// non-numeric stat value, and games without scores/period/history/undo.
func legacySnapshot() map[string]any {
	return map[string]any{
		"roster": map[string]any{
			"varsity": []any{
				map[string]any{"id": "h1", "no": "4", "name": "Price"},
				map[string]any{"id": "h2", "no": "5", "name": "Reed"},
			},
		},
		"games": []any{
			map[string]any{
				"id":            "legacy-game",
				"team":          "varsity",
				"dateISO":       "2025-11-02",
				"opponent":      "Lincoln",
				"homeRosterIds": []any{"h1", "h2"},
				"oppRoster": []any{
					map[string]any{"id": "o1", "name": "Visitor"},
				},
				"linesHome": map[string]any{
					"h1": map[string]any{"pts": 12, "fgm": 5, "fga": "corrupt"},
				},
				"linesOpp": map[string]any{
					"o1": map[string]any{"pts": 7},
				},
			},
		},
	}
}

func TestLoadLegacySnapshot(t *testing.T) {
	s := testStorage(t)
	if err := s.SaveDataFile(storeFile, legacySnapshot()); err != nil {
		t.Fatalf("SaveDataFile failed: %v", err)
	}

	app := NewApp(s)

	t.Run("SynthesizesOppRosterTemplates", func(t *testing.T) {
		for _, team := range TeamKeys {
			opp, err := app.Roster(team, true)
			if err != nil {
				t.Fatalf("Roster(%s, opp) failed: %v", team, err)
			}
			if len(opp) != DefaultRosterSize {
				t.Errorf("Expected synthesized blank template for %s, got %d", team, len(opp))
			}
		}
	})

	t.Run("KeepsExistingRoster", func(t *testing.T) {
		roster, err := app.Roster(TeamVarsity, false)
		if err != nil {
			t.Fatalf("Roster failed: %v", err)
		}
		if len(roster) != 2 || roster[0].Name != "Price" {
			t.Errorf("Existing roster damaged: %+v", roster)
		}
	})

	t.Run("MigratesGame", func(t *testing.T) {
		g, err := app.Game("legacy-game")
		if err != nil {
			t.Fatalf("Game failed: %v", err)
		}
		// Score derived from the sum of line points.
		if g.ScoreHome != 12 || g.ScoreOpp != 7 {
			t.Errorf("Expected derived score 12-7, got %d-%d", g.ScoreHome, g.ScoreOpp)
		}
		// Missing line synthesized, corrupt value coerced.
		if _, ok := g.LinesHome["h2"]; !ok {
			t.Errorf("Missing line for h2 not synthesized")
		}
		if g.LinesHome["h1"].FGA != 0 {
			t.Errorf("Corrupt fga not coerced to 0: %d", g.LinesHome["h1"].FGA)
		}
		if g.Period != "Q1" {
			t.Errorf("Period not defaulted: %s", g.Period)
		}
		if g.History == nil || g.Undo == nil || len(g.History) != 0 {
			t.Errorf("History/undo not defaulted to empty")
		}
	})
}

func TestLoadGarbageSnapshotStartsFresh(t *testing.T) {
	dir := t.TempDir()
	s := storage.New(dir, nil)
	if err := s.SaveDataFile(storeFile, "not a store"); err != nil {
		t.Fatalf("SaveDataFile failed: %v", err)
	}

	app := NewApp(s)
	if games := app.ListGames(); len(games) != 0 {
		t.Errorf("Garbage snapshot must yield a default store")
	}
	if _, err := app.Roster(TeamVarsity, false); err != nil {
		t.Errorf("Default store incomplete: %v", err)
	}
}

// Loading an already-migrated snapshot a second time must not change it.
func TestMigrationIdempotence(t *testing.T) {
	s := testStorage(t)
	if err := s.SaveDataFile(storeFile, legacySnapshot()); err != nil {
		t.Fatalf("SaveDataFile failed: %v", err)
	}

	app1 := NewApp(s)
	first, err := app1.StoreJSON()
	if err != nil {
		t.Fatalf("StoreJSON failed: %v", err)
	}
	// Persist the migrated snapshot, then load it again.
	app1.mu.Lock()
	if err := app1.save(); err != nil {
		app1.mu.Unlock()
		t.Fatalf("save failed: %v", err)
	}
	app1.mu.Unlock()

	app2 := NewApp(s)
	second, err := app2.StoreJSON()
	if err != nil {
		t.Fatalf("StoreJSON failed: %v", err)
	}

	if string(first) != string(second) {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(first)),
			B:        difflib.SplitLines(string(second)),
			FromFile: "first load",
			ToFile:   "second load",
			Context:  2,
		})
		t.Errorf("Second load differs from first:\n%s", diff)
	}
}

func TestImportRoster(t *testing.T) {
	app := NewApp(testStorage(t))
	before, _ := app.Roster(TeamVarsity, false)

	text := "No\tName\tHt\tClass\tPos\n" +
		"4\tJordan Price\t5'10\"\tJr\tPG\n" +
		"12\tAlex Reed\t6'1\"\tSo\tF\n"
	roster, err := app.ImportRoster(TeamVarsity, false, text)
	if err != nil {
		t.Fatalf("ImportRoster failed: %v", err)
	}

	if roster[0].ID != before[0].ID {
		t.Errorf("Import must keep existing slot ids")
	}
	if roster[0].Name != "Jordan Price" || roster[0].No != "4" || roster[0].Pos != "PG" {
		t.Errorf("Row 0 not applied: %+v", roster[0])
	}
	if roster[1].Name != "Alex Reed" || roster[1].Cls != "So" {
		t.Errorf("Row 1 not applied: %+v", roster[1])
	}
	// Untouched slots keep their placeholders.
	if len(roster) != DefaultRosterSize {
		t.Errorf("Import changed roster size: %d", len(roster))
	}
}

func TestClearGameThroughApp(t *testing.T) {
	app := NewApp(testStorage(t))
	g, _ := app.CreateGame(TeamJV, GameMeta{Opponent: "West", Notes: "rivalry"})
	pid := g.HomeRosterIds[0]
	app.ApplyEvent(g.ID, SideHome, pid, StatDelta{StatPts: 3, StatTPM: 1, StatTPA: 1, StatFGM: 1, StatFGA: 1}, "+3")

	cleared, err := app.ClearGame(g.ID)
	if err != nil {
		t.Fatalf("ClearGame failed: %v", err)
	}
	if cleared.ScoreHome != 0 || len(cleared.History) != 0 {
		t.Errorf("Game not cleared: %+v", cleared)
	}
	if cleared.Notes != "rivalry" {
		t.Errorf("Clear must preserve notes")
	}
}
