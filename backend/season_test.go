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
	"math"
	"testing"
)

func seasonFixture() []*Game {
	mk := func(team string, homePts, oppPts int) *Game {
		g := NewGame(team, GameMeta{}, []Player{{ID: "h1"}}, []Player{{ID: "o1"}})
		g.ApplyEvent(SideHome, "h1", StatDelta{StatPts: homePts, StatFGM: 1, StatFGA: 2}, "+2")
		g.ApplyEvent(SideOpp, g.OppRoster[0].ID, StatDelta{StatPts: oppPts, StatFGA: 1}, "+2")
		return g
	}
	return []*Game{
		mk(TeamVarsity, 4, 2),
		mk(TeamVarsity, 6, 8),
		mk(TeamJV, 10, 1),
	}
}

func TestSeasonStats(t *testing.T) {
	games := seasonFixture()

	t.Run("FiltersByTeam", func(t *testing.T) {
		season := SeasonStats(games, TeamVarsity)
		if season.GameCount != 2 {
			t.Fatalf("Expected 2 games, got %d", season.GameCount)
		}
		if season.Totals.Pts != 10 || season.OppTotals.Pts != 10 {
			t.Errorf("Unexpected totals: %d / %d", season.Totals.Pts, season.OppTotals.Pts)
		}
		if season.Totals.FGA != 4 || season.OppTotals.FGA != 2 {
			t.Errorf("Unexpected FGA totals: %d / %d", season.Totals.FGA, season.OppTotals.FGA)
		}
	})

	t.Run("Averages", func(t *testing.T) {
		season := SeasonStats(games, TeamVarsity)
		if season.Averages[StatPts] != 5.0 {
			t.Errorf("Expected 5.0 ppg, got %v", season.Averages[StatPts])
		}
		if season.Averages[StatFGM] != 1.0 {
			t.Errorf("Expected 1.0 fgm, got %v", season.Averages[StatFGM])
		}
	})

	t.Run("ZeroGames", func(t *testing.T) {
		season := SeasonStats(nil, TeamVarsity)
		if season.GameCount != 0 || season.Totals != ZeroLine() {
			t.Errorf("Expected empty season: %+v", season)
		}
		for _, k := range StatKeys {
			if season.Averages[k] != 0 {
				t.Errorf("Expected 0 average for %s, got %v", k, season.Averages[k])
			}
		}
	})

	t.Run("NeverMutatesGames", func(t *testing.T) {
		before := games[0].LinesHome["h1"]
		_ = SeasonStats(games, TeamVarsity)
		if games[0].LinesHome["h1"] != before {
			t.Errorf("SeasonStats mutated a game")
		}
	})
}

// Season totals must equal the sum of per-game sums, and average times
// game count must reconstruct the total within rounding.
func TestSeasonAdditivity(t *testing.T) {
	games := seasonFixture()
	season := SeasonStats(games, TeamVarsity)

	for _, k := range StatKeys {
		var total, oppTotal int
		for _, g := range games {
			if g.Team != TeamVarsity {
				continue
			}
			total += SumLines(g.LinesHome, g.HomeRosterIds).Get(k)
			oppTotal += SumLines(g.LinesOpp, g.oppRosterIds()).Get(k)
		}
		if season.Totals.Get(k) != total {
			t.Errorf("%s: totals %d != per-game sum %d", k, season.Totals.Get(k), total)
		}
		if season.OppTotals.Get(k) != oppTotal {
			t.Errorf("%s: opp totals %d != per-game sum %d", k, season.OppTotals.Get(k), oppTotal)
		}
		reconstructed := season.Averages[k] * float64(season.GameCount)
		if math.Abs(reconstructed-float64(total)) > 0.05*float64(season.GameCount)+1e-9 {
			t.Errorf("%s: average*games = %v, total = %d", k, reconstructed, total)
		}
	}
}
