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

// TeamSeason is the pure reduction of all of a team's games into
// cumulative totals and per-game averages, for both sides.
type TeamSeason struct {
	TeamKey     string             `json:"teamKey"`
	GameCount   int                `json:"gameCount"`
	Totals      StatLine           `json:"totals"`
	OppTotals   StatLine           `json:"oppTotals"`
	Averages    map[string]float64 `json:"averages"`
	OppAverages map[string]float64 `json:"oppAverages"`
}

// SeasonStats reduces the game list for one team. Games are selected by
// team key only; date ordering is irrelevant. Zero selected games yields
// all-zero totals and averages. Never mutates the games.
func SeasonStats(games []*Game, teamKey string) TeamSeason {
	season := TeamSeason{
		TeamKey:     teamKey,
		Averages:    make(map[string]float64, len(StatKeys)),
		OppAverages: make(map[string]float64, len(StatKeys)),
	}
	for _, g := range games {
		if g.Team != teamKey {
			continue
		}
		season.GameCount++
		home := SumLines(g.LinesHome, g.HomeRosterIds)
		opp := SumLines(g.LinesOpp, g.oppRosterIds())
		for _, k := range StatKeys {
			season.Totals.set(k, season.Totals.Get(k)+home.Get(k))
			season.OppTotals.set(k, season.OppTotals.Get(k)+opp.Get(k))
		}
	}
	for _, k := range StatKeys {
		season.Averages[k] = AveragePerGame(season.Totals.Get(k), season.GameCount)
		season.OppAverages[k] = AveragePerGame(season.OppTotals.Get(k), season.GameCount)
	}
	return season
}
