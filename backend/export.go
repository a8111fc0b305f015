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
	"fmt"
	"strconv"
	"strings"
)

// exportHeader is the column layout shared by the per-game and season
// exports. Tab-delimited so the text pastes cleanly into spreadsheets.
var exportHeader = []string{
	"Player", "PTS", "FGM", "FGA", "FG%", "3PM", "3PA", "3P%", "FTM", "FTA", "FT%", "TO", "PF",
}

func exportLine(label string, l StatLine) []string {
	return []string{
		label,
		strconv.Itoa(l.Pts),
		strconv.Itoa(l.FGM),
		strconv.Itoa(l.FGA),
		Percentage(l.FGM, l.FGA),
		strconv.Itoa(l.TPM),
		strconv.Itoa(l.TPA),
		Percentage(l.TPM, l.TPA),
		strconv.Itoa(l.FTM),
		strconv.Itoa(l.FTA),
		Percentage(l.FTM, l.FTA),
		strconv.Itoa(l.TO),
		strconv.Itoa(l.PF),
	}
}

func playerLabel(p Player) string {
	switch {
	case p.No != "" && p.Name != "":
		return "#" + p.No + " " + p.Name
	case p.Name != "":
		return p.Name
	case p.No != "":
		return "#" + p.No
	}
	return "(unnamed)"
}

// ExportGame renders a game's box score as tab-delimited text. Consumes
// only public game fields; never mutates the game. homeRoster resolves
// the shared-identity home player ids to names.
func ExportGame(g *Game, homeRoster []Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s\t%s\t%s\n", strings.ToUpper(g.Team), g.Opponent, g.DateISO, g.Location)
	fmt.Fprintf(&b, "Score\t%d-%d\tPeriod\t%s\n\n", g.ScoreHome, g.ScoreOpp, g.Period)

	writeSide := func(title string, roster []Player, ids []string, lines map[string]StatLine) {
		b.WriteString(title + "\n")
		b.WriteString(strings.Join(exportHeader, "\t") + "\n")
		for _, id := range ids {
			p := findPlayer(roster, id)
			label := "(unknown)"
			if p != nil {
				label = playerLabel(*p)
			}
			b.WriteString(strings.Join(exportLine(label, lines[id]), "\t") + "\n")
		}
		b.WriteString(strings.Join(exportLine("TOTAL", SumLines(lines, ids)), "\t") + "\n\n")
	}

	writeSide("Home", homeRoster, g.HomeRosterIds, g.LinesHome)
	writeSide("Opponent ("+g.Opponent+")", g.OppRoster, g.oppRosterIds(), g.LinesOpp)
	return b.String()
}

// ExportSeason renders season totals and per-game averages as
// tab-delimited text.
func ExportSeason(season TeamSeason) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Season\t%s\tGames\t%d\n\n", strings.ToUpper(season.TeamKey), season.GameCount)

	b.WriteString(strings.Join(exportHeader, "\t") + "\n")
	b.WriteString(strings.Join(exportLine("Team Total", season.Totals), "\t") + "\n")
	b.WriteString(strings.Join(exportLine("Opp Total", season.OppTotals), "\t") + "\n\n")

	b.WriteString("Per Game\t" + strings.Join(StatKeys, "\t") + "\n")
	b.WriteString("Team" + formatAverages(season.Averages) + "\n")
	b.WriteString("Opp" + formatAverages(season.OppAverages) + "\n")
	return b.String()
}

func formatAverages(avgs map[string]float64) string {
	var b strings.Builder
	for _, k := range StatKeys {
		fmt.Fprintf(&b, "\t%.1f", avgs[k])
	}
	return b.String()
}
