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

// Schema Versions
const (
	// SchemaVersionV1 predates explicit score/history/undo tracking.
	SchemaVersionV1 = 1
	SchemaVersionV2 = 2

	CurrentSchemaVersion = SchemaVersionV2
)

// Stat Keys
const (
	StatPts = "pts"
	StatFGM = "fgm"
	StatFGA = "fga"
	StatTPM = "tpm"
	StatTPA = "tpa"
	StatFTM = "ftm"
	StatFTA = "fta"
	StatTO  = "to"
	StatPF  = "pf"
)

// StatKeys is the closed, ordered set of tracked stat keys.
var StatKeys = []string{
	StatPts, StatFGM, StatFGA, StatTPM, StatTPA, StatFTM, StatFTA, StatTO, StatPF,
}

// Sides
const (
	SideHome = "home"
	SideOpp  = "opp"
)

// Team Keys
const (
	TeamVarsity = "varsity"
	TeamJV      = "jv"
)

// TeamKeys lists the team keys a Store always carries templates for.
var TeamKeys = []string{TeamVarsity, TeamJV}

// PeriodSequence is the canonical period progression. Period labels on a
// game are free text; this sequence only drives AdvancePeriod and defaults.
var PeriodSequence = []string{"Q1", "Q2", "Q3", "Q4", "OT"}

const (
	// HistoryLimit bounds the persisted event history per game.
	HistoryLimit = 500
	// UndoLimit bounds the persisted undo stack per game.
	UndoLimit = 300

	// DefaultRosterSize is the number of placeholder players seeded into
	// a blank roster template.
	DefaultRosterSize = 12
)

// StatButton describes one entry of the fixed stat-button catalog.
type StatButton struct {
	Label string    `json:"label"`
	Delta StatDelta `json:"delta"`
}

// StatButtons is the fixed catalog of forward stat buttons. Every entry
// has an exact negated counterpart produced by Negated().
var StatButtons = []StatButton{
	{Label: "+2", Delta: StatDelta{StatPts: 2, StatFGM: 1, StatFGA: 1}},
	{Label: "+3", Delta: StatDelta{StatPts: 3, StatTPM: 1, StatTPA: 1, StatFGM: 1, StatFGA: 1}},
	{Label: "FT +1", Delta: StatDelta{StatPts: 1, StatFTM: 1, StatFTA: 1}},
	{Label: "2 Miss", Delta: StatDelta{StatFGA: 1}},
	{Label: "3 Miss", Delta: StatDelta{StatTPA: 1, StatFGA: 1}},
	{Label: "FT Miss", Delta: StatDelta{StatFTA: 1}},
	{Label: "TO", Delta: StatDelta{StatTO: 1}},
	{Label: "PF", Delta: StatDelta{StatPF: 1}},
}

// Negated returns the manual-correction counterpart of a stat button.
func (b StatButton) Negated() StatButton {
	return StatButton{
		Label: "-" + b.Label,
		Delta: b.Delta.Negated(),
	}
}
