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
	"fmt"
	"math"
)

// StatLine is one player's (or team's) accumulated counting stats.
// Every value is kept >= 0 by clamping on every mutation.
type StatLine struct {
	Pts int `json:"pts"`
	FGM int `json:"fgm"`
	FGA int `json:"fga"`
	TPM int `json:"tpm"`
	TPA int `json:"tpa"`
	FTM int `json:"ftm"`
	FTA int `json:"fta"`
	TO  int `json:"to"`
	PF  int `json:"pf"`
}

// StatDelta is a sparse stat adjustment. A key that is absent leaves the
// stat unchanged; an explicit zero is a recorded no-op. Values may be
// negative (correction buttons, undo).
type StatDelta map[string]int

// Negated returns a copy of the delta with every present key negated.
func (d StatDelta) Negated() StatDelta {
	n := make(StatDelta, len(d))
	for k, v := range d {
		n[k] = -v
	}
	return n
}

// Get returns the value for a stat key, 0 for unknown keys.
func (l StatLine) Get(key string) int {
	switch key {
	case StatPts:
		return l.Pts
	case StatFGM:
		return l.FGM
	case StatFGA:
		return l.FGA
	case StatTPM:
		return l.TPM
	case StatTPA:
		return l.TPA
	case StatFTM:
		return l.FTM
	case StatFTA:
		return l.FTA
	case StatTO:
		return l.TO
	case StatPF:
		return l.PF
	}
	return 0
}

func (l *StatLine) set(key string, v int) {
	switch key {
	case StatPts:
		l.Pts = v
	case StatFGM:
		l.FGM = v
	case StatFGA:
		l.FGA = v
	case StatTPM:
		l.TPM = v
	case StatTPA:
		l.TPA = v
	case StatFTM:
		l.FTM = v
	case StatFTA:
		l.FTA = v
	case StatTO:
		l.TO = v
	case StatPF:
		l.PF = v
	}
}

// ZeroLine returns a line with all stats at 0.
func ZeroLine() StatLine {
	return StatLine{}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ApplyDelta returns a new line with each present delta key added and the
// result clamped to >= 0. Absent keys are untouched. Pure.
func ApplyDelta(line StatLine, delta StatDelta) StatLine {
	for k, v := range delta {
		line.set(k, clampNonNegative(line.Get(k)+v))
	}
	return line
}

// SumLines totals the lines of the given ids. Ids with no line contribute
// a zero line; this is never an error.
func SumLines(lines map[string]StatLine, ids []string) StatLine {
	total := ZeroLine()
	for _, id := range ids {
		l := lines[id]
		for _, k := range StatKeys {
			total.set(k, total.Get(k)+l.Get(k))
		}
	}
	return total
}

// Percentage formats made/attempted as a one-decimal percent string.
// Returns "" when attempted is 0.
func Percentage(made, attempted int) string {
	if attempted == 0 {
		return ""
	}
	v := math.Round(float64(made) / float64(attempted) * 1000)
	return fmt.Sprintf("%.1f%%", v/10)
}

// AveragePerGame returns total/gameCount rounded to one decimal place,
// 0 when gameCount is 0.
func AveragePerGame(total, gameCount int) float64 {
	if gameCount == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(gameCount)*10) / 10
}

// UnmarshalJSON decodes a persisted line leniently: missing keys default
// to 0 and non-numeric values are coerced to 0 instead of failing the
// whole snapshot. Legacy snapshots have been seen with stray strings in
// stat fields.
func (l *StatLine) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = ZeroLine()
		return nil
	}
	*l = ZeroLine()
	for _, k := range StatKeys {
		rv, ok := raw[k]
		if !ok {
			continue
		}
		var n float64
		if err := json.Unmarshal(rv, &n); err != nil {
			continue
		}
		l.set(k, clampNonNegative(int(n)))
	}
	return nil
}
