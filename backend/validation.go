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

	"github.com/google/uuid"
)

const (
	// maxDeltaMagnitude bounds a single stat adjustment. Real events
	// move a stat by at most 3 (a made three); corrections stay in the
	// same range.
	maxDeltaMagnitude = 10

	maxLabelLength = 40
	maxTextField   = 200
	maxImportSize  = 64 * 1024
)

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ValidateSide checks a side discriminator from an API payload.
func ValidateSide(side string) error {
	if side != SideHome && side != SideOpp {
		return fmt.Errorf("invalid side: %q", side)
	}
	return nil
}

// ValidateTeamKey checks a team key from an API payload.
func ValidateTeamKey(team string) error {
	for _, t := range TeamKeys {
		if t == team {
			return nil
		}
	}
	return fmt.Errorf("invalid team key: %q", team)
}

// ValidateDelta checks that a delta only touches known stat keys with
// sane magnitudes. Negative values are legal (correction buttons).
func ValidateDelta(delta StatDelta) error {
	if len(delta) == 0 {
		return fmt.Errorf("empty delta")
	}
	for k, v := range delta {
		known := false
		for _, sk := range StatKeys {
			if sk == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown stat key: %q", k)
		}
		if v > maxDeltaMagnitude || v < -maxDeltaMagnitude {
			return fmt.Errorf("delta out of range for %s: %d", k, v)
		}
	}
	return nil
}

// ValidateLabel checks a history label from an API payload.
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("missing label")
	}
	if len(label) > maxLabelLength {
		return fmt.Errorf("label too long")
	}
	return nil
}

// ValidateGameMeta bounds the free-form metadata fields.
func ValidateGameMeta(meta GameMeta) error {
	for name, v := range map[string]string{
		"dateISO":  meta.DateISO,
		"opponent": meta.Opponent,
		"location": meta.Location,
	} {
		if len(v) > maxTextField {
			return fmt.Errorf("%s too long", name)
		}
	}
	if len(meta.Notes) > 4*maxTextField {
		return fmt.Errorf("notes too long")
	}
	return nil
}

// ValidateImportText bounds pasted roster text.
func ValidateImportText(text string) error {
	if len(text) > maxImportSize {
		return fmt.Errorf("import text too large")
	}
	return nil
}
