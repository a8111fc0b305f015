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
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

type handlers struct {
	app *App
	hub *FeedHub
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondAppError maps core errors onto HTTP statuses. Precondition
// violations are transient notices, not server failures.
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGameNotFound),
		errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrUnknownTeam):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNothingToUndo),
		errors.Is(err, ErrUnknownSide):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"spectators": h.hub.ConnectionCount(),
	})
}

func (h *handlers) getStore(w http.ResponseWriter, r *http.Request) {
	data, err := h.app.StoreJSON()
	if err != nil {
		respondAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *handlers) getStatButtons(w http.ResponseWriter, r *http.Request) {
	buttons := make([]StatButton, 0, 2*len(StatButtons))
	for _, b := range StatButtons {
		buttons = append(buttons, b, b.Negated())
	}
	respondJSON(w, http.StatusOK, buttons)
}

func (h *handlers) getRoster(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["teamKey"]
	if err := ValidateTeamKey(team); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	opponent := r.URL.Query().Get("side") == SideOpp
	roster, err := h.app.Roster(team, opponent)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

func (h *handlers) updateRosterPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	team := vars["teamKey"]
	if err := ValidateTeamKey(team); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var u PlayerUpdate
	if !decodeBody(w, r, &u) {
		return
	}
	opponent := r.URL.Query().Get("side") == SideOpp
	var err error
	if opponent {
		err = h.app.UpdateOppTemplatePlayer(team, vars["playerID"], u)
	} else {
		err = h.app.UpdateRosterPlayer(team, vars["playerID"], u)
	}
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) importRoster(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["teamKey"]
	if err := ValidateTeamKey(team); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Text string `json:"text"`
		Side string `json:"side,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ValidateImportText(req.Text); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	roster, err := h.app.ImportRoster(team, req.Side == SideOpp, req.Text)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

func (h *handlers) listGames(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.app.ListGames())
}

func (h *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Team string `json:"team"`
		GameMeta
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ValidateTeamKey(req.Team); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ValidateGameMeta(req.GameMeta); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.app.CreateGame(req.Team, req.GameMeta)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, g)
}

func (h *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.app.Game(mux.Vars(r)["gameID"])
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) updateGameMeta(w http.ResponseWriter, r *http.Request) {
	var meta GameMeta
	if !decodeBody(w, r, &meta) {
		return
	}
	if err := ValidateGameMeta(meta); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.app.UpdateGameMeta(mux.Vars(r)["gameID"], meta)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) applyEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Side     string    `json:"side"`
		PlayerID string    `json:"playerId"`
		Label    string    `json:"label"`
		Delta    StatDelta `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ValidateSide(req.Side); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PlayerID == "" {
		respondError(w, http.StatusBadRequest, "no player selected")
		return
	}
	if err := ValidateDelta(req.Delta); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ValidateLabel(req.Label); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.app.ApplyEvent(mux.Vars(r)["gameID"], req.Side, req.PlayerID, req.Delta, req.Label)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) undoLast(w http.ResponseWriter, r *http.Request) {
	g, err := h.app.UndoLast(mux.Vars(r)["gameID"])
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) setPeriod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Period string `json:"period"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Period) > maxLabelLength {
		respondError(w, http.StatusBadRequest, "period label too long")
		return
	}
	g, err := h.app.SetPeriod(mux.Vars(r)["gameID"], req.Period)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) advancePeriod(w http.ResponseWriter, r *http.Request) {
	g, err := h.app.AdvancePeriod(mux.Vars(r)["gameID"])
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) clearGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.app.ClearGame(mux.Vars(r)["gameID"])
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) clearPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	side := r.URL.Query().Get("side")
	if err := ValidateSide(side); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.app.ClearPlayer(vars["gameID"], side, vars["playerID"])
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) updateGameOpponent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var u PlayerUpdate
	if !decodeBody(w, r, &u) {
		return
	}
	g, err := h.app.UpdateGameOpponentPlayer(vars["gameID"], vars["playerID"], u)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *handlers) exportGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.app.Game(mux.Vars(r)["gameID"])
	if err != nil {
		respondAppError(w, err)
		return
	}
	roster, err := h.app.Roster(g.Team, false)
	if err != nil {
		respondAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=game-"+g.DateISO+".tsv")
	io.WriteString(w, ExportGame(g, roster))
}

func (h *handlers) getSeason(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["teamKey"]
	if err := ValidateTeamKey(team); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	season, err := h.app.Season(team)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, season)
}

func (h *handlers) exportSeason(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["teamKey"]
	if err := ValidateTeamKey(team); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	season, err := h.app.Season(team)
	if err != nil {
		respondAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=season-"+team+".tsv")
	io.WriteString(w, ExportSeason(season))
}

func (h *handlers) serveLiveFeed(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]
	if _, err := h.app.Game(gameID); err != nil {
		respondAppError(w, err)
		return
	}
	h.hub.ServeWs(w, r, gameID)
}
