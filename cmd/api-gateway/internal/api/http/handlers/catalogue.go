package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	leaguev1 "github.com/ozzus/championship/protos/league/v1"
	"go.uber.org/zap"
)

const maxLeagueBodyBytes = 4 << 10

type leaguesResponse struct {
	Leagues []leaguev1.League `json:"leagues"`
}

type updateLeagueRequest struct {
	Name string `json:"name"`
}

func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.ListLeagues(r.Context())
	if err != nil {
		h.upstreamError(w, "list leagues failed", leagueRef{}, err)
		return
	}

	leagues := nonNil(resp.Leagues)
	for i := range leagues {
		leagues[i].Seasons = nonNil(leagues[i].Seasons)
	}
	writeJSON(w, http.StatusOK, leaguesResponse{Leagues: leagues})
}

// UpdateLeague renames the league in the path from a {"name": ...} body.
func (h *LeagueHandler) UpdateLeague(w http.ResponseWriter, r *http.Request) {
	ref := refFromPath(r)
	if ref.LeagueID == "" {
		writeError(w, http.StatusBadRequest, "league is required")
		return
	}

	var req updateLeagueRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeagueBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLargeMessage(maxLeagueBodyBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	resp, err := h.client.UpdateLeague(r.Context(), ref.LeagueID, req.Name)
	if err != nil {
		h.upstreamError(w, "update league failed", ref, err)
		return
	}

	h.log.Info("league updated", zap.String("league_id", resp.League.LeagueID), zap.String("name", resp.League.Name))

	league := resp.League
	league.Seasons = nonNil(league.Seasons)
	writeJSON(w, http.StatusOK, league)
}
