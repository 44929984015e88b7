package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	leaguev1 "github.com/ozzus/championship/protos/league/v1"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LeagueClient is the part of the league-stats client the handlers use.
type LeagueClient interface {
	ImportMatches(ctx context.Context, leagueID, season, csv string) (*leaguev1.ImportMatchesResponse, error)
	ListMatches(ctx context.Context, leagueID, season string) (*leaguev1.ListMatchesResponse, error)
	GetStandings(ctx context.Context, leagueID, season string) (*leaguev1.GetStandingsResponse, error)
	GetForm(ctx context.Context, leagueID, season string, last int) (*leaguev1.GetFormResponse, error)
	ListLeagues(ctx context.Context) (*leaguev1.ListLeaguesResponse, error)
	UpdateLeague(ctx context.Context, leagueID, name string) (*leaguev1.UpdateLeagueResponse, error)
}

type LeagueHandler struct {
	log            *zap.Logger
	client         LeagueClient
	maxUploadBytes int64
}

type leagueRef struct {
	LeagueID string `json:"league_id"`
	Season   string `json:"season"`
}

type matchesResponse struct {
	leagueRef
	Matches []leaguev1.Match `json:"matches"`
}

type standingsResponse struct {
	leagueRef
	Standings []leaguev1.StandingsRow `json:"standings"`
}

type formResponse struct {
	leagueRef
	Last int                 `json:"last,omitempty"`
	Form []leaguev1.TeamForm `json:"form"`
}

type overviewResponse struct {
	leagueRef
	Last      int                     `json:"last,omitempty"`
	Standings []leaguev1.StandingsRow `json:"standings"`
	Form      []leaguev1.TeamForm     `json:"form"`
}

type importResponse struct {
	leagueRef
	Imported int                  `json:"imported"`
	Rejected []leaguev1.Rejection `json:"rejected"`
}

func NewLeagueHandler(log *zap.Logger, client LeagueClient, maxUploadBytes int64) *LeagueHandler {
	return &LeagueHandler{log: log, client: client, maxUploadBytes: maxUploadBytes}
}

// Register mounts the league routes on r.
func (h *LeagueHandler) Register(r *mux.Router) {
	r.HandleFunc("/v1/leagues", h.ListLeagues).Methods(http.MethodGet)
	r.HandleFunc("/v1/leagues/{league}", h.UpdateLeague).Methods(http.MethodPut)

	s := r.PathPrefix("/v1/leagues/{league}/seasons/{season}").Subrouter()
	s.HandleFunc("/matches", h.ListMatches).Methods(http.MethodGet)
	s.HandleFunc("/matches", h.UploadMatches).Methods(http.MethodPost)
	s.HandleFunc("/standings", h.GetStandings).Methods(http.MethodGet)
	s.HandleFunc("/form", h.GetForm).Methods(http.MethodGet)
	s.HandleFunc("/overview", h.GetOverview).Methods(http.MethodGet)
}

func (h *LeagueHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ref := refFromPath(r)

	resp, err := h.client.ListMatches(r.Context(), ref.LeagueID, ref.Season)
	if err != nil {
		h.upstreamError(w, "list matches failed", ref, err)
		return
	}

	writeJSON(w, http.StatusOK, matchesResponse{
		leagueRef: ref,
		Matches:   nonNil(resp.Matches),
	})
}

func (h *LeagueHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ref := refFromPath(r)

	resp, err := h.client.GetStandings(r.Context(), ref.LeagueID, ref.Season)
	if err != nil {
		h.upstreamError(w, "get standings failed", ref, err)
		return
	}

	writeJSON(w, http.StatusOK, standingsResponse{
		leagueRef: ref,
		Standings: nonNil(resp.Rows),
	})
}

func (h *LeagueHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	ref := refFromPath(r)

	last, errMsg := parseLast(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	resp, err := h.client.GetForm(r.Context(), ref.LeagueID, ref.Season, last)
	if err != nil {
		h.upstreamError(w, "get form failed", ref, err)
		return
	}

	writeJSON(w, http.StatusOK, formResponse{
		leagueRef: ref,
		Last:      last,
		Form:      nonNil(resp.Teams),
	})
}

// GetOverview serves the league details page: standings and form fetched
// concurrently. Either call failing fails the whole response.
func (h *LeagueHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ref := refFromPath(r)

	last, errMsg := parseLast(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	var (
		standings *leaguev1.GetStandingsResponse
		form      *leaguev1.GetFormResponse
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		resp, err := h.client.GetStandings(ctx, ref.LeagueID, ref.Season)
		if err != nil {
			return err
		}
		standings = resp
		return nil
	})
	g.Go(func() error {
		resp, err := h.client.GetForm(ctx, ref.LeagueID, ref.Season, last)
		if err != nil {
			return err
		}
		form = resp
		return nil
	})

	if err := g.Wait(); err != nil {
		h.upstreamError(w, "get overview failed", ref, err)
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		leagueRef: ref,
		Last:      last,
		Standings: nonNil(standings.Rows),
		Form:      nonNil(form.Teams),
	})
}

// UploadMatches accepts either a multipart form with a "file" field or a raw
// CSV body and replaces the season's matches with it.
func (h *LeagueHandler) UploadMatches(w http.ResponseWriter, r *http.Request) {
	ref := refFromPath(r)

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	body, status, errMsg := readUpload(r, h.maxUploadBytes)
	if errMsg != "" {
		writeError(w, status, errMsg)
		return
	}

	resp, err := h.client.ImportMatches(r.Context(), ref.LeagueID, ref.Season, body)
	if err != nil {
		h.upstreamError(w, "import matches failed", ref, err)
		return
	}

	h.log.Info("matches uploaded",
		zap.String("league_id", ref.LeagueID),
		zap.String("season", ref.Season),
		zap.Int("imported", resp.Imported),
		zap.Int("rejected", len(resp.Rejected)),
	)

	writeJSON(w, http.StatusCreated, importResponse{
		leagueRef: ref,
		Imported:  resp.Imported,
		Rejected:  nonNil(resp.Rejected),
	})
}

func readUpload(r *http.Request, maxBytes int64) (string, int, string) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	var src io.Reader
	switch mediaType {
	case "multipart/form-data":
		file, _, err := r.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				return "", http.StatusRequestEntityTooLarge, tooLargeMessage(maxBytes)
			}
			return "", http.StatusBadRequest, `multipart field "file" is required`
		}
		defer file.Close()
		src = file
	case "text/csv", "text/plain", "application/csv", "application/octet-stream", "":
		src = r.Body
	default:
		return "", http.StatusUnsupportedMediaType, "expected multipart/form-data or text/csv body"
	}

	data, err := io.ReadAll(src)
	if err != nil {
		if isTooLarge(err) {
			return "", http.StatusRequestEntityTooLarge, tooLargeMessage(maxBytes)
		}
		return "", http.StatusBadRequest, "failed to read upload"
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", http.StatusBadRequest, "csv file is empty"
	}

	return string(data), http.StatusOK, ""
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func tooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("upload exceeds %d bytes", maxBytes)
}

func (h *LeagueHandler) upstreamError(w http.ResponseWriter, msg string, ref leagueRef, err error) {
	code := mapHTTPStatus(err)
	fields := []zap.Field{
		zap.String("league_id", ref.LeagueID),
		zap.String("season", ref.Season),
		zap.Int("status", code),
		zap.Error(err),
	}
	if code >= http.StatusInternalServerError {
		h.log.Error(msg, fields...)
	} else {
		h.log.Warn(msg, fields...)
	}

	writeError(w, code, mapGRPCError(err))
}

func refFromPath(r *http.Request) leagueRef {
	vars := mux.Vars(r)
	return leagueRef{
		LeagueID: strings.TrimSpace(vars["league"]),
		Season:   strings.TrimSpace(vars["season"]),
	}
}

func parseLast(r *http.Request) (int, string) {
	value, present, errMsg := parsePositiveIntQuery(r, "last")
	if !present {
		return 0, ""
	}
	if errMsg != "" {
		return 0, "last must be a positive integer"
	}
	return value, ""
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
