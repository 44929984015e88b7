package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	leaguev1 "github.com/ozzus/championship/protos/league/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type leagueClientMock struct {
	mu sync.Mutex

	standings    *leaguev1.GetStandingsResponse
	standingsErr error
	form         *leaguev1.GetFormResponse
	formErr      error
	matches      *leaguev1.ListMatchesResponse
	imported     *leaguev1.ImportMatchesResponse
	importErr    error
	leagues      *leaguev1.ListLeaguesResponse
	leagueErr    error

	gotLeague string
	gotName   string
	gotSeason string
	gotLast   int
	gotCSV    string
	calls     int
}

func (m *leagueClientMock) track(leagueID, season string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gotLeague = leagueID
	m.gotSeason = season
}

func (m *leagueClientMock) ImportMatches(_ context.Context, leagueID, season, csv string) (*leaguev1.ImportMatchesResponse, error) {
	m.track(leagueID, season)
	m.gotCSV = csv
	return m.imported, m.importErr
}

func (m *leagueClientMock) ListMatches(_ context.Context, leagueID, season string) (*leaguev1.ListMatchesResponse, error) {
	m.track(leagueID, season)
	return m.matches, nil
}

func (m *leagueClientMock) GetStandings(_ context.Context, leagueID, season string) (*leaguev1.GetStandingsResponse, error) {
	m.track(leagueID, season)
	return m.standings, m.standingsErr
}

func (m *leagueClientMock) GetForm(_ context.Context, leagueID, season string, last int) (*leaguev1.GetFormResponse, error) {
	m.track(leagueID, season)
	m.mu.Lock()
	m.gotLast = last
	m.mu.Unlock()
	return m.form, m.formErr
}

func (m *leagueClientMock) ListLeagues(_ context.Context) (*leaguev1.ListLeaguesResponse, error) {
	m.track("", "")
	return m.leagues, m.leagueErr
}

func (m *leagueClientMock) UpdateLeague(_ context.Context, leagueID, name string) (*leaguev1.UpdateLeagueResponse, error) {
	m.track(leagueID, "")
	m.gotName = name
	if m.leagueErr != nil {
		return nil, m.leagueErr
	}
	return &leaguev1.UpdateLeagueResponse{League: leaguev1.League{LeagueID: leagueID, Name: strings.TrimSpace(name)}}, nil
}

func newTestRouter(client LeagueClient, maxUpload int64) *mux.Router {
	r := mux.NewRouter()
	NewLeagueHandler(zap.NewNop(), client, maxUpload).Register(r)
	return r
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestGetStandings(t *testing.T) {
	client := &leagueClientMock{standings: &leaguev1.GetStandingsResponse{Rows: []leaguev1.StandingsRow{
		{Position: 1, Team: "Arsenal", Played: 1, Won: 1, Points: 3, GoalsFor: 2, GoalDifference: 2},
	}}}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodGet, "/v1/leagues/epl/seasons/2023-2024/standings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if client.gotLeague != "epl" || client.gotSeason != "2023-2024" {
		t.Fatalf("unexpected path vars %q %q", client.gotLeague, client.gotSeason)
	}

	body := decode[standingsResponse](t, rec)
	if body.LeagueID != "epl" || len(body.Standings) != 1 || body.Standings[0].Team != "Arsenal" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestGetStandings_EmptyIsArray(t *testing.T) {
	client := &leagueClientMock{standings: &leaguev1.GetStandingsResponse{}}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodGet, "/v1/leagues/epl/seasons/2024/standings", nil))

	if !strings.Contains(rec.Body.String(), `"standings":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestGetForm_LastValidation(t *testing.T) {
	client := &leagueClientMock{form: &leaguev1.GetFormResponse{}}
	router := newTestRouter(client, 0)

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/leagues/epl/seasons/2024/form?last=-2", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if client.calls != 0 {
		t.Fatalf("client must not be called, got %d calls", client.calls)
	}

	rec = serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/leagues/epl/seasons/2024/form?last=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if client.gotLast != 5 {
		t.Fatalf("expected last=5, got %d", client.gotLast)
	}
}

func TestGetOverview(t *testing.T) {
	client := &leagueClientMock{
		standings: &leaguev1.GetStandingsResponse{Rows: []leaguev1.StandingsRow{{Position: 1, Team: "A"}}},
		form:      &leaguev1.GetFormResponse{Teams: []leaguev1.TeamForm{{Team: "A", Results: []string{"W"}}}},
	}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodGet, "/v1/leagues/epl/seasons/2024/overview?last=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[overviewResponse](t, rec)
	if body.Last != 3 || len(body.Standings) != 1 || len(body.Form) != 1 || body.Form[0].Results[0] != "W" {
		t.Fatalf("unexpected overview %+v", body)
	}
	if client.calls != 2 {
		t.Fatalf("expected two upstream calls, got %d", client.calls)
	}
}

func TestGetOverview_UpstreamFailure(t *testing.T) {
	client := &leagueClientMock{
		standings: &leaguev1.GetStandingsResponse{},
		formErr:   status.Error(codes.Unavailable, "match storage unavailable"),
	}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodGet, "/v1/leagues/epl/seasons/2024/overview", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["error"] != "match storage unavailable" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestUploadMatches_RawCSV(t *testing.T) {
	client := &leagueClientMock{imported: &leaguev1.ImportMatchesResponse{
		Imported: 2,
		Rejected: []leaguev1.Rejection{{Line: 4, Reason: "invalid date"}},
	}}
	csv := "date,home_team,away_team,ht_home_score,ht_away_score,home_score,away_score\n"

	req := httptest.NewRequest(http.MethodPost, "/v1/leagues/epl/seasons/2024/matches", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv; charset=utf-8")
	rec := serve(t, newTestRouter(client, 1024), req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if client.gotCSV != csv {
		t.Fatalf("csv not forwarded: %q", client.gotCSV)
	}
	body := decode[importResponse](t, rec)
	if body.Imported != 2 || len(body.Rejected) != 1 || body.Rejected[0].Line != 4 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestUploadMatches_Multipart(t *testing.T) {
	client := &leagueClientMock{imported: &leaguev1.ImportMatchesResponse{Imported: 1}}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "matches.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("date,home_team\n"))
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/leagues/epl/seasons/2024/matches", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(t, newTestRouter(client, 1<<20), req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if client.gotCSV != "date,home_team\n" {
		t.Fatalf("unexpected csv %q", client.gotCSV)
	}
}

func TestUploadMatches_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		maxBytes    int64
		importErr   error
		wantStatus  int
	}{
		{name: "empty", contentType: "text/csv", body: "  \n", wantStatus: http.StatusBadRequest},
		{name: "too large", contentType: "text/csv", body: strings.Repeat("x", 64), maxBytes: 16, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "unsupported type", contentType: "application/json", body: "{}", wantStatus: http.StatusUnsupportedMediaType},
		{name: "multipart without file", contentType: "multipart/form-data; boundary=xyz", body: "--xyz--\r\n", wantStatus: http.StatusBadRequest},
		{name: "no valid matches", contentType: "text/csv", body: "date\n", importErr: status.Error(codes.FailedPrecondition, "no valid matches found in the csv file"), wantStatus: http.StatusUnprocessableEntity},
		{name: "bad header", contentType: "text/csv", body: "foo\n", importErr: status.Error(codes.InvalidArgument, "csv header is missing a required column"), wantStatus: http.StatusBadRequest},
		{name: "upstream down", contentType: "text/csv", body: "date\n", importErr: errors.New("dial failed"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &leagueClientMock{imported: &leaguev1.ImportMatchesResponse{}, importErr: tt.importErr}

			req := httptest.NewRequest(http.MethodPost, "/v1/leagues/epl/seasons/2024/matches", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := serve(t, newTestRouter(client, tt.maxBytes), req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: status.Error(codes.InvalidArgument, ""), want: http.StatusBadRequest},
		{err: status.Error(codes.FailedPrecondition, ""), want: http.StatusUnprocessableEntity},
		{err: status.Error(codes.NotFound, ""), want: http.StatusNotFound},
		{err: status.Error(codes.Unavailable, ""), want: http.StatusServiceUnavailable},
		{err: status.Error(codes.DeadlineExceeded, ""), want: http.StatusGatewayTimeout},
		{err: status.Error(codes.Internal, ""), want: http.StatusBadGateway},
		{err: errors.New("plain"), want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		if got := mapHTTPStatus(tt.err); got != tt.want {
			t.Fatalf("mapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
