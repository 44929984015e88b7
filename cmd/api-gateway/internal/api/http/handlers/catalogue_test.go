package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	leaguev1 "github.com/ozzus/championship/protos/league/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestListLeagues(t *testing.T) {
	client := &leagueClientMock{leagues: &leaguev1.ListLeaguesResponse{Leagues: []leaguev1.League{
		{LeagueID: "epl", Name: "Premier League", Seasons: []string{"2023-2024"}},
		{LeagueID: "la-liga", Name: "LaLiga"},
	}}}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[leaguesResponse](t, rec)
	if len(body.Leagues) != 2 || body.Leagues[0].Name != "Premier League" {
		t.Fatalf("unexpected body %+v", body)
	}
	if !strings.Contains(rec.Body.String(), `"seasons":[]`) {
		t.Fatalf("expected empty seasons array, got %s", rec.Body.String())
	}
}

func TestListLeagues_EmptyIsArray(t *testing.T) {
	client := &leagueClientMock{leagues: &leaguev1.ListLeaguesResponse{}}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if !strings.Contains(rec.Body.String(), `"leagues":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestListLeagues_UpstreamUnavailable(t *testing.T) {
	client := &leagueClientMock{leagueErr: status.Error(codes.Unavailable, "match storage unavailable")}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestUpdateLeague(t *testing.T) {
	client := &leagueClientMock{}
	req := httptest.NewRequest(http.MethodPut, "/v1/leagues/epl", strings.NewReader(`{"name":"Premier League"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(t, newTestRouter(client, 0), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if client.gotLeague != "epl" || client.gotName != "Premier League" {
		t.Fatalf("unexpected forwarded update %q %q", client.gotLeague, client.gotName)
	}
	body := decode[leaguev1.League](t, rec)
	if body.LeagueID != "epl" || body.Name != "Premier League" || body.Seasons == nil {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestUpdateLeague_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "invalid_json", body: `{"name":`, code: http.StatusBadRequest},
		{name: "blank_name", body: `{"name":"  "}`, code: http.StatusBadRequest},
		{name: "too_large", body: `{"name":"` + strings.Repeat("x", maxLeagueBodyBytes) + `"}`, code: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &leagueClientMock{}
			rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodPut, "/v1/leagues/epl", strings.NewReader(tt.body)))

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			if client.calls != 0 {
				t.Fatalf("client must not be called, got %d calls", client.calls)
			}
		})
	}
}

func TestUpdateLeague_UpstreamInvalidArgument(t *testing.T) {
	client := &leagueClientMock{leagueErr: status.Error(codes.InvalidArgument, "league_id and a name of at most 120 characters are required")}

	rec := serve(t, newTestRouter(client, 0), httptest.NewRequest(http.MethodPut, "/v1/leagues/epl", strings.NewReader(`{"name":"x"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "120 characters") {
		t.Fatalf("expected upstream message, got %s", rec.Body.String())
	}
}
