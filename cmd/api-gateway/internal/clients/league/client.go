package league

import (
	"context"
	"strings"
	"time"

	leaguev1 "github.com/ozzus/championship/protos/league/v1"
)

type Client struct {
	client        leaguev1.LeagueStatsServiceClient
	timeout       time.Duration
	uploadTimeout time.Duration
}

// NewClient wraps the generated client with per-call deadlines. Uploads get
// their own, usually longer, deadline.
func NewClient(client leaguev1.LeagueStatsServiceClient, timeout, uploadTimeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if uploadTimeout <= 0 {
		uploadTimeout = timeout
	}

	return &Client{
		client:        client,
		timeout:       timeout,
		uploadTimeout: uploadTimeout,
	}
}

func (c *Client) ImportMatches(ctx context.Context, leagueID, season, csv string) (*leaguev1.ImportMatchesResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	return c.client.ImportMatches(reqCtx, &leaguev1.ImportMatchesRequest{
		League: ref(leagueID, season),
		CSV:    csv,
	})
}

func (c *Client) ListMatches(ctx context.Context, leagueID, season string) (*leaguev1.ListMatchesResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.ListMatches(reqCtx, &leaguev1.ListMatchesRequest{League: ref(leagueID, season)})
}

func (c *Client) GetStandings(ctx context.Context, leagueID, season string) (*leaguev1.GetStandingsResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.GetStandings(reqCtx, &leaguev1.GetStandingsRequest{League: ref(leagueID, season)})
}

func (c *Client) GetForm(ctx context.Context, leagueID, season string, last int) (*leaguev1.GetFormResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.GetForm(reqCtx, &leaguev1.GetFormRequest{
		League: ref(leagueID, season),
		Last:   last,
	})
}

func (c *Client) ListLeagues(ctx context.Context) (*leaguev1.ListLeaguesResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.ListLeagues(reqCtx, &leaguev1.ListLeaguesRequest{})
}

func (c *Client) UpdateLeague(ctx context.Context, leagueID, name string) (*leaguev1.UpdateLeagueResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.UpdateLeague(reqCtx, &leaguev1.UpdateLeagueRequest{
		LeagueID: strings.TrimSpace(leagueID),
		Name:     strings.TrimSpace(name),
	})
}

func ref(leagueID, season string) leaguev1.LeagueRef {
	return leaguev1.LeagueRef{
		LeagueID: strings.TrimSpace(leagueID),
		Season:   strings.TrimSpace(season),
	}
}
