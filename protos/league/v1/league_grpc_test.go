package leaguev1

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type standingsServer struct {
	UnimplementedLeagueStatsServiceServer
	lastRef LeagueRef
}

func (s *standingsServer) GetStandings(_ context.Context, req *GetStandingsRequest) (*GetStandingsResponse, error) {
	s.lastRef = req.League
	return &GetStandingsResponse{Rows: []StandingsRow{
		{Position: 1, Team: "Team A", Played: 2, Won: 1, Drawn: 1, GoalsFor: 5, GoalsAgainst: 3, GoalDifference: 2, Points: 4},
		{Position: 2, Team: "Team B", Played: 2, Drawn: 1, Lost: 1, GoalsFor: 3, GoalsAgainst: 5, GoalDifference: -2, Points: 1},
	}}, nil
}

func (s *standingsServer) GetForm(_ context.Context, req *GetFormRequest) (*GetFormResponse, error) {
	if req.Last < 0 {
		return nil, status.Error(codes.InvalidArgument, "last must not be negative")
	}
	return &GetFormResponse{Teams: []TeamForm{{Team: "Team A", Results: []string{"W", "D"}}}}, nil
}

type catalogueServer struct {
	UnimplementedLeagueStatsServiceServer
	updated UpdateLeagueRequest
}

func (s *catalogueServer) ListLeagues(context.Context, *ListLeaguesRequest) (*ListLeaguesResponse, error) {
	return &ListLeaguesResponse{Leagues: []League{
		{LeagueID: "premier-league", Name: "Premier League", Seasons: []string{"2022-2023", "2023-2024"}},
	}}, nil
}

func (s *catalogueServer) UpdateLeague(_ context.Context, req *UpdateLeagueRequest) (*UpdateLeagueResponse, error) {
	s.updated = *req
	return &UpdateLeagueResponse{League: League{LeagueID: req.LeagueID, Name: req.Name, Seasons: []string{}}}, nil
}

func dialBufconn(t *testing.T, srv LeagueStatsServiceServer) LeagueStatsServiceClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	RegisterLeagueStatsServiceServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return NewLeagueStatsServiceClient(conn)
}

func TestGetStandings_RoundTrip(t *testing.T) {
	srv := &standingsServer{}
	client := dialBufconn(t, srv)

	resp, err := client.GetStandings(context.Background(), &GetStandingsRequest{
		League: LeagueRef{LeagueID: "premier-league", Season: "2023-2024"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if srv.lastRef.LeagueID != "premier-league" || srv.lastRef.Season != "2023-2024" {
		t.Fatalf("unexpected league ref on server: %+v", srv.lastRef)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Rows))
	}
	if resp.Rows[1].GoalDifference != -2 || resp.Rows[1].Points != 1 {
		t.Fatalf("unexpected second row: %+v", resp.Rows[1])
	}
}

func TestGetForm_StatusPassesThrough(t *testing.T) {
	client := dialBufconn(t, &standingsServer{})

	_, err := client.GetForm(context.Background(), &GetFormRequest{Last: -1})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	resp, err := client.GetForm(context.Background(), &GetFormRequest{Last: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.Teams) != 1 || len(resp.Teams[0].Results) != 2 {
		t.Fatalf("unexpected form response: %+v", resp)
	}
}

func TestUnimplementedMethod(t *testing.T) {
	client := dialBufconn(t, &standingsServer{})

	_, err := client.ListMatches(context.Background(), &ListMatchesRequest{})
	if status.Code(err) != codes.Unimplemented {
		t.Fatalf("expected Unimplemented, got %v", err)
	}
}

func TestLeagueCatalogue_RoundTrip(t *testing.T) {
	srv := &catalogueServer{}
	client := dialBufconn(t, srv)

	list, err := client.ListLeagues(context.Background(), &ListLeaguesRequest{})
	if err != nil {
		t.Fatalf("ListLeagues: %v", err)
	}
	if len(list.Leagues) != 1 || len(list.Leagues[0].Seasons) != 2 || list.Leagues[0].Name != "Premier League" {
		t.Fatalf("unexpected leagues: %+v", list.Leagues)
	}

	resp, err := client.UpdateLeague(context.Background(), &UpdateLeagueRequest{LeagueID: "la-liga", Name: "LaLiga"})
	if err != nil {
		t.Fatalf("UpdateLeague: %v", err)
	}
	if srv.updated.LeagueID != "la-liga" || srv.updated.Name != "LaLiga" {
		t.Fatalf("unexpected request on server: %+v", srv.updated)
	}
	if resp.League.Name != "LaLiga" {
		t.Fatalf("unexpected league: %+v", resp.League)
	}
}

func TestStructRoundTrip(t *testing.T) {
	in := ImportMatchesResponse{Imported: 12, Rejected: []Rejection{{Line: 4, Reason: "home_score: not a number"}}}

	s, err := ToStruct(in)
	if err != nil {
		t.Fatalf("ToStruct: %v", err)
	}

	var out ImportMatchesResponse
	if err := FromStruct(s, &out); err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	if out.Imported != 12 || len(out.Rejected) != 1 || out.Rejected[0].Line != 4 {
		t.Fatalf("unexpected round trip result: %+v", out)
	}
}
