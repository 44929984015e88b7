package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	derr "github.com/ozzus/championship/cmd/league-stats/internal/domain/errors"
	"github.com/ozzus/championship/cmd/league-stats/internal/domain/models"
	"github.com/ozzus/championship/internal/csvimport"
	"github.com/ozzus/championship/internal/league"
	leaguev1 "github.com/ozzus/championship/protos/league/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxReportedRejections caps how many rejected lines are echoed back in a
// FailedPrecondition message.
const maxReportedRejections = 5

type LeagueService interface {
	ImportMatches(ctx context.Context, key models.LeagueKey, csv io.Reader) (models.ImportResult, error)
	ListMatches(ctx context.Context, key models.LeagueKey) ([]league.Match, error)
	GetStandings(ctx context.Context, key models.LeagueKey) ([]league.StandingsRow, error)
	GetForm(ctx context.Context, key models.LeagueKey, last int) ([]league.FormEntry, error)
	ListLeagues(ctx context.Context) ([]models.League, error)
	UpdateLeague(ctx context.Context, id, name string) (models.League, error)
}

type serverAPI struct {
	leaguev1.UnimplementedLeagueStatsServiceServer
	log     *zap.Logger
	service LeagueService
}

func Register(gRPCServer *grpc.Server, log *zap.Logger, leagueService LeagueService) {
	leaguev1.RegisterLeagueStatsServiceServer(gRPCServer, &serverAPI{log: log, service: leagueService})
}

func (s *serverAPI) ImportMatches(ctx context.Context, req *leaguev1.ImportMatchesRequest) (*leaguev1.ImportMatchesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	key, err := leagueKey(req.League)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CSV) == "" {
		return nil, status.Error(codes.InvalidArgument, "csv is required")
	}

	res, err := s.service.ImportMatches(ctx, key, strings.NewReader(req.CSV))
	if err != nil {
		if errors.Is(err, derr.ErrNoValidMatches) {
			s.log.Warn("ImportMatches rejected upload", zap.Stringer("league", key), zap.Int("rejected", len(res.Rejected)))
			return nil, status.Error(codes.FailedPrecondition, noValidMatchesMessage(res.Rejected))
		}
		s.log.Error("ImportMatches failed", zap.Stringer("league", key), zap.Error(err))
		return nil, mapError(err)
	}

	return &leaguev1.ImportMatchesResponse{
		Imported: res.Imported,
		Rejected: toProtoRejections(res.Rejected),
	}, nil
}

func (s *serverAPI) ListMatches(ctx context.Context, req *leaguev1.ListMatchesRequest) (*leaguev1.ListMatchesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	key, err := leagueKey(req.League)
	if err != nil {
		return nil, err
	}

	matches, err := s.service.ListMatches(ctx, key)
	if err != nil {
		s.log.Error("ListMatches failed", zap.Stringer("league", key), zap.Error(err))
		return nil, mapError(err)
	}

	resp := &leaguev1.ListMatchesResponse{Matches: make([]leaguev1.Match, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, toProtoMatch(m))
	}
	return resp, nil
}

func (s *serverAPI) GetStandings(ctx context.Context, req *leaguev1.GetStandingsRequest) (*leaguev1.GetStandingsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	key, err := leagueKey(req.League)
	if err != nil {
		return nil, err
	}

	rows, err := s.service.GetStandings(ctx, key)
	if err != nil {
		s.log.Error("GetStandings failed", zap.Stringer("league", key), zap.Error(err))
		return nil, mapError(err)
	}

	resp := &leaguev1.GetStandingsResponse{Rows: make([]leaguev1.StandingsRow, 0, len(rows))}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, leaguev1.StandingsRow{
			Position:       r.Position,
			Team:           r.Team,
			Played:         r.Played,
			Won:            r.Won,
			Drawn:          r.Drawn,
			Lost:           r.Lost,
			GoalsFor:       r.GoalsFor,
			GoalsAgainst:   r.GoalsAgainst,
			GoalDifference: r.GoalDifference,
			Points:         r.Points,
		})
	}
	return resp, nil
}

func (s *serverAPI) GetForm(ctx context.Context, req *leaguev1.GetFormRequest) (*leaguev1.GetFormResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	key, err := leagueKey(req.League)
	if err != nil {
		return nil, err
	}
	if req.Last < 0 {
		return nil, status.Error(codes.InvalidArgument, "last must not be negative")
	}

	entries, err := s.service.GetForm(ctx, key, req.Last)
	if err != nil {
		s.log.Error("GetForm failed", zap.Stringer("league", key), zap.Int("last", req.Last), zap.Error(err))
		return nil, mapError(err)
	}

	resp := &leaguev1.GetFormResponse{Teams: make([]leaguev1.TeamForm, 0, len(entries))}
	for _, e := range entries {
		results := make([]string, len(e.Results))
		for i, r := range e.Results {
			results[i] = string(r)
		}
		resp.Teams = append(resp.Teams, leaguev1.TeamForm{Team: e.Team, Results: results})
	}
	return resp, nil
}

func (s *serverAPI) ListLeagues(ctx context.Context, _ *leaguev1.ListLeaguesRequest) (*leaguev1.ListLeaguesResponse, error) {
	leagues, err := s.service.ListLeagues(ctx)
	if err != nil {
		s.log.Error("ListLeagues failed", zap.Error(err))
		return nil, mapError(err)
	}

	resp := &leaguev1.ListLeaguesResponse{Leagues: make([]leaguev1.League, 0, len(leagues))}
	for _, l := range leagues {
		resp.Leagues = append(resp.Leagues, toProtoLeague(l))
	}
	return resp, nil
}

func (s *serverAPI) UpdateLeague(ctx context.Context, req *leaguev1.UpdateLeagueRequest) (*leaguev1.UpdateLeagueResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if strings.TrimSpace(req.LeagueID) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, status.Error(codes.InvalidArgument, "league_id and name are required")
	}

	l, err := s.service.UpdateLeague(ctx, req.LeagueID, req.Name)
	if err != nil {
		s.log.Error("UpdateLeague failed", zap.String("league_id", req.LeagueID), zap.Error(err))
		return nil, mapError(err)
	}
	return &leaguev1.UpdateLeagueResponse{League: toProtoLeague(l)}, nil
}

func toProtoLeague(l models.League) leaguev1.League {
	seasons := l.Seasons
	if seasons == nil {
		seasons = []string{}
	}
	out := leaguev1.League{LeagueID: l.ID, Name: l.Name, Seasons: seasons}
	if !l.UpdatedAt.IsZero() {
		out.UpdatedAt = l.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func leagueKey(ref leaguev1.LeagueRef) (models.LeagueKey, error) {
	key, err := models.NewLeagueKey(ref.LeagueID, ref.Season)
	if err != nil {
		return models.LeagueKey{}, status.Error(codes.InvalidArgument, "league_id and season are required")
	}
	return key, nil
}

func toProtoMatch(m league.Match) leaguev1.Match {
	return leaguev1.Match{
		Date:        m.Date.UTC().Format(time.RFC3339),
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		HTHomeScore: m.HTHomeScore,
		HTAwayScore: m.HTAwayScore,
	}
}

func toProtoRejections(rejected []csvimport.Rejection) []leaguev1.Rejection {
	out := make([]leaguev1.Rejection, 0, len(rejected))
	for _, r := range rejected {
		out = append(out, leaguev1.Rejection{Line: r.Line, Reason: r.Reason})
	}
	return out
}

func noValidMatchesMessage(rejected []csvimport.Rejection) string {
	msg := "no valid matches found in the csv file"
	if len(rejected) == 0 {
		return msg
	}

	parts := make([]string, 0, maxReportedRejections)
	for i, r := range rejected {
		if i == maxReportedRejections {
			break
		}
		parts = append(parts, fmt.Sprintf("line %d: %s", r.Line, r.Reason))
	}
	return fmt.Sprintf("%s (%d rows rejected; %s)", msg, len(rejected), strings.Join(parts, "; "))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, derr.ErrInvalidLeagueKey):
		return status.Error(codes.InvalidArgument, "league_id and season are required")
	case errors.Is(err, derr.ErrInvalidLeague):
		return status.Error(codes.InvalidArgument, "league_id and a name of at most 120 characters are required")
	case errors.Is(err, csvimport.ErrEmptyFile):
		return status.Error(codes.InvalidArgument, "csv file is empty")
	case errors.Is(err, csvimport.ErrMissingColumn):
		return status.Error(codes.InvalidArgument, "csv header is missing a required column")
	case errors.Is(err, derr.ErrInvalidUpload):
		return status.Error(codes.InvalidArgument, "csv file could not be read")
	case errors.Is(err, league.ErrInvalidScore):
		return status.Error(codes.InvalidArgument, "stored match has an invalid score")
	case errors.Is(err, league.ErrInvalidMatch):
		return status.Error(codes.InvalidArgument, "stored match is missing a team")
	case errors.Is(err, derr.ErrNoValidMatches):
		return status.Error(codes.FailedPrecondition, "no valid matches found in the csv file")
	case errors.Is(err, derr.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, "match storage unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
