package ports

import (
	"context"
	"time"

	"github.com/ozzus/championship/cmd/league-stats/internal/domain/models"
	"github.com/ozzus/championship/internal/league"
)

type MatchRepository interface {
	ListMatches(ctx context.Context, key models.LeagueKey) ([]league.Match, error)
	ReplaceMatches(ctx context.Context, key models.LeagueKey, matches []league.Match) error
}

type LeagueCatalog interface {
	ListLeagues(ctx context.Context) ([]models.League, error)
	UpdateLeague(ctx context.Context, l models.League) (models.League, error)
}

type Repository interface {
	MatchRepository
	LeagueCatalog
}

// TableCache stores computed tables per league season and generation.
// Invalidate moves the key to a new generation, so a table computed from
// matches read before the bump is never served afterwards.
type TableCache interface {
	Generation(ctx context.Context, key models.LeagueKey) (int64, error)
	GetStandings(ctx context.Context, key models.LeagueKey, gen int64) ([]league.StandingsRow, error)
	SetStandings(ctx context.Context, key models.LeagueKey, gen int64, rows []league.StandingsRow, ttl time.Duration) error
	GetForm(ctx context.Context, key models.LeagueKey, gen int64) (map[string][]league.Result, error)
	SetForm(ctx context.Context, key models.LeagueKey, gen int64, forms map[string][]league.Result, ttl time.Duration) error
	Invalidate(ctx context.Context, key models.LeagueKey) error
}
