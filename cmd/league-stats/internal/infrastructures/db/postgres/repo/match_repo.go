package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	derr "github.com/ozzus/championship/cmd/league-stats/internal/domain/errors"
	"github.com/ozzus/championship/cmd/league-stats/internal/domain/models"
	"github.com/ozzus/championship/internal/league"
)

type Repository struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Repository, error) {
	poolCfg, err := buildPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", derr.ErrStorageUnavailable, err)
	}

	return &Repository{db: pool}, nil
}

func buildPoolConfig(dsn string) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %w", err)
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.StatementCacheCapacity = 0
	poolCfg.ConnConfig.DescriptionCacheCapacity = 0

	return poolCfg, nil
}

func (r *Repository) Close() {
	r.db.Close()
}

var matchColumns = []string{
	"league_id",
	"season",
	"seq",
	"played_at",
	"home_team",
	"away_team",
	"home_score",
	"away_score",
	"ht_home_score",
	"ht_away_score",
}

// ListMatches returns the stored matches of a league season in upload order.
func (r *Repository) ListMatches(ctx context.Context, key models.LeagueKey) ([]league.Match, error) {
	const query = `
		SELECT
			played_at,
			home_team,
			away_team,
			home_score,
			away_score,
			ht_home_score,
			ht_away_score
		FROM league_matches
		WHERE league_id = $1 AND season = $2
		ORDER BY seq ASC
	`

	rows, err := r.db.Query(ctx, query, key.LeagueID, key.Season)
	if err != nil {
		return nil, fmt.Errorf("query league matches: %w", mapConnErr(err))
	}
	defer rows.Close()

	matches := make([]league.Match, 0, 64)
	for rows.Next() {
		var m league.Match
		if err := rows.Scan(
			&m.Date,
			&m.HomeTeam,
			&m.AwayTeam,
			&m.HomeScore,
			&m.AwayScore,
			&m.HTHomeScore,
			&m.HTAwayScore,
		); err != nil {
			return nil, fmt.Errorf("scan league match: %w", err)
		}
		m.Date = m.Date.UTC()
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate league matches: %w", mapConnErr(err))
	}

	return matches, nil
}

// ReplaceMatches swaps the whole match list of a league season in one
// transaction and registers the league in the catalogue.
func (r *Repository) ReplaceMatches(ctx context.Context, key models.LeagueKey, matches []league.Match) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace matches tx: %w", mapConnErr(err))
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const ensureLeagueQuery = `INSERT INTO leagues (league_id) VALUES ($1) ON CONFLICT (league_id) DO NOTHING`
	if _, err := tx.Exec(ctx, ensureLeagueQuery, key.LeagueID); err != nil {
		return fmt.Errorf("ensure league: %w", mapConnErr(err))
	}

	const deleteQuery = `DELETE FROM league_matches WHERE league_id = $1 AND season = $2`
	if _, err := tx.Exec(ctx, deleteQuery, key.LeagueID, key.Season); err != nil {
		return fmt.Errorf("delete league matches: %w", mapConnErr(err))
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"league_matches"},
		matchColumns,
		pgx.CopyFromRows(matchRows(key, matches)),
	)
	if err != nil {
		return fmt.Errorf("copy league matches: %w", mapConnErr(err))
	}
	if int(copied) != len(matches) {
		return fmt.Errorf("copy league matches: copied %d of %d rows", copied, len(matches))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace matches tx: %w", mapConnErr(err))
	}
	return nil
}

func matchRows(key models.LeagueKey, matches []league.Match) [][]any {
	rows := make([][]any, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, []any{
			key.LeagueID,
			key.Season,
			i,
			m.Date.UTC(),
			m.HomeTeam,
			m.AwayTeam,
			m.HomeScore,
			m.AwayScore,
			m.HTHomeScore,
			m.HTAwayScore,
		})
	}
	return rows
}

func mapConnErr(err error) error {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("%w: %w", derr.ErrStorageUnavailable, err)
	}
	return err
}
