package postgres

import (
	"context"
	"fmt"

	"github.com/ozzus/championship/cmd/league-stats/internal/domain/models"
)

// ListLeagues returns the catalogue ordered by id, each league with the
// seasons it holds matches for.
func (r *Repository) ListLeagues(ctx context.Context) ([]models.League, error) {
	const query = `
		SELECT
			l.league_id,
			l.name,
			COALESCE(
				array_agg(DISTINCT m.season ORDER BY m.season) FILTER (WHERE m.season IS NOT NULL),
				'{}'
			),
			l.updated_at
		FROM leagues l
		LEFT JOIN league_matches m ON m.league_id = l.league_id
		GROUP BY l.league_id, l.name, l.updated_at
		ORDER BY l.league_id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query leagues: %w", mapConnErr(err))
	}
	defer rows.Close()

	leagues := make([]models.League, 0, 8)
	for rows.Next() {
		var l models.League
		if err := rows.Scan(&l.ID, &l.Name, &l.Seasons, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		l.UpdatedAt = l.UpdatedAt.UTC()
		leagues = append(leagues, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leagues: %w", mapConnErr(err))
	}

	return leagues, nil
}

// UpdateLeague sets the display name of a league, creating the catalogue
// entry when the league has no matches yet.
func (r *Repository) UpdateLeague(ctx context.Context, l models.League) (models.League, error) {
	const upsertQuery = `
		INSERT INTO leagues (league_id, name, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (league_id) DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`
	if err := r.db.QueryRow(ctx, upsertQuery, l.ID, l.Name).Scan(&l.UpdatedAt); err != nil {
		return models.League{}, fmt.Errorf("upsert league: %w", mapConnErr(err))
	}
	l.UpdatedAt = l.UpdatedAt.UTC()

	const seasonsQuery = `
		SELECT COALESCE(array_agg(DISTINCT season ORDER BY season), '{}')
		FROM league_matches
		WHERE league_id = $1
	`
	if err := r.db.QueryRow(ctx, seasonsQuery, l.ID).Scan(&l.Seasons); err != nil {
		return models.League{}, fmt.Errorf("query league seasons: %w", mapConnErr(err))
	}

	return l, nil
}
