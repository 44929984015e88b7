package models

import (
	"strings"

	derr "github.com/ozzus/championship/cmd/league-stats/internal/domain/errors"
)

// LeagueKey identifies one league season. Every stored match list and
// every computed table belongs to exactly one key.
type LeagueKey struct {
	LeagueID string
	Season   string
}

func NewLeagueKey(leagueID, season string) (LeagueKey, error) {
	key := LeagueKey{
		LeagueID: strings.TrimSpace(leagueID),
		Season:   strings.TrimSpace(season),
	}
	if key.LeagueID == "" || key.Season == "" {
		return LeagueKey{}, derr.ErrInvalidLeagueKey
	}
	return key, nil
}

func (k LeagueKey) String() string {
	return k.LeagueID + ":" + k.Season
}
