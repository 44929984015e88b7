package models

import (
	"strings"
	"time"
	"unicode/utf8"

	derr "github.com/ozzus/championship/cmd/league-stats/internal/domain/errors"
)

const maxLeagueNameLength = 120

// League is a catalogue entry. Seasons lists every season with stored
// matches, oldest label first.
type League struct {
	ID        string
	Name      string
	Seasons   []string
	UpdatedAt time.Time
}

// NewLeague validates an edit of a league's display name.
func NewLeague(id, name string) (League, error) {
	l := League{
		ID:   strings.TrimSpace(id),
		Name: strings.TrimSpace(name),
	}
	if l.ID == "" || l.Name == "" || utf8.RuneCountInString(l.Name) > maxLeagueNameLength {
		return League{}, derr.ErrInvalidLeague
	}
	return l, nil
}
