package models

import (
	"errors"
	"strings"
	"testing"

	derr "github.com/ozzus/championship/cmd/league-stats/internal/domain/errors"
)

func TestNewLeague(t *testing.T) {
	l, err := NewLeague("  la-liga ", " LaLiga EA Sports ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.ID != "la-liga" || l.Name != "LaLiga EA Sports" {
		t.Fatalf("expected trimmed league, got %+v", l)
	}

	cases := []struct {
		name     string
		id, text string
	}{
		{name: "blank id", id: " ", text: "LaLiga"},
		{name: "blank name", id: "la-liga", text: "\t"},
		{name: "long name", id: "la-liga", text: strings.Repeat("é", maxLeagueNameLength+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewLeague(tc.id, tc.text); !errors.Is(err, derr.ErrInvalidLeague) {
				t.Fatalf("expected invalid league, got %v", err)
			}
		})
	}

	if _, err := NewLeague("la-liga", strings.Repeat("é", maxLeagueNameLength)); err != nil {
		t.Fatalf("name at the limit counts runes, got %v", err)
	}
}
