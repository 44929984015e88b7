package league

import (
	"errors"
	"time"
)

var (
	ErrInvalidScore = errors.New("invalid score")
	ErrInvalidMatch = errors.New("invalid match")
)

const (
	PointsForWin  = 3
	PointsForDraw = 1
)

// Result is a match outcome from one team's point of view.
type Result string

const (
	Win  Result = "W"
	Draw Result = "D"
	Loss Result = "L"
)

// Match is a completed fixture. Half-time scores are carried along but
// never enter standings or form arithmetic.
type Match struct {
	Date        time.Time `json:"date"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomeScore   int       `json:"home_score"`
	AwayScore   int       `json:"away_score"`
	HTHomeScore int       `json:"ht_home_score"`
	HTAwayScore int       `json:"ht_away_score"`
}

// StandingsRow holds the standings info for one team.
type StandingsRow struct {
	Position       int    `json:"position"`
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

type FormEntry struct {
	Team    string   `json:"team"`
	Results []Result `json:"results"`
}

// Validate checks what the calculators rely on: both teams named and no
// negative score.
func (m Match) Validate() error {
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return ErrInvalidMatch
	}
	if m.HomeScore < 0 || m.AwayScore < 0 || m.HTHomeScore < 0 || m.HTAwayScore < 0 {
		return ErrInvalidScore
	}
	return nil
}

// outcome classifies a match for the side that scored `scored`.
func outcome(scored, conceded int) Result {
	switch {
	case scored > conceded:
		return Win
	case scored < conceded:
		return Loss
	default:
		return Draw
	}
}
