package leaguev1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type LeagueRef struct {
	LeagueID string `json:"league_id"`
	Season   string `json:"season"`
}

type League struct {
	LeagueID  string   `json:"league_id"`
	Name      string   `json:"name"`
	Seasons   []string `json:"seasons"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

type ListLeaguesRequest struct{}

type ListLeaguesResponse struct {
	Leagues []League `json:"leagues"`
}

type UpdateLeagueRequest struct {
	LeagueID string `json:"league_id"`
	Name     string `json:"name"`
}

type UpdateLeagueResponse struct {
	League League `json:"league"`
}

type ImportMatchesRequest struct {
	League LeagueRef `json:"league"`
	CSV    string    `json:"csv"`
}

type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportMatchesResponse struct {
	Imported int         `json:"imported"`
	Rejected []Rejection `json:"rejected"`
}

type ListMatchesRequest struct {
	League LeagueRef `json:"league"`
}

type Match struct {
	Date        string `json:"date"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	HTHomeScore int    `json:"ht_home_score"`
	HTAwayScore int    `json:"ht_away_score"`
}

type ListMatchesResponse struct {
	Matches []Match `json:"matches"`
}

type GetStandingsRequest struct {
	League LeagueRef `json:"league"`
}

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

type GetStandingsResponse struct {
	Rows []StandingsRow `json:"rows"`
}

type GetFormRequest struct {
	League LeagueRef `json:"league"`
	Last   int       `json:"last"`
}

type TeamForm struct {
	Team    string   `json:"team"`
	Results []string `json:"results"`
}

type GetFormResponse struct {
	Teams []TeamForm `json:"teams"`
}

// ToStruct converts a message into the google.protobuf.Struct that travels
// on the wire.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal message fields: %w", err)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return s, nil
}

// FromStruct fills v from a wire Struct. A nil Struct leaves v untouched.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}

	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}
