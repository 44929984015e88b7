package league

import (
	"fmt"
	"sort"
)

// CalculateStandings builds the league table from scratch for the given
// matches. The caller is expected to pass one league/season only.
func CalculateStandings(matches []Match) ([]StandingsRow, error) {
	entries := make(map[string]*StandingsRow)
	entry := func(team string) *StandingsRow {
		e, ok := entries[team]
		if !ok {
			e = &StandingsRow{Team: team}
			entries[team] = e
		}
		return e
	}

	for i, m := range matches {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("match %d (%s vs %s): %w", i, m.HomeTeam, m.AwayTeam, err)
		}

		home := entry(m.HomeTeam)
		away := entry(m.AwayTeam)

		home.Played++
		away.Played++

		home.GoalsFor += m.HomeScore
		home.GoalsAgainst += m.AwayScore
		away.GoalsFor += m.AwayScore
		away.GoalsAgainst += m.HomeScore

		switch outcome(m.HomeScore, m.AwayScore) {
		case Win:
			home.Won++
			away.Lost++
		case Loss:
			away.Won++
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
		}
	}

	rows := make([]StandingsRow, 0, len(entries))
	for _, e := range entries {
		e.GoalDifference = e.GoalsFor - e.GoalsAgainst
		e.Points = e.Won*PointsForWin + e.Drawn*PointsForDraw
		rows = append(rows, *e)
	}

	sort.Slice(rows, func(i, j int) bool {
		return ranksAbove(rows[i], rows[j])
	})
	for i := range rows {
		rows[i].Position = i + 1
	}

	return rows, nil
}

// ranksAbove orders by points, goal difference, goals scored and finally
// team name so that equal stat lines still get a fixed order.
func ranksAbove(a, b StandingsRow) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.Team < b.Team
}
