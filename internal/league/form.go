package league

import (
	"fmt"
	"sort"
	"time"
)

// CalculateForm returns every team's outcomes, oldest first. Matches on the
// same date keep their input order.
func CalculateForm(matches []Match) (map[string][]Result, error) {
	order := make([]int, len(matches))
	for i, m := range matches {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("match %d (%s vs %s): %w", i, m.HomeTeam, m.AwayTeam, err)
		}
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return dayOf(matches[order[i]].Date) < dayOf(matches[order[j]].Date)
	})

	forms := make(map[string][]Result)
	for _, idx := range order {
		m := matches[idx]
		forms[m.HomeTeam] = append(forms[m.HomeTeam], outcome(m.HomeScore, m.AwayScore))
		forms[m.AwayTeam] = append(forms[m.AwayTeam], outcome(m.AwayScore, m.HomeScore))
	}

	return forms, nil
}

// dayOf orders by calendar date as written, ignoring time of day.
func dayOf(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// LastN returns the n most recent results. n <= 0 means all of them.
func LastN(results []Result, n int) []Result {
	if n <= 0 || len(results) <= n {
		return results
	}
	return results[len(results)-n:]
}

// FormTable flattens a form mapping into entries sorted by team, each
// windowed to the last n results.
func FormTable(forms map[string][]Result, n int) []FormEntry {
	entries := make([]FormEntry, 0, len(forms))
	for team, results := range forms {
		window := LastN(results, n)
		cp := make([]Result, len(window))
		copy(cp, window)
		entries = append(entries, FormEntry{Team: team, Results: cp})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Team < entries[j].Team
	})

	return entries
}
