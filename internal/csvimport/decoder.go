package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ozzus/championship/internal/league"
)

var (
	ErrEmptyFile     = errors.New("csv file is empty")
	ErrMissingColumn = errors.New("required column missing")
)

const (
	colDate        = "date"
	colHomeTeam    = "home_team"
	colAwayTeam    = "away_team"
	colHTHomeScore = "ht_home_score"
	colHTAwayScore = "ht_away_score"
	colHomeScore   = "home_score"
	colAwayScore   = "away_score"
)

var requiredColumns = []string{
	colDate,
	colHomeTeam,
	colAwayTeam,
	colHTHomeScore,
	colHTAwayScore,
	colHomeScore,
	colAwayScore,
}

// Rejection describes a data row that did not make it into the result.
// Line is the 1-based line in the file, header included.
type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Result struct {
	Matches  []league.Match
	Rejected []Rejection
}

// Decode reads a header-driven match CSV. Rows failing validation or
// CSV parsing are reported in Result.Rejected; only an unreadable stream or
// a broken header is an error.
func Decode(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, ErrEmptyFile
		}
		return Result{}, fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return Result{}, err
	}

	res := Result{Matches: make([]league.Match, 0, 64)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if rej, ok := recordRejection(err); ok {
				res.Rejected = append(res.Rejected, rej)
				continue
			}
			return Result{}, fmt.Errorf("read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		match, reason := toMatch(record, index)
		if reason != "" {
			res.Rejected = append(res.Rejected, Rejection{Line: line, Reason: reason})
			continue
		}
		res.Matches = append(res.Matches, match)
	}

	return res, nil
}

// recordRejection turns a CSV syntax error confined to one record into a
// rejection. Reader failures stay errors.
func recordRejection(err error) (Rejection, bool) {
	var perr *csv.ParseError
	if !errors.As(err, &perr) || !isSyntaxError(perr.Err) {
		return Rejection{}, false
	}

	line := perr.StartLine
	if line == 0 {
		line = perr.Line
	}
	return Rejection{Line: line, Reason: perr.Err.Error()}, true
}

func isSyntaxError(err error) bool {
	return errors.Is(err, csv.ErrQuote) ||
		errors.Is(err, csv.ErrBareQuote) ||
		errors.Is(err, csv.ErrFieldCount)
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	return index, nil
}

func toMatch(record []string, index map[string]int) (league.Match, string) {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawDate := field(colDate)
	home := field(colHomeTeam)
	away := field(colAwayTeam)
	if rawDate == "" || home == "" || away == "" {
		return league.Match{}, "date, home_team and away_team are required"
	}

	date, err := parseDate(rawDate)
	if err != nil {
		return league.Match{}, err.Error()
	}

	m := league.Match{Date: date, HomeTeam: home, AwayTeam: away}
	scores := []struct {
		col string
		dst *int
	}{
		{colHTHomeScore, &m.HTHomeScore},
		{colHTAwayScore, &m.HTAwayScore},
		{colHomeScore, &m.HomeScore},
		{colAwayScore, &m.AwayScore},
	}
	for _, s := range scores {
		v, err := parseScore(field(s.col))
		if err != nil {
			return league.Match{}, fmt.Sprintf("%s: %v", s.col, err)
		}
		*s.dst = v
	}

	return m, ""
}

func parseScore(value string) (int, error) {
	if value == "" {
		return 0, errors.New("missing score")
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative score: %d", v)
	}
	return v, nil
}

// parseDate returns the calendar date written in value as UTC midnight.
// Any time of day is dropped and offsets never shift the day.
func parseDate(value string) (time.Time, error) {
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"02/01/2006",
		"02.01.2006",
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
