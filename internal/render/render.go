package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/ozzus/championship/internal/csvimport"
	"github.com/ozzus/championship/internal/league"
)

const minTeamWidth = 4

// Printer writes standings and form tables as aligned text.
type Printer struct {
	w       io.Writer
	header  *color.Color
	results map[league.Result]*color.Color
}

// New returns a Printer writing to w. With noColor set the output carries no
// escape sequences regardless of the terminal.
func New(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:      w,
		header: color.New(color.Bold),
		results: map[league.Result]*color.Color{
			league.Win:  color.New(color.FgGreen, color.Bold),
			league.Draw: color.New(color.FgYellow),
			league.Loss: color.New(color.FgRed),
		},
	}
	if noColor {
		p.header.DisableColor()
		for _, c := range p.results {
			c.DisableColor()
		}
	}
	return p
}

// Standings prints the table. Column widths count runes so accented names
// line up with their neighbours.
func (p *Printer) Standings(rows []league.StandingsRow) error {
	width := minTeamWidth
	for _, r := range rows {
		width = max(width, utf8.RuneCountInString(r.Team))
	}

	head := fmt.Sprintf("%3s  %-*s %3s %3s %3s %3s %4s %4s %4s %4s",
		"#", width, "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts")
	if _, err := p.header.Fprintln(p.w, head); err != nil {
		return err
	}

	for _, r := range rows {
		_, err := fmt.Fprintf(p.w, "%3d  %-*s %3d %3d %3d %3d %4d %4d %+4d %4d\n",
			r.Position, width, r.Team,
			r.Played, r.Won, r.Drawn, r.Lost,
			r.GoalsFor, r.GoalsAgainst, r.GoalDifference, r.Points,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Form prints one line per team with results oldest first.
func (p *Printer) Form(entries []league.FormEntry) error {
	width := minTeamWidth
	for _, e := range entries {
		width = max(width, utf8.RuneCountInString(e.Team))
	}

	if _, err := p.header.Fprintln(p.w, fmt.Sprintf("%-*s  %s", width, "Team", "Form")); err != nil {
		return err
	}

	for _, e := range entries {
		cells := make([]string, len(e.Results))
		for i, r := range e.Results {
			cells[i] = p.result(r)
		}
		if _, err := fmt.Fprintf(p.w, "%-*s  %s\n", width, e.Team, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Rejections summarises rows skipped while reading a match file.
func (p *Printer) Rejections(rejected []csvimport.Rejection) error {
	if len(rejected) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(p.w, "skipped %d invalid rows:\n", len(rejected)); err != nil {
		return err
	}
	for _, r := range rejected {
		if _, err := fmt.Fprintf(p.w, "  line %d: %s\n", r.Line, r.Reason); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) result(r league.Result) string {
	c, ok := p.results[r]
	if !ok {
		return string(r)
	}
	return c.Sprint(string(r))
}

