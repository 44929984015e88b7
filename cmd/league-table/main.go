// Command league-table prints standings and form computed from a match CSV.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/ozzus/championship/internal/csvimport"
	"github.com/ozzus/championship/internal/league"
	"github.com/ozzus/championship/internal/render"
)

type options struct {
	file    string
	last    int
	noColor bool
	json    bool
}

type report struct {
	Standings []league.StandingsRow `json:"standings"`
	Form      []league.FormEntry    `json:"form"`
	Rejected  []csvimport.Rejection `json:"rejected"`
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if err := run(opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "league-table: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("league-table", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "-", "match CSV file, - for stdin")
	fs.IntVar(&opts.last, "last", 5, "number of recent results in the form table, 0 for all")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	fs.BoolVar(&opts.json, "json", false, "print the report as JSON")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.last < 0 {
		fmt.Fprintln(stderr, "-last must not be negative")
		return options{}, errors.New("invalid -last")
	}
	return opts, nil
}

func run(opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	src := stdin
	if opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	decoded, err := csvimport.Decode(src)
	if err != nil {
		return fmt.Errorf("read matches: %w", err)
	}
	if len(decoded.Matches) == 0 {
		return errors.New("no valid matches found in the csv file")
	}

	standings, err := league.CalculateStandings(decoded.Matches)
	if err != nil {
		return err
	}
	forms, err := league.CalculateForm(decoded.Matches)
	if err != nil {
		return err
	}
	form := league.FormTable(forms, opts.last)

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report{
			Standings: standings,
			Form:      form,
			Rejected:  decoded.Rejected,
		})
	}

	if err := render.New(stderr, opts.noColor).Rejections(decoded.Rejected); err != nil {
		return err
	}

	p := render.New(stdout, opts.noColor)
	if err := p.Standings(standings); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout); err != nil {
		return err
	}
	return p.Form(form)
}
