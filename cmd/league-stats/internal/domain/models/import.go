package models

import "github.com/ozzus/championship/internal/csvimport"

type ImportResult struct {
	Imported int
	Rejected []csvimport.Rejection
}
