package impute

import (
	"errors"
	"fmt"
)

// ErrNoObservations means a column has nulls to fill but no values to derive
// a fill value from.
var ErrNoObservations = errors.New("no non-missing values")

// Error reports why a column could not be imputed.
type Error struct {
	Column   string
	Strategy string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s imputation of column %s: %v", e.Strategy, e.Column, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
