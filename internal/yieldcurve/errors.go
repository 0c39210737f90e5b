package yieldcurve

import (
	"fmt"
	"time"
)

// The pipeline's error taxonomy. Each stage returns exactly one of these
// types for its own failure modes and never reinterprets an error produced
// by an upstream stage; errors surface unchanged to the top-level caller.
// Match with errors.As.

// MissingMaturityError reports a requested maturity with no observation on
// any date. An entirely absent column is an error, never silently dropped.
type MissingMaturityError struct {
	Maturity Maturity
}

func (e *MissingMaturityError) Error() string {
	return fmt.Sprintf("maturity %s has no observations on any date", e.Maturity)
}

// InsufficientDataError reports a missing cell the configured policy cannot
// fill, e.g. a leading gap under forward-fill without leading trim.
type InsufficientDataError struct {
	Maturity Maturity
	Date     time.Time
	Reason   string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for maturity %s at %s: %s",
		e.Maturity, e.Date.Format("2006-01-02"), e.Reason)
}

// DegenerateColumnError reports a zero-variance column under zscore
// standardization; dividing by a zero scale is never silently produced.
type DegenerateColumnError struct {
	Maturity Maturity
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("maturity %s has zero variance, cannot zscore", e.Maturity)
}

// InvalidComponentCountError reports a requested component count outside
// [1, number of maturities].
type InvalidComponentCountError struct {
	Requested  int
	Maturities int
}

func (e *InvalidComponentCountError) Error() string {
	return fmt.Sprintf("requested %d components with %d maturities available",
		e.Requested, e.Maturities)
}

// InsufficientObservationsError reports fewer observation dates than
// requested components.
type InsufficientObservationsError struct {
	Observations int
	Requested    int
}

func (e *InsufficientObservationsError) Error() string {
	return fmt.Sprintf("%d observations cannot support %d components",
		e.Observations, e.Requested)
}

// NonFiniteInputError reports a NaN or infinite cell reaching the
// decomposer. Such values are never dropped or clamped.
type NonFiniteInputError struct {
	Row      int
	Col      int
	Maturity Maturity
	Date     time.Time
}

func (e *NonFiniteInputError) Error() string {
	return fmt.Sprintf("non-finite value at maturity %s, date %s (row %d, col %d)",
		e.Maturity, e.Date.Format("2006-01-02"), e.Row, e.Col)
}

// WarnAmbiguousLevel is the warning code surfaced when the first component
// does not meet the Level same-sign threshold and is left unlabeled for
// manual review. The run still completes.
const WarnAmbiguousLevel = "AMBIGUOUS_LEVEL_COMPONENT"
