// Package fred fetches U.S. Treasury yield observations from the FRED
// (Federal Reserve Economic Data) API and assembles them into the raw yield
// matrix consumed by the analysis pipeline.
//
// Each canonical maturity maps to one FRED daily-yield series (DGS1MO
// through DGS30). Series are fetched concurrently under a shared rate
// limit; FRED marks non-trading days with the value ".", which becomes a
// missing cell. Retries and backoff are deliberately not implemented:
// a failed fetch surfaces to the caller, who decides whether to rerun.
package fred
