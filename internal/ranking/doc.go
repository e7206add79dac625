// Package ranking implements the fractional-index math behind tier lists.
//
// Every item in a user's tier carries a float64 rank position. Inserting
// between two neighbors assigns the midpoint of their positions, so a single
// insert never renumbers the rest of the list. Repeated bisection eventually
// squeezes the gap below what float64 can safely split; the math reports that
// as ErrGapExhausted and the caller rebalances the tier to evenly spaced
// positions before retrying.
//
// The gap decision itself runs on 28-digit decimal arithmetic, not float64.
// After ~50 bisections the float64 representation of two neighbors can agree
// while their true values differ, which would make a float-based gap check
// report exhaustion too early or, worse, emit a midpoint equal to one of its
// bounds. Positions are converted back to float64 only for storage.
//
// The package is pure: no I/O, no locking. Transactional concerns live in the
// ranking service and repo.
package ranking
