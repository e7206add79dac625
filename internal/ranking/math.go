package ranking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marqueehq/marquee-backend/internal/domain"
)

const (
	// DefaultStartPosition is assigned to the first item in an empty tier.
	DefaultStartPosition = 1000.0
	// AppendStep is the gap left when appending or prepending, large enough
	// that thousands of appends stay exactly representable.
	AppendStep = 1000.0
)

// midpointPrecision is the number of fractional digits kept when bisecting.
const midpointPrecision = 28

var (
	// ErrGapExhausted means two neighbors are too close to bisect safely.
	// The caller must rebalance the tier and retry.
	ErrGapExhausted = errors.New("gap between neighbors is exhausted")
	// ErrInvalidNeighborOrder means prev's position is not strictly below next's.
	ErrInvalidNeighborOrder = errors.New("prev position must be less than next position")
	// ErrUnknownTier means the tier is outside the closed S/A/B/C/D set.
	ErrUnknownTier = errors.New("unknown tier")
)

// minGap is the smallest neighbor gap we will still bisect (1e-9).
var minGap = decimal.New(1, -9)

var two = decimal.NewFromInt(2)

// scoreBands maps each tier to its inclusive visual-score range. The table is
// closed and must stay in lockstep with the per-tier CHECK constraint the
// store installs on user_rankings.
var scoreBands = map[domain.Tier]struct{ min, max decimal.Decimal }{
	domain.TierS: {decimal.NewFromFloat(9.0), decimal.NewFromFloat(10.0)},
	domain.TierA: {decimal.NewFromFloat(8.0), decimal.NewFromFloat(8.9)},
	domain.TierB: {decimal.NewFromFloat(7.0), decimal.NewFromFloat(7.9)},
	domain.TierC: {decimal.NewFromFloat(6.0), decimal.NewFromFloat(6.9)},
	domain.TierD: {decimal.NewFromFloat(0.0), decimal.NewFromFloat(5.9)},
}

// ScoreRange returns the inclusive visual-score band for a tier.
func ScoreRange(tier domain.Tier) (min, max float64, ok bool) {
	band, ok := scoreBands[tier]
	if !ok {
		return 0, 0, false
	}
	return band.min.InexactFloat64(), band.max.InexactFloat64(), true
}

// CalculatePosition returns a rank position that slots between prev and next.
//
//	(nil, nil)   first item in an empty tier: DefaultStartPosition
//	(prev, nil)  append below the last item: prev + AppendStep
//	(nil, next)  prepend above the top item: next - AppendStep
//	(prev, next) bisect: (prev + next) / 2
//
// Bisection fails with ErrGapExhausted when next-prev < 1e-9 and with
// ErrInvalidNeighborOrder when prev >= next.
func CalculatePosition(prev, next *float64) (float64, error) {
	switch {
	case prev == nil && next == nil:
		return DefaultStartPosition, nil
	case prev == nil:
		n := decimal.NewFromFloat(*next)
		return n.Sub(decimal.NewFromFloat(AppendStep)).InexactFloat64(), nil
	case next == nil:
		p := decimal.NewFromFloat(*prev)
		return p.Add(decimal.NewFromFloat(AppendStep)).InexactFloat64(), nil
	}

	p := decimal.NewFromFloat(*prev)
	n := decimal.NewFromFloat(*next)

	if p.GreaterThanOrEqual(n) {
		return 0, fmt.Errorf("%w: prev=%v next=%v", ErrInvalidNeighborOrder, *prev, *next)
	}
	if gap := n.Sub(p); gap.LessThan(minGap) {
		return 0, fmt.Errorf("%w: gap=%s", ErrGapExhausted, gap.String())
	}

	mid := p.Add(n).DivRound(two, midpointPrecision)
	return mid.InexactFloat64(), nil
}

// NeedsRebalance reports whether the gap between two adjacent positions is
// already too small for another safe insertion.
func NeedsRebalance(prev, next float64) bool {
	gap := decimal.NewFromFloat(next).Sub(decimal.NewFromFloat(prev))
	return gap.LessThan(minGap)
}

// InterpolateScore derives the visual score for an item placed between the
// given neighbor scores within a tier.
//
// With no neighbors the tier's midpoint is used. At the top of a tier the
// score blends toward the tier maximum, at the bottom toward the tier
// minimum, and between two items it is their average. The result is clamped
// to the tier band and rounded half-up to one decimal, so it can never
// violate the per-tier CHECK constraint regardless of neighbor values.
func InterpolateScore(tier domain.Tier, prev, next *float64) (float64, error) {
	band, ok := scoreBands[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	var raw decimal.Decimal
	switch {
	case prev == nil && next == nil:
		raw = band.min.Add(band.max).DivRound(two, midpointPrecision)
	case prev == nil:
		raw = band.max.Add(decimal.NewFromFloat(*next)).DivRound(two, midpointPrecision)
	case next == nil:
		raw = decimal.NewFromFloat(*prev).Add(band.min).DivRound(two, midpointPrecision)
	default:
		raw = decimal.NewFromFloat(*prev).Add(decimal.NewFromFloat(*next)).DivRound(two, midpointPrecision)
	}

	clamped := decimal.Max(band.min, decimal.Min(band.max, raw))
	return clamped.Round(1).InexactFloat64(), nil
}
