package ranking

import (
	"errors"
	"math"
	"testing"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/pointers"
)

var fp = pointers.Float64

func TestCalculatePositionEmptyTier(t *testing.T) {
	got, err := CalculatePosition(nil, nil)
	if err != nil {
		t.Fatalf("CalculatePosition(nil, nil): %v", err)
	}
	if got != 1000.0 {
		t.Fatalf("expected 1000.0, got %v", got)
	}
}

func TestCalculatePositionAppend(t *testing.T) {
	got, err := CalculatePosition(fp(3000.0), nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got != 4000.0 {
		t.Fatalf("expected 4000.0, got %v", got)
	}
}

func TestCalculatePositionPrepend(t *testing.T) {
	got, err := CalculatePosition(nil, fp(1000.0))
	if err != nil {
		t.Fatalf("prepend: %v", err)
	}
	if got != 0.0 {
		t.Fatalf("expected 0.0, got %v", got)
	}
}

func TestCalculatePositionMidpoint(t *testing.T) {
	cases := []struct {
		prev, next float64
	}{
		{1000.0, 2000.0},
		{1000.0, 1000.5},
		{0.0, 1.0},
		{999.9999, 1000.0001},
	}
	for _, tc := range cases {
		got, err := CalculatePosition(fp(tc.prev), fp(tc.next))
		if err != nil {
			t.Fatalf("midpoint(%v, %v): %v", tc.prev, tc.next, err)
		}
		if got <= tc.prev || got >= tc.next {
			t.Fatalf("midpoint(%v, %v) = %v is not strictly between", tc.prev, tc.next, got)
		}
	}
}

func TestCalculatePositionExactMidpoint(t *testing.T) {
	got, err := CalculatePosition(fp(1000.0), fp(2000.0))
	if err != nil {
		t.Fatalf("midpoint: %v", err)
	}
	if got != 1500.0 {
		t.Fatalf("expected 1500.0, got %v", got)
	}
}

func TestCalculatePositionGapExhausted(t *testing.T) {
	_, err := CalculatePosition(fp(1000.0), fp(1000.0000000001))
	if !errors.Is(err, ErrGapExhausted) {
		t.Fatalf("expected ErrGapExhausted, got %v", err)
	}
}

func TestCalculatePositionMinGapStillBisects(t *testing.T) {
	got, err := CalculatePosition(fp(1000.0), fp(1000.000000001))
	if err != nil {
		t.Fatalf("gap of exactly 1e-9 must still bisect: %v", err)
	}
	if got <= 1000.0 || got >= 1000.000000001 {
		t.Fatalf("midpoint %v not strictly between neighbors", got)
	}
}

func TestCalculatePositionInvalidOrder(t *testing.T) {
	for _, tc := range [][2]float64{{2000.0, 1000.0}, {1000.0, 1000.0}} {
		_, err := CalculatePosition(fp(tc[0]), fp(tc[1]))
		if !errors.Is(err, ErrInvalidNeighborOrder) {
			t.Fatalf("CalculatePosition(%v, %v): expected ErrInvalidNeighborOrder, got %v", tc[0], tc[1], err)
		}
	}
}

func TestNeedsRebalance(t *testing.T) {
	if NeedsRebalance(1000.0, 2000.0) {
		t.Fatal("wide gap must not need rebalance")
	}
	if !NeedsRebalance(1000.0, 1000.0000000001) {
		t.Fatal("sub-threshold gap must need rebalance")
	}
	if NeedsRebalance(1000.0, 1000.000000001) {
		t.Fatal("gap of exactly 1e-9 must not need rebalance")
	}
}

func TestInterpolateScoreDefaults(t *testing.T) {
	cases := []struct {
		tier domain.Tier
		want float64
	}{
		{domain.TierS, 9.5},
		{domain.TierA, 8.5},
		{domain.TierB, 7.5},
		{domain.TierC, 6.5},
		{domain.TierD, 3.0},
	}
	for _, tc := range cases {
		got, err := InterpolateScore(tc.tier, nil, nil)
		if err != nil {
			t.Fatalf("InterpolateScore(%s, nil, nil): %v", tc.tier, err)
		}
		if got != tc.want {
			t.Fatalf("tier %s default: expected %v, got %v", tc.tier, tc.want, got)
		}
	}
}

func TestInterpolateScoreTopOfTier(t *testing.T) {
	// No prev means the item sits above next; blend toward the tier max.
	got, err := InterpolateScore(domain.TierS, nil, fp(9.5))
	if err != nil {
		t.Fatalf("top of tier: %v", err)
	}
	if got != 9.8 {
		t.Fatalf("expected 9.8, got %v", got)
	}
}

func TestInterpolateScoreBottomOfTier(t *testing.T) {
	got, err := InterpolateScore(domain.TierA, fp(8.4), nil)
	if err != nil {
		t.Fatalf("bottom of tier: %v", err)
	}
	if got != 8.2 {
		t.Fatalf("expected 8.2, got %v", got)
	}
}

func TestInterpolateScoreBetween(t *testing.T) {
	got, err := InterpolateScore(domain.TierB, fp(7.8), fp(7.2))
	if err != nil {
		t.Fatalf("between: %v", err)
	}
	if got != 7.5 {
		t.Fatalf("expected 7.5, got %v", got)
	}
}

func TestInterpolateScoreRoundsHalfUp(t *testing.T) {
	// avg(7.5, 7.4) = 7.45 rounds up, not to even.
	got, err := InterpolateScore(domain.TierB, fp(7.5), fp(7.4))
	if err != nil {
		t.Fatalf("rounding: %v", err)
	}
	if got != 7.5 {
		t.Fatalf("expected 7.5, got %v", got)
	}
}

func TestInterpolateScoreClampsToBand(t *testing.T) {
	// Neighbor scores outside the band cannot push the result out of it.
	got, err := InterpolateScore(domain.TierA, fp(9.9), fp(9.7))
	if err != nil {
		t.Fatalf("clamp: %v", err)
	}
	if got != 8.9 {
		t.Fatalf("expected clamp to 8.9, got %v", got)
	}

	got, err = InterpolateScore(domain.TierC, fp(1.0), fp(0.5))
	if err != nil {
		t.Fatalf("clamp low: %v", err)
	}
	if got != 6.0 {
		t.Fatalf("expected clamp to 6.0, got %v", got)
	}
}

func TestInterpolateScoreStaysInBand(t *testing.T) {
	for _, tier := range domain.Tiers {
		min, max, ok := ScoreRange(tier)
		if !ok {
			t.Fatalf("no score band for tier %s", tier)
		}
		for _, pair := range [][2]*float64{
			{nil, nil},
			{fp(min), nil},
			{nil, fp(max)},
			{fp(max), fp(min)},
			{fp(10.0), fp(0.0)},
		} {
			got, err := InterpolateScore(tier, pair[0], pair[1])
			if err != nil {
				t.Fatalf("tier %s: %v", tier, err)
			}
			if got < min || got > max {
				t.Fatalf("tier %s: score %v outside [%v, %v]", tier, got, min, max)
			}
		}
	}
}

func TestInterpolateScoreUnknownTier(t *testing.T) {
	_, err := InterpolateScore(domain.Tier("X"), nil, nil)
	if !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}

func TestRepeatedBisectionEventuallyExhausts(t *testing.T) {
	prev, next := 1000.0, 1001.0
	exhausted := false
	for i := 0; i < 64; i++ {
		mid, err := CalculatePosition(&prev, &next)
		if err != nil {
			if errors.Is(err, ErrGapExhausted) {
				exhausted = true
				break
			}
			t.Fatalf("iteration %d: %v", i, err)
		}
		if mid <= prev || mid >= next || math.IsNaN(mid) {
			t.Fatalf("iteration %d: midpoint %v escaped (%v, %v)", i, mid, prev, next)
		}
		next = mid
	}
	if !exhausted {
		t.Fatal("expected gap exhaustion within 64 bisections of a unit gap")
	}
}
