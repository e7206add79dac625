package domain

import "strings"

// Tier is one of the five ordered ranking buckets. S is best, D is worst.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Tiers lists every tier in display order (best first).
var Tiers = []Tier{TierS, TierA, TierB, TierC, TierD}

// Rank returns the sort key used to order tiers: S=1 ... D=5.
// Unknown tiers sort last.
func (t Tier) Rank() int {
	switch t {
	case TierS:
		return 1
	case TierA:
		return 2
	case TierB:
		return 3
	case TierC:
		return 4
	case TierD:
		return 5
	}
	return 6
}

func (t Tier) Valid() bool {
	switch t {
	case TierS, TierA, TierB, TierC, TierD:
		return true
	}
	return false
}

// ParseTier normalizes caller input ("s", " A ") to a Tier.
// The ok result is false for anything outside the closed set.
func ParseTier(raw string) (Tier, bool) {
	t := Tier(strings.ToUpper(strings.TrimSpace(raw)))
	return t, t.Valid()
}
