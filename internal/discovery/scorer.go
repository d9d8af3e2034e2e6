package discovery

import "github.com/bazarly/backend/internal/marketplace/domain"

// Tiers holds the result of partitioning a candidate pool. Every non-excluded
// candidate lands in exactly one tier; pool order is preserved within each.
type Tiers struct {
	// Primary: matches the profile built from likes and shares.
	Primary []*domain.Listing
	// Secondary: not a primary match, matches the profile built from views.
	Secondary []*domain.Listing
	// Fallback: matches neither profile.
	Fallback []*domain.Listing
}

// ScoreCandidates classifies the pool against the two interest profiles.
// Explicit signal outranks passive signal outranks no signal; within a tier
// the pool's own order (most recent first) is the tie-break.
func ScoreCandidates(pool []*domain.Listing, primary, secondary Profile, exclude StringSet) Tiers {
	var tiers Tiers
	for _, candidate := range pool {
		if candidate == nil || exclude.Has(candidate.ID) {
			continue
		}
		switch {
		case primary.Matches(candidate):
			tiers.Primary = append(tiers.Primary, candidate)
		case secondary.Matches(candidate):
			tiers.Secondary = append(tiers.Secondary, candidate)
		default:
			tiers.Fallback = append(tiers.Fallback, candidate)
		}
	}
	return tiers
}

// Merge concatenates the tiers in precedence order and truncates to limit.
func (t Tiers) Merge(limit int) []*domain.Listing {
	merged := make([]*domain.Listing, 0, len(t.Primary)+len(t.Secondary)+len(t.Fallback))
	merged = append(merged, t.Primary...)
	merged = append(merged, t.Secondary...)
	merged = append(merged, t.Fallback...)
	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
