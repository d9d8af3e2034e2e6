package discovery

import (
	"sort"

	"github.com/bazarly/backend/internal/marketplace/domain"
)

// RankByPopularity orders a fetched batch of listings by engagement, in
// memory, so ranking stays independent of the underlying store.
//
// Score is likeCount + shareCount. Ties on the score break on raw like
// count, then raw share count, then recency, all descending. The popularity
// score itself is not exposed to callers.
//
// Recall is bounded by the batch the caller fetched: a heavily-liked listing
// outside it cannot surface, no matter its score.
func RankByPopularity(listings []*domain.Listing, limit int) []*domain.Listing {
	ranked := make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l != nil {
			ranked = append(ranked, l)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		likesA, likesB := int64(a.LikeCount()), int64(b.LikeCount())
		scoreA, scoreB := likesA+a.ShareCount, likesB+b.ShareCount
		if scoreA != scoreB {
			return scoreA > scoreB
		}
		if likesA != likesB {
			return likesA > likesB
		}
		if a.ShareCount != b.ShareCount {
			return a.ShareCount > b.ShareCount
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
