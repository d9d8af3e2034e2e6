package discovery

import (
	"testing"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scorerProfiles() (Profile, Profile) {
	primary := NewProfile()
	primary.Categories.Add("electronics")
	primary.Keywords.Add("iphone")

	secondary := NewProfile()
	secondary.Categories.Add("furniture")
	secondary.Keywords.Add("sofa")

	return primary, secondary
}

func TestScoreCandidates_Partition(t *testing.T) {
	primary, secondary := scorerProfiles()
	pool := []*domain.Listing{
		{ID: "1", Title: "iPhone 13", Category: "phones"},     // primary via keyword
		{ID: "2", Title: "Desk lamp", Category: "electronics"}, // primary via category
		{ID: "3", Title: "Leather sofa", Category: "other"},    // secondary via keyword
		{ID: "4", Title: "Garden gnome", Category: "garden"},   // fallback
		{ID: "5", Title: "Excluded", Category: "electronics"},
	}
	exclude := NewStringSet("5")

	tiers := ScoreCandidates(pool, primary, secondary, exclude)

	assert.Equal(t, []string{"1", "2"}, listingIDs(tiers.Primary))
	assert.Equal(t, []string{"3"}, listingIDs(tiers.Secondary))
	assert.Equal(t, []string{"4"}, listingIDs(tiers.Fallback))

	// Every non-excluded candidate lands in exactly one tier.
	total := len(tiers.Primary) + len(tiers.Secondary) + len(tiers.Fallback)
	assert.Equal(t, len(pool)-1, total)
}

func TestScoreCandidates_TierPrecedence(t *testing.T) {
	primary, secondary := scorerProfiles()
	// Matches both profiles; must land in primary only.
	pool := []*domain.Listing{
		{ID: "1", Title: "iPhone on a sofa", Category: "furniture"},
	}

	tiers := ScoreCandidates(pool, primary, secondary, NewStringSet())

	require.Len(t, tiers.Primary, 1)
	assert.Empty(t, tiers.Secondary)
	for _, l := range tiers.Secondary {
		assert.False(t, primary.Matches(l))
	}
}

func TestScoreCandidates_PreservesPoolOrder(t *testing.T) {
	primary, secondary := scorerProfiles()
	pool := []*domain.Listing{
		{ID: "1", Title: "iPhone 11", Category: "phones"},
		{ID: "2", Title: "Gnome", Category: "garden"},
		{ID: "3", Title: "iPhone 12", Category: "phones"},
		{ID: "4", Title: "Rake", Category: "garden"},
	}

	tiers := ScoreCandidates(pool, primary, secondary, NewStringSet())

	assert.Equal(t, []string{"1", "3"}, listingIDs(tiers.Primary))
	assert.Equal(t, []string{"2", "4"}, listingIDs(tiers.Fallback))
}

func TestScoreCandidates_ExclusionNeverSurfaces(t *testing.T) {
	primary, secondary := scorerProfiles()
	pool := []*domain.Listing{
		{ID: "1", Title: "iPhone", Category: "phones"},
		{ID: "2", Title: "Sofa", Category: "furniture"},
		{ID: "3", Title: "Gnome", Category: "garden"},
	}
	exclude := NewStringSet("1", "2", "3")

	tiers := ScoreCandidates(pool, primary, secondary, exclude)
	merged := tiers.Merge(ResultCap)

	assert.Empty(t, merged)
}

func TestTiersMerge_OrderAndTruncation(t *testing.T) {
	tiers := Tiers{
		Primary:   []*domain.Listing{{ID: "p1"}, {ID: "p2"}},
		Secondary: []*domain.Listing{{ID: "s1"}},
		Fallback:  []*domain.Listing{{ID: "f1"}, {ID: "f2"}},
	}

	assert.Equal(t, []string{"p1", "p2", "s1", "f1", "f2"}, listingIDs(tiers.Merge(10)))
	assert.Equal(t, []string{"p1", "p2", "s1"}, listingIDs(tiers.Merge(3)))
}

func listingIDs(listings []*domain.Listing) []string {
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return ids
}
