package discovery

import (
	"testing"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	keywords := NewStringSet()
	ExtractKeywords("iPhone 13 Pro, barely used!", keywords)

	assert.True(t, keywords.Has("iphone"))
	assert.True(t, keywords.Has("13"))
	assert.True(t, keywords.Has("pro"))
	assert.True(t, keywords.Has("barely"))
	assert.True(t, keywords.Has("used"))
}

func TestExtractKeywords_DropsShortFragments(t *testing.T) {
	keywords := NewStringSet()
	ExtractKeywords("a TV w 4k", keywords)

	assert.False(t, keywords.Has("a"))
	assert.False(t, keywords.Has("w"))
	assert.True(t, keywords.Has("tv"))
	assert.True(t, keywords.Has("4k"))
}

func TestExtractKeywords_DropsShortCyrillicFragments(t *testing.T) {
	keywords := NewStringSet()
	ExtractKeywords("Стол и стулья в Астане", keywords)

	assert.False(t, keywords.Has("и"))
	assert.False(t, keywords.Has("в"))
	assert.True(t, keywords.Has("стол"))
	assert.True(t, keywords.Has("стулья"))
	assert.True(t, keywords.Has("астане"))
}

func TestExtractKeywords_Idempotent(t *testing.T) {
	once := NewStringSet()
	ExtractKeywords("Mountain bike, red", once)

	twice := NewStringSet()
	ExtractKeywords("Mountain bike, red", twice)
	ExtractKeywords("Mountain bike, red", twice)

	assert.Equal(t, once, twice)
}

func TestMatchesKeyword(t *testing.T) {
	keywords := NewStringSet("bike", "helmet")

	assert.True(t, MatchesKeyword("Mountain Bike for sale", keywords))
	assert.True(t, MatchesKeyword("BIKES, two of them", keywords)) // substring match
	assert.False(t, MatchesKeyword("Wooden table", keywords))
	assert.False(t, MatchesKeyword("", keywords))
	assert.False(t, MatchesKeyword("Mountain Bike", NewStringSet()))
}

func TestBuildProfile(t *testing.T) {
	listings := []*domain.Listing{
		{ID: "1", Title: "Trek mountain bike", Category: "sports"},
		{ID: "2", Title: "Bike helmet", Category: "sports"},
		{ID: "3", Title: "Old sofa", Category: "furniture"},
		nil,
	}

	p := BuildProfile(listings)

	assert.Equal(t, 2, p.Categories.Len())
	assert.True(t, p.Categories.Has("sports"))
	assert.True(t, p.Categories.Has("furniture"))
	assert.True(t, p.Keywords.Has("bike"))
	assert.True(t, p.Keywords.Has("helmet"))
	assert.True(t, p.Keywords.Has("sofa"))
}

func TestProfileMatches(t *testing.T) {
	p := NewProfile()
	p.Categories.Add("electronics")
	p.Keywords.Add("iphone")

	assert.True(t, p.Matches(&domain.Listing{Title: "Lamp", Category: "electronics"}))
	assert.True(t, p.Matches(&domain.Listing{Title: "iPhone 12", Category: "phones"}))
	assert.False(t, p.Matches(&domain.Listing{Title: "Bookshelf", Category: "furniture"}))
	assert.False(t, p.Matches(nil))
}
