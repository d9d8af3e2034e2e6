package discovery

import (
	"strings"
	"unicode/utf8"

	"github.com/bazarly/backend/internal/marketplace/domain"
)

// minKeywordLen drops fragments too short to carry meaning ("a", "и", "в").
const minKeywordLen = 2

// keyword tokens are produced by splitting on whitespace and this punctuation
// class. No stemming and no locale awareness: precision over recall.
const punctuation = ",.;:!?\"'()[]{}/\\-_+"

func isTokenBoundary(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return strings.ContainsRune(punctuation, r)
}

// ExtractKeywords splits the title into lower-cased tokens and adds every
// token of at least minKeywordLen characters to the given set. Calling it
// twice with the same title is a no-op the second time.
func ExtractKeywords(title string, keywords StringSet) {
	for _, fragment := range strings.FieldsFunc(title, isTokenBoundary) {
		token := strings.ToLower(fragment)
		// rune count, not byte length, so one-letter Cyrillic words are
		// dropped like their ASCII counterparts
		if utf8.RuneCountInString(token) < minKeywordLen {
			continue
		}
		keywords.Add(token)
	}
}

// MatchesKeyword reports whether the lower-cased title contains at least one
// keyword from the set as a substring. An empty set or an empty title never
// matches.
func MatchesKeyword(title string, keywords StringSet) bool {
	if title == "" || keywords.Len() == 0 {
		return false
	}
	lowered := strings.ToLower(title)
	for keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Profile is an inferred interest: the categories and title keywords of the
// listings a user has engaged with. Derived per request, never persisted.
type Profile struct {
	Categories StringSet
	Keywords   StringSet
}

func NewProfile() Profile {
	return Profile{
		Categories: NewStringSet(),
		Keywords:   NewStringSet(),
	}
}

// AddListing folds a listing's category and title keywords into the profile.
func (p Profile) AddListing(listing *domain.Listing) {
	if listing == nil {
		return
	}
	if listing.Category != "" {
		p.Categories.Add(listing.Category)
	}
	ExtractKeywords(listing.Title, p.Keywords)
}

// BuildProfile derives a profile from a collection of source listings.
func BuildProfile(listings []*domain.Listing) Profile {
	p := NewProfile()
	for _, l := range listings {
		p.AddListing(l)
	}
	return p
}

// IsEmpty reports whether the profile carries no signal at all.
func (p Profile) IsEmpty() bool {
	return p.Categories.Len() == 0 && p.Keywords.Len() == 0
}

// Matches reports whether a candidate listing fits the profile: its category
// is one the profile knows, or its title matches a profile keyword.
func (p Profile) Matches(listing *domain.Listing) bool {
	if listing == nil {
		return false
	}
	if listing.Category != "" && p.Categories.Has(listing.Category) {
		return true
	}
	return MatchesKeyword(listing.Title, p.Keywords)
}
