package discovery

import (
	"context"
	"strings"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"go.uber.org/zap"
)

// ResultCap bounds every discovery response. Not caller-configurable.
const ResultCap = 200

// likedProfileCap bounds how many liked listings feed the primary profile.
const likedProfileCap = 40

// Mode selects the discovery strategy requested by the caller.
type Mode string

const (
	ModeDefault   Mode = ""
	ModePopular   Mode = "popular"
	ModeRecommend Mode = "recommend"
)

// ParseMode maps the request's mode selector onto a known Mode. Unknown
// values fall back to the default strategy.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "popular":
		return ModePopular
	case "recommend":
		return ModeRecommend
	default:
		return ModeDefault
	}
}

// State is the resolved discovery strategy after fallback rules are applied.
type State int

const (
	StateDefault State = iota
	StatePopular
	StatePersonalized
)

func (s State) String() string {
	switch s {
	case StatePopular:
		return "popular"
	case StatePersonalized:
		return "personalized"
	default:
		return "default"
	}
}

// signals is everything the transition function is allowed to look at.
// matchCount is -1 before scoring has run.
type signals struct {
	mode        Mode
	hasIdentity bool
	hasKeyword  bool
	historySize int
	matchCount  int
}

// transition is the single decision point for which strategy serves a
// request. Every "no signal" and "no match" path collapses to StateDefault
// here instead of being scattered through the pipeline.
func transition(s signals) State {
	switch {
	case s.mode == ModePopular:
		return StatePopular
	case s.mode != ModeRecommend:
		return StateDefault
	case !s.hasIdentity:
		// Without identity there is nothing to personalize; a keyword
		// still narrows the default fetch.
		return StateDefault
	case s.historySize == 0 && !s.hasKeyword:
		return StateDefault
	case s.matchCount == 0:
		return StateDefault
	default:
		return StatePersonalized
	}
}

// ListingSource is the subset of the listing store discovery reads from.
type ListingSource interface {
	FindRecent(ctx context.Context, keyword string, limit int64) ([]*domain.Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error)
	FindLikedBy(ctx context.Context, userID string, limit int64) ([]*domain.Listing, error)
}

// HistorySource exposes a user's engagement history sequences.
type HistorySource interface {
	Engagement(ctx context.Context, userID string) (viewed, shared []string, err error)
}

// Engine decides which listings to surface for a visitor and in what order.
// It is stateless and read-only: each Discover call is an independent
// pipeline of store reads with no cache across requests.
type Engine struct {
	listings ListingSource
	users    HistorySource
	logger   *logger.Logger
}

func NewEngine(listings ListingSource, users HistorySource, log *logger.Logger) *Engine {
	return &Engine{
		listings: listings,
		users:    users,
		logger:   log,
	}
}

// Discover returns up to ResultCap listings for the given visitor. userID and
// keyword may be empty. Store failures propagate to the caller unmodified;
// missing or empty signal degrades to the default (most recent) result
// instead of erroring.
func (e *Engine) Discover(ctx context.Context, userID, keyword string, mode Mode) ([]*domain.Listing, error) {
	keyword = strings.TrimSpace(keyword)

	state := transition(signals{
		mode:        mode,
		hasIdentity: userID != "",
		hasKeyword:  keyword != "",
		historySize: 0,
		matchCount:  -1,
	})
	if state == StatePopular {
		return e.popular(ctx, keyword)
	}
	if state == StateDefault && mode != ModeRecommend {
		return e.defaultListings(ctx, keyword)
	}
	return e.recommend(ctx, userID, keyword)
}

// defaultListings is the tier-less fallback: most recent listings matching
// the keyword filter.
func (e *Engine) defaultListings(ctx context.Context, keyword string) ([]*domain.Listing, error) {
	return e.listings.FindRecent(ctx, keyword, ResultCap)
}

func (e *Engine) popular(ctx context.Context, keyword string) ([]*domain.Listing, error) {
	batch, err := e.listings.FindRecent(ctx, keyword, 2*ResultCap)
	if err != nil {
		return nil, err
	}
	return RankByPopularity(batch, ResultCap), nil
}

func (e *Engine) recommend(ctx context.Context, userID, keyword string) ([]*domain.Listing, error) {
	if userID == "" {
		return e.defaultListings(ctx, keyword)
	}

	liked, err := e.listings.FindLikedBy(ctx, userID, likedProfileCap)
	if err != nil {
		return nil, err
	}
	viewedIDs, sharedIDs, err := e.users.Engagement(ctx, userID)
	if err != nil {
		return nil, err
	}

	historySize := len(liked) + len(viewedIDs) + len(sharedIDs)
	if transition(signals{
		mode:        ModeRecommend,
		hasIdentity: true,
		hasKeyword:  keyword != "",
		historySize: historySize,
		matchCount:  -1,
	}) == StateDefault {
		e.logger.Debug("discovery: no engagement history, serving default", zap.String("user_id", userID))
		return e.defaultListings(ctx, keyword)
	}

	shared, err := e.listings.FindByIDs(ctx, sharedIDs)
	if err != nil {
		return nil, err
	}
	viewed, err := e.listings.FindByIDs(ctx, viewedIDs)
	if err != nil {
		return nil, err
	}

	// Explicit engagement drives the primary profile, passive views the
	// secondary one. A supplied keyword counts as explicit and passive.
	primary := BuildProfile(append(append([]*domain.Listing{}, liked...), shared...))
	secondary := BuildProfile(viewed)
	if keyword != "" {
		lowered := strings.ToLower(keyword)
		primary.Keywords.Add(lowered)
		secondary.Keywords.Add(lowered)
	}

	// Never resurface what the user already engaged with.
	exclude := NewStringSet(sharedIDs...)
	exclude.AddAll(viewedIDs)
	for _, l := range liked {
		exclude.Add(l.ID)
	}

	pool, err := e.listings.FindRecent(ctx, keyword, 2*ResultCap)
	if err != nil {
		return nil, err
	}

	tiers := ScoreCandidates(pool, primary, secondary, exclude)
	merged := tiers.Merge(ResultCap)

	if transition(signals{
		mode:        ModeRecommend,
		hasIdentity: true,
		hasKeyword:  keyword != "",
		historySize: historySize,
		matchCount:  len(merged),
	}) == StateDefault {
		e.logger.Debug("discovery: empty personalized result, serving default",
			zap.String("user_id", userID), zap.String("keyword", keyword))
		return e.defaultListings(ctx, keyword)
	}

	e.logger.Debug("discovery: personalized result",
		zap.String("user_id", userID),
		zap.Int("primary", len(tiers.Primary)),
		zap.Int("secondary", len(tiers.Secondary)),
		zap.Int("fallback", len(tiers.Fallback)))
	return merged, nil
}
