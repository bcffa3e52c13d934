package match

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"alice-display-api/src/images"
)

// ErrNoCandidates is returned when no selectable image survives even the
// loosest relaxation tier.
var ErrNoCandidates = errors.New("no alternative images found matching current context")

// Matcher selects a replacement image for the panel whose attributes best
// match the current display context.
type Matcher struct {
	store images.Store

	// One Matcher serves every request and rand.Rand is not safe for
	// concurrent use, so draws are serialized.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMatcher returns a Matcher drawing ties from rng. Pass nil to seed from
// the clock; tests pass a seeded source to make selection deterministic.
func NewMatcher(store images.Store, rng *rand.Rand) *Matcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Matcher{store: store, rng: rng}
}

// PeriodForHour maps an hour of day (0-23) onto a display time period.
func PeriodForHour(hour int) string {
	switch {
	case hour >= 5 && hour <= 11:
		return "Morning"
	case hour >= 12 && hour <= 16:
		return "Afternoon"
	case hour >= 17 && hour <= 20:
		return "Evening"
	default:
		return "Night"
	}
}

// SelectReplacement picks an image other than currentImageID matching ctx.
// Filters are relaxed tier by tier (weather+period, period, weather, none)
// until one yields candidates, then one candidate is chosen uniformly at
// random so a tied set never degenerates into a single fixed pick.
func (m *Matcher) SelectReplacement(currentImageID string, ctx images.Context) (*images.Image, error) {
	all, err := m.store.ListSelectable()
	if err != nil {
		return nil, err
	}

	candidates := make([]images.Image, 0, len(all))
	for _, img := range all {
		if !img.Selectable() {
			continue
		}
		if currentImageID != "" && img.ID == currentImageID {
			continue
		}
		candidates = append(candidates, img)
	}

	weather := ctx.Weather
	period := ctx.TimePeriod
	if period == "" && ctx.Hour != nil {
		period = PeriodForHour(*ctx.Hour)
	}

	tier := relaxingFilter(candidates, weather, period)
	if len(tier) == 0 {
		return nil, ErrNoCandidates
	}

	m.mu.Lock()
	idx := m.rng.Intn(len(tier))
	m.mu.Unlock()

	img := tier[idx]
	return &img, nil
}

// relaxingFilter returns the first non-empty tier of candidates, from most to
// least specific. Tiers whose context attribute is unset are skipped; the
// unfiltered tier guarantees termination. Activity is informational only and
// never filters.
func relaxingFilter(candidates []images.Image, weather, period string) []images.Image {
	var predicates []func(img *images.Image) bool

	if weather != "" && period != "" {
		predicates = append(predicates, func(img *images.Image) bool {
			return img.Weather == weather && img.TimePeriod == period
		})
	}
	if period != "" {
		predicates = append(predicates, func(img *images.Image) bool {
			return img.TimePeriod == period
		})
	}
	if weather != "" {
		predicates = append(predicates, func(img *images.Image) bool {
			return img.Weather == weather
		})
	}
	predicates = append(predicates, func(img *images.Image) bool {
		return true
	})

	for _, keep := range predicates {
		var matched []images.Image
		for i := range candidates {
			if keep(&candidates[i]) {
				matched = append(matched, candidates[i])
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}

	return nil
}
