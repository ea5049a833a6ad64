package distribution

import (
	"sort"

	"rihla/internal/domain"
)

const (
	DefaultMaxProviders = 10
	MinFanOut           = 1
	MaxFanOut           = 50
)

// ClampFanOut bounds a requested fan-out to the admin-configurable range,
// substituting the default when unset.
func ClampFanOut(n int) int {
	if n == 0 {
		return DefaultMaxProviders
	}
	if n < MinFanOut {
		return MinFanOut
	}
	if n > MaxFanOut {
		return MaxFanOut
	}
	return n
}

// RankAndTruncate orders candidates by featured flag, rating, then booking
// volume, all descending, and keeps the top max. Provider id breaks ties
// so repeated runs on the same candidate set are reproducible.
func RankAndTruncate(candidates []domain.Provider, max int) []domain.Provider {
	ranked := make([]domain.Provider, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.BookingCount != b.BookingCount {
			return a.BookingCount > b.BookingCount
		}
		return a.ID < b.ID
	})

	max = ClampFanOut(max)
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// RankBySubscription orders premium candidates by plan priority descending,
// then subscription recency descending, id ascending as tiebreak. Used by
// the subscription-gated background sweep.
func RankBySubscription(candidates []domain.PremiumCandidate, max int) []domain.PremiumCandidate {
	ranked := make([]domain.PremiumCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PlanPriority != b.PlanPriority {
			return a.PlanPriority > b.PlanPriority
		}
		if !a.SubscribedAt.Equal(b.SubscribedAt) {
			return a.SubscribedAt.After(b.SubscribedAt)
		}
		return a.Provider.ID < b.Provider.ID
	})

	max = ClampFanOut(max)
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
