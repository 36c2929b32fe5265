package tracker

import (
	"math/rand/v2"

	"github.com/claude/weeklog/internal/catalog"
)

// DefaultRecommendCount is the sample size used when the caller has no preference.
const DefaultRecommendCount = 3

// Recommendation is the outcome of a catalog lookup. Found is false when the
// muscle group is not in the catalog; Exercises is then empty.
type Recommendation struct {
	Group     string   `json:"muscle_group"`
	Found     bool     `json:"found"`
	Exercises []string `json:"exercises"`
}

// recommend draws min(count, available) distinct names uniformly at random.
func recommend(cat catalog.Catalog, rng *rand.Rand, group string, count int) Recommendation {
	rec := Recommendation{Group: group, Exercises: []string{}}
	names, ok := cat.Lookup(group)
	if !ok {
		return rec
	}
	rec.Found = true
	if count <= 0 {
		return rec
	}
	n := min(count, len(names))

	// Partial Fisher-Yates over the copy returned by Lookup.
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(names)-i)
		names[i], names[j] = names[j], names[i]
	}
	rec.Exercises = names[:n]
	return rec
}
