package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// FilterResult is a movie that matched a filter, with match metadata
type FilterResult struct {
	Movie          domain.Movie
	MatchedIndexes []int // Character positions in the title that matched
	Score          int   // Higher is better
}

// FilterIndex implements sahilm/fuzzy.Source over movie titles
type FilterIndex struct {
	movies      []domain.Movie
	lowerTitles []string // Pre-computed lowercase titles
}

// NewFilterIndex builds an index over movies
func NewFilterIndex(movies []domain.Movie) *FilterIndex {
	idx := &FilterIndex{
		movies:      movies,
		lowerTitles: make([]string, len(movies)),
	}
	for i, m := range movies {
		idx.lowerTitles[i] = strings.ToLower(m.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *FilterIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of movies (implements fuzzy.Source)
func (idx *FilterIndex) Len() int { return len(idx.movies) }

// Filter matches query against the indexed titles as the user types.
// Results are ordered best first. An empty query returns nil.
func (idx *FilterIndex) Filter(query string) []FilterResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	matches := sfuzzy.FindFrom(query, idx)
	results := make([]FilterResult, len(matches))
	for i, match := range matches {
		results[i] = FilterResult{
			Movie:          idx.movies[match.Index],
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		}
	}
	return results
}

// Filter is a convenience wrapper for a one-off filter over movies
func Filter(query string, movies []domain.Movie) []FilterResult {
	return NewFilterIndex(movies).Filter(query)
}

// Rank returns the movies whose title or director fuzzy-matches query,
// best match first. Ties keep working set order. An empty query returns
// movies unchanged.
func Rank(query string, movies []domain.Movie) []domain.Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return movies
	}

	titles := make([]string, len(movies))
	directors := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = strings.ToLower(m.Title)
		directors[i] = strings.ToLower(m.Director)
	}

	best := make(map[int]int)
	consider := func(ranks fuzzy.Ranks, penalty int) {
		for _, r := range ranks {
			score := matchScore(r.Target, query, r.Distance) + penalty
			if cur, ok := best[r.OriginalIndex]; !ok || score < cur {
				best[r.OriginalIndex] = score
			}
		}
	}
	consider(fuzzy.RankFindFold(query, titles), 0)
	// Director matches rank below equally good title matches
	consider(fuzzy.RankFindFold(query, directors), 5)

	indexes := make([]int, 0, len(best))
	for i := range best {
		indexes = append(indexes, i)
	}
	sort.Slice(indexes, func(a, b int) bool {
		sa, sb := best[indexes[a]], best[indexes[b]]
		if sa != sb {
			return sa < sb
		}
		return indexes[a] < indexes[b]
	})

	results := make([]domain.Movie, len(indexes))
	for i, idx := range indexes {
		results[i] = movies[idx]
	}
	return results
}

// matchScore calculates a match score for ranking. Lower is better.
func matchScore(target, query string, distance int) int {
	switch {
	case target == query:
		return 0
	case strings.HasPrefix(target, query):
		return 10
	case strings.Contains(target, query):
		return 50
	default:
		return 100 + distance
	}
}
