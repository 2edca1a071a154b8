package retrieval

import (
	"context"
	"sort"
	"strings"

	"policychat/internal/vecmath"
)

// Default selection policy, matching the service's retrieval behavior.
const (
	DefaultTopN     = 3
	DefaultMinScore = 0.1
)

// queryStopwords is the fixed stopword set stripped from queries before
// ranking. The corpus is Arabic HR policy text, so the list enumerates
// high-frequency Arabic function words. This is a heuristic whitespace
// filter, not a linguistic tokenizer; it is applied uniformly to every
// query.
var queryStopwords = map[string]struct{}{
	"في": {}, "من": {}, "على": {}, "و": {}, "ال": {},
	"الى": {}, "ما": {}, "هل": {}, "عن": {}, "مع": {},
	"هذا": {}, "هذه": {}, "هذان": {}, "هؤلاء": {}, "هناك": {},
	"كيف": {}, "اين": {}, "متى": {},
}

// PreprocessQuery lowercases the query, splits it on whitespace and strips
// the stopword set. If stripping leaves nothing to match on, the raw query
// is returned unchanged so ranking can still proceed.
func PreprocessQuery(query string) string {
	fields := strings.Fields(strings.ToLower(query))
	kept := make([]string, 0, len(fields))
	for _, w := range fields {
		if _, stop := queryStopwords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return query
	}
	return strings.Join(kept, " ")
}

// Rank scores query against every document in the space and returns the
// top matches. Selection applies two independent policies in sequence:
// truncate to the topN best scores first, then drop anything at or below
// minScore. Fewer than topN results, including none, is a normal outcome.
//
// Ties break by corpus order (stable sort). An empty space returns no
// matches immediately.
func Rank(space *VectorSpace, query string, topN int, minScore float64) []Match {
	if space.Len() == 0 {
		return nil
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	if minScore < 0 {
		minScore = DefaultMinScore
	}

	qvec := space.model.Transform(PreprocessQuery(query))

	matches := make([]Match, len(space.docs))
	for i, doc := range space.docs {
		matches[i] = Match{
			Document: doc,
			Score:    float64(vecmath.Cosine(qvec, space.vecs[i])),
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return filterMinScore(truncateTopN(matches, topN), minScore)
}

// truncateTopN keeps at most n leading matches.
func truncateTopN(matches []Match, n int) []Match {
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// filterMinScore drops matches whose score does not exceed min.
func filterMinScore(matches []Match, min float64) []Match {
	kept := matches[:0]
	for _, m := range matches {
		if m.Score > min {
			kept = append(kept, m)
		}
	}
	return kept
}

// Ranker ranks queries against the indexer's current space, triggering the
// lazy initial build when needed.
type Ranker struct {
	indexer  *Indexer
	topN     int
	minScore float64
}

// NewRanker creates a ranker over the given indexer. Non-positive topN and
// negative minScore fall back to the defaults.
func NewRanker(indexer *Indexer, topN int, minScore float64) *Ranker {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if minScore < 0 {
		minScore = DefaultMinScore
	}
	return &Ranker{indexer: indexer, topN: topN, minScore: minScore}
}

// Rank ensures the index is built and returns the ranked matches for query.
// An empty result means "no relevant policy found", not a failure.
func (r *Ranker) Rank(ctx context.Context, query string) ([]Match, error) {
	space, err := r.indexer.Space(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(space, query, r.topN, r.minScore), nil
}
