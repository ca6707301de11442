package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ranker orders chunks by cosine similarity to the question, multiplied by
// a boost for every question keyword the chunk contains. The boost is a
// heuristic correction for exact terminology, not a calibrated model.
type Ranker struct {
	boost float64
}

// NewRanker creates a ranker with the given per-keyword boost.
// A negative boost falls back to the default.
func NewRanker(boost float64) *Ranker {
	if boost < 0 {
		boost = domain.DefaultKeywordBoost
	}
	return &Ranker{boost: boost}
}

// Rank returns the top min(topK, len(chunks)) chunks ordered by final
// score, highest first. Exact ties keep the original chunk order. Each
// returned chunk carries cleaned content.
func (r *Ranker) Rank(
	questionVector []float32, chunkVectors [][]float32, chunks []domain.Chunk, question string, topK int,
) ([]domain.RankedChunk, error) {
	if len(chunkVectors) != len(chunks) {
		return nil, fmt.Errorf("%w: %d vectors for %d chunks", domain.ErrInvalidInput, len(chunkVectors), len(chunks))
	}

	keywords := Keywords(question)
	scored := make([]domain.RankedChunk, len(chunks))

	for i, c := range chunks {
		if len(chunkVectors[i]) != len(questionVector) {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, question has %d",
				domain.ErrInvalidInput, i, len(chunkVectors[i]), len(questionVector))
		}

		sim := Cosine(questionVector, chunkVectors[i])
		matches := countKeywords(strings.ToLower(c.Content), keywords)

		scored[i] = domain.RankedChunk{
			Chunk:          c,
			Similarity:     sim,
			KeywordMatches: matches,
			Score:          sim * (1 + r.boost*float64(matches)),
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	k := min(max(topK, 0), len(scored))
	top := scored[:k]
	for i := range top {
		top[i].Content = CleanText(top[i].Content)
	}

	if logger.IsVerbose() {
		scores := make([]string, len(top))
		for i, rc := range top {
			scores[i] = fmt.Sprintf("#%d=%.4f", rc.Index, rc.Score)
		}
		logger.Debug("selected chunk scores: %s", strings.Join(scores, " "))
	}

	return top, nil
}

// Keywords returns the distinct lowercased whitespace-separated words of
// question that are longer than three characters.
func Keywords(question string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		if utf8.RuneCountInString(w) < domain.DefaultMinKeywordLength {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func countKeywords(lowerText string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(lowerText, k) {
			n++
		}
	}
	return n
}

// Cosine returns the cosine similarity of a and b, or 0 when either has
// zero magnitude.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// CleanText collapses whitespace runs to single spaces, trims, and drops
// every character other than ASCII letters, digits, space and . , ! ? -
func CleanText(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '.', r == ',', r == '!', r == '?', r == '-':
			return r
		default:
			return -1
		}
	}, collapsed)
}
