package core

import (
	"math"
	"sort"
)

// DefaultTopK is the number of results kept after ranking
const DefaultTopK = 5

// Score is the similarity of one document to the query
type Score struct {
	Index int
	Score float64
}

// CosineSimilarity returns dot(a, b) / (|a| * |b|).
// Vectors of zero magnitude or of different lengths score 0.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}

// Rank scores every document against the query and returns the k best,
// highest first. Equal scores keep their original order.
func Rank(query Vector, docs []Vector, k int) []Score {
	if len(docs) == 0 || k <= 0 {
		return []Score{}
	}

	scores := make([]Score, len(docs))
	for i, doc := range docs {
		scores[i] = Score{Index: i, Score: CosineSimilarity(query, doc)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if k < len(scores) {
		scores = scores[:k]
	}
	return scores
}
