package core

import (
	"math"
	"testing"

	"github.com/nalgeon/be"
)

func TestCosineSimilarity(t *testing.T) {
	be.Equal(t, CosineSimilarity(Vector{1, 0}, Vector{1, 0}), 1.0)
	be.Equal(t, CosineSimilarity(Vector{1, 0}, Vector{0, 1}), 0.0)
	be.Equal(t, CosineSimilarity(Vector{1, 0}, Vector{-1, 0}), -1.0)
	be.True(t, math.Abs(CosineSimilarity(Vector{1, 1}, Vector{2, 2})-1) < 1e-12)

	// Degenerate inputs score zero instead of NaN.
	be.Equal(t, CosineSimilarity(Vector{0, 0}, Vector{1, 1}), 0.0)
	be.Equal(t, CosineSimilarity(Vector{1, 1}, Vector{0, 0}), 0.0)
	be.Equal(t, CosineSimilarity(Vector{1}, Vector{1, 1}), 0.0)
	be.Equal(t, CosineSimilarity(nil, nil), 0.0)
	be.Equal(t, CosineSimilarity(Vector{float32(math.NaN())}, Vector{1}), 0.0)
}

func TestRank_Order(t *testing.T) {
	query := Vector{1, 0}
	docs := []Vector{
		{0, 1},   // 0.0
		{1, 0},   // 1.0
		{1, 1},   // 0.707
		{-1, 0},  // -1.0
		{2, 0.5}, // 0.97
	}

	scores := Rank(query, docs, 3)
	be.Equal(t, len(scores), 3)
	be.Equal(t, scores[0].Index, 1)
	be.Equal(t, scores[1].Index, 4)
	be.Equal(t, scores[2].Index, 2)
	for i := 1; i < len(scores); i++ {
		be.True(t, scores[i-1].Score >= scores[i].Score)
	}
}

func TestRank_Length(t *testing.T) {
	query := Vector{1, 2, 3}
	for n := 0; n <= 8; n++ {
		docs := make([]Vector, n)
		for i := range docs {
			docs[i] = Vector{float32(i), 1, 1}
		}
		be.Equal(t, len(Rank(query, docs, DefaultTopK)), min(DefaultTopK, n))
	}

	be.Equal(t, len(Rank(query, []Vector{{1, 1, 1}}, 0)), 0)
	be.Equal(t, len(Rank(query, []Vector{{1, 1, 1}}, -1)), 0)
}

func TestRank_TiesKeepOrder(t *testing.T) {
	query := Vector{1, 0}
	docs := []Vector{{0, 1}, {1, 0}, {3, 0}, {0, 2}, {2, 0}}

	scores := Rank(query, docs, 5)
	indexes := make([]int, len(scores))
	for i, s := range scores {
		indexes[i] = s.Index
	}
	be.Equal(t, indexes, []int{1, 2, 4, 0, 3})
}

func TestRank_ZeroQuery(t *testing.T) {
	scores := Rank(Vector{0, 0}, []Vector{{1, 0}, {0, 1}}, 5)
	be.Equal(t, scores, []Score{{Index: 0, Score: 0}, {Index: 1, Score: 0}})
}
