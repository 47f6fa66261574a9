package sampler

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zungenrede-bot/internal/models"
)

type fixedRand []float64

func (f *fixedRand) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 2.0, Weight(models.VocabularyRecord{}))
	assert.Equal(t, 1.0, Weight(models.VocabularyRecord{CorrectAnswers: 5}))
	assert.InDelta(t, 1.9, Weight(models.VocabularyRecord{CorrectAnswers: 1, WrongAnswers: 9}), 1e-9)
	assert.Equal(t, 2.0, Weight(models.VocabularyRecord{WrongAnswers: 3}))
}

func TestSample(t *testing.T) {
	t.Run("empty population", func(t *testing.T) {
		_, ok := New(&fixedRand{0.5}).Sample(nil)
		assert.False(t, ok)
	})

	t.Run("roulette wheel walks cumulative weights", func(t *testing.T) {
		records := []models.VocabularyRecord{
			{Original: "a", CorrectAnswers: 1},                  // weight 1
			{Original: "b"},                                     // weight 2
			{Original: "c", CorrectAnswers: 1, WrongAnswers: 1}, // weight 1.5
		}
		// total 4.5: a covers [0,1), b [1,3), c [3,4.5)
		tests := []struct {
			draw float64
			want string
		}{
			{0.0, "a"},
			{0.2, "a"},
			{0.25, "b"},
			{0.6, "b"},
			{0.7, "c"},
			{0.999, "c"},
		}
		for _, tt := range tests {
			got, ok := New(&fixedRand{tt.draw}).Sample(records)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Original, "draw %v", tt.draw)
		}
	})

	t.Run("draw at the total falls back to first record", func(t *testing.T) {
		records := []models.VocabularyRecord{{Original: "a"}, {Original: "b"}}
		got, ok := New(&fixedRand{1.0}).Sample(records)
		require.True(t, ok)
		assert.Equal(t, "a", got.Original)
	})

	t.Run("error-prone record is drawn more often", func(t *testing.T) {
		records := []models.VocabularyRecord{
			{Original: "A", WrongAnswers: 9, CorrectAnswers: 1},
			{Original: "B", WrongAnswers: 0, CorrectAnswers: 10},
		}
		s := New(rand.New(rand.NewPCG(42, 7)))

		counts := map[string]int{}
		const draws = 20000
		for i := 0; i < draws; i++ {
			r, _ := s.Sample(records)
			counts[r.Original]++
		}

		assert.Greater(t, counts["A"], counts["B"])
		ratio := float64(counts["A"]) / float64(counts["B"])
		assert.InDelta(t, 1.9, ratio, 0.15)
	})
}

func TestCoinFlip(t *testing.T) {
	assert.True(t, CoinFlip(&fixedRand{0.49}))
	assert.False(t, CoinFlip(&fixedRand{0.5}))
}
