// Package sampler picks the next practice item, favouring vocabulary the
// user keeps getting wrong.
package sampler

import (
	"math/rand/v2"
	"time"

	"zungenrede-bot/internal/models"
)

// untriedWeight puts new words on par with a word answered wrong every time.
const untriedWeight = 2.0

// Rand is the randomness the sampler and the practice engine draw from.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type Sampler struct {
	rand Rand
}

func New(r Rand) *Sampler {
	if r == nil {
		r = NewRand()
	}
	return &Sampler{rand: r}
}

// NewRand returns a time-seeded PCG generator. It is not safe for concurrent
// use; callers serialise draws.
func NewRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// Weight is 1 + error rate for tried records, untriedWeight otherwise.
func Weight(r models.VocabularyRecord) float64 {
	if r.Attempts() == 0 {
		return untriedWeight
	}
	return 1 + r.ErrorRate()
}

// Sample does one roulette-wheel draw. Weights are recomputed on every call
// because the counters change between draws. The bool is false only for an
// empty population.
func (s *Sampler) Sample(records []models.VocabularyRecord) (models.VocabularyRecord, bool) {
	if len(records) == 0 {
		return models.VocabularyRecord{}, false
	}

	weights := make([]float64, len(records))
	var total float64
	for i, r := range records {
		weights[i] = Weight(r)
		total += weights[i]
	}

	draw := s.rand.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return records[i], true
		}
	}

	return records[0], true
}

// CoinFlip is an unbiased boolean draw.
func CoinFlip(r Rand) bool {
	return r.Float64() < 0.5
}
