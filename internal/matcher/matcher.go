// Package matcher grades free-text practice answers against a vocabulary
// record with exact, fuzzy and article-aware matching.
package matcher

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/adrg/strutil/metrics"

	"zungenrede-bot/internal/models"
)

// Threshold is the similarity an answer must strictly exceed to count as
// close. A score of exactly Threshold does not pass.
const Threshold = 0.85

type Kind int

const (
	Correct Kind = iota
	AlmostCorrect
	WrongArticle
	Wrong
)

func (k Kind) String() string {
	switch k {
	case Correct:
		return "correct"
	case AlmostCorrect:
		return "almost_correct"
	case WrongArticle:
		return "wrong_article"
	case Wrong:
		return "wrong"
	}
	return "unknown"
}

// Outcome is the graded result. Expected and Similarity are set for every
// kind but Correct; Similarity only for AlmostCorrect.
type Outcome struct {
	Kind       Kind
	Expected   string
	Similarity float64
	Hint       string
}

func (o Outcome) IsCorrect() bool {
	return o.Kind == Correct
}

// Message renders the feedback line shown to the learner.
func (o Outcome) Message() string {
	var msg string
	switch o.Kind {
	case Correct:
		msg = "✅ Correct!"
	case AlmostCorrect:
		msg = fmt.Sprintf("⚠️ Almost correct! Expected: %s\nSimilarity: %.0f%%", o.Expected, o.Similarity*100)
	case WrongArticle:
		msg = fmt.Sprintf("❌ Wrong article! Correct answer: %s", o.Expected)
	default:
		msg = fmt.Sprintf("❌ Wrong! Correct answer: %s", o.Expected)
	}
	if o.Hint != "" {
		msg += "\n" + o.Hint
	}
	return msg
}

// SimilarityFunc scores two normalized strings in [0, 1]. It must be
// symmetric, return 1 for identical input and weigh shared prefixes.
type SimilarityFunc func(a, b string) float64

// JaroWinkler is the default SimilarityFunc.
func JaroWinkler(a, b string) float64 {
	return metrics.NewJaroWinkler().Compare(a, b)
}

type Matcher struct {
	similarity SimilarityFunc
}

func New(similarity SimilarityFunc) *Matcher {
	if similarity == nil {
		similarity = JaroWinkler
	}
	return &Matcher{similarity: similarity}
}

// Normalize trims, lowercases and drops everything that is not a letter or
// whitespace. The result is trimmed again so "Größe, 42" becomes "größe".
func Normalize(text string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(strings.TrimSpace(text))))
}

// Check grades answer. expectingReverse means the answer is in the
// translation language, otherwise in the language of Original.
func (m *Matcher) Check(answer string, expected models.VocabularyRecord, expectingReverse bool) Outcome {
	normalized := Normalize(answer)
	if expectingReverse {
		return m.checkTranslation(normalized, expected)
	}
	if expected.IsNoun() {
		return m.checkNoun(normalized, expected)
	}
	return m.checkOriginal(normalized, expected)
}

func (m *Matcher) checkTranslation(answer string, rec models.VocabularyRecord) Outcome {
	variants := []string{Normalize(rec.Translation)}
	for _, part := range strings.Split(rec.Translation, ",") {
		variants = append(variants, Normalize(part))
	}
	for _, e := range rec.Examples {
		variants = append(variants, Normalize(e.Russian))
	}
	return m.grade(answer, variants, rec.Translation)
}

func (m *Matcher) checkNoun(answer string, rec models.VocabularyRecord) Outcome {
	article, _ := rec.Article()
	noun := Normalize(rec.Original)
	expected := article + " " + noun

	parts := strings.Fields(answer)
	if len(parts) < 2 {
		return Outcome{Kind: Wrong, Expected: expected, Hint: "Don't forget the article!"}
	}
	if strings.ToLower(parts[0]) != article {
		return Outcome{Kind: WrongArticle, Expected: expected}
	}

	similarity := m.similarity(Normalize(strings.Join(parts[1:], " ")), noun)
	if passes(similarity) {
		return Outcome{Kind: Correct}
	}
	return Outcome{Kind: AlmostCorrect, Expected: expected, Similarity: similarity}
}

func (m *Matcher) checkOriginal(answer string, rec models.VocabularyRecord) Outcome {
	variants := []string{Normalize(rec.Original)}
	for _, conj := range rec.Conjugations {
		if fields := strings.Fields(conj); len(fields) > 0 {
			variants = append(variants, Normalize(fields[len(fields)-1]))
		}
	}
	for _, e := range rec.Examples {
		for _, word := range strings.Fields(e.German) {
			variants = append(variants, Normalize(word))
		}
	}
	return m.grade(answer, variants, rec.Original)
}

// grade accepts exact variant hits first, then the best fuzzy score. Empty
// variants (e.g. from a trailing comma) never match.
func (m *Matcher) grade(answer string, variants []string, expected string) Outcome {
	for _, v := range variants {
		if v != "" && v == answer {
			return Outcome{Kind: Correct}
		}
	}

	var best float64
	for _, v := range variants {
		if v == "" {
			continue
		}
		if s := m.similarity(answer, v); s > best {
			best = s
		}
	}

	if passes(best) {
		return Outcome{Kind: AlmostCorrect, Expected: expected, Similarity: best}
	}
	return Outcome{Kind: Wrong, Expected: expected}
}

func passes(similarity float64) bool {
	return similarity > Threshold
}
