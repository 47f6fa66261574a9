package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a record that breaks the vocabulary invariants.
	ErrValidation = errors.New("invalid vocabulary record")
	// ErrStorage marks an unreadable, unwritable or corrupt backing medium.
	ErrStorage = errors.New("vocabulary storage failure")
)

// Articles are the grammatical-gender markers. A record whose first grammar
// form is one of them is a noun that requires that article.
var Articles = [3]string{"der", "die", "das"}

type VocabularyRecord struct {
	Original       string    `json:"original"`
	Translation    string    `json:"translation"`
	GrammarForms   []string  `json:"grammar_forms"`
	Conjugations   []string  `json:"conjugations"` // nil for anything that is not verb-like
	Examples       []Example `json:"examples"`
	CorrectAnswers uint32    `json:"correct_answers"`
	WrongAnswers   uint32    `json:"wrong_answers"`
}

type Example struct {
	German  string `json:"german"`
	Russian string `json:"russian"`
}

// IsArticle reports whether s (trimmed, case-insensitive) is a gender marker.
func IsArticle(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range Articles {
		if s == a {
			return true
		}
	}
	return false
}

// Article returns the required article of a noun record.
func (r VocabularyRecord) Article() (string, bool) {
	if len(r.GrammarForms) == 0 || !IsArticle(r.GrammarForms[0]) {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(r.GrammarForms[0])), true
}

func (r VocabularyRecord) IsNoun() bool {
	_, ok := r.Article()
	return ok
}

// Validate checks the record invariants. Errors wrap ErrValidation.
func (r VocabularyRecord) Validate() error {
	if strings.TrimSpace(r.Original) == "" {
		return fmt.Errorf("%w: original is empty", ErrValidation)
	}
	if strings.TrimSpace(r.Translation) == "" {
		return fmt.Errorf("%w: translation of %q is empty", ErrValidation, r.Original)
	}
	for i, e := range r.Examples {
		if strings.TrimSpace(e.German) == "" || strings.TrimSpace(e.Russian) == "" {
			return fmt.Errorf("%w: example %d of %q is incomplete", ErrValidation, i+1, r.Original)
		}
	}
	return nil
}

// Matches is the case-insensitive dedup/lookup rule shared by find, delete
// and upsert.
func (r VocabularyRecord) Matches(key string) bool {
	key = strings.ToLower(key)
	return strings.ToLower(r.Original) == key || strings.ToLower(r.Translation) == key
}

func (r VocabularyRecord) Attempts() uint32 {
	return r.CorrectAnswers + r.WrongAnswers
}

// ErrorRate is wrong/attempts, 0 for untried records.
func (r VocabularyRecord) ErrorRate() float64 {
	total := r.Attempts()
	if total == 0 {
		return 0
	}
	return float64(r.WrongAnswers) / float64(total)
}

// Accuracy in percent, 0 for untried records.
func (r VocabularyRecord) Accuracy() float64 {
	total := r.Attempts()
	if total == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(total) * 100
}

func (r VocabularyRecord) String() string {
	var sb strings.Builder

	if article, ok := r.Article(); ok && !startsWithArticle(r.Original) {
		sb.WriteString(fmt.Sprintf("➡️ %s %s\n", article, r.Original))
	} else {
		sb.WriteString(fmt.Sprintf("➡️ %s\n", r.Original))
	}
	sb.WriteString(fmt.Sprintf("⬅️ %s\n", r.Translation))

	if len(r.GrammarForms) > 0 {
		sb.WriteString("\n🔤 Grammar:\n")
		for _, form := range r.GrammarForms {
			sb.WriteString(fmt.Sprintf("• %s\n", form))
		}
	}

	if len(r.Conjugations) > 0 {
		sb.WriteString("\n📖 Conjugation:\n")
		for _, conj := range r.Conjugations {
			sb.WriteString(fmt.Sprintf("• %s\n", conj))
		}
	}

	if len(r.Examples) > 0 {
		sb.WriteString("\n📚 Examples:\n")
		for i, e := range r.Examples {
			sb.WriteString(fmt.Sprintf("%d %s — %s\n", i+1, e.German, e.Russian))
		}
	}

	return sb.String()
}

func startsWithArticle(s string) bool {
	fields := strings.Fields(s)
	return len(fields) > 0 && IsArticle(fields[0])
}

// FormatReviewDigest renders the records pushed by the review reminder.
func FormatReviewDigest(records []VocabularyRecord) string {
	var sb strings.Builder
	sb.WriteString("【Words to review】📚\n")
	for i, r := range records {
		sb.WriteString("\n-------------------\n")
		sb.WriteString(fmt.Sprintf("%d. ", i+1))
		sb.WriteString(r.String())
		sb.WriteString(fmt.Sprintf("Accuracy: %.1f%% (%d attempts)\n", r.Accuracy(), r.Attempts()))
	}
	return sb.String()
}
