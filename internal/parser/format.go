package parser

import (
	"fmt"
	"strings"

	"zungenrede-bot/internal/models"
)

// Format renders a record in the German-first tutor convention that Parse
// reads back. Only the first two examples survive a round trip, since Parse
// reads lines enumerated 1 and 2.
func Format(rec models.VocabularyRecord) string {
	var sb strings.Builder

	sb.WriteString(rec.Original + "\n")
	sb.WriteString(rec.Translation + "\n")
	for _, form := range rec.GrammarForms {
		sb.WriteString(form + "\n")
	}
	for _, conj := range rec.Conjugations {
		sb.WriteString(conj + "\n")
	}
	for i, e := range rec.Examples {
		sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, e.German, e.Russian))
	}

	return sb.String()
}
