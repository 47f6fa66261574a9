// Package input classifies free-text chat messages so the right tutor
// prompt can be chosen.
package input

import (
	"strings"

	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/parser"
)

type Kind int

const (
	GermanWord Kind = iota
	GermanSentence
	RussianWord
	RussianSentence
	Explanation
	GrammarCheck
	Freeform
	Simplify
)

var kindNames = map[Kind]string{
	GermanWord:      "german_word",
	GermanSentence:  "german_sentence",
	RussianWord:     "russian_word",
	RussianSentence: "russian_sentence",
	Explanation:     "explanation",
	GrammarCheck:    "grammar_check",
	Freeform:        "freeform",
	Simplify:        "simplify",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// prefixes are checked in order; "??:" must precede "?:".
var prefixes = []struct {
	prefix string
	kind   Kind
}{
	{"??:", Freeform},
	{"?:", Explanation},
	{"!:", GrammarCheck},
	{"-:", Simplify},
}

// Analyze classifies text. Prefixed modes win; otherwise Cyrillic text is
// Russian and anything else German. A word is text without spaces, or a
// German article followed by one noun.
func Analyze(text string) Kind {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p.prefix) {
			return p.kind
		}
	}

	if parser.HasCyrillic(text) {
		if !strings.Contains(text, " ") {
			return RussianWord
		}
		return RussianSentence
	}

	words := strings.Fields(text)
	if !strings.Contains(text, " ") || (len(words) == 2 && models.IsArticle(words[0])) {
		return GermanWord
	}
	return GermanSentence
}

// Strip removes the mode prefix of kind from text and trims the rest.
func Strip(text string, kind Kind) string {
	for _, p := range prefixes {
		if p.kind == kind {
			return strings.TrimSpace(strings.TrimPrefix(text, p.prefix))
		}
	}
	return strings.TrimSpace(text)
}

// IsWord reports whether lookups of this kind produce a vocabulary record.
func (k Kind) IsWord() bool {
	return k == GermanWord || k == RussianWord
}

// IsSentence reports whether the tutor answer is a plain translation.
func (k Kind) IsSentence() bool {
	return k == GermanSentence || k == RussianSentence
}
