// Package parser turns loosely structured tutor answers into vocabulary
// records.
//
// The tutor is asked to answer in a line convention: headword, counterpart,
// optional grammar lines and/or a present-tense conjugation block, then
// numbered "1. german - russian" example lines. Nothing in that text is
// guaranteed, so Parse never fails; missing pieces stay empty.
package parser

import (
	"strings"
	"unicode"

	"zungenrede-bot/internal/models"
)

type state int

const (
	stateHeader state = iota
	stateGrammar
	stateConjugation
	stateExamples
)

func (s state) String() string {
	switch s {
	case stateHeader:
		return "header"
	case stateGrammar:
		return "grammar"
	case stateConjugation:
		return "conjugation"
	case stateExamples:
		return "examples"
	}
	return "unknown"
}

var pronounMarkers = []string{"ich ", "du ", "er/", "wir ", "ihr ", "sie/Sie"}

// transition returns the state a trimmed body line belongs to. The header
// (first two lines) is consumed before the machine runs.
func transition(current state, line string) state {
	switch current {
	case stateExamples:
		return stateExamples
	case stateHeader, stateGrammar, stateConjugation:
		if strings.HasPrefix(line, "1") {
			return stateExamples
		}
		if current == stateConjugation || isConjugationLine(line) {
			return stateConjugation
		}
		return stateGrammar
	}
	return current
}

func isConjugationLine(line string) bool {
	for _, m := range pronounMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// HasCyrillic reports whether s contains a Cyrillic or Cyrillic Supplement
// character.
func HasCyrillic(s string) bool {
	for _, r := range s {
		if r >= '\u0400' && r <= '\u052F' {
			return true
		}
	}
	return false
}

// Parse builds a record from the user's query and the tutor's raw answer.
// A Cyrillic query means the tutor was asked Russian-first, so header lines
// and example sides are swapped to keep Original German (see orient).
func Parse(query, response string) models.VocabularyRecord {
	lines := splitLines(response)
	reversed := HasCyrillic(query)

	var rec models.VocabularyRecord
	first, second := query, ""
	if len(lines) > 0 {
		first = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		second = strings.TrimSpace(lines[1])
	}
	rec.Original, rec.Translation = orient(first, second, reversed)

	var conjugations []string
	s := stateHeader
	for i := 2; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		s = transition(s, line)
		switch s {
		case stateGrammar:
			rec.GrammarForms = append(rec.GrammarForms, line)
		case stateConjugation:
			conjugations = append(conjugations, line)
		case stateExamples:
			if ex, ok := parseExample(line, reversed); ok {
				rec.Examples = append(rec.Examples, ex)
			}
		}
	}
	if len(conjugations) > 0 {
		rec.Conjugations = conjugations
	}

	if !reversed {
		words := strings.Fields(rec.Original)
		if len(words) == 2 && models.IsArticle(words[0]) {
			rec.GrammarForms = append([]string{strings.ToLower(words[0])}, rec.GrammarForms...)
			rec.Original = words[1]
		}
	}

	return rec
}

// parseExample splits "1. left - right" lines. Lines not enumerated with 1
// or 2 are ignored.
func parseExample(line string, reversed bool) (models.Example, bool) {
	if !strings.HasPrefix(line, "1") && !strings.HasPrefix(line, "2") {
		return models.Example{}, false
	}

	parts := strings.Split(line, "-")
	left := strings.TrimLeftFunc(parts[0], unicode.IsDigit)
	left = strings.TrimSpace(strings.TrimLeft(left, ".)"))

	right := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		right = append(right, strings.TrimSpace(p))
	}
	rightSide := strings.TrimSpace(strings.Join(right, " - "))

	german, russian := orient(left, rightSide, reversed)
	return models.Example{German: german, Russian: russian}, true
}

// orient maps a (first, second) pair onto (german, russian). German-query
// answers are taken at face value. For Russian queries the pair is swapped,
// unless exactly one side is Cyrillic, in which case that side is Russian.
func orient(first, second string, reversed bool) (german, russian string) {
	if !reversed {
		return first, second
	}
	fc, sc := HasCyrillic(first), HasCyrillic(second)
	if sc && !fc {
		return first, second
	}
	return second, first
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
