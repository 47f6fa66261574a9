package utils

import (
	_ "embed"
	"fmt"

	"zungenrede-bot/internal/input"

	"gopkg.in/yaml.v2"
)

//go:embed prompt/tutor_prompts.yaml
var tutorPromptsYAML []byte

// TutorPrompts maps an input kind name to its system prompt.
type TutorPrompts map[string]string

func LoadTutorPrompts() (TutorPrompts, error) {
	var prompts TutorPrompts
	if err := yaml.Unmarshal(tutorPromptsYAML, &prompts); err != nil {
		return nil, fmt.Errorf("error parsing prompt yaml: %w", err)
	}
	for _, kind := range []input.Kind{
		input.GermanWord, input.GermanSentence, input.RussianWord, input.RussianSentence,
		input.Explanation, input.GrammarCheck, input.Freeform, input.Simplify,
	} {
		if prompts[kind.String()] == "" {
			return nil, fmt.Errorf("missing prompt for %s", kind)
		}
	}
	return prompts, nil
}

func (p TutorPrompts) For(kind input.Kind) string {
	return p[kind.String()]
}
