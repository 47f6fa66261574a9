package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		text string
		want Kind
	}{
		{"Wald", GermanWord},
		{"der Tisch", GermanWord},
		{"Die Katze", GermanWord},
		{"Ich gehe nach Hause", GermanSentence},
		{"schnell laufen", GermanSentence},
		{"стол", RussianWord},
		{"Я люблю гулять", RussianSentence},
		{"??: Как использовать Akkusativ?", Freeform},
		{"?: Der Mann isst einen Apfel", Explanation},
		{"!: Ich habe gestern nach Berlin gefahren", GrammarCheck},
		{"-: Ich würde gerne wissen, ob Sie morgen Zeit haben", Simplify},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text))
		})
	}
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "Как использовать Akkusativ?", Strip("??: Как использовать Akkusativ?", Freeform))
	assert.Equal(t, "Der Mann", Strip("?:Der Mann ", Explanation))
	assert.Equal(t, "Wald", Strip(" Wald ", GermanWord))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, RussianWord.IsWord())
	assert.False(t, GermanSentence.IsWord())
	assert.True(t, GermanSentence.IsSentence())
	assert.False(t, Freeform.IsSentence())
	assert.Equal(t, "grammar_check", GrammarCheck.String())
}
