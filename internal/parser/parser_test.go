package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zungenrede-bot/internal/models"
)

func TestParse(t *testing.T) {
	t.Run("Russian query with German-first answer", func(t *testing.T) {
		rec := Parse("стол", "Tisch\nстол\nder\n1. Der Tisch ist groß - Стол большой")

		assert.Equal(t, "Tisch", rec.Original)
		assert.Equal(t, "стол", rec.Translation)
		assert.Equal(t, []string{"der"}, rec.GrammarForms)
		assert.Nil(t, rec.Conjugations)
		require.Len(t, rec.Examples, 1)
		assert.Equal(t, "Der Tisch ist groß", rec.Examples[0].German)
		assert.Equal(t, "Стол большой", rec.Examples[0].Russian)
		assert.Zero(t, rec.CorrectAnswers)
		assert.Zero(t, rec.WrongAnswers)
	})

	t.Run("Russian-first answer", func(t *testing.T) {
		rec := Parse("стол", "стол\nTisch\nder\n1. Стол большой - Der Tisch ist groß")

		assert.Equal(t, "Tisch", rec.Original)
		assert.Equal(t, "стол", rec.Translation)
		require.Len(t, rec.Examples, 1)
		assert.Equal(t, "Der Tisch ist groß", rec.Examples[0].German)
		assert.Equal(t, "Стол большой", rec.Examples[0].Russian)
	})

	t.Run("Russian query without Cyrillic in the answer swaps", func(t *testing.T) {
		rec := Parse("стол", "Tisch\nTafel")

		assert.Equal(t, "Tafel", rec.Original)
		assert.Equal(t, "Tisch", rec.Translation)
	})

	t.Run("Russian query with empty answer", func(t *testing.T) {
		rec := Parse("стол", "")

		assert.Empty(t, rec.Original)
		assert.Equal(t, "стол", rec.Translation)
	})

	t.Run("German verb with conjugation block", func(t *testing.T) {
		response := "gehen\nидти\nist gegangen\nging\n" +
			"ich gehe\ndu gehst\ner/sie/es geht\nwir gehen\nihr geht\nsie/Sie gehen\n" +
			"\n1. Ich gehe nach Hause - Я иду домой\n2. Wir gehen ins Kino - Мы идём в кино\n"
		rec := Parse("gehen", response)

		assert.Equal(t, "gehen", rec.Original)
		assert.Equal(t, "идти", rec.Translation)
		assert.Equal(t, []string{"ist gegangen", "ging"}, rec.GrammarForms)
		assert.Equal(t, []string{
			"ich gehe", "du gehst", "er/sie/es geht", "wir gehen", "ihr geht", "sie/Sie gehen",
		}, rec.Conjugations)
		require.Len(t, rec.Examples, 2)
		assert.Equal(t, models.Example{German: "Wir gehen ins Kino", Russian: "Мы идём в кино"}, rec.Examples[1])
	})

	t.Run("conjugation block is sticky", func(t *testing.T) {
		rec := Parse("sein", "sein\nбыть\nich bin\nbist\n1. Ich bin hier - Я здесь")

		assert.Empty(t, rec.GrammarForms)
		assert.Equal(t, []string{"ich bin", "bist"}, rec.Conjugations)
	})

	t.Run("article headword collapses to noun", func(t *testing.T) {
		rec := Parse("Hund", "der Hund\nсобака\nplural: Hunde\n1. Der Hund bellt - Собака лает")

		assert.Equal(t, "Hund", rec.Original)
		assert.Equal(t, []string{"der", "plural: Hunde"}, rec.GrammarForms)
	})

	t.Run("extra hyphen segments are rejoined", func(t *testing.T) {
		rec := Parse("Mail", "Mail\nписьмо\n1. Eine Mail - ein Brief - Письмо")

		require.Len(t, rec.Examples, 1)
		assert.Equal(t, "Eine Mail", rec.Examples[0].German)
		assert.Equal(t, "ein Brief - Письмо", rec.Examples[0].Russian)
	})

	t.Run("only lines enumerated 1 or 2 are examples", func(t *testing.T) {
		rec := Parse("Haus", "Haus\nдом\n1. Das Haus - Дом\nnote\n3. Drei - Три\n2. Ein Haus - Дом")

		require.Len(t, rec.Examples, 2)
		assert.Equal(t, "Ein Haus", rec.Examples[1].German)
	})

	t.Run("empty response degrades to the query", func(t *testing.T) {
		rec := Parse("Wald", "")

		assert.Equal(t, "Wald", rec.Original)
		assert.Empty(t, rec.Translation)
		assert.Empty(t, rec.Examples)
		assert.Error(t, rec.Validate())
	})

	t.Run("single line response", func(t *testing.T) {
		rec := Parse("Wald", "Wald\r\n")

		assert.Equal(t, "Wald", rec.Original)
		assert.Empty(t, rec.Translation)
	})
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name string
		from state
		line string
		want state
	}{
		{"grammar line", stateHeader, "ist gegangen", stateGrammar},
		{"pronoun starts conjugation", stateGrammar, "ich gehe", stateConjugation},
		{"plural pronoun starts conjugation", stateGrammar, "wir gehen", stateConjugation},
		{"conjugation is sticky", stateConjugation, "gehst", stateConjugation},
		{"digit one starts examples", stateGrammar, "1. Ich gehe", stateExamples},
		{"digit one ends conjugation", stateConjugation, "1. Ich gehe", stateExamples},
		{"digit two before examples is grammar", stateGrammar, "2 Formen", stateGrammar},
		{"examples is terminal", stateExamples, "ich gehe", stateExamples},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transition(tt.from, tt.line), "from %s", tt.from)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	records := []models.VocabularyRecord{
		{
			Original:     "Tisch",
			Translation:  "стол",
			GrammarForms: []string{"der"},
			Examples: []models.Example{
				{German: "Der Tisch ist groß", Russian: "Стол большой"},
				{German: "Ich kaufe einen Tisch", Russian: "Я покупаю стол"},
			},
		},
		{
			Original:     "gehen",
			Translation:  "идти",
			GrammarForms: []string{"ist gegangen"},
			Conjugations: []string{"ich gehe", "du gehst"},
			Examples:     []models.Example{{German: "Ich gehe", Russian: "Я иду"}},
		},
		{Original: "schnell", Translation: "быстро"},
	}

	for _, want := range records {
		t.Run(want.Original, func(t *testing.T) {
			got := Parse(want.Original, Format(want))

			assert.Equal(t, want.Original, got.Original)
			assert.Equal(t, want.Translation, got.Translation)
			assert.Equal(t, want.Examples, got.Examples)
			assert.Equal(t, want.GrammarForms, got.GrammarForms)
			assert.Equal(t, want.Conjugations, got.Conjugations)
		})
	}
}

func TestHasCyrillic(t *testing.T) {
	assert.True(t, HasCyrillic("стол"))
	assert.True(t, HasCyrillic("der стол"))
	assert.False(t, HasCyrillic("Tisch"))
	assert.False(t, HasCyrillic("Größe"))
}
