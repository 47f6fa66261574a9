package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/repository"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	to   string
	text string
}

type fakeLinebot struct {
	pushes []pushed
	err    error
}

func (f *fakeLinebot) ReplyMessageWithMultiple(string, ...linebot.SendingMessage) error { return nil }

func (f *fakeLinebot) PushMessage(to string, message string) error {
	if f.err != nil {
		return f.err
	}
	f.pushes = append(f.pushes, pushed{to, message})
	return nil
}

func (f *fakeLinebot) ParseRequest(*http.Request) ([]*linebot.Event, error) { return nil, nil }

func (f *fakeLinebot) GetMessageContent(string) ([]byte, error) { return nil, nil }

type memoryBackend struct {
	records []models.VocabularyRecord
	err     error
}

func (b *memoryBackend) Load(context.Context) ([]models.VocabularyRecord, int64, error) {
	return b.records, 0, b.err
}

func (b *memoryBackend) Save(_ context.Context, records []models.VocabularyRecord, _ int64) error {
	b.records = records
	return nil
}

func newTestHandler(backend *memoryBackend, bot *fakeLinebot) *Handler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("component", "test")
	return NewHandler(entry, bot, repository.NewVocabularyRepository(entry, backend), 2)
}

func TestEventHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes the hardest words", func(t *testing.T) {
		bot := &fakeLinebot{}
		h := newTestHandler(&memoryBackend{records: []models.VocabularyRecord{
			{Original: "Tisch", Translation: "стол", GrammarForms: []string{"der"}, CorrectAnswers: 1, WrongAnswers: 3},
			{Original: "Haus", Translation: "дом", CorrectAnswers: 5},
			{Original: "gehen", Translation: "идти", CorrectAnswers: 1, WrongAnswers: 1},
			{Original: "Wald", Translation: "лес", WrongAnswers: 2},
		}}, bot)

		result, err := h.EventHandler(ctx, ReminderEvent{UserID: "U1"})
		require.NoError(t, err)
		assert.Equal(t, ReminderResult{UserID: "U1", Words: 2}, result)

		require.Len(t, bot.pushes, 1)
		assert.Equal(t, "U1", bot.pushes[0].to)
		assert.Contains(t, bot.pushes[0].text, "1. ➡️ Wald")
		assert.Contains(t, bot.pushes[0].text, "2. ➡️ der Tisch")
		assert.NotContains(t, bot.pushes[0].text, "gehen")
		assert.NotContains(t, bot.pushes[0].text, "Haus")
	})

	t.Run("nothing to review", func(t *testing.T) {
		bot := &fakeLinebot{}
		h := newTestHandler(&memoryBackend{records: []models.VocabularyRecord{{Original: "Haus", Translation: "дом"}}}, bot)

		result, err := h.EventHandler(ctx, ReminderEvent{UserID: "U1"})
		require.NoError(t, err)
		assert.Zero(t, result.Words)
		assert.Empty(t, bot.pushes)
	})

	t.Run("missing user", func(t *testing.T) {
		h := newTestHandler(&memoryBackend{}, &fakeLinebot{})
		_, err := h.EventHandler(ctx, ReminderEvent{})
		assert.Error(t, err)
	})

	t.Run("storage failure", func(t *testing.T) {
		h := newTestHandler(&memoryBackend{err: errors.New("throttled")}, &fakeLinebot{})
		_, err := h.EventHandler(ctx, ReminderEvent{UserID: "U1"})
		assert.ErrorIs(t, err, models.ErrStorage)
	})

	t.Run("push failure", func(t *testing.T) {
		bot := &fakeLinebot{err: errors.New("quota")}
		h := newTestHandler(&memoryBackend{records: []models.VocabularyRecord{
			{Original: "Wald", Translation: "лес", WrongAnswers: 2},
		}}, bot)
		_, err := h.EventHandler(ctx, ReminderEvent{UserID: "U1"})
		assert.Error(t, err)
	})
}
