// Package lookup answers free text with the tutor and keeps new words in the
// vocabulary.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zungenrede-bot/internal/input"
	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/parser"
	"zungenrede-bot/internal/utils"

	"github.com/sirupsen/logrus"
)

type Store interface {
	Find(ctx context.Context, key string) (models.VocabularyRecord, bool, error)
	Upsert(ctx context.Context, record models.VocabularyRecord) error
}

type Translator struct {
	logger  *logrus.Entry
	tutor   utils.TutorAPI
	prompts utils.TutorPrompts
	store   Store
}

func NewTranslator(logger *logrus.Entry, tutor utils.TutorAPI, prompts utils.TutorPrompts, store Store) *Translator {
	return &Translator{
		logger:  logger,
		tutor:   tutor,
		prompts: prompts,
		store:   store,
	}
}

// Translate returns the reply for one free-text message. Known words come
// from the store; new single words are looked up, parsed and saved.
// Only a tutor failure is returned as an error.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	kind := input.Analyze(text)
	logger := t.logger.WithField("kind", kind.String())

	if kind.IsWord() {
		rec, ok, err := t.find(ctx, text)
		if err != nil {
			logger.WithError(err).Error("Failed to look up stored word")
		} else if ok {
			return rec.String(), nil
		}
	}

	answer, err := t.tutor.Complete(ctx, t.prompts.For(kind), input.Strip(text, kind))
	if err != nil {
		return "", fmt.Errorf("failed to call tutor: %w", err)
	}

	switch {
	case kind.IsWord():
		rec := parser.Parse(text, answer)
		if err := t.store.Upsert(ctx, rec); err != nil {
			if errors.Is(err, models.ErrValidation) {
				logger.WithError(err).Warn("Tutor answer did not yield a valid record")
			} else {
				logger.WithError(err).Error("Failed to save word")
			}
		}
		return rec.String(), nil
	case kind.IsSentence():
		return fmt.Sprintf("%s ➜ %s", text, answer), nil
	}
	return answer, nil
}

// find tries text as typed, then without a leading article, since records
// usually keep the bare noun.
func (t *Translator) find(ctx context.Context, text string) (models.VocabularyRecord, bool, error) {
	rec, ok, err := t.store.Find(ctx, strings.TrimSpace(text))
	if err != nil || ok {
		return rec, ok, err
	}
	words := strings.Fields(text)
	if len(words) != 2 || !models.IsArticle(words[0]) {
		return rec, false, nil
	}
	return t.store.Find(ctx, words[1])
}
