// Package practice runs per-chat vocabulary drills: it asks a question,
// grades the reply, feeds the result back into the store and moves on only
// after a correct answer.
package practice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"zungenrede-bot/internal/matcher"
	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/sampler"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyVocabulary = errors.New("no words to practice yet")
	ErrNoSession       = errors.New("no active practice session")
)

// Store is the part of the vocabulary store the engine needs.
type Store interface {
	ReadAll(ctx context.Context) ([]models.VocabularyRecord, error)
	UpdateStats(ctx context.Context, key string, wasCorrect bool) error
}

type Engine struct {
	// mu is held across every table read-modify-write, store I/O included.
	// One lock for all chats in this process; other processes share the
	// session table and the versioned store, not this lock.
	mu       sync.Mutex
	logger   *logrus.Entry
	store    Store
	sessions SessionTable
	sampler  *sampler.Sampler
	matcher  *matcher.Matcher
	coin     sampler.Rand
}

func NewEngine(logger *logrus.Entry, store Store, sessions SessionTable, smp *sampler.Sampler, m *matcher.Matcher, coin sampler.Rand) *Engine {
	if sessions == nil {
		sessions = NewMemoryTable()
	}
	if smp == nil {
		smp = sampler.New(nil)
	}
	if m == nil {
		m = matcher.New(nil)
	}
	if coin == nil {
		coin = sampler.NewRand()
	}
	return &Engine{
		logger:   logger,
		store:    store,
		sessions: sessions,
		sampler:  smp,
		matcher:  m,
		coin:     coin,
	}
}

// Start opens (or restarts) the chat's session and returns the first
// question.
func (e *Engine) Start(ctx context.Context, chatID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.store.ReadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start practice: %w", err)
	}
	item, ok := e.sampler.Sample(records)
	if !ok {
		return "", ErrEmptyVocabulary
	}

	session := Session{
		ID:               uuid.NewString(),
		Current:          item,
		ExpectingReverse: sampler.CoinFlip(e.coin),
	}
	if err := e.sessions.Insert(ctx, chatID, session); err != nil {
		return "", fmt.Errorf("failed to save practice session: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"chatId":    chatID,
		"sessionId": session.ID,
		"words":     len(records),
	}).Info("Practice session started")

	return "Practice mode started! Use /stop to end practice.\n\n" + session.Question(), nil
}

// Answer grades text against the current item. The returned message is the
// feedback, the running summary every tenth attempt and, after a correct
// answer, the next question.
func (e *Engine) Answer(ctx context.Context, chatID, text string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("failed to load practice session: %w", err)
	}
	if !ok {
		return "", ErrNoSession
	}

	outcome := e.matcher.Check(text, session.Current, session.ExpectingReverse)
	correct := outcome.IsCorrect()

	if err := e.store.UpdateStats(ctx, session.AnswerKey(), correct); err != nil {
		return "", fmt.Errorf("failed to record answer: %w", err)
	}

	session.Attempted++
	if correct {
		session.Correct++
	} else {
		session.Wrong++
	}

	reply := outcome.Message()
	if session.Attempted%statsInterval == 0 {
		reply += "\n\n" + session.Summary()
	}

	logger := e.logger.WithFields(logrus.Fields{
		"chatId":    chatID,
		"sessionId": session.ID,
		"outcome":   outcome.Kind.String(),
	})

	if correct {
		if next, ok := e.next(ctx, logger); ok {
			session.Current = next
			session.ExpectingReverse = sampler.CoinFlip(e.coin)
			reply += "\n\n" + session.Question()
		}
	}

	if err := e.sessions.Insert(ctx, chatID, session); err != nil {
		return "", fmt.Errorf("failed to save practice session: %w", err)
	}
	logger.Debug("Practice answer graded")
	return reply, nil
}

// next draws the following item. A failed read or an emptied store keeps
// the session on its current item.
func (e *Engine) next(ctx context.Context, logger *logrus.Entry) (models.VocabularyRecord, bool) {
	records, err := e.store.ReadAll(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to read vocabulary for next question")
		return models.VocabularyRecord{}, false
	}
	item, ok := e.sampler.Sample(records)
	if !ok {
		logger.Warn("Vocabulary emptied during practice")
	}
	return item, ok
}

// Stop ends the chat's session and returns the closing message.
func (e *Engine) Stop(ctx context.Context, chatID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("failed to load practice session: %w", err)
	}
	if !ok {
		return "", ErrNoSession
	}
	if err := e.sessions.Remove(ctx, chatID); err != nil {
		return "", fmt.Errorf("failed to remove practice session: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"chatId":    chatID,
		"sessionId": session.ID,
		"attempted": session.Attempted,
	}).Info("Practice session stopped")

	if session.Attempted == 0 {
		return "Practice mode stopped!", nil
	}
	return "Practice mode stopped!\n" + session.Summary(), nil
}

func (e *Engine) Active(ctx context.Context, chatID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to load practice session: %w", err)
	}
	return ok, nil
}
