package practice

import (
	"context"
	"fmt"
	"strings"

	"zungenrede-bot/internal/models"
)

// statsInterval is how often (in attempts) the running summary is appended.
const statsInterval = 10

// Session is one chat's live practice state. It is a value: the engine
// reads it from the table, mutates a copy and writes it back.
type Session struct {
	ID               string                  `json:"id"`
	Current          models.VocabularyRecord `json:"current_item"`
	ExpectingReverse bool                    `json:"expecting_reverse"` // true: answer with Translation, false: with Original
	Attempted        int                     `json:"items_attempted"`
	Correct          int                     `json:"correct_count"`
	Wrong            int                     `json:"wrong_count"`
}

// AnswerKey is the answer-side field, used as the stats lookup key.
func (s Session) AnswerKey() string {
	if s.ExpectingReverse {
		return s.Current.Translation
	}
	return s.Current.Original
}

func (s Session) Accuracy() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted) * 100
}

func (s Session) Summary() string {
	return fmt.Sprintf("📊 Practice stats:\nWords practiced: %d\nCorrect: %d\nWrong: %d\nAccuracy: %.1f%%",
		s.Attempted, s.Correct, s.Wrong, s.Accuracy())
}

// Question renders the prompt for the current item and direction.
func (s Session) Question() string {
	article, isNoun := s.Current.Article()
	if s.ExpectingReverse {
		prompt := s.Current.Original
		if isNoun && !startsWith(prompt, article) {
			prompt = article + " " + prompt
		}
		return "Translate into Russian:\n👅" + prompt
	}
	if isNoun {
		return "Translate into German (don't forget the article!):\n👅" + s.Current.Translation
	}
	return "Translate into German:\n👅" + s.Current.Translation
}

func startsWith(text, word string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], word)
}

// SessionTable maps chat identities to sessions. The engine serializes
// access within one process; a table shared between processes must persist
// every Insert before returning.
type SessionTable interface {
	Get(ctx context.Context, chatID string) (Session, bool, error)
	Insert(ctx context.Context, chatID string, session Session) error
	Remove(ctx context.Context, chatID string) error
}

type memoryTable struct {
	sessions map[string]Session
}

// NewMemoryTable keeps sessions in process memory, for single-process
// drivers and tests.
func NewMemoryTable() SessionTable {
	return &memoryTable{sessions: make(map[string]Session)}
}

func (t *memoryTable) Get(_ context.Context, chatID string) (Session, bool, error) {
	s, ok := t.sessions[chatID]
	return s, ok, nil
}

func (t *memoryTable) Insert(_ context.Context, chatID string, session Session) error {
	t.sessions[chatID] = session
	return nil
}

func (t *memoryTable) Remove(_ context.Context, chatID string) error {
	delete(t.sessions, chatID)
	return nil
}
