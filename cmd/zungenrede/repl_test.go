package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"zungenrede-bot/internal/config"
	"zungenrede-bot/internal/lookup"
	"zungenrede-bot/internal/practice"
	"zungenrede-bot/internal/repository"
	"zungenrede-bot/internal/sampler"
	"zungenrede-bot/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

type stubTutor struct {
	answer string
	calls  int
}

func (t *stubTutor) Complete(context.Context, string, string) (string, error) {
	t.calls++
	return t.answer, nil
}

func newTestRepl(t *testing.T) (*repl, *stubTutor, *bytes.Buffer) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("component", "test")

	backend, err := repository.NewFileBackend(filepath.Join(t.TempDir(), "vocab.json"))
	require.NoError(t, err)
	store := repository.NewVocabularyRepository(entry, backend)

	claude := &stubTutor{answer: "gehen\nидти\n1. Wir gehen nach Hause - Мы идём домой"}
	tutor, err := utils.NewTutorSwitch(entry, config.ProviderAnthropic, map[string]utils.TutorAPI{
		config.ProviderAnthropic: claude,
	})
	require.NoError(t, err)

	prompts, err := utils.LoadTutorPrompts()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &repl{
		logger:     entry,
		out:        out,
		store:      store,
		engine:     practice.NewEngine(entry, store, practice.NewMemoryTable(), sampler.New(constRand(0)), nil, constRand(0.7)),
		tutor:      tutor,
		translator: lookup.NewTranslator(entry, tutor, prompts, store),
	}, claude, out
}

func TestRunPracticeSession(t *testing.T) {
	r, claude, out := newTestRepl(t)

	in := strings.NewReader("gehen\n/practice\nlaufen\ngehen\n/quit\nnever read\n")
	require.NoError(t, r.Run(context.Background(), in))

	got := out.String()
	assert.Contains(t, got, "➡️ gehen\n⬅️ идти")
	assert.Contains(t, got, "Translate into German:\n👅идти")
	assert.Contains(t, got, "❌ Wrong! Correct answer: gehen")
	assert.Contains(t, got, "✅ Correct!")
	assert.Contains(t, got, "Practice mode stopped!\n📊 Practice stats:\nWords practiced: 2")
	assert.Equal(t, 1, claude.calls)
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRepl(t)

	say := func(line string) string {
		reply, quit := r.handle(ctx, line)
		assert.False(t, quit)
		return reply
	}

	assert.Contains(t, say("/practice"), "No words to practice yet")
	assert.Equal(t, "Practice mode is not running.", say("/stop"))
	assert.Equal(t, "Usage: /stats <word>", say("/stats"))
	assert.Contains(t, say("/unknown"), "Unknown command")
	assert.Equal(t, "❌ ChatGPT is not configured.", say("/usechatgpt"))
	assert.Equal(t, "✅ Now using Claude.", say("/useclaude"))

	say("gehen")
	assert.Contains(t, say("/stats идти"), "Attempts: 0")

	path := filepath.Join(t.TempDir(), "export.json")
	assert.Contains(t, say("/export "+path), "exported to")
	assert.Contains(t, say("/export"), `"original": "gehen"`)

	assert.Equal(t, "🗑 Vocabulary cleared.", say("/clear"))
	assert.Equal(t, "❌ Word not found.", say("/stats gehen"))

	assert.Equal(t, "✅ Imported 1 words.", say("/import "+path))
	assert.Equal(t, "✅ Word deleted successfully.", say("/delete gehen"))
	assert.Equal(t, "❌ Word not found.", say("/delete gehen"))

	assert.Contains(t, say("/import "+filepath.Join(t.TempDir(), "missing.json")), "failed to read import file")
}
