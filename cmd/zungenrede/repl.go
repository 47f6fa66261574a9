package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"zungenrede-bot/internal/config"
	"zungenrede-bot/internal/lookup"
	"zungenrede-bot/internal/practice"
	"zungenrede-bot/internal/utils"

	"github.com/sirupsen/logrus"
)

// localChat is the single session key of a terminal run.
const localChat = "local"

const usage = `Commands:
/help              show this message
/practice          start practice
/stop              stop practice
/stats <word>      practice statistics for a word
/export [file]     print the vocabulary as JSON or write it to file
/import <file>     replace the vocabulary from a JSON file
/delete <word>     delete a word
/clear             clear the vocabulary
/usechatgpt        use ChatGPT for lookups
/useclaude         use Claude for lookups
/quit              leave

Prefixes: "!: " grammar check, "-: " simplify, "?: " explain, "??: " ask anything.
Anything else is translated; single words are saved.`

type providerSwitch interface {
	Use(name string) error
}

type repl struct {
	logger     *logrus.Entry
	out        io.Writer
	store      utils.VocabularyRepository
	engine     *practice.Engine
	tutor      providerSwitch
	translator *lookup.Translator
}

// Run reads one message per line until EOF, /quit or ctx is done.
func (r *repl) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, usage)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "\n> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return nil
		}

		reply, quit := r.handle(ctx, scanner.Text())
		if reply != "" {
			fmt.Fprintln(r.out, reply)
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (r *repl) handle(ctx context.Context, line string) (string, bool) {
	text := strings.TrimSpace(line)
	if text == "" {
		return "", false
	}

	if strings.HasPrefix(text, "/") {
		return r.command(ctx, text)
	}

	practicing, err := r.engine.Active(ctx, localChat)
	if err != nil {
		return errorReply(err), false
	}
	if practicing {
		reply, err := r.engine.Answer(ctx, localChat, text)
		if err != nil {
			return errorReply(err), false
		}
		return reply, false
	}

	reply, err := r.translator.Translate(ctx, text)
	if err != nil {
		r.logger.WithError(err).Error("Failed to translate")
		return errorReply(err), false
	}
	return reply, false
}

func (r *repl) command(ctx context.Context, text string) (string, bool) {
	command, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "/help", "/start":
		return usage, false
	case "/quit", "/exit":
		msg, err := r.engine.Stop(ctx, localChat)
		if err != nil {
			return "", true
		}
		return msg, true
	case "/practice":
		msg, err := r.engine.Start(ctx, localChat)
		if errors.Is(err, practice.ErrEmptyVocabulary) {
			return "No words to practice yet! Translate a few words first.", false
		}
		if err != nil {
			return errorReply(err), false
		}
		return msg, false
	case "/stop":
		msg, err := r.engine.Stop(ctx, localChat)
		if errors.Is(err, practice.ErrNoSession) {
			return "Practice mode is not running.", false
		}
		return msg, false
	case "/stats":
		return r.stats(ctx, arg), false
	case "/export":
		return r.export(ctx, arg), false
	case "/import":
		return r.importFile(ctx, arg), false
	case "/delete":
		return r.delete(ctx, arg), false
	case "/clear":
		if err := r.store.Clear(ctx); err != nil {
			return errorReply(err), false
		}
		return "🗑 Vocabulary cleared.", false
	case "/usechatgpt":
		return r.useProvider(config.ProviderOpenAI, "ChatGPT"), false
	case "/useclaude":
		return r.useProvider(config.ProviderAnthropic, "Claude"), false
	}
	return "❌ Unknown command. Type /help to see the available commands.", false
}

func (r *repl) stats(ctx context.Context, word string) string {
	if word == "" {
		return "Usage: /stats <word>"
	}
	rec, ok, err := r.store.Find(ctx, word)
	if err != nil {
		return errorReply(err)
	}
	if !ok {
		return "❌ Word not found."
	}
	return fmt.Sprintf("📊 %s — %s\nAttempts: %d\nCorrect: %d\nWrong: %d\nAccuracy: %.1f%%",
		rec.Original, rec.Translation, rec.Attempts(), rec.CorrectAnswers, rec.WrongAnswers, rec.Accuracy())
}

func (r *repl) export(ctx context.Context, path string) string {
	data, err := r.store.Export(ctx)
	if err != nil {
		return errorReply(err)
	}
	if path == "" {
		return string(data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errorReply(fmt.Errorf("failed to write export: %w", err))
	}
	return fmt.Sprintf("📦 Vocabulary exported to %s.", path)
}

func (r *repl) importFile(ctx context.Context, path string) string {
	if path == "" {
		return "Usage: /import <file>"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errorReply(fmt.Errorf("failed to read import file: %w", err))
	}
	count, err := r.store.Import(ctx, data)
	if err != nil {
		return fmt.Sprintf("❌ Import failed: %v", err)
	}
	return fmt.Sprintf("✅ Imported %d words.", count)
}

func (r *repl) delete(ctx context.Context, word string) string {
	if word == "" {
		return "Usage: /delete <word>"
	}
	removed, err := r.store.Delete(ctx, word)
	if err != nil {
		return errorReply(err)
	}
	if !removed {
		return "❌ Word not found."
	}
	return "✅ Word deleted successfully."
}

func (r *repl) useProvider(provider, name string) string {
	if err := r.tutor.Use(provider); err != nil {
		return fmt.Sprintf("❌ %s is not configured.", name)
	}
	return fmt.Sprintf("✅ Now using %s.", name)
}

func errorReply(err error) string {
	return fmt.Sprintf("❌ Error: %v", err)
}
