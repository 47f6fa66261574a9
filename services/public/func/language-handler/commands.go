package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zungenrede-bot/internal/config"
	"zungenrede-bot/internal/practice"
)

var errInvalidBody = errors.New("request body is not valid JSON")

const helpMessage = `Available commands:
/help - Show this message
/practice - Start practice
/stop - Stop practice
/stats <word> - Practice statistics for a word
/export - Export the vocabulary as JSON
/import - Replace the vocabulary from a JSON file
/clear - Clear the vocabulary
/delete - Delete words (finish with /stopdelete)
/usechatgpt - Use ChatGPT for lookups
/useclaude - Use Claude for lookups
/remind HH:MM - Daily review of your hardest words
/reminder - Show the review reminder
/unremind - Remove the review reminder

Special prefixes:
!: [text] - Check German grammar
-: [text] - Simplify a German sentence
?: [text] - Explain German grammar
??: [question] - Ask anything about German

Send a German or Russian word to translate and save it, or a sentence to translate it.

Examples:
Wald
Я люблю гулять
??: Wie benutzt man den Akkusativ?
!: Ich habe gestern nach Berlin gefahren`

func (h *Handler) handleCommand(ctx context.Context, chatID, text string) []string {
	command, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "/start", "/help":
		return []string{helpMessage}
	case "/practice":
		return []string{h.handlePractice(ctx, chatID)}
	case "/stop":
		return []string{h.handleStop(ctx, chatID)}
	case "/stats":
		return []string{h.handleStats(ctx, arg)}
	case "/export":
		return h.handleExport(ctx)
	case "/import":
		return []string{"📎 Send a .json file exported with /export to replace your vocabulary."}
	case "/clear":
		return []string{h.handleClear(ctx)}
	case "/delete":
		return []string{h.handleDeleteMode(ctx, chatID, true)}
	case "/stopdelete":
		return []string{h.handleDeleteMode(ctx, chatID, false)}
	case "/usechatgpt":
		return []string{h.handleUseProvider(config.ProviderOpenAI, "ChatGPT")}
	case "/useclaude":
		return []string{h.handleUseProvider(config.ProviderAnthropic, "Claude")}
	case "/remind":
		return []string{h.handleRemind(ctx, chatID, arg)}
	case "/reminder":
		return []string{h.handleShowReminder(chatID)}
	case "/unremind":
		return []string{h.handleUnremind(ctx, chatID)}
	}
	return []string{"❌ Unknown command. Send /help to see the available commands."}
}

func (h *Handler) handleDeleteMode(ctx context.Context, chatID string, on bool) string {
	if err := h.deleteModes.SetDeleteMode(ctx, chatID, on); err != nil {
		h.logger.WithError(err).Error("Failed to set delete mode")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	if on {
		return "🗑 Delete mode on. Send the words to delete, then /stopdelete."
	}
	return "Delete mode off."
}

func (h *Handler) handlePractice(ctx context.Context, chatID string) string {
	msg, err := h.engine.Start(ctx, chatID)
	if errors.Is(err, practice.ErrEmptyVocabulary) {
		return "No words to practice yet! Send me a few words first."
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to start practice")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	return msg
}

func (h *Handler) handleStop(ctx context.Context, chatID string) string {
	msg, err := h.engine.Stop(ctx, chatID)
	if errors.Is(err, practice.ErrNoSession) {
		return "Practice mode is not running."
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to stop practice")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	return msg
}

func (h *Handler) handleAnswer(ctx context.Context, chatID, text string) string {
	msg, err := h.engine.Answer(ctx, chatID, text)
	if errors.Is(err, practice.ErrNoSession) {
		return "Practice mode is not running."
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to check practice answer")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	return msg
}

func (h *Handler) handleStats(ctx context.Context, word string) string {
	if word == "" {
		return "Usage: /stats <word>"
	}
	rec, ok, err := h.vocabularyRepo.Find(ctx, word)
	if err != nil {
		h.logger.WithError(err).Error("Failed to find word")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	if !ok {
		return "❌ Word not found."
	}
	if rec.Attempts() == 0 {
		return fmt.Sprintf("📊 %s — %s\nNot practiced yet.", rec.Original, rec.Translation)
	}
	return fmt.Sprintf("📊 %s — %s\nAttempts: %d\nCorrect: %d\nWrong: %d\nAccuracy: %.1f%%",
		rec.Original, rec.Translation, rec.Attempts(), rec.CorrectAnswers, rec.WrongAnswers, rec.Accuracy())
}

func (h *Handler) handleExport(ctx context.Context) []string {
	data, err := h.vocabularyRepo.Export(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to export vocabulary")
		return []string{fmt.Sprintf("❌ Error: %v", err)}
	}
	return []string{"📦 Vocabulary export:", string(data)}
}

func (h *Handler) handleClear(ctx context.Context) string {
	if err := h.vocabularyRepo.Clear(ctx); err != nil {
		h.logger.WithError(err).Error("Failed to clear vocabulary")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	return "🗑 Vocabulary cleared."
}

func (h *Handler) handleDelete(ctx context.Context, word string) string {
	removed, err := h.vocabularyRepo.Delete(ctx, word)
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete word")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	if !removed {
		return "❌ Word not found."
	}
	return "✅ Word deleted successfully."
}

func (h *Handler) handleUseProvider(provider, name string) string {
	if err := h.tutor.Use(provider); err != nil {
		h.logger.WithError(err).Warn("Failed to switch tutor provider")
		return fmt.Sprintf("❌ %s is not configured.", name)
	}
	return fmt.Sprintf("✅ Now using %s.", name)
}

func (h *Handler) handleFile(ctx context.Context, messageID, fileName string) string {
	if !strings.HasSuffix(strings.ToLower(fileName), ".json") {
		return "❌ Please send a .json file."
	}

	data, err := h.linebotClient.GetMessageContent(messageID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to download import file")
		return fmt.Sprintf("❌ Error: %v", err)
	}

	count, err := h.vocabularyRepo.Import(ctx, data)
	if err != nil {
		h.logger.WithError(err).WithField("file", fileName).Warn("Failed to import vocabulary")
		return fmt.Sprintf("❌ Import failed: %v", err)
	}
	return fmt.Sprintf("✅ Imported %d words.", count)
}

func (h *Handler) handleLookup(ctx context.Context, text string) string {
	reply, err := h.translator.Translate(ctx, text)
	if err != nil {
		h.logger.WithError(err).WithField("provider", h.tutor.Active()).Error("Failed to call tutor")
		return "❌ The tutor is not available right now. Please try again later."
	}
	return reply
}
