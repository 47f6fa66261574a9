package main

import (
	"context"
	"errors"
	"fmt"

	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	logger         *logrus.Entry
	linebotClient  utils.LinebotAPI
	vocabularyRepo utils.VocabularyRepository
	reviewSize     int
}

// ReminderEvent is the payload of the schedule target and of the immediate
// invoke from the webhook.
type ReminderEvent struct {
	UserID string `json:"userId"`
}

type ReminderResult struct {
	UserID string `json:"userId"`
	Words  int    `json:"words"`
}

func NewHandler(logger *logrus.Entry, linebotClient utils.LinebotAPI, vocabularyRepo utils.VocabularyRepository, reviewSize int) *Handler {
	return &Handler{
		logger:         logger,
		linebotClient:  linebotClient,
		vocabularyRepo: vocabularyRepo,
		reviewSize:     reviewSize,
	}
}

func (h *Handler) EventHandler(ctx context.Context, event ReminderEvent) (ReminderResult, error) {
	if event.UserID == "" {
		return ReminderResult{}, errors.New("reminder event has no userId")
	}
	logger := h.logger.WithField("userId", event.UserID)

	records, err := h.vocabularyRepo.Hardest(ctx, h.reviewSize)
	if err != nil {
		logger.WithError(err).Error("Failed to get words to review")
		return ReminderResult{}, fmt.Errorf("failed to get words to review: %w", err)
	}
	if len(records) == 0 {
		logger.Info("Nothing to review")
		return ReminderResult{UserID: event.UserID}, nil
	}

	for _, chunk := range utils.SplitText(models.FormatReviewDigest(records), utils.MaxTextLength) {
		if err := h.linebotClient.PushMessage(event.UserID, chunk); err != nil {
			logger.WithError(err).Error("Failed to send reminder message")
			return ReminderResult{}, fmt.Errorf("failed to push review: %w", err)
		}
	}

	logger.WithField("words", len(records)).Info("Successfully sent reminder message")
	return ReminderResult{UserID: event.UserID, Words: len(records)}, nil
}
