package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"fmt"
	"strings"

	"zungenrede-bot/internal/config"
	"zungenrede-bot/internal/lookup"
	"zungenrede-bot/internal/practice"
	"zungenrede-bot/internal/utils"

	"github.com/aws/aws-lambda-go/events"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
)

// Tutor is a switchable tutor lookup.
type Tutor interface {
	utils.TutorAPI
	Use(name string) error
	Active() string
}

type Deps struct {
	Linebot    utils.LinebotAPI
	Tutor      Tutor
	Prompts    utils.TutorPrompts
	Vocabulary utils.VocabularyRepository
	Reminders  utils.ReminderConfigRepository
	Engine     *practice.Engine
	Scheduler  utils.SchedulerAPI
	Lambda     utils.LambdaAPI

	// DeleteModes is shared by all instances, like the engine's session table.
	DeleteModes utils.DeleteModeRepository
}

type Handler struct {
	logger          *logrus.Entry
	cfg             *config.Handler
	linebotClient   utils.LinebotAPI
	tutor           Tutor
	translator      *lookup.Translator
	vocabularyRepo  utils.VocabularyRepository
	reminderRepo    utils.ReminderConfigRepository
	engine          *practice.Engine
	schedulerClient utils.SchedulerAPI
	lambdaClient    utils.LambdaAPI
	deleteModes     utils.DeleteModeRepository
}

func NewHandler(logger *logrus.Entry, cfg *config.Handler, deps Deps) *Handler {
	return &Handler{
		logger:          logger,
		cfg:             cfg,
		linebotClient:   deps.Linebot,
		tutor:           deps.Tutor,
		translator:      lookup.NewTranslator(logger, deps.Tutor, deps.Prompts, deps.Vocabulary),
		vocabularyRepo:  deps.Vocabulary,
		reminderRepo:    deps.Reminders,
		engine:          deps.Engine,
		schedulerClient: deps.Scheduler,
		lambdaClient:    deps.Lambda,
		deleteModes:     deps.DeleteModes,
	}
}

func (h *Handler) EventHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	messageEvents, err := h.RequestParser(request)
	if err != nil {
		h.logger.WithError(err).Error("Failed to parse request")
		return events.APIGatewayProxyResponse{
			StatusCode: 400,
			Body:       "Bad Request",
		}, nil
	}

	for _, event := range messageEvents {
		if event.Source == nil {
			continue
		}
		chatID := chatIdentity(event.Source)
		logger := h.logger.WithFields(logrus.Fields{
			"event_type": event.Type,
			"user_id":    event.Source.UserID,
			"chat_id":    chatID,
		})
		logger.Info("event handling")

		switch event.Type {
		case linebot.EventTypeFollow, linebot.EventTypeJoin:
			h.reply(event.ReplyToken, chatID, []string{helpMessage})
		case linebot.EventTypeMessage:
			switch message := event.Message.(type) {
			case *linebot.TextMessage:
				logger.WithField("text", message.Text).Info("Received text message")
				h.reply(event.ReplyToken, chatID, h.Respond(ctx, chatID, message.Text))
			case *linebot.FileMessage:
				logger.WithField("file", message.FileName).Info("Received file message")
				h.reply(event.ReplyToken, chatID, []string{h.handleFile(ctx, message.ID, message.FileName)})
			}
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Body:       "OK",
	}, nil
}

func (h *Handler) RequestParser(request events.APIGatewayProxyRequest) ([]*linebot.Event, error) {
	if !json.Valid([]byte(request.Body)) {
		return nil, errInvalidBody
	}

	req, err := http.NewRequest(http.MethodPost, "", bytes.NewBufferString(request.Body))
	if err != nil {
		return nil, err
	}
	req.Header = make(http.Header)
	for key, value := range request.Headers {
		req.Header.Set(key, value)
	}

	messageEvents, err := h.linebotClient.ParseRequest(req)
	if err != nil {
		return nil, err
	}
	return messageEvents, nil
}

// chatIdentity keys sessions and reminders: group, then room, then user.
func chatIdentity(source *linebot.EventSource) string {
	switch {
	case source.GroupID != "":
		return source.GroupID
	case source.RoomID != "":
		return source.RoomID
	}
	return source.UserID
}

// reply sends the first messages with the reply token and pushes the rest.
func (h *Handler) reply(replyToken, chatID string, texts []string) {
	var chunks []string
	for _, text := range texts {
		chunks = append(chunks, utils.SplitText(text, utils.MaxTextLength)...)
	}
	if len(chunks) == 0 {
		return
	}

	n := min(len(chunks), utils.MaxReplyMessages)
	messages := make([]linebot.SendingMessage, 0, n)
	for _, chunk := range chunks[:n] {
		messages = append(messages, linebot.NewTextMessage(chunk))
	}
	if err := h.linebotClient.ReplyMessageWithMultiple(replyToken, messages...); err != nil {
		h.logger.WithError(err).Error("Failed to reply message")
		return
	}

	for _, chunk := range chunks[n:] {
		if err := h.linebotClient.PushMessage(chatID, chunk); err != nil {
			h.logger.WithError(err).Error("Failed to push message")
			return
		}
	}
}

// Respond routes one text message and returns the reply texts.
func (h *Handler) Respond(ctx context.Context, chatID, text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return h.handleCommand(ctx, chatID, text)
	}

	practicing, err := h.engine.Active(ctx, chatID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load practice session")
		return []string{fmt.Sprintf("❌ Error: %v", err)}
	}
	if practicing {
		return []string{h.handleAnswer(ctx, chatID, text)}
	}

	deleting, err := h.deleteModes.InDeleteMode(ctx, chatID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load delete mode")
		return []string{fmt.Sprintf("❌ Error: %v", err)}
	}
	if deleting {
		return []string{h.handleDelete(ctx, text)}
	}

	return []string{h.handleLookup(ctx, text)}
}
