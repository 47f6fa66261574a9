package utils

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

const (
	// MaxTextLength is the LINE limit for one text message, in characters.
	MaxTextLength = 5000
	// MaxReplyMessages is how many messages one reply token can carry.
	MaxReplyMessages = 5
	// maxContentSize caps downloaded import files.
	maxContentSize = 4 << 20
)

type LinebotAPI interface {
	ReplyMessageWithMultiple(replyToken string, messages ...linebot.SendingMessage) error
	PushMessage(to string, message string) error
	ParseRequest(req *http.Request) ([]*linebot.Event, error)
	GetMessageContent(messageID string) ([]byte, error)
}

type LineBotClient struct {
	client *linebot.Client
}

func NewLineBotClient(channelSecret string, channelToken string) (*LineBotClient, error) {
	client, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create line bot client: %w", err)
	}
	return &LineBotClient{
		client: client,
	}, nil
}

func (c *LineBotClient) ReplyMessageWithMultiple(replyToken string, messages ...linebot.SendingMessage) error {
	_, err := c.client.ReplyMessage(replyToken, messages...).Do()
	return err
}

func (c *LineBotClient) PushMessage(to string, message string) error {
	_, err := c.client.PushMessage(to, linebot.NewTextMessage(message)).Do()
	return err
}

func (c *LineBotClient) ParseRequest(req *http.Request) ([]*linebot.Event, error) {
	return c.client.ParseRequest(req)
}

func (c *LineBotClient) GetMessageContent(messageID string) ([]byte, error) {
	content, err := c.client.GetMessageContent(messageID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message content: %w", err)
	}
	defer content.Content.Close()

	data, err := io.ReadAll(io.LimitReader(content.Content, maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read message content: %w", err)
	}
	if len(data) > maxContentSize {
		return nil, fmt.Errorf("message content exceeds %d bytes", maxContentSize)
	}
	return data, nil
}

// SplitText cuts text into chunks of at most limit characters, preferring
// to break after a newline.
func SplitText(text string, limit int) []string {
	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		cut := limit
		if i := strings.LastIndex(string(runes[:limit]), "\n"); i > 0 {
			cut = utf8.RuneCountInString(string(runes[:limit])[:i+1])
		}
		chunks = append(chunks, string(runes[:cut]))
		text = string(runes[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
