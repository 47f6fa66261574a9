package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zungenrede-bot/internal/practice"
	"zungenrede-bot/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

const (
	practiceSortKey   = "practice"
	deleteModeSortKey = "deleteMode"

	// chatStateTTL is how long an untouched session or delete mode lives.
	// Requires TTL on the expiresAt attribute of the table.
	chatStateTTL = 24 * time.Hour
)

type chatStateItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	State     string `dynamodbav:"state,omitempty"`
	UpdatedAt string `dynamodbav:"updatedAt"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`
}

// ChatStateRepository keeps per-chat practice sessions and delete mode in
// the vocabulary table, so every Lambda instance sees the same state.
type ChatStateRepository struct {
	logger    *logrus.Entry
	dynamodb  utils.DynamoDbAPI
	tableName string
	now       func() time.Time
}

var (
	_ practice.SessionTable      = (*ChatStateRepository)(nil)
	_ utils.DeleteModeRepository = (*ChatStateRepository)(nil)
)

func NewChatStateRepository(logger *logrus.Entry, dynamodb utils.DynamoDbAPI, tableName string) *ChatStateRepository {
	return &ChatStateRepository{
		logger:    logger,
		dynamodb:  dynamodb,
		tableName: tableName,
		now:       time.Now,
	}
}

func chatKey(chatID, sortKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: chatID + "#chat"},
		"sk": &types.AttributeValueMemberS{Value: sortKey},
	}
}

// get returns nil for missing or expired items. TTL deletion is lazy, so
// expiry is checked here too.
func (r *ChatStateRepository) get(ctx context.Context, chatID, sortKey string) (*chatStateItem, error) {
	result, err := r.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            chatKey(chatID, sortKey),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get chat state from DynamoDB")
		return nil, fmt.Errorf("failed to get chat state: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item chatStateItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat state: %w", err)
	}
	if item.ExpiresAt > 0 && item.ExpiresAt <= r.now().Unix() {
		return nil, nil
	}
	return &item, nil
}

func (r *ChatStateRepository) put(ctx context.Context, chatID, sortKey, state string) error {
	now := r.now().UTC()
	item, err := attributevalue.MarshalMap(chatStateItem{
		PK:        chatID + "#chat",
		SK:        sortKey,
		State:     state,
		UpdatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(chatStateTTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal chat state: %w", err)
	}

	_, err = r.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to save chat state to DynamoDB")
		return fmt.Errorf("failed to save chat state: %w", err)
	}
	return nil
}

func (r *ChatStateRepository) remove(ctx context.Context, chatID, sortKey string) error {
	_, err := r.dynamodb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       chatKey(chatID, sortKey),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete chat state from DynamoDB")
		return fmt.Errorf("failed to delete chat state: %w", err)
	}
	return nil
}

func (r *ChatStateRepository) Get(ctx context.Context, chatID string) (practice.Session, bool, error) {
	item, err := r.get(ctx, chatID, practiceSortKey)
	if err != nil || item == nil {
		return practice.Session{}, false, err
	}

	var session practice.Session
	if err := json.Unmarshal([]byte(item.State), &session); err != nil {
		return practice.Session{}, false, fmt.Errorf("failed to parse practice session: %w", err)
	}
	return session, true, nil
}

func (r *ChatStateRepository) Insert(ctx context.Context, chatID string, session practice.Session) error {
	state, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal practice session: %w", err)
	}
	return r.put(ctx, chatID, practiceSortKey, string(state))
}

func (r *ChatStateRepository) Remove(ctx context.Context, chatID string) error {
	return r.remove(ctx, chatID, practiceSortKey)
}

func (r *ChatStateRepository) InDeleteMode(ctx context.Context, chatID string) (bool, error) {
	item, err := r.get(ctx, chatID, deleteModeSortKey)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

func (r *ChatStateRepository) SetDeleteMode(ctx context.Context, chatID string, on bool) error {
	if !on {
		return r.remove(ctx, chatID, deleteModeSortKey)
	}
	if err := r.put(ctx, chatID, deleteModeSortKey, ""); err != nil {
		return err
	}
	r.logger.WithField("chatId", chatID).Info("Delete mode on")
	return nil
}
