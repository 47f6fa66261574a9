package utils

import (
	"context"

	"zungenrede-bot/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDbAPI defines the DynamoDB operations needed by our application
type DynamoDbAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// VocabularyRepository is the vocabulary store. Every mutating call is one
// read-modify-write transaction; there is no raw write access.
type VocabularyRepository interface {
	ReadAll(ctx context.Context) ([]models.VocabularyRecord, error)
	Upsert(ctx context.Context, record models.VocabularyRecord) error
	Find(ctx context.Context, key string) (models.VocabularyRecord, bool, error)
	UpdateStats(ctx context.Context, key string, wasCorrect bool) error
	Delete(ctx context.Context, key string) (bool, error)
	Import(ctx context.Context, payload []byte) (int, error)
	Export(ctx context.Context) ([]byte, error)
	Clear(ctx context.Context) error
	Hardest(ctx context.Context, n int) ([]models.VocabularyRecord, error)
}

// ReminderConfigRepository defines review reminder settings operations
type ReminderConfigRepository interface {
	SaveReminderConfig(userID, pushTime, timezone string, enabled bool) error
	GetReminderConfig(userID string) (*models.ReminderConfig, error)
}

// DeleteModeRepository tracks which chats are deleting words.
type DeleteModeRepository interface {
	InDeleteMode(ctx context.Context, chatID string) (bool, error)
	SetDeleteMode(ctx context.Context, chatID string, on bool) error
}
