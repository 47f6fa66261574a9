package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const vocabularySortKey = "records"

// vocabularyItem stores the whole collection as a JSON string, so the
// collection is bounded by the 400 KB DynamoDB item limit. Version grows by
// one on every write and guards concurrent writers in separate processes.
type vocabularyItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	Records   string `dynamodbav:"records"`
	Count     int    `dynamodbav:"count"`
	Version   int64  `dynamodbav:"version"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// DynamoDBBackend keeps one collection in a single item.
type DynamoDBBackend struct {
	dynamodb   utils.DynamoDbAPI
	tableName  string
	collection string
}

func NewDynamoDBBackend(dynamodb utils.DynamoDbAPI, tableName, collection string) *DynamoDBBackend {
	return &DynamoDBBackend{
		dynamodb:   dynamodb,
		tableName:  tableName,
		collection: collection,
	}
}

func (b *DynamoDBBackend) partitionKey() string {
	return b.collection + "#vocabulary"
}

func (b *DynamoDBBackend) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: b.partitionKey()},
		"sk": &types.AttributeValueMemberS{Value: vocabularySortKey},
	}
}

// Load reads the item, creating an empty collection when it is missing.
func (b *DynamoDBBackend) Load(ctx context.Context) ([]models.VocabularyRecord, int64, error) {
	item, err := b.get(ctx)
	if err != nil {
		return nil, 0, err
	}
	if item == nil {
		err := b.Save(ctx, []models.VocabularyRecord{}, 0)
		if err == nil {
			return []models.VocabularyRecord{}, 1, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, 0, err
		}
		// Created by another writer in the meantime.
		if item, err = b.get(ctx); err != nil {
			return nil, 0, err
		}
		if item == nil {
			return nil, 0, fmt.Errorf("vocabulary item %s vanished after create", b.partitionKey())
		}
	}

	var records []models.VocabularyRecord
	if err := json.Unmarshal([]byte(item.Records), &records); err != nil {
		return nil, 0, fmt.Errorf("failed to parse records field: %w", err)
	}
	return records, item.Version, nil
}

func (b *DynamoDBBackend) get(ctx context.Context) (*vocabularyItem, error) {
	result, err := b.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(b.tableName),
		Key:            b.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary item: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item vocabularyItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vocabulary item: %w", err)
	}
	return &item, nil
}

// Save writes version+1 if the stored item is still at version. Version 0
// means the item is new or predates versioning.
func (b *DynamoDBBackend) Save(ctx context.Context, records []models.VocabularyRecord, version int64) error {
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	item, err := attributevalue.MarshalMap(vocabularyItem{
		PK:        b.partitionKey(),
		SK:        vocabularySortKey,
		Records:   string(recordsJSON),
		Count:     len(records),
		Version:   version + 1,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal vocabulary item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:                aws.String(b.tableName),
		Item:                     item,
		ExpressionAttributeNames: map[string]string{"#version": "version"},
	}
	if version == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(pk) OR attribute_not_exists(#version)")
	} else {
		input.ConditionExpression = aws.String("#version = :version")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(version, 10)},
		}
	}

	_, err = b.dynamodb.PutItem(ctx, input)
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return fmt.Errorf("%w: %s at version %d", ErrVersionConflict, b.partitionKey(), version)
	}
	if err != nil {
		return fmt.Errorf("failed to put vocabulary item: %w", err)
	}
	return nil
}
