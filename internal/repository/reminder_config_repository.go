package repository

import (
	"context"
	"fmt"
	"time"

	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

type reminderConfigRepository struct {
	logger    *logrus.Entry
	dynamodb  utils.DynamoDbAPI
	tableName string
}

func NewReminderConfigRepository(logger *logrus.Entry, dynamodb utils.DynamoDbAPI, tableName string) utils.ReminderConfigRepository {
	return &reminderConfigRepository{
		logger:    logger,
		dynamodb:  dynamodb,
		tableName: tableName,
	}
}

func (r *reminderConfigRepository) SaveReminderConfig(userID, pushTime, timezone string, enabled bool) error {
	item, err := attributevalue.MarshalMap(models.ReminderConfig{
		UserID:    userID,
		PushTime:  pushTime,
		Timezone:  timezone,
		Enabled:   enabled,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder config: %w", err)
	}

	_, err = r.dynamodb.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to save reminder config to DynamoDB")
		return fmt.Errorf("failed to save reminder config: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"userId":   userID,
		"pushTime": pushTime,
		"enabled":  enabled,
	}).Info("Successfully saved reminder config")

	return nil
}

func (r *reminderConfigRepository) GetReminderConfig(userID string) (*models.ReminderConfig, error) {
	result, err := r.dynamodb.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get reminder config from DynamoDB")
		return nil, fmt.Errorf("failed to get reminder config: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var config models.ReminderConfig
	if err := attributevalue.UnmarshalMap(result.Item, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reminder config: %w", err)
	}
	return &config, nil
}
