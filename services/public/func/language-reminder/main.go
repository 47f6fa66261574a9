package main

import (
	"context"

	"zungenrede-bot/internal/config"
	"zungenrede-bot/internal/repository"
	"zungenrede-bot/internal/utils"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "language-reminder"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  TIMESTAMP,
			logrus.FieldKeyLevel: SEVERITY,
			logrus.FieldKeyMsg:   MESSAGE,
		},
	})
	logger := logrus.WithField(COMPONENT, SERVICENAME)

	cfg, err := config.LoadReminder()
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		panic(err)
	}

	linebotClient, err := utils.NewLineBotClient(cfg.ChannelSecret, cfg.ChannelToken)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize LINE Bot")
		panic(err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	dynamodbClient := dynamodb.NewFromConfig(awsCfg)

	backend := repository.NewDynamoDBBackend(dynamodbClient, cfg.VocabularyTableName, cfg.VocabularyCollection)
	vocabularyRepo := repository.NewVocabularyRepository(logger, backend)

	handler := NewHandler(logger, linebotClient, vocabularyRepo, cfg.ReviewSize)

	lambda.Start(handler.EventHandler)
}
