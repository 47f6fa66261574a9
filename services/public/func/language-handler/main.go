package main

import (
	"context"
	_ "time/tzdata"

	"zungenrede-bot/internal/config"
	"zungenrede-bot/internal/practice"
	"zungenrede-bot/internal/repository"
	"zungenrede-bot/internal/utils"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "language-handler"
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

	cfg, err := config.LoadHandler()
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		panic(err)
	}

	linebotClient, err := utils.NewLineBotClient(cfg.ChannelSecret, cfg.ChannelToken)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize LINE Bot")
		panic(err)
	}

	tutor, err := utils.NewTutor(logger, cfg.Tutor)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tutor")
		panic(err)
	}

	prompts, err := utils.LoadTutorPrompts()
	if err != nil {
		logger.WithError(err).Error("Failed to load tutor prompts")
		panic(err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	dynamodbClient := dynamodb.NewFromConfig(awsCfg)

	backend := repository.NewDynamoDBBackend(dynamodbClient, cfg.VocabularyTableName, cfg.VocabularyCollection)
	vocabularyRepo := repository.NewVocabularyRepository(logger, backend)
	reminderRepo := repository.NewReminderConfigRepository(logger, dynamodbClient, cfg.UserTableName)
	chatState := repository.NewChatStateRepository(logger, dynamodbClient, cfg.VocabularyTableName)
	engine := practice.NewEngine(logger, vocabularyRepo, chatState, nil, nil, nil)

	handler := NewHandler(logger, cfg, Deps{
		Linebot:    linebotClient,
		Tutor:      tutor,
		Prompts:    prompts,
		Vocabulary: vocabularyRepo,
		Reminders:  reminderRepo,
		Engine:     engine,
		Scheduler:  scheduler.NewFromConfig(awsCfg),
		Lambda:     awslambda.NewFromConfig(awsCfg),

		DeleteModes: chatState,
	})

	lambda.Start(handler.EventHandler)
}
