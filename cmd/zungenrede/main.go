// Command zungenrede runs the vocabulary trainer in a terminal against a
// local JSON file.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"zungenrede-bot/internal/config"
	"zungenrede-bot/internal/lookup"
	"zungenrede-bot/internal/practice"
	"zungenrede-bot/internal/repository"
	"zungenrede-bot/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	COMPONENT   = "component"
	SERVICENAME = "zungenrede"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Fatal("Failed to load .env file")
	}

	cfg, err := config.LoadCLI()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid LOG_LEVEL")
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logger := logrus.WithField(COMPONENT, SERVICENAME)

	backend, err := repository.NewFileBackend(cfg.StorageFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open storage file")
	}
	store := repository.NewVocabularyRepository(logger, backend)

	tutor, err := utils.NewTutor(logger, cfg.Tutor)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize tutor")
	}

	prompts, err := utils.LoadTutorPrompts()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load tutor prompts")
	}

	r := &repl{
		logger:     logger,
		out:        os.Stdout,
		store:      store,
		engine:     practice.NewEngine(logger, store, practice.NewMemoryTable(), nil, nil, nil),
		tutor:      tutor,
		translator: lookup.NewTranslator(logger, tutor, prompts, store),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := r.Run(ctx, os.Stdin); err != nil {
		logger.WithError(err).Fatal("Terminal session failed")
	}
}
