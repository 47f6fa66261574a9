package utils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"zungenrede-bot/internal/config"

	"github.com/sirupsen/logrus"
)

// TutorAPI answers one lookup: a system prompt and the user's text in, the
// raw tutor text out.
type TutorAPI interface {
	Complete(ctx context.Context, systemPrompt, text string) (string, error)
}

// TutorSwitch routes lookups to one of several named providers. The active
// provider is shared by every chat of the process.
type TutorSwitch struct {
	mu        sync.RWMutex
	logger    *logrus.Entry
	providers map[string]TutorAPI
	active    string
}

func NewTutorSwitch(logger *logrus.Entry, active string, providers map[string]TutorAPI) (*TutorSwitch, error) {
	if _, ok := providers[active]; !ok {
		return nil, fmt.Errorf("tutor provider %q is not configured", active)
	}
	return &TutorSwitch{
		logger:    logger,
		providers: providers,
		active:    active,
	}, nil
}

func (s *TutorSwitch) Use(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.providers[name]; !ok {
		return fmt.Errorf("tutor provider %q is not configured", name)
	}
	s.active = name
	s.logger.WithField("provider", name).Info("Switched tutor provider")
	return nil
}

func (s *TutorSwitch) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *TutorSwitch) Complete(ctx context.Context, systemPrompt, text string) (string, error) {
	s.mu.RLock()
	provider, name := s.providers[s.active], s.active
	s.mu.RUnlock()

	answer, err := provider.Complete(ctx, systemPrompt, text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(answer), nil
}

// NewTutor builds a switch over every provider that has credentials.
func NewTutor(logger *logrus.Entry, cfg config.Tutor) (*TutorSwitch, error) {
	providers := map[string]TutorAPI{}
	if cfg.HasProvider(config.ProviderOpenAI) {
		client, err := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		providers[config.ProviderOpenAI] = client
	}
	if cfg.HasProvider(config.ProviderAnthropic) {
		client, err := NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			return nil, err
		}
		providers[config.ProviderAnthropic] = client
	}
	return NewTutorSwitch(logger, cfg.Provider, providers)
}
