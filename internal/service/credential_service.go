package service

import (
	"context"
	"errors"

	"fitocharity-chatbot-be/internal/constant"
	"fitocharity-chatbot-be/internal/pkg/logger"
	"fitocharity-chatbot-be/internal/repository/contract"
	"fitocharity-chatbot-be/pkg/gemini"
)

// ClientFactory builds a vendor client for a given API key. Injected so tests
// can point clients at a local fake server.
type ClientFactory func(apiKey string) *gemini.Client

// ICredentialService resolves and manages the API credential. Resolution
// precedence: deployment-wide env value > admin-saved value > absent.
type ICredentialService interface {
	// GetActive never fails; persistence errors degrade to absent.
	GetActive(ctx context.Context) (string, bool)
	Save(ctx context.Context, value string) error
	// Clear removes the saved credential only. A deployment-wide credential
	// is not mutable from the running application.
	Clear(ctx context.Context) error
	// Validate reports whether the key is accepted by the vendor. A rejected
	// key is (false, nil); only transport-level failures return an error.
	Validate(ctx context.Context, value string) (bool, error)
	// IsPreconfigured reports whether a deployment-wide credential is set.
	IsPreconfigured() bool
}

type credentialService struct {
	settings      contract.ISettingRepository
	envKey        string
	clientFactory ClientFactory
	sysLogger     logger.ILogger
}

func NewCredentialService(
	settings contract.ISettingRepository,
	envKey string,
	clientFactory ClientFactory,
	sysLogger logger.ILogger,
) ICredentialService {
	return &credentialService{
		settings:      settings,
		envKey:        envKey,
		clientFactory: clientFactory,
		sysLogger:     sysLogger,
	}
}

func (s *credentialService) GetActive(ctx context.Context) (string, bool) {
	if s.envKey != "" {
		return s.envKey, true
	}

	value, found, err := s.settings.Get(ctx, constant.SettingKeyGeminiApiKey)
	if err != nil {
		s.sysLogger.Warn("Credential", "Failed to read saved API key, treating as absent", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}
	if !found || value == "" {
		return "", false
	}
	return value, true
}

func (s *credentialService) Save(ctx context.Context, value string) error {
	return s.settings.Set(ctx, constant.SettingKeyGeminiApiKey, value)
}

func (s *credentialService) Clear(ctx context.Context) error {
	return s.settings.Delete(ctx, constant.SettingKeyGeminiApiKey)
}

func (s *credentialService) Validate(ctx context.Context, value string) (bool, error) {
	client := s.clientFactory(value)

	_, err := client.GenerateContent(ctx, constant.FileSearchModel, &gemini.GenerateContentRequest{
		Contents: []*gemini.Content{
			{Parts: []*gemini.Part{{Text: constant.ValidationPrompt}}, Role: gemini.RoleUser},
		},
		GenerationConfig: &gemini.GenerationConfig{MaxOutputTokens: 5},
	})
	if err == nil {
		return true, nil
	}

	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) && apiErr.IsAuthError() {
		s.sysLogger.Info("Credential", "API key rejected by vendor", map[string]interface{}{
			"status": apiErr.StatusCode,
		})
		return false, nil
	}

	return false, err
}

func (s *credentialService) IsPreconfigured() bool {
	return s.envKey != ""
}
