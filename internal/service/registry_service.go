package service

import (
	"context"
	"encoding/json"

	"fitocharity-chatbot-be/internal/constant"
	"fitocharity-chatbot-be/internal/pkg/logger"
	"fitocharity-chatbot-be/internal/repository/contract"
)

// IKnowledgeRegistryService tracks the active file search store reference and
// the display names of the documents it was built from. Same precedence rule
// as the credential: deployment-wide value > saved value > absent.
//
// A persisted reference is not guaranteed to still exist server-side; callers
// must treat vendor failures against it as recoverable.
type IKnowledgeRegistryService interface {
	GetActiveReference(ctx context.Context) (string, bool)
	// GetDocuments returns the persisted names in upload order. For a
	// deployment-configured store with no persisted list it returns a single
	// placeholder name so presentation always has something to show.
	GetDocuments(ctx context.Context) []string
	// SetActive persists reference and document list together, atomically.
	SetActive(ctx context.Context, reference string, documents []string) error
	// Clear atomically removes both. No-op for deployment references.
	Clear(ctx context.Context) error
	IsPreconfigured() bool
}

type knowledgeRegistryService struct {
	settings  contract.ISettingRepository
	envStore  string
	sysLogger logger.ILogger
}

func NewKnowledgeRegistryService(
	settings contract.ISettingRepository,
	envStore string,
	sysLogger logger.ILogger,
) IKnowledgeRegistryService {
	return &knowledgeRegistryService{
		settings:  settings,
		envStore:  envStore,
		sysLogger: sysLogger,
	}
}

func (s *knowledgeRegistryService) GetActiveReference(ctx context.Context) (string, bool) {
	if s.envStore != "" {
		return s.envStore, true
	}

	value, found, err := s.settings.Get(ctx, constant.SettingKeyRagStoreName)
	if err != nil {
		s.sysLogger.Warn("Registry", "Failed to read store reference, treating as absent", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}
	if !found || value == "" {
		return "", false
	}
	return value, true
}

func (s *knowledgeRegistryService) GetDocuments(ctx context.Context) []string {
	raw, found, err := s.settings.Get(ctx, constant.SettingKeyUploadedDocs)
	if err != nil {
		s.sysLogger.Warn("Registry", "Failed to read document list", map[string]interface{}{
			"error": err.Error(),
		})
		found = false
	}

	if found && raw != "" {
		var docs []string
		if err := json.Unmarshal([]byte(raw), &docs); err == nil {
			return docs
		}
		s.sysLogger.Warn("Registry", "Stored document list is corrupt, ignoring", nil)
	}

	// Deployment-configured store without a persisted list: the names were
	// never known to this application
	if s.envStore != "" {
		return []string{constant.PreconfiguredDocumentName}
	}

	return []string{}
}

func (s *knowledgeRegistryService) SetActive(ctx context.Context, reference string, documents []string) error {
	docsJson, err := json.Marshal(documents)
	if err != nil {
		return err
	}

	return s.settings.SetMany(ctx, map[string]string{
		constant.SettingKeyRagStoreName: reference,
		constant.SettingKeyUploadedDocs: string(docsJson),
	})
}

func (s *knowledgeRegistryService) Clear(ctx context.Context) error {
	return s.settings.Delete(ctx,
		constant.SettingKeyRagStoreName,
		constant.SettingKeyUploadedDocs,
	)
}

func (s *knowledgeRegistryService) IsPreconfigured() bool {
	return s.envStore != ""
}
