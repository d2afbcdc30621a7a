package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fitocharity-chatbot-be/internal/constant"
	"fitocharity-chatbot-be/internal/pkg/logger"
	"fitocharity-chatbot-be/pkg/gemini"
	"fitocharity-chatbot-be/pkg/utils"
)

// IGatewayService is the single choke point in front of the vendor API. It
// owns the authenticated client handle and the credential it was built with.
type IGatewayService interface {
	// EnsureInitialized resolves the credential (explicit argument wins over
	// the credential store) and builds the client handle if the resolved
	// value differs from the cached one. An explicit credential is also
	// persisted. Returns ErrNoCredentialConfigured when nothing resolves.
	EnsureInitialized(ctx context.Context, explicitKey string) error

	// Invalidate drops the cached client handle, forcing the next
	// EnsureInitialized to rebuild.
	Invalidate()

	// CreateStore requests a new server-side store and persists the returned
	// reference. ErrStoreCreationFailed when the response omits it.
	CreateStore(ctx context.Context, displayName string) (string, error)

	// Ingest submits one file and blocks polling until indexing finishes,
	// the context is cancelled, or the poll budget runs out (ErrIngestTimeout).
	Ingest(ctx context.Context, storeReference, fileName string, data []byte) error

	// Query sends a grounded question scoped to the store. Errors propagate
	// untouched; no retry.
	Query(ctx context.Context, storeReference, question string) (*gemini.GenerateContentResponse, error)

	// SuggestQuestions always returns a non-empty list; every failure mode
	// falls back to the built-in default questions.
	SuggestQuestions(ctx context.Context, storeReference string) []string

	// DeleteStore best-effort deletes the server-side store, then
	// unconditionally clears the local registry so local state never stays
	// stuck on a store the operator asked to remove.
	DeleteStore(ctx context.Context, storeReference string)
}

type gatewayService struct {
	mu         sync.Mutex
	client     *gemini.Client
	credential string

	credentials   ICredentialService
	registry      IKnowledgeRegistryService
	clientFactory ClientFactory
	sysLogger     logger.ILogger

	pollInterval    time.Duration
	maxPollAttempts int
}

func NewGatewayService(
	credentials ICredentialService,
	registry IKnowledgeRegistryService,
	clientFactory ClientFactory,
	sysLogger logger.ILogger,
	pollIntervalSeconds int,
	maxPollAttempts int,
) IGatewayService {
	return &gatewayService{
		credentials:     credentials,
		registry:        registry,
		clientFactory:   clientFactory,
		sysLogger:       sysLogger,
		pollInterval:    time.Duration(pollIntervalSeconds) * time.Second,
		maxPollAttempts: maxPollAttempts,
	}
}

func (gs *gatewayService) EnsureInitialized(ctx context.Context, explicitKey string) error {
	apiKey := explicitKey
	if apiKey == "" {
		apiKey, _ = gs.credentials.GetActive(ctx)
	}
	if apiKey == "" {
		return ErrNoCredentialConfigured
	}

	gs.mu.Lock()
	if gs.client != nil && gs.credential == apiKey {
		gs.mu.Unlock()
		return nil
	}
	gs.client = gs.clientFactory(apiKey)
	gs.credential = apiKey
	gs.mu.Unlock()

	if explicitKey != "" {
		if err := gs.credentials.Save(ctx, explicitKey); err != nil {
			gs.sysLogger.Warn("Gateway", "Failed to persist API key", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return nil
}

func (gs *gatewayService) Invalidate() {
	gs.mu.Lock()
	gs.client = nil
	gs.credential = ""
	gs.mu.Unlock()
}

func (gs *gatewayService) handle() (*gemini.Client, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.client == nil {
		return nil, ErrGatewayNotInitialized
	}
	return gs.client, nil
}

func (gs *gatewayService) CreateStore(ctx context.Context, displayName string) (string, error) {
	client, err := gs.handle()
	if err != nil {
		return "", err
	}

	ragStore, err := client.CreateFileSearchStore(ctx, displayName)
	if err != nil {
		return "", err
	}
	if ragStore.Name == "" {
		return "", ErrStoreCreationFailed
	}

	// Persist the reference immediately; document names follow only after a
	// full ingestion loop succeeds
	if err := gs.registry.SetActive(ctx, ragStore.Name, []string{}); err != nil {
		return "", err
	}

	return ragStore.Name, nil
}

func (gs *gatewayService) Ingest(ctx context.Context, storeReference, fileName string, data []byte) error {
	client, err := gs.handle()
	if err != nil {
		return err
	}

	op, err := client.UploadToFileSearchStore(ctx, storeReference, fileName, data)
	if err != nil {
		return err
	}

	for attempt := 0; !op.Done; attempt++ {
		if attempt >= gs.maxPollAttempts {
			return fmt.Errorf("%w: %q still pending after %d polls", ErrIngestTimeout, fileName, attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(gs.pollInterval):
		}

		op, err = client.GetOperation(ctx, op.Name)
		if err != nil {
			return err
		}
	}

	if op.Error != nil {
		return fmt.Errorf("indexing of %q failed: %s", fileName, op.Error.Message)
	}

	return nil
}

func (gs *gatewayService) Query(ctx context.Context, storeReference, question string) (*gemini.GenerateContentResponse, error) {
	client, err := gs.handle()
	if err != nil {
		return nil, err
	}

	return client.GenerateContent(ctx, constant.FileSearchModel, &gemini.GenerateContentRequest{
		Contents: []*gemini.Content{
			{Parts: []*gemini.Part{{Text: question + constant.QueryPromptSuffix}}, Role: gemini.RoleUser},
		},
		Tools: []*gemini.Tool{
			{FileSearch: &gemini.FileSearchTool{FileSearchStoreNames: []string{storeReference}}},
		},
	})
}

func (gs *gatewayService) SuggestQuestions(ctx context.Context, storeReference string) []string {
	client, err := gs.handle()
	if err != nil {
		return constant.DefaultExampleQuestions()
	}

	response, err := client.GenerateContent(ctx, constant.FileSearchModel, &gemini.GenerateContentRequest{
		Contents: []*gemini.Content{
			{Parts: []*gemini.Part{{Text: constant.SuggestQuestionsPrompt}}, Role: gemini.RoleUser},
		},
		Tools: []*gemini.Tool{
			{FileSearch: &gemini.FileSearchTool{FileSearchStoreNames: []string{storeReference}}},
		},
	})
	if err != nil {
		gs.sysLogger.Warn("Gateway", "Question generation failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.DefaultExampleQuestions()
	}

	questions, err := utils.ParseQuestionList(response.Text())
	if err != nil || len(questions) == 0 {
		if err != nil {
			gs.sysLogger.Warn("Gateway", "Question list unparseable, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return constant.DefaultExampleQuestions()
	}

	return questions
}

func (gs *gatewayService) DeleteStore(ctx context.Context, storeReference string) {
	if client, err := gs.handle(); err == nil {
		if err := client.DeleteFileSearchStore(ctx, storeReference); err != nil {
			gs.sysLogger.Warn("Gateway", "Failed to delete store server-side, clearing local reference anyway", map[string]interface{}{
				"store": storeReference,
				"error": err.Error(),
			})
		}
	}

	if err := gs.registry.Clear(ctx); err != nil {
		gs.sysLogger.Error("Gateway", "Failed to clear local store reference", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
