package service

import (
	"context"
	"fmt"
	"time"

	"fitocharity-chatbot-be/internal/dto"
	"fitocharity-chatbot-be/internal/entity"
	"fitocharity-chatbot-be/internal/pkg/logger"
	"fitocharity-chatbot-be/pkg/events"
)

// ProgressReporter receives each step of the ingestion narrative; the
// websocket hub implements it in production.
type ProgressReporter interface {
	BroadcastProgress(progress entity.IngestProgress)
}

type IAdminService interface {
	ValidateKey(ctx context.Context, apiKey string) (bool, error)
	// SaveKey validates nothing; it persists the key and swaps the gateway
	// client in one step.
	SaveKey(ctx context.Context, apiKey string) error
	ClearKey(ctx context.Context) error
	// RebuildKnowledgebase replaces the active store with a fresh one built
	// from the given files, ingesting strictly sequentially. A failure aborts
	// the remaining files; documents ingested before the failure stay
	// server-side and the new store reference stays persisted. Rejected with
	// ErrKnowledgebasePreconfigured when the store comes from deployment
	// config.
	RebuildKnowledgebase(ctx context.Context, files []dto.UploadedFile) (*dto.RebuildResponse, error)
	ClearKnowledgebase(ctx context.Context) error
	GetDocuments(ctx context.Context) *dto.DocumentsResponse
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	gateway     IGatewayService
	credentials ICredentialService
	registry    IKnowledgeRegistryService
	publisher   IPublisherService
	progress    ProgressReporter
	sysLogger   logger.ILogger
}

func NewAdminService(
	gateway IGatewayService,
	credentials ICredentialService,
	registry IKnowledgeRegistryService,
	publisher IPublisherService,
	progress ProgressReporter,
	sysLogger logger.ILogger,
) IAdminService {
	return &adminService{
		gateway:     gateway,
		credentials: credentials,
		registry:    registry,
		publisher:   publisher,
		progress:    progress,
		sysLogger:   sysLogger,
	}
}

func (as *adminService) ValidateKey(ctx context.Context, apiKey string) (bool, error) {
	return as.credentials.Validate(ctx, apiKey)
}

func (as *adminService) SaveKey(ctx context.Context, apiKey string) error {
	return as.gateway.EnsureInitialized(ctx, apiKey)
}

func (as *adminService) ClearKey(ctx context.Context) error {
	if err := as.credentials.Clear(ctx); err != nil {
		return err
	}
	as.gateway.Invalidate()
	return nil
}

func (as *adminService) RebuildKnowledgebase(ctx context.Context, files []dto.UploadedFile) (*dto.RebuildResponse, error) {
	total := len(files)

	// A deployment-configured store always wins reference resolution, so a
	// rebuilt one would only be orphaned server-side
	if as.registry.IsPreconfigured() {
		return nil, ErrKnowledgebasePreconfigured
	}

	// 1. Gateway must be usable before anything is torn down
	if err := as.gateway.EnsureInitialized(ctx, ""); err != nil {
		return nil, err
	}

	// 2. Replace, don't accumulate: drop the previous store first
	if oldReference, found := as.registry.GetActiveReference(ctx); found {
		as.report(entity.IngestProgress{Stage: entity.IngestStageDeleting, Total: total})
		as.gateway.DeleteStore(ctx, oldReference)
	}

	// 3. Fresh store, timestamp-suffixed so repeated rebuilds stay distinct
	as.report(entity.IngestProgress{Stage: entity.IngestStageCreating, Total: total})
	displayName := fmt.Sprintf("fitocharity-docs-%d", time.Now().Unix())
	reference, err := as.gateway.CreateStore(ctx, displayName)
	if err != nil {
		as.reportFailure(total, 0, "", err)
		return nil, err
	}

	// 4. Sequential ingestion; the vendor polling pattern is not built for
	// overlapping uploads against one client handle
	names := make([]string, 0, total)
	for i, file := range files {
		as.report(entity.IngestProgress{
			Stage:        entity.IngestStageUploading,
			CurrentIndex: i + 1,
			Total:        total,
			FileName:     file.Name,
		})

		if err := as.gateway.Ingest(ctx, reference, file.Name, file.Data); err != nil {
			as.reportFailure(total, i+1, file.Name, err)
			as.sysLogger.Error("Admin", "Ingestion aborted", map[string]interface{}{
				"file":     file.Name,
				"ingested": i,
				"total":    total,
				"error":    err.Error(),
			})
			return nil, fmt.Errorf("ingestion of %q (%d/%d) failed: %w", file.Name, i+1, total, err)
		}

		names = append(names, file.Name)
	}

	// 5. Names are persisted only after the whole batch made it
	if err := as.registry.SetActive(ctx, reference, names); err != nil {
		return nil, err
	}

	// 6. Let collaborators refresh (suggested questions, readiness)
	if err := as.publisher.Publish(ctx, events.NewKnowledgebaseChanged(reference, len(names))); err != nil {
		as.sysLogger.Warn("Admin", "Failed to publish knowledgebase change", map[string]interface{}{
			"error": err.Error(),
		})
	}

	as.report(entity.IngestProgress{Stage: entity.IngestStageDone, CurrentIndex: total, Total: total})

	return &dto.RebuildResponse{
		StoreReference: reference,
		Documents:      names,
		Ingested:       len(names),
		Total:          total,
	}, nil
}

func (as *adminService) ClearKnowledgebase(ctx context.Context) error {
	if as.registry.IsPreconfigured() {
		return ErrKnowledgebasePreconfigured
	}

	reference, found := as.registry.GetActiveReference(ctx)
	if !found {
		return nil
	}

	// Best effort: the server-side delete may fail (or the gateway may not
	// even be initializable), the local reference goes away regardless
	_ = as.gateway.EnsureInitialized(ctx, "")
	as.gateway.DeleteStore(ctx, reference)

	if err := as.publisher.Publish(ctx, events.NewKnowledgebaseChanged("", 0)); err != nil {
		as.sysLogger.Warn("Admin", "Failed to publish knowledgebase change", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return nil
}

func (as *adminService) GetDocuments(ctx context.Context) *dto.DocumentsResponse {
	reference, _ := as.registry.GetActiveReference(ctx)
	return &dto.DocumentsResponse{
		StoreReference: reference,
		Documents:      as.registry.GetDocuments(ctx),
		Preconfigured:  as.registry.IsPreconfigured(),
	}
}

func (as *adminService) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return as.sysLogger.GetLogs(level, limit, offset)
}

func (as *adminService) report(progress entity.IngestProgress) {
	if as.progress != nil {
		as.progress.BroadcastProgress(progress)
	}
}

func (as *adminService) reportFailure(total, index int, fileName string, err error) {
	as.report(entity.IngestProgress{
		Stage:        entity.IngestStageFailed,
		CurrentIndex: index,
		Total:        total,
		FileName:     fileName,
		Error:        err.Error(),
	})
}
