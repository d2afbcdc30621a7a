package service

import (
	"context"
	"time"

	"fitocharity-chatbot-be/internal/constant"
	"fitocharity-chatbot-be/internal/dto"
	"fitocharity-chatbot-be/internal/pkg/logger"
	"fitocharity-chatbot-be/internal/repository/memory"
	"fitocharity-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

type IChatbotService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	// SendChat appends the user message and exactly one assistant reply to
	// the transcript. A failed vendor query becomes a synthetic assistant
	// message, never a dropped entry.
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.ChatEntryResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID)
	GetSuggestedQuestions(ctx context.Context) []string
	GetStatus(ctx context.Context) *dto.StatusResponse
}

type chatbotService struct {
	gateway      IGatewayService
	credentials  ICredentialService
	registry     IKnowledgeRegistryService
	sessionRepo  *memory.SessionRepository
	questionRepo *memory.QuestionRepository
	sysLogger    logger.ILogger
}

func NewChatbotService(
	gateway IGatewayService,
	credentials ICredentialService,
	registry IKnowledgeRegistryService,
	sessionRepo *memory.SessionRepository,
	questionRepo *memory.QuestionRepository,
	sysLogger logger.ILogger,
) IChatbotService {
	return &chatbotService{
		gateway:      gateway,
		credentials:  credentials,
		registry:     registry,
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		sysLogger:    sysLogger,
	}
}

func (cs *chatbotService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	sessionId := uuid.New()
	now := time.Now()

	session := &store.Session{
		ID:        sessionId.String(),
		CreatedAt: now,
		Messages: []store.ChatEntry{
			{
				Id:        uuid.New().String(),
				Role:      store.ChatRoleModel,
				Chat:      constant.GreetingMessage,
				CreatedAt: now,
			},
		},
	}
	cs.sessionRepo.Save(session)

	return &dto.CreateSessionResponse{Id: sessionId}, nil
}

func (cs *chatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	session, found := cs.sessionRepo.Get(request.ChatSessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}

	now := time.Now()
	userEntry := store.ChatEntry{
		Id:        uuid.New().String(),
		Role:      store.ChatRoleUser,
		Chat:      request.Chat,
		CreatedAt: now,
	}
	session.Messages = append(session.Messages, userEntry)

	replyEntry := cs.generateReply(ctx, request.Chat)
	session.Messages = append(session.Messages, replyEntry)
	cs.sessionRepo.Save(session)

	return &dto.SendChatResponse{
		ChatSessionId: request.ChatSessionId,
		Sent:          entryToResponse(userEntry),
		Reply:         entryToResponse(replyEntry),
	}, nil
}

// generateReply always produces an assistant entry; every failure path is
// folded into the message text so the transcript invariant holds.
func (cs *chatbotService) generateReply(ctx context.Context, question string) store.ChatEntry {
	entry := store.ChatEntry{
		Id:        uuid.New().String(),
		Role:      store.ChatRoleModel,
		CreatedAt: time.Now(),
	}

	if err := cs.gateway.EnsureInitialized(ctx, ""); err != nil {
		entry.Chat = constant.QueryFailedReplyPrefix + err.Error()
		return entry
	}

	reference, found := cs.registry.GetActiveReference(ctx)
	if !found {
		entry.Chat = constant.QueryFailedReplyPrefix + "no knowledgebase has been set up yet."
		return entry
	}

	response, err := cs.gateway.Query(ctx, reference, question)
	if err != nil {
		cs.sysLogger.Warn("Chatbot", "Grounded query failed", map[string]interface{}{
			"error": err.Error(),
		})
		entry.Chat = constant.QueryFailedReplyPrefix + err.Error()
		return entry
	}

	entry.Chat = response.Text()
	for _, chunk := range response.GroundingChunks() {
		if chunk.RetrievedContext != nil && chunk.RetrievedContext.Text != "" {
			entry.Excerpts = append(entry.Excerpts, chunk.RetrievedContext.Text)
		}
	}

	return entry
}

func (cs *chatbotService) GetHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.ChatEntryResponse, error) {
	session, found := cs.sessionRepo.Get(sessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}

	history := make([]*dto.ChatEntryResponse, 0, len(session.Messages))
	for _, entry := range session.Messages {
		history = append(history, entryToResponse(entry))
	}
	return history, nil
}

func (cs *chatbotService) DeleteSession(ctx context.Context, sessionId uuid.UUID) {
	cs.sessionRepo.Delete(sessionId.String())
}

func (cs *chatbotService) GetSuggestedQuestions(ctx context.Context) []string {
	if questions, found := cs.questionRepo.Get(); found && len(questions) > 0 {
		return questions
	}

	reference, found := cs.registry.GetActiveReference(ctx)
	if !found {
		return constant.DefaultExampleQuestions()
	}
	if err := cs.gateway.EnsureInitialized(ctx, ""); err != nil {
		return constant.DefaultExampleQuestions()
	}

	questions := cs.gateway.SuggestQuestions(ctx, reference)
	cs.questionRepo.Save(questions)
	return questions
}

func (cs *chatbotService) GetStatus(ctx context.Context) *dto.StatusResponse {
	_, hasCredential := cs.credentials.GetActive(ctx)
	_, hasKnowledgebase := cs.registry.GetActiveReference(ctx)

	return &dto.StatusResponse{
		HasCredential:    hasCredential,
		HasKnowledgebase: hasKnowledgebase,
		Ready:            hasCredential && hasKnowledgebase,
		Preconfigured:    cs.credentials.IsPreconfigured() && cs.registry.IsPreconfigured(),
	}
}

func entryToResponse(entry store.ChatEntry) *dto.ChatEntryResponse {
	return &dto.ChatEntryResponse{
		Id:        entry.Id,
		Role:      entry.Role,
		Chat:      entry.Chat,
		Excerpts:  entry.Excerpts,
		CreatedAt: entry.CreatedAt,
	}
}
