package service

import (
	"context"
	"log"

	"fitocharity-chatbot-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService refreshes the suggested-questions cache whenever the
// knowledgebase changes, so the next welcome-screen visit is instant.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	gateway      IGatewayService
	registry     IKnowledgeRegistryService
	questionRepo *memory.QuestionRepository
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	gateway IGatewayService,
	registry IKnowledgeRegistryService,
	questionRepo *memory.QuestionRepository,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		gateway:      gateway,
		registry:     registry,
		questionRepo: questionRepo,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Stale cache is always safe to drop, even when the refresh below fails
	cs.questionRepo.Clear()

	if err := cs.gateway.EnsureInitialized(ctx, ""); err != nil {
		log.Printf("[WARN] Skipping question refresh: %v", err)
		msg.Ack()
		return
	}

	reference, found := cs.registry.GetActiveReference(ctx)
	if !found {
		// Knowledgebase was cleared; nothing to pre-generate
		msg.Ack()
		return
	}

	log.Printf("[INFO] Refreshing suggested questions for store %s", reference)
	questions := cs.gateway.SuggestQuestions(ctx, reference)
	cs.questionRepo.Save(questions)

	msg.Ack()
}
