package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitocharity-chatbot-be/internal/constant"
	"fitocharity-chatbot-be/internal/repository/memory"
	"fitocharity-chatbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerRefreshesQuestionCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "[\"Fresh question?\"]"}]}}]}`))
	}))
	defer server.Close()

	settings := newFakeSettingRepo()
	settings.data[constant.SettingKeyGeminiApiKey] = "k"
	settings.data[constant.SettingKeyRagStoreName] = "fileSearchStores/s"

	credentials := NewCredentialService(settings, "", factoryFor(server), noopLogger{})
	registry := NewKnowledgeRegistryService(settings, "", noopLogger{})
	gateway := NewGatewayService(credentials, registry, factoryFor(server), noopLogger{}, 0, 5)

	questionRepo := memory.NewQuestionRepository()
	questionRepo.Save([]string{"stale question?"})

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	consumer := NewConsumerService(pubSub, "KNOWLEDGEBASE_CHANGED", gateway, registry, questionRepo)
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("KNOWLEDGEBASE_CHANGED", pubSub)
	require.NoError(t, publisher.Publish(ctx, events.NewKnowledgebaseChanged("fileSearchStores/s", 2)))

	assert.Eventually(t, func() bool {
		questions, found := questionRepo.Get()
		return found && len(questions) == 1 && questions[0] == "Fresh question?"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumerClearsCacheWhenKnowledgebaseGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings := newFakeSettingRepo()
	settings.data[constant.SettingKeyGeminiApiKey] = "k"
	// No store reference persisted

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	credentials := NewCredentialService(settings, "", factoryFor(server), noopLogger{})
	registry := NewKnowledgeRegistryService(settings, "", noopLogger{})
	gateway := NewGatewayService(credentials, registry, factoryFor(server), noopLogger{}, 0, 5)

	questionRepo := memory.NewQuestionRepository()
	questionRepo.Save([]string{"stale question?"})

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	consumer := NewConsumerService(pubSub, "KNOWLEDGEBASE_CHANGED", gateway, registry, questionRepo)
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("KNOWLEDGEBASE_CHANGED", pubSub)
	require.NoError(t, publisher.Publish(ctx, events.NewKnowledgebaseChanged("", 0)))

	assert.Eventually(t, func() bool {
		_, found := questionRepo.Get()
		return !found
	}, 2*time.Second, 10*time.Millisecond)
}
