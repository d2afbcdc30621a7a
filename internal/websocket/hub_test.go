package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"fitocharity-chatbot-be/internal/entity"
	"fitocharity-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentLogger struct{}

func (silentLogger) Debug(module, message string, details map[string]interface{}) {}
func (silentLogger) Info(module, message string, details map[string]interface{})  {}
func (silentLogger) Warn(module, message string, details map[string]interface{})  {}
func (silentLogger) Error(module, message string, details map[string]interface{}) {}
func (silentLogger) Sync() error                                                  { return nil }
func (silentLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub(nil, silentLogger{})
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.register <- client

	hub.BroadcastProgress(entity.IngestProgress{
		Stage:        entity.IngestStageUploading,
		CurrentIndex: 2,
		Total:        3,
		FileName:     "faq.txt",
	})

	select {
	case frame := <-client.Send:
		var envelope struct {
			Type string                `json:"type"`
			Data entity.IngestProgress `json:"data"`
		}
		require.NoError(t, json.Unmarshal(frame, &envelope))
		assert.Equal(t, "ingest_progress", envelope.Type)
		assert.Equal(t, entity.IngestStageUploading, envelope.Data.Stage)
		assert.Equal(t, 2, envelope.Data.CurrentIndex)
		assert.Equal(t, "faq.txt", envelope.Data.FileName)
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
	}
}

func TestHubDropsFramesForSlowConsumers(t *testing.T) {
	hub := NewHub(nil, silentLogger{})
	go hub.Run()

	// Zero-buffer channel with no reader simulates a stuck client
	client := &Client{Hub: hub, Send: make(chan []byte)}
	hub.register <- client

	done := make(chan struct{})
	go func() {
		hub.BroadcastProgress(entity.IngestProgress{Stage: entity.IngestStageDone})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow consumer")
	}
}
