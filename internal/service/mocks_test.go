package service

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"

	"fitocharity-chatbot-be/internal/entity"
	"fitocharity-chatbot-be/internal/pkg/logger"
	"fitocharity-chatbot-be/pkg/events"
	"fitocharity-chatbot-be/pkg/gemini"
)

// fakeSettingRepo is an in-memory stand-in for the gorm-backed settings
// repository.
type fakeSettingRepo struct {
	mu      sync.Mutex
	data    map[string]string
	failAll bool
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{data: map[string]string{}}
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return "", false, errors.New("settings store unavailable")
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeSettingRepo) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("settings store unavailable")
	}
	f.data[key] = value
	return nil
}

func (f *fakeSettingRepo) SetMany(ctx context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("settings store unavailable")
	}
	for k, v := range values {
		f.data[k] = v
	}
	return nil
}

func (f *fakeSettingRepo) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("settings store unavailable")
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
func (noopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

// progressRecorder captures every broadcast ingestion step in order.
type progressRecorder struct {
	mu    sync.Mutex
	steps []entity.IngestProgress
}

func (p *progressRecorder) BroadcastProgress(progress entity.IngestProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, progress)
}

func (p *progressRecorder) recorded() []entity.IngestProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.IngestProgress(nil), p.steps...)
}

type publisherRecorder struct {
	mu        sync.Mutex
	published []events.Event
}

func (p *publisherRecorder) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *publisherRecorder) recorded() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.published...)
}

// factoryFor points every produced client at the fake vendor server.
func factoryFor(server *httptest.Server) ClientFactory {
	return func(apiKey string) *gemini.Client {
		return gemini.NewClientWithBaseURL(apiKey, server.URL)
	}
}
