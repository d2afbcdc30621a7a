package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitocharity-chatbot-be/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialPrecedence(t *testing.T) {
	ctx := context.Background()
	settings := newFakeSettingRepo()
	settings.data[constant.SettingKeyGeminiApiKey] = "saved-key"

	t.Run("deployment key wins over saved key", func(t *testing.T) {
		svc := NewCredentialService(settings, "env-key", nil, noopLogger{})
		key, found := svc.GetActive(ctx)
		assert.True(t, found)
		assert.Equal(t, "env-key", key)
		assert.True(t, svc.IsPreconfigured())
	})

	t.Run("saved key used when no deployment key", func(t *testing.T) {
		svc := NewCredentialService(settings, "", nil, noopLogger{})
		key, found := svc.GetActive(ctx)
		assert.True(t, found)
		assert.Equal(t, "saved-key", key)
		assert.False(t, svc.IsPreconfigured())
	})

	t.Run("absent everywhere", func(t *testing.T) {
		svc := NewCredentialService(newFakeSettingRepo(), "", nil, noopLogger{})
		_, found := svc.GetActive(ctx)
		assert.False(t, found)
	})

	t.Run("unreadable settings treated as absent", func(t *testing.T) {
		broken := newFakeSettingRepo()
		broken.failAll = true
		svc := NewCredentialService(broken, "", nil, noopLogger{})
		_, found := svc.GetActive(ctx)
		assert.False(t, found)
	})
}

func TestCredentialSaveAndClear(t *testing.T) {
	ctx := context.Background()
	settings := newFakeSettingRepo()
	svc := NewCredentialService(settings, "", nil, noopLogger{})

	require.NoError(t, svc.Save(ctx, "new-key"))
	key, found := svc.GetActive(ctx)
	assert.True(t, found)
	assert.Equal(t, "new-key", key)

	require.NoError(t, svc.Clear(ctx))
	_, found = svc.GetActive(ctx)
	assert.False(t, found)
}

func TestCredentialValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "Hello"}]}}]}`))
		}))
		defer server.Close()

		svc := NewCredentialService(newFakeSettingRepo(), "", factoryFor(server), noopLogger{})
		valid, err := svc.Validate(ctx, "good-key")
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("rejected key is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"message": "API key not valid"}}`))
		}))
		defer server.Close()

		svc := NewCredentialService(newFakeSettingRepo(), "", factoryFor(server), noopLogger{})
		valid, err := svc.Validate(ctx, "bad-key")
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("server fault is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		svc := NewCredentialService(newFakeSettingRepo(), "", factoryFor(server), noopLogger{})
		valid, err := svc.Validate(ctx, "any-key")
		require.Error(t, err)
		assert.False(t, valid)
	})
}
