package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"fitocharity-chatbot-be/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatewayForTest(t *testing.T, handler http.Handler, savedKey string) (IGatewayService, *fakeSettingRepo) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	settings := newFakeSettingRepo()
	if savedKey != "" {
		settings.data[constant.SettingKeyGeminiApiKey] = savedKey
	}

	credentials := NewCredentialService(settings, "", factoryFor(server), noopLogger{})
	registry := NewKnowledgeRegistryService(settings, "", noopLogger{})
	// Poll interval 0 keeps the indexing loop fast under test
	gateway := NewGatewayService(credentials, registry, factoryFor(server), noopLogger{}, 0, 5)
	return gateway, settings
}

func TestGatewayEnsureInitialized(t *testing.T) {
	ctx := context.Background()

	t.Run("no credential anywhere", func(t *testing.T) {
		gateway, _ := newGatewayForTest(t, http.NotFoundHandler(), "")
		err := gateway.EnsureInitialized(ctx, "")
		assert.ErrorIs(t, err, ErrNoCredentialConfigured)
	})

	t.Run("explicit key is persisted", func(t *testing.T) {
		gateway, settings := newGatewayForTest(t, http.NotFoundHandler(), "")
		require.NoError(t, gateway.EnsureInitialized(ctx, "fresh-key"))
		assert.Equal(t, "fresh-key", settings.data[constant.SettingKeyGeminiApiKey])
	})

	t.Run("saved key picked up", func(t *testing.T) {
		gateway, _ := newGatewayForTest(t, http.NotFoundHandler(), "saved-key")
		require.NoError(t, gateway.EnsureInitialized(ctx, ""))
	})

	t.Run("invalidate requires re-init", func(t *testing.T) {
		gateway, _ := newGatewayForTest(t, http.NotFoundHandler(), "saved-key")
		require.NoError(t, gateway.EnsureInitialized(ctx, ""))
		gateway.Invalidate()

		_, err := gateway.CreateStore(ctx, "x")
		assert.ErrorIs(t, err, ErrGatewayNotInitialized)
	})
}

func TestGatewayCreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("reference persisted with empty document list", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"name": "fileSearchStores/new-1"})
		})
		gateway, settings := newGatewayForTest(t, handler, "k")
		require.NoError(t, gateway.EnsureInitialized(ctx, ""))

		reference, err := gateway.CreateStore(ctx, "fitocharity-docs-1")
		require.NoError(t, err)
		assert.Equal(t, "fileSearchStores/new-1", reference)
		assert.Equal(t, "fileSearchStores/new-1", settings.data[constant.SettingKeyRagStoreName])
		assert.Equal(t, "[]", settings.data[constant.SettingKeyUploadedDocs])
	})

	t.Run("nameless response is a creation failure", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		gateway, _ := newGatewayForTest(t, handler, "k")
		require.NoError(t, gateway.EnsureInitialized(ctx, ""))

		_, err := gateway.CreateStore(ctx, "fitocharity-docs-1")
		assert.ErrorIs(t, err, ErrStoreCreationFailed)
	})
}

func TestGatewayIngestPollsUntilDone(t *testing.T) {
	ctx := context.Background()
	var polls atomic.Int32

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/upload/"):
			json.NewEncoder(w).Encode(map[string]interface{}{"name": "operations/op-1", "done": false})
		case strings.HasPrefix(r.URL.Path, "/v1beta/operations/"):
			done := polls.Add(1) >= 3
			json.NewEncoder(w).Encode(map[string]interface{}{"name": "operations/op-1", "done": done})
		default:
			http.NotFound(w, r)
		}
	})

	gateway, _ := newGatewayForTest(t, handler, "k")
	require.NoError(t, gateway.EnsureInitialized(ctx, ""))

	err := gateway.Ingest(ctx, "fileSearchStores/s", "guide.txt", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, int32(3), polls.Load())
}

func TestGatewayIngestTimeout(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never reports done
		json.NewEncoder(w).Encode(map[string]interface{}{"name": "operations/op-1", "done": false})
	})

	gateway, _ := newGatewayForTest(t, handler, "k")
	require.NoError(t, gateway.EnsureInitialized(ctx, ""))

	err := gateway.Ingest(ctx, "fileSearchStores/s", "guide.txt", []byte("content"))
	assert.ErrorIs(t, err, ErrIngestTimeout)
}

func TestGatewayIngestOperationError(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":  "operations/op-1",
			"done":  true,
			"error": map[string]interface{}{"code": 13, "message": "unsupported file type"},
		})
	})

	gateway, _ := newGatewayForTest(t, handler, "k")
	require.NoError(t, gateway.EnsureInitialized(ctx, ""))

	err := gateway.Ingest(ctx, "fileSearchStores/s", "guide.bin", []byte{0x00})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestGatewayIngestContextCancelled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"name": "operations/op-1", "done": false})
	})

	gateway, _ := newGatewayForTest(t, handler, "k")
	require.NoError(t, gateway.EnsureInitialized(context.Background(), ""))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gateway.Ingest(ctx, "fileSearchStores/s", "guide.txt", []byte("content"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGatewayQuerySendsGroundedRequest(t *testing.T) {
	ctx := context.Background()
	var gotBody map[string]interface{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "At 7 AM."}]}}]}`))
	})

	gateway, _ := newGatewayForTest(t, handler, "k")
	require.NoError(t, gateway.EnsureInitialized(ctx, ""))

	resp, err := gateway.Query(ctx, "fileSearchStores/s", "When does it start?")
	require.NoError(t, err)
	assert.Equal(t, "At 7 AM.", resp.Text())

	raw, _ := json.Marshal(gotBody)
	assert.Contains(t, string(raw), "fileSearchStores/s")
	assert.Contains(t, string(raw), strings.TrimSpace(constant.QueryPromptSuffix))
}

func TestGatewaySuggestQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("parsed from model output", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "` +
				`Sure! [\"How do I sign up?\", \"Are dogs allowed?\"]` + `"}]}}]}`))
		})
		gateway, _ := newGatewayForTest(t, handler, "k")
		require.NoError(t, gateway.EnsureInitialized(ctx, ""))

		questions := gateway.SuggestQuestions(ctx, "fileSearchStores/s")
		assert.Equal(t, []string{"How do I sign up?", "Are dogs allowed?"}, questions)
	})

	t.Run("vendor failure falls back to defaults", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		gateway, _ := newGatewayForTest(t, handler, "k")
		require.NoError(t, gateway.EnsureInitialized(ctx, ""))

		questions := gateway.SuggestQuestions(ctx, "fileSearchStores/s")
		assert.Equal(t, constant.DefaultExampleQuestions(), questions)
	})

	t.Run("unparseable output falls back to defaults", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "I have no questions."}]}}]}`))
		})
		gateway, _ := newGatewayForTest(t, handler, "k")
		require.NoError(t, gateway.EnsureInitialized(ctx, ""))

		questions := gateway.SuggestQuestions(ctx, "fileSearchStores/s")
		assert.Equal(t, constant.DefaultExampleQuestions(), questions)
	})

	t.Run("uninitialized gateway falls back to defaults", func(t *testing.T) {
		gateway, _ := newGatewayForTest(t, http.NotFoundHandler(), "")
		questions := gateway.SuggestQuestions(ctx, "fileSearchStores/s")
		assert.Equal(t, constant.DefaultExampleQuestions(), questions)
	})
}

func TestGatewayDeleteStoreClearsRegistryDespiteVendorError(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"name": "fileSearchStores/doomed"})
	})

	gateway, settings := newGatewayForTest(t, handler, "k")
	require.NoError(t, gateway.EnsureInitialized(ctx, ""))
	_, err := gateway.CreateStore(ctx, "doomed")
	require.NoError(t, err)

	gateway.DeleteStore(ctx, "fileSearchStores/doomed")
	assert.NotContains(t, settings.data, constant.SettingKeyRagStoreName)
}
