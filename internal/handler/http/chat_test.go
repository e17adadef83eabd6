package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aasim47/vendorconex/internal/service"
	"github.com/Aasim47/vendorconex/pkg/httpclient"
)

func setupChatRouter(t *testing.T, upstream http.HandlerFunc) *chi.Mux {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client := httpclient.New(httpclient.Config{
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("chat-handler-test"), testLogger())
	svc := service.NewChatService(cb, server.URL, "test-api-key", testLogger())
	handler := NewChatHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Post("/api/chat", handler.Complete)
	return r
}

func TestChatEndpoint(t *testing.T) {
	router := setupChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Check our lamp section."}]}}]}`))
	})

	body := `{"message":"What lamps do you sell?","chat_history":[{"role":"user","text":"hi"},{"role":"model","text":"hello"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Check our lamp section.")
}

func TestChatEndpoint_MissingMessage(t *testing.T) {
	router := setupChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})

	body := `{"chat_history":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Message")
}

func TestChatEndpoint_UpstreamErrorRelayed(t *testing.T) {
	router := setupChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	body := `{"message":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "UPSTREAM_ERROR", resp.Error.Code)
	assert.Equal(t, "API key not valid", resp.Error.Message)
}
