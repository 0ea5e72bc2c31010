package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:       "test",
		GeminiAPIKey: "g-test",
		GeminiModel:  "gemini-2.5-flash",
		AgentTimeout: 5 * time.Second,
	}
}

func writeReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]string{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	})
}

func TestComplete_Success(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeReply(w, "```json\n[\"SQL\"]\n```")
	}))
	defer srv.Close()

	c, err := newClient(context.Background(), testConfig(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Provider())
	assert.Equal(t, "gemini-2.5-flash", c.Model())

	out, err := c.Complete(context.Background(), "map this")
	require.NoError(t, err)
	assert.Equal(t, "```json\n[\"SQL\"]\n```", out)

	raw, _ := json.Marshal(body)
	assert.Contains(t, string(raw), "map this")
	assert.Contains(t, string(raw), `"temperature":0`)
}

func TestComplete_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	c, err := newClient(context.Background(), testConfig(), srv.URL)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestComplete_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
			return
		}
		writeReply(w, `["Git"]`)
	}))
	defer srv.Close()

	c, err := newClient(context.Background(), testConfig(), srv.URL)
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, `["Git"]`, out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
