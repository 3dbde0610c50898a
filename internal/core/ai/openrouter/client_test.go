package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.OpenRouterConfig{
		BaseURL:   url,
		APIKey:    "sk-test",
		Model:     "test/model",
		MaxTokens: 256,
		Timeout:   5 * time.Second,
	})
}

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["model"] != "test/model" {
			t.Errorf("unexpected model %v", body["model"])
		}
		if body["max_tokens"].(float64) != 256 {
			t.Errorf("expected default max_tokens, got %v", body["max_tokens"])
		}
		if rf, ok := body["response_format"].(map[string]interface{}); !ok || rf["type"] != "json_object" {
			t.Errorf("expected json response format, got %v", body["response_format"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","model":"test/model","choices":[{"message":{"role":"assistant","content":"{\"days\":[]}"}}],"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	defer client.Close()

	resp, err := client.Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: "user", Content: "plan"}},
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Content != `{"days":[]}` {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 13 {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}
}

func TestClientGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"message":"invalid model","type":"bad_request"}}`, "invalid model"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, "empty content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Generate(context.Background(), &provider.Request{
				Messages: []provider.Message{{Role: "user", Content: "plan"}},
			})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: "user", Content: "plan"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Content != "ok" || atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected one retry, got content %q after %d calls", resp.Content, calls)
	}
	if resp.Model != "test/model" {
		t.Errorf("expected model fallback, got %q", resp.Model)
	}
}
