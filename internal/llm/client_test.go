package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientChatSendsHistoryAndMessage(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-1.5-flash:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": "Hello"}, {"text": "!"}},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key", "gemini-1.5-flash", nil)
	history := []Turn{
		{Role: RoleUser, Text: "hi"},
		{Role: RoleModel, Text: "hello there"},
	}

	got, err := c.Chat(context.Background(), history, "explain this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello!" {
		t.Fatalf("expected concatenated parts, got %q", got)
	}

	if len(captured.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(captured.Contents))
	}
	if captured.Contents[0].Role != RoleUser || captured.Contents[1].Role != RoleModel {
		t.Fatalf("history roles not preserved: %+v", captured.Contents)
	}
	last := captured.Contents[2]
	if last.Role != RoleUser || len(last.Parts) != 1 || last.Parts[0].Text != "explain this" {
		t.Fatalf("new message not appended as final user turn: %+v", last)
	}
}

func TestHTTPClientChatNormalizesUnknownRoles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Contents[0].Role != RoleModel {
			t.Errorf("expected unknown role coerced to model, got %q", req.Contents[0].Role)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "ok"}}}},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "k", "m", nil)
	if _, err := c.Chat(context.Background(), []Turn{{Role: "agent", Text: "x"}}, "y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHTTPClientChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "k", "m", nil)
	if _, err := c.Chat(context.Background(), nil, "hi"); err == nil {
		t.Fatalf("expected error on 429 status")
	}
}

func TestHTTPClientChatEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "k", "m", nil)
	if _, err := c.Chat(context.Background(), nil, "hi"); err == nil {
		t.Fatalf("expected error on empty candidates")
	}
}
