package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	model := "first/model"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Model != model {
			t.Errorf("expected model %s, got %s", model, req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Chest up, breathe out."}}]}`))
	}))
	defer srv.Close()

	c := NewClientWithGetter("sk-test", func() string { return model })
	c.BaseURL = srv.URL

	got, err := c.Generate(context.Background(), "coach", "cue")
	if err != nil || got != "Chest up, breathe out." {
		t.Fatalf("Generate = %q, %v", got, err)
	}

	// The getter is read per call
	model = "second/model"
	if _, err := c.Generate(context.Background(), "coach", "cue"); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit exceeded","code":429}}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "")
	c.BaseURL = srv.URL
	if _, err := c.Generate(context.Background(), "", "cue"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected an embedded 429 error, got %v", err)
	}

	if _, err := NewClient("", "").Generate(context.Background(), "", "cue"); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
