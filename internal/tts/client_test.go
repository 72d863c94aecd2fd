package tts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSynthesizeStreamsAudioToFile(t *testing.T) {
	var captured struct {
		path   string
		apiKey string
		accept string
		body   synthesisRequest
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.apiKey = r.Header.Get("xi-api-key")
		captured.accept = r.Header.Get("Accept")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &captured.body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3 audio bytes"))
	}))
	defer server.Close()

	client, err := NewClient("secret-key", "voice-1", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	output := filepath.Join(t.TempDir(), "narration.mp3")
	if err := client.Synthesize(context.Background(), "Good evening, listeners.", output); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}

	if captured.path != "/v1/text-to-speech/voice-1/stream" {
		t.Fatalf("path = %q", captured.path)
	}
	if captured.apiKey != "secret-key" {
		t.Fatalf("api key header = %q", captured.apiKey)
	}
	if captured.accept != "audio/mpeg" {
		t.Fatalf("accept header = %q", captured.accept)
	}
	if captured.body.Text != "Good evening, listeners." {
		t.Fatalf("request text = %q", captured.body.Text)
	}
	if captured.body.ModelID != "eleven_monolingual_v1" {
		t.Fatalf("request model = %q", captured.body.ModelID)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "mp3 audio bytes" {
		t.Fatalf("output contents = %q", data)
	}
}

func TestSynthesizeCustomModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req synthesisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		gotModel = req.ModelID
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	client, err := NewClient("key", "voice-1", WithBaseURL(server.URL), WithModelID("eleven_turbo_v2"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	output := filepath.Join(t.TempDir(), "narration.mp3")
	if err := client.Synthesize(context.Background(), "hello", output); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if gotModel != "eleven_turbo_v2" {
		t.Fatalf("model = %q", gotModel)
	}
}

func TestSynthesizeErrorStatusLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":{"status":"invalid_api_key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient("bad-key", "voice-1", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	output := filepath.Join(t.TempDir(), "narration.mp3")
	err = client.Synthesize(context.Background(), "hello", output)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output file should not exist: %v", statErr)
	}
}

func TestSynthesizeValidation(t *testing.T) {
	client, err := NewClient("key", "voice-1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := client.Synthesize(context.Background(), " ", "out.mp3"); err == nil {
		t.Fatal("expected error for empty text")
	}
	if err := client.Synthesize(context.Background(), "hello", ""); err == nil {
		t.Fatal("expected error for empty output path")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "voice"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatal("expected error for missing voice id")
	}
}
