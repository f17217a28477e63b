package assemblyai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skillsenselab/meetscribe/internal/apperr"
	"github.com/skillsenselab/meetscribe/internal/assemblyai"
	"github.com/skillsenselab/meetscribe/internal/logging"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combined_audio.m4a")
	if err := os.WriteFile(path, []byte("fake-m4a-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeHappyPath(t *testing.T) {
	var uploadedBody string
	var submitted map[string]any
	polls := 0

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "key-1" {
			t.Errorf("expected api key header, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		uploadedBody = string(body)
		_, _ = w.Write([]byte(`{"upload_url":"https://cdn.example/upload/abc"}`))
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&submitted)
		_, _ = w.Write([]byte(`{"id":"tr-1","status":"queued"}`))
	})
	mux.HandleFunc("/v2/transcript/tr-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls < 2 {
			_, _ = w.Write([]byte(`{"id":"tr-1","status":"processing"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"id":"tr-1","status":"completed","audio_channels":2,
			"utterances":[
				{"channel":"0","start":0,"end":1200,"text":"hi","confidence":0.97},
				{"channel":1,"start":1300,"end":2400,"text":"hello","confidence":0.93}
			]
		}`))
	})

	p := assemblyai.NewProvider(assemblyai.Config{
		APIKey:       "key-1",
		BaseURL:      srv.URL,
		PollInterval: 5 * time.Millisecond,
	}, logging.Nop())

	tr, err := p.Transcribe(context.Background(), writeAudioFixture(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if uploadedBody != "fake-m4a-bytes" {
		t.Fatalf("upload body mismatch: %q", uploadedBody)
	}
	if submitted["multichannel"] != true {
		t.Fatalf("expected multichannel=true in submission, got %v", submitted)
	}
	if submitted["audio_url"] != "https://cdn.example/upload/abc" {
		t.Fatalf("expected upload url in submission, got %v", submitted)
	}
	if tr.AudioChannels != 2 {
		t.Fatalf("expected 2 channels, got %d", tr.AudioChannels)
	}
	if len(tr.Utterances) != 2 {
		t.Fatalf("expected 2 utterances, got %d", len(tr.Utterances))
	}
	// Channel arrives as string or number; both normalize to strings.
	if tr.Utterances[0].Channel != "0" || tr.Utterances[1].Channel != "1" {
		t.Fatalf("channel normalization failed: %+v", tr.Utterances)
	}
	if tr.Utterances[1].StartMS != 1300 || tr.Utterances[1].EndMS != 2400 {
		t.Fatalf("timestamps wrong: %+v", tr.Utterances[1])
	}
}

func TestIsAvailable(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"transcripts":[]}`))
	}))
	defer srv.Close()

	p := assemblyai.NewProvider(assemblyai.Config{APIKey: "k", BaseURL: srv.URL}, logging.Nop())
	if !p.IsAvailable(context.Background()) {
		t.Fatal("expected available with accepting server")
	}
	if gotAuth != "k" {
		t.Fatalf("expected api key header, got %q", gotAuth)
	}
}

func TestIsAvailableRejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := assemblyai.NewProvider(assemblyai.Config{APIKey: "bad", BaseURL: srv.URL}, logging.Nop())
	if p.IsAvailable(context.Background()) {
		t.Fatal("expected unavailable with rejected key")
	}
}

func TestTranscribeProviderError(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"upload_url":"u"}`))
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tr-2","status":"queued"}`))
	})
	mux.HandleFunc("/v2/transcript/tr-2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tr-2","status":"error","error":"audio duration is too short"}`))
	})

	p := assemblyai.NewProvider(assemblyai.Config{
		APIKey:       "k",
		BaseURL:      srv.URL,
		PollInterval: time.Millisecond,
	}, logging.Nop())

	_, err := p.Transcribe(context.Background(), writeAudioFixture(t))
	if !apperr.HasCode(err, apperr.CodeTranscriptionFailed) {
		t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "audio duration is too short") {
		t.Fatalf("expected provider message, got %v", err)
	}
}

func TestTranscribeUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	p := assemblyai.NewProvider(assemblyai.Config{APIKey: "bad", BaseURL: srv.URL}, logging.Nop())

	_, err := p.Transcribe(context.Background(), writeAudioFixture(t))
	if !apperr.HasCode(err, apperr.CodeTranscriptionFailed) {
		t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
}

func TestTranscribeCanceledWhilePolling(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"upload_url":"u"}`))
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tr-3","status":"queued"}`))
	})
	mux.HandleFunc("/v2/transcript/tr-3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tr-3","status":"processing"}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := assemblyai.NewProvider(assemblyai.Config{
		APIKey:       "k",
		BaseURL:      srv.URL,
		PollInterval: 10 * time.Millisecond,
	}, logging.Nop())

	_, err := p.Transcribe(ctx, writeAudioFixture(t))
	if !apperr.HasCode(err, apperr.CodeTranscriptionFailed) {
		t.Fatalf("expected TRANSCRIPTION_FAILED on cancellation, got %v", err)
	}
}
