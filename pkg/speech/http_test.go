package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var (
	_ Synthesizer = (*HTTPSynthesizer)(nil)
	_ Synthesizer = (*Mock)(nil)
)

func TestHTTPSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["text"] != "Good rep. Lock out your elbows." {
			t.Errorf("text = %q", req["text"])
		}
		if req["voice"] != "en-US-coach" {
			t.Errorf("voice = %q", req["voice"])
		}
		w.Write(make([]byte, 44100))
	}))
	defer srv.Close()

	s := NewHTTPSynthesizer(srv.URL, WithVoice("en-US-coach"))
	defer s.Close()

	clip, err := s.Synthesize(context.Background(), "Good rep. Lock out your elbows.")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if clip.ID == "" || clip.Text == "" {
		t.Errorf("clip = %+v", clip)
	}
	if len(clip.Audio) != 44100 {
		t.Errorf("audio bytes = %d", len(clip.Audio))
	}
	if clip.Duration.Seconds() != 1 {
		t.Errorf("duration = %v, want 1s", clip.Duration)
	}
}

func TestHTTPSynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewHTTPSynthesizer(srv.URL)
	if _, err := s.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestHTTPSynthesizeEmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewHTTPSynthesizer(srv.URL)
	if _, err := s.Synthesize(context.Background(), "hello"); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("err = %v, want ErrNoAudio", err)
	}
}

func TestHTTPSynthesizeUnreachable(t *testing.T) {
	s := NewHTTPSynthesizer("http://127.0.0.1:1/tts")
	if _, err := s.Synthesize(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
