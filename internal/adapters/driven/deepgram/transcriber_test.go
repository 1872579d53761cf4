package deepgram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const listenFixture = `{
	"results": {
		"channels": [
			{
				"alternatives": [
					{
						"transcript": "Hello there. Welcome back.",
						"words": [{"word": "hello", "start": 0.1, "end": 0.4, "speaker": 0}],
						"paragraphs": {
							"transcript": "Hello there.\n\nWelcome back.",
							"paragraphs": [
								{
									"speaker": 0,
									"start": 0.1,
									"end": 2.5,
									"sentences": [
										{"text": "Hello there.", "start": 0.1, "end": 2.5}
									]
								},
								{
									"speaker": 1,
									"start": 3.0,
									"end": 5.8,
									"sentences": [
										{"text": "Welcome back.", "start": 3.0, "end": 5.8}
									]
								}
							]
						}
					}
				]
			}
		],
		"summary": {"short": "Two speakers greet each other."}
	}
}`

func TestNewTranscriber_RequiresAPIKey(t *testing.T) {
	_, err := NewTranscriber("", "")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestTranscriber_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/listen" {
			t.Errorf("expected /v1/listen, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Token dg-test" {
			t.Error("expected Authorization header")
		}

		q := r.URL.Query()
		if q.Get("model") != "nova-2" {
			t.Errorf("expected model nova-2, got %s", q.Get("model"))
		}
		if q.Get("diarize") != "true" {
			t.Error("expected diarize=true")
		}
		if q.Get("smart_format") != "true" {
			t.Error("expected smart_format=true")
		}
		if q.Get("summarize") != "v2" {
			t.Error("expected summarize=v2")
		}

		w.Write([]byte(listenFixture))
	}))
	defer server.Close()

	tr, err := NewTranscriber("dg-test", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	transcript, err := tr.Transcribe(context.Background(), "https://storage.example.com/signed/audio.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transcript.Summary != "Two speakers greet each other." {
		t.Errorf("unexpected summary: %q", transcript.Summary)
	}
	if len(transcript.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(transcript.Paragraphs))
	}

	first := transcript.Paragraphs[0]
	if first.Speaker != "Speaker 0" {
		t.Errorf("expected Speaker 0, got %s", first.Speaker)
	}
	if first.Start != 0.1 || first.End != 2.5 {
		t.Errorf("unexpected timing: start=%f end=%f", first.Start, first.End)
	}
	if len(first.Sentences) != 1 || first.Sentences[0].Text != "Hello there." {
		t.Errorf("unexpected sentences: %+v", first.Sentences)
	}

	if transcript.Paragraphs[1].Speaker != "Speaker 1" {
		t.Errorf("expected Speaker 1, got %s", transcript.Paragraphs[1].Speaker)
	}

	if len(transcript.RawParagraphs) == 0 {
		t.Error("expected raw paragraphs to be captured")
	}
	if len(transcript.RawWords) == 0 {
		t.Error("expected raw words to be captured")
	}
}

func TestTranscriber_Transcribe_EmptyURL(t *testing.T) {
	tr, err := NewTranscriber("dg-test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tr.Transcribe(context.Background(), ""); err == nil {
		t.Error("expected error for empty audio URL")
	}
}

func TestTranscriber_Transcribe_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"err_code": "INVALID_URL", "err_msg": "could not fetch audio"}`))
	}))
	defer server.Close()

	tr, err := NewTranscriber("dg-test", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = tr.Transcribe(context.Background(), "https://example.com/missing.mp4")
	if err == nil {
		t.Error("expected error from API failure")
	}
}

func TestTranscriber_Transcribe_NoAlternatives(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {"channels": []}}`))
	}))
	defer server.Close()

	tr, err := NewTranscriber("dg-test", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = tr.Transcribe(context.Background(), "https://example.com/audio.mp4")
	if err == nil {
		t.Error("expected error for empty response")
	}
}

func TestSpeakerLabel(t *testing.T) {
	if got := speakerLabel(0); got != "Speaker 0" {
		t.Errorf("expected Speaker 0, got %s", got)
	}
	if got := speakerLabel(3); got != "Speaker 3" {
		t.Errorf("expected Speaker 3, got %s", got)
	}
}
