// Package deepgram implements the Transcriber port against Deepgram's
// prerecorded transcription API.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Ensure Transcriber implements the port
var _ driven.Transcriber = (*Transcriber)(nil)

const (
	defaultBaseURL = "https://api.deepgram.com"

	transcriptionModel = "nova-2"

	// Transcription of long audio is slow. Deepgram recommends generous
	// client timeouts for prerecorded requests.
	requestTimeout = 300 * time.Second
)

// Transcriber calls Deepgram's prerecorded listen endpoint with
// diarization, smart formatting and summarization enabled.
type Transcriber struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewTranscriber creates a Deepgram transcriber client.
func NewTranscriber(apiKey, baseURL string) (*Transcriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Deepgram API key is required")
	}

	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Transcriber{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// listenResponse mirrors the slice of Deepgram's prerecorded response that
// the ingestion pipeline consumes.
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string          `json:"transcript"`
				Words      json.RawMessage `json:"words"`
				Paragraphs struct {
					Transcript string `json:"transcript"`
					Paragraphs []struct {
						Speaker   int     `json:"speaker"`
						Start     float64 `json:"start"`
						End       float64 `json:"end"`
						Sentences []struct {
							Text  string  `json:"text"`
							Start float64 `json:"start"`
							End   float64 `json:"end"`
						} `json:"sentences"`
					} `json:"paragraphs"`
				} `json:"paragraphs"`
			} `json:"alternatives"`
		} `json:"channels"`
		Summary struct {
			Short string `json:"short"`
		} `json:"summary"`
	} `json:"results"`
}

type listenError struct {
	ErrCode string `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// Transcribe sends the audio URL to Deepgram and maps the diarized
// paragraphs into the transcript structure.
func (t *Transcriber) Transcribe(ctx context.Context, audioURL string) (*driven.Transcript, error) {
	if audioURL == "" {
		return nil, fmt.Errorf("audio URL is required")
	}

	reqBody, err := json.Marshal(map[string]string{"url": audioURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	params := url.Values{}
	params.Set("model", transcriptionModel)
	params.Set("smart_format", "true")
	params.Set("diarize", "true")
	params.Set("summarize", "v2")

	endpoint := t.baseURL + "/v1/listen?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr listenError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.ErrMsg != "" {
			return nil, fmt.Errorf("Deepgram API error: %s (code: %s)", apiErr.ErrMsg, apiErr.ErrCode)
		}
		return nil, fmt.Errorf("Deepgram API returned status %d", resp.StatusCode)
	}

	var listen listenResponse
	if err := json.Unmarshal(respBody, &listen); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(listen.Results.Channels) == 0 || len(listen.Results.Channels[0].Alternatives) == 0 {
		return nil, fmt.Errorf("transcription response contained no alternatives")
	}

	alt := listen.Results.Channels[0].Alternatives[0]

	rawParagraphs, err := json.Marshal(alt.Paragraphs.Paragraphs)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode paragraphs: %w", err)
	}

	transcript := &driven.Transcript{
		Summary:       listen.Results.Summary.Short,
		RawParagraphs: rawParagraphs,
		RawWords:      []byte(alt.Words),
	}

	for _, p := range alt.Paragraphs.Paragraphs {
		paragraph := driven.TranscriptParagraph{
			Speaker: speakerLabel(p.Speaker),
			Start:   p.Start,
			End:     p.End,
		}
		for _, s := range p.Sentences {
			paragraph.Sentences = append(paragraph.Sentences, driven.TranscriptSentence{
				Text:  s.Text,
				Start: s.Start,
				End:   s.End,
			})
		}
		transcript.Paragraphs = append(transcript.Paragraphs, paragraph)
	}

	return transcript, nil
}

// speakerLabel renders Deepgram's numeric speaker index as a display label.
func speakerLabel(speaker int) string {
	return "Speaker " + strconv.Itoa(speaker)
}
