package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	// Requests larger than this go through the Files API instead of inline data.
	maxInlineBytes  = 18 << 20
	filePollEvery   = 2 * time.Second
	filePollTimeout = 3 * time.Minute
)

const transcriptionPrompt = `Transcribe the spoken words of this customer testimonial video verbatim.
Respond with JSON only: {"transcript": string, "language": BCP-47 tag of the spoken language, "durationSeconds": integer length of the video}.
If nothing is said, return an empty transcript.`

// GeminiConfig configures the Gemini transcriber.
type GeminiConfig interface {
	GetGeminiAPIKey() string
	GetTranscriptionModel() string
}

// Gemini transcribes videos with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini transcriber.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.GetTranscriptionModel()}, nil
}

var _ Transcriber = (*Gemini)(nil)

type geminiTranscript struct {
	Transcript      string `json:"transcript"`
	Language        string `json:"language"`
	DurationSeconds int    `json:"durationSeconds"`
}

// Transcribe sends the video to Gemini and parses the structured reply.
func (g *Gemini) Transcribe(ctx context.Context, video io.Reader, contentType string) (Result, error) {
	data, err := io.ReadAll(video)
	if err != nil {
		return Result{}, fmt.Errorf("read video: %w", err)
	}
	mimeType := strings.TrimSpace(strings.Split(contentType, ";")[0])

	videoPart, cleanup, err := g.videoPart(ctx, data, mimeType)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{videoPart, genai.NewPartFromText(transcriptionPrompt)},
	}}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"transcript":      {Type: genai.TypeString},
				"language":        {Type: genai.TypeString},
				"durationSeconds": {Type: genai.TypeInteger},
			},
			Required: []string{"transcript"},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate content: %w", err)
	}

	return parseTranscript(resp.Text())
}

func parseTranscript(raw string) (Result, error) {
	var out geminiTranscript
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Result{}, fmt.Errorf("decode gemini transcript: %w", err)
	}
	result := Result{Text: strings.TrimSpace(out.Transcript), Language: out.Language}
	if out.DurationSeconds > 0 {
		seconds := out.DurationSeconds
		result.DurationSeconds = &seconds
	}
	return result, nil
}

func (g *Gemini) videoPart(ctx context.Context, data []byte, mimeType string) (*genai.Part, func(), error) {
	if len(data) <= maxInlineBytes {
		return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}, func() {}, nil
	}

	file, err := g.client.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return nil, nil, fmt.Errorf("upload video to gemini: %w", err)
	}
	cleanup := func() {
		_, _ = g.client.Files.Delete(context.WithoutCancel(ctx), file.Name, nil)
	}

	file, err = g.waitActive(ctx, file)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return genai.NewPartFromURI(file.URI, file.MIMEType), cleanup, nil
}

// waitActive polls until Gemini finished ingesting an uploaded video.
func (g *Gemini) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	ctx, cancel := context.WithTimeout(ctx, filePollTimeout)
	defer cancel()

	ticker := time.NewTicker(filePollEvery)
	defer ticker.Stop()

	for {
		switch file.State {
		case genai.FileStateActive:
			return file, nil
		case genai.FileStateFailed:
			return nil, errors.New("gemini rejected uploaded video")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for gemini file: %w", ctx.Err())
		case <-ticker.C:
		}

		var err error
		file, err = g.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("get gemini file: %w", err)
		}
	}
}
