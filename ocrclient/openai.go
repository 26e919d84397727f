// CLAUDE:SUMMARY OpenAI-compatible vision backend turning images into transcribed text.
package ocrclient

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// defaultPrompt asks for a faithful transcription, nothing else. The model
// must not summarise or describe.
const defaultPrompt = "Transcris fidèlement tout le texte visible sur cette image de document. " +
	"Restitue le texte seul, sans commentaire, sans description et sans mise en forme ajoutée."

// OpenAIBackend calls an OpenAI-compatible chat-completions endpoint with
// vision input.
type OpenAIBackend struct {
	client *openai.Client
}

// NewOpenAIBackend creates a backend. baseURL may be empty for the public
// endpoint, or point at any compatible gateway.
func NewOpenAIBackend(apiKey, baseURL string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg)}
}

// Recognize sends the image as a data URL and returns the model's text.
func (b *OpenAIBackend) Recognize(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	dataURL := "data:" + imageMIME(req.Format) + ";base64," +
		base64.StdEncoding.EncodeToString(req.Image)

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailHigh,
					},
				},
			},
		}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ocrclient: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// imageMIME maps a format tag to its MIME type. Unknown tags fall back to
// PNG, which vision endpoints accept for most raster payloads.
func imageMIME(format string) string {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
