// Package naming chooses new image file names: an external naming oracle
// when configured, with deterministic local fallbacks.
package naming

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
)

// oracleTimeout bounds a single naming call.
const oracleTimeout = 30 * time.Second

// Oracle proposes a file name for an image given its surrounding context and
// an optional disambiguation hint. Implementations report their own
// availability; an unavailable oracle is skipped, not an error.
type Oracle interface {
	Available() bool
	GenerateName(ctx context.Context, imagePath, context, hint string) (string, error)
}

// NewOracle builds the oracle selected by configuration: a chat-completions
// client for openai/ecnu, or the always-unavailable local oracle.
func NewOracle(cfg *config.Config) Oracle {
	if cfg.AI.Provider == config.ProviderLocal {
		return &localOracle{}
	}

	return &chatOracle{
		provider:    cfg.AI.Provider,
		apiKey:      cfg.ResolveAPIKey(),
		model:       cfg.ResolveModel(),
		baseURL:     cfg.ResolveBaseURL(),
		maxTokens:   cfg.MaxTokensOrDefault(),
		temperature: cfg.TemperatureOrDefault(),
		client:      &http.Client{Timeout: oracleTimeout},
	}
}

// localOracle is the no-backend placeholder; it always declines.
type localOracle struct{}

func (*localOracle) Available() bool { return false }

func (*localOracle) GenerateName(context.Context, string, string, string) (string, error) {
	return "", nil
}

// chatOracle calls an OpenAI-compatible chat-completions endpoint.
type chatOracle struct {
	provider    string
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	client      *http.Client
}

func (o *chatOracle) Available() bool { return o.apiKey != "" }

// GenerateName sends the image (as a base64 data URL) plus the reference
// context to the model. ECNU models other than ecnu-vl cannot accept images;
// for those the context alone is sent.
func (o *chatOracle) GenerateName(ctx context.Context, imagePath, refContext, hint string) (string, error) {
	if !o.Available() {
		return "", nil
	}

	if o.provider == config.ProviderECNU && o.model != "ecnu-vl" {
		return o.complete(ctx, []chatMessage{
			{Role: "user", Content: buildTextPrompt(refContext, hint)},
		})
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", imagePath, err)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(imagePath), base64.StdEncoding.EncodeToString(data))

	return o.complete(ctx, []chatMessage{
		{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: buildImagePrompt(refContext, hint)},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		},
	})
}

func (o *chatOracle) complete(ctx context.Context, messages []chatMessage) (string, error) {
	payload := chatRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal oracle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(o.baseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("oracle returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parse oracle response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

func mimeType(imagePath string) string {
	if m, ok := mimeTypes[strings.ToLower(filepath.Ext(imagePath))]; ok {
		return m
	}
	return "image/png"
}
