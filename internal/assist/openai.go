package assist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1/"
	DefaultOpenAIModel   = "gpt-4o-mini"
	openAITemperature    = 0.2
)

// OpenAICompleter implements Completer over the Chat Completions API.
type OpenAICompleter struct {
	model      string
	baseURL    string
	httpClient *http.Client
	client     openai.Client
}

// OpenAIOption customizes an OpenAICompleter.
type OpenAIOption func(*OpenAICompleter)

// WithEndpoint points the completer at a compatible API base URL, such as
// "https://example.test/v1".
func WithEndpoint(endpoint string) OpenAIOption {
	return func(c *OpenAICompleter) {
		c.baseURL = endpoint
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAICompleter) {
		c.httpClient = client
	}
}

func NewOpenAICompleter(apiKey, model string, options ...OpenAIOption) (*OpenAICompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	completer := &OpenAICompleter{
		model:      model,
		baseURL:    defaultOpenAIBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, option := range options {
		option(completer)
	}
	baseURL := completer.baseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	// RetryingCompleter owns retries.
	completer.client = openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(completer.httpClient),
		option.WithMaxRetries(0),
	)
	return completer, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(openAITemperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai http status %d: %w", apiErr.StatusCode, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return content, nil
}
