package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const completionMaxTokens = 2000

// Credential identifies one LLM endpoint and key. It is constructed per
// request and passed explicitly into each call; no process-wide state is
// ever mutated to switch credentials.
type Credential struct {
	Type     string // "openai" | "openai-compatible" | "anthropic"
	APIKey   string
	Endpoint string
	Model    string
}

// LLMClient is the single operation the workflow needs from a provider.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// NewClient builds an LLMClient for one credential. Gemini is reached
// through its OpenAI-compatible endpoint, so "openai-compatible" is the
// default provider type.
func NewClient(cred Credential) (LLMClient, error) {
	if strings.TrimSpace(cred.APIKey) == "" {
		return nil, errors.New("llm credential api key is empty")
	}
	if isOpenAICompatibleType(cred.Type) {
		return &openAICompatibleClient{cred: cred}, nil
	}
	return &modelClient{cred: cred}, nil
}

func isOpenAICompatibleType(raw string) bool {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t == "" || t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropicType(raw string) bool {
	return strings.ToLower(strings.TrimSpace(raw)) == "anthropic"
}

// openAICompatibleClient speaks the plain chat-completions HTTP protocol.
type openAICompatibleClient struct {
	cred Credential
}

func (c *openAICompatibleClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	endpoint := normalizeCompatibleEndpoint(c.cred.Endpoint)
	model := strings.TrimSpace(c.cred.Model)
	if model == "" {
		return "", errors.New("llm model is empty")
	}

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	body, _ := json.Marshal(map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"max_tokens":  completionMaxTokens,
		"temperature": 0.0,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cred.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("llm provider returned status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("llm provider error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("empty response from llm")
	}
	return result.Choices[0].Message.Content, nil
}

// modelClient routes native openai/anthropic credentials through the
// unified language-model layer.
type modelClient struct {
	cred Credential
}

func (c *modelClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	model, err := buildLanguageModel(c.cred)
	if err != nil {
		return "", err
	}

	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})

	resp, err := jetai.GenerateText(ctx, messages,
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(completionMaxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

func buildLanguageModel(cred Credential) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(cred.APIKey)
	modelID := strings.TrimSpace(cred.Model)
	endpoint := strings.TrimSpace(cred.Endpoint)
	if modelID == "" {
		return nil, errors.New("llm model is empty")
	}

	if isAnthropicType(cred.Type) {
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func extractText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from llm")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from llm")
	}
	return text, nil
}

// unmarshalLLMJSON parses structured output, tolerating markdown fences
// and leading/trailing prose the model sometimes adds anyway.
func unmarshalLLMJSON(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return errors.New("invalid JSON response from llm")
}

// normalizeCompatibleEndpoint strips a trailing /v1 so the chat path can
// be appended uniformly. An empty endpoint defaults to the public OpenAI
// host; Gemini callers set e.g. https://generativelanguage.googleapis.com.
func normalizeCompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
