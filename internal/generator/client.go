package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

// LLMResponse is the provider-neutral result of a text generation call.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// LLMClient generates a batch of questions from a system and user prompt.
// Implementations must be safe for concurrent use.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error)
}

// VisionClient extracts text from an image supplied as a data URL.
type VisionClient interface {
	ExtractText(ctx context.Context, prompt, imageDataURL string) (string, error)
}

// ImageClient renders a diagram image and returns its hosted URL.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ── OpenAI ──

// OpenAIClient backs all three capabilities: chat generation (JSON mode),
// vision extraction, and DALL-E diagram rendering.
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	imageModel string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client:     openai.NewClient(apiKey),
		chatModel:  getEnv("OPENAI_CHAT_MODEL", openai.GPT4o),
		imageModel: getEnv("OPENAI_IMAGE_MODEL", openai.CreateImageModelDallE3),
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	return callWithRetry(ctx, "openai chat", func(ctx context.Context) (*LLMResponse, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.7,
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("chat completion returned no choices")
		}
		return &LLMResponse{
			Content:      resp.Choices[0].Message.Content,
			PromptTokens: resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		}, nil
	})
}

func (c *OpenAIClient) ExtractText(ctx context.Context, prompt, imageDataURL string) (string, error) {
	return callWithRetry(ctx, "openai vision", func(ctx context.Context) (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: prompt},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL:    imageDataURL,
								Detail: openai.ImageURLDetailHigh,
							},
						},
					},
				},
			},
		})
		if err != nil {
			return "", fmt.Errorf("vision completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("vision completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Model:   c.imageModel,
		Prompt:  prompt,
		N:       1,
		Size:    openai.CreateImageSize1024x1024,
		Quality: openai.CreateImageQualityStandard,
	})
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation returned no URL")
	}
	return resp.Data[0].URL, nil
}

// ── Anthropic ──

// AnthropicClient is the alternate text-generation backend. It has no image
// generation capability, so diagram synthesis stays on OpenAI regardless of
// the configured provider.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		model:  anthropic.Model(getEnv("ANTHROPIC_MODEL", string(anthropic.ModelClaudeSonnet4_0))),
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	return callWithRetry(ctx, "anthropic chat", func(ctx context.Context) (*LLMResponse, error) {
		msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     c.model,
			MaxTokens: 8192,
			System: []anthropic.TextBlockParam{
				{Text: systemPrompt},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("message creation: %w", err)
		}
		if len(msg.Content) == 0 {
			return nil, fmt.Errorf("message creation returned no content")
		}
		return &LLMResponse{
			Content:      msg.Content[0].Text,
			PromptTokens: int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		}, nil
	})
}

// ── Mock ──

// MockClient returns canned responses for local development and tests.
// Image calls run concurrently, so the counters are mutex-guarded.
type MockClient struct {
	// GenerateFunc overrides the canned batch when set.
	GenerateFunc func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error)
	ExtractFunc  func(ctx context.Context, prompt, imageDataURL string) (string, error)
	ImageFunc    func(ctx context.Context, prompt string) (string, error)

	mu            sync.Mutex
	GenerateCalls int
	ImageCalls    int
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	m.mu.Lock()
	m.GenerateCalls++
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, systemPrompt, userPrompt)
	}
	return &LLMResponse{Content: mockBatchJSON}, nil
}

func (m *MockClient) ExtractText(ctx context.Context, prompt, imageDataURL string) (string, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, prompt, imageDataURL)
	}
	return "A triangle is inscribed in a semicircle with diameter 14 cm. One base angle measures 35 degrees. Find the measure of angle x.", nil
}

func (m *MockClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.ImageCalls++
	m.mu.Unlock()
	if m.ImageFunc != nil {
		return m.ImageFunc(ctx, prompt)
	}
	return "https://example.com/mock-diagram.png", nil
}

// mockBatchJSON is a full valid batch so the mock provider exercises the
// whole pipeline, persistence included.
const mockBatchJSON = `{"questions": [
  {"question_number": 1, "question_text": "What is 2/5 + 1/5?", "correct_answer": "3/5", "difficulty_level": 1, "explanation": ""},
  {"question_number": 2, "question_text": "What is 3/8 + 2/8?", "correct_answer": "5/8", "difficulty_level": 2, "explanation": ""},
  {"question_number": 3, "question_text": "What is 1/4 + 1/6?", "correct_answer": "5/12", "difficulty_level": 3, "explanation": ""},
  {"question_number": 4, "question_text": "What is 2/3 + 3/7?", "correct_answer": "23/21", "difficulty_level": 4, "explanation": ""},
  {"question_number": 5, "question_text": "Maya ate 1/3 of a pizza and Liam ate 1/4 of the same pizza. What fraction of the pizza did they eat together?", "correct_answer": "7/12", "difficulty_level": 5, "explanation": "Find a common denominator of 12: 4/12 + 3/12 = 7/12."},
  {"question_number": 6, "question_text": "A recipe needs 2/3 cup of flour and 1/2 cup of sugar. How many cups of dry ingredients are needed in total?", "correct_answer": "7/6", "difficulty_level": 6, "explanation": "2/3 + 1/2 = 4/6 + 3/6 = 7/6 cups."},
  {"question_number": 7, "question_text": "On Monday a tank was 3/8 full. On Tuesday another 1/3 of the tank was filled. What fraction of the tank is now full?", "correct_answer": "17/24", "difficulty_level": 7, "explanation": "3/8 + 1/3 = 9/24 + 8/24 = 17/24."},
  {"question_number": 8, "question_text": "A runner completed 2/5 of a race in the first hour and 1/4 of the race in the second hour. What fraction of the race remains?", "correct_answer": "7/20", "difficulty_level": 8, "explanation": "2/5 + 1/4 = 13/20 completed, so 7/20 remains."},
  {"question_number": 9, "question_text": "Three friends share a bag of marbles. Ana takes 1/3, Ben takes 1/4, and Cara takes 1/6. What fraction of the marbles is left?", "correct_answer": "1/4", "difficulty_level": 9, "explanation": "1/3 + 1/4 + 1/6 = 4/12 + 3/12 + 2/12 = 9/12, leaving 3/12 = 1/4."},
  {"question_number": 10, "question_text": "A project is completed in three phases taking 1/6, 2/9, and 1/3 of the budget. If the budget is $1800, how much money remains after all three phases?", "correct_answer": "500", "difficulty_level": 10, "explanation": "1/6 + 2/9 + 1/3 = 3/18 + 4/18 + 6/18 = 13/18 spent, so 5/18 of 1800 = 500 remains."}
]}`

// ── Factory ──

// NewLLMClientFromEnv selects the text-generation backend from LLM_PROVIDER.
// Unknown values fall back to the mock client so the server still starts in
// development without credentials.
func NewLLMClientFromEnv() LLMClient {
	provider := getEnv("LLM_PROVIDER", "openai")
	switch provider {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			log.Println("WARN: OPENAI_API_KEY not set, using mock LLM client")
			return NewMockClient()
		}
		return NewOpenAIClient(key)
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			log.Println("WARN: ANTHROPIC_API_KEY not set, using mock LLM client")
			return NewMockClient()
		}
		return NewAnthropicClient(key)
	case "mock":
		return NewMockClient()
	default:
		log.Printf("WARN: unknown LLM_PROVIDER %q, using mock LLM client", provider)
		return NewMockClient()
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
