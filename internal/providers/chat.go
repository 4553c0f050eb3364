package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// chatCaller is the shared core for clients that speak the OpenAI
// completions dialect. The pipeline owns retry policy, so the SDK is
// configured to never retry on its own.
type chatCaller struct {
	name         string
	defaultModel string
	limiter      *RateLimiter // nil means unthrottled
	client       openai.Client
}

func newChatCaller(name, baseURL, apiKey, defaultModel string, timeout time.Duration, rpm int, httpClient *http.Client) chatCaller {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithBaseURL(baseURL),
	}

	var limiter *RateLimiter
	if rpm > 0 {
		limiter = NewRateLimiter(rpm)
	}

	return chatCaller{
		name:         name,
		defaultModel: defaultModel,
		limiter:      limiter,
		client:       openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *chatCaller) Name() string {
	return c.name
}

// Chat sends one completion request. Structured output is parsed and
// validated locally; malformed output marks the result instead of
// returning an error so callers can tell transport failures apart from
// bad model output.
func (c *chatCaller) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	result := &ChatResult{
		Provider:  c.name,
		ModelUsed: c.defaultModel,
	}
	if req == nil {
		result.Success = false
		result.ErrorType = ErrTypeAPI
		result.ErrorMessage = "request is required"
		return result, fmt.Errorf("request is required")
	}
	result.RequestID = req.RequestID

	if len(req.Messages) == 0 {
		result.Success = false
		result.ErrorType = ErrTypeAPI
		result.ErrorMessage = "at least one message is required"
		return result, fmt.Errorf("at least one message is required")
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	result.ModelUsed = model

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: toOpenAIMessages(req.Messages),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.ResponseFormat != nil {
		rf, err := toOpenAIResponseFormat(req.ResponseFormat)
		if err != nil {
			result.Success = false
			result.ErrorType = ErrTypeAPI
			result.ErrorMessage = err.Error()
			return result, err
		}
		params.ResponseFormat = rf
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			result.Success = false
			result.ErrorType = ErrTypeCancelled
			result.ErrorMessage = err.Error()
			result.ExecutionTime = time.Since(start)
			return result, err
		}
	}

	callCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	completion, err := c.client.Chat.Completions.New(callCtx, params)
	result.ExecutionTime = time.Since(start)

	if err != nil {
		mapped := mapOpenAIError(c.name, err)
		result.Success = false
		result.ErrorMessage = mapped.Error()

		var rateErr *RateLimitError
		var authErr *AuthError
		switch {
		case errors.As(mapped, &rateErr):
			result.ErrorType = ErrTypeRateLimit
			result.RetryAfter = rateErr.RetryAfter
			if c.limiter != nil {
				c.limiter.Record429(rateErr.RetryAfter)
			}
		case errors.As(mapped, &authErr):
			result.ErrorType = ErrTypeAuth
		case errors.Is(mapped, context.Canceled) || errors.Is(mapped, context.DeadlineExceeded):
			result.ErrorType = ErrTypeCancelled
		default:
			result.ErrorType = ErrTypeAPI
		}
		return result, mapped
	}

	if len(completion.Choices) == 0 {
		result.Success = false
		result.ErrorType = ErrTypeEmptyResponse
		result.ErrorMessage = "provider returned no choices"
		return result, fmt.Errorf("%s returned no choices", c.name)
	}

	result.Content = completion.Choices[0].Message.Content
	if completion.Model != "" {
		result.ModelUsed = completion.Model
	}
	result.PromptTokens = int(completion.Usage.PromptTokens)
	result.CompletionTokens = int(completion.Usage.CompletionTokens)
	result.TotalTokens = int(completion.Usage.TotalTokens)

	if req.ResponseFormat != nil {
		parsed, perr := parseStructuredJSON(result.Content)
		if perr != nil {
			result.Success = false
			result.ErrorType = ErrTypeJSONParse
			result.ErrorMessage = perr.Error()
			return result, nil
		}
		if verr := validateStructuredJSON(req.ResponseFormat.JSONSchema, parsed); verr != nil {
			result.Success = false
			result.ErrorType = ErrTypeSchemaValidation
			result.ErrorMessage = verr.Error()
			return result, nil
		}
		result.ParsedJSON = parsed
	}

	result.Success = true
	return result, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// toOpenAIResponseFormat converts the canonical {"name","strict","schema"}
// wrapper into SDK params.
func toOpenAIResponseFormat(rf *ResponseFormat) (openai.ChatCompletionNewParamsResponseFormatUnion, error) {
	var union openai.ChatCompletionNewParamsResponseFormatUnion

	var wrapper struct {
		Name   string         `json:"name"`
		Strict bool           `json:"strict"`
		Schema map[string]any `json:"schema"`
	}
	if err := json.Unmarshal(rf.JSONSchema, &wrapper); err != nil {
		return union, fmt.Errorf("invalid response format schema: %w", err)
	}

	union.OfJSONSchema = &shared.ResponseFormatJSONSchemaParam{
		JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   wrapper.Name,
			Schema: wrapper.Schema,
			Strict: openai.Bool(wrapper.Strict),
		},
	}
	return union, nil
}
