// Package chat sends single prompts to the chat-completion service and runs
// the interactive prompt loop on top of that.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	loggerpkg "github.com/minhyannv/claude-chat/pkg/logger"
)

// Exchanger performs one prompt/reply exchange.
type Exchanger interface {
	Exchange(ctx context.Context, prompt string) Result
}

// ExchangeFunc adapts a function to Exchanger.
type ExchangeFunc func(ctx context.Context, prompt string) Result

func (f ExchangeFunc) Exchange(ctx context.Context, prompt string) Result {
	return f(ctx, prompt)
}

// Config selects the endpoint and request shape.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
	Verbose   bool
}

// Option configures optional dependencies for Client.
type Option func(*clientDeps)

type clientDeps struct {
	logger      loggerpkg.Logger
	requestOpts []option.RequestOption
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *clientDeps) {
		d.logger = l
	}
}

// WithRequestOptions appends raw openai-go request options.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(d *clientDeps) {
		d.requestOpts = append(d.requestOpts, opts...)
	}
}

// Client is the Exchanger backed by the chat-completion API.
type Client struct {
	client    openai.Client
	model     string
	maxTokens int64
	logger    loggerpkg.Logger
	verbose   bool
}

// New builds a Client. Each exchange is independent; no history is kept.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.APIKey == "" {
		return nil, errors.New("APIKey is not set")
	}
	if cfg.Model == "" {
		return nil, errors.New("Model is not set")
	}
	if cfg.MaxTokens <= 0 {
		return nil, errors.New("MaxTokens must be positive")
	}

	deps := clientDeps{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}

	loggerpkg.Debug(cfg.Verbose, deps.logger, "chat client init", map[string]any{
		"model":      cfg.Model,
		"base_url":   cfg.BaseURL,
		"max_tokens": cfg.MaxTokens,
	})

	return &Client{
		client:    newOpenAIClient(cfg, deps.requestOpts),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    loggerpkg.OrNop(deps.logger),
		verbose:   cfg.Verbose,
	}, nil
}

func newOpenAIClient(cfg Config, extra []option.RequestOption) openai.Client {
	// One request per exchange; no retries.
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, extra...)
	return openai.NewClient(opts...)
}

// Model returns the model identifier sent with each request.
func (c *Client) Model() string { return c.model }

// MaxTokens returns the output bound sent with each request.
func (c *Client) MaxTokens() int64 { return c.maxTokens }

// Exchange sends prompt as a single user message. Every failure comes back
// as a classified Result rather than an error.
func (c *Client) Exchange(ctx context.Context, prompt string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Failure(errors.New("prompt is empty"))
	}

	start := time.Now()
	loggerpkg.Debug(c.verbose, c.logger, "exchange sent", map[string]any{
		"model":        c.model,
		"max_tokens":   c.maxTokens,
		"prompt_bytes": len(prompt),
	})

	completion, err := c.client.Chat.Completions.New(ctx, c.newChatParams(prompt))
	if err != nil {
		res := Failure(err)
		c.logger.Warn("exchange failed", map[string]any{
			"kind":  res.Kind.String(),
			"error": err.Error(),
		})
		return res
	}
	if completion == nil || len(completion.Choices) == 0 {
		c.logger.Warn("exchange failed", map[string]any{
			"kind":  KindOther.String(),
			"error": ErrEmptyReply.Error(),
		})
		return Failure(ErrEmptyReply)
	}

	reply := completion.Choices[0].Message.Content
	loggerpkg.Debug(c.verbose, c.logger, "exchange completed", map[string]any{
		"elapsed_ms":  time.Since(start).Milliseconds(),
		"reply_bytes": len(reply),
	})
	return Reply(reply)
}

func (c *Client) newChatParams(prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(c.model),
		MaxTokens: openai.Int(c.maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
}
