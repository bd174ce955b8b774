// Package completion turns a prioritized list of configured LLM providers into
// a single text-completion capability.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"

	"github.com/valen-cli/valen/internal/config"
	"github.com/valen-cli/valen/internal/messages"
)

var (
	// ErrNoProviders reports that no configured provider has a credential.
	ErrNoProviders = errors.New(messages.CompletionNoProviders)
	// ErrProvider marks a single provider failure (request error or empty answer).
	ErrProvider = errors.New(messages.CompletionProviderFailed)
	// ErrExhausted reports that every available provider failed or was declined.
	ErrExhausted = errors.New(messages.CompletionExhausted)
)

// CredentialSource resolves provider secrets by environment variable name.
type CredentialSource interface {
	Lookup(name string) (string, bool)
}

// Factory builds an LLM client for one provider.
type Factory func(ctx context.Context, spec config.ProviderConfig, secret string) (gollem.LLMClient, error)

// NewClient builds a gollem client for spec based on its kind.
func NewClient(ctx context.Context, spec config.ProviderConfig, secret string) (gollem.LLMClient, error) {
	switch spec.Kind {
	case config.KindOpenAI:
		opts := []openai.Option{openai.WithModel(spec.Model)}
		if spec.Endpoint != "" {
			opts = append(opts, openai.WithBaseURL(spec.Endpoint))
		}
		client, err := openai.New(ctx, secret, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.KindClaude:
		client, err := claude.New(ctx, secret, claude.WithModel(spec.Model))
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.KindGemini:
		client, err := gemini.New(ctx, spec.Project, spec.Location, gemini.WithModel(spec.Model))
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, goerr.New(messages.CompletionUnknownKind, goerr.V("provider", spec.Name), goerr.V("kind", spec.Kind))
	}
}

// Result is the accepted completion.
type Result struct {
	Provider string
	Text     string
}

// Chain tries providers in configured order until one answer is accepted.
type Chain struct {
	specs        []config.ProviderConfig
	creds        CredentialSource
	factory      Factory
	timeout      time.Duration
	systemPrompt string
	logger       *slog.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithFactory replaces the client factory.
func WithFactory(f Factory) Option {
	return func(c *Chain) { c.factory = f }
}

// WithTimeout bounds each provider request.
func WithTimeout(d time.Duration) Option {
	return func(c *Chain) { c.timeout = d }
}

// WithSystemPrompt sets the session system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(c *Chain) { c.systemPrompt = prompt }
}

// WithLogger sets the logger for provider diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) { c.logger = logger }
}

// NewChain returns a Chain over specs. Disabled providers are dropped.
func NewChain(specs []config.ProviderConfig, creds CredentialSource, opts ...Option) *Chain {
	c := &Chain{creds: creds, factory: NewClient, logger: slog.New(slog.DiscardHandler)}
	for _, spec := range specs {
		if spec.IsEnabled() {
			c.specs = append(c.specs, spec)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type candidate struct {
	spec   config.ProviderConfig
	secret string
}

// Available returns the providers whose credential resolves, in priority order.
func (c *Chain) Available() []config.ProviderConfig {
	var out []config.ProviderConfig
	for _, cand := range c.candidates() {
		out = append(out, cand.spec)
	}
	return out
}

func (c *Chain) candidates() []candidate {
	var out []candidate
	for _, spec := range c.specs {
		if spec.CredentialEnv == "" {
			// Vertex AI providers authenticate through application default credentials.
			if spec.Kind == config.KindGemini {
				out = append(out, candidate{spec: spec})
			}
			continue
		}
		if c.creds == nil {
			continue
		}
		secret, ok := c.creds.Lookup(spec.CredentialEnv)
		if !ok {
			continue
		}
		out = append(out, candidate{spec: spec, secret: secret})
	}
	return out
}

// Try sends prompt to each available provider in order. accept sees every
// non-empty answer; returning true stops the chain, false moves on.
// An accept error aborts the chain and is returned unchanged.
func (c *Chain) Try(ctx context.Context, prompt string, accept func(Result) (bool, error)) (Result, error) {
	cands := c.candidates()
	if len(cands) == 0 {
		return Result{}, ErrNoProviders
	}
	for _, cand := range cands {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		text, err := c.complete(ctx, cand, prompt)
		if err != nil {
			c.logger.Warn("completion provider failed", "provider", cand.spec.Name, "model", cand.spec.Model, "error", err)
			continue
		}
		res := Result{Provider: cand.spec.Name, Text: text}
		ok, err := accept(res)
		if err != nil {
			return Result{}, err
		}
		if ok {
			return res, nil
		}
		c.logger.Info("completion declined", "provider", cand.spec.Name)
	}
	return Result{}, ErrExhausted
}

func (c *Chain) complete(ctx context.Context, cand candidate, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	wrap := func(err error, msg string) error {
		return goerr.Wrap(fmt.Errorf("%w: %w", ErrProvider, err), msg,
			goerr.V("provider", cand.spec.Name),
			goerr.V("model", cand.spec.Model))
	}

	client, err := c.factory(ctx, cand.spec, cand.secret)
	if err != nil {
		return "", wrap(err, messages.CompletionCreateClient)
	}
	var sessionOpts []gollem.SessionOption
	if c.systemPrompt != "" {
		sessionOpts = append(sessionOpts, gollem.WithSessionSystemPrompt(c.systemPrompt))
	}
	session, err := client.NewSession(ctx, sessionOpts...)
	if err != nil {
		return "", wrap(err, messages.CompletionCreateSession)
	}
	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)})
	if err != nil {
		return "", wrap(err, messages.CompletionGenerate)
	}
	if resp == nil {
		return "", wrap(errors.New(messages.CompletionEmptyResponse), messages.CompletionGenerate)
	}
	text := StripFences(strings.Join(resp.Texts, ""))
	if strings.TrimSpace(text) == "" {
		return "", wrap(errors.New(messages.CompletionEmptyResponse), messages.CompletionGenerate)
	}
	return text, nil
}

// StripFences removes a surrounding markdown code fence from a model answer.
// Text without a fence is returned unchanged apart from outer blank lines.
func StripFences(text string) string {
	trimmed := strings.Trim(text, "\r\n")
	if !strings.HasPrefix(strings.TrimSpace(trimmed), "```") {
		return text
	}
	lines := strings.Split(strings.TrimSpace(trimmed), "\n")
	if len(lines) < 2 {
		return ""
	}
	last := len(lines) - 1
	if strings.TrimSpace(lines[last]) != "```" {
		return text
	}
	body := strings.Join(lines[1:last], "\n")
	if body == "" {
		return ""
	}
	return body + "\n"
}
