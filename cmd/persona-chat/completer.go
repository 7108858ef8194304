package main

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/persona"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/provider"
)

// completionsAPI is the subset of the OpenAI client used for raw-prompt completions.
type completionsAPI interface {
	New(ctx context.Context, body openai.CompletionNewParams, opts ...option.RequestOption) (*openai.Completion, error)
}

// openAICompleter serves persona.Completer through the legacy completions endpoint, which
// llama.cpp and vLLM servers expose for fine-tuned base models.
type openAICompleter struct {
	api    completionsAPI
	model  string
	policy provider.RetryPolicy
}

func newOpenAICompleter(cfg Config) *openAICompleter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &openAICompleter{
		api:    &client.Completions,
		model:  cfg.Model,
		policy: provider.DefaultRetryPolicy,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, req persona.CompletionRequest) (string, error) {
	params := openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(c.model),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(req.Prompt)},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
		TopP:        openai.Float(req.TopP),
	}
	// The endpoint accepts at most four stop sequences.
	if stop := limitStops(req.Stop, 4); len(stop) > 0 {
		params.Stop = openai.CompletionNewParamsStopUnion{OfStringArray: stop}
	}

	resp, err := provider.CallWithRetry(ctx, c.policy, func(ctx context.Context) (*openai.Completion, error) {
		return c.api.New(ctx, params)
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Text, nil
}

// limitStops keeps the first max non-empty stop sequences, in order.
func limitStops(stop []string, max int) []string {
	out := make([]string, 0, max)
	for _, s := range stop {
		if s == "" {
			continue
		}
		if len(out) == max {
			break
		}
		out = append(out, s)
	}
	return out
}
