// Package gateway implements the three planner calls against the Gemini
// API: context analysis, deep research, and additional card generation.
//
// The research calls use Google Search grounding. The Gemini API cannot
// combine built-in tools with structured (JSON mime type) output, so the
// analyzer call requests structured output without search, and the two
// research calls use search with tolerant JSON extraction instead.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"google.golang.org/genai"

	"aiday/internal/types"
)

// genOpts selects the reply shape for a single exchange.
type genOpts struct {
	structured bool // request application/json output
	search     bool // enable Google Search grounding
}

func (o genOpts) validate() error {
	if o.structured && o.search {
		return fmt.Errorf("structured output cannot be combined with search grounding")
	}
	return nil
}

// reply is the outcome of one generateContent exchange.
type reply struct {
	Text      string
	Citations []types.Source
}

// generator abstracts the model endpoint so the gateway operations can
// be exercised without network access.
type generator interface {
	generate(ctx context.Context, system, user string, opts genOpts) (reply, error)
}

// ClientConfig configures the Gemini-backed gateway.
type ClientConfig struct {
	APIKey string
	Model  string
	Logger *zap.Logger
}

// genaiClient implements generator on the official Gemini SDK. A weight-1
// semaphore keeps at most one request outstanding; the wizard never
// pipelines calls, so contention only occurs on misuse.
type genaiClient struct {
	client *genai.Client
	model  string
	sem    *semaphore.Weighted
	log    *zap.Logger
}

func newGenaiClient(ctx context.Context, cfg ClientConfig) (*genaiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &genaiClient{
		client: client,
		model:  model,
		sem:    semaphore.NewWeighted(1),
		log:    log,
	}, nil
}

func (c *genaiClient) generate(ctx context.Context, system, user string, opts genOpts) (reply, error) {
	if err := opts.validate(); err != nil {
		return reply{}, err
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return reply{}, err
	}
	defer c.sem.Release(1)

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts.structured {
		config.ResponseMIMEType = "application/json"
	}
	if opts.search {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), config)
	if err != nil {
		c.log.Error("generate content failed",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return reply{}, fmt.Errorf("generate content: %w", err)
	}

	out := reply{Text: strings.TrimSpace(resp.Text())}
	out.Citations = groundingCitations(resp)

	c.log.Debug("generate content completed",
		zap.String("model", c.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("reply_len", len(out.Text)),
		zap.Int("citations", len(out.Citations)),
		zap.Bool("structured", opts.structured),
		zap.Bool("search", opts.search))

	return out, nil
}

// groundingCitations extracts the {title, uri} pairs the model used to
// ground its reply. Chunks without a web URI are skipped.
func groundingCitations(resp *genai.GenerateContentResponse) []types.Source {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}
	var sources []types.Source
	for _, chunk := range gm.GroundingChunks {
		if chunk.Web != nil && chunk.Web.URI != "" {
			sources = append(sources, types.Source{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return sources
}
