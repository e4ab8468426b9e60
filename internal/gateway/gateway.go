package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"aiday/internal/types"
)

// Gateway exposes the three planner operations. Each is a single
// request/response exchange with no retry; failures propagate to the
// caller immediately, except analyzer parse problems, which degrade to
// zero questions.
type Gateway struct {
	gen generator
	log *zap.Logger
	now func() time.Time
}

// New builds a gateway backed by the Gemini API.
func New(ctx context.Context, cfg ClientConfig) (*Gateway, error) {
	client, err := newGenaiClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{gen: client, log: log, now: time.Now}, nil
}

// newWithGenerator wires a custom generator. Test seam.
func newWithGenerator(gen generator, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{gen: gen, log: log, now: time.Now}
}

// contextPrompt renders the collected context the way the agents expect
// to read it.
func contextPrompt(c types.InitialContext, followUpAnswers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer Name: %s\n", c.CustomerName)
	fmt.Fprintf(&b, "Executives Attending: %s\n", c.Executives)
	fmt.Fprintf(&b, "Line of Business: %s\n", c.LineOfBusiness)
	fmt.Fprintf(&b, "Areas of Interest: %s\n", c.AreasOfInterest)
	fmt.Fprintf(&b, "Customer Expectations: %s\n", c.CustomerExpectations)
	if len(followUpAnswers) > 0 {
		fmt.Fprintf(&b, "\nFollow-up Answers:\n- %s", strings.Join(followUpAnswers, "\n- "))
	}
	return b.String()
}

// Analyze asks the analyzer agent for clarification questions. A
// transport or API failure is returned as an error; a reply that is not
// a JSON array of strings degrades silently to zero questions.
func (g *Gateway) Analyze(ctx context.Context, c types.InitialContext, instructions string) ([]string, error) {
	rep, err := g.gen.generate(ctx, instructions,
		"Context:\n"+contextPrompt(c, nil),
		genOpts{structured: true})
	if err != nil {
		return nil, err
	}

	var questions []string
	if err := json.Unmarshal([]byte(rep.Text), &questions); err != nil {
		g.log.Warn("analyzer reply was not a question list, proceeding without questions",
			zap.Error(err), zap.Int("reply_len", len(rep.Text)))
		return nil, nil
	}
	return questions, nil
}

// researchPayload is the shape the researcher agent is instructed to
// produce. Both keys must be present; a partial result is invalid.
type researchPayload struct {
	Agenda         []types.AgendaItem        `json:"agenda"`
	ChallengeCards []types.ChallengeCardData `json:"challengeCards"`
}

// Research runs the deep-research call: search-grounded, tolerant JSON
// extraction, hard failure on any parse problem. Cards receive locally
// assigned ids and, when the model supplied no sources, a backfill of
// two grounding citations per card by card index.
func (g *Gateway) Research(ctx context.Context, c types.FullContext, instructions, referenceAgenda string) (*types.ResearchResult, error) {
	user := fmt.Sprintf("Full Context:\n%s\n\nReference Agenda:\n%s",
		contextPrompt(c.InitialContext, c.FollowUpAnswers), referenceAgenda)

	rep, err := g.gen.generate(ctx, instructions, user, genOpts{search: true})
	if err != nil {
		return nil, err
	}

	var payload researchPayload
	if err := json.Unmarshal([]byte(extractJSON(rep.Text)), &payload); err != nil {
		return nil, fmt.Errorf("could not get a valid JSON response from the model for deep research: %w", err)
	}
	if payload.Agenda == nil || payload.ChallengeCards == nil {
		return nil, fmt.Errorf("deep research reply is missing agenda or challenge cards")
	}

	stamp := g.now().UnixMilli()
	for i := range payload.ChallengeCards {
		card := &payload.ChallengeCards[i]
		card.ID = fmt.Sprintf("card-%d-%d", stamp, i)
		if len(card.SupportingSources) == 0 {
			card.SupportingSources = sliceCitations(rep.Citations, i*2, 2)
		}
	}

	return &types.ResearchResult{
		Agenda:         payload.Agenda,
		ChallengeCards: payload.ChallengeCards,
	}, nil
}

// GenerateAdditionalCards runs a targeted search for one topic and
// returns new cards. Same parsing and failure policy as Research, but
// citation backfill is one per card by index. The returned count is
// authoritative; the instructions request three but nothing enforces it.
func (g *Gateway) GenerateAdditionalCards(ctx context.Context, topic string, c types.FullContext, instructions string) ([]types.ChallengeCardData, error) {
	user := fmt.Sprintf("Generate cards for this topic: %q.\n\nUse this overall event context:\n%s",
		topic, contextPrompt(c.InitialContext, c.FollowUpAnswers))

	rep, err := g.gen.generate(ctx, instructions, user, genOpts{search: true})
	if err != nil {
		return nil, err
	}

	var cards []types.ChallengeCardData
	if err := json.Unmarshal([]byte(extractJSON(rep.Text)), &cards); err != nil {
		return nil, fmt.Errorf("could not get a valid JSON response from the model for new cards: %w", err)
	}

	stamp := g.now().UnixMilli()
	for i := range cards {
		cards[i].ID = fmt.Sprintf("new-card-%d-%d", stamp, i)
		if len(cards[i].SupportingSources) == 0 {
			cards[i].SupportingSources = sliceCitations(rep.Citations, i, 1)
		}
	}
	return cards, nil
}

// sliceCitations returns up to n citations starting at index start.
// Cards past the available citation material get fewer or zero sources;
// that is never an error.
func sliceCitations(citations []types.Source, start, n int) []types.Source {
	if start >= len(citations) || start < 0 {
		return nil
	}
	end := start + n
	if end > len(citations) {
		end = len(citations)
	}
	out := make([]types.Source, end-start)
	copy(out, citations[start:end])
	return out
}
