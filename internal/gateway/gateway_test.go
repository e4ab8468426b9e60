package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiday/internal/types"
)

// fakeGen records the exchange it was asked for and replies canned.
type fakeGen struct {
	lastSystem string
	lastUser   string
	lastOpts   genOpts
	rep        reply
	err        error
}

func (f *fakeGen) generate(_ context.Context, system, user string, opts genOpts) (reply, error) {
	f.lastSystem = system
	f.lastUser = user
	f.lastOpts = opts
	return f.rep, f.err
}

func fixedGateway(gen generator) *Gateway {
	g := newWithGenerator(gen, nil)
	g.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return g
}

func testContext() types.InitialContext {
	return types.InitialContext{
		CustomerName:         "Acme Corp",
		Executives:           "CEO, CTO",
		LineOfBusiness:       "Logistics",
		AreasOfInterest:      "Supply chain, forecasting",
		CustomerExpectations: "Concrete pilot candidates",
	}
}

func TestAnalyzeReturnsQuestions(t *testing.T) {
	gen := &fakeGen{rep: reply{Text: `["What is the budget?", "Who owns the data?"]`}}
	g := fixedGateway(gen)

	questions, err := g.Analyze(context.Background(), testContext(), "analyze instructions")
	require.NoError(t, err)
	assert.Equal(t, []string{"What is the budget?", "Who owns the data?"}, questions)

	assert.True(t, gen.lastOpts.structured, "analyzer call must request structured output")
	assert.False(t, gen.lastOpts.search, "analyzer call must not use search grounding")
	assert.Equal(t, "analyze instructions", gen.lastSystem)
	assert.Contains(t, gen.lastUser, "Customer Name: Acme Corp")
}

func TestAnalyzeDegradesOnMalformedReply(t *testing.T) {
	for name, text := range map[string]string{
		"prose":       "I think you should clarify the budget.",
		"json_object": `{"questions": ["q1"]}`,
		"empty":       "",
	} {
		t.Run(name, func(t *testing.T) {
			g := fixedGateway(&fakeGen{rep: reply{Text: text}})
			questions, err := g.Analyze(context.Background(), testContext(), "sys")
			require.NoError(t, err)
			assert.Nil(t, questions)
		})
	}
}

func TestAnalyzePropagatesTransportError(t *testing.T) {
	wantErr := errors.New("rate limited")
	g := fixedGateway(&fakeGen{err: wantErr})

	_, err := g.Analyze(context.Background(), testContext(), "sys")
	assert.ErrorIs(t, err, wantErr)
}

const fencedResearchReply = "Here is the plan.\n```json\n" + `{
  "agenda": [
    {"time": "9:00", "topic": "Welcome", "presenter": "Host", "description": "Kickoff"}
  ],
  "challengeCards": [
    {"title": "Card A", "relevance": "r", "potentialImpact": "p", "successCriteria": "s", "aiSolutionOpportunities": ["x"]},
    {"title": "Card B", "relevance": "r", "potentialImpact": "p", "successCriteria": "s", "aiSolutionOpportunities": ["y"]}
  ]
}` + "\n```\nLet me know if you need changes."

func fullTestContext() types.FullContext {
	return types.FullContext{InitialContext: testContext(), FollowUpAnswers: []string{"a1"}}
}

func TestResearchParsesFencedReply(t *testing.T) {
	gen := &fakeGen{rep: reply{Text: fencedResearchReply}}
	g := fixedGateway(gen)

	result, err := g.Research(context.Background(), fullTestContext(), "research sys", "ref agenda")
	require.NoError(t, err)

	assert.False(t, gen.lastOpts.structured)
	assert.True(t, gen.lastOpts.search, "research call must use search grounding")
	assert.Contains(t, gen.lastUser, "Reference Agenda:\nref agenda")
	assert.Contains(t, gen.lastUser, "Follow-up Answers:\n- a1")

	require.Len(t, result.Agenda, 1)
	assert.Equal(t, "Welcome", result.Agenda[0].Topic)

	require.Len(t, result.ChallengeCards, 2)
	assert.Equal(t, "card-1700000000000-0", result.ChallengeCards[0].ID)
	assert.Equal(t, "card-1700000000000-1", result.ChallengeCards[1].ID)
}

func TestResearchBackfillsTwoCitationsPerCard(t *testing.T) {
	citations := []types.Source{
		{Title: "s0", URI: "https://example.com/0"},
		{Title: "s1", URI: "https://example.com/1"},
		{Title: "s2", URI: "https://example.com/2"},
	}
	g := fixedGateway(&fakeGen{rep: reply{Text: fencedResearchReply, Citations: citations}})

	result, err := g.Research(context.Background(), fullTestContext(), "sys", "ref")
	require.NoError(t, err)
	require.Len(t, result.ChallengeCards, 2)

	// First card takes citations 0 and 1, second starts at index 2 and
	// only one remains.
	assert.Equal(t, citations[0:2], result.ChallengeCards[0].SupportingSources)
	assert.Equal(t, citations[2:3], result.ChallengeCards[1].SupportingSources)
}

func TestResearchKeepsModelSuppliedSources(t *testing.T) {
	text := "```json\n" + `{
  "agenda": [{"time": "9:00", "topic": "t", "presenter": "p", "description": "d"}],
  "challengeCards": [
    {"title": "c", "relevance": "r", "potentialImpact": "p", "successCriteria": "s",
     "aiSolutionOpportunities": [],
     "supportingSources": [{"title": "model source", "uri": "https://model.example"}]}
  ]
}` + "\n```"
	citations := []types.Source{{Title: "grounding", URI: "https://ground.example"}}
	g := fixedGateway(&fakeGen{rep: reply{Text: text, Citations: citations}})

	result, err := g.Research(context.Background(), fullTestContext(), "sys", "ref")
	require.NoError(t, err)
	require.Len(t, result.ChallengeCards, 1)
	assert.Equal(t, "https://model.example", result.ChallengeCards[0].SupportingSources[0].URI)
}

func TestResearchRejectsPartialPayload(t *testing.T) {
	for name, text := range map[string]string{
		"missing_cards":  `{"agenda": []}`,
		"missing_agenda": `{"challengeCards": []}`,
		"not_json":       "no plan today",
	} {
		t.Run(name, func(t *testing.T) {
			g := fixedGateway(&fakeGen{rep: reply{Text: text}})
			_, err := g.Research(context.Background(), fullTestContext(), "sys", "ref")
			assert.Error(t, err)
		})
	}
}

func TestGenerateAdditionalCards(t *testing.T) {
	text := "```json\n" + `[
  {"title": "N1", "relevance": "r", "potentialImpact": "p", "successCriteria": "s", "aiSolutionOpportunities": []},
  {"title": "N2", "relevance": "r", "potentialImpact": "p", "successCriteria": "s", "aiSolutionOpportunities": []}
]` + "\n```"
	citations := []types.Source{
		{Title: "s0", URI: "https://example.com/0"},
		{Title: "s1", URI: "https://example.com/1"},
	}
	gen := &fakeGen{rep: reply{Text: text, Citations: citations}}
	g := fixedGateway(gen)

	cards, err := g.GenerateAdditionalCards(context.Background(), "edge AI", fullTestContext(), "sys")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.True(t, gen.lastOpts.search)
	assert.Contains(t, gen.lastUser, `"edge AI"`)

	assert.Equal(t, "new-card-1700000000000-0", cards[0].ID)
	assert.Equal(t, "new-card-1700000000000-1", cards[1].ID)

	// One backfilled citation per card by index.
	assert.Equal(t, citations[0:1], cards[0].SupportingSources)
	assert.Equal(t, citations[1:2], cards[1].SupportingSources)
}

func TestGenerateAdditionalCardsParseFailureIsHard(t *testing.T) {
	g := fixedGateway(&fakeGen{rep: reply{Text: "not a card list"}})
	_, err := g.GenerateAdditionalCards(context.Background(), "t", fullTestContext(), "sys")
	assert.Error(t, err)
}

func TestGenOptsRejectsStructuredSearch(t *testing.T) {
	assert.Error(t, genOpts{structured: true, search: true}.validate())
	assert.NoError(t, genOpts{structured: true}.validate())
	assert.NoError(t, genOpts{search: true}.validate())
	assert.NoError(t, genOpts{}.validate())
}

func TestSliceCitations(t *testing.T) {
	citations := []types.Source{
		{URI: "u0"}, {URI: "u1"}, {URI: "u2"},
	}

	assert.Equal(t, citations[0:2], sliceCitations(citations, 0, 2))
	assert.Equal(t, citations[2:3], sliceCitations(citations, 2, 2), "clamps at the end")
	assert.Nil(t, sliceCitations(citations, 3, 2), "start past the end yields nothing")
	assert.Nil(t, sliceCitations(nil, 0, 2))
}
