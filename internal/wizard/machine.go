// Package wizard drives the four-phase planning flow: gather the initial
// context, clarify it, research the plan, refine the cards.
package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aiday/internal/types"
)

// Gateway is the subset of the AI gateway the machine drives.
type Gateway interface {
	Analyze(ctx context.Context, c types.InitialContext, instructions string) ([]string, error)
	Research(ctx context.Context, c types.FullContext, instructions, referenceAgenda string) (*types.ResearchResult, error)
	GenerateAdditionalCards(ctx context.Context, topic string, c types.FullContext, instructions string) ([]types.ChallengeCardData, error)
}

// PromptSource supplies the current instruction templates. Snapshots are
// taken per call so an edit mid-flight never splits one operation across
// two template versions.
type PromptSource interface {
	Get() types.Prompts
}

// User-facing recoverable error messages.
const (
	msgAnalyzeFailed  = "Failed to analyze the context. Please try again."
	msgResearchFailed = "Deep research failed. Please check your inputs and try again."
	msgNewCardsFailed = "Failed to generate new challenge cards."
)

// Machine is the wizard state machine. All mutation happens under one
// mutex; gateway calls run outside it. Every call is tagged with the
// epoch current at issue time, and its result is discarded when the
// epoch has moved on (restart, or a newer submission), so a stale reply
// can never repopulate reset state.
type Machine struct {
	mu        sync.Mutex
	gw        Gateway
	prompts   PromptSource
	log       *zap.Logger
	sessionID string

	epoch     uint64
	phase     types.Phase
	initial   *types.InitialContext
	questions []string
	answers   []string
	full      *types.FullContext
	agenda    []types.AgendaItem
	cards     []types.ChallengeCardData
	votes     map[string]bool
	lastErr   string
}

// New creates a machine resting in the gathering-info phase.
func New(gw Gateway, prompts PromptSource, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{
		gw:        gw,
		prompts:   prompts,
		log:       log,
		sessionID: uuid.NewString(),
		phase:     types.PhaseGatheringInfo,
		votes:     make(map[string]bool),
	}
}

// SessionID identifies this planning session in logs.
func (m *Machine) SessionID() string { return m.sessionID }

// SubmitInfo accepts a complete initial context and runs the analyzer.
// With zero clarification questions the machine chains straight into
// research and, on success, arrives in the refining phase without a
// user-visible pause. Analyzer transport failure returns the wizard to
// gathering-info with a recoverable message.
func (m *Machine) SubmitInfo(ctx context.Context, info types.InitialContext) error {
	m.mu.Lock()
	if m.phase != types.PhaseGatheringInfo {
		m.mu.Unlock()
		return fmt.Errorf("submit is only valid while gathering info (current phase: %s)", m.phase)
	}
	if err := info.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}

	m.epoch++
	epoch := m.epoch
	m.phase = types.PhaseAnalyzing
	m.initial = &info
	m.lastErr = ""
	p := m.prompts.Get()
	m.mu.Unlock()

	m.log.Info("analyzing context",
		zap.String("session", m.sessionID),
		zap.String("customer", info.CustomerName))

	questions, err := m.gw.Analyze(ctx, info, p.Analyzer)

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.log.Debug("discarding stale analyzer result", zap.Uint64("epoch", epoch))
		return nil
	}
	if err != nil {
		m.resetLocked()
		m.lastErr = msgAnalyzeFailed
		m.mu.Unlock()
		m.log.Warn("analyze failed", zap.Error(err))
		return err
	}

	if len(questions) > 0 {
		m.questions = questions
		m.answers = m.answers[:0]
		m.mu.Unlock()
		return nil
	}

	// Zero questions: synthesize the full context and research now.
	full := types.FullContext{InitialContext: info, FollowUpAnswers: []string{}}
	m.full = &full
	m.phase = types.PhaseResearching
	m.mu.Unlock()

	return m.runResearch(ctx, epoch, full, p)
}

// PendingQuestion returns the next unanswered clarification question.
func (m *Machine) PendingQuestion() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != types.PhaseAnalyzing || len(m.answers) >= len(m.questions) {
		return "", false
	}
	return m.questions[len(m.answers)], true
}

// AnswerNext records the answer to the current clarification question.
// Answers may be empty strings. Once every question has an answer, the
// machine builds the full context and runs the research call.
func (m *Machine) AnswerNext(ctx context.Context, answer string) error {
	m.mu.Lock()
	if m.phase != types.PhaseAnalyzing || len(m.questions) == 0 {
		m.mu.Unlock()
		return fmt.Errorf("no clarification question is pending (current phase: %s)", m.phase)
	}
	if len(m.answers) >= len(m.questions) {
		m.mu.Unlock()
		return fmt.Errorf("all %d questions are already answered", len(m.questions))
	}

	m.answers = append(m.answers, answer)
	if len(m.answers) < len(m.questions) {
		m.mu.Unlock()
		return nil
	}

	m.epoch++
	epoch := m.epoch
	answers := make([]string, len(m.answers))
	copy(answers, m.answers)
	full := types.FullContext{InitialContext: *m.initial, FollowUpAnswers: answers}
	m.full = &full
	m.phase = types.PhaseResearching
	m.lastErr = ""
	p := m.prompts.Get()
	m.mu.Unlock()

	return m.runResearch(ctx, epoch, full, p)
}

// runResearch performs the deep-research call and applies the result if
// the epoch still matches. Failure discards the accumulated context and
// returns the wizard to gathering-info; a fresh submission is required.
func (m *Machine) runResearch(ctx context.Context, epoch uint64, full types.FullContext, p types.Prompts) error {
	m.log.Info("researching plan", zap.String("session", m.sessionID))

	result, err := m.gw.Research(ctx, full, p.Researcher, p.ReferenceAgenda)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		m.log.Debug("discarding stale research result", zap.Uint64("epoch", epoch))
		return nil
	}
	if err != nil {
		m.resetLocked()
		m.lastErr = msgResearchFailed
		m.log.Warn("research failed", zap.Error(err))
		return err
	}

	m.agenda = result.Agenda
	m.cards = dedupeIDs(result.ChallengeCards, nil)
	m.phase = types.PhaseRefining
	m.log.Info("plan ready",
		zap.Int("agenda_items", len(m.agenda)),
		zap.Int("cards", len(m.cards)))
	return nil
}

// GenerateMoreCards appends freshly generated cards for a topic. On
// failure the wizard stays in refining with its state untouched apart
// from the recoverable error message.
func (m *Machine) GenerateMoreCards(ctx context.Context, topic string) error {
	m.mu.Lock()
	if m.phase != types.PhaseRefining || m.full == nil {
		m.mu.Unlock()
		return fmt.Errorf("card generation is only valid while refining (current phase: %s)", m.phase)
	}
	m.epoch++
	epoch := m.epoch
	full := *m.full
	m.lastErr = ""
	p := m.prompts.Get()
	m.mu.Unlock()

	cards, err := m.gw.GenerateAdditionalCards(ctx, topic, full, p.NewCardGenerator)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		m.log.Debug("discarding stale card batch", zap.Uint64("epoch", epoch))
		return nil
	}
	if err != nil {
		m.lastErr = msgNewCardsFailed
		m.log.Warn("card generation failed", zap.String("topic", topic), zap.Error(err))
		return err
	}

	m.cards = append(m.cards, dedupeIDs(cards, m.cards)...)
	m.log.Info("cards appended", zap.String("topic", topic), zap.Int("count", len(cards)))
	return nil
}

// Vote marks a card accepted or rejected. The last vote wins. Voting an
// unknown card id is an error; vote keys always reference live cards.
func (m *Machine) Vote(cardID string, accepted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.ID == cardID {
			m.votes[cardID] = accepted
			return nil
		}
	}
	return fmt.Errorf("unknown card id %q", cardID)
}

// Restart unconditionally returns to gathering-info, discarding all
// accumulated data. In-flight gateway results are orphaned by the epoch
// bump and ignored on arrival.
func (m *Machine) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.lastErr = ""
	m.log.Info("wizard restarted", zap.String("session", m.sessionID))
}

// resetLocked clears accumulated state and bumps the epoch. Caller holds
// the mutex. The error message is left alone so failure paths can set it
// after resetting.
func (m *Machine) resetLocked() {
	m.epoch++
	m.phase = types.PhaseGatheringInfo
	m.initial = nil
	m.questions = nil
	m.answers = nil
	m.full = nil
	m.agenda = nil
	m.cards = nil
	m.votes = make(map[string]bool)
}

// Phase returns the current wizard phase.
func (m *Machine) Phase() types.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Err returns the current recoverable error message, empty when none.
func (m *Machine) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Questions returns the fixed clarification question list.
func (m *Machine) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.questions))
	copy(out, m.questions)
	return out
}

// AnsweredCount returns how many clarification answers are recorded.
func (m *Machine) AnsweredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.answers)
}

// FullContext returns the synthesized context once it exists.
func (m *Machine) FullContext() (types.FullContext, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full == nil {
		return types.FullContext{}, false
	}
	return *m.full, true
}

// Agenda returns the agenda in presentation order.
func (m *Machine) Agenda() []types.AgendaItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.AgendaItem, len(m.agenda))
	copy(out, m.agenda)
	return out
}

// Cards returns all cards in accumulation order.
func (m *Machine) Cards() []types.ChallengeCardData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.ChallengeCardData, len(m.cards))
	copy(out, m.cards)
	return out
}

// VoteFor reports the vote on a card; ok is false while undecided.
func (m *Machine) VoteFor(cardID string) (accepted, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accepted, ok = m.votes[cardID]
	return accepted, ok
}

// AcceptedCards returns the cards voted accepted, in card order.
// Undecided and rejected cards are excluded.
func (m *Machine) AcceptedCards() []types.ChallengeCardData {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.ChallengeCardData
	for _, c := range m.cards {
		if m.votes[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// CustomerName returns the customer name from the active context.
func (m *Machine) CustomerName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full != nil {
		return m.full.CustomerName
	}
	if m.initial != nil {
		return m.initial.CustomerName
	}
	return ""
}

// dedupeIDs rewrites any incoming card id that collides with an existing
// one. Gateway ids embed a millisecond timestamp, so collisions require
// two batches inside the same millisecond, but uniqueness across the
// whole session is an invariant worth enforcing here.
func dedupeIDs(incoming, existing []types.ChallengeCardData) []types.ChallengeCardData {
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, c := range existing {
		seen[c.ID] = true
	}
	for i := range incoming {
		id := incoming[i].ID
		for n := 1; seen[id]; n++ {
			id = fmt.Sprintf("%s-%d", incoming[i].ID, n)
		}
		incoming[i].ID = id
		seen[id] = true
	}
	return incoming
}
