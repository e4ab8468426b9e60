// Package types defines the shared domain types for the AI Day planner.
package types

import (
	"fmt"
	"strings"
)

// Phase identifies the wizard phase the planner is currently in.
type Phase int

const (
	PhaseGatheringInfo Phase = iota
	PhaseAnalyzing
	PhaseResearching
	PhaseRefining
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseGatheringInfo:
		return "gathering-info"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseResearching:
		return "researching"
	case PhaseRefining:
		return "refining"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// InitialContext holds the five required fields collected in phase 1.
// Immutable once submitted except by restart.
type InitialContext struct {
	CustomerName         string `json:"customerName"`
	Executives           string `json:"executives"`
	LineOfBusiness       string `json:"lineOfBusiness"`
	AreasOfInterest      string `json:"areasOfInterest"`
	CustomerExpectations string `json:"customerExpectations"`
}

// Validate reports which required fields are still empty.
func (c InitialContext) Validate() error {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"customer name", c.CustomerName},
		{"executives", c.Executives},
		{"line of business", c.LineOfBusiness},
		{"areas of interest", c.AreasOfInterest},
		{"customer expectations", c.CustomerExpectations},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// FullContext is the initial context plus one answer per clarification
// question, in question order. Answers may be empty strings.
type FullContext struct {
	InitialContext
	FollowUpAnswers []string `json:"followUpAnswers"`
}

// AgendaItem is one ordered slot in the day's schedule.
type AgendaItem struct {
	Time        string `json:"time"`
	Topic       string `json:"topic"`
	Presenter   string `json:"presenter"`
	Description string `json:"description"`
}

// Source is a citation supporting a challenge card's content.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ChallengeCardData describes one workshop discussion topic. The ID is
// assigned locally at creation time, never by the model.
type ChallengeCardData struct {
	ID                      string   `json:"id"`
	Title                   string   `json:"title"`
	Relevance               string   `json:"relevance"`
	PotentialImpact         string   `json:"potentialImpact"`
	SuccessCriteria         string   `json:"successCriteria"`
	AISolutionOpportunities []string `json:"aiSolutionOpportunities"`
	SupportingSources       []Source `json:"supportingSources"`
}

// ResearchResult is the atomic output of one deep-research call. Agenda
// and cards are produced together; neither arrives without the other.
type ResearchResult struct {
	Agenda         []AgendaItem
	ChallengeCards []ChallengeCardData
}

// Prompts holds the four user-editable instruction templates. Snapshots
// are passed explicitly into every gateway call rather than read from
// shared state.
type Prompts struct {
	Analyzer         string `yaml:"analyzer"`
	Researcher       string `yaml:"researcher"`
	NewCardGenerator string `yaml:"new_card_generator"`
	ReferenceAgenda  string `yaml:"reference_agenda"`
}
