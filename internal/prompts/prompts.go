// Package prompts provides the default instruction templates for the
// planner agents and a mutable runtime store for user overrides.
package prompts

import (
	"sync"

	"aiday/internal/types"
)

const defaultAnalyzer = `You are an Analyzer Agent for planning an 'AI Day' workshop. Your goal is to ensure the context provided is complete.
Review the following information about the AI Day. Based on this, generate a concise list of up to 3 critical follow-up questions to clarify the customer's needs and expectations.
If the information is already very clear and detailed, return an empty list.
Format your response as a JSON array of strings. For example: ["What is the primary goal of the executive team for this workshop?", "Can you provide specific examples of problems in the supply chain?"]`

const defaultResearcher = `You are a Deep Research Agent tasked with creating a detailed plan for a full-day 'AI Day' workshop.
Use the provided context and the reference agenda to generate a comprehensive plan.
Your research should be grounded in real-world data, so use your search capabilities to find relevant information about the customer, their industry, and the specified areas of interest.

Your output must be a single JSON object with two top-level keys: "agenda" and "challengeCards".

1.  **agenda**: Create a detailed, timed agenda for the day (e.g., from 9:00 AM to 5:00 PM). It should include welcome notes, introductions, presentations, breaks, and a hands-on workshop session. Each agenda item should have a "time", "topic", "presenter" (suggest a role, e.g., 'Lead AI Strategist'), and a brief "description".

2.  **challengeCards**: Generate 3-5 detailed "Challenge Cards" for the hands-on workshop session. These cards should be directly related to the customer's line of business and areas of interest. For each card, provide:
    - "title": A catchy title for the challenge.
    - "relevance": A brief explanation of why this is relevant to the customer.
    - "potentialImpact": The potential business impact of solving this challenge.
    - "successCriteria": How to measure the success of a proposed solution.
    - "aiSolutionOpportunities": A list of potential AI/ML solutions (e.g., 'Predictive Maintenance Model', 'Generative AI for Content Creation').
    - "supportingSources": A list of valid, publicly accessible URLs from your search results that support the challenge. Each source should be an object with "title" and "uri".`

const defaultNewCardGenerator = `You are a Research Agent generating 'Challenge Cards' for an AI workshop.
Given a specific topic and the overall context of the AI day, perform a targeted search and generate exactly 3 new, detailed Challenge Cards related to the topic.
Do not generate an agenda. Your output must be a JSON array of Challenge Card objects.
For each card, provide: "title", "relevance", "potentialImpact", "successCriteria", "aiSolutionOpportunities", and "supportingSources" (with "title" and "uri").`

const defaultReferenceAgenda = `## Reference AI Day Agenda

**Objective:** Inspire and educate on the transformative power of AI, identifying 2-3 concrete use cases for a pilot project.

- **9:00 - 9:15:** Welcome & Introductions
- **9:15 - 10:00:** Keynote: The Art of the Possible with AI Today
- **10:00 - 10:45:** Deep Dive: AI in [Customer's Industry] - Trends & Case Studies
- **10:45 - 11:00:** Coffee Break
- **11:00 - 12:00:** Interactive Session: Uncovering Business Challenges
- **12:00 - 1:00:** Lunch
- **1:00 - 3:00:** Hands-on Workshop: Ideating AI Solutions (using Challenge Cards)
- **3:00 - 3:15:** Coffee Break
- **3:15 - 4:15:** Group Presentations & Feedback
- **4:15 - 4:45:** Prioritization & Next Steps
- **4:45 - 5:00:** Closing Remarks`

// Defaults returns the built-in instruction templates.
func Defaults() types.Prompts {
	return types.Prompts{
		Analyzer:         defaultAnalyzer,
		Researcher:       defaultResearcher,
		NewCardGenerator: defaultNewCardGenerator,
		ReferenceAgenda:  defaultReferenceAgenda,
	}
}

// Store holds the current instruction templates. Overrides last for the
// session only; there is no persistence back to disk.
type Store struct {
	mu sync.RWMutex
	p  types.Prompts
}

// NewStore creates a store seeded with the default templates.
func NewStore() *Store {
	return &Store{p: Defaults()}
}

// Get returns a snapshot of the current templates.
func (s *Store) Get() types.Prompts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p
}

// Set replaces all four templates at once.
func (s *Store) Set(p types.Prompts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
}

// Apply merges non-empty fields of the override into the current
// templates. Empty fields keep their current value.
func (s *Store) Apply(override types.Prompts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if override.Analyzer != "" {
		s.p.Analyzer = override.Analyzer
	}
	if override.Researcher != "" {
		s.p.Researcher = override.Researcher
	}
	if override.NewCardGenerator != "" {
		s.p.NewCardGenerator = override.NewCardGenerator
	}
	if override.ReferenceAgenda != "" {
		s.p.ReferenceAgenda = override.ReferenceAgenda
	}
}

// Reset restores the default templates.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = Defaults()
}
