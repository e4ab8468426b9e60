// Package export serializes a finished plan to Markdown and PDF.
package export

import "aiday/internal/types"

// sourceIndex assigns appendix numbers to citation URIs: index 1 goes to
// the URI that appears first when scanning selected cards in order and,
// within a card, sources in order. A repeated URI keeps its first
// assigned index; the first-seen title wins.
type sourceIndex struct {
	order []types.Source
	byURI map[string]int
}

func collectSources(cards []types.ChallengeCardData) sourceIndex {
	idx := sourceIndex{byURI: make(map[string]int)}
	for _, card := range cards {
		for _, src := range card.SupportingSources {
			if _, ok := idx.byURI[src.URI]; ok {
				continue
			}
			idx.order = append(idx.order, src)
			idx.byURI[src.URI] = len(idx.order)
		}
	}
	return idx
}

func (s sourceIndex) number(uri string) int {
	return s.byURI[uri]
}

func (s sourceIndex) empty() bool {
	return len(s.order) == 0
}
