package export

import (
	"fmt"
	"regexp"
	"strings"

	"aiday/internal/types"
)

var whitespaceRe = regexp.MustCompile(`\s`)

// MarkdownFilename derives the download name from the customer name,
// replacing every whitespace character with an underscore.
func MarkdownFilename(customerName string) string {
	return "AI_Day_Plan_" + whitespaceRe.ReplaceAllString(customerName, "_") + ".md"
}

// Markdown renders the final plan as Markdown text. The output is fully
// determined by its inputs: identical agenda, selection, and customer
// name produce byte-identical text.
func Markdown(agenda []types.AgendaItem, selectedCards []types.ChallengeCardData, customerName string) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# AI Day Plan: %s\n\n", customerName)
	md.WriteString("---\n\n")

	md.WriteString("## Agenda\n\n")
	md.WriteString("| Time | Topic | Presenter | Description |\n")
	md.WriteString("|------|-------|-----------|-------------|\n")
	for _, item := range agenda {
		desc := strings.ReplaceAll(item.Description, "\n", "<br />")
		fmt.Fprintf(&md, "| %s | %s | %s | %s |\n", item.Time, item.Topic, item.Presenter, desc)
	}
	md.WriteString("\n")

	if len(selectedCards) == 0 {
		return md.String()
	}

	md.WriteString("---\n\n")
	md.WriteString("## Workshop Challenge Cards\n\n")

	sources := collectSources(selectedCards)

	for _, card := range selectedCards {
		links := make([]string, 0, len(card.SupportingSources))
		for _, src := range card.SupportingSources {
			links = append(links, fmt.Sprintf("[<sup>[%d]</sup>](%s)", sources.number(src.URI), src.URI))
		}

		fmt.Fprintf(&md, "### %s\n\n", card.Title)
		fmt.Fprintf(&md, "**Relevance:** %s\n\n", card.Relevance)
		fmt.Fprintf(&md, "**Potential Impact:** %s\n\n", card.PotentialImpact)
		fmt.Fprintf(&md, "**Success Criteria:** %s\n\n", card.SuccessCriteria)
		md.WriteString("**AI Solution Opportunities:**\n")
		for _, opp := range card.AISolutionOpportunities {
			fmt.Fprintf(&md, "* %s\n", opp)
		}
		fmt.Fprintf(&md, "\n**Sources:** %s\n\n", strings.Join(links, " "))
		md.WriteString("---\n\n")
	}

	if !sources.empty() {
		md.WriteString("## Appendix: Sources\n\n")
		for i, src := range sources.order {
			fmt.Fprintf(&md, "%d. **%s**: <%s>\n", i+1, src.Title, src.URI)
		}
		md.WriteString("\n")
	}

	return md.String()
}
