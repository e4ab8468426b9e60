package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"aiday/internal/types"
)

// Page geometry for landscape A4 in millimeters.
const (
	pageMargin   = 12.0
	pageWidth    = 297.0
	pageHeight   = 210.0
	contentWidth = pageWidth - 2*pageMargin
)

// PDFFilename derives the download name analogously to the Markdown
// export.
func PDFFilename(customerName string) string {
	return "AI_Day_Plan_" + whitespaceRe.ReplaceAllString(customerName, "_") + ".pdf"
}

// PDF renders the final plan as a multi-page landscape document: a title
// slide, an agenda slide, one slide per selected card, and a sources
// appendix slide when any citations exist. Citation numbering is shared
// between the per-card markers and the appendix.
func PDF(agenda []types.AgendaItem, selectedCards []types.ChallengeCardData, customerName string) ([]byte, error) {
	doc := buildPDF(agenda, selectedCards, customerName)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf assembly failed: %w", err)
	}
	return buf.Bytes(), nil
}

// buildPDF assembles the document without serializing it, so tests can
// inspect the page count.
func buildPDF(agenda []types.AgendaItem, selectedCards []types.ChallengeCardData, customerName string) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("AI Day Plan", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)

	sources := collectSources(selectedCards)

	titleSlide(pdf, customerName)
	agendaSlide(pdf, agenda)
	for _, card := range selectedCards {
		cardSlide(pdf, card, sources)
	}
	if !sources.empty() {
		appendixSlide(pdf, sources)
	}
	return pdf
}

func titleSlide(pdf *fpdf.Fpdf, customerName string) {
	pdf.AddPage()
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 42)
	pdf.SetY(pageHeight/2 - 30)
	pdf.CellFormat(contentWidth, 18, "AI Day Plan", "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 24)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(contentWidth, 12, customerName, "", 1, "C", false, 0, "")
}

func slideHeading(pdf *fpdf.Fpdf, text string) {
	pdf.AddPage()
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(contentWidth, 12, text, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageMargin, pdf.GetY()+1, pageWidth-pageMargin, pdf.GetY()+1)
	pdf.Ln(5)
}

func agendaSlide(pdf *fpdf.Fpdf, agenda []types.AgendaItem) {
	slideHeading(pdf, "Agenda")

	colWidths := []float64{32, 78, 52, contentWidth - 32 - 78 - 52}
	headers := []string{"Time", "Topic", "Presenter", "Description"}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(242, 242, 242)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range agenda {
		desc := strings.ReplaceAll(item.Description, "\n", " ")
		row := []string{item.Time, item.Topic, item.Presenter, desc}

		// Row height follows the tallest wrapped cell.
		lines := 1
		for i, text := range row {
			if n := len(pdf.SplitText(text, colWidths[i]-2)); n > lines {
				lines = n
			}
		}
		rowHeight := float64(lines) * 5

		if pdf.GetY()+rowHeight > pageHeight-pageMargin {
			break // clip rather than overflow the slide
		}

		x, y := pdf.GetX(), pdf.GetY()
		for i, text := range row {
			pdf.Rect(x, y, colWidths[i], rowHeight, "D")
			pdf.SetXY(x+1, y+0.5)
			pdf.MultiCell(colWidths[i]-2, 5, text, "", "L", false)
			x += colWidths[i]
		}
		pdf.SetXY(pageMargin, y+rowHeight)
	}
}

func cardSlide(pdf *fpdf.Fpdf, card types.ChallengeCardData, sources sourceIndex) {
	slideHeading(pdf, card.Title)

	colWidth := (contentWidth - 10) / 2
	top := pdf.GetY()

	// Left column: relevance and impact.
	pdf.SetXY(pageMargin, top)
	labeledParagraph(pdf, colWidth, "Relevance", card.Relevance)
	labeledParagraph(pdf, colWidth, "Potential Impact", card.PotentialImpact)

	// Right column: success criteria, opportunities, citation markers.
	right := pageMargin + colWidth + 10
	pdf.SetXY(right, top)
	labeledParagraphAt(pdf, right, colWidth, "Success Criteria", card.SuccessCriteria)

	pdf.SetX(right)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(colWidth, 6, "AI Solution Opportunities", "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, opp := range card.AISolutionOpportunities {
		pdf.SetX(right)
		pdf.MultiCell(colWidth, 5.5, "- "+opp, "", "L", false)
	}
	pdf.Ln(3)

	if len(card.SupportingSources) > 0 {
		marks := make([]string, 0, len(card.SupportingSources))
		for _, src := range card.SupportingSources {
			marks = append(marks, fmt.Sprintf("[%d]", sources.number(src.URI)))
		}
		pdf.SetX(right)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(colWidth, 5, "Sources: "+strings.Join(marks, " "), "", "L", false)
		pdf.SetTextColor(20, 20, 20)
	}
}

func labeledParagraph(pdf *fpdf.Fpdf, width float64, label, text string) {
	labeledParagraphAt(pdf, pageMargin, width, label, text)
}

func labeledParagraphAt(pdf *fpdf.Fpdf, x, width float64, label, text string) {
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(width, 6, label, "", 2, "L", false, 0, "")
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(width, 5.5, text, "", "L", false)
	pdf.Ln(3)
}

func appendixSlide(pdf *fpdf.Fpdf, sources sourceIndex) {
	slideHeading(pdf, "Appendix: Sources & References")

	for i, src := range sources.order {
		if pdf.GetY() > pageHeight-pageMargin-12 {
			break
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(contentWidth, 5.5, fmt.Sprintf("%d. %s", i+1, src.Title), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 102, 204)
		pdf.MultiCell(contentWidth, 5, src.URI, "", "L", false)
		pdf.SetTextColor(20, 20, 20)
		pdf.Ln(2)
	}
}
