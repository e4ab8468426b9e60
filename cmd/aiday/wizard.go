// Interactive wizard TUI built on bubbletea. The model is a thin view
// over the wizard state machine: every gateway-backed action runs as a
// tea.Cmd and the view re-reads machine state when it completes.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"aiday/cmd/aiday/ui"
	"aiday/internal/export"
	"aiday/internal/prompts"
	"aiday/internal/speech"
	"aiday/internal/types"
	"aiday/internal/wizard"
)

// wizardMode selects which input surface is active on top of the
// machine's phase.
type wizardMode int

const (
	modeForm wizardMode = iota
	modeQuestions
	modeLoading
	modeReview
	modeTopic
	modeSettings
	modePreview
)

var fieldLabels = [5]string{
	"Customer Name",
	"Executives Attending",
	"Line of Business",
	"Areas of Interest",
	"Customer Expectations",
}

var promptLabels = [4]string{
	"Analyzer",
	"Researcher",
	"New Card Generator",
	"Reference Agenda",
}

// Messages for tea updates.
type (
	stepDoneMsg   struct{ err error }
	exportDoneMsg struct {
		path string
		err  error
	}
)

type wizardModel struct {
	machine    *wizard.Machine
	store      *prompts.Store
	saver      export.Saver
	recognizer speech.Recognizer
	log        *zap.Logger
	styles     ui.Styles

	mode    wizardMode
	loading string // spinner caption while a gateway call is in flight

	// Phase 1 form
	inputs [5]textinput.Model
	focus  int

	// Phase 2 question input
	answerInput textinput.Model

	// Refinement
	cursor     int
	topicInput textinput.Model
	status     string

	// Settings editor
	settingsArea  textarea.Model
	settingsIndex int

	// Markdown preview
	preview  viewport.Model
	renderer *glamour.TermRenderer

	spinner spinner.Model
	width   int
	height  int
	ready   bool
}

func newWizardModel(m *wizard.Machine, store *prompts.Store, saver export.Saver, rec speech.Recognizer, log *zap.Logger) wizardModel {
	styles := ui.DefaultStyles()

	var inputs [5]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = fieldLabels[i]
		ti.CharLimit = 1024
		ti.Width = 72
		inputs[i] = ti
	}
	inputs[0].Focus()

	answer := textinput.New()
	answer.Placeholder = "Your answer (Enter to continue, may be empty)"
	answer.CharLimit = 2048
	answer.Width = 72

	topic := textinput.New()
	topic.Placeholder = "Topic for new challenge cards"
	topic.CharLimit = 256
	topic.Width = 72

	area := textarea.New()
	area.SetWidth(76)
	area.SetHeight(14)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Title

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	return wizardModel{
		machine:      m,
		store:        store,
		saver:        saver,
		recognizer:   rec,
		log:          log,
		styles:       styles,
		mode:         modeForm,
		inputs:       inputs,
		answerInput:  answer,
		topicInput:   topic,
		settingsArea: area,
		spinner:      sp,
		renderer:     renderer,
	}
}

func (m wizardModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// --- Commands -------------------------------------------------------------

func (m wizardModel) submitInfoCmd(info types.InitialContext) tea.Cmd {
	return func() tea.Msg {
		return stepDoneMsg{err: m.machine.SubmitInfo(context.Background(), info)}
	}
}

func (m wizardModel) answerCmd(answer string) tea.Cmd {
	return func() tea.Msg {
		return stepDoneMsg{err: m.machine.AnswerNext(context.Background(), answer)}
	}
}

func (m wizardModel) moreCardsCmd(topic string) tea.Cmd {
	return func() tea.Msg {
		return stepDoneMsg{err: m.machine.GenerateMoreCards(context.Background(), topic)}
	}
}

func (m wizardModel) exportMarkdownCmd() tea.Cmd {
	agenda := m.machine.Agenda()
	selected := m.machine.AcceptedCards()
	name := m.customerName()
	return func() tea.Msg {
		md := export.Markdown(agenda, selected, name)
		path, err := m.saver.Save(export.MarkdownFilename(name), export.MIMEMarkdown, []byte(md))
		return exportDoneMsg{path: path, err: err}
	}
}

func (m wizardModel) exportPDFCmd() tea.Cmd {
	agenda := m.machine.Agenda()
	selected := m.machine.AcceptedCards()
	name := m.customerName()
	return func() tea.Msg {
		data, err := export.PDF(agenda, selected, name)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := m.saver.Save(export.PDFFilename(name), export.MIMEPDF, data)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m wizardModel) customerName() string {
	if name := m.machine.CustomerName(); name != "" {
		return name
	}
	return "Valued Customer"
}

// --- Update ---------------------------------------------------------------

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.preview = viewport.New(msg.Width-4, msg.Height-6)
			m.ready = true
		} else {
			m.preview.Width = msg.Width - 4
			m.preview.Height = msg.Height - 6
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepDoneMsg:
		m.loading = ""
		m.syncMode()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// syncMode realigns the input surface with the machine phase after a
// gateway call resolves.
func (m *wizardModel) syncMode() {
	switch m.machine.Phase() {
	case types.PhaseGatheringInfo:
		m.mode = modeForm
		m.focusField(0)
	case types.PhaseAnalyzing:
		if _, ok := m.machine.PendingQuestion(); ok {
			m.mode = modeQuestions
			m.answerInput.SetValue("")
			m.answerInput.Focus()
		} else {
			m.mode = modeLoading
		}
	case types.PhaseResearching:
		m.mode = modeLoading
	case types.PhaseRefining:
		m.mode = modeReview
		if m.cursor >= len(m.machine.Cards()) {
			m.cursor = 0
		}
	}
}

func (m *wizardModel) focusField(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m wizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Restart works from anywhere except while typing into settings.
	if msg.Type == tea.KeyCtrlR && m.mode != modeSettings {
		m.machine.Restart()
		m.status = ""
		m.loading = ""
		m.syncMode()
		return m, nil
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeQuestions:
		return m.updateQuestions(msg)
	case modeLoading:
		return m, nil
	case modeReview:
		return m.updateReview(msg)
	case modeTopic:
		return m.updateTopic(msg)
	case modeSettings:
		return m.updateSettings(msg)
	case modePreview:
		return m.updatePreview(msg)
	}
	return m, nil
}

func (m wizardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focusField((m.focus + 1) % len(m.inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			m.focusField(m.focus + 1)
			return m, nil
		}
		info := types.InitialContext{
			CustomerName:         strings.TrimSpace(m.inputs[0].Value()),
			Executives:           strings.TrimSpace(m.inputs[1].Value()),
			LineOfBusiness:       strings.TrimSpace(m.inputs[2].Value()),
			AreasOfInterest:      strings.TrimSpace(m.inputs[3].Value()),
			CustomerExpectations: strings.TrimSpace(m.inputs[4].Value()),
		}
		if err := info.Validate(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		m.mode = modeLoading
		m.loading = "Analyzing context..."
		return m, m.submitInfoCmd(info)
	}

	if msg.Type == tea.KeyCtrlV && m.recognizer.Supported() {
		m.toggleVoice()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// toggleVoice starts or stops the capture session; the transcript lands
// in the focused field on stop.
func (m *wizardModel) toggleVoice() {
	if m.recognizer.Listening() {
		m.recognizer.Stop()
		if t := strings.TrimSpace(m.recognizer.Transcript()); t != "" {
			current := m.inputs[m.focus].Value()
			if current != "" {
				current += " "
			}
			m.inputs[m.focus].SetValue(current + t)
		}
		return
	}
	if err := m.recognizer.Start(); err != nil {
		m.status = err.Error()
	}
}

func (m wizardModel) updateQuestions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		answer := m.answerInput.Value()
		m.answerInput.SetValue("")
		questions := m.machine.Questions()
		if m.machine.AnsweredCount() == len(questions)-1 {
			// Last answer kicks off research.
			m.mode = modeLoading
			m.loading = "Researching your AI Day plan..."
		}
		return m, m.answerCmd(answer)
	}
	var cmd tea.Cmd
	m.answerInput, cmd = m.answerInput.Update(msg)
	return m, cmd
}

func (m wizardModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.machine.Cards()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(cards)-1 {
			m.cursor++
		}
	case "a":
		if m.cursor < len(cards) {
			_ = m.machine.Vote(cards[m.cursor].ID, true)
		}
	case "r":
		if m.cursor < len(cards) {
			_ = m.machine.Vote(cards[m.cursor].ID, false)
		}
	case "n":
		m.mode = modeTopic
		m.topicInput.SetValue("")
		m.topicInput.Focus()
	case "s":
		m.openSettings(0)
	case "v":
		return m.openPreview()
	case "e":
		m.status = "Exporting Markdown..."
		return m, m.exportMarkdownCmd()
	case "p":
		m.status = "Exporting PDF..."
		return m, m.exportPDFCmd()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m wizardModel) updateTopic(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeReview
		return m, nil
	case tea.KeyEnter:
		topic := strings.TrimSpace(m.topicInput.Value())
		if topic == "" {
			return m, nil
		}
		m.mode = modeLoading
		m.loading = fmt.Sprintf("Generating cards for %q...", topic)
		return m, m.moreCardsCmd(topic)
	}
	var cmd tea.Cmd
	m.topicInput, cmd = m.topicInput.Update(msg)
	return m, cmd
}

func (m *wizardModel) openSettings(index int) {
	m.mode = modeSettings
	m.settingsIndex = index
	p := m.store.Get()
	m.settingsArea.SetValue([]string{p.Analyzer, p.Researcher, p.NewCardGenerator, p.ReferenceAgenda}[index])
	m.settingsArea.Focus()
}

func (m *wizardModel) saveSettings() {
	p := m.store.Get()
	value := m.settingsArea.Value()
	switch m.settingsIndex {
	case 0:
		p.Analyzer = value
	case 1:
		p.Researcher = value
	case 2:
		p.NewCardGenerator = value
	case 3:
		p.ReferenceAgenda = value
	}
	m.store.Set(p)
}

func (m wizardModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.saveSettings()
		m.mode = modeReview
		return m, nil
	case tea.KeyCtrlN:
		m.saveSettings()
		m.openSettings((m.settingsIndex + 1) % len(promptLabels))
		return m, nil
	}
	var cmd tea.Cmd
	m.settingsArea, cmd = m.settingsArea.Update(msg)
	return m, cmd
}

func (m wizardModel) openPreview() (tea.Model, tea.Cmd) {
	md := export.Markdown(m.machine.Agenda(), m.machine.AcceptedCards(), m.customerName())
	rendered := md
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			rendered = out
		}
	}
	m.preview.SetContent(rendered)
	m.preview.GotoTop()
	m.mode = modePreview
	return m, nil
}

func (m wizardModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.String() == "q" {
		m.mode = modeReview
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

// --- View -----------------------------------------------------------------

func (m wizardModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("AI Day Planner"))
	b.WriteString("  ")
	b.WriteString(m.styles.PhaseBadge.Render(m.machine.Phase().String()))
	b.WriteString("\n\n")

	if errMsg := m.machine.Err(); errMsg != "" {
		b.WriteString(m.styles.Error.Render("Error: "+errMsg) + "\n\n")
	}

	switch m.mode {
	case modeForm:
		b.WriteString(m.viewForm())
	case modeQuestions:
		b.WriteString(m.viewQuestions())
	case modeLoading:
		caption := m.loading
		if caption == "" {
			caption = "Working..."
		}
		b.WriteString(m.spinner.View() + " " + caption + "\n")
	case modeReview:
		b.WriteString(m.viewReview())
	case modeTopic:
		b.WriteString(m.styles.Label.Render("New card topic") + "\n\n")
		b.WriteString(m.topicInput.View() + "\n")
		b.WriteString(m.styles.Hint.Render("Enter to generate, Esc to cancel") + "\n")
	case modeSettings:
		b.WriteString(m.viewSettings())
	case modePreview:
		b.WriteString(m.preview.View() + "\n")
		b.WriteString(m.styles.Hint.Render("Esc to close, arrows to scroll") + "\n")
	}

	if m.status != "" {
		b.WriteString(m.styles.StatusLine.Render(m.status) + "\n")
	}
	return b.String()
}

func (m wizardModel) viewForm() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Tell us about the AI Day") + "\n\n")
	for i := range m.inputs {
		b.WriteString(m.styles.Label.Render(fieldLabels[i]) + "\n")
		b.WriteString(m.inputs[i].View() + "\n")
	}
	hint := "Tab/arrows to move, Enter to submit, Ctrl+R restart, Ctrl+C quit"
	if m.recognizer.Supported() {
		hint += ", Ctrl+V voice input"
		if m.recognizer.Listening() {
			b.WriteString("\n" + m.styles.Accepted.Render("● listening...") + "\n")
		}
	}
	b.WriteString("\n" + m.styles.Hint.Render(hint) + "\n")
	return b.String()
}

func (m wizardModel) viewQuestions() string {
	var b strings.Builder
	questions := m.machine.Questions()
	answered := m.machine.AnsweredCount()
	question, ok := m.machine.PendingQuestion()
	if !ok {
		return ""
	}
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("Clarification %d of %d", answered+1, len(questions))) + "\n\n")
	b.WriteString(m.styles.Question.Render(question) + "\n\n")
	b.WriteString(m.answerInput.View() + "\n")
	b.WriteString(m.styles.Hint.Render("Enter to continue (an empty answer is allowed)") + "\n")
	return b.String()
}

func (m wizardModel) viewReview() string {
	var b strings.Builder
	cards := m.machine.Cards()
	accepted := len(m.machine.AcceptedCards())

	b.WriteString(m.styles.Label.Render(fmt.Sprintf("Challenge Cards (%d, %d accepted)", len(cards), accepted)) + "\n\n")

	for i, card := range cards {
		var badge string
		if vote, ok := m.machine.VoteFor(card.ID); !ok {
			badge = m.styles.Undecided.Render("[ undecided ]")
		} else if vote {
			badge = m.styles.Accepted.Render("[ accepted ]")
		} else {
			badge = m.styles.Rejected.Render("[ rejected ]")
		}

		body := fmt.Sprintf("%s %s\n%s", badge, card.Title, m.styles.Hint.Render(truncate(card.Relevance, 110)))
		if i == m.cursor {
			b.WriteString(m.styles.CardFocused.Render(body) + "\n")
		} else {
			b.WriteString(m.styles.Card.Render(body) + "\n")
		}
	}

	b.WriteString("\n" + m.styles.Hint.Render(
		"j/k move, a accept, r reject, n new topic, v preview, e export md, p export pdf, s prompts, Ctrl+R restart, q quit") + "\n")
	return b.String()
}

func (m wizardModel) viewSettings() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Prompt Settings: "+promptLabels[m.settingsIndex]) + "\n\n")
	b.WriteString(m.settingsArea.View() + "\n")
	b.WriteString(m.styles.Hint.Render("Ctrl+N next template, Esc to save and close") + "\n")
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
