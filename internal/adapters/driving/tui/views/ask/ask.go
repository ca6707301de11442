// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
)

// highConfidence is the score from which an answer is shown as reliable.
const highConfidence = 0.6

// View holds the question input, the pending spinner and the last answer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	spinner   spinner.Model
	statusbar *status.Bar

	questionService driving.QuestionService
	queryService    driving.QueryService
	ctx             context.Context

	document    string
	mode        messages.Mode
	answering   bool
	asked       string
	result      *domain.AnswerResult
	reply       string
	err         error
	showContext bool

	width  int
	height int
	ready  bool
}

// NewView creates an ask view. queryService may be nil, which disables
// query mode.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	questionService driving.QuestionService,
	queryService driving.QueryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Subtitle

	return &View{
		styles:          s,
		keymap:          km,
		input:           input.NewQuestionInput(s),
		spinner:         sp,
		statusbar:       status.NewBar(s, km),
		questionService: questionService,
		queryService:    queryService,
		ctx:             context.Background(),
		showContext:     true,
		width:           80,
		height:          24,
	}
}

// WithContext sets the context passed to the services.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.answering {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerCompleted:
		v.answering = false
		if msg.Err != nil {
			v.fail(msg.Err)
			return v, v.input.Focus()
		}
		v.result = msg.Result
		v.statusbar.SetState(status.StateAnswered)
		if msg.Result != nil {
			v.statusbar.SetMessage(fmt.Sprintf("confidence %.2f", msg.Result.Confidence))
		}
		return v, v.input.Focus()

	case messages.QueryCompleted:
		v.answering = false
		if msg.Err != nil {
			v.fail(msg.Err)
			return v, v.input.Focus()
		}
		v.reply = msg.Reply
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetMessage("reply received")
		return v, v.input.Focus()

	case messages.DocumentSelected:
		v.SetDocument(msg.Path)
		return v, v.input.Focus()

	case messages.ErrorOccurred:
		v.fail(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.answering {
		return v, nil
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, changeView(messages.ViewHelp)

	case keymap.Matches(keyStr, v.keymap.Library):
		return v, changeView(messages.ViewLibrary)

	case keymap.Matches(keyStr, v.keymap.Mode):
		if v.queryService == nil {
			v.fail(fmt.Errorf("%w: no chat model configured", domain.ErrLLMUnavailable))
			return v, nil
		}
		v.setMode(1 - v.mode)
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ToggleContext):
		v.showContext = !v.showContext
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit validates the input and starts the request.
func (v *View) submit() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return nil
	}
	if v.document == "" {
		v.fail(errors.New("no document open, press ctrl+o to pick one from the library"))
		return nil
	}

	v.err = nil
	v.result = nil
	v.reply = ""
	v.asked = text
	v.answering = true
	v.input.Reset()
	v.input.Blur()
	v.statusbar.SetState(status.StateAnswering)
	v.statusbar.SetMessage("")

	if v.mode == messages.ModeQuery {
		return tea.Batch(v.spinner.Tick, v.performQuery(v.document, text))
	}
	return tea.Batch(v.spinner.Tick, v.performAsk(v.document, text))
}

func (v *View) performAsk(path, question string) tea.Cmd {
	ctx := v.ctx
	svc := v.questionService
	return func() tea.Msg {
		result, err := svc.AskDocument(ctx, path, question)
		return messages.AnswerCompleted{Question: question, Result: result, Err: err}
	}
}

func (v *View) performQuery(path, query string) tea.Cmd {
	ctx := v.ctx
	svc := v.queryService
	return func() tea.Msg {
		reply, err := svc.Query(ctx, path, query)
		return messages.QueryCompleted{Query: query, Reply: reply, Err: err}
	}
}

func (v *View) fail(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) setMode(mode messages.Mode) {
	v.mode = mode
	v.input.SetMode(mode)
	v.statusbar.SetMode(mode)
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Verbum"))
	b.WriteString("  ")
	if v.document != "" {
		b.WriteString(v.styles.Subtitle.Render(v.document))
	} else {
		b.WriteString(v.styles.Muted.Render("no document open"))
	}
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.answering:
		b.WriteString(v.spinner.View())
		b.WriteString(" ")
		b.WriteString(v.styles.Muted.Render(v.asked))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		if hint := Hint(v.err); hint != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Help.Render(hint))
		}
	case v.result != nil:
		b.WriteString(v.renderAnswer())
	case v.reply != "":
		b.WriteString(v.renderReply())
	}

	content := b.String()
	gap := v.height - lipgloss.Height(content) - 1
	if gap > 0 {
		content += strings.Repeat("\n", gap)
	}
	return content + "\n" + v.statusbar.View()
}

func (v *View) renderAnswer() string {
	paneWidth := v.paneWidth()

	answer := v.result.Answer
	if answer == "" {
		answer = "(no answer found)"
	}

	var b strings.Builder
	b.WriteString(v.styles.Muted.Render("Q: " + v.asked))
	b.WriteString("\n")
	b.WriteString(v.styles.Answer.Width(paneWidth).Render(answer))
	b.WriteString("\n")

	conf := v.styles.Confidence(v.result.Confidence, domain.DefaultMinConfidence, highConfidence)
	b.WriteString(conf.Render(fmt.Sprintf("Confidence %.2f", v.result.Confidence)))
	if v.result.Source != "" {
		b.WriteString(v.styles.Muted.Render(" · " + string(v.result.Source)))
	}

	if v.showContext && v.result.Context != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Context.Width(paneWidth).Render(v.result.Context))
	}
	return b.String()
}

func (v *View) renderReply() string {
	var b strings.Builder
	b.WriteString(v.styles.Muted.Render("Q: " + v.asked))
	b.WriteString("\n")
	b.WriteString(v.styles.Answer.Width(v.paneWidth()).Render(v.reply))
	return b.String()
}

func (v *View) paneWidth() int {
	w := v.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// SetDocument opens a document and clears the previous answer.
func (v *View) SetDocument(path string) {
	v.document = path
	v.result = nil
	v.reply = ""
	v.err = nil
	v.statusbar.SetDocument(path)
	v.statusbar.Clear()
}

// Document returns the open document path.
func (v *View) Document() string {
	return v.document
}

// Mode returns the current input mode.
func (v *View) Mode() messages.Mode {
	return v.mode
}

// Answering reports whether a request is in flight.
func (v *View) Answering() bool {
	return v.answering
}

// Result returns the last answer.
func (v *View) Result() *domain.AnswerResult {
	return v.result
}

// Reply returns the last chat model reply.
func (v *View) Reply() string {
	return v.reply
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// ShowContext reports whether the supporting passage is shown.
func (v *View) ShowContext() bool {
	return v.showContext
}

// Input returns the question input component.
func (v *View) Input() *input.QuestionInput {
	return v.input
}
