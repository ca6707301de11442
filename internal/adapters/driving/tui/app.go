package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/views/library"
)

// App is the root Bubbletea model. It routes messages to the active view.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	askView     *ask.View
	libraryView *library.View

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		askView:     ask.NewView(s, km, ports.Question, ports.Query),
		libraryView: library.NewView(s, km, ports.Library),
		currentView: messages.ViewAsk,
	}, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	a.libraryView.WithContext(ctx)
	return a
}

// WithDocument opens a document in the ask view.
func (a *App) WithDocument(path string) *App {
	a.askView.SetDocument(path)
	return a
}

// WithLibraryRoot sets the folder library paths are relative to.
func (a *App) WithLibraryRoot(root string) *App {
	a.libraryView.WithRoot(root)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("verbum"),
		a.askView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc || key.Matches(msg, a.keymap.Help) {
				a.currentView = messages.ViewAsk
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewLibrary {
			return a, a.libraryView.Init()
		}
		return a, nil

	case messages.DocumentSelected:
		a.currentView = messages.ViewAsk
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.LibraryLoaded:
		a.libraryView, cmd = a.libraryView.Update(msg)
		return a, cmd

	case messages.AnswerCompleted:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.QueryCompleted:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewLibrary:
		return a.libraryView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.askView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Document returns the document open in the ask view.
func (a *App) Document() string {
	return a.askView.Document()
}

// Err returns the last error reported by a service.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.askView.SetDimensions(width, height)
	a.libraryView.SetDimensions(width, height)
}
