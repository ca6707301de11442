// Package library provides the document library browser for the TUI.
package library

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
)

// Row is one visible line of the flattened library tree.
type Row struct {
	Label string
	Path  string
	Type  domain.NodeType
	Depth int
}

// View lists the library tree. Selecting a document emits
// messages.DocumentSelected; the app switches back to the ask view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.LibraryService
	ctx     context.Context
	root    string

	rows     []Row
	selected int
	offset   int
	loading  bool
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a library view. service may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context passed to the library service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithRoot sets the folder that document paths are relative to.
func (v *View) WithRoot(root string) *View {
	v.root = root
	return v
}

// Init loads the library tree.
func (v *View) Init() tea.Cmd {
	if v.service == nil {
		v.err = fmt.Errorf("%w: no library configured", domain.ErrNotFound)
		return nil
	}
	v.loading = true
	ctx := v.ctx
	svc := v.service
	return func() tea.Msg {
		root, err := svc.Hierarchy(ctx)
		return messages.LibraryLoaded{Root: root, Err: err}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.LibraryLoaded:
		v.loading = false
		v.err = msg.Err
		v.rows = nil
		if msg.Err == nil && msg.Root != nil {
			v.rows = Flatten(msg.Root)
		}
		v.selected = v.firstDocument()
		v.offset = 0
		v.scroll()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, changeView(messages.ViewAsk)

	case keymap.Matches(keyStr, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.scroll()
		}

	case keymap.Matches(keyStr, v.keymap.Down):
		if v.selected < len(v.rows)-1 {
			v.selected++
			v.scroll()
		}

	case keymap.Matches(keyStr, v.keymap.Select):
		row, ok := v.SelectedRow()
		if !ok || row.Type != domain.NodeTypeDocument {
			return v, nil
		}
		path := row.Path
		if v.root != "" {
			path = filepath.Join(v.root, row.Path)
		}
		return v, func() tea.Msg {
			return messages.DocumentSelected{Path: path}
		}

	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

func (v *View) firstDocument() int {
	for i, r := range v.rows {
		if r.Type == domain.NodeTypeDocument {
			return i
		}
	}
	return 0
}

// scroll keeps the selected row inside the visible window.
func (v *View) scroll() {
	visible := v.visibleRows()
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+visible {
		v.offset = v.selected - visible + 1
	}
}

func (v *View) visibleRows() int {
	// Title, blank line, blank line and footer.
	n := v.height - 4
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the library tree.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Library"))
	if v.root != "" {
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(v.root))
	}
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading library..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("The library is empty."))
		b.WriteString("\n")
	default:
		end := v.offset + v.visibleRows()
		if end > len(v.rows) {
			end = len(v.rows)
		}
		for i := v.offset; i < end; i++ {
			b.WriteString(v.renderRow(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Open  [Esc] Back  [q] Quit"))
	return b.String()
}

func (v *View) renderRow(i int) string {
	row := v.rows[i]
	line := row.Label
	if row.Type == domain.NodeTypeFolder {
		line += "/"
	}
	switch {
	case i == v.selected:
		return "> " + v.styles.Selected.Render(line)
	case row.Type == domain.NodeTypeFolder:
		return "  " + v.styles.Subtitle.Render(line)
	default:
		return "  " + v.styles.Normal.Render(line)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.scroll()
}

// Rows returns the flattened tree.
func (v *View) Rows() []Row {
	return v.rows
}

// Selected returns the selected row index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedRow returns the selected row.
func (v *View) SelectedRow() (Row, bool) {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return Row{}, false
	}
	return v.rows[v.selected], true
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Flatten lists every node below root depth first, with tree connectors
// in the label. The root itself is omitted.
func Flatten(root *domain.HierarchyNode) []Row {
	var rows []Row
	var walk func(nodes []domain.HierarchyNode, prefix string, depth int)
	walk = func(nodes []domain.HierarchyNode, prefix string, depth int) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			connector, childPrefix := "├── ", "│   "
			if last {
				connector, childPrefix = "└── ", "    "
			}
			rows = append(rows, Row{
				Label: prefix + connector + n.Name,
				Path:  n.Path,
				Type:  n.Type,
				Depth: depth,
			})
			walk(n.Children, prefix+childPrefix, depth+1)
		}
	}
	walk(root.Children, "", 0)
	return rows
}
