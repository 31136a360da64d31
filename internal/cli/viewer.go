package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewerChrome is the number of lines taken by the header and the help bar.
const viewerChrome = 2

type viewerPane int

const (
	paneTree viewerPane = iota
	paneGantt
)

func (p viewerPane) String() string {
	if p == paneGantt {
		return "Gantt"
	}
	return "Tree"
}

type viewerKeyMap struct {
	Quit   key.Binding
	Switch key.Binding
	Scale  key.Binding
	Reload key.Binding
	Top    key.Binding
	Bottom key.Binding
}

func defaultViewerKeys() viewerKeyMap {
	return viewerKeyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tree/gantt")),
		Scale:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scale")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	}
}

func (k viewerKeyMap) bindings() []key.Binding {
	return []key.Binding{k.Switch, k.Scale, k.Reload, k.Top, k.Bottom, k.Quit}
}

// viewerViewportKeyMap scrolls with arrows, vi keys and page keys.
func viewerViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

// scheduleLoadedMsg carries the result of (re)loading the schedule.
type scheduleLoadedMsg struct {
	doc domain.Document
	err error
}

// viewerModel is the read-only full-screen schedule browser.
type viewerModel struct {
	projectID string
	load      func() (domain.Document, error)

	doc    domain.Document
	loaded bool
	err    error

	pane  viewerPane
	scale gantt.Scale
	keys  viewerKeyMap
	vp    viewport.Model
	width int
}

func newViewerModel(projectID string, load func() (domain.Document, error)) viewerModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = viewerViewportKeyMap()
	return viewerModel{
		projectID: projectID,
		load:      load,
		scale:     gantt.ScaleAuto,
		keys:      defaultViewerKeys(),
		vp:        vp,
	}
}

func (m viewerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m viewerModel) loadCmd() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		doc, err := load()
		return scheduleLoadedMsg{doc: doc, err: err}
	}
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-viewerChrome)
		m.refresh()
		return m, nil

	case scheduleLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.doc = msg.doc
			m.loaded = true
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Switch):
			m.pane = 1 - m.pane
			m.refresh()
			m.vp.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Scale):
			m.scale = nextScale(m.scale)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			return m, m.loadCmd()
		case key.Matches(msg, m.keys.Top):
			m.vp.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.vp.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func nextScale(s gantt.Scale) gantt.Scale {
	for i, sc := range scales {
		if sc == s {
			return scales[(i+1)%len(scales)]
		}
	}
	return gantt.ScaleAuto
}

// refresh re-renders the active pane into the viewport, keeping the offset.
func (m *viewerModel) refresh() {
	m.vp.SetContent(m.content())
}

func (m viewerModel) content() string {
	switch {
	case m.err != nil:
		return formatter.StyleRed.Render("Error: " + m.err.Error())
	case !m.loaded:
		return formatter.Dim("Loading…")
	case m.pane == paneGantt:
		return formatter.RenderGantt(m.doc, m.scale, m.width)
	default:
		return formatter.FormatSchedule(m.projectID, m.doc)
	}
}

func (m viewerModel) View() string {
	var tabs []string
	for _, p := range []viewerPane{paneTree, paneGantt} {
		if p == m.pane {
			tabs = append(tabs, formatter.StyleHeader.Render(p.String()))
		} else {
			tabs = append(tabs, formatter.Dim(p.String()))
		}
	}
	header := formatter.Bold(m.projectID) + "  " + strings.Join(tabs, formatter.Dim(" │ "))
	if m.pane == paneGantt {
		header += formatter.Dim("  scale " + string(m.scale))
	}
	header += "  " + scrollIndicator(m.vp)

	var help []string
	for _, b := range m.keys.bindings() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return header + "\n" + m.vp.View() + "\n" + formatter.Dim(strings.Join(help, " · "))
}

// scrollIndicator returns a dim scroll position string for the header.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	pct := int(vp.ScrollPercent() * 100)
	return formatter.Dim(fmt.Sprintf("[%d%%]", pct))
}

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view PROJECT",
		Short: "Browse the schedule in a scrollable full-screen viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("view needs an interactive terminal; use show or gantt instead")
			}
			ctx := cmd.Context()
			m := newViewerModel(args[0], func() (domain.Document, error) {
				return app.Schedules.Load(ctx, args[0])
			})
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}
