// Package tui is a terminal front end for the topology editor. Nodes are
// listed in a table; the highlighted node stands in for the pointer while
// a link is being drawn.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"topoedit/internal/domain"
	"topoedit/internal/scene"
	"topoedit/internal/topology"
)

// moveStep is how far one shift+arrow press drags a node
const moveStep = 10.0

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2196f3")).
			MarginLeft(2).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)

	armedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffeb3b")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2196f3")).
			Padding(0, 1).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f44336")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4caf50"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginLeft(2)

	// terminal renderings of the link stroke colors
	levelStyles = map[domain.TrafficLevel]lipgloss.Style{
		domain.TrafficIdle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ffeb3b")).Faint(true),
		domain.TrafficLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50")),
		domain.TrafficMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffeb3b")),
		domain.TrafficHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f44336")).Bold(true),
	}
)

type tickMsg time.Time

// Model is the bubbletea model. The editor is only touched from Update,
// which bubbletea runs on a single goroutine.
type Model struct {
	editor   *topology.Editor
	surface  *scene.Memory
	interval time.Duration

	nodes   table.Model
	help    help.Model
	keys    keyMap
	handles []topology.AnimationHandle
	paused  bool

	graph      *domain.Graph
	message    string
	messageErr bool
	width      int
}

// New creates a model over a fresh editor drawing on an in-memory surface
func New(opts topology.Options, rnd topology.Rand, interval time.Duration) Model {
	surface := scene.NewMemory()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 18},
			{Title: "Type", Width: 9},
			{Title: "Position", Width: 14},
			{Title: "Links", Width: 5},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#2196f3")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("#2196f3")).
		Bold(false)
	t.SetStyles(s)

	m := Model{
		editor:   topology.New(surface, rnd, opts),
		surface:  surface,
		interval: interval,
		nodes:    t,
		help:     help.New(),
		keys:     keys,
	}
	m.refresh()
	return m
}

// Editor returns the underlying editor
func (m Model) Editor() *topology.Editor {
	return m.editor
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if !m.paused && m.editor.Frame() > 0 {
			m.refresh()
		}
		return m, m.tick()

	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			m.refresh()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	prev := m.nodes.Cursor()
	m.nodes, cmd = m.nodes.Update(msg)
	if m.nodes.Cursor() != prev {
		m.trackPointer()
		m.refresh()
	}
	return m, cmd
}

// handleKey runs editor operations. Unmatched keys fall through to the table.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Building):
		m.addNode(domain.NodeTypeBuilding)
	case key.Matches(msg, m.keys.Server):
		m.addNode(domain.NodeTypeServer)
	case key.Matches(msg, m.keys.Switch):
		m.addNode(domain.NodeTypeSwitch)
	case key.Matches(msg, m.keys.AP):
		m.addNode(domain.NodeTypeAccessPoint)

	case key.Matches(msg, m.keys.LinkMode):
		on := !m.editor.LinkMode()
		m.editor.SetLinkMode(on)
		m.info("Link mode %s", onOff(on))

	case key.Matches(msg, m.keys.Click):
		m.click()

	case key.Matches(msg, m.keys.Traffic):
		started := m.editor.StartAllTraffic()
		m.handles = append(m.handles, started...)
		m.info("Started traffic on %d links", len(started))

	case key.Matches(msg, m.keys.Stop):
		m.stopNewest()

	case key.Matches(msg, m.keys.Clear):
		m.editor.ClearAll()
		m.handles = nil
		m.nodes.SetCursor(0)
		m.info("Cleared topology")

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		m.info("Animation %s", map[bool]string{true: "paused", false: "running"}[m.paused])

	case key.Matches(msg, m.keys.MoveUp):
		m.drag(0, -moveStep)
	case key.Matches(msg, m.keys.MoveDown):
		m.drag(0, moveStep)
	case key.Matches(msg, m.keys.MoveLeft):
		m.drag(-moveStep, 0)
	case key.Matches(msg, m.keys.MoveRight):
		m.drag(moveStep, 0)

	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) addNode(t domain.NodeType) {
	id, err := m.editor.AddNodeOfType(t)
	if err != nil {
		m.fail(err)
		return
	}
	m.info("Added %s %s", t.Label(), id)
}

func (m *Model) click() {
	id, ok := m.selected()
	if !ok {
		return
	}
	res, err := m.editor.OnNodeClicked(id)
	if err != nil {
		m.fail(err)
		return
	}
	switch res.Action {
	case topology.ClickArmed:
		m.info("Linking from %s: highlight a node and press enter", id)
	case topology.ClickLinked:
		m.info("Created link %s", res.Link)
	case topology.ClickNoop:
		m.info("Pick a different node to finish the link")
	case topology.ClickSelected:
		if node, err := m.editor.Node(id); err == nil {
			m.info("%s", node.Tooltip())
		}
	}
}

func (m *Model) stopNewest() {
	for len(m.handles) > 0 {
		h := m.handles[len(m.handles)-1]
		m.handles = m.handles[:len(m.handles)-1]
		err := m.editor.StopTraffic(h)
		if errors.Is(err, domain.ErrNotFound) {
			// stopped by a clear or its link went away
			continue
		}
		if err != nil {
			m.fail(err)
			return
		}
		m.info("Stopped animation %d", h)
		return
	}
	m.info("No traffic running")
}

func (m *Model) drag(dx, dy float64) {
	id, ok := m.selected()
	if !ok {
		return
	}
	node, err := m.editor.Node(id)
	if err != nil {
		m.fail(err)
		return
	}
	p := node.Position
	if err := m.editor.OnNodeDragged(id, p.X+dx, p.Y+dy); err != nil {
		m.fail(err)
	}
}

// trackPointer points the link preview at the highlighted node
func (m *Model) trackPointer() {
	if state, _ := m.editor.DrawState(); state != topology.DrawArmed {
		return
	}
	id, ok := m.selected()
	if !ok {
		return
	}
	if node, err := m.editor.Node(id); err == nil {
		c := node.Center()
		m.editor.OnPointerMoved(c.X, c.Y)
	}
}

func (m Model) selected() (domain.NodeID, bool) {
	row := m.nodes.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return domain.NodeID(row[0]), true
}

// refresh rebuilds the view from an editor snapshot
func (m *Model) refresh() {
	m.graph = m.editor.Snapshot()

	rows := make([]table.Row, 0, len(m.graph.Nodes))
	for _, n := range m.graph.Nodes {
		rows = append(rows, table.Row{
			string(n.ID),
			n.Name,
			n.Type.Label(),
			fmt.Sprintf("%.0f,%.0f", n.Position.X, n.Position.Y),
			fmt.Sprintf("%d", n.Degree),
		})
	}
	m.nodes.SetRows(rows)
	if m.nodes.Cursor() >= len(rows) && len(rows) > 0 {
		m.nodes.SetCursor(len(rows) - 1)
	}
}

func (m *Model) info(format string, args ...interface{}) {
	m.message = fmt.Sprintf(format, args...)
	m.messageErr = false
}

func (m *Model) fail(err error) {
	m.message = err.Error()
	m.messageErr = true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("topoedit"))
	b.WriteString("\n")

	status := fmt.Sprintf("%s · %d shapes · link mode %s", m.graph.Summary(), m.surface.Len(), onOff(m.graph.Session.LinkMode))
	if m.paused {
		status += " · paused"
	}
	b.WriteString(statusStyle.Render(status))
	if m.graph.Session.Armed {
		b.WriteString(" ")
		b.WriteString(armedStyle.Render("linking from " + string(m.graph.Session.Start)))
	}
	b.WriteString("\n\n")

	links := m.renderLinks()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(m.nodes.View()),
		boxStyle.Render(links),
	))
	b.WriteString("\n")

	if m.message != "" {
		style := successStyle
		if m.messageErr {
			style = errorStyle
		}
		b.WriteString(statusStyle.Render(style.Render(m.message)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderLinks() string {
	if len(m.graph.Links) == 0 {
		return statusStyle.UnsetMarginLeft().Render("no links")
	}

	running := make(map[domain.LinkID]int)
	for _, a := range m.graph.Animations {
		running[a.LinkID]++
	}

	var b strings.Builder
	for i, l := range m.graph.Links {
		if i > 0 {
			b.WriteString("\n")
		}
		style, ok := levelStyles[l.Level]
		if !ok {
			style = levelStyles[domain.TrafficIdle]
		}
		line := fmt.Sprintf("%-4s %s ── %s  %-6s", l.ID, l.From, l.To, l.Level)
		if n := running[l.ID]; n > 0 {
			line += fmt.Sprintf(" ×%d", n)
		}
		b.WriteString(style.Render(line))
	}
	return b.String()
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Run starts the interactive program and blocks until the user quits
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
