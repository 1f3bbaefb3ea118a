package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-programmer/debug"
	"go-programmer/engine"
	"go-programmer/midi"
	"go-programmer/theme"
	"go-programmer/widgets"
)

const (
	coarseStep  = 10
	refreshRate = time.Second / 10
)

// Runtime is the part of the engine the UI watches
type Runtime interface {
	Stats() engine.Stats
	Updates() <-chan struct{}
}

type Model struct {
	Panel     *widgets.Panel
	Runtime   Runtime
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme

	keys       keyMap
	help       help.Model
	output     string
	input      string
	lastDevice string
	quitting   bool
}

type UpdateMsg struct{}

type tickMsg time.Time

type DeviceEventMsg midi.DeviceEvent

// CCMsg is a control change from the hardware controller
type CCMsg struct {
	Event      midi.CCEvent
	Controller *midi.Controller
}

func NewModel(panel *widgets.Panel, rt Runtime, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Panel:     panel,
		Runtime:   rt,
		DeviceMgr: deviceMgr,
		Theme:     th,
		keys:      newKeyMap(),
		help:      help.New(),
	}
}

func ListenForUpdates(rt Runtime) tea.Cmd {
	return func() tea.Msg {
		<-rt.Updates()
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForCC(c *midi.Controller) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-c.CCEvents()
		if !ok {
			return nil
		}
		return CCMsg{Event: ev, Controller: c}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Runtime), tick()}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.Panel.Move(-1)
		case key.Matches(msg, m.keys.Down):
			m.Panel.Move(1)
		case key.Matches(msg, m.keys.Activate):
			m.Panel.Activate()
		case key.Matches(msg, m.keys.Decrease):
			m.Panel.Adjust(-1)
		case key.Matches(msg, m.keys.Increase):
			m.Panel.Adjust(1)
		case key.Matches(msg, m.keys.CoarseDown):
			m.Panel.Adjust(-coarseStep)
		case key.Matches(msg, m.keys.CoarseUp):
			m.Panel.Adjust(coarseStep)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Runtime)

	case tickMsg:
		return m, tick()

	case CCMsg:
		if !m.Panel.SetFromCC(msg.Event.Controller, msg.Event.Value) {
			debug.Log("tui", "unmapped cc", "cc", msg.Event.Controller, "value", msg.Event.Value)
		}
		return m, ListenForCC(msg.Controller)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		m.lastDevice = event.String()
		var cmd tea.Cmd
		switch {
		case event.Port == midi.PortOutput && event.Type == midi.DeviceConnected:
			m.output = event.Name
		case event.Port == midi.PortOutput:
			m.output = ""
		case event.Type == midi.DeviceConnected:
			m.input = event.Name
			if event.Controller != nil {
				cmd = ListenForCC(event.Controller)
			}
		default:
			m.input = ""
		}
		if m.DeviceMgr != nil {
			return m, tea.Batch(cmd, ListenForDevices(m.DeviceMgr))
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	st := m.Runtime.Stats()

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("go-programmer"))
	out.WriteString("  ")
	out.WriteString(m.portStatus("out", m.output))
	out.WriteString("  ")
	out.WriteString(m.portStatus("in", m.input))
	out.WriteString("\n")

	counters := fmt.Sprintf("queue:%d  sent:%d  dropped:%d", st.Pending, st.Events, st.Dropped)
	if st.SendErrors > 0 {
		counters += warnStyle.Render(fmt.Sprintf("  errors:%d", st.SendErrors))
	}
	out.WriteString(dimStyle.Render(counters))
	out.WriteString("\n\n")

	out.WriteString(widgets.RenderPanel(m.Panel, m.Theme))
	out.WriteString("\n\n")

	if m.lastDevice != "" {
		out.WriteString(dimStyle.Render(m.lastDevice))
		out.WriteString("\n")
	}
	out.WriteString(m.help.View(m.keys))

	return out.String()
}

func (m Model) portStatus(label, name string) string {
	if name == "" {
		return lipgloss.NewStyle().Foreground(m.Theme.Muted()).
			Render(fmt.Sprintf("%c %s: none", m.Theme.Symbols.Offline, label))
	}
	return lipgloss.NewStyle().Foreground(m.Theme.Success()).
		Render(fmt.Sprintf("%c %s: %s", m.Theme.Symbols.Online, label, name))
}
