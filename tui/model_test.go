package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-programmer/config"
	"go-programmer/engine"
	"go-programmer/midi"
	"go-programmer/theme"
	"go-programmer/widgets"
)

type fakeRuntime struct {
	stats   engine.Stats
	updates chan struct{}
}

func (f *fakeRuntime) Stats() engine.Stats      { return f.stats }
func (f *fakeRuntime) Updates() <-chan struct{} { return f.updates }

func newTestModel() Model {
	panel := widgets.NewPanel(config.DefaultConfig().Parameters)
	rt := &fakeRuntime{updates: make(chan struct{}, 1)}
	return NewModel(panel, rt, nil, theme.New(nil))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestToggleWithEnter(t *testing.T) {
	m := press(newTestModel(), tea.KeyMsg{Type: tea.KeyEnter})
	if v, _ := m.Panel.Value("EnableArp"); v != 1 {
		t.Errorf("expected EnableArp 1, got %d", v)
	}
}

func TestNavigateAndAdjust(t *testing.T) {
	m := newTestModel()
	m = press(m,
		runes("j"), runes("j"), runes("j"), // Portamento
		runes("l"), runes("l"),
		runes("]"),
		tea.KeyMsg{Type: tea.KeyLeft},
	)
	if m.Panel.Selected() != 3 {
		t.Fatalf("expected selection 3, got %d", m.Panel.Selected())
	}
	if v, _ := m.Panel.Value("Portamento"); v != 11 {
		t.Errorf("expected Portamento 11, got %d", v)
	}

	m = press(m, runes("["), runes("["))
	if v, _ := m.Panel.Value("Portamento"); v != 0 {
		t.Errorf("expected Portamento clamped to 0, got %d", v)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, runes("k"))
	if m.Panel.Selected() != 1 {
		t.Errorf("expected selection 1, got %d", m.Panel.Selected())
	}
}

func TestQuit(t *testing.T) {
	next, cmd := newTestModel().Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestCCMsgUpdatesPanel(t *testing.T) {
	m := press(newTestModel(), CCMsg{Event: midi.CCEvent{Channel: 1, Controller: 5, Value: 90}})
	if v, _ := m.Panel.Value("Portamento"); v != 90 {
		t.Errorf("expected Portamento 90, got %d", v)
	}
}

func TestDeviceEventsUpdateHeader(t *testing.T) {
	m := press(newTestModel(),
		DeviceEventMsg{Type: midi.DeviceConnected, Port: midi.PortOutput, Name: "0-Coast MIDI 1"},
	)
	if m.output != "0-Coast MIDI 1" {
		t.Errorf("expected output name, got %q", m.output)
	}
	if !strings.Contains(m.View(), "out: 0-Coast MIDI 1") {
		t.Errorf("expected port in header: %q", m.View())
	}

	m = press(m, DeviceEventMsg{Type: midi.DeviceDisconnected, Port: midi.PortOutput, Name: "0-Coast MIDI 1"})
	if m.output != "" {
		t.Errorf("expected output cleared, got %q", m.output)
	}
	if !strings.Contains(m.View(), "out: none") {
		t.Errorf("expected no output in header: %q", m.View())
	}
}

func TestViewShowsCounters(t *testing.T) {
	m := newTestModel()
	m.Runtime.(*fakeRuntime).stats = engine.Stats{Pending: 2, Events: 7, Dropped: 1}

	view := m.View()
	for _, want := range []string{"queue:2", "sent:7", "dropped:1", "Enable Arpeggiator", "Portamento"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
