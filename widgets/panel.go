package widgets

import (
	"fmt"
	"sync"

	"go-programmer/config"
)

// Control is one widget's name and current value, as the scanner sees it
type Control struct {
	Name  string
	Value int
}

// State is a snapshot of one widget for rendering
type State struct {
	Name    string
	Label   string
	Kind    config.WidgetKind
	CC      int
	Min     int
	Max     int
	Choices []string
	Value   int
}

// Text returns the label, falling back to the name
func (s State) Text() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Choice returns the label for the current value of a choice widget
func (s State) Choice() string {
	i := s.Value - s.Min
	if i < 0 || i >= len(s.Choices) {
		return fmt.Sprint(s.Value)
	}
	return s.Choices[i]
}

// Panel holds the widget state edited by the terminal UI and by hardware
// CC input. It is safe for concurrent use.
type Panel struct {
	mu       sync.RWMutex
	widgets  []State
	index    map[string]int
	selected int
}

func NewPanel(params []config.ParameterConfig) *Panel {
	p := &Panel{index: make(map[string]int)}
	for _, pc := range params {
		p.index[pc.Name] = len(p.widgets)
		p.widgets = append(p.widgets, State{
			Name:    pc.Name,
			Label:   pc.Label,
			Kind:    pc.Widget,
			CC:      pc.CC,
			Min:     pc.Min,
			Max:     pc.Max,
			Choices: pc.Choices,
			Value:   pc.Value,
		})
	}
	return p
}

// Controls returns every widget's current value in display order
func (p *Panel) Controls() []Control {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Control, len(p.widgets))
	for i, w := range p.widgets {
		out[i] = Control{Name: w.Name, Value: w.Value}
	}
	return out
}

// States returns a snapshot of every widget
func (p *Panel) States() []State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]State, len(p.widgets))
	copy(out, p.widgets)
	return out
}

func (p *Panel) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.widgets)
}

// Value returns a widget's value by name
func (p *Panel) Value(name string) (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	i, ok := p.index[name]
	if !ok {
		return 0, false
	}
	return p.widgets[i].Value, true
}

// Set changes a widget's value by name, clamped to its range
func (p *Panel) Set(name string, value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[name]
	if !ok {
		return fmt.Errorf("no widget %q", name)
	}
	p.widgets[i].Value = clamp(value, p.widgets[i].Min, p.widgets[i].Max)
	return nil
}

func (p *Panel) Selected() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

// Move shifts the selection, wrapping at both ends
func (p *Panel) Move(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.widgets)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

// Activate toggles a toggle, advances a choice (wrapping) and flips a slider
// between its ends.
func (p *Panel) Activate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.widgets) == 0 {
		return
	}
	w := &p.widgets[p.selected]
	switch w.Kind {
	case config.WidgetChoice:
		w.Value++
		if w.Value > w.Max {
			w.Value = w.Min
		}
	default:
		if w.Value != w.Min {
			w.Value = w.Min
		} else {
			w.Value = w.Max
		}
	}
}

// Adjust adds delta to the selected widget, clamped to its range
func (p *Panel) Adjust(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.widgets) == 0 {
		return
	}
	w := &p.widgets[p.selected]
	w.Value = clamp(w.Value+delta, w.Min, w.Max)
}

// SetFromCC applies a 0-127 controller value to every widget bound to cc,
// scaled into the widget's range. Returns whether any widget matched.
func (p *Panel) SetFromCC(cc, value uint8) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	matched := false
	for i := range p.widgets {
		w := &p.widgets[i]
		if w.CC != int(cc) {
			continue
		}
		w.Value = scale(int(value), w.Min, w.Max)
		matched = true
	}
	return matched
}

// scale maps 0-127 onto min..max, rounding to nearest
func scale(v, min, max int) int {
	v = clamp(v, 0, 127)
	return min + (v*(max-min)+63)/127
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
