package widgets

import (
	"strings"
	"testing"

	"go-programmer/config"
	"go-programmer/theme"
)

func newTestPanel() *Panel {
	return NewPanel(config.DefaultConfig().Parameters)
}

func TestControlsInOrder(t *testing.T) {
	p := newTestPanel()
	got := p.Controls()
	want := []string{"EnableArp", "ArpType", "EnableLegato", "Portamento"}
	if len(got) != len(want) {
		t.Fatalf("expected %d controls, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name || got[i].Value != 0 {
			t.Errorf("control %d: expected {%s 0}, got %+v", i, name, got[i])
		}
	}
}

func TestActivate(t *testing.T) {
	p := newTestPanel()

	p.Activate() // EnableArp
	if v, _ := p.Value("EnableArp"); v != 1 {
		t.Errorf("expected EnableArp 1, got %d", v)
	}
	p.Activate()
	if v, _ := p.Value("EnableArp"); v != 0 {
		t.Errorf("expected EnableArp 0, got %d", v)
	}

	p.Move(1) // ArpType, choice cycles and wraps
	p.Activate()
	if v, _ := p.Value("ArpType"); v != 1 {
		t.Errorf("expected ArpType 1, got %d", v)
	}
	p.Activate()
	if v, _ := p.Value("ArpType"); v != 0 {
		t.Errorf("expected ArpType to wrap to 0, got %d", v)
	}

	p.Move(2) // Portamento
	p.Activate()
	if v, _ := p.Value("Portamento"); v != 127 {
		t.Errorf("expected slider to jump to 127, got %d", v)
	}
}

func TestMoveWraps(t *testing.T) {
	p := newTestPanel()
	p.Move(-1)
	if p.Selected() != 3 {
		t.Errorf("expected 3, got %d", p.Selected())
	}
	p.Move(1)
	if p.Selected() != 0 {
		t.Errorf("expected 0, got %d", p.Selected())
	}
}

func TestAdjustClamps(t *testing.T) {
	p := newTestPanel()
	p.Move(3)

	p.Adjust(10)
	p.Adjust(-3)
	if v, _ := p.Value("Portamento"); v != 7 {
		t.Errorf("expected 7, got %d", v)
	}
	p.Adjust(500)
	if v, _ := p.Value("Portamento"); v != 127 {
		t.Errorf("expected 127, got %d", v)
	}
	p.Adjust(-500)
	if v, _ := p.Value("Portamento"); v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
}

func TestSet(t *testing.T) {
	p := newTestPanel()
	if err := p.Set("EnableLegato", 9); err != nil {
		t.Fatal(err)
	}
	if v, _ := p.Value("EnableLegato"); v != 1 {
		t.Errorf("expected clamp to 1, got %d", v)
	}
	if err := p.Set("Missing", 1); err == nil {
		t.Error("expected error for unknown widget")
	}
	if _, ok := p.Value("Missing"); ok {
		t.Error("expected no value for unknown widget")
	}
}

func TestSetFromCC(t *testing.T) {
	p := newTestPanel()

	tests := []struct {
		cc, value uint8
		name      string
		want      int
	}{
		{117, 127, "EnableArp", 1},
		{117, 63, "EnableArp", 0},
		{117, 64, "EnableArp", 1},
		{5, 42, "Portamento", 42},
		{5, 127, "Portamento", 127},
	}
	for _, tt := range tests {
		if !p.SetFromCC(tt.cc, tt.value) {
			t.Errorf("cc %d: expected a match", tt.cc)
		}
		if v, _ := p.Value(tt.name); v != tt.want {
			t.Errorf("cc %d=%d: expected %s %d, got %d", tt.cc, tt.value, tt.name, tt.want, v)
		}
	}

	if p.SetFromCC(1, 100) {
		t.Error("expected no match for unbound cc")
	}
}

func TestRender(t *testing.T) {
	sym := theme.New(nil).Symbols

	if got := RenderToggle(true, sym); got != "[x]" {
		t.Errorf("expected [x], got %q", got)
	}
	if got := RenderToggle(false, sym); got != "[ ]" {
		t.Errorf("expected [ ], got %q", got)
	}
	if got := RenderChoice("Up", sym); got != "< Up >" {
		t.Errorf("expected < Up >, got %q", got)
	}
	if got := RenderSlider(64, 0, 128, 8, sym); got != "▮▮▮▮▯▯▯▯  64" {
		t.Errorf("unexpected slider %q", got)
	}
	if got := RenderSlider(5, 5, 5, 4, sym); got != "▯▯▯▯   5" {
		t.Errorf("unexpected degenerate slider %q", got)
	}

	s := State{Name: "ArpType", Kind: config.WidgetChoice, Min: 0, Max: 1, Choices: []string{"Order", "Up"}, Value: 1}
	if got := RenderControl(s, sym); got != "< Up >" {
		t.Errorf("expected < Up >, got %q", got)
	}

	out := RenderPanel(newTestPanel(), theme.New(nil))
	if !strings.Contains(out, "Enable Arpeggiator") || !strings.Contains(out, "cc119") {
		t.Errorf("panel missing rows: %q", out)
	}
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("expected 4 rows, got %d", n+1)
	}
}
