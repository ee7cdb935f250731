package widgets_test

import (
	"strings"
	"testing"

	"github.com/kattameya/rockdash/widgets"
)

func TestBarGauge_Percent(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		max   float64
		want  float64
	}{
		{"raw percent", 42.5, 0, 42.5},
		{"relative", 25, 200, 12.5},
		{"clamped high", 300, 100, 100},
		{"clamped low", -5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg := &widgets.BarGauge{Value: tt.value, Max: tt.max}
			if got := bg.Percent(); got != tt.want {
				t.Errorf("expected %.1f, got %.1f", tt.want, got)
			}
		})
	}
}

func TestBarGauge_Draw(t *testing.T) {
	bg := &widgets.BarGauge{
		Label:    "0-10mm",
		Value:    50,
		Max:      100,
		Suffix:   "1,204",
		BarWidth: 10,
	}

	s, err := bg.Draw(testDrawContext(80, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Height != 1 {
		t.Errorf("expected height=1, got %d", s.Size.Height)
	}
	got := strings.TrimRight(rowText(s, 0), " ")
	want := "0-10mm [█████░░░░░]  50.0%  1,204"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBarGauge_Draw_LabelWidth(t *testing.T) {
	bg := &widgets.BarGauge{Label: "A", LabelWidth: 4, Value: 0, BarWidth: 2}
	s, err := bg.Draw(testDrawContext(40, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := cellText(s.Buffer[4]); g != "[" {
		t.Errorf("expected bracket at col 4, got %q", g)
	}
}

func TestBarGauge_Draw_Narrow(t *testing.T) {
	bg := &widgets.BarGauge{Label: "DISK", Value: 100, BarWidth: 20, Suffix: "long suffix"}
	s, err := bg.Draw(testDrawContext(10, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 10 {
		t.Errorf("expected width=10, got %d", s.Size.Width)
	}
}
