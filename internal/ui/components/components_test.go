package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestUsageBar_View(t *testing.T) {
	bar := NewUsageBar(80)

	tests := []struct {
		name    string
		percent float64
		want    string
	}{
		{"Empty", 0, "0.0%"},
		{"Half", 50, "50.0%"},
		{"High", 92.25, "92.2%"},
		{"Exceeded", 120, "120.0%"},
		{"Negative", -5, "-5.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := bar.View(tt.percent, "Quota", 60)
			if !strings.Contains(view, tt.want) {
				t.Errorf("View() = %q, want it to contain %q", view, tt.want)
			}
			if !strings.Contains(view, "Quota") {
				t.Error("View() should contain the label")
			}
		})
	}
}

func TestUsageBar_NarrowWidth(t *testing.T) {
	bar := NewUsageBar(80)
	if view := bar.View(40, "Q", 5); lipgloss.Width(view) < minBarWidth {
		t.Errorf("bar should keep a minimum width, got %d", lipgloss.Width(view))
	}
}

func TestUsageBar_ViewCompact(t *testing.T) {
	bar := NewUsageBar(80)
	if view := bar.ViewCompact(33, 20); !strings.Contains(view, "33%") {
		t.Errorf("ViewCompact() = %q", view)
	}
}

func TestRenderLineChart(t *testing.T) {
	if got := RenderLineChart(nil, 40, 5, "x"); !strings.Contains(got, "No data") {
		t.Errorf("empty chart = %q", got)
	}

	got := RenderLineChart([]float64{1, 2, 3, 2}, 40, 5, "MB per day")
	if !strings.Contains(got, "MB per day") {
		t.Error("chart should include its caption")
	}
	if lines := strings.Count(got, "\n"); lines < minChartHeight {
		t.Errorf("chart has %d lines", lines)
	}
}

func TestRenderTrafficChart(t *testing.T) {
	if got := RenderTrafficChart(nil, nil, 40, 5, ""); !strings.Contains(got, "No data") {
		t.Errorf("empty chart = %q", got)
	}

	got := RenderTrafficChart([]float64{1, 2, 3}, []float64{1}, 40, 5, "traffic")
	for _, want := range []string{"Download", "Upload", "traffic"} {
		if !strings.Contains(got, want) {
			t.Errorf("chart should contain %q", want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"Empty", nil, 10, ""},
		{"ZeroWidth", []float64{1}, 0, ""},
		{"Ramp", []float64{0, 7}, 10, "▁█"},
		{"AllZero", []float64{0, 0, 0}, 10, "▁▁▁"},
		{"Sampled", []float64{0, 0, 7, 7}, 2, "▁█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("RenderSparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLegend(t *testing.T) {
	got := RenderLegend([]LegendItem{{Label: "A", Color: "1"}, {Label: "B", Color: "2"}})
	if !strings.Contains(got, "A") || !strings.Contains(got, "B") {
		t.Errorf("RenderLegend() = %q", got)
	}
}
