package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/netmeter/internal/ui/styles"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	return asciigraph.Plot(data,
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.LowerBound(0),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
}

// RenderTrafficChart plots download and upload series together. The shorter
// series is padded with zeros.
func RenderTrafficChart(download, upload []float64, width, height int, caption string) string {
	if len(download) == 0 && len(upload) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	n := max(len(download), len(upload))
	down := make([]float64, n)
	up := make([]float64, n)
	copy(down, download)
	copy(up, upload)

	graph := asciigraph.PlotMany([][]float64{down, up},
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.LowerBound(0),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Magenta),
	)

	legend := RenderLegend([]LegendItem{
		{Label: "Download", Color: styles.Download},
		{Label: "Upload", Color: styles.Upload},
	})
	return lipgloss.JoinVertical(lipgloss.Left, graph, "", legend)
}

// RenderSparkline creates a compact inline sparkline, sampling values down to
// width characters.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var b strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		level := int((v / maxVal) * float64(len(sparkChars)-1))
		level = min(max(level, 0), len(sparkChars)-1)
		b.WriteRune(sparkChars[level])
	}
	return b.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		box := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", box, item.Label))
	}
	return strings.Join(parts, "  ")
}
