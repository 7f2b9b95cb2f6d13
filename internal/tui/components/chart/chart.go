// Package chart draws the streak-per-habit line chart in the terminal.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
)

const (
	pointRune = '●'
	lineRune  = '·'
)

// Point is one x-axis entry: a habit name and its streak.
type Point struct {
	Label string
	Value int
}

// Points maps habits to chart points in display order.
func Points(habits []models.Habit) []Point {
	points := make([]Point, len(habits))
	for i, h := range habits {
		points[i] = Point{Label: h.Name, Value: h.Streak}
	}
	return points
}

type Options struct {
	Height      int
	ColumnWidth int
	Point       lipgloss.Style
	Line        lipgloss.Style
	Axis        lipgloss.Style
}

func DefaultOptions() Options {
	return Options{
		Height:      8,
		ColumnWidth: 10,
		Point:       lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Line:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Axis:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Render draws points as a line chart with streak on the y axis.
func Render(points []Point, opts Options) string {
	if len(points) == 0 {
		return "No habits to chart yet."
	}
	if opts.Height < 2 {
		opts.Height = 2
	}
	if opts.ColumnWidth < 3 {
		opts.ColumnWidth = 3
	}

	maxValue := 1
	for _, p := range points {
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}

	width := len(points) * opts.ColumnWidth
	grid := make([][]rune, opts.Height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}

	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, p := range points {
		xs[i] = i*opts.ColumnWidth + opts.ColumnWidth/2
		ys[i] = scale(p.Value, maxValue, opts.Height)
	}

	for i := 1; i < len(points); i++ {
		x0, y0, x1, y1 := xs[i-1], ys[i-1], xs[i], ys[i]
		for x := x0 + 1; x < x1; x++ {
			y := y0 + int(roundDiv((y1-y0)*(x-x0), x1-x0))
			grid[y][x] = lineRune
		}
	}
	for i := range points {
		grid[ys[i]][xs[i]] = pointRune
	}

	labelWidth := len(fmt.Sprint(maxValue))
	var b strings.Builder
	for y := opts.Height - 1; y >= 0; y-- {
		label := ""
		switch y {
		case opts.Height - 1:
			label = fmt.Sprint(maxValue)
		case 0:
			label = "0"
		}
		b.WriteString(opts.Axis.Render(fmt.Sprintf("%*s │", labelWidth, label)))
		for _, r := range grid[y] {
			switch r {
			case pointRune:
				b.WriteString(opts.Point.Render(string(r)))
			case lineRune:
				b.WriteString(opts.Line.Render(string(r)))
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(opts.Axis.Render(strings.Repeat(" ", labelWidth) + " └" + strings.Repeat("─", width)))
	b.WriteByte('\n')

	cell := lipgloss.NewStyle().Width(opts.ColumnWidth).Align(lipgloss.Center)
	indent := strings.Repeat(" ", labelWidth+2)
	names := make([]string, len(points))
	values := make([]string, len(points))
	for i, p := range points {
		names[i] = cell.Render(truncate(p.Label, opts.ColumnWidth-1))
		values[i] = cell.Render(fmt.Sprint(p.Value))
	}
	b.WriteString(indent + lipgloss.JoinHorizontal(lipgloss.Top, names...))
	b.WriteByte('\n')
	b.WriteString(indent + opts.Axis.Render(lipgloss.JoinHorizontal(lipgloss.Top, values...)))
	return b.String()
}

// scale maps value onto a row index, 0 at the bottom.
func scale(value, maxValue, height int) int {
	if value <= 0 {
		return 0
	}
	return int(roundDiv(value*(height-1), maxValue))
}

func roundDiv(num, den int) int64 {
	if den == 0 {
		return 0
	}
	n, d := int64(num), int64(den)
	if (n < 0) != (d < 0) {
		return (n - d/2) / d
	}
	return (n + d/2) / d
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
