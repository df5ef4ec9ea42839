package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var colorPalette = []string{
	"\x1b[32m", // green
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
}

// braille dot bits indexed by [x%2][y%4].
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// PlotSeries renders a braille plot of all series on one shared vertical scale.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders the plot with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	lo, hi := sharedRange(series)
	dotsHigh := height * 4
	layers := make([][][]uint8, len(series))
	for si, s := range series {
		layers[si] = makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		values := resampleSeries(s.Values, width)
		prevX, prevY := -1, -1
		for x, v := range values {
			px, py := x*2, valueToRow(v, lo, hi, dotsHigh)
			if prevX < 0 {
				prevX, prevY = px, py
			}
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				if style.shouldPlot(dx) {
					setBrailleDot(layers[si], dx, dy)
				}
			})
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	var out strings.Builder
	if title != "" {
		out.WriteString(title + "\n")
	}
	for y := 0; y < height; y++ {
		out.WriteString(runewidth.FillLeft(axisLabel(y, height, lo, hi), axisLabelWidth))
		out.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := composeCell(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				out.WriteString(colorPalette[owner%len(colorPalette)] + string(ch) + colorReset)
				continue
			}
			out.WriteRune(ch)
		}
		out.WriteByte('\n')
	}
	out.WriteString(renderLegend(series, useColor) + "\n\n")
	_, err := io.WriteString(w, out.String())
	return err
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func sharedRange(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		pad := math.Max(math.Abs(hi)*0.01, 1e-3)
		lo, hi = lo-pad, hi+pad
	}
	return lo, hi
}

func axisLabel(y, height int, lo, hi float64) string {
	switch {
	case y == 0:
		return fmt.Sprintf("%.4f", hi)
	case y == height-1:
		return fmt.Sprintf("%.4f", lo)
	case height > 2 && y == height/2:
		return fmt.Sprintf("%.4f", (lo+hi)/2)
	default:
		return ""
	}
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	plotWidth := totalWidth - axisLabelWidth - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		return minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges the dots of every layer; the first layer with a dot owns the color.
func composeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, cells := range layers {
		if m := cells[y][x]; m != 0 {
			if owner < 0 {
				owner = i
			}
			mask |= m
		}
	}
	return mask, owner
}

func (ls lineStyle) shouldPlot(x int) bool {
	return ls.period <= 1 || x%ls.period < ls.on
}

// resampleSeries averages buckets when shrinking and interpolates linearly when stretching.
func resampleSeries(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func valueToRow(v, lo, hi float64, dots int) int {
	if dots <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(dots-1)))
	return max(0, min(dots-1, row))
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("⠉ %s (%s)", s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorPalette[i%len(colorPalette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// drawLine walks a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%2][y%4]
}
