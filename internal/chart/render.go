// Package chart draws a laid-out schedule as an SVG Gantt chart and adds
// hover tooltips to the result.
package chart

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/charmbracelet/x/ansi"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/markup"
	"github.com/alexanderramin/roadmap/internal/schedule"
)

// AxisStyle selects how x-axis ticks are labelled.
type AxisStyle string

const (
	AxisRelative AxisStyle = "relative" // Q0, Q1, ...
	AxisCalendar AxisStyle = "calendar" // 2017 Q1, 2017 Q2, ...
)

// Options controls chart rendering.
type Options struct {
	Scale        int // pixels per data unit
	Margin       int
	FontSize     int
	TooltipWidth int // wrap width in characters
	Axis         AxisStyle
	Title        string

	// OmitTooltips leaves the tooltip groups out, for raster previews.
	OmitTooltips bool
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{
		Scale:        40,
		Margin:       48,
		FontSize:     11,
		TooltipWidth: 40,
		Axis:         AxisRelative,
		Title:        "Milestones",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.TooltipWidth <= 0 {
		o.TooltipWidth = d.TooltipWidth
	}
	if o.Axis == "" {
		o.Axis = d.Axis
	}
	return o
}

// OutputName returns the SVG file name for prefix.
func OutputName(prefix string) string {
	return prefix + ".svg"
}

// PatchID is the element ID of the index-th hoverable shape.
func PatchID(index int) string {
	return fmt.Sprintf("patch_%03d", index)
}

// TooltipID is the element ID of the tooltip belonging to PatchID(index).
func TooltipID(index int) string {
	return fmt.Sprintf("tooltip_%03d", index)
}

const (
	arrowWidth    = 1.0
	headerOpacity = 0.63
	tooltipPad    = 5
	charWidth     = 0.6 // average glyph width relative to font size
)

type tooltip struct {
	index int
	at    schedule.Point
	color string
	text  string
}

// Render writes the chart for g to w. Indices are assigned per milestone:
// the box first, then each outgoing dependency in order.
func Render(w io.Writer, g *schedule.Gantt, opts Options) error {
	opts = opts.withDefaults()
	v := newViewport(g, opts.Scale, opts.Margin)

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(v.width(), v.height(), fmt.Sprintf(`viewBox="0 0 %d %d"`, v.width(), v.height()))
	canvas.Title(opts.Title)
	canvas.Rect(0, 0, v.width(), v.height(), "fill:white")

	drawAxes(canvas, v, g, opts)

	var tips []tooltip
	index := 0
	for _, m := range g.Milestones {
		canvas.Rect(v.px(m.X), v.py(m.Y+1), v.length(1), v.length(1),
			fmt.Sprintf(`id="%s"`, PatchID(index)),
			fmt.Sprintf("fill:%s;stroke:none", m.Color))
		tips = append(tips, tooltip{
			index: index,
			at:    schedule.Point{X: m.X + 0.5, Y: m.Y + 0.5},
			color: m.Color,
			text:  domain.CoalesceStr(markup.PlainText(m.Description), m.Name),
		})
		index++

		for _, l := range m.Lines {
			xs, ys := arrowPolygon(v, l.Arrow, arrowWidth)
			canvas.Polygon(xs, ys,
				fmt.Sprintf(`id="%s"`, PatchID(index)),
				fmt.Sprintf("fill:%s;fill-opacity:0.8;stroke:none", m.Color))
			tips = append(tips, tooltip{
				index: index,
				at:    l.Arrow.Center(),
				color: m.Color,
				text:  markup.PlainText(l.Label),
			})
			index++
		}

		drawHeader(canvas, v, m, opts)
	}

	// Tooltips go last so they paint over every shape.
	if !opts.OmitTooltips {
		for _, tip := range tips {
			drawTooltip(canvas, v, tip, opts)
		}
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("writing svg: %w", ew.err)
	}
	return nil
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func drawAxes(canvas *svg.SVG, v viewport, g *schedule.Gantt, opts Options) {
	left, top := v.px(v.minX), v.py(v.maxY)
	bottom := v.py(v.minY)
	canvas.Rect(left, top, v.plotWidth(), v.plotHeight(), "fill:none;stroke:#333333;stroke-width:1")

	maxX, _ := g.Bounds()
	for x := 0; x <= int(maxX); x += 2 {
		px := v.px(float64(x))
		canvas.Line(px, bottom, px, bottom+4, "stroke:#333333;stroke-width:1")
		canvas.Text(px, bottom+4+opts.FontSize+2, tickLabel(x/2, g.Layout.StartYear, opts.Axis),
			fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:#333333", opts.FontSize))
	}
}

func tickLabel(quarter, startYear int, style AxisStyle) string {
	if style == AxisCalendar {
		return domain.PeriodFromOffset(quarter, startYear).String()
	}
	return fmt.Sprintf("Q%d", quarter)
}

func drawHeader(canvas *svg.SVG, v viewport, m *schedule.Milestone, opts Options) {
	x := v.px(-headerColumn)
	baseline := v.py(m.Y + 0.2)
	w := textWidth(m.Name, opts.FontSize) + 2*tooltipPad
	h := opts.FontSize + 2*tooltipPad

	canvas.Roundrect(x, baseline-h+tooltipPad/2, w, h, 4, 4,
		fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:none", m.Color, headerOpacity))
	canvas.Text(x+tooltipPad, baseline-tooltipPad/2, m.Name,
		fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:white", opts.FontSize))
}

func drawTooltip(canvas *svg.SVG, v viewport, tip tooltip, opts Options) {
	lines := wrap(tip.text, opts.TooltipWidth)
	lineHeight := opts.FontSize + 3

	widest := 0
	for _, l := range lines {
		if tw := textWidth(l, opts.FontSize); tw > widest {
			widest = tw
		}
	}
	w := widest + 2*tooltipPad
	h := len(lines)*lineHeight + 2*tooltipPad

	cx, cy := v.px(tip.at.X), v.py(tip.at.Y)
	x := clamp(cx-w/2, 0, v.width()-w)
	y := clamp(cy-h/2, 0, v.height()-h)

	canvas.Group(fmt.Sprintf(`id="%s"`, TooltipID(tip.index)), `pointer-events="none"`)
	canvas.Roundrect(x, y, w, h, 5, 5,
		fmt.Sprintf("fill:%s;stroke:black;stroke-width:1", tip.color))
	for i, l := range lines {
		canvas.Text(x+w/2, y+tooltipPad+(i+1)*lineHeight-3, l,
			fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:white", opts.FontSize))
	}
	canvas.Gend()
}

func wrap(s string, width int) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(ansi.Wordwrap(s, width, ""), "\n")
}

func textWidth(s string, fontSize int) int {
	return int(float64(len([]rune(s))*fontSize) * charWidth)
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
