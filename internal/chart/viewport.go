package chart

import (
	"math"

	"github.com/alexanderramin/roadmap/internal/schedule"
)

// viewport maps chart data units (y up) onto integer SVG pixels (y down).
type viewport struct {
	minX, maxX float64
	minY, maxY float64
	scale      int
	margin     int
	axisSpace  int
}

// headerColumn is the data-space width reserved left of x=0 for milestone
// headers.
const headerColumn = 2

func newViewport(g *schedule.Gantt, scale, margin int) viewport {
	maxX, maxY := g.Bounds()
	return viewport{
		minX:      -headerColumn,
		maxX:      maxX + 1,
		minY:      0,
		maxY:      maxY + 1,
		scale:     scale,
		margin:    margin,
		axisSpace: 2 * margin / 3,
	}
}

func (v viewport) px(x float64) int {
	return v.margin + int(math.Round((x-v.minX)*float64(v.scale)))
}

func (v viewport) py(y float64) int {
	return v.margin + int(math.Round((v.maxY-y)*float64(v.scale)))
}

func (v viewport) length(d float64) int {
	return int(math.Round(d * float64(v.scale)))
}

func (v viewport) plotWidth() int  { return v.length(v.maxX - v.minX) }
func (v viewport) plotHeight() int { return v.length(v.maxY - v.minY) }

func (v viewport) width() int  { return 2*v.margin + v.plotWidth() }
func (v viewport) height() int { return 2*v.margin + v.plotHeight() + v.axisSpace }
