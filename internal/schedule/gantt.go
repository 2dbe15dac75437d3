package schedule

import (
	"fmt"

	"github.com/alexanderramin/roadmap/internal/domain"
)

const (
	DefaultStartYear         = 2017
	DefaultUnscheduledOffset = 12
)

// DefaultPalette colors milestones by sequence number.
var DefaultPalette = []string{"blue", "green", "red", "black", "orange"}

// Layout holds the parameters for placing milestones on the chart grid.
type Layout struct {
	StartYear         int
	UnscheduledOffset int
	Palette           []string
}

// DefaultLayout returns the layout used when nothing is configured.
func DefaultLayout() Layout {
	return Layout{
		StartYear:         DefaultStartYear,
		UnscheduledOffset: DefaultUnscheduledOffset,
		Palette:           append([]string(nil), DefaultPalette...),
	}
}

// Milestone is a definition placed on the chart grid. Its box is a unit
// square with lower-left corner (X, Y).
type Milestone struct {
	ID          string
	Vendor      string
	Name        string
	Number      int
	Period      domain.Period
	Due         int // quarter offset from the start year
	X, Y        float64
	Color       string
	Description string
	Lines       []Link
}

// Link is a dependency placed on the chart.
type Link struct {
	domain.Dependency
	Arrow Arrow
}

// Corner returns the lower-left corner of the milestone box.
func (m *Milestone) Corner() Point {
	return Point{X: m.X, Y: m.Y}
}

// Gantt is the laid-out chart model.
type Gantt struct {
	Layout     Layout
	Milestones []*Milestone
}

// BuildGantt numbers the table rows, places each milestone by its due
// period and attaches one Link per non-empty dependency cell. It fails if
// any dependency points from a later milestone to an earlier one.
func BuildGantt(t *Table, layout Layout) (*Gantt, error) {
	if layout.StartYear == 0 {
		layout.StartYear = DefaultStartYear
	}
	if layout.UnscheduledOffset == 0 {
		layout.UnscheduledOffset = DefaultUnscheduledOffset
	}
	if len(layout.Palette) == 0 {
		layout.Palette = DefaultPalette
	}

	g := &Gantt{Layout: layout}
	byID := make(map[string]*Milestone, t.Len())

	for number, id := range t.RowIDs() {
		def, _ := t.Definition(id)
		period, err := def.Period()
		if err != nil {
			return nil, fmt.Errorf("milestone %s: %w", id, err)
		}
		if period.Scheduled && period.Year < layout.StartYear {
			return nil, fmt.Errorf("milestone %s due %s: %w (%d)", id, period, domain.ErrBeforeStart, layout.StartYear)
		}

		due := period.Offset(layout.StartYear, layout.UnscheduledOffset)
		m := &Milestone{
			ID:          id,
			Vendor:      def.Vendor,
			Name:        def.DisplayName(),
			Number:      number,
			Period:      period,
			Due:         due,
			X:           float64(2 * due),
			Y:           float64(2 * number),
			Color:       layout.Palette[number%len(layout.Palette)],
			Description: def.Description,
		}
		g.Milestones = append(g.Milestones, m)
		byID[id] = m
	}

	for _, src := range g.Milestones {
		for _, dstID := range t.RowIDs() {
			label := t.Support(src.ID, dstID)
			if label == "" {
				continue
			}
			if err := src.inputTo(byID[dstID], label); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (m *Milestone) inputTo(dst *Milestone, label string) error {
	if m.X > dst.X {
		return fmt.Errorf("milestone %d (%s) inputs to milestone %d (%s), but comes after: %w",
			m.Number, m.ID, dst.Number, dst.ID, domain.ErrBackwardDependency)
	}
	m.Lines = append(m.Lines, Link{
		Dependency: domain.Dependency{From: m.ID, To: dst.ID, Label: label},
		Arrow:      arrowBetween(m.Corner(), dst.Corner()),
	})
	return nil
}

// Bounds returns the largest box corner coordinates.
func (g *Gantt) Bounds() (maxX, maxY float64) {
	for _, m := range g.Milestones {
		if m.X > maxX {
			maxX = m.X
		}
		if m.Y > maxY {
			maxY = m.Y
		}
	}
	return maxX, maxY
}

// PatchCount is the number of hoverable elements: one box per milestone and
// one arrow per dependency.
func (g *Gantt) PatchCount() int {
	n := 0
	for _, m := range g.Milestones {
		n += 1 + len(m.Lines)
	}
	return n
}

// Dependencies lists every placed dependency in drawing order.
func (g *Gantt) Dependencies() []domain.Dependency {
	var deps []domain.Dependency
	for _, m := range g.Milestones {
		for _, l := range m.Lines {
			deps = append(deps, l.Dependency)
		}
	}
	return deps
}
