package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// FormatSnapshotList renders saved snapshots, newest first.
func FormatSnapshotList(snapshots []*domain.Snapshot, now time.Time) string {
	headers := []string{"ID", "LABEL", "CREATED", "START", "SOURCES"}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		label := s.Label
		if label == "" {
			label = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			label,
			RelativeDateFrom(s.CreatedAt, now),
			fmt.Sprint(s.StartYear),
			strings.Join(s.Sources, ", "),
		})
	}
	return RenderBox("Snapshots", RenderTable(headers, rows))
}

// DiffView is the data behind FormatSnapshotDiff.
type DiffView struct {
	SnapshotID  string
	Label       string
	Added       []string
	Removed     []string
	Slipped     []Shift
	PulledIn    []Shift
	AddedDeps   []domain.Dependency
	RemovedDeps []domain.Dependency
}

// Shift is one moved deadline.
type Shift struct {
	ID       string
	Name     string
	From     string
	To       string
	Quarters int
}

// FormatSnapshotDiff renders what changed since a snapshot.
func FormatSnapshotDiff(v DiffView) string {
	var b strings.Builder
	title := "Changes since " + TruncID(v.SnapshotID)
	if v.Label != "" {
		title += " (" + v.Label + ")"
	}
	b.WriteString(Header(title))
	b.WriteString("\n")

	if len(v.Added)+len(v.Removed)+len(v.Slipped)+len(v.PulledIn)+len(v.AddedDeps)+len(v.RemovedDeps) == 0 {
		b.WriteString(Dim("No changes."))
		b.WriteString("\n")
		return b.String()
	}

	writeShifts(&b, "Slipped", v.Slipped, true)
	writeShifts(&b, "Pulled in", v.PulledIn, false)

	for _, id := range v.Added {
		fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("+"), id)
	}
	for _, id := range v.Removed {
		fmt.Fprintf(&b, "%s %s\n", StyleRed.Render("-"), id)
	}
	for _, d := range v.AddedDeps {
		fmt.Fprintf(&b, "%s %s -> %s %s\n", StyleGreen.Render("+"), d.From, d.To, Dim("("+d.Label+")"))
	}
	for _, d := range v.RemovedDeps {
		fmt.Fprintf(&b, "%s %s -> %s %s\n", StyleRed.Render("-"), d.From, d.To, Dim("("+d.Label+")"))
	}
	return b.String()
}

func writeShifts(b *strings.Builder, title string, shifts []Shift, slipped bool) {
	if len(shifts) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", Bold(title))
	for _, s := range shifts {
		delta := ""
		if s.Quarters != 0 {
			delta = fmt.Sprintf(" %+dq", s.Quarters)
		}
		fmt.Fprintf(b, "  %s  %s -> %s%s\n",
			s.ID, s.From, s.To, ShiftStyle(s.Quarters, slipped).Render(delta))
	}
}
