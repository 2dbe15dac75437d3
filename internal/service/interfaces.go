package service

import (
	"context"

	"github.com/alexanderramin/roadmap/internal/catalog"
	"github.com/alexanderramin/roadmap/internal/chart"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/schedule"
)

type RenderService interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)
}

type TableService interface {
	Table(ctx context.Context, dirs []string) (*TableResult, error)
}

type SnapshotService interface {
	Save(ctx context.Context, req SaveSnapshotRequest) (*domain.Snapshot, error)
	List(ctx context.Context) ([]*domain.Snapshot, error)
	Diff(ctx context.Context, req DiffRequest) (*SnapshotDiff, error)
	Delete(ctx context.Context, id string) error
}

// RenderRequest describes one chart render.
type RenderRequest struct {
	Dirs   []string
	Prefix string // output path without extension
	Layout schedule.Layout
	Chart  chart.Options
	PNG    bool // also write <prefix>.png
}

type RenderResult struct {
	SVGPath      string
	PNGPath      string // empty unless requested
	Milestones   int
	Dependencies int
	Issues       []catalog.LoadIssue
	Warnings     []error
}

type TableResult struct {
	Table    *schedule.Table
	Issues   []catalog.LoadIssue
	Warnings []error
}

type SaveSnapshotRequest struct {
	Dirs   []string
	Label  string
	Layout schedule.Layout
}

// DiffRequest compares the schedule in Dirs against a snapshot. An empty
// SnapshotID selects the latest snapshot; empty Dirs reuses the snapshot's
// own sources.
type DiffRequest struct {
	Dirs       []string
	SnapshotID string
	Layout     schedule.Layout
}

// MilestoneChange is a milestone whose deadline moved between a snapshot and
// the current schedule. Quarters is the signed shift; it is zero when either
// side is unscheduled.
type MilestoneChange struct {
	ID       string
	Name     string
	From     string
	To       string
	Quarters int
}

type SnapshotDiff struct {
	Snapshot    *domain.Snapshot
	Added       []string
	Removed     []domain.SnapshotMilestone
	Slipped     []MilestoneChange
	PulledIn    []MilestoneChange
	AddedDeps   []domain.Dependency
	RemovedDeps []domain.Dependency
	Issues      []catalog.LoadIssue
	Warnings    []error
}

// Empty reports whether the schedule matches the snapshot.
func (d *SnapshotDiff) Empty() bool {
	return len(d.Added)+len(d.Removed)+len(d.Slipped)+len(d.PulledIn)+len(d.AddedDeps)+len(d.RemovedDeps) == 0
}
