package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/roadmap/internal/db"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/repository"
	"github.com/alexanderramin/roadmap/internal/schedule"
)

type snapshotService struct {
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	errOut    io.Writer
	observer  UseCaseObserver
}

func NewSnapshotService(
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	errOut io.Writer,
	observers ...UseCaseObserver,
) SnapshotService {
	return &snapshotService{
		snapshots: snapshots,
		uow:       uow,
		errOut:    writerOrDiscard(errOut),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *snapshotService) Save(ctx context.Context, req SaveSnapshotRequest) (snap *domain.Snapshot, err error) {
	fields := map[string]any{"dirs": len(req.Dirs), "label": req.Label}
	defer observe(ctx, s.observer, "snapshot-save", time.Now().UTC(), fields, &err)

	var g *schedule.Gantt
	g, _, err = s.layout(ctx, req.Dirs, req.Layout)
	if err != nil {
		return nil, err
	}

	snap = &domain.Snapshot{
		ID:           uuid.New().String(),
		Label:        req.Label,
		Sources:      absPaths(req.Dirs),
		StartYear:    g.Layout.StartYear,
		CreatedAt:    time.Now().UTC(),
		Dependencies: g.Dependencies(),
	}
	for _, m := range g.Milestones {
		sm := domain.SnapshotMilestone{
			MilestoneID: m.ID,
			Position:    m.Number,
			Vendor:      m.Vendor,
			Name:        m.Name,
			Deadline:    m.Period.String(),
		}
		if m.Period.Scheduled {
			due := m.Due
			sm.DueOffset = &due
		}
		snap.Milestones = append(snap.Milestones, sm)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSnapshotRepo(tx).Create(ctx, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	fields["snapshot_id"] = snap.ID
	fields["milestones"] = len(snap.Milestones)
	return snap, nil
}

func (s *snapshotService) List(ctx context.Context) ([]*domain.Snapshot, error) {
	return s.snapshots.List(ctx)
}

func (s *snapshotService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "snapshot-delete", time.Now().UTC(), map[string]any{"snapshot_id": id}, &err)
	return s.snapshots.Delete(ctx, id)
}

func (s *snapshotService) Diff(ctx context.Context, req DiffRequest) (diff *SnapshotDiff, err error) {
	fields := map[string]any{"snapshot_id": req.SnapshotID}
	defer observe(ctx, s.observer, "snapshot-diff", time.Now().UTC(), fields, &err)

	var base *domain.Snapshot
	if req.SnapshotID == "" {
		base, err = s.snapshots.GetLatest(ctx)
	} else {
		base, err = s.snapshots.GetByID(ctx, req.SnapshotID)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no snapshot to compare against: %w", err)
	}
	if err != nil {
		return nil, err
	}
	fields["snapshot_id"] = base.ID

	dirs := req.Dirs
	if len(dirs) == 0 {
		dirs = base.Sources
	}

	// Offsets are compared on the snapshot's own year grid.
	layout := req.Layout
	layout.StartYear = base.StartYear

	var (
		g      *schedule.Gantt
		loaded *loadedSchedule
	)
	g, loaded, err = s.layout(ctx, dirs, layout)
	if err != nil {
		return nil, err
	}

	diff = compareSnapshot(base, g)
	diff.Issues = loaded.issues
	diff.Warnings = loaded.warnings
	fields["slipped"] = len(diff.Slipped)
	return diff, nil
}

func (s *snapshotService) layout(ctx context.Context, dirs []string, layout schedule.Layout) (*schedule.Gantt, *loadedSchedule, error) {
	loaded, err := loadSchedule(ctx, dirs, s.errOut)
	if err != nil {
		return nil, nil, err
	}
	g, err := schedule.BuildGantt(loaded.table, layout)
	if err != nil {
		return nil, nil, fmt.Errorf("laying out schedule: %w", err)
	}
	return g, loaded, nil
}

func compareSnapshot(base *domain.Snapshot, g *schedule.Gantt) *SnapshotDiff {
	diff := &SnapshotDiff{Snapshot: base}

	current := make(map[string]*schedule.Milestone, len(g.Milestones))
	for _, m := range g.Milestones {
		current[m.ID] = m
	}
	previous := make(map[string]domain.SnapshotMilestone, len(base.Milestones))
	for _, m := range base.Milestones {
		previous[m.MilestoneID] = m
		if _, ok := current[m.MilestoneID]; !ok {
			diff.Removed = append(diff.Removed, m)
		}
	}

	for _, m := range g.Milestones {
		old, ok := previous[m.ID]
		if !ok {
			diff.Added = append(diff.Added, m.ID)
			continue
		}
		change, moved := deadlineChange(old, m)
		if !moved {
			continue
		}
		if change.Quarters > 0 || (change.Quarters == 0 && !m.Period.Scheduled) {
			diff.Slipped = append(diff.Slipped, change)
		} else {
			diff.PulledIn = append(diff.PulledIn, change)
		}
	}

	diff.AddedDeps, diff.RemovedDeps = compareDependencies(base.Dependencies, g.Dependencies())
	return diff
}

func deadlineChange(old domain.SnapshotMilestone, m *schedule.Milestone) (MilestoneChange, bool) {
	change := MilestoneChange{
		ID:   m.ID,
		Name: m.Name,
		From: old.Deadline,
		To:   m.Period.String(),
	}
	switch {
	case old.DueOffset == nil && !m.Period.Scheduled:
		return change, false
	case old.DueOffset == nil || !m.Period.Scheduled:
		return change, true
	default:
		change.Quarters = m.Due - *old.DueOffset
		return change, change.Quarters != 0
	}
}

func compareDependencies(before, after []domain.Dependency) (added, removed []domain.Dependency) {
	key := func(d domain.Dependency) string { return d.From + "\x00" + d.To }
	old := make(map[string]domain.Dependency, len(before))
	for _, d := range before {
		old[key(d)] = d
	}
	seen := make(map[string]bool, len(after))
	for _, d := range after {
		seen[key(d)] = true
		if _, ok := old[key(d)]; !ok {
			added = append(added, d)
		}
	}
	for _, d := range before {
		if !seen[key(d)] {
			removed = append(removed, d)
		}
	}
	sort.SliceStable(added, func(i, j int) bool { return key(added[i]) < key(added[j]) })
	sort.SliceStable(removed, func(i, j int) bool { return key(removed[i]) < key(removed[j]) })
	return added, removed
}

func absPaths(dirs []string) []string {
	out := make([]string, len(dirs))
	for i, d := range dirs {
		if abs, err := filepath.Abs(d); err == nil {
			d = abs
		}
		out[i] = d
	}
	return out
}
