package domain

import "time"

// Snapshot is a saved copy of a schedule, used to detect slipped deadlines
// between runs.
type Snapshot struct {
	ID           string
	Label        string
	Sources      []string
	StartYear    int
	CreatedAt    time.Time
	Milestones   []SnapshotMilestone
	Dependencies []Dependency
}

// SnapshotMilestone is one milestone as it stood when a snapshot was taken.
type SnapshotMilestone struct {
	MilestoneID string
	Position    int
	Vendor      string
	Name        string
	Deadline    string
	DueOffset   *int // nil when unscheduled
}
