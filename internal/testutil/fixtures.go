package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/google/uuid"
)

// Definition options
type DefinitionOption func(*domain.Definition)

func WithDeadline(d string) DefinitionOption {
	return func(def *domain.Definition) {
		def.Deadline = d
	}
}

func WithDescription(s string) DefinitionOption {
	return func(def *domain.Definition) {
		def.Description = s
	}
}

func WithVendor(v string) DefinitionOption {
	return func(def *domain.Definition) {
		def.Vendor = v
	}
}

// WithInput adds an outgoing dependency to target.
func WithInput(target, label string) DefinitionOption {
	return func(def *domain.Definition) {
		if def.Inputs == nil {
			def.Inputs = make(map[string]string)
		}
		def.Inputs[target] = label
	}
}

func NewTestDefinition(id string, opts ...DefinitionOption) domain.Definition {
	def := domain.Definition{
		ID:       id,
		Vendor:   "acme",
		Name:     id,
		Deadline: "2018 Q1",
	}
	for _, opt := range opts {
		opt(&def)
	}
	return def
}

// Snapshot options
type SnapshotOption func(*domain.Snapshot)

func WithLabel(l string) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Label = l
	}
}

func WithCreatedAt(t time.Time) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.CreatedAt = t
	}
}

// WithSnapshotMilestone appends a milestone at the next position.
func WithSnapshotMilestone(id, deadline string, offset *int) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Milestones = append(s.Milestones, domain.SnapshotMilestone{
			MilestoneID: id,
			Position:    len(s.Milestones),
			Vendor:      "acme",
			Name:        id,
			Deadline:    deadline,
			DueOffset:   offset,
		})
	}
}

func WithSnapshotDependency(from, to, label string) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Dependencies = append(s.Dependencies, domain.Dependency{From: from, To: to, Label: label})
	}
}

func NewTestSnapshot(opts ...SnapshotOption) *domain.Snapshot {
	s := &domain.Snapshot{
		ID:        uuid.New().String(),
		Sources:   []string{"vendors/acme"},
		StartYear: 2017,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// WriteFile writes content to dir/name and fails the test on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
