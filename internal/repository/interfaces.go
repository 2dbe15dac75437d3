package repository

import (
	"context"

	"github.com/alexanderramin/roadmap/internal/domain"
)

type SnapshotRepo interface {
	// Create stores s with its milestones and dependencies.
	Create(ctx context.Context, s *domain.Snapshot) error
	// GetByID returns the snapshot with milestones and dependencies loaded.
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	// GetLatest returns the most recently created snapshot, fully loaded.
	GetLatest(ctx context.Context) (*domain.Snapshot, error)
	// List returns snapshot headers, newest first, without milestones.
	List(ctx context.Context) ([]*domain.Snapshot, error)
	ListMilestones(ctx context.Context, snapshotID string) ([]domain.SnapshotMilestone, error)
	Delete(ctx context.Context, id string) error
}
