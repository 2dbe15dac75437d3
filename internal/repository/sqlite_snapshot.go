package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/roadmap/internal/db"
	"github.com/alexanderramin/roadmap/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
// Create issues several statements; run it with a transaction from
// db.UnitOfWork to make it atomic.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

const snapshotColumns = `id, label, sources, start_year, created_at`

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (`+snapshotColumns+`) VALUES (?, ?, ?, ?, ?)`,
		s.ID,
		s.Label,
		joinSources(s.Sources),
		s.StartYear,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	for _, m := range s.Milestones {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO snapshot_milestones (snapshot_id, milestone_id, position, vendor, name, deadline, due_offset)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, m.MilestoneID, m.Position, m.Vendor, m.Name, m.Deadline, nullableIntToValue(m.DueOffset),
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot milestone %s: %w", m.MilestoneID, err)
		}
	}

	for _, d := range s.Dependencies {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO snapshot_dependencies (snapshot_id, from_id, to_id, label) VALUES (?, ?, ?, ?)`,
			s.ID, d.From, d.To, d.Label,
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot dependency %s->%s: %w", d.From, d.To, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	s, err := scanSnapshot(row)
	if err != nil {
		return nil, err
	}
	return r.loadChildren(ctx, s)
}

func (r *SQLiteSnapshotRepo) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	s, err := scanSnapshot(row)
	if err != nil {
		return nil, err
	}
	return r.loadChildren(ctx, s)
}

func (r *SQLiteSnapshotRepo) List(ctx context.Context) ([]*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func (r *SQLiteSnapshotRepo) ListMilestones(ctx context.Context, snapshotID string) ([]domain.SnapshotMilestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT milestone_id, position, vendor, name, deadline, due_offset
		FROM snapshot_milestones WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot milestones: %w", err)
	}
	defer rows.Close()

	var milestones []domain.SnapshotMilestone
	for rows.Next() {
		var (
			m      domain.SnapshotMilestone
			offset sql.NullInt64
		)
		if err := rows.Scan(&m.MilestoneID, &m.Position, &m.Vendor, &m.Name, &m.Deadline, &offset); err != nil {
			return nil, fmt.Errorf("scanning snapshot milestone: %w", err)
		}
		m.DueOffset = nullIntToPtr(offset)
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *SQLiteSnapshotRepo) listDependencies(ctx context.Context, snapshotID string) ([]domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT from_id, to_id, label FROM snapshot_dependencies
		WHERE snapshot_id = ? ORDER BY rowid`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot dependencies: %w", err)
	}
	defer rows.Close()

	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		if err := rows.Scan(&d.From, &d.To, &d.Label); err != nil {
			return nil, fmt.Errorf("scanning snapshot dependency: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) loadChildren(ctx context.Context, s *domain.Snapshot) (*domain.Snapshot, error) {
	var err error
	if s.Milestones, err = r.ListMilestones(ctx, s.ID); err != nil {
		return nil, err
	}
	if s.Dependencies, err = r.listDependencies(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.Snapshot, error) {
	var (
		s         domain.Snapshot
		sources   string
		createdAt string
	)
	err := row.Scan(&s.ID, &s.Label, &sources, &s.StartYear, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	s.Sources = splitSources(sources)
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing snapshot created_at: %w", err)
	}
	return &s, nil
}
