package service

import (
	"context"
	"io"
	"time"
)

type tableService struct {
	errOut   io.Writer
	observer UseCaseObserver
}

func NewTableService(errOut io.Writer, observers ...UseCaseObserver) TableService {
	return &tableService{
		errOut:   writerOrDiscard(errOut),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *tableService) Table(ctx context.Context, dirs []string) (result *TableResult, err error) {
	fields := map[string]any{"dirs": len(dirs)}
	defer observe(ctx, s.observer, "table", time.Now().UTC(), fields, &err)

	var loaded *loadedSchedule
	loaded, err = loadSchedule(ctx, dirs, s.errOut)
	if err != nil {
		return nil, err
	}
	fields["milestones"] = loaded.table.Len()
	return &TableResult{
		Table:    loaded.table,
		Issues:   loaded.issues,
		Warnings: loaded.warnings,
	}, nil
}
