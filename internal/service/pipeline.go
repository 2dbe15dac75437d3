package service

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/roadmap/internal/catalog"
	"github.com/alexanderramin/roadmap/internal/schedule"
)

// loadedSchedule is the validated table plus everything worth reporting
// about how it was loaded.
type loadedSchedule struct {
	table    *schedule.Table
	issues   []catalog.LoadIssue
	warnings []error
}

// loadSchedule discovers definitions in dirs, reports skipped files and
// dropped inputs to errOut, and pivots the rest into a table.
func loadSchedule(ctx context.Context, dirs []string, errOut io.Writer) (*loadedSchedule, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no definition directories given")
	}

	defs, issues, err := catalog.Dirs(dirs...).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	for _, issue := range issues {
		fmt.Fprintln(errOut, issue.Error())
	}

	valid, warnings, err := catalog.Validate(defs)
	for _, w := range warnings {
		fmt.Fprintf(errOut, "warning: %v\n", w)
	}
	if err != nil {
		return nil, fmt.Errorf("validating definitions: %w", err)
	}

	return &loadedSchedule{
		table:    schedule.BuildTable(valid),
		issues:   issues,
		warnings: warnings,
	}, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
