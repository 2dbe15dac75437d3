package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/roadmap/internal/chart"
	"github.com/alexanderramin/roadmap/internal/schedule"
)

type renderService struct {
	errOut   io.Writer
	observer UseCaseObserver
}

// NewRenderService creates a RenderService. Skipped definition files and
// dropped inputs are reported line by line to errOut.
func NewRenderService(errOut io.Writer, observers ...UseCaseObserver) RenderService {
	return &renderService{
		errOut:   writerOrDiscard(errOut),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *renderService) Render(ctx context.Context, req RenderRequest) (result *RenderResult, err error) {
	fields := map[string]any{"dirs": len(req.Dirs), "prefix": req.Prefix}
	defer observe(ctx, s.observer, "render", time.Now().UTC(), fields, &err)

	if req.Prefix == "" {
		return nil, fmt.Errorf("output prefix is required")
	}

	loaded, err := loadSchedule(ctx, req.Dirs, s.errOut)
	if err != nil {
		return nil, err
	}

	var g *schedule.Gantt
	g, err = schedule.BuildGantt(loaded.table, req.Layout)
	if err != nil {
		return nil, fmt.Errorf("laying out chart: %w", err)
	}

	var raw bytes.Buffer
	if err = chart.Render(&raw, g, req.Chart); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	var decorated []byte
	decorated, err = chart.Decorate(raw.Bytes(), g.PatchCount())
	if err != nil {
		return nil, fmt.Errorf("adding tooltips: %w", err)
	}

	result = &RenderResult{
		SVGPath:      chart.OutputName(req.Prefix),
		Milestones:   len(g.Milestones),
		Dependencies: len(g.Dependencies()),
		Issues:       loaded.issues,
		Warnings:     loaded.warnings,
	}
	if err = writeOutput(result.SVGPath, decorated); err != nil {
		return nil, err
	}

	if req.PNG {
		var png bytes.Buffer
		if err = chart.RenderPNG(&png, g, req.Chart); err != nil {
			return nil, fmt.Errorf("rendering png preview: %w", err)
		}
		result.PNGPath = chart.PNGName(req.Prefix)
		if err = writeOutput(result.PNGPath, png.Bytes()); err != nil {
			return nil, err
		}
	}

	fields["milestones"] = result.Milestones
	fields["dependencies"] = result.Dependencies
	fields["skipped"] = len(result.Issues)
	return result, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
