package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/roadmap/internal/testutil"
)

// writeVendor creates root/vendor with one definition file per entry.
func writeVendor(t *testing.T, root, vendor string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, vendor)
	for name, content := range files {
		testutil.WriteFile(t, dir, name, content)
	}
	return dir
}

const alphaYAML = `name: Alpha
description: First **public** release
deadline: 2018 Q1
inputs:
  beta: storage api
`

const betaYAML = `name: Beta
description: Storage backend
deadline: 2018 Q3
`

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		t.Fatal("no use case observed")
	}
	return r.events[len(r.events)-1]
}
