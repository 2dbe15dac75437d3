package catalog

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// Validate checks the inputs declared between definitions. Inputs that
// target an unknown milestone or the milestone itself are dropped and
// reported as warnings. A dependency cycle is fatal.
//
// The returned definitions are copies; the caller's slice is not modified.
func Validate(defs []domain.Definition) ([]domain.Definition, []error, error) {
	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.ID] = true
	}

	var warnings []error
	out := make([]domain.Definition, len(defs))
	for i, d := range defs {
		inputs := make(map[string]string, len(d.Inputs))
		for _, target := range sortedKeys(d.Inputs) {
			switch {
			case target == d.ID:
				warnings = append(warnings, fmt.Errorf("%s: self-dependency ignored", d.ID))
			case !known[target]:
				warnings = append(warnings, fmt.Errorf("%s: input to unknown milestone %q ignored", d.ID, target))
			default:
				inputs[target] = d.Inputs[target]
			}
		}
		d.Inputs = inputs
		out[i] = d
	}

	if err := detectCycles(out); err != nil {
		return nil, warnings, err
	}
	return out, warnings, nil
}

func detectCycles(defs []domain.Definition) error {
	graph := make(map[string][]string, len(defs))
	for _, d := range defs {
		graph[d.ID] = sortedKeys(d.Inputs)
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var found error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, next := range graph[node] {
			if color[next] == gray {
				found = fmt.Errorf("%w involving %q and %q", domain.ErrCircularDependency, node, next)
				return true
			}
			if color[next] == white && visit(next) {
				return true
			}
		}
		color[node] = black
		return false
	}

	// Walk in load order so the reported pair is deterministic.
	for _, d := range defs {
		if color[d.ID] == white && visit(d.ID) {
			return found
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
