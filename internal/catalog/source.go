package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// definitionExts lists the file extensions recognized as definitions.
var definitionExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// LoadIssue records a definition that could not be loaded and was skipped.
type LoadIssue struct {
	Path string
	Err  error
}

func (i LoadIssue) Error() string {
	return fmt.Sprintf("failed loading %s: %v", i.Path, i.Err)
}

func (i LoadIssue) Unwrap() error { return i.Err }

// Source yields milestone definitions. Problems with individual definitions
// are returned as issues; the returned error is reserved for failures that
// make the whole source unusable.
type Source interface {
	Load(ctx context.Context) ([]domain.Definition, []LoadIssue, error)
}

// DirSource reads one definition per file from a vendor directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Load(ctx context.Context) ([]domain.Definition, []LoadIssue, error) {
	paths, err := DefinitionPaths(s.Dir)
	if err != nil {
		return nil, nil, err
	}

	vendor := filepath.Base(filepath.Clean(s.Dir))
	defs := make([]domain.Definition, 0, len(paths))
	var issues []LoadIssue
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		def, err := LoadFile(p)
		if err != nil {
			issues = append(issues, LoadIssue{Path: p, Err: err})
			continue
		}
		def.Vendor = vendor
		defs = append(defs, *def)
	}
	return defs, issues, nil
}

// DefinitionPaths lists the definition files directly inside dir, sorted by
// name. Directories and files starting with "_" or "." are skipped.
func DefinitionPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading definition directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		if !definitionExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// IsDefinitionPath reports whether path names a file DirSource would load.
func IsDefinitionPath(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	return definitionExts[strings.ToLower(filepath.Ext(name))]
}

// LoadFile reads and parses a single definition file. The milestone ID is
// the file name without its extension.
func LoadFile(path string) (*domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := ParseDefinitionFile(data)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	def := toDefinition(id, f)
	def.Path = path

	if _, err := def.Period(); err != nil {
		return nil, fmt.Errorf("deadline: %w", err)
	}
	return def, nil
}

func toDefinition(id string, f *DefinitionFile) *domain.Definition {
	inputs := make(map[string]string, len(f.Inputs))
	for target, label := range f.Inputs {
		target = strings.TrimSpace(target)
		if target == "" || strings.TrimSpace(label) == "" {
			continue
		}
		inputs[target] = label
	}
	return &domain.Definition{
		ID:          id,
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Components:  []string(f.Components),
		Deadline:    strings.TrimSpace(f.Deadline),
		Keywords:    []string(f.Keywords),
		Inputs:      inputs,
	}
}

// StaticSource serves a fixed list of definitions registered in code.
type StaticSource []domain.Definition

func (s StaticSource) Load(ctx context.Context) ([]domain.Definition, []LoadIssue, error) {
	defs := make([]domain.Definition, 0, len(s))
	var issues []LoadIssue
	for _, d := range s {
		if _, err := d.Period(); err != nil {
			issues = append(issues, LoadIssue{Path: d.ID, Err: fmt.Errorf("deadline: %w", err)})
			continue
		}
		defs = append(defs, d)
	}
	return defs, issues, nil
}

// Registry is an ordered set of sources.
type Registry struct {
	sources []Source
}

// NewRegistry creates a Registry over the given sources.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// Dirs creates a Registry with one DirSource per directory.
func Dirs(dirs ...string) *Registry {
	r := &Registry{}
	for _, d := range dirs {
		r.Register(DirSource{Dir: d})
	}
	return r
}

// Register appends a source.
func (r *Registry) Register(s Source) {
	r.sources = append(r.sources, s)
}

// Load concatenates every source in registration order. A definition whose
// ID was already loaded is reported as an issue and skipped.
func (r *Registry) Load(ctx context.Context) ([]domain.Definition, []LoadIssue, error) {
	var (
		all    []domain.Definition
		issues []LoadIssue
	)
	seen := make(map[string]string)
	for _, s := range r.sources {
		defs, srcIssues, err := s.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		issues = append(issues, srcIssues...)
		for _, d := range defs {
			if prev, dup := seen[d.ID]; dup {
				issues = append(issues, LoadIssue{
					Path: locationOf(d),
					Err:  fmt.Errorf("duplicate milestone id %q (already loaded from %s)", d.ID, prev),
				})
				continue
			}
			seen[d.ID] = locationOf(d)
			all = append(all, d)
		}
	}
	return all, issues, nil
}

func locationOf(d domain.Definition) string {
	return domain.CoalesceStr(d.Path, d.ID)
}
