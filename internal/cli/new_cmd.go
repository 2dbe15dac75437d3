package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/roadmap/internal/catalog"
	"github.com/alexanderramin/roadmap/internal/domain"
)

var milestoneIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// scaffold holds the fields collected for a new definition file.
type scaffold struct {
	ID          string
	Name        string
	Description string
	Deadline    string
	Components  []string
	Keywords    []string
	Inputs      map[string]string
}

func newNewCmd(app *App) *cobra.Command {
	var (
		s     scaffold
		force bool
	)

	cmd := &cobra.Command{
		Use:   "new DIR",
		Short: "Create a milestone definition file in DIR",
		Long: `Create DIR/<id>.yaml. On a terminal, missing fields are asked for
interactively; otherwise --id is required and the other flags are used as
given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if app.IsInteractive != nil && app.IsInteractive() {
				if err := runScaffoldForm(&s); err != nil {
					return err
				}
			}
			if err := s.validate(); err != nil {
				return err
			}

			path := filepath.Join(dir, s.ID+".yaml")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			data, err := catalog.MarshalDefinitionFile(s.file())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&s.ID, "id", "", "Milestone ID, used as the file name")
	f.StringVar(&s.Name, "name", "", "Display name")
	f.StringVar(&s.Description, "description", "", "Description shown in the tooltip (markdown)")
	f.StringVar(&s.Deadline, "deadline", "", `Due quarter, e.g. "2018 Q2" (blank for unscheduled)`)
	f.StringSliceVar(&s.Components, "component", nil, "Component (repeatable)")
	f.StringSliceVar(&s.Keywords, "keyword", nil, "Keyword (repeatable)")
	f.StringToStringVar(&s.Inputs, "input", nil, "Dependency as target=label (repeatable)")
	f.BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func (s *scaffold) validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("--id is required"))
	} else if !milestoneIDPattern.MatchString(s.ID) {
		errs = append(errs, fmt.Errorf("invalid id %q: use letters, digits, '.', '_' or '-'", s.ID))
	}
	if _, err := domain.ParsePeriod(s.Deadline); err != nil {
		errs = append(errs, fmt.Errorf("deadline: %w", err))
	}
	for target := range s.Inputs {
		if target == s.ID {
			errs = append(errs, fmt.Errorf("input %q: a milestone cannot input to itself", target))
		}
	}
	return errors.Join(errs...)
}

func (s *scaffold) file() *catalog.DefinitionFile {
	f := &catalog.DefinitionFile{
		Name:        s.Name,
		Description: s.Description,
		Components:  s.Components,
		Keywords:    s.Keywords,
		Inputs:      s.Inputs,
	}
	if p, err := domain.ParsePeriod(s.Deadline); err == nil && p.Scheduled {
		f.Deadline = p.String()
	}
	return f
}

// runScaffoldForm prompts for every field, pre-filled from flags.
func runScaffoldForm(s *scaffold) error {
	components := strings.Join(s.Components, ", ")
	keywords := strings.Join(s.Keywords, ", ")
	inputs := formatInputs(s.Inputs)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Milestone ID").
				Description("Also the file name").
				Value(&s.ID).
				Validate(func(v string) error {
					if !milestoneIDPattern.MatchString(v) {
						return errors.New("letters, digits, '.', '_' or '-'")
					}
					return nil
				}),
			huh.NewInput().Title("Name").Value(&s.Name),
			huh.NewText().Title("Description").Value(&s.Description),
			huh.NewInput().
				Title("Deadline").
				Placeholder("2018 Q2").
				Description("Blank for unscheduled").
				Value(&s.Deadline).
				Validate(func(v string) error {
					_, err := domain.ParsePeriod(v)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().Title("Components").Description("Comma separated").Value(&components),
			huh.NewInput().Title("Keywords").Description("Comma separated").Value(&keywords),
			huh.NewInput().
				Title("Inputs to").
				Description("target=label, comma separated").
				Value(&inputs).
				Validate(func(v string) error {
					_, err := parseInputs(v)
					return err
				}),
		),
	).WithTheme(roadmapHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}

	s.Components = splitComma(components)
	s.Keywords = splitComma(keywords)
	parsed, err := parseInputs(inputs)
	if err != nil {
		return err
	}
	s.Inputs = parsed
	return nil
}

func splitComma(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInputs(v string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitComma(v) {
		target, label, ok := strings.Cut(pair, "=")
		target, label = strings.TrimSpace(target), strings.TrimSpace(label)
		if !ok || target == "" || label == "" {
			return nil, fmt.Errorf("expected target=label, got %q", pair)
		}
		out[target] = label
	}
	return out, nil
}

func formatInputs(inputs map[string]string) string {
	targets := make([]string, 0, len(inputs))
	for t := range inputs {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	pairs := make([]string, len(targets))
	for i, t := range targets {
		pairs[i] = t + "=" + inputs[t]
	}
	return strings.Join(pairs, ", ")
}
