package domain

import "errors"

var (
	ErrBackwardDependency = errors.New("dependency points backward in time")
	ErrBeforeStart        = errors.New("deadline precedes chart start year")
	ErrCircularDependency = errors.New("circular dependency")
	ErrNotFound           = errors.New("not found")
)

// Definition is one milestone as declared in a definition file.
type Definition struct {
	ID          string // file stem, unique across vendors
	Vendor      string // base name of the directory the file was found in
	Path        string
	Name        string
	Description string
	Components  []string
	Deadline    string
	Keywords    []string

	// Inputs maps a target milestone ID to the label of what this
	// milestone feeds into it.
	Inputs map[string]string
}

// DisplayName returns Name, falling back to ID.
func (d *Definition) DisplayName() string {
	return CoalesceStr(d.Name, d.ID)
}

// Period parses the definition's deadline.
func (d *Definition) Period() (Period, error) {
	return ParsePeriod(d.Deadline)
}

// Dependency is a labeled edge from one milestone to another.
type Dependency struct {
	From  string
	To    string
	Label string
}

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
