package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/schedule"
)

// FormatSchedule renders one line per milestone with its outgoing inputs
// collapsed into a single column.
func FormatSchedule(t *schedule.Table) string {
	headers := []string{"ID", "NAME", "DEADLINE", "COMPONENTS", "INPUTS TO"}
	ids := t.RowIDs()
	rows := make([][]string, 0, len(ids))

	for _, id := range ids {
		var inputs []string
		for _, dst := range ids {
			if label := t.Support(id, dst); label != "" {
				inputs = append(inputs, fmt.Sprintf("%s (%s)", dst, label))
			}
		}

		deadline := t.Cell(id, "deadline")
		if deadline == "" {
			deadline = Dim("unscheduled")
		}
		rows = append(rows, []string{
			id,
			Bold(t.Cell(id, "name")),
			deadline,
			t.Cell(id, "components"),
			strings.Join(inputs, ", "),
		})
	}
	return RenderTable(headers, rows)
}

// FormatMatrix renders the full pivoted table: the field columns followed
// by one column per milestone.
func FormatMatrix(t *schedule.Table) string {
	headers := append([]string{"ID"}, t.Columns()...)
	rows := make([][]string, 0, t.Len())
	for _, id := range t.RowIDs() {
		rows = append(rows, append([]string{id}, t.Row(id)...))
	}
	return RenderTable(headers, rows)
}

// FormatRendered summarizes a finished render.
func FormatRendered(svgPath, pngPath string, milestones, deps, skipped int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s, %s)",
		StyleGreen.Render("Wrote"), svgPath,
		Plural(milestones, "milestone", "milestones"), Plural(deps, "dependency", "dependencies"))
	if pngPath != "" {
		fmt.Fprintf(&b, "\n%s %s", StyleGreen.Render("Wrote"), pngPath)
	}
	if skipped > 0 {
		fmt.Fprintf(&b, "\n%s", StyleYellow.Render(fmt.Sprintf("Skipped %s", Plural(skipped, "definition file", "definition files"))))
	}
	return b.String()
}
