package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting found.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d config errors:", len(e))
	for _, err := range e {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// ValidAxisStyles lists accepted chart.axis values.
func ValidAxisStyles() []string {
	return []string{"relative", "calendar"}
}

// ValidLogLevels lists accepted log.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats lists accepted log.format values.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate checks every field and returns all problems found, or nil.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.StartYear < 1900 || c.StartYear > 9999 {
		errs = append(errs, ValidationError{"start_year", c.StartYear, "must be a four-digit year"})
	}
	if c.UnscheduledOffset < 0 {
		errs = append(errs, ValidationError{"unscheduled_offset", c.UnscheduledOffset, "must not be negative"})
	}
	if c.Chart.Scale < 4 {
		errs = append(errs, ValidationError{"chart.scale", c.Chart.Scale, "must be at least 4"})
	}
	if c.Chart.Margin < 0 {
		errs = append(errs, ValidationError{"chart.margin", c.Chart.Margin, "must not be negative"})
	}
	if len(c.Chart.Palette) == 0 {
		errs = append(errs, ValidationError{"chart.palette", c.Chart.Palette, "must name at least one color"})
	}
	if !slices.Contains(ValidAxisStyles(), c.Chart.Axis) {
		errs = append(errs, ValidationError{"chart.axis", c.Chart.Axis, "must be one of " + strings.Join(ValidAxisStyles(), ", ")})
	}
	if c.Chart.TooltipWidth < 8 {
		errs = append(errs, ValidationError{"chart.tooltip_width", c.Chart.TooltipWidth, "must be at least 8"})
	}
	if c.Chart.FontSize <= 0 {
		errs = append(errs, ValidationError{"chart.font_size", c.Chart.FontSize, "must be positive"})
	}
	if strings.TrimSpace(c.Output.Prefix) == "" {
		errs = append(errs, ValidationError{"output.prefix", c.Output.Prefix, "is required"})
	}
	if c.Watch.DebounceMs < 0 {
		errs = append(errs, ValidationError{"watch.debounce_ms", c.Watch.DebounceMs, "must not be negative"})
	}
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{"log.level", c.Log.Level, "must be one of " + strings.Join(ValidLogLevels(), ", ")})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		errs = append(errs, ValidationError{"log.format", c.Log.Format, "must be one of " + strings.Join(ValidLogFormats(), ", ")})
	}

	return errs
}
