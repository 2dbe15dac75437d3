package schedule

import (
	"testing"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleDefs() []domain.Definition {
	return []domain.Definition{
		{
			ID: "parser", Name: "Parser", Description: "Streaming parser",
			Components: []string{"lexer", "parser"}, Deadline: "2017 Q2",
			Keywords: []string{"perf"},
			Inputs:   map[string]string{"render": "AST format"},
		},
		{ID: "render", Name: "Renderer", Deadline: "2018 Q1",
			Inputs: map[string]string{"docs": "screenshots"}},
		{ID: "docs"},
	}
}

func TestBuildTable_Columns(t *testing.T) {
	tbl := BuildTable(sampleDefs())

	assert.Equal(t, []string{
		"name", "description", "components", "deadline", "keywords",
		"parser", "render", "docs",
	}, tbl.Columns())
	assert.Equal(t, []string{"parser", "render", "docs"}, tbl.RowIDs())
	assert.Equal(t, 3, tbl.Len())
}

func TestBuildTable_Cells(t *testing.T) {
	tbl := BuildTable(sampleDefs())

	assert.Equal(t, "Parser", tbl.Cell("parser", "name"))
	assert.Equal(t, "lexer, parser", tbl.Cell("parser", "components"))
	assert.Equal(t, "perf", tbl.Cell("parser", "keywords"))
	assert.Equal(t, "AST format", tbl.Cell("parser", "render"))
	assert.Equal(t, "", tbl.Cell("parser", "docs"))

	// Missing fields are blank.
	assert.Equal(t, []string{"", "", "", "", "", "", "", ""}, tbl.Row("docs"))

	assert.Equal(t, "screenshots", tbl.Support("render", "docs"))
	assert.Equal(t, "", tbl.Support("docs", "render"))
	assert.Equal(t, "", tbl.Cell("ghost", "name"))
	assert.Nil(t, tbl.Row("ghost"))
}

func TestBuildTable_IDClashingWithFieldName(t *testing.T) {
	tbl := BuildTable([]domain.Definition{
		{ID: "name", Name: "Called name"},
		{ID: "b", Inputs: map[string]string{"name": "x"}},
	})

	assert.Equal(t, "Called name", tbl.Cell("name", "name"))
	assert.Equal(t, "x", tbl.Support("b", "name"))
}
