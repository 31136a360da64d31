package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestInspectDocument_Clean(t *testing.T) {
	doc, err := Decode([]byte(sampleJSON), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, InspectDocument(doc))
}

func TestInspectDocument_ReportsRepairs(t *testing.T) {
	doc := &RawDocument{
		WeekendMode: "sometimes",
		AnchorDate:  "2024-02-30",
		Groups: []RawGroup{
			{ID: "g1", Stage: "design"},
			{ID: "g1", Stage: "paint"},
			{ID: "g2", Stage: "fabrication", ParentGroupID: strp("g1")},
			{ID: "g3", Stage: "design", ParentGroupID: strp("nope")},
		},
		Rows: []RawRow{
			{ID: "", Kind: "milestone", StartDate: "2024-1-1"},
			{ID: "g2", ParentGroupID: strp("ghost")},
		},
	}
	errs := InspectDocument(doc)

	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "anchor_date: invalid date")
	assert.Contains(t, joined, "weekend_mode: invalid value")
	assert.Contains(t, joined, `groups[1].id: duplicate id "g1"`)
	assert.Contains(t, joined, `groups[1].stage: invalid value "paint"`)
	assert.Contains(t, joined, `groups[2].parent_group_id: ref "g1" belongs to stage "design"`)
	assert.Contains(t, joined, `groups[3].parent_group_id: ref "nope" not found`)
	assert.Contains(t, joined, "rows[0].id is missing")
	assert.Contains(t, joined, `rows[0].kind: invalid value "milestone"`)
	assert.Contains(t, joined, "rows[0].parent_group_id is missing")
	assert.Contains(t, joined, "rows[0].start_date: invalid date format")
	assert.Contains(t, joined, `rows[1].id: duplicate id "g2"`)
	assert.Contains(t, joined, `rows[1].parent_group_id: ref "ghost" not found`)
}

func TestInspectDocument_SkipsSystemRoots(t *testing.T) {
	doc := &RawDocument{
		AnchorDate: "2024-01-01",
		Groups:     []RawGroup{{ID: "stage:design", Stage: "design", IsSystem: true}},
	}
	assert.Empty(t, InspectDocument(doc))
}
