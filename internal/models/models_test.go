package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUrgency(t *testing.T) {
	assert.Equal(t, UrgencyHigh, ParseUrgency(" HIGH "))
	assert.Equal(t, UrgencyLow, ParseUrgency("low"))
	assert.Equal(t, UrgencyMedium, ParseUrgency(""))
	assert.Equal(t, UrgencyMedium, ParseUrgency("asap"))
	assert.Equal(t, "High - Urgent matter", UrgencyHigh.Label())
}

func TestFlexBool(t *testing.T) {
	var body struct {
		A FlexBool `json:"a"`
		B FlexBool `json:"b"`
		C FlexBool `json:"c"`
		D FlexBool `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":true,"b":"on","c":"false","d":null}`), &body))

	assert.True(t, bool(body.A))
	assert.True(t, bool(body.B))
	assert.False(t, bool(body.C))
	assert.False(t, bool(body.D))
}

func TestSiteDisplayName(t *testing.T) {
	assert.Equal(t, "Lane", SiteDisplayName("lane"))
	assert.Equal(t, "", SiteDisplayName(""))
	assert.Equal(t, "Étoile", SiteDisplayName("étoile"))
	assert.Equal(t, "Ölçü", SiteDisplayName("ölçü"))
}

func TestBlockKeepsRawJSON(t *testing.T) {
	// Image blocks are not decoded but must reach the page layer intact
	src := `[{"_type":"block","_key":"a","style":"normal","children":[{"_type":"span","text":"Hello "},{"_type":"span","text":"world"}]},` +
		`{"_type":"image","_key":"b","asset":{"_ref":"image-abc-10x10-png"}}]`

	var body []Block
	require.NoError(t, json.Unmarshal([]byte(src), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Hello world", body[0].Text())
	assert.Equal(t, "", body[1].Text())

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
}

func TestPlainText(t *testing.T) {
	body := []Block{
		{Type: "block", Children: []Span{{Text: "First paragraph."}}},
		{Type: "image"},
		{Type: "block", Children: []Span{{Text: "Second "}, {Text: "paragraph."}}},
	}
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", PlainText(body))
}

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		want       ContentType
	}{
		{"none", nil, ContentArticle},
		{"whitepaper title", []Category{{Title: "Whitepaper"}}, ContentWhitepaper},
		{"guides title", []Category{{Title: "Guides"}}, ContentWhitepaper},
		{"case study slug", []Category{{Title: "Client work", Slug: "case-study"}}, ContentCaseStudy},
		{"camel case title", []Category{{Title: "caseStudy"}}, ContentCaseStudy},
		{"news and press", []Category{{Title: "News & Press Releases"}}, ContentNewsPress},
		{"archive is not a case study", []Category{{Title: "Case Study Archive"}}, ContentArticle},
		{"first match wins", []Category{{Title: "AML"}, {Title: "newsPress"}, {Title: "Guide"}}, ContentNewsPress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCategories(tt.categories))
		})
	}
}

func TestPostHasType(t *testing.T) {
	both := Post{Categories: []Category{{Title: "News"}, {Title: "Guides"}, {Slug: "news-press"}}}
	assert.Equal(t, []ContentType{ContentNewsPress, ContentWhitepaper}, CategoryTypes(both.Categories))
	assert.True(t, both.HasType(ContentNewsPress))
	assert.True(t, both.HasType(ContentWhitepaper))
	assert.False(t, both.HasType(ContentArticle))

	explicit := Post{ContentType: ContentCaseStudy, Categories: []Category{{Title: "News"}}}
	assert.True(t, explicit.HasType(ContentCaseStudy))
	assert.False(t, explicit.HasType(ContentNewsPress))

	plain := Post{Categories: []Category{{Title: "AML"}}}
	assert.True(t, plain.HasType(ContentArticle))
	assert.False(t, plain.HasType(ContentWhitepaper))
}

func TestSalaryRangeDisplay(t *testing.T) {
	var hidden *SalaryRange
	assert.Equal(t, "", hidden.Display())
	assert.Equal(t, "", (&SalaryRange{Min: 90000, Max: 120000}).Display())
	assert.Equal(t, "$90,000 - $120,000", (&SalaryRange{Min: 90000, Max: 120000, DisplayPublicly: true}).Display())
	assert.Equal(t, "From $85,000", (&SalaryRange{Min: 85000, DisplayPublicly: true}).Display())
	assert.Equal(t, "", (&SalaryRange{Max: 85000, DisplayPublicly: true}).Display())
}

func TestJobPostingFormatting(t *testing.T) {
	job := JobPosting{
		Title:            "Senior AML Consultant",
		EmploymentType:   "full-time",
		ApplicationEmail: "careers@lane.com.au",
	}

	assert.Equal(t, "Full-Time", job.EmploymentTypeLabel())
	link := job.ApplicationMailto()
	assert.Contains(t, link, "mailto:careers@lane.com.au?subject=Application%20for%20Senior%20AML%20Consultant&body=")
	assert.NotContains(t, link, "+")
}

func TestDateUnmarshal(t *testing.T) {
	var job JobPosting
	require.NoError(t, json.Unmarshal([]byte(`{"applicationDeadline":"2026-11-30","publishedAt":"2026-10-01T09:00:00Z"}`), &job))
	require.NotNil(t, job.ApplicationDeadline)
	assert.Equal(t, 30, job.ApplicationDeadline.Day())

	require.NoError(t, json.Unmarshal([]byte(`{"applicationDeadline":"2026-11-30T00:00:00Z"}`), &job))
	assert.Equal(t, 11, int(job.ApplicationDeadline.Month()))

	assert.Error(t, json.Unmarshal([]byte(`{"applicationDeadline":"next week"}`), &job))
}
