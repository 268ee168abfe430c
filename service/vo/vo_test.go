package vo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	page := Page{
		PageSummary: PageSummary{
			ID:  "ch1-p2",
			URL: "/book/part-one/chapter-one/on-method",
			ContentSummary: ContentSummary{
				Title:       "On Method",
				Description: "Why the commentary is attached to paragraphs rather than pages.",
			},
			Number:       "iv",
			NumberLabel:  "page iv",
			CommentCount: 3,
		},
		Markdown: "# On Method\n\nThe text is read in order.",
		Breadcrumb: []PageSummary{
			{ID: "part1", URL: "/book/part-one", ContentSummary: ContentSummary{Title: "Part One"}},
			{ID: "ch1", URL: "/book/part-one/chapter-one", ContentSummary: ContentSummary{Title: "Chapter One"}},
		},
		Previous: &PageSummary{ID: "ch1-p1", ContentSummary: ContentSummary{Title: "Preface"}},
		Next:     &PageSummary{ID: "ch2-p1", ContentSummary: ContentSummary{Title: "Reading Closely"}},
		IsFirst:  false,
		IsLast:   false,
	}

	jsonData, err := json.MarshalIndent(page, "", "  ")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "previous")
	assert.Contains(t, decoded, "next")
	assert.NotContains(t, decoded, "previousWithComments")
	assert.NotContains(t, decoded, "redirectTo")

	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "page iv", summary["numberLabel"])
	assert.Equal(t, "On Method", summary["contentSummary"].(map[string]any)["title"])
}
