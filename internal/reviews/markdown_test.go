package reviews

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zerebom/revural/internal/core/review"
)

func TestSummaryMarkdown(t *testing.T) {
	summary := review.Summary{
		Status: review.StatusCompleted,
		Issues: []review.Issue{
			{
				ID:           "i1",
				Priority:     1,
				AgentName:    "engineer",
				Summary:      "Unclear color",
				Comment:      "Specify the exact hex value.",
				OriginalText: "button must be blue\nand round",
				Status:       review.IssueDone,
			},
			{ID: "i2", Priority: 9, Comment: "Missing owner"},
		},
	}

	got := SummaryMarkdown("r1", summary)

	want := `# Review Summary (r1)

Status: **completed**

## Statistics

- Total issues: 2
- By status:
  - Done: 1
  - Pending: 1
- By agent:
  - engineer: 1
  - Unknown: 1

## Issues

### 1. Unclear color

- Agent: engineer
- Priority: P1
- Status: Done

Specify the exact hex value.

> button must be blue
> and round

### 2. Missing owner

- Agent: Unknown
- Priority: P?
- Status: Pending

Missing owner
`
	assert.Equal(t, want, got)
}

func TestSummaryMarkdown_Empty(t *testing.T) {
	got := SummaryMarkdown("r9", review.Summary{Status: review.StatusCompleted})

	assert.Contains(t, got, "# Review Summary (r9)")
	assert.Contains(t, got, "- Total issues: 0")
	assert.Contains(t, got, "No issues were reported.")
}

func TestSummaryMarkdown_BackendStatisticsWin(t *testing.T) {
	summary := review.Summary{
		Status: review.StatusCompleted,
		Statistics: review.Statistics{
			TotalIssues:  5,
			StatusCounts: []review.StatusCount{{Key: "later", Label: "Later", Count: 5}},
		},
		Issues: []review.Issue{{ID: "i1", Comment: "x"}},
	}

	got := SummaryMarkdown("r1", summary)
	assert.Contains(t, got, "- Total issues: 5")
	assert.Contains(t, got, "  - Later: 5")
}
