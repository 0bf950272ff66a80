package review

import (
	"cmp"
	"slices"
	"strings"
)

// Summary is the body of GET /reviews/{id}/summary.
type Summary struct {
	Status     Status     `json:"status"`
	Statistics Statistics `json:"statistics"`
	Issues     []Issue    `json:"issues"`
}

// Statistics aggregates issues by triage state and by agent.
type Statistics struct {
	TotalIssues  int           `json:"total_issues"`
	StatusCounts []StatusCount `json:"status_counts"`
	AgentCounts  []AgentCount  `json:"agent_counts"`
}

type StatusCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type AgentCount struct {
	AgentName string `json:"agent_name"`
	Count     int    `json:"count"`
}

// preferredStatusOrder fixes the leading keys of StatusCounts.
var preferredStatusOrder = []IssueStatus{IssueDone, IssuePending, IssueLater}

// ComputeStatistics builds the same aggregation the backend returns. Status
// keys done, pending and later come first (when present), followed by any
// other keys in first-seen order. Agents are ordered by descending count,
// then case-insensitive name.
func ComputeStatistics(issues []Issue) Statistics {
	statusCounts := map[IssueStatus]int{}
	var statusSeen []IssueStatus
	agentCounts := map[string]int{}
	var agentSeen []string

	for _, is := range issues {
		st := IssueStatus(strings.ToLower(strings.TrimSpace(string(is.Status))))
		if st == "" {
			st = IssuePending
		}
		if _, ok := statusCounts[st]; !ok {
			statusSeen = append(statusSeen, st)
		}
		statusCounts[st]++

		agent := is.AgentLabel()
		if _, ok := agentCounts[agent]; !ok {
			agentSeen = append(agentSeen, agent)
		}
		agentCounts[agent]++
	}

	stats := Statistics{
		TotalIssues:  len(issues),
		StatusCounts: []StatusCount{},
		AgentCounts:  []AgentCount{},
	}

	for _, key := range preferredStatusOrder {
		if n, ok := statusCounts[key]; ok {
			stats.StatusCounts = append(stats.StatusCounts, StatusCount{Key: string(key), Label: key.Label(), Count: n})
		}
	}
	for _, key := range statusSeen {
		if slices.Contains(preferredStatusOrder, key) {
			continue
		}
		stats.StatusCounts = append(stats.StatusCounts, StatusCount{Key: string(key), Label: key.Label(), Count: statusCounts[key]})
	}

	for _, name := range agentSeen {
		stats.AgentCounts = append(stats.AgentCounts, AgentCount{AgentName: name, Count: agentCounts[name]})
	}
	slices.SortStableFunc(stats.AgentCounts, func(a, b AgentCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.AgentName), strings.ToLower(b.AgentName))
	})

	return stats
}
