package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/reviews"
)

type statusAckMsg struct {
	change reviews.StatusChange
	err    error
}

type dialogReplyMsg struct {
	issueID  string
	question string
	answer   string
	err      error
}

type suggestionMsg struct {
	issueID    string
	suggestion review.Suggestion
	err        error
}

type applyMsg struct {
	issueID string
	err     error
}

func acknowledgeStatus(svc *reviews.Service, change reviews.StatusChange) tea.Cmd {
	return func() tea.Msg {
		err := svc.Acknowledge(context.Background(), change)
		return statusAckMsg{change: change, err: err}
	}
}

func askQuestion(svc *reviews.Service, issueID, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := svc.Ask(context.Background(), issueID, question)
		return dialogReplyMsg{issueID: issueID, question: question, answer: answer, err: err}
	}
}

func fetchSuggestion(svc *reviews.Service, issueID string) tea.Cmd {
	return func() tea.Msg {
		sugg, err := svc.Suggest(context.Background(), issueID)
		return suggestionMsg{issueID: issueID, suggestion: sugg, err: err}
	}
}

func applySuggestion(svc *reviews.Service, issueID string) tea.Cmd {
	return func() tea.Msg {
		return applyMsg{issueID: issueID, err: svc.ApplySuggestion(context.Background(), issueID)}
	}
}
