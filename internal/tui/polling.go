package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zerebom/revural/internal/core/lifecycle"
)

// statusFetchedMsg carries one poller round. guardErr is set when the
// poller refused to fetch.
type statusFetchedMsg struct {
	result   lifecycle.Result
	guardErr error
}

// pollTickMsg asks for the next fetch of ticket.
type pollTickMsg struct {
	ticket lifecycle.Ticket
}

func fetchStatus(p *lifecycle.Poller, t lifecycle.Ticket) tea.Cmd {
	return func() tea.Msg {
		res, err := p.Fetch(context.Background(), t)
		return statusFetchedMsg{result: res, guardErr: err}
	}
}

func schedulePoll(t lifecycle.Ticket, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return pollTickMsg{ticket: t}
	})
}
