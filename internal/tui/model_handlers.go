package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/zerebom/revural/internal/core/annotate"
	"github.com/zerebom/revural/internal/core/lifecycle"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/selection"
	"github.com/zerebom/revural/internal/core/session"
	"github.com/zerebom/revural/internal/core/styles"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
	case spinner.TickMsg:
		if m.loading() {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case statusFetchedMsg:
		cmd = m.handleStatus(msg)
	case pollTickMsg:
		if m.poller.IsActive(msg.ticket) {
			cmd = fetchStatus(m.poller, msg.ticket)
		}
	case statusAckMsg:
		cmd = m.handleAck(msg)
	case dialogReplyMsg:
		cmd = m.handleDialogReply(msg)
	case suggestionMsg:
		cmd = m.handleSuggestion(msg)
	case applyMsg:
		if msg.err != nil {
			cmd = m.notify(toastError, "Apply failed: "+msg.err.Error())
		} else {
			cmd = m.notify(toastSuccess, "Suggestion applied")
		}
	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			cmd = scheduleToastTick()
		} else {
			m.toasts.SetTicking(false)
		}
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	m.syncViews()
	return m, cmd
}

func (m *Model) handleStatus(msg statusFetchedMsg) tea.Cmd {
	if msg.guardErr != nil {
		m.log.Debug().Err(msg.guardErr).Msg("status fetch skipped")
		return nil
	}

	out := m.poller.Apply(msg.result)
	switch {
	case out.Stale:
		return nil
	case out.FetchErr != nil:
		m.fetchErr = out.FetchErr
		return nil
	}

	m.fetchErr = nil
	if out.Continue {
		m.progress = out.Progress
		return schedulePoll(out.Ticket, out.Delay)
	}

	m.progress = lifecycle.Progress{}
	if out.Hydrated {
		n := len(m.store.Issues())
		return m.notify(toastSuccess, fmt.Sprintf("Review complete: %d issues", n))
	}
	return nil
}

func (m *Model) handleAck(msg statusAckMsg) tea.Cmd {
	reverted := m.actions.Reconcile(msg.change, msg.err)
	if msg.err == nil {
		return nil
	}

	name := msg.change.IssueID
	if is, ok := m.store.Issue(msg.change.IssueID); ok && is.Headline() != "" {
		name = review.ShortenText(is.Headline(), 24)
	}
	if reverted {
		return m.notify(toastError, fmt.Sprintf("Could not save status of %q; reverted to %s", name, msg.change.Previous.Label()))
	}
	return m.notify(toastError, fmt.Sprintf("Could not save status of %q", name))
}

func (m *Model) handleDialogReply(msg dialogReplyMsg) tea.Cmd {
	ex := m.extrasFor(msg.issueID)
	ex.waiting = false
	m.detailRev++

	if msg.err != nil {
		return m.notify(toastError, "Question failed: "+msg.err.Error())
	}
	ex.exchanges = append(ex.exchanges, exchange{question: msg.question, answer: msg.answer})
	return nil
}

func (m *Model) handleSuggestion(msg suggestionMsg) tea.Cmd {
	if msg.err != nil {
		return m.notify(toastError, "Suggestion failed: "+msg.err.Error())
	}
	sugg := msg.suggestion
	m.extrasFor(msg.issueID).suggestion = &sugg
	m.detailRev++
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.asking {
		return m.handleAskKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.poller.Cancel()
		return tea.Quit
	case key.Matches(msg, m.keys.Retry):
		if m.fetchErr == nil {
			return nil
		}
		m.fetchErr = nil
		return tea.Batch(m.spinner.Tick, fetchStatus(m.poller, m.ticket))
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
		return nil
	}

	if m.state() != review.StatusCompleted {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.SwitchPane):
		if m.pane == paneIssues {
			m.pane = paneDocument
		} else {
			m.pane = paneIssues
		}
	case key.Matches(msg, m.keys.Down):
		m.step(1)
	case key.Matches(msg, m.keys.Up):
		m.step(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-1)
	case key.Matches(msg, m.keys.Open):
		if m.sel.OpenDetail("") {
			m.pane = paneIssues
		}
	case key.Matches(msg, m.keys.Back):
		m.sel.BackToList()
	case key.Matches(msg, m.keys.Pending):
		return m.setStatus(review.IssuePending)
	case key.Matches(msg, m.keys.Later):
		return m.setStatus(review.IssueLater)
	case key.Matches(msg, m.keys.Done):
		return m.setStatus(review.IssueDone)
	case key.Matches(msg, m.keys.Ask):
		if !m.sel.OpenDetail("") {
			return nil
		}
		m.pane = paneIssues
		m.asking = true
		return m.input.Focus()
	case key.Matches(msg, m.keys.Suggest):
		if id := m.sel.Focused(); id != "" {
			return fetchSuggestion(m.actions, id)
		}
	case key.Matches(msg, m.keys.Apply):
		if id := m.sel.Focused(); id != "" {
			return applySuggestion(m.actions, id)
		}
	}
	return nil
}

func (m *Model) handleAskKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.asking = false
		m.input.Blur()
		m.input.Reset()
		return nil
	case tea.KeyEnter:
		question := strings.TrimSpace(m.input.Value())
		id := m.sel.Focused()
		if question == "" || id == "" {
			return nil
		}
		m.asking = false
		m.input.Blur()
		m.input.Reset()
		m.extrasFor(id).waiting = true
		m.detailRev++
		return askQuestion(m.actions, id, question)
	case tea.KeyCtrlC:
		m.quitting = true
		m.poller.Cancel()
		return tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// step moves focus through the order of the active pane: mark order in the
// document, list order in the issues pane.
func (m *Model) step(delta int) {
	if m.pane == paneDocument {
		m.sel.Step(selection.SourceDocument, delta, m.markIDs)
		return
	}

	issues := m.store.Issues()
	order := make([]string, len(issues))
	for i, is := range issues {
		order[i] = is.ID
	}
	src := selection.SourceList
	if m.store.ViewMode() == session.ViewDetail {
		src = selection.SourceDetail
	}
	m.sel.Step(src, delta, order)
}

func (m *Model) scroll(dir int) {
	vp := &m.doc
	if m.pane == paneIssues {
		vp = &m.detail
	}
	vp.SetYOffset(vp.YOffset + dir*max(vp.Height/2, 1))
}

func (m *Model) setStatus(next review.IssueStatus) tea.Cmd {
	id := m.sel.Focused()
	if id == "" {
		return nil
	}

	change, err := m.actions.ChangeStatus(id, next)
	if err != nil {
		return m.notify(toastError, err.Error())
	}
	if !change.Changed() {
		return nil
	}
	return acknowledgeStatus(m.actions, change)
}

// layout recomputes pane geometry after a resize.
func (m *Model) layout() {
	docW, issuesW := m.paneWidths()
	bodyH := m.bodyHeight()

	innerH := max(bodyH-styles.PaneStyle.GetVerticalFrameSize()-1, 1)

	m.doc.Width = max(docW-styles.PaneStyle.GetHorizontalFrameSize(), 1)
	m.doc.Height = innerH
	m.detail.Width = max(issuesW-styles.PaneStyle.GetHorizontalFrameSize(), 1)
	m.detail.Height = max(innerH-1, 1)
	m.input.Width = max(m.detail.Width-4, 1)
	m.help.Width = m.width

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(m.detail.Width),
	)
	if err != nil {
		m.log.Warn().Err(err).Msg("markdown renderer unavailable")
		r = nil
	}
	m.renderer = r
	m.detailKey = ""
}

func (m Model) paneWidths() (int, int) {
	docW := m.width * 3 / 5
	return docW, m.width - docW
}

// bodyHeight leaves room for the status bar and help line.
func (m Model) bodyHeight() int {
	return max(m.height-2, 3)
}

// syncViews refreshes viewport content from the store when it changed and
// keeps the focused mark in view.
func (m *Model) syncViews() {
	snap := m.store.Snapshot()

	if m.changes.takeDocument() || m.doc.Width != m.docWidth {
		m.segments = annotate.Annotate(snap.DocumentText, snap.Issues)
		m.markIDs = annotate.MarkIDs(m.segments)
		content, focusLine := renderDocument(m.segments, snap.Issues, snap.FocusedIssueID, m.doc.Width)
		m.doc.SetContent(content)
		m.docWidth = m.doc.Width

		if snap.FocusedIssueID != m.scrolledTo {
			m.doc.SetYOffset(scrollTarget(focusLine, m.doc.YOffset, m.doc.Height))
			m.scrolledTo = snap.FocusedIssueID
		}
	}

	if snap.ViewMode != session.ViewDetail {
		return
	}
	is, ok := snap.Focused()
	if !ok {
		return
	}
	detailKey := fmt.Sprintf("%s/%d/%d", is.ID, m.detail.Width, m.detailRev)
	if dirty := m.changes.takeDetail(); detailKey == m.detailKey && !dirty {
		return
	}
	var extras issueExtras
	if ex, ok := m.extras[is.ID]; ok {
		extras = *ex
	}
	m.detail.SetContent(renderDetail(is, extras, m.detail.Width, m.renderer))
	if !strings.HasPrefix(m.detailKey, is.ID+"/") {
		m.detail.GotoTop()
	}
	m.detailKey = detailKey
}

// errorText renders err for the status line.
func errorText(err error) string {
	var msg string
	switch {
	case errors.Is(err, review.ErrUnknownStatus):
		msg = "the review service returned an unknown status"
	default:
		msg = err.Error()
	}
	return msg
}
