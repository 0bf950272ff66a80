// Package selection is the single path through which views change focus.
//
// Views never keep a selected id of their own; they call the Synchronizer
// and derive emphasis from the session store on every render, so the
// document view and the issue list can never disagree.
package selection

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/zerebom/revural/internal/core/logging"
	"github.com/zerebom/revural/internal/core/session"
)

// Source names the view a selection came from. It is used for logging only.
type Source string

const (
	SourceDocument Source = "document"
	SourceList     Source = "list"
	SourceDetail   Source = "detail"
	SourcePoller   Source = "poller"
)

// Synchronizer writes focus and view mode to a session store.
type Synchronizer struct {
	store *session.Store
	log   zerolog.Logger
}

func New(store *session.Store) *Synchronizer {
	return &Synchronizer{
		store: store,
		log:   logging.Component("selection"),
	}
}

// Select focuses id on behalf of src. An empty id clears focus.
func (s *Synchronizer) Select(src Source, id string) {
	s.log.Debug().Str("source", string(src)).Str("issue_id", id).Msg("select")
	s.store.SetFocusedIssue(id)
}

// Clear removes focus.
func (s *Synchronizer) Clear() {
	s.store.SetFocusedIssue("")
}

// Focused returns the focused issue id, or "".
func (s *Synchronizer) Focused() string {
	return s.store.FocusedIssueID()
}

// IsFocused reports whether id is the focused issue.
func (s *Synchronizer) IsFocused(id string) bool {
	return id != "" && s.store.FocusedIssueID() == id
}

// OpenDetail switches to the detail view for id, focusing it in the same
// transition. An empty id opens the currently focused issue; nothing
// happens when there is none.
func (s *Synchronizer) OpenDetail(id string) bool {
	if id == "" {
		id = s.store.FocusedIssueID()
	}
	if id == "" {
		return false
	}
	s.store.OpenDetail(id)
	return true
}

// BackToList returns to list mode, keeping focus.
func (s *Synchronizer) BackToList() {
	s.store.SetViewMode(session.ViewList)
}

// Step moves focus delta positions through order, wrapping at both ends.
// When the focused id is not part of order, a forward step lands on the
// first entry and a backward step on the last. It returns the new focus,
// or "" when order is empty.
func (s *Synchronizer) Step(src Source, delta int, order []string) string {
	n := len(order)
	if n == 0 {
		return ""
	}

	idx := slices.Index(order, s.store.FocusedIssueID())
	switch {
	case idx < 0 && delta >= 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = ((idx+delta)%n + n) % n
	}

	next := order[idx]
	s.Select(src, next)
	return next
}
