// Package session holds the client-side state of one review session.
//
// A Store is an explicit object owned by whoever drives the session (the TUI
// model or a headless command) and passed by reference to collaborators.
// Every change goes through a named operation; each effective mutation
// bumps the version and notifies subscribers exactly once.
package session

import (
	"slices"
	"sync"

	"github.com/zerebom/revural/internal/core/review"
)

// ViewMode selects what the issues pane shows.
type ViewMode string

const (
	ViewList   ViewMode = "list"
	ViewDetail ViewMode = "detail"
)

// ChangeKind identifies which field a mutation touched.
type ChangeKind string

const (
	ChangeReviewID ChangeKind = "review_id"
	ChangeDocument ChangeKind = "document"
	ChangeIssues   ChangeKind = "issues"
	ChangeFocus    ChangeKind = "focus"
	ChangeViewMode ChangeKind = "view_mode"
	ChangeStatus   ChangeKind = "issue_status"
	ChangeReset    ChangeKind = "reset"
)

// Change describes one effective mutation.
type Change struct {
	Kinds   []ChangeKind
	Version uint64
}

// Has reports whether the change touched kind.
func (c Change) Has(kind ChangeKind) bool {
	return slices.Contains(c.Kinds, kind)
}

// Listener is called after a mutation, outside the store lock.
type Listener func(Change)

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	ReviewID       string
	DocumentText   string
	Issues         []review.Issue
	FocusedIssueID string
	ViewMode       ViewMode
	Version        uint64
}

// Focused returns the focused issue, if any.
func (s Snapshot) Focused() (review.Issue, bool) {
	return findIssue(s.Issues, s.FocusedIssueID)
}

type listenerEntry struct {
	id int
	fn Listener
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	reviewID string
	document string
	issues   []review.Issue
	focused  string
	mode     ViewMode
	version  uint64

	// identity of the last slice handed to SetIssues
	srcHead *review.Issue
	srcLen  int

	listeners  []listenerEntry
	nextListen int
}

// New returns an empty store in list mode.
func New() *Store {
	return &Store{mode: ViewList}
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(e listenerEntry) bool { return e.id == id })
		})
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ReviewID:       s.reviewID,
		DocumentText:   s.document,
		Issues:         slices.Clone(s.issues),
		FocusedIssueID: s.focused,
		ViewMode:       s.mode,
		Version:        s.version,
	}
}

func (s *Store) ReviewID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviewID
}

func (s *Store) DocumentText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// Issues returns a copy of the issues in arrival order. Nil means the
// review has not delivered issues yet.
func (s *Store) Issues() []review.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.issues)
}

// Issue looks up an issue by id.
func (s *Store) Issue(id string) (review.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findIssue(s.issues, id)
}

// FocusedIssueID returns the focused id, or "" when nothing is focused.
func (s *Store) FocusedIssueID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused
}

func (s *Store) ViewMode() ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Version increases by one with every effective mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) SetReviewID(id string) {
	s.mutate(func() []ChangeKind {
		if s.reviewID == id {
			return nil
		}
		s.reviewID = id
		return []ChangeKind{ChangeReviewID}
	})
}

func (s *Store) SetDocumentText(text string) {
	s.mutate(func() []ChangeKind {
		if s.document == text {
			return nil
		}
		s.document = text
		return []ChangeKind{ChangeDocument}
	})
}

// SetIssues replaces the issue list wholesale. Focus is left untouched even
// when the focused id is no longer present. Passing the same slice again is
// a no-op.
func (s *Store) SetIssues(issues []review.Issue) {
	s.mutate(func() []ChangeKind {
		var head *review.Issue
		if len(issues) > 0 {
			head = &issues[0]
		}
		if head == s.srcHead && len(issues) == s.srcLen && (issues == nil) == (s.issues == nil) {
			return nil
		}
		s.srcHead, s.srcLen = head, len(issues)
		if issues == nil {
			s.issues = nil
		} else {
			s.issues = slices.Clone(issues)
		}
		return []ChangeKind{ChangeIssues}
	})
}

// SetFocusedIssue focuses id; "" clears focus.
func (s *Store) SetFocusedIssue(id string) {
	s.mutate(func() []ChangeKind {
		if s.focused == id {
			return nil
		}
		s.focused = id
		return []ChangeKind{ChangeFocus}
	})
}

func (s *Store) SetViewMode(mode ViewMode) {
	s.mutate(func() []ChangeKind {
		if s.mode == mode {
			return nil
		}
		s.mode = mode
		return []ChangeKind{ChangeViewMode}
	})
}

// OpenDetail focuses id and switches to detail mode in one transition so no
// observer sees detail mode with a stale focus.
func (s *Store) OpenDetail(id string) {
	s.mutate(func() []ChangeKind {
		var kinds []ChangeKind
		if s.focused != id {
			s.focused = id
			kinds = append(kinds, ChangeFocus)
		}
		if s.mode != ViewDetail {
			s.mode = ViewDetail
			kinds = append(kinds, ChangeViewMode)
		}
		return kinds
	})
}

// UpdateIssueStatus sets the status of one issue in place, keeping order.
// It returns the previous status and whether the issue exists. Unknown ids
// and unchanged values do not notify.
func (s *Store) UpdateIssueStatus(id string, status review.IssueStatus) (review.IssueStatus, bool) {
	var (
		prev  review.IssueStatus
		found bool
	)
	s.mutate(func() []ChangeKind {
		idx := slices.IndexFunc(s.issues, func(is review.Issue) bool { return is.ID == id })
		if idx < 0 {
			return nil
		}
		found = true
		prev = s.issues[idx].Status
		if prev == status {
			return nil
		}
		s.issues[idx].Status = status
		return []ChangeKind{ChangeStatus}
	})
	return prev, found
}

// Reset clears the session back to its initial state.
func (s *Store) Reset() {
	s.mutate(func() []ChangeKind {
		if s.reviewID == "" && s.document == "" && s.issues == nil && s.focused == "" && s.mode == ViewList {
			return nil
		}
		s.reviewID = ""
		s.document = ""
		s.issues = nil
		s.focused = ""
		s.mode = ViewList
		s.srcHead, s.srcLen = nil, 0
		return []ChangeKind{ChangeReset}
	})
}

// mutate runs fn under the write lock. When fn reports changed fields the
// version is bumped and listeners are notified after unlocking.
func (s *Store) mutate(fn func() []ChangeKind) {
	s.mu.Lock()
	kinds := fn()
	if len(kinds) == 0 {
		s.mu.Unlock()
		return
	}
	s.version++
	change := Change{Kinds: kinds, Version: s.version}
	listeners := make([]Listener, len(s.listeners))
	for i, e := range s.listeners {
		listeners[i] = e.fn
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
}

func findIssue(issues []review.Issue, id string) (review.Issue, bool) {
	if id == "" {
		return review.Issue{}, false
	}
	idx := slices.IndexFunc(issues, func(is review.Issue) bool { return is.ID == id })
	if idx < 0 {
		return review.Issue{}, false
	}
	return issues[idx], true
}
