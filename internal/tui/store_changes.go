package tui

import (
	"sync"

	"github.com/zerebom/revural/internal/core/session"
)

// storeChanges collects store notifications between renders so syncViews
// only rebuilds the panes a mutation touched.
type storeChanges struct {
	mu          sync.Mutex
	docDirty    bool
	detailDirty bool
	unsubscribe func()
}

func watchStore(store *session.Store) *storeChanges {
	sc := &storeChanges{docDirty: true, detailDirty: true}
	sc.unsubscribe = store.Subscribe(sc.record)
	return sc
}

func (sc *storeChanges) record(c session.Change) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if c.Has(session.ChangeDocument) || c.Has(session.ChangeIssues) ||
		c.Has(session.ChangeFocus) || c.Has(session.ChangeStatus) || c.Has(session.ChangeReset) {
		sc.docDirty = true
	}
	sc.detailDirty = true
}

// takeDocument reports and clears pending document changes.
func (sc *storeChanges) takeDocument() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	dirty := sc.docDirty
	sc.docDirty = false
	return dirty
}

// takeDetail reports and clears pending detail changes.
func (sc *storeChanges) takeDetail() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	dirty := sc.detailDirty
	sc.detailDirty = false
	return dirty
}

func (sc *storeChanges) stop() {
	sc.unsubscribe()
}
