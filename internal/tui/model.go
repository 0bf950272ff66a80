// Package tui implements the interactive review screen.
package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/zerebom/revural/internal/core/annotate"
	"github.com/zerebom/revural/internal/core/config"
	"github.com/zerebom/revural/internal/core/lifecycle"
	"github.com/zerebom/revural/internal/core/logging"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/selection"
	"github.com/zerebom/revural/internal/core/session"
	"github.com/zerebom/revural/internal/core/styles"
	"github.com/zerebom/revural/internal/reviews"
)

// API is everything the review screen needs from the backend.
type API interface {
	lifecycle.StatusFetcher
	reviews.API
}

// Options configures the review screen.
type Options struct {
	API      API
	ReviewID string
	// DocumentText is the locally known document. When empty the text
	// returned by the backend is used.
	DocumentText string
	Config       *config.Config
}

type pane int

const (
	paneIssues pane = iota
	paneDocument
)

// Model is the bubbletea model of the review screen. It owns one session
// store; views read from it and write focus through the synchronizer.
type Model struct {
	cfg  *config.Config
	keys KeyMap
	help help.Model
	log  zerolog.Logger

	store   *session.Store
	sel     *selection.Synchronizer
	poller  *lifecycle.Poller
	actions *reviews.Service
	ticket  lifecycle.Ticket

	width  int
	height int
	pane   pane

	doc      viewport.Model
	detail   viewport.Model
	spinner  spinner.Model
	input    textinput.Model
	asking   bool
	renderer *glamour.TermRenderer

	progress lifecycle.Progress
	fetchErr error

	changes    *storeChanges
	segments   []annotate.Segment
	markIDs    []string
	docWidth   int
	scrolledTo string
	detailKey  string
	detailRev  int

	extras map[string]*issueExtras

	toasts    *ToastController
	toastView *ToastView
	quitting  bool
}

// New builds the screen and starts tracking opts.ReviewID.
func New(opts Options) (Model, error) {
	if opts.API == nil {
		return Model{}, errors.New("tui: API is required")
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	store := session.New()
	changes := watchStore(store)
	sel := selection.New(store)
	poller := lifecycle.New(opts.API, store,
		lifecycle.WithInterval(cfg.Polling.Interval),
		lifecycle.WithSelection(sel),
	)
	actions := reviews.NewService(opts.API, store, reviews.Options{
		DialogTimeout: cfg.Actions.DialogTimeout,
		RetryAttempts: cfg.Actions.StatusRetryAttempts,
		RetryDelay:    cfg.Actions.StatusRetryDelay,
	})

	if opts.DocumentText != "" {
		store.SetDocumentText(opts.DocumentText)
	}
	ticket, err := poller.Begin(opts.ReviewID)
	if err != nil {
		changes.stop()
		return Model{}, err
	}

	input := textinput.New()
	input.Placeholder = "Ask the agent about this issue"
	input.Prompt = "? "
	input.CharLimit = 2000

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SpinnerStyle))
	toasts := NewToastController()

	return Model{
		cfg:       cfg,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		log:       logging.ForReview("tui", opts.ReviewID),
		store:     store,
		sel:       sel,
		poller:    poller,
		actions:   actions,
		ticket:    ticket,
		changes:   changes,
		doc:       viewport.New(0, 0),
		detail:    viewport.New(0, 0),
		spinner:   sp,
		input:     input,
		extras:    map[string]*issueExtras{},
		toasts:    toasts,
		toastView: NewToastView(toasts),
	}, nil
}

// Store exposes the session state, mainly for callers that inspect the
// result after the program exits.
func (m Model) Store() *session.Store {
	return m.store
}

// Close ends the session: polling stops, the store is cleared and no
// longer observed. Read anything needed from Store before calling it.
func (m Model) Close() {
	m.poller.Cancel()
	m.changes.stop()
	m.store.Reset()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchStatus(m.poller, m.ticket))
}

func (m Model) state() review.Status {
	return m.poller.State()
}

func (m Model) loading() bool {
	st := m.state()
	return m.fetchErr == nil && (st == "" || st == review.StatusProcessing)
}

func (m Model) extrasFor(id string) *issueExtras {
	ex, ok := m.extras[id]
	if !ok {
		ex = &issueExtras{}
		m.extras[id] = ex
	}
	return ex
}

// notify pushes a toast and starts the countdown when it is not running.
func (m *Model) notify(level toastLevel, msg string) tea.Cmd {
	m.toasts.Push(level, msg)
	if m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}
