// Package tui is the terminal dashboard: the feed, paper and sources views driven by
// Bubble Tea, with API calls run as commands off the event loop.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fact-news/internal/common/pagination"
	"fact-news/internal/gesture"
	feedUC "fact-news/internal/usecase/feed"
	"fact-news/internal/usecase/notify"
	paperUC "fact-news/internal/usecase/paper"
	srcUC "fact-news/internal/usecase/source"
)

// Page is one of the dashboard's sections.
type Page int

const (
	PageFeed Page = iota
	PagePapers
	PageSources
)

var pageNames = []string{"Feed", "Papers", "Sources"}

func (p Page) String() string { return pageNames[p] }

type focus int

const (
	focusNone focus = iota
	focusSearch
	focusFeedDate
	focusPaperDate
	focusURL
)

// Services are the use cases the dashboard drives.
type Services struct {
	Feed    *feedUC.Service
	Papers  *paperUC.Service
	Sources *srcUC.Service
}

// Options tune the dashboard.
type Options struct {
	Pages pagination.Config
	// NoticeTTL is how long a toast stays visible.
	NoticeTTL time.Duration
	// CellMinDistance is the horizontal drag, in terminal cells, that counts as a swipe.
	CellMinDistance float64
	Now             func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	svc  Services
	opts Options
	keys keyMap
	help help.Model

	page          Page
	width, height int

	feed    *feedUC.State
	paper   *paperUC.State
	sources *srcUC.State
	notices notify.Queue
	// expiryFor is the newest notice an expiry tick has been scheduled for.
	expiryFor time.Time

	focus        focus
	search       textinput.Model
	feedDate     textinput.Model
	paperDate    textinput.Model
	url          textinput.Model
	feedCursor   int
	sourceCursor int
	swipe        *gesture.Detector
}

// New returns the dashboard showing the feed. ctx bounds every API call it makes.
func New(ctx context.Context, svc Services, opts Options) Model {
	if opts.Pages.ArticlesPerPage <= 0 || opts.Pages.SourcesPerPage <= 0 {
		opts.Pages = pagination.DefaultConfig()
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = notify.DefaultTTL
	}
	if opts.CellMinDistance <= 0 {
		opts.CellMinDistance = gesture.DefaultCellMinDistance
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return Model{
		ctx:       ctx,
		svc:       svc,
		opts:      opts,
		keys:      defaultKeyMap(),
		help:      help.New(),
		feed:      feedUC.NewState(opts.Pages.ArticlesPerPage),
		paper:     paperUC.NewState(),
		sources:   srcUC.NewState(opts.Pages.SourcesPerPage),
		search:    newInput("Search articles by title...", 200),
		feedDate:  newInput("YYYY-MM-DD (empty clears)", 10),
		paperDate: newInput("YYYY-MM-DD (empty for today)", 10),
		url:       newInput("Enter source URL (e.g., https://example.com)", 2048),
		swipe:     gesture.NewDetector(opts.CellMinDistance),
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init starts loading the feed.
func (m Model) Init() tea.Cmd {
	return m.loadFeed()
}

// ActivePage returns the section on screen.
func (m Model) ActivePage() Page { return m.page }

// Notices returns the toasts currently visible, oldest first.
func (m Model) Notices() []notify.Notice { return m.notices.Items }

// Feed returns the feed view state.
func (m Model) Feed() *feedUC.State { return m.feed }

// Paper returns the paper view state.
func (m Model) Paper() *paperUC.State { return m.paper }

// Sources returns the sources view state.
func (m Model) Sources() *srcUC.State { return m.sources }
