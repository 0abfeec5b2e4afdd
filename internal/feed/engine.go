package feed

import (
	"sync"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
)

// State is the pagination engine's phase. Exhausted is terminal until the
// next reset.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateExhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// Fetch is a page request the engine has admitted. The caller performs the
// network call with Query and reports the outcome through Apply. Snapshot
// and the generation tag let the engine discard responses that a later
// reset has superseded.
type Fetch struct {
	Snapshot Snapshot
	Query    api.NewsQuery
	gen      uint64
}

// Engine turns a committed filter snapshot into a cursor-delimited page
// sequence. It enforces single-flight: while a page is loading, LoadMore is
// ignored and Reset supersedes the in-flight request instead of stacking a
// second one.
type Engine struct {
	mu      sync.Mutex
	state   State
	snap    Snapshot
	items   []api.NewsItem
	cursor  string
	hasNext bool
	total   int
	gen     uint64
	lastErr error
}

func NewEngine() *Engine {
	return &Engine{}
}

// Reset discards the rendered sequence and the cursor, supersedes any
// in-flight fetch, and admits page one of the given snapshot.
func (e *Engine) Reset(snap Snapshot) Fetch {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	e.snap = snap
	e.items = nil
	e.cursor = ""
	e.hasNext = false
	e.total = 0
	e.state = StateLoading
	e.lastErr = nil

	return Fetch{Snapshot: snap, Query: snap.newsQuery(""), gen: e.gen}
}

// LoadMore admits the next page using the stored cursor. It is a no-op
// while loading or after exhaustion.
func (e *Engine) LoadMore() (Fetch, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// gen == 0 means no sequence has been started yet.
	if e.state != StateIdle || e.gen == 0 {
		return Fetch{}, false
	}

	e.gen++
	e.state = StateLoading
	return Fetch{Snapshot: e.snap, Query: e.snap.newsQuery(e.cursor), gen: e.gen}, true
}

// Apply delivers the outcome of an admitted fetch. Responses whose
// generation or filter snapshot no longer matches are discarded: a slow
// page from a superseded filter must never leak into the fresh sequence.
func (e *Engine) Apply(f Fetch, page api.NewsPage, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if f.gen != e.gen || !f.Snapshot.Equal(e.snap) {
		return
	}

	if err != nil {
		// The sequence and cursor stay intact so the user can retry.
		e.lastErr = err
		e.state = StateIdle
		return
	}

	e.lastErr = nil
	e.items = append(e.items, page.News...)
	e.cursor = page.Meta.Cursor
	e.hasNext = page.Meta.HasNext && page.Meta.Cursor != ""
	e.total = page.Meta.TotalCount
	if e.hasNext {
		e.state = StateIdle
	} else {
		e.state = StateExhausted
	}
}

// Items returns a copy of the rendered sequence.
func (e *Engine) Items() []api.NewsItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]api.NewsItem(nil), e.items...)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) TotalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

func (e *Engine) HasNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasNext
}

// Err reports the failure of the most recent fetch, cleared by the next
// successful page or reset.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}
