package feed

import (
	"sort"
	"sync"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
)

// Filters is one filter value: free-text term, channel and category sets,
// sort direction, page size. Selections are sets so duplicates are
// impossible and selection order is irrelevant.
type Filters struct {
	Query       string
	ChannelIDs  map[int64]struct{}
	Categories  map[api.Category]struct{}
	RecentFirst bool
	PageSize    int
}

func defaultFilters(pageSize int) Filters {
	if pageSize < 1 {
		pageSize = 9
	}
	return Filters{
		ChannelIDs:  make(map[int64]struct{}),
		Categories:  make(map[api.Category]struct{}),
		RecentFirst: true,
		PageSize:    pageSize,
	}
}

func (f Filters) clone() Filters {
	out := f
	out.ChannelIDs = make(map[int64]struct{}, len(f.ChannelIDs))
	for id := range f.ChannelIDs {
		out.ChannelIDs[id] = struct{}{}
	}
	out.Categories = make(map[api.Category]struct{}, len(f.Categories))
	for category := range f.Categories {
		out.Categories[category] = struct{}{}
	}
	return out
}

// Snapshot is the canonical, immutable form of a committed filter. Page
// requests are tagged with the snapshot they were issued for so responses
// that outlive their filter can be discarded.
type Snapshot struct {
	Query       string
	ChannelIDs  []int64
	Categories  []api.Category
	RecentFirst bool
	PageSize    int
}

func (f Filters) snapshot() Snapshot {
	ids := make([]int64, 0, len(f.ChannelIDs))
	for id := range f.ChannelIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	categories := make([]api.Category, 0, len(f.Categories))
	for category := range f.Categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	return Snapshot{
		Query:       f.Query,
		ChannelIDs:  ids,
		Categories:  categories,
		RecentFirst: f.RecentFirst,
		PageSize:    f.PageSize,
	}
}

func (s Snapshot) Equal(o Snapshot) bool {
	if s.Query != o.Query || s.RecentFirst != o.RecentFirst || s.PageSize != o.PageSize {
		return false
	}
	if len(s.ChannelIDs) != len(o.ChannelIDs) || len(s.Categories) != len(o.Categories) {
		return false
	}
	for i, id := range s.ChannelIDs {
		if o.ChannelIDs[i] != id {
			return false
		}
	}
	for i, category := range s.Categories {
		if o.Categories[i] != category {
			return false
		}
	}
	return true
}

// newsQuery builds the wire query for this snapshot. The cursor is set only
// for continuation; a fresh sequence never sends one.
func (s Snapshot) newsQuery(cursor string) api.NewsQuery {
	return api.NewsQuery{
		Limit:       s.PageSize,
		RecentFirst: s.RecentFirst,
		Query:       s.Query,
		ChannelIDs:  s.ChannelIDs,
		Categories:  s.Categories,
		SearchAfter: cursor,
	}
}

// Model separates the pending filter, mutated freely by the UI with no
// side effects, from the committed one driving fetches. Only Commit and
// Reset swap the committed value, and they swap all fields together.
type Model struct {
	mu        sync.Mutex
	defaults  Filters
	pending   Filters
	committed Snapshot
}

func NewModel(pageSize int) *Model {
	defaults := defaultFilters(pageSize)
	return &Model{
		defaults:  defaults,
		pending:   defaults.clone(),
		committed: defaults.snapshot(),
	}
}

func (m *Model) SetQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.Query = query
}

func (m *Model) ToggleChannel(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending.ChannelIDs[id]; ok {
		delete(m.pending.ChannelIDs, id)
		return
	}
	m.pending.ChannelIDs[id] = struct{}{}
}

func (m *Model) ToggleCategory(category api.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending.Categories[category]; ok {
		delete(m.pending.Categories, category)
		return
	}
	m.pending.Categories[category] = struct{}{}
}

func (m *Model) SetRecentFirst(recentFirst bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.RecentFirst = recentFirst
}

func (m *Model) SetPageSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size < 1 {
		return
	}
	m.pending.PageSize = size
}

// Pending returns a copy of the not-yet-applied selection.
func (m *Model) Pending() Filters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending.clone()
}

// Committed returns the snapshot currently driving fetches.
func (m *Model) Committed() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// Commit promotes the pending selection wholesale and returns the new
// committed snapshot. The caller resets the pagination engine with it.
func (m *Model) Commit() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = m.pending.snapshot()
	return m.committed
}

// Reset restores both pending and committed to the defaults.
func (m *Model) Reset() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = m.defaults.clone()
	m.committed = m.defaults.snapshot()
	return m.committed
}
