// Package ops holds the link manager: the in-memory, folder-aware view of
// the shelf and every operation that mutates it.
package ops

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jacksmith/shelf/internal/favicon"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/jacksmith/shelf/internal/notify"
	"github.com/rs/zerolog"
)

// DefaultLinks are seeded on the first launch of an empty shelf.
var DefaultLinks = []struct{ Title, URL string }{
	{"LinkedIn Profile", "https://linkedin.com/in/yourprofile"},
	{"GitHub Profile", "https://github.com/yourusername"},
	{"Portfolio Website", "https://yourportfolio.com"},
}

// Manager owns the in-memory link view of one process.
//
// All reads and writes of the view, and every Save, happen under one mutex,
// so favicon completions arriving from worker goroutines are serialized with
// user operations. The view is kept sorted by folder key, then order.
type Manager struct {
	store     Store
	fetcher   FaviconFetcher
	scheduler JobScheduler
	logger    zerolog.Logger
	onChange  func([]model.Link)

	mu    sync.Mutex
	links []model.Link
}

// Option configures a Manager.
type Option func(*Manager)

// WithFavicons enables favicon fetching through fetcher, paced by scheduler.
func WithFavicons(fetcher FaviconFetcher, scheduler JobScheduler) Option {
	return func(m *Manager) {
		m.fetcher = fetcher
		m.scheduler = scheduler
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithChangeHandler registers fn to receive a snapshot of the view after
// every change, for re-rendering. fn runs outside the manager's lock.
func WithChangeHandler(fn func([]model.Link)) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// NewManager creates a manager over store and loads the current collection.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.mu.Lock()
	m.links = m.loadSorted()
	m.mu.Unlock()

	return m
}

// Bootstrap runs the startup sequence. On the first launch of a shelf the
// default links are added when seed is true and the collection is empty,
// and the launch is recorded. Every launch then sweeps missing favicons.
func (m *Manager) Bootstrap(seed bool) {
	if !m.store.HasLaunched() {
		m.mu.Lock()
		seeded := seed && len(m.links) == 0
		if seeded {
			for i, d := range DefaultLinks {
				m.links = append(m.links, model.NewLink(d.Title, d.URL, nil, i))
			}
			m.saveLocked()
		}
		m.mu.Unlock()

		m.store.MarkLaunched()
		if seeded {
			m.logger.Info().Int("count", len(DefaultLinks)).Msg("Seeded default links")
			m.changed()
		}
	}

	m.SweepMissingFavicons()
}

// Load replaces the view with the persisted collection.
func (m *Manager) Load() {
	m.mu.Lock()
	m.links = m.loadSorted()
	m.mu.Unlock()

	m.changed()
}

func (m *Manager) loadSorted() []model.Link {
	links := m.store.Load()
	model.SortLinks(links)
	return links
}

// Links returns a snapshot of the view, sorted unfiled-first then by
// folder and order.
func (m *Manager) Links() []model.Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Groups returns the view split into folder buckets.
func (m *Manager) Groups() []model.Group {
	return model.GroupLinks(m.Links())
}

// Get returns the link with id.
func (m *Manager) Get(id uuid.UUID) (model.Link, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexLocked(id); i >= 0 {
		return m.links[i], true
	}
	return model.Link{}, false
}

// Add appends a link to the end of its folder bucket, saves, and queues a
// favicon fetch for it.
func (m *Manager) Add(title, url string, folder *string) model.Link {
	m.mu.Lock()
	folder = model.NormalizeFolder(folder)
	link := model.NewLink(title, url, folder, bucketSize(m.links, model.FolderKey(folder)))
	m.links = append(m.links, link)
	m.saveLocked()
	m.mu.Unlock()

	m.logger.Debug().Str("id", link.ID.String()).Str("folder", link.FolderName()).Int("order", link.Order).Msg("Added link")
	m.changed()
	m.enqueue(link.ID, link.URL)
	return link
}

// Update edits a link in place. Changing folder moves the link to the end
// of the new bucket and closes the gap it left. The cached favicon is
// always dropped and fetched again. Returns false if id is unknown.
func (m *Manager) Update(id uuid.UUID, title, url string, folder *string) bool {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}

	link := &m.links[i]
	oldFolder := link.Folder
	folder = model.NormalizeFolder(folder)

	link.Title = title
	link.URL = url
	link.ClearFavicon()

	if model.SameFolder(oldFolder, folder) {
		link.Folder = folder
	} else {
		link.Folder = folder
		link.Order = bucketSize(m.links, model.FolderKey(folder)) - 1
		Reindex(m.links, oldFolder)
		Reindex(m.links, folder)
	}

	m.saveLocked()
	m.mu.Unlock()

	m.logger.Debug().Str("id", id.String()).Msg("Updated link")
	m.changed()
	m.enqueue(id, url)
	return true
}

// Delete removes a link and renumbers its former bucket.
// Returns false if id is unknown.
func (m *Manager) Delete(id uuid.UUID) bool {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}

	folder := m.links[i].Folder
	m.links = append(m.links[:i], m.links[i+1:]...)
	Reindex(m.links, folder)
	m.saveLocked()
	m.mu.Unlock()

	m.logger.Debug().Str("id", id.String()).Msg("Deleted link")
	m.changed()
	return true
}

// Move reorders one folder bucket. from lists positions in the bucket's
// current order; they are placed before the item now at position to
// (len(bucket) places them last). The bucket is renumbered densely and
// no other bucket changes.
func (m *Manager) Move(folder *string, from []int, to int) {
	m.mu.Lock()
	idx := bucketIndices(m.links, model.FolderKey(folder))
	if len(idx) == 0 || len(from) == 0 {
		m.mu.Unlock()
		return
	}

	for rank, pos := range moveOffsets(len(idx), from, to) {
		m.links[idx[pos]].Order = rank
	}
	m.saveLocked()
	m.mu.Unlock()

	m.changed()
}

// ClearFavicons drops every cached favicon and saves.
func (m *Manager) ClearFavicons() {
	m.mu.Lock()
	for i := range m.links {
		m.links[i].ClearFavicon()
	}
	m.saveLocked()
	m.mu.Unlock()

	m.changed()
}

// Exists reports whether a stored link has the same normalized URL.
// The comparison is exact after normalization: a trailing slash matters.
func (m *Manager) Exists(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return containsURL(m.links, url)
}

// FolderNames returns the distinct folder labels, case-insensitively sorted.
func (m *Manager) FolderNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.FolderNames(m.links)
}

// OnExternalChange reloads the view after another process saved, then
// sweeps missing favicons again.
func (m *Manager) OnExternalChange() {
	m.logger.Debug().Msg("External change, reloading")
	m.Load()
	m.SweepMissingFavicons()
}

// Watch subscribes the manager to change signals on bus. Signals stamped
// with the origin of the manager's own store are ignored.
//
// Reloads run on a separate goroutine, never inside Publish, so a
// synchronous bus cannot call back into a manager that is saving. Signals
// arriving while a reload is pending collapse into that reload.
// The returned function unsubscribes and waits for a running reload.
func (m *Manager) Watch(bus notify.Bus) func() {
	var self string
	if o, ok := m.store.(interface{ Origin() string }); ok {
		self = o.Origin()
	}

	pending := make(chan struct{}, 1)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case <-pending:
				m.OnExternalChange()
			}
		}
	}()

	token := bus.Subscribe(func(e notify.Event) {
		if e.Name != notify.LinksChanged || (self != "" && e.Origin == self) {
			return
		}
		select {
		case pending <- struct{}{}:
		default:
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			bus.Unsubscribe(token)
			close(done)
			wg.Wait()
		})
	}
}

// SweepMissingFavicons queues one fetch per link without a favicon.
// The scheduler staggers their release. Returns the number queued.
func (m *Manager) SweepMissingFavicons() int {
	if m.fetcher == nil || m.scheduler == nil {
		return 0
	}

	m.mu.Lock()
	missing := model.MissingFavicons(m.links)
	m.mu.Unlock()

	if len(missing) == 0 {
		return 0
	}

	jobs := make([]favicon.Job, 0, len(missing))
	for _, l := range missing {
		jobs = append(jobs, m.faviconJob(l.ID, l.URL))
	}
	if !m.scheduler.Schedule(jobs...) {
		return 0
	}

	m.logger.Debug().Int("count", len(jobs)).Msg("Queued favicon sweep")
	return len(jobs)
}

func (m *Manager) enqueue(id uuid.UUID, url string) {
	if m.fetcher == nil || m.scheduler == nil {
		return
	}
	m.scheduler.Schedule(m.faviconJob(id, url))
}

func (m *Manager) faviconJob(id uuid.UUID, url string) favicon.Job {
	return func(ctx context.Context) {
		data, ok := m.fetcher.Fetch(ctx, url)
		if !ok {
			return
		}
		m.applyFavicon(id, url, data)
	}
}

// applyFavicon patches one link's favicon and saves. The patch is dropped
// if the link is gone or its URL changed since the fetch was queued.
func (m *Manager) applyFavicon(id uuid.UUID, url string, data []byte) {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 || m.links[i].URL != url {
		m.mu.Unlock()
		m.logger.Debug().Str("id", id.String()).Msg("Dropping stale favicon")
		return
	}
	m.links[i].SetFavicon(data)
	m.saveLocked()
	m.mu.Unlock()

	m.logger.Debug().Str("id", id.String()).Int("bytes", len(data)).Msg("Stored favicon")
	m.changed()
}

// saveLocked restores the sort order and persists. Callers hold m.mu.
func (m *Manager) saveLocked() {
	model.SortLinks(m.links)
	m.store.Save(m.snapshotLocked())
}

func (m *Manager) snapshotLocked() []model.Link {
	return append([]model.Link(nil), m.links...)
}

func (m *Manager) indexLocked(id uuid.UUID) int {
	for i := range m.links {
		if m.links[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) changed() {
	if m.onChange == nil {
		return
	}
	m.onChange(m.Links())
}

func containsURL(links []model.Link, url string) bool {
	target := model.NormalizeURL(url)
	for _, l := range links {
		if model.NormalizeURL(l.URL) == target {
			return true
		}
	}
	return false
}
