package ops

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jacksmith/shelf/internal/favicon"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/jacksmith/shelf/internal/notify"
	"github.com/jacksmith/shelf/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inlineScheduler runs jobs on the calling goroutine.
type inlineScheduler struct {
	mu   sync.Mutex
	runs int
}

func (s *inlineScheduler) Schedule(jobs ...favicon.Job) bool {
	for _, job := range jobs {
		s.mu.Lock()
		s.runs++
		s.mu.Unlock()
		job(context.Background())
	}
	return true
}

// stubFetcher returns icons by URL and records what was asked for.
type stubFetcher struct {
	mu    sync.Mutex
	icons map[string][]byte
	asked []string
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, rawURL)
	data, ok := f.icons[rawURL]
	return data, ok
}

func newTestStore() *storage.Storage {
	return storage.New(storage.NewMemoryNamespace())
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *storage.Storage) {
	t.Helper()
	s := newTestStore()
	return NewManager(s, opts...), s
}

// requireContiguous checks every bucket holds exactly 0..n-1.
func requireContiguous(t *testing.T, links []model.Link) {
	t.Helper()
	buckets := make(map[string][]int)
	for _, l := range links {
		buckets[l.Key()] = append(buckets[l.Key()], l.Order)
	}
	for key, orders := range buckets {
		seen := make(map[int]bool)
		for _, o := range orders {
			seen[o] = true
		}
		for i := range orders {
			require.True(t, seen[i], "bucket %q orders %v not contiguous", key, orders)
		}
	}
}

func titles(links []model.Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Title
	}
	return out
}

func bucket(links []model.Link, folder *string) []model.Link {
	var out []model.Link
	for _, l := range links {
		if model.SameFolder(l.Folder, folder) {
			out = append(out, l)
		}
	}
	return out
}

func TestAddAppendsToBucket(t *testing.T) {
	m, s := newTestManager(t)

	a := m.Add("A", "a.com", nil)
	b := m.Add("B", "b.com", nil)
	w := m.Add("W", "w.com", model.Folder("Work"))
	w2 := m.Add("W2", "w2.com", model.Folder("work"))

	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, 0, w.Order)
	assert.Equal(t, 1, w2.Order, "folder buckets are case-insensitive")

	persisted := s.Load()
	assert.Len(t, persisted, 4)
	requireContiguous(t, persisted)
}

func TestAddBlankFolderIsUnfiled(t *testing.T) {
	m, _ := newTestManager(t)

	m.Add("A", "a.com", nil)
	l := m.Add("B", "b.com", model.Folder("   "))

	assert.Nil(t, l.Folder)
	assert.Equal(t, 1, l.Order)
}

func TestAddFolderIgnoresSurroundingSpace(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add("A", "a.com", model.Folder("Work"))
	b := m.Add("B", "b.com", model.Folder("Work "))

	assert.Equal(t, 1, b.Order, "same bucket as Work")
	assert.Equal(t, "Work ", *b.Folder, "label kept as typed")
	assert.Equal(t, []string{"Work"}, m.FolderNames())
	require.Len(t, m.Groups(), 1)
	requireContiguous(t, m.Links())
}

func TestDeleteScenario(t *testing.T) {
	m, s := newTestManager(t)

	m.Add("A", "a.com", nil)
	b := m.Add("B", "b.com", nil)
	m.Add("C", "c.com", nil)

	require.True(t, m.Delete(b.ID))

	links := m.Links()
	require.Len(t, links, 2)
	assert.Equal(t, []string{"A", "C"}, titles(links))
	assert.Equal(t, 0, links[0].Order)
	assert.Equal(t, 1, links[1].Order)

	persisted := s.Load()
	model.SortLinks(persisted)
	assert.Equal(t, []string{"A", "C"}, titles(persisted))
	assert.Equal(t, 1, persisted[1].Order)
}

func TestDeleteUnknown(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add("A", "a.com", nil)

	assert.False(t, m.Delete(uuid.New()))
	assert.Len(t, m.Links(), 1)
}

func TestUpdate(t *testing.T) {
	t.Run("same folder keeps order", func(t *testing.T) {
		m, _ := newTestManager(t)
		m.Add("A", "a.com", model.Folder("Work"))
		b := m.Add("B", "b.com", model.Folder("Work"))

		require.True(t, m.Update(b.ID, "B2", "b2.com", model.Folder("WORK")))

		got, ok := m.Get(b.ID)
		require.True(t, ok)
		assert.Equal(t, "B2", got.Title)
		assert.Equal(t, "b2.com", got.URL)
		assert.Equal(t, 1, got.Order)
	})

	t.Run("folder change appends and closes gap", func(t *testing.T) {
		m, _ := newTestManager(t)
		a := m.Add("A", "a.com", nil)
		m.Add("B", "b.com", nil)
		m.Add("C", "c.com", nil)
		m.Add("X", "x.com", model.Folder("Work"))

		require.True(t, m.Update(a.ID, "A", "a.com", model.Folder("Work")))

		links := m.Links()
		requireContiguous(t, links)
		assert.Equal(t, []string{"B", "C"}, titles(bucket(links, nil)))
		work := bucket(links, model.Folder("Work"))
		assert.Equal(t, []string{"X", "A"}, titles(work))
		assert.Equal(t, 1, work[1].Order)
	})

	t.Run("clears favicon", func(t *testing.T) {
		fetcher := &stubFetcher{icons: map[string][]byte{"a.com": []byte("icon")}}
		m, _ := newTestManager(t, WithFavicons(fetcher, &inlineScheduler{}))

		a := m.Add("A", "a.com", nil)
		got, _ := m.Get(a.ID)
		require.Equal(t, []byte("icon"), got.FaviconData)

		require.True(t, m.Update(a.ID, "A", "other.com", nil))
		got, _ = m.Get(a.ID)
		assert.Nil(t, got.FaviconData)
		assert.Equal(t, []string{"a.com", "other.com"}, fetcher.asked)
	})

	t.Run("unknown id", func(t *testing.T) {
		m, _ := newTestManager(t)
		assert.False(t, m.Update(uuid.New(), "A", "a.com", nil))
	})
}

func TestMove(t *testing.T) {
	tests := []struct {
		name string
		from []int
		to   int
		want []string
	}{
		{"first to end", []int{0}, 4, []string{"B", "C", "D", "A"}},
		{"last to front", []int{3}, 0, []string{"D", "A", "B", "C"}},
		{"down one", []int{0}, 2, []string{"B", "A", "C", "D"}},
		{"up one", []int{2}, 1, []string{"A", "C", "B", "D"}},
		{"several", []int{0, 2}, 4, []string{"B", "D", "A", "C"}},
		{"no-op", []int{1}, 1, []string{"A", "B", "C", "D"}},
		{"out of range source ignored", []int{9}, 0, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			for _, title := range []string{"A", "B", "C", "D"} {
				m.Add(title, title+".com", model.Folder("Work"))
			}
			m.Add("U1", "u1.com", nil)
			m.Add("U2", "u2.com", nil)
			m.Add("P", "p.com", model.Folder("Personal"))
			before := m.Links()

			m.Move(model.Folder("work"), tt.from, tt.to)

			links := m.Links()
			requireContiguous(t, links)
			assert.Equal(t, tt.want, titles(bucket(links, model.Folder("Work"))))
			assert.Equal(t, bucket(before, nil), bucket(links, nil))
			assert.Equal(t, bucket(before, model.Folder("Personal")), bucket(links, model.Folder("Personal")))
		})
	}
}

func TestContiguityAfterRandomOperations(t *testing.T) {
	m, s := newTestManager(t)
	rng := rand.New(rand.NewSource(7))
	folders := []*string{nil, model.Folder("Work"), model.Folder("work"), model.Folder("Home")}

	for i := 0; i < 200; i++ {
		links := m.Links()
		switch op := rng.Intn(4); {
		case op == 0 || len(links) == 0:
			m.Add(fmt.Sprintf("L%d", i), fmt.Sprintf("l%d.com", i), folders[rng.Intn(len(folders))])
		case op == 1:
			l := links[rng.Intn(len(links))]
			m.Update(l.ID, l.Title, l.URL, folders[rng.Intn(len(folders))])
		case op == 2:
			m.Delete(links[rng.Intn(len(links))].ID)
		default:
			f := folders[rng.Intn(len(folders))]
			n := len(bucket(links, f))
			m.Move(f, []int{rng.Intn(n + 1)}, rng.Intn(n+1))
		}
		requireContiguous(t, m.Links())
	}

	requireContiguous(t, s.Load())
	assert.Empty(t, Validate(s.Load()))
}

func TestLinksSorted(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add("z", "z.com", model.Folder("zeta"))
	m.Add("a", "a.com", model.Folder("Alpha"))
	m.Add("u", "u.com", nil)
	m.Add("b", "b.com", model.Folder("beta"))

	assert.Equal(t, []string{"u", "a", "b", "z"}, titles(m.Links()))

	groups := m.Groups()
	require.Len(t, groups, 4)
	assert.Nil(t, groups[0].Folder)
	assert.Equal(t, "Alpha", groups[1].Name())

	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, m.FolderNames())
}

func TestExists(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add("Example", "https://Example.com", nil)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"  example.com ", true},
		{"HTTPS://EXAMPLE.COM", true},
		{"example.com/", false},
		{"http://example.com", false},
		{"other.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Exists(tt.url), tt.url)
	}
}

func TestFaviconPatchedByID(t *testing.T) {
	fetcher := &stubFetcher{icons: map[string][]byte{"b.com": []byte("b-icon")}}
	m, s := newTestManager(t, WithFavicons(fetcher, &inlineScheduler{}))

	a := m.Add("A", "a.com", nil)
	b := m.Add("B", "b.com", nil)

	got, _ := m.Get(b.ID)
	assert.Equal(t, []byte("b-icon"), got.FaviconData)
	got, _ = m.Get(a.ID)
	assert.Nil(t, got.FaviconData, "failed fetch leaves favicon absent")

	for _, l := range s.Load() {
		if l.ID == b.ID {
			assert.Equal(t, []byte("b-icon"), l.FaviconData)
		}
	}
}

func TestApplyFaviconDropsStale(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.Add("A", "a.com", nil)

	m.applyFavicon(a.ID, "old.com", []byte("icon"))
	got, _ := m.Get(a.ID)
	assert.Nil(t, got.FaviconData)

	m.applyFavicon(uuid.New(), "a.com", []byte("icon"))
	assert.Len(t, m.Links(), 1)
}

func TestSweepMissingFavicons(t *testing.T) {
	s := newTestStore()
	withIcon := model.NewLink("A", "a.com", nil, 0)
	withIcon.FaviconData = []byte("have")
	s.Save([]model.Link{withIcon, model.NewLink("B", "b.com", nil, 1), model.NewLink("C", "c.com", nil, 2)})

	fetcher := &stubFetcher{icons: map[string][]byte{"b.com": []byte("b")}}
	sched := &inlineScheduler{}
	m := NewManager(s, WithFavicons(fetcher, sched))

	assert.Equal(t, 2, m.SweepMissingFavicons())
	assert.ElementsMatch(t, []string{"b.com", "c.com"}, fetcher.asked)
	assert.Len(t, model.MissingFavicons(m.Links()), 1)
}

func TestSweepWithoutFetcher(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add("A", "a.com", nil)
	assert.Zero(t, m.SweepMissingFavicons())
}

func TestSweepWithQueue(t *testing.T) {
	q := favicon.NewQueue(0)
	defer q.Close()

	fetcher := &stubFetcher{icons: map[string][]byte{"a.com": []byte("a"), "b.com": []byte("b")}}
	s := newTestStore()
	s.Save([]model.Link{model.NewLink("A", "a.com", nil, 0), model.NewLink("B", "b.com", nil, 1)})

	m := NewManager(s, WithFavicons(fetcher, q))
	assert.Equal(t, 2, m.SweepMissingFavicons())
	q.Wait()

	assert.Empty(t, model.MissingFavicons(m.Links()))
	assert.Empty(t, model.MissingFavicons(s.Load()))
}

func TestExternalChange(t *testing.T) {
	bus := notify.NewLocalBus()
	ns := storage.NewMemoryNamespace()
	ui := storage.New(ns, storage.WithBus(bus))
	producer := storage.New(ns, storage.WithBus(bus))

	var mu sync.Mutex
	var renders int
	m := NewManager(ui, WithChangeHandler(func([]model.Link) {
		mu.Lock()
		renders++
		mu.Unlock()
	}))
	stop := m.Watch(bus)

	Capture(producer, "Captured", "captured.com")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return renders == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, m.Links(), 1)
	assert.Equal(t, "Captured", m.Links()[0].Title)

	stop()
	Capture(producer, "Second", "second.com")
	assert.Len(t, m.Links(), 1, "unsubscribed manager does not reload")
}

func TestWatchSharedLocalBus(t *testing.T) {
	bus := notify.NewLocalBus()
	ns := storage.NewMemoryNamespace()
	first := NewManager(storage.New(ns, storage.WithBus(bus)))
	second := NewManager(storage.New(ns, storage.WithBus(bus)))

	stopFirst := first.Watch(bus)
	defer stopFirst()
	stopSecond := second.Watch(bus)
	defer stopSecond()

	addWithin := func(m *Manager, title, url string) {
		t.Helper()
		done := make(chan struct{})
		go func() {
			defer close(done)
			m.Add(title, url, nil)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Add blocked while its manager watches the bus its store publishes to")
		}
	}

	addWithin(first, "U", "u.com")
	require.Eventually(t, func() bool {
		return len(second.Links()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	addWithin(second, "V", "v.com")
	require.Eventually(t, func() bool {
		return len(first.Links()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"U", "V"}, titles(first.Links()))
}

// gatedFetcher holds every fetch until release is closed.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (f *gatedFetcher) Fetch(ctx context.Context, _ string) ([]byte, bool) {
	select {
	case f.started <- struct{}{}:
	default:
	}
	select {
	case <-f.release:
		return []byte("icon"), true
	case <-ctx.Done():
		return nil, false
	}
}

func TestWatchKeepsCaptureMadeDuringFetch(t *testing.T) {
	dir := t.TempDir()

	uiBus, err := notify.NewFileBus(dir, zerolog.Nop())
	require.NoError(t, err)
	defer uiBus.Close()
	captureBus, err := notify.NewFileBus(dir, zerolog.Nop())
	require.NoError(t, err)
	defer captureBus.Close()

	ui, err := storage.Open(dir, storage.WithBus(uiBus))
	require.NoError(t, err)
	defer ui.Close()
	producer, err := storage.Open(dir, storage.WithBus(captureBus))
	require.NoError(t, err)
	defer producer.Close()

	q := favicon.NewQueue(0)
	defer q.Close()
	fetcher := &gatedFetcher{started: make(chan struct{}, 1), release: make(chan struct{})}

	m := NewManager(ui, WithFavicons(fetcher, q))
	stop := m.Watch(uiBus)
	defer stop()

	m.Add("Y", "y.com", nil)
	<-fetcher.started

	Capture(producer, "X", "x.com")
	require.Eventually(t, func() bool {
		return len(m.Links()) == 2
	}, 5*time.Second, 20*time.Millisecond, "manager reloads the capture")

	close(fetcher.release)
	require.Eventually(t, func() bool {
		return len(model.MissingFavicons(ui.Load())) == 0
	}, 5*time.Second, 20*time.Millisecond)

	assert.ElementsMatch(t, []string{"X", "Y"}, titles(ui.Load()))
}

func TestBootstrap(t *testing.T) {
	t.Run("seeds on first launch", func(t *testing.T) {
		m, s := newTestManager(t)
		m.Bootstrap(true)

		links := m.Links()
		require.Len(t, links, len(DefaultLinks))
		for i, l := range links {
			assert.Equal(t, DefaultLinks[i].Title, l.Title)
			assert.Equal(t, i, l.Order)
			assert.Nil(t, l.Folder)
		}
		assert.True(t, s.HasLaunched())

		m.Bootstrap(true)
		assert.Len(t, m.Links(), len(DefaultLinks), "second launch does not seed again")
	})

	t.Run("seeding disabled", func(t *testing.T) {
		m, s := newTestManager(t)
		m.Bootstrap(false)
		assert.Empty(t, m.Links())
		assert.True(t, s.HasLaunched())
	})

	t.Run("existing links are not seeded over", func(t *testing.T) {
		s := newTestStore()
		s.Save([]model.Link{model.NewLink("Mine", "mine.com", nil, 0)})
		m := NewManager(s)
		m.Bootstrap(true)
		assert.Equal(t, []string{"Mine"}, titles(m.Links()))
	})

	t.Run("sweeps every launch", func(t *testing.T) {
		s := newTestStore()
		s.MarkLaunched()
		s.Save([]model.Link{model.NewLink("A", "a.com", nil, 0)})
		fetcher := &stubFetcher{}
		m := NewManager(s, WithFavicons(fetcher, &inlineScheduler{}))

		m.Bootstrap(true)
		assert.Equal(t, []string{"a.com"}, fetcher.asked)
	})
}

func TestConcurrentMutations(t *testing.T) {
	q := favicon.NewQueue(0)
	defer q.Close()
	fetcher := &stubFetcher{icons: map[string][]byte{}}
	m, s := newTestManager(t, WithFavicons(fetcher, q))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := m.Add(fmt.Sprintf("L%d", i), fmt.Sprintf("l%d.com", i), model.Folder([]string{"A", "B"}[i%2]))
			if i%3 == 0 {
				m.Delete(l.ID)
			}
		}(i)
	}
	wg.Wait()
	q.Wait()

	requireContiguous(t, m.Links())
	assert.ElementsMatch(t, m.Links(), s.Load())
}

func TestClearFavicons(t *testing.T) {
	fetcher := &stubFetcher{icons: map[string][]byte{"a.com": []byte("a")}}
	sched := &inlineScheduler{}
	m, s := newTestManager(t, WithFavicons(fetcher, sched))
	m.Add("A", "a.com", nil)
	require.Empty(t, model.MissingFavicons(m.Links()))

	m.ClearFavicons()
	assert.Len(t, model.MissingFavicons(m.Links()), 1)
	assert.Len(t, model.MissingFavicons(s.Load()), 1)

	assert.Equal(t, 1, m.SweepMissingFavicons())
	assert.Empty(t, model.MissingFavicons(m.Links()))
}
