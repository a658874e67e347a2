package main

import (
	"errors"
	"net/http"

	"github.com/jacksmith/shelf/internal/favicon"
	"github.com/jacksmith/shelf/internal/logging"
	"github.com/jacksmith/shelf/internal/notify"
	"github.com/jacksmith/shelf/internal/ops"
	"github.com/jacksmith/shelf/internal/storage"
)

// session bundles what one command invocation needs: the shared store, the
// cross-process bus and a manager with favicon fetching wired in. The
// manager follows saves made by other processes for the session's lifetime.
type session struct {
	store   *storage.Storage
	bus     *notify.FileBus
	queue   *favicon.Queue
	manager *ops.Manager
	unwatch func()
}

func resolveDir() string {
	if shelfDir != "" {
		return shelfDir
	}
	return storage.DefaultDir()
}

// openStore opens the shelf with a FileBus attached so every save reaches
// other processes.
func openStore() (*storage.Storage, *notify.FileBus, error) {
	dir := resolveDir()

	bus, err := notify.NewFileBus(dir, logging.GetLogger("notify"))
	if err != nil {
		return nil, nil, err
	}

	s, err := storage.Open(dir, storage.WithBus(bus), storage.WithLogger(logging.GetLogger("storage")))
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return s, bus, nil
}

func openSession(opts ...ops.Option) (*session, error) {
	s, bus, err := openStore()
	if err != nil {
		return nil, err
	}

	cfg := s.Config()
	fetcher := favicon.NewFetcher(
		favicon.WithHTTPClient(&http.Client{Timeout: cfg.FaviconTimeout}),
		favicon.WithUserAgent(cfg.UserAgent),
		favicon.WithLogger(logging.GetLogger("favicon")),
	)
	queue := favicon.NewQueue(cfg.FaviconStagger)

	opts = append([]ops.Option{
		ops.WithFavicons(fetcher, queue),
		ops.WithLogger(logging.GetLogger("manager")),
	}, opts...)

	m := ops.NewManager(s, opts...)
	return &session{
		store:   s,
		bus:     bus,
		queue:   queue,
		manager: m,
		unwatch: m.Watch(bus),
	}, nil
}

// wait blocks until queued favicon jobs have finished.
func (s *session) wait() {
	s.queue.Wait()
}

// Close cancels outstanding favicon jobs and releases the shelf.
func (s *session) Close() error {
	s.unwatch()
	s.queue.Close()
	return errors.Join(s.bus.Close(), s.store.Close())
}
