package ops

import (
	"context"

	"github.com/jacksmith/shelf/internal/favicon"
	"github.com/jacksmith/shelf/internal/model"
)

// Store defines the persistence interface required by the manager.
// The concrete implementation is storage.Storage, but this interface allows
// alternative backends (in-memory fakes for tests, embedded hosts).
//
// Load never fails: unreadable data comes back as an empty collection.
// Save replaces the whole collection and announces the change; failures
// are absorbed by the implementation.
type Store interface {
	Load() []model.Link
	Save(links []model.Link)
	HasLaunched() bool
	MarkLaunched()
}

// FaviconFetcher resolves an icon for a URL. favicon.Fetcher implements it.
type FaviconFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, bool)
}

// JobScheduler runs favicon jobs off the caller's goroutine. favicon.Queue implements it.
type JobScheduler interface {
	Schedule(jobs ...favicon.Job) bool
}
