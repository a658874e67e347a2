package ops

import (
	"github.com/jacksmith/shelf/internal/model"
)

// Capture appends a link to the unfiled bucket directly through store, the
// way a one-shot producer does without holding a manager. Order is the
// current size of the unfiled bucket. Running managers pick the new link up
// from the change signal the store publishes.
func Capture(store Store, title, url string) model.Link {
	links := store.Load()
	link := model.NewLink(title, url, nil, bucketSize(links, model.FolderKey(nil)))
	links = append(links, link)
	store.Save(links)
	return link
}

// Exists reports whether store already holds a link with the same
// normalized URL.
func Exists(store Store, url string) bool {
	return containsURL(store.Load(), url)
}
