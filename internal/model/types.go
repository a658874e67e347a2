// Package model defines the core data structures for shelf.
package model

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Link represents one bookmark on the shelf.
type Link struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	Order       int       `json:"order" yaml:"order"`
	Folder      *string   `json:"folder" yaml:"folder,omitempty"`
	FaviconData []byte    `json:"faviconData" yaml:"-"`
}

// NewLink creates a link with a fresh ID.
// The folder is normalized before it is stored.
func NewLink(title, url string, folder *string, order int) Link {
	return Link{
		ID:     uuid.New(),
		Title:  title,
		URL:    url,
		Order:  order,
		Folder: NormalizeFolder(folder),
	}
}

// FolderName returns the folder label, or "" for unfiled links.
func (l *Link) FolderName() string {
	if l.Folder == nil {
		return ""
	}
	return *l.Folder
}

// Key returns the bucket key of the link's folder.
func (l *Link) Key() string {
	return FolderKey(l.Folder)
}

// NormalizeFolder maps nil, empty and whitespace-only names to nil.
// Any other value is returned verbatim so the original casing survives.
func NormalizeFolder(folder *string) *string {
	if folder == nil || strings.TrimSpace(*folder) == "" {
		return nil
	}
	f := *folder
	return &f
}

// Folder returns a pointer to name, normalized. Convenient for literals.
func Folder(name string) *string {
	return NormalizeFolder(&name)
}

// FolderKey returns the grouping and sort key for a folder. Surrounding
// space and case are ignored. The unfiled bucket has key "" which sorts
// before every named folder.
func FolderKey(f *string) string {
	f = NormalizeFolder(f)
	if f == nil {
		return ""
	}
	return cases.Fold().String(strings.TrimSpace(*f))
}

// SameFolder reports whether a and b name the same bucket.
func SameFolder(a, b *string) bool {
	return FolderKey(a) == FolderKey(b)
}

// NormalizeURL returns the form used for duplicate detection: trimmed,
// https:// prefixed when no http(s) scheme is present, and lower-cased.
// Paths are not otherwise normalized, so a trailing slash is significant.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		u = "https://" + u
	}
	return strings.ToLower(u)
}
