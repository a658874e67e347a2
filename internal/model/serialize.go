package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// EncodeLinks serializes the whole collection as a JSON array.
// A nil slice is written as an empty array.
func EncodeLinks(links []Link) ([]byte, error) {
	if links == nil {
		links = []Link{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("failed to encode links: %w", err)
	}
	return data, nil
}

// DecodeLinks parses a JSON array of links.
// Folders are normalized so empty strings never reach the caller.
func DecodeLinks(data []byte) ([]Link, error) {
	var links []Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("failed to decode links: %w", err)
	}
	for i := range links {
		links[i].Folder = NormalizeFolder(links[i].Folder)
	}
	return links, nil
}

// SortLinks orders links by folder key and then by order.
// The unfiled bucket always comes first.
func SortLinks(links []Link) {
	sort.SliceStable(links, func(i, j int) bool {
		ki, kj := links[i].Key(), links[j].Key()
		if ki != kj {
			return ki < kj
		}
		return links[i].Order < links[j].Order
	})
}

// Group is one folder bucket in display order.
type Group struct {
	Folder *string
	Links  []Link
}

// Name returns the display name of the group's folder, or "" when unfiled.
func (g Group) Name() string {
	if g.Folder == nil {
		return ""
	}
	return *g.Folder
}

// GroupLinks splits links into folder buckets. The input is sorted first,
// so groups come out unfiled-first and each group is ordered by rank.
// A group is labelled with the casing of its first member.
func GroupLinks(links []Link) []Group {
	sorted := append([]Link(nil), links...)
	SortLinks(sorted)

	var groups []Group
	for _, l := range sorted {
		if n := len(groups); n > 0 && SameFolder(groups[n-1].Folder, l.Folder) {
			groups[n-1].Links = append(groups[n-1].Links, l)
			continue
		}
		groups = append(groups, Group{Folder: l.Folder, Links: []Link{l}})
	}
	return groups
}

// FolderNames returns the distinct folder labels, sorted case-insensitively.
// The casing of the first occurrence wins; unfiled links are skipped.
func FolderNames(links []Link) []string {
	seen := make(map[string]bool)
	var names []string
	for _, l := range links {
		if l.Folder == nil {
			continue
		}
		key := l.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, *l.Folder)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return FolderKey(&names[i]) < FolderKey(&names[j])
	})
	return names
}

// Find returns links whose title or URL contains query, case-insensitively.
func Find(links []Link, query string) []Link {
	q := strings.ToLower(strings.TrimSpace(query))
	var matches []Link
	for _, l := range links {
		if strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.URL), q) {
			matches = append(matches, l)
		}
	}
	return matches
}
