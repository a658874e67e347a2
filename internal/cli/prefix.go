// Package cli provides terminal output, error types and argument matching
// for the shelf command.
package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jacksmith/shelf/internal/model"
)

// MatchID finds the link whose ID equals or starts with prefix.
// Matching ignores case and hyphens so "3f2a1b4c" and the full UUID both work.
// A full-length ID must parse and is matched exactly.
func MatchID(prefix string, links []model.Link) (model.Link, error) {
	want := compactID(prefix)
	if want == "" || !model.IsIDPrefix(prefix) {
		return model.Link{}, &ValidationError{Field: "id", Message: fmt.Sprintf("expected a link id or id prefix, got %q", prefix)}
	}

	if len(want) == fullIDLength {
		id, err := model.ParseID(prefix)
		if err != nil {
			return model.Link{}, &ValidationError{Field: "id", Message: err.Error()}
		}
		for _, l := range links {
			if l.ID == id {
				return l, nil
			}
		}
		return model.Link{}, &NotFoundError{Type: "link", ID: prefix}
	}

	var matches []model.Link
	for _, l := range links {
		id := compactID(l.ID.String())
		if id == want {
			return l, nil
		}
		if strings.HasPrefix(id, want) {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return model.Link{}, &NotFoundError{Type: "link", ID: prefix}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, l := range matches {
			ids[i] = model.ShortID(l.ID)
		}
		sort.Strings(ids)
		return model.Link{}, &AmbiguousError{Prefix: prefix, Matches: ids}
	}
}

// MatchFolder resolves name against the existing folder labels, ignoring
// case. It returns name unchanged when no folder matches so callers can
// create new folders.
func MatchFolder(name string, folders []string) string {
	key := model.FolderKey(&name)
	for _, f := range folders {
		if model.FolderKey(&f) == key {
			return f
		}
	}
	return name
}

// fullIDLength is the number of hex digits in a link ID.
const fullIDLength = 32

func compactID(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
}
