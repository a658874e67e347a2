package storage

import (
	"fmt"
	"os"

	"github.com/jacksmith/shelf/internal/model"
	"howett.net/plist"
)

// legacyLinksKeys are the keys the links blob may live under in an exported
// preferences plist, newest first.
var legacyLinksKeys = []string{LinksKey, "LinkShelf_Links"}

// ReadDefaultsExport reads links from a plist produced by
// `defaults export <domain> <file>`. The links value is a data blob
// holding the same JSON array the Links key uses.
func ReadDefaultsExport(path string) ([]model.Link, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseDefaults(data)
}

// ParseDefaults extracts links from plist bytes in any plist format.
func ParseDefaults(data []byte) ([]model.Link, error) {
	var prefs map[string]interface{}
	if _, err := plist.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse plist: %w", err)
	}

	for _, key := range legacyLinksKeys {
		raw, ok := prefs[key]
		if !ok {
			continue
		}
		var blob []byte
		switch v := raw.(type) {
		case []byte:
			blob = v
		case string:
			blob = []byte(v)
		default:
			return nil, fmt.Errorf("unexpected %T under %q", raw, key)
		}
		links, err := model.DecodeLinks(blob)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		return links, nil
	}

	return nil, fmt.Errorf("no links found (looked for %v)", legacyLinksKeys)
}
