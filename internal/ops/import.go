package ops

import (
	"github.com/google/uuid"
	"github.com/jacksmith/shelf/internal/model"
)

// ImportResult summarizes a merge of externally sourced links.
type ImportResult struct {
	Added   int
	Skipped int
}

// Import merges links into the collection. Links whose id is already
// present are skipped. Every bucket is renumbered afterwards, keeping the
// existing members ahead of imported ones with equal order.
func (m *Manager) Import(links []model.Link) ImportResult {
	var result ImportResult

	m.mu.Lock()
	ids := make(map[uuid.UUID]bool, len(m.links))
	for _, l := range m.links {
		ids[l.ID] = true
	}

	var added []model.Link
	for _, l := range links {
		if ids[l.ID] {
			result.Skipped++
			continue
		}
		ids[l.ID] = true
		l.Folder = model.NormalizeFolder(l.Folder)
		m.links = append(m.links, l)
		added = append(added, l)
	}

	if len(added) > 0 {
		for _, key := range bucketKeys(m.links) {
			for rank, j := range bucketIndices(m.links, key) {
				m.links[j].Order = rank
			}
		}
		m.saveLocked()
	}
	m.mu.Unlock()

	result.Added = len(added)
	if result.Added > 0 {
		m.logger.Info().Int("added", result.Added).Int("skipped", result.Skipped).Msg("Imported links")
		m.changed()
		for _, l := range model.MissingFavicons(added) {
			m.enqueue(l.ID, l.URL)
		}
	}
	return result
}
