package ops

import (
	"testing"

	"github.com/jacksmith/shelf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	s := newTestStore()
	s.Save([]model.Link{
		model.NewLink("A", "a.com", nil, 0),
		model.NewLink("W", "w.com", model.Folder("Work"), 0),
	})

	l := Capture(s, "Captured", "https://captured.com")

	assert.Nil(t, l.Folder)
	assert.Equal(t, 1, l.Order)

	links := s.Load()
	require.Len(t, links, 3)
	requireContiguous(t, links)

	assert.True(t, Exists(s, "captured.com"))
	assert.False(t, Exists(s, "captured.com/"))
}

func TestCaptureEmptyStore(t *testing.T) {
	s := newTestStore()
	l := Capture(s, "First", "first.com")
	assert.Equal(t, 0, l.Order)
	assert.Len(t, s.Load(), 1)
}

func TestImport(t *testing.T) {
	m, s := newTestManager(t)
	existing := m.Add("A", "a.com", nil)
	m.Add("W", "w.com", model.Folder("Work"))

	imported := []model.Link{
		existing,
		model.NewLink("B", "b.com", nil, 0),
		model.NewLink("W2", "w2.com", model.Folder("WORK"), 0),
		model.NewLink("H", "h.com", model.Folder(""), 4),
	}

	result := m.Import(imported)
	assert.Equal(t, 3, result.Added)
	assert.Equal(t, 1, result.Skipped)

	links := m.Links()
	requireContiguous(t, links)
	assert.Equal(t, []string{"A", "B", "H"}, titles(bucket(links, nil)))
	assert.Equal(t, []string{"W", "W2"}, titles(bucket(links, model.Folder("Work"))))
	assert.Len(t, s.Load(), 5)
}
