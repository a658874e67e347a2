package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namespaces(t *testing.T) map[string]Namespace {
	t.Helper()

	sqlite, err := OpenSQLiteNamespace(filepath.Join(t.TempDir(), "shelf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Namespace{
		"file":   NewFileNamespace(t.TempDir()),
		"sqlite": sqlite,
		"memory": NewMemoryNamespace(),
	}
}

func TestNamespaceContract(t *testing.T) {
	for name, ns := range namespaces(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := ns.Get(LinksKey)
			require.NoError(t, err)
			assert.False(t, ok, "unset key reports not ok")

			require.NoError(t, ns.Set(LinksKey, []byte(`[1]`)))
			got, ok, err := ns.Get(LinksKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[1]`, string(got))

			require.NoError(t, ns.Set(LinksKey, []byte(`[2,3]`)))
			got, _, err = ns.Get(LinksKey)
			require.NoError(t, err)
			assert.Equal(t, `[2,3]`, string(got), "set replaces the whole value")

			require.NoError(t, ns.Set(HasLaunchedKey, []byte(`true`)))
			got, _, err = ns.Get(LinksKey)
			require.NoError(t, err)
			assert.Equal(t, `[2,3]`, string(got), "keys are independent")
		})
	}
}

func TestFileNamespaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	ns := NewFileNamespace(dir)

	require.NoError(t, ns.Set(LinksKey, []byte("[]")))
	require.NoError(t, ns.Set(LinksKey, []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Links.json", entries[0].Name())
}

func TestSQLiteNamespaceSharedBetweenHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.db")

	a, err := OpenSQLiteNamespace(path)
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenSQLiteNamespace(path)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set(LinksKey, []byte(`["from a"]`)))

	got, ok, err := b.Get(LinksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["from a"]`, string(got))
}

func TestMemoryNamespaceCopiesValues(t *testing.T) {
	ns := NewMemoryNamespace()
	buf := []byte("abc")
	require.NoError(t, ns.Set("k", buf))
	buf[0] = 'x'

	got, _, _ := ns.Get("k")
	assert.Equal(t, "abc", string(got))
}
