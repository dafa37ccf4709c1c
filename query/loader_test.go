package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQuery(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
}

func TestLoad_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	writeQuery(t, dir, "viewer.graphql", "\n\n  { viewer { id } }\n\n")

	l := NewLoader(dir)
	text, err := l.Load("viewer.graphql")
	require.NoError(t, err)
	assert.Equal(t, "{ viewer { id } }", text)
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeQuery(t, dir, "viewer.graphql", "  { viewer { id } }  \n")

	l := NewLoader(dir)
	first, err := l.Load("viewer.graphql")
	require.NoError(t, err)

	// Re-saving the trimmed text is a no-op.
	writeQuery(t, dir, "viewer.graphql", first)
	second, err := l.Load("viewer.graphql")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoad_Missing(t *testing.T) {
	l := NewLoader(t.TempDir())
	_, err := l.Load("nope.graphql")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope.graphql", nf.Name)
}

func TestList_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeQuery(t, dir, "b.graphql", "{ b }")
	writeQuery(t, dir, "a.graphql", "{ a }")
	writeQuery(t, dir, "notes.txt", "not a query")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.graphql"), 0o755))

	l := NewLoader(dir)
	names, err := l.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.graphql", "b.graphql"}, names)
}

func TestList_MissingDirIsEmptySuite(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "absent"))
	names, err := l.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}
