package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memWriter is an in-memory DocumentWriter for tests.
type memWriter struct {
	titles   []string
	contents []string
	preload  int
}

func (m *memWriter) AddDocument(ctx context.Context, title, content string) (int64, error) {
	m.titles = append(m.titles, title)
	m.contents = append(m.contents, content)
	return int64(len(m.titles)), nil
}

func (m *memWriter) CountDocuments(ctx context.Context) (int, error) {
	return m.preload + len(m.titles), nil
}

func TestLoadCorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	corpus := `
- title: "Leave"
  content: "Employees get 30 days annual leave"
- title: "Hours"
  content: "Standard work hours are 9 to 5"
`
	require.NoError(t, os.WriteFile(path, []byte(corpus), 0644))

	docs, err := LoadCorpusFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Leave", docs[0].Title)
	assert.Equal(t, "Standard work hours are 9 to 5", docs[1].Content)
}

func TestLoadCorpusFileRejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`[{title: "only title"}]`), 0644))

	_, err := LoadCorpusFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title and content are required")
}

func TestLoadCorpusFileMissing(t *testing.T) {
	_, err := LoadCorpusFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseHTML(t *testing.T) {
	page := `<html>
	<head><title>Annual Leave Policy</title><style>body { color: red }</style></head>
	<body>
		<h1>Annual Leave</h1>
		<p>Employees   get 30 days
		annual leave.</p>
		<script>console.log("ignored")</script>
	</body></html>`

	doc, err := ParseHTML(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Annual Leave Policy", doc.Title)
	assert.Contains(t, doc.Content, "Employees get 30 days annual leave.")
	assert.NotContains(t, doc.Content, "console.log")
	assert.NotContains(t, doc.Content, "color: red")
}

func TestParseHTMLFallsBackToH1(t *testing.T) {
	page := `<html><body><h1>Sick Leave</h1><p>15 days with a medical report.</p></body></html>`

	doc, err := ParseHTML(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Sick Leave", doc.Title)
}

func TestParseHTMLEmptyPage(t *testing.T) {
	_, err := ParseHTML(strings.NewReader("<html><body></body></html>"))
	require.Error(t, err)
}

func TestSeed(t *testing.T) {
	w := &memWriter{}
	n, err := Seed(context.Background(), w, DefaultCorpus(), false)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCorpus()), n)
	assert.Len(t, w.titles, n)
}

func TestSeedSkipsNonEmptyCorpus(t *testing.T) {
	w := &memWriter{preload: 3}
	n, err := Seed(context.Background(), w, DefaultCorpus(), false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, w.titles)
}

func TestSeedForce(t *testing.T) {
	w := &memWriter{preload: 3}
	n, err := Seed(context.Background(), w, DefaultCorpus()[:2], true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
