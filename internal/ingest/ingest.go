// Package ingest loads policy documents into the store from YAML corpus
// files or exported HTML policy pages.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

// SeedDocument is one policy document to load.
type SeedDocument struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// DocumentWriter is the subset of the store ingestion needs.
type DocumentWriter interface {
	AddDocument(ctx context.Context, title, content string) (int64, error)
	CountDocuments(ctx context.Context) (int, error)
}

// LoadCorpusFile reads a YAML corpus file: a list of {title, content}
// entries.
func LoadCorpusFile(path string) ([]SeedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var docs []SeedDocument
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	for i, d := range docs {
		if d.Title == "" || d.Content == "" {
			return nil, fmt.Errorf("corpus entry %d: title and content are required", i+1)
		}
	}
	return docs, nil
}

// ParseHTML extracts a policy document from an exported HTML page. The
// title comes from the <title> element, falling back to the first <h1>;
// the content is the visible body text with scripts and styles removed.
func ParseHTML(r io.Reader) (SeedDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return SeedDocument{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find("script, style").Remove()
	content := collapseWhitespace(doc.Find("body").Text())

	if title == "" || content == "" {
		return SeedDocument{}, fmt.Errorf("html page has no usable title or body text")
	}
	return SeedDocument{Title: title, Content: content}, nil
}

// ImportHTMLFile reads one HTML file as a policy document.
func ImportHTMLFile(path string) (SeedDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedDocument{}, fmt.Errorf("open html file: %w", err)
	}
	defer f.Close()
	return ParseHTML(f)
}

// Seed inserts the documents into the store. Unless force is set, a
// non-empty corpus is left alone so repeated startups do not duplicate the
// seed data. Returns the number of documents inserted.
func Seed(ctx context.Context, w DocumentWriter, docs []SeedDocument, force bool) (int, error) {
	if !force {
		n, err := w.CountDocuments(ctx)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			log.Printf("[Ingest] Corpus already has %d documents, skipping seed", n)
			return 0, nil
		}
	}

	inserted := 0
	for _, d := range docs {
		if _, err := w.AddDocument(ctx, d.Title, d.Content); err != nil {
			return inserted, fmt.Errorf("seed %q: %w", d.Title, err)
		}
		inserted++
	}
	log.Printf("[Ingest] Seeded %d policy documents", inserted)
	return inserted, nil
}

// collapseWhitespace normalizes all whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
