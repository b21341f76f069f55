// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivCategories is the fixed category union queried for new submissions.
var arxivCategories = []string{"cs.AI", "cs.LG", "cs.CL", "cs.CV", "cs.NE", "stat.ML"}

const arxivDefaultMaxResults = 100

// ArxivSource queries the arXiv API for recent submissions across the
// fixed category set.
type ArxivSource struct {
	Client *http.Client
	Log    zerolog.Logger
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arXiv" }

// Fetch issues one category-union query sorted by submission date and keeps
// entries published strictly after now−window. Entries without a PDF link
// are dropped with a warning.
func (s *ArxivSource) Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.PaperCandidate, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = arxivDefaultMaxResults
	}

	terms := make([]string, len(arxivCategories))
	for i, cat := range arxivCategories {
		terms[i] = "cat:" + cat
	}
	query := strings.Join(terms, "+OR+")

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, query, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	cutoff := timeNow().UTC().Add(-window(cfg))

	var candidates []types.PaperCandidate
	for _, entry := range feed.Entries {
		published, err := time.Parse(time.RFC3339, entry.Published)
		if err != nil || !published.UTC().After(cutoff) {
			continue
		}

		pdfURL := entry.pdfLink()
		if pdfURL == "" {
			s.Log.Warn().Str("title", entry.Title).Msg("no PDF link for arXiv paper, dropping")
			continue
		}

		id := entry.ID[strings.LastIndex(entry.ID, "/")+1:]
		if id == "" {
			continue
		}

		var authors []string
		for _, a := range entry.Authors {
			authors = append(authors, strings.TrimSpace(a.Name))
		}

		candidates = append(candidates, types.PaperCandidate{
			ID:       id,
			URL:      entry.ID,
			PDFURL:   pdfURL,
			Title:    strings.TrimSpace(entry.Title),
			Abstract: strings.TrimSpace(entry.Summary),
			Authors:  authors,
			Source:   "arXiv",
		})
	}

	return candidates, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// pdfLink returns the entry's direct PDF link, falling back to rewriting
// the abstract URL when the feed omits the titled link.
func (e arxivEntry) pdfLink() string {
	for _, l := range e.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	if strings.Contains(e.ID, "/abs/") {
		return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}
	return ""
}
