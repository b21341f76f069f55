// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// rxivAPIBase is the bioRxiv/medRxiv details endpoint. Var for test
// substitution.
var rxivAPIBase = "https://api.biorxiv.org/details"

// rxivMaxPages bounds cursor pagination against a misbehaving API.
const rxivMaxPages = 20

// rxivSourceNames maps API server names to the source tag candidates carry.
var rxivSourceNames = map[string]string{
	"biorxiv": "bioRxiv",
	"medrxiv": "medRxiv",
}

// RxivSource fetches recent preprints from one bioRxiv-family server.
// The details API is date-ranged at day granularity, so the publication
// window is applied through the request's from-date.
type RxivSource struct {
	Server string // "biorxiv" or "medrxiv"
	Client *http.Client
	Log    zerolog.Logger
}

// Name returns the source identifier.
func (s *RxivSource) Name() string {
	if name, ok := rxivSourceNames[s.Server]; ok {
		return name
	}
	return s.Server
}

// rxivResponse is the details API response envelope.
type rxivResponse struct {
	Messages   []rxivMessage `json:"messages"`
	Collection []rxivPaper   `json:"collection"`
}

type rxivMessage struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Total  int    `json:"total"`
}

type rxivPaper struct {
	DOI      string `json:"doi"`
	Title    string `json:"title"`
	Authors  string `json:"authors"` // semicolon-separated
	Date     string `json:"date"`
	Version  string `json:"version"`
	Abstract string `json:"abstract"`
}

// Fetch walks the cursor-paginated details feed for the trailing window and
// returns one candidate per preprint. Preprints without a DOI cannot be
// identified or linked and are skipped.
func (s *RxivSource) Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.PaperCandidate, error) {
	now := timeNow().UTC()
	from := now.Add(-window(cfg)).Format("2006-01-02")
	to := now.Format("2006-01-02")

	var candidates []types.PaperCandidate
	cursor := 0

	for page := 0; page < rxivMaxPages; page++ {
		url := fmt.Sprintf("%s/%s/%s/%s/%d", rxivAPIBase, s.Server, from, to, cursor)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := s.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s API request: %w", s.Name(), err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%s API returned HTTP %d", s.Name(), resp.StatusCode)
		}

		var body rxivResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s response: %w", s.Name(), err)
		}

		for _, paper := range body.Collection {
			if paper.DOI == "" {
				s.Log.Warn().Str("source", s.Name()).Str("title", paper.Title).
					Msg("preprint has no DOI, dropping")
				continue
			}

			pageURL := fmt.Sprintf("https://www.%s.org/content/%s", s.Server, paper.DOI)
			version := paper.Version
			if version == "" {
				version = "1"
			}

			candidates = append(candidates, types.PaperCandidate{
				ID:       paper.DOI,
				URL:      pageURL,
				PDFURL:   fmt.Sprintf("%sv%s.full.pdf", pageURL, version),
				Title:    paper.Title,
				Abstract: paper.Abstract,
				Authors:  splitAuthors(paper.Authors),
				Source:   s.Name(),
			})
		}

		if len(body.Collection) == 0 {
			break
		}
		cursor += len(body.Collection)
		if len(body.Messages) > 0 && cursor >= body.Messages[0].Total {
			break
		}
	}

	return candidates, nil
}

// splitAuthors turns the API's "Last, F.; Last, F." author string into a list.
func splitAuthors(s string) []string {
	var authors []string
	for _, part := range strings.Split(s, ";") {
		if a := strings.TrimSpace(part); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}
