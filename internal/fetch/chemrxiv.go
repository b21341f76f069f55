// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// chemrxivAPIBase is the ChemRxiv public API items endpoint. Var for test
// substitution.
var chemrxivAPIBase = "https://chemrxiv.org/engage/chemrxiv/public-api/v1/items"

const (
	chemrxivPageSize = 50
	chemrxivMaxPages = 20
)

// ChemrxivSource fetches recent items from the ChemRxiv public API,
// following limit/skip pagination until the feed is exhausted.
type ChemrxivSource struct {
	Client *http.Client
	Log    zerolog.Logger
}

// Name returns the source identifier.
func (s *ChemrxivSource) Name() string { return "chemRxiv" }

// chemrxivResponse is the items API response envelope.
type chemrxivResponse struct {
	TotalCount int           `json:"totalCount"`
	ItemHits   []chemrxivHit `json:"itemHits"`
}

type chemrxivHit struct {
	Item chemrxivItem `json:"item"`
}

type chemrxivItem struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	PublishedDate string           `json:"publishedDate"`
	Authors       []chemrxivAuthor `json:"authors"`
	Asset         chemrxivAsset    `json:"asset"`
}

type chemrxivAuthor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type chemrxivAsset struct {
	Original chemrxivFile `json:"original"`
}

type chemrxivFile struct {
	URL string `json:"url"`
}

// Fetch pages through items published since the window start and keeps
// those published strictly after now−window. The API response carries the
// PDF asset URL directly; items without one are dropped with a warning.
func (s *ChemrxivSource) Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.PaperCandidate, error) {
	cutoff := timeNow().UTC().Add(-window(cfg))
	searchFrom := cutoff.Format("2006-01-02")

	var items []chemrxivItem
	for page := 0; page < chemrxivMaxPages; page++ {
		url := fmt.Sprintf("%s?limit=%d&skip=%d&searchDateFrom=%s",
			chemrxivAPIBase, chemrxivPageSize, page*chemrxivPageSize, searchFrom)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := s.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("ChemRxiv API request: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("ChemRxiv API returned HTTP %d", resp.StatusCode)
		}

		var body chemrxivResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing ChemRxiv response: %w", err)
		}

		if len(body.ItemHits) == 0 {
			break
		}
		for _, hit := range body.ItemHits {
			items = append(items, hit.Item)
		}
	}

	var candidates []types.PaperCandidate
	for _, item := range items {
		if published, err := time.Parse(time.RFC3339, item.PublishedDate); err == nil {
			if !published.UTC().After(cutoff) {
				continue
			}
		}

		if item.Asset.Original.URL == "" {
			s.Log.Warn().Str("title", item.Title).Msg("no PDF asset for ChemRxiv item, dropping")
			continue
		}

		var authors []string
		for _, a := range item.Authors {
			name := strings.TrimSpace(a.FirstName + " " + a.LastName)
			if name != "" {
				authors = append(authors, name)
			}
		}

		candidates = append(candidates, types.PaperCandidate{
			ID:       item.ID,
			URL:      "https://chemrxiv.org/engage/chemrxiv/article-details/" + item.ID,
			PDFURL:   item.Asset.Original.URL,
			Title:    item.Title,
			Abstract: item.Abstract,
			Authors:  authors,
			Source:   "chemRxiv",
		})
	}

	return candidates, nil
}
