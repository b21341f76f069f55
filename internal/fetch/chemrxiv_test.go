// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func TestChemrxivFetch(t *testing.T) {
	fixedNow(t, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	firstPage := `{
		"totalCount": 3,
		"itemHits": [
			{"item": {
				"id": "item-aaa",
				"title": "Catalyst Screening with GNNs",
				"abstract": "We screen catalysts.",
				"publishedDate": "2026-08-29T06:00:00Z",
				"authors": [{"firstName": "Marie", "lastName": "Curie"}, {"firstName": "", "lastName": ""}],
				"asset": {"original": {"url": "https://chemrxiv.org/assets/item-aaa.pdf"}}
			}},
			{"item": {
				"id": "item-bbb",
				"title": "No Asset",
				"publishedDate": "2026-08-29T07:00:00Z",
				"authors": [],
				"asset": {"original": {"url": ""}}
			}},
			{"item": {
				"id": "item-ccc",
				"title": "Too Old",
				"publishedDate": "2026-08-27T06:00:00Z",
				"authors": [],
				"asset": {"original": {"url": "https://chemrxiv.org/assets/item-ccc.pdf"}}
			}}
		]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("searchDateFrom"); got != "2026-08-28" {
			t.Errorf("searchDateFrom = %q", got)
		}
		if q.Get("skip") == "0" {
			fmt.Fprint(w, firstPage)
			return
		}
		fmt.Fprint(w, `{"totalCount": 3, "itemHits": []}`)
	}))
	defer srv.Close()

	orig := chemrxivAPIBase
	chemrxivAPIBase = srv.URL
	defer func() { chemrxivAPIBase = orig }()

	src := &ChemrxivSource{Client: srv.Client(), Log: zerolog.Nop()}
	got, err := src.Fetch(context.Background(), types.FetchConfig{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (asset-less and stale items dropped)", len(got))
	}
	c := got[0]
	if c.ID != "item-aaa" {
		t.Errorf("ID = %q", c.ID)
	}
	if c.URL != "https://chemrxiv.org/engage/chemrxiv/article-details/item-aaa" {
		t.Errorf("URL = %q", c.URL)
	}
	if c.PDFURL != "https://chemrxiv.org/assets/item-aaa.pdf" {
		t.Errorf("PDFURL = %q", c.PDFURL)
	}
	if len(c.Authors) != 1 || c.Authors[0] != "Marie Curie" {
		t.Errorf("Authors = %v", c.Authors)
	}
	if c.Source != "chemRxiv" {
		t.Errorf("Source = %q", c.Source)
	}
}

func TestChemrxivFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	orig := chemrxivAPIBase
	chemrxivAPIBase = srv.URL
	defer func() { chemrxivAPIBase = orig }()

	src := &ChemrxivSource{Client: srv.Client(), Log: zerolog.Nop()}
	if _, err := src.Fetch(context.Background(), types.FetchConfig{}); err == nil {
		t.Fatal("Fetch() error = nil, want error")
	}
}
