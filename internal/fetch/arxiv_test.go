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

// fixedNow pins the fetch clock for the duration of a test.
func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

const arxivTestFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2608.01001v1</id>
    <title> Neural Surrogates for Fluid Dynamics </title>
    <summary> We apply learned surrogates to CFD. </summary>
    <published>2026-08-28T12:00:00Z</published>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2608.01001v1" rel="alternate"/>
    <link href="http://arxiv.org/pdf/2608.01001v1" rel="related" title="pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2607.09999v2</id>
    <title>Old Paper</title>
    <summary>Published outside the window.</summary>
    <published>2026-08-20T12:00:00Z</published>
    <author><name>Somebody Else</name></author>
    <link href="http://arxiv.org/pdf/2607.09999v2" rel="related" title="pdf"/>
  </entry>
  <entry>
    <id></id>
    <title>Recent But Broken</title>
    <summary>No id, no links.</summary>
    <published>2026-08-28T18:00:00Z</published>
  </entry>
</feed>`

func TestArxivFetch(t *testing.T) {
	fixedNow(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("search_query"); got != "cat:cs.AI OR cat:cs.LG OR cat:cs.CL OR cat:cs.CV OR cat:cs.NE OR cat:stat.ML" {
			t.Errorf("search_query = %q", got)
		}
		if got := q.Get("sortBy"); got != "submittedDate" {
			t.Errorf("sortBy = %q", got)
		}
		fmt.Fprint(w, arxivTestFeed)
	}))
	defer srv.Close()

	orig := arxivAPIBase
	arxivAPIBase = srv.URL
	defer func() { arxivAPIBase = orig }()

	src := &ArxivSource{Client: srv.Client(), Log: zerolog.Nop()}
	got, err := src.Fetch(context.Background(), types.FetchConfig{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (window and broken entries excluded)", len(got))
	}
	c := got[0]
	if c.ID != "2608.01001v1" {
		t.Errorf("ID = %q", c.ID)
	}
	if c.PDFURL != "http://arxiv.org/pdf/2608.01001v1" {
		t.Errorf("PDFURL = %q", c.PDFURL)
	}
	if c.Title != "Neural Surrogates for Fluid Dynamics" {
		t.Errorf("Title = %q, want trimmed", c.Title)
	}
	if len(c.Authors) != 2 || c.Authors[0] != "Ada Lovelace" {
		t.Errorf("Authors = %v", c.Authors)
	}
	if c.Source != "arXiv" {
		t.Errorf("Source = %q", c.Source)
	}
}

func TestArxivFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	orig := arxivAPIBase
	arxivAPIBase = srv.URL
	defer func() { arxivAPIBase = orig }()

	src := &ArxivSource{Client: srv.Client(), Log: zerolog.Nop()}
	if _, err := src.Fetch(context.Background(), types.FetchConfig{}); err == nil {
		t.Fatal("Fetch() error = nil, want error")
	}
}

func TestArxivPDFLinkFallback(t *testing.T) {
	e := arxivEntry{ID: "http://arxiv.org/abs/2608.02002v1"}
	if got := e.pdfLink(); got != "http://arxiv.org/pdf/2608.02002v1" {
		t.Errorf("pdfLink() = %q", got)
	}
}
