// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// fakeLLM returns a canned analysis result and records the last user prompt.
type fakeLLM struct {
	mu       sync.Mutex
	result   analysisResult
	err      error
	lastUser string
}

func (m *fakeLLM) Complete(_ context.Context, _ string, user string, out any) error {
	m.mu.Lock()
	m.lastUser = user
	m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data, _ := json.Marshal(m.result)
	return json.Unmarshal(data, out)
}

func testResult() analysisResult {
	return analysisResult{
		AnalysisQA: []qaPair{
			{Question: Questions[0], Answer: "It models protein dynamics."},
			{Question: Questions[1], Answer: "A new equivariant architecture."},
		},
		Keywords: []string{"proteins", "equivariance"},
		Summary:  "The paper models protein dynamics with an equivariant network.",
	}
}

// pdfServer serves fake document bytes for any path.
func pdfServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4 fake body")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testAnalyzer(llm LLM, text string) *Analyzer {
	a := New(llm, types.AnalysisConfig{}, zerolog.Nop())
	a.extractText = func([]byte) (string, error) { return text, nil }
	return a
}

func candidate(id, pdfURL string) types.PaperCandidate {
	return types.PaperCandidate{ID: id, Title: "Paper " + id, PDFURL: pdfURL, Source: "arXiv"}
}

func TestAnalyzeAssemblesPaper(t *testing.T) {
	srv := pdfServer(t)
	llm := &fakeLLM{result: testResult()}
	text := "Intro text. Code at https://github.com/lab/model and " +
		"weights on https://huggingface.co/lab plus https://lab.github.io/model page."
	a := testAnalyzer(llm, text)

	got, err := a.Analyze(context.Background(), candidate("p1", srv.URL+"/p1.pdf"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if got.Metadata.ID != "p1" {
		t.Errorf("Metadata.ID = %q", got.Metadata.ID)
	}
	if got.AnalysisQA[Questions[0]] != "It models protein dynamics." {
		t.Errorf("AnalysisQA[q1] = %q", got.AnalysisQA[Questions[0]])
	}
	if len(got.Keywords) != 2 {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if got.ResourceLinks.GitHub != "https://github.com/lab/model" {
		t.Errorf("GitHub = %q", got.ResourceLinks.GitHub)
	}
	if got.ResourceLinks.HuggingFace != "https://huggingface.co/lab" {
		t.Errorf("HuggingFace = %q", got.ResourceLinks.HuggingFace)
	}
	if got.ResourceLinks.ProjectPage != "https://lab.github.io/model" {
		t.Errorf("ProjectPage = %q", got.ResourceLinks.ProjectPage)
	}
	if got.Summary == "" {
		t.Error("Summary is empty")
	}
}

func TestAnalyzeDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := testAnalyzer(&fakeLLM{result: testResult()}, "text")
	if _, err := a.Analyze(context.Background(), candidate("p1", srv.URL+"/gone.pdf")); err == nil {
		t.Fatal("Analyze() error = nil, want download error")
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	srv := pdfServer(t)
	a := New(&fakeLLM{result: testResult()}, types.AnalysisConfig{}, zerolog.Nop())
	a.extractText = func([]byte) (string, error) { return "", fmt.Errorf("garbled xref") }

	if _, err := a.Analyze(context.Background(), candidate("p1", srv.URL+"/p1.pdf")); err == nil {
		t.Fatal("Analyze() error = nil, want extraction error")
	}
}

func TestAnalyzeModelFailure(t *testing.T) {
	srv := pdfServer(t)
	a := testAnalyzer(&fakeLLM{err: fmt.Errorf("backend timeout")}, "some text")

	if _, err := a.Analyze(context.Background(), candidate("p1", srv.URL+"/p1.pdf")); err == nil {
		t.Fatal("Analyze() error = nil, want model error")
	}
}

func TestAnalyzeTruncatesLongText(t *testing.T) {
	srv := pdfServer(t)
	llm := &fakeLLM{result: testResult()}

	text := strings.Repeat("a", 90) + " TRUNCATION_SENTINEL"
	a := New(llm, types.AnalysisConfig{MaxTextChars: 50}, zerolog.Nop())
	a.extractText = func([]byte) (string, error) { return text, nil }

	if _, err := a.Analyze(context.Background(), candidate("p1", srv.URL+"/p1.pdf")); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if strings.Contains(llm.lastUser, "TRUNCATION_SENTINEL") {
		t.Error("prompt contains text past the truncation cap")
	}
	if !strings.Contains(llm.lastUser, strings.Repeat("a", 50)) {
		t.Error("prompt is missing the capped prefix")
	}
}

func TestAnalyzeAllCollectsOnlySuccesses(t *testing.T) {
	okSrv := pdfServer(t)
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer badSrv.Close()

	a := testAnalyzer(&fakeLLM{result: testResult()}, "text https://github.com/a/b")
	papers := []types.PaperCandidate{
		candidate("ok1", okSrv.URL+"/1.pdf"),
		candidate("bad", badSrv.URL+"/2.pdf"),
		candidate("ok2", okSrv.URL+"/3.pdf"),
	}

	got := a.AnalyzeAll(context.Background(), papers)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	inputIDs := map[string]bool{"ok1": true, "ok2": true}
	for _, p := range got {
		if !inputIDs[p.Metadata.ID] {
			t.Errorf("unexpected id %q in output", p.Metadata.ID)
		}
	}
}

func TestAnalyzeAllEmptyInput(t *testing.T) {
	a := testAnalyzer(&fakeLLM{}, "text")
	if got := a.AnalyzeAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
