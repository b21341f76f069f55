// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze runs the full-text analysis of relevant papers: document
// download, text extraction, resource-link mining, and structured model
// extraction. It is the most failure-prone stage, so every step degrades
// per-paper: one paper's failure costs only that paper.
package analyze

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// DefaultMaxTextChars caps the extracted text passed to the model when the
// config leaves the limit unset.
const DefaultMaxTextChars = 30000

// whitespaceRuns collapses all whitespace runs to single spaces so page
// breaks and column layouts do not fragment sentences.
var whitespaceRuns = regexp.MustCompile(`\s+`)

// LLM is the chat capability the analyzer needs. *llm.Client satisfies it.
type LLM interface {
	Complete(ctx context.Context, system, user string, out any) error
}

// qaPair is one question/answer entry in the structured model response.
type qaPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// analysisResult is the structured model response for one paper.
type analysisResult struct {
	AnalysisQA []qaPair `json:"analysis_qa"`
	Keywords   []string `json:"keywords"`
	Summary    string   `json:"summary"`
}

// Analyzer downloads, extracts, and analyzes papers.
type Analyzer struct {
	llm    LLM
	client *http.Client
	cfg    types.AnalysisConfig
	log    zerolog.Logger

	// extractText is swappable in tests so analysis flow can be exercised
	// without real PDF bytes.
	extractText func(data []byte) (string, error)
}

// New returns an Analyzer backed by the given model client.
func New(llm LLM, cfg types.AnalysisConfig, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		llm:         llm,
		client:      httputil.NewClient(cfg.Timeout),
		cfg:         cfg,
		log:         log.With().Str("component", "analyze").Logger(),
		extractText: pdfText,
	}
}

// Analyze runs the full analysis of one paper. It returns an error for any
// failed step; there is no partial result.
func (a *Analyzer) Analyze(ctx context.Context, paper types.PaperCandidate) (*types.AnalyzedPaper, error) {
	a.log.Info().Str("id", paper.ID).Str("title", paper.Title).Msg("starting analysis")

	data, err := a.downloadPDF(ctx, paper.PDFURL)
	if err != nil {
		return nil, fmt.Errorf("downloading PDF: %w", err)
	}

	text, err := a.extractText(data)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}
	if text == "" {
		return nil, fmt.Errorf("extracted text is empty")
	}

	links := ExtractResourceLinks(text)

	maxChars := a.cfg.MaxTextChars
	if maxChars <= 0 {
		maxChars = DefaultMaxTextChars
	}
	if len(text) > maxChars {
		a.log.Warn().Str("id", paper.ID).Int("chars", len(text)).Int("max", maxChars).
			Msg("paper text too long, truncating")
		text = text[:maxChars]
	}

	user, err := renderAnalysisPrompt(text)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	var result analysisResult
	if err := a.llm.Complete(ctx, analysisSystemPrompt, user, &result); err != nil {
		return nil, fmt.Errorf("model analysis: %w", err)
	}

	qa := make(map[string]string, len(result.AnalysisQA))
	for _, pair := range result.AnalysisQA {
		qa[pair.Question] = pair.Answer
	}

	a.log.Info().Str("id", paper.ID).Int("answers", len(qa)).Msg("analysis complete")
	return &types.AnalyzedPaper{
		Metadata:      paper,
		Keywords:      result.Keywords,
		AnalysisQA:    qa,
		ResourceLinks: links,
		Summary:       result.Summary,
	}, nil
}

// AnalyzeAll analyzes all papers concurrently, one goroutine per paper,
// and returns the successes. Failures are logged and discarded; output
// order is not guaranteed relative to input.
func (a *Analyzer) AnalyzeAll(ctx context.Context, papers []types.PaperCandidate) []types.AnalyzedPaper {
	type analysisOutcome struct {
		paper *types.AnalyzedPaper
		id    string
		err   error
	}

	ch := make(chan analysisOutcome, len(papers))
	var wg sync.WaitGroup

	for _, paper := range papers {
		wg.Add(1)
		go func(paper types.PaperCandidate) {
			defer wg.Done()
			analyzed, err := a.Analyze(ctx, paper)
			ch <- analysisOutcome{paper: analyzed, id: paper.ID, err: err}
		}(paper)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var analyzed []types.AnalyzedPaper
	for out := range ch {
		if out.err != nil {
			a.log.Error().Err(out.err).Str("id", out.id).Msg("paper analysis failed")
			continue
		}
		analyzed = append(analyzed, *out.paper)
	}

	a.log.Info().Int("analyzed", len(analyzed)).Int("attempted", len(papers)).
		Msg("batch analysis done")
	return analyzed
}

// downloadPDF fetches the document bytes with the stage's bounded timeout.
// Redirects are followed with the client's default policy.
func (a *Analyzer) downloadPDF(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}

// pdfText extracts plain text from PDF bytes and collapses whitespace runs
// to single spaces.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Broken pages lose their own text only.
			continue
		}
		b.WriteString(text)
		b.WriteString(" ")
	}

	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(b.String(), " ")), nil
}
