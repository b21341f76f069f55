// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the digest stages into a four-node sequential
// state machine: fetch → filter → analyze → synthesize. Every node threads
// one State value; the first node failure sets the error marker and all
// later nodes pass the state through untouched.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/internal/report"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// State is the record threaded through the pipeline. Nodes consume a State
// and return a new one; once Err is set no node mutates anything again.
type State struct {
	Candidates []types.PaperCandidate
	Relevant   []types.PaperCandidate
	Analyzed   []types.AnalyzedPaper
	Report     string
	ReportPath string

	// Err is the terminal error marker. Non-empty means the run failed
	// and no report is guaranteed.
	Err string
}

// Failed reports whether the error marker is set.
func (s State) Failed() bool { return s.Err != "" }

// Fetcher aggregates candidates across sources.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]types.PaperCandidate, error)
}

// Filter keeps only candidates classified relevant, preserving input order.
type Filter interface {
	FilterPapers(ctx context.Context, papers []types.PaperCandidate) []types.PaperCandidate
}

// Analyzer runs full-text analysis and returns the successes.
type Analyzer interface {
	AnalyzeAll(ctx context.Context, papers []types.PaperCandidate) []types.AnalyzedPaper
}

// DedupCache is the durable processed-identifier set.
type DedupCache interface {
	Load() map[string]struct{}
	Save(newIDs map[string]struct{}) error
}

// Recorder archives analyzed papers; optional.
type Recorder interface {
	Record(ctx context.Context, papers []types.AnalyzedPaper, analyzedAt time.Time) error
}

// Pipeline runs one digest cycle.
type Pipeline struct {
	Fetcher  Fetcher
	Filter   Filter
	Analyzer Analyzer
	Cache    DedupCache

	// Recorder may be nil when archiving is disabled.
	Recorder Recorder

	// OutputDir is where the report file lands (default current directory).
	OutputDir string

	Log zerolog.Logger

	// Now is the run clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run executes the four nodes in sequence and returns the terminal state.
func (p *Pipeline) Run(ctx context.Context) State {
	st := State{}
	st = p.fetchNode(ctx, st)
	st = p.filterNode(ctx, st)
	st = p.analyzeNode(ctx, st)
	st = p.synthesizeNode(ctx, st)

	if st.Failed() {
		p.Log.Error().Str("error", st.Err).Msg("pipeline failed")
	} else {
		p.Log.Info().Str("report", st.ReportPath).Msg("pipeline succeeded")
	}
	return st
}

// fetchNode gathers candidates from all sources.
func (p *Pipeline) fetchNode(ctx context.Context, st State) State {
	p.Log.Info().Msg("running fetch node")

	candidates, err := p.Fetcher.FetchAll(ctx)
	if err != nil {
		p.Log.Error().Err(err).Msg("fetch node failed")
		st.Err = "failed to fetch papers"
		return st
	}

	st.Candidates = candidates
	return st
}

// filterNode classifies candidates for relevance, then removes any whose
// id is already in the dedup cache.
func (p *Pipeline) filterNode(ctx context.Context, st State) State {
	if st.Failed() {
		return st
	}
	p.Log.Info().Msg("running filter node")

	relevant := p.Filter.FilterPapers(ctx, st.Candidates)

	processed := p.Cache.Load()
	if len(processed) > 0 {
		kept := relevant[:0:0]
		for _, paper := range relevant {
			if _, ok := processed[paper.ID]; ok {
				continue
			}
			kept = append(kept, paper)
		}
		if skipped := len(relevant) - len(kept); skipped > 0 {
			p.Log.Info().Int("skipped", skipped).Msg("dropped papers already in cache")
		}
		relevant = kept
	}

	st.Relevant = relevant
	return st
}

// analyzeNode runs the full-text analysis batch, then merges the
// successful ids into the dedup cache and archives the results. It is a
// passthrough when there is nothing to analyze.
func (p *Pipeline) analyzeNode(ctx context.Context, st State) State {
	if st.Failed() || len(st.Relevant) == 0 {
		return st
	}
	p.Log.Info().Int("papers", len(st.Relevant)).Msg("running analyze node")

	analyzed := p.Analyzer.AnalyzeAll(ctx, st.Relevant)

	ids := make(map[string]struct{}, len(analyzed))
	for _, paper := range analyzed {
		ids[paper.Metadata.ID] = struct{}{}
	}
	if len(ids) > 0 {
		if err := p.Cache.Save(ids); err != nil {
			// Losing the cache write costs dedup next run, not this one.
			p.Log.Error().Err(err).Msg("could not update dedup cache")
		}
		if p.Recorder != nil {
			if err := p.Recorder.Record(ctx, analyzed, p.now()); err != nil {
				p.Log.Error().Err(err).Msg("could not archive analyzed papers")
			}
		}
	}

	st.Analyzed = analyzed
	return st
}

// synthesizeNode renders the digest and writes it under a date-stamped name.
func (p *Pipeline) synthesizeNode(_ context.Context, st State) State {
	if st.Failed() {
		return st
	}
	p.Log.Info().Msg("running synthesize node")

	date := p.now()
	document := report.Synthesize(st.Analyzed, date)

	path, err := report.Save(document, p.OutputDir, report.Filename(date))
	if err != nil {
		p.Log.Error().Err(err).Msg("synthesize node failed")
		st.Err = "failed to synthesize and save the report"
		return st
	}

	st.Report = document
	st.ReportPath = path
	return st
}
