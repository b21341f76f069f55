// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch discovers newly published papers across academic source
// repositories. Each source implements the Source interface per the
// Strategy pattern; the Fetcher fans out one goroutine per source and
// aggregates whatever arrives, so one failing repository never costs the
// others their results.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// timeNow is the clock used to compute the publication window. Package-level
// var so tests can pin it.
var timeNow = time.Now

// DefaultWindow is the trailing publication window when the config leaves
// it unset: only papers published strictly after now−24h are kept.
const DefaultWindow = 24 * time.Hour

// defaultSources is the active source list when the config names none.
var defaultSources = []string{"arXiv", "bioRxiv", "chemRxiv"}

// rxivServers are the preprint-server mirrors covered by the "bioRxiv"
// source name. Each gets its own fetcher instance.
var rxivServers = []string{"biorxiv", "medrxiv"}

// Source fetches candidates from a single repository. Implementations are
// expected to contain their own transient failures where possible and
// return partial results; errors abort only that source's contribution.
type Source interface {
	Name() string
	Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.PaperCandidate, error)
}

// window returns the configured publication window with its default applied.
func window(cfg types.FetchConfig) time.Duration {
	if cfg.Window <= 0 {
		return DefaultWindow
	}
	return cfg.Window
}

// Fetcher aggregates candidates from the active sources.
type Fetcher struct {
	sources []Source
	cfg     types.FetchConfig
	log     zerolog.Logger
}

// New builds a Fetcher with one Source per active source name. Unknown
// names are an error so a typo in the config surfaces instead of silently
// shrinking the digest.
func New(cfg types.FetchConfig, log zerolog.Logger) (*Fetcher, error) {
	names := cfg.Sources
	if len(names) == 0 {
		names = defaultSources
	}

	client := httputil.NewClient(cfg.Timeout)
	log = log.With().Str("component", "fetch").Logger()

	var sources []Source
	for _, name := range names {
		switch name {
		case "arXiv":
			sources = append(sources, &ArxivSource{Client: client, Log: log})
		case "bioRxiv":
			for _, server := range rxivServers {
				sources = append(sources, &RxivSource{Server: server, Client: client, Log: log})
			}
		case "chemRxiv":
			sources = append(sources, &ChemrxivSource{Client: client, Log: log})
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}

	return &Fetcher{sources: sources, cfg: cfg, log: log}, nil
}

// FetchAll issues one fetch per source concurrently and returns the
// concatenation of their candidates. A failing source contributes zero
// candidates and a log line; it never aborts the batch. Cross-source order
// is not guaranteed, but each source's own candidates keep that source's
// natural order.
func (f *Fetcher) FetchAll(ctx context.Context) ([]types.PaperCandidate, error) {
	type sourceResult struct {
		candidates []types.PaperCandidate
		err        error
		name       string
	}

	ch := make(chan sourceResult, len(f.sources))
	var wg sync.WaitGroup

	for _, s := range f.sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			candidates, err := s.Fetch(ctx, f.cfg)
			ch <- sourceResult{candidates: candidates, err: err, name: s.Name()}
		}(s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.PaperCandidate
	for sr := range ch {
		if sr.err != nil {
			f.log.Error().Err(sr.err).Str("source", sr.name).Msg("source fetch failed")
			continue
		}
		f.log.Info().Str("source", sr.name).Int("candidates", len(sr.candidates)).
			Msg("fetched candidates")
		all = append(all, sr.candidates...)
	}

	f.log.Info().Int("total", len(all)).Msg("fetched candidates from all sources")
	return all, nil
}
