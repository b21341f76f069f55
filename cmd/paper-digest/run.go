// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/analyze"
	"github.com/pdiddy/paper-digest/internal/archive"
	"github.com/pdiddy/paper-digest/internal/cache"
	"github.com/pdiddy/paper-digest/internal/fetch"
	"github.com/pdiddy/paper-digest/internal/filter"
	"github.com/pdiddy/paper-digest/internal/llm"
	"github.com/pdiddy/paper-digest/internal/logging"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	defaultModel       = "Qwen2.5-72B-Instruct"
	defaultUserAgent   = "paper-digest/0.1"
	defaultLLMTimeout  = 120 * time.Second
	defaultHTTPTimeout = 60 * time.Second

	// filterTemperature keeps the relevance verdict deterministic; the
	// analysis prompt gets a little headroom for summarization.
	filterTemperature   = 0.0
	analysisTemperature = 0.2
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full daily digest pipeline",
	Long: `Run executes one digest cycle: fetch the last day of papers from all
configured sources, filter them for relevance, analyze the relevant ones,
and write the date-stamped Markdown report. Papers seen in earlier runs
are skipped via the dedup cache.`,
	RunE: runDigest,
}

func init() {
	runCmd.Flags().String("output-dir", "", "directory for the generated report (default \".\")")
	runCmd.Flags().String("cache-path", "", "dedup cache file (default \"processed_papers_cache.json\")")
	runCmd.Flags().String("archive-dir", "", "archive directory for analysis history (empty disables archiving)")
	runCmd.Flags().StringSlice("sources", nil, "sources to fetch: arXiv, bioRxiv, chemRxiv (default all)")
	runCmd.Flags().Duration("window", 0, "publication window (default 24h)")
	runCmd.Flags().String("model", "", "model identifier for filtering and analysis")

	rootCmd.AddCommand(runCmd)
}

// loadConfig assembles the pipeline configuration from config file, environment,
// and flags, with flags taking precedence.
func loadConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	viper.SetDefault("fetch.timeout", defaultHTTPTimeout)
	viper.SetDefault("fetch.window", fetch.DefaultWindow)
	viper.SetDefault("fetch.max_results", 100)
	viper.SetDefault("llm.model", defaultModel)
	viper.SetDefault("llm.timeout", defaultLLMTimeout)
	viper.SetDefault("analysis.timeout", defaultHTTPTimeout)
	viper.SetDefault("analysis.max_text_chars", analyze.DefaultMaxTextChars)
	viper.SetDefault("report.output_dir", ".")
	viper.SetDefault("cache.path", cache.DefaultPath)

	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("cache-path"); v != "" {
		cfg.Cache.Path = v
	}
	if v, _ := cmd.Flags().GetString("archive-dir"); v != "" {
		cfg.Archive.Dir = v
	}
	if v, _ := cmd.Flags().GetStringSlice("sources"); len(v) > 0 {
		cfg.Fetch.Sources = v
	}
	if v, _ := cmd.Flags().GetDuration("window"); v > 0 {
		cfg.Fetch.Window = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.LLM.Model = v
	}

	cfg.Fetch.UserAgent = defaultUserAgent
	cfg.Analysis.UserAgent = defaultUserAgent
	cfg.LLM.APIKey = secretDefault("openai-api-key", cfg.LLM.APIKey)
	cfg.LLM.BaseURL = secretDefault("openai-base-url", cfg.LLM.BaseURL)

	return cfg, nil
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logFormat, _ := rootCmd.PersistentFlags().GetString("log-format")
	log := logging.New(logging.Config{Level: logLevel, Format: logFormat})

	fetcher, err := fetch.New(cfg.Fetch, log)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Fetcher:   fetcher,
		Filter:    filter.New(llm.New(cfg.LLM, filterTemperature), log),
		Analyzer:  analyze.New(llm.New(cfg.LLM, analysisTemperature), cfg.Analysis, log),
		Cache:     cache.New(cfg.Cache.Path, log),
		OutputDir: cfg.Report.OutputDir,
		Log:       log,
	}

	if cfg.Archive.Dir != "" {
		store, err := archive.Open(cfg.Archive.Dir, log)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer store.Close()
		p.Recorder = store
	}

	st := p.Run(context.Background())
	if st.Failed() {
		return fmt.Errorf("an error occurred: %s", st.Err)
	}

	fmt.Printf("✅ Daily report successfully generated and saved to '%s'.\n", st.ReportPath)
	return nil
}
