// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LLMConfig holds settings for the OpenAI-compatible chat completions API
// used by the relevance filter and the paper analyzer.
type LLMConfig struct {
	// Model is the model identifier (e.g. "Qwen2.5-72B-Instruct").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL is the API base URL. Empty selects the default OpenAI endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout is the per-request timeout (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// FetchConfig holds settings for the source fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Sources is the list of active source names. Recognized values are
	// "arXiv", "bioRxiv" (which covers the medRxiv mirror too) and
	// "chemRxiv". Empty selects all three.
	Sources []string `json:"sources" yaml:"sources" mapstructure:"sources"`

	// Window is how far back from invocation time a publication date may
	// lie (default 24h). Papers published at or before now−Window are
	// excluded.
	Window time.Duration `json:"window" yaml:"window" mapstructure:"window"`

	// MaxResults caps the number of entries requested from the arXiv API
	// in one query (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// AnalysisConfig holds settings for the paper analysis stage.
type AnalysisConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxTextChars caps the extracted text length passed to the model
	// (default 30000). Longer texts are truncated with a warning.
	MaxTextChars int `json:"max_text_chars" yaml:"max_text_chars" mapstructure:"max_text_chars"`
}

// ReportConfig holds settings for report synthesis and persistence.
type ReportConfig struct {
	// OutputDir is the directory reports are written to (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// CacheConfig holds settings for the processed-paper dedup cache.
type CacheConfig struct {
	// Path is the cache file location (default "processed_papers_cache.json").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ArchiveConfig holds settings for the analysis history archive.
type ArchiveConfig struct {
	// Dir is the archive base directory (contains digest.db and analyses/).
	// Empty disables archiving.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// PipelineConfig groups all stage configurations for one digest run.
type PipelineConfig struct {
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	LLM      LLMConfig      `json:"llm" yaml:"llm" mapstructure:"llm"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Report   ReportConfig   `json:"report" yaml:"report" mapstructure:"report"`
	Cache    CacheConfig    `json:"cache" yaml:"cache" mapstructure:"cache"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive" mapstructure:"archive"`
}
