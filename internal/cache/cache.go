// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is the durable set of already-processed paper identifiers.
// The set is stored as a JSON document with a single "processed_ids" key so
// it survives across daily runs. The cache degrades rather than fails: an
// unreadable file loads as empty, an unwritable file logs an error and the
// run continues without dedup for the next cycle.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

// DefaultPath is the cache file used when the config leaves the path unset.
const DefaultPath = "processed_papers_cache.json"

// cacheFile is the on-disk document shape.
type cacheFile struct {
	ProcessedIDs []string `json:"processed_ids"`
}

// Cache reads and appends the processed-identifier set at a fixed path.
type Cache struct {
	path string
	log  zerolog.Logger
}

// New returns a Cache backed by the file at path.
func New(path string, log zerolog.Logger) *Cache {
	if path == "" {
		path = DefaultPath
	}
	return &Cache{path: path, log: log.With().Str("component", "cache").Logger()}
}

// Path returns the cache file location.
func (c *Cache) Path() string { return c.path }

// Load returns the set of previously recorded identifiers. A missing or
// corrupt file yields the empty set; corruption is logged, never fatal.
func (c *Cache) Load() map[string]struct{} {
	ids := make(map[string]struct{})

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn().Err(err).Str("path", c.path).
				Msg("could not read cache file, starting with an empty cache")
		}
		return ids
	}

	var doc cacheFile
	if err := json.Unmarshal(data, &doc); err != nil {
		c.log.Warn().Err(err).Str("path", c.path).
			Msg("could not parse cache file, starting with an empty cache")
		return ids
	}

	for _, id := range doc.ProcessedIDs {
		ids[id] = struct{}{}
	}
	return ids
}

// Save merges newIDs into the stored set and persists the union. The write
// goes through a temp file and rename so a crash mid-write cannot truncate
// the previous record. Saving the same set twice produces identical stored
// content: ids are sorted before writing.
func (c *Cache) Save(newIDs map[string]struct{}) error {
	merged := c.Load()
	for id := range newIDs {
		merged[id] = struct{}{}
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(cacheFile{ProcessedIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmpFile, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	c.log.Info().Int("new", len(newIDs)).Int("total", len(ids)).
		Msg("saved processed ids to cache")
	return nil
}
