// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the daily digest document and persists it.
// Synthesis is pure and deterministic: the same papers and date always
// produce the same Markdown.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-digest/internal/analyze"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// EmptyMessage is the body used when no paper survived the pipeline.
const EmptyMessage = "No relevant papers were found in the last 24 hours."

// Filename returns the date-stamped report filename for a run date.
func Filename(date time.Time) string {
	return fmt.Sprintf("AI4Science_Report_%s.md", date.Format("2006-01-02"))
}

// Synthesize renders the digest for the given papers and run date. Empty
// input produces a fixed no-results document, never an empty string.
func Synthesize(papers []types.AnalyzedPaper, date time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# AI4Science Daily Paper Digest\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n\n", date.Format("2006-01-02"))

	if len(papers) == 0 {
		b.WriteString(EmptyMessage)
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d relevant paper(s) analyzed today.\n\n", len(papers))

	for i, paper := range papers {
		writeSection(&b, i+1, paper)
	}

	return b.String()
}

// writeSection renders one numbered paper section.
func writeSection(b *strings.Builder, n int, paper types.AnalyzedPaper) {
	m := paper.Metadata

	fmt.Fprintf(b, "## %d. %s\n\n", n, m.Title)
	fmt.Fprintf(b, "**Authors:** %s\n\n", strings.Join(m.Authors, ", "))
	fmt.Fprintf(b, "**Source:** %s | [Abstract](%s) | [PDF](%s)\n\n", m.Source, m.URL, m.PDFURL)

	if line := resourcesLine(paper.ResourceLinks); line != "" {
		fmt.Fprintf(b, "**Resources:** %s\n\n", line)
	}

	fmt.Fprintf(b, "**Keywords:** %s\n\n", strings.Join(paper.Keywords, ", "))
	fmt.Fprintf(b, "%s\n\n", paper.Summary)

	b.WriteString("<details>\n<summary>Detailed Analysis</summary>\n\n")
	for _, question := range analyze.Questions {
		answer, ok := paper.AnalysisQA[question]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "**%s**\n\n%s\n\n", question, answer)
	}
	b.WriteString("</details>\n\n")
}

// resourcesLine joins the non-empty resource links; empty when none found,
// which omits the resources line entirely.
func resourcesLine(links types.ResourceLinks) string {
	var parts []string
	if links.GitHub != "" {
		parts = append(parts, fmt.Sprintf("[GitHub](%s)", links.GitHub))
	}
	if links.HuggingFace != "" {
		parts = append(parts, fmt.Sprintf("[Hugging Face](%s)", links.HuggingFace))
	}
	if links.ProjectPage != "" {
		parts = append(parts, fmt.Sprintf("[Project Page](%s)", links.ProjectPage))
	}
	return strings.Join(parts, " | ")
}

// Save writes the document under outputDir, creating the directory when
// needed. A failed write is the one fatal I/O error in the pipeline, so it
// propagates to the caller.
func Save(document, outputDir, filename string) (string, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
