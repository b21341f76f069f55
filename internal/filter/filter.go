// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter classifies paper candidates for AI-for-Science relevance.
// Each candidate gets one independent model call; a failed call counts as
// "not relevant" so a flaky backend can never poison the batch.
package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// relevanceSystemPrompt instructs the model to make a structured yes/no call.
const relevanceSystemPrompt = "You are an expert in scientific research and AI. " +
	"Your task is to determine if a paper is relevant to the field of 'AI for Science'. " +
	"This means the paper should be about applying AI, machine learning, or data science " +
	"techniques to a scientific domain like physics, biology, chemistry, materials science, " +
	"or medicine. A paper that is purely about AI theory or computer science without a clear " +
	"scientific application is not relevant. " +
	`Respond with a JSON object: {"is_relevant": <boolean>, "reason": "<brief reason>"}.`

// LLM is the chat capability the filter needs. *llm.Client satisfies it.
type LLM interface {
	Complete(ctx context.Context, system, user string, out any) error
}

// relevanceDecision is the structured model response.
type relevanceDecision struct {
	IsRelevant bool   `json:"is_relevant"`
	Reason     string `json:"reason"`
}

// RelevanceFilter classifies candidates with a language model.
type RelevanceFilter struct {
	llm LLM
	log zerolog.Logger
}

// New returns a RelevanceFilter backed by the given model client.
func New(llm LLM, log zerolog.Logger) *RelevanceFilter {
	return &RelevanceFilter{llm: llm, log: log.With().Str("component", "filter").Logger()}
}

// IsRelevant classifies one candidate from its title and abstract. Any
// failure (timeout, malformed response, backend error) is logged and
// reported as not relevant; classification never propagates an error.
func (f *RelevanceFilter) IsRelevant(ctx context.Context, paper types.PaperCandidate) bool {
	user := fmt.Sprintf("Paper Title: %s\n\nAbstract: %s", paper.Title, paper.Abstract)

	var decision relevanceDecision
	if err := f.llm.Complete(ctx, relevanceSystemPrompt, user, &decision); err != nil {
		f.log.Error().Err(err).Str("id", paper.ID).Msg("relevance classification failed")
		return false
	}

	f.log.Info().Str("id", paper.ID).Bool("relevant", decision.IsRelevant).
		Str("reason", decision.Reason).Msg("relevance check")
	return decision.IsRelevant
}

// FilterPapers classifies all candidates concurrently, one call per
// candidate, and returns the relevant ones in input order.
func (f *RelevanceFilter) FilterPapers(ctx context.Context, papers []types.PaperCandidate) []types.PaperCandidate {
	f.log.Info().Int("candidates", len(papers)).Msg("starting relevance filtering")

	results := make([]bool, len(papers))
	var wg sync.WaitGroup

	for i, paper := range papers {
		wg.Add(1)
		go func(i int, paper types.PaperCandidate) {
			defer wg.Done()
			results[i] = f.IsRelevant(ctx, paper)
		}(i, paper)
	}
	wg.Wait()

	var relevant []types.PaperCandidate
	for i, paper := range papers {
		if results[i] {
			relevant = append(relevant, paper)
		}
	}

	f.log.Info().Int("relevant", len(relevant)).Msg("relevance filtering done")
	return relevant
}
