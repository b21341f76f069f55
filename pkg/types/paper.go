// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperCandidate is a newly discovered publication as reported by a source
// repository. Candidates are immutable once a fetcher returns them.
type PaperCandidate struct {
	// ID is the source-unique identifier (e.g. "2301.07041v1" for arXiv,
	// a DOI for bioRxiv/medRxiv, an item id for ChemRxiv). It is the dedup
	// cache key, so two fetch runs for the same paper must produce the
	// same ID.
	ID string `json:"id" yaml:"id"`

	// URL is the abstract or landing page.
	URL string `json:"url" yaml:"url"`

	// PDFURL is the direct document link. Fetchers drop candidates
	// without one.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Source identifies the repository the candidate came from
	// (e.g. "arXiv", "bioRxiv", "medRxiv", "chemRxiv").
	Source string `json:"source" yaml:"source"`
}

// ResourceLinks holds the resource URLs mined from a paper's full text.
// Every field is present in serialized form; a field is the empty string
// when no matching link was found.
type ResourceLinks struct {
	GitHub      string `json:"github" yaml:"github"`
	HuggingFace string `json:"huggingface" yaml:"huggingface"`
	ProjectPage string `json:"project_page" yaml:"project_page"`
}

// IsEmpty reports whether no resource link was found at all.
func (r ResourceLinks) IsEmpty() bool {
	return r.GitHub == "" && r.HuggingFace == "" && r.ProjectPage == ""
}

// AnalyzedPaper is the completed full-text analysis of one relevant
// candidate. It is only constructed when every analysis step succeeded,
// and never mutated afterwards.
type AnalyzedPaper struct {
	// Metadata is the originating candidate, owned by value.
	Metadata PaperCandidate `json:"metadata" yaml:"metadata"`

	// Keywords lists topic keywords in the order the model produced them.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// AnalysisQA maps each analytical question the model answered to its
	// answer. Keys are drawn from the fixed question set.
	AnalysisQA map[string]string `json:"analysis_qa" yaml:"analysis_qa"`

	// ResourceLinks are the links mined from the extracted text.
	ResourceLinks ResourceLinks `json:"resource_links" yaml:"resource_links"`

	// Summary is a one-paragraph summary of the paper's contribution.
	Summary string `json:"summary" yaml:"summary"`
}
