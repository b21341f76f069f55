// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"regexp"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Resource link patterns. First match in source order wins for each kind.
var (
	githubPattern      = regexp.MustCompile(`https?://(?:www\.)?github\.com/[\w\-]+/[\w\-]+`)
	huggingfacePattern = regexp.MustCompile(`https?://(?:www\.)?huggingface\.co/[\w\-]+`)
	projectPagePattern = regexp.MustCompile(`https?://[\w\-]+\.github\.io/[\w\-]+`)
)

// ExtractResourceLinks scans extracted paper text for GitHub, Hugging Face,
// and project page URLs. It never fails; kinds with no match stay empty.
func ExtractResourceLinks(text string) types.ResourceLinks {
	return types.ResourceLinks{
		GitHub:      githubPattern.FindString(text),
		HuggingFace: huggingfacePattern.FindString(text),
		ProjectPage: projectPagePattern.FindString(text),
	}
}
