// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"strings"
	"text/template"
)

// Questions is the fixed analytical question set put to the model for every
// paper. The report renders answers in this order.
var Questions = []string{
	"1. What is the main research question or problem the paper addresses?",
	"2. What is the key innovation or contribution of this paper?",
	"3. What is the methodology or approach used in this paper?",
	"4. What were the main results of the experiments or analysis?",
	"5. What are the main limitations of the work described in the paper?",
	"6. How does this work compare to previous research in the field?",
	"7. What are the potential future directions for this research?",
	"8. What are the practical applications or implications of this work?",
	"9. What datasets were used in this study, and are they publicly available?",
	"10. Is the code or software used in this study available, and if so, where?",
}

// analysisSystemPrompt frames the deep-analysis task and the required JSON shape.
const analysisSystemPrompt = "You are a highly skilled research assistant specializing in AI for Science. " +
	"Your task is to read the provided scientific paper text and perform a detailed analysis. " +
	"You must answer a specific set of questions, generate relevant keywords, and provide a concise summary. " +
	"Base your answers strictly on the content of the paper. If the paper does not provide an answer to a " +
	"question, state that clearly. " +
	`Respond with a JSON object: {"analysis_qa": [{"question": "<question>", "answer": "<answer>"}, ...], ` +
	`"keywords": ["<keyword>", ...], "summary": "<one-paragraph summary>"}.`

// analysisUserTmpl carries the paper text and the question list.
var analysisUserTmpl = template.Must(template.New("analysis").Parse(
	`Please analyze the following paper text and provide the answers to the questions, keywords, and a summary.

**Paper Text:**

{{.PaperText}}

**Questions to Answer:**
{{.Questions}}
`))

// renderAnalysisPrompt builds the user message for one paper's text.
func renderAnalysisPrompt(paperText string) (string, error) {
	var buf bytes.Buffer
	err := analysisUserTmpl.Execute(&buf, struct {
		PaperText string
		Questions string
	}{
		PaperText: paperText,
		Questions: strings.Join(Questions, "\n"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
