package llm

import "strings"

// PromptInput is the material folded into an analysis prompt.
type PromptInput struct {
	Questions string
	CSV       string
	// Notes are appended one per line after the request text, e.g. scrape
	// results and the image-presence line. Empty notes are skipped.
	Notes []string
}

const analysisInstructions = `You are a data analyst with web scraping and data analysis capabilities.

CRITICAL INSTRUCTIONS:
- Use ONLY the provided CSV data for all calculations. Do NOT guess, estimate, or hallucinate any values. Do NOT use prior knowledge or external information.
- If a value cannot be computed directly from the provided data, return null for that field.
- For each answer, show step-by-step calculation using only the CSV data. Reference the CSV header and rows as needed.
- Do NOT output anything that cannot be derived from the CSV data.
- If the CSV data is missing or incomplete, return null for all fields that cannot be computed.
- Respond with ONLY a valid JSON array or object - no markdown, no explanations, no extra text.
- Do NOT use line breaks (\n) or extra whitespace in your JSON response.
- Make JSON compact and properly formatted.
- For ANY visualization/chart/plot requests: Return the original question text as the value instead of creating images.
- Do NOT generate base64 images, plots, or charts - just return the question text for those fields.
- Perform all calculations and data analysis accurately.
- Return exact numerical values but not as strings.

WARNING: If you hallucinate or use information not present in the CSV, your answer will be considered incorrect.
`

// BuildAnalysisPrompt returns the full prompt for a data-analysis request.
func BuildAnalysisPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString(analysisInstructions)
	b.WriteString("\nBelow is the CSV data to use for all calculations:\n")
	b.WriteString(in.CSV)
	b.WriteString("\n\nRequest to process:\n")
	b.WriteString(in.Questions)
	b.WriteString("\n")

	notes := make([]string, 0, len(in.Notes))
	for _, n := range in.Notes {
		if n != "" {
			notes = append(notes, n)
		}
	}
	b.WriteString(strings.Join(notes, "\n"))
	return b.String()
}
