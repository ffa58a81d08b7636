package domain

import (
	"encoding/json"
	"strings"
)

// Bundle is one analysis request: the question text plus optional attachments.
type Bundle struct {
	Questions string
	CSV       string
	HasCSV    bool
	Image     []byte
	ImageName string
	HasImage  bool
}

// Table is a scraped HTML table: one header row followed by data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Format renders the table as comma-joined lines under a source line.
// At most maxRows data rows are written; maxRows <= 0 means no limit.
// An empty header or an empty row set renders as "".
func (t *Table) Format(sourceURL string, maxRows int) string {
	if t == nil || len(t.Header) == 0 || len(t.Rows) == 0 {
		return ""
	}
	rows := t.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	var b strings.Builder
	b.WriteString("Scraped Data from ")
	b.WriteString(sourceURL)
	b.WriteString(":\n")
	b.WriteString(strings.Join(t.Header, ","))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// FallbackResponse wraps model output that is not valid JSON.
type FallbackResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// AnalysisResult is the normalized model answer returned to the caller.
type AnalysisResult struct {
	// Body is either the model's own JSON or an encoded FallbackResponse.
	Body json.RawMessage
	// Parsed reports whether Body came straight from the model.
	Parsed bool
}
