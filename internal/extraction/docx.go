package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"baliance.com/gooxml/document"
)

// extractDOCX returns one line per body paragraph, followed by table cell paragraphs.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("failed to parse docx: empty document")
	}

	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}

	var lines []string
	for _, p := range doc.Paragraphs() {
		lines = append(lines, paragraphText(p))
	}
	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					lines = append(lines, paragraphText(p))
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func paragraphText(p document.Paragraph) string {
	var sb strings.Builder
	for _, run := range p.Runs() {
		sb.WriteString(run.Text())
	}
	return sb.String()
}
