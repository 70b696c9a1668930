package mainframequiz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResultStorage writes finished quiz results to disk: a human-readable text
// report plus a machine-readable JSON copy next to it.
type ResultStorage struct {
	dir string
}

// NewResultStorage creates the results directory if needed.
func NewResultStorage(dir string) (*ResultStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &ResultStorage{dir: dir}, nil
}

// Save writes the report files and returns the path of the text report.
func (rs *ResultStorage) Save(meta ReportMeta, result *Result) (string, error) {
	timestamp := meta.TakenAt.Format("20060102_150405")
	base := fmt.Sprintf("quiz_result_%s_%s", abbreviateName(meta.StudentName), timestamp)

	textPath := filepath.Join(rs.dir, base+".txt")
	if err := os.WriteFile(textPath, []byte(formatReport(meta, result)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	record := struct {
		ReportMeta
		*Result
	}{meta, result}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	jsonPath := filepath.Join(rs.dir, base+".json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result json: %w", err)
	}

	return textPath, nil
}

// abbreviateName shortens a student name for use in file names.
// "John Doe" becomes "JDoe", "Jane Smith Johnson" becomes "JSJohnson", a
// single name is kept as-is (capped at 10 characters).
func abbreviateName(name string) string {
	parts := strings.Fields(strings.TrimSpace(name))
	var abbreviated string
	switch len(parts) {
	case 0:
		return "unknown"
	case 1:
		abbreviated = parts[0]
		if len(abbreviated) > 10 {
			abbreviated = abbreviated[:10]
		}
	case 2:
		abbreviated = parts[0][:1] + parts[1]
	default:
		var initials strings.Builder
		for _, p := range parts[:len(parts)-1] {
			initials.WriteString(p[:1])
		}
		abbreviated = initials.String() + parts[len(parts)-1]
	}

	var clean strings.Builder
	for _, r := range abbreviated {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			clean.WriteRune(r)
		}
	}
	abbreviated = clean.String()
	if abbreviated == "" {
		return "unknown"
	}
	if len(abbreviated) > 15 {
		abbreviated = abbreviated[:15]
	}
	return abbreviated
}

// formatReport renders the human-readable report.
func formatReport(meta ReportMeta, result *Result) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	thinRule := strings.Repeat("-", 60)

	sb.WriteString(rule + "\n")
	sb.WriteString("QUIZ RESULT REPORT\n")
	sb.WriteString(rule + "\n\n")
	sb.WriteString(fmt.Sprintf("Student Name: %s\n", meta.StudentName))
	sb.WriteString(fmt.Sprintf("Date/Time: %s\n", meta.TakenAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Topic: %s\n", meta.Topic))
	sb.WriteString(fmt.Sprintf("Subtopic: %s\n", meta.Subtopic))
	sb.WriteString(fmt.Sprintf("Difficulty Level: %s\n\n", meta.Difficulty))
	sb.WriteString(fmt.Sprintf("Total Questions: %d\n", result.Total))
	sb.WriteString(fmt.Sprintf("Correct Answers: %d\n", result.Correct))
	sb.WriteString(fmt.Sprintf("Incorrect Answers: %d\n", result.Incorrect))
	sb.WriteString(fmt.Sprintf("Score: %.1f%%\n\n", result.Percentage))
	sb.WriteString(fmt.Sprintf("Grade: %s - %s\n\n", result.Grade, GradeRemark(result.Grade)))
	sb.WriteString(thinRule + "\n")
	sb.WriteString("DETAILED ANSWERS\n")
	sb.WriteString(thinRule + "\n")

	for i, qr := range result.PerQuestion {
		verdict := "INCORRECT"
		if qr.IsCorrect {
			verdict = "CORRECT"
		}
		sb.WriteString(fmt.Sprintf("\nQuestion %d: %s\n", i+1, qr.QuestionText))
		sb.WriteString(fmt.Sprintf("Your Answer: %s\n", qr.ChosenText))
		sb.WriteString(fmt.Sprintf("Correct Answer: %s\n", qr.CorrectText))
		sb.WriteString(fmt.Sprintf("Result: %s\n", verdict))
		if qr.Explanation != "" {
			sb.WriteString(fmt.Sprintf("Explanation: %s\n", qr.Explanation))
		}
	}

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("END OF REPORT\n")
	sb.WriteString(rule + "\n")

	return sb.String()
}
