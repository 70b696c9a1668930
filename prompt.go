package mainframequiz

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// difficultyFocus maps each difficulty level to the instruction used to bias
// question complexity.
var difficultyFocus = map[Difficulty]string{
	DifficultyJunior:       "basic concepts, syntax, and fundamental principles. Questions should test foundational knowledge.",
	DifficultyIntermediate: "practical applications, common patterns, and moderately complex scenarios. Questions should test working knowledge.",
	DifficultyAdvanced:     "complex scenarios, optimization, edge cases, and deep technical understanding. Questions should test expert-level knowledge.",
	DifficultySenior:       "architectural decisions, performance tuning, best practices, and advanced troubleshooting. Questions should test mastery-level expertise.",
}

// NormalizeDifficulty maps an unknown difficulty to Intermediate. The
// fallback is logged so a misspelled level never silently changes meaning.
func NormalizeDifficulty(d Difficulty) Difficulty {
	if _, ok := difficultyFocus[d]; ok {
		return d
	}
	log.Warn("unknown difficulty, falling back to Intermediate", zap.String("difficulty", string(d)))
	return DifficultyIntermediate
}

// BuildPrompt constructs the instruction payload sent to the provider for
// one generation request. Pure function of the request.
func BuildPrompt(req GenerationRequest) string {
	difficulty := NormalizeDifficulty(req.Difficulty)
	focus := difficultyFocus[difficulty]

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d multiple-choice quiz questions about %s - %s.\n\n", req.Count, req.Topic, req.Subtopic))
	sb.WriteString(fmt.Sprintf("Difficulty Level: %s\n", difficulty))
	sb.WriteString(fmt.Sprintf("Focus on %s\n\n", focus))

	sb.WriteString("Requirements:\n")
	sb.WriteString("1. Each question must be technical and domain-specific\n")
	sb.WriteString("2. Each question must have exactly 4 answer options\n")
	sb.WriteString("3. Only one option must be correct\n")
	sb.WriteString(fmt.Sprintf("4. All questions should be at the %s level\n", difficulty))
	sb.WriteString(fmt.Sprintf("5. Questions should test practical knowledge and understanding appropriate for %s developers\n\n", difficulty))

	sb.WriteString("IMPORTANT: Return ONLY a JSON object with a \"questions\" array. No other text or markdown.\n\n")

	sb.WriteString("Return the questions in EXACTLY this JSON format:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"questions\": [\n")
	sb.WriteString("    {\n")
	sb.WriteString("      \"question\": \"Question text here?\",\n")
	sb.WriteString("      \"options\": [\"Option A\", \"Option B\", \"Option C\", \"Option D\"],\n")
	sb.WriteString("      \"correct\": 0,\n")
	sb.WriteString("      \"explanation\": \"Why the correct option is correct, 30 words or fewer\"\n")
	sb.WriteString("    }\n")
	sb.WriteString("  ]\n")
	sb.WriteString("}\n\n")

	sb.WriteString("The \"correct\" field must be an integer (0, 1, 2, or 3) indicating the index of the correct answer.\n\n")
	sb.WriteString(fmt.Sprintf("Generate exactly %d questions now in the format above.", req.Count))

	return sb.String()
}

// systemPersona is the system message sent alongside every built prompt.
const systemPersona = "You are an expert in IBM Enterprise PL/I for z/OS and Db2 for z/OS SQL. " +
	"Generate high-quality technical quiz questions suitable for mainframe developers. " +
	"All PL/I code must strictly follow IBM Enterprise PL/I syntax and semantics. " +
	"All SQL must follow Db2 for z/OS syntax and EXEC SQL rules. " +
	"Output only the required JSON object with no prose and no markdown."
