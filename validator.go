package mainframequiz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ParseQuestions parses raw provider output and returns the structurally
// valid questions in their order of appearance, plus one Rejection per
// dropped candidate. Parse failures and responses with no recognizable
// question list are fatal; individual bad candidates are not.
func ParseQuestions(raw string) ([]Question, []Rejection, error) {
	candidates, err := extractCandidates(raw)
	if err != nil {
		return nil, nil, err
	}

	var questions []Question
	var rejections []Rejection
	seen := make(map[string]bool)
	for i, candidate := range candidates {
		q, err := validateCandidate(candidate)
		if err == nil {
			key := strings.ToLower(q.Text)
			if seen[key] {
				err = fmt.Errorf("duplicate of an earlier candidate")
			} else {
				seen[key] = true
			}
		}
		if err != nil {
			log.Info("rejected candidate question",
				zap.Int("index", i),
				zap.String("reason", err.Error()))
			rejections = append(rejections, Rejection{Index: i, Reason: err.Error()})
			continue
		}
		questions = append(questions, q)
	}

	return questions, rejections, nil
}

// extractCandidates locates the list of candidate questions. Accepted
// shapes, in priority order: a top-level list, a mapping with a "questions"
// list, or the first list-valued entry of the mapping (keys scanned in
// sorted order so the fallback is deterministic).
func extractCandidates(raw string) ([]interface{}, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &data); err != nil {
		return nil, &MalformedResponseError{Excerpt: excerpt(raw), Err: err}
	}

	switch v := data.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		if list, ok := v["questions"].([]interface{}); ok {
			return list, nil
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if list, ok := v[k].([]interface{}); ok {
				return list, nil
			}
		}
	}

	return nil, ErrNoQuestionList
}

// validateCandidate checks one candidate against the question schema and
// converts it. The returned error is the rejection reason.
func validateCandidate(candidate interface{}) (Question, error) {
	m, ok := candidate.(map[string]interface{})
	if !ok {
		return Question{}, fmt.Errorf("candidate is not an object (got %T)", candidate)
	}

	text, ok := m["question"].(string)
	if !ok {
		return Question{}, fmt.Errorf("missing or non-string question field")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Question{}, fmt.Errorf("empty question text")
	}

	rawOptions, ok := m["options"].([]interface{})
	if !ok {
		return Question{}, fmt.Errorf("missing or non-list options field")
	}
	if len(rawOptions) != 4 {
		return Question{}, fmt.Errorf("expected exactly 4 options, got %d", len(rawOptions))
	}
	options := make([]string, 4)
	for i, raw := range rawOptions {
		opt, ok := raw.(string)
		if !ok {
			return Question{}, fmt.Errorf("option %d is not a string", i)
		}
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return Question{}, fmt.Errorf("option %d is empty", i)
		}
		options[i] = opt
	}

	correct, err := coerceCorrectIndex(m["correct"])
	if err != nil {
		return Question{}, err
	}

	q := Question{
		ID:            newID(questionIDLength),
		Text:          text,
		Options:       options,
		CorrectAnswer: correct,
	}
	if explanation, ok := m["explanation"].(string); ok {
		q.Explanation = strings.TrimSpace(explanation)
	}
	return q, nil
}

// coerceCorrectIndex accepts an integer or an integer-valued string and
// enforces the [0,3] range. JSON numbers arrive as float64; non-integral
// values are rejected.
func coerceCorrectIndex(v interface{}) (int, error) {
	var correct int
	switch n := v.(type) {
	case float64:
		correct = int(n)
		if float64(correct) != n {
			return 0, fmt.Errorf("correct index %v is not an integer", n)
		}
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("correct index %q is not numeric", n)
		}
		correct = parsed
	case nil:
		return 0, fmt.Errorf("missing correct field")
	default:
		return 0, fmt.Errorf("correct field has unsupported type %T", v)
	}

	if correct < 0 || correct > 3 {
		return 0, fmt.Errorf("correct index %d is out of range [0-3]", correct)
	}
	return correct, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// providers add despite instructions not to.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
