package mainframequiz

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(text string) map[string]interface{} {
	return map[string]interface{}{
		"question": text,
		"options":  []interface{}{"Option A", "Option B", "Option C", "Option D"},
		"correct":  float64(1),
	}
}

func TestParseQuestionsTopLevelList(t *testing.T) {
	raw := `[{"question":"What is DCL?","options":["a","b","c","d"],"correct":0}]`

	questions, rejections, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Empty(t, rejections)
	assert.Equal(t, "What is DCL?", questions[0].Text)
	assert.Equal(t, 0, questions[0].CorrectAnswer)
	assert.NotEmpty(t, questions[0].ID)
}

func TestParseQuestionsQuestionsKey(t *testing.T) {
	raw := `{"questions":[{"question":"Q1?","options":["a","b","c","d"],"correct":3}]}`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 3, questions[0].CorrectAnswer)
}

func TestParseQuestionsFirstListFallback(t *testing.T) {
	raw := `{"note":"here you go","items":[{"question":"Q1?","options":["a","b","c","d"],"correct":2}]}`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1?", questions[0].Text)
}

func TestParseQuestionsPrefersQuestionsKeyOverFallback(t *testing.T) {
	// "alternatives" sorts before "questions"; the named key must still win.
	raw := `{
		"alternatives":[{"question":"wrong","options":["a","b","c","d"],"correct":0}],
		"questions":[{"question":"right","options":["a","b","c","d"],"correct":0}]
	}`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "right", questions[0].Text)
}

func TestParseQuestionsMalformed(t *testing.T) {
	raw := "I could not generate questions today." + strings.Repeat(" filler", 200)

	_, _, err := ParseQuestions(raw)
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.True(t, strings.HasPrefix(malformed.Excerpt, "I could not generate"))
	assert.LessOrEqual(t, len(malformed.Excerpt), excerptLimit+3)
}

func TestParseQuestionsNoList(t *testing.T) {
	_, _, err := ParseQuestions(`{"message":"no questions for you"}`)
	assert.True(t, errors.Is(err, ErrNoQuestionList))

	_, _, err = ParseQuestions(`"just a string"`)
	assert.True(t, errors.Is(err, ErrNoQuestionList))
}

func TestParseQuestionsStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"questions\":[{\"question\":\"Q1?\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"correct\":0}]}\n```"

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestValidateCandidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		reason string
	}{
		{
			name:   "missing options",
			mutate: func(m map[string]interface{}) { delete(m, "options") },
			reason: "options",
		},
		{
			name:   "three options",
			mutate: func(m map[string]interface{}) { m["options"] = []interface{}{"a", "b", "c"} },
			reason: "expected exactly 4 options, got 3",
		},
		{
			name:   "five options",
			mutate: func(m map[string]interface{}) { m["options"] = []interface{}{"a", "b", "c", "d", "e"} },
			reason: "expected exactly 4 options, got 5",
		},
		{
			name:   "correct too high",
			mutate: func(m map[string]interface{}) { m["correct"] = float64(4) },
			reason: "out of range",
		},
		{
			name:   "correct negative",
			mutate: func(m map[string]interface{}) { m["correct"] = float64(-1) },
			reason: "out of range",
		},
		{
			name:   "empty option",
			mutate: func(m map[string]interface{}) { m["options"] = []interface{}{"a", "  ", "c", "d"} },
			reason: "option 1 is empty",
		},
		{
			name:   "missing question",
			mutate: func(m map[string]interface{}) { delete(m, "question") },
			reason: "question",
		},
		{
			name:   "blank question",
			mutate: func(m map[string]interface{}) { m["question"] = "   " },
			reason: "empty question text",
		},
		{
			name:   "missing correct",
			mutate: func(m map[string]interface{}) { delete(m, "correct") },
			reason: "missing correct field",
		},
		{
			name:   "non-numeric correct string",
			mutate: func(m map[string]interface{}) { m["correct"] = "two" },
			reason: "not numeric",
		},
		{
			name:   "fractional correct",
			mutate: func(m map[string]interface{}) { m["correct"] = 1.5 },
			reason: "not an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := candidate("Which attribute declares a fixed decimal?")
			tt.mutate(m)
			_, err := validateCandidate(m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestValidateCandidateCoercesStringCorrect(t *testing.T) {
	m := candidate("Which clause filters grouped rows?")
	m["correct"] = "2"

	q, err := validateCandidate(m)
	require.NoError(t, err)
	assert.Equal(t, 2, q.CorrectAnswer)
}

func TestValidateCandidateTrimsAndKeepsExplanation(t *testing.T) {
	m := candidate("  What is SQLCODE?  ")
	m["question"] = "  What is SQLCODE?  "
	m["options"] = []interface{}{" a ", "b", "c", "d"}
	m["explanation"] = " Because the SQLCA reports it. "

	q, err := validateCandidate(m)
	require.NoError(t, err)
	assert.Equal(t, "What is SQLCODE?", q.Text)
	assert.Equal(t, "a", q.Options[0])
	assert.Equal(t, "Because the SQLCA reports it.", q.Explanation)
}

func TestParseQuestionsDropsDuplicates(t *testing.T) {
	raw := `{"questions":[
		{"question":"Same thing?","options":["a","b","c","d"],"correct":0},
		{"question":"same THING?","options":["e","f","g","h"],"correct":1}
	]}`

	questions, rejections, err := ParseQuestions(raw)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
	require.Len(t, rejections, 1)
	assert.Equal(t, 1, rejections[0].Index)
	assert.Contains(t, rejections[0].Reason, "duplicate")
}

func TestParseQuestionsRecordsRejectionIndexes(t *testing.T) {
	raw := `{"questions":[
		{"question":"Good one?","options":["a","b","c","d"],"correct":0},
		{"question":"Bad one?","options":["a","b","c"],"correct":0},
		{"question":"Another good one?","options":["a","b","c","d"],"correct":"3"}
	]}`

	questions, rejections, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Len(t, rejections, 1)
	assert.Equal(t, 1, rejections[0].Index)
	assert.Equal(t, 3, questions[1].CorrectAnswer)
}
