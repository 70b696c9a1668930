package mainframequiz

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSession(t *testing.T, selections ...int) *Session {
	t.Helper()
	questions := twoQuestions()
	require.Len(t, selections, len(questions))

	s := NewSession()
	require.NoError(t, s.Load(questions))
	for _, sel := range selections {
		require.NoError(t, s.Answer(sel))
		require.NoError(t, s.Advance())
	}
	return s
}

func TestScoreHalfRight(t *testing.T) {
	// First question right (correct=0), second wrong (correct=1).
	s := completedSession(t, 0, 0)

	result, err := Score(s)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Incorrect)
	assert.InDelta(t, 50.0, result.Percentage, 0.001)
	assert.Equal(t, "F", result.Grade)

	require.Len(t, result.PerQuestion, 2)
	assert.True(t, result.PerQuestion[0].IsCorrect)
	assert.Equal(t, "FIXED DECIMAL", result.PerQuestion[0].ChosenText)
	assert.False(t, result.PerQuestion[1].IsCorrect)
	assert.Equal(t, "WHERE", result.PerQuestion[1].ChosenText)
	assert.Equal(t, "HAVING", result.PerQuestion[1].CorrectText)
}

func TestScorePerfect(t *testing.T) {
	s := completedSession(t, 0, 1)

	result, err := Score(s)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Correct)
	assert.InDelta(t, 100.0, result.Percentage, 0.001)
	assert.Equal(t, "A", result.Grade)
}

func TestScoreNotCompleted(t *testing.T) {
	s := NewSession()
	_, err := Score(s)
	assert.True(t, errors.Is(err, ErrQuizNotCompleted))

	require.NoError(t, s.Load(twoQuestions()))
	_, err = Score(s)
	assert.True(t, errors.Is(err, ErrQuizNotCompleted))
}

func TestScoreIsIdempotent(t *testing.T) {
	s := completedSession(t, 0, 0)

	first, err := Score(s)
	require.NoError(t, err)
	second, err := Score(s)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		percentage float64
		grade      string
	}{
		{100, "A"},
		{90, "A"},
		{89.9, "B"},
		{80, "B"},
		{79.9, "C"},
		{70, "C"},
		{69.9, "D"},
		{60, "D"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, gradeFor(tt.percentage), "percentage %.1f", tt.percentage)
	}
}

func TestGradeRemark(t *testing.T) {
	assert.Equal(t, "Excellent", GradeRemark("A"))
	assert.Equal(t, "Very Good", GradeRemark("B"))
	assert.Equal(t, "Good", GradeRemark("C"))
	assert.Equal(t, "Passing", GradeRemark("D"))
	assert.Equal(t, "Needs Improvement", GradeRemark("F"))
}
