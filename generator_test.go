package mainframequiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	response string
	err      error
	calls    int
}

func (p *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func validRequest(count int) GenerationRequest {
	return GenerationRequest{
		Topic:      TopicDb2,
		Subtopic:   "Joins",
		Count:      count,
		Difficulty: DifficultyIntermediate,
	}
}

// response builds a provider reply with nValid well-formed candidates
// followed by nInvalid broken ones.
func response(t *testing.T, nValid, nInvalid int) string {
	t.Helper()
	var items []map[string]interface{}
	for i := 0; i < nValid; i++ {
		items = append(items, map[string]interface{}{
			"question": fmt.Sprintf("Valid question number %d?", i),
			"options":  []string{"opt w", "opt x", "opt y", "opt z"},
			"correct":  i % 4,
		})
	}
	for i := 0; i < nInvalid; i++ {
		items = append(items, map[string]interface{}{
			"question": fmt.Sprintf("Broken question number %d?", i),
			"options":  []string{"only", "three", "options"},
			"correct":  0,
		})
	}
	data, err := json.Marshal(map[string]interface{}{"questions": items})
	require.NoError(t, err)
	return string(data)
}

func newTestGenerator(p Provider) *Generator {
	g := NewGenerator(p)
	g.SetRand(rand.New(rand.NewSource(1)))
	return g
}

func TestGenerateProviderUnavailable(t *testing.T) {
	g := NewGenerator(nil)

	_, err := g.Generate(context.Background(), validRequest(10))
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestGenerateRequestValidation(t *testing.T) {
	stub := &stubProvider{response: response(t, 5, 0)}
	g := newTestGenerator(stub)

	tests := []struct {
		name string
		req  GenerationRequest
	}{
		{"unknown topic", GenerationRequest{Topic: "COBOL", Subtopic: "Joins", Count: 10, Difficulty: DifficultyJunior}},
		{"unregistered subtopic", GenerationRequest{Topic: TopicDb2, Subtopic: "Data Types", Count: 10, Difficulty: DifficultyJunior}},
		{"zero count", GenerationRequest{Topic: TopicDb2, Subtopic: "Joins", Count: 0, Difficulty: DifficultyJunior}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tt.req)
			require.Error(t, err)
		})
	}

	// Request validation happens before any provider call.
	assert.Zero(t, stub.calls)
}

func TestGenerateProviderFailure(t *testing.T) {
	cause := errors.New("429 too many requests")
	g := newTestGenerator(&stubProvider{err: cause})

	_, err := g.Generate(context.Background(), validRequest(10))
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.True(t, errors.Is(err, cause))
}

func TestGenerateMalformedResponse(t *testing.T) {
	g := newTestGenerator(&stubProvider{response: "sorry, not today"})

	_, err := g.Generate(context.Background(), validRequest(10))
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Excerpt, "sorry, not today")
}

func TestGenerateNoValidQuestions(t *testing.T) {
	g := newTestGenerator(&stubProvider{response: response(t, 0, 3)})

	_, err := g.Generate(context.Background(), validRequest(10))
	var noValid *NoValidQuestionsError
	require.ErrorAs(t, err, &noValid)
	assert.NotEmpty(t, noValid.Excerpt)
}

func TestGeneratePartialYieldAboveThreshold(t *testing.T) {
	// 7 of 10 candidates validate: fewer than requested, but not low yield.
	stub := &stubProvider{response: response(t, 7, 3)}
	g := newTestGenerator(stub)

	quiz, err := g.Generate(context.Background(), validRequest(10))
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 7)
	assert.False(t, quiz.LowYield)
	assert.Len(t, quiz.Rejections, 3)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerateLowYield(t *testing.T) {
	g := newTestGenerator(&stubProvider{response: response(t, 2, 8)})

	quiz, err := g.Generate(context.Background(), validRequest(10))
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 2)
	assert.True(t, quiz.LowYield)
}

func TestGenerateTruncatesOverProduction(t *testing.T) {
	g := newTestGenerator(&stubProvider{response: response(t, 8, 0)})

	quiz, err := g.Generate(context.Background(), validRequest(5))
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 5)
	assert.False(t, quiz.LowYield)

	// Truncation keeps validation order.
	for i, q := range quiz.Questions {
		assert.Equal(t, fmt.Sprintf("Valid question number %d?", i), q.Text)
	}
}

func TestGenerateRandomizesButPreservesQuestionInvariant(t *testing.T) {
	g := newTestGenerator(&stubProvider{response: response(t, 6, 0)})

	quiz, err := g.Generate(context.Background(), validRequest(6))
	require.NoError(t, err)
	for _, q := range quiz.Questions {
		require.Len(t, q.Options, 4)
		require.GreaterOrEqual(t, q.CorrectAnswer, 0)
		require.LessOrEqual(t, q.CorrectAnswer, 3)
		for _, opt := range q.Options {
			require.NotEmpty(t, opt)
		}
	}
}

func TestGenerateNormalizesDifficulty(t *testing.T) {
	g := newTestGenerator(&stubProvider{response: response(t, 5, 0)})
	req := validRequest(5)
	req.Difficulty = "Wizard"

	quiz, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, DifficultyIntermediate, quiz.Request.Difficulty)
}
