package mainframequiz

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

const (
	questionIDLength = 8
	quizIDLength     = 12
)

func newID(n int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// Generator orchestrates one quiz generation attempt: prompt construction,
// the provider call, validation, and option randomization. It makes exactly
// one provider call per request and never retries internally.
type Generator struct {
	provider   Provider
	rng        *rand.Rand
	transcript *TranscriptLogger
}

// NewGenerator creates a generator over the given provider. The provider may
// be nil when the dependency is not configured; Generate reports that before
// attempting anything.
func NewGenerator(provider Provider) *Generator {
	return &Generator{provider: provider}
}

// SetRand injects a rand source used for option shuffling, for deterministic
// tests.
func (g *Generator) SetRand(rng *rand.Rand) {
	g.rng = rng
}

// SetTranscript attaches a transcript logger that records the prompt, the
// raw response, and per-candidate verdicts for this generator's attempts.
func (g *Generator) SetTranscript(t *TranscriptLogger) {
	g.transcript = t
}

// Generate runs the full pipeline for one request. On success the returned
// quiz holds at most req.Count validated and randomized questions in
// validation order, with LowYield set when fewer than half of the requested
// questions survived. Failure modes: ErrProviderUnavailable (checked first,
// before any call), a caller error for an invalid request, *GenerationError
// for provider failures, *MalformedResponseError / ErrNoQuestionList when
// the response cannot be interpreted, and *NoValidQuestionsError when
// nothing passes validation. No partial results accompany an error.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (*GeneratedQuiz, error) {
	if g.provider == nil {
		return nil, ErrProviderUnavailable
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	req.Difficulty = NormalizeDifficulty(req.Difficulty)

	log.Info("generating questions",
		zap.String("topic", string(req.Topic)),
		zap.String("subtopic", req.Subtopic),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("count", req.Count))

	prompt := BuildPrompt(req)
	g.transcript.LogRequest(prompt)

	raw, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		g.transcript.LogError(err)
		return nil, &GenerationError{Err: err}
	}
	g.transcript.LogResponse(raw)

	questions, rejections, err := ParseQuestions(raw)
	if err != nil {
		g.transcript.LogError(err)
		return nil, err
	}
	for _, rej := range rejections {
		g.transcript.LogRejection(rej)
	}

	if len(questions) == 0 {
		err := &NoValidQuestionsError{Excerpt: excerpt(raw)}
		g.transcript.LogError(err)
		return nil, err
	}

	lowYield := len(questions)*2 < req.Count
	if lowYield {
		log.Warn("low yield from provider",
			zap.Int("valid", len(questions)),
			zap.Int("requested", req.Count))
	}

	// Never return more than requested, even if the provider over-produced.
	if len(questions) > req.Count {
		questions = questions[:req.Count]
	}

	randomized := make([]Question, len(questions))
	for i, q := range questions {
		randomized[i] = ShuffleOptions(q, g.rng)
	}

	quiz := &GeneratedQuiz{
		ID:         newID(quizIDLength),
		Request:    req,
		Questions:  randomized,
		Rejections: rejections,
		LowYield:   lowYield,
		CreatedAt:  time.Now(),
	}

	log.Info("quiz generation complete",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("rejected", len(quiz.Rejections)),
		zap.Bool("low_yield", quiz.LowYield))

	return quiz, nil
}

// validateRequest checks the request against the topic table before any
// provider call is issued. Counts outside the recommended range proceed with
// a warning.
func validateRequest(req GenerationRequest) error {
	regs, ok := subtopics[req.Topic]
	if !ok {
		return fmt.Errorf("unknown topic %q", req.Topic)
	}
	registered := false
	for _, s := range regs {
		if s == req.Subtopic {
			registered = true
			break
		}
	}
	if !registered {
		return fmt.Errorf("subtopic %q is not registered for topic %q", req.Subtopic, req.Topic)
	}
	if req.Count < 1 {
		return fmt.Errorf("question count must be positive, got %d", req.Count)
	}
	if req.Count < MinRecommendedCount || req.Count > MaxRecommendedCount {
		log.Warn("question count outside recommended range",
			zap.Int("count", req.Count),
			zap.Int("min", MinRecommendedCount),
			zap.Int("max", MaxRecommendedCount))
	}
	return nil
}
