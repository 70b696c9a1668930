package mainframequiz

import (
	"errors"
	"fmt"
)

// Fatal pipeline errors. Each generation attempt surfaces at most one of
// these; none of them are retried internally.
var (
	// ErrProviderUnavailable means the provider dependency is not configured
	// (for example a missing API key). Checked before any network call.
	ErrProviderUnavailable = errors.New("question provider is not configured (set OPENAI_API_KEY)")
	// ErrNoQuestionList means the response parsed but contained no list of
	// candidate questions in any recognized shape.
	ErrNoQuestionList = errors.New("no question list found in provider response")
)

// Session contract violations. These indicate caller bugs, not recoverable
// conditions.
var (
	ErrEmptyQuiz         = errors.New("cannot load a quiz with no questions")
	ErrQuizAlreadyLoaded = errors.New("quiz questions are already loaded")
	ErrQuizNotLoaded     = errors.New("no quiz questions loaded")
	ErrQuizCompleted     = errors.New("quiz is already completed")
	ErrQuizNotCompleted  = errors.New("quiz is not completed yet")
	ErrNoAnswerRecorded  = errors.New("current question has no recorded answer")
	ErrAtFirstQuestion   = errors.New("already at the first question")
	ErrInvalidSelection  = errors.New("selected option index must be between 0 and 3")
)

// ErrNothingToScore guards the percentage division. It cannot occur through
// the Session API because loading an empty quiz fails.
var ErrNothingToScore = errors.New("no questions to score")

// GenerationError wraps a transport, auth, or quota failure from the
// provider call itself.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("question generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedResponseError means the provider output could not be parsed as
// structured data. Excerpt holds a truncated slice of the raw text for
// diagnostics.
type MalformedResponseError struct {
	Excerpt string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse provider response: %v (response excerpt: %s)", e.Err, e.Excerpt)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// NoValidQuestionsError means the response parsed but no candidate passed
// structural validation.
type NoValidQuestionsError struct {
	Excerpt string
}

func (e *NoValidQuestionsError) Error() string {
	return fmt.Sprintf("no valid questions in provider response (response excerpt: %s)", e.Excerpt)
}

// excerptLimit bounds diagnostic excerpts of raw provider output.
const excerptLimit = 500

func excerpt(raw string) string {
	if len(raw) <= excerptLimit {
		return raw
	}
	return raw[:excerptLimit] + "..."
}
