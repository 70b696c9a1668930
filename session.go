package mainframequiz

import "time"

// SessionState names the phase of a quiz session.
type SessionState string

const (
	StateSetup      SessionState = "setup"
	StateInProgress SessionState = "in_progress"
	StateCompleted  SessionState = "completed"
)

// Session sequences a student through an ordered list of validated
// questions, recording one answer per question. All mutation goes through
// the transition methods; preconditions are the caller's responsibility and
// violations are reported, never silently ignored. A Session is not safe for
// concurrent use; callers must serialize access.
type Session struct {
	questions []Question
	answers   map[int]int // question index -> selected option index
	cursor    int
	startedAt time.Time
}

// NewSession creates an empty session in the Setup state.
func NewSession() *Session {
	return &Session{answers: make(map[int]int)}
}

// Load moves the session from Setup to InProgress with the given questions.
// Loading an empty list is a caller error, as is loading twice.
func (s *Session) Load(questions []Question) error {
	if len(s.questions) > 0 {
		return ErrQuizAlreadyLoaded
	}
	if len(questions) == 0 {
		return ErrEmptyQuiz
	}
	s.questions = make([]Question, len(questions))
	copy(s.questions, questions)
	s.cursor = 0
	s.startedAt = time.Now()
	return nil
}

// State reports the current phase.
func (s *Session) State() SessionState {
	switch {
	case len(s.questions) == 0:
		return StateSetup
	case s.cursor >= len(s.questions):
		return StateCompleted
	default:
		return StateInProgress
	}
}

// Len returns the number of loaded questions.
func (s *Session) Len() int {
	return len(s.questions)
}

// Cursor returns the index of the question currently presented. It equals
// Len once the session is completed.
func (s *Session) Cursor() int {
	return s.cursor
}

// StartedAt reports when the questions were loaded.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Current returns the question at the cursor. Valid only while InProgress.
func (s *Session) Current() (Question, error) {
	switch s.State() {
	case StateSetup:
		return Question{}, ErrQuizNotLoaded
	case StateCompleted:
		return Question{}, ErrQuizCompleted
	}
	return s.questions[s.cursor], nil
}

// Selected returns the recorded answer for the current question, so a UI
// can pre-select it after navigating back. The second return is false when
// no answer has been recorded yet.
func (s *Session) Selected() (int, bool) {
	if s.State() != StateInProgress {
		return 0, false
	}
	selected, ok := s.answers[s.cursor]
	return selected, ok
}

// Answer records (or overwrites) the answer for the current question. It
// does not advance the cursor.
func (s *Session) Answer(selected int) error {
	switch s.State() {
	case StateSetup:
		return ErrQuizNotLoaded
	case StateCompleted:
		return ErrQuizCompleted
	}
	if selected < 0 || selected > 3 {
		return ErrInvalidSelection
	}
	s.answers[s.cursor] = selected
	return nil
}

// Advance moves to the next question. The current question must have a
// recorded answer. Reaching the end completes the session.
func (s *Session) Advance() error {
	switch s.State() {
	case StateSetup:
		return ErrQuizNotLoaded
	case StateCompleted:
		return ErrQuizCompleted
	}
	if _, ok := s.answers[s.cursor]; !ok {
		return ErrNoAnswerRecorded
	}
	s.cursor++
	return nil
}

// Retreat moves back to the previous question, preserving its recorded
// answer. Valid whenever the cursor is past the first question, including
// from the Completed state.
func (s *Session) Retreat() error {
	if s.State() == StateSetup {
		return ErrQuizNotLoaded
	}
	if s.cursor == 0 {
		return ErrAtFirstQuestion
	}
	s.cursor--
	return nil
}

// Questions returns a copy of the loaded questions.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the recorded answers keyed by question index.
func (s *Session) Answers() map[int]int {
	out := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}
