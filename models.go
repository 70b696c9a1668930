package mainframequiz

import "time"

// Question is a single multiple-choice question. It is created by the
// generation pipeline after validation and randomization and is immutable
// from then on.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`        // exactly 4 non-empty entries
	CorrectAnswer int      `json:"correct_answer"` // 0-based index into Options
	Explanation   string   `json:"explanation,omitempty"`
}

// Topic is one of the supported quiz subjects.
type Topic string

const (
	TopicPLI Topic = "PL/I"
	TopicDb2 Topic = "Db2"
)

// Difficulty biases the complexity of generated questions.
type Difficulty string

const (
	DifficultyJunior       Difficulty = "Junior"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
	DifficultySenior       Difficulty = "Senior"
)

// subtopics maps each topic to its registered specialization areas.
var subtopics = map[Topic][]string{
	TopicPLI: {"Data Types", "Structures", "I/O Operations", "Conditions", "Built-in Functions"},
	TopicDb2: {"SQL DML", "SQL DDL", "Indexing", "Joins", "Constraints"},
}

// Topics returns the supported topics in a fixed order.
func Topics() []Topic {
	return []Topic{TopicPLI, TopicDb2}
}

// Subtopics returns the subtopics registered for a topic, or nil for an
// unknown topic.
func Subtopics(topic Topic) []string {
	regs, ok := subtopics[topic]
	if !ok {
		return nil
	}
	out := make([]string, len(regs))
	copy(out, regs)
	return out
}

// Difficulties returns the supported difficulty levels from easiest to
// hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyJunior, DifficultyIntermediate, DifficultyAdvanced, DifficultySenior}
}

// Recommended bounds for the number of questions per request. Counts outside
// this range are allowed but logged.
const (
	MinRecommendedCount = 5
	MaxRecommendedCount = 20
)

// GenerationRequest describes one quiz generation attempt.
type GenerationRequest struct {
	Topic      Topic      `json:"topic"`
	Subtopic   string     `json:"subtopic"`
	Count      int        `json:"count"`
	Difficulty Difficulty `json:"difficulty"`
}

// Rejection records why a candidate question from the provider was dropped.
type Rejection struct {
	Index  int    `json:"index"` // position in the provider's list
	Reason string `json:"reason"`
}

// GeneratedQuiz is the outcome of a successful generation attempt. LowYield
// is set when fewer than half of the requested questions survived
// validation; the attempt still succeeds.
type GeneratedQuiz struct {
	ID         string            `json:"id"`
	Request    GenerationRequest `json:"request"`
	Questions  []Question        `json:"questions"`
	Rejections []Rejection       `json:"rejections,omitempty"`
	LowYield   bool              `json:"low_yield"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ReportMeta carries the session metadata handed to the report sink together
// with a Result.
type ReportMeta struct {
	StudentName string     `json:"student_name"`
	Topic       Topic      `json:"topic"`
	Subtopic    string     `json:"subtopic"`
	Difficulty  Difficulty `json:"difficulty"`
	TakenAt     time.Time  `json:"taken_at"`
}

// QuestionResult is the per-question breakdown inside a Result.
type QuestionResult struct {
	QuestionText string `json:"question"`
	ChosenText   string `json:"user_answer"`
	CorrectText  string `json:"correct_answer"`
	IsCorrect    bool   `json:"is_correct"`
	Explanation  string `json:"explanation,omitempty"`
}

// Result is the read-only score snapshot computed from a completed session.
type Result struct {
	Total       int              `json:"total_questions"`
	Correct     int              `json:"correct_answers"`
	Incorrect   int              `json:"incorrect_answers"`
	Percentage  float64          `json:"percentage"`
	Grade       string           `json:"grade"`
	PerQuestion []QuestionResult `json:"questions"`
}
