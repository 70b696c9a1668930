package mainframequiz

// Score computes the result record for a completed session. It is a pure
// read: scoring the same session twice yields identical results.
func Score(s *Session) (*Result, error) {
	if s.State() != StateCompleted {
		return nil, ErrQuizNotCompleted
	}

	questions := s.Questions()
	answers := s.Answers()

	total := len(questions)
	if total == 0 {
		// Unreachable through the Session API: loading an empty quiz fails.
		return nil, ErrNothingToScore
	}

	result := &Result{
		Total:       total,
		PerQuestion: make([]QuestionResult, 0, total),
	}

	for i, q := range questions {
		selected, ok := answers[i]
		if !ok {
			// A completed session has an answer for every index.
			return nil, ErrNoAnswerRecorded
		}
		isCorrect := selected == q.CorrectAnswer
		if isCorrect {
			result.Correct++
		}
		result.PerQuestion = append(result.PerQuestion, QuestionResult{
			QuestionText: q.Text,
			ChosenText:   q.Options[selected],
			CorrectText:  q.Options[q.CorrectAnswer],
			IsCorrect:    isCorrect,
			Explanation:  q.Explanation,
		})
	}

	result.Incorrect = result.Total - result.Correct
	result.Percentage = 100 * float64(result.Correct) / float64(result.Total)
	result.Grade = gradeFor(result.Percentage)

	return result, nil
}

// gradeFor maps a percentage to a letter grade using inclusive lower bounds.
func gradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradeRemark returns the descriptive remark shown alongside a letter grade
// in reports.
func GradeRemark(grade string) string {
	switch grade {
	case "A":
		return "Excellent"
	case "B":
		return "Very Good"
	case "C":
		return "Good"
	case "D":
		return "Passing"
	default:
		return "Needs Improvement"
	}
}
