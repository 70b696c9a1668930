package mainframequiz

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ResultDB archives saved quiz results in a sqlite database so past runs can
// be listed and inspected.
type ResultDB struct {
	db *sql.DB
}

// ArchivedResult is one row of the results table.
type ArchivedResult struct {
	ID          string    `json:"id"`
	StudentName string    `json:"student_name"`
	Topic       string    `json:"topic"`
	Subtopic    string    `json:"subtopic"`
	Difficulty  string    `json:"difficulty"`
	Total       int       `json:"total_questions"`
	Correct     int       `json:"correct_answers"`
	Percentage  float64   `json:"percentage"`
	Grade       string    `json:"grade"`
	TakenAt     time.Time `json:"taken_at"`
}

// OpenResultDB opens (and pings) the archive database.
func OpenResultDB(path string) (*ResultDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &ResultDB{db: db}, nil
}

// Close closes the database connection.
func (r *ResultDB) Close() error {
	return r.db.Close()
}

// CreateTables creates the archive tables if they don't exist.
func (r *ResultDB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			student_name TEXT NOT NULL,
			topic TEXT NOT NULL,
			subtopic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			total_questions INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			percentage REAL NOT NULL,
			grade TEXT NOT NULL,
			taken_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS result_answers (
			result_id TEXT NOT NULL,
			question_num INTEGER NOT NULL,
			question TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			explanation TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (result_id) REFERENCES results(id)
		)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveResult archives one result with its per-question breakdown and
// returns the archive ID.
func (r *ResultDB) SaveResult(meta ReportMeta, result *Result) (string, error) {
	id := newID(quizIDLength)

	_, err := r.db.Exec(
		"INSERT INTO results (id, student_name, topic, subtopic, difficulty, total_questions, correct_answers, percentage, grade, taken_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, meta.StudentName, string(meta.Topic), meta.Subtopic, string(meta.Difficulty),
		result.Total, result.Correct, result.Percentage, result.Grade, meta.TakenAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to archive result: %w", err)
	}

	for i, qr := range result.PerQuestion {
		_, err := r.db.Exec(
			"INSERT INTO result_answers (result_id, question_num, question, user_answer, correct_answer, is_correct, explanation) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, i+1, qr.QuestionText, qr.ChosenText, qr.CorrectText, qr.IsCorrect, qr.Explanation,
		)
		if err != nil {
			return "", fmt.Errorf("failed to archive answer %d: %w", i+1, err)
		}
	}

	return id, nil
}

// GetResults retrieves archived results newest first, optionally limited.
func (r *ResultDB) GetResults(limit int) ([]ArchivedResult, error) {
	query := "SELECT id, student_name, topic, subtopic, difficulty, total_questions, correct_answers, percentage, grade, taken_at FROM results ORDER BY taken_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var results []ArchivedResult
	for rows.Next() {
		var res ArchivedResult
		err := rows.Scan(&res.ID, &res.StudentName, &res.Topic, &res.Subtopic, &res.Difficulty,
			&res.Total, &res.Correct, &res.Percentage, &res.Grade, &res.TakenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// GetAnswers retrieves the per-question breakdown for one archived result.
func (r *ResultDB) GetAnswers(resultID string) ([]QuestionResult, error) {
	rows, err := r.db.Query(
		"SELECT question, user_answer, correct_answer, is_correct, explanation FROM result_answers WHERE result_id = ? ORDER BY question_num",
		resultID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []QuestionResult
	for rows.Next() {
		var qr QuestionResult
		if err := rows.Scan(&qr.QuestionText, &qr.ChosenText, &qr.CorrectText, &qr.IsCorrect, &qr.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, qr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}

	return answers, nil
}
