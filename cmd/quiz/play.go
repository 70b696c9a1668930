package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mainframequiz"
)

func newPlayCmd() *cobra.Command {
	var (
		name       string
		topic      string
		subtopic   string
		difficulty string
		count      int
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Generate a quiz and take it in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := mainframequiz.GenerationRequest{
				Topic:      mainframequiz.Topic(topic),
				Subtopic:   subtopic,
				Count:      count,
				Difficulty: mainframequiz.Difficulty(difficulty),
			}
			return runPlay(cmd.Context(), name, req)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "student name (required)")
	cmd.Flags().StringVar(&topic, "topic", string(mainframequiz.TopicPLI), "quiz topic (PL/I or Db2)")
	cmd.Flags().StringVar(&subtopic, "subtopic", "", "subtopic within the topic (required)")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(mainframequiz.DifficultyIntermediate), "difficulty level (Junior, Intermediate, Advanced, Senior)")
	cmd.Flags().IntVar(&count, "count", 10, "number of questions (recommended 5-20)")
	cobra.CheckErr(cmd.MarkFlagRequired("name"))
	cobra.CheckErr(cmd.MarkFlagRequired("subtopic"))

	return cmd
}

func runPlay(ctx context.Context, studentName string, req mainframequiz.GenerationRequest) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	generator, cleanup, err := buildGenerator(cfg, req)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Generating %d %s-level questions about %s - %s...\n", req.Count, req.Difficulty, req.Topic, req.Subtopic)
	fmt.Println("This may take a moment. Please wait.")
	fmt.Println()

	genCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	quiz, err := generator.Generate(genCtx, req)
	if err != nil {
		return describeFailure(err)
	}
	if quiz.LowYield {
		fmt.Printf("Warning: only %d of %d requested questions passed validation.\n\n", len(quiz.Questions), req.Count)
	}

	session := mainframequiz.NewSession()
	if err := session.Load(quiz.Questions); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	letters := []string{"A", "B", "C", "D"}

	for session.State() == mainframequiz.StateInProgress {
		q, err := session.Current()
		if err != nil {
			return err
		}

		fmt.Printf("Question %d of %d:\n", session.Cursor()+1, session.Len())
		fmt.Printf("%s\n\n", q.Text)
		for i, option := range q.Options {
			fmt.Printf("  %s) %s\n", letters[i], option)
		}
		fmt.Println()

		if selected, ok := session.Selected(); ok {
			fmt.Printf("Current answer: %s\n", letters[selected])
		}

		prompt := "Answer (A/B/C/D"
		if session.Cursor() > 0 {
			prompt += ", P for previous"
		}
		prompt += "): "

		var idx int
		for {
			fmt.Print(prompt)
			if !scanner.Scan() {
				return fmt.Errorf("input closed before the quiz was completed")
			}
			input := strings.ToUpper(strings.TrimSpace(scanner.Text()))

			if input == "P" {
				if err := session.Retreat(); err != nil {
					fmt.Println(err)
					continue
				}
				idx = -1
				break
			}

			idx = strings.Index("ABCD", input)
			if input != "" && len(input) == 1 && idx >= 0 {
				break
			}
			fmt.Println("Please enter A, B, C, or D")
		}

		if idx < 0 {
			fmt.Println()
			continue
		}

		if err := session.Answer(idx); err != nil {
			return err
		}
		if err := session.Advance(); err != nil {
			return err
		}
		fmt.Println()
	}

	result, err := mainframequiz.Score(session)
	if err != nil {
		return err
	}

	printResults(studentName, req, result)

	meta := mainframequiz.ReportMeta{
		StudentName: studentName,
		Topic:       quiz.Request.Topic,
		Subtopic:    quiz.Request.Subtopic,
		Difficulty:  quiz.Request.Difficulty,
		TakenAt:     time.Now(),
	}

	storage, err := mainframequiz.NewResultStorage(cfg.ResultsDir)
	if err != nil {
		return err
	}
	reportPath, err := storage.Save(meta, result)
	if err != nil {
		return err
	}
	fmt.Printf("Report saved to: %s\n", reportPath)

	db, err := mainframequiz.OpenResultDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.CreateTables(); err != nil {
		return err
	}
	if _, err := db.SaveResult(meta, result); err != nil {
		return err
	}

	return nil
}

// buildGenerator wires the provider and transcript logger for one attempt.
// A missing API key leaves the provider nil so the pipeline reports
// ErrProviderUnavailable itself.
func buildGenerator(cfg *mainframequiz.Config, req mainframequiz.GenerationRequest) (*mainframequiz.Generator, func(), error) {
	var provider mainframequiz.Provider
	if cfg.OpenAIAPIKey != "" {
		p, err := mainframequiz.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		provider = p
	}

	generator := mainframequiz.NewGenerator(provider)
	cleanup := func() {}

	transcript, err := mainframequiz.NewTranscriptLogger("log", newRunID(), req)
	if err == nil {
		generator.SetTranscript(transcript)
		cleanup = func() { transcript.Close() }
	}
	// A transcript failure is not fatal to the quiz itself.

	return generator, cleanup, nil
}

// describeFailure maps pipeline failures to actionable messages so the user
// can tell a configuration problem from a transient service issue.
func describeFailure(err error) error {
	var genErr *mainframequiz.GenerationError
	switch {
	case errors.Is(err, mainframequiz.ErrProviderUnavailable):
		return fmt.Errorf("%w\n\nPlease ensure the OPENAI_API_KEY environment variable is set", err)
	case errors.As(err, &genErr):
		return fmt.Errorf("%w\n\nPlease check your API key and internet connection, then try again", err)
	default:
		// Unparseable or empty responses: retrying usually helps.
		return fmt.Errorf("%w\n\nThe provider returned unusable output; try again", err)
	}
}

func printResults(studentName string, req mainframequiz.GenerationRequest, result *mainframequiz.Result) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Quiz Results")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Student: %s\n", studentName)
	fmt.Printf("Topic: %s - %s (%s)\n", req.Topic, req.Subtopic, req.Difficulty)
	fmt.Printf("Score: %d/%d (%.1f%%)\n", result.Correct, result.Total, result.Percentage)
	fmt.Printf("Grade: %s - %s\n", result.Grade, mainframequiz.GradeRemark(result.Grade))
	fmt.Println()

	for i, qr := range result.PerQuestion {
		verdict := "INCORRECT"
		if qr.IsCorrect {
			verdict = "CORRECT"
		}
		fmt.Printf("Q%d: %s\n", i+1, qr.QuestionText)
		fmt.Printf("  Your answer: %s\n", qr.ChosenText)
		if !qr.IsCorrect {
			fmt.Printf("  Correct answer: %s\n", qr.CorrectText)
		}
		if qr.Explanation != "" {
			fmt.Printf("  Explanation: %s\n", qr.Explanation)
		}
		fmt.Printf("  %s\n\n", verdict)
	}
}
