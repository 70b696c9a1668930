package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mainframequiz"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [result-id]",
		Short: "List archived quiz results, or show one result's answers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := mainframequiz.OpenResultDB(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.CreateTables(); err != nil {
				return err
			}

			if len(args) == 1 {
				return printAnswers(db, args[0])
			}

			results, err := db.GetResults(limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("No archived results yet.")
				return nil
			}

			for _, res := range results {
				fmt.Printf("%s  %s  %-20s %s - %s (%s)  %d/%d  %.1f%%  %s\n",
					res.ID,
					res.TakenAt.Format("2006-01-02 15:04"),
					res.StudentName,
					res.Topic, res.Subtopic, res.Difficulty,
					res.Correct, res.Total,
					res.Percentage, res.Grade)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results to show (0 for all)")
	return cmd
}

func printAnswers(db *mainframequiz.ResultDB, resultID string) error {
	answers, err := db.GetAnswers(resultID)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		fmt.Printf("No answers archived for result %s.\n", resultID)
		return nil
	}

	for i, qr := range answers {
		verdict := "INCORRECT"
		if qr.IsCorrect {
			verdict = "CORRECT"
		}
		fmt.Printf("Q%d: %s\n", i+1, qr.QuestionText)
		fmt.Printf("  Your answer: %s\n", qr.ChosenText)
		fmt.Printf("  Correct answer: %s\n", qr.CorrectText)
		if qr.Explanation != "" {
			fmt.Printf("  Explanation: %s\n", qr.Explanation)
		}
		fmt.Printf("  %s\n\n", verdict)
	}
	return nil
}
