package main

import (
	"math/rand"

	"github.com/spf13/cobra"

	"mainframequiz"
)

var (
	verbose    bool
	configPath string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "PL/I and Db2 quiz system with AI-generated questions",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			mainframequiz.InitLogger(verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			mainframequiz.SyncLogger()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHistoryCmd())
	return cmd
}

func loadConfig() (*mainframequiz.Config, error) {
	return mainframequiz.LoadConfig(configPath)
}

func newRunID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 12)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
